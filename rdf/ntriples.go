package rdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrWriterClosed is returned by Write after Close.
var ErrWriterClosed = errors.New("ntriples: writer closed")

// NTriplesWriter writes triples as N-Triples lines. Output is buffered
// until Flush or Close; the first write error sticks.
type NTriplesWriter struct {
	bw     *bufio.Writer
	closed bool
	err    error
}

// NewNTriplesWriter returns a writer on w.
func NewNTriplesWriter(w io.Writer) *NTriplesWriter {
	return &NTriplesWriter{bw: bufio.NewWriter(w)}
}

// Write appends one statement.
func (w *NTriplesWriter) Write(t Triple) error {
	switch {
	case w.err != nil:
		return w.err
	case w.closed:
		return ErrWriterClosed
	case t.S == nil || t.P.Value == "" || t.O == nil:
		return errors.New("ntriples: incomplete statement")
	}
	if _, ok := t.S.(Literal); ok {
		return fmt.Errorf("ntriples: literal subject %s", t.S)
	}
	if _, err := w.bw.WriteString(t.String() + "\n"); err != nil {
		w.err = err
	}
	return w.err
}

// Flush writes buffered statements through.
func (w *NTriplesWriter) Flush() error {
	if w.err == nil {
		w.err = w.bw.Flush()
	}
	return w.err
}

// Close flushes the writer. Writes after Close fail with ErrWriterClosed.
func (w *NTriplesWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.Flush()
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// escapeIRI writes characters not allowed between < and > as UCHARs.
func escapeIRI(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
