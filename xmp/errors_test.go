package xmp

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"sentinel", ErrNotFound, ErrCodeNotFound},
		{"wrapped", fmt.Errorf("outer: %w", ErrDuplicateProperty), ErrCodeDuplicateProperty},
		{"errorf", errorf(ErrIndexOutOfRange, "index %d", 7), ErrCodeIndexOutOfRange},
		{"parse error", &ParseError{Line: 1, Err: ErrMalformedXML}, ErrCodeMalformedXML},
		{"foreign", errors.New("boom"), ErrCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{
		Excerpt: `<rdf:Description dc:format=image/png>`,
		Line:    3,
		Column:  28,
		Offset:  -1,
		Err:     ErrMalformedXML,
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "xmp:3:28: xmp: malformed XML") {
		t.Fatalf("unexpected message %q", msg)
	}
	lines := strings.Split(msg, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected excerpt and caret lines, got %q", msg)
	}
	caret := strings.Index(lines[2], "^")
	if lines[1][caret] != 'i' {
		t.Fatalf("caret points at %q, want the attribute value", lines[1][caret])
	}
	if !errors.Is(err, ErrMalformedXML) {
		t.Fatal("ParseError does not unwrap to its cause")
	}
}

func TestParseErrorOffsetOnly(t *testing.T) {
	err := &ParseError{Offset: 12, Err: ErrMalformedPacket}
	if got := err.Error(); got != "xmp (offset 12): xmp: malformed packet wrapper" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestParseErrorLongExcerpt(t *testing.T) {
	line := strings.Repeat("a", 100) + "!" + strings.Repeat("b", 100)
	err := &ParseError{Excerpt: line, Line: 1, Column: 101, Err: ErrInvalidRDF}
	excerpt := err.formatExcerpt()
	if !strings.HasPrefix(excerpt, "...") || !strings.Contains(excerpt, "...\n") {
		t.Fatalf("expected a trimmed excerpt, got %q", excerpt)
	}
	parts := strings.Split(excerpt, "\n  ")
	if parts[0][strings.Index(parts[1], "^")] != '!' {
		t.Fatalf("caret misplaced in %q", excerpt)
	}
}

func TestWrapParseErrorKeepsInnerPosition(t *testing.T) {
	inner := &ParseError{Line: 2, Column: 5, Err: ErrInvalidRDF}
	got := wrapParseError([]byte("a\nb"), 9, 9, 0, inner)
	var pe *ParseError
	if !errors.As(got, &pe) || pe.Line != 2 || pe.Column != 5 {
		t.Fatalf("expected the inner position to win, got %v", got)
	}
	if wrapParseError(nil, 1, 1, 0, nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestLineExcerpt(t *testing.T) {
	input := []byte("first\r\nsecond\nthird")
	tests := []struct {
		line int
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := lineExcerpt(input, tt.line); got != tt.want {
			t.Fatalf("line %d: expected %q, got %q", tt.line, tt.want, got)
		}
	}
}
