package xmp

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	packetHeaderStart  = "<?xpacket begin="
	packetTrailerStart = "<?xpacket end="
	packetID           = "W5M0MpCehiHzreSzNTczkc9d"
)

var encodingDeclPattern = regexp.MustCompile(`^<\?xml[^>]*?encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// decodeCharset converts the input to UTF-8. A UTF-8 or UTF-16 byte order
// mark wins; BOM-less UTF-16 is recognized from the leading '<'; otherwise
// the encoding declared in the XML declaration is honored.
func decodeCharset(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}),
		bytes.HasPrefix(data, []byte{0xFE, 0xFF}),
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return transcode(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	case bytes.HasPrefix(data, []byte{0x00, '<'}):
		return transcode(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), data)
	case bytes.HasPrefix(data, []byte{'<', 0x00}):
		return transcode(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), data)
	}

	m := encodingDeclPattern.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(m[1]))
	switch label {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return data, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrMalformedXML, m[1])
	}
	return transcode(enc.NewDecoder(), data)
}

func transcode(t transform.Transformer, data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}
	return out, nil
}

// packet is the XML body of an XMP packet and where it starts in the input.
type packet struct {
	body     []byte
	offset   int
	line     int
	column   int
	wrapped  bool
	readOnly bool
}

// locatePacket strips the <?xpacket?> header and trailer. Input without a
// header is returned whole; a header without trailer, or a trailer without
// header, is ErrMalformedPacket.
func locatePacket(text []byte) (packet, error) {
	start := bytes.Index(text, []byte(packetHeaderStart))
	trailer := bytes.LastIndex(text, []byte(packetTrailerStart))
	if start < 0 {
		if trailer >= 0 {
			line, col := positionOf(text, trailer)
			return packet{}, &ParseError{
				Excerpt: lineExcerpt(text, line), Line: line, Column: col, Offset: trailer,
				Err: errorf(ErrMalformedPacket, "packet trailer without header"),
			}
		}
		return packet{body: text, line: 1, column: 1}, nil
	}

	headerEnd := bytes.Index(text[start:], []byte("?>"))
	if headerEnd < 0 {
		line, col := positionOf(text, start)
		return packet{}, &ParseError{
			Excerpt: lineExcerpt(text, line), Line: line, Column: col, Offset: start,
			Err: errorf(ErrMalformedPacket, "unterminated packet header"),
		}
	}
	bodyStart := start + headerEnd + 2
	if trailer < bodyStart {
		line, col := positionOf(text, start)
		return packet{}, &ParseError{
			Excerpt: lineExcerpt(text, line), Line: line, Column: col, Offset: start,
			Err: errorf(ErrMalformedPacket, "packet header is never closed by a trailer"),
		}
	}
	trailerEnd := bytes.Index(text[trailer:], []byte("?>"))
	if trailerEnd < 0 {
		line, col := positionOf(text, trailer)
		return packet{}, &ParseError{
			Excerpt: lineExcerpt(text, line), Line: line, Column: col, Offset: trailer,
			Err: errorf(ErrMalformedPacket, "unterminated packet trailer"),
		}
	}
	attrs := text[trailer+len(packetTrailerStart) : trailer+trailerEnd]
	line, col := positionOf(text, bodyStart)
	return packet{
		body:     text[bodyStart:trailer],
		offset:   bodyStart,
		line:     line,
		column:   col,
		wrapped:  true,
		readOnly: bytes.Contains(attrs, []byte("r")),
	}, nil
}

// positionOf returns the 1-based line and column of a byte offset.
func positionOf(text []byte, offset int) (int, int) {
	if offset > len(text) {
		offset = len(text)
	}
	head := text[:offset]
	line := bytes.Count(head, []byte{'\n'}) + 1
	col := offset - bytes.LastIndexByte(head, '\n')
	return line, col
}
