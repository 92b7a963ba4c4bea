package xmp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode names an error class independently of its message.
type ErrorCode string

const (
	// ErrCodeMalformedPacket indicates a broken xpacket wrapper.
	ErrCodeMalformedPacket ErrorCode = "MALFORMED_PACKET"
	// ErrCodeMalformedXML indicates the packet body is not well-formed XML.
	ErrCodeMalformedXML ErrorCode = "MALFORMED_XML"
	// ErrCodeInvalidRDF indicates the XML does not follow the XMP RDF grammar.
	ErrCodeInvalidRDF ErrorCode = "INVALID_RDF"
	// ErrCodeDuplicateProperty indicates a property was defined twice with different values.
	ErrCodeDuplicateProperty ErrorCode = "DUPLICATE_PROPERTY"
	// ErrCodePathTypeConflict indicates a path step disagrees with the node it reaches.
	ErrCodePathTypeConflict ErrorCode = "PATH_TYPE_CONFLICT"
	// ErrCodeIndexOutOfRange indicates an invalid 1-based array index.
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
	// ErrCodeInvalidNamespace indicates an empty or malformed namespace URI or prefix.
	ErrCodeInvalidNamespace ErrorCode = "INVALID_NAMESPACE"
	// ErrCodeNotFound indicates a lookup found nothing.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeWrongType indicates a stored value does not have the requested type.
	ErrCodeWrongType ErrorCode = "WRONG_TYPE"
	// ErrCodeInvalidValue indicates a value cannot be encoded.
	ErrCodeInvalidValue ErrorCode = "INVALID_VALUE"
	// ErrCodeDepthExceeded indicates nesting deeper than the configured limit.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"
	// ErrCodeSerialize indicates contradictory serialization options.
	ErrCodeSerialize ErrorCode = "SERIALIZE_ERROR"
	// ErrCodeInvalidPath indicates a path expression that cannot be parsed.
	ErrCodeInvalidPath ErrorCode = "INVALID_PATH"
	// ErrCodeUnknown is returned for errors outside the XMP taxonomy.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var (
	// ErrMalformedPacket indicates an xpacket wrapper that is opened but never closed.
	ErrMalformedPacket = errors.New("xmp: malformed packet wrapper")
	// ErrMalformedXML indicates an XML tokenizer failure.
	ErrMalformedXML = errors.New("xmp: malformed XML")
	// ErrInvalidRDF indicates a structural violation of the RDF grammar subset.
	ErrInvalidRDF = errors.New("xmp: invalid RDF")
	// ErrDuplicateProperty indicates conflicting definitions of the same property.
	ErrDuplicateProperty = errors.New("xmp: duplicate property")
	// ErrPathTypeConflict indicates a path step that does not fit the existing node.
	ErrPathTypeConflict = errors.New("xmp: path type conflict")
	// ErrIndexOutOfRange indicates an array index outside the valid 1-based range.
	ErrIndexOutOfRange = errors.New("xmp: index out of range")
	// ErrInvalidNamespace indicates an empty or malformed namespace.
	ErrInvalidNamespace = errors.New("xmp: invalid namespace")
	// ErrNotFound indicates an absent namespace, prefix or property.
	ErrNotFound = errors.New("xmp: not found")
	// ErrWrongType indicates a typed getter could not interpret the stored value.
	ErrWrongType = errors.New("xmp: wrong type")
	// ErrInvalidValue indicates a typed setter was given a value it cannot encode.
	ErrInvalidValue = errors.New("xmp: invalid value")
	// ErrDepthExceeded indicates that nesting depth exceeded the configured limit.
	ErrDepthExceeded = errors.New("xmp: nesting depth exceeded configured limit")
	// ErrSerialize indicates conflicting serialize options or a tree that cannot be written.
	ErrSerialize = errors.New("xmp: cannot serialize")
	// ErrInvalidPath indicates a malformed path expression.
	ErrInvalidPath = errors.New("xmp: invalid path")
)

var errorCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrMalformedPacket, ErrCodeMalformedPacket},
	{ErrMalformedXML, ErrCodeMalformedXML},
	{ErrInvalidRDF, ErrCodeInvalidRDF},
	{ErrDuplicateProperty, ErrCodeDuplicateProperty},
	{ErrPathTypeConflict, ErrCodePathTypeConflict},
	{ErrIndexOutOfRange, ErrCodeIndexOutOfRange},
	{ErrInvalidNamespace, ErrCodeInvalidNamespace},
	{ErrNotFound, ErrCodeNotFound},
	{ErrWrongType, ErrCodeWrongType},
	{ErrInvalidValue, ErrCodeInvalidValue},
	{ErrDepthExceeded, ErrCodeDepthExceeded},
	{ErrSerialize, ErrCodeSerialize},
	{ErrInvalidPath, ErrCodeInvalidPath},
}

// Code classifies err. It returns "" for nil and ErrCodeUnknown for errors
// that wrap none of the sentinels above.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ErrCodeUnknown
}

// ParseError locates a parse failure in the input.
type ParseError struct {
	Excerpt string // the input line holding the failure, if known
	Line    int    // 1-based; 0 when unknown
	Column  int    // 1-based byte column; 0 when unknown
	Offset  int    // byte offset into the input; -1 when unknown
	Err     error
}

func (e *ParseError) Error() string {
	pos := ""
	switch {
	case e.Line > 0 && e.Column > 0:
		pos = fmt.Sprintf(":%d:%d", e.Line, e.Column)
	case e.Line > 0:
		pos = fmt.Sprintf(":%d", e.Line)
	case e.Offset >= 0:
		pos = fmt.Sprintf(" (offset %d)", e.Offset)
	}
	msg := "xmp" + pos + ": " + e.Err.Error()
	if ex := e.formatExcerpt(); ex != "" {
		msg += "\n  " + ex
	}
	return msg
}

// excerptWindow is the number of bytes shown on each side of the failing
// column.
const excerptWindow = 40

// formatExcerpt renders the line around the failing column with a caret
// line below it.
func (e *ParseError) formatExcerpt() string {
	line := e.Excerpt
	if line == "" {
		return ""
	}
	if e.Column <= 0 {
		if len(line) > 2*excerptWindow {
			return line[:2*excerptWindow] + "..."
		}
		return line
	}
	col := min(e.Column-1, len(line))
	from, to := max(col-excerptWindow, 0), min(col+excerptWindow, len(line))
	shown, caret := line[from:to], col-from
	if from > 0 {
		shown, caret = "..."+shown, caret+3
	}
	if to < len(line) {
		shown += "..."
	}
	return shown + "\n  " + strings.Repeat(" ", caret) + "^"
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError attaches position information to err. Existing position
// information on a nested ParseError wins over the supplied one.
func wrapParseError(input []byte, line, column, offset int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	return &ParseError{
		Excerpt: lineExcerpt(input, line),
		Line:    line,
		Column:  column,
		Offset:  offset,
		Err:     err,
	}
}

// lineExcerpt returns the 1-based line of input, without its terminator.
func lineExcerpt(input []byte, line int) string {
	if line <= 0 {
		return ""
	}
	current := 1
	start := 0
	for i, b := range input {
		if b != '\n' {
			continue
		}
		if current == line {
			return strings.TrimRight(string(input[start:i]), "\r")
		}
		current++
		start = i + 1
	}
	if current == line {
		return strings.TrimRight(string(input[start:]), "\r")
	}
	return ""
}

// errorf wraps sentinel with a formatted detail message.
func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
