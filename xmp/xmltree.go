package xmp

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// xmlElement is a namespace-resolved element of the packet body.
type xmlElement struct {
	name     QName
	prefix   string
	attrs    []xmlAttr
	children []*xmlElement
	text     string
	line     int
	column   int
}

type xmlAttr struct {
	name   QName
	prefix string
	value  string
}

func (el *xmlElement) is(ns, local string) bool {
	return el.name.Namespace == ns && el.name.Name == local
}

// hasText reports whether the element holds non-whitespace character data.
func (el *xmlElement) hasText() bool {
	return strings.TrimSpace(el.text) != ""
}

func (el *xmlElement) qualifiedName() string {
	if el.prefix == "" {
		return el.name.Name
	}
	return el.prefix + ":" + el.name.Name
}

// treeBuilder turns the packet body into xmlElements. Namespace prefixes
// are resolved with its own scope stack so the input prefixes survive.
type treeBuilder struct {
	input    []byte
	pkt      packet
	registry *Registry
	maxDepth int
	log      *zap.Logger

	scope        NamespaceScope
	deprecatedDC bool
}

func (b *treeBuilder) build() (*xmlElement, error) {
	dec := xml.NewDecoder(bytes.NewReader(b.pkt.body))
	dec.Strict = true
	// Input has already been converted to UTF-8.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		root     *xmlElement
		stack    []*xmlElement
		rawNames []xml.Name
		text     [][]byte
	)
	for {
		line, col := dec.InputPos()
		offset := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			eline, ecol := dec.InputPos()
			var syntaxErr *xml.SyntaxError
			msg := err.Error()
			if errors.As(err, &syntaxErr) {
				msg = syntaxErr.Msg
			}
			return nil, b.errorAt(eline, ecol, int(dec.InputOffset()), fmt.Errorf("%w: %s", ErrMalformedXML, msg))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if b.maxDepth > 0 && len(stack) >= b.maxDepth {
				return nil, b.errorAt(line, col, int(offset), fmt.Errorf("%w: more than %d nested elements", ErrDepthExceeded, b.maxDepth))
			}
			if root != nil && len(stack) == 0 {
				return nil, b.errorAt(line, col, int(offset), errorf(ErrMalformedXML, "more than one root element"))
			}
			el, err := b.startElement(t, line, col)
			if err != nil {
				return nil, b.errorAt(line, col, int(offset), err)
			}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
			rawNames = append(rawNames, t.Name)
			text = append(text, nil)
		case xml.EndElement:
			if len(stack) == 0 || rawNames[len(rawNames)-1] != t.Name {
				return nil, b.errorAt(line, col, int(offset), errorf(ErrMalformedXML, "unexpected end element </%s>", rawName(t.Name)))
			}
			top := len(stack) - 1
			stack[top].text = string(text[top])
			stack, rawNames, text = stack[:top], rawNames[:top], text[:top]
			b.scope.Pop()
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, b.errorAt(line, col, int(offset), errorf(ErrMalformedXML, "character data outside the root element"))
				}
				continue
			}
			text[len(text)-1] = append(text[len(text)-1], t...)
		case xml.Directive:
			b.log.Debug("ignoring XML directive", zap.Int("line", line))
		}
	}
	if len(stack) > 0 {
		line, col := dec.InputPos()
		return nil, b.errorAt(line, col, int(dec.InputOffset()), errorf(ErrMalformedXML, "element <%s> is never closed", rawName(rawNames[len(rawNames)-1])))
	}
	if root == nil {
		return nil, b.errorAt(0, 0, -1, errorf(ErrMalformedXML, "no root element"))
	}
	return root, nil
}

func (b *treeBuilder) startElement(t xml.StartElement, line, col int) (*xmlElement, error) {
	bindings := make(map[string]string)
	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "xmlns":
			bindings[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			bindings[""] = a.Value
		}
	}
	b.scope.Push(bindings)

	ns, err := b.resolve(t.Name.Space, true)
	if err != nil {
		return nil, err
	}
	absLine, absCol := b.absolute(line, col)
	el := &xmlElement{
		name:   QName{ns, t.Name.Local},
		prefix: t.Name.Space,
		line:   absLine,
		column: absCol,
	}
	seen := make(map[QName]bool, len(t.Attr))
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		attrNS := ""
		if a.Name.Space != "" {
			if attrNS, err = b.resolve(a.Name.Space, false); err != nil {
				return nil, err
			}
		}
		key := QName{attrNS, a.Name.Local}
		if seen[key] {
			return nil, errorf(ErrMalformedXML, "duplicate attribute %s", rawName(a.Name))
		}
		seen[key] = true
		el.attrs = append(el.attrs, xmlAttr{name: key, prefix: a.Name.Space, value: a.Value})
	}
	return el, nil
}

// resolve maps a prefix to its namespace URI. Unprefixed attributes have
// no namespace; unprefixed elements take the default namespace.
func (b *treeBuilder) resolve(prefix string, element bool) (string, error) {
	if prefix == "" && !element {
		return "", nil
	}
	uri, err := b.registry.ResolveURI(prefix, &b.scope)
	if err != nil {
		if prefix == "" {
			return "", nil
		}
		return "", fmt.Errorf("%w: undeclared namespace prefix %q", ErrMalformedXML, prefix)
	}
	if uri == NSDCDeprecated {
		if !b.deprecatedDC {
			b.log.Debug("remapping deprecated Dublin Core namespace", zap.String("uri", uri))
		}
		b.deprecatedDC = true
		return NSDC, nil
	}
	return uri, nil
}

// absolute converts a body position to a position in the whole input.
func (b *treeBuilder) absolute(line, col int) (int, int) {
	if line == 1 {
		col += b.pkt.column - 1
	}
	return line + b.pkt.line - 1, col
}

func (b *treeBuilder) errorAt(line, col, offset int, err error) error {
	if line > 0 {
		line, col = b.absolute(line, col)
	}
	if offset >= 0 {
		offset += b.pkt.offset
	}
	return wrapParseError(b.input, line, col, offset, err)
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
