package xmp

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind identifies a path step.
type SegmentKind int

const (
	// SegField selects a top-level property or a struct field.
	SegField SegmentKind = iota
	// SegIndex selects a 1-based array item, or the last item for LastItem.
	SegIndex
	// SegQualifier selects a qualifier of the current node.
	SegQualifier
	// SegLang selects the array item whose xml:lang matches.
	SegLang
)

// LastItem is the Index of a [last()] step.
const LastItem = -1

// Segment is one step of a Path.
type Segment struct {
	Kind      SegmentKind
	Namespace string
	Name      string
	Index     int
	Lang      string
}

// Path addresses a node below a top-level property. The first segment
// names the property itself.
type Path []Segment

// P starts a path at the top-level property name. The namespace is
// supplied to the Document method the path is used with.
func P(name string) Path {
	return Path{{Kind: SegField, Name: name}}
}

// Field appends a struct field step.
func (p Path) Field(ns, name string) Path {
	return p.with(Segment{Kind: SegField, Namespace: ns, Name: name})
}

// Index appends a 1-based array item step.
func (p Path) Index(i int) Path {
	return p.with(Segment{Kind: SegIndex, Index: i})
}

// Last appends a [last()] step.
func (p Path) Last() Path {
	return p.with(Segment{Kind: SegIndex, Index: LastItem})
}

// Qualifier appends a qualifier step.
func (p Path) Qualifier(ns, name string) Path {
	return p.with(Segment{Kind: SegQualifier, Namespace: ns, Name: name})
}

// Lang appends a language selector step.
func (p Path) Lang(lang string) Path {
	return p.with(Segment{Kind: SegLang, Lang: normalizeLang(lang)})
}

func (p Path) with(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// Root returns the top-level property name.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0].Name
}

// String renders the path in XMP path syntax using DefaultRegistry prefixes.
func (p Path) String() string {
	return p.Format(DefaultRegistry)
}

// Format renders the path in XMP path syntax, e.g.
// dc:creator[1] or xmpMM:History[last()]/stEvt:action.
// Namespaces unknown to r are written in {uri} form.
func (p Path) Format(r *Registry) string {
	var b strings.Builder
	qualified := func(ns, name string) string {
		if ns == "" {
			return name
		}
		if prefix, err := r.Prefix(ns); err == nil {
			return prefix + ":" + name
		}
		return "{" + ns + "}" + name
	}
	for i, s := range p {
		switch s.Kind {
		case SegField:
			if i > 0 {
				b.WriteByte('/')
			}
			b.WriteString(qualified(s.Namespace, s.Name))
		case SegIndex:
			if s.Index == LastItem {
				b.WriteString("[last()]")
			} else {
				fmt.Fprintf(&b, "[%d]", s.Index)
			}
		case SegQualifier:
			b.WriteString("/?")
			b.WriteString(qualified(s.Namespace, s.Name))
		case SegLang:
			fmt.Fprintf(&b, "[?xml:lang=%q]", s.Lang)
		}
	}
	return b.String()
}

// ParsePath parses an XMP path expression and returns the namespace of
// its top-level property along with the path. Prefixes are resolved with r.
//
// Supported steps: prefix:name, /prefix:field, [n], [last()],
// /?prefix:qualifier and [?xml:lang="tag"].
func ParsePath(expr string, r *Registry) (string, Path, error) {
	if r == nil {
		r = DefaultRegistry
	}
	ps := pathScanner{expr: expr, registry: r}
	ns, name, err := ps.qname()
	if err != nil {
		return "", nil, err
	}
	path := Path{{Kind: SegField, Namespace: ns, Name: name}}
	for !ps.done() {
		seg, err := ps.step()
		if err != nil {
			return "", nil, err
		}
		path = append(path, seg)
	}
	return ns, path, nil
}

type pathScanner struct {
	expr     string
	pos      int
	registry *Registry
}

func (s *pathScanner) done() bool { return s.pos >= len(s.expr) }

func (s *pathScanner) fail(format string, args ...any) error {
	return fmt.Errorf("%w: %q at %d: %s", ErrInvalidPath, s.expr, s.pos, fmt.Sprintf(format, args...))
}

func (s *pathScanner) qname() (string, string, error) {
	start := s.pos
	for s.pos < len(s.expr) && !strings.ContainsRune("/[]?=", rune(s.expr[s.pos])) {
		s.pos++
	}
	token := s.expr[start:s.pos]
	prefix, name, ok := strings.Cut(token, ":")
	if !ok {
		return "", "", s.fail("step %q has no prefix", token)
	}
	if !isNCName(prefix) || !isNCName(name) {
		return "", "", s.fail("bad qualified name %q", token)
	}
	ns, err := s.registry.URI(prefix)
	if err != nil {
		return "", "", fmt.Errorf("%w: unknown prefix %q in %q", ErrInvalidPath, prefix, s.expr)
	}
	return ns, name, nil
}

func (s *pathScanner) step() (Segment, error) {
	switch s.expr[s.pos] {
	case '/':
		s.pos++
		if s.pos < len(s.expr) && s.expr[s.pos] == '?' {
			s.pos++
			ns, name, err := s.qname()
			if err != nil {
				return Segment{}, err
			}
			return Segment{Kind: SegQualifier, Namespace: ns, Name: name}, nil
		}
		ns, name, err := s.qname()
		if err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegField, Namespace: ns, Name: name}, nil
	case '[':
		end := strings.IndexByte(s.expr[s.pos:], ']')
		if end < 0 {
			return Segment{}, s.fail("unterminated [")
		}
		body := s.expr[s.pos+1 : s.pos+end]
		s.pos += end + 1
		return s.selector(body)
	}
	return Segment{}, s.fail("unexpected %q", s.expr[s.pos])
}

func (s *pathScanner) selector(body string) (Segment, error) {
	if body == "last()" {
		return Segment{Kind: SegIndex, Index: LastItem}, nil
	}
	if strings.HasPrefix(body, "?") {
		name, value, ok := strings.Cut(body[1:], "=")
		if !ok || name != "xml:lang" {
			return Segment{}, s.fail("unsupported selector [%s]", body)
		}
		lang, err := unquoteSelector(value)
		if err != nil {
			return Segment{}, s.fail("%v", err)
		}
		return Segment{Kind: SegLang, Lang: normalizeLang(lang)}, nil
	}
	idx, err := strconv.Atoi(body)
	if err != nil || idx < 1 {
		return Segment{}, s.fail("bad array index [%s]", body)
	}
	return Segment{Kind: SegIndex, Index: idx}, nil
}

func unquoteSelector(v string) (string, error) {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1], nil
	}
	return "", fmt.Errorf("selector value %s must be quoted", v)
}
