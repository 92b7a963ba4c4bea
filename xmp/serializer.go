package xmp

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
)

var (
	textEscaper = strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// Serialize renders d as an XMP packet. The output depends only on d and
// opts. Nothing is returned when an error occurs.
func Serialize(d *Document, opts SerializeOptions) ([]byte, error) {
	if d == nil {
		return nil, errorf(ErrSerialize, "nil document")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := d.root.validate(0, d.maxDepth); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	s := newSerializer(d, opts.withDefaults())
	return s.packet(), nil
}

// SerializeToString is Serialize returning a string.
func SerializeToString(d *Document, opts SerializeOptions) (string, error) {
	out, err := Serialize(d, opts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// SerializeTo writes the packet to w. The packet is rendered completely
// before the first write.
func SerializeTo(w io.Writer, d *Document, opts SerializeOptions) error {
	out, err := Serialize(d, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

type serializer struct {
	doc  *Document
	opts SerializeOptions

	nsToPref map[string]string
	taken    map[string]string
	firstUse map[string]int
	autoSeq  int
}

func newSerializer(d *Document, opts SerializeOptions) *serializer {
	s := &serializer{
		doc:      d,
		opts:     opts,
		nsToPref: map[string]string{NSXML: "xml", NSRDF: "rdf", NSX: "x"},
		taken:    map[string]string{"xml": NSXML, "rdf": NSRDF, "x": NSX},
		firstUse: map[string]int{},
	}
	uris := make([]string, 0, len(d.prefixes))
	for uri := range d.prefixes {
		uris = append(uris, uri)
	}
	slices.Sort(uris)
	for _, uri := range uris {
		s.assign(uri, d.prefixes[uri])
	}
	return s
}

// assign gives uri a prefix unique within this output.
func (s *serializer) assign(uri, want string) string {
	if p, ok := s.nsToPref[uri]; ok {
		return p
	}
	if !isNCName(want) || strings.HasPrefix(strings.ToLower(want), "xml") {
		want = "ns"
	}
	prefix := want
	for i := 1; ; i++ {
		if _, clash := s.taken[prefix]; !clash {
			break
		}
		prefix = fmt.Sprintf("%s_%d_", want, i)
	}
	s.nsToPref[uri] = prefix
	s.taken[prefix] = uri
	return prefix
}

func (s *serializer) prefixOf(uri string) string {
	if p, ok := s.nsToPref[uri]; ok {
		return p
	}
	want, err := s.doc.registry.Prefix(uri)
	if err != nil {
		s.autoSeq++
		want = fmt.Sprintf("ns%d", s.autoSeq)
	}
	return s.assign(uri, want)
}

// qname returns the prefixed name of key and records its namespace as used.
func (s *serializer) qname(key QName) string {
	prefix := s.prefixOf(key.Namespace)
	if _, seen := s.firstUse[key.Namespace]; !seen {
		s.firstUse[key.Namespace] = len(s.firstUse)
	}
	return prefix + ":" + key.Name
}

func (s *serializer) packet() []byte {
	// The body is rendered first so the namespaces it uses are known when
	// the rdf:Description start tag is written.
	var body bytes.Buffer
	level := 3
	if s.opts.OmitXMPMeta {
		level = 2
	}
	attrs, hasChildren := s.properties(&body, level)

	var out bytes.Buffer
	if !s.opts.OmitPacketWrapper {
		s.indent(&out, 0)
		out.WriteString(`<?xpacket begin="` + "\uFEFF" + `" id="` + packetID + `"?>`)
		s.newline(&out)
	}
	rdfLevel := 0
	if !s.opts.OmitXMPMeta {
		root := "x:xmpmeta"
		if s.doc.flags.LegacyXapMeta {
			root = "x:xapmeta"
		}
		s.indent(&out, 0)
		fmt.Fprintf(&out, `<%s xmlns:x="%s" x:xmptk="%s">`, root, NSX, attrEscaper.Replace(s.opts.Toolkit))
		s.newline(&out)
		rdfLevel = 1
	}
	s.indent(&out, rdfLevel)
	out.WriteString(`<rdf:RDF xmlns:rdf="` + NSRDF + `">`)
	s.newline(&out)

	s.indent(&out, rdfLevel+1)
	out.WriteString(`<rdf:Description rdf:about="` + attrEscaper.Replace(s.doc.about) + `"`)
	for _, uri := range s.declared() {
		s.attrSep(&out, rdfLevel+2)
		out.WriteString(`xmlns:` + s.nsToPref[uri] + `="` + attrEscaper.Replace(uri) + `"`)
	}
	for _, a := range attrs {
		s.attrSep(&out, rdfLevel+2)
		out.WriteString(a)
	}
	if hasChildren {
		out.WriteString(">")
		s.newline(&out)
		out.Write(body.Bytes())
		s.indent(&out, rdfLevel+1)
		out.WriteString("</rdf:Description>")
	} else {
		out.WriteString("/>")
	}
	s.newline(&out)

	s.indent(&out, rdfLevel)
	out.WriteString("</rdf:RDF>")
	s.newline(&out)
	if !s.opts.OmitXMPMeta {
		s.indent(&out, 0)
		if s.doc.flags.LegacyXapMeta {
			out.WriteString("</x:xapmeta>")
		} else {
			out.WriteString("</x:xmpmeta>")
		}
		s.newline(&out)
	}
	if !s.opts.OmitPacketWrapper {
		if s.opts.Padding > 0 {
			out.WriteString(strings.Repeat(" ", s.opts.Padding))
			s.newline(&out)
		}
		s.indent(&out, 0)
		end := "w"
		if s.opts.ReadOnly {
			end = "r"
		}
		out.WriteString(`<?xpacket end="` + end + `"?>`)
	}
	return out.Bytes()
}

// declared returns the namespaces to declare on rdf:Description, in first
// use order or sorted by prefix.
func (s *serializer) declared() []string {
	var uris []string
	for uri := range s.firstUse {
		switch uri {
		case NSXML, NSRDF:
			continue
		case NSX:
			if !s.opts.OmitXMPMeta {
				continue
			}
		}
		uris = append(uris, uri)
	}
	slices.SortFunc(uris, func(a, b string) int {
		return strings.Compare(s.nsToPref[a], s.nsToPref[b])
	})
	if !s.opts.Sort {
		slices.SortStableFunc(uris, func(a, b string) int {
			return s.firstUse[a] - s.firstUse[b]
		})
	}
	return uris
}

// properties renders the top-level properties. Properties written as
// attributes of rdf:Description are returned; the rest go to body.
func (s *serializer) properties(body *bytes.Buffer, level int) ([]string, bool) {
	var attrs []string
	var elements []QName
	for _, key := range s.order(s.doc.root.fields.keys) {
		n := s.doc.root.fields.vals[key]
		if s.opts.Compact && attrEligible(key, n) {
			attrs = append(attrs, s.qname(key)+`="`+attrEscaper.Replace(n.value)+`"`)
			continue
		}
		elements = append(elements, key)
	}
	for _, key := range elements {
		s.property(body, s.qname(key), s.doc.root.fields.vals[key], level)
	}
	return attrs, len(elements) > 0
}

// attrEligible reports whether a field can be written as an XML attribute.
func attrEligible(key QName, n *Node) bool {
	return n.kind == KindSimple && !n.uri && n.quals.len() == 0 && key.Namespace != NSRDF
}

// order returns keys in insertion order, or sorted by prefix then name.
func (s *serializer) order(keys []QName) []QName {
	out := slices.Clone(keys)
	if s.opts.Sort {
		slices.SortStableFunc(out, func(a, b QName) int {
			if c := strings.Compare(s.prefixOf(a.Namespace), s.prefixOf(b.Namespace)); c != 0 {
				return c
			}
			return strings.Compare(a.Name, b.Name)
		})
	}
	return out
}

// qualifiers returns the qualifier names other than xml:lang, with
// rdf:type first.
func (s *serializer) qualifiers(n *Node) []QName {
	var out []QName
	if _, ok := n.quals.get(qnRDFType); ok {
		out = append(out, qnRDFType)
	}
	for _, key := range s.order(n.quals.keys) {
		if key != qnXMLLang && key != qnRDFType {
			out = append(out, key)
		}
	}
	return out
}

// property writes n as the element name, with its qualifiers.
func (s *serializer) property(out *bytes.Buffer, name string, n *Node, level int) {
	quals := s.qualifiers(n)
	lang := n.Lang()
	if len(quals) == 0 {
		s.value(out, name, n, lang, level)
		return
	}

	if s.opts.Compact && n.kind == KindSimple && allAttrEligible(n.quals, quals) {
		s.indent(out, level)
		out.WriteString("<" + name)
		writeLang(out, lang)
		if n.uri {
			out.WriteString(` rdf:resource="` + attrEscaper.Replace(n.value) + `"`)
		} else {
			out.WriteString(` rdf:value="` + attrEscaper.Replace(n.value) + `"`)
		}
		for _, key := range quals {
			q := n.quals.vals[key]
			out.WriteString(" " + s.qname(key) + `="` + attrEscaper.Replace(q.value) + `"`)
		}
		out.WriteString("/>")
		s.newline(out)
		return
	}

	s.indent(out, level)
	out.WriteString("<" + name)
	writeLang(out, lang)
	out.WriteString(` rdf:parseType="Resource">`)
	s.newline(out)
	s.value(out, "rdf:value", n, "", level+1)
	for _, key := range quals {
		s.property(out, s.qname(key), n.quals.vals[key], level+1)
	}
	s.indent(out, level)
	out.WriteString("</" + name + ">")
	s.newline(out)
}

func allAttrEligible(list fieldList, keys []QName) bool {
	for _, key := range keys {
		if !attrEligible(key, list.vals[key]) {
			return false
		}
	}
	return true
}

func writeLang(out *bytes.Buffer, lang string) {
	if lang != "" {
		out.WriteString(` xml:lang="` + attrEscaper.Replace(lang) + `"`)
	}
}

// value writes the element name holding n, ignoring n's qualifiers other
// than the given language.
func (s *serializer) value(out *bytes.Buffer, name string, n *Node, lang string, level int) {
	s.indent(out, level)
	out.WriteString("<" + name)
	writeLang(out, lang)

	switch n.kind {
	case KindSimple:
		if n.uri {
			out.WriteString(` rdf:resource="` + attrEscaper.Replace(n.value) + `"/>`)
		} else {
			out.WriteString(">" + textEscaper.Replace(n.value) + "</" + name + ">")
		}
		s.newline(out)

	case KindArray:
		out.WriteString(">")
		s.newline(out)
		s.indent(out, level+1)
		if len(n.items) == 0 {
			out.WriteString("<rdf:" + n.form.String() + "/>")
			s.newline(out)
		} else {
			out.WriteString("<rdf:" + n.form.String() + ">")
			s.newline(out)
			for _, item := range n.items {
				s.property(out, "rdf:li", item, level+2)
			}
			s.indent(out, level+1)
			out.WriteString("</rdf:" + n.form.String() + ">")
			s.newline(out)
		}
		s.indent(out, level)
		out.WriteString("</" + name + ">")
		s.newline(out)

	case KindStruct:
		s.structValue(out, name, n, level)
	}
}

// structValue finishes the start tag written by value for a struct node.
func (s *serializer) structValue(out *bytes.Buffer, name string, n *Node, level int) {
	keys := s.order(n.fields.keys)
	var attrs, elements []QName
	for _, key := range keys {
		if s.opts.Compact && attrEligible(key, n.fields.vals[key]) {
			attrs = append(attrs, key)
		} else {
			elements = append(elements, key)
		}
	}

	switch {
	case len(keys) == 0:
		out.WriteString(` rdf:parseType="Resource"/>`)
		s.newline(out)
		return

	case len(elements) == 0:
		for _, key := range attrs {
			out.WriteString(" " + s.qname(key) + `="` + attrEscaper.Replace(n.fields.vals[key].value) + `"`)
		}
		out.WriteString("/>")
		s.newline(out)
		return

	case len(attrs) > 0:
		out.WriteString(">")
		s.newline(out)
		s.indent(out, level+1)
		out.WriteString("<rdf:Description")
		for _, key := range attrs {
			out.WriteString(" " + s.qname(key) + `="` + attrEscaper.Replace(n.fields.vals[key].value) + `"`)
		}
		out.WriteString(">")
		s.newline(out)
		for _, key := range elements {
			s.property(out, s.qname(key), n.fields.vals[key], level+2)
		}
		s.indent(out, level+1)
		out.WriteString("</rdf:Description>")
		s.newline(out)

	default:
		out.WriteString(` rdf:parseType="Resource">`)
		s.newline(out)
		for _, key := range elements {
			s.property(out, s.qname(key), n.fields.vals[key], level+1)
		}
	}
	s.indent(out, level)
	out.WriteString("</" + name + ">")
	s.newline(out)
}

func (s *serializer) indent(out *bytes.Buffer, level int) {
	if !s.opts.Pretty {
		return
	}
	for i := 0; i < s.opts.BaseIndent+level; i++ {
		out.WriteString(s.opts.Indent)
	}
}

func (s *serializer) newline(out *bytes.Buffer) {
	if s.opts.Pretty {
		out.WriteString(s.opts.Newline)
	}
}

// attrSep separates attributes of rdf:Description: one per line when
// pretty, a single space otherwise.
func (s *serializer) attrSep(out *bytes.Buffer, level int) {
	if !s.opts.Pretty {
		out.WriteByte(' ')
		return
	}
	out.WriteString(s.opts.Newline)
	s.indent(out, level)
}
