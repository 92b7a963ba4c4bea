package xmp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Parse decodes an XMP packet into a Document. The packet may be wrapped in
// <?xpacket?> processing instructions, rooted at x:xmpmeta, or be a bare
// rdf:RDF element. No partial document is returned on failure.
func Parse(data []byte, opts ...ParseOption) (*Document, error) {
	options := defaultParseOptions()
	for _, opt := range opts {
		opt(&options)
	}

	text, err := decodeCharset(data)
	if err != nil {
		return nil, &ParseError{Offset: 0, Err: err}
	}
	pkt, err := locatePacket(text)
	if err != nil {
		return nil, err
	}

	builder := &treeBuilder{
		input:    text,
		pkt:      pkt,
		registry: options.registry,
		maxDepth: options.maxDepth,
		log:      options.logger,
	}
	root, err := builder.build()
	if err != nil {
		return nil, err
	}

	p := &parser{
		opts:  options,
		log:   options.logger,
		input: text,
		doc:   NewWithRegistry(options.registry),
	}
	p.doc.maxDepth = options.maxDepth
	p.doc.flags.HadPacketWrapper = pkt.wrapped
	p.doc.flags.DeprecatedDC = builder.deprecatedDC
	if err := p.parseRoot(root); err != nil {
		return nil, err
	}
	if err := p.transplantAliases(); err != nil {
		return nil, err
	}
	if options.normalize {
		normalizeDublinCore(p.doc, p.log)
	}
	return p.doc, nil
}

// ParseString is Parse for string input.
func ParseString(s string, opts ...ParseOption) (*Document, error) {
	return Parse([]byte(s), opts...)
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader, opts ...ParseOption) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

type parser struct {
	opts  parseOptions
	log   *zap.Logger
	input []byte
	doc   *Document

	aboutSeen bool
}

func (p *parser) errorAt(el *xmlElement, err error) error {
	return wrapParseError(p.input, el.line, el.column, -1, err)
}

func (p *parser) invalid(el *xmlElement, format string, args ...any) error {
	return p.errorAt(el, errorf(ErrInvalidRDF, format, args...))
}

// parseRoot locates rdf:RDF, below x:xmpmeta when present.
func (p *parser) parseRoot(root *xmlElement) error {
	meta := findElement(root, func(el *xmlElement) bool {
		return el.is(NSX, "xmpmeta") || el.is(NSX, "xapmeta")
	})
	if meta == nil && p.opts.requireXMPMeta {
		return p.invalid(root, "no x:xmpmeta element")
	}
	scope := root
	if meta != nil {
		scope = meta
		p.doc.flags.LegacyXapMeta = meta.name.Name == "xapmeta"
	}
	rdf := findElement(scope, func(el *xmlElement) bool { return el.is(NSRDF, "RDF") })
	if rdf == nil {
		if meta != nil {
			// An empty x:xmpmeta is an empty document.
			return nil
		}
		return p.invalid(root, "no rdf:RDF element")
	}
	return p.parseRDF(rdf)
}

// findElement returns the first element in document order matching fn.
func findElement(el *xmlElement, fn func(*xmlElement) bool) *xmlElement {
	if fn(el) {
		return el
	}
	for _, child := range el.children {
		if found := findElement(child, fn); found != nil {
			return found
		}
	}
	return nil
}

func (p *parser) parseRDF(rdf *xmlElement) error {
	if len(rdf.attrs) > 0 {
		return p.invalid(rdf, "unexpected attribute %s on rdf:RDF", rdf.attrs[0].name)
	}
	if rdf.hasText() {
		return p.invalid(rdf, "character data in rdf:RDF")
	}
	for _, child := range rdf.children {
		if !child.is(NSRDF, "Description") {
			return p.invalid(child, "top-level element <%s> is not rdf:Description", child.qualifiedName())
		}
		if err := p.parseDescription(child); err != nil {
			return err
		}
	}
	return nil
}

// parseDescription merges a top-level rdf:Description into the document.
func (p *parser) parseDescription(el *xmlElement) error {
	hasAbout := false
	for _, a := range el.attrs {
		if !isRDFTerm(a, "about") {
			continue
		}
		hasAbout = true
		switch {
		case !p.aboutSeen:
			p.doc.about = a.value
			p.aboutSeen = true
		case p.doc.about == "":
			p.doc.about = a.value
		case a.value != "" && a.value != p.doc.about:
			return p.invalid(el, "mismatched rdf:about values %q and %q", p.doc.about, a.value)
		}
	}
	if !hasAbout && p.opts.strictAbout {
		return p.invalid(el, "rdf:Description without rdf:about")
	}
	return p.fillStruct(p.doc.root, el, true)
}

// isRDFTerm matches rdf:name, and the unqualified form older writers emit.
func isRDFTerm(a xmlAttr, name string) bool {
	return a.name.Name == name && (a.name.Namespace == NSRDF || a.name.Namespace == "")
}

// fillStruct adds the attributes and child elements of a node element as
// fields of target.
func (p *parser) fillStruct(target *Node, el *xmlElement, topLevel bool) error {
	for _, a := range el.attrs {
		switch {
		case isRDFTerm(a, "about"), isRDFTerm(a, "ID"), isRDFTerm(a, "nodeID"):
			continue
		case a.name == qnXMLLang:
			if topLevel {
				p.log.Debug("ignoring xml:lang on rdf:Description", zap.Int("line", el.line))
				continue
			}
			target.quals.set(qnXMLLang, NewSimple(normalizeLang(a.value)))
		case a.name.Namespace == NSRDF:
			return p.invalid(el, "invalid attribute rdf:%s on node element", a.name.Name)
		case a.name.Namespace == "":
			return p.invalid(el, "unqualified attribute %s on node element", a.name.Name)
		default:
			p.bind(a.name.Namespace, a.prefix)
			if err := p.addField(target, a.name, NewSimple(a.value), el, topLevel); err != nil {
				return err
			}
		}
	}
	if el.hasText() {
		return p.invalid(el, "character data in node element <%s>", el.qualifiedName())
	}
	for _, child := range el.children {
		if err := p.checkPropertyName(child); err != nil {
			return err
		}
		if topLevel && child.name == qnIXChanges {
			p.log.Debug("skipping iX:changes", zap.Int("line", child.line))
			continue
		}
		n, err := p.propertyValue(child)
		if err != nil {
			return err
		}
		p.bind(child.name.Namespace, child.prefix)
		if err := p.addField(target, child.name, n, child, topLevel); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) checkPropertyName(el *xmlElement) error {
	switch {
	case el.name.Namespace == "":
		return p.invalid(el, "property element <%s> has no namespace", el.name.Name)
	case el.name.Namespace == NSRDF:
		switch el.name.Name {
		case "value", "type":
			return nil
		case "li":
			return p.invalid(el, "rdf:li outside of an array")
		}
		return p.invalid(el, "rdf:%s cannot be used as a property", el.name.Name)
	}
	if !isNCName(el.name.Name) {
		return p.invalid(el, "property name %q is not an XML name", el.name.Name)
	}
	return nil
}

// addField stores n as field key of target. A repeated field is accepted
// only when both definitions are structurally identical.
func (p *parser) addField(target *Node, key QName, n *Node, el *xmlElement, topLevel bool) error {
	if topLevel && key == qnIXChanges {
		return nil
	}
	if existing, ok := target.fields.get(key); ok {
		if existing.Equal(n) {
			p.log.Debug("ignoring repeated identical property",
				zap.String("namespace", key.Namespace), zap.String("name", key.Name))
			return nil
		}
		return p.errorAt(el, fmt.Errorf("%w: %s:%s", ErrDuplicateProperty, p.doc.prefixes[key.Namespace], key.Name))
	}
	target.fields.set(key, n)
	return nil
}

func (p *parser) bind(uri, prefix string) {
	got := p.doc.bindNamespace(uri, prefix)
	if prefix != "" && got != prefix {
		p.log.Debug("namespace written with registered prefix",
			zap.String("uri", uri), zap.String("input", prefix), zap.String("prefix", got))
	}
}

// propertyAttrs classifies the attributes of a property element.
type propertyAttrs struct {
	lang         string
	hasLang      bool
	parseType    string
	hasParseType bool
	resource     string
	hasResource  bool
	value        string
	hasValue     bool
	hasDatatype  bool
	extra        []xmlAttr
}

func (p *parser) classifyAttrs(el *xmlElement) (propertyAttrs, error) {
	var pa propertyAttrs
	for _, a := range el.attrs {
		switch {
		case a.name == qnXMLLang:
			pa.lang, pa.hasLang = normalizeLang(a.value), true
		case a.name.Namespace == NSRDF:
			switch a.name.Name {
			case "parseType":
				pa.parseType, pa.hasParseType = a.value, true
			case "resource":
				pa.resource, pa.hasResource = a.value, true
			case "value":
				pa.value, pa.hasValue = a.value, true
			case "datatype":
				pa.hasDatatype = true
			case "ID", "nodeID":
			default:
				return pa, p.invalid(el, "invalid attribute rdf:%s on property element", a.name.Name)
			}
		case a.name.Namespace == "":
			return pa, p.invalid(el, "unqualified attribute %s on property element", a.name.Name)
		default:
			pa.extra = append(pa.extra, a)
		}
	}
	return pa, nil
}

// propertyValue builds the node for the content of a property element,
// array item or qualifier element.
func (p *parser) propertyValue(el *xmlElement) (*Node, error) {
	pa, err := p.classifyAttrs(el)
	if err != nil {
		return nil, err
	}

	var n *Node
	switch {
	case pa.hasParseType:
		if pa.parseType != "Resource" {
			return nil, p.invalid(el, "rdf:parseType=%q is not supported", pa.parseType)
		}
		if pa.hasResource || pa.hasValue || pa.hasDatatype || len(pa.extra) > 0 {
			return nil, p.invalid(el, "unexpected attributes with rdf:parseType=\"Resource\"")
		}
		n = NewStruct()
		if err := p.fillStruct(n, &xmlElement{
			name: el.name, children: el.children, text: el.text, line: el.line, column: el.column,
		}, false); err != nil {
			return nil, err
		}

	case len(el.children) > 0:
		if el.hasText() {
			return nil, p.invalid(el, "mixed content in <%s>", el.qualifiedName())
		}
		if len(el.children) > 1 {
			return nil, p.invalid(el, "property element <%s> has more than one child element", el.qualifiedName())
		}
		if pa.hasResource || pa.hasValue || pa.hasDatatype || len(pa.extra) > 0 {
			return nil, p.invalid(el, "unexpected attributes on resource property element <%s>", el.qualifiedName())
		}
		if n, err = p.resourceValue(el.children[0]); err != nil {
			return nil, err
		}

	case pa.hasResource || pa.hasValue || len(pa.extra) > 0:
		if el.hasText() {
			return nil, p.invalid(el, "property element <%s> with attributes has content", el.qualifiedName())
		}
		if pa.hasResource && pa.hasValue {
			return nil, p.invalid(el, "both rdf:resource and rdf:value on <%s>", el.qualifiedName())
		}
		if pa.hasResource || pa.hasValue {
			if pa.hasResource {
				n = NewURI(pa.resource)
			} else {
				n = NewSimple(pa.value)
			}
			if pa.hasLang {
				n.quals.set(qnXMLLang, NewSimple(pa.lang))
			}
			for _, a := range pa.extra {
				p.bind(a.name.Namespace, a.prefix)
				if _, dup := n.quals.get(a.name); dup {
					return nil, p.invalid(el, "duplicate qualifier %s", a.name.Name)
				}
				n.quals.set(a.name, NewSimple(a.value))
			}
			return n, nil
		}
		n = NewStruct()
		for _, a := range pa.extra {
			p.bind(a.name.Namespace, a.prefix)
			n.fields.set(a.name, NewSimple(a.value))
		}

	default:
		n = NewSimple(el.text)
	}

	if pa.hasLang {
		setLangFirst(n, pa.lang)
	}
	return p.fixValue(n, el)
}

// resourceValue builds the node for the single element child of a
// resource property element: an array, a struct or a typed node.
func (p *parser) resourceValue(el *xmlElement) (*Node, error) {
	if el.name.Namespace == NSRDF {
		if form, ok := arrayFormFromElement(el.name.Name); ok {
			return p.arrayValue(el, form)
		}
		if el.name.Name != "Description" {
			return nil, p.invalid(el, "unexpected rdf:%s in property element", el.name.Name)
		}
		n := NewStruct()
		if err := p.fillStruct(n, el, false); err != nil {
			return nil, err
		}
		return n, nil
	}
	if el.name.Namespace == "" {
		return nil, p.invalid(el, "typed node <%s> has no namespace", el.name.Name)
	}
	n := NewStruct()
	if err := p.fillStruct(n, el, false); err != nil {
		return nil, err
	}
	n.quals.set(qnRDFType, NewURI(el.name.Namespace+el.name.Name))
	return n, nil
}

func (p *parser) arrayValue(el *xmlElement, form ArrayForm) (*Node, error) {
	for _, a := range el.attrs {
		if !isRDFTerm(a, "ID") && !isRDFTerm(a, "nodeID") {
			return nil, p.invalid(el, "unexpected attribute %s on rdf:%s", a.name.Name, form)
		}
	}
	if el.hasText() {
		return nil, p.invalid(el, "character data in rdf:%s", form)
	}
	arr := NewArray(form)
	hasDefault := false
	for _, li := range el.children {
		if li.name.Namespace != NSRDF || !isItemName(li.name.Name) {
			return nil, p.invalid(li, "array item <%s> is not rdf:li", li.qualifiedName())
		}
		item, err := p.propertyValue(li)
		if err != nil {
			return nil, err
		}
		if form == ArrayAlternative && item.Lang() == XDefault {
			if hasDefault {
				return nil, p.invalid(li, "more than one x-default item in rdf:Alt")
			}
			hasDefault = true
		}
		arr.items = append(arr.items, item)
	}
	return arr, nil
}

// isItemName matches li and the _1, _2, ... membership names.
func isItemName(name string) bool {
	if name == "li" {
		return true
	}
	if !strings.HasPrefix(name, "_") {
		return false
	}
	n, err := strconv.Atoi(name[1:])
	return err == nil && n > 0
}

// fixValue turns a struct with an rdf:value field into the value node
// carrying the remaining fields as qualifiers.
func (p *parser) fixValue(n *Node, el *xmlElement) (*Node, error) {
	if n.kind != KindStruct {
		return n, nil
	}
	value, ok := n.fields.get(qnRDFValue)
	if !ok {
		return n, nil
	}
	var quals fieldList
	add := func(key QName, q *Node) error {
		if _, dup := quals.get(key); dup {
			return p.invalid(el, "duplicate qualifier %s", key.Name)
		}
		quals.set(key, q)
		return nil
	}
	for _, list := range []*fieldList{&n.quals, &value.quals} {
		for _, key := range list.keys {
			if err := add(key, list.vals[key]); err != nil {
				return nil, err
			}
		}
	}
	for _, key := range n.fields.keys {
		if key == qnRDFValue {
			continue
		}
		if err := add(key, n.fields.vals[key]); err != nil {
			return nil, err
		}
	}
	value.quals = quals
	if lang, ok := quals.get(qnXMLLang); ok {
		setLangFirst(value, lang.value)
	}
	return value, nil
}

// setLangFirst sets the xml:lang qualifier and moves it to the front.
func setLangFirst(n *Node, lang string) {
	n.quals.remove(qnXMLLang)
	n.quals.set(qnXMLLang, NewSimple(lang))
	keys := n.quals.keys
	last := keys[len(keys)-1]
	copy(keys[1:], keys[:len(keys)-1])
	keys[0] = last
}

// transplantAliases moves aliased top-level properties onto their actual
// property. A value that disagrees with an existing actual value is a
// duplicate definition.
func (p *parser) transplantAliases() error {
	fields := &p.doc.root.fields
	for _, key := range fields.names() {
		alias, ok := p.doc.registry.ResolveAlias(key.Namespace, key.Name)
		if !ok {
			continue
		}
		n := fields.vals[key]
		fields.remove(key)
		actualKey := QName{alias.Namespace, alias.Name}
		p.doc.bindNamespace(alias.Namespace, "")
		p.log.Debug("transplanting alias",
			zap.String("alias", key.Name), zap.String("actual", alias.Name), zap.Stringer("form", alias.Form))

		base, exists := fields.get(actualKey)
		form, isArray := alias.Form.arrayForm()
		if !isArray {
			if !exists {
				fields.set(actualKey, n)
			} else if !base.Equal(n) {
				return fmt.Errorf("%w: alias %s conflicts with %s", ErrDuplicateProperty, key.Name, alias.Name)
			}
			continue
		}

		if n.kind == KindSimple && form == ArrayAlternative && n.Lang() == "" {
			setLangFirst(n, XDefault)
		}
		if !exists {
			fields.set(actualKey, &Node{kind: KindArray, form: form, items: []*Node{n}})
			continue
		}
		if base.kind != KindArray {
			return fmt.Errorf("%w: alias %s targets non-array %s", ErrDuplicateProperty, key.Name, alias.Name)
		}
		var target *Node
		if form == ArrayAlternative {
			if idx := base.itemIndex(Segment{Kind: SegLang, Lang: XDefault}); idx >= 0 {
				target = base.items[idx]
			}
		} else if len(base.items) > 0 {
			target = base.items[0]
		}
		switch {
		case target == nil && form == ArrayAlternative:
			base.items = append([]*Node{n}, base.items...)
		case target == nil:
			base.items = append(base.items, n)
		case target.value != n.value || target.kind != n.kind:
			return fmt.Errorf("%w: alias %s conflicts with %s", ErrDuplicateProperty, key.Name, alias.Name)
		}
	}
	return nil
}
