package xmp

import (
	"errors"
	"fmt"
)

// Flags records compatibility details of a parsed packet so that it can be
// written back the same way.
type Flags struct {
	// LegacyXapMeta is set when the root element was x:xapmeta.
	LegacyXapMeta bool
	// DeprecatedDC is set when the input used the pre-1.1 Dublin Core URI.
	DeprecatedDC bool
	// HadPacketWrapper is set when the input carried an <?xpacket?> wrapper.
	HadPacketWrapper bool
}

// Document is an XMP property tree. It is not safe for concurrent mutation.
type Document struct {
	registry *Registry
	about    string
	root     *Node
	prefixes map[string]string
	flags    Flags
	maxDepth int
}

// New returns an empty document bound to DefaultRegistry.
func New() *Document {
	return NewWithRegistry(DefaultRegistry)
}

// NewWithRegistry returns an empty document that resolves prefixes and
// aliases through r.
func NewWithRegistry(r *Registry) *Document {
	if r == nil {
		r = DefaultRegistry
	}
	return &Document{
		registry: r,
		root:     NewStruct(),
		prefixes: make(map[string]string),
		maxDepth: DefaultMaxDepth,
	}
}

// Registry returns the registry the document resolves names against.
func (d *Document) Registry() *Registry { return d.registry }

// ObjectName returns the rdf:about value shared by the document's descriptions.
func (d *Document) ObjectName() string { return d.about }

// SetObjectName sets the rdf:about value.
func (d *Document) SetObjectName(name string) error {
	if !isXMLText(name) {
		return errorf(ErrInvalidValue, "object name %q contains characters not allowed in XML", name)
	}
	d.about = name
	return nil
}

// MaxDepth returns the node nesting limit checked by Set and Serialize.
// Parsed documents carry the limit given with WithMaxDepth.
func (d *Document) MaxDepth() int { return d.maxDepth }

// SetMaxDepth sets the node nesting limit. Values <= 0 disable it.
func (d *Document) SetMaxDepth(n int) { d.maxDepth = n }

// Flags returns the compatibility flags recorded while parsing.
func (d *Document) Flags() Flags { return d.flags }

// SetFlags replaces the compatibility flags.
func (d *Document) SetFlags(f Flags) { d.flags = f }

// Len returns the number of top-level properties.
func (d *Document) Len() int { return d.root.fields.len() }

// Properties returns the top-level property names in namespace ns, or all
// of them when ns is empty, in insertion order.
func (d *Document) Properties(ns string) []QName {
	var out []QName
	for _, key := range d.root.fields.keys {
		if ns == "" || key.Namespace == ns {
			out = append(out, key)
		}
	}
	return out
}

// Namespaces returns the URI to prefix bindings the document writes with.
func (d *Document) Namespaces() map[string]string {
	out := make(map[string]string, len(d.prefixes))
	for uri, prefix := range d.prefixes {
		out[uri] = prefix
	}
	return out
}

// Get returns a copy of the node at path below the top-level property in
// namespace ns. Aliased property names resolve to their actual property.
func (d *Document) Get(ns string, path Path) (*Node, bool) {
	n, ok := d.lookup(ns, path)
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// Has reports whether a node exists at path.
func (d *Document) Has(ns string, path Path) bool {
	_, ok := d.lookup(ns, path)
	return ok
}

// Set stores a copy of n at path, creating missing structs and arrays along
// the way. A field step creates a struct, an index step an unordered array
// and a language step an alt-text array. Traversing an existing node of the
// wrong kind fails with ErrPathTypeConflict.
func (d *Document) Set(ns string, path Path, n *Node) error {
	if n == nil {
		return errorf(ErrInvalidValue, "nil node")
	}
	if err := n.validate(0, d.maxDepth); err != nil {
		return err
	}
	segs, rootForm, err := d.resolve(ns, path)
	if err != nil {
		return err
	}
	n = n.Clone()
	if err := d.place(segs, n, rootForm); err != nil {
		return err
	}
	d.bindPath(segs)
	d.bindNode(n)
	return nil
}

// Remove deletes the node at path and reports whether it existed.
func (d *Document) Remove(ns string, path Path) bool {
	segs, _, err := d.resolve(ns, path)
	if err != nil {
		return false
	}
	parent := d.root
	if len(segs) > 1 {
		var ok bool
		if parent, ok = follow(d.root, segs[:len(segs)-1]); !ok {
			return false
		}
	}
	last := segs[len(segs)-1]
	switch last.Kind {
	case SegField:
		return parent.fields.remove(QName{last.Namespace, last.Name})
	case SegQualifier:
		return parent.quals.remove(QName{last.Namespace, last.Name})
	case SegIndex, SegLang:
		idx := parent.itemIndex(last)
		if idx < 0 {
			return false
		}
		parent.items = append(parent.items[:idx], parent.items[idx+1:]...)
		return true
	}
	return false
}

// CountArrayItems returns the number of items in the array at path. An
// absent array has zero items.
func (d *Document) CountArrayItems(ns string, path Path) (int, error) {
	segs, _, err := d.resolve(ns, path)
	if err != nil {
		return 0, err
	}
	n, ok := follow(d.root, segs)
	if !ok {
		return 0, nil
	}
	if n.kind != KindArray {
		return 0, fmt.Errorf("%w: %s is a %s node", ErrPathTypeConflict, path.Format(d.registry), n.kind)
	}
	return len(n.items), nil
}

// AppendItem adds item to the end of the array at path. A missing array is
// created with the given form; the form of an existing array is kept.
func (d *Document) AppendItem(ns string, path Path, form ArrayForm, item *Node) error {
	if item == nil {
		return errorf(ErrInvalidValue, "nil item")
	}
	if err := item.validate(1, d.maxDepth); err != nil {
		return err
	}
	arr, err := d.ensureArray(ns, path, form)
	if err != nil {
		return err
	}
	item = item.Clone()
	if err := checkAltItem(arr, item); err != nil {
		return err
	}
	arr.items = append(arr.items, item)
	d.bindNode(item)
	return nil
}

// InsertItemAt inserts item before the 1-based position index of an
// existing array. Index len+1 appends.
func (d *Document) InsertItemAt(ns string, path Path, index int, item *Node) error {
	if item == nil {
		return errorf(ErrInvalidValue, "nil item")
	}
	if err := item.validate(1, d.maxDepth); err != nil {
		return err
	}
	arr, err := d.existingArray(ns, path)
	if err != nil {
		return err
	}
	if index < 1 || index > len(arr.items)+1 {
		return fmt.Errorf("%w: insert at %d into %d items", ErrIndexOutOfRange, index, len(arr.items))
	}
	item = item.Clone()
	if err := checkAltItem(arr, item); err != nil {
		return err
	}
	arr.items = append(arr.items, nil)
	copy(arr.items[index:], arr.items[index-1:])
	arr.items[index-1] = item
	d.bindNode(item)
	return nil
}

// RemoveItemAt deletes the 1-based item index of an existing array.
func (d *Document) RemoveItemAt(ns string, path Path, index int) error {
	arr, err := d.existingArray(ns, path)
	if err != nil {
		return err
	}
	if index == LastItem {
		index = len(arr.items)
	}
	if index < 1 || index > len(arr.items) {
		return fmt.Errorf("%w: remove %d of %d items", ErrIndexOutOfRange, index, len(arr.items))
	}
	arr.items = append(arr.items[:index-1], arr.items[index:]...)
	return nil
}

// Clone returns a deep copy of the document sharing only the registry.
func (d *Document) Clone() *Document {
	out := &Document{
		registry: d.registry,
		about:    d.about,
		root:     d.root.Clone(),
		prefixes: make(map[string]string, len(d.prefixes)),
		flags:    d.flags,
		maxDepth: d.maxDepth,
	}
	for uri, prefix := range d.prefixes {
		out.prefixes[uri] = prefix
	}
	return out
}

// Equal reports whether two documents hold the same object name and the
// same property trees. Prefixes, flags and top-level order are ignored.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.about == other.about && d.root.Equal(other.root)
}

func (d *Document) lookup(ns string, path Path) (*Node, bool) {
	segs, _, err := d.resolve(ns, path)
	if err != nil {
		return nil, false
	}
	return follow(d.root, segs)
}

// resolve validates the path and rewrites aliased top-level names. The
// returned segments start with the namespace-qualified property step.
func (d *Document) resolve(ns string, path Path) ([]Segment, *ArrayForm, error) {
	if !isValidNamespaceURI(ns) {
		return nil, nil, errorf(ErrInvalidNamespace, "bad namespace %q", ns)
	}
	if len(path) == 0 || path[0].Kind != SegField {
		return nil, nil, errorf(ErrInvalidPath, "path must start with a property name")
	}
	for i, s := range path {
		if err := checkSegment(s, i == 0); err != nil {
			return nil, nil, err
		}
	}
	segs := make([]Segment, len(path))
	copy(segs, path)
	segs[0].Namespace = ns
	for _, s := range segs {
		if (s.Kind == SegField || s.Kind == SegQualifier) && s.Namespace == NSRDF && s.Name != "type" {
			return nil, nil, errorf(ErrInvalidNamespace, "rdf:%s cannot be used as a property", s.Name)
		}
	}

	alias, ok := d.registry.ResolveAlias(ns, segs[0].Name)
	if !ok {
		return segs, nil, nil
	}
	out := append(alias.Path(), segs[1:]...)
	if form, isArray := alias.Form.arrayForm(); isArray {
		return out, &form, nil
	}
	return out, nil, nil
}

func checkSegment(s Segment, root bool) error {
	switch s.Kind {
	case SegField, SegQualifier:
		if !root && !isValidNamespaceURI(s.Namespace) {
			return errorf(ErrInvalidNamespace, "step %s has a bad namespace %q", s.Name, s.Namespace)
		}
		if !isNCName(s.Name) {
			return errorf(ErrInvalidPath, "step name %q is not an XML name", s.Name)
		}
		if root && s.Kind != SegField {
			return errorf(ErrInvalidPath, "path must start with a property name")
		}
	case SegIndex:
		if s.Index < 1 && s.Index != LastItem {
			return fmt.Errorf("%w: array index %d", ErrIndexOutOfRange, s.Index)
		}
	case SegLang:
		if s.Lang == "" {
			return errorf(ErrInvalidPath, "empty language selector")
		}
	default:
		return errorf(ErrInvalidPath, "unknown step kind %d", int(s.Kind))
	}
	return nil
}

// follow walks segs from n without creating nodes.
func follow(n *Node, segs []Segment) (*Node, bool) {
	for _, s := range segs {
		child, ok, err := n.child(s)
		if err != nil || !ok {
			return nil, false
		}
		n = child
	}
	return n, true
}

// place stores leaf at segs below the document root. When the top-level
// property is missing and rootForm is set, it is created as an array of
// that form.
func (d *Document) place(segs []Segment, leaf *Node, rootForm *ArrayForm) error {
	if rootForm != nil {
		key := QName{segs[0].Namespace, segs[0].Name}
		if _, ok := d.root.fields.get(key); !ok {
			arr := NewArray(*rootForm)
			if err := placeBelow(arr, segs[1:], leaf); err != nil {
				return err
			}
			d.root.fields.set(key, arr)
			return nil
		}
	}
	return placeBelow(d.root, segs, leaf)
}

// placeBelow stores leaf at segs below n. Missing intermediate nodes are
// built detached and attached only once the whole path succeeded.
func placeBelow(n *Node, segs []Segment, leaf *Node) error {
	s := segs[0]
	child, found, err := n.child(s)
	if err != nil {
		return err
	}
	if len(segs) == 1 {
		return n.putChild(s, leaf)
	}
	if found {
		return placeBelow(child, segs[1:], leaf)
	}
	child = containerFor(segs[1])
	if err := placeBelow(child, segs[1:], leaf); err != nil {
		return err
	}
	return n.putChild(s, child)
}

func containerFor(next Segment) *Node {
	switch next.Kind {
	case SegIndex:
		return NewArray(ArrayUnordered)
	case SegLang:
		return NewArray(ArrayAlternative)
	case SegQualifier:
		return NewSimple("")
	}
	return NewStruct()
}

// child returns the node selected by s. A kind mismatch between n and the
// step is an error; a missing child is not.
func (n *Node) child(s Segment) (*Node, bool, error) {
	switch s.Kind {
	case SegField:
		if n.kind != KindStruct {
			return nil, false, fmt.Errorf("%w: field %s on %s node", ErrPathTypeConflict, s.Name, n.kind)
		}
		c, ok := n.fields.get(QName{s.Namespace, s.Name})
		return c, ok, nil
	case SegQualifier:
		c, ok := n.quals.get(QName{s.Namespace, s.Name})
		return c, ok, nil
	case SegIndex, SegLang:
		if n.kind != KindArray {
			return nil, false, fmt.Errorf("%w: item selector on %s node", ErrPathTypeConflict, n.kind)
		}
		if s.Kind == SegIndex && s.Index > len(n.items)+1 {
			return nil, false, fmt.Errorf("%w: index %d of %d items", ErrIndexOutOfRange, s.Index, len(n.items))
		}
		idx := n.itemIndex(s)
		if idx < 0 {
			return nil, false, nil
		}
		return n.items[idx], true, nil
	}
	return nil, false, errorf(ErrInvalidPath, "unknown step kind %d", int(s.Kind))
}

// itemIndex returns the 0-based position selected by an index or language
// step, or -1.
func (n *Node) itemIndex(s Segment) int {
	if n.kind != KindArray {
		return -1
	}
	switch s.Kind {
	case SegIndex:
		idx := s.Index
		if idx == LastItem {
			idx = len(n.items)
		}
		if idx < 1 || idx > len(n.items) {
			return -1
		}
		return idx - 1
	case SegLang:
		for i, item := range n.items {
			if item.Lang() == s.Lang {
				return i
			}
		}
	}
	return -1
}

// putChild stores c in the slot selected by s, replacing any previous node.
func (n *Node) putChild(s Segment, c *Node) error {
	switch s.Kind {
	case SegField:
		n.fields.set(QName{s.Namespace, s.Name}, c)
		return nil
	case SegQualifier:
		return n.SetQualifier(s.Namespace, s.Name, c)
	case SegIndex:
		idx := s.Index
		if idx == LastItem {
			idx = max(len(n.items), 1)
		}
		switch {
		case idx >= 1 && idx <= len(n.items):
			n.items[idx-1] = c
		case idx == len(n.items)+1:
			if err := checkAltItem(n, c); err != nil {
				return err
			}
			n.items = append(n.items, c)
		default:
			return fmt.Errorf("%w: index %d of %d items", ErrIndexOutOfRange, s.Index, len(n.items))
		}
		return nil
	case SegLang:
		if c.kind != KindSimple {
			return errorf(ErrPathTypeConflict, "language item must be simple")
		}
		c.quals.set(qnXMLLang, NewSimple(s.Lang))
		if idx := n.itemIndex(s); idx >= 0 {
			n.items[idx] = c
			return nil
		}
		if s.Lang == XDefault {
			n.items = append([]*Node{c}, n.items...)
			return nil
		}
		n.items = append(n.items, c)
		return nil
	}
	return errorf(ErrInvalidPath, "unknown step kind %d", int(s.Kind))
}

// checkAltItem rejects a second x-default item in an alt array.
func checkAltItem(arr, item *Node) error {
	if arr.form != ArrayAlternative || item.Lang() != XDefault {
		return nil
	}
	for _, existing := range arr.items {
		if existing.Lang() == XDefault {
			return errorf(ErrInvalidValue, "alt array already has an x-default item")
		}
	}
	return nil
}

// ensureArray returns the array at path, creating it with form if missing.
func (d *Document) ensureArray(ns string, path Path, form ArrayForm) (*Node, error) {
	segs, rootForm, err := d.resolve(ns, path)
	if err != nil {
		return nil, err
	}
	if n, ok := follow(d.root, segs); ok {
		if n.kind != KindArray {
			return nil, fmt.Errorf("%w: %s is a %s node", ErrPathTypeConflict, path.Format(d.registry), n.kind)
		}
		return n, nil
	}
	if err := d.place(segs, NewArray(form), rootForm); err != nil {
		return nil, err
	}
	d.bindPath(segs)
	n, _ := follow(d.root, segs)
	return n, nil
}

func (d *Document) existingArray(ns string, path Path) (*Node, error) {
	segs, _, err := d.resolve(ns, path)
	if err != nil {
		return nil, err
	}
	n, ok := follow(d.root, segs)
	if !ok {
		return nil, fmt.Errorf("%w: array %s", ErrNotFound, path.Format(d.registry))
	}
	if n.kind != KindArray {
		return nil, fmt.Errorf("%w: %s is a %s node", ErrPathTypeConflict, path.Format(d.registry), n.kind)
	}
	return n, nil
}

// bindNamespace records the prefix the document writes uri with. The
// registry decides the prefix; suggested is used when uri is unknown there.
func (d *Document) bindNamespace(uri, suggested string) string {
	if prefix, ok := d.prefixes[uri]; ok {
		return prefix
	}
	prefix, err := d.registry.Prefix(uri)
	if errors.Is(err, ErrNotFound) {
		if !isNCName(suggested) {
			suggested = "ns"
		}
		prefix, err = d.registry.Register(uri, suggested)
	}
	if err != nil {
		prefix = "ns"
	}
	base := prefix
	for i := 1; d.prefixInUse(prefix, uri); i++ {
		prefix = fmt.Sprintf("%s_%d_", base, i)
	}
	d.prefixes[uri] = prefix
	return prefix
}

func (d *Document) prefixInUse(prefix, uri string) bool {
	for u, p := range d.prefixes {
		if p == prefix && u != uri {
			return true
		}
	}
	return false
}

func (d *Document) bindPath(segs []Segment) {
	for _, s := range segs {
		if s.Namespace != "" {
			d.bindNamespace(s.Namespace, "")
		}
	}
}

func (d *Document) bindNode(n *Node) {
	for _, list := range []*fieldList{&n.fields, &n.quals} {
		for _, key := range list.keys {
			d.bindNamespace(key.Namespace, "")
			d.bindNode(list.vals[key])
		}
	}
	for _, item := range n.items {
		d.bindNode(item)
	}
}
