package xmp

import (
	"fmt"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	// KindSimple is a string-encoded scalar value.
	KindSimple Kind = iota
	// KindStruct is a set of named fields.
	KindStruct
	// KindArray is an ordered list of items.
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ArrayForm is the RDF container kind of an array.
type ArrayForm int

const (
	// ArrayUnordered is an rdf:Bag.
	ArrayUnordered ArrayForm = iota
	// ArrayOrdered is an rdf:Seq.
	ArrayOrdered
	// ArrayAlternative is an rdf:Alt.
	ArrayAlternative
)

// String returns the RDF container element name.
func (f ArrayForm) String() string {
	switch f {
	case ArrayUnordered:
		return "Bag"
	case ArrayOrdered:
		return "Seq"
	case ArrayAlternative:
		return "Alt"
	default:
		return fmt.Sprintf("ArrayForm(%d)", int(f))
	}
}

func arrayFormFromElement(local string) (ArrayForm, bool) {
	switch local {
	case "Bag":
		return ArrayUnordered, true
	case "Seq":
		return ArrayOrdered, true
	case "Alt":
		return ArrayAlternative, true
	}
	return 0, false
}

// Node is a property value: a simple string, a struct or an array, with
// optional qualifiers. A Node handed to a Document is copied on insertion
// and copied again on retrieval, so callers never share subtrees with it.
type Node struct {
	kind  Kind
	value string
	uri   bool
	form  ArrayForm

	fields fieldList
	items  []*Node
	quals  fieldList
}

// NewSimple returns a simple node holding value.
func NewSimple(value string) *Node {
	return &Node{kind: KindSimple, value: value}
}

// NewURI returns a simple node whose value is a URI reference. It is
// written with rdf:resource.
func NewURI(value string) *Node {
	return &Node{kind: KindSimple, value: value, uri: true}
}

// NewStruct returns an empty struct node.
func NewStruct() *Node {
	return &Node{kind: KindStruct}
}

// NewArray returns an array node of the given form holding items.
func NewArray(form ArrayForm, items ...*Node) *Node {
	n := &Node{kind: KindArray, form: form}
	for _, item := range items {
		n.items = append(n.items, item.Clone())
	}
	return n
}

// NewTextArray returns an array of simple items.
func NewTextArray(form ArrayForm, values ...string) *Node {
	n := &Node{kind: KindArray, form: form, items: make([]*Node, 0, len(values))}
	for _, v := range values {
		n.items = append(n.items, NewSimple(v))
	}
	return n
}

// NewLangText returns a simple node qualified with xml:lang.
func NewLangText(lang, value string) *Node {
	n := NewSimple(value)
	n.quals.set(qnXMLLang, NewSimple(normalizeLang(lang)))
	return n
}

// Kind returns the node shape.
func (n *Node) Kind() Kind { return n.kind }

// Value returns the simple value, or "" for structs and arrays.
func (n *Node) Value() string { return n.value }

// IsURI reports whether a simple value is a URI reference.
func (n *Node) IsURI() bool { return n.uri }

// Form returns the array form. It is meaningless for other kinds.
func (n *Node) Form() ArrayForm { return n.form }

// Len returns the number of array items or struct fields.
func (n *Node) Len() int {
	switch n.kind {
	case KindArray:
		return len(n.items)
	case KindStruct:
		return n.fields.len()
	}
	return 0
}

// Item returns the 1-based array item i.
func (n *Node) Item(i int) (*Node, bool) {
	if n.kind != KindArray || i < 1 || i > len(n.items) {
		return nil, false
	}
	return n.items[i-1], true
}

// Items returns the array items in order.
func (n *Node) Items() []*Node {
	out := make([]*Node, len(n.items))
	copy(out, n.items)
	return out
}

// Append adds items to the end of an array node.
func (n *Node) Append(items ...*Node) error {
	if n.kind != KindArray {
		return fmt.Errorf("%w: append to %s node", ErrPathTypeConflict, n.kind)
	}
	for _, item := range items {
		n.items = append(n.items, item.Clone())
	}
	return nil
}

// Field returns a struct field.
func (n *Node) Field(ns, name string) (*Node, bool) {
	if n.kind != KindStruct {
		return nil, false
	}
	return n.fields.get(QName{ns, name})
}

// FieldNames returns struct field names in insertion order.
func (n *Node) FieldNames() []QName {
	return n.fields.names()
}

// SetField adds or replaces a struct field.
func (n *Node) SetField(ns, name string, child *Node) error {
	if n.kind != KindStruct {
		return fmt.Errorf("%w: field %s on %s node", ErrPathTypeConflict, name, n.kind)
	}
	if ns == "" {
		return errorf(ErrInvalidNamespace, "field %s has no namespace", name)
	}
	n.fields.set(QName{ns, name}, child.Clone())
	return nil
}

// RemoveField deletes a struct field and reports whether it existed.
func (n *Node) RemoveField(ns, name string) bool {
	return n.fields.remove(QName{ns, name})
}

// Qualifier returns a qualifier of the node.
func (n *Node) Qualifier(ns, name string) (*Node, bool) {
	return n.quals.get(QName{ns, name})
}

// QualifierNames returns qualifier names in insertion order.
func (n *Node) QualifierNames() []QName {
	return n.quals.names()
}

// SetQualifier adds or replaces a qualifier. xml:lang values are normalized.
func (n *Node) SetQualifier(ns, name string, q *Node) error {
	if ns == "" {
		return errorf(ErrInvalidNamespace, "qualifier %s has no namespace", name)
	}
	key := QName{ns, name}
	q = q.Clone()
	if key == qnXMLLang {
		if q.kind != KindSimple || q.quals.len() > 0 {
			return errorf(ErrInvalidValue, "xml:lang must be an unqualified simple value")
		}
		q.value = normalizeLang(q.value)
	}
	n.quals.set(key, q)
	return nil
}

// RemoveQualifier deletes a qualifier and reports whether it existed.
func (n *Node) RemoveQualifier(ns, name string) bool {
	return n.quals.remove(QName{ns, name})
}

// Lang returns the xml:lang qualifier value, or "" when absent.
func (n *Node) Lang() string {
	if q, ok := n.quals.get(qnXMLLang); ok {
		return q.value
	}
	return ""
}

// HasQualifiers reports whether the node carries any qualifier.
func (n *Node) HasQualifiers() bool { return n.quals.len() > 0 }

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{kind: n.kind, value: n.value, uri: n.uri, form: n.form}
	out.fields = n.fields.clone()
	out.quals = n.quals.clone()
	if len(n.items) > 0 {
		out.items = make([]*Node, len(n.items))
		for i, item := range n.items {
			out.items[i] = item.Clone()
		}
	}
	return out
}

// Equal reports structural equality: the same kind and value, the same
// array items in the same order, and the same fields and qualifiers
// regardless of their order.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.kind != other.kind || n.value != other.value || n.uri != other.uri {
		return false
	}
	if n.kind == KindArray {
		if n.form != other.form || len(n.items) != len(other.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(other.items[i]) {
				return false
			}
		}
	}
	return n.fields.equal(&other.fields) && n.quals.equal(&other.quals)
}

func (n *Node) String() string {
	switch n.kind {
	case KindSimple:
		return fmt.Sprintf("%q", n.value)
	case KindArray:
		return fmt.Sprintf("%s[%d]", n.form, len(n.items))
	default:
		return fmt.Sprintf("struct{%d}", n.fields.len())
	}
}

// validate checks that every name and value under n can be written as XML
// and that nesting stays within limit. A limit <= 0 disables the check.
func (n *Node) validate(depth, limit int) error {
	if limit > 0 && depth > limit {
		return fmt.Errorf("%w: node nesting deeper than %d", ErrDepthExceeded, limit)
	}
	if !isXMLText(n.value) {
		return errorf(ErrInvalidValue, "value %q contains characters not allowed in XML", n.value)
	}
	if n.kind == KindArray && (n.form < ArrayUnordered || n.form > ArrayAlternative) {
		return errorf(ErrInvalidValue, "bad array form %d", int(n.form))
	}
	check := func(list *fieldList, what string) error {
		for _, key := range list.keys {
			if !isValidNamespaceURI(key.Namespace) {
				return errorf(ErrInvalidNamespace, "%s %s has a bad namespace", what, key.Name)
			}
			if !isNCName(key.Name) {
				return errorf(ErrInvalidValue, "%s name %q is not an XML name", what, key.Name)
			}
			if key.Namespace == NSRDF && key.Name != "type" {
				return errorf(ErrInvalidValue, "%s rdf:%s is reserved", what, key.Name)
			}
			if err := list.vals[key].validate(depth+1, limit); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(&n.fields, "field"); err != nil {
		return err
	}
	if err := check(&n.quals, "qualifier"); err != nil {
		return err
	}
	defaults := 0
	for _, item := range n.items {
		if item.Lang() == XDefault {
			defaults++
		}
		if err := item.validate(depth+1, limit); err != nil {
			return err
		}
	}
	if n.kind == KindArray && n.form == ArrayAlternative && defaults > 1 {
		return errorf(ErrInvalidValue, "alt array has %d x-default items", defaults)
	}
	return nil
}

// fieldList is an insertion-ordered map from QName to Node.
type fieldList struct {
	keys []QName
	vals map[QName]*Node
}

func (l *fieldList) len() int { return len(l.keys) }

func (l *fieldList) get(key QName) (*Node, bool) {
	n, ok := l.vals[key]
	return n, ok
}

func (l *fieldList) set(key QName, n *Node) {
	if l.vals == nil {
		l.vals = make(map[QName]*Node)
	}
	if _, ok := l.vals[key]; !ok {
		l.keys = append(l.keys, key)
	}
	l.vals[key] = n
}

func (l *fieldList) remove(key QName) bool {
	if _, ok := l.vals[key]; !ok {
		return false
	}
	delete(l.vals, key)
	for i, k := range l.keys {
		if k == key {
			l.keys = append(l.keys[:i], l.keys[i+1:]...)
			break
		}
	}
	return true
}

func (l *fieldList) names() []QName {
	out := make([]QName, len(l.keys))
	copy(out, l.keys)
	return out
}

func (l *fieldList) clone() fieldList {
	if len(l.keys) == 0 {
		return fieldList{}
	}
	out := fieldList{
		keys: make([]QName, len(l.keys)),
		vals: make(map[QName]*Node, len(l.keys)),
	}
	copy(out.keys, l.keys)
	for k, v := range l.vals {
		out.vals[k] = v.Clone()
	}
	return out
}

func (l *fieldList) equal(other *fieldList) bool {
	if len(l.keys) != len(other.keys) {
		return false
	}
	for key, n := range l.vals {
		o, ok := other.vals[key]
		if !ok || !n.Equal(o) {
			return false
		}
	}
	return true
}
