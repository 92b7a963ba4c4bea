package xmp

import "errors"

// SkipChildren can be returned by a WalkFunc to skip the fields, items and
// qualifiers of the node just visited.
var SkipChildren = errors.New("xmp: skip children")

// NodeInfo describes a visited node without exposing it for mutation.
type NodeInfo struct {
	Kind  Kind
	Value string
	URI   bool
	Form  ArrayForm
	Lang  string
	Len   int
}

// WalkFunc is called for every node of a document. ns is the namespace of
// the top-level property and path the full path of the node.
type WalkFunc func(ns string, path Path, info NodeInfo) error

// Walk visits every node depth-first: each top-level property in insertion
// order, then its qualifiers, then its fields or items.
func (d *Document) Walk(fn WalkFunc) error {
	for _, key := range d.root.fields.keys {
		path := Path{{Kind: SegField, Namespace: key.Namespace, Name: key.Name}}
		if err := walkNode(key.Namespace, path, d.root.fields.vals[key], fn); err != nil {
			return err
		}
	}
	return nil
}

func walkNode(ns string, path Path, n *Node, fn WalkFunc) error {
	err := fn(ns, path, NodeInfo{
		Kind:  n.kind,
		Value: n.value,
		URI:   n.uri,
		Form:  n.form,
		Lang:  n.Lang(),
		Len:   n.Len(),
	})
	if errors.Is(err, SkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, key := range n.quals.keys {
		if err := walkNode(ns, path.Qualifier(key.Namespace, key.Name), n.quals.vals[key], fn); err != nil {
			return err
		}
	}
	for _, key := range n.fields.keys {
		if err := walkNode(ns, path.Field(key.Namespace, key.Name), n.fields.vals[key], fn); err != nil {
			return err
		}
	}
	for i, item := range n.items {
		if err := walkNode(ns, path.Index(i+1), item, fn); err != nil {
			return err
		}
	}
	return nil
}
