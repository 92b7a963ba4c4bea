package rdf

import "strconv"

// Namespace is the RDF vocabulary namespace.
const Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// Vocabulary terms the XMP mapping emits.
const (
	RDFType  = Namespace + "type"
	RDFValue = Namespace + "value"
	RDFBag   = Namespace + "Bag"
	RDFSeq   = Namespace + "Seq"
	RDFAlt   = Namespace + "Alt"
)

// Member returns the container membership property rdf:_i.
func Member(i int) IRI {
	return IRI{Value: Namespace + "_" + strconv.Itoa(i)}
}

// Term is an IRI, a BlankNode or a Literal. String renders the term in
// N-Triples syntax.
type Term interface {
	String() string
	term()
}

// IRI is an absolute IRI reference.
type IRI struct {
	Value string
}

// BlankNode is a node without an IRI. IDs are only meaningful within one
// set of triples.
type BlankNode struct {
	ID string
}

// Literal is a string value with an optional language tag or datatype IRI.
// Lang wins when both are set.
type Literal struct {
	Lexical  string
	Lang     string
	Datatype string
}

func (IRI) term()       {}
func (BlankNode) term() {}
func (Literal) term()   {}

func (i IRI) String() string { return "<" + escapeIRI(i.Value) + ">" }

func (b BlankNode) String() string { return "_:" + b.ID }

func (l Literal) String() string {
	s := `"` + escapeString(l.Lexical) + `"`
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "":
		return s + "^^<" + escapeIRI(l.Datatype) + ">"
	}
	return s
}

// Triple is one statement. The subject is an IRI or a blank node.
type Triple struct {
	S Term
	P IRI
	O Term
}

// String renders t as an N-Triples statement without the line break.
func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}

// BlankNodes hands out the blank nodes b1, b2, ... in order. The zero
// value is ready to use. It is not safe for concurrent use.
type BlankNodes struct {
	n int
}

// Next returns a blank node not returned before.
func (g *BlankNodes) Next() BlankNode {
	g.n++
	return BlankNode{ID: "b" + strconv.Itoa(g.n)}
}
