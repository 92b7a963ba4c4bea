package xmp

import (
	"context"
	"io"

	"github.com/geoknoesis/xmp-go/rdf"
)

// Triples maps the document to RDF. The subject is the object name, or base
// when the object name is empty, or a blank node when both are empty.
// Structs and arrays become blank nodes, arrays are typed rdf:Bag, rdf:Seq
// or rdf:Alt with rdf:_n members, xml:lang becomes the literal language and
// other qualifiers use the rdf:value pattern.
func (d *Document) Triples(base string) []rdf.Triple {
	var subject rdf.Term
	switch {
	case d.about != "":
		subject = rdf.IRI{Value: d.about}
	case base != "":
		subject = rdf.IRI{Value: base}
	default:
		subject = rdf.BlankNode{ID: "doc"}
	}
	m := &tripleMapper{}
	for _, key := range d.root.fields.keys {
		m.emit(subject, key, d.root.fields.vals[key])
	}
	return m.out
}

type tripleMapper struct {
	bnodes rdf.BlankNodes
	out    []rdf.Triple
}

func (m *tripleMapper) emit(subject rdf.Term, key QName, n *Node) {
	m.link(subject, rdf.IRI{Value: key.Namespace + key.Name}, n)
}

// link adds subject-predicate-n, keeping the statement ahead of the ones
// describing n.
func (m *tripleMapper) link(subject rdf.Term, predicate rdf.IRI, n *Node) {
	m.out = append(m.out, rdf.Triple{S: subject, P: predicate})
	i := len(m.out) - 1
	m.out[i].O = m.object(n)
}

func (m *tripleMapper) object(n *Node) rdf.Term {
	quals := n.quals.len()
	lang := n.Lang()
	if lang != "" {
		quals--
	}
	if quals == 0 {
		return m.bare(n, lang)
	}
	holder := m.bnodes.Next()
	m.out = append(m.out, rdf.Triple{S: holder, P: rdf.IRI{Value: rdf.RDFValue}})
	i := len(m.out) - 1
	m.out[i].O = m.bare(n, lang)
	for _, key := range n.quals.keys {
		if key == qnXMLLang {
			continue
		}
		m.emit(holder, key, n.quals.vals[key])
	}
	return holder
}

// bare maps n without its qualifiers.
func (m *tripleMapper) bare(n *Node, lang string) rdf.Term {
	switch n.kind {
	case KindStruct:
		node := m.bnodes.Next()
		for _, key := range n.fields.keys {
			m.emit(node, key, n.fields.vals[key])
		}
		return node
	case KindArray:
		node := m.bnodes.Next()
		m.out = append(m.out, rdf.Triple{S: node, P: rdf.IRI{Value: rdf.RDFType}, O: rdf.IRI{Value: NSRDF + n.form.String()}})
		for i, item := range n.items {
			m.link(node, rdf.Member(i+1), item)
		}
		return node
	}
	if n.uri {
		return rdf.IRI{Value: n.value}
	}
	return rdf.Literal{Lexical: n.value, Lang: lang}
}

// WriteNTriples writes the document's triples to w.
func (d *Document) WriteNTriples(w io.Writer) error {
	nt := rdf.NewNTriplesWriter(w)
	for _, t := range d.Triples("") {
		if err := nt.Write(t); err != nil {
			return err
		}
	}
	return nt.Close()
}

// WriteJSONLD writes the document's triples to w as JSON-LD compacted
// against the document's namespace prefixes.
func (d *Document) WriteJSONLD(ctx context.Context, w io.Writer) error {
	prefixes := map[string]string{"rdf": NSRDF}
	for uri, prefix := range d.prefixes {
		prefixes[prefix] = uri
	}
	return rdf.WriteJSONLD(ctx, w, d.Triples(""), rdf.JSONLDOptions{Prefixes: prefixes, Indent: "  "})
}
