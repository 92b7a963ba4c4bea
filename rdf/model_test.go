package rdf

import "testing"

func TestTermSyntax(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"iri", IRI{Value: "http://example.org/a"}, "<http://example.org/a>"},
		{"iri with space", IRI{Value: "http://example.org/a b"}, `<http://example.org/a\u0020b>`},
		{"blank", BlankNode{ID: "b7"}, "_:b7"},
		{"plain", Literal{Lexical: "plain"}, `"plain"`},
		{"quote and backslash", Literal{Lexical: `say "hi" \o/`}, `"say \"hi\" \\o/"`},
		{"line breaks", Literal{Lexical: "a\nb\rc\td"}, `"a\nb\rc\td"`},
		{"control", Literal{Lexical: "x\x01"}, `"x\u0001"`},
		{"language", Literal{Lexical: "Katze", Lang: "de-DE"}, `"Katze"@de-DE`},
		{"datatype", Literal{Lexical: "5", Datatype: "http://www.w3.org/2001/XMLSchema#integer"}, `"5"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"language wins", Literal{Lexical: "x", Lang: "en", Datatype: "http://example.org/t"}, `"x"@en`},
		{"member", Member(3), "<http://www.w3.org/1999/02/22-rdf-syntax-ns#_3>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.term.String(); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBlankNodes(t *testing.T) {
	var g BlankNodes
	first, second := g.Next(), g.Next()
	if first.ID != "b1" || second.ID != "b2" {
		t.Fatalf("unexpected ids %q, %q", first.ID, second.ID)
	}
}

func TestTripleString(t *testing.T) {
	tr := Triple{
		S: BlankNode{ID: "b1"},
		P: IRI{Value: RDFType},
		O: IRI{Value: RDFBag},
	}
	want := "_:b1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/1999/02/22-rdf-syntax-ns#Bag> ."
	if got := tr.String(); got != want {
		t.Fatalf("unexpected triple:\n got %s\nwant %s", got, want)
	}
}
