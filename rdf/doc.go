// Package rdf provides the small RDF model XMP documents are exported to,
// with an N-Triples writer and a JSON-LD writer.
//
// The model covers what an XMP property tree maps onto: IRIs, blank nodes,
// plain and language-tagged literals, and triples. Terms are values and are
// compared with ==.
//
// Example (writing N-Triples):
//
//	w := rdf.NewNTriplesWriter(os.Stdout)
//	for _, t := range triples {
//	    if err := w.Write(t); err != nil {
//	        // handle error
//	    }
//	}
//	if err := w.Close(); err != nil {
//	    // handle error
//	}
//
// JSON-LD output is produced by the json-gold processor from the same
// N-Triples text, optionally compacted against a prefix context.
package rdf
