package rdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	ld "github.com/piprate/json-gold/ld"
)

// JSONLDOptions configures JSON-LD output.
type JSONLDOptions struct {
	// BaseIRI is handed to the processor for relative IRI handling.
	BaseIRI string
	// Prefixes maps prefixes to namespace IRIs. When set, the output is
	// compacted against a context made of them.
	Prefixes map[string]string
	// Indent pretty-prints the output when non-empty.
	Indent string
}

// ToJSONLD converts triples to a JSON-LD document: expanded form, or
// compacted form when opts.Prefixes is set.
func ToJSONLD(ctx context.Context, triples []Triple, opts JSONLDOptions) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var nq strings.Builder
	for _, t := range triples {
		nq.WriteString(t.String())
		nq.WriteByte('\n')
	}

	proc := ld.NewJsonLdProcessor()
	fromRDF := ld.NewJsonLdOptions(opts.BaseIRI)
	fromRDF.Format = "application/n-quads"
	fromRDF.UseNativeTypes = false
	expanded, err := proc.FromRDF(nq.String(), fromRDF)
	if err != nil {
		return nil, fmt.Errorf("jsonld: %w", err)
	}
	if len(opts.Prefixes) == 0 {
		return expanded, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := make(map[string]interface{}, len(opts.Prefixes))
	for prefix, ns := range opts.Prefixes {
		terms[prefix] = ns
	}
	compacted, err := proc.Compact(expanded, map[string]interface{}{"@context": terms}, ld.NewJsonLdOptions(opts.BaseIRI))
	if err != nil {
		return nil, fmt.Errorf("jsonld: %w", err)
	}
	return compacted, nil
}

// WriteJSONLD writes triples to w as JSON-LD followed by a newline.
func WriteJSONLD(ctx context.Context, w io.Writer, triples []Triple, opts JSONLDOptions) error {
	doc, err := ToJSONLD(ctx, triples, opts)
	if err != nil {
		return err
	}
	var data []byte
	if opts.Indent == "" {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", opts.Indent)
	}
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
