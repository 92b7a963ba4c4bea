package rdf

import (
	"bytes"
	"context"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func sampleTriples() []Triple {
	s := IRI{Value: "http://example.org/photo"}
	return []Triple{
		{S: s, P: IRI{Value: "http://purl.org/dc/elements/1.1/format"}, O: Literal{Lexical: "image/jpeg"}},
		{S: s, P: IRI{Value: "http://ns.adobe.com/xap/1.0/Label"}, O: Literal{Lexical: "Red", Lang: "en"}},
	}
}

func TestToJSONLDExpanded(t *testing.T) {
	out, err := ToJSONLD(context.Background(), sampleTriples(), JSONLDOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nodes, ok := out.([]interface{})
	if !ok || len(nodes) != 1 {
		t.Fatalf("expected one expanded node, got %#v", out)
	}
	node := nodes[0].(map[string]interface{})
	if node["@id"] != "http://example.org/photo" {
		t.Fatalf("unexpected @id: %v", node["@id"])
	}
	if _, ok := node["http://purl.org/dc/elements/1.1/format"]; !ok {
		t.Fatalf("missing dc:format in %#v", node)
	}
}

func TestWriteJSONLDCompacted(t *testing.T) {
	var buf bytes.Buffer
	opts := JSONLDOptions{
		Prefixes: map[string]string{
			"dc":  "http://purl.org/dc/elements/1.1/",
			"xmp": "http://ns.adobe.com/xap/1.0/",
		},
		Indent: "  ",
	}
	if err := WriteJSONLD(context.Background(), &buf, sampleTriples(), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["dc:format"] != "image/jpeg" {
		t.Fatalf("unexpected dc:format: %#v", doc["dc:format"])
	}
	label, ok := doc["xmp:Label"].(map[string]interface{})
	if !ok || label["@language"] != "en" || label["@value"] != "Red" {
		t.Fatalf("unexpected xmp:Label: %#v", doc["xmp:Label"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatalf("expected indented output:\n%s", buf.String())
	}
}

func TestToJSONLDCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ToJSONLD(ctx, sampleTriples(), JSONLDOptions{}); err == nil {
		t.Fatal("expected context error")
	}
}
