// Package xmp reads, edits and writes XMP metadata packets.
//
// A Document is a tree of properties. Each top-level property is named by a
// namespace URI and a local name and holds a Node: a simple string value, a
// struct of named fields, or an array (Bag, Seq or Alt) of items. Any node
// may carry qualifiers such as xml:lang.
//
// Parse accepts the RDF/XML surface forms XMP writers produce: properties as
// attributes or elements, structs written with rdf:parseType="Resource" or a
// nested rdf:Description, rdf:value qualifiers, several rdf:Description
// elements and the <?xpacket?> wrapper. Serialize writes a Document back
// under explicit SerializeOptions; the output depends only on the document
// and the options.
//
// Paths address nodes below a top-level property:
//
//	doc := xmp.New()
//	_ = doc.SetString(xmp.NSXMP, xmp.P("Rating"), "5")
//	_ = doc.AppendItem(xmp.NSDC, xmp.P("subject"), xmp.ArrayUnordered, xmp.NewSimple("bird"))
//	_ = doc.SetLocalizedText(xmp.NSDC, xmp.P("title"), "", "en-US", "Heron")
//	out, err := xmp.Serialize(doc, xmp.CanonicalSerializeOptions())
//
// Namespace prefixes and property aliases are resolved through a Registry.
// DefaultRegistry knows the common schemas; custom ones can be registered
// directly or loaded from YAML with LoadRegistryConfig.
//
// Errors wrap the sentinel values in this package, so callers test them with
// errors.Is or classify them with Code. Parse failures are *ParseError values
// carrying the line and column of the offending input.
//
// A Document is not safe for concurrent mutation. Distinct documents share
// nothing but their Registry, which is safe for concurrent use.
package xmp
