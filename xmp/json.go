package xmp

import (
	json "github.com/goccy/go-json"
)

type jsonDocument struct {
	About      string                 `json:"about"`
	Namespaces map[string]string      `json:"namespaces,omitempty"`
	Properties map[string]interface{} `json:"properties"`
}

type jsonNode struct {
	Value      *string                `json:"value,omitempty"`
	URI        bool                   `json:"uri,omitempty"`
	Form       string                 `json:"form,omitempty"`
	Items      []interface{}          `json:"items,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
	Qualifiers map[string]interface{} `json:"qualifiers,omitempty"`
}

// MarshalJSON returns a JSON snapshot of the document keyed by prefixed
// names. Unqualified simple values are plain strings. The snapshot is for
// inspection; it is not read back.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := jsonDocument{
		About:      d.about,
		Namespaces: make(map[string]string),
		Properties: make(map[string]interface{}, d.root.fields.len()),
	}
	for _, key := range d.root.fields.keys {
		out.Properties[d.jsonName(key, out.Namespaces)] = d.jsonValue(d.root.fields.vals[key], out.Namespaces)
	}
	return json.Marshal(out)
}

func (d *Document) jsonName(key QName, used map[string]string) string {
	prefix, ok := d.prefixes[key.Namespace]
	if !ok {
		if p, err := d.registry.Prefix(key.Namespace); err == nil {
			prefix = p
		} else {
			return key.String()
		}
	}
	used[prefix] = key.Namespace
	return prefix + ":" + key.Name
}

func (d *Document) jsonValue(n *Node, used map[string]string) interface{} {
	if n.kind == KindSimple && !n.uri && n.quals.len() == 0 {
		return n.value
	}
	var out jsonNode
	switch n.kind {
	case KindSimple:
		v := n.value
		out.Value = &v
		out.URI = n.uri
	case KindArray:
		out.Form = n.form.String()
		out.Items = make([]interface{}, 0, len(n.items))
		for _, item := range n.items {
			out.Items = append(out.Items, d.jsonValue(item, used))
		}
	case KindStruct:
		out.Fields = make(map[string]interface{}, n.fields.len())
		for _, key := range n.fields.keys {
			out.Fields[d.jsonName(key, used)] = d.jsonValue(n.fields.vals[key], used)
		}
	}
	if n.quals.len() > 0 {
		out.Qualifiers = make(map[string]interface{}, n.quals.len())
		for _, key := range n.quals.keys {
			out.Qualifiers[d.jsonName(key, used)] = d.jsonValue(n.quals.vals[key], used)
		}
	}
	return out
}
