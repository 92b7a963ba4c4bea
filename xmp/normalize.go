package xmp

import (
	"go.uber.org/zap"
)

// normalizeDublinCore wraps simple values of Dublin Core array properties
// in the array form their schema prescribes and gives alt-text items a
// language.
func normalizeDublinCore(d *Document, log *zap.Logger) {
	for _, key := range d.root.fields.keys {
		if key.Namespace != NSDC {
			continue
		}
		form, ok := dcArrayForms[key.Name]
		if !ok {
			continue
		}
		n := d.root.fields.vals[key]
		switch n.kind {
		case KindSimple:
			item := n
			if form == ArrayAlternative && item.Lang() == "" {
				setLangFirst(item, XDefault)
			}
			d.root.fields.vals[key] = &Node{kind: KindArray, form: form, items: []*Node{item}}
			log.Debug("wrapped simple Dublin Core value", zap.String("name", key.Name), zap.Stringer("form", form))
		case KindArray:
			if form != ArrayAlternative {
				continue
			}
			if n.form != ArrayAlternative {
				n.form = ArrayAlternative
			}
			normalizeAltText(n)
		}
	}
}

// normalizeAltText gives the first unlabelled item of an alt array the
// x-default language when no item has it yet.
func normalizeAltText(arr *Node) {
	for _, item := range arr.items {
		if item.Lang() == XDefault {
			return
		}
	}
	for i, item := range arr.items {
		if item.kind == KindSimple && item.Lang() == "" {
			setLangFirst(item, XDefault)
			if i > 0 {
				copy(arr.items[1:i+1], arr.items[:i])
				arr.items[0] = item
			}
			return
		}
	}
}
