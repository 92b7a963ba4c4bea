package xmp

import (
	"strings"

	"golang.org/x/text/language"
)

// normalizeLang canonicalizes an RFC 4646 tag: lower-case language,
// upper-case region, "_" separators replaced with "-". x-default and tags
// x/text cannot parse keep a plain lower-case rendering with the second
// subtag upper-cased.
func normalizeLang(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.EqualFold(tag, XDefault) {
		return strings.ToLower(tag)
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	if t, err := language.Raw.Parse(tag); err == nil {
		return t.String()
	}
	parts := strings.Split(strings.ToLower(tag), "-")
	if len(parts) > 1 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// genericLang returns the primary language subtag of tag.
func genericLang(tag string) string {
	if tag == "" || tag == XDefault {
		return ""
	}
	if t, err := language.Raw.Parse(tag); err == nil {
		if base, conf := t.Base(); conf != language.No {
			return base.String()
		}
	}
	generic, _, _ := strings.Cut(tag, "-")
	return generic
}

type langMatch int

const (
	langNoValues langMatch = iota
	langSpecific
	langSingleGeneric
	langMultipleGeneric
	langXDefault
	langFirstItem
)

// chooseLocalized picks an item of an alt-text array: exact specific
// match, then a generic match (exact or prefix), then x-default, then the
// first item.
func chooseLocalized(arr *Node, generic, specific string) (langMatch, *Node) {
	if arr.kind != KindArray || len(arr.items) == 0 {
		return langNoValues, nil
	}
	var genericItem, defaultItem *Node
	genericCount := 0
	for _, item := range arr.items {
		if item.kind != KindSimple {
			continue
		}
		lang := item.Lang()
		if lang == "" {
			continue
		}
		if specific != "" && lang == specific {
			return langSpecific, item
		}
		if generic != "" && (lang == generic || strings.HasPrefix(lang, generic+"-")) {
			if genericItem == nil {
				genericItem = item
			}
			genericCount++
		}
		if lang == XDefault && defaultItem == nil {
			defaultItem = item
		}
	}
	switch {
	case genericCount == 1:
		return langSingleGeneric, genericItem
	case genericCount > 1:
		return langMultipleGeneric, genericItem
	case defaultItem != nil:
		return langXDefault, defaultItem
	}
	return langFirstItem, arr.items[0]
}

func localizedArgs(generic, specific string) (string, string) {
	specific = normalizeLang(specific)
	generic = normalizeLang(generic)
	if generic == "" {
		generic = genericLang(specific)
	}
	return generic, specific
}

// GetLocalizedText returns the best matching item of the alt-text array at
// path, and the language of the chosen item. An empty specific lang selects
// the generic language or the default item. The generic language defaults
// to the primary subtag of specific.
func (d *Document) GetLocalizedText(ns string, path Path, generic, specific string) (value, lang string, ok bool) {
	arr, found := d.lookup(ns, path)
	if !found || arr.kind != KindArray {
		return "", "", false
	}
	generic, specific = localizedArgs(generic, specific)
	match, item := chooseLocalized(arr, generic, specific)
	if match == langNoValues || item == nil {
		return "", "", false
	}
	return item.value, item.Lang(), true
}

// SetLocalizedText stores value for the specific language in the alt-text
// array at path, creating the array when missing. An x-default item that
// mirrored the replaced text is kept in sync, and one is added when the
// array ends up with a single item and no default.
func (d *Document) SetLocalizedText(ns string, path Path, generic, specific, value string) error {
	if !isXMLText(value) {
		return errorf(ErrInvalidValue, "value %q contains characters not allowed in XML", value)
	}
	if strings.TrimSpace(specific) == "" {
		return errorf(ErrInvalidValue, "empty specific language")
	}
	generic, specific = localizedArgs(generic, specific)
	arr, err := d.ensureArray(ns, path, ArrayAlternative)
	if err != nil {
		return err
	}
	if arr.form != ArrayAlternative {
		if len(arr.items) > 0 {
			return errorf(ErrPathTypeConflict, "%s is a %s array, not alt-text", path.Format(d.registry), arr.form)
		}
		arr.form = ArrayAlternative
	}

	var xdefault *Node
	for i, item := range arr.items {
		if item.kind != KindSimple || item.Lang() == "" {
			return errorf(ErrPathTypeConflict, "%s is not an alt-text array", path.Format(d.registry))
		}
		if xdefault == nil && item.Lang() == XDefault {
			xdefault = item
			// x-default goes first
			copy(arr.items[1:i+1], arr.items[:i])
			arr.items[0] = item
		}
	}
	haveDefault := xdefault != nil
	specificIsDefault := specific == XDefault

	match, item := chooseLocalized(arr, generic, specific)
	switch match {
	case langNoValues:
		arr.items = append(arr.items, NewLangText(XDefault, value))
		haveDefault = true
		if !specificIsDefault {
			arr.items = append(arr.items, NewLangText(specific, value))
		}
	case langSpecific:
		if specificIsDefault {
			for _, other := range arr.items {
				if other != xdefault && other.value == xdefault.value {
					other.value = value
				}
			}
			xdefault.value = value
			break
		}
		if xdefault != nil && xdefault != item && xdefault.value == item.value {
			xdefault.value = value
		}
		item.value = value
	case langSingleGeneric:
		if xdefault != nil && xdefault != item && xdefault.value == item.value {
			xdefault.value = value
		}
		item.value = value
	case langMultipleGeneric, langFirstItem:
		arr.items = append(arr.items, NewLangText(specific, value))
		if specificIsDefault {
			haveDefault = true
		}
	case langXDefault:
		arr.items = append(arr.items, NewLangText(specific, value))
	}

	if !haveDefault && len(arr.items) == 1 {
		arr.items = append([]*Node{NewLangText(XDefault, value)}, arr.items...)
	}
	return nil
}
