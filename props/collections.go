package props

import (
	"errors"
	"slices"
	"strings"

	"github.com/geoknoesis/xmp-go/xmp"
)

// Keywords returns the dc:subject bag without duplicates, in stored order.
func Keywords(d *xmp.Document) ([]string, error) {
	return uniqueStrings(d, xmp.NSDC, "subject")
}

// SetKeywords replaces dc:subject with the sorted, deduplicated keywords.
// An empty set removes the property.
func SetKeywords(d *xmp.Document, keywords []string) error {
	return setSortedBag(d, xmp.NSDC, "subject", keywords)
}

// PersonsInImage returns Iptc4xmpExt:PersonInImage.
func PersonsInImage(d *xmp.Document) ([]string, error) {
	return uniqueStrings(d, xmp.NSIPTCExt, "PersonInImage")
}

// SetPersonsInImage replaces Iptc4xmpExt:PersonInImage with the sorted
// names. An empty set removes the property.
func SetPersonsInImage(d *xmp.Document, persons []string) error {
	return setSortedBag(d, xmp.NSIPTCExt, "PersonInImage", persons)
}

// Creators returns the ordered dc:creator list.
func Creators(d *xmp.Document) ([]string, error) {
	out, err := d.GetStrings(xmp.NSDC, xmp.P("creator"))
	if errors.Is(err, xmp.ErrNotFound) {
		return nil, nil
	}
	return out, err
}

// SetCreators replaces dc:creator, keeping the given order.
func SetCreators(d *xmp.Document, creators []string) error {
	if len(creators) == 0 {
		d.Remove(xmp.NSDC, xmp.P("creator"))
		return nil
	}
	return d.SetStrings(xmp.NSDC, xmp.P("creator"), xmp.ArrayOrdered, creators)
}

// Title returns the dc:title text for lang, falling back to x-default.
func Title(d *xmp.Document, lang string) (string, bool) {
	v, _, ok := d.GetLocalizedText(xmp.NSDC, xmp.P("title"), "", langOrDefault(lang))
	return v, ok
}

// SetTitle stores the dc:title text for lang. An empty lang writes the
// x-default item.
func SetTitle(d *xmp.Document, lang, title string) error {
	return d.SetLocalizedText(xmp.NSDC, xmp.P("title"), "", langOrDefault(lang), title)
}

// Description returns the dc:description text for lang, falling back to
// x-default.
func Description(d *xmp.Document, lang string) (string, bool) {
	v, _, ok := d.GetLocalizedText(xmp.NSDC, xmp.P("description"), "", langOrDefault(lang))
	return v, ok
}

// SetDescription stores the dc:description text for lang.
func SetDescription(d *xmp.Document, lang, description string) error {
	return d.SetLocalizedText(xmp.NSDC, xmp.P("description"), "", langOrDefault(lang), description)
}

func langOrDefault(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return xmp.XDefault
	}
	return lang
}

func uniqueStrings(d *xmp.Document, ns, name string) ([]string, error) {
	values, err := d.GetStrings(ns, xmp.P(name))
	if errors.Is(err, xmp.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := values[:0]
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

func setSortedBag(d *xmp.Document, ns, name string, values []string) error {
	d.Remove(ns, xmp.P(name))
	if len(values) == 0 {
		return nil
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return d.SetStrings(ns, xmp.P(name), xmp.ArrayUnordered, slices.Compact(sorted))
}
