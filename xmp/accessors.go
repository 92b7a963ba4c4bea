package xmp

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// simpleValue returns the text of the simple node at path.
func (d *Document) simpleValue(ns string, path Path) (string, error) {
	n, ok := d.lookup(ns, path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path.Format(d.registry))
	}
	if n.kind != KindSimple {
		return "", fmt.Errorf("%w: %s is a %s node", ErrWrongType, path.Format(d.registry), n.kind)
	}
	return n.value, nil
}

func wrongType(value, want string) error {
	return fmt.Errorf("%w: %q is not %s", ErrWrongType, value, want)
}

// GetString returns the value of a simple property.
func (d *Document) GetString(ns string, path Path) (string, error) {
	return d.simpleValue(ns, path)
}

// SetString stores a simple property. Qualifiers already on the node are kept.
func (d *Document) SetString(ns string, path Path, value string) error {
	if !isXMLText(value) {
		return errorf(ErrInvalidValue, "value %q contains characters not allowed in XML", value)
	}
	n := NewSimple(value)
	if old, ok := d.lookup(ns, path); ok && old.kind == KindSimple && !old.uri {
		n.quals = old.quals.clone()
	}
	return d.Set(ns, path, n)
}

// GetBool parses a boolean property. True, False, 1 and 0 are accepted in
// any case.
func (d *Document) GetBool(ns string, path Path) (bool, error) {
	v, err := d.simpleValue(ns, path)
	if err != nil {
		return false, err
	}
	return parseBool(v)
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, wrongType(v, "a boolean")
}

// FormatBool returns the XMP spelling of b.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// SetBool stores b as True or False.
func (d *Document) SetBool(ns string, path Path, b bool) error {
	return d.SetString(ns, path, FormatBool(b))
}

// GetInt parses a base-10 integer property with an optional sign.
func (d *Document) GetInt(ns string, path Path) (int64, error) {
	v, err := d.simpleValue(ns, path)
	if err != nil {
		return 0, err
	}
	i, perr := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(v, "+")), 10, 64)
	if perr != nil {
		return 0, wrongType(v, "an integer")
	}
	return i, nil
}

// SetInt stores i in base 10.
func (d *Document) SetInt(ns string, path Path, i int64) error {
	return d.SetString(ns, path, strconv.FormatInt(i, 10))
}

// GetFloat parses a decimal floating point property.
func (d *Document) GetFloat(ns string, path Path) (float64, error) {
	v, err := d.simpleValue(ns, path)
	if err != nil {
		return 0, err
	}
	f, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if perr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, wrongType(v, "a number")
	}
	return f, nil
}

// SetFloat stores f in the shortest decimal form. NaN and infinities are
// rejected with ErrInvalidValue.
func (d *Document) SetFloat(ns string, path Path, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errorf(ErrInvalidValue, "%v cannot be stored", f)
	}
	return d.SetString(ns, path, strconv.FormatFloat(f, 'f', -1, 64))
}

// GetDate parses an ISO 8601 date property.
func (d *Document) GetDate(ns string, path Path) (DateTime, error) {
	v, err := d.simpleValue(ns, path)
	if err != nil {
		return DateTime{}, err
	}
	dt, perr := ParseDate(v)
	if perr != nil {
		return DateTime{}, wrongType(v, "an ISO 8601 date")
	}
	return dt, nil
}

// SetDate stores dt with the precision it carries.
func (d *Document) SetDate(ns string, path Path, dt DateTime) error {
	if err := dt.validate(); err != nil {
		return err
	}
	return d.SetString(ns, path, dt.String())
}

// SetDateString validates s as an ISO 8601 date and stores it verbatim.
func (d *Document) SetDateString(ns string, path Path, s string) error {
	if _, err := ParseDate(s); err != nil {
		return err
	}
	return d.SetString(ns, path, strings.TrimSpace(s))
}

// GetBase64 decodes a base64 property.
func (d *Document) GetBase64(ns string, path Path) ([]byte, error) {
	v, err := d.simpleValue(ns, path)
	if err != nil {
		return nil, err
	}
	// Line breaks are common in embedded thumbnails.
	clean := strings.NewReplacer("\n", "", "\r", "", "\t", "", " ", "").Replace(v)
	b, derr := base64.StdEncoding.DecodeString(clean)
	if derr != nil {
		return nil, wrongType(v, "base64")
	}
	return b, nil
}

// SetBase64 stores b base64-encoded.
func (d *Document) SetBase64(ns string, path Path, b []byte) error {
	return d.SetString(ns, path, base64.StdEncoding.EncodeToString(b))
}

// GetStrings returns the values of an array of simple items.
func (d *Document) GetStrings(ns string, path Path) ([]string, error) {
	n, ok := d.lookup(ns, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path.Format(d.registry))
	}
	if n.kind != KindArray {
		return nil, fmt.Errorf("%w: %s is a %s node", ErrWrongType, path.Format(d.registry), n.kind)
	}
	out := make([]string, 0, len(n.items))
	for i, item := range n.items {
		if item.kind != KindSimple {
			return nil, fmt.Errorf("%w: item %d is a %s node", ErrWrongType, i+1, item.kind)
		}
		out = append(out, item.value)
	}
	return out, nil
}

// SetStrings replaces the property at path with an array of simple items.
func (d *Document) SetStrings(ns string, path Path, form ArrayForm, values []string) error {
	for _, v := range values {
		if !isXMLText(v) {
			return errorf(ErrInvalidValue, "value %q contains characters not allowed in XML", v)
		}
	}
	return d.Set(ns, path, NewTextArray(form, values...))
}
