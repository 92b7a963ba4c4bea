package xmp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// QName is a namespace-qualified name. Namespace holds the URI, never a prefix.
type QName struct {
	Namespace string
	Name      string
}

func (q QName) String() string {
	return "{" + q.Namespace + "}" + q.Name
}

var (
	qnXMLLang   = QName{NSXML, "lang"}
	qnRDFType   = QName{NSRDF, "type"}
	qnRDFValue  = QName{NSRDF, "value"}
	qnIXChanges = QName{NSIX, "changes"}
)

// isNCName reports whether value is a valid XML name without colons.
func isNCName(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		if i == 0 {
			if !isNameStartRune(r) {
				return false
			}
		} else if !isNameRune(r) {
			return false
		}
	}
	return true
}

func isNameStartRune(r rune) bool {
	if r < utf8.RuneSelf {
		return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '_'
	}
	return unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	if isNameStartRune(r) {
		return true
	}
	if r < utf8.RuneSelf {
		return (r >= '0' && r <= '9') || r == '-' || r == '.'
	}
	return unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || r == 0xB7
}

// isValidNamespaceURI rejects empty URIs and characters that cannot appear
// in an xmlns attribute value unescaped.
func isValidNamespaceURI(uri string) bool {
	if uri == "" {
		return false
	}
	return !strings.ContainsAny(uri, " \t\r\n<>\"{}`")
}

// isXMLChar reports whether r is allowed in XML 1.0 character data.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09, r == 0x0A, r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func isXMLText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return false
		}
	}
	return true
}
