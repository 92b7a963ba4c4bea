// Package props reads and writes the everyday photo metadata fields of an
// XMP document: rating, keywords, titles, dates, flags, people, face
// regions, location and resource ids.
//
// Every function works through the exported xmp.Document API. Getters
// return an error wrapping xmp.ErrNotFound when a single-valued property is
// absent; collection getters return an empty result instead.
package props
