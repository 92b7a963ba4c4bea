package props

import (
	"errors"

	"github.com/google/uuid"

	"github.com/geoknoesis/xmp-go/xmp"
)

// NewDocumentID returns a fresh xmpMM:DocumentID value.
func NewDocumentID() string { return "xmp.did:" + uuid.NewString() }

// NewInstanceID returns a fresh xmpMM:InstanceID value.
func NewInstanceID() string { return "xmp.iid:" + uuid.NewString() }

// StampIDs gives the document a new xmpMM:InstanceID. A missing
// xmpMM:DocumentID is created, and xmpMM:OriginalDocumentID is set to the
// document id when absent.
func StampIDs(d *xmp.Document) error {
	docID, err := d.GetString(xmp.NSXMPMM, xmp.P("DocumentID"))
	if errors.Is(err, xmp.ErrNotFound) {
		docID = NewDocumentID()
		err = d.SetString(xmp.NSXMPMM, xmp.P("DocumentID"), docID)
	}
	if err != nil {
		return err
	}
	if !d.Has(xmp.NSXMPMM, xmp.P("OriginalDocumentID")) {
		if err := d.SetString(xmp.NSXMPMM, xmp.P("OriginalDocumentID"), docID); err != nil {
			return err
		}
	}
	return d.SetString(xmp.NSXMPMM, xmp.P("InstanceID"), NewInstanceID())
}
