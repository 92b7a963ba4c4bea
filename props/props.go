package props

import (
	"errors"
	"fmt"

	"github.com/geoknoesis/xmp-go/xmp"
)

// DefaultGPSVersionID is written with GPS coordinates.
const DefaultGPSVersionID = "2.3.0.0"

// Rating returns xmp:Rating.
func Rating(d *xmp.Document) (int, error) {
	v, err := d.GetInt(xmp.NSXMP, xmp.P("Rating"))
	return int(v), err
}

// SetRating stores xmp:Rating. Valid ratings are -1 (rejected) to 5.
func SetRating(d *xmp.Document, rating int) error {
	if rating < -1 || rating > 5 {
		return fmt.Errorf("%w: rating %d outside -1..5", xmp.ErrInvalidValue, rating)
	}
	return d.SetInt(xmp.NSXMP, xmp.P("Rating"), int64(rating))
}

// Orientation returns tiff:Orientation.
func Orientation(d *xmp.Document) (int, error) {
	v, err := d.GetInt(xmp.NSTIFF, xmp.P("Orientation"))
	return int(v), err
}

// SetOrientation stores tiff:Orientation, one of the EXIF values 1 to 8.
func SetOrientation(d *xmp.Document, orientation int) error {
	if orientation < 1 || orientation > 8 {
		return fmt.Errorf("%w: orientation %d outside 1..8", xmp.ErrInvalidValue, orientation)
	}
	return d.SetInt(xmp.NSTIFF, xmp.P("Orientation"), int64(orientation))
}

// Label returns the xmp:Label color label.
func Label(d *xmp.Document) (string, error) {
	return d.GetString(xmp.NSXMP, xmp.P("Label"))
}

// SetLabel stores xmp:Label. An empty label removes the property.
func SetLabel(d *xmp.Document, label string) error {
	if label == "" {
		d.Remove(xmp.NSXMP, xmp.P("Label"))
		return nil
	}
	return d.SetString(xmp.NSXMP, xmp.P("Label"), label)
}

// CreateDate returns xmp:CreateDate.
func CreateDate(d *xmp.Document) (xmp.DateTime, error) {
	return d.GetDate(xmp.NSXMP, xmp.P("CreateDate"))
}

// SetCreateDate stores xmp:CreateDate.
func SetCreateDate(d *xmp.Document, dt xmp.DateTime) error {
	return d.SetDate(xmp.NSXMP, xmp.P("CreateDate"), dt)
}

// ModifyDate returns xmp:ModifyDate.
func ModifyDate(d *xmp.Document) (xmp.DateTime, error) {
	return d.GetDate(xmp.NSXMP, xmp.P("ModifyDate"))
}

// SetModifyDate stores xmp:ModifyDate.
func SetModifyDate(d *xmp.Document, dt xmp.DateTime) error {
	return d.SetDate(xmp.NSXMP, xmp.P("ModifyDate"), dt)
}

// DateTimeOriginal returns exif:DateTimeOriginal, the capture time.
func DateTimeOriginal(d *xmp.Document) (xmp.DateTime, error) {
	return d.GetDate(xmp.NSExif, xmp.P("DateTimeOriginal"))
}

// SetDateTimeOriginal validates and stores an ISO 8601 capture time
// verbatim.
func SetDateTimeOriginal(d *xmp.Document, iso string) error {
	return d.SetDateString(xmp.NSExif, xmp.P("DateTimeOriginal"), iso)
}

// DeleteDateTimeOriginal removes exif:DateTimeOriginal.
func DeleteDateTimeOriginal(d *xmp.Document) {
	d.Remove(xmp.NSExif, xmp.P("DateTimeOriginal"))
}

// flagMarkers are the pick markers written by common photo tools.
var flagMarkers = []struct {
	ns, name string
	on, off  string
}{
	{xmp.NSXMPDM, "pick", "1", "0"},
	{xmp.NSACDSee, "tagged", "True", "False"},
}

// Flagged reports whether any known pick marker is set.
func Flagged(d *xmp.Document) bool {
	for _, m := range flagMarkers {
		if v, err := d.GetBool(m.ns, xmp.P(m.name)); err == nil && v {
			return true
		}
	}
	return false
}

// SetFlagged writes every known pick marker.
func SetFlagged(d *xmp.Document, flagged bool) error {
	for _, m := range flagMarkers {
		v := m.off
		if flagged {
			v = m.on
		}
		if err := d.SetString(m.ns, xmp.P(m.name), v); err != nil {
			return err
		}
	}
	return nil
}

// GPSCoordinates returns exif:GPSLatitude and exif:GPSLongitude in the
// degrees-decimal-minutes text form XMP stores.
func GPSCoordinates(d *xmp.Document) (latitude, longitude string, err error) {
	if latitude, err = d.GetString(xmp.NSExif, xmp.P("GPSLatitude")); err != nil {
		return "", "", err
	}
	if longitude, err = d.GetString(xmp.NSExif, xmp.P("GPSLongitude")); err != nil {
		return "", "", err
	}
	return latitude, longitude, nil
}

// SetGPSCoordinates stores the coordinates together with
// exif:GPSVersionID.
func SetGPSCoordinates(d *xmp.Document, latitude, longitude string) error {
	if latitude == "" || longitude == "" {
		return fmt.Errorf("%w: empty coordinate", xmp.ErrInvalidValue)
	}
	return errors.Join(
		d.SetString(xmp.NSExif, xmp.P("GPSVersionID"), DefaultGPSVersionID),
		d.SetString(xmp.NSExif, xmp.P("GPSLatitude"), latitude),
		d.SetString(xmp.NSExif, xmp.P("GPSLongitude"), longitude),
	)
}

// DeleteGPSCoordinates removes the coordinates and the version id.
func DeleteGPSCoordinates(d *xmp.Document) {
	for _, name := range []string{"GPSVersionID", "GPSLatitude", "GPSLongitude"} {
		d.Remove(xmp.NSExif, xmp.P(name))
	}
}
