package props

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/geoknoesis/xmp-go/xmp"
)

// Area is a normalized region rectangle. X and Y are the center point,
// all values are fractions of the image size.
type Area struct {
	X, Y, W, H float64
}

// Faces returns the named face regions of mwg-rs:Regions. Regions without
// a name or a complete area are skipped.
func Faces(d *xmp.Document) (map[string]Area, error) {
	list, ok := d.Get(xmp.NSMWGRS, xmp.P("Regions").Field(xmp.NSMWGRS, "RegionList"))
	if !ok {
		return map[string]Area{}, nil
	}
	if list.Kind() != xmp.KindArray {
		return nil, fmt.Errorf("%w: mwg-rs:RegionList is a %s node", xmp.ErrWrongType, list.Kind())
	}
	faces := make(map[string]Area, list.Len())
	for _, region := range list.Items() {
		if typ, ok := region.Field(xmp.NSMWGRS, "Type"); !ok || typ.Value() != "Face" {
			continue
		}
		name, ok := region.Field(xmp.NSMWGRS, "Name")
		if !ok || name.Value() == "" {
			continue
		}
		area, ok := region.Field(xmp.NSMWGRS, "Area")
		if !ok {
			continue
		}
		a, err := readArea(area)
		if err != nil {
			continue
		}
		faces[name.Value()] = a
	}
	return faces, nil
}

func readArea(n *xmp.Node) (Area, error) {
	var a Area
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"x", &a.X}, {"y", &a.Y}, {"w", &a.W}, {"h", &a.H}} {
		field, ok := n.Field(xmp.TypeArea, f.name)
		if !ok {
			return Area{}, xmp.ErrNotFound
		}
		v, err := strconv.ParseFloat(field.Value(), 64)
		if err != nil {
			return Area{}, fmt.Errorf("%w: stArea:%s %q", xmp.ErrWrongType, f.name, field.Value())
		}
		*f.dst = v
	}
	return a, nil
}

// SetFaces replaces mwg-rs:Regions with one face region per name, ordered
// by name, applied to an image of the given pixel size. An empty map
// removes the property.
func SetFaces(d *xmp.Document, faces map[string]Area, widthPx, heightPx int) error {
	d.Remove(xmp.NSMWGRS, xmp.P("Regions"))
	if len(faces) == 0 {
		return nil
	}
	if widthPx <= 0 || heightPx <= 0 {
		return fmt.Errorf("%w: image size %dx%d", xmp.ErrInvalidValue, widthPx, heightPx)
	}
	dims := xmp.NewStruct()
	err := errors.Join(
		dims.SetField(xmp.TypeDimensions, "w", xmp.NewSimple(strconv.Itoa(widthPx))),
		dims.SetField(xmp.TypeDimensions, "h", xmp.NewSimple(strconv.Itoa(heightPx))),
		dims.SetField(xmp.TypeDimensions, "unit", xmp.NewSimple("pixel")),
	)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(faces))
	for name := range faces {
		names = append(names, name)
	}
	slices.Sort(names)
	list := xmp.NewArray(xmp.ArrayUnordered)
	for _, name := range names {
		region, err := faceRegion(name, faces[name])
		if err != nil {
			return err
		}
		if err := list.Append(region); err != nil {
			return err
		}
	}

	regions := xmp.NewStruct()
	if err := errors.Join(
		regions.SetField(xmp.NSMWGRS, "AppliedToDimensions", dims),
		regions.SetField(xmp.NSMWGRS, "RegionList", list),
	); err != nil {
		return err
	}
	return d.Set(xmp.NSMWGRS, xmp.P("Regions"), regions)
}

func faceRegion(name string, a Area) (*xmp.Node, error) {
	area := xmp.NewStruct()
	for _, f := range []struct {
		name  string
		value float64
	}{{"x", a.X}, {"y", a.Y}, {"w", a.W}, {"h", a.H}} {
		if f.value < 0 || f.value > 1 {
			return nil, fmt.Errorf("%w: face %q stArea:%s %v outside 0..1", xmp.ErrInvalidValue, name, f.name, f.value)
		}
		if err := area.SetField(xmp.TypeArea, f.name, xmp.NewSimple(strconv.FormatFloat(f.value, 'f', -1, 64))); err != nil {
			return nil, err
		}
	}
	if err := area.SetField(xmp.TypeArea, "unit", xmp.NewSimple("normalized")); err != nil {
		return nil, err
	}
	region := xmp.NewStruct()
	err := errors.Join(
		region.SetField(xmp.NSMWGRS, "Area", area),
		region.SetField(xmp.NSMWGRS, "Name", xmp.NewSimple(name)),
		region.SetField(xmp.NSMWGRS, "Type", xmp.NewSimple("Face")),
	)
	return region, err
}

// Location is a shown location.
type Location struct {
	Name    string
	City    string
	State   string
	Country string
}

// IsZero reports whether no part of the location is set.
func (l Location) IsZero() bool { return l == Location{} }

// LocationShown returns the first Iptc4xmpExt:LocationShown entry, falling
// back to photoshop:City, photoshop:State and photoshop:Country.
func LocationShown(d *xmp.Document) Location {
	first := xmp.P("LocationShown").Index(1)
	var loc Location
	if _, ok := d.Get(xmp.NSIPTCExt, first); ok {
		loc.Name, _, _ = d.GetLocalizedText(xmp.NSIPTCExt, first.Field(xmp.NSIPTCExt, "LocationName"), "", xmp.XDefault)
		loc.City, _ = d.GetString(xmp.NSIPTCExt, first.Field(xmp.NSIPTCExt, "City"))
		loc.State, _ = d.GetString(xmp.NSIPTCExt, first.Field(xmp.NSIPTCExt, "ProvinceState"))
		loc.Country, _ = d.GetString(xmp.NSIPTCExt, first.Field(xmp.NSIPTCExt, "CountryName"))
		return loc
	}
	loc.City, _ = d.GetString(xmp.NSPhotoshop, xmp.P("City"))
	loc.State, _ = d.GetString(xmp.NSPhotoshop, xmp.P("State"))
	loc.Country, _ = d.GetString(xmp.NSPhotoshop, xmp.P("Country"))
	return loc
}

// SetLocationShown replaces Iptc4xmpExt:LocationShown with a single entry
// and mirrors city, state and country into the photoshop schema. A zero
// location removes all of them.
func SetLocationShown(d *xmp.Document, loc Location) error {
	d.Remove(xmp.NSIPTCExt, xmp.P("LocationShown"))
	for _, name := range []string{"City", "State", "Country"} {
		d.Remove(xmp.NSPhotoshop, xmp.P(name))
	}
	if loc.IsZero() {
		return nil
	}
	entry := xmp.NewStruct()
	if loc.Name != "" {
		if err := entry.SetField(xmp.NSIPTCExt, "LocationName", xmp.NewArray(xmp.ArrayAlternative, xmp.NewLangText(xmp.XDefault, loc.Name))); err != nil {
			return err
		}
	}
	for _, f := range []struct{ ext, ps, value string }{
		{"City", "City", loc.City},
		{"ProvinceState", "State", loc.State},
		{"CountryName", "Country", loc.Country},
	} {
		if f.value == "" {
			continue
		}
		if err := entry.SetField(xmp.NSIPTCExt, f.ext, xmp.NewSimple(f.value)); err != nil {
			return err
		}
		if err := d.SetString(xmp.NSPhotoshop, xmp.P(f.ps), f.value); err != nil {
			return err
		}
	}
	return d.Set(xmp.NSIPTCExt, xmp.P("LocationShown"), xmp.NewArray(xmp.ArrayUnordered, entry))
}
