package props

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/geoknoesis/xmp-go/xmp"
)

func TestRating(t *testing.T) {
	d := xmp.New()
	if _, err := Rating(d); !errors.Is(err, xmp.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := SetRating(d, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Rating(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected rating 4, got %d", got)
	}
	for _, bad := range []int{-2, 6} {
		if err := SetRating(d, bad); !errors.Is(err, xmp.ErrInvalidValue) {
			t.Fatalf("rating %d: expected ErrInvalidValue, got %v", bad, err)
		}
	}
}

func TestOrientation(t *testing.T) {
	d := xmp.New()
	if err := SetOrientation(d, 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := Orientation(d); got != 6 {
		t.Fatalf("expected orientation 6, got %d", got)
	}
	if err := SetOrientation(d, 9); !errors.Is(err, xmp.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	d := xmp.New()
	if err := SetLabel(d, "Red"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := Label(d); got != "Red" {
		t.Fatalf("expected Red, got %q", got)
	}
	if err := SetLabel(d, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Has(xmp.NSXMP, xmp.P("Label")) {
		t.Fatal("expected label to be removed")
	}
}

func TestDates(t *testing.T) {
	d := xmp.New()
	if err := SetDateTimeOriginal(d, "2023-07-14T10:20:30+02:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dt, err := DateTimeOriginal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dt.String() != "2023-07-14T10:20:30+02:00" {
		t.Fatalf("unexpected date %s", dt)
	}
	if err := SetDateTimeOriginal(d, "2023-13-01"); err == nil {
		t.Fatal("expected error for month 13")
	}
	DeleteDateTimeOriginal(d)
	if _, err := DateTimeOriginal(d); !errors.Is(err, xmp.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created, err := xmp.ParseDate("2020-01-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := SetCreateDate(d, created); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := SetModifyDate(d, created); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := CreateDate(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "2020-01-02" {
		t.Fatalf("unexpected create date %s", got)
	}
	if _, err := ModifyDate(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFlagged(t *testing.T) {
	d := xmp.New()
	if Flagged(d) {
		t.Fatal("empty document reported flagged")
	}
	if err := SetFlagged(d, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Flagged(d) {
		t.Fatal("expected flagged")
	}
	if v, _ := d.GetString(xmp.NSXMPDM, xmp.P("pick")); v != "1" {
		t.Fatalf("expected xmpDM:pick 1, got %q", v)
	}
	if v, _ := d.GetString(xmp.NSACDSee, xmp.P("tagged")); v != "True" {
		t.Fatalf("expected acdsee:tagged True, got %q", v)
	}
	if err := SetFlagged(d, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Flagged(d) {
		t.Fatal("expected not flagged")
	}
}

func TestFlaggedFromParsedPacket(t *testing.T) {
	const packet = `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description rdf:about="" xmlns:acdsee="http://ns.acdsee.com/iptc/1.0/" acdsee:tagged="True"/>
</rdf:RDF></x:xmpmeta>`
	d, err := xmp.ParseString(packet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Flagged(d) {
		t.Fatal("expected acdsee:tagged to mark the document flagged")
	}
}

func TestGPSCoordinates(t *testing.T) {
	d := xmp.New()
	if err := SetGPSCoordinates(d, "53,13.1635N", "8,14.3797E"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lat, lon, err := GPSCoordinates(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != "53,13.1635N" || lon != "8,14.3797E" {
		t.Fatalf("unexpected coordinates %q %q", lat, lon)
	}
	if v, _ := d.GetString(xmp.NSExif, xmp.P("GPSVersionID")); v != DefaultGPSVersionID {
		t.Fatalf("unexpected version id %q", v)
	}
	if err := SetGPSCoordinates(d, "", "1"); !errors.Is(err, xmp.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	DeleteGPSCoordinates(d)
	if d.Len() != 0 {
		t.Fatalf("expected empty document, got %d properties", d.Len())
	}
}

func TestKeywordsSortedBag(t *testing.T) {
	d := xmp.New()
	if got, err := Keywords(d); err != nil || len(got) != 0 {
		t.Fatalf("expected no keywords, got %v %v", got, err)
	}
	if err := SetKeywords(d, []string{"zebra", "apple", "mango", "apple"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := d.Get(xmp.NSDC, xmp.P("subject"))
	if !ok || n.Form() != xmp.ArrayUnordered {
		t.Fatalf("expected dc:subject bag, got %v", n)
	}
	got, err := Keywords(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"apple", "mango", "zebra"}, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
	if err := SetKeywords(d, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Has(xmp.NSDC, xmp.P("subject")) {
		t.Fatal("expected dc:subject removed")
	}
}

func TestKeywordsDeduplicatesParsedValues(t *testing.T) {
	d := xmp.New()
	if err := d.SetStrings(xmp.NSDC, xmp.P("subject"), xmp.ArrayUnordered, []string{"b", "a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Keywords(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestPersonsInImage(t *testing.T) {
	d := xmp.New()
	if err := SetPersonsInImage(d, []string{"Swiper", "Dora"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := PersonsInImage(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Dora", "Swiper"}, got); diff != "" {
		t.Fatalf("persons mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatorsKeepOrder(t *testing.T) {
	d := xmp.New()
	if err := SetCreators(d, []string{"Zoe", "Adam"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Creators(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Zoe", "Adam"}, got); diff != "" {
		t.Fatalf("creators mismatch (-want +got):\n%s", diff)
	}
	n, _ := d.Get(xmp.NSDC, xmp.P("creator"))
	if n.Form() != xmp.ArrayOrdered {
		t.Fatalf("expected Seq, got %s", n.Form())
	}
}

func TestTitleAndDescription(t *testing.T) {
	d := xmp.New()
	if _, ok := Title(d, ""); ok {
		t.Fatal("expected no title")
	}
	if err := SetTitle(d, "", "Heron"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := SetTitle(d, "de-DE", "Reiher"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := Title(d, ""); got != "Heron" {
		t.Fatalf("expected default title Heron, got %q", got)
	}
	if got, _ := Title(d, "de-DE"); got != "Reiher" {
		t.Fatalf("expected German title Reiher, got %q", got)
	}
	if got, _ := Title(d, "fr-FR"); got != "Heron" {
		t.Fatalf("expected fallback to x-default, got %q", got)
	}

	if err := SetDescription(d, "en-US", "A grey heron"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := Description(d, "")
	if !ok || got != "A grey heron" {
		t.Fatalf("expected description via x-default, got %q", got)
	}
}

func TestFacesRoundTrip(t *testing.T) {
	d := xmp.New()
	faces := map[string]Area{
		"Swiper": {X: 0.5, Y: 0.25, W: 0.1, H: 0.2},
		"Dora":   {X: 0.3, Y: 0.4, W: 0.15, H: 0.25},
	}
	if err := SetFaces(d, faces, 4000, 3000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, err := d.GetInt(xmp.NSMWGRS, xmp.P("Regions").Field(xmp.NSMWGRS, "AppliedToDimensions").Field(xmp.TypeDimensions, "w"))
	if err != nil || w != 4000 {
		t.Fatalf("expected width 4000, got %d %v", w, err)
	}
	first, err := d.GetString(xmp.NSMWGRS, xmp.P("Regions").Field(xmp.NSMWGRS, "RegionList").Index(1).Field(xmp.NSMWGRS, "Name"))
	if err != nil || first != "Dora" {
		t.Fatalf("expected regions ordered by name, got %q %v", first, err)
	}

	out, err := xmp.Serialize(d, xmp.CanonicalSerializeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, err := xmp.Parse(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Faces(parsed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(faces, got); diff != "" {
		t.Fatalf("faces mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFacesRejectsBadInput(t *testing.T) {
	d := xmp.New()
	if err := SetFaces(d, map[string]Area{"a": {X: 2}}, 10, 10); !errors.Is(err, xmp.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := SetFaces(d, map[string]Area{"a": {}}, 0, 10); !errors.Is(err, xmp.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := SetFaces(d, nil, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := Faces(d); len(got) != 0 {
		t.Fatalf("expected no faces, got %v", got)
	}
}

func TestLocationShown(t *testing.T) {
	d := xmp.New()
	loc := Location{Name: "Schloss", City: "Bremen", State: "Bremen", Country: "Germany"}
	if err := SetLocationShown(d, loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(loc, LocationShown(d)); diff != "" {
		t.Fatalf("location mismatch (-want +got):\n%s", diff)
	}
	if city, _ := d.GetString(xmp.NSPhotoshop, xmp.P("City")); city != "Bremen" {
		t.Fatalf("expected photoshop:City Bremen, got %q", city)
	}

	d.Remove(xmp.NSIPTCExt, xmp.P("LocationShown"))
	fallback := LocationShown(d)
	if fallback.Name != "" || fallback.Country != "Germany" {
		t.Fatalf("unexpected fallback location %+v", fallback)
	}

	if err := SetLocationShown(d, Location{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !LocationShown(d).IsZero() {
		t.Fatal("expected location cleared")
	}
}

func TestStampIDs(t *testing.T) {
	d := xmp.New()
	if err := StampIDs(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	docID, _ := d.GetString(xmp.NSXMPMM, xmp.P("DocumentID"))
	original, _ := d.GetString(xmp.NSXMPMM, xmp.P("OriginalDocumentID"))
	first, _ := d.GetString(xmp.NSXMPMM, xmp.P("InstanceID"))
	if !strings.HasPrefix(docID, "xmp.did:") || original != docID {
		t.Fatalf("unexpected ids %q %q", docID, original)
	}
	if !strings.HasPrefix(first, "xmp.iid:") {
		t.Fatalf("unexpected instance id %q", first)
	}

	if err := StampIDs(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, _ := d.GetString(xmp.NSXMPMM, xmp.P("DocumentID"))
	second, _ := d.GetString(xmp.NSXMPMM, xmp.P("InstanceID"))
	if again != docID {
		t.Fatalf("document id changed from %q to %q", docID, again)
	}
	if second == first {
		t.Fatal("expected a new instance id")
	}
}

func TestRatingAndKeywordsPacket(t *testing.T) {
	const packet = `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/" xmp:Rating="1"/>` +
		`</rdf:RDF></x:xmpmeta>`
	d, err := xmp.ParseString(packet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := SetRating(d, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := SetKeywords(d, []string{"cat", "cute", "animal"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := xmp.SerializeToString(d, xmp.SerializeOptions{Compact: true, Sort: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<?xpacket begin="` + "\uFEFF" + `" id="W5M0MpCehiHzreSzNTczkc9d"?>` +
		`<x:xmpmeta xmlns:x="adobe:ns:meta/" x:xmptk="xmp-go 1.0">` +
		`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:xmp="http://ns.adobe.com/xap/1.0/" xmp:Rating="3">` +
		`<dc:subject><rdf:Bag><rdf:li>animal</rdf:li><rdf:li>cat</rdf:li><rdf:li>cute</rdf:li></rdf:Bag></dc:subject>` +
		`</rdf:Description></rdf:RDF></x:xmpmeta><?xpacket end="w"?>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected packet (-want +got):\n%s", diff)
	}
}
