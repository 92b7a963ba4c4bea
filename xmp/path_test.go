package xmp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		expr   string
		wantNS string
		want   Path
	}{
		{"dc:title", NSDC, Path{{Kind: SegField, Namespace: NSDC, Name: "title"}}},
		{"dc:creator[2]", NSDC, Path{
			{Kind: SegField, Namespace: NSDC, Name: "creator"},
			{Kind: SegIndex, Index: 2},
		}},
		{"xmpMM:History[last()]/stEvt:action", NSXMPMM, Path{
			{Kind: SegField, Namespace: NSXMPMM, Name: "History"},
			{Kind: SegIndex, Index: LastItem},
			{Kind: SegField, Namespace: TypeResourceEvent, Name: "action"},
		}},
		{`dc:title[?xml:lang="en_us"]`, NSDC, Path{
			{Kind: SegField, Namespace: NSDC, Name: "title"},
			{Kind: SegLang, Lang: "en-US"},
		}},
		{"dc:subject[1]/?xmpidq:Scheme", NSDC, Path{
			{Kind: SegField, Namespace: NSDC, Name: "subject"},
			{Kind: SegIndex, Index: 1},
			{Kind: SegQualifier, Namespace: TypeIdentifierQual, Name: "Scheme"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			ns, path, err := ParsePath(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ns != tt.wantNS {
				t.Fatalf("expected namespace %s, got %s", tt.wantNS, ns)
			}
			if diff := cmp.Diff(tt.want, path); diff != "" {
				t.Fatalf("path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"title",
		"zz:title",
		"dc:title[0]",
		"dc:title[x]",
		"dc:title[1",
		"dc:title[?dc:lang='en']",
		"dc:title[?xml:lang=en]",
		"dc:title]",
		"dc:1title",
	} {
		t.Run(expr, func(t *testing.T) {
			if _, _, err := ParsePath(expr, DefaultRegistry); !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("expected ErrInvalidPath, got %v", err)
			}
		})
	}
}

func TestPathFormatRoundTrip(t *testing.T) {
	for _, expr := range []string{
		"dc:creator[2]",
		"xmpMM:History[last()]/stEvt:action",
		`dc:title[?xml:lang="de-DE"]`,
		"dc:subject[1]/?xmpidq:Scheme",
	} {
		_, path, err := ParsePath(expr, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := path.String(); got != expr {
			t.Fatalf("expected %s, got %s", expr, got)
		}
	}
}

func TestPathBuilders(t *testing.T) {
	base := P("Regions")
	a := base.Field(NSMWGRS, "RegionList")
	b := base.Field(NSMWGRS, "AppliedToDimensions")
	if len(base) != 1 || a[1].Name != "RegionList" || b[1].Name != "AppliedToDimensions" {
		t.Fatal("builders must not share backing arrays")
	}
	if got := P("title").Lang("EN-us")[1].Lang; got != "en-US" {
		t.Fatalf("expected normalized language, got %q", got)
	}
	if got := P("x").Last()[1].Index; got != LastItem {
		t.Fatalf("expected LastItem, got %d", got)
	}
	if P("Rating").Root() != "Rating" || Path(nil).Root() != "" {
		t.Fatal("unexpected Root")
	}
	unknown := Path{{Kind: SegField, Namespace: "http://unknown.example/", Name: "p"}}
	if got := unknown.Format(NewRegistry()); got != "{http://unknown.example/}p" {
		t.Fatalf("unexpected format %s", got)
	}
}
