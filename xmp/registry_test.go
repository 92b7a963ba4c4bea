package xmp

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestRegistryWellKnownPrefixes(t *testing.T) {
	r := NewRegistry()
	tests := map[string]string{
		NSDC:     "dc",
		NSXMP:    "xmp",
		NSRDF:    "rdf",
		NSExif:   "exif",
		NSMWGRS:  "mwg-rs",
		TypeArea: "stArea",
	}
	for uri, want := range tests {
		got, err := r.Prefix(uri)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("prefix of %s: expected %q, got %q", uri, want, got)
		}
	}
	uri, err := r.URI("dc:")
	if err != nil || uri != NSDC {
		t.Fatalf("expected dc URI, got %q %v", uri, err)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	const custom = "http://example.com/ns/photo/1.0/"

	prefix, err := r.Register(custom, "photo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefix != "photo" {
		t.Fatalf("expected photo, got %q", prefix)
	}

	again, err := r.Register(custom, "other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != "photo" {
		t.Fatalf("re-registering returned %q", again)
	}

	clash, err := r.Register("http://example.com/ns/photo/2.0/", "photo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clash != "photo_1_" {
		t.Fatalf("expected photo_1_, got %q", clash)
	}
	third, _ := r.Register("http://example.com/ns/photo/3.0/", "photo:")
	if third != "photo_2_" {
		t.Fatalf("expected photo_2_, got %q", third)
	}
}

func TestRegistryRegisterInvalid(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name, uri, prefix string
	}{
		{"empty uri", "", "p"},
		{"space in uri", "http://example.com/a b", "p"},
		{"empty prefix", "http://example.com/", ""},
		{"digit prefix", "http://example.com/", "1p"},
		{"colon inside prefix", "http://example.com/", "a:b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Register(tt.uri, tt.prefix); !errors.Is(err, ErrInvalidNamespace) {
				t.Fatalf("expected ErrInvalidNamespace, got %v", err)
			}
		})
	}
}

func TestRegistryNotFound(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Prefix("http://unknown.example/"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.URI("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistryDeleteDropsAliases(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.ResolveAlias(NSPhotoshop, "Caption"); !ok {
		t.Fatal("expected photoshop:Caption alias")
	}
	r.Delete(NSPhotoshop)
	if _, err := r.Prefix(NSPhotoshop); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected namespace gone, got %v", err)
	}
	if _, ok := r.ResolveAlias(NSPhotoshop, "Caption"); ok {
		t.Fatal("alias survived namespace deletion")
	}
	if len(r.Aliases(NSPhotoshop)) != 0 {
		t.Fatal("expected no photoshop aliases")
	}
}

func TestRegistryAliases(t *testing.T) {
	r := NewRegistry()
	a, ok := r.ResolveAlias(NSPDF, "Title")
	if !ok {
		t.Fatal("expected pdf:Title alias")
	}
	if a.Namespace != NSDC || a.Name != "title" || a.Form != AliasAltText {
		t.Fatalf("unexpected alias %+v", a)
	}
	if got := a.Path().Format(r); got != `dc:title[?xml:lang="x-default"]` {
		t.Fatalf("unexpected alias path %s", got)
	}

	names := r.Aliases(NSTIFF)
	if len(names) == 0 || names[0].Name != "Artist" {
		t.Fatalf("expected sorted tiff aliases, got %v", names)
	}
}

func TestRegisterAliasRules(t *testing.T) {
	r := NewRegistry()
	const custom = "http://example.com/ns/cam/"
	if _, err := r.Register(custom, "cam"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.RegisterAlias(custom, "Headline", NSPhotoshop, "Headline", AliasSimple); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.RegisterAlias(custom, "Headline", NSPhotoshop, "Headline", AliasSimple); err != nil {
		t.Fatalf("identical re-registration failed: %v", err)
	}

	tests := []struct {
		name                         string
		ns, alias, actualNS, actual  string
		form                         AliasForm
		want                         error
	}{
		{"redefined", custom, "Headline", NSDC, "title", AliasSimple, ErrInvalidValue},
		{"chained", custom, "Caption", NSPhotoshop, "Caption", AliasSimple, ErrInvalidValue},
		{"target is alias", NSPhotoshop, "Headline", NSDC, "title", AliasSimple, ErrInvalidValue},
		{"unknown namespace", "http://unregistered.example/", "A", NSDC, "title", AliasSimple, ErrInvalidNamespace},
		{"bad name", custom, "not a name", NSDC, "title", AliasSimple, ErrInvalidValue},
		{"bad form", custom, "Other", NSDC, "title", AliasForm(9), ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.RegisterAlias(tt.ns, tt.alias, tt.actualNS, tt.actual, tt.form)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNamespaceScope(t *testing.T) {
	r := NewRegistry()
	var scope NamespaceScope
	scope.Push(map[string]string{"a": "http://outer/", "": "http://default/"})
	scope.Push(map[string]string{"a": "http://inner/"})

	uri, err := r.ResolveURI("a", &scope)
	if err != nil || uri != "http://inner/" {
		t.Fatalf("expected innermost binding, got %q %v", uri, err)
	}
	if uri, _ := r.ResolveURI("", &scope); uri != "http://default/" {
		t.Fatalf("expected default namespace, got %q", uri)
	}
	if uri, _ := r.ResolveURI("dc", &scope); uri != NSDC {
		t.Fatalf("expected registry fallback, got %q", uri)
	}

	scope.Pop()
	if uri, _ := r.ResolveURI("a", &scope); uri != "http://outer/" {
		t.Fatalf("expected outer binding after pop, got %q", uri)
	}
	scope.Pop()
	scope.Pop()
	if scope.Depth() != 0 {
		t.Fatalf("expected empty scope, got depth %d", scope.Depth())
	}
	if _, err := r.ResolveURI("", &scope); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing default namespace, got %v", err)
	}
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	prefixes := make([]string, 16)
	for i := range prefixes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := r.Register(fmt.Sprintf("http://example.com/ns/%d/", i), "ns")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			prefixes[i] = p
		}(i)
	}
	wg.Wait()
	seen := map[string]bool{}
	for _, p := range prefixes {
		if seen[p] {
			t.Fatalf("prefix %q handed out twice", p)
		}
		seen[p] = true
	}
}
