package xmp

import (
	"testing"
)

func TestNormalizeLang(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"X-Default":   "x-default",
		"en":          "en",
		"EN-us":       "en-US",
		"de_de":       "de-DE",
		" fr-CA ":     "fr-CA",
		"zh-hant-tw":  "zh-Hant-TW",
	}
	for in, want := range tests {
		if got := normalizeLang(in); got != want {
			t.Fatalf("normalizeLang(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestLocalizedTextFallback(t *testing.T) {
	d := New()
	if _, _, ok := d.GetLocalizedText(NSDC, P("title"), "", "en-US"); ok {
		t.Fatal("absent array must yield nothing")
	}
	if err := d.SetLocalizedText(NSDC, P("title"), "", XDefault, "cat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, lang := range []string{"en-US", "de-DE", "ja", ""} {
		if v, _, _ := d.GetLocalizedText(NSDC, P("title"), "", lang); v != "cat" {
			t.Fatalf("%q: expected cat, got %q", lang, v)
		}
	}

	if err := d.AppendItem(NSDC, P("title"), ArrayAlternative, NewLangText("en-US", "feline")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, lang, _ := d.GetLocalizedText(NSDC, P("title"), "", "en-US"); v != "feline" || lang != "en-US" {
		t.Fatalf("expected feline/en-US, got %q/%q", v, lang)
	}
	if v, _, _ := d.GetLocalizedText(NSDC, P("title"), "", "de-DE"); v != "cat" {
		t.Fatalf("expected default for de-DE, got %q", v)
	}
	if v, _, _ := d.GetLocalizedText(NSDC, P("title"), "", "en-GB"); v != "feline" {
		t.Fatalf("expected generic en match for en-GB, got %q", v)
	}
}

func TestLocalizedTextFirstItemFallback(t *testing.T) {
	d := New()
	_ = d.Set(NSDC, P("title"), NewArray(ArrayAlternative, NewLangText("fr", "chat"), NewLangText("it", "gatto")))
	if v, lang, ok := d.GetLocalizedText(NSDC, P("title"), "", "de"); !ok || v != "chat" || lang != "fr" {
		t.Fatalf("expected first item, got %q %q %v", v, lang, ok)
	}
}

func TestSetLocalizedText(t *testing.T) {
	d := New()
	if err := d.SetLocalizedText(NSDC, P("title"), "en", "en-US", "Heron"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	title, _ := d.Get(NSDC, P("title"))
	if title.Len() != 2 {
		t.Fatalf("expected x-default plus en-US, got %d items", title.Len())
	}
	first, _ := title.Item(1)
	if first.Lang() != XDefault || first.Value() != "Heron" {
		t.Fatalf("unexpected first item %v %q", first, first.Lang())
	}

	// Updating the language that mirrors x-default keeps both in sync.
	if err := d.SetLocalizedText(NSDC, P("title"), "", "en-US", "Grey heron"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _, _ := d.GetLocalizedText(NSDC, P("title"), "", XDefault); v != "Grey heron" {
		t.Fatalf("x-default not updated: %q", v)
	}

	if err := d.SetLocalizedText(NSDC, P("title"), "", "de-DE", "Graureiher"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _, _ := d.GetLocalizedText(NSDC, P("title"), "", XDefault); v != "Grey heron" {
		t.Fatalf("x-default changed by another language: %q", v)
	}
	if n, _ := d.CountArrayItems(NSDC, P("title")); n != 3 {
		t.Fatalf("expected 3 items, got %d", n)
	}
}

func TestSetLocalizedTextKeepsDefault(t *testing.T) {
	d := New()
	if err := d.SetLocalizedText(NSDC, P("title"), "", XDefault, "cat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetLocalizedText(NSDC, P("title"), "", "en-US", "feline"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		lang      string
		wantValue string
		wantLang  string
	}{
		{"en-US", "feline", "en-US"},
		{"de-DE", "cat", XDefault},
		{XDefault, "cat", XDefault},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			v, lang, ok := d.GetLocalizedText(NSDC, P("title"), "", tt.lang)
			if !ok || v != tt.wantValue || lang != tt.wantLang {
				t.Fatalf("got %q (%s), want %q (%s)", v, lang, tt.wantValue, tt.wantLang)
			}
		})
	}
	if n, _ := d.CountArrayItems(NSDC, P("title")); n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}
}

func TestSetLocalizedTextErrors(t *testing.T) {
	d := New()
	if err := d.SetLocalizedText(NSDC, P("title"), "", " ", "x"); err == nil {
		t.Fatal("expected error for empty language")
	}
	_ = d.SetStrings(NSDC, P("subject"), ArrayUnordered, []string{"a"})
	if err := d.SetLocalizedText(NSDC, P("subject"), "", "en", "x"); err == nil {
		t.Fatal("expected error for a non-alt array")
	}
	_ = d.SetString(NSXMP, P("Label"), "x")
	if err := d.SetLocalizedText(NSXMP, P("Label"), "", "en", "x"); err == nil {
		t.Fatal("expected error for a simple property")
	}
}
