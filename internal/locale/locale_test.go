package locale

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, lang := range b.Languages() {
		if got := len(b.Categories(lang)); got != CategoryCount {
			t.Fatalf("%s: expected %d categories, got %d", lang, CategoryCount, got)
		}
		for key := range b.Strings(DefaultLanguage) {
			if b.Get(lang, key) == key {
				t.Fatalf("%s: missing translation for %q", lang, key)
			}
		}
	}
}

func TestGetFallback(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := b.Get("xx", "back"); got != b.Get("en", "back") {
		t.Fatalf("expected english fallback for unknown language, got %q", got)
	}
	if got := b.Get("en", "nonexistent_key"); got != "nonexistent_key" {
		t.Fatalf("expected key echo for missing message, got %q", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"🇺🇿 Oʻzbekcha": "uz",
		"🇷🇺 Русский":   "ru",
		"🇬🇧 English":   "en",
		"english":      "en",
		"Uzbek":        "uz",
		"русский":      "ru",
		"klingon":      "",
	}
	for input, want := range cases {
		if got := DetectLanguage(input); got != want {
			t.Fatalf("DetectLanguage(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPickerLabels(t *testing.T) {
	labels := PickerLabels()
	if len(labels) != 3 {
		t.Fatalf("expected 3 picker labels, got %d", len(labels))
	}
	if !strings.Contains(labels[0], "zbekcha") {
		t.Fatalf("expected uzbek first in picker order, got %q", labels[0])
	}
	for _, label := range labels {
		if DetectLanguage(label) == "" {
			t.Fatalf("picker label %q does not round-trip through DetectLanguage", label)
		}
	}
}

func TestSupported(t *testing.T) {
	for _, lang := range []string{"uz", "ru", "en"} {
		if !Supported(lang) {
			t.Fatalf("expected %s to be supported", lang)
		}
	}
	if Supported("de") {
		t.Fatalf("expected de to be unsupported")
	}
}
