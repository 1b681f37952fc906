package locale

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is used before a user has picked a language and as the
// fallback for missing translations.
const DefaultLanguage = "en"

// CategoryCount is the number of fixed search categories every bundle
// must provide labels for.
const CategoryCount = 6

// Supported languages in picker order.
var languages = []string{"uz", "ru", "en"}

// Language picker labels shown before any language is known. Order matches
// languages above.
var pickerLabels = map[string]string{
	"🇺🇿 Oʻzbekcha": "uz",
	"🇷🇺 Русский":   "ru",
	"🇬🇧 English":   "en",
}

type bundleFile struct {
	Messages   map[string]string `yaml:"messages"`
	Categories []string          `yaml:"categories"`
}

// Bundle holds the localized strings for every supported language.
// Immutable after Load; safe for unsynchronized concurrent reads.
type Bundle struct {
	messages   map[string]map[string]string
	categories map[string][]string
}

// Load parses the embedded YAML bundles and verifies that every language
// carries the same message keys and a full category list.
func Load() (*Bundle, error) {
	b := &Bundle{
		messages:   make(map[string]map[string]string, len(languages)),
		categories: make(map[string][]string, len(languages)),
	}

	for _, lang := range languages {
		raw, err := localeFS.ReadFile("locales/" + lang + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s bundle: %w", lang, err)
		}
		var file bundleFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse %s bundle: %w", lang, err)
		}
		if len(file.Categories) != CategoryCount {
			return nil, fmt.Errorf("%s bundle has %d categories, want %d", lang, len(file.Categories), CategoryCount)
		}
		b.messages[lang] = file.Messages
		b.categories[lang] = file.Categories
	}

	if err := b.checkCompleteness(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bundle) checkCompleteness() error {
	reference := keysOf(b.messages[DefaultLanguage])
	for _, lang := range languages {
		if lang == DefaultLanguage {
			continue
		}
		keys := keysOf(b.messages[lang])
		if strings.Join(keys, ",") != strings.Join(reference, ",") {
			return fmt.Errorf("%s bundle keys diverge from %s", lang, DefaultLanguage)
		}
	}
	return nil
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Languages lists the supported language codes in picker order.
func (b *Bundle) Languages() []string {
	out := make([]string, len(languages))
	copy(out, languages)
	return out
}

// Get returns the localized message for key, falling back to the default
// language and finally to the key itself.
func (b *Bundle) Get(lang, key string) string {
	if msgs, ok := b.messages[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := b.messages[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// Strings returns a copy of the whole message map for a language.
func (b *Bundle) Strings(lang string) map[string]string {
	src, ok := b.messages[lang]
	if !ok {
		src = b.messages[DefaultLanguage]
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Categories returns the localized category labels in canonical order.
func (b *Bundle) Categories(lang string) []string {
	src, ok := b.categories[lang]
	if !ok {
		src = b.categories[DefaultLanguage]
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// PickerLabels returns the language picker button labels in picker order.
func PickerLabels() []string {
	out := make([]string, 0, len(languages))
	for _, lang := range languages {
		for label, code := range pickerLabels {
			if code == lang {
				out = append(out, label)
			}
		}
	}
	return out
}

// DetectLanguage maps a picker button press (or a typed language name) to a
// language code. The empty string means no match.
func DetectLanguage(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if code, ok := pickerLabels[strings.TrimSpace(text)]; ok {
		return code
	}
	switch {
	case strings.Contains(normalized, "zbekcha"), strings.Contains(normalized, "uzbek"):
		return "uz"
	case strings.Contains(normalized, "русский"), strings.Contains(normalized, "russian"):
		return "ru"
	case strings.Contains(normalized, "english"):
		return "en"
	}
	return ""
}

// Supported reports whether lang is a known language code.
func Supported(lang string) bool {
	for _, l := range languages {
		if l == lang {
			return true
		}
	}
	return false
}
