// Package i18n holds the host's user-facing strings for each supported
// language. Catalogs are embedded YAML; nested keys are addressed with dots
// ("game.paused") and {name} placeholders are filled from key/value pairs.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default is the language used for missing keys and unknown languages.
const Default = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

// Language is a supported language and its display name.
type Language struct {
	Code string
	Name string
}

var languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "zh-Hans", Name: "简体中文"},
}

// Languages returns the supported languages in menu order.
func Languages() []Language {
	return languages
}

// Supported reports whether code names a bundled catalog.
func Supported(code string) bool {
	for _, l := range languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Next returns the language after code in menu order, wrapping around.
func Next(code string) string {
	for i, l := range languages {
		if l.Code == code {
			return languages[(i+1)%len(languages)].Code
		}
	}
	return Default
}

// Catalog translates keys for one language.
type Catalog struct {
	lang     string
	msgs     map[string]string
	fallback map[string]string
}

// New loads the catalog for lang. An unsupported lang returns the default
// catalog along with an error.
func New(lang string) (*Catalog, error) {
	base, err := load(Default)
	if err != nil {
		return nil, err
	}
	if lang == Default {
		return &Catalog{lang: Default, msgs: base, fallback: base}, nil
	}
	if !Supported(lang) {
		return &Catalog{lang: Default, msgs: base, fallback: base},
			fmt.Errorf("i18n: unsupported language %q", lang)
	}
	msgs, err := load(lang)
	if err != nil {
		return nil, err
	}
	return &Catalog{lang: lang, msgs: msgs, fallback: base}, nil
}

// MustNew is New for languages known to be bundled; it falls back to the
// default catalog instead of failing.
func MustNew(lang string) *Catalog {
	c, err := New(lang)
	if c == nil {
		panic(err)
	}
	return c
}

// Lang returns the catalog's language code.
func (c *Catalog) Lang() string {
	return c.lang
}

// T returns the string for key with {name} placeholders replaced from
// alternating name/value pairs. Missing keys fall back to English, then to
// the key itself.
func (c *Catalog) T(key string, pairs ...any) string {
	s, ok := c.msgs[key]
	if !ok {
		if s, ok = c.fallback[key]; !ok {
			return key
		}
	}
	if len(pairs) < 2 {
		return s
	}
	repl := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		repl = append(repl, "{"+fmt.Sprint(pairs[i])+"}", fmt.Sprint(pairs[i+1]))
	}
	return strings.NewReplacer(repl...).Replace(s)
}

func load(lang string) (map[string]string, error) {
	data, err := localeFS.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("i18n: missing catalog for %s: %w", lang, err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("i18n: cannot parse %s catalog: %w", lang, err)
	}
	out := make(map[string]string)
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
