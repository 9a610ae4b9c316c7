package i18n

import (
	"strings"
	"testing"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	en, err := load("en")
	if err != nil {
		t.Fatalf("load(en) error: %v", err)
	}
	for _, l := range Languages() {
		msgs, err := load(l.Code)
		if err != nil {
			t.Fatalf("load(%s) error: %v", l.Code, err)
		}
		for k := range en {
			if _, ok := msgs[k]; !ok {
				t.Errorf("%s is missing key %s", l.Code, k)
			}
		}
		for k := range msgs {
			if _, ok := en[k]; !ok {
				t.Errorf("%s has key %s not in en", l.Code, k)
			}
		}
	}
}

func TestT(t *testing.T) {
	tests := []struct {
		lang  string
		key   string
		pairs []any
		want  string
	}{
		{"en", "game.paused", nil, "PAUSED"},
		{"en", "game.level", []any{"stage", 3}, "LEVEL 3"},
		{"en", "game.time", []any{"seconds", 45}, "TIME: 45"},
		{"zh-Hans", "game.level", []any{"stage", "R"}, "第 R 关"},
		{"en", "stats.answer_yes", nil, "yes"},
		{"en", "no.such.key", nil, "no.such.key"},
	}

	for _, tc := range tests {
		c, err := New(tc.lang)
		if err != nil {
			t.Fatalf("New(%s) error: %v", tc.lang, err)
		}
		if got := c.T(tc.key, tc.pairs...); got != tc.want {
			t.Errorf("%s T(%s) = %q, expected %q", tc.lang, tc.key, got, tc.want)
		}
	}
}

func TestNewUnsupported(t *testing.T) {
	c, err := New("tlh")
	if err == nil || !strings.Contains(err.Error(), "tlh") {
		t.Errorf("expected unsupported language error, got %v", err)
	}
	if c == nil || c.Lang() != Default {
		t.Fatal("expected default catalog alongside the error")
	}
	if c.T("game.paused") != "PAUSED" {
		t.Error("fallback catalog should be English")
	}
}

func TestNext(t *testing.T) {
	if got := Next("en"); got != "zh-Hans" {
		t.Errorf("Next(en) = %s, expected zh-Hans", got)
	}
	if got := Next("zh-Hans"); got != "en" {
		t.Errorf("Next(zh-Hans) = %s, expected en", got)
	}
	if got := Next("xx"); got != Default {
		t.Errorf("Next(xx) = %s, expected %s", got, Default)
	}
}
