package i18n

import (
	"testing"
	"testing/fstest"
)

func TestTranslateNativeOnly(t *testing.T) {
	tr := NewTranslator(nil)
	tests := []struct {
		name    string
		raw     string
		locale  string
		country string
		want    string
	}{
		{name: "native german", raw: "German Unity Day", locale: "de_DE", country: "DE", want: "Tag der Deutschen Einheit"},
		{name: "native japanese", raw: "Coming of Age Day", locale: "ja-jp", country: "jp", want: "成人の日"},
		{name: "foreign locale", raw: "Christmas Day", locale: "de_DE", country: "US", want: "Christmas Day"},
		{name: "english locale for japan", raw: "Coming of Age Day", locale: "en_US", country: "JP", want: "Coming of Age Day"},
		{name: "unknown locale", raw: "Labour Day", locale: "xx_YY", country: "DE", want: "Labour Day"},
		{name: "missing entry", raw: "Some Local Feast", locale: "de_DE", country: "DE", want: "Some Local Feast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Translate(tt.raw, tt.locale, tt.country); got != tt.want {
				t.Errorf("Translate(%q, %q, %q) = %q, want %q", tt.raw, tt.locale, tt.country, got, tt.want)
			}
		})
	}
}

func TestTranslateObservedAndSubstituted(t *testing.T) {
	tr := NewTranslator(nil)

	got := tr.Translate("Emperor's Birthday (observed)", "ja_JP", "JP")
	if got != "天皇誕生日 (振替休日)" {
		t.Errorf("observed: got %q", got)
	}

	got = tr.Translate("Day off (substituted from 01/26/2025)", "zh_CN", "CN")
	if got != "休息日 (由 01/26/2025 调休)" {
		t.Errorf("substituted: got %q", got)
	}

	// Base name without an entry keeps English but the suffix is localized.
	got = tr.Translate("Harvest Day (observed)", "de_DE", "DE")
	if got != "Harvest Day (nachgeholt)" {
		t.Errorf("observed fallback: got %q", got)
	}
}

func TestTranslateFileOverridesBuiltin(t *testing.T) {
	fsys := fstest.MapFS{
		"de_DE.yaml": {Data: []byte("holiday_new_years_day: Neujahrstag\nholiday_observed_suffix: \"(Ersatz)\"\n")},
	}
	tr := NewTranslator(FSLoader{FS: fsys})

	if got := tr.Translate("New Year's Day", "de_DE", "DE"); got != "Neujahrstag" {
		t.Errorf("expected file value, got %q", got)
	}
	if got := tr.Translate("Good Friday", "de_DE", "DE"); got != "Karfreitag" {
		t.Errorf("expected builtin fallback, got %q", got)
	}
	if got := tr.Translate("New Year's Day (observed)", "de_DE", "DE"); got != "Neujahrstag (Ersatz)" {
		t.Errorf("expected file suffix, got %q", got)
	}

	fsys["de_DE.yaml"] = &fstest.MapFile{Data: []byte("holiday_new_years_day: Neujahr!\n")}
	if got := tr.Translate("New Year's Day", "de_DE", "DE"); got != "Neujahrstag" {
		t.Errorf("expected cached value before Clear, got %q", got)
	}
	tr.Clear()
	if got := tr.Translate("New Year's Day", "de_DE", "DE"); got != "Neujahr!" {
		t.Errorf("expected reloaded value after Clear, got %q", got)
	}
}

func TestTranslateBrokenFileFallsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"fr_FR.yaml": {Data: []byte("holiday_new_years_day: [unterminated\n")},
	}
	tr := NewTranslator(FSLoader{FS: fsys})
	if got := tr.Translate("Christmas Day", "fr_FR", "FR"); got != "Noël" {
		t.Errorf("expected builtin value, got %q", got)
	}
}

func TestChainLoaderPrecedence(t *testing.T) {
	first := FSLoader{FS: fstest.MapFS{"ja_JP.yaml": {Data: []byte("holiday_culture_day: A\n")}}}
	second := FSLoader{FS: fstest.MapFS{"ja_JP.yaml": {Data: []byte("holiday_culture_day: B\nholiday_marine_day: C\n")}}}

	m, err := ChainLoader{first, second}.Load("ja_JP")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m["holiday_culture_day"] != "A" || m["holiday_marine_day"] != "C" {
		t.Errorf("unexpected merge %v", m)
	}
	if _, err := (ChainLoader{first}).Load("ko_KR"); err == nil {
		t.Errorf("expected not-exist error for missing locale")
	}
}

func TestEmbeddedLocalesParse(t *testing.T) {
	l := EmbeddedLoader()
	for _, loc := range []string{"de_DE", "fr_FR", "ja_JP", "zh_CN", "ar_SA"} {
		m, err := l.Load(loc)
		if err != nil {
			t.Errorf("%s: %v", loc, err)
			continue
		}
		if len(m) == 0 {
			t.Errorf("%s: empty translation file", loc)
		}
	}
}

func TestKey(t *testing.T) {
	tests := map[string]string{
		"New Year's Day":                     "holiday_new_years_day",
		"Chinese New Year (Spring Festival)": "holiday_chinese_new_year_spring_festival",
		"Tomb-Sweeping Day":                  "holiday_tomb_sweeping_day",
		observedTemplate:                     ObservedKey,
		substitutedTemplate:                  SubstitutedKey,
	}
	for in, want := range tests {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := map[string]string{
		"de-de":       "de_DE",
		"DE_de":       "de_DE",
		"en_US.UTF-8": "en_US",
		" ja_JP ":     "ja_JP",
		"EN":          "en",
	}
	for in, want := range tests {
		if got := NormalizeLocale(in); got != want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
	if c, ok := CountryForLocale("ko-KR"); !ok || c != "KR" {
		t.Errorf("CountryForLocale(ko-KR) = %q, %v", c, ok)
	}
	if l, ok := LocaleForCountry("sa"); !ok || l != "ar_SA" {
		t.Errorf("LocaleForCountry(sa) = %q, %v", l, ok)
	}
}
