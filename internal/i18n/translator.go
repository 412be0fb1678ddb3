package i18n

import (
	"errors"
	"io/fs"
	"regexp"
	"strings"
	"sync"

	appLog "holical/internal/log"
)

// Translation keys for the two status suffixes.
const (
	ObservedKey    = "holiday_observed_suffix"
	SubstitutedKey = "holiday_substituted_suffix"

	observedTemplate    = "(observed)"
	substitutedTemplate = "(substituted from {date})"
	dayOffName          = "Day off"
)

var (
	substitutedPattern = regexp.MustCompile(`^Day off \(substituted from (.+)\)$`)
	nonAlnum           = regexp.MustCompile(`[^a-z0-9]+`)
)

// Key derives the translation-file key of an English holiday name:
// "New Year's Day" becomes "holiday_new_years_day".
func Key(englishName string) string {
	switch englishName {
	case observedTemplate:
		return ObservedKey
	case substitutedTemplate:
		return SubstitutedKey
	}
	s := strings.ToLower(strings.TrimSpace(englishName))
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	s = strings.Trim(nonAlnum.ReplaceAllString(s, "_"), "_")
	return "holiday_" + s
}

// Translator maps raw English holiday names to display text.
type Translator struct {
	loader Loader

	mu    sync.RWMutex
	files map[string]map[string]string
}

// NewTranslator uses loader for translation files; nil means no files.
func NewTranslator(loader Loader) *Translator {
	return &Translator{
		loader: loader,
		files:  make(map[string]map[string]string),
	}
}

// Translate localizes rawName for a holiday of country shown in locale.
// Unless locale is country's native locale the English name comes back
// unchanged. "(observed)" and "substituted from" names are translated in
// two parts; the date inside a substituted suffix is kept verbatim.
func (t *Translator) Translate(rawName, locale, country string) string {
	loc := NormalizeLocale(locale)
	if !IsNative(loc, country) {
		return rawName
	}

	if base, ok := strings.CutSuffix(rawName, " "+observedTemplate); ok {
		return t.lookup(loc, base) + " " + t.lookup(loc, observedTemplate)
	}
	if m := substitutedPattern.FindStringSubmatch(rawName); m != nil {
		suffix := strings.ReplaceAll(t.lookup(loc, substitutedTemplate), "{date}", m[1])
		return t.lookup(loc, dayOffName) + " " + suffix
	}
	return t.lookup(loc, rawName)
}

// lookup tries the locale's translation file, then the built-in table,
// then returns english.
func (t *Translator) lookup(locale, english string) string {
	if v, ok := t.file(locale)[Key(english)]; ok && v != "" {
		return v
	}
	if v, ok := builtin[locale][english]; ok && v != "" {
		return v
	}
	return english
}

func (t *Translator) file(locale string) map[string]string {
	t.mu.RLock()
	m, ok := t.files[locale]
	t.mu.RUnlock()
	if ok {
		return m
	}

	m = map[string]string{}
	if t.loader != nil {
		loaded, err := t.loader.Load(locale)
		switch {
		case err == nil:
			m = loaded
		case errors.Is(err, fs.ErrNotExist):
			appLog.Debug("no translation file for locale", "locale", locale)
		default:
			appLog.Error("translation file unreadable; using built-in table", err, "locale", locale)
		}
	}

	t.mu.Lock()
	t.files[locale] = m
	t.mu.Unlock()
	return m
}

// Clear forgets loaded translation files so they are read again.
func (t *Translator) Clear() {
	t.mu.Lock()
	t.files = make(map[string]map[string]string)
	t.mu.Unlock()
}
