// Package i18n localizes holiday names under a native-locale-only policy:
// a holiday is translated only into the locale canonically tied to its
// country, never into an unrelated language.
package i18n

import (
	"sort"
	"strings"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en_US"

// localeCountry ties each supported locale to its home country.
var localeCountry = map[string]string{
	"en_US": "US",
	"en_GB": "GB",
	"en_CA": "CA",
	"de_DE": "DE",
	"fr_FR": "FR",
	"nl_NL": "NL",
	"it_IT": "IT",
	"es_ES": "ES",
	"ja_JP": "JP",
	"zh_CN": "CN",
	"ko_KR": "KR",
	"ar_SA": "SA",
	"ar_AE": "AE",
	"hi_IN": "IN",
	"he_IL": "IL",
	"tr_TR": "TR",
}

// NormalizeLocale turns "de-de" or "DE_de" into "de_DE". Values without
// a region part are returned lower-cased.
func NormalizeLocale(locale string) string {
	l := strings.TrimSpace(strings.ReplaceAll(locale, "-", "_"))
	if i := strings.IndexByte(l, '.'); i >= 0 {
		// Strip encodings like "de_DE.UTF-8".
		l = l[:i]
	}
	lang, region, ok := strings.Cut(l, "_")
	if !ok {
		return strings.ToLower(l)
	}
	return strings.ToLower(lang) + "_" + strings.ToUpper(region)
}

// CountryForLocale returns the home country of locale, if it has one.
func CountryForLocale(locale string) (string, bool) {
	c, ok := localeCountry[NormalizeLocale(locale)]
	return c, ok
}

// LocaleForCountry returns the native locale of country, if known.
func LocaleForCountry(country string) (string, bool) {
	country = strings.ToUpper(strings.TrimSpace(country))
	for l, c := range localeCountry {
		if c == country {
			return l, true
		}
	}
	return "", false
}

// IsNative reports whether locale is the canonical locale of country.
func IsNative(locale, country string) bool {
	c, ok := CountryForLocale(locale)
	return ok && c == strings.ToUpper(strings.TrimSpace(country))
}

// Locales lists the supported locale codes, sorted.
func Locales() []string {
	out := make([]string, 0, len(localeCountry))
	for l := range localeCountry {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
