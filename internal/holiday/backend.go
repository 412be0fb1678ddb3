package holiday

import (
	"fmt"
	"sort"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/jp"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/us"

	"holical/internal/model"
)

// Backend generates raw holidays for one country and year. Names are the
// canonical English names.
type Backend interface {
	Countries() []string
	Holidays(country string, year int) (map[model.Date]string, error)
}

// CalBackend serves the countries covered by github.com/rickar/cal.
type CalBackend struct {
	sets map[string][]*cal.Holiday
}

// englishNames renames library holidays whose Name is in the national
// language, or whose English wording differs from the translation keys.
var englishNames = map[*cal.Holiday]string{
	de.Neujahr:                   "New Year's Day",
	de.Karfreitag:                "Good Friday",
	de.Ostermontag:               "Easter Monday",
	de.TagderArbeit:              "Labour Day",
	de.ChristiHimmelfahrt:        "Ascension Day",
	de.Pfingstmontag:             "Whit Monday",
	de.DeutschenEinheit:          "German Unity Day",
	de.Weihnachtstag:             "Christmas Day",
	de.ZweiterWeihnachtsfeiertag: "Second Day of Christmas",

	fr.NouvelAn:         "New Year's Day",
	fr.LundiDePâques:    "Easter Monday",
	fr.FêteDuTravail:    "Labour Day",
	fr.FêteDeLaVictoire: "Victory in Europe Day",
	fr.Ascension:        "Ascension Day",
	fr.LundiDePentecôte: "Whit Monday",
	fr.FêteNationale:    "National Day",
	fr.Assomption:       "Assumption Day",
	fr.Toussaint:        "All Saints' Day",
	fr.Armistice1918:    "Armistice Day",
	fr.Noël:             "Christmas Day",

	nl.Nieuwjaar:         "New Year's Day",
	nl.GoedeVrijdag:      "Good Friday",
	nl.TweedePaasdag:     "Easter Monday",
	nl.Koningsdag:        "King's Day",
	nl.BevrijdingsDag:    "Liberation Day",
	nl.Hemelvaart:        "Ascension Day",
	nl.TweedePinksterDag: "Whit Monday",
	nl.EersteKerstdag:    "Christmas Day",
	nl.TweedeKerstdag:    "Second Day of Christmas",

	it.Capodanno:             "New Year's Day",
	it.Epifania:              "Epiphany",
	it.Pasquetta:             "Easter Monday",
	it.FestaDellaLiberazione: "Liberation Day",
	it.FestaDelLavoro:        "Labour Day",
	it.FestaDellaRepubblica:  "Republic Day",
	it.Assunzione:            "Assumption Day",
	it.TuttiISanti:           "All Saints' Day",
	it.Immacolata:            "Immaculate Conception",
	it.Natale:                "Christmas Day",
	it.SantoStefano:          "Saint Stephen's Day",

	es.AñoNuevo:               "New Year's Day",
	es.Reyes:                  "Epiphany",
	es.ViernesSanto:           "Good Friday",
	es.Trabajador:             "Labour Day",
	es.Asunción:               "Assumption Day",
	es.FiestaNacionalDeEspaña: "National Day",
	es.TodosLosSantos:         "All Saints' Day",
	es.Constitucion:           "Constitution Day",
	es.InmaculadaConcepcion:   "Immaculate Conception",
	es.Navidad:                "Christmas Day",

	jp.NationalFoundationDay:   "Foundation Day",
	jp.TheEmperorsBirthday:     "Emperor's Birthday",
	jp.ConstitutionMemorialDay: "Constitution Day",
}

// NewCalBackend wires the library's national sets. GB uses the England and
// Wales variant, which carries Easter Monday and the late August bank
// holiday that the Scottish and Northern Irish sets lack.
func NewCalBackend() *CalBackend {
	return &CalBackend{
		sets: map[string][]*cal.Holiday{
			"US": us.Holidays,
			"GB": englandAndWales(),
			"CA": ca.Holidays,
			"DE": de.Holidays,
			"FR": fr.Holidays,
			"NL": nl.Holidays,
			"IT": it.Holidays,
			"ES": es.Holidays,
			"JP": jp.Holidays,
		},
	}
}

// englishName returns the canonical English name of h.
func englishName(h *cal.Holiday) string {
	if n, ok := englishNames[h]; ok {
		return n
	}
	return h.Name
}

func englandAndWales() []*cal.Holiday {
	set := append([]*cal.Holiday(nil), gb.Holidays...)
	for _, extra := range []*cal.Holiday{gb.EasterMonday, gb.SummerHoliday} {
		found := false
		for _, h := range set {
			if h == extra {
				found = true
				break
			}
		}
		if !found {
			set = append(set, extra)
		}
	}
	return set
}

func (b *CalBackend) Countries() []string {
	out := make([]string, 0, len(b.sets))
	for c := range b.sets {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (b *CalBackend) Holidays(country string, year int) (map[model.Date]string, error) {
	set, ok := b.sets[NormalizeCountry(country)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCountry, country)
	}

	out := make(map[model.Date]string)
	var moved []*cal.Holiday
	for _, h := range set {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		addFirst(out, model.DateOf(actual), englishName(h))
		moved = append(moved, h)
	}
	// Observed days go in after every actual date so they never shadow one.
	for _, h := range moved {
		actual, observed := h.Calc(year)
		if observed.IsZero() || sameDay(actual, observed) || observed.Year() != year {
			continue
		}
		addFirst(out, model.DateOf(observed), englishName(h)+observedSuffix)
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return model.DateOf(a) == model.DateOf(b)
}
