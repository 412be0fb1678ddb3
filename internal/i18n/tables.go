package i18n

// builtin holds the in-memory translation tables, keyed by locale and then
// by canonical English name. Translation files take precedence.
var builtin = map[string]map[string]string{
	"de_DE": {
		"New Year's Day":          "Neujahr",
		"Good Friday":             "Karfreitag",
		"Easter Monday":           "Ostermontag",
		"Labour Day":              "Tag der Arbeit",
		"Ascension Day":           "Christi Himmelfahrt",
		"Whit Monday":             "Pfingstmontag",
		"German Unity Day":        "Tag der Deutschen Einheit",
		"Christmas Day":           "Erster Weihnachtstag",
		"Second Day of Christmas": "Zweiter Weihnachtstag",
		"Day off":                 "Freier Tag",
		observedTemplate:          "(nachgeholt)",
		substitutedTemplate:       "(verschoben vom {date})",
	},
	"fr_FR": {
		"New Year's Day":        "Jour de l'an",
		"Easter Monday":         "Lundi de Pâques",
		"Labour Day":            "Fête du Travail",
		"Victory in Europe Day": "Victoire 1945",
		"Ascension Day":         "Ascension",
		"Whit Monday":           "Lundi de Pentecôte",
		"National Day":          "Fête nationale",
		"Assumption Day":        "Assomption",
		"All Saints' Day":       "Toussaint",
		"Armistice Day":         "Armistice 1918",
		"Christmas Day":         "Noël",
		"Day off":               "Jour de congé",
		observedTemplate:        "(observé)",
		substitutedTemplate:     "(remplace le {date})",
	},
	"nl_NL": {
		"New Year's Day":          "Nieuwjaarsdag",
		"Good Friday":             "Goede Vrijdag",
		"Easter Sunday":           "Eerste paasdag",
		"Easter Monday":           "Tweede paasdag",
		"King's Day":              "Koningsdag",
		"Liberation Day":          "Bevrijdingsdag",
		"Ascension Day":           "Hemelvaartsdag",
		"Whit Sunday":             "Eerste pinksterdag",
		"Whit Monday":             "Tweede pinksterdag",
		"Christmas Day":           "Eerste kerstdag",
		"Second Day of Christmas": "Tweede kerstdag",
		observedTemplate:          "(waargenomen)",
	},
	"it_IT": {
		"New Year's Day":        "Capodanno",
		"Epiphany":              "Epifania del Signore",
		"Easter Sunday":         "Pasqua di Resurrezione",
		"Easter Monday":         "Lunedì dell'Angelo",
		"Liberation Day":        "Festa della Liberazione",
		"Labour Day":            "Festa dei Lavoratori",
		"Republic Day":          "Festa della Repubblica",
		"Assumption Day":        "Assunzione della Vergine",
		"All Saints' Day":       "Tutti i Santi",
		"Immaculate Conception": "Immacolata Concezione",
		"Christmas Day":         "Natale",
		"Saint Stephen's Day":   "Santo Stefano",
		observedTemplate:        "(osservato)",
	},
	"es_ES": {
		"New Year's Day":        "Año Nuevo",
		"Epiphany":              "Epifanía del Señor",
		"Good Friday":           "Viernes Santo",
		"Labour Day":            "Fiesta del Trabajo",
		"Assumption Day":        "Asunción de la Virgen",
		"National Day":          "Fiesta Nacional de España",
		"All Saints' Day":       "Todos los Santos",
		"Constitution Day":      "Día de la Constitución Española",
		"Immaculate Conception": "Inmaculada Concepción",
		"Christmas Day":         "Natividad del Señor",
		"Day off":               "Día libre",
		observedTemplate:        "(trasladado)",
		substitutedTemplate:     "(sustituido del {date})",
	},
	"ja_JP": {
		"New Year's Day":           "元日",
		"Coming of Age Day":        "成人の日",
		"Foundation Day":           "建国記念の日",
		"Emperor's Birthday":       "天皇誕生日",
		"Vernal Equinox Day":       "春分の日",
		"Showa Day":                "昭和の日",
		"Constitution Day":         "憲法記念日",
		"Greenery Day":             "みどりの日",
		"Children's Day":           "こどもの日",
		"Marine Day":               "海の日",
		"Mountain Day":             "山の日",
		"Respect for the Aged Day": "敬老の日",
		"Autumnal Equinox Day":     "秋分の日",
		"Sports Day":               "スポーツの日",
		"Culture Day":              "文化の日",
		"Labor Thanksgiving Day":   "勤労感謝の日",
		"Day off":                  "休日",
		observedTemplate:           "(振替休日)",
		substitutedTemplate:        "({date}からの振替)",
	},
	"zh_CN": {
		"New Year's Day":                     "元旦",
		"Chinese New Year (Spring Festival)": "春节",
		"Tomb-Sweeping Day":                  "清明节",
		"Labour Day":                         "劳动节",
		"Dragon Boat Festival":               "端午节",
		"Mid-Autumn Festival":                "中秋节",
		"National Day":                       "国庆节",
		"Day off":                            "休息日",
		observedTemplate:                     "(观察日)",
		substitutedTemplate:                  "(由 {date} 调休)",
	},
	"ko_KR": {
		"New Year's Day":            "신정",
		"Korean New Year":           "설날",
		"Independence Movement Day": "삼일절",
		"Children's Day":            "어린이날",
		"Buddha's Birthday":         "부처님오신날",
		"Memorial Day":              "현충일",
		"Liberation Day":            "광복절",
		"Chuseok":                   "추석",
		"National Foundation Day":   "개천절",
		"Hangul Day":                "한글날",
		"Christmas Day":             "기독탄신일",
		"Day off":                   "휴일",
		observedTemplate:            "(대체 휴일)",
		substitutedTemplate:         "({date}에서 대체)",
	},
	"ar_SA": {
		"Founding Day":   "يوم التأسيس",
		"Eid al-Fitr":    "عيد الفطر",
		"Arafat Day":     "يوم عرفة",
		"Eid al-Adha":    "عيد الأضحى",
		"National Day":   "اليوم الوطني",
		"Day off":        "يوم عطلة",
		observedTemplate: "(ملاحظة)",
	},
	"ar_AE": {
		"New Year's Day":    "رأس السنة الميلادية",
		"Eid al-Fitr":       "عيد الفطر",
		"Arafat Day":        "يوم عرفة",
		"Eid al-Adha":       "عيد الأضحى",
		"Islamic New Year":  "رأس السنة الهجرية",
		"Commemoration Day": "يوم الشهيد",
		"National Day":      "اليوم الوطني",
		observedTemplate:    "(ملاحظة)",
	},
	"hi_IN": {
		"Republic Day":     "गणतंत्र दिवस",
		"Holi":             "होली",
		"Independence Day": "स्वतंत्रता दिवस",
		"Gandhi Jayanti":   "गांधी जयंती",
		"Diwali":           "दिवाली",
		"Christmas Day":    "क्रिसमस",
	},
	"he_IL": {
		"Passover":         "פסח",
		"Independence Day": "יום העצמאות",
		"Shavuot":          "שבועות",
		"Rosh Hashanah":    "ראש השנה",
		"Yom Kippur":       "יום כיפור",
		"Sukkot":           "סוכות",
	},
	"tr_TR": {
		"New Year's Day": "Yılbaşı",
		"National Sovereignty and Children's Day":        "Ulusal Egemenlik ve Çocuk Bayramı",
		"Labour and Solidarity Day":                      "Emek ve Dayanışma Günü",
		"Commemoration of Ataturk, Youth and Sports Day": "Atatürk'ü Anma, Gençlik ve Spor Bayramı",
		"Democracy and National Unity Day":               "Demokrasi ve Milli Birlik Günü",
		"Victory Day":                                    "Zafer Bayramı",
		"Republic Day":                                   "Cumhuriyet Bayramı",
		"Ramadan Feast":                                  "Ramazan Bayramı",
		"Sacrifice Feast":                                "Kurban Bayramı",
	},
}
