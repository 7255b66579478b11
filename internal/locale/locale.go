// Package locale guesses a plausible default source currency from the
// caller's locale tag and timezone offset. The guess is a convenience
// default, not a correctness contract: wrong guesses are user-correctable
// through the currency selector, which is why the whole heuristic lives
// behind one pure function.
package locale

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// DefaultCurrency is returned when no signal yields a usable guess.
const DefaultCurrency = "EUR"

// offsetTolerance absorbs fractional-hour noise when comparing wall-clock
// offsets against whole-hour zones.
const offsetTolerance = 0.1

// DetectDefaultFrom resolves a default "from" currency for a BCP-47 locale
// tag and a timezone offset in hours west of UTC (Peru is +5). The decision
// table, in precedence order:
//
//  1. A Peruvian locale always means PEN.
//  2. A currency implied by the locale's region wins, unless it is USD.
//  3. A Spanish-language locale without a deciding region falls to a
//     timezone table covering the main Spanish-speaking zones.
//  4. Otherwise the implied currency, or EUR when there is none.
//
// Whatever the table picks, a currency absent from available falls back to
// EUR.
func DetectDefaultFrom(localeTag string, offsetHours float64, available func(code string) bool) string {
	candidate := detect(localeTag, offsetHours)
	if available != nil && !available(candidate) {
		return DefaultCurrency
	}
	return candidate
}

func detect(localeTag string, offsetHours float64) string {
	tag, err := language.Parse(localeTag)
	if err != nil {
		return DefaultCurrency
	}

	// Only trust a region that was actually part of the tag; the matcher
	// would otherwise invent one from the language alone.
	regionCode := ""
	if region, conf := tag.Region(); conf == language.Exact {
		regionCode = region.String()
	}

	implied := impliedCurrency(regionCode)

	if regionCode == "PE" {
		return "PEN"
	}

	if implied != "" && implied != "USD" {
		return implied
	}

	if base, _ := tag.Base(); base.String() == "es" {
		return detectSpanish(regionCode, offsetHours)
	}

	if implied != "" {
		return implied
	}
	return DefaultCurrency
}

// detectSpanish maps a Spanish-speaking locale to a currency using the
// timezone offset, since the language alone spans a dozen currencies.
func detectSpanish(regionCode string, offsetHours float64) string {
	switch {
	case math.Abs(offsetHours-5) < offsetTolerance: // Peru, Colombia, Ecuador, Panama
		if regionCode == "CO" {
			return "COP"
		}
		return "PEN"
	case math.Abs(offsetHours-4) < offsetTolerance: // Chile, Bolivia
		if regionCode == "CL" {
			return "CLP"
		}
		return "BOB"
	case math.Abs(offsetHours-3) < offsetTolerance: // Argentina, Uruguay
		if regionCode == "UY" {
			return "UYU"
		}
		return "ARS"
	case regionCode == "MX":
		return "MXN"
	case regionCode == "ES":
		return DefaultCurrency
	default:
		return DefaultCurrency
	}
}

func impliedCurrency(regionCode string) string {
	if regionCode == "" {
		return ""
	}
	region, err := language.ParseRegion(regionCode)
	if err != nil {
		return ""
	}
	unit, ok := currency.FromRegion(region)
	if !ok {
		return ""
	}
	return unit.String()
}
