package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Token classifiers for the heuristic walk. Every pattern is anchored at
// both ends so a token cut off mid-download never classifies: "$24" from a
// truncated "$249" still matches, but "249 US dol" or "2026-03-1" does not,
// and the surrounding JSON parse rejects structurally truncated bodies.
var (
	priceSymbolRe = regexp.MustCompile(`^\$(\d{1,5})$`)
	priceWordsRe  = regexp.MustCompile(`^(\d{1,5}) US dollars$`)
	isoDateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	durationRe    = regexp.MustCompile(`^\d{1,2} hr(?: \d{1,2} min)?$`)
	nameRe        = regexp.MustCompile(`^[A-Z][a-zA-Z'.-]*(?: [A-Za-z'.-]+){0,3}$`)
)

// parsePriceToken recognizes the two price shapes the remote emits: the
// card label ("$249") and the accessibility text ("249 US dollars").
func parsePriceToken(s string) (int, bool) {
	m := priceSymbolRe.FindStringSubmatch(s)
	if m == nil {
		m = priceWordsRe.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, false
	}
	price, err := strconv.Atoi(m[1])
	if err != nil || price == 0 {
		return 0, false
	}
	return price, true
}

// isDestinationName reports whether s looks like a city display name: a
// short capitalized phrase. All-caps short strings are rejected because
// they are IATA or currency codes, not names.
func isDestinationName(s string) bool {
	if len(s) < 3 || len(s) > 40 {
		return false
	}
	if s == strings.ToUpper(s) && len(s) <= 4 {
		return false
	}
	if isISODate(s) || isDurationText(s) {
		return false
	}
	if _, price := parsePriceToken(s); price {
		return false
	}
	return nameRe.MatchString(s)
}

func isISODate(s string) bool {
	return isoDateRe.MatchString(s)
}

func isDurationText(s string) bool {
	return durationRe.MatchString(s)
}
