package adjust

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameSuffixes are generational suffixes stripped during name matching so
// that "Luis Castillo Jr." and "Luis Castillo" resolve to the same key.
var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {},
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a pitcher name for cross-source matching:
// lowercase, accents folded, punctuation and generational suffixes dropped.
func NormalizeName(name string) string {
	folded, _, err := transform.String(stripAccents, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte(' ')
		}
	}
	parts := strings.Fields(b.String())
	for len(parts) > 1 {
		if _, ok := nameSuffixes[parts[len(parts)-1]]; !ok {
			break
		}
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

// regressFIP blends a small-sample FIP toward the league average using an
// innings-weighted Bayesian prior. With zero innings and zero prior weight
// the league average is returned outright.
func regressFIP(raw, innings, leagueFIP, priorIP float64) float64 {
	denom := innings + priorIP
	if denom <= 0 {
		return leagueFIP
	}
	return (innings*raw + priorIP*leagueFIP) / denom
}

// resolveStarterFIP walks the fallback chain for one starter: rolling FIP
// when enough recent starts exist, else the regressed season aggregate by ID,
// else by normalized name. Returns ok=false when nothing matches, which the
// model treats as a zero adjustment.
func (m *Model) resolveStarterFIP(id *int, name string, date time.Time) (float64, bool) {
	if m.starters == nil {
		return 0, false
	}
	lg := m.starters.LeagueFIP()
	if id != nil {
		if fip, starts, ok := m.starters.RollingFIP(*id, date); ok && starts >= m.params.RollingMinStarts {
			return fip, true
		}
		if q, ok := m.starters.SeasonFIP(*id); ok {
			return regressFIP(q.FIP, q.InningsPitched, lg, m.params.FIPPriorIP), true
		}
	}
	if name != "" {
		if q, ok := m.starters.SeasonFIPByName(NormalizeName(name)); ok {
			return regressFIP(q.FIP, q.InningsPitched, lg, m.params.FIPPriorIP), true
		}
	}
	return 0, false
}
