package importer

import "strings"

// MatchPartialName reports whether a short roster form like "Rossi M." refers
// to the given full name. Both sides are trimmed and case-folded. The short
// form is split into surname tokens and initial segments ("G.B." carries
// two); it matches when the surname tokens appear as a consecutive run in the
// full name and each initial is the first letter of one of the remaining
// given-name tokens, in order. Token order of the full name does not matter:
// "De Rosa G.B." matches both "Giovan Battista De Rosa" and
// "De Rosa Giovan Battista".
func MatchPartialName(short, full string) bool {
	shortNorm := strings.ToLower(strings.TrimSpace(short))
	fullNorm := strings.ToLower(strings.TrimSpace(full))
	if shortNorm == "" || fullNorm == "" {
		return false
	}
	if shortNorm == fullNorm {
		return true
	}

	surTokens, initials := splitShortForm(shortNorm)
	if len(surTokens) == 0 || len(initials) == 0 {
		return false
	}

	fullTokens := strings.Fields(fullNorm)
	if len(surTokens)+len(initials) > len(fullTokens) {
		return false
	}

	// Try every position where the surname run could sit in the full name
	for start := 0; start+len(surTokens) <= len(fullTokens); start++ {
		if !runMatches(fullTokens, start, surTokens) {
			continue
		}

		given := make([]string, 0, len(fullTokens)-len(surTokens))
		given = append(given, fullTokens[:start]...)
		given = append(given, fullTokens[start+len(surTokens):]...)

		if initialsMatch(initials, given) {
			return true
		}
	}

	return false
}

// splitShortForm separates surname tokens from initial segments.
// "de rosa g.b." yields (["de","rosa"], ["g","b"]).
func splitShortForm(short string) (surname, initials []string) {
	for _, tok := range strings.Fields(short) {
		if strings.Contains(tok, ".") {
			for _, seg := range strings.Split(tok, ".") {
				if seg != "" {
					initials = append(initials, seg)
				}
			}
			continue
		}
		surname = append(surname, tok)
	}
	return surname, initials
}

// runMatches reports whether want occupies tokens[start:start+len(want)]
func runMatches(tokens []string, start int, want []string) bool {
	for i, w := range want {
		if tokens[start+i] != w {
			return false
		}
	}
	return true
}

// initialsMatch checks each initial against the first letter of the
// corresponding given-name token
func initialsMatch(initials, given []string) bool {
	if len(given) < len(initials) {
		return false
	}
	for i, ini := range initials {
		if given[i] == "" || given[i][0] != ini[0] {
			return false
		}
	}
	return true
}
