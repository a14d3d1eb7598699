package terms

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Apply substitutes every rule into text, case-insensitively and only on
// whole-word boundaries, so "perp" never matches inside "perpendicular".
// Rules are applied longest incorrect term first regardless of input order,
// which keeps "perp dex" from being clobbered by a shorter "perp" rule.
// The replacement always uses the rule's stored casing. Returns a new
// string; the input is never modified.
func Apply(text string, rules []Rule) string {
	if text == "" || len(rules) == 0 {
		return text
	}

	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Incorrect) > len(sorted[j].Incorrect)
	})

	for _, r := range sorted {
		if strings.TrimSpace(r.Incorrect) == "" || r.Correct == "" {
			continue
		}
		re, err := compileRule(r.Incorrect)
		if err != nil {
			continue
		}
		text = re.ReplaceAllLiteralString(text, r.Correct)
	}
	return text
}

// compileRule builds the case-insensitive pattern for one incorrect term.
// Word-boundary assertions are added only where the term starts or ends
// with a word character; a term like "jupe-ai" ends on a word character
// but one like "j4j!" would not, and \b beside a non-word rune never matches.
func compileRule(incorrect string) (*regexp.Regexp, error) {
	pattern := regexp.QuoteMeta(incorrect)

	runes := []rune(incorrect)
	if isWordRune(runes[0]) {
		pattern = `\b` + pattern
	}
	if isWordRune(runes[len(runes)-1]) {
		pattern += `\b`
	}

	return regexp.Compile(`(?i)` + pattern)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
