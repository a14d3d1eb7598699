// Package transcript normalizes raw speech-to-text output before
// terminology correction and summarization.
package transcript

import (
	"log"
	"regexp"
	"strings"
)

// Filler words and hedges stripped from transcripts. Words that often
// carry meaning ("like", "so", "really") are deliberately left alone
// rather than risking mangled sentences.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bum\b,?\s*`),
	regexp.MustCompile(`(?i)\buh\b,?\s*`),
	regexp.MustCompile(`(?i)\ber\b,?\s*`),
	regexp.MustCompile(`(?i)\byou know,\s*`),
	regexp.MustCompile(`(?i)\bi mean,\s*`),
	regexp.MustCompile(`(?i)\bkind of\s+`),
	regexp.MustCompile(`(?i)\bsort of\s+`),
}

var (
	hesitations   = regexp.MustCompile(`(\.{2,}|-{2,}|…)`)
	multiSpace    = regexp.MustCompile(`\s+`)
	multiPeriod   = regexp.MustCompile(`\.+`)
	spaceBefore   = regexp.MustCompile(`\s+([,.;:!?])`)
	missingSpace  = regexp.MustCompile(`(\w)([,;:!?])(\w)`)
	sentenceStart = regexp.MustCompile(`([.!?]\s+)([a-z])`)
	wordToken     = regexp.MustCompile(`^[\p{L}\p{N}']+$`)
)

// Clean normalizes a raw transcript: strips filler words, collapses
// stuttered repetitions, converts hesitation markers to sentence breaks
// and tidies whitespace and punctuation.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := raw

	for _, p := range fillerPatterns {
		text = p.ReplaceAllString(text, "")
	}

	text = collapseRepeats(text)
	text = hesitations.ReplaceAllString(text, ". ")

	text = spaceBefore.ReplaceAllString(text, "$1")
	text = missingSpace.ReplaceAllString(text, "$1$2 $3")
	text = multiPeriod.ReplaceAllString(text, ".")
	text = multiSpace.ReplaceAllString(text, " ")

	text = sentenceStart.ReplaceAllStringFunc(text, strings.ToUpper)
	text = strings.TrimSpace(text)

	log.Printf("[transcript] cleaned: %d -> %d characters", len(raw), len(text))
	return text
}

// collapseRepeats drops immediately repeated words ("the the", "I I I"),
// a common speech disfluency. Comparison is case-insensitive and only
// applies to plain word tokens so punctuation is preserved.
func collapseRepeats(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return text
	}

	out := fields[:1]
	for _, f := range fields[1:] {
		prev := out[len(out)-1]
		if wordToken.MatchString(f) && strings.EqualFold(f, prev) {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
