package terms

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/horizon-summaries/backend/internal/llm"
	"github.com/horizon-summaries/backend/internal/reference"
)

// DefaultConfidence is assumed when the analyzer omits a confidence score
const DefaultConfidence = 0.7

const analyzerSystemInstruction = `You are a specialized assistant that analyzes speech-to-text transcripts to identify misspellings or incorrect renderings of domain-specific terminology and names. You compare the transcript against a reference vocabulary and report only terms that are consistently wrong. Output must be a single valid JSON object.`

// Generator produces text from a prompt. Satisfied by llm.GeminiClient.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)
}

// Analyzer asks a language model to find misrendered vocabulary in a
// transcript, using the reference catalogs as ground truth.
type Analyzer struct {
	gen      Generator
	maxChars int
}

func NewAnalyzer(gen Generator, maxChars int) *Analyzer {
	if maxChars <= 0 {
		maxChars = 20000
	}
	return &Analyzer{gen: gen, maxChars: maxChars}
}

// Analyze returns suspected corrections keyed by the exact substring as it
// appears in the transcript. A malformed model response yields (nil, nil):
// the caller treats it as no new findings. A transport failure after the
// client's retry budget surfaces as an error wrapping llm.ErrUnavailable.
func (a *Analyzer) Analyze(ctx context.Context, transcript string, termCat reference.TermCatalog, peopleCat reference.PeopleCatalog) (map[string]Finding, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, nil
	}

	prompt := a.buildPrompt(transcript, termCat, peopleCat)

	raw, err := a.gen.Generate(ctx, prompt, llm.GenerateOptions{
		Temperature:       0.1,
		MaxOutputTokens:   2048,
		SystemInstruction: analyzerSystemInstruction,
		JSONResponse:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("term analysis: %w", err)
	}

	var entries map[string]json.RawMessage
	if !llm.DecodeObject(raw, &entries) {
		log.Printf("[terms] analyzer response was not parsable JSON, ignoring: %.200s", raw)
		return nil, nil
	}

	knownNames := nameSet(peopleCat)

	findings := make(map[string]Finding, len(entries))
	for incorrect, value := range entries {
		incorrect = strings.TrimSpace(incorrect)
		if incorrect == "" {
			continue
		}
		f, ok := decodeFinding(value)
		if !ok {
			log.Printf("[terms] discarding malformed finding for %q", incorrect)
			continue
		}
		if f.Confidence <= 0 {
			f.Confidence = DefaultConfidence
		}
		if f.Confidence > 1 {
			f.Confidence = 1
		}
		f.Type = resolveType(f, knownNames)
		findings[incorrect] = f
	}

	if len(findings) == 0 {
		return nil, nil
	}
	return findings, nil
}

func (a *Analyzer) buildPrompt(transcript string, termCat reference.TermCatalog, peopleCat reference.PeopleCatalog) string {
	body := transcript
	if len(body) > a.maxChars {
		body = body[:a.maxChars]
	}

	var b strings.Builder
	b.WriteString("Below is the reference vocabulary in its correct form, followed by a transcript produced by speech-to-text.\n\n")
	b.WriteString(reference.FormatTermsForPrompt(termCat))
	b.WriteString("\n\n")
	b.WriteString(reference.FormatPeopleForPrompt(peopleCat))
	b.WriteString("\n\nTRANSCRIPT:\n")
	b.WriteString(body)
	b.WriteString(`

Identify misspellings or incorrect renderings of the reference terms and names in the transcript. Look for terms that are consistently wrong throughout; if a term appears both correctly and incorrectly, include it only when the incorrect form is more common. Do not report terms that are already correct.

Output ONLY a JSON object whose keys are the incorrect substrings exactly as they appear in the transcript, and whose values are objects of the form:
{
  "jupitor": {"term": "Jupiter", "confidence": 0.95, "reasoning": "common STT misrendering", "correction_type": "term"},
  "the dow": {"term": "the DAO", "confidence": 0.9, "reasoning": "homophone of DAO", "correction_type": "term"}
}

"correction_type" is one of "term", "person" or "acronym". "confidence" is your certainty in [0.0, 1.0].`)
	return b.String()
}

// decodeFinding accepts both the structured form and a bare replacement string
func decodeFinding(value json.RawMessage) (Finding, bool) {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return Finding{}, false
		}
		return Finding{Term: s}, true
	}

	var f Finding
	if err := json.Unmarshal(value, &f); err != nil {
		return Finding{}, false
	}
	f.Term = strings.TrimSpace(f.Term)
	if f.Term == "" {
		return Finding{}, false
	}
	return f, true
}

func resolveType(f Finding, knownNames map[string]bool) CorrectionType {
	switch f.Type {
	case TypeTerm, TypePerson, TypeAcronym:
		return f.Type
	}
	if knownNames[strings.ToLower(f.Term)] {
		return TypePerson
	}
	return TypeTerm
}

func nameSet(peopleCat reference.PeopleCatalog) map[string]bool {
	set := make(map[string]bool)
	for _, n := range reference.FlattenPeople(peopleCat) {
		set[strings.ToLower(n)] = true
	}
	return set
}
