package terms

import (
	"context"
	"log"
	"strings"

	"github.com/horizon-summaries/backend/internal/reference"
)

// Store is the persistence surface the corrector needs. Implemented by
// *db.Database. Query failures are absorbed here as "no corrections
// available"; they never abort a run.
type Store interface {
	Corrections(minConfidence float64, types ...CorrectionType) ([]Rule, error)
	CorrectionsBetween(minConfidence, maxConfidence float64, types ...CorrectionType) ([]Rule, error)
	UpsertCorrections(corrections []Correction) int
}

// TermAnalyzer finds new correction candidates in a transcript
type TermAnalyzer interface {
	Analyze(ctx context.Context, transcript string, termCat reference.TermCatalog, peopleCat reference.PeopleCatalog) (map[string]Finding, error)
}

// CatalogSource provides the reference catalogs for a run.
// Implemented by *reference.Loader.
type CatalogSource interface {
	LoadTerms() reference.TermCatalog
	LoadPeople() reference.PeopleCatalog
}

// Thresholds gate when a stored or newly found correction is applied
type Thresholds struct {
	High   float64 // applied immediately
	Medium float64 // applied in the deferred final pass
}

// Corrector runs the staged terminology-correction pipeline over a
// transcript:
//
//	stage A: apply stored corrections at or above the high threshold
//	stage B: analyze the partially corrected text for new findings
//	stage C: persist all findings, apply the high-confidence ones
//	stage D: apply stored medium-confidence corrections not already
//	         applied earlier in this run
//
// Every external failure degrades to "fewer corrections applied"; the
// corrected (or original) transcript is always returned.
type Corrector struct {
	store      Store
	analyzer   TermAnalyzer
	catalogs   CatalogSource
	thresholds Thresholds
}

func NewCorrector(store Store, analyzer TermAnalyzer, catalogs CatalogSource, thresholds Thresholds) *Corrector {
	return &Corrector{
		store:      store,
		analyzer:   analyzer,
		catalogs:   catalogs,
		thresholds: thresholds,
	}
}

// CorrectTerms is the single entry point: it runs the four stages over the
// transcript and returns the corrected text. An empty transcript returns
// immediately without touching the store or the analyzer.
func (c *Corrector) CorrectTerms(ctx context.Context, transcript string) string {
	if strings.TrimSpace(transcript) == "" {
		return transcript
	}

	applied := make(map[string]bool) // lowercased incorrect terms resolved this run

	// Stage A: known high-confidence corrections
	text := transcript
	highRules, err := c.store.Corrections(c.thresholds.High)
	if err != nil {
		log.Printf("[terms] WARNING: loading stored corrections failed, continuing without: %v", err)
		highRules = nil
	}
	if len(highRules) > 0 {
		text = Apply(text, highRules)
		for _, r := range highRules {
			applied[strings.ToLower(r.Incorrect)] = true
		}
		log.Printf("[terms] stage A applied %d stored corrections", len(highRules))
	}

	// Stage B: analyze the partially corrected text
	termCat := c.catalogs.LoadTerms()
	peopleCat := c.catalogs.LoadPeople()

	var findings map[string]Finding
	if len(termCat.Terms) == 0 && len(peopleCat.People) == 0 {
		log.Printf("[terms] reference catalogs empty, skipping analysis")
	} else {
		findings, err = c.analyzer.Analyze(ctx, text, termCat, peopleCat)
		if err != nil {
			log.Printf("[terms] WARNING: analysis unavailable, continuing with stored corrections only: %v", err)
			findings = nil
		}
	}

	// Stage C: persist every finding, apply the high-confidence ones now.
	// Low-confidence findings are kept in the store for future runs and
	// review rather than applied.
	if len(findings) > 0 {
		records := make([]Correction, 0, len(findings))
		var newRules []Rule
		for incorrect, f := range findings {
			records = append(records, Correction{
				IncorrectTerm: incorrect,
				CorrectTerm:   f.Term,
				Confidence:    f.Confidence,
				Reasoning:     f.Reasoning,
				Type:          f.Type,
				Source:        SourceLLM,
			})
			if f.Confidence >= c.thresholds.High && !applied[strings.ToLower(incorrect)] {
				newRules = append(newRules, Rule{Incorrect: incorrect, Correct: f.Term})
			}
		}

		saved := c.store.UpsertCorrections(records)
		log.Printf("[terms] stage C persisted %d/%d findings", saved, len(records))

		if len(newRules) > 0 {
			text = Apply(text, newRules)
			for _, r := range newRules {
				applied[strings.ToLower(r.Incorrect)] = true
			}
			log.Printf("[terms] stage C applied %d new corrections", len(newRules))
		}
	}

	// Stage D: deferred medium-confidence backlog, excluding anything this
	// run already resolved so no term is substituted twice.
	mediumRules, err := c.store.CorrectionsBetween(c.thresholds.Medium, c.thresholds.High)
	if err != nil {
		log.Printf("[terms] WARNING: loading medium-confidence corrections failed, skipping: %v", err)
		mediumRules = nil
	}
	var deferred []Rule
	for _, r := range mediumRules {
		if !applied[strings.ToLower(r.Incorrect)] {
			deferred = append(deferred, r)
		}
	}
	if len(deferred) > 0 {
		text = Apply(text, deferred)
		log.Printf("[terms] stage D applied %d medium-confidence corrections", len(deferred))
	}

	return text
}
