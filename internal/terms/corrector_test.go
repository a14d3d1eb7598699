package terms

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/horizon-summaries/backend/internal/reference"
)

type fakeStore struct {
	high      []Rule
	medium    []Rule
	highErr   error
	mediumErr error
	saved     []Correction
}

func (s *fakeStore) Corrections(min float64, types ...CorrectionType) ([]Rule, error) {
	return s.high, s.highErr
}

func (s *fakeStore) CorrectionsBetween(min, max float64, types ...CorrectionType) ([]Rule, error) {
	return s.medium, s.mediumErr
}

func (s *fakeStore) UpsertCorrections(corrections []Correction) int {
	s.saved = append(s.saved, corrections...)
	return len(corrections)
}

type fakeAnalyzer struct {
	findings map[string]Finding
	err      error
	gotText  string
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, transcript string, termCat reference.TermCatalog, peopleCat reference.PeopleCatalog) (map[string]Finding, error) {
	a.gotText = transcript
	return a.findings, a.err
}

type fakeCatalogs struct {
	terms  reference.TermCatalog
	people reference.PeopleCatalog
}

func (c *fakeCatalogs) LoadTerms() reference.TermCatalog    { return c.terms }
func (c *fakeCatalogs) LoadPeople() reference.PeopleCatalog { return c.people }

func catalogsWith(term string) *fakeCatalogs {
	return &fakeCatalogs{terms: reference.TermCatalog{Terms: []reference.Term{{Term: term}}}}
}

var testThresholds = Thresholds{High: 0.75, Medium: 0.6}

func TestCorrectTermsEmptyTranscript(t *testing.T) {
	store := &fakeStore{}
	analyzer := &fakeAnalyzer{}
	c := NewCorrector(store, analyzer, catalogsWith("Jupiter"), testThresholds)

	got := c.CorrectTerms(context.Background(), "   ")
	if got != "   " {
		t.Errorf("empty transcript should round-trip unchanged, got %q", got)
	}
	if analyzer.gotText != "" {
		t.Error("analyzer should not run for an empty transcript")
	}
	if len(store.saved) != 0 {
		t.Error("store should not be touched for an empty transcript")
	}
}

func TestCorrectTermsStoredHighConfidence(t *testing.T) {
	store := &fakeStore{high: []Rule{{Incorrect: "jupitor", Correct: "Jupiter"}}}
	c := NewCorrector(store, &fakeAnalyzer{}, catalogsWith("Jupiter"), testThresholds)

	got := c.CorrectTerms(context.Background(), "jupitor is cool")
	if got != "Jupiter is cool" {
		t.Errorf("got %q, want %q", got, "Jupiter is cool")
	}
}

func TestCorrectTermsAnalyzerRunsOnCorrectedText(t *testing.T) {
	store := &fakeStore{high: []Rule{{Incorrect: "jupitor", Correct: "Jupiter"}}}
	analyzer := &fakeAnalyzer{}
	c := NewCorrector(store, analyzer, catalogsWith("Jupiter"), testThresholds)

	c.CorrectTerms(context.Background(), "jupitor is cool")
	if !strings.Contains(analyzer.gotText, "Jupiter") || strings.Contains(analyzer.gotText, "jupitor") {
		t.Errorf("analyzer should see partially corrected text, got %q", analyzer.gotText)
	}
}

func TestCorrectTermsPersistsAllFindingsAppliesHigh(t *testing.T) {
	store := &fakeStore{}
	analyzer := &fakeAnalyzer{findings: map[string]Finding{
		"the dow": {Term: "the DAO", Confidence: 0.9, Type: TypeTerm},
		"jupe":    {Term: "Jup", Confidence: 0.5, Type: TypeTerm},
	}}
	c := NewCorrector(store, analyzer, catalogsWith("DAO"), testThresholds)

	got := c.CorrectTerms(context.Background(), "the dow voted and jupe agreed")
	if got != "the DAO voted and jupe agreed" {
		t.Errorf("only the high-confidence finding should apply, got %q", got)
	}
	if len(store.saved) != 2 {
		t.Fatalf("both findings should be persisted, saved %d", len(store.saved))
	}
	for _, s := range store.saved {
		if s.Source != SourceLLM {
			t.Errorf("persisted finding has source %q, want %q", s.Source, SourceLLM)
		}
	}
}

func TestCorrectTermsMediumBandDeferred(t *testing.T) {
	store := &fakeStore{medium: []Rule{{Incorrect: "catdet", Correct: "Catdet"}}}
	c := NewCorrector(store, &fakeAnalyzer{}, catalogsWith("Catdet"), testThresholds)

	got := c.CorrectTerms(context.Background(), "every catdet helps")
	if got != "every Catdet helps" {
		t.Errorf("medium-confidence rule should apply in the final pass, got %q", got)
	}
}

func TestCorrectTermsNoDoubleApplication(t *testing.T) {
	// The same key sits in the high band and the medium band; the medium
	// copy must be skipped once the high copy has applied.
	store := &fakeStore{
		high:   []Rule{{Incorrect: "jupitor", Correct: "Jupiter"}},
		medium: []Rule{{Incorrect: "Jupitor", Correct: "JUPITER"}},
	}
	c := NewCorrector(store, &fakeAnalyzer{}, catalogsWith("Jupiter"), testThresholds)

	got := c.CorrectTerms(context.Background(), "jupitor rising")
	if got != "Jupiter rising" {
		t.Errorf("term corrected twice: got %q", got)
	}
}

func TestCorrectTermsAnalyzerFailureDegrades(t *testing.T) {
	store := &fakeStore{high: []Rule{{Incorrect: "jupitor", Correct: "Jupiter"}}}
	analyzer := &fakeAnalyzer{err: errors.New("model unavailable")}
	c := NewCorrector(store, analyzer, catalogsWith("Jupiter"), testThresholds)

	got := c.CorrectTerms(context.Background(), "jupitor is cool")
	if got != "Jupiter is cool" {
		t.Errorf("stored corrections should still apply when analysis fails, got %q", got)
	}
}

func TestCorrectTermsStoreFailureDegrades(t *testing.T) {
	store := &fakeStore{highErr: errors.New("db locked"), mediumErr: errors.New("db locked")}
	analyzer := &fakeAnalyzer{findings: map[string]Finding{
		"the dow": {Term: "the DAO", Confidence: 0.9, Type: TypeTerm},
	}}
	c := NewCorrector(store, analyzer, catalogsWith("DAO"), testThresholds)

	got := c.CorrectTerms(context.Background(), "the dow voted")
	if got != "the DAO voted" {
		t.Errorf("fresh findings should still apply when the store is down, got %q", got)
	}
}

func TestCorrectTermsSkipsAnalysisWithoutCatalogs(t *testing.T) {
	analyzer := &fakeAnalyzer{findings: map[string]Finding{
		"x": {Term: "y", Confidence: 0.9},
	}}
	c := NewCorrector(&fakeStore{}, analyzer, &fakeCatalogs{}, testThresholds)

	got := c.CorrectTerms(context.Background(), "some x text")
	if got != "some x text" {
		t.Errorf("no analysis should run without reference catalogs, got %q", got)
	}
	if analyzer.gotText != "" {
		t.Error("analyzer ran despite empty catalogs")
	}
}

func TestCorrectTermsEndToEnd(t *testing.T) {
	store := &fakeStore{
		high:   []Rule{{Incorrect: "jupyter", Correct: "Jupiter"}},
		medium: []Rule{{Incorrect: "juup", Correct: "Jup"}},
	}
	analyzer := &fakeAnalyzer{findings: map[string]Finding{
		"the dow": {Term: "the DAO", Confidence: 0.9, Type: TypeTerm},
	}}
	c := NewCorrector(store, analyzer, catalogsWith("DAO"), testThresholds)

	got := c.CorrectTerms(context.Background(), "jupyter is cool, the dow voted yes, juup ships")
	want := "Jupiter is cool, the DAO voted yes, Jup ships"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
