package terms

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/horizon-summaries/backend/internal/llm"
	"github.com/horizon-summaries/backend/internal/reference"
)

type fakeGenerator struct {
	response string
	err      error
	gotOpts  llm.GenerateOptions
	prompt   string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	g.prompt = prompt
	g.gotOpts = opts
	return g.response, g.err
}

func testCatalogs() (reference.TermCatalog, reference.PeopleCatalog) {
	termCat := reference.TermCatalog{Terms: []reference.Term{
		{Term: "Jupiter", Acronyms: []string{"JUP"}},
	}}
	peopleCat := reference.PeopleCatalog{People: []reference.Person{
		{Name: "Meow", Role: "founder"},
	}}
	return termCat, peopleCat
}

func TestAnalyzeParsesStructuredFindings(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"jupitor": {"term": "Jupiter", "confidence": 0.95, "reasoning": "misrendering", "correction_type": "term"},
		"meow w": {"term": "Meow", "confidence": 0.8}
	}`}
	a := NewAnalyzer(gen, 0)
	termCat, peopleCat := testCatalogs()

	findings, err := a.Analyze(context.Background(), "jupitor and meow w spoke", termCat, peopleCat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}

	f := findings["jupitor"]
	if f.Term != "Jupiter" || f.Confidence != 0.95 || f.Type != TypeTerm {
		t.Errorf("jupitor finding = %+v", f)
	}

	// Type omitted, but the corrected term matches a known person
	if findings["meow w"].Type != TypePerson {
		t.Errorf("meow w should resolve to a person finding, got %q", findings["meow w"].Type)
	}
}

func TestAnalyzeFencedResponse(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"jupitor\": {\"term\": \"Jupiter\", \"confidence\": 0.9}}\n```"}
	a := NewAnalyzer(gen, 0)
	termCat, peopleCat := testCatalogs()

	findings, err := a.Analyze(context.Background(), "jupitor", termCat, peopleCat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findings["jupitor"].Term != "Jupiter" {
		t.Errorf("fenced JSON not parsed: %+v", findings)
	}
}

func TestAnalyzeBareStringFinding(t *testing.T) {
	gen := &fakeGenerator{response: `{"jupitor": "Jupiter"}`}
	a := NewAnalyzer(gen, 0)
	termCat, peopleCat := testCatalogs()

	findings, err := a.Analyze(context.Background(), "jupitor", termCat, peopleCat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := findings["jupitor"]
	if f.Term != "Jupiter" {
		t.Fatalf("bare string finding not accepted: %+v", findings)
	}
	if f.Confidence != DefaultConfidence {
		t.Errorf("omitted confidence should default to %g, got %g", DefaultConfidence, f.Confidence)
	}
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	gen := &fakeGenerator{response: "I could not find any issues, sorry!"}
	a := NewAnalyzer(gen, 0)
	termCat, peopleCat := testCatalogs()

	findings, err := a.Analyze(context.Background(), "clean transcript", termCat, peopleCat)
	if err != nil {
		t.Fatalf("malformed output must not be an error, got %v", err)
	}
	if findings != nil {
		t.Errorf("malformed output should yield no findings, got %+v", findings)
	}
}

func TestAnalyzeTransportError(t *testing.T) {
	gen := &fakeGenerator{err: llm.ErrUnavailable}
	a := NewAnalyzer(gen, 0)
	termCat, peopleCat := testCatalogs()

	_, err := a.Analyze(context.Background(), "some text", termCat, peopleCat)
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Errorf("transport failure should surface wrapped, got %v", err)
	}
}

func TestAnalyzeConfidenceClamping(t *testing.T) {
	gen := &fakeGenerator{response: `{"a": {"term": "A", "confidence": 3.5}, "b": {"term": "B", "confidence": -1}}`}
	a := NewAnalyzer(gen, 0)
	termCat, peopleCat := testCatalogs()

	findings, err := a.Analyze(context.Background(), "a b", termCat, peopleCat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findings["a"].Confidence != 1 {
		t.Errorf("confidence above 1 should clamp to 1, got %g", findings["a"].Confidence)
	}
	if findings["b"].Confidence != DefaultConfidence {
		t.Errorf("non-positive confidence should default, got %g", findings["b"].Confidence)
	}
}

func TestAnalyzeTruncatesTranscript(t *testing.T) {
	gen := &fakeGenerator{response: `{}`}
	a := NewAnalyzer(gen, 100)
	termCat, peopleCat := testCatalogs()

	long := strings.Repeat("jupiter ", 100)
	a.Analyze(context.Background(), long, termCat, peopleCat)

	if strings.Count(gen.prompt, "jupiter") > 20 {
		t.Error("transcript should be capped before prompting")
	}
	if !gen.gotOpts.JSONResponse {
		t.Error("analyzer must request a JSON response")
	}
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	gen := &fakeGenerator{response: `{"x": {"term": "y"}}`}
	a := NewAnalyzer(gen, 0)
	termCat, peopleCat := testCatalogs()

	findings, err := a.Analyze(context.Background(), "  ", termCat, peopleCat)
	if err != nil || findings != nil {
		t.Errorf("empty transcript should be a no-op, got (%+v, %v)", findings, err)
	}
	if gen.prompt != "" {
		t.Error("generator should not be called for an empty transcript")
	}
}
