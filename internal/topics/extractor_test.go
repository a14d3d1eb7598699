package topics

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/horizon-summaries/backend/internal/llm"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	g.prompt = prompt
	return g.response, g.err
}

func TestExtract(t *testing.T) {
	gen := &fakeGenerator{response: `[
		{"topic": "LFG Launchpad", "key_points": ["vote opened"], "relevance": "high", "category": "Governance", "confidence": 0.9},
		{"topic": "", "relevance": "high"},
		{"topic": "Mobile App"}
	]`}
	e := NewExtractor(gen)

	got := e.Extract(context.Background(), "long transcript text", "office_hours")
	if len(got) != 2 {
		t.Fatalf("got %d topics, want 2 (empty labels dropped)", len(got))
	}
	if got[0].Topic != "LFG Launchpad" || got[0].Relevance != "high" {
		t.Errorf("first topic = %+v", got[0])
	}
	if got[1].Relevance != "medium" || got[1].Confidence != 0.7 {
		t.Errorf("defaults not applied: %+v", got[1])
	}
	if !strings.Contains(gen.prompt, "office-hours") {
		t.Error("content type guidance missing from prompt")
	}
}

func TestExtractFailuresYieldNoTopics(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"generator error", &fakeGenerator{err: errors.New("boom")}},
		{"unparsable response", &fakeGenerator{response: "not json"}},
		{"object instead of array", &fakeGenerator{response: `{"topic": "x"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.gen)
			if got := e.Extract(context.Background(), "transcript", ""); got != nil {
				t.Errorf("want nil topics, got %+v", got)
			}
		})
	}
}

func TestExtractEmptyTranscript(t *testing.T) {
	gen := &fakeGenerator{response: `[{"topic": "x"}]`}
	e := NewExtractor(gen)
	if got := e.Extract(context.Background(), " ", ""); got != nil {
		t.Errorf("want nil, got %+v", got)
	}
	if gen.prompt != "" {
		t.Error("generator should not run on empty transcript")
	}
}

func TestTopicUnmarshalJSON(t *testing.T) {
	var list []Topic
	raw := `["Plain Label", {"topic": "Rich Topic", "key_points": ["a", "b"], "confidence": 0.8}]`
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if list[0].Topic != "Plain Label" {
		t.Errorf("bare string topic = %+v", list[0])
	}
	if list[1].Topic != "Rich Topic" || len(list[1].KeyPoints) != 2 {
		t.Errorf("object topic = %+v", list[1])
	}
}

func TestFormatForPrompt(t *testing.T) {
	list := []Topic{
		{Topic: "Kept", KeyPoints: []string{"point"}, Relevance: "high", Category: "Dev", Confidence: 0.9},
		{Topic: "Low Relevance", Relevance: "low"},
		{Topic: "Low Confidence", Confidence: 0.3},
	}
	got := FormatForPrompt(list)
	if !strings.Contains(got, "### Kept") || !strings.Contains(got, "- point") {
		t.Errorf("kept topic missing: %q", got)
	}
	if strings.Contains(got, "Low Relevance") || strings.Contains(got, "Low Confidence") {
		t.Errorf("filtered topics leaked: %q", got)
	}

	if got := FormatForPrompt(nil); got != "No specific topics extracted" {
		t.Errorf("empty list placeholder = %q", got)
	}
}

func TestLabels(t *testing.T) {
	list := []Topic{{Topic: "a"}, {Topic: ""}, {Topic: "b"}}
	got := Labels(list)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Labels = %v", got)
	}
}
