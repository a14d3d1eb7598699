package topics

import (
	"context"
	"log"
	"strings"

	"github.com/horizon-summaries/backend/internal/llm"
)

const extractorSystemInstruction = `You are an assistant skilled at identifying key topics within lengthy transcripts. Your goal is to extract a structured list of the most relevant subjects discussed with supporting information. Output must be a valid JSON array of topic objects.`

// Generator produces text from a prompt. Satisfied by llm.GeminiClient.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)
}

// Extractor identifies topics in a transcript via a language model
type Extractor struct {
	gen       Generator
	maxTopics int
}

func NewExtractor(gen Generator) *Extractor {
	return &Extractor{gen: gen, maxTopics: 10}
}

// Extract returns the topics discussed in the transcript. Failures are not
// fatal to the caller: any error or unparsable response yields an empty list.
func (e *Extractor) Extract(ctx context.Context, transcript, contentType string) []Topic {
	if strings.TrimSpace(transcript) == "" {
		return nil
	}

	raw, err := e.gen.Generate(ctx, e.buildPrompt(transcript, contentType), llm.GenerateOptions{
		Temperature:       0.3,
		MaxOutputTokens:   2048,
		SystemInstruction: extractorSystemInstruction,
		JSONResponse:      true,
	})
	if err != nil {
		log.Printf("[topics] WARNING: extraction failed, continuing without topics: %v", err)
		return nil
	}

	var list []Topic
	if !llm.DecodeArray(raw, &list) {
		log.Printf("[topics] WARNING: unparsable extraction response, continuing without topics: %.200s", raw)
		return nil
	}

	valid := list[:0]
	for _, t := range list {
		if t.Topic == "" {
			continue
		}
		if t.Relevance == "" {
			t.Relevance = "medium"
		}
		if t.Confidence == 0 {
			t.Confidence = 0.7
		}
		valid = append(valid, t)
	}

	log.Printf("[topics] extracted %d topics", len(valid))
	return valid
}

func (e *Extractor) buildPrompt(transcript, contentType string) string {
	var b strings.Builder
	b.WriteString("Analyze the following transcript of a recorded broadcast and identify the main topics discussed.\n\n")
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	b.WriteString(`

Instructions:
1. Identify the most important topics: specific subjects, projects, announcements or discussions.
2. For each topic provide:
   - "topic": a concise label (1-5 words)
   - "key_points": 1-3 points summarizing what was discussed
   - "relevance": "high", "medium" or "low" based on discussion time and emphasis
   - "category": a short category such as "Governance", "Development", "Community"
   - "confidence": your certainty in [0.0, 1.0]
3. Return ONLY a valid JSON array of such objects.
4. If the transcript is too short or lacks clear topics, return an empty JSON array.
`)

	switch contentType {
	case "office_hours":
		b.WriteString("\nThis is a community office-hours call: pay attention to working group updates, community initiatives, governance proposals and project milestones.\n")
	case "planetary_call":
		b.WriteString("\nThis is an all-hands announcement call: focus on technical announcements, product launches, roadmaps and strategic decisions.\n")
	case "jup_and_juice":
		b.WriteString("\nThis is a podcast episode: emphasize guest backgrounds, interview themes and ecosystem discussions.\n")
	}

	return b.String()
}
