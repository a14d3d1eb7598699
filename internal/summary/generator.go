// Package summary turns a corrected transcript and its topics into a
// narrative Markdown summary via a language model.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/horizon-summaries/backend/internal/llm"
	"github.com/horizon-summaries/backend/internal/reference"
	"github.com/horizon-summaries/backend/internal/topics"
)

// Keep the reference context block inside sensible prompt bounds: the
// most important terms come first in the catalog, every person matters.
const maxContextTerms = 35

// Generator produces text from a prompt. Satisfied by llm.GeminiClient.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)
}

type Service struct {
	gen       Generator
	templates *TemplateStore
}

func NewService(gen Generator, templates *TemplateStore) *Service {
	return &Service{gen: gen, templates: templates}
}

// Generate writes the summary for a transcript. The template is resolved
// from the content type unless an explicit prompt override is given
// (e.g. a saved preset). Unlike correction and topic extraction, a
// failure here is fatal to the run: without a summary there is no output.
func (s *Service) Generate(ctx context.Context, transcriptText string, topicList []topics.Topic, contentType, promptOverride string, termCat reference.TermCatalog, peopleCat reference.PeopleCatalog) (string, error) {
	if strings.TrimSpace(transcriptText) == "" {
		return "", fmt.Errorf("empty transcript")
	}

	tpl := promptOverride
	if tpl == "" {
		tpl = s.templates.Get(contentType)
	}

	prompt := renderTemplate(tpl, transcriptText, topics.FormatForPrompt(topicList), s.contextBlock(termCat, peopleCat))

	out, err := s.gen.Generate(ctx, prompt, llm.GenerateOptions{
		Temperature:     0.7,
		MaxOutputTokens: 8192,
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (s *Service) contextBlock(termCat reference.TermCatalog, peopleCat reference.PeopleCatalog) string {
	if len(termCat.Terms) > maxContextTerms {
		termCat.Terms = termCat.Terms[:maxContextTerms]
	}

	var parts []string
	if len(termCat.Terms) > 0 {
		parts = append(parts, reference.FormatTermsForPrompt(termCat))
	}
	if len(peopleCat.People) > 0 {
		parts = append(parts, reference.FormatPeopleForPrompt(peopleCat))
	}
	return strings.Join(parts, "\n\n")
}
