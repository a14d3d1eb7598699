package summary

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Placeholders a template may use. Both the lowercase and legacy
// uppercase spellings are substituted.
const (
	placeholderTranscript = "{transcript}"
	placeholderTopics     = "{topics}"
	placeholderContext    = "{context}"
)

const defaultTemplate = `Write a polished Markdown summary of the following broadcast transcript.

{context}

{topics}

Structure the summary with a short overview paragraph, followed by sections per major topic, and close with any announcements or action items. Use the terminology and names exactly as they appear in the reference above. Do not invent content that is not in the transcript.

TRANSCRIPT:
{transcript}`

var builtinTemplates = map[string]string{
	"default": defaultTemplate,

	"office_hours": `Write a polished Markdown summary of this community office-hours call.

{context}

{topics}

Cover working group updates, community initiatives, governance proposals and votes, and project timelines. Use a section per working group or major topic, and close with action items. Use the terminology and names exactly as they appear in the reference above.

TRANSCRIPT:
{transcript}`,

	"planetary_call": `Write a polished Markdown summary of this all-hands announcement call.

{context}

{topics}

Lead with the headline announcements, then cover product and development updates, strategy, and community governance. Use the terminology and names exactly as they appear in the reference above.

TRANSCRIPT:
{transcript}`,

	"jup_and_juice": `Write a polished Markdown summary of this podcast episode.

{context}

{topics}

Introduce the guest and their background, then summarize the main interview themes and notable quotes or takeaways. Use the terminology and names exactly as they appear in the reference above.

TRANSCRIPT:
{transcript}`,
}

// TemplateStore resolves prompt templates: a file in the prompts
// directory overrides the built-in template of the same name.
type TemplateStore struct {
	promptsPath string
}

func NewTemplateStore(promptsPath string) *TemplateStore {
	return &TemplateStore{promptsPath: promptsPath}
}

// Get returns the template for a content type, falling back to the
// built-in default for unknown types.
func (s *TemplateStore) Get(contentType string) string {
	if s.promptsPath != "" {
		path := filepath.Join(s.promptsPath, contentType+".txt")
		if data, err := os.ReadFile(path); err == nil && strings.TrimSpace(string(data)) != "" {
			log.Printf("[summary] loaded %s template from %s", contentType, path)
			return string(data)
		}
	}
	if tpl, ok := builtinTemplates[contentType]; ok {
		return tpl
	}
	log.Printf("[summary] unknown template type %q, using default", contentType)
	return defaultTemplate
}

// List returns the available template names: built-ins plus any .txt
// files in the prompts directory.
func (s *TemplateStore) List() []string {
	names := make(map[string]bool)
	for name := range builtinTemplates {
		names[name] = true
	}
	if s.promptsPath != "" {
		if entries, err := os.ReadDir(s.promptsPath); err == nil {
			for _, e := range entries {
				if strings.HasSuffix(e.Name(), ".txt") {
					names[strings.TrimSuffix(e.Name(), ".txt")] = true
				}
			}
		}
	}
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	return out
}

func renderTemplate(tpl, transcript, topicsBlock, contextBlock string) string {
	replacer := strings.NewReplacer(
		placeholderTranscript, transcript,
		placeholderTopics, topicsBlock,
		placeholderContext, contextBlock,
		// Legacy uppercase placeholders from older template files
		"{TRANSCRIPT}", transcript,
		"{TOPICS}", topicsBlock,
		"{CONTEXT}", contextBlock,
	)
	return replacer.Replace(tpl)
}
