// Package topics extracts the key discussion topics from a corrected
// transcript using a language model.
package topics

import (
	"encoding/json"
	"strings"
)

// Topic is a discussed subject with optional metadata. External data
// sometimes carries topics as bare strings and sometimes as rich objects;
// both decode into Topic at this boundary so downstream code never has
// to sniff the shape again.
type Topic struct {
	Topic      string   `json:"topic"`
	KeyPoints  []string `json:"key_points,omitempty"`
	Relevance  string   `json:"relevance,omitempty"`
	Category   string   `json:"category,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

func (t *Topic) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Topic{Topic: s}
		return nil
	}
	type plain Topic
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Topic(p)
	return nil
}

// Labels projects a topic list down to its plain labels
func Labels(list []Topic) []string {
	labels := make([]string, 0, len(list))
	for _, t := range list {
		if t.Topic != "" {
			labels = append(labels, t.Topic)
		}
	}
	return labels
}

// FormatForPrompt renders topics as a block for embedding in a summary
// prompt. Only topics with at least medium relevance and reasonable
// confidence are included.
func FormatForPrompt(list []Topic) string {
	if len(list) == 0 {
		return "No specific topics extracted"
	}

	var b strings.Builder
	b.WriteString("**Key Topics:**\n")
	for _, t := range list {
		if t.Topic == "" {
			continue
		}
		if t.Relevance == "low" || (t.Confidence > 0 && t.Confidence < 0.7) {
			continue
		}
		b.WriteString("\n### " + t.Topic + "\n")
		if len(t.KeyPoints) > 0 {
			b.WriteString("Key points:\n")
			for _, p := range t.KeyPoints {
				b.WriteString("- " + p + "\n")
			}
		}
		if t.Category != "" {
			b.WriteString("Category: " + t.Category + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
