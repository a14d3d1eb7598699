package llm

import "testing"

func TestDecodeObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"direct JSON", `{"a": 1}`, true},
		{"fenced with language tag", "```json\n{\"a\": 1}\n```", true},
		{"fenced without language tag", "```\n{\"a\": 1}\n```", true},
		{"prose around object", "Here is the result:\n{\"a\": 1}\nHope that helps!", true},
		{"pure prose", "no json here", false},
		{"empty", "", false},
		{"whitespace only", "   \n  ", false},
		{"unbalanced braces", `{"a": `, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v map[string]int
			if got := DecodeObject(tt.raw, &v); got != tt.ok {
				t.Errorf("DecodeObject(%q) = %v, want %v", tt.raw, got, tt.ok)
			}
			if tt.ok && v["a"] != 1 {
				t.Errorf("decoded value wrong: %v", v)
			}
		})
	}
}

func TestDecodeArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
		ok   bool
	}{
		{"direct array", `[1, 2, 3]`, 3, true},
		{"fenced array", "```json\n[1, 2]\n```", 2, true},
		{"array in prose", "The topics are: [1] as requested.", 1, true},
		{"object not array", `{"a": 1}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v []int
			if got := DecodeArray(tt.raw, &v); got != tt.ok {
				t.Errorf("DecodeArray(%q) = %v, want %v", tt.raw, got, tt.ok)
			}
			if tt.ok && len(v) != tt.want {
				t.Errorf("decoded %d elements, want %d", len(v), tt.want)
			}
		})
	}
}
