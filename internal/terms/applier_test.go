package terms

import "testing"

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		rules []Rule
		want  string
	}{
		{
			name:  "no rules",
			text:  "hello world",
			rules: nil,
			want:  "hello world",
		},
		{
			name:  "empty text",
			text:  "",
			rules: []Rule{{Incorrect: "a", Correct: "b"}},
			want:  "",
		},
		{
			name:  "simple replacement",
			text:  "jupitor announced a vote",
			rules: []Rule{{Incorrect: "jupitor", Correct: "Jupiter"}},
			want:  "Jupiter announced a vote",
		},
		{
			name:  "case insensitive match",
			text:  "Jupitor and JUPITOR and jupitor",
			rules: []Rule{{Incorrect: "jupitor", Correct: "Jupiter"}},
			want:  "Jupiter and Jupiter and Jupiter",
		},
		{
			name:  "replacement keeps stored casing",
			text:  "the dow voted yes",
			rules: []Rule{{Incorrect: "the dow", Correct: "the DAO"}},
			want:  "the DAO voted yes",
		},
		{
			name:  "word boundary prevents substring match",
			text:  "perpendicular lines and perp markets",
			rules: []Rule{{Incorrect: "perp", Correct: "perps"}},
			want:  "perpendicular lines and perps markets",
		},
		{
			name: "longest rule wins regardless of order",
			text: "perp dex volume is up",
			rules: []Rule{
				{Incorrect: "perp", Correct: "PERP"},
				{Incorrect: "perp dex", Correct: "perpetuals DEX"},
			},
			want: "perpetuals DEX volume is up",
		},
		{
			name:  "multi word phrase",
			text:  "welcome to jup and juice everyone",
			rules: []Rule{{Incorrect: "jup and juice", Correct: "Jup & Juice"}},
			want:  "welcome to Jup & Juice everyone",
		},
		{
			name:  "blank rule skipped",
			text:  "unchanged text",
			rules: []Rule{{Incorrect: "  ", Correct: "x"}, {Incorrect: "y", Correct: ""}},
			want:  "unchanged text",
		},
		{
			name:  "regex metacharacters treated literally",
			text:  "price hit $1.5 (roughly)",
			rules: []Rule{{Incorrect: "$1.5 (roughly)", Correct: "$1.50"}},
			want:  "price hit $1.50",
		},
		{
			name:  "hyphenated term",
			text:  "the jupe-ai tool shipped",
			rules: []Rule{{Incorrect: "jupe-ai", Correct: "JupAI"}},
			want:  "the JupAI tool shipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.text, tt.rules)
			if got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestApplyDoesNotMutateRules(t *testing.T) {
	rules := []Rule{
		{Incorrect: "a", Correct: "A"},
		{Incorrect: "longer phrase", Correct: "Longer Phrase"},
	}
	Apply("a longer phrase", rules)
	if rules[0].Incorrect != "a" || rules[1].Incorrect != "longer phrase" {
		t.Errorf("input rule slice was reordered: %v", rules)
	}
}
