package transcript

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "empty input",
			raw:  "   ",
			want: "",
		},
		{
			name: "strips filler words",
			raw:  "um so we uh shipped the feature",
			want: "so we shipped the feature",
		},
		{
			name: "collapses repeated words",
			raw:  "the the the vote passed",
			want: "the vote passed",
		},
		{
			name: "repeated words case insensitive",
			raw:  "We we should ship",
			want: "We should ship",
		},
		{
			name: "hesitation markers become sentence breaks",
			raw:  "we decided... to ship",
			want: "we decided. To ship",
		},
		{
			name: "space before punctuation removed",
			raw:  "hello , world !",
			want: "hello, world!",
		},
		{
			name: "missing space after punctuation added",
			raw:  "first,second",
			want: "first, second",
		},
		{
			name: "whitespace collapsed",
			raw:  "too    many   spaces",
			want: "too many spaces",
		},
		{
			name: "sentence starts capitalized",
			raw:  "Done. next item",
			want: "Done. Next item",
		},
		{
			name: "punctuation not collapsed as repeat",
			raw:  "yes, yes, we agree",
			want: "yes, yes, we agree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.raw)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
