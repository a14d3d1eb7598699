package reference

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTermUnmarshalBothShapes(t *testing.T) {
	var cat TermCatalog
	raw := `{"terms": ["Jupiter", {"term": "DAO", "acronyms": ["Decentralized Autonomous Organization"], "description": "governance body"}]}`
	if err := json.Unmarshal([]byte(raw), &cat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cat.Terms[0].Term != "Jupiter" {
		t.Errorf("bare string term = %+v", cat.Terms[0])
	}
	if cat.Terms[1].Term != "DAO" || len(cat.Terms[1].Acronyms) != 1 {
		t.Errorf("object term = %+v", cat.Terms[1])
	}
}

func TestPersonUnmarshalBothShapes(t *testing.T) {
	var cat PeopleCatalog
	raw := `{"people": ["Meow", {"name": "Kash", "nicknames": ["kasharp"], "role": "core team"}]}`
	if err := json.Unmarshal([]byte(raw), &cat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cat.People[0].Name != "Meow" {
		t.Errorf("bare string person = %+v", cat.People[0])
	}
	if cat.People[1].Name != "Kash" || cat.People[1].Role != "core team" {
		t.Errorf("object person = %+v", cat.People[1])
	}
}

func TestLoaderMissingFileDegrades(t *testing.T) {
	l := NewLoader("/nonexistent/terms.json", "/nonexistent/people.json")
	if got := l.LoadTerms(); len(got.Terms) != 0 {
		t.Errorf("missing terms file should yield empty catalog, got %+v", got)
	}
	if got := l.LoadPeople(); len(got.People) != 0 {
		t.Errorf("missing people file should yield empty catalog, got %+v", got)
	}
}

func TestLoaderMalformedFileDegrades(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terms.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	l := NewLoader(path, "")
	if got := l.LoadTerms(); len(got.Terms) != 0 {
		t.Errorf("malformed file should yield empty catalog, got %+v", got)
	}
}

func TestLoaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	termsPath := filepath.Join(dir, "terms.json")
	os.WriteFile(termsPath, []byte(`{"terms": [{"term": "Jupiter", "acronyms": ["JUP"]}]}`), 0644)

	l := NewLoader(termsPath, "")
	got := l.LoadTerms()
	if len(got.Terms) != 1 || got.Terms[0].Term != "Jupiter" {
		t.Errorf("LoadTerms = %+v", got)
	}
}

func TestFlattenTerms(t *testing.T) {
	cat := TermCatalog{Terms: []Term{
		{Term: "Jupiter", Acronyms: []string{"JUP", "Jupiter"}},
		{Term: "DAO"},
		{Term: ""},
	}}
	got := FlattenTerms(cat)
	want := []string{"Jupiter", "JUP", "DAO"}
	if len(got) != len(want) {
		t.Fatalf("FlattenTerms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FlattenTerms[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFlattenPeople(t *testing.T) {
	cat := PeopleCatalog{People: []Person{
		{Name: "Meow", Nicknames: []string{"meow", "Meow"}},
		{Name: "Kash"},
	}}
	got := FlattenPeople(cat)
	if len(got) != 3 {
		t.Errorf("FlattenPeople = %v", got)
	}
}

func TestFormatForPromptPlaceholders(t *testing.T) {
	if got := FormatTermsForPrompt(TermCatalog{}); got != "No term data available." {
		t.Errorf("empty terms placeholder = %q", got)
	}
	if got := FormatPeopleForPrompt(PeopleCatalog{}); got != "No name data available." {
		t.Errorf("empty people placeholder = %q", got)
	}

	terms := FormatTermsForPrompt(TermCatalog{Terms: []Term{
		{Term: "DAO", Acronyms: []string{"D.A.O."}, Description: "governance"},
	}})
	for _, want := range []string{"### DAO", "Acronyms/Alternatives: D.A.O.", "Description: governance"} {
		if !strings.Contains(terms, want) {
			t.Errorf("terms block missing %q:\n%s", want, terms)
		}
	}

	people := FormatPeopleForPrompt(PeopleCatalog{People: []Person{
		{Name: "Meow", Role: "founder", Nicknames: []string{"weremeow"}},
	}})
	for _, want := range []string{"### Meow", "Role: founder", "Nicknames/Handles: weremeow"} {
		if !strings.Contains(people, want) {
			t.Errorf("people block missing %q:\n%s", want, people)
		}
	}
}
