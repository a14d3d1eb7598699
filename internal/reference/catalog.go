// Package reference loads the curated vocabulary of known-correct domain
// terms and people used as context for terminology analysis. The backing
// files are read-only inputs; a missing or malformed file degrades to an
// empty catalog rather than an error.
package reference

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// Term is a known-correct domain term with optional aliases and description.
// Catalog files may hold either a bare string or a full object per entry;
// both unmarshal into Term (bare strings populate only the Term field).
type Term struct {
	Term         string   `json:"term"`
	Acronyms     []string `json:"acronyms,omitempty"`
	Description  string   `json:"description,omitempty"`
	RelatedTerms []string `json:"related_terms,omitempty"`
}

func (t *Term) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Term{Term: s}
		return nil
	}
	type plain Term
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Term(p)
	return nil
}

// Person is a known person with optional nicknames, role and background
type Person struct {
	Name        string   `json:"name"`
	Nicknames   []string `json:"nicknames,omitempty"`
	Role        string   `json:"role,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (p *Person) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Person{Name: s}
		return nil
	}
	type plain Person
	var pl plain
	if err := json.Unmarshal(data, &pl); err != nil {
		return err
	}
	*p = Person(pl)
	return nil
}

// TermCatalog is the terms reference file contents
type TermCatalog struct {
	Terms []Term `json:"terms"`
}

// PeopleCatalog is the people reference file contents
type PeopleCatalog struct {
	People []Person `json:"people"`
}

// Loader reads catalog files from configured paths
type Loader struct {
	termsFile  string
	peopleFile string
}

func NewLoader(termsFile, peopleFile string) *Loader {
	return &Loader{termsFile: termsFile, peopleFile: peopleFile}
}

// LoadTerms reads the term catalog. A missing or unparsable file logs a
// warning and returns an empty catalog.
func (l *Loader) LoadTerms() TermCatalog {
	var catalog TermCatalog
	if !loadJSON(l.termsFile, &catalog) {
		return TermCatalog{}
	}
	log.Printf("[reference] loaded %d terms from %s", len(catalog.Terms), l.termsFile)
	return catalog
}

// LoadPeople reads the people catalog, with the same degradation as LoadTerms
func (l *Loader) LoadPeople() PeopleCatalog {
	var catalog PeopleCatalog
	if !loadJSON(l.peopleFile, &catalog) {
		return PeopleCatalog{}
	}
	log.Printf("[reference] loaded %d people from %s", len(catalog.People), l.peopleFile)
	return catalog
}

func loadJSON(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[reference] WARNING: cannot read %s: %v, using empty catalog", path, err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("[reference] WARNING: cannot parse %s: %v, using empty catalog", path, err)
		return false
	}
	return true
}

// FlattenTerms expands each term plus its acronyms into a deduplicated flat list
func FlattenTerms(catalog TermCatalog) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, t := range catalog.Terms {
		add(t.Term)
		for _, a := range t.Acronyms {
			add(a)
		}
	}
	return out
}

// FlattenPeople expands each person plus their nicknames into a deduplicated flat list
func FlattenPeople(catalog PeopleCatalog) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, p := range catalog.People {
		add(p.Name)
		for _, n := range p.Nicknames {
			add(n)
		}
	}
	return out
}

// FormatTermsForPrompt renders the term catalog as a compact reference block
// for embedding in an analysis prompt
func FormatTermsForPrompt(catalog TermCatalog) string {
	if len(catalog.Terms) == 0 {
		return "No term data available."
	}

	var b strings.Builder
	b.WriteString("## Terminology Reference\n\n")
	for _, t := range catalog.Terms {
		if t.Term == "" {
			continue
		}
		fmt.Fprintf(&b, "### %s\n", t.Term)
		if len(t.Acronyms) > 0 {
			fmt.Fprintf(&b, "Acronyms/Alternatives: %s\n", strings.Join(t.Acronyms, ", "))
		}
		if t.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", t.Description)
		}
		if len(t.RelatedTerms) > 0 {
			fmt.Fprintf(&b, "Related: %s\n", strings.Join(t.RelatedTerms, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatPeopleForPrompt renders the people catalog as a compact reference block
func FormatPeopleForPrompt(catalog PeopleCatalog) string {
	if len(catalog.People) == 0 {
		return "No name data available."
	}

	var b strings.Builder
	b.WriteString("## People Reference\n\n")
	for _, p := range catalog.People {
		if p.Name == "" {
			continue
		}
		fmt.Fprintf(&b, "### %s\n", p.Name)
		if p.Role != "" {
			fmt.Fprintf(&b, "Role: %s\n", p.Role)
		}
		if len(p.Nicknames) > 0 {
			fmt.Fprintf(&b, "Nicknames/Handles: %s\n", strings.Join(p.Nicknames, ", "))
		}
		if p.Description != "" {
			fmt.Fprintf(&b, "Background: %s\n", p.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
