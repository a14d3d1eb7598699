package summary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTemplateStoreGet(t *testing.T) {
	s := NewTemplateStore("")

	for _, contentType := range []string{"office_hours", "planetary_call", "jup_and_juice", "default"} {
		tpl := s.Get(contentType)
		if !strings.Contains(tpl, placeholderTranscript) {
			t.Errorf("%s template lacks transcript placeholder", contentType)
		}
	}

	if s.Get("nonsense") != defaultTemplate {
		t.Error("unknown content type should fall back to the default template")
	}
}

func TestTemplateStoreFileOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "Custom prompt {transcript}"
	if err := os.WriteFile(filepath.Join(dir, "office_hours.txt"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewTemplateStore(dir)
	if got := s.Get("office_hours"); got != custom {
		t.Errorf("file override not used: %q", got)
	}
	// Other types still resolve to built-ins
	if got := s.Get("jup_and_juice"); got == custom {
		t.Error("override leaked to other content types")
	}

	names := s.List()
	found := false
	for _, n := range names {
		if n == "office_hours" {
			found = true
		}
	}
	if !found {
		t.Errorf("List() missing override name: %v", names)
	}
}

func TestRenderTemplate(t *testing.T) {
	tpl := "A {context} B {topics} C {transcript} D {TRANSCRIPT}"
	got := renderTemplate(tpl, "text", "topics", "ctx")
	want := "A ctx B topics C text D text"
	if got != want {
		t.Errorf("renderTemplate = %q, want %q", got, want)
	}
}
