package db

import (
	"path/filepath"
	"testing"

	"github.com/horizon-summaries/backend/internal/terms"
)

func testDB(t *testing.T) *Database {
	t.Helper()
	d, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestUpsertCorrectionDefaults(t *testing.T) {
	d := testDB(t)

	err := d.UpsertCorrection(terms.Correction{IncorrectTerm: "jupitor", CorrectTerm: "Jupiter"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	all, err := d.CorrectionsDetailed(0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := all["jupitor"]
	if c.Confidence != 1.0 || c.Type != terms.TypeTerm || c.Source != terms.SourceLLM {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestUpsertCorrectionRequiresBothTerms(t *testing.T) {
	d := testDB(t)
	if err := d.UpsertCorrection(terms.Correction{IncorrectTerm: "x"}); err == nil {
		t.Error("missing correct term should fail")
	}
	if err := d.UpsertCorrection(terms.Correction{CorrectTerm: "y"}); err == nil {
		t.Error("missing incorrect term should fail")
	}
}

func TestUpsertCorrectionOverwrites(t *testing.T) {
	d := testDB(t)

	d.UpsertCorrection(terms.Correction{IncorrectTerm: "the dow", CorrectTerm: "the Dow", Confidence: 0.6})
	d.UpsertCorrection(terms.Correction{IncorrectTerm: "the dow", CorrectTerm: "the DAO", Confidence: 0.9, Reasoning: "homophone"})

	all, err := d.CorrectionsDetailed(0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("upsert should overwrite, have %d records", len(all))
	}
	c := all["the dow"]
	if c.CorrectTerm != "the DAO" || c.Confidence != 0.9 || c.Reasoning != "homophone" {
		t.Errorf("record not overwritten: %+v", c)
	}
}

func TestCorrectionsThresholdAndOrdering(t *testing.T) {
	d := testDB(t)

	d.UpsertCorrection(terms.Correction{IncorrectTerm: "perp", CorrectTerm: "PERP", Confidence: 0.9})
	d.UpsertCorrection(terms.Correction{IncorrectTerm: "perp dex", CorrectTerm: "perpetuals DEX", Confidence: 0.8})
	d.UpsertCorrection(terms.Correction{IncorrectTerm: "jupe", CorrectTerm: "Jup", Confidence: 0.5})

	rules, err := d.Corrections(0.75)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("want 2 rules at or above 0.75, got %d", len(rules))
	}
	if rules[0].Incorrect != "perp dex" {
		t.Errorf("rules should be longest first, got %v", rules)
	}
}

func TestCorrectionsBetweenBand(t *testing.T) {
	d := testDB(t)

	d.UpsertCorrection(terms.Correction{IncorrectTerm: "high", CorrectTerm: "High", Confidence: 0.9})
	d.UpsertCorrection(terms.Correction{IncorrectTerm: "mid", CorrectTerm: "Mid", Confidence: 0.65})
	d.UpsertCorrection(terms.Correction{IncorrectTerm: "edge", CorrectTerm: "Edge", Confidence: 0.75})
	d.UpsertCorrection(terms.Correction{IncorrectTerm: "low", CorrectTerm: "Low", Confidence: 0.4})

	rules, err := d.CorrectionsBetween(0.6, 0.75)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rules) != 1 || rules[0].Incorrect != "mid" {
		t.Errorf("band [0.6, 0.75) should hold only mid, got %v", rules)
	}
}

func TestCorrectionsTypeFilter(t *testing.T) {
	d := testDB(t)

	d.UpsertCorrection(terms.Correction{IncorrectTerm: "meow w", CorrectTerm: "Meow", Confidence: 0.9, Type: terms.TypePerson})
	d.UpsertCorrection(terms.Correction{IncorrectTerm: "jupitor", CorrectTerm: "Jupiter", Confidence: 0.9, Type: terms.TypeTerm})

	rules, err := d.Corrections(0.75, terms.TypePerson)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rules) != 1 || rules[0].Correct != "Meow" {
		t.Errorf("type filter failed: %v", rules)
	}
}

func TestUpsertCorrectionsBestEffort(t *testing.T) {
	d := testDB(t)

	saved := d.UpsertCorrections([]terms.Correction{
		{IncorrectTerm: "a", CorrectTerm: "A"},
		{IncorrectTerm: "", CorrectTerm: "broken"},
		{IncorrectTerm: "b", CorrectTerm: "B"},
	})
	if saved != 2 {
		t.Errorf("batch should skip the invalid record and save the rest, saved %d", saved)
	}

	list, err := d.ListCorrections()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("want 2 stored corrections, got %d", len(list))
	}
}

func TestManualSeedSurvivesListing(t *testing.T) {
	d := testDB(t)

	d.UpsertCorrection(terms.Correction{
		IncorrectTerm: "planetery call",
		CorrectTerm:   "Planetary Call",
		Source:        terms.SourceManual,
	})

	list, err := d.ListCorrections()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Source != terms.SourceManual {
		t.Errorf("manual source not preserved: %+v", list)
	}
}
