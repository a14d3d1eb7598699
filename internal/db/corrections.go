package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/horizon-summaries/backend/internal/terms"
)

// UpsertCorrection inserts a correction record or, when the incorrect term
// already exists, replaces its correct term, confidence, reasoning, type and
// source and refreshes updated_at. Last writer wins under concurrent upserts.
func (d *Database) UpsertCorrection(c terms.Correction) error {
	if c.IncorrectTerm == "" || c.CorrectTerm == "" {
		return fmt.Errorf("correction requires both incorrect and correct terms")
	}
	if c.Confidence == 0 {
		c.Confidence = 1.0
	}
	if c.Type == "" {
		c.Type = terms.TypeTerm
	}
	if c.Source == "" {
		c.Source = terms.SourceLLM
	}

	_, err := d.db.Exec(`
		INSERT INTO term_corrections (incorrect_term, correct_term, confidence, reasoning, correction_type, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(incorrect_term) DO UPDATE SET
			correct_term = excluded.correct_term,
			confidence = excluded.confidence,
			reasoning = excluded.reasoning,
			correction_type = excluded.correction_type,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP`,
		c.IncorrectTerm, c.CorrectTerm, c.Confidence, c.Reasoning, string(c.Type), c.Source,
	)
	if err != nil {
		return fmt.Errorf("upsert correction %q: %w", c.IncorrectTerm, err)
	}
	return nil
}

// UpsertCorrections saves a batch of corrections best-effort: a record that
// fails to save is logged and skipped, the rest still commit. Returns the
// number of records saved.
func (d *Database) UpsertCorrections(corrections []terms.Correction) int {
	saved := 0
	for _, c := range corrections {
		if err := d.UpsertCorrection(c); err != nil {
			log.Printf("[corrections] skipping record: %v", err)
			continue
		}
		saved++
	}
	return saved
}

// Corrections returns the incorrect -> correct rules for all records with
// confidence >= minConfidence and, when types are given, a matching
// correction type. Rules are ordered by descending length of the incorrect
// term so longer phrases are substituted before their substrings.
func (d *Database) Corrections(minConfidence float64, types ...terms.CorrectionType) ([]terms.Rule, error) {
	return d.correctionRange(minConfidence, 2.0, types)
}

// CorrectionsBetween returns rules with minConfidence <= confidence < maxConfidence,
// same ordering as Corrections.
func (d *Database) CorrectionsBetween(minConfidence, maxConfidence float64, types ...terms.CorrectionType) ([]terms.Rule, error) {
	return d.correctionRange(minConfidence, maxConfidence, types)
}

func (d *Database) correctionRange(min, max float64, types []terms.CorrectionType) ([]terms.Rule, error) {
	query := `SELECT incorrect_term, correct_term FROM term_corrections WHERE confidence >= ? AND confidence < ?`
	args := []interface{}{min, max}
	query, args = appendTypeFilter(query, args, types)
	query += ` ORDER BY length(incorrect_term) DESC, incorrect_term ASC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}
	defer rows.Close()

	var rules []terms.Rule
	for rows.Next() {
		var r terms.Rule
		if err := rows.Scan(&r.Incorrect, &r.Correct); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// CorrectionsDetailed returns full records keyed by incorrect term, filtered
// like Corrections.
func (d *Database) CorrectionsDetailed(minConfidence float64, types ...terms.CorrectionType) (map[string]terms.Correction, error) {
	query := `SELECT incorrect_term, correct_term, confidence, reasoning, correction_type, source, created_at, updated_at
		FROM term_corrections WHERE confidence >= ?`
	args := []interface{}{minConfidence}
	query, args = appendTypeFilter(query, args, types)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}
	defer rows.Close()

	result := make(map[string]terms.Correction)
	for rows.Next() {
		var c terms.Correction
		var ctype string
		if err := rows.Scan(&c.IncorrectTerm, &c.CorrectTerm, &c.Confidence, &c.Reasoning, &ctype, &c.Source, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		c.Type = terms.CorrectionType(ctype)
		result[c.IncorrectTerm] = c
	}
	return result, rows.Err()
}

// ListCorrections returns every stored correction, most recently updated first
func (d *Database) ListCorrections() ([]terms.Correction, error) {
	rows, err := d.db.Query(`
		SELECT incorrect_term, correct_term, confidence, reasoning, correction_type, source, created_at, updated_at
		FROM term_corrections ORDER BY updated_at DESC, incorrect_term ASC`)
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()

	var list []terms.Correction
	for rows.Next() {
		var c terms.Correction
		var ctype string
		if err := rows.Scan(&c.IncorrectTerm, &c.CorrectTerm, &c.Confidence, &c.Reasoning, &ctype, &c.Source, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		c.Type = terms.CorrectionType(ctype)
		list = append(list, c)
	}
	if list == nil {
		list = []terms.Correction{}
	}
	return list, rows.Err()
}

func appendTypeFilter(query string, args []interface{}, types []terms.CorrectionType) (string, []interface{}) {
	if len(types) == 0 {
		return query, args
	}
	placeholders := make([]string, len(types))
	for i, t := range types {
		placeholders[i] = "?"
		args = append(args, string(t))
	}
	query += " AND correction_type IN (" + strings.Join(placeholders, ", ") + ")"
	return query, args
}
