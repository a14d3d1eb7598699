package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/horizon-summaries/backend/internal/db"
	"github.com/horizon-summaries/backend/internal/terms"
)

type CorrectionsHandler struct {
	database *db.Database
}

func NewCorrectionsHandler(database *db.Database) *CorrectionsHandler {
	return &CorrectionsHandler{database: database}
}

// ListCorrections returns all stored terminology corrections, newest first
func (h *CorrectionsHandler) ListCorrections(w http.ResponseWriter, r *http.Request) {
	corrections, err := h.database.ListCorrections()
	if err != nil {
		jsonError(w, "failed to list corrections: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if corrections == nil {
		corrections = []terms.Correction{}
	}
	jsonResponse(w, corrections, http.StatusOK)
}

type seedCorrectionRequest struct {
	IncorrectTerm string  `json:"incorrect_term"`
	CorrectTerm   string  `json:"correct_term"`
	Confidence    float64 `json:"confidence,omitempty"`
	Reasoning     string  `json:"reasoning,omitempty"`
	Type          string  `json:"type,omitempty"`
}

// SeedCorrection stores a manually curated correction. Manual entries
// default to full confidence so they always apply.
func (h *CorrectionsHandler) SeedCorrection(w http.ResponseWriter, r *http.Request) {
	var req seedCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.IncorrectTerm == "" || req.CorrectTerm == "" {
		jsonError(w, "incorrect_term and correct_term are required", http.StatusBadRequest)
		return
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		jsonError(w, "confidence must be between 0 and 1", http.StatusBadRequest)
		return
	}

	c := terms.Correction{
		IncorrectTerm: req.IncorrectTerm,
		CorrectTerm:   req.CorrectTerm,
		Confidence:    req.Confidence,
		Reasoning:     req.Reasoning,
		Type:          terms.CorrectionType(req.Type),
		Source:        terms.SourceManual,
	}
	if err := h.database.UpsertCorrection(c); err != nil {
		jsonError(w, "failed to save correction: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusCreated)
}
