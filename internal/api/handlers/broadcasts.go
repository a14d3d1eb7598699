package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/horizon-summaries/backend/internal/db"
	"github.com/horizon-summaries/backend/internal/job"
	"github.com/horizon-summaries/backend/internal/media"
)

type BroadcastsHandler struct {
	database *db.Database
	queue    *job.JobQueue
}

func NewBroadcastsHandler(database *db.Database, queue *job.JobQueue) *BroadcastsHandler {
	return &BroadcastsHandler{database: database, queue: queue}
}

type processRequest struct {
	URL            string `json:"url"`
	ContentType    string `json:"content_type"`
	Engine         string `json:"engine,omitempty"`
	Language       string `json:"language,omitempty"`
	PresetID       string `json:"preset_id,omitempty"`
	PromptOverride string `json:"prompt_override,omitempty"`
}

// Process enqueues a broadcast processing job
func (h *BroadcastsHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}
	if media.IdentifySource(req.URL) == media.SourceUnknown {
		jsonError(w, "unsupported source URL", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "default"
	}

	j, err := h.queue.Enqueue(job.JobProcess, req.URL, job.ProcessParams{
		URL:            req.URL,
		ContentType:    req.ContentType,
		Engine:         req.Engine,
		Language:       req.Language,
		PresetID:       req.PresetID,
		PromptOverride: req.PromptOverride,
	})
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, j, http.StatusAccepted)
}

// ListBroadcasts returns all processed broadcasts, or search results when
// a q query parameter is given
func (h *BroadcastsHandler) ListBroadcasts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var (
		list []db.Broadcast
		err  error
	)
	if query != "" {
		list, err = h.database.SearchBroadcasts(query)
	} else {
		list, err = h.database.ListBroadcasts()
	}
	if err != nil {
		jsonError(w, "failed to list broadcasts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, list, http.StatusOK)
}

// GetBroadcast returns a single broadcast with full transcript and summary
func (h *BroadcastsHandler) GetBroadcast(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing broadcast ID", http.StatusBadRequest)
		return
	}

	b, err := h.database.GetBroadcast(id)
	if err != nil {
		jsonError(w, "broadcast not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, b, http.StatusOK)
}
