package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents the kind of job
type JobType string

const (
	JobProcess JobType = "process_broadcast"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents a queued broadcast processing task
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	SourceURL   string          `json:"source_url"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ProcessParams are parameters for a broadcast processing job
type ProcessParams struct {
	URL            string `json:"url"`                       // broadcast URL (YouTube, Twitter, M3U8)
	ContentType    string `json:"content_type"`              // "office_hours", "planetary_call", "jup_and_juice"
	Engine         string `json:"engine,omitempty"`          // transcription engine, default when empty
	Language       string `json:"language,omitempty"`        // "auto", "en", etc.
	PresetID       string `json:"preset_id,omitempty"`       // summary prompt preset
	PromptOverride string `json:"prompt_override,omitempty"` // raw template override
}

// ProcessResult is the output of a successful broadcast processing job
type ProcessResult struct {
	BroadcastID     string  `json:"broadcast_id"`
	Title           string  `json:"title"`
	TranscriptChars int     `json:"transcript_chars"`
	TopicCount      int     `json:"topic_count"`
	SummaryChars    int     `json:"summary_chars"`
	Duration        float64 `json:"duration"` // processing time in seconds
}

// JobHandler processes a job. Implementations are provided by the pipeline package.
type JobHandler func(ctx context.Context, job *Job, updateProgress func(float64)) error
