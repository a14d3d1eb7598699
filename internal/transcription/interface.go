package transcription

import "context"

// TranscribeRequest is the input for a transcription
type TranscribeRequest struct {
	AudioPath string // absolute path to an audio file
	Language  string // "auto", "en", etc.
}

// TranscribeResult is the output of a transcription
type TranscribeResult struct {
	Text     string // plain transcript text
	Language string // detected language, if reported
}

// Transcriber is the common interface for all transcription engines
type Transcriber interface {
	// Transcribe converts an audio file to text
	Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResult, error)
	// Name returns the engine name
	Name() string
}
