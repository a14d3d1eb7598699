package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/horizon-summaries/backend/internal/db"
	"github.com/horizon-summaries/backend/internal/job"
	"github.com/horizon-summaries/backend/internal/media"
	"github.com/horizon-summaries/backend/internal/reference"
	"github.com/horizon-summaries/backend/internal/summary"
	"github.com/horizon-summaries/backend/internal/terms"
	"github.com/horizon-summaries/backend/internal/topics"
	"github.com/horizon-summaries/backend/internal/transcript"
	"github.com/horizon-summaries/backend/internal/transcription"
)

// Service runs the full broadcast pipeline: download, transcribe, clean,
// correct terminology, extract topics, summarize, persist.
type Service struct {
	database    *db.Database
	queue       *job.JobQueue
	downloader  *media.Downloader
	transcriber *transcription.Service
	corrector   *terms.Corrector
	extractor   *topics.Extractor
	summarizer  *summary.Service
	catalogs    *reference.Loader
	outputPath  string
}

func NewService(
	database *db.Database,
	queue *job.JobQueue,
	downloader *media.Downloader,
	transcriber *transcription.Service,
	corrector *terms.Corrector,
	extractor *topics.Extractor,
	summarizer *summary.Service,
	catalogs *reference.Loader,
	outputPath string,
) *Service {
	return &Service{
		database:    database,
		queue:       queue,
		downloader:  downloader,
		transcriber: transcriber,
		corrector:   corrector,
		extractor:   extractor,
		summarizer:  summarizer,
		catalogs:    catalogs,
		outputPath:  outputPath,
	}
}

// HandleJob processes a broadcast job end to end
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.ProcessParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}

	start := time.Now()
	log.Printf("[pipeline] processing broadcast: url=%s content_type=%s", params.URL, params.ContentType)

	updateProgress(0.05)
	download, err := s.downloader.DownloadAudio(ctx, params.URL)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer os.Remove(download.AudioPath)

	updateProgress(0.2)
	rawTranscript, err := s.transcriber.Transcribe(ctx, params.Engine, download.AudioPath, params.Language)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	updateProgress(0.6)
	cleaned := transcript.Clean(rawTranscript)
	log.Printf("[pipeline] cleaned transcript: %d -> %d characters", len(rawTranscript), len(cleaned))

	corrected := s.corrector.CorrectTerms(ctx, cleaned)

	updateProgress(0.75)
	topicList := s.extractor.Extract(ctx, corrected, params.ContentType)
	log.Printf("[pipeline] extracted %d topics", len(topicList))

	updateProgress(0.8)
	promptOverride, err := s.resolvePrompt(params)
	if err != nil {
		return err
	}

	termCat := s.catalogs.LoadTerms()
	peopleCat := s.catalogs.LoadPeople()
	summaryText, err := s.summarizer.Generate(ctx, corrected, topicList, params.ContentType, promptOverride, termCat, peopleCat)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	updateProgress(0.95)
	topicsJSON, err := json.Marshal(topicList)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}

	broadcast := &db.Broadcast{
		ID:            uuid.New().String(),
		SourceURL:     params.URL,
		Title:         download.Title,
		ContentType:   params.ContentType,
		RawTranscript: rawTranscript,
		Transcript:    corrected,
		Topics:        string(topicsJSON),
		Summary:       summaryText,
	}
	if err := s.database.SaveBroadcast(broadcast); err != nil {
		return fmt.Errorf("save broadcast: %w", err)
	}

	if err := s.writeOutputs(broadcast); err != nil {
		log.Printf("[pipeline] WARNING: write output files: %v", err)
	}

	result := job.ProcessResult{
		BroadcastID:     broadcast.ID,
		Title:           broadcast.Title,
		TranscriptChars: len(corrected),
		TopicCount:      len(topicList),
		SummaryChars:    len(summaryText),
		Duration:        time.Since(start).Seconds(),
	}
	if err := s.queue.SetResult(j.ID, result); err != nil {
		log.Printf("[pipeline] WARNING: store job result: %v", err)
	}

	log.Printf("[pipeline] broadcast %s done in %.1fs", broadcast.ID, result.Duration)
	return nil
}

// resolvePrompt picks the summary template override: an explicit override
// wins, then a saved preset, otherwise empty (built-in template by type).
func (s *Service) resolvePrompt(params job.ProcessParams) (string, error) {
	if params.PromptOverride != "" {
		return params.PromptOverride, nil
	}
	if params.PresetID == "" {
		return "", nil
	}
	var id int64
	if _, err := fmt.Sscanf(params.PresetID, "%d", &id); err != nil {
		return "", fmt.Errorf("invalid preset id: %s", params.PresetID)
	}
	preset, err := s.database.GetPromptPreset(id)
	if err != nil {
		return "", fmt.Errorf("load preset %d: %w", id, err)
	}
	return preset.Prompt, nil
}

// writeOutputs mirrors the broadcast artifacts to disk for easy inspection
func (s *Service) writeOutputs(b *db.Broadcast) error {
	dir := filepath.Join(s.outputPath, b.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	files := map[string]string{
		"transcript.txt": b.Transcript,
		"topics.json":    b.Topics,
		"summary.md":     b.Summary,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
