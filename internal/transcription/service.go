package transcription

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/horizon-summaries/backend/internal/media"
)

// Service manages transcription engines and splits oversized audio
// before handing chunks to an engine.
type Service struct {
	engines       map[string]Transcriber
	defaultEngine string
	maxSizeMB     int
}

// NewService creates a transcription service with available engines
func NewService(falKey, openAIKey string, maxSizeMB int) *Service {
	s := &Service{
		engines:   make(map[string]Transcriber),
		maxSizeMB: maxSizeMB,
	}

	if falKey != "" {
		c := NewFalWizperClient(falKey)
		s.engines[c.Name()] = c
		s.defaultEngine = c.Name()
		log.Printf("[transcription] registered Fal Wizper engine")
	}
	if openAIKey != "" {
		c := NewOpenAIWhisperClient(openAIKey)
		s.engines[c.Name()] = c
		if s.defaultEngine == "" {
			s.defaultEngine = c.Name()
		}
		log.Printf("[transcription] registered OpenAI Whisper engine")
	}

	return s
}

// RegisterEngine adds an engine
func (s *Service) RegisterEngine(name string, engine Transcriber) {
	s.engines[name] = engine
	if s.defaultEngine == "" {
		s.defaultEngine = name
	}
	log.Printf("[transcription] registered %s engine", name)
}

// EngineNames lists registered engines, sorted for stable output
func (s *Service) EngineNames() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transcribe runs the named engine (or the default when empty) against an
// audio file, splitting it into chunks when it exceeds the size limit and
// joining the chunk transcripts in order.
func (s *Service) Transcribe(ctx context.Context, engineName, audioPath, language string) (string, error) {
	if engineName == "" {
		engineName = s.defaultEngine
	}
	engine, ok := s.engines[engineName]
	if !ok {
		return "", fmt.Errorf("unknown transcription engine: %s (available: %v)", engineName, s.EngineNames())
	}

	chunks, cleanupDir, err := media.SplitAudio(ctx, audioPath, s.maxSizeMB)
	if err != nil {
		return "", fmt.Errorf("split audio: %w", err)
	}
	if cleanupDir != "" {
		defer os.RemoveAll(cleanupDir)
	}

	log.Printf("[transcription] engine=%s chunks=%d file=%s", engineName, len(chunks), audioPath)

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		result, err := engine.Transcribe(ctx, TranscribeRequest{AudioPath: chunk, Language: language})
		if err != nil {
			return "", fmt.Errorf("transcribe chunk %d/%d: %w", i+1, len(chunks), err)
		}
		parts = append(parts, strings.TrimSpace(result.Text))
	}

	transcript := strings.Join(parts, " ")
	log.Printf("[transcription] complete: %d characters", len(transcript))
	return transcript, nil
}
