package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/horizon-summaries/backend/internal/api"
	"github.com/horizon-summaries/backend/internal/auth"
	"github.com/horizon-summaries/backend/internal/config"
	"github.com/horizon-summaries/backend/internal/db"
	"github.com/horizon-summaries/backend/internal/job"
	"github.com/horizon-summaries/backend/internal/llm"
	"github.com/horizon-summaries/backend/internal/media"
	"github.com/horizon-summaries/backend/internal/pipeline"
	"github.com/horizon-summaries/backend/internal/reference"
	"github.com/horizon-summaries/backend/internal/summary"
	"github.com/horizon-summaries/backend/internal/terms"
	"github.com/horizon-summaries/backend/internal/topics"
	"github.com/horizon-summaries/backend/internal/transcription"
)

func main() {
	cfg := config.Load()

	// Ensure working directories exist
	os.MkdirAll(cfg.DataPath, 0755)
	os.MkdirAll(cfg.OutputPath, 0755)
	os.MkdirAll(cfg.TempPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Job queue
	queue := job.NewJobQueue(database.DB())
	defer queue.Stop()

	// Gemini client: settings override env config, model resolves per request
	geminiKey := database.GetSetting("gemini_api_key", cfg.GeminiAPIKey)
	fallbackModel := database.GetSetting("gemini_fallback_model", cfg.GeminiFallbackModel)
	geminiClient := llm.NewGeminiClient(geminiKey, func() string {
		return database.GetSetting("gemini_model", cfg.GeminiModel)
	}, fallbackModel)

	// Pipeline components
	catalogs := reference.NewLoader(cfg.TermsFile, cfg.PeopleFile)
	analyzer := terms.NewAnalyzer(geminiClient, cfg.AnalyzerMaxChars)
	corrector := terms.NewCorrector(database, analyzer, catalogs, terms.Thresholds{
		High:   cfg.HighConfidence,
		Medium: cfg.MediumConfidence,
	})
	extractor := topics.NewExtractor(geminiClient)
	summarizer := summary.NewService(geminiClient, summary.NewTemplateStore(cfg.PromptsPath))

	falKey := database.GetSetting("fal_api_key", cfg.FalAPIKey)
	openAIKey := database.GetSetting("openai_api_key", cfg.OpenAIAPIKey)
	transcriber := transcription.NewService(falKey, openAIKey, cfg.MaxAudioSizeMB)
	downloader := media.NewDownloader(cfg.TempPath)

	pipe := pipeline.NewService(database, queue, downloader, transcriber, corrector, extractor, summarizer, catalogs, cfg.OutputPath)
	queue.RegisterHandler(job.JobProcess, pipe.HandleJob)

	// Create router
	router := api.NewRouter(database, jwtService, cfg, queue)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Output path: %s", cfg.OutputPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		queue.Stop()
		database.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
