package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/horizon-summaries/backend/internal/api/handlers"
	"github.com/horizon-summaries/backend/internal/api/middleware"
	"github.com/horizon-summaries/backend/internal/auth"
	"github.com/horizon-summaries/backend/internal/config"
	"github.com/horizon-summaries/backend/internal/db"
	"github.com/horizon-summaries/backend/internal/job"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, jobQueue *job.JobQueue) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))
	r.Use(middleware.MaxBodySize(1 << 20))

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	userHandler := handlers.NewUserHandler(database)
	adminHandler := handlers.NewAdminHandler(database)
	broadcastsHandler := handlers.NewBroadcastsHandler(database, jobQueue)
	jobHandler := handlers.NewJobHandler(jobQueue)
	correctionsHandler := handlers.NewCorrectionsHandler(database)
	presetsHandler := handlers.NewPresetsHandler(database)
	settingsHandler := handlers.NewSettingsHandler(database)
	modelsHandler := handlers.NewGeminiModelsHandler(database)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Auth (public, rate limited)
		r.With(loginLimiter.Handler).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			// Auth
			r.Get("/auth/me", authHandler.Me)
			r.Put("/user/password", userHandler.ChangePassword)

			// Broadcast processing
			r.Post("/process", broadcastsHandler.Process)
			r.Get("/broadcasts", broadcastsHandler.ListBroadcasts)
			r.Get("/broadcasts/{id}", broadcastsHandler.GetBroadcast)

			// Jobs
			r.Get("/jobs", jobHandler.ListJobs)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Delete("/jobs/{id}", jobHandler.CancelJob)
			r.Post("/jobs/{id}/retry", jobHandler.RetryJob)

			// Prompt presets
			r.Get("/presets", presetsHandler.ListPresets)
			r.Post("/presets", presetsHandler.CreatePreset)
			r.Put("/presets/{id}", presetsHandler.UpdatePreset)
			r.Delete("/presets/{id}", presetsHandler.DeletePreset)

			// Model listing for settings UI
			r.Get("/models/gemini", modelsHandler.ListModels)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))

				r.Get("/settings", settingsHandler.GetSettings)
				r.Put("/settings", settingsHandler.UpdateSettings)

				r.Get("/corrections", correctionsHandler.ListCorrections)
				r.Post("/corrections", correctionsHandler.SeedCorrection)

				r.Get("/admin/users", adminHandler.ListUsers)
				r.Post("/admin/users", adminHandler.CreateUser)
				r.Put("/admin/users/{id}", adminHandler.UpdateUser)
				r.Delete("/admin/users/{id}", adminHandler.DeleteUser)
			})
		})
	})

	return r
}
