package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	Port          int
	DataPath      string
	DBPath        string
	OutputPath    string
	TempPath      string
	TermsFile     string
	PeopleFile    string
	PromptsPath   string
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	CORSOrigins   []string

	// Terminology correction thresholds. Corrections at or above High are
	// applied immediately; corrections in [Medium, High) are applied as a
	// deferred pass at the end of a run.
	HighConfidence   float64
	MediumConfidence float64

	// Analyzer input cap in characters, to keep prompts inside token limits.
	AnalyzerMaxChars int

	GeminiAPIKey        string
	GeminiModel         string
	GeminiFallbackModel string
	FalAPIKey           string
	OpenAIAPIKey        string

	// Audio files larger than this are split into chunks before transcription.
	MaxAudioSizeMB int
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "/data")

	// JWT secret: require explicit setting or generate random
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random JWT secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Sessions will not survive restarts. Set JWT_SECRET env var for persistent sessions.")
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	cfg := &Config{
		Port:          port,
		DataPath:      dataPath,
		DBPath:        getEnv("DB_PATH", filepath.Join(dataPath, "horizon.db")),
		OutputPath:    getEnv("OUTPUT_PATH", filepath.Join(dataPath, "output")),
		TempPath:      getEnv("TEMP_PATH", filepath.Join(dataPath, "tmp")),
		TermsFile:     getEnv("TERMS_FILE", filepath.Join(dataPath, "resources", "terms.json")),
		PeopleFile:    getEnv("PEOPLE_FILE", filepath.Join(dataPath, "resources", "people.json")),
		PromptsPath:   getEnv("PROMPTS_PATH", filepath.Join(dataPath, "prompts")),
		JWTSecret:     jwtSecret,
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		CORSOrigins:   corsOrigins,

		HighConfidence:   getEnvFloat("TERM_HIGH_CONFIDENCE", 0.75),
		MediumConfidence: getEnvFloat("TERM_MEDIUM_CONFIDENCE", 0.6),
		AnalyzerMaxChars: getEnvInt("TERM_ANALYZER_MAX_CHARS", 20000),

		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiFallbackModel: getEnv("GEMINI_FALLBACK_MODEL", "gemini-2.0-flash-lite"),
		FalAPIKey:           os.Getenv("FAL_API_KEY"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),

		MaxAudioSizeMB: getEnvInt("MAX_AUDIO_SIZE_MB", 50),
	}

	if cfg.MediumConfidence > cfg.HighConfidence {
		log.Printf("WARNING: TERM_MEDIUM_CONFIDENCE (%g) exceeds TERM_HIGH_CONFIDENCE (%g), clamping",
			cfg.MediumConfidence, cfg.HighConfidence)
		cfg.MediumConfidence = cfg.HighConfidence
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("WARNING: invalid integer for %s: %q, using %d", key, v, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("WARNING: invalid float for %s: %q, using %g", key, v, fallback)
	}
	return fallback
}
