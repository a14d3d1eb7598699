package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

const (
	maxRetries        = 3
	initialRetryDelay = 1 * time.Second
	maxRetryDelay     = 32 * time.Second
	jitterFactor      = 0.1
)

// ErrUnavailable is returned after the retry budget is exhausted. Callers
// are expected to degrade rather than fail the surrounding pipeline.
var ErrUnavailable = errors.New("generation service unavailable")

// ModelResolver returns the current model name, e.g. from settings
type ModelResolver func() string

// GenerateOptions tunes a single generation request
type GenerateOptions struct {
	Temperature       float64
	MaxOutputTokens   int
	SystemInstruction string
	JSONResponse      bool // request application/json output
}

// GeminiClient calls the Gemini generateContent API with bounded retries
type GeminiClient struct {
	apiKey        string
	modelResolver ModelResolver
	fallbackModel string
	httpClient    *http.Client
}

func NewGeminiClient(apiKey string, modelResolver ModelResolver, fallbackModel string) *GeminiClient {
	return &GeminiClient{
		apiKey:        apiKey,
		modelResolver: modelResolver,
		fallbackModel: fallbackModel,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (g *GeminiClient) currentModel() string {
	if g.modelResolver != nil {
		if m := g.modelResolver(); m != "" {
			return m
		}
	}
	return "gemini-2.0-flash"
}

// Generate produces text for a prompt, retrying transient failures with
// exponential backoff and jitter. Later retries fall back to the lesser
// model when one is configured. Returns ErrUnavailable once the retry
// budget is spent.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("Gemini API key not configured")
	}

	model := g.currentModel()
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryDelay(attempt - 1)
			log.Printf("[llm] retrying in %s (attempt %d/%d): %v", delay.Round(10*time.Millisecond), attempt, maxRetries, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			// Switch to the fallback model for the final attempts
			if g.fallbackModel != "" && model != g.fallbackModel && attempt >= 2 {
				log.Printf("[llm] switching to fallback model %s", g.fallbackModel)
				model = g.fallbackModel
			}
		}

		text, err := g.generateOnce(ctx, model, prompt, opts)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}

	log.Printf("[llm] max retries (%d) reached: %v", maxRetries, lastErr)
	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (g *GeminiClient) generateOnce(ctx context.Context, model, prompt string, opts GenerateOptions) (string, error) {
	generationConfig := map[string]interface{}{
		"temperature": opts.Temperature,
	}
	if opts.MaxOutputTokens > 0 {
		generationConfig["maxOutputTokens"] = opts.MaxOutputTokens
	}
	if opts.JSONResponse {
		generationConfig["responseMimeType"] = "application/json"
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": generationConfig,
	}
	if opts.SystemInstruction != "" {
		reqBody["system_instruction"] = map[string]interface{}{
			"parts": []map[string]string{
				{"text": opts.SystemInstruction},
			},
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent", geminiAPIBase, model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Gemini API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		if isQuotaError(resp.StatusCode, string(body)) {
			return "", fmt.Errorf("Gemini quota exceeded (status %d)", resp.StatusCode)
		}
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		log.Printf("[llm] empty response body: %s", string(body))
		if geminiResp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("Gemini blocked: %s", geminiResp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("empty Gemini response")
	}

	if fr := geminiResp.Candidates[0].FinishReason; fr != "" && fr != "STOP" {
		log.Printf("[llm] WARNING: finishReason=%s", fr)
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func retryDelay(retryCount int) time.Duration {
	delay := initialRetryDelay * time.Duration(1<<retryCount)
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	jitter := time.Duration(float64(delay) * jitterFactor * (rand.Float64()*2 - 1))
	return delay + jitter
}

func isQuotaError(status int, body string) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	for _, indicator := range []string{"RESOURCE_EXHAUSTED", "exceeds quota", "quota exceeded"} {
		if strings.Contains(body, indicator) {
			return true
		}
	}
	return false
}
