package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	falQueueURL   = "https://queue.fal.run/fal-ai/wizper"
	falStorageURL = "https://rest.alpha.fal.ai/storage/upload/initiate"

	falMaxTries     = 5
	falPollInterval = 5 * time.Second
)

// FalWizperClient transcribes audio through the Fal queue API running the
// Wizper model. Flow: upload file to Fal storage, submit a queue request,
// poll status until completed, fetch the result.
type FalWizperClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewFalWizperClient(apiKey string) *FalWizperClient {
	return &FalWizperClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

func (c *FalWizperClient) Name() string {
	return "fal-wizper"
}

func (c *FalWizperClient) Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("Fal API key not configured")
	}

	var lastErr error
	for attempt := 0; attempt < falMaxTries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<uint(attempt-1)) * time.Second
			log.Printf("[fal-wizper] retrying transcription (attempt %d/%d) after %v: %v",
				attempt+1, falMaxTries, delay, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := c.transcribeOnce(ctx, req)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fal transcription failed after %d attempts: %w", falMaxTries, lastErr)
}

func (c *FalWizperClient) transcribeOnce(ctx context.Context, req TranscribeRequest) (*TranscribeResult, error) {
	audioURL, err := c.uploadFile(ctx, req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	requestID, err := c.submit(ctx, audioURL, req.Language)
	if err != nil {
		return nil, fmt.Errorf("submit job: %w", err)
	}
	log.Printf("[fal-wizper] submitted transcription job %s for %s", requestID, filepath.Base(req.AudioPath))

	if err := c.waitForCompletion(ctx, requestID); err != nil {
		return nil, err
	}

	return c.fetchResult(ctx, requestID)
}

// uploadFile pushes the audio to Fal storage and returns its public URL
func (c *FalWizperClient) uploadFile(ctx context.Context, path string) (string, error) {
	initBody, err := json.Marshal(map[string]string{
		"file_name":    filepath.Base(path),
		"content_type": "audio/mpeg",
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", falStorageURL, bytes.NewReader(initBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage initiate (status %d): %s", resp.StatusCode, string(body))
	}

	var initResp struct {
		UploadURL string `json:"upload_url"`
		FileURL   string `json:"file_url"`
	}
	if err := json.Unmarshal(body, &initResp); err != nil {
		return "", fmt.Errorf("parse storage response: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}

	putReq, err := http.NewRequestWithContext(ctx, "PUT", initResp.UploadURL, file)
	if err != nil {
		return "", err
	}
	putReq.ContentLength = info.Size()
	putReq.Header.Set("Content-Type", "audio/mpeg")

	putResp, err := c.httpClient.Do(putReq)
	if err != nil {
		return "", err
	}
	defer putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		putBody, _ := io.ReadAll(putResp.Body)
		return "", fmt.Errorf("storage upload (status %d): %s", putResp.StatusCode, string(putBody))
	}

	return initResp.FileURL, nil
}

func (c *FalWizperClient) submit(ctx context.Context, audioURL, language string) (string, error) {
	args := map[string]any{
		"audio_url": audioURL,
		"task":      "transcribe",
	}
	if language != "" && language != "auto" {
		args["language"] = language
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", falQueueURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("queue submit (status %d): %s", resp.StatusCode, string(body))
	}

	var submitResp struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &submitResp); err != nil {
		return "", fmt.Errorf("parse submit response: %w", err)
	}
	if submitResp.RequestID == "" {
		return "", fmt.Errorf("queue submit returned no request_id")
	}
	return submitResp.RequestID, nil
}

func (c *FalWizperClient) waitForCompletion(ctx context.Context, requestID string) error {
	statusURL := fmt.Sprintf("%s/requests/%s/status", falQueueURL, requestID)
	for {
		httpReq, err := http.NewRequestWithContext(ctx, "GET", statusURL, nil)
		if err != nil {
			return err
		}
		httpReq.Header.Set("Authorization", "Key "+c.apiKey)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("queue status (status %d): %s", resp.StatusCode, string(body))
		}

		var statusResp struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &statusResp); err != nil {
			return fmt.Errorf("parse status response: %w", err)
		}

		switch statusResp.Status {
		case "COMPLETED":
			return nil
		case "IN_QUEUE", "IN_PROGRESS":
			log.Printf("[fal-wizper] job %s status: %s, waiting...", requestID, statusResp.Status)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(falPollInterval):
			}
		default:
			return fmt.Errorf("job %s ended with status %s", requestID, statusResp.Status)
		}
	}
}

func (c *FalWizperClient) fetchResult(ctx context.Context, requestID string) (*TranscribeResult, error) {
	resultURL := fmt.Sprintf("%s/requests/%s", falQueueURL, requestID)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", resultURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("queue result (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text              string   `json:"text"`
		InferredLanguages []string `json:"inferred_languages"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse result: %w", err)
	}
	if result.Text == "" {
		return nil, fmt.Errorf("empty transcription result for job %s", requestID)
	}

	language := ""
	if len(result.InferredLanguages) > 0 {
		language = result.InferredLanguages[0]
	}
	return &TranscribeResult{Text: result.Text, Language: language}, nil
}
