package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Downloader fetches broadcast audio as MP3 via yt-dlp, which handles
// every source type we classify (YouTube, Twitter/X broadcasts, raw
// HLS playlists).
type Downloader struct {
	tempPath string
}

func NewDownloader(tempPath string) *Downloader {
	return &Downloader{tempPath: tempPath}
}

// DownloadResult is the fetched audio file plus source metadata
type DownloadResult struct {
	AudioPath string
	Title     string
	Source    SourceType
}

// DownloadAudio fetches the audio track of a broadcast URL into the temp
// directory. The caller owns the returned file and must remove it.
func (d *Downloader) DownloadAudio(ctx context.Context, rawURL string) (*DownloadResult, error) {
	source := IdentifySource(rawURL)
	if source == SourceUnknown {
		return nil, fmt.Errorf("unsupported source URL: %s", rawURL)
	}

	if err := os.MkdirAll(d.tempPath, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	outBase := filepath.Join(d.tempPath, uuid.New().String())
	log.Printf("[media] downloading audio from %s URL: %s", source, rawURL)

	// --print-json emits the metadata (including the title) on stdout
	// after download; audio is extracted to MP3 by the postprocessor.
	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--no-progress",
		"--retries", "5",
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"--audio-quality", "192K",
		"--print-json",
		"-o", outBase+".%(ext)s",
		rawURL,
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("yt-dlp: %s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	var meta struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(output, &meta); err != nil {
		log.Printf("[media] WARNING: cannot parse yt-dlp metadata: %v", err)
	}
	title := meta.Title
	if title == "" {
		title = fmt.Sprintf("%s broadcast", source)
	}

	audioPath := outBase + ".mp3"
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("expected audio output not found: %s", audioPath)
	}

	log.Printf("[media] downloaded %q to %s", title, audioPath)
	return &DownloadResult{
		AudioPath: audioPath,
		Title:     title,
		Source:    source,
	}, nil
}
