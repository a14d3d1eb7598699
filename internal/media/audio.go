package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// SplitAudio cuts an audio file into 10-minute MP3 segments when it
// exceeds maxSizeMB, so transcription APIs with upload limits can handle
// long broadcasts. Files under the limit are returned as a single chunk.
// Chunks are written into a fresh temp directory; the caller removes
// cleanupDir when done (it is empty when no split happened).
func SplitAudio(ctx context.Context, audioPath string, maxSizeMB int) (chunks []string, cleanupDir string, err error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("stat audio: %w", err)
	}
	if maxSizeMB <= 0 || info.Size() <= int64(maxSizeMB)*1024*1024 {
		return []string{audioPath}, "", nil
	}

	chunkDir, err := os.MkdirTemp("", "audio-chunks-*")
	if err != nil {
		return nil, "", err
	}

	chunkPattern := filepath.Join(chunkDir, "chunk_%03d.mp3")
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", audioPath,
		"-f", "segment",
		"-segment_time", "600",
		"-c:a", "libmp3lame",
		"-q:a", "4",
		"-y",
		chunkPattern,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(chunkDir)
		return nil, "", fmt.Errorf("ffmpeg split: %s: %w", string(output), err)
	}

	entries, err := os.ReadDir(chunkDir)
	if err != nil {
		os.RemoveAll(chunkDir)
		return nil, "", err
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".mp3") {
			chunks = append(chunks, filepath.Join(chunkDir, e.Name()))
		}
	}
	if len(chunks) == 0 {
		os.RemoveAll(chunkDir)
		return nil, "", fmt.Errorf("no audio chunks generated")
	}
	sort.Strings(chunks)
	return chunks, chunkDir, nil
}
