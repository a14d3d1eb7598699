package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitAudioUnderLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.mp3")
	if err := os.WriteFile(path, make([]byte, 1024), 0644); err != nil {
		t.Fatal(err)
	}

	chunks, cleanupDir, err := SplitAudio(context.Background(), path, 50)
	if err != nil {
		t.Fatalf("SplitAudio: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != path {
		t.Errorf("file under the limit should pass through unsplit, got %v", chunks)
	}
	if cleanupDir != "" {
		t.Errorf("no temp dir should be created for an unsplit file, got %q", cleanupDir)
	}
}

func TestSplitAudioZeroLimitDisablesSplitting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "any.mp3")
	if err := os.WriteFile(path, make([]byte, 4096), 0644); err != nil {
		t.Fatal(err)
	}

	chunks, _, err := SplitAudio(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("SplitAudio: %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("limit <= 0 should disable splitting, got %v", chunks)
	}
}

func TestSplitAudioMissingFile(t *testing.T) {
	_, _, err := SplitAudio(context.Background(), "/nonexistent/audio.mp3", 50)
	if err == nil {
		t.Error("missing file should error")
	}
}
