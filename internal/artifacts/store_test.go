package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func TestSaveWritesAtomically(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "clip.mp4")
	n, err := Save(context.Background(), dest, strings.NewReader("video"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 5 {
		t.Fatalf("got %d bytes want 5", n)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "video" {
		t.Fatalf("got %q want %q", string(data), "video")
	}
}

func TestSaveFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clip.mp4")
	_, err := Save(context.Background(), dest, iotest.ErrReader(errors.New("connection reset")))
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("destination should not exist, stat err=%v", statErr)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("temp files left behind: %d", len(entries))
	}
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dest := filepath.Join(t.TempDir(), "clip.mp4")
	if _, err := Save(ctx, dest, strings.NewReader("video")); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v want context.Canceled", err)
	}
}

func TestDefaultName(t *testing.T) {
	tests := []struct {
		link, id, ext, want string
	}{
		{"/files/abc.mp4", "j1", ".mp4", "abc.mp4"},
		{"/files/abc.srt?token=1", "j1", ".srt", "abc.srt"},
		{"/api/jobs/j1/video", "j1", ".mp4", "video.mp4"},
		{"", "j1", ".srt", "j1.srt"},
	}
	for _, tc := range tests {
		if got := DefaultName(tc.link, tc.id, tc.ext); got != tc.want {
			t.Fatalf("DefaultName(%q): got %q want %q", tc.link, got, tc.want)
		}
	}
}

func TestAcquireLockBlocksConcurrentDownload(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	lock, err := AcquireLock(dest)
	if err != nil {
		t.Fatalf("acquire first lock: %v", err)
	}
	defer func() {
		_ = lock.Release()
	}()

	if _, err := AcquireLock(dest); err == nil {
		t.Fatalf("expected second acquire to fail")
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("release lock: %v", err)
	}

	lock2, err := AcquireLock(dest)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if err := lock2.Release(); err != nil {
		t.Fatalf("release second lock: %v", err)
	}
}
