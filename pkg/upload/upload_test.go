package upload_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/dropzone/pkg/upload"
)

func save(t *testing.T, store upload.Store, name string, content []byte) string {
	t.Helper()
	tempID, err := store.Save(context.Background(), name, "text/plain", int64(len(content)), bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return tempID
}

func TestDiskStore_SaveAndClaim(t *testing.T) {
	store, err := upload.NewDiskStore(t.TempDir(), 10*1024*1024)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	content := []byte("hello world")
	tempID := save(t, store, "test.txt", content)
	if tempID == "" {
		t.Fatal("expected non-empty temp ID")
	}

	file, err := store.Claim(context.Background(), tempID)
	if err != nil {
		t.Fatalf("failed to claim: %v", err)
	}
	defer file.Close()

	if file.Filename != "test.txt" {
		t.Errorf("expected filename test.txt, got %s", file.Filename)
	}
	if file.ContentType != "text/plain" {
		t.Errorf("expected content type text/plain, got %s", file.ContentType)
	}
	if file.Size != int64(len(content)) {
		t.Errorf("expected size %d, got %d", len(content), file.Size)
	}

	data, err := io.ReadAll(file.Reader)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("content mismatch")
	}
}

func TestDiskStore_ClaimDeletesFile(t *testing.T) {
	dir := t.TempDir()
	store, _ := upload.NewDiskStore(dir, 0)
	tempID := save(t, store, "file.txt", []byte("data"))

	path := filepath.Join(dir, tempID)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("file should exist before claim")
	}

	file, err := store.Claim(context.Background(), tempID)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	file.Close()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should be deleted after close")
	}
	if _, err := os.Stat(path + ".meta"); !os.IsNotExist(err) {
		t.Error("metadata should be deleted after close")
	}
}

func TestDiskStore_ClaimNotFound(t *testing.T) {
	store, _ := upload.NewDiskStore(t.TempDir(), 0)

	for _, id := range []string{"nonexistent", "../../etc/passwd", "abc.meta", ""} {
		if _, err := store.Claim(context.Background(), id); err != upload.ErrNotFound {
			t.Errorf("Claim(%q) = %v, want ErrNotFound", id, err)
		}
	}
}

func TestDiskStore_SizeLimitExceeded(t *testing.T) {
	store, _ := upload.NewDiskStore(t.TempDir(), 10)

	content := []byte("this is more than 10 bytes")
	_, err := store.Save(context.Background(), "big.txt", "text/plain", int64(len(content)), bytes.NewReader(content))
	if err != upload.ErrTooLarge {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}

	// Declared size is small but the reader provides more.
	_, err = store.Save(context.Background(), "x.txt", "text/plain", 4, bytes.NewReader(content))
	if err != upload.ErrTooLarge {
		t.Errorf("expected ErrTooLarge for undeclared overflow, got %v", err)
	}
}

func TestDiskStore_SaveHonoursCancellation(t *testing.T) {
	store, _ := upload.NewDiskStore(t.TempDir(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Save(ctx, "a.txt", "text/plain", 1, bytes.NewReader([]byte("a"))); err != context.Canceled {
		t.Errorf("Save = %v, want context.Canceled", err)
	}
}

func TestDiskStore_DoubleClaim(t *testing.T) {
	store, _ := upload.NewDiskStore(t.TempDir(), 0)
	tempID := save(t, store, "file.txt", []byte("data"))

	file, err := store.Claim(context.Background(), tempID)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	file.Close()

	if _, err := store.Claim(context.Background(), tempID); err != upload.ErrNotFound {
		t.Errorf("expected ErrNotFound on second claim, got %v", err)
	}
}

func TestDiskStore_ClaimAfterRestart(t *testing.T) {
	dir := t.TempDir()
	store1, _ := upload.NewDiskStore(dir, 0)
	content := []byte("persist me")
	tempID := save(t, store1, "persist.txt", content)

	// A fresh store has no in-memory entry and reads the sidecar.
	store2, _ := upload.NewDiskStore(dir, 0)
	file, err := store2.Claim(context.Background(), tempID)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	data, _ := io.ReadAll(file.Reader)
	if !bytes.Equal(data, content) || file.Filename != "persist.txt" {
		t.Fatalf("claimed %q as %q", data, file.Filename)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestDiskStore_ClaimWithMetaButNoData(t *testing.T) {
	dir := t.TempDir()
	store, _ := upload.NewDiskStore(dir, 0)

	tempID := "0123456789abcdef0123456789abcdef"
	meta, _ := json.Marshal(map[string]any{
		"filename":     "missing.txt",
		"content_type": "text/plain",
		"size":         3,
		"created_at":   time.Now().UTC(),
	})
	if err := os.WriteFile(filepath.Join(dir, tempID+".meta"), meta, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Claim(context.Background(), tempID); err != upload.ErrNotFound {
		t.Fatalf("err = %v, want %v", err, upload.ErrNotFound)
	}
}

func TestDiskStore_Cleanup(t *testing.T) {
	dir := t.TempDir()
	store, _ := upload.NewDiskStore(dir, 0)

	oldFile := filepath.Join(dir, "orphan.bin")
	if err := os.WriteFile(oldFile, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}

	recent := save(t, store, "recent.txt", []byte("new"))

	subdir := filepath.Join(dir, "keepdir")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := store.Cleanup(context.Background(), time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("expected old file to be deleted; stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, recent)); err != nil {
		t.Errorf("expected recent upload to remain; stat err=%v", err)
	}
	if _, err := os.Stat(subdir); err != nil {
		t.Errorf("expected subdir to remain; stat err=%v", err)
	}
}

type closeTracker struct {
	closed bool
}

func (c *closeTracker) Read([]byte) (int, error) { return 0, io.EOF }
func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestFile_Close(t *testing.T) {
	tracker := &closeTracker{}
	f := &upload.File{Reader: tracker}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !tracker.closed {
		t.Fatalf("expected reader to be closed")
	}

	if err := (&upload.File{}).Close(); err != nil {
		t.Fatalf("Close without reader: %v", err)
	}
}

type countingStore struct {
	upload.Store
	cleanups chan time.Duration
}

func (s *countingStore) Cleanup(_ context.Context, maxAge time.Duration) error {
	select {
	case s.cleanups <- maxAge:
	default:
	}
	return nil
}

func TestJanitorSweepsUntilCancelled(t *testing.T) {
	store := &countingStore{cleanups: make(chan time.Duration, 8)}
	j := upload.NewJanitor(store, 5*time.Millisecond, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	select {
	case maxAge := <-store.cleanups:
		if maxAge != time.Minute {
			t.Errorf("maxAge = %v, want 1m", maxAge)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never swept")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
