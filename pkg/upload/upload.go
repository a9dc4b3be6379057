package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vango-dev/dropzone/pkg/metrics"
)

// ErrNotFound is returned when a temp file doesn't exist.
var ErrNotFound = errors.New("upload: file not found")

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// ErrTypeNotAllowed is returned when a file's detected type is not allowed.
var ErrTypeNotAllowed = errors.New("upload: file type not allowed")

// Store is the interface for upload storage backends.
type Store interface {
	// Save stores the uploaded file and returns a temp ID.
	// The file is stored temporarily until Claim is called.
	Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (tempID string, err error)

	// Claim retrieves a temp file. The temp file is removed once the
	// returned File is closed.
	Claim(ctx context.Context, tempID string) (*File, error)

	// Cleanup removes temp files older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// File represents an uploaded file.
type File struct {
	// ID is the temp ID of the upload.
	ID string

	// Filename is the original filename from the client.
	Filename string

	// ContentType is the MIME type recorded at upload time.
	ContentType string

	// Size is the file size in bytes.
	Size int64

	// Path is the local filesystem path (DiskStore only).
	Path string

	// URL is a fetchable address for remote stores.
	URL string

	// Reader provides access to the file contents.
	Reader io.ReadCloser
}

// Close closes the file reader if open.
func (f *File) Close() error {
	if f.Reader != nil {
		return f.Reader.Close()
	}
	return nil
}

// Config holds configuration for the upload handler.
type Config struct {
	// MaxFileSize is the maximum allowed size of a single file in bytes.
	// Default: 10MB.
	MaxFileSize int64

	// MaxFiles caps the number of files per request. Default: 20.
	MaxFiles int

	// AllowedTypes restricts uploads by the sniffed MIME type. Entries may
	// use a "type/*" wildcard. Empty allows all types.
	AllowedTypes []string

	// TempExpiry is how long temp files live before cleanup.
	// Default: 1 hour.
	TempExpiry time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *metrics.Collector
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize: 10 * 1024 * 1024,
		MaxFiles:    20,
		TempExpiry:  time.Hour,
	}
}

// typeAllowed reports whether contentType matches one of allowed.
func typeAllowed(allowed []string, contentType string) bool {
	if len(allowed) == 0 {
		return true
	}
	ct := strings.ToLower(contentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "*/*" || a == ct {
			return true
		}
		if base, ok := strings.CutSuffix(a, "/*"); ok && strings.HasPrefix(ct, base+"/") {
			return true
		}
	}
	return false
}
