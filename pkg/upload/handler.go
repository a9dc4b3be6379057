package upload

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/vango-dev/dropzone/pkg/upload"

// FieldName is the multipart field carrying files.
const FieldName = "file"

// Saved describes one stored file in a handler response.
type Saved struct {
	TempID      string `json:"temp_id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Response is the JSON body returned by the upload handler.
type Response struct {
	Files []Saved `json:"files"`
}

// Handler returns an http.Handler for file uploads.
// Mount this on your router: r.Post("/upload", upload.Handler(store))
//
// The handler expects a multipart form with one or more "file" fields and
// responds with the temp ID of every stored file. If any part is rejected,
// the parts stored before it are removed again:
//
//	{"files": [{"temp_id": "abc123", "filename": "a.png", "size": 42, "content_type": "image/png"}]}
func Handler(store Store) http.Handler {
	return HandlerWithConfig(store, DefaultConfig())
}

// HandlerWithConfig returns an upload handler with custom configuration.
func HandlerWithConfig(store Store, config *Config) http.Handler {
	cfg := *config
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 20
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "upload")
	tracer := otel.Tracer(tracerName)

	// The body limit covers every file plus multipart framing.
	maxBody := cfg.MaxFileSize*int64(cfg.MaxFiles) + 1<<20

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail := func(msg string, code int) {
			cfg.Metrics.BackendRequest(code)
			http.Error(w, msg, code)
		}

		if r.Method != http.MethodPost {
			fail("Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, span := tracer.Start(r.Context(), "upload.Handler")
		defer span.End()

		// Limit the body before parsing.
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				fail("File too large", http.StatusRequestEntityTooLarge)
				return
			}
			fail("Failed to parse form", http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		headers := r.MultipartForm.File[FieldName]
		if len(headers) == 0 {
			fail("No file provided", http.StatusBadRequest)
			return
		}
		if len(headers) > cfg.MaxFiles {
			fail("Too many files", http.StatusBadRequest)
			return
		}
		span.SetAttributes(attribute.Int("upload.files", len(headers)))

		resp := Response{Files: make([]Saved, 0, len(headers))}
		for _, header := range headers {
			saved, err := saveOne(ctx, store, &cfg, header)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				logger.WarnContext(ctx, "upload rejected", "filename", header.Filename, "error", err)
				discard(ctx, store, resp.Files, logger)
				switch {
				case errors.Is(err, ErrTooLarge):
					fail("File too large", http.StatusRequestEntityTooLarge)
				case errors.Is(err, ErrTypeNotAllowed):
					fail("File type not allowed", http.StatusUnsupportedMediaType)
				default:
					fail("Upload failed", http.StatusInternalServerError)
				}
				return
			}
			resp.Files = append(resp.Files, saved)
		}

		logger.InfoContext(ctx, "files stored", "count", len(resp.Files))
		cfg.Metrics.BackendRequest(http.StatusCreated)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)
	})
}

// discard removes parts already stored for a request that failed, so a
// batch is stored whole or not at all.
func discard(ctx context.Context, store Store, saved []Saved, logger *slog.Logger) {
	for _, s := range saved {
		f, err := store.Claim(ctx, s.TempID)
		if err != nil {
			logger.WarnContext(ctx, "discarding partial upload", "temp_id", s.TempID, "error", err)
			continue
		}
		f.Close()
	}
}

// saveOne sniffs the part's type, enforces limits and stores it. The
// client-provided Content-Type header is not trusted.
func saveOne(ctx context.Context, store Store, cfg *Config, header *multipart.FileHeader) (Saved, error) {
	if header.Size > cfg.MaxFileSize {
		return Saved{}, ErrTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return Saved{}, err
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 512)
	sniff, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Saved{}, err
	}
	contentType := http.DetectContentType(sniff)
	if !typeAllowed(cfg.AllowedTypes, contentType) {
		return Saved{}, ErrTypeNotAllowed
	}

	tempID, err := store.Save(ctx, header.Filename, contentType, header.Size, br)
	if err != nil {
		return Saved{}, err
	}
	return Saved{
		TempID:      tempID,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: contentType,
	}, nil
}
