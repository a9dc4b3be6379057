package dropzone

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/dropzone"

// Phase is the widget's position in the upload state machine.
type Phase int

const (
	// PhaseIdle means no files are pending.
	PhaseIdle Phase = iota
	// PhaseSelected means files are pending and no upload is running.
	PhaseSelected
	// PhaseUploading means a batch is in flight.
	PhaseUploading
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	case PhaseUploading:
		return "uploading"
	default:
		return "unknown"
	}
}

// State is what render strategies see.
type State struct {
	// Progress is a multiple of 10 while uploading and nil otherwise.
	Progress     *int
	IsDragActive bool
	FileCount    int
}

// Uploading reports whether Progress is set.
func (s State) Uploading() bool {
	return s.Progress != nil
}

// Dropzone is a drag-and-drop upload widget. It is safe for concurrent use;
// callbacks and the uploader are never called with internal locks held.
type Dropzone struct {
	cfg     config
	surface DropSurface
	logger  *slog.Logger
	tracer  trace.Tracer

	mu        sync.Mutex
	files     []File
	uploading bool
	progress  int
	listeners map[int]func(State)
	nextID    int
}

// New creates a Dropzone.
func New(opts ...Option) *Dropzone {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	surface := cfg.surface
	if surface == nil {
		surface = NewSurface(SurfaceConfig{
			Accept:    cfg.accept,
			Multiple:  cfg.multiple,
			Validator: cfg.validator,
			MinSize:   cfg.minSize,
			MaxSize:   cfg.maxSize,
			MaxFiles:  cfg.maxFiles,
		})
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := cfg.tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Dropzone{
		cfg:       cfg,
		surface:   surface,
		logger:    logger.With("component", "dropzone"),
		tracer:    tracer,
		listeners: make(map[int]func(State)),
	}
}

// State returns the current state.
func (d *Dropzone) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateLocked()
}

func (d *Dropzone) stateLocked() State {
	st := State{
		IsDragActive: d.surface.IsDragActive(),
		FileCount:    len(d.files),
	}
	if d.uploading {
		p := d.progress
		st.Progress = &p
	}
	return st
}

// Phase returns the current state machine phase.
func (d *Dropzone) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.uploading:
		return PhaseUploading
	case len(d.files) > 0:
		return PhaseSelected
	default:
		return PhaseIdle
	}
}

// Files returns a copy of the pending file set.
func (d *Dropzone) Files() []File {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]File(nil), d.files...)
}

// Subscribe registers fn to be called with the new state after every change.
// The returned function removes the subscription.
func (d *Dropzone) Subscribe(fn func(State)) (unsubscribe func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

func (d *Dropzone) notify() {
	d.mu.Lock()
	st := d.stateLocked()
	fns := make([]func(State), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// DragEnter forwards a dragenter from the drop target.
func (d *Dropzone) DragEnter() {
	d.surface.DragEnter()
	d.notify()
}

// DragLeave forwards a dragleave from the drop target.
func (d *Dropzone) DragLeave() {
	d.surface.DragLeave()
	d.notify()
}

// Drop handles files dropped on (or picked for) the widget.
//
// Files are admitted by the surface, passed through the transform and, when
// any remain, replace the pending set. In immediate mode the upload starts
// right away and Drop returns its error. A drop that leaves no files changes
// nothing. Drops are refused with ErrUploadInProgress while uploading.
func (d *Dropzone) Drop(ctx context.Context, files []File) error {
	ctx, span := d.tracer.Start(ctx, "dropzone.Drop",
		trace.WithAttributes(attribute.Int("dropzone.dropped", len(files))))
	defer span.End()

	d.mu.Lock()
	busy := d.uploading
	d.mu.Unlock()
	if busy {
		d.surface.DragLeave()
		d.notify()
		span.SetStatus(codes.Error, ErrUploadInProgress.Error())
		return ErrUploadInProgress
	}

	d.cfg.metrics.Drop()
	accepted, rejected := d.surface.Drop(files)
	if len(rejected) > 0 {
		for _, r := range rejected {
			for _, fe := range r.Errors {
				d.cfg.metrics.Rejected(metricCode(fe.Code))
			}
		}
		d.logger.Debug("files rejected", "rejected", len(rejected))
		if d.cfg.onDropRejected != nil {
			d.cfg.onDropRejected(rejected)
		}
	}

	if d.cfg.transform != nil && len(accepted) > 0 {
		accepted = runTransforms(ctx, accepted, d.cfg.transform, d.cfg.transformLimit, d.transformFailed)
	}
	span.SetAttributes(
		attribute.Int("dropzone.accepted", len(accepted)),
		attribute.Int("dropzone.rejected", len(rejected)),
	)

	if len(accepted) == 0 {
		d.notify()
		return nil
	}

	d.mu.Lock()
	if d.uploading {
		d.mu.Unlock()
		span.SetStatus(codes.Error, ErrUploadInProgress.Error())
		return ErrUploadInProgress
	}
	d.files = accepted
	d.mu.Unlock()

	d.logger.Debug("files selected", "count", len(accepted))
	d.filesChanged(accepted)
	d.notify()

	if d.cfg.uploadImmediately {
		return d.startUpload(ctx, append([]File(nil), accepted...))
	}
	return nil
}

func (d *Dropzone) transformFailed(te *TransformError) {
	d.cfg.metrics.TransformFailed()
	d.logger.Warn("transform failed, dropping file", "file", te.File.Name, "error", te.Err)
	if d.cfg.onTransformError != nil {
		d.cfg.onTransformError(te)
	}
}

func (d *Dropzone) filesChanged(files []File) {
	if d.cfg.onFilesChange != nil {
		d.cfg.onFilesChange(append([]File(nil), files...))
	}
}

// Upload uploads the pending files and blocks until the batch resolves.
// It is a no-op returning nil when nothing is pending or an upload is
// already running.
func (d *Dropzone) Upload(ctx context.Context) error {
	d.mu.Lock()
	if len(d.files) == 0 || d.uploading {
		d.mu.Unlock()
		return nil
	}
	files := append([]File(nil), d.files...)
	d.mu.Unlock()

	return d.startUpload(ctx, files)
}

func (d *Dropzone) startUpload(ctx context.Context, files []File) error {
	d.mu.Lock()
	if d.uploading {
		d.mu.Unlock()
		return nil
	}
	if d.cfg.uploader == nil {
		d.mu.Unlock()
		return ErrNoUploader
	}
	d.uploading = true
	d.progress = 0
	d.mu.Unlock()
	d.notify()

	ctx, span := d.tracer.Start(ctx, "dropzone.Upload", trace.WithAttributes(
		attribute.Int("dropzone.files", len(files)),
		attribute.Int64("dropzone.bytes", totalSize(files)),
	))
	defer span.End()

	d.logger.Info("upload started", "files", len(files))
	start := time.Now()

	results, err := d.cfg.uploader.Upload(ctx, files, Hooks{
		Begin:    d.uploadBegin,
		Progress: d.uploadProgress,
	})
	if err != nil {
		d.cfg.metrics.UploadFinished(err, time.Since(start), 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("upload failed", "files", len(files), "error", err)

		d.mu.Lock()
		d.uploading = false
		d.progress = 0
		d.mu.Unlock()

		if d.cfg.onUploadError != nil {
			d.cfg.onUploadError(err)
		}
		d.notify()
		return err
	}

	d.cfg.metrics.UploadFinished(nil, time.Since(start), totalSize(files))
	d.logger.Info("upload complete", "files", len(results), "duration", time.Since(start))

	d.mu.Lock()
	d.files = nil
	d.mu.Unlock()
	d.filesChanged(nil)
	d.notify()

	var completeErr error
	if d.cfg.onUploadComplete != nil {
		completeErr = d.cfg.onUploadComplete(ctx, results)
	}

	d.mu.Lock()
	d.uploading = false
	d.progress = 0
	d.mu.Unlock()

	if completeErr != nil {
		span.RecordError(completeErr)
		span.SetStatus(codes.Error, completeErr.Error())
		d.logger.Error("upload completion handler failed", "error", completeErr)
		if d.cfg.onUploadError != nil {
			d.cfg.onUploadError(completeErr)
		}
	}
	d.notify()
	return completeErr
}

func (d *Dropzone) uploadBegin(f File) {
	d.logger.Debug("file upload started", "file", f.Name, "size", f.Size)
	if d.cfg.onUploadBegin != nil {
		d.cfg.onUploadBegin(f)
	}
}

// uploadProgress surfaces p quantized, firing only when the quantized value
// moves.
func (d *Dropzone) uploadProgress(p int) {
	q := Quantize(p)

	d.mu.Lock()
	if !d.uploading || q == d.progress {
		d.mu.Unlock()
		return
	}
	d.progress = q
	d.mu.Unlock()

	if d.cfg.onUploadProgress != nil {
		d.cfg.onUploadProgress(q)
	}
	d.notify()
}
