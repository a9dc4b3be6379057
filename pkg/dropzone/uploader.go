package dropzone

import "context"

// Hooks receives events from an Uploader while a batch is in flight.
// Either field may be nil.
type Hooks struct {
	// Begin is called when the transfer of a file starts.
	Begin func(File)

	// Progress reports combined progress of the batch in percent. It must be
	// called at least on every 10% boundary crossing.
	Progress func(percent int)
}

// Start calls Begin if set.
func (h Hooks) Start(f File) {
	if h.Begin != nil {
		h.Begin(f)
	}
}

// Report calls Progress if set.
func (h Hooks) Report(p int) {
	if h.Progress != nil {
		h.Progress(p)
	}
}

// Result describes one uploaded file.
type Result struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`

	// Key identifies the stored object on the backend (a temp ID for the
	// bundled upload handler).
	Key string `json:"key"`

	// URL is where the object can be fetched, when the backend exposes one.
	URL string `json:"url,omitempty"`
}

// Uploader transfers a batch of files. Completion is the returned results;
// a non-nil error means the batch failed.
type Uploader interface {
	Upload(ctx context.Context, files []File, hooks Hooks) ([]Result, error)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, files []File, hooks Hooks) ([]Result, error)

// Upload implements Uploader.
func (f UploaderFunc) Upload(ctx context.Context, files []File, hooks Hooks) ([]Result, error) {
	return f(ctx, files, hooks)
}

// Target resolves the address uploads are sent to.
type Target interface {
	Resolve(ctx context.Context) (string, error)
}

// StaticTarget is a literal upload URL.
type StaticTarget string

// Resolve implements Target.
func (t StaticTarget) Resolve(context.Context) (string, error) {
	return string(t), nil
}

// TargetFunc resolves the upload URL on demand, e.g. to fetch a presigned
// address per batch.
type TargetFunc func(ctx context.Context) (string, error)

// Resolve implements Target.
func (f TargetFunc) Resolve(ctx context.Context) (string, error) {
	return f(ctx)
}
