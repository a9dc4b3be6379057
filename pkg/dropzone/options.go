package dropzone

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dropzone/pkg/metrics"
	"github.com/vango-dev/dropzone/pkg/vdom"
)

// DefaultLabel is shown in the drop zone when no label is configured.
const DefaultLabel = "Choose files or drag and drop"

// Option configures a Dropzone.
type Option func(*config)

type config struct {
	uploader          Uploader
	surface           DropSurface
	accept            Accept
	multiple          bool
	uploadImmediately bool
	minSize           int64
	maxSize           int64
	maxFiles          int
	validator         Validator
	transform         TransformFunc
	transformLimit    int
	label             string
	subtitle          string
	showFileList      bool
	hidPrefix         string
	content           func(State) *vdom.VNode
	className         func(State) string
	onUploadProgress  func(int)
	onUploadBegin     func(File)
	onUploadComplete  func(context.Context, []Result) error
	onUploadError     func(error)
	onFilesChange     func([]File)
	onDropRejected    func([]Rejection)
	onTransformError  func(*TransformError)
	logger            *slog.Logger
	tracer            trace.Tracer
	metrics           *metrics.Collector
}

func defaultConfig() config {
	return config{
		label: DefaultLabel,
	}
}

// WithUploader sets the upload boundary.
func WithUploader(u Uploader) Option {
	return func(c *config) {
		c.uploader = u
	}
}

// WithSurface replaces the default drop surface. Accept, multiplicity, size
// and validator options are ignored when a custom surface is set.
func WithSurface(s DropSurface) Option {
	return func(c *config) {
		c.surface = s
	}
}

// WithAccept restricts admitted files by MIME type and extension.
func WithAccept(a Accept) Option {
	return func(c *config) {
		c.accept = a
	}
}

// WithMultiple allows more than one file per drop.
func WithMultiple(multiple bool) Option {
	return func(c *config) {
		c.multiple = multiple
	}
}

// WithUploadImmediately starts the upload as soon as files are dropped.
func WithUploadImmediately(immediate bool) Option {
	return func(c *config) {
		c.uploadImmediately = immediate
	}
}

// WithMaxSize rejects files larger than n bytes.
func WithMaxSize(n int64) Option {
	return func(c *config) {
		c.maxSize = n
	}
}

// WithMinSize rejects files smaller than n bytes.
func WithMinSize(n int64) Option {
	return func(c *config) {
		c.minSize = n
	}
}

// WithMaxFiles caps the number of files per drop in multiple mode.
func WithMaxFiles(n int) Option {
	return func(c *config) {
		c.maxFiles = n
	}
}

// WithValidator sets the per-file admission check.
func WithValidator(v Validator) Option {
	return func(c *config) {
		c.validator = v
	}
}

// WithTransform sets the pre-upload transform.
func WithTransform(fn TransformFunc) Option {
	return func(c *config) {
		c.transform = fn
	}
}

// WithTransformConcurrency bounds concurrent transforms; 0 means unbounded.
func WithTransformConcurrency(n int) Option {
	return func(c *config) {
		c.transformLimit = n
	}
}

// WithLabel sets the label text.
func WithLabel(label string) Option {
	return func(c *config) {
		if label != "" {
			c.label = label
		}
	}
}

// WithSubtitle sets the text shown below the label.
func WithSubtitle(subtitle string) Option {
	return func(c *config) {
		c.subtitle = subtitle
	}
}

// WithShowFileList lists pending files with their sizes.
func WithShowFileList(show bool) Option {
	return func(c *config) {
		c.showFileList = show
	}
}

// WithHIDPrefix namespaces the widget's hydration IDs.
func WithHIDPrefix(prefix string) Option {
	return func(c *config) {
		c.hidPrefix = prefix
	}
}

// WithContent replaces the icon area. progress in the State is a multiple of
// 10 while uploading and nil otherwise.
func WithContent(fn func(State) *vdom.VNode) Option {
	return func(c *config) {
		c.content = fn
	}
}

// WithClassName replaces the container class entirely.
func WithClassName(fn func(State) string) Option {
	return func(c *config) {
		c.className = fn
	}
}

// WithOnUploadProgress is called each time combined progress reaches a new
// multiple of 10.
func WithOnUploadProgress(fn func(progress int)) Option {
	return func(c *config) {
		c.onUploadProgress = fn
	}
}

// WithOnUploadBegin is called as each file starts uploading.
func WithOnUploadBegin(fn func(File)) Option {
	return func(c *config) {
		c.onUploadBegin = fn
	}
}

// WithOnUploadComplete is called once the whole batch is uploaded, after the
// pending set is cleared and before progress resets.
func WithOnUploadComplete(fn func(ctx context.Context, uploaded []Result) error) Option {
	return func(c *config) {
		c.onUploadComplete = fn
	}
}

// WithOnUploadError receives upload failures verbatim.
func WithOnUploadError(fn func(error)) Option {
	return func(c *config) {
		c.onUploadError = fn
	}
}

// WithOnFilesChange is called whenever the pending set is replaced or cleared.
func WithOnFilesChange(fn func([]File)) Option {
	return func(c *config) {
		c.onFilesChange = fn
	}
}

// WithOnDropRejected receives the files excluded from a drop.
func WithOnDropRejected(fn func([]Rejection)) Option {
	return func(c *config) {
		c.onDropRejected = fn
	}
}

// WithOnTransformError receives transform failures. Failed files are dropped
// whether or not this is set.
func WithOnTransformError(fn func(*TransformError)) Option {
	return func(c *config) {
		c.onTransformError = fn
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer sets the tracer (default: the global provider's).
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithMetrics records widget activity on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *config) {
		c.metrics = m
	}
}
