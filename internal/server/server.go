// Package server is the demo HTTP server for the dropzone widget.
//
// Each browser gets its own widget, keyed by a session cookie. The page
// renders the widget server-side; browser events come back as small POSTs
// (drops carry the files as multipart) and every state change is pushed to
// the page over the live socket as freshly rendered HTML.
//
//	GET  /         page with the widget
//	POST /drop     multipart "file" parts plus the target "hid"
//	POST /event    {"hid": "...", "event": "click"}
//	POST /upload   upload backend (multipart "file" parts)
//	GET  /live     WebSocket updates
//	GET  /metrics  Prometheus
//	GET  /healthz  liveness
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/dropzone/internal/config"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/live"
	"github.com/vango-dev/dropzone/pkg/metrics"
	"github.com/vango-dev/dropzone/pkg/upload"
)

const tracerName = "github.com/vango-dev/dropzone/internal/server"

// Options are the server's collaborators. Only Store is required.
type Options struct {
	Store upload.Store

	Logger *slog.Logger

	// Registry receives the server's collectors and backs /metrics.
	// Default: a fresh registry.
	Registry *prometheus.Registry

	Tracer trace.Tracer

	// Widget adds options to every session's widget after the configured
	// ones.
	Widget []dropzone.Option
}

// Server serves the widget demo.
type Server struct {
	cfg      config.Config
	store    upload.Store
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	tracer   trace.Tracer
	hub      *live.Hub
	sessions *sessions
	accept   dropzone.Accept
	widget   []dropzone.Option
	router   chi.Router

	// baseCtx outlives requests; live socket events run under it.
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New creates a Server for cfg.
func New(cfg config.Config, opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	accept, err := config.ParseAccept(cfg.Widget.Accept)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:      cfg,
		store:    opts.Store,
		logger:   opts.Logger.With("component", "server"),
		registry: opts.Registry,
		metrics:  metrics.New(metrics.WithRegistry(opts.Registry)),
		tracer:   opts.Tracer,
		accept:   accept,
		widget:   opts.Widget,
		baseCtx:  baseCtx,
		cancel:   cancel,
	}
	s.hub = live.NewHub(live.Config{
		OnMessage: s.onLiveMessage,
		Logger:    opts.Logger,
		Metrics:   s.metrics,
	})
	s.sessions = &sessions{
		cookie:  cfg.Session.CookieName,
		idle:    cfg.Session.IdleTimeout,
		factory: s.newSession,
		logger:  s.logger,
		metrics: s.metrics,
		now:     time.Now,
		byID:    make(map[string]*session),
		onEvict: s.hub.CloseRoom,
	}
	s.router = s.routes()
	return s, nil
}

// NewStore builds the upload store selected by cfg.
func NewStore(ctx context.Context, cfg config.Config) (upload.Store, error) {
	switch cfg.Upload.Backend {
	case config.BackendS3:
		return upload.NewS3StoreFromConfig(ctx, upload.S3Config{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			MaxSize:         cfg.Upload.MaxFileSize,
			URLExpiry:       cfg.S3.URLExpiry,
		})
	case config.BackendDisk:
		return upload.NewDiskStore(cfg.Upload.Dir, cfg.Upload.MaxFileSize)
	default:
		return nil, fmt.Errorf("server: unknown upload backend %q", cfg.Upload.Backend)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Post("/drop", s.handleDrop)
	r.Post("/event", s.handleEvent)
	r.Get("/live", s.handleLive)
	r.Method(http.MethodPost, "/upload", upload.HandlerWithConfig(s.store, &upload.Config{
		MaxFileSize:  s.cfg.Upload.MaxFileSize,
		MaxFiles:     s.cfg.Upload.MaxFiles,
		AllowedTypes: s.cfg.Upload.AllowedTypes,
		TempExpiry:   s.cfg.Upload.TempExpiry,
		Logger:       s.logger,
		Metrics:      s.metrics,
	}))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	return r
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Addr until ctx is cancelled, sweeping idle sessions and
// expired uploads in the background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Addr, "backend", s.cfg.Upload.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		upload.NewJanitor(s.store, s.cfg.Upload.CleanupInterval, s.cfg.Upload.TempExpiry, s.logger).Run(ctx)
		return nil
	})
	g.Go(func() error {
		s.sweepSessions(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.hub.Close()
		err := srv.Shutdown(shutdownCtx)
		s.cancel()
		return err
	})
	return g.Wait()
}

// Close disconnects live clients and cancels in-flight socket events.
func (s *Server) Close() {
	s.hub.Close()
	s.cancel()
}

func (s *Server) sweepSessions(ctx context.Context) {
	interval := s.cfg.Session.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.sweep(); n > 0 {
				s.logger.Info("expired idle sessions", "count", n)
			}
		}
	}
}

// newSession builds a widget for a new browser session and wires its state
// changes to the live hub.
func (s *Server) newSession(id string) *session {
	sess := &session{id: id}
	logger := s.logger.With("session", id)

	w := s.cfg.Widget
	opts := []dropzone.Option{
		dropzone.WithUploader(upload.NewStoreUploader(s.store)),
		dropzone.WithMultiple(w.Multiple),
		dropzone.WithUploadImmediately(w.UploadImmediately),
		dropzone.WithShowFileList(w.ShowFileList),
		dropzone.WithMaxSize(s.cfg.Upload.MaxFileSize),
		dropzone.WithMaxFiles(w.MaxFiles),
		dropzone.WithHIDPrefix("dz"),
		dropzone.WithLogger(logger),
		dropzone.WithMetrics(s.metrics),
		dropzone.WithOnUploadComplete(func(_ context.Context, res []dropzone.Result) error {
			for _, r := range res {
				logger.Info("file stored", "name", r.Name, "key", r.Key, "size", humanize.Bytes(uint64(r.Size)))
			}
			return nil
		}),
		dropzone.WithOnUploadError(func(err error) {
			logger.Warn("upload failed", "error", err)
		}),
	}
	if len(s.accept) > 0 {
		opts = append(opts, dropzone.WithAccept(s.accept))
	}
	if w.Label != "" {
		opts = append(opts, dropzone.WithLabel(w.Label))
	}
	if w.Subtitle != "" {
		opts = append(opts, dropzone.WithSubtitle(w.Subtitle))
	}
	opts = append(opts, s.widget...)

	sess.dz = dropzone.New(opts...)
	sess.unsub = sess.dz.Subscribe(func(st dropzone.State) {
		s.publish(sess, st)
	})
	if _, err := sess.render(); err != nil {
		logger.Error("initial render failed", "error", err)
	}
	return sess
}

// publish pushes the session's current rendering to its live clients.
func (s *Server) publish(sess *session, st dropzone.State) {
	html, err := sess.render()
	if err != nil {
		s.logger.Error("render failed", "session", sess.id, "error", err)
		return
	}
	msg := live.Message{
		Type:       "render",
		HTML:       html,
		Progress:   st.Progress,
		DragActive: st.IsDragActive,
		Files:      st.FileCount,
	}
	if err := s.hub.Publish(sess.id, msg); err != nil {
		s.logger.Error("publish failed", "session", sess.id, "error", err)
	}
}
