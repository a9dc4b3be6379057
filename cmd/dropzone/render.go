package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dropzone/internal/config"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/render"
)

func renderCmd(configPath *string) *cobra.Command {
	var (
		paths    []string
		fake     int
		progress int
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the widget's HTML",
		Long: `Print the widget's HTML for a given configuration and state.

Pending files come from --file paths or --files fake entries. With
--progress the widget is rendered mid-upload at that percentage.

Examples:
  dropzone render --label="Drop a resume" --accept=application/pdf=.pdf
  dropzone render --files=3
  dropzone render --file=report.pdf --progress=40 --pretty`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			if progress > 100 {
				return fmt.Errorf("--progress must be at most 100")
			}

			files := make([]dropzone.File, 0, len(paths)+fake)
			for _, p := range paths {
				f, err := dropzone.FileFromPath(p)
				if err != nil {
					return err
				}
				files = append(files, f)
			}
			for i := 1; i <= fake; i++ {
				name := fmt.Sprintf("file-%d.txt", i)
				files = append(files, dropzone.NewFile(name, "text/plain", []byte(strings.Repeat("x", 1024*i))))
			}

			return renderWidget(cmd.Context(), cmd.OutOrStdout(), cfg, files, progress, pretty)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&paths, "file", nil, "Add a pending file from disk (repeatable)")
	f.IntVar(&fake, "files", 0, "Add this many generated pending files")
	f.IntVar(&progress, "progress", -1, "Render mid-upload at this percentage")
	f.BoolVar(&pretty, "pretty", false, "Indent the output")
	widgetFlags(cmd)

	return cmd
}

// snapshotUploader renders the widget from inside an upload, so the output
// shows the uploading state at a chosen progress.
type snapshotUploader struct {
	progress int
	snapshot func() error
}

func (u *snapshotUploader) Upload(_ context.Context, _ []dropzone.File, hooks dropzone.Hooks) ([]dropzone.Result, error) {
	hooks.Report(u.progress)
	return nil, u.snapshot()
}

func renderWidget(ctx context.Context, w io.Writer, cfg config.Config, files []dropzone.File, progress int, pretty bool) error {
	accept, err := config.ParseAccept(cfg.Widget.Accept)
	if err != nil {
		return err
	}

	r := render.NewRenderer(render.RendererConfig{Pretty: pretty, HIDPrefix: "dz"})
	var dz *dropzone.Dropzone
	write := func() error {
		return r.RenderToWriter(w, dz.Render())
	}

	opts := []dropzone.Option{
		dropzone.WithMultiple(cfg.Widget.Multiple),
		dropzone.WithMaxSize(cfg.Upload.MaxFileSize),
		dropzone.WithShowFileList(cfg.Widget.ShowFileList),
		dropzone.WithAccept(accept),
		dropzone.WithLogger(cfg.Log.NewLogger()),
	}
	if cfg.Widget.Label != "" {
		opts = append(opts, dropzone.WithLabel(cfg.Widget.Label))
	}
	if cfg.Widget.Subtitle != "" {
		opts = append(opts, dropzone.WithSubtitle(cfg.Widget.Subtitle))
	}
	if progress >= 0 {
		opts = append(opts, dropzone.WithUploader(&snapshotUploader{progress: progress, snapshot: write}))
	}
	dz = dropzone.New(opts...)

	if len(files) > 0 {
		if err := dz.Drop(ctx, files); err != nil {
			return err
		}
	}
	if progress >= 0 && dz.Phase() == dropzone.PhaseSelected {
		return dz.Upload(ctx)
	}
	return write()
}
