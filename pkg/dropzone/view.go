package dropzone

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/vango-dev/dropzone/pkg/render"
	"github.com/vango-dev/dropzone/pkg/tw"
	"github.com/vango-dev/dropzone/pkg/ui"
	"github.com/vango-dev/dropzone/pkg/vdom"
)

const cloudIconPath = "M5.5 17a4.5 4.5 0 0 1-1.44-8.765a4.5 4.5 0 0 1 8.302-3.046a3.5 3.5 0 0 1 4.504 4.272A4 4 0 0 1 15 17H5.5Zm3.75-2.75a.75.75 0 0 0 1.5 0V9.66l1.95 2.1a.75.75 0 1 0 1.1-1.02l-3.25-3.5a.75.75 0 0 0-1.1 0l-3.25 3.5a.75.75 0 1 0 1.1 1.02l1.95-2.1v4.59Z"

// ContainerClass is the default container class for a state.
func ContainerClass(st State) string {
	return tw.Merge(
		"flex flex-col items-center justify-center rounded-lg",
		"border-2 border-dashed border-input bg-background px-6 py-10",
		"transition-colors duration-200 ease-in-out",
		tw.If(st.IsDragActive, "border-primary bg-primary/5"),
		tw.If(st.FileCount == 0, "py-[4.25rem]"),
	)
}

// ButtonClass is the upload button class for a state. While uploading the
// button fills from the left as progress grows.
func ButtonClass(st State) string {
	var phase string
	if st.Progress != nil {
		phase = "before:absolute before:-z-20 before:w-full before:h-full before:bg-muted " +
			"after:absolute after:-z-10 after:left-0 after:h-full after:bg-primary " +
			ProgressWidthClass(*st.Progress)
	} else {
		phase = "bg-primary hover:bg-primary/90"
	}
	return tw.Merge(
		"relative mt-4 flex h-10 w-36 items-center justify-center",
		"rounded-md text-primary-foreground transition-all duration-200",
		"overflow-hidden after:transition-[width] after:duration-500",
		phase,
	)
}

// ButtonLabel is the idle upload button text.
func ButtonLabel(n int) string {
	if n == 1 {
		return "Upload 1 file"
	}
	return fmt.Sprintf("Upload %d files", n)
}

// Render builds the widget's tree for the current state.
func (d *Dropzone) Render() *vdom.VNode {
	st := d.State()
	files := d.Files()

	className := ContainerClass(st)
	if d.cfg.className != nil {
		className = d.cfg.className(st)
	}

	var content *vdom.VNode
	if d.cfg.content != nil {
		content = d.cfg.content(st)
	} else {
		content = cloudIcon()
	}

	return vdom.Div(
		vdom.Class(className),
		d.surface.RootProps(d.handleDrop, d.notify),
		content,
		vdom.Label(
			vdom.For(InputID),
			vdom.Class("mt-4 text-sm font-medium text-primary hover:text-primary/80 cursor-pointer"),
			vdom.Text(d.cfg.label),
			vdom.Input(d.surface.InputProps()),
		),
		vdom.If(d.cfg.subtitle != "", vdom.P(vdom.Class("mt-1 text-sm text-muted-foreground"), vdom.Text(d.cfg.subtitle))),
		vdom.If(d.cfg.showFileList && len(files) > 0, fileList(files)),
		vdom.If(len(files) > 0, d.uploadButton(st)),
	)
}

// RenderHTML writes the widget as HTML and returns its event handlers keyed
// "<hid>_on<event>".
func (d *Dropzone) RenderHTML(w io.Writer) (map[string]any, error) {
	r := render.NewRenderer(render.RendererConfig{HIDPrefix: d.cfg.hidPrefix})
	if err := r.RenderToWriter(w, d.Render()); err != nil {
		return nil, err
	}
	return r.GetHandlers(), nil
}

func (d *Dropzone) uploadButton(st State) *vdom.VNode {
	uploading := st.Progress != nil
	var label *vdom.VNode
	if uploading {
		label = ui.Spinner()
	} else {
		label = vdom.Text(ButtonLabel(st.FileCount))
	}
	return vdom.Button(
		vdom.Type("button"),
		vdom.Class(ButtonClass(st)),
		vdom.AttrIf(uploading, vdom.Disabled()),
		vdom.AttrIf(uploading, vdom.AriaBusy(true)),
		vdom.OnClick(d.handleUploadClick),
		vdom.Span(vdom.Class("relative z-10"), label),
	)
}

func (d *Dropzone) handleDrop(ctx context.Context, files []File) {
	if err := d.Drop(ctx, files); err != nil && !errors.Is(err, ErrUploadInProgress) {
		d.logger.Debug("drop finished with error", "error", err)
	}
}

func (d *Dropzone) handleUploadClick(ctx context.Context) {
	if err := d.Upload(ctx); errors.Is(err, ErrNoUploader) {
		d.logger.Warn("upload clicked without an uploader")
	}
}

func cloudIcon() *vdom.VNode {
	return vdom.Div(
		vdom.Class("text-muted-foreground"),
		vdom.Svg(
			vdom.Xmlns("http://www.w3.org/2000/svg"),
			vdom.ViewBox("0 0 20 20"),
			vdom.Class("mx-auto h-12 w-12"),
			vdom.Fill("currentColor"),
			vdom.AriaHidden(true),
			vdom.Path(
				vdom.FillRule("evenodd"),
				vdom.D(cloudIconPath),
				vdom.ClipRule("evenodd"),
			),
		),
	)
}

func fileList(files []File) *vdom.VNode {
	return vdom.Ul(
		vdom.Class("mt-3 w-full max-w-xs space-y-1 text-xs text-muted-foreground"),
		vdom.Range(files, func(f File, _ int) *vdom.VNode {
			return vdom.Li(
				vdom.Key(f.ID),
				vdom.Class("flex justify-between gap-2"),
				vdom.Span(vdom.Class("truncate"), vdom.Text(f.Name)),
				vdom.Span(vdom.Text(humanize.Bytes(uint64(f.Size)))),
			)
		}),
	)
}
