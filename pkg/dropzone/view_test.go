package dropzone

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/dropzone/pkg/render"
	"github.com/vango-dev/dropzone/pkg/vdom"
)

func renderHTML(t *testing.T, dz *Dropzone) string {
	t.Helper()
	html, err := render.RenderToString(dz.Render())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

func findTag(root *vdom.VNode, tag string) *vdom.VNode {
	return root.Find(func(n *vdom.VNode) bool { return n.Kind == vdom.KindElement && n.Tag == tag })
}

func TestContainerClass(t *testing.T) {
	tests := []struct {
		name string
		st   State
		want string
	}{
		{
			name: "idle",
			st:   State{},
			want: "flex flex-col items-center justify-center rounded-lg border-2 border-dashed border-input bg-background px-6 transition-colors duration-200 ease-in-out py-[4.25rem]",
		},
		{
			name: "selected",
			st:   State{FileCount: 1},
			want: "flex flex-col items-center justify-center rounded-lg border-2 border-dashed border-input bg-background px-6 py-10 transition-colors duration-200 ease-in-out",
		},
		{
			name: "dragging",
			st:   State{IsDragActive: true, FileCount: 2},
			want: "flex flex-col items-center justify-center rounded-lg border-2 border-dashed px-6 py-10 transition-colors duration-200 ease-in-out border-primary bg-primary/5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainerClass(tt.st); got != tt.want {
				t.Errorf("ContainerClass =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestButtonClass(t *testing.T) {
	idle := ButtonClass(State{FileCount: 1})
	if !strings.Contains(idle, "bg-primary hover:bg-primary/90") {
		t.Errorf("idle button class = %q", idle)
	}

	p := 30
	busy := ButtonClass(State{FileCount: 1, Progress: &p})
	for _, want := range []string{"before:bg-muted", "after:bg-primary", "after:w-[30%]", "after:duration-500"} {
		if !strings.Contains(busy, want) {
			t.Errorf("uploading button class %q missing %q", busy, want)
		}
	}
	if strings.Contains(busy, "hover:bg-primary/90") {
		t.Errorf("uploading button should not keep hover fill: %q", busy)
	}
}

func TestButtonLabel(t *testing.T) {
	if got := ButtonLabel(1); got != "Upload 1 file" {
		t.Errorf("ButtonLabel(1) = %q", got)
	}
	if got := ButtonLabel(3); got != "Upload 3 files" {
		t.Errorf("ButtonLabel(3) = %q", got)
	}
}

func TestRenderIdle(t *testing.T) {
	dz := New(WithLogger(quiet), WithSubtitle("PNG up to 5MB"))
	html := renderHTML(t, dz)

	for _, want := range []string{
		`<label class="mt-4 text-sm font-medium text-primary hover:text-primary/80 cursor-pointer" for="file-upload">Choose files or drag and drop`,
		`<p class="mt-1 text-sm text-muted-foreground">PNG up to 5MB</p>`,
		`viewBox="0 0 20 20"`,
		`data-on-drop="true"`,
		`py-[4.25rem]`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("idle render missing %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "<button") {
		t.Errorf("idle render should not include the upload button")
	}
}

func TestRenderSelected(t *testing.T) {
	dz := New(WithLogger(quiet), WithMultiple(true), WithLabel("Drop images"), WithShowFileList(true))
	if err := dz.Drop(context.Background(), []File{txt("a.txt"), NewFile("b.bin", "", make([]byte, 2048))}); err != nil {
		t.Fatal(err)
	}

	root := dz.Render()
	btn := findTag(root, "button")
	if btn == nil {
		t.Fatal("upload button missing")
	}
	if got := btn.TextContent(); got != "Upload 2 files" {
		t.Errorf("button text = %q", got)
	}
	if btn.Attr("disabled") != nil {
		t.Errorf("button disabled while selected")
	}

	html := renderHTML(t, dz)
	for _, want := range []string{"Drop images", "b.bin", "2.0 kB"} {
		if !strings.Contains(html, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderUploading(t *testing.T) {
	var during *vdom.VNode
	var dz *Dropzone
	up := &fakeUploader{
		progress: []int{42},
		during:   func() { during = dz.Render() },
	}
	dz = New(WithUploader(up), WithLogger(quiet))
	if err := dz.Drop(context.Background(), []File{txt("a.txt")}); err != nil {
		t.Fatal(err)
	}
	if err := dz.Upload(context.Background()); err != nil {
		t.Fatal(err)
	}

	btn := findTag(during, "button")
	if btn == nil {
		t.Fatal("upload button missing during upload")
	}
	if btn.Attr("disabled") != true {
		t.Errorf("button not disabled during upload")
	}
	if class, _ := btn.Attr("class").(string); !strings.Contains(class, "after:w-[40%]") {
		t.Errorf("button class = %q, want 40%% fill", class)
	}
	if findTag(btn, "svg") == nil {
		t.Errorf("spinner missing from uploading button")
	}

	if findTag(dz.Render(), "button") != nil {
		t.Errorf("button still rendered after completion")
	}
}

func TestRenderOverrides(t *testing.T) {
	dz := New(
		WithLogger(quiet),
		WithClassName(func(st State) string {
			if st.IsDragActive {
				return "zone zone-active"
			}
			return "zone"
		}),
		WithContent(func(st State) *vdom.VNode {
			return vdom.Span(vdom.Class("custom"), vdom.Text(fmt.Sprintf("files: %d", st.FileCount)))
		}),
	)

	root := dz.Render()
	if got := root.Attr("class"); got != "zone" {
		t.Errorf("class = %v, want zone", got)
	}
	if findTag(root, "svg") != nil {
		t.Errorf("default icon rendered despite content override")
	}
	if !strings.Contains(root.TextContent(), "files: 0") {
		t.Errorf("custom content missing: %q", root.TextContent())
	}

	dz.DragEnter()
	if got := dz.Render().Attr("class"); got != "zone zone-active" {
		t.Errorf("class while dragging = %v", got)
	}
}

func TestRenderHTMLHandlers(t *testing.T) {
	up := &fakeUploader{}
	dz := New(WithUploader(up), WithLogger(quiet), WithHIDPrefix("dz"))

	var buf bytes.Buffer
	handlers, err := dz.RenderHTML(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `data-hid="dz1"`) {
		t.Errorf("missing prefixed hid:\n%s", buf.String())
	}

	drop, ok := handlers["dz1_ondrop"].(func(context.Context, []File))
	if !ok {
		t.Fatalf("drop handler = %T", handlers["dz1_ondrop"])
	}
	drop(context.Background(), []File{txt("a.txt")})
	if dz.Phase() != PhaseSelected {
		t.Fatalf("phase after drop handler = %v", dz.Phase())
	}

	buf.Reset()
	handlers, err = dz.RenderHTML(&buf)
	if err != nil {
		t.Fatal(err)
	}
	click, ok := handlers["dz2_onclick"].(func(context.Context))
	if !ok {
		t.Fatalf("click handler = %T", handlers["dz2_onclick"])
	}
	click(context.Background())
	if up.callCount() != 1 {
		t.Errorf("calls = %d, want 1", up.callCount())
	}
	if dz.Phase() != PhaseIdle {
		t.Errorf("phase after upload = %v", dz.Phase())
	}
}
