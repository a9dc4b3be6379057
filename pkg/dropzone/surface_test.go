package dropzone

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/dropzone/pkg/render"
	"github.com/vango-dev/dropzone/pkg/vdom"
)

func TestAcceptMatches(t *testing.T) {
	accept := Accept{
		"image/*":         {".png", "jpg"},
		"application/pdf": {".pdf"},
	}
	tests := []struct {
		name string
		file File
		want bool
	}{
		{"wildcard type", NewFile("x.bin", "image/webp", nil), true},
		{"exact type", NewFile("x", "application/pdf", nil), true},
		{"type with params", NewFile("x", "application/pdf; charset=binary", nil), true},
		{"extension without type", NewFile("photo.JPG", "", nil), true},
		{"other type", NewFile("notes.txt", "text/plain", nil), false},
		{"no type no extension", NewFile("README", "", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := accept.Matches(tt.file); got != tt.want {
				t.Errorf("Matches(%s, %q) = %v, want %v", tt.file.Name, tt.file.Type, got, tt.want)
			}
		})
	}

	if !Accept(nil).Matches(NewFile("anything", "", nil)) {
		t.Error("empty Accept should admit every file")
	}
}

func TestAcceptString(t *testing.T) {
	accept := Accept{
		"image/*":         {".png", "jpg"},
		"application/pdf": {".pdf"},
	}
	if got, want := accept.String(), "application/pdf,.pdf,image/*,.png,.jpg"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func rejectionCodes(rs []Rejection) []string {
	var out []string
	for _, r := range rs {
		for _, e := range r.Errors {
			out = append(out, r.File.Name+":"+e.Code)
		}
	}
	return out
}

func TestSurfaceDrop(t *testing.T) {
	tests := []struct {
		name         string
		cfg          SurfaceConfig
		files        []File
		wantAccepted []string
		wantRejected []string
	}{
		{
			name:         "single file",
			files:        []File{txt("a.txt")},
			wantAccepted: []string{"a.txt"},
		},
		{
			name:         "too many in single mode",
			files:        []File{txt("a.txt"), txt("b.txt")},
			wantRejected: []string{"a.txt:too-many-files", "b.txt:too-many-files"},
		},
		{
			name:         "single mode counts only admitted files",
			cfg:          SurfaceConfig{Accept: Accept{"text/plain": nil}},
			files:        []File{txt("a.txt"), NewFile("b.png", "image/png", []byte("x"))},
			wantAccepted: []string{"a.txt"},
			wantRejected: []string{"b.png:file-invalid-type"},
		},
		{
			name:         "max files in multiple mode",
			cfg:          SurfaceConfig{Multiple: true, MaxFiles: 2},
			files:        []File{txt("a.txt"), txt("b.txt"), txt("c.txt")},
			wantRejected: []string{"a.txt:too-many-files", "b.txt:too-many-files", "c.txt:too-many-files"},
		},
		{
			name:         "size bounds",
			cfg:          SurfaceConfig{Multiple: true, MinSize: 2, MaxSize: 5},
			files:        []File{NewFile("tiny", "", []byte("1")), NewFile("ok", "", []byte("123")), NewFile("huge", "", []byte("123456"))},
			wantAccepted: []string{"ok"},
			wantRejected: []string{"tiny:file-too-small", "huge:file-too-large"},
		},
		{
			name: "validator",
			cfg: SurfaceConfig{
				Multiple: true,
				Validator: func(f File) *FileError {
					if strings.HasPrefix(f.Name, ".") {
						return &FileError{Code: "hidden-file", Message: "Hidden files are not allowed"}
					}
					return nil
				},
			},
			files:        []File{txt(".env"), txt("a.txt")},
			wantAccepted: []string{"a.txt"},
			wantRejected: []string{".env:hidden-file"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(tt.cfg)
			accepted, rejected := s.Drop(tt.files)

			if diff := cmp.Diff(tt.wantAccepted, names(accepted), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("accepted mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRejected, rejectionCodes(rejected), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("rejected mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSurfaceRejectionMessages(t *testing.T) {
	s := NewSurface(SurfaceConfig{
		Accept:  Accept{"image/png": {".png"}},
		MaxSize: 1000,
	})
	big := NewFile("big.txt", "text/plain", make([]byte, 2000))
	_, rejected := s.Drop([]File{big})
	if len(rejected) != 1 {
		t.Fatalf("rejected = %d, want 1", len(rejected))
	}

	want := []FileError{
		{Code: CodeInvalidType, Message: "File type must be one of image/png,.png"},
		{Code: CodeTooLarge, Message: "File is larger than 1.0 kB"},
	}
	if diff := cmp.Diff(want, rejected[0].Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if got := (&rejected[0].Errors[1]).Error(); got != "file-too-large: File is larger than 1.0 kB" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSurfaceDragDepth(t *testing.T) {
	s := NewSurface(SurfaceConfig{})
	s.DragEnter()
	s.DragEnter() // child element
	s.DragLeave()
	if !s.IsDragActive() {
		t.Error("drag should stay active until the outer leave")
	}
	s.DragLeave()
	if s.IsDragActive() {
		t.Error("drag should end after balanced leaves")
	}
	s.DragLeave()
	if s.IsDragActive() {
		t.Error("extra leave should not reactivate")
	}

	s.DragEnter()
	s.Drop(nil)
	if s.IsDragActive() {
		t.Error("drop should clear drag state")
	}
}

func TestSurfaceProps(t *testing.T) {
	s := NewSurface(SurfaceConfig{Accept: Accept{"image/*": nil}, Multiple: true})

	var dropped []File
	changes := 0
	root := vdom.Div(s.RootProps(
		func(_ context.Context, files []File) { dropped = files },
		func() { changes++ },
	))

	enter, ok := root.Props["ondragenter"].(func())
	if !ok {
		t.Fatalf("ondragenter handler missing: %T", root.Props["ondragenter"])
	}
	enter()
	if !s.IsDragActive() || changes != 1 {
		t.Errorf("dragenter: active=%v changes=%d", s.IsDragActive(), changes)
	}
	root.Props["ondragleave"].(func())()
	if s.IsDragActive() || changes != 2 {
		t.Errorf("dragleave: active=%v changes=%d", s.IsDragActive(), changes)
	}
	root.Props["ondrop"].(func(context.Context, []File))(context.Background(), []File{txt("a.txt")})
	if len(dropped) != 1 {
		t.Errorf("drop handler got %d files", len(dropped))
	}

	html, err := render.RenderToString(vdom.Input(s.InputProps()))
	if err != nil {
		t.Fatal(err)
	}
	want := `<input accept="image/*" class="sr-only" id="file-upload" multiple name="file-upload" tabindex="-1" type="file">`
	if html != want {
		t.Errorf("input =\n%s\nwant\n%s", html, want)
	}
}
