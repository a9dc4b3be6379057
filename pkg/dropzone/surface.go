package dropzone

import (
	"context"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/vango-dev/dropzone/pkg/vdom"
)

// InputID is the id of the hidden file input; the widget label targets it.
const InputID = "file-upload"

// DropSurface detects drags over the drop target and admits dropped files.
type DropSurface interface {
	// Drop filters files and clears the drag-active flag.
	Drop(files []File) (accepted []File, rejected []Rejection)

	DragEnter()
	DragLeave()
	IsDragActive() bool

	// RootProps returns attributes and handlers for the container element.
	// onDrop receives the raw dropped files; onChange runs after drag state
	// changes.
	RootProps(onDrop func(context.Context, []File), onChange func()) []any

	// InputProps returns attributes for the file input element.
	InputProps() []any
}

// Validator inspects a file before admission. A non-nil result excludes it.
type Validator func(File) *FileError

// SurfaceConfig configures a Surface.
type SurfaceConfig struct {
	Accept    Accept
	Multiple  bool
	Validator Validator

	// MinSize and MaxSize bound file sizes in bytes; zero disables a bound.
	MinSize int64
	MaxSize int64

	// MaxFiles caps the number of files per drop when Multiple is set.
	MaxFiles int
}

// Surface is the default DropSurface.
type Surface struct {
	cfg SurfaceConfig

	mu         sync.Mutex
	dragActive bool
	dragDepth  int
}

// NewSurface creates a Surface.
func NewSurface(cfg SurfaceConfig) *Surface {
	return &Surface{cfg: cfg}
}

// Drop implements DropSurface.
//
// Files failing type, size or validator checks are rejected individually.
// When Multiple is off and more than one file passes, or MaxFiles is
// exceeded, every passing file is rejected with too-many-files.
func (s *Surface) Drop(files []File) ([]File, []Rejection) {
	s.mu.Lock()
	s.dragActive = false
	s.dragDepth = 0
	s.mu.Unlock()

	var accepted []File
	var rejected []Rejection
	for _, f := range files {
		if errs := s.check(f); len(errs) > 0 {
			rejected = append(rejected, Rejection{File: f, Errors: errs})
			continue
		}
		accepted = append(accepted, f)
	}

	tooMany := (!s.cfg.Multiple && len(accepted) > 1) ||
		(s.cfg.Multiple && s.cfg.MaxFiles > 0 && len(accepted) > s.cfg.MaxFiles)
	if tooMany {
		for _, f := range accepted {
			rejected = append(rejected, Rejection{
				File:   f,
				Errors: []FileError{{Code: CodeTooManyFiles, Message: "Too many files"}},
			})
		}
		accepted = nil
	}
	return accepted, rejected
}

func (s *Surface) check(f File) []FileError {
	var errs []FileError
	if !s.cfg.Accept.Matches(f) {
		errs = append(errs, FileError{
			Code:    CodeInvalidType,
			Message: fmt.Sprintf("File type must be one of %s", s.cfg.Accept.String()),
		})
	}
	if s.cfg.MaxSize > 0 && f.Size > s.cfg.MaxSize {
		errs = append(errs, FileError{
			Code:    CodeTooLarge,
			Message: fmt.Sprintf("File is larger than %s", humanize.Bytes(uint64(s.cfg.MaxSize))),
		})
	}
	if s.cfg.MinSize > 0 && f.Size < s.cfg.MinSize {
		errs = append(errs, FileError{
			Code:    CodeTooSmall,
			Message: fmt.Sprintf("File is smaller than %s", humanize.Bytes(uint64(s.cfg.MinSize))),
		})
	}
	if s.cfg.Validator != nil {
		if fe := s.cfg.Validator(f); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

// DragEnter marks the surface as hovered. Nested enter/leave pairs from
// child elements are balanced.
func (s *Surface) DragEnter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragDepth++
	s.dragActive = true
}

// DragLeave undoes one DragEnter.
func (s *Surface) DragLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragDepth > 0 {
		s.dragDepth--
	}
	if s.dragDepth == 0 {
		s.dragActive = false
	}
}

// IsDragActive implements DropSurface.
func (s *Surface) IsDragActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragActive
}

// RootProps implements DropSurface.
func (s *Surface) RootProps(onDrop func(context.Context, []File), onChange func()) []any {
	notify := func() {
		if onChange != nil {
			onChange()
		}
	}
	return []any{
		vdom.Role("presentation"),
		vdom.TabIndex(0),
		vdom.Data("drag-active", fmt.Sprint(s.IsDragActive())),
		vdom.OnDragEnter(func() {
			s.DragEnter()
			notify()
		}),
		vdom.OnDragLeave(func() {
			s.DragLeave()
			notify()
		}),
		vdom.OnDrop(onDrop),
	}
}

// InputProps implements DropSurface.
func (s *Surface) InputProps() []any {
	return []any{
		vdom.ID(InputID),
		vdom.Name(InputID),
		vdom.Type("file"),
		vdom.Class("sr-only"),
		vdom.TabIndex(-1),
		vdom.AttrIf(len(s.cfg.Accept) > 0, vdom.Accept(s.cfg.Accept.String())),
		vdom.AttrIf(s.cfg.Multiple, vdom.Multiple()),
	}
}
