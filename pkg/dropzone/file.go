package dropzone

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// File is a handle to a selected file. The body is read lazily through Open,
// so transforms can derive new files without buffering the originals.
type File struct {
	// ID identifies the handle; derived files get their own ID.
	ID string

	// Name is the base file name as provided by the client.
	Name string

	// Type is the MIME type, possibly empty when unknown.
	Type string

	// Size is the body length in bytes.
	Size int64

	// LastModified is the client-reported modification time.
	LastModified time.Time

	open func() (io.ReadCloser, error)
}

// NewFile creates an in-memory file.
func NewFile(name, contentType string, data []byte) File {
	return File{
		ID:           uuid.NewString(),
		Name:         name,
		Type:         contentType,
		Size:         int64(len(data)),
		LastModified: time.Now(),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// NewFileFunc creates a file whose body is produced by open on every call.
func NewFileFunc(name, contentType string, size int64, open func() (io.ReadCloser, error)) File {
	return File{
		ID:           uuid.NewString(),
		Name:         name,
		Type:         contentType,
		Size:         size,
		LastModified: time.Now(),
		open:         open,
	}
}

// FileFromPath creates a file backed by a path on disk. The content type is
// guessed from the extension.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("dropzone: %s is a directory", path)
	}
	return File{
		ID:           uuid.NewString(),
		Name:         filepath.Base(path),
		Type:         mime.TypeByExtension(filepath.Ext(path)),
		Size:         info.Size(),
		LastModified: info.ModTime(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Open returns a reader for the file body. Callers must close it.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("dropzone: file %q has no body", f.Name)
	}
	return f.open()
}

// Ext returns the lower-cased extension including the dot, or "".
func (f File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

func totalSize(files []File) int64 {
	var n int64
	for _, f := range files {
		n += f.Size
	}
	return n
}
