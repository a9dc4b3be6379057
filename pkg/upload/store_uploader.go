package upload

import (
	"context"
	"fmt"

	"github.com/vango-dev/dropzone/pkg/dropzone"
)

// StoreUploader writes a batch straight into a Store. Use it when files are
// already on the server, e.g. received through a drop event.
type StoreUploader struct {
	store Store
}

// NewStoreUploader creates a StoreUploader.
func NewStoreUploader(store Store) *StoreUploader {
	return &StoreUploader{store: store}
}

// Upload implements dropzone.Uploader. Files are stored in order; the first
// failure aborts the batch.
func (u *StoreUploader) Upload(ctx context.Context, files []dropzone.File, hooks dropzone.Hooks) ([]dropzone.Result, error) {
	pr := newProgress(files, hooks)
	results := make([]dropzone.Result, 0, len(files))

	for _, f := range files {
		body, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("upload: open %q: %w", f.Name, err)
		}
		hooks.Start(f)
		tempID, err := u.store.Save(ctx, f.Name, f.Type, f.Size, &countingReader{r: body, add: pr.add})
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("upload: store %q: %w", f.Name, err)
		}
		results = append(results, dropzone.Result{
			Name:        f.Name,
			Size:        f.Size,
			ContentType: f.Type,
			Key:         tempID,
		})
	}
	pr.done()
	return results, nil
}
