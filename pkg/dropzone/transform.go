package dropzone

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TransformFunc maps a dropped file to its replacements before it enters the
// pending set. Returning no files drops the input; returning several fans it
// out (e.g. derived variants). An error also drops the input.
type TransformFunc func(ctx context.Context, f File) ([]File, error)

// runTransforms applies fn to every file concurrently and flattens the
// results in input order. Failed files are skipped and reported through
// onErr after all transforms have finished, in input order.
func runTransforms(ctx context.Context, files []File, fn TransformFunc, limit int, onErr func(*TransformError)) []File {
	outputs := make([][]File, len(files))
	failures := make([]*TransformError, len(files))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			out, err := safeTransform(ctx, fn, f)
			if err != nil {
				failures[i] = &TransformError{File: f, Err: err}
				return nil
			}
			outputs[i] = out
			return nil
		})
	}
	_ = g.Wait()

	for _, te := range failures {
		if te != nil && onErr != nil {
			onErr(te)
		}
	}

	var flat []File
	for _, out := range outputs {
		flat = append(flat, out...)
	}
	return flat
}

func safeTransform(ctx context.Context, fn TransformFunc, f File) (out []File, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, f)
}
