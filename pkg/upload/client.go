package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/dropzone/pkg/dropzone"
)

// StatusError is returned by Client when the upload endpoint answers with a
// non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload: server returned %d", e.Code)
	}
	return fmt.Sprintf("upload: server returned %d: %s", e.Code, e.Body)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client (default: 5 minute timeout).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithHeader adds a header to every upload request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// Client uploads a batch as one multipart request to an endpoint served by
// Handler. Handler stores a batch whole or not at all, so a failed Upload
// leaves nothing behind for the widget's retry to duplicate. It implements
// dropzone.Uploader.
type Client struct {
	target dropzone.Target
	http   *http.Client
	header http.Header
}

// NewClient creates a Client posting to target.
func NewClient(target dropzone.Target, opts ...ClientOption) *Client {
	c := &Client{
		target: target,
		http:   &http.Client{Timeout: 5 * time.Minute},
		header: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var errRequestDone = errors.New("upload: request finished")

// Upload implements dropzone.Uploader. The body is streamed; progress is
// the share of file bytes handed to the transport.
func (c *Client) Upload(ctx context.Context, files []dropzone.File, hooks dropzone.Hooks) ([]dropzone.Result, error) {
	url, err := c.target.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("upload: resolve target: %w", err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	var g errgroup.Group
	g.Go(func() error {
		err := writeParts(mw, files, hooks)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
		return err
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		pr.CloseWithError(errRequestDone)
		g.Wait()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	pr.CloseWithError(errRequestDone)
	werr := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if werr != nil && !errors.Is(werr, errRequestDone) {
		return nil, fmt.Errorf("upload: write body: %w", werr)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("upload: decode response: %w", err)
	}
	results := make([]dropzone.Result, len(out.Files))
	for i, f := range out.Files {
		results[i] = dropzone.Result{
			Name:        f.Filename,
			Size:        f.Size,
			ContentType: f.ContentType,
			Key:         f.TempID,
		}
	}
	return results, nil
}

func writeParts(mw *multipart.Writer, files []dropzone.File, hooks dropzone.Hooks) error {
	pr := newProgress(files, hooks)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", multipartDisposition(FieldName, f.Name))
		if f.Type != "" {
			h.Set("Content-Type", f.Type)
		} else {
			h.Set("Content-Type", "application/octet-stream")
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}

		body, err := f.Open()
		if err != nil {
			return err
		}
		hooks.Start(f)
		_, err = io.Copy(part, &countingReader{r: body, add: pr.add})
		body.Close()
		if err != nil {
			return err
		}
	}
	pr.done()
	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func multipartDisposition(field, filename string) string {
	return fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename))
}

// progress converts transferred bytes into whole-batch percentages and
// reports every 10% boundary crossed, in order, even when one read crosses
// several.
type progress struct {
	mu       sync.Mutex
	total    int64
	sent     int64
	reported int
	report   func(int)
}

func newProgress(files []dropzone.File, hooks dropzone.Hooks) *progress {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return &progress{total: total, report: hooks.Report}
}

func (p *progress) add(n int) {
	p.mu.Lock()
	p.sent += int64(n)
	pct := 100
	if p.total > 0 {
		pct = int(min(p.sent*100/p.total, 100))
	}
	steps := p.advance(pct / 10 * 10)
	p.mu.Unlock()
	p.emit(steps)
}

func (p *progress) done() {
	p.mu.Lock()
	steps := p.advance(100)
	p.mu.Unlock()
	p.emit(steps)
}

// advance moves reported up to step and returns the boundaries passed.
// Callers hold mu.
func (p *progress) advance(step int) []int {
	var steps []int
	for s := p.reported + 10; s <= step; s += 10 {
		steps = append(steps, s)
	}
	if len(steps) > 0 {
		p.reported = step
	}
	return steps
}

func (p *progress) emit(steps []int) {
	for _, s := range steps {
		p.report(s)
	}
}

type countingReader struct {
	r   io.Reader
	add func(int)
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	if n > 0 {
		c.add(n)
	}
	return n, err
}
