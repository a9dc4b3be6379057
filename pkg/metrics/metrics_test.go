package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.Drop()
	c.Rejected("too-many-files")
	c.TransformFailed()
	c.UploadFinished(nil, time.Second, 10)
	c.BackendRequest(200)
	c.LiveConnected(1)
	c.SetSessions(3)
}

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("test"))

	c.Drop()
	c.Drop()
	c.Rejected("file-invalid-type")
	c.TransformFailed()
	c.UploadFinished(nil, 2*time.Second, 1024)
	c.UploadFinished(errors.New("boom"), time.Second, 4096)
	c.BackendRequest(201)
	c.BackendRequest(413)
	c.LiveConnected(2)
	c.LiveConnected(-1)
	c.SetSessions(5)

	if got := testutil.ToFloat64(c.drops); got != 2 {
		t.Errorf("drops = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.rejected.WithLabelValues("file-invalid-type")); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.uploads.WithLabelValues("ok")); got != 1 {
		t.Errorf("uploads ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.uploads.WithLabelValues("error")); got != 1 {
		t.Errorf("uploads error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.uploadBytes); got != 1024 {
		t.Errorf("bytes = %v, want 1024 (failed batches excluded)", got)
	}
	if got := testutil.ToFloat64(c.stored.WithLabelValues("4xx")); got != 1 {
		t.Errorf("backend 4xx = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.liveConnections); got != 1 {
		t.Errorf("live = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.sessions); got != 5 {
		t.Errorf("sessions = %v, want 5", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 204: "2xx", 302: "3xx", 404: "4xx", 503: "5xx"}
	for code, want := range tests {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", code, got, want)
		}
	}
}
