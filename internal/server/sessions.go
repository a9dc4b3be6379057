package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/metrics"
)

// session is one browser's widget.
type session struct {
	id string
	dz *dropzone.Dropzone

	mu       sync.Mutex
	handlers map[string]any
	lastSeen time.Time
	unsub    func()
}

// render re-renders the widget and replaces the handler table.
func (s *session) render() (string, error) {
	var buf bytes.Buffer
	handlers, err := s.dz.RenderHTML(&buf)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.handlers = handlers
	s.mu.Unlock()
	return buf.String(), nil
}

func (s *session) handler(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handlers[key]
	return h, ok
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// sessions maps cookie IDs to widgets.
type sessions struct {
	cookie  string
	idle    time.Duration
	factory func(id string) *session
	logger  *slog.Logger
	metrics *metrics.Collector
	now     func() time.Time

	mu   sync.Mutex
	byID map[string]*session

	// onEvict runs after a session is removed.
	onEvict func(id string)
}

func (m *sessions) get(id string) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// ensure returns the caller's session, creating one and setting the cookie
// when the request has none or an unknown one.
func (m *sessions) ensure(w http.ResponseWriter, r *http.Request) *session {
	if c, err := r.Cookie(m.cookie); err == nil {
		if s, ok := m.get(c.Value); ok {
			return s
		}
	}

	s := m.factory(uuid.NewString())
	s.lastSeen = m.now()

	m.mu.Lock()
	m.byID[s.id] = s
	n := len(m.byID)
	m.mu.Unlock()

	m.metrics.SetSessions(n)
	m.logger.Debug("session created", "session", s.id)

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return s
}

// lookup returns the session named by the request cookie.
func (m *sessions) lookup(r *http.Request) (*session, bool) {
	c, err := r.Cookie(m.cookie)
	if err != nil {
		return nil, false
	}
	return m.get(c.Value)
}

// sweep drops sessions idle for longer than m.idle and reports how many
// were removed. Sessions mid-upload are kept.
func (m *sessions) sweep() int {
	now := m.now()

	m.mu.Lock()
	var evicted []*session
	for id, s := range m.byID {
		if s.idleSince(now) > m.idle && s.dz.Phase() != dropzone.PhaseUploading {
			delete(m.byID, id)
			evicted = append(evicted, s)
		}
	}
	n := len(m.byID)
	m.mu.Unlock()

	for _, s := range evicted {
		if s.unsub != nil {
			s.unsub()
		}
		if m.onEvict != nil {
			m.onEvict(s.id)
		}
		m.logger.Debug("session expired", "session", s.id)
	}
	if len(evicted) > 0 {
		m.metrics.SetSessions(n)
	}
	return len(evicted)
}

func (m *sessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
