package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dropzone/pkg/dropzone"
)

// Event is a browser event addressed to a rendered element.
type Event struct {
	HID   string `json:"hid"`
	Event string `json:"event"`
}

var (
	errUnknownHandler = errors.New("no handler for event")
	errBadHandler     = errors.New("handler does not accept this event")
)

// dispatch runs the handler registered for ev on the session's last render.
// files is only used for drop events.
func (s *Server) dispatch(ctx context.Context, sess *session, ev Event, files []dropzone.File) error {
	ctx, span := s.tracer.Start(ctx, "dropzone.event",
		trace.WithAttributes(
			attribute.String("dropzone.event", ev.Event),
			attribute.String("dropzone.hid", ev.HID),
			attribute.String("dropzone.session", sess.id),
			attribute.Int("dropzone.files", len(files)),
		),
	)
	defer span.End()

	err := s.invoke(ctx, sess, ev, files)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Debug("event rejected", "session", sess.id, "hid", ev.HID, "event", ev.Event, "error", err)
	}
	return err
}

func (s *Server) invoke(ctx context.Context, sess *session, ev Event, files []dropzone.File) error {
	h, ok := sess.handler(ev.HID + "_on" + ev.Event)
	if !ok {
		return fmt.Errorf("%w: %s on %s", errUnknownHandler, ev.Event, ev.HID)
	}

	switch fn := h.(type) {
	case func(context.Context, []dropzone.File):
		fn(ctx, files)
	case func(context.Context):
		fn(ctx)
	case func():
		fn()
	default:
		return fmt.Errorf("%w: %T", errBadHandler, h)
	}
	return nil
}

// liveEvents are the events accepted as socket frames. Frames are handled
// on the connection's read loop, so anything that can block on an upload
// (drops, the upload click) has to come in over HTTP.
var liveEvents = map[string]bool{
	"dragenter": true,
	"dragleave": true,
}

// onLiveMessage handles events sent over the live socket.
func (s *Server) onLiveMessage(room string, data []byte) {
	sess, ok := s.sessions.get(room)
	if !ok {
		return
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		s.logger.Debug("malformed live message", "session", room, "error", err)
		return
	}
	if !liveEvents[ev.Event] {
		s.logger.Debug("live event refused", "session", room, "event", ev.Event)
		return
	}
	s.dispatch(s.baseCtx, sess, ev, nil)
}
