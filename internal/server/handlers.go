package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/render"
	"github.com/vango-dev/dropzone/pkg/vdom"
)

// rootID is the element the client script swaps rendered widgets into.
const rootID = "dropzone-root"

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.ensure(w, r)

	html, err := sess.render()
	if err != nil {
		s.logger.Error("render failed", "session", sess.id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := render.PageData{
		Title: "Upload files",
		Body: vdom.Main(
			vdom.Class("mx-auto max-w-xl p-8"),
			vdom.Div(vdom.ID(rootID), vdom.Raw(html)),
		),
		InlineScript: clientScript,
	}
	if err := render.NewRenderer(render.RendererConfig{}).RenderPage(w, page); err != nil {
		s.logger.Error("page write failed", "session", sess.id, "error", err)
	}
}

// handleDrop reads the dropped files into memory and hands them to the
// widget's drop handler. The response is the widget after the drop.
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.lookup(r)
	if !ok {
		http.Error(w, "No session", http.StatusUnauthorized)
		return
	}

	limit := s.cfg.Upload.MaxFileSize*int64(s.cfg.Upload.MaxFiles) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Expected multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := readDropped(r.MultipartForm.File["file"])
	if err != nil {
		s.logger.Warn("reading dropped files", "session", sess.id, "error", err)
		http.Error(w, "Unreadable file", http.StatusBadRequest)
		return
	}

	ev := Event{HID: r.FormValue("hid"), Event: "drop"}
	if err := s.dispatch(r.Context(), sess, ev, files); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeWidget(w, sess)
}

// readDropped copies each part into memory. Pending files outlive the
// request, so they cannot keep pointing at multipart temp files.
func readDropped(headers []*multipart.FileHeader) ([]dropzone.File, error) {
	files := make([]dropzone.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, dropzone.NewFile(fh.Filename, fh.Header.Get("Content-Type"), data))
	}
	return files, nil
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.lookup(r)
	if !ok {
		http.Error(w, "No session", http.StatusUnauthorized)
		return
	}

	var ev Event
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&ev); err != nil {
		http.Error(w, "Malformed event", http.StatusBadRequest)
		return
	}
	if ev.Event == "drop" {
		http.Error(w, "Drops must be posted to /drop", http.StatusBadRequest)
		return
	}
	if err := s.dispatch(r.Context(), sess, ev, nil); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeWidget(w, sess)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.lookup(r)
	if !ok {
		http.Error(w, "No session", http.StatusUnauthorized)
		return
	}
	if err := s.hub.ServeWS(w, r, sess.id); err != nil {
		s.logger.Debug("live connection refused", "session", sess.id, "error", err)
	}
}

func (s *Server) writeWidget(w http.ResponseWriter, sess *session) {
	html, err := sess.render()
	if err != nil {
		s.logger.Error("render failed", "session", sess.id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

// clientScript forwards widget events to the server and swaps in the
// rendered HTML it pushes back.
const clientScript = `(function () {
  var root = document.getElementById("` + rootID + `");
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws;

  function swap(html) { root.innerHTML = html; }

  function connect() {
    ws = new WebSocket(proto + "//" + location.host + "/live");
    ws.onmessage = function (e) { swap(JSON.parse(e.data).html); };
    ws.onclose = function () { setTimeout(connect, 1000); };
  }

  function send(hid, event) {
    if (ws && ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify({hid: hid, event: event}));
      return;
    }
    fetch("/event", {method: "POST", body: JSON.stringify({hid: hid, event: event})})
      .then(function (r) { return r.text(); }).then(swap);
  }

  function target(el, event) {
    return el && el.closest ? el.closest("[data-on-" + event + "]") : null;
  }

  function drop(hid, files) {
    var form = new FormData();
    form.append("hid", hid);
    for (var i = 0; i < files.length; i++) form.append("file", files[i]);
    fetch("/drop", {method: "POST", body: form})
      .then(function (r) { return r.text(); }).then(swap);
  }

  ["dragenter", "dragleave"].forEach(function (event) {
    root.addEventListener(event, function (e) {
      var el = target(e.target, event);
      if (el && e.target === el) send(el.dataset.hid, event);
    });
  });
  root.addEventListener("dragover", function (e) { e.preventDefault(); });
  root.addEventListener("drop", function (e) {
    e.preventDefault();
    var el = target(e.target, "drop");
    if (el) drop(el.dataset.hid, e.dataTransfer.files);
  });
  root.addEventListener("change", function (e) {
    var el = target(e.target, "drop");
    if (el && e.target.files) drop(el.dataset.hid, e.target.files);
  });
  root.addEventListener("click", function (e) {
    var el = target(e.target, "click");
    if (el && !el.disabled) {
      e.preventDefault();
      fetch("/event", {method: "POST", body: JSON.stringify({hid: el.dataset.hid, event: "click"})})
        .then(function (r) { return r.text(); }).then(swap);
    }
  });

  connect();
})();`
