package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"

	"codeeditor/internal/modkit/httpkit"
	"codeeditor/internal/platform/logger"
	phttp "codeeditor/internal/platform/net/http"
	"codeeditor/internal/services/api/editor/domain"
)

// writeTimeout bounds a single websocket frame write
const writeTimeout = 10 * time.Second

// RegisterEvents mounts the websocket stream under /{sessionID}/events
// the route must not sit behind timeout or compression middleware
func RegisterEvents(r httpkit.Router, s domain.ServicePort, originPatterns []string) {
	h := &events{svc: s, origins: originPatterns}
	r.Handle("/{sessionID}/events", stdhttp.HandlerFunc(h.serve))
}

type events struct {
	svc     domain.ServicePort
	origins []string
}

// swagger:route GET /ws/v1/editor/sessions/{sessionID}/events Editor editorEvents
// @Summary Session event stream over websocket
// @Description text frames carrying domain, build_errors and closed events
// @Tags Editor
// @Param sessionID path string true "Session id"
// @Success 101 {object} domain.Event "switching protocols"
// @Router /ws/v1/editor/sessions/{sessionID}/events [get]
func (h *events) serve(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := httpkit.Param(r, "sessionID")
	log := logger.C(logger.WithSession(r.Context(), id))

	// subscribe before the upgrade so unknown sessions get a plain error envelope
	stream, cancel, err := h.svc.Subscribe(r.Context(), id)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	defer cancel()

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer func() { _ = ws.CloseNow() }()

	// client frames are ignored, reading detects disconnects and answers pings
	ctx := ws.CloseRead(r.Context())

	if v, err := h.svc.Get(ctx, id); err == nil {
		if err := write(ctx, ws, domain.Event{Type: domain.EventDomain, Session: &v}); err != nil {
			return
		}
	}

	log.Debug().Msg("event stream connected")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("event stream disconnected")
			return
		case ev, ok := <-stream:
			if !ok {
				_ = ws.Close(websocket.StatusNormalClosure, "session closed")
				return
			}
			if err := write(ctx, ws, ev); err != nil {
				log.Debug().Err(err).Msg("event write failed")
				return
			}
			if ev.Type == domain.EventClosed {
				_ = ws.Close(websocket.StatusNormalClosure, "session closed")
				return
			}
		}
	}
}

func write(ctx context.Context, ws *websocket.Conn, ev domain.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, b)
}
