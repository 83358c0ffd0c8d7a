package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/middleware"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/service"
	ws "github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a live test session: ticks and the finish event
// flow server to client, actions flow client to server, all on one
// connection.
type WSHandler struct {
	hub      *service.SessionHub
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *service.SessionHub, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:      hub,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// wsConn serializes writes; the event forwarder and the action loop
// both write to the same connection.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ws.WriteTyped(w.conn, v)
}

// SessionStream godoc
// WS /ws/v1/candidate/sessions/:session_id/stream?token=...
// Upgrades to WebSocket for live countdown ticks and session actions.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	events, cancel, err := h.hub.Subscribe(sessionID, claims.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("candidate_id", claims.UserID).
		Str("session_id", sessionID.String()).
		Logger()
	wsLog.Info().Msg("Candidate connected")

	wc := &wsConn{conn: conn}

	// Initial snapshot so the client renders without a round trip.
	if state, err := h.hub.State(sessionID, claims.UserID); err == nil {
		wc.write(ws.StateResponse{Event: ws.EventState, State: state})
	}

	// Forward hub events until the subscription is cancelled.
	go func() {
		for ev := range events {
			switch ev.Type {
			case "tick":
				wc.write(ws.TickResponse{Event: ws.EventTick, RemainingSeconds: ev.RemainingSeconds})
			case "finished":
				wc.write(ws.FinishedResponse{Event: ws.EventFinished, Report: ev.Report})
			}
		}
	}()

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		if msg.Action == ws.ActionPing {
			wc.write(ws.PongResponse{Event: ws.EventPong})
			continue
		}

		action, ok := toSessionAction(msg)
		if !ok {
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			wc.write(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)})
			continue
		}

		state, err := h.hub.Apply(c.Request.Context(), sessionID, claims.UserID, action)
		if err != nil {
			wc.write(ws.ErrorResponse{Event: ws.EventError, Error: "session no longer available"})
			return
		}
		wc.write(ws.StateResponse{Event: ws.EventState, State: state})
	}
}

func toSessionAction(msg ws.RequestPayload) (service.SessionAction, bool) {
	switch msg.Action {
	case ws.ActionNavigate:
		return service.SessionAction{Type: service.ActionNavigate, Index: msg.Index}, true
	case ws.ActionAnswer:
		return service.SessionAction{Type: service.ActionSelect, Value: msg.Option}, true
	case ws.ActionNumerical:
		return service.SessionAction{Type: service.ActionNumerical, Value: msg.Value}, true
	case ws.ActionMark:
		return service.SessionAction{Type: service.ActionMark}, true
	case ws.ActionClear:
		return service.SessionAction{Type: service.ActionClear}, true
	case ws.ActionTabSwitch:
		return service.SessionAction{Type: service.ActionTabSwitch}, true
	case ws.ActionSubmit:
		return service.SessionAction{Type: service.ActionSubmit}, true
	}
	return service.SessionAction{}, false
}
