package websocket

import (
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/model"
	"github.com/kunjkhandelwal31-afk/pyqprep-backend/internal/service"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionNavigate  Action = "navigate"
	ActionAnswer    Action = "answer"
	ActionNumerical Action = "numerical"
	ActionMark      Action = "mark"
	ActionClear     Action = "clear"
	ActionTabSwitch Action = "tab_switch"
	ActionSubmit    Action = "submit"
	ActionPing      Action = "ping"
)

// RequestPayload is the single client message shape. Which fields are
// meaningful depends on the action: navigate uses index, answer uses
// option, numerical uses value (empty value clears the entry); mark,
// clear, tab_switch, submit and ping carry the action alone.
type RequestPayload struct {
	Action Action `json:"action"`
	Index  int    `json:"index,omitempty"`
	Option string `json:"option,omitempty"`
	Value  string `json:"value,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState    Event = "state"
	EventTick     Event = "tick"
	EventFinished Event = "finished"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// StateResponse carries the full session snapshot after an action.
type StateResponse struct {
	Event Event                 `json:"event"`
	State *service.SessionState `json:"state"`
}

// TickResponse is pushed once per second while the session runs.
type TickResponse struct {
	Event            Event `json:"event"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// FinishedResponse is pushed once when the session reaches its
// terminal state, whether by submit or expiry.
type FinishedResponse struct {
	Event  Event               `json:"event"`
	Report *model.ResultReport `json:"report"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
