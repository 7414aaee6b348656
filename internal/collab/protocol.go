package collab

import (
	"encoding/json"

	"github.com/viewfinder/viewfinder/internal/document"
	"github.com/viewfinder/viewfinder/internal/overlay"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	UserID      string     `json:"userId"`
	DisplayName string     `json:"displayName,omitempty"`
	Cursor      *CursorPos `json:"cursor,omitempty"`
}

// CursorPos is a viewer's pointer in viewport coordinates.
type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ViewerPayload struct {
	ClientID string `json:"clientId"`
	PresencePayload
}

type PresenceStatePayload struct {
	Viewers []ViewerPayload `json:"viewers"`
}

type PresenceUpdatePayload struct {
	Cursor *CursorPos `json:"cursor"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Overlay input
	TypeInputPointer = "input.pointer"
	TypeInputMode    = "input.mode"
	TypeInputRatio   = "input.ratio"
	TypeInputDelete  = "input.delete"
	TypeInputResize  = "input.resize"

	// Paint
	TypeRender = "render"
)

// Pointer phases
const (
	PhaseDown = "down"
	PhaseMove = "move"
	PhaseUp   = "up"
)

// PointerPayload is the payload for input.pointer messages
type PointerPayload struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// ModePayload is the payload for input.mode messages
type ModePayload struct {
	Mode string `json:"mode"`
}

// RatioPayload is the payload for input.ratio messages
type RatioPayload struct {
	Ratio string `json:"ratio"`
}

// ResizePayload is the payload for input.resize messages
type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WelcomePayload is sent to a client right after it joins
type WelcomePayload struct {
	ClientID  string          `json:"clientId"`
	SessionID string          `json:"sessionId"`
	Ratios    []overlay.Ratio `json:"ratios"`
}

// RenderPayload carries the next paint of the session
type RenderPayload struct {
	Seq      int64                 `json:"seq"`
	Commands []overlay.DrawCommand `json:"commands"`
	Snapshot document.Snapshot     `json:"snapshot"`
}

// ErrorPayload is the payload for error messages
type ErrorPayload struct {
	Message string `json:"message"`
}

func errorMessage(sessionID string, err error) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: err.Error()})
	return &Message{Type: TypeError, SessionID: sessionID, Payload: payload}
}
