package collab

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/viewfinder/viewfinder/internal/engine"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrBadPayload     = errors.New("invalid payload")
)

// Session is the overlay shared by everyone in a room. It is only touched
// from the hub goroutine.
type Session struct {
	id     string
	engine *engine.Engine
	seq    int64
}

func NewSession(id string, eng *engine.Engine) *Session {
	return &Session{id: id, engine: eng}
}

// Apply feeds one input message to the engine and reports whether the
// overlay changed.
func (s *Session) Apply(msg *Message) (bool, error) {
	switch msg.Type {
	case TypeInputPointer:
		var p PointerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return false, err
		}
		switch p.Phase {
		case PhaseDown:
			return s.engine.PointerDown(p.X, p.Y), nil
		case PhaseMove:
			return s.engine.PointerMove(p.X, p.Y), nil
		case PhaseUp:
			return s.engine.PointerUp(), nil
		default:
			return false, fmt.Errorf("%w: pointer phase %q", ErrBadPayload, p.Phase)
		}

	case TypeInputMode:
		var p ModePayload
		if err := decode(msg.Payload, &p); err != nil {
			return false, err
		}
		if err := s.engine.SetMode(p.Mode); err != nil {
			return false, err
		}
		return s.engine.Dirty(), nil

	case TypeInputRatio:
		var p RatioPayload
		if err := decode(msg.Payload, &p); err != nil {
			return false, err
		}
		if err := s.engine.SelectRatio(p.Ratio); err != nil {
			return false, err
		}
		return s.engine.Dirty(), nil

	case TypeInputDelete:
		return s.engine.DeleteSelected(), nil

	case TypeInputResize:
		var p ResizePayload
		if err := decode(msg.Payload, &p); err != nil {
			return false, err
		}
		if p.Width < 0 || p.Height < 0 {
			return false, fmt.Errorf("%w: negative size", ErrBadPayload)
		}
		return s.engine.Resize(p.Width, p.Height), nil

	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownMessage, msg.Type)
	}
}

// RenderMessage builds the next render broadcast and bumps the sequence.
func (s *Session) RenderMessage() *Message {
	s.seq++
	return s.currentRender()
}

// currentRender repeats the latest paint for a joining client.
func (s *Session) currentRender() *Message {
	cmds := s.engine.Paint()
	payload, _ := json.Marshal(RenderPayload{
		Seq:      s.seq,
		Commands: cmds,
		Snapshot: s.engine.Snapshot(),
	})
	return &Message{
		Type:      TypeRender,
		SessionID: s.id,
		Seq:       s.seq,
		Payload:   payload,
	}
}

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty", ErrBadPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}
