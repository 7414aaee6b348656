package collab

import (
	"encoding/json"
	"log/slog"
	"sort"
)

// Presence tracks the viewers of one session, keyed by client id so the same
// user on two devices shows up twice. It is only touched from Hub.Run.
type Presence struct {
	viewers map[string]*PresencePayload
}

func NewPresence() *Presence {
	return &Presence{viewers: make(map[string]*PresencePayload)}
}

// Join records a viewer with no cursor yet.
func (p *Presence) Join(c *Client) {
	p.viewers[c.ClientID] = &PresencePayload{UserID: c.UserID, DisplayName: c.DisplayName}
}

// Move updates a viewer's cursor. Cursors for unknown clients are dropped.
func (p *Presence) Move(c *Client, cursor *CursorPos) (*PresencePayload, bool) {
	v, ok := p.viewers[c.ClientID]
	if !ok {
		return nil, false
	}
	v.Cursor = cursor
	return v, true
}

func (p *Presence) Leave(c *Client) {
	delete(p.viewers, c.ClientID)
}

func (p *Presence) Len() int {
	return len(p.viewers)
}

// StateMessage lists every viewer, ordered by client id.
func (p *Presence) StateMessage(sessionID string) *Message {
	ids := make([]string, 0, len(p.viewers))
	for id := range p.viewers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	viewers := make([]ViewerPayload, 0, len(ids))
	for _, id := range ids {
		viewers = append(viewers, ViewerPayload{ClientID: id, PresencePayload: *p.viewers[id]})
	}
	payload, err := json.Marshal(PresenceStatePayload{Viewers: viewers})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:      TypePresenceState,
		SessionID: sessionID,
		Payload:   payload,
	}
}
