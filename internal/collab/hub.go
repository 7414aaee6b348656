package collab

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/viewfinder/viewfinder/internal/engine"
)

type Room struct {
	sessionID string
	clients   map[string]*Client // clientID -> client
	presence  *Presence
	session   *Session
}

func NewRoom(sessionID string, eng *engine.Engine) *Room {
	return &Room{
		sessionID: sessionID,
		clients:   make(map[string]*Client),
		presence:  NewPresence(),
		session:   NewSession(sessionID, eng),
	}
}

type inbound struct {
	client *Client
	msg    *Message
}

// Hub owns every live room. Joins, leaves and inputs are funneled through
// channels into Run, so each room's engine is only ever touched by the Run
// goroutine.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // sessionID -> room
	newEngine  func() (*engine.Engine, error)
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(newEngine func() (*engine.Engine, error)) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		newEngine:  newEngine,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound, 256),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case in := <-h.inbound:
			h.handleMessage(in.client, in.msg)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Pending joins and inputs are dropped.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Submit queues a message from client for the hub goroutine.
func (h *Hub) Submit(client *Client, msg *Message) {
	select {
	case h.inbound <- inbound{client: client, msg: msg}:
	case <-h.done:
	}
}

// RoomCount returns the number of live rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		eng, err := h.newEngine()
		if err != nil {
			h.mu.Unlock()
			slog.Error("create session engine", "error", err, "session", client.SessionID)
			client.Send(errorMessage(client.SessionID, err))
			close(client.send)
			return
		}
		room = NewRoom(client.SessionID, eng)
		h.rooms[client.SessionID] = room
	}
	room.clients[client.ClientID] = client
	room.presence.Join(client)
	h.mu.Unlock()

	welcome, _ := json.Marshal(WelcomePayload{
		ClientID:  client.ClientID,
		SessionID: client.SessionID,
		Ratios:    room.session.engine.Ratios(),
	})
	client.Send(&Message{Type: TypeWelcome, SessionID: client.SessionID, ClientID: client.ClientID, Payload: welcome})

	// Send current presence state and paint to new client
	stateMsg := room.presence.StateMessage(client.SessionID)
	if stateMsg != nil {
		client.Send(stateMsg)
	}
	client.Send(room.session.currentRender())

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(ViewerPayload{
		ClientID:        client.ClientID,
		PresencePayload: PresencePayload{UserID: client.UserID, DisplayName: client.DisplayName},
	})
	joinMsg := &Message{
		Type:      TypePresenceJoin,
		SessionID: client.SessionID,
		ClientID:  client.ClientID,
		UserID:    client.UserID,
		Payload:   joinPayload,
	}
	h.broadcastToRoom(client.SessionID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := room.clients[client.ClientID]; !member {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Leave(client)

	if len(room.clients) == 0 {
		delete(h.rooms, client.SessionID)
	}
	h.mu.Unlock()

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(ViewerPayload{
		ClientID:        client.ClientID,
		PresencePayload: PresencePayload{UserID: client.UserID},
	})
	leaveMsg := &Message{
		Type:      TypePresenceLeave,
		SessionID: client.SessionID,
		ClientID:  client.ClientID,
		UserID:    client.UserID,
		Payload:   leavePayload,
	}
	h.broadcastToRoom(client.SessionID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "session", client.SessionID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	// Inputs queued before a leave arrive after the send channel is closed.
	if !h.isMember(sender) {
		return
	}
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeInputPointer, TypeInputMode, TypeInputRatio, TypeInputDelete, TypeInputResize:
		h.handleInput(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(errorMessage(sender.SessionID, ErrUnknownMessage))
	}
}

func (h *Hub) isMember(c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[c.SessionID]
	if !ok {
		return false
	}
	_, ok = room.clients[c.ClientID]
	return ok
}

func (h *Hub) handleInput(sender *Client, msg *Message) {
	h.mu.RLock()
	room, ok := h.rooms[sender.SessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	changed, err := room.session.Apply(msg)
	if err != nil {
		slog.Debug("input rejected", "type", msg.Type, "error", err, "user", sender.UserID)
		sender.Send(errorMessage(sender.SessionID, err))
		return
	}
	if !changed {
		return
	}

	h.broadcastToRoom(sender.SessionID, room.session.RenderMessage(), "")
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var update PresenceUpdatePayload
	if err := json.Unmarshal(msg.Payload, &update); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		sender.Send(errorMessage(sender.SessionID, ErrBadPayload))
		return
	}

	h.mu.RLock()
	room, ok := h.rooms[sender.SessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	viewer, ok := room.presence.Move(sender, update.Cursor)
	if !ok {
		return
	}

	// Broadcast to other clients in room
	outPayload, _ := json.Marshal(ViewerPayload{ClientID: sender.ClientID, PresencePayload: *viewer})
	outMsg := &Message{
		Type:      TypePresenceUpdate,
		SessionID: sender.SessionID,
		ClientID:  sender.ClientID,
		UserID:    sender.UserID,
		Payload:   outPayload,
	}
	h.broadcastToRoom(sender.SessionID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(sessionID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[sessionID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
