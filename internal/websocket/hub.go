package websocket

import (
	"time"

	"codeberg.org/olkkari/server/internal/logger"
)

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[string]*Client),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		Broadcast:       make(chan *Message, 256),
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
		userConnections: make(map[string]int),
	}
}

// starts the hub's main loop
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer close(h.done)

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Broadcast:
			h.broadcast(message)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// queues an event for every connected host. never blocks the caller;
// when the queue is full the event is dropped.
func (h *Hub) Publish(msgType string, payload any) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		logger.ErrorErr(err, "failed to build feed message", "message_type", msgType)
		return
	}

	select {
	case h.Broadcast <- msg:
	default:
		logger.Warn("feed queue full, dropping event", "message_type", msgType)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.userConnections[client.UserID]++

	logger.Info("host connected to feed",
		"client_id", client.ID,
		"user_id", client.UserID,
	)

	state, err := NewMessage(TypeFeedState, FeedStatePayload{ConnectedHosts: len(h.clients)})
	if err != nil {
		return
	}

	if err := client.Send(state); err != nil {
		logger.ErrorErr(err, "failed to send feed state", "client_id", client.ID)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID]; !exists {
		return
	}

	delete(h.clients, client.ID)
	client.Close()

	h.userConnections[client.UserID]--
	if h.userConnections[client.UserID] <= 0 {
		delete(h.userConnections, client.UserID)
	}

	logger.Info("host disconnected from feed",
		"client_id", client.ID,
		"user_id", client.UserID,
	)
}

func (h *Hub) broadcast(msg *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sequence++
	msg.Sequence = h.sequence

	for id, client := range h.clients {
		if err := client.Send(msg); err != nil {
			logger.WarnErr(err, "failed to push feed event",
				"client_id", id,
				"message_type", msg.Type,
			)
		}
	}
}

// number of connected hosts
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// checks the per-user connection limit
func (h *Hub) CanAcceptConnection(userID string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.userConnections[userID] >= maxConnectionsPerUser {
		return ErrTooManyConnections
	}

	return nil
}

// notifies every host and closes their connections. safe to call more
// than once.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()

	h.stopOnce.Do(func() { close(h.shutdown) })

	if running {
		<-h.done
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying hosts of server shutdown", "clients", len(h.clients))

	msg, err := NewMessage(TypeServerShutdown, ServerShutdownPayload{
		Reason: "server is shutting down",
	})
	if err == nil {
		for _, client := range h.clients {
			client.Send(msg) //nolint:errcheck,gosec // G104: best effort notification
		}
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown message
	time.Sleep(200 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.Close()
	}

	h.clients = make(map[string]*Client)
	h.userConnections = make(map[string]int)
}
