package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Client represents a connected dashboard client.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// WriteMessage delivers one frame to the client's connection. The underlying
// connection permits a single concurrent writer, so snapshot fan-out, direct
// sends and protocol errors all serialize here.
func (c *Client) WriteMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// Hub manages WebSocket connections and snapshot fan-out. Clients subscribe
// to named collections; every change pushes the full collection to all of
// its subscribers.
type Hub struct {
	clients     map[string]*Client         // clientID -> Client
	subscribers map[string]map[string]bool // collection -> set of clientIDs
	register    chan *Client
	unregister  chan *Client
	broadcast   chan *broadcastMessage
	done        chan struct{}
	mu          sync.RWMutex
}

type broadcastMessage struct {
	Collection string
	Payload    any
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		subscribers: make(map[string]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *broadcastMessage, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's main loop. It accepts a context for graceful shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[hub] Shutting down...")
			h.closeAllClients()
			close(h.done)
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// closeAllClients closes all connected client connections.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.subscribers = make(map[string]map[string]bool)
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	log.Printf("[hub] Client %s (user %s) registered", client.ID, client.UserID)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		for collection, ids := range h.subscribers {
			delete(ids, client.ID)
			if len(ids) == 0 {
				delete(h.subscribers, collection)
			}
		}
		log.Printf("[hub] Client %s unregistered", client.ID)
	}
}

func (h *Hub) handleBroadcast(msg *broadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		log.Printf("[hub] Failed to marshal broadcast message: %v", err)
		return
	}

	if msg.Collection == "" {
		for _, client := range h.clients {
			h.writeToClient(client, data)
		}
		return
	}

	if ids, ok := h.subscribers[msg.Collection]; ok {
		for clientID := range ids {
			if client, ok := h.clients[clientID]; ok {
				h.writeToClient(client, data)
			}
		}
	}
}

// writeToClient delivers raw bytes to one client. Send failures are logged
// and otherwise ignored; the client keeps its last snapshot.
func (h *Hub) writeToClient(client *Client, data []byte) {
	if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[hub] Failed to send to client %s: %v", client.ID, err)
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues a payload for all subscribers of a collection. An empty
// collection reaches every connected client.
func (h *Hub) Broadcast(collection string, payload any) {
	h.broadcast <- &broadcastMessage{
		Collection: collection,
		Payload:    payload,
	}
}

// Subscribe registers a client for a collection's snapshots. A repeated
// subscribe releases the existing registration before installing the new
// one, so a listener is never leaked.
func (h *Hub) Subscribe(clientID, collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[clientID]; !ok {
		return
	}

	if h.subscribers[collection] != nil {
		delete(h.subscribers[collection], clientID)
	}
	if h.subscribers[collection] == nil {
		h.subscribers[collection] = make(map[string]bool)
	}
	h.subscribers[collection][clientID] = true
	log.Printf("[hub] Client %s subscribed to %s", clientID, collection)
}

// Unsubscribe removes a client's registration for a collection.
func (h *Hub) Unsubscribe(clientID, collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[collection] == nil {
		return
	}
	delete(h.subscribers[collection], clientID)
	if len(h.subscribers[collection]) == 0 {
		delete(h.subscribers, collection)
	}
	log.Printf("[hub] Client %s unsubscribed from %s", clientID, collection)
}

// SendTo delivers a payload to a single client, bypassing subscriptions.
// Used for initial snapshots and per-client notices.
func (h *Hub) SendTo(clientID string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[hub] Failed to marshal message for client %s: %v", clientID, err)
		return
	}
	h.writeToClient(client, data)
}

// GetClient returns a client by ID.
func (h *Hub) GetClient(clientID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[clientID]
}

// ClientIDs returns the IDs of all connected clients.
func (h *Hub) ClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns the number of clients subscribed to a collection.
func (h *Hub) SubscriberCount(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if ids, ok := h.subscribers[collection]; ok {
		return len(ids)
	}
	return 0
}
