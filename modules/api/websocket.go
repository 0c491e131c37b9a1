package api

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/example/inventory-dashboard/domain/inventory"
	"github.com/example/inventory-dashboard/modules/broadcast"
)

// ClientMessage is the inbound WebSocket protocol: subscribe to or
// unsubscribe from a named collection.
type ClientMessage struct {
	Action     string `json:"action"` // "subscribe", "unsubscribe"
	Collection string `json:"collection"`
}

// HandleWebSocket manages one dashboard client connection. The client
// subscribes to collections and receives full snapshots plus transient
// notices until it disconnects.
func (h *Handlers) HandleWebSocket(b *broadcast.BroadcastModule) func(*websocket.Conn) {
	logger := slog.Default()

	return func(c *websocket.Conn) {
		userID, _ := c.Locals(UserContextKey).(string)
		clientID := uuid.New().String()

		hub := b.GetHub()
		client := &broadcast.Client{ID: clientID, UserID: userID, Conn: c}
		hub.Register(client)

		defer func() {
			hub.Unregister(client)
			b.Notices().Drop(clientID)
			c.Close()
		}()

		logger.Info("WebSocket connected", "clientID", clientID, "userID", userID)

		for {
			_, msgBytes, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Error("WebSocket error", "clientID", clientID, "error", err)
				}
				break
			}

			var msg ClientMessage
			if err := json.Unmarshal(msgBytes, &msg); err != nil {
				h.sendWSError(client, "Invalid message format")
				continue
			}

			h.handleClientMessage(b, client, msg)
		}

		logger.Info("WebSocket disconnected", "clientID", clientID)
	}
}

// handleClientMessage processes one inbound protocol message.
func (h *Handlers) handleClientMessage(b *broadcast.BroadcastModule, client *broadcast.Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		if !validCollection(msg.Collection) {
			h.sendWSError(client, "Unknown collection: "+msg.Collection)
			return
		}
		b.GetHub().Subscribe(client.ID, msg.Collection)
		// New subscribers start from the current state.
		if err := b.SendInitialSnapshot(context.Background(), client.ID, msg.Collection); err != nil {
			slog.Default().Error("Initial snapshot failed", "clientID", client.ID, "collection", msg.Collection, "error", err)
			h.sendWSError(client, "Snapshot unavailable for "+msg.Collection)
		}
	case "unsubscribe":
		if !validCollection(msg.Collection) {
			h.sendWSError(client, "Unknown collection: "+msg.Collection)
			return
		}
		b.GetHub().Unsubscribe(client.ID, msg.Collection)
	default:
		h.sendWSError(client, "Unknown action: "+msg.Action)
	}
}

// sendWSError delivers a protocol error to one client. Goes through the
// client's serialized write path, never straight to the connection.
func (h *Handlers) sendWSError(client *broadcast.Client, message string) {
	data, err := json.Marshal(broadcast.ErrorMessage{
		Type:    broadcast.MessageTypeError,
		Message: message,
	})
	if err != nil {
		return
	}
	if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Default().Error("Failed to send WebSocket error", "error", err)
	}
}

func validCollection(collection string) bool {
	return collection == inventory.CollectionProducts || collection == inventory.CollectionPeople
}
