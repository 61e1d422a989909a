package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"ai-docgen-be/internal/constant"
	"ai-docgen-be/internal/pkg/logger"
	"ai-docgen-be/internal/workflow"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "document_events"

// Hub tracks the clients connected for each document and fans generated
// sections out to them. It implements the workflow's DeliverySink and
// PeerRegistry: delivery is best-effort, and an empty client list for a
// document is what the engine reads as "nobody is listening".
type Hub struct {
	// Registered clients map: DocumentID -> list of clients (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance delivery
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

var _ workflow.DeliverySink = (*Hub)(nil)
var _ workflow.PeerRegistry = (*Hub)(nil)

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.DocumentID] = append(h.clients[client.DocumentID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"document_id": client.DocumentID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.DocumentID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.DocumentID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.DocumentID]) == 0 {
					delete(h.clients, client.DocumentID)
					h.logger.Info("Hub", "Last client disconnected", map[string]interface{}{"document_id": client.DocumentID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// HasClient reports whether any client is still connected for the document.
func (h *Hub) HasClient(documentID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[documentID]) > 0
}

// DeliverSection pushes one generated section to every client of a document.
func (h *Hub) DeliverSection(documentID, sectionID, sectionName, contentHTML string, isEditable bool) error {
	return h.sendToDocument(documentID, map[string]interface{}{
		"type":         constant.WSTypeSectionContent,
		"section_id":   sectionID,
		"section_name": sectionName,
		"content":      contentHTML,
		"is_editable":  isEditable,
	})
}

func (h *Hub) DeliverStreamEnd(documentID string) error {
	return h.sendToDocument(documentID, map[string]interface{}{
		"type": constant.WSTypeStreamEnd,
	})
}

func (h *Hub) DeliverDocumentComplete(documentID string) error {
	return h.sendToDocument(documentID, map[string]interface{}{
		"type": constant.WSTypeDocumentComplete,
	})
}

func (h *Hub) sendToDocument(documentID string, message map[string]interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal ws message: %w", err)
	}

	// 1. Local clients
	h.mu.RLock()
	clients, localFound := h.clients[documentID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"document_id": documentID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	// 2. Forward to other instances when the document is not held locally.
	if !localFound && h.rdb != nil {
		payload := map[string]interface{}{
			"target_document_id": documentID,
			"message":            json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
	}

	if !localFound && h.rdb == nil {
		return fmt.Errorf("no client connected for document %s", documentID)
	}
	return nil
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel and forwards messages
	// for documents it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetDocumentID string          `json:"target_document_id"`
			Message          json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[payload.TargetDocumentID]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
