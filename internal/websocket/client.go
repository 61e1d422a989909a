package websocket

import (
	"encoding/json"
	"time"

	"ai-docgen-be/internal/constant"
	"ai-docgen-be/internal/workflow"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // Edited section HTML can be large
)

// FeedbackSink receives validated feedback payloads parsed off the wire.
// Satisfied by workflow.FeedbackChannel.
type FeedbackSink interface {
	Deliver(sectionID string, feedback workflow.Feedback)
}

// inboundMessage is the envelope clients send over the socket.
type inboundMessage struct {
	Type          string `json:"type"`
	SectionID     string `json:"section_id"`
	FeedbackType  string `json:"feedback_type"`
	EditedContent string `json:"edited_content"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// DocumentID associated with this connection
	DocumentID string

	// Feedback destination for inbound messages
	Feedback FeedbackSink

	// Buffered channel of outbound messages.
	Send chan []byte
}

// readPump pumps feedback messages from the websocket connection into the
// feedback channel.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"document_id": c.DocumentID,
					"error":       err.Error(),
				})
			}
			break
		}
		c.handleMessage(raw)
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.Hub.logger.Warn("Client", "Malformed message dropped", map[string]interface{}{
			"document_id": c.DocumentID,
			"error":       err.Error(),
		})
		return
	}

	switch msg.Type {
	case constant.WSTypeInit:
		// Handshake ping from the frontend, nothing to do.
	case constant.WSTypeFeedback:
		// Reject before the channel: both fields are required.
		if msg.SectionID == "" || msg.FeedbackType == "" {
			c.Hub.logger.Warn("Client", "Feedback missing section_id or feedback_type", map[string]interface{}{
				"document_id": c.DocumentID,
			})
			return
		}
		c.Feedback.Deliver(msg.SectionID, workflow.Feedback{
			SectionID:     msg.SectionID,
			FeedbackType:  msg.FeedbackType,
			EditedContent: msg.EditedContent,
		})
	default:
		c.Hub.logger.Warn("Client", "Unknown message type", map[string]interface{}{
			"document_id": c.DocumentID,
			"type":        msg.Type,
		})
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
