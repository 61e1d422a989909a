package websocket

import (
	"github.com/gofiber/websocket/v2"
)

func NewClient(hub *Hub, c *websocket.Conn, documentID string, feedback FeedbackSink) *Client {
	return &Client{
		Hub:        hub,
		Conn:       c,
		DocumentID: documentID,
		Feedback:   feedback,
		Send:       make(chan []byte, 256),
	}
}

// Register announces the client to the hub. Must be called before Run so
// the engine sees the peer before its first feedback wait.
func (c *Client) Register() {
	c.Hub.register <- c
}

// Run starts the pumps and blocks until the connection closes.
func (c *Client) Run() {
	go c.writePump()
	c.readPump() // Run readPump in current goroutine (handler)
}

// ServeWs attaches an upgraded connection to the hub and runs its pumps.
// Blocks until the connection closes.
func ServeWs(hub *Hub, c *websocket.Conn, documentID string, feedback FeedbackSink) {
	client := NewClient(hub, c, documentID, feedback)
	client.Register()
	client.Run()
}
