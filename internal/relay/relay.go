package relay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one line of the operator stream: either a classified inbound
// webhook event or the outcome of an outbound send.
type Event struct {
	Type        string `json:"type"` // "inbound" or "outbound"
	Kind        string `json:"kind"`
	SenderID    string `json:"sender_id,omitempty"`
	RecipientID string `json:"recipient_id,omitempty"`
	Detail      string `json:"detail,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Client mirrors bot activity to an operator console over a WebSocket
// connection. It is strictly best-effort: a nil client and a failed publish
// are both fine, and neither affects webhook processing.
type Client struct {
	url   string
	token string
	log   *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates an operator relay client.
func NewClient(url, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		url:   url,
		token: token,
		log:   log.With("component", "relay"),
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := make(map[string][]string)
	if c.token != "" {
		header["Authorization"] = []string{"Bearer " + c.token}
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(c.url, header)
	if err != nil {
		return fmt.Errorf("connect to operator console: %w", err)
	}

	c.conn = conn
	c.log.Info("connected to operator console", "url", c.url)
	return nil
}

// Publish sends one event to the console. Calling Publish on a nil client is
// a no-op so callers never need a relay-enabled check.
func (c *Client) Publish(ev Event) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected to operator console")
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal relay event: %w", err)
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write relay event: %w", err)
	}
	return nil
}

// Close closes the WebSocket connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
