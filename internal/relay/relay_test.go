package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// consoleStub accepts one WebSocket connection and forwards received text
// frames on messages.
type consoleStub struct {
	srv      *httptest.Server
	messages chan []byte
	auth     chan string
}

func newConsoleStub(t *testing.T) *consoleStub {
	t.Helper()
	stub := &consoleStub{
		messages: make(chan []byte, 16),
		auth:     make(chan string, 1),
	}
	upgrader := websocket.Upgrader{}
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.auth <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			stub.messages <- data
		}
	}))
	t.Cleanup(stub.srv.Close)
	return stub
}

func (s *consoleStub) wsURL() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func TestPublish(t *testing.T) {
	stub := newConsoleStub(t)

	c := NewClient(stub.wsURL(), "secret-token", nil)
	if err := c.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	if got := <-stub.auth; got != "Bearer secret-token" {
		t.Errorf("authorization header = %q", got)
	}

	want := Event{
		Type:     "inbound",
		Kind:     "message",
		SenderID: "u1",
		Detail:   "plans",
	}
	if err := c.Publish(want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case data := <-stub.messages:
		var got Event
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got != want {
			t.Errorf("received %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("console never received the event")
	}
}

func TestPublishWithoutToken(t *testing.T) {
	stub := newConsoleStub(t)

	c := NewClient(stub.wsURL(), "", nil)
	if err := c.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	if got := <-stub.auth; got != "" {
		t.Errorf("authorization header = %q, want none", got)
	}
}

func TestPublishNotConnected(t *testing.T) {
	c := NewClient("ws://127.0.0.1:0", "", nil)
	if err := c.Publish(Event{Type: "outbound"}); err == nil {
		t.Fatal("expected error before Connect")
	}
}

// A nil client is a valid disabled relay.
func TestNilClient(t *testing.T) {
	var c *Client
	if err := c.Publish(Event{Type: "inbound"}); err != nil {
		t.Errorf("nil Publish: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestConnectFailure(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1", "", nil)
	if err := c.Connect(); err == nil {
		t.Fatal("expected connect error")
	}
}
