package websocket

import (
	"context"
	"testing"
	"time"

	"member-chat-be/internal/chat"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { bus.Close() })

	hub := NewHub(bus, nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func (h *Hub) clientCount(memberId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[memberId])
}

func waitForClients(t *testing.T, hub *Hub, memberId string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.clientCount(memberId) != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.clientCount(memberId), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSendDeliversToMemberConnections(t *testing.T) {
	hub := newTestHub(t)

	client := &Client{Hub: hub, MemberId: "member-1", Send: make(chan []byte, 4)}
	hub.register <- client
	waitForClients(t, hub, "member-1", 1)

	hub.send("member-1", chat.TopicMessageAdded, chat.SessionEvent{MemberId: "member-1", SessionId: "sess-1"})

	select {
	case data := <-client.Send:
		if len(data) == 0 {
			t.Error("empty payload delivered")
		}
	case <-time.After(time.Second):
		t.Fatal("no payload delivered")
	}

	// Other members receive nothing.
	hub.send("member-2", chat.TopicMessageAdded, chat.SessionEvent{MemberId: "member-2"})
	select {
	case data := <-client.Send:
		t.Errorf("payload for another member delivered: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

// A client whose buffer stays full is dropped, and fanout after the drop
// (when its Send channel is already closed) must be a no-op, not a panic.
func TestSendAfterDropDoesNotPanic(t *testing.T) {
	hub := newTestHub(t)

	client := &Client{Hub: hub, MemberId: "member-1", Send: make(chan []byte, 1)}
	hub.register <- client
	waitForClients(t, hub, "member-1", 1)

	ev := chat.SessionEvent{MemberId: "member-1", SessionId: "sess-1"}
	hub.send("member-1", chat.TopicMessageAdded, ev) // fills the buffer
	hub.send("member-1", chat.TopicMessageAdded, ev) // full buffer drops the client
	waitForClients(t, hub, "member-1", 0)

	hub.send("member-1", chat.TopicMessageAdded, ev)
}
