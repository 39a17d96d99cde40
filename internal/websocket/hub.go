package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"member-chat-be/internal/chat"
	"member-chat-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Hub fans chat session events out to connected member UI clients. It feeds
// from the in-process event bus; one member may hold several connections
// (multi-tab).
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	subscriber message.Subscriber
	logger     logger.ILogger
}

func NewHub(subscriber message.Subscriber, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		subscriber: subscriber,
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	go h.consumeBus(ctx)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.MemberId] = append(h.clients[client.MemberId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"member_id": client.MemberId})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.MemberId]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.MemberId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.MemberId]) == 0 {
					delete(h.clients, client.MemberId)
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			return
		}
	}
}

// consumeBus forwards every chat topic to the owning member's connections.
func (h *Hub) consumeBus(ctx context.Context) {
	topics := []string{chat.TopicSessionStarted, chat.TopicMessageAdded, chat.TopicSessionEnded}
	for _, topic := range topics {
		msgs, err := h.subscriber.Subscribe(ctx, topic)
		if err != nil {
			h.logger.Error("Hub", "Bus subscribe failed", map[string]interface{}{"topic": topic, "error": err.Error()})
			continue
		}
		go func(topic string, msgs <-chan *message.Message) {
			for msg := range msgs {
				ev, err := chat.ParseSessionEvent(msg)
				msg.Ack()
				if err != nil {
					continue
				}
				h.send(ev.MemberId, topic, ev)
			}
		}(topic, msgs)
	}
}

func (h *Hub) send(memberId, topic string, ev chat.SessionEvent) {
	data, err := json.Marshal(map[string]interface{}{
		"type": topic,
		"data": ev,
	})
	if err != nil {
		return
	}

	// Sends happen under the read lock. The unregister branch closes Send
	// under the write lock, so a close can never race an in-flight send.
	// Full clients are dropped after the lock is released; pushing to the
	// unregister channel while holding it would deadlock against Run.
	var full []*Client
	h.mu.RLock()
	for _, client := range h.clients[memberId] {
		select {
		case client.Send <- data:
		default:
			full = append(full, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range full {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"member_id": memberId})
		h.unregister <- client
	}
}
