package chat

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Bus topics. The cobrowse controller subscribes to TopicSessionEnded (chat
// end must end cobrowse, never the reverse); the websocket hub subscribes to
// all three to stream widget updates.
const (
	TopicSessionStarted = "chat.session.started"
	TopicSessionEnded   = "chat.session.ended"
	TopicMessageAdded   = "chat.message.added"
)

// SessionEvent is the payload published on every chat topic.
type SessionEvent struct {
	MemberId  string    `json:"member_id"`
	SessionId string    `json:"session_id"`
	PlanId    string    `json:"plan_id,omitempty"`
	Queue     string    `json:"queue,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	At        time.Time `json:"at"`
}

func (e SessionEvent) Message() (*message.Message, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return message.NewMessage(watermill.NewUUID(), raw), nil
}

func ParseSessionEvent(msg *message.Message) (SessionEvent, error) {
	var e SessionEvent
	err := json.Unmarshal(msg.Payload, &e)
	return e, err
}
