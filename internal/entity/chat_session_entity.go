package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSender string

const (
	SenderUser  ChatSender = "user"
	SenderAgent ChatSender = "agent"
	SenderBot   ChatSender = "bot"
)

// ChatMessage is immutable once appended; slice order is conversation order.
type ChatMessage struct {
	Id        uuid.UUID
	Text      string
	Sender    ChatSender
	CreatedAt time.Time
}

// ChatSession is one active conversation. Owned exclusively by
// chat.Controller; nothing else mutates it.
type ChatSession struct {
	Id        string
	Active    bool
	PlanId    string
	PlanName  string
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt *time.Time

	// SendFailed marks the last send as failed so the UI can offer retry.
	// The session itself is retained.
	SendFailed bool
}
