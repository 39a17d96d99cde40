package client

import (
	"context"

	"member-chat-be/internal/entity"
)

// ChatBackend is the upstream contract the orchestration core consumes. The
// real conversation transport lives behind it; this core only manages the
// client-side state around it.
type ChatBackend interface {
	FetchBusinessHours(ctx context.Context) (*entity.BusinessHours, error)
	CreateSession(ctx context.Context, planId string) (*entity.ChatSession, error)
	SendMessage(ctx context.Context, sessionId, text string) (*entity.ChatMessage, error)
	EndSession(ctx context.Context, sessionId string) error
	CreateCobrowse(ctx context.Context, sessionId string) (*entity.CobrowseSession, error)
	EndCobrowse(ctx context.Context, sessionId, cobrowseId string) error
}
