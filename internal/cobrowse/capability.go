package cobrowse

import (
	"context"

	"member-chat-be/internal/pkg/logger"
)

// Capability is the underlying screen-share machinery that must be brought
// up before a session can be created and torn down when it ends.
type Capability interface {
	Initialize(ctx context.Context) error
	Teardown(ctx context.Context) error
}

// LocalCapability is the in-process capability used when the screen-share
// vendor SDK runs entirely on the client: initialize and teardown only log.
type LocalCapability struct {
	logger logger.ILogger
}

func NewLocalCapability(log logger.ILogger) *LocalCapability {
	return &LocalCapability{logger: log}
}

func (c *LocalCapability) Initialize(ctx context.Context) error {
	c.logger.Debug("Cobrowse", "Capability initialized", nil)
	return nil
}

func (c *LocalCapability) Teardown(ctx context.Context) error {
	c.logger.Debug("Cobrowse", "Capability torn down", nil)
	return nil
}
