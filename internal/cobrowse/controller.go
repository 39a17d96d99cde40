package cobrowse

import (
	"context"
	"sync"
	"time"

	"member-chat-be/internal/chat"
	"member-chat-be/internal/client"
	"member-chat-be/internal/dto"
	"member-chat-be/internal/entity"
	"member-chat-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// State is the consent/session state machine:
// Inactive -> ConsentRequested -> Pending -> Active -> Inactive.
type State string

const (
	StateInactive         State = "inactive"
	StateConsentRequested State = "consent_requested"
	StatePending          State = "pending"
	StateActive           State = "active"
)

const teardownTimeout = 5 * time.Second

// ChatSessionProvider reports the currently active chat session, if any.
// Cobrowse may only attach to an active chat.
type ChatSessionProvider func() (sessionId string, active bool)

// Controller owns the cobrowse session. Its transitions are independent of
// the chat state machine except for one coupling: it listens for the
// chat-ended event and tears itself down, in that order.
type Controller struct {
	mu          sync.Mutex
	memberId    string
	state       State
	session     *entity.CobrowseSession
	boundChatId string

	// gen bumps on every reset to Inactive so an in-flight consent flow
	// cannot land a session into a state that already moved on.
	gen uint64

	chatSession ChatSessionProvider
	capability  Capability
	backend     client.ChatBackend
	logger      logger.ILogger
}

func NewController(
	memberId string,
	chatSession ChatSessionProvider,
	capability Capability,
	backend client.ChatBackend,
	log logger.ILogger,
) *Controller {
	return &Controller{
		memberId:    memberId,
		state:       StateInactive,
		chatSession: chatSession,
		capability:  capability,
		backend:     backend,
		logger:      log,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Code is only ever non-empty in Pending or Active.
func (c *Controller) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Code
}

func (c *Controller) Session() *entity.CobrowseSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	cp := *c.session
	return &cp
}

// RequestCobrowse shows the consent prompt. No network call happens yet.
func (c *Controller) RequestCobrowse() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInactive {
		return &dto.InvalidStateError{Operation: "request_cobrowse", State: string(c.state)}
	}
	if _, active := c.chatSession(); !active {
		return &dto.InvalidStateError{Operation: "request_cobrowse", State: "chat_closed"}
	}
	c.state = StateConsentRequested
	return nil
}

// DeclineConsent dismisses the prompt. No network call.
func (c *Controller) DeclineConsent() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConsentRequested {
		return &dto.InvalidStateError{Operation: "decline_consent", State: string(c.state)}
	}
	c.state = StateInactive
	return nil
}

// AcceptConsent initializes the screen-share capability and creates the
// remote session; on success the state is Pending with a populated code. The
// external party joining promotes Pending to Active via MarkActive; this
// controller never promotes itself. Any failure reverts to Inactive with the
// code cleared, so Pending never dangles.
func (c *Controller) AcceptConsent(ctx context.Context) (*entity.CobrowseSession, error) {
	c.mu.Lock()
	if c.state != StateConsentRequested {
		st := c.state
		c.mu.Unlock()
		return nil, &dto.InvalidStateError{Operation: "accept_consent", State: string(st)}
	}
	chatId, active := c.chatSession()
	if !active {
		c.state = StateInactive
		c.mu.Unlock()
		return nil, &dto.InvalidStateError{Operation: "accept_consent", State: "chat_closed"}
	}
	gen := c.gen
	c.mu.Unlock()

	if err := c.capability.Initialize(ctx); err != nil {
		c.revert(gen)
		c.logger.Error("Cobrowse", "Capability initialize failed", map[string]interface{}{
			"member_id": c.memberId,
			"error":     err.Error(),
		})
		return nil, err
	}

	sess, err := c.backend.CreateCobrowse(ctx, chatId)
	if err != nil {
		c.teardownCapability()
		c.revert(gen)
		c.logger.Error("Cobrowse", "Session create failed", map[string]interface{}{
			"member_id": c.memberId,
			"error":     err.Error(),
		})
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen || c.state != StateConsentRequested {
		// Chat ended (or a teardown ran) while the consent flow was in
		// flight; discard the late result and release the remote session.
		c.endRemote(chatId, sess.Id)
		return nil, &dto.InvalidStateError{Operation: "accept_consent", State: string(c.state)}
	}

	c.session = sess
	c.boundChatId = chatId
	c.state = StatePending

	cp := *sess
	return &cp, nil
}

// MarkActive records the externally signaled promotion: the remote party
// joined the pending session.
func (c *Controller) MarkActive() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePending || c.session == nil {
		return &dto.InvalidStateError{Operation: "mark_active", State: string(c.state)}
	}
	c.session.Active = true
	c.state = StateActive
	return nil
}

// EndSession resets to Inactive from any non-Inactive state. The remote
// teardown is always attempted, even when local state already looks
// inconsistent; the code clears regardless, and teardown failures are
// logged, never returned. A second call is a no-op.
func (c *Controller) EndSession(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateInactive {
		c.mu.Unlock()
		return nil
	}

	var cobrowseId string
	if c.session != nil {
		cobrowseId = c.session.Id
	}
	chatId := c.boundChatId
	c.session = nil
	c.boundChatId = ""
	c.state = StateInactive
	c.gen++
	c.mu.Unlock()

	c.teardownCapability()
	if cobrowseId != "" {
		c.endRemote(chatId, cobrowseId)
	}
	return nil
}

// Teardown is the unmount path; EndSession's Inactive check keeps it
// single-shot.
func (c *Controller) Teardown(ctx context.Context) error {
	return c.EndSession(ctx)
}

// Listen subscribes to the chat-ended topic. Chat end triggers cobrowse end,
// in that order; the reverse coupling does not exist.
func (c *Controller) Listen(ctx context.Context, sub message.Subscriber) error {
	msgs, err := sub.Subscribe(ctx, chat.TopicSessionEnded)
	if err != nil {
		return err
	}
	go func() {
		for msg := range msgs {
			ev, err := chat.ParseSessionEvent(msg)
			msg.Ack()
			if err != nil || ev.MemberId != c.memberId {
				continue
			}
			endCtx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
			if err := c.EndSession(endCtx); err != nil {
				c.logger.Warn("Cobrowse", "Teardown after chat end failed", map[string]interface{}{
					"member_id": c.memberId,
					"error":     err.Error(),
				})
			}
			cancel()
		}
	}()
	return nil
}

// revert resets an in-flight consent flow to Inactive unless something else
// already moved the state machine.
func (c *Controller) revert(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen && c.state == StateConsentRequested {
		c.state = StateInactive
		c.session = nil
	}
}

func (c *Controller) teardownCapability() {
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()
	if err := c.capability.Teardown(ctx); err != nil {
		c.logger.Warn("Cobrowse", "Capability teardown failed", map[string]interface{}{
			"member_id": c.memberId,
			"error":     err.Error(),
		})
	}
}

func (c *Controller) endRemote(chatId, cobrowseId string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
		defer cancel()
		if err := c.backend.EndCobrowse(ctx, chatId, cobrowseId); err != nil {
			c.logger.Warn("Cobrowse", "Remote session delete failed", map[string]interface{}{
				"member_id":   c.memberId,
				"cobrowse_id": cobrowseId,
				"error":       err.Error(),
			})
		}
	}()
}
