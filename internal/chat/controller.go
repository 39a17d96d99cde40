package chat

import (
	"context"
	"sync"
	"time"

	"member-chat-be/internal/client"
	"member-chat-be/internal/dto"
	"member-chat-be/internal/entity"
	"member-chat-be/internal/hours"
	"member-chat-be/internal/pkg/logger"
	"member-chat-be/internal/plan"
	"member-chat-be/internal/routing"

	"github.com/ThreeDotsLabs/watermill/message"
)

// State is the widget state machine: Closed -> FormOpen -> Active -> Closed.
// The "unavailable" display is a rendering branch of OpenChat, not a state.
type State string

const (
	StateClosed   State = "closed"
	StateFormOpen State = "form_open"
	StateActive   State = "active"
)

const endSessionTimeout = 5 * time.Second

// OpenResult is what OpenChat reports back to the UI.
type OpenResult struct {
	Available bool
	Message   string
	State     State
}

// Controller owns the chat session, its message list, and the plan switch
// lock. Single-writer: nothing else mutates any of them.
type Controller struct {
	mu       sync.Mutex
	memberId string
	state    State
	session  *entity.ChatSession
	queue    routing.QueueID

	// gen bumps on every end/close so a late-arriving async result can be
	// detected and ignored instead of resurrecting a closed session.
	gen uint64

	registry    *plan.Registry
	lock        *plan.SwitchLock
	evaluator   *hours.Evaluator
	eligibility *entity.UserEligibility
	backend     client.ChatBackend
	publisher   message.Publisher
	logger      logger.ILogger
}

func NewController(
	memberId string,
	registry *plan.Registry,
	lock *plan.SwitchLock,
	evaluator *hours.Evaluator,
	eligibility *entity.UserEligibility,
	backend client.ChatBackend,
	publisher message.Publisher,
	log logger.ILogger,
) *Controller {
	return &Controller{
		memberId:    memberId,
		state:       StateClosed,
		registry:    registry,
		lock:        lock,
		evaluator:   evaluator,
		eligibility: eligibility,
		backend:     backend,
		publisher:   publisher,
		logger:      log,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy; the controller keeps exclusive write access.
func (c *Controller) Session() *entity.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	cp := *c.session
	cp.Messages = make([]entity.ChatMessage, len(c.session.Messages))
	copy(cp.Messages, c.session.Messages)
	return &cp
}

func (c *Controller) Queue() routing.QueueID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue
}

// OpenChat moves Closed -> FormOpen when chat is permitted: business hours
// open, current plan chat-eligible, member chat-eligible. Otherwise the
// widget renders the unavailable display and stays Closed. Always allowed;
// reopening while FormOpen or Active is a no-op report.
func (c *Controller) OpenChat(now time.Time) OpenResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateClosed {
		return OpenResult{Available: true, State: c.state}
	}

	cur := c.registry.CurrentPlan()
	if cur == nil || !cur.ChatEligible || !c.eligibility.ChatEligibleMember {
		return OpenResult{
			Available: false,
			Message:   "Chat is not available for your plan.",
			State:     c.state,
		}
	}

	h := c.registry.BusinessHours(cur.Id)
	if !c.evaluator.IsCurrentlyOpen(h, now) {
		return OpenResult{
			Available: false,
			Message:   c.evaluator.AvailabilityMessage(h, now),
			State:     c.state,
		}
	}

	c.state = StateFormOpen
	return OpenResult{Available: true, State: c.state}
}

// StartChat validates the inquiry form, resolves the destination queue,
// creates the backend session, and moves FormOpen -> Active.
//
// The switch lock engages before the create call resolves. That is
// deliberate: a plan switch must not race the in-flight create. On failure
// the lock rolls back and the controller stays FormOpen with a recoverable
// error; no phantom session exists.
func (c *Controller) StartChat(ctx context.Context, serviceType, inquiryType string) (*entity.ChatSession, error) {
	c.mu.Lock()

	if c.state != StateFormOpen {
		st := c.state
		c.mu.Unlock()
		return nil, &dto.InvalidStateError{Operation: "start_chat", State: string(st)}
	}
	if serviceType == "" {
		c.mu.Unlock()
		return nil, &dto.ValidationError{Field: "service_type", Reason: "required"}
	}
	if inquiryType == "" {
		c.mu.Unlock()
		return nil, &dto.ValidationError{Field: "inquiry_type", Reason: "required"}
	}

	cur := c.registry.CurrentPlan()
	if cur == nil {
		c.mu.Unlock()
		return nil, &dto.ChatUnavailableError{Reason: "no eligible plan"}
	}

	// An ID-card service type outranks the generic upstream hint.
	hint := c.eligibility.RoutingHint
	if routing.ClassifyHint(serviceType) == routing.HintIDCard {
		hint = serviceType
	}
	queue := routing.ResolveQueue(c.eligibility, cur, hint)

	gen := c.gen
	c.lock.Lock()
	c.mu.Unlock()

	sess, err := c.backend.CreateSession(ctx, cur.Id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Roll the optimistic lock back, but only if nothing superseded us.
		if c.gen == gen && c.state == StateFormOpen {
			c.lock.Unlock()
		}
		c.logger.Error("Chat", "Session create failed", map[string]interface{}{
			"member_id": c.memberId,
			"error":     err.Error(),
		})
		return nil, err
	}

	if c.gen != gen || c.state != StateFormOpen {
		// The widget closed while the create was in flight; the local state
		// already settled, so the late success is discarded and the remote
		// session torn down best-effort.
		c.endRemote(sess.Id)
		return nil, &dto.InvalidStateError{Operation: "start_chat", State: string(c.state)}
	}

	sess.Active = true
	sess.PlanId = cur.Id
	sess.PlanName = cur.Name
	c.session = sess
	c.queue = queue
	c.state = StateActive

	c.publish(TopicSessionStarted, SessionEvent{
		MemberId:  c.memberId,
		SessionId: sess.Id,
		PlanId:    cur.Id,
		Queue:     string(queue),
		At:        time.Now(),
	})
	return c.copySessionLocked(), nil
}

// AddMessage appends to the session in arrival order. Only valid while
// Active. A send failure keeps the session (flagged) so the user can retry.
func (c *Controller) AddMessage(ctx context.Context, text string) (*entity.ChatMessage, error) {
	c.mu.Lock()
	if c.state != StateActive || c.session == nil {
		st := c.state
		c.mu.Unlock()
		return nil, &dto.InvalidStateError{Operation: "add_message", State: string(st)}
	}
	if text == "" {
		c.mu.Unlock()
		return nil, &dto.ValidationError{Field: "text", Reason: "required"}
	}
	sessId := c.session.Id
	gen := c.gen
	c.mu.Unlock()

	msg, err := c.backend.SendMessage(ctx, sessId, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen || c.session == nil || c.session.Id != sessId {
		// Session ended while the send was in flight; drop the result.
		return nil, &dto.InvalidStateError{Operation: "add_message", State: string(c.state)}
	}

	if err != nil {
		c.session.SendFailed = true
		c.logger.Warn("Chat", "Message send failed, session retained for retry", map[string]interface{}{
			"member_id":  c.memberId,
			"session_id": sessId,
		})
		return nil, err
	}

	c.session.SendFailed = false
	c.session.Messages = append(c.session.Messages, *msg)
	now := time.Now()
	c.session.UpdatedAt = &now

	c.publish(TopicMessageAdded, SessionEvent{
		MemberId:  c.memberId,
		SessionId: sessId,
		Sender:    string(msg.Sender),
		At:        msg.CreatedAt,
	})
	return msg, nil
}

// EndSession clears the session and messages, releases the switch lock, and
// returns to Closed. Valid from Active or FormOpen; calling it again is a
// no-op. The backend delete is best-effort and never blocks the local end.
// Publishing the ended event is what ends an attached cobrowse session.
func (c *Controller) EndSession(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}

	var sessId string
	if c.session != nil {
		sessId = c.session.Id
	}
	c.session = nil
	c.queue = ""
	c.state = StateClosed
	c.gen++
	c.lock.Unlock()
	c.mu.Unlock()

	c.publish(TopicSessionEnded, SessionEvent{
		MemberId:  c.memberId,
		SessionId: sessId,
		At:        time.Now(),
	})

	if sessId != "" {
		c.endRemote(sessId)
	}
	return nil
}

// CloseChat is the UI close affordance; identical to EndSession.
func (c *Controller) CloseChat(ctx context.Context) error {
	return c.EndSession(ctx)
}

// Teardown is the unmount path. It reuses EndSession, whose Closed check
// makes a second invocation a no-op.
func (c *Controller) Teardown(ctx context.Context) error {
	return c.EndSession(ctx)
}

func (c *Controller) endRemote(sessionId string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), endSessionTimeout)
		defer cancel()
		if err := c.backend.EndSession(ctx, sessionId); err != nil {
			c.logger.Warn("Chat", "Backend session delete failed", map[string]interface{}{
				"member_id":  c.memberId,
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}()
}

func (c *Controller) publish(topic string, ev SessionEvent) {
	if c.publisher == nil {
		return
	}
	msg, err := ev.Message()
	if err != nil {
		c.logger.Error("Chat", "Event marshal failed", map[string]interface{}{"topic": topic, "error": err.Error()})
		return
	}
	if err := c.publisher.Publish(topic, msg); err != nil {
		c.logger.Error("Chat", "Event publish failed", map[string]interface{}{"topic": topic, "error": err.Error()})
	}
}

func (c *Controller) copySessionLocked() *entity.ChatSession {
	cp := *c.session
	cp.Messages = make([]entity.ChatMessage, len(c.session.Messages))
	copy(cp.Messages, c.session.Messages)
	return &cp
}
