package service

import (
	"context"
	"time"

	"member-chat-be/internal/chat"
	"member-chat-be/internal/client"
	"member-chat-be/internal/cobrowse"
	"member-chat-be/internal/dto"
	"member-chat-be/internal/entity"
	"member-chat-be/internal/hours"
	"member-chat-be/internal/pkg/logger"
	"member-chat-be/internal/plan"
	"member-chat-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
)

type ChatService interface {
	// Member context (loaded once per portal session by the shell)
	LoadMemberContext(ctx context.Context, memberId string, req *dto.MemberContextRequest) error

	// Availability & plans
	Availability(ctx context.Context, memberId string) (*dto.AvailabilityResponse, error)
	Plans(ctx context.Context, memberId string) ([]*dto.PlanResponse, error)
	SwitchPlan(ctx context.Context, memberId, planId string) error
	Terms(ctx context.Context, memberId, planId string) (*dto.TermsResponse, error)

	// Chat lifecycle
	OpenChat(ctx context.Context, memberId string) (*dto.ChatStateResponse, error)
	StartChat(ctx context.Context, memberId string, req *dto.StartChatRequest) (*dto.ChatSessionResponse, error)
	SendMessage(ctx context.Context, memberId string, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error)
	Session(ctx context.Context, memberId string) (*dto.ChatSessionResponse, error)
	EndChat(ctx context.Context, memberId string) error

	// Cobrowse lifecycle
	CobrowseState(ctx context.Context, memberId string) (*dto.CobrowseStateResponse, error)
	RequestCobrowse(ctx context.Context, memberId string) (*dto.CobrowseStateResponse, error)
	ConsentCobrowse(ctx context.Context, memberId string, accept bool) (*dto.CobrowseStateResponse, error)
	ActivateCobrowse(ctx context.Context, memberId string) (*dto.CobrowseStateResponse, error)
	EndCobrowse(ctx context.Context, memberId string) error
}

// memberSession bundles one member's orchestration state: registry, lock,
// and the two controllers.
type memberSession struct {
	eligibility *entity.UserEligibility
	registry    *plan.Registry
	lock        *plan.SwitchLock
	chat        *chat.Controller
	cobrowse    *cobrowse.Controller
	cancel      context.CancelFunc
}

type chatService struct {
	members    *memory.SessionStore
	snapshots  plan.SnapshotStore
	backend    client.ChatBackend
	provider   *hours.Provider
	evaluator  *hours.Evaluator
	publisher  message.Publisher
	subscriber message.Subscriber
	validate   *validator.Validate
	logger     logger.ILogger
	now        func() time.Time
}

func NewChatService(
	members *memory.SessionStore,
	snapshots plan.SnapshotStore,
	backend client.ChatBackend,
	provider *hours.Provider,
	evaluator *hours.Evaluator,
	publisher message.Publisher,
	subscriber message.Subscriber,
	log logger.ILogger,
) ChatService {
	s := &chatService{
		members:    members,
		snapshots:  snapshots,
		backend:    backend,
		provider:   provider,
		evaluator:  evaluator,
		publisher:  publisher,
		subscriber: subscriber,
		validate:   validator.New(),
		logger:     log,
		now:        time.Now,
	}

	// Idle eviction behaves like an unmount: same teardown path, once.
	members.OnEvicted(func(memberId string, state interface{}) {
		ms, ok := state.(*memberSession)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ms.chat.Teardown(ctx); err != nil {
			s.logger.Warn("ChatService", "Teardown on eviction failed", map[string]interface{}{
				"member_id": memberId, "error": err.Error(),
			})
		}
		if err := ms.cobrowse.Teardown(ctx); err != nil {
			s.logger.Warn("ChatService", "Cobrowse teardown on eviction failed", map[string]interface{}{
				"member_id": memberId, "error": err.Error(),
			})
		}
		if ms.cancel != nil {
			ms.cancel()
		}
	})

	return s
}

// LoadMemberContext installs the read-only snapshot the shell fetched at
// portal load: eligibility plus the plan list. Loading again replaces the
// whole member state (previous session torn down first).
func (s *chatService) LoadMemberContext(ctx context.Context, memberId string, req *dto.MemberContextRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return &dto.ValidationError{Field: "member_context", Reason: err.Error()}
	}

	if existing, found := s.members.Get(memberId); found {
		if ms, ok := existing.(*memberSession); ok {
			_ = ms.chat.Teardown(ctx)
			_ = ms.cobrowse.Teardown(ctx)
			if ms.cancel != nil {
				ms.cancel()
			}
		}
		s.members.Delete(memberId)
	}

	elig := mapEligibility(&req.Eligibility)
	plans, currentId := s.mapPlans(ctx, req.Plans)

	registry := plan.NewRegistry(memberId, plans, currentId, s.evaluator, s.snapshots, s.logger)
	lock := plan.NewSwitchLock()

	chatCtrl := chat.NewController(memberId, registry, lock, s.evaluator, elig, s.backend, s.publisher, s.logger)

	listenCtx, cancel := context.WithCancel(context.Background())
	cobrowseCtrl := cobrowse.NewController(
		memberId,
		func() (string, bool) {
			sess := chatCtrl.Session()
			if sess == nil || !sess.Active {
				return "", false
			}
			return sess.Id, true
		},
		cobrowse.NewLocalCapability(s.logger),
		s.backend,
		s.logger,
	)
	if err := cobrowseCtrl.Listen(listenCtx, s.subscriber); err != nil {
		cancel()
		return err
	}

	s.members.Save(memberId, &memberSession{
		eligibility: elig,
		registry:    registry,
		lock:        lock,
		chat:        chatCtrl,
		cobrowse:    cobrowseCtrl,
		cancel:      cancel,
	})

	s.logger.Info("ChatService", "Member context loaded", map[string]interface{}{
		"member_id": memberId,
		"plans":     len(plans),
	})
	return nil
}

func (s *chatService) Availability(ctx context.Context, memberId string) (*dto.AvailabilityResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cur := ms.registry.CurrentPlan()

	var h *entity.BusinessHours
	if cur != nil {
		h = ms.registry.BusinessHours(cur.Id)
	}
	if h == nil {
		h = s.provider.Current(ctx)
	}

	open := s.evaluator.IsCurrentlyOpen(h, now)
	resp := &dto.AvailabilityResponse{
		Open:            open,
		ChatAllowed:     open && cur != nil && cur.ChatEligible && ms.eligibility.ChatEligibleMember,
		Message:         s.evaluator.AvailabilityMessage(h, now),
		Disclaimer:      disclaimerFor(ms.eligibility, cur),
		NextOpeningTime: s.evaluator.NextOpeningTime(h, now),
		HoursSource:     string(h.Source),
	}
	return resp, nil
}

func (s *chatService) Plans(ctx context.Context, memberId string) ([]*dto.PlanResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}

	cur := ms.registry.CurrentPlan()
	plans := ms.registry.AvailablePlans()
	out := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, &dto.PlanResponse{
			Id:             p.Id,
			Name:           p.Name,
			LineOfBusiness: string(p.LineOfBusiness),
			ChatEligible:   p.ChatEligible,
			IsCurrent:      cur != nil && cur.Id == p.Id,
		})
	}
	return out, nil
}

// SwitchPlan enforces the cross-component invariant the registry cannot see:
// no switching while the chat session holds the lock.
func (s *chatService) SwitchPlan(ctx context.Context, memberId, planId string) error {
	ms, err := s.member(memberId)
	if err != nil {
		return err
	}
	if ms.lock.IsLocked() {
		return &dto.PlanLockedError{}
	}
	if !ms.registry.SwitchPlan(planId) {
		return &dto.UnknownPlanError{PlanId: planId}
	}
	return nil
}

func (s *chatService) Terms(ctx context.Context, memberId, planId string) (*dto.TermsResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	terms, ok := ms.registry.TermsAndConditions(planId)
	if !ok {
		return nil, &dto.UnknownPlanError{PlanId: planId}
	}
	return &dto.TermsResponse{PlanId: planId, Terms: terms}, nil
}

func (s *chatService) OpenChat(ctx context.Context, memberId string) (*dto.ChatStateResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	result := ms.chat.OpenChat(s.now())
	return &dto.ChatStateResponse{
		State:      string(result.State),
		Available:  result.Available,
		Message:    result.Message,
		PlanLocked: ms.lock.IsLocked(),
		HasSession: ms.chat.Session() != nil,
	}, nil
}

func (s *chatService) StartChat(ctx context.Context, memberId string, req *dto.StartChatRequest) (*dto.ChatSessionResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, &dto.ValidationError{Field: "start_chat", Reason: "service_type and inquiry_type are required"}
	}

	sess, err := ms.chat.StartChat(ctx, req.ServiceType, req.InquiryType)
	if err != nil {
		return nil, err
	}
	return mapSession(sess, ms.chat), nil
}

func (s *chatService) SendMessage(ctx context.Context, memberId string, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, &dto.ValidationError{Field: "text", Reason: "required"}
	}

	msg, err := ms.chat.AddMessage(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	return &dto.ChatMessageResponse{
		Id:        msg.Id,
		Text:      msg.Text,
		Sender:    string(msg.Sender),
		CreatedAt: msg.CreatedAt,
	}, nil
}

func (s *chatService) Session(ctx context.Context, memberId string) (*dto.ChatSessionResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	sess := ms.chat.Session()
	if sess == nil {
		return nil, &dto.InvalidStateError{Operation: "get_session", State: string(ms.chat.State())}
	}
	return mapSession(sess, ms.chat), nil
}

func (s *chatService) EndChat(ctx context.Context, memberId string) error {
	ms, err := s.member(memberId)
	if err != nil {
		return err
	}
	return ms.chat.EndSession(ctx)
}

func (s *chatService) CobrowseState(ctx context.Context, memberId string) (*dto.CobrowseStateResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	return s.cobrowseState(ms), nil
}

func (s *chatService) RequestCobrowse(ctx context.Context, memberId string) (*dto.CobrowseStateResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	if err := ms.cobrowse.RequestCobrowse(); err != nil {
		return nil, err
	}
	return s.cobrowseState(ms), nil
}

func (s *chatService) ConsentCobrowse(ctx context.Context, memberId string, accept bool) (*dto.CobrowseStateResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	if accept {
		if _, err := ms.cobrowse.AcceptConsent(ctx); err != nil {
			return nil, err
		}
	} else {
		if err := ms.cobrowse.DeclineConsent(); err != nil {
			return nil, err
		}
	}
	return s.cobrowseState(ms), nil
}

func (s *chatService) ActivateCobrowse(ctx context.Context, memberId string) (*dto.CobrowseStateResponse, error) {
	ms, err := s.member(memberId)
	if err != nil {
		return nil, err
	}
	if err := ms.cobrowse.MarkActive(); err != nil {
		return nil, err
	}
	return s.cobrowseState(ms), nil
}

func (s *chatService) EndCobrowse(ctx context.Context, memberId string) error {
	ms, err := s.member(memberId)
	if err != nil {
		return err
	}
	return ms.cobrowse.EndSession(ctx)
}

func (s *chatService) member(memberId string) (*memberSession, error) {
	state, found := s.members.Get(memberId)
	if !found {
		return nil, &dto.MemberContextMissingError{}
	}
	ms, ok := state.(*memberSession)
	if !ok {
		return nil, &dto.MemberContextMissingError{}
	}
	s.members.Touch(memberId)
	return ms, nil
}

func (s *chatService) cobrowseState(ms *memberSession) *dto.CobrowseStateResponse {
	resp := &dto.CobrowseStateResponse{State: string(ms.cobrowse.State())}
	if sess := ms.cobrowse.Session(); sess != nil {
		resp.Code = sess.Code
		resp.SourceURL = sess.SourceURL
	}
	return resp
}

// mapPlans converts the shell's DTOs. Plans without their own schedule
// inherit the upstream one (fail-closed default when the fetch fails).
func (s *chatService) mapPlans(ctx context.Context, in []dto.PlanDTO) ([]*entity.Plan, string) {
	var shared *entity.BusinessHours
	sharedHours := func() entity.BusinessHours {
		if shared == nil {
			shared = s.provider.Current(ctx)
		}
		return *shared
	}

	var currentId string
	plans := make([]*entity.Plan, 0, len(in))
	for _, p := range in {
		var h entity.BusinessHours
		if p.BusinessHours != nil {
			h = mapHours(p.BusinessHours)
		} else {
			h = sharedHours()
		}
		plans = append(plans, &entity.Plan{
			Id:                 p.Id,
			Name:               p.Name,
			LineOfBusiness:     entity.LineOfBusiness(p.LineOfBusiness),
			MedicalEligible:    p.MedicalEligible,
			DentalEligible:     p.DentalEligible,
			VisionEligible:     p.VisionEligible,
			ChatEligible:       p.ChatEligible,
			TermsAndConditions: p.TermsAndConditions,
			BusinessHours:      h,
			IsActive:           p.IsActive,
		})
		if p.IsCurrent && currentId == "" {
			currentId = p.Id
		}
	}
	return plans, currentId
}

func mapHours(in *dto.BusinessHoursDTO) entity.BusinessHours {
	days := make([]entity.BusinessDay, 0, len(in.Days))
	for _, d := range in.Days {
		days = append(days, entity.BusinessDay{
			Day:         d.Day,
			OpenTime:    d.OpenTime,
			CloseTime:   d.CloseTime,
			IsOpen:      d.IsOpen,
			IsHoliday:   d.IsHoliday,
			HolidayName: d.HolidayName,
		})
	}
	return entity.BusinessHours{
		Is24x7:   in.Is24x7,
		Days:     days,
		Timezone: in.Timezone,
		Source:   entity.HoursSourceAPI,
	}
}

func mapEligibility(in *dto.EligibilityDTO) *entity.UserEligibility {
	return &entity.UserEligibility{
		ChatEligibleMember: in.ChatEligibleMember,
		IsDemoMember:       in.IsDemoMember,
		IsAmplifyMember:    in.IsAmplifyMember,
		MedicalEligible:    in.MedicalEligible,
		DentalEligible:     in.DentalEligible,
		VisionEligible:     in.VisionEligible,
		IsCobraMember:      in.IsCobraMember,
		IsWellnessOnly:     in.IsWellnessOnly,
		RoutingHint:        in.RoutingHint,
		Classification:     entity.LineOfBusiness(in.Classification),
	}
}

func mapSession(sess *entity.ChatSession, ctrl *chat.Controller) *dto.ChatSessionResponse {
	messages := make([]dto.ChatMessageResponse, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		messages = append(messages, dto.ChatMessageResponse{
			Id:        m.Id,
			Text:      m.Text,
			Sender:    string(m.Sender),
			CreatedAt: m.CreatedAt,
		})
	}
	return &dto.ChatSessionResponse{
		Id:         sess.Id,
		Active:     sess.Active,
		PlanId:     sess.PlanId,
		PlanName:   sess.PlanName,
		Queue:      string(ctrl.Queue()),
		Messages:   messages,
		SendFailed: sess.SendFailed,
		CreatedAt:  sess.CreatedAt,
	}
}

// disclaimerFor picks the member-facing disclaimer by line of business.
func disclaimerFor(elig *entity.UserEligibility, cur *entity.Plan) string {
	lob := elig.Classification
	if cur != nil && cur.LineOfBusiness != "" {
		lob = cur.LineOfBusiness
	}
	switch lob {
	case entity.LOBBlueCare:
		return "You are chatting about a state-managed BlueCare plan."
	case entity.LOBSeniorCare:
		return "You are chatting about a SeniorCare plan."
	case entity.LOBDental:
		return "This chat covers dental benefits only."
	case entity.LOBVision:
		return "This chat covers vision benefits only."
	case entity.LOBMedical:
		return ""
	}
	return ""
}
