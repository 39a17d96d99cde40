package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartChatRequest struct {
	ServiceType string `json:"service_type" validate:"required"`
	InquiryType string `json:"inquiry_type" validate:"required"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type SwitchPlanRequest struct {
	PlanId string `json:"plan_id" validate:"required"`
}

type AvailabilityResponse struct {
	Open            bool       `json:"open"`
	ChatAllowed     bool       `json:"chat_allowed"`
	Message         string     `json:"message"`
	Disclaimer      string     `json:"disclaimer,omitempty"`
	NextOpeningTime *time.Time `json:"next_opening_time,omitempty"`
	HoursSource     string     `json:"hours_source"`
}

// ChatStateResponse reports the widget state after OpenChat. Unavailable is a
// rendering branch, not a distinct state.
type ChatStateResponse struct {
	State      string `json:"state"`
	Available  bool   `json:"available"`
	Message    string `json:"message,omitempty"`
	PlanLocked bool   `json:"plan_locked"`
	HasSession bool   `json:"has_session"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatSessionResponse struct {
	Id         string                `json:"id"`
	Active     bool                  `json:"active"`
	PlanId     string                `json:"plan_id"`
	PlanName   string                `json:"plan_name"`
	Queue      string                `json:"queue"`
	Messages   []ChatMessageResponse `json:"messages"`
	SendFailed bool                  `json:"send_failed,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

type PlanResponse struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	LineOfBusiness string `json:"line_of_business"`
	ChatEligible   bool   `json:"chat_eligible"`
	IsCurrent      bool   `json:"is_current"`
}

type TermsResponse struct {
	PlanId string `json:"plan_id"`
	Terms  string `json:"terms"`
}

type CobrowseStateResponse struct {
	State     string `json:"state"`
	Code      string `json:"code,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

type CobrowseConsentRequest struct {
	Accept bool `json:"accept"`
}

// MemberContextRequest is the read-only snapshot the portal shell hands the
// core at load time: the member's eligibility plus their plan list. The core
// never refetches either.
type MemberContextRequest struct {
	Eligibility EligibilityDTO `json:"eligibility" validate:"required"`
	Plans       []PlanDTO      `json:"plans" validate:"required,min=0,dive"`
}

type EligibilityDTO struct {
	ChatEligibleMember bool   `json:"chat_eligible_member"`
	IsDemoMember       bool   `json:"is_demo_member"`
	IsAmplifyMember    bool   `json:"is_amplify_member"`
	MedicalEligible    bool   `json:"medical_eligible"`
	DentalEligible     bool   `json:"dental_eligible"`
	VisionEligible     bool   `json:"vision_eligible"`
	IsCobraMember      bool   `json:"is_cobra_member"`
	IsWellnessOnly     bool   `json:"is_wellness_only"`
	RoutingHint        string `json:"routing_hint,omitempty"`
	Classification     string `json:"classification,omitempty"`
}

type PlanDTO struct {
	Id                 string            `json:"id" validate:"required"`
	Name               string            `json:"name" validate:"required"`
	LineOfBusiness     string            `json:"line_of_business"`
	MedicalEligible    bool              `json:"medical_eligible"`
	DentalEligible     bool              `json:"dental_eligible"`
	VisionEligible     bool              `json:"vision_eligible"`
	ChatEligible       bool              `json:"chat_eligible"`
	TermsAndConditions string            `json:"terms_and_conditions,omitempty"`
	BusinessHours      *BusinessHoursDTO `json:"business_hours,omitempty"`
	IsActive           bool              `json:"is_active"`
	IsCurrent          bool              `json:"is_current"`
}

type BusinessHoursDTO struct {
	Is24x7   bool             `json:"is_24x7"`
	Days     []BusinessDayDTO `json:"days"`
	Timezone string           `json:"timezone,omitempty"`
}

type BusinessDayDTO struct {
	Day         string `json:"day"`
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
	IsOpen      bool   `json:"is_open"`
	IsHoliday   bool   `json:"is_holiday,omitempty"`
	HolidayName string `json:"holiday_name,omitempty"`
}
