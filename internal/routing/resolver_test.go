package routing

import (
	"testing"

	"member-chat-be/internal/entity"
)

func TestResolveQueue(t *testing.T) {
	medical := &entity.UserEligibility{MedicalEligible: true, DentalEligible: true, VisionEligible: true}
	dentalOnly := &entity.UserEligibility{DentalEligible: true}
	visionOnly := &entity.UserEligibility{VisionEligible: true}

	tests := []struct {
		name string
		elig *entity.UserEligibility
		plan *entity.Plan
		hint string
		want QueueID
	}{
		{
			name: "default queue with no signals",
			elig: medical,
			plan: &entity.Plan{LineOfBusiness: entity.LOBMedical},
			want: QueueDefault,
		},
		{
			name: "id-card hint",
			elig: medical,
			plan: &entity.Plan{LineOfBusiness: entity.LOBMedical},
			hint: "routing-chatbot:id-card:1234",
			want: QueueIDCard,
		},
		{
			name: "claims hint",
			elig: medical,
			plan: &entity.Plan{LineOfBusiness: entity.LOBMedical},
			hint: "interaction/claim-status",
			want: QueueClaims,
		},
		{
			name: "benefits hint",
			elig: medical,
			plan: &entity.Plan{LineOfBusiness: entity.LOBMedical},
			hint: "benefit-inquiry",
			want: QueueBenefits,
		},
		{
			name: "id-card hint beats bluecare line of business",
			elig: medical,
			plan: &entity.Plan{LineOfBusiness: entity.LOBBlueCare},
			hint: "idcard-request",
			want: QueueIDCard,
		},
		{
			name: "unrecognized hint falls through to line of business",
			elig: medical,
			plan: &entity.Plan{LineOfBusiness: entity.LOBBlueCare},
			hint: "something-else-entirely",
			want: QueueBlueCare,
		},
		{
			name: "bluecare line of business",
			elig: medical,
			plan: &entity.Plan{LineOfBusiness: entity.LOBBlueCare},
			want: QueueBlueCare,
		},
		{
			name: "senior care line of business",
			elig: medical,
			plan: &entity.Plan{LineOfBusiness: entity.LOBSeniorCare},
			want: QueueSeniorCare,
		},
		{
			name: "eligibility classification when no plan bound",
			elig: &entity.UserEligibility{MedicalEligible: true, Classification: entity.LOBSeniorCare},
			plan: nil,
			want: QueueSeniorCare,
		},
		{
			name: "dental only",
			elig: dentalOnly,
			plan: &entity.Plan{LineOfBusiness: entity.LOBDental},
			want: QueueDentalOnly,
		},
		{
			name: "vision only",
			elig: visionOnly,
			plan: &entity.Plan{LineOfBusiness: entity.LOBVision},
			want: QueueVisionOnly,
		},
		{
			name: "dental and vision without medical is not single-coverage",
			elig: &entity.UserEligibility{DentalEligible: true, VisionEligible: true},
			plan: &entity.Plan{LineOfBusiness: entity.LOBDental},
			want: QueueDefault,
		},
		{
			name: "nil eligibility defaults",
			elig: nil,
			plan: &entity.Plan{LineOfBusiness: entity.LOBMedical},
			want: QueueDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveQueue(tt.elig, tt.plan, tt.hint)
			if got != tt.want {
				t.Errorf("ResolveQueue() = %q, want %q", got, tt.want)
			}
			// Deterministic: same inputs, same queue.
			if again := ResolveQueue(tt.elig, tt.plan, tt.hint); again != got {
				t.Errorf("ResolveQueue() not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestClassifyHint(t *testing.T) {
	tests := []struct {
		hint string
		want HintCategory
	}{
		{"", HintNone},
		{"id-card", HintIDCard},
		{"IDCARD-123", HintIDCard},
		{"member_id_card_reissue", HintIDCard},
		{"claims-followup", HintClaims},
		{"benefits-overview", HintBenefits},
		{"general question", HintNone},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			if got := ClassifyHint(tt.hint); got != tt.want {
				t.Errorf("ClassifyHint(%q) = %v, want %v", tt.hint, got, tt.want)
			}
		})
	}
}
