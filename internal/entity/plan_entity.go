package entity

// LineOfBusiness classifies a plan or member for routing and disclaimer text.
// The set is closed; RoutingResolver switches over it exhaustively.
type LineOfBusiness string

const (
	LOBMedical    LineOfBusiness = "medical"
	LOBDental     LineOfBusiness = "dental"
	LOBVision     LineOfBusiness = "vision"
	LOBBlueCare   LineOfBusiness = "bluecare"
	LOBSeniorCare LineOfBusiness = "senior_care"
)

// Plan is one line of coverage the member holds. Loaded once per portal
// session from the eligibility source; immutable afterwards except for the
// current-plan selection, which only plan.Registry changes.
type Plan struct {
	Id                 string
	Name               string
	LineOfBusiness     LineOfBusiness
	MedicalEligible    bool
	DentalEligible     bool
	VisionEligible     bool
	ChatEligible       bool
	TermsAndConditions string
	BusinessHours      BusinessHours
	IsActive           bool
}
