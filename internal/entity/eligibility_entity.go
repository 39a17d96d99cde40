package entity

// UserEligibility is the member's chat/coverage entitlement snapshot.
// It is fetched once at portal load by the hosting shell and is read-only
// to the chat core.
type UserEligibility struct {
	ChatEligibleMember bool
	IsDemoMember       bool
	IsAmplifyMember    bool
	MedicalEligible    bool
	DentalEligible     bool
	VisionEligible     bool
	IsCobraMember      bool
	IsWellnessOnly     bool

	// RoutingHint is the opaque chatbot interaction id supplied upstream
	// (dropoff SSO parameter output). The core never parses it beyond
	// substring classification in the routing resolver.
	RoutingHint string

	// Classification drives disclaimer text and queue selection when no
	// plan-level line of business applies.
	Classification LineOfBusiness
}
