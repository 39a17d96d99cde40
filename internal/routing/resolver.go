package routing

import (
	"strings"

	"member-chat-be/internal/entity"
)

// QueueID identifies a backend conversation queue.
type QueueID string

const (
	QueueDefault    QueueID = "general"
	QueueIDCard     QueueID = "id-card"
	QueueClaims     QueueID = "claims"
	QueueBenefits   QueueID = "benefits"
	QueueBlueCare   QueueID = "bluecare"
	QueueSeniorCare QueueID = "senior-care"
	QueueDentalOnly QueueID = "dental-only"
	QueueVisionOnly QueueID = "vision-only"
)

// HintCategory is the closed set of routing-hint classifications. New
// categories extend the constant block and every switch below, so the
// compiler keeps resolution exhaustive instead of silently defaulting.
type HintCategory int

const (
	HintNone HintCategory = iota
	HintIDCard
	HintClaims
	HintBenefits
)

// ClassifyHint inspects the opaque upstream hint for known markers. The
// ID-card marker is checked first: an ID-card service type outranks any
// generic hint match.
func ClassifyHint(hint string) HintCategory {
	h := strings.ToLower(hint)
	switch {
	case h == "":
		return HintNone
	case strings.Contains(h, "id-card") || strings.Contains(h, "idcard") || strings.Contains(h, "id_card"):
		return HintIDCard
	case strings.Contains(h, "claim"):
		return HintClaims
	case strings.Contains(h, "benefit"):
		return HintBenefits
	default:
		return HintNone
	}
}

// ResolveQueue is a pure function; identical inputs always produce the same
// queue. Rules apply in strict priority order and the first match wins:
//
//  1. routing hint markers (ID-card > claims > benefits)
//  2. specialized carrier line of business
//  3. single-coverage membership (medical ineligible)
//  4. default queue
func ResolveQueue(elig *entity.UserEligibility, p *entity.Plan, hint string) QueueID {
	// Rule 1: the hint short-circuits every LOB rule.
	switch ClassifyHint(hint) {
	case HintIDCard:
		return QueueIDCard
	case HintClaims:
		return QueueClaims
	case HintBenefits:
		return QueueBenefits
	case HintNone:
		// fall through to LOB rules
	}

	// Rule 2: specialized carriers get their dedicated queue.
	switch lineOfBusiness(elig, p) {
	case entity.LOBBlueCare:
		return QueueBlueCare
	case entity.LOBSeniorCare:
		return QueueSeniorCare
	case entity.LOBMedical, entity.LOBDental, entity.LOBVision:
		// generic lines fall through to coverage rules
	}

	// Rule 3: single-coverage members route to the matching queue.
	if elig != nil && !elig.MedicalEligible {
		if elig.DentalEligible && !elig.VisionEligible {
			return QueueDentalOnly
		}
		if elig.VisionEligible && !elig.DentalEligible {
			return QueueVisionOnly
		}
	}

	return QueueDefault
}

// lineOfBusiness prefers the plan's line; the eligibility classifier is the
// fallback when no plan is bound.
func lineOfBusiness(elig *entity.UserEligibility, p *entity.Plan) entity.LineOfBusiness {
	if p != nil && p.LineOfBusiness != "" {
		return p.LineOfBusiness
	}
	if elig != nil {
		return elig.Classification
	}
	return ""
}
