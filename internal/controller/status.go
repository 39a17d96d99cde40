package controller

import (
	"errors"

	"member-chat-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps the core's typed errors onto HTTP statuses. Everything is
// recoverable; nothing here is allowed to take the portal down.
func statusFor(err error) int {
	var (
		validation  *dto.ValidationError
		unavailable *dto.ChatUnavailableError
		locked      *dto.PlanLockedError
		unknownPlan *dto.UnknownPlanError
		badState    *dto.InvalidStateError
		backend     *dto.SessionBackendError
		missing     *dto.MemberContextMissingError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &unknownPlan):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &locked):
		return fiber.StatusConflict
	case errors.As(err, &badState):
		return fiber.StatusConflict
	case errors.As(err, &unavailable):
		return fiber.StatusConflict
	case errors.As(err, &missing):
		return fiber.StatusNotFound
	case errors.As(err, &backend):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
