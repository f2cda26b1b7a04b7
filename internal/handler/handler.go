package handler

import (
	"errors"
	"log"

	"go-farmbasket/internal/middleware"
	"go-farmbasket/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull user info from the request context (set by RequireAuth)

func getUserID(c *fiber.Ctx) uuid.UUID {
	raw, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func getUserEmail(c *fiber.Ctx) string {
	email, ok := c.Locals(middleware.LocalEmail).(string)
	if !ok {
		return ""
	}
	return email
}

func getUserRole(c *fiber.Ctx) string {
	role, ok := c.Locals(middleware.LocalRole).(string)
	if !ok {
		return ""
	}
	return role
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// serviceError maps service sentinel errors onto HTTP statuses. Unknown
// errors become an opaque 500; internal error text never reaches clients.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrBatchNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrPendingNotFound),
		errors.Is(err, service.ErrFarmNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrNotYourFarm),
		errors.Is(err, service.ErrNotYourOrder),
		errors.Is(err, service.ErrNotYourAddress),
		errors.Is(err, service.ErrBadInviteCode):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrBadTransition),
		errors.Is(err, service.ErrBatchReferenced),
		errors.Is(err, service.ErrPendingClosed),
		errors.Is(err, service.ErrProductHasBatches),
		errors.Is(err, service.ErrSlugExists),
		errors.Is(err, service.ErrEmailExists):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrBadRemaining),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrNoFarm),
		errors.Is(err, service.ErrAddressInUse):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return c.Status(400).JSON(fiber.Map{"error": ve.Error()})
	}

	log.Printf("unhandled service error: %v", err)
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}
