package handler

import (
	"go-farmbasket/internal/model"
	"go-farmbasket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GET /api/v1/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(getUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profile)
}

// PATCH /api/v1/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	profile, err := h.service.UpdateProfile(getUserID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profile)
}

// GET /api/v1/users (admin)
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(users)
}

// GET /api/v1/addresses
func (h *UserHandler) ListAddresses(c *fiber.Ctx) error {
	addresses, err := h.service.ListAddresses(getUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(addresses)
}

// POST /api/v1/addresses
func (h *UserHandler) CreateAddress(c *fiber.Ctx) error {
	var req model.Address
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	address, err := h.service.CreateAddress(getUserID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(address)
}

// PATCH /api/v1/addresses/:id
func (h *UserHandler) UpdateAddress(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid address ID"})
	}
	var req model.Address
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	address, err := h.service.UpdateAddress(getUserID(c), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(address)
}

// DELETE /api/v1/addresses/:id
func (h *UserHandler) DeleteAddress(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid address ID"})
	}
	if err := h.service.DeleteAddress(getUserID(c), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Address deleted"})
}
