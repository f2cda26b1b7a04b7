package handler

import (
	"go-farmbasket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FarmHandler struct {
	service service.FarmService
}

func NewFarmHandler(s service.FarmService) *FarmHandler {
	return &FarmHandler{service: s}
}

// GET /api/v1/farms/me (farmer)
func (h *FarmHandler) GetMyFarm(c *fiber.Ctx) error {
	farm, err := h.service.GetMyFarm(getUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(farm)
}

// PATCH /api/v1/farms/me (farmer)
func (h *FarmHandler) UpdateMyFarm(c *fiber.Ctx) error {
	var req service.UpdateFarmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	farm, err := h.service.UpdateMyFarm(getUserID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(farm)
}

// GET /api/v1/farms (admin)
func (h *FarmHandler) ListFarms(c *fiber.Ctx) error {
	farms, err := h.service.ListFarms()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(farms)
}

// PATCH /api/v1/farms/:id/verify (admin)
func (h *FarmHandler) VerifyFarm(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid farm ID"})
	}
	var body struct {
		Verified bool `json:"verified"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	farm, err := h.service.SetVerified(id, body.Verified)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(farm)
}
