package handler

import (
	"go-farmbasket/internal/model"
	"go-farmbasket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// PlaceOrder runs the atomic placement transaction
// POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.PlaceOrder(getUserID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order placed", "data": order})
}

// ListOrders is role-filtered: customers see their own orders, farmers see
// orders touching their farm, admins see everything
// GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	var (
		orders []model.Order
		err    error
	)

	switch getUserRole(c) {
	case model.RoleAdmin:
		orders, err = h.service.ListAllOrders()
	case model.RoleFarmer:
		orders, err = h.service.ListFarmOrders(getUserID(c))
	default:
		orders, err = h.service.ListCustomerOrders(getUserID(c))
	}
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(orders)
}

// GetOrder returns one order; non-admins only see orders they own or supply
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		return serviceError(c, err)
	}

	switch getUserRole(c) {
	case model.RoleAdmin:
	case model.RoleFarmer:
		userID := getUserID(c)
		supplies := false
		for _, item := range order.Items {
			if item.Batch != nil && item.Batch.Farm != nil && item.Batch.Farm.UserID == userID {
				supplies = true
				break
			}
		}
		if !supplies {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden"})
		}
	default:
		if order.UserID != getUserID(c) {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden"})
		}
	}

	return c.JSON(order)
}

// UpdateStatusRequest carries the target status only; everything else about
// the order is immutable after placement.
type UpdateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateStatus applies a status transition with per-role rules
// PATCH /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	var order *model.Order
	switch getUserRole(c) {
	case model.RoleAdmin:
		order, err = h.service.UpdateStatus(id, req.Status)
	case model.RoleFarmer:
		order, err = h.service.FarmerUpdateStatus(getUserID(c), id, req.Status)
	default:
		if req.Status != model.OrderCancelled {
			return c.Status(403).JSON(fiber.Map{"error": "Customers may only cancel orders"})
		}
		order, err = h.service.CancelOwnOrder(getUserID(c), id)
	}
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Order status updated", "data": order})
}
