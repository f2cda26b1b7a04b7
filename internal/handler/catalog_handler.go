package handler

import (
	"go-farmbasket/internal/model"
	"go-farmbasket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(categories)
}

// POST /api/v1/categories (admin)
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req model.Category
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.service.CreateCategory(&req); err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(req)
}

// GET /api/v1/products?category=<slug>
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.Query("category"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:slug
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.Params("slug"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(product)
}

// POST /api/v1/products (admin)
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.service.CreateProduct(&req); err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(req)
}

// PATCH /api/v1/products/:id (admin)
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	product, err := h.service.UpdateProduct(id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(product)
}

// DELETE /api/v1/products/:id (admin)
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// POST /api/v1/pending-products (farmer)
func (h *CatalogHandler) SubmitPendingProduct(c *fiber.Ctx) error {
	var req model.PendingProduct
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	pending, err := h.service.SubmitPendingProduct(getUserID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(pending)
}

// GET /api/v1/pending-products
// Admins see the open review queue, farmers see their own submissions.
func (h *CatalogHandler) ListPendingProducts(c *fiber.Ctx) error {
	if getUserRole(c) == model.RoleAdmin {
		pending, err := h.service.ListOpenPendingProducts()
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(pending)
	}
	pending, err := h.service.ListFarmPendingProducts(getUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(pending)
}

// POST /api/v1/pending-products/:id/approve (admin)
func (h *CatalogHandler) ApprovePendingProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid pending product ID"})
	}
	product, err := h.service.ApprovePendingProduct(getUserID(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(product)
}

// POST /api/v1/pending-products/:id/reject (admin)
func (h *CatalogHandler) RejectPendingProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid pending product ID"})
	}
	var body struct {
		Note string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.service.RejectPendingProduct(getUserID(c), id, body.Note); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Pending product rejected"})
}
