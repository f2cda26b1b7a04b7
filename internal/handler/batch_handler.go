package handler

import (
	"errors"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"
	"go-farmbasket/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BatchHandler struct {
	service       service.BatchService
	importService service.BatchImportService
}

func NewBatchHandler(s service.BatchService, importService service.BatchImportService) *BatchHandler {
	return &BatchHandler{service: s, importService: importService}
}

// ListBatches is the storefront listing, freshest first
// GET /api/v1/batches?product=<uuid>&farm=<uuid>&available=true
func (h *BatchHandler) ListBatches(c *fiber.Ctx) error {
	filter := repository.BatchFilter{
		OnlyAvailable: c.QueryBool("available", false),
	}
	if raw := c.Query("product"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		filter.ProductID = id
	}
	if raw := c.Query("farm"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid farm ID"})
		}
		filter.FarmID = id
	}

	batches, err := h.service.ListBatches(filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(batches)
}

// GetBatch returns one batch with product and farm preloaded
// GET /api/v1/batches/:id
func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	batch, err := h.service.GetBatch(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(batch)
}

// ListMyBatches returns every batch on the farmer's own farm, sold out and
// expired ones included
// GET /api/v1/farms/me/batches
func (h *BatchHandler) ListMyBatches(c *fiber.Ctx) error {
	batches, err := h.service.ListFarmBatches(getUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(batches)
}

// CreateBatch opens a new lot for the farmer's own farm
// POST /api/v1/batches
func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var batch model.HarvestBatch
	if err := c.BodyParser(&batch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	created, err := h.service.CreateBatch(getUserID(c), &batch)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Batch created", "data": created})
}

// UpdateBatch edits a farmer's own batch
// PATCH /api/v1/batches/:id
func (h *BatchHandler) UpdateBatch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	var req service.UpdateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateBatch(getUserID(c), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Batch updated", "data": updated})
}

// DeleteBatch removes a batch with no order items
// DELETE /api/v1/batches/:id
func (h *BatchHandler) DeleteBatch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid batch ID"})
	}

	if err := h.service.DeleteBatch(getUserID(c), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Batch deleted"})
}

// ImportBatches creates batches in bulk from an uploaded xlsx price list
// POST /api/v1/batches/import (multipart, field "file")
func (h *BatchHandler) ImportBatches(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing file upload"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Cannot open uploaded file"})
	}
	defer file.Close()

	summary, err := h.importService.ImportBatches(getUserID(c), file)
	if err != nil {
		if errors.Is(err, service.ErrNoFarm) {
			return serviceError(c, err)
		}
		// Parse failures describe the uploaded file, safe to surface
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}
