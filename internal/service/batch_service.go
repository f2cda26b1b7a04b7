package service

import (
	"errors"
	"time"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"
	"go-farmbasket/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBatchNotFound   = errors.New("harvest batch not found")
	ErrNotYourFarm     = errors.New("batch belongs to another farm")
	ErrBatchReferenced = errors.New("batch has order items and cannot be deleted")
	ErrBadRemaining    = errors.New("remaining quantity must be between 0 and the batch quantity")
	ErrNoFarm          = errors.New("no farm registered for this account")
)

type BatchService interface {
	CreateBatch(farmerID uuid.UUID, req *model.HarvestBatch) (*model.HarvestBatch, error)
	UpdateBatch(farmerID, batchID uuid.UUID, req *UpdateBatchRequest) (*model.HarvestBatch, error)
	DeleteBatch(farmerID, batchID uuid.UUID) error
	GetBatch(id uuid.UUID) (*model.HarvestBatch, error)
	ListBatches(filter repository.BatchFilter) ([]BatchResponse, error)
	ListFarmBatches(farmerID uuid.UUID) ([]BatchResponse, error)
}

// UpdateBatchRequest carries farmer edits. Pointer fields distinguish
// "not sent" from zero.
type UpdateBatchRequest struct {
	HarvestDate *time.Time `json:"harvest_date"`
	QuantityKg  *float64   `json:"quantity_kg" validate:"omitempty,gt=0"`
	RemainingKg *float64   `json:"remaining_kg"`
	PricePerKg  *int64     `json:"price_per_kg" validate:"omitempty,gt=0"`
	Grade       *string    `json:"grade" validate:"omitempty,oneof=A B C"`
}

// BatchResponse decorates a batch with its derived freshness label.
type BatchResponse struct {
	model.HarvestBatch
	Freshness string `json:"freshness"`
}

type batchService struct {
	batchRepo repository.BatchRepository
	farmRepo  repository.FarmRepository
	db        *gorm.DB
	wsHub     *ws.Hub
}

func NewBatchService(batchRepo repository.BatchRepository, farmRepo repository.FarmRepository, db *gorm.DB, hub *ws.Hub) BatchService {
	return &batchService{
		batchRepo: batchRepo,
		farmRepo:  farmRepo,
		db:        db,
		wsHub:     hub,
	}
}

func (s *batchService) CreateBatch(farmerID uuid.UUID, req *model.HarvestBatch) (*model.HarvestBatch, error) {
	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return nil, ErrNoFarm
	}

	req.FarmID = farm.ID
	// A fresh batch always opens with the full picked quantity
	req.RemainingKg = req.QuantityKg
	if req.Grade == "" {
		req.Grade = "A"
	}

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var product model.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		return nil, errors.New("product not found")
	}
	req.Product = &product
	req.Status = req.DeriveStatus(time.Now())

	if err := s.batchRepo.Create(req); err != nil {
		return nil, err
	}

	s.wsHub.BroadcastStockUpdate(req.ID, req.RemainingKg, req.Status)
	return req, nil
}

func (s *batchService) UpdateBatch(farmerID, batchID uuid.UUID, req *UpdateBatchRequest) (*model.HarvestBatch, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.FindByID(batchID)
	if err != nil {
		return nil, ErrBatchNotFound
	}
	if err := s.assertOwnership(farmerID, batch); err != nil {
		return nil, err
	}

	if req.HarvestDate != nil {
		batch.HarvestDate = *req.HarvestDate
	}
	if req.PricePerKg != nil {
		batch.PricePerKg = *req.PricePerKg
	}
	if req.Grade != nil {
		batch.Grade = *req.Grade
	}
	if req.QuantityKg != nil {
		batch.QuantityKg = *req.QuantityKg
		// Quantity change without an explicit remaining value: clamp so the
		// invariant remaining <= quantity keeps holding
		if req.RemainingKg == nil && batch.RemainingKg > batch.QuantityKg {
			batch.RemainingKg = batch.QuantityKg
		}
	}
	if req.RemainingKg != nil {
		if *req.RemainingKg < 0 || *req.RemainingKg > batch.QuantityKg {
			return nil, ErrBadRemaining
		}
		batch.RemainingKg = *req.RemainingKg
	}

	batch.Status = batch.DeriveStatus(time.Now())

	if err := s.batchRepo.Update(batch); err != nil {
		return nil, err
	}

	s.wsHub.BroadcastStockUpdate(batch.ID, batch.RemainingKg, batch.Status)
	return batch, nil
}

// DeleteBatch removes a batch unless order items reference it. The check
// and the delete run in one transaction so a concurrent placement cannot
// slip a line item in between.
func (s *batchService) DeleteBatch(farmerID, batchID uuid.UUID) error {
	batch, err := s.batchRepo.FindByID(batchID)
	if err != nil {
		return ErrBatchNotFound
	}
	if err := s.assertOwnership(farmerID, batch); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		count, err := s.batchRepo.CountOrderItems(tx, batchID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrBatchReferenced
		}
		return s.batchRepo.Delete(tx, batchID)
	})
}

func (s *batchService) GetBatch(id uuid.UUID) (*model.HarvestBatch, error) {
	batch, err := s.batchRepo.FindByID(id)
	if err != nil {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}

func (s *batchService) ListBatches(filter repository.BatchFilter) ([]BatchResponse, error) {
	batches, err := s.batchRepo.Find(filter)
	if err != nil {
		return nil, err
	}
	return decorate(batches), nil
}

func (s *batchService) ListFarmBatches(farmerID uuid.UUID) ([]BatchResponse, error) {
	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return nil, ErrNoFarm
	}
	batches, err := s.batchRepo.Find(repository.BatchFilter{FarmID: farm.ID})
	if err != nil {
		return nil, err
	}
	return decorate(batches), nil
}

func (s *batchService) assertOwnership(farmerID uuid.UUID, batch *model.HarvestBatch) error {
	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return ErrNoFarm
	}
	if batch.FarmID != farm.ID {
		return ErrNotYourFarm
	}
	return nil
}

func decorate(batches []model.HarvestBatch) []BatchResponse {
	now := time.Now()
	responses := make([]BatchResponse, len(batches))
	for i, b := range batches {
		shelfLife := 7
		if b.Product != nil && b.Product.ShelfLifeDays > 0 {
			shelfLife = b.Product.ShelfLifeDays
		}
		responses[i] = BatchResponse{
			HarvestBatch: b,
			Freshness:    model.Freshness(b.HarvestDate, shelfLife, now),
		}
	}
	return responses
}
