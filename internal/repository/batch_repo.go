package repository

import (
	"go-farmbasket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchFilter narrows storefront batch listings.
type BatchFilter struct {
	ProductID     uuid.UUID
	FarmID        uuid.UUID
	OnlyAvailable bool
}

type BatchRepository interface {
	Create(batch *model.HarvestBatch) error
	FindByID(id uuid.UUID) (*model.HarvestBatch, error)
	Find(filter BatchFilter) ([]model.HarvestBatch, error)
	Update(batch *model.HarvestBatch) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantityKg float64) (bool, error)
	SetStatus(tx *gorm.DB, id uuid.UUID, status string) error
	CountOrderItems(tx *gorm.DB, id uuid.UUID) (int64, error)
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

func (r *batchRepo) Create(batch *model.HarvestBatch) error {
	return r.db.Create(batch).Error
}

func (r *batchRepo) FindByID(id uuid.UUID) (*model.HarvestBatch, error) {
	var batch model.HarvestBatch
	err := r.db.Preload("Product").Preload("Product.Category").Preload("Farm").First(&batch, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// Find lists batches freshest first.
func (r *batchRepo) Find(filter BatchFilter) ([]model.HarvestBatch, error) {
	var batches []model.HarvestBatch
	query := r.db.Preload("Product").Preload("Farm")
	if filter.ProductID != uuid.Nil {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.FarmID != uuid.Nil {
		query = query.Where("farm_id = ?", filter.FarmID)
	}
	if filter.OnlyAvailable {
		query = query.Where("status IN ?", []string{model.BatchAvailable, model.BatchLowStock})
	}
	err := query.Order("harvest_date DESC, created_at DESC").Find(&batches).Error
	return batches, err
}

func (r *batchRepo) Update(batch *model.HarvestBatch) error {
	return r.db.Save(batch).Error
}

func (r *batchRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.HarvestBatch{}, "id = ?", id).Error
}

// DecrementStock applies a guarded decrement in one statement. The stock
// check and the write are the same UPDATE, so two concurrent orders cannot
// both pass the check and over-sell: RowsAffected == 0 means the batch is
// missing or short on stock.
func (r *batchRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantityKg float64) (bool, error) {
	result := tx.Model(&model.HarvestBatch{}).
		Where("id = ? AND remaining_kg >= ?", id, quantityKg).
		Update("remaining_kg", gorm.Expr("remaining_kg - ?", quantityKg))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *batchRepo) SetStatus(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.HarvestBatch{}).Where("id = ?", id).Update("status", status).Error
}

// CountOrderItems counts line items referencing the batch, inside the
// caller's transaction so the delete guard cannot race a placement.
func (r *batchRepo) CountOrderItems(tx *gorm.DB, id uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.OrderItem{}).Where("batch_id = ?", id).Count(&count).Error
	return count, err
}
