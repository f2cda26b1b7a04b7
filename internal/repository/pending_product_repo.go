package repository

import (
	"go-farmbasket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PendingProductRepository interface {
	Create(pending *model.PendingProduct) error
	FindByID(id uuid.UUID) (*model.PendingProduct, error)
	FindOpen() ([]model.PendingProduct, error)
	FindByFarm(farmID uuid.UUID) ([]model.PendingProduct, error)
	Update(pending *model.PendingProduct) error
}

type pendingProductRepo struct {
	db *gorm.DB
}

func NewPendingProductRepo(db *gorm.DB) PendingProductRepository {
	return &pendingProductRepo{db}
}

func (r *pendingProductRepo) Create(pending *model.PendingProduct) error {
	return r.db.Create(pending).Error
}

func (r *pendingProductRepo) FindByID(id uuid.UUID) (*model.PendingProduct, error) {
	var pending model.PendingProduct
	if err := r.db.Preload("Farm").First(&pending, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *pendingProductRepo) FindOpen() ([]model.PendingProduct, error) {
	var pendings []model.PendingProduct
	err := r.db.Preload("Farm").Where("status = ?", model.PendingStatusOpen).Order("created_at ASC").Find(&pendings).Error
	return pendings, err
}

func (r *pendingProductRepo) FindByFarm(farmID uuid.UUID) ([]model.PendingProduct, error) {
	var pendings []model.PendingProduct
	err := r.db.Where("farm_id = ?", farmID).Order("created_at DESC").Find(&pendings).Error
	return pendings, err
}

func (r *pendingProductRepo) Update(pending *model.PendingProduct) error {
	return r.db.Save(pending).Error
}
