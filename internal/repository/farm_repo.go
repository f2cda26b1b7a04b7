package repository

import (
	"go-farmbasket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FarmRepository interface {
	Create(farm *model.Farm) error
	FindByID(id uuid.UUID) (*model.Farm, error)
	FindByUser(userID uuid.UUID) (*model.Farm, error)
	FindAll() ([]model.Farm, error)
	Update(farm *model.Farm) error
	SetVerified(id uuid.UUID, verified bool) error
}

type farmRepo struct {
	db *gorm.DB
}

func NewFarmRepo(db *gorm.DB) FarmRepository {
	return &farmRepo{db}
}

func (r *farmRepo) Create(farm *model.Farm) error {
	return r.db.Create(farm).Error
}

func (r *farmRepo) FindByID(id uuid.UUID) (*model.Farm, error) {
	var farm model.Farm
	if err := r.db.First(&farm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

func (r *farmRepo) FindByUser(userID uuid.UUID) (*model.Farm, error) {
	var farm model.Farm
	if err := r.db.First(&farm, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

func (r *farmRepo) FindAll() ([]model.Farm, error) {
	var farms []model.Farm
	err := r.db.Order("created_at DESC").Find(&farms).Error
	return farms, err
}

func (r *farmRepo) Update(farm *model.Farm) error {
	return r.db.Save(farm).Error
}

func (r *farmRepo) SetVerified(id uuid.UUID, verified bool) error {
	result := r.db.Model(&model.Farm{}).Where("id = ?", id).Update("verified", verified)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
