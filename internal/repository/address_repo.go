package repository

import (
	"go-farmbasket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.Address) error
	FindByID(id uuid.UUID) (*model.Address, error)
	FindByUser(userID uuid.UUID) ([]model.Address, error)
	Update(address *model.Address) error
	Delete(id uuid.UUID) error
	ClearDefault(userID uuid.UUID) error
	CountOpenOrders(id uuid.UUID) (int64, error)
}

type addressRepo struct {
	db *gorm.DB
}

func NewAddressRepo(db *gorm.DB) AddressRepository {
	return &addressRepo{db}
}

func (r *addressRepo) Create(address *model.Address) error {
	return r.db.Create(address).Error
}

func (r *addressRepo) FindByID(id uuid.UUID) (*model.Address, error) {
	var address model.Address
	if err := r.db.First(&address, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepo) FindByUser(userID uuid.UUID) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("user_id = ?", userID).Order("is_default DESC, created_at DESC").Find(&addresses).Error
	return addresses, err
}

func (r *addressRepo) Update(address *model.Address) error {
	return r.db.Save(address).Error
}

func (r *addressRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Address{}, "id = ?", id).Error
}

// CountOpenOrders counts undelivered orders shipping to the address.
// Delivered and cancelled orders keep the (soft-deleted) row for history.
func (r *addressRepo) CountOpenOrders(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("address_id = ? AND status IN ?", id,
			[]model.OrderStatus{model.OrderPending, model.OrderConfirmed, model.OrderShipping}).
		Count(&count).Error
	return count, err
}

// ClearDefault unsets the default flag on all of a user's addresses, so a
// new default can be set without two rows claiming it.
func (r *addressRepo) ClearDefault(userID uuid.UUID) error {
	return r.db.Model(&model.Address{}).Where("user_id = ?", userID).Update("is_default", false).Error
}
