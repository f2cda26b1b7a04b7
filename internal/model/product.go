package model

import "github.com/google/uuid"

// Category groups products on the storefront (leafy greens, roots, ...)
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug" validate:"required"`
	Description string `gorm:"type:text" json:"description"`

	Products []Product `json:"products,omitempty"`
}

// Product is a catalogue entry. Stock lives entirely on harvest batches;
// a product with no open batches is simply not purchasable.
type Product struct {
	BaseModel
	CategoryID    uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category      *Category `json:"category,omitempty" validate:"-"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Slug          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required"`
	Description   string    `gorm:"type:text" json:"description"`
	Unit          string    `gorm:"type:varchar(20);default:'kg'" json:"unit"`
	ImageURL      string    `gorm:"type:varchar(512)" json:"image_url"`
	ShelfLifeDays int       `gorm:"default:7" json:"shelf_life_days" validate:"gt=0"`

	Batches []HarvestBatch `json:"batches,omitempty"`
}

// Pending product review states
const (
	PendingStatusOpen     = "pending"
	PendingStatusApproved = "approved"
	PendingStatusRejected = "rejected"
)

// PendingProduct is a farmer's proposal for a catalogue entry that does not
// exist yet. Admin approval turns it into a real Product.
type PendingProduct struct {
	BaseModel
	FarmID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"farm_id" validate:"uuid_required"`
	Farm          *Farm      `json:"farm,omitempty" validate:"-"`
	CategoryID    uuid.UUID  `gorm:"type:uuid;not null" json:"category_id" validate:"uuid_required"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description   string     `gorm:"type:text" json:"description"`
	ShelfLifeDays int        `gorm:"default:7" json:"shelf_life_days"`
	Status        string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ReviewedBy    *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewNote    string     `gorm:"type:text" json:"review_note"`
}
