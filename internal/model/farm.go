package model

import "github.com/google/uuid"

// Farm is the selling profile of a farmer account. One farm per farmer.
type Farm struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	Contact     string    `gorm:"type:varchar(100)" json:"contact"`
	Verified    bool      `gorm:"default:false" json:"verified"` // Set by admin review

	Batches []HarvestBatch `json:"batches,omitempty"`
}
