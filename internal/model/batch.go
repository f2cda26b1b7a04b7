package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch status values. Status is always derived from remaining stock and
// harvest age, never accepted from a request body.
const (
	BatchAvailable = "available"
	BatchLowStock  = "low_stock"
	BatchSoldOut   = "sold_out"
	BatchExpired   = "expired"
)

// LowStockThresholdKg is the remaining quantity under which a batch is
// flagged low_stock on the storefront.
const LowStockThresholdKg = 5.0

// HarvestBatch is one dated, picked lot of one product from one farm.
// Remaining stock is tracked per batch; the storefront sells batches, not
// products. Invariant: 0 <= remaining_kg <= quantity_kg.
type HarvestBatch struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product     *Product  `json:"product,omitempty" validate:"-"`
	FarmID      uuid.UUID `gorm:"type:uuid;not null;index" json:"farm_id"`
	Farm        *Farm     `json:"farm,omitempty" validate:"-"`
	HarvestDate time.Time `gorm:"type:date;not null;index" json:"harvest_date" validate:"required"`
	QuantityKg  float64   `gorm:"not null" json:"quantity_kg" validate:"required,gt=0"`
	RemainingKg float64   `gorm:"not null" json:"remaining_kg"`
	PricePerKg  int64     `gorm:"not null" json:"price_per_kg" validate:"required,gt=0"` // Minor currency units
	Grade       string    `gorm:"type:varchar(2);default:'A'" json:"grade" validate:"omitempty,oneof=A B C"`
	Status      string    `gorm:"type:varchar(20);default:'available';index" json:"status"`
}

// DeriveStatus recomputes the display status from remaining stock and
// harvest age at the given instant.
func (b *HarvestBatch) DeriveStatus(now time.Time) string {
	shelfLife := 7
	if b.Product != nil && b.Product.ShelfLifeDays > 0 {
		shelfLife = b.Product.ShelfLifeDays
	}
	return DeriveBatchStatus(b.RemainingKg, b.HarvestDate, shelfLife, now)
}

// DeriveBatchStatus is the status rule shared by batch mutations and the
// bulk status refresh: sold out beats expired beats low stock.
func DeriveBatchStatus(remainingKg float64, harvestDate time.Time, shelfLifeDays int, now time.Time) string {
	if remainingKg <= 0 {
		return BatchSoldOut
	}
	if DaysSinceHarvest(harvestDate, now) > shelfLifeDays {
		return BatchExpired
	}
	if remainingKg < LowStockThresholdKg {
		return BatchLowStock
	}
	return BatchAvailable
}

// DaysSinceHarvest counts whole calendar days between the harvest date and
// now, in now's location. Same-day harvest is 0 days.
func DaysSinceHarvest(harvestDate, now time.Time) int {
	y1, m1, d1 := harvestDate.Date()
	y2, m2, d2 := now.Date()
	start := time.Date(y1, m1, d1, 0, 0, 0, 0, now.Location())
	end := time.Date(y2, m2, d2, 0, 0, 0, 0, now.Location())
	return int(end.Sub(start).Hours() / 24)
}
