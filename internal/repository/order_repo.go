package repository

import (
	"time"

	"go-farmbasket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uuid.UUID) (*model.Order, error)
	FindAll() ([]model.Order, error)
	FindByUser(userID uuid.UUID) ([]model.Order, error)
	FindByFarm(farmID uuid.UUID) ([]model.Order, error)
	SetStatus(id uuid.UUID, status model.OrderStatus) error
	GetDashboardStats() (*DashboardStats, error)
	GetSalesMovement(startDate, endDate time.Time) ([]SalesMovementData, error)
}

// SalesMovementData is one point of the orders-per-day chart.
type SalesMovementData struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	KgSold  float64 `json:"kg_sold"`
	Revenue int64   `json:"revenue"`
}

// DashboardStats is the admin console overview.
type DashboardStats struct {
	TotalProducts   int64 `json:"total_products"`
	OpenBatches     int64 `json:"open_batches"`
	LowStockBatches int64 `json:"low_stock_batches"`
	PendingOrders   int64 `json:"pending_orders"`
	TotalRevenue    int64 `json:"total_revenue"`
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

// Create writes the order with its items inside the caller's transaction.
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Preload("Items.Batch.Farm").Preload("Address").Preload("User").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Preload("User").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByUser(userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Preload("Address").
		Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// FindByFarm returns orders that contain at least one line item from the
// farm. Farmers see whole orders so they can coordinate mixed deliveries.
func (r *orderRepo) FindByFarm(farmID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Preload("Address").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.farm_id = ?", farmID).
		Distinct().
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) SetStatus(id uuid.UUID, status model.OrderStatus) error {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.HarvestBatch{}).Where("remaining_kg > 0").Count(&stats.OpenBatches)
	r.db.Model(&model.HarvestBatch{}).Where("status = ?", model.BatchLowStock).Count(&stats.LowStockBatches)
	r.db.Model(&model.Order{}).Where("status = ?", model.OrderPending).Count(&stats.PendingOrders)
	r.db.Model(&model.Order{}).Where("status <> ?", model.OrderCancelled).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.TotalRevenue)

	return &stats, nil
}

func (r *orderRepo) GetSalesMovement(startDate, endDate time.Time) ([]SalesMovementData, error) {
	var results []SalesMovementData

	rows, err := r.db.Model(&model.Order{}).
		Select(`
			DATE(orders.created_at) as date,
			COUNT(DISTINCT orders.id) as orders,
			COALESCE(SUM(order_items.quantity_kg), 0) as kg_sold,
			COALESCE(SUM(order_items.line_total), 0) as revenue
		`).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.created_at BETWEEN ? AND ?", startDate, endDate).
		Where("orders.status <> ?", model.OrderCancelled).
		Group("DATE(orders.created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesMovementData
		if err := rows.Scan(&data.Date, &data.Orders, &data.KgSold, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
