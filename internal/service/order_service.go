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
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrAddressNotFound   = errors.New("shipping address not found")
	ErrNotYourAddress    = errors.New("shipping address belongs to another account")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrOrderNotFound     = errors.New("order not found")
	ErrBadTransition     = errors.New("illegal order status transition")
	ErrNotYourOrder      = errors.New("order belongs to another account")
)

type OrderService interface {
	PlaceOrder(customerID uuid.UUID, req *PlaceOrderRequest) (*model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	ListAllOrders() ([]model.Order, error)
	ListCustomerOrders(customerID uuid.UUID) ([]model.Order, error)
	ListFarmOrders(farmerID uuid.UUID) ([]model.Order, error)
	UpdateStatus(orderID uuid.UUID, to model.OrderStatus) (*model.Order, error)
	FarmerUpdateStatus(farmerID, orderID uuid.UUID, to model.OrderStatus) (*model.Order, error)
	CancelOwnOrder(customerID, orderID uuid.UUID) (*model.Order, error)
}

type PlaceOrderRequest struct {
	AddressID uuid.UUID          `json:"address_id" validate:"uuid_required"`
	Items     []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Note      string             `json:"note"`
}

// OrderItemRequest names a batch and a quantity. Prices are looked up
// server-side; anything the client claims about money is ignored.
type OrderItemRequest struct {
	BatchID    uuid.UUID `json:"batch_id" validate:"uuid_required"`
	QuantityKg float64   `json:"quantity_kg" validate:"required,gt=0"`
}

type orderService struct {
	orderRepo   repository.OrderRepository
	batchRepo   repository.BatchRepository
	addressRepo repository.AddressRepository
	farmRepo    repository.FarmRepository
	db          *gorm.DB
	wsHub       *ws.Hub
	deliveryFee int64
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	batchRepo repository.BatchRepository,
	addressRepo repository.AddressRepository,
	farmRepo repository.FarmRepository,
	db *gorm.DB,
	hub *ws.Hub,
	deliveryFee int64,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		batchRepo:   batchRepo,
		addressRepo: addressRepo,
		farmRepo:    farmRepo,
		db:          db,
		wsHub:       hub,
		deliveryFee: deliveryFee,
	}
}

// PlaceOrder atomically creates the order with its line items and decrements
// remaining stock on every referenced batch. Stock sufficiency is checked by
// the decrement statement itself (RowsAffected), inside the same transaction
// as the order insert, so a concurrent order for the last kilos makes
// exactly one of the two placements fail and roll back with no partial
// writes.
func (s *orderService) PlaceOrder(customerID uuid.UUID, req *PlaceOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	address, err := s.addressRepo.FindByID(req.AddressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}
	if address.UserID != customerID {
		return nil, ErrNotYourAddress
	}

	order := &model.Order{
		OrderNumber: model.NewOrderNumber(time.Now()),
		UserID:      customerID,
		AddressID:   address.ID,
		Status:      model.OrderPending,
		DeliveryFee: s.deliveryFee,
		Note:        req.Note,
	}

	farmIDs := map[uuid.UUID]bool{}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var subtotal int64
		items := make([]model.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			var batch model.HarvestBatch
			if err := tx.Preload("Product").First(&batch, "id = ?", item.BatchID).Error; err != nil {
				return ErrBatchNotFound
			}

			ok, err := s.batchRepo.DecrementStock(tx, batch.ID, item.QuantityKg)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock
			}

			// Price and name snapshots come from the batch row, never from
			// the request
			lineTotal := int64(float64(batch.PricePerKg) * item.QuantityKg)
			productName := ""
			if batch.Product != nil {
				productName = batch.Product.Name
			}
			items = append(items, model.OrderItem{
				BatchID:     batch.ID,
				FarmID:      batch.FarmID,
				ProductName: productName,
				QuantityKg:  item.QuantityKg,
				PricePerKg:  batch.PricePerKg,
				LineTotal:   lineTotal,
			})
			subtotal += lineTotal
			farmIDs[batch.FarmID] = true

			// Refresh the display status from the stored post-decrement
			// stock. The pre-update read is stale when placements race.
			err = tx.Model(&model.HarvestBatch{}).Select("remaining_kg").
				Where("id = ?", batch.ID).Scan(&batch.RemainingKg).Error
			if err != nil {
				return err
			}
			if err := s.batchRepo.SetStatus(tx, batch.ID, batch.DeriveStatus(time.Now())); err != nil {
				return err
			}
		}

		order.Items = items
		order.Subtotal = subtotal
		order.Total = subtotal + order.DeliveryFee - order.Discount

		return s.orderRepo.Create(tx, order)
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(farmIDs))
	for id := range farmIDs {
		ids = append(ids, id)
	}
	s.wsHub.BroadcastOrderPlaced(order.OrderNumber, ids, order.Total)

	return order, nil
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListAllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) ListCustomerOrders(customerID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.FindByUser(customerID)
}

func (s *orderService) ListFarmOrders(farmerID uuid.UUID) ([]model.Order, error) {
	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return nil, ErrNoFarm
	}
	return s.orderRepo.FindByFarm(farm.ID)
}

// UpdateStatus applies any legal transition. Admin path.
func (s *orderService) UpdateStatus(orderID uuid.UUID, to model.OrderStatus) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return s.transition(order, to)
}

// FarmerUpdateStatus lets a farmer move an order containing their items from
// confirmed to shipping. Anything else stays admin-only.
func (s *orderService) FarmerUpdateStatus(farmerID, orderID uuid.UUID, to model.OrderStatus) (*model.Order, error) {
	if to != model.OrderShipping {
		return nil, ErrBadTransition
	}

	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return nil, ErrNoFarm
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	involved := false
	for _, item := range order.Items {
		if item.FarmID == farm.ID {
			involved = true
			break
		}
	}
	if !involved {
		return nil, ErrNotYourOrder
	}

	return s.transition(order, to)
}

// CancelOwnOrder lets the customer cancel while the order is still
// cancellable. Stock is restored for every line item.
func (s *orderService) CancelOwnOrder(customerID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != customerID {
		return nil, ErrNotYourOrder
	}
	return s.transition(order, model.OrderCancelled)
}

func (s *orderService) transition(order *model.Order, to model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(to) || !model.CanTransition(order.Status, to) {
		return nil, ErrBadTransition
	}

	if to == model.OrderCancelled {
		if err := s.restock(order); err != nil {
			return nil, err
		}
	} else if err := s.orderRepo.SetStatus(order.ID, to); err != nil {
		return nil, err
	}

	order.Status = to
	return order, nil
}

// restock returns cancelled quantities to their batches, capped at the
// original batch quantity, together with the status write.
func (s *orderService) restock(order *model.Order) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			err := tx.Model(&model.HarvestBatch{}).
				Where("id = ?", item.BatchID).
				Update("remaining_kg", gorm.Expr(
					"CASE WHEN remaining_kg + ? > quantity_kg THEN quantity_kg ELSE remaining_kg + ? END",
					item.QuantityKg, item.QuantityKg)).Error
			if err != nil {
				return err
			}

			var batch model.HarvestBatch
			if err := tx.Preload("Product").First(&batch, "id = ?", item.BatchID).Error; err != nil {
				continue // Batch deleted since; nothing to restock
			}
			if err := s.batchRepo.SetStatus(tx, batch.ID, batch.DeriveStatus(time.Now())); err != nil {
				return err
			}
		}
		return tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Update("status", model.OrderCancelled).Error
	})
}
