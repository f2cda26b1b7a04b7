package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"go-farmbasket/internal/model"
)

const testDeliveryFee = int64(15000)

func TestPlaceOrderDecrementsStockAcrossFarms(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	address := createAddress(t, db, customer.ID)
	_, farmA := createFarmer(t, db, "farmer-a@example.com", "Green Valley")
	_, farmB := createFarmer(t, db, "farmer-b@example.com", "Hilltop")
	spinach := createProduct(t, db, "Spinach", 5)
	carrot := createProduct(t, db, "Carrot", 14)
	batchA := createBatch(t, db, spinach, farmA, 20, 12000)
	batchB := createBatch(t, db, carrot, farmB, 50, 8000)

	order, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: address.ID,
		Items: []OrderItemRequest{
			{BatchID: batchA.ID, QuantityKg: 2.5},
			{BatchID: batchB.ID, QuantityKg: 10},
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("order number %q missing ORD- prefix", order.OrderNumber)
	}
	if order.Status != model.OrderPending {
		t.Errorf("new order status = %q, want pending", order.Status)
	}

	// Totals are computed from batch prices, never from the request
	wantSubtotal := int64(2.5*12000) + int64(10*8000)
	if order.Subtotal != wantSubtotal {
		t.Errorf("subtotal = %d, want %d", order.Subtotal, wantSubtotal)
	}
	if order.Total != wantSubtotal+testDeliveryFee {
		t.Errorf("total = %d, want %d", order.Total, wantSubtotal+testDeliveryFee)
	}

	// Line items snapshot name and price at purchase time
	if len(order.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(order.Items))
	}
	if order.Items[0].ProductName != "Spinach" || order.Items[0].PricePerKg != 12000 {
		t.Errorf("item snapshot = %q/%d, want Spinach/12000",
			order.Items[0].ProductName, order.Items[0].PricePerKg)
	}

	var gotA, gotB model.HarvestBatch
	db.First(&gotA, "id = ?", batchA.ID)
	db.First(&gotB, "id = ?", batchB.ID)
	if gotA.RemainingKg != 17.5 {
		t.Errorf("batch A remaining = %v, want 17.5", gotA.RemainingKg)
	}
	if gotB.RemainingKg != 40 {
		t.Errorf("batch B remaining = %v, want 40", gotB.RemainingKg)
	}
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	address := createAddress(t, db, customer.ID)
	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	carrot := createProduct(t, db, "Carrot", 14)
	okBatch := createBatch(t, db, spinach, farm, 20, 12000)
	shortBatch := createBatch(t, db, carrot, farm, 3, 8000)

	_, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: address.ID,
		Items: []OrderItemRequest{
			{BatchID: okBatch.ID, QuantityKg: 5},
			{BatchID: shortBatch.ID, QuantityKg: 10},
		},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The decrement on the first batch must have rolled back with the order
	var got model.HarvestBatch
	db.First(&got, "id = ?", okBatch.ID)
	if got.RemainingKg != 20 {
		t.Errorf("first batch remaining = %v after rollback, want 20", got.RemainingKg)
	}

	var orders, items int64
	db.Model(&model.Order{}).Count(&orders)
	db.Model(&model.OrderItem{}).Count(&items)
	if orders != 0 || items != 0 {
		t.Errorf("found %d orders and %d items after failed placement, want none", orders, items)
	}
}

func TestPlaceOrderLastKilosOnlyOneSucceeds(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	customerA := createCustomer(t, db, "a@example.com")
	addressA := createAddress(t, db, customerA.ID)
	customerB := createCustomer(t, db, "b@example.com")
	addressB := createAddress(t, db, customerB.ID)

	var wg sync.WaitGroup
	results := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = svc.PlaceOrder(customerA.ID, &PlaceOrderRequest{
			AddressID: addressA.ID,
			Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 8}},
		})
	}()
	go func() {
		defer wg.Done()
		_, results[1] = svc.PlaceOrder(customerB.ID, &PlaceOrderRequest{
			AddressID: addressB.ID,
			Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 8}},
		})
	}()
	wg.Wait()

	succeeded, failed := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientStock):
			failed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || failed != 1 {
		t.Fatalf("got %d successes and %d stock failures, want exactly 1 and 1", succeeded, failed)
	}

	var got model.HarvestBatch
	db.First(&got, "id = ?", batch.ID)
	if got.RemainingKg != 2 {
		t.Errorf("remaining = %v, want 2", got.RemainingKg)
	}
}

func TestConcurrentPlacementsPersistExactStatus(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	customerA := createCustomer(t, db, "a@example.com")
	addressA := createAddress(t, db, customerA.ID)
	customerB := createCustomer(t, db, "b@example.com")
	addressB := createAddress(t, db, customerB.ID)

	// Each order alone leaves the batch above the low-stock threshold;
	// together they drop it below. The persisted status must reflect the
	// stored stock, not either placement's pre-decrement read.
	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = svc.PlaceOrder(customerA.ID, &PlaceOrderRequest{
			AddressID: addressA.ID,
			Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 3}},
		})
	}()
	go func() {
		defer wg.Done()
		_, results[1] = svc.PlaceOrder(customerB.ID, &PlaceOrderRequest{
			AddressID: addressB.ID,
			Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 3}},
		})
	}()
	wg.Wait()

	for i, err := range results {
		if err != nil {
			t.Fatalf("placement %d failed: %v", i, err)
		}
	}

	var got model.HarvestBatch
	if err := db.First(&got, "id = ?", batch.ID).Error; err != nil {
		t.Fatalf("reload batch: %v", err)
	}
	if got.RemainingKg != 4 {
		t.Fatalf("remaining = %v, want 4", got.RemainingKg)
	}
	if got.Status != model.BatchLowStock {
		t.Errorf("status = %q, want low_stock", got.Status)
	}
}

func TestPlaceOrderFullQuantityMarksSoldOut(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	address := createAddress(t, db, customer.ID)
	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	_, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: address.ID,
		Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 10}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	var got model.HarvestBatch
	db.First(&got, "id = ?", batch.ID)
	if got.RemainingKg != 0 {
		t.Errorf("remaining = %v, want 0", got.RemainingKg)
	}
	if got.Status != model.BatchSoldOut {
		t.Errorf("status = %q, want sold_out", got.Status)
	}
}

func TestPlaceOrderRejectsForeignAddress(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	other := createCustomer(t, db, "other@example.com")
	foreignAddress := createAddress(t, db, other.ID)
	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	_, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: foreignAddress.ID,
		Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 1}},
	})
	if !errors.Is(err, ErrNotYourAddress) {
		t.Fatalf("err = %v, want ErrNotYourAddress", err)
	}
}

func TestPlaceOrderEmptyItems(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	address := createAddress(t, db, customer.ID)

	_, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{AddressID: address.ID})
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("err = %v, want ErrEmptyOrder", err)
	}
}

func TestUpdateStatusWalksTheLifecycle(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	address := createAddress(t, db, customer.ID)
	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	order, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: address.ID,
		Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 2}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	for _, next := range []model.OrderStatus{model.OrderConfirmed, model.OrderShipping, model.OrderDelivered} {
		updated, err := svc.UpdateStatus(order.ID, next)
		if err != nil {
			t.Fatalf("UpdateStatus to %s failed: %v", next, err)
		}
		if updated.Status != next {
			t.Errorf("status = %q, want %q", updated.Status, next)
		}
	}

	// Delivered is terminal
	if _, err := svc.UpdateStatus(order.ID, model.OrderCancelled); !errors.Is(err, ErrBadTransition) {
		t.Errorf("cancel after delivery: err = %v, want ErrBadTransition", err)
	}
}

func TestUpdateStatusRejectsSkippedSteps(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	address := createAddress(t, db, customer.ID)
	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	order, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: address.ID,
		Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 2}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, model.OrderDelivered); !errors.Is(err, ErrBadTransition) {
		t.Errorf("pending->delivered: err = %v, want ErrBadTransition", err)
	}
	if _, err := svc.UpdateStatus(order.ID, model.OrderStatus("paused")); !errors.Is(err, ErrBadTransition) {
		t.Errorf("unknown status: err = %v, want ErrBadTransition", err)
	}
}

func TestCancelOwnOrderRestocks(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	address := createAddress(t, db, customer.ID)
	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	order, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: address.ID,
		Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 4}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	cancelled, err := svc.CancelOwnOrder(customer.ID, order.ID)
	if err != nil {
		t.Fatalf("CancelOwnOrder failed: %v", err)
	}
	if cancelled.Status != model.OrderCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	var got model.HarvestBatch
	db.First(&got, "id = ?", batch.ID)
	if got.RemainingKg != 10 {
		t.Errorf("remaining = %v after cancel, want 10", got.RemainingKg)
	}
	if got.Status != model.BatchAvailable {
		t.Errorf("status = %q after restock, want available", got.Status)
	}

	// Cancelled is terminal too
	if _, err := svc.CancelOwnOrder(customer.ID, order.ID); !errors.Is(err, ErrBadTransition) {
		t.Errorf("double cancel: err = %v, want ErrBadTransition", err)
	}
}

func TestCancelSomeoneElsesOrder(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	intruder := createCustomer(t, db, "intruder@example.com")
	address := createAddress(t, db, customer.ID)
	_, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	order, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: address.ID,
		Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 1}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if _, err := svc.CancelOwnOrder(intruder.ID, order.ID); !errors.Is(err, ErrNotYourOrder) {
		t.Errorf("err = %v, want ErrNotYourOrder", err)
	}
}

func TestFarmerUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	hub := setupTestHub(t)
	svc := newOrderService(db, hub, testDeliveryFee)

	customer := createCustomer(t, db, "buyer@example.com")
	address := createAddress(t, db, customer.ID)
	farmerUser, farm := createFarmer(t, db, "farmer@example.com", "Green Valley")
	bystander, _ := createFarmer(t, db, "bystander@example.com", "Elsewhere Acres")
	spinach := createProduct(t, db, "Spinach", 5)
	batch := createBatch(t, db, spinach, farm, 10, 12000)

	order, err := svc.PlaceOrder(customer.ID, &PlaceOrderRequest{
		AddressID: address.ID,
		Items:     []OrderItemRequest{{BatchID: batch.ID, QuantityKg: 2}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	// Farmers only ever move confirmed -> shipping
	if _, err := svc.FarmerUpdateStatus(farmerUser.ID, order.ID, model.OrderDelivered); !errors.Is(err, ErrBadTransition) {
		t.Errorf("farmer to delivered: err = %v, want ErrBadTransition", err)
	}
	if _, err := svc.FarmerUpdateStatus(farmerUser.ID, order.ID, model.OrderShipping); !errors.Is(err, ErrBadTransition) {
		t.Errorf("shipping before confirmation: err = %v, want ErrBadTransition", err)
	}

	if _, err := svc.UpdateStatus(order.ID, model.OrderConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	// A farm with no items on the order cannot touch it
	if _, err := svc.FarmerUpdateStatus(bystander.ID, order.ID, model.OrderShipping); !errors.Is(err, ErrNotYourOrder) {
		t.Errorf("uninvolved farm: err = %v, want ErrNotYourOrder", err)
	}

	updated, err := svc.FarmerUpdateStatus(farmerUser.ID, order.ID, model.OrderShipping)
	if err != nil {
		t.Fatalf("FarmerUpdateStatus failed: %v", err)
	}
	if updated.Status != model.OrderShipping {
		t.Errorf("status = %q, want shipping", updated.Status)
	}
}
