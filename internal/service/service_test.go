package service

import (
	"testing"
	"time"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"
	"go-farmbasket/internal/ws"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full schema. One
// connection only, so every test sees the same memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{}, &model.Address{}, &model.Farm{},
		&model.Category{}, &model.Product{}, &model.PendingProduct{},
		&model.HarvestBatch{}, &model.Order{}, &model.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func setupTestHub(t *testing.T) *ws.Hub {
	t.Helper()
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func createCustomer(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		FullName: "Test Customer",
		Role:     model.RoleCustomer,
		IsActive: true,
	}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return user
}

func createFarmer(t *testing.T, db *gorm.DB, email, farmName string) (*model.User, *model.Farm) {
	t.Helper()
	user := &model.User{
		Email:    email,
		FullName: "Test Farmer",
		Role:     model.RoleFarmer,
		IsActive: true,
	}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create farmer: %v", err)
	}
	farm := &model.Farm{UserID: user.ID, Name: farmName}
	if err := db.Create(farm).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}
	return user, farm
}

func createProduct(t *testing.T, db *gorm.DB, name string, shelfLifeDays int) *model.Product {
	t.Helper()
	category := &model.Category{Name: "Test Greens", Slug: "test-greens-" + uuid.NewString()[:8]}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &model.Product{
		CategoryID:    category.ID,
		Name:          name,
		Slug:          slugify(name),
		Unit:          "kg",
		ShelfLifeDays: shelfLifeDays,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func createBatch(t *testing.T, db *gorm.DB, product *model.Product, farm *model.Farm, quantityKg float64, pricePerKg int64) *model.HarvestBatch {
	t.Helper()
	batch := &model.HarvestBatch{
		ProductID:   product.ID,
		FarmID:      farm.ID,
		HarvestDate: time.Now(),
		QuantityKg:  quantityKg,
		RemainingKg: quantityKg,
		PricePerKg:  pricePerKg,
		Grade:       "A",
		Status:      model.BatchAvailable,
	}
	if err := db.Create(batch).Error; err != nil {
		t.Fatalf("create batch: %v", err)
	}
	return batch
}

func createAddress(t *testing.T, db *gorm.DB, userID uuid.UUID) *model.Address {
	t.Helper()
	address := &model.Address{
		UserID: userID,
		Label:  "Home",
		Line:   "12 Market Street",
		City:   "Springfield",
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address: %v", err)
	}
	return address
}

func newOrderService(db *gorm.DB, hub *ws.Hub, deliveryFee int64) OrderService {
	return NewOrderService(
		repository.NewOrderRepo(db),
		repository.NewBatchRepo(db),
		repository.NewAddressRepo(db),
		repository.NewFarmRepo(db),
		db, hub, deliveryFee,
	)
}

func newBatchService(db *gorm.DB, hub *ws.Hub) BatchService {
	return NewBatchService(repository.NewBatchRepo(db), repository.NewFarmRepo(db), db, hub)
}
