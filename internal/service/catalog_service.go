package service

import (
	"errors"
	"strings"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSlugExists        = errors.New("slug already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrPendingNotFound   = errors.New("pending product not found")
	ErrPendingClosed     = errors.New("pending product was already reviewed")
	ErrProductHasBatches = errors.New("product has harvest batches and cannot be deleted")
)

type CatalogService interface {
	ListCategories() ([]model.Category, error)
	CreateCategory(req *model.Category) error
	ListProducts(categorySlug string) ([]model.Product, error)
	GetProduct(slug string) (*model.Product, error)
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error

	SubmitPendingProduct(farmerID uuid.UUID, req *model.PendingProduct) (*model.PendingProduct, error)
	ListOpenPendingProducts() ([]model.PendingProduct, error)
	ListFarmPendingProducts(farmerID uuid.UUID) ([]model.PendingProduct, error)
	ApprovePendingProduct(adminID, pendingID uuid.UUID) (*model.Product, error)
	RejectPendingProduct(adminID, pendingID uuid.UUID, note string) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	pendingRepo  repository.PendingProductRepository
	farmRepo     repository.FarmRepository
	db           *gorm.DB
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	pendingRepo repository.PendingProductRepository,
	farmRepo repository.FarmRepository,
	db *gorm.DB,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		pendingRepo:  pendingRepo,
		farmRepo:     farmRepo,
		db:           db,
	}
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *catalogService) CreateCategory(req *model.Category) error {
	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	existing, _ := s.categoryRepo.FindBySlug(req.Slug)
	if existing != nil {
		return ErrSlugExists
	}
	return s.categoryRepo.Create(req)
}

func (s *catalogService) ListProducts(categorySlug string) ([]model.Product, error) {
	if categorySlug == "" {
		return s.productRepo.FindAll()
	}
	category, err := s.categoryRepo.FindBySlug(categorySlug)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	return s.productRepo.FindByCategory(category.ID)
}

func (s *catalogService) GetProduct(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}
	if req.Unit == "" {
		req.Unit = "kg"
	}
	if req.ShelfLifeDays <= 0 {
		req.ShelfLifeDays = 7
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return ErrCategoryNotFound
	}
	existing, _ := s.productRepo.FindBySlug(req.Slug)
	if existing != nil {
		return ErrSlugExists
	}
	return s.productRepo.Create(req)
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}
	if req.ShelfLifeDays > 0 {
		product.ShelfLifeDays = req.ShelfLifeDays
	}
	if req.CategoryID != uuid.Nil {
		if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = req.CategoryID
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	var count int64
	if err := s.db.Model(&model.HarvestBatch{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrProductHasBatches
	}
	return s.productRepo.Delete(id)
}

func (s *catalogService) SubmitPendingProduct(farmerID uuid.UUID, req *model.PendingProduct) (*model.PendingProduct, error) {
	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return nil, ErrNoFarm
	}

	req.FarmID = farm.ID
	req.Status = model.PendingStatusOpen
	if req.ShelfLifeDays <= 0 {
		req.ShelfLifeDays = 7
	}

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, ErrCategoryNotFound
	}

	if err := s.pendingRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *catalogService) ListOpenPendingProducts() ([]model.PendingProduct, error) {
	return s.pendingRepo.FindOpen()
}

func (s *catalogService) ListFarmPendingProducts(farmerID uuid.UUID) ([]model.PendingProduct, error) {
	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return nil, ErrNoFarm
	}
	return s.pendingRepo.FindByFarm(farm.ID)
}

// ApprovePendingProduct turns a farmer proposal into a catalogue product and
// closes the proposal, in one transaction.
func (s *catalogService) ApprovePendingProduct(adminID, pendingID uuid.UUID) (*model.Product, error) {
	pending, err := s.pendingRepo.FindByID(pendingID)
	if err != nil {
		return nil, ErrPendingNotFound
	}
	if pending.Status != model.PendingStatusOpen {
		return nil, ErrPendingClosed
	}

	product := &model.Product{
		CategoryID:    pending.CategoryID,
		Name:          pending.Name,
		Slug:          slugify(pending.Name),
		Description:   pending.Description,
		Unit:          "kg",
		ShelfLifeDays: pending.ShelfLifeDays,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		pending.Status = model.PendingStatusApproved
		pending.ReviewedBy = &adminID
		return tx.Save(pending).Error
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) RejectPendingProduct(adminID, pendingID uuid.UUID, note string) error {
	pending, err := s.pendingRepo.FindByID(pendingID)
	if err != nil {
		return ErrPendingNotFound
	}
	if pending.Status != model.PendingStatusOpen {
		return ErrPendingClosed
	}

	pending.Status = model.PendingStatusRejected
	pending.ReviewedBy = &adminID
	pending.ReviewNote = note
	return s.pendingRepo.Update(pending)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}
