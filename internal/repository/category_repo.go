package repository

import (
	"go-farmbasket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	SeedDefaults() error
}

// Default categories seeded at boot
var defaultCategories = []model.Category{
	{Name: "Leafy Greens", Slug: "leafy-greens"},
	{Name: "Root Vegetables", Slug: "root-vegetables"},
	{Name: "Fruiting Vegetables", Slug: "fruiting-vegetables"},
	{Name: "Herbs", Slug: "herbs"},
	{Name: "Alliums", Slug: "alliums"},
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// SeedDefaults creates the default categories if they don't exist
func (r *categoryRepo) SeedDefaults() error {
	for _, c := range defaultCategories {
		var existing model.Category
		if err := r.db.Where("slug = ?", c.Slug).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&c).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
