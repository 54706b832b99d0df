package repository

import (
	"strings"

	"go-store-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductFilter carries the storefront listing query parameters.
type ProductFilter struct {
	CategorySlug string
	SupplierID   *uuid.UUID
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStockOnly  bool
	Query        string
	Sort         string // price_low, price_high, name_asc, name_desc, bestsellers, newest
	Page         int
	PerPage      int
}

// ProductPage is one page of a filtered listing.
type ProductPage struct {
	Items   []model.Product `json:"items"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	FindActive(filter ProductFilter) (*ProductPage, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindVariant(id uuid.UUID) (*model.ProductVariant, error)
	CreateVariant(variant *model.ProductVariant) error
	UpdateVariant(variant *model.ProductVariant) error
	FindFeatured(limit int) ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) FindActive(filter ProductFilter) (*ProductPage, error) {
	query := r.db.Model(&model.Product{}).
		Where("status = ?", model.ProductActive)

	if filter.CategorySlug != "" {
		ids, err := r.categoryTreeIDs(filter.CategorySlug)
		if err != nil {
			return nil, err
		}
		query = query.Where("category_id IN ?", ids)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.MinPrice != nil {
		query = query.Where("selling_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("selling_price <= ?", *filter.MaxPrice)
	}
	if filter.InStockOnly {
		query = query.Where("stock_quantity > 0 OR track_inventory = false OR allow_backorder = true")
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(short_description) LIKE ? OR LOWER(sku) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	switch filter.Sort {
	case "price_low":
		query = query.Order("selling_price ASC")
	case "price_high":
		query = query.Order("selling_price DESC")
	case "name_asc":
		query = query.Order("name ASC")
	case "name_desc":
		query = query.Order("name DESC")
	case "bestsellers":
		query = query.Order("is_bestseller DESC, created_at DESC")
	default: // newest
		query = query.Order("published_at DESC NULLS LAST, created_at DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 12
	}

	var products []model.Product
	err := query.Preload("Category").Preload("Supplier").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return &ProductPage{Items: products, Total: total, Page: page, PerPage: perPage}, nil
}

// categoryTreeIDs resolves a category slug to itself plus its direct children.
func (r *productRepo) categoryTreeIDs(slug string) ([]uuid.UUID, error) {
	var category model.Category
	if err := r.db.Preload("Children").First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	ids := []uuid.UUID{category.ID}
	for _, child := range category.Children {
		ids = append(ids, child.ID)
	}
	return ids, nil
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Supplier").Preload("Variants").
		First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").Preload("Supplier").
		Preload("Variants", "is_active = ?", true).
		First(&product, "slug = ?", slug).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

func (r *productRepo) FindVariant(id uuid.UUID) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.First(&variant, "id = ? AND is_active = ?", id, true).Error
	return &variant, err
}

func (r *productRepo) CreateVariant(variant *model.ProductVariant) error {
	return r.db.Create(variant).Error
}

func (r *productRepo) UpdateVariant(variant *model.ProductVariant) error {
	return r.db.Save(variant).Error
}

func (r *productRepo) FindFeatured(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("status = ? AND is_featured = ?", model.ProductActive, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}
