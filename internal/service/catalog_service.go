package service

import (
	"errors"
	"fmt"

	"go-store-api/internal/model"
	"go-store-api/internal/repository"
	"go-store-api/internal/ws"
	"go-store-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductDetail is a storefront product page payload.
type ProductDetail struct {
	Product       model.Product  `json:"product"`
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"average_rating"`
}

type CatalogService interface {
	ListProducts(filter repository.ProductFilter) (*repository.ProductPage, error)
	GetProduct(slug string) (*ProductDetail, error)
	ListCategories() ([]model.Category, error)
	FeaturedProducts(limit int) ([]model.Product, error)

	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	CreateVariant(req *model.ProductVariant) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *catalogService) ListProducts(filter repository.ProductFilter) (*repository.ProductPage, error) {
	return s.productRepo.FindActive(filter)
}

func (s *catalogService) GetProduct(slug string) (*ProductDetail, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if product.Status != model.ProductActive {
		return nil, ErrProductNotFound
	}

	reviews, err := s.reviewRepo.FindApprovedByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	avg, err := s.reviewRepo.AverageRating(product.ID)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{Product: *product, Reviews: reviews, AverageRating: avg}, nil
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindActive()
}

func (s *catalogService) FeaturedProducts(limit int) ([]model.Product, error) {
	if limit < 1 || limit > 24 {
		limit = 4
	}
	return s.productRepo.FindFeatured(limit)
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	// 1. Validate struct
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check SKU duplication
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	// 3. Save to database
	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	// 4. Broadcast to the dashboard feed
	if s.wsHub != nil {
		s.wsHub.BroadcastEvent("stock_update", "product_created", map[string]interface{}{
			"id":    req.ID,
			"sku":   req.SKU,
			"name":  req.Name,
			"stock": req.StockQuantity,
			"price": req.SellingPrice,
		})
	}

	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	var updated *model.Product

	// Transaction block with pessimistic locking: admin stock edits race
	// against checkouts on the same counter row.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		oldStock := existing.StockQuantity

		existing.Name = req.Name
		existing.Slug = req.Slug
		existing.SKU = req.SKU
		existing.Description = req.Description
		existing.ShortDescription = req.ShortDescription
		existing.CategoryID = req.CategoryID
		existing.SupplierID = req.SupplierID
		existing.CostPrice = req.CostPrice
		existing.SellingPrice = req.SellingPrice
		existing.CompareAtPrice = req.CompareAtPrice
		existing.StockQuantity = req.StockQuantity
		existing.LowStockThreshold = req.LowStockThreshold
		existing.TrackInventory = req.TrackInventory
		existing.AllowBackorder = req.AllowBackorder
		existing.ImageURL = req.ImageURL
		existing.Status = req.Status
		existing.IsFeatured = req.IsFeatured
		existing.IsBestseller = req.IsBestseller

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing

		if s.wsHub != nil {
			s.wsHub.BroadcastEvent("stock_update", "product_updated", map[string]interface{}{
				"id":        existing.ID,
				"sku":       existing.SKU,
				"name":      existing.Name,
				"old_stock": oldStock,
				"new_stock": existing.StockQuantity,
				"price":     existing.SellingPrice,
			})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *catalogService) CreateVariant(req *model.ProductVariant) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if _, err := s.productRepo.FindByID(req.ProductID); err != nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.CreateVariant(req); err != nil {
		return errors.New("failed to create variant")
	}
	return nil
}
