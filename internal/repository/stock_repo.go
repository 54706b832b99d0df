package repository

import (
	"errors"

	"go-store-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// StockRef addresses a stock counter: the variant's when VariantID is set,
// otherwise the product's.
type StockRef struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
}

// StockRepository is the inventory ledger. Reserve and Release must run
// inside a caller-owned transaction; they lock the counter row so concurrent
// checkouts cannot drive stock negative.
type StockRepository interface {
	Reserve(tx *gorm.DB, ref StockRef, qty int) error
	Release(tx *gorm.DB, ref StockRef, qty int) error
	Available(ref StockRef) (int, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db: db}
}

func (r *stockRepo) Reserve(tx *gorm.DB, ref StockRef, qty int) error {
	var product model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", ref.ProductID).Error; err != nil {
		return err
	}

	// Untracked products carry no meaningful counter
	if !product.TrackInventory {
		return nil
	}

	if ref.VariantID != nil {
		var variant model.ProductVariant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&variant, "id = ?", *ref.VariantID).Error; err != nil {
			return err
		}
		if variant.StockQuantity < qty && !product.AllowBackorder {
			return ErrInsufficientStock
		}
		return tx.Model(&model.ProductVariant{}).
			Where("id = ?", variant.ID).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty)).Error
	}

	if product.StockQuantity < qty && !product.AllowBackorder {
		return ErrInsufficientStock
	}
	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty)).Error
}

func (r *stockRepo) Release(tx *gorm.DB, ref StockRef, qty int) error {
	var product model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", ref.ProductID).Error; err != nil {
		return err
	}
	if !product.TrackInventory {
		return nil
	}

	if ref.VariantID != nil {
		return tx.Model(&model.ProductVariant{}).
			Where("id = ?", *ref.VariantID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
	}
	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}

func (r *stockRepo) Available(ref StockRef) (int, error) {
	if ref.VariantID != nil {
		var variant model.ProductVariant
		if err := r.db.First(&variant, "id = ?", *ref.VariantID).Error; err != nil {
			return 0, err
		}
		return variant.StockQuantity, nil
	}
	var product model.Product
	if err := r.db.First(&product, "id = ?", ref.ProductID).Error; err != nil {
		return 0, err
	}
	return product.StockQuantity, nil
}
