package repository

import (
	"go-store-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	FindByUser(userID uuid.UUID) ([]model.WishlistItem, error)
	// Toggle adds the product if missing, removes it otherwise, and reports
	// whether the product is now wishlisted.
	Toggle(userID, productID uuid.UUID) (bool, error)
	Remove(userID, productID uuid.UUID) error
}

type wishlistRepo struct {
	db *gorm.DB
}

func NewWishlistRepo(db *gorm.DB) WishlistRepository {
	return &wishlistRepo{db}
}

func (r *wishlistRepo) FindByUser(userID uuid.UUID) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *wishlistRepo) Toggle(userID, productID uuid.UUID) (bool, error) {
	var existing model.WishlistItem
	err := r.db.First(&existing, "user_id = ? AND product_id = ?", userID, productID).Error
	if err == nil {
		return false, r.db.Unscoped().Delete(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	item := &model.WishlistItem{UserID: userID, ProductID: productID}
	return true, r.db.Create(item).Error
}

func (r *wishlistRepo) Remove(userID, productID uuid.UUID) error {
	return r.db.Unscoped().
		Delete(&model.WishlistItem{}, "user_id = ? AND product_id = ?", userID, productID).Error
}
