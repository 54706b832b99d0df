package repository

import (
	"go-store-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	Update(review *model.Review) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Review, error)
	FindApprovedByProduct(productID uuid.UUID) ([]model.Review, error)
	AverageRating(productID uuid.UUID) (float64, error)
	FindByUser(userID uuid.UUID) ([]model.Review, error)
	FindPending() ([]model.Review, error)
	ExistsForUserProduct(userID, productID uuid.UUID) (bool, error)
	HasDeliveredOrder(userID, productID uuid.UUID) (bool, error)
}

type reviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db}
}

func (r *reviewRepo) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepo) Update(review *model.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Review{}, "id = ?", id).Error
}

func (r *reviewRepo) FindByID(id uuid.UUID) (*model.Review, error) {
	var review model.Review
	err := r.db.First(&review, "id = ?", id).Error
	return &review, err
}

func (r *reviewRepo) FindApprovedByProduct(productID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("User").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) AverageRating(productID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.Model(&model.Review{}).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *reviewRepo) FindByUser(userID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) FindPending() ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("Product").Preload("User").
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) ExistsForUserProduct(userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// HasDeliveredOrder reports whether the user has a delivered order containing
// the product, which marks a review as a verified purchase.
func (r *reviewRepo) HasDeliveredOrder(userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, model.OrderDelivered, productID).
		Count(&count).Error
	return count > 0, err
}
