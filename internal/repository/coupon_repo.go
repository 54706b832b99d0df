package repository

import (
	"errors"

	"go-store-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCouponExhausted = errors.New("coupon usage limit reached")

type CouponRepository interface {
	Create(coupon *model.Coupon) error
	Update(coupon *model.Coupon) error
	Delete(id uuid.UUID) error
	FindAll() ([]model.Coupon, error)
	FindByID(id uuid.UUID) (*model.Coupon, error)
	FindByCode(code string) (*model.Coupon, error)
	ConsumeUsage(tx *gorm.DB, id uuid.UUID) error
}

type couponRepo struct {
	db *gorm.DB
}

func NewCouponRepo(db *gorm.DB) CouponRepository {
	return &couponRepo{db}
}

func (r *couponRepo) Create(coupon *model.Coupon) error {
	return r.db.Create(coupon).Error
}

func (r *couponRepo) Update(coupon *model.Coupon) error {
	return r.db.Save(coupon).Error
}

func (r *couponRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Coupon{}, "id = ?", id).Error
}

func (r *couponRepo) FindAll() ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := r.db.Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

func (r *couponRepo) FindByID(id uuid.UUID) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Preload("Products").Preload("Categories").First(&coupon, "id = ?", id).Error
	return &coupon, err
}

func (r *couponRepo) FindByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Preload("Products").Preload("Categories").
		First(&coupon, "UPPER(code) = UPPER(?)", code).Error
	return &coupon, err
}

// ConsumeUsage increments used_count with the limit in the predicate, so two
// concurrent checkouts cannot overspend the last redemption.
func (r *couponRepo) ConsumeUsage(tx *gorm.DB, id uuid.UUID) error {
	result := tx.Model(&model.Coupon{}).
		Where("id = ? AND used_count < usage_limit", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}
