package repository

import (
	"go-store-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartOwner is the opaque owner key of a cart: an authenticated user id or
// an anonymous session key, never both.
type CartOwner struct {
	UserID     *uuid.UUID
	SessionKey *string
}

func UserOwner(userID uuid.UUID) CartOwner {
	return CartOwner{UserID: &userID}
}

func SessionOwner(key string) CartOwner {
	return CartOwner{SessionKey: &key}
}

type CartRepository interface {
	FindByOwner(owner CartOwner) (*model.Cart, error)
	FindOrCreateByOwner(owner CartOwner) (*model.Cart, error)
	FindItem(cartID, itemID uuid.UUID) (*model.CartItem, error)
	FindLine(cartID, productID uuid.UUID, variantID *uuid.UUID) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	UpdateItem(item *model.CartItem) error
	DeleteItem(itemID uuid.UUID) error
	ClearItems(tx *gorm.DB, cartID uuid.UUID) error
	ReassignItems(tx *gorm.DB, fromCartID, toCartID uuid.UUID) error
	DeleteCart(tx *gorm.DB, cartID uuid.UUID) error
}

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) CartRepository {
	return &cartRepo{db}
}

func (r *cartRepo) ownerScope(owner CartOwner) *gorm.DB {
	if owner.UserID != nil {
		return r.db.Where("user_id = ?", *owner.UserID)
	}
	return r.db.Where("session_key = ? AND user_id IS NULL", *owner.SessionKey)
}

func (r *cartRepo) FindByOwner(owner CartOwner) (*model.Cart, error) {
	var cart model.Cart
	err := r.ownerScope(owner).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Preload("Items.Variant").
		First(&cart).Error
	return &cart, err
}

func (r *cartRepo) FindOrCreateByOwner(owner CartOwner) (*model.Cart, error) {
	cart, err := r.FindByOwner(owner)
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	fresh := &model.Cart{UserID: owner.UserID, SessionKey: owner.SessionKey}
	if err := r.db.Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *cartRepo) FindItem(cartID, itemID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Product").Preload("Variant").
		First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error
	return &item, err
}

func (r *cartRepo) FindLine(cartID, productID uuid.UUID, variantID *uuid.UUID) (*model.CartItem, error) {
	query := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	var item model.CartItem
	err := query.First(&item).Error
	return &item, err
}

func (r *cartRepo) CreateItem(item *model.CartItem) error {
	return r.db.Create(item).Error
}

func (r *cartRepo) UpdateItem(item *model.CartItem) error {
	return r.db.Save(item).Error
}

func (r *cartRepo) DeleteItem(itemID uuid.UUID) error {
	return r.db.Unscoped().Delete(&model.CartItem{}, "id = ?", itemID).Error
}

// ClearItems hard-deletes all lines of a cart; abandoned rows must not linger
// as soft-deleted ghosts under the same (product, variant) keys.
func (r *cartRepo) ClearItems(tx *gorm.DB, cartID uuid.UUID) error {
	return tx.Unscoped().Delete(&model.CartItem{}, "cart_id = ?", cartID).Error
}

// ReassignItems moves every line of one cart onto another wholesale. No
// de-duplication: duplicate (product, variant) lines may coexist post-merge.
func (r *cartRepo) ReassignItems(tx *gorm.DB, fromCartID, toCartID uuid.UUID) error {
	return tx.Model(&model.CartItem{}).
		Where("cart_id = ?", fromCartID).
		Update("cart_id", toCartID).Error
}

func (r *cartRepo) DeleteCart(tx *gorm.DB, cartID uuid.UUID) error {
	return tx.Unscoped().Delete(&model.Cart{}, "id = ?", cartID).Error
}
