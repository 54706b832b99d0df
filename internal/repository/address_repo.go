package repository

import (
	"go-store-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.ShippingAddress) error
	Update(address *model.ShippingAddress) error
	Delete(userID, id uuid.UUID) error
	FindByUser(userID uuid.UUID) ([]model.ShippingAddress, error)
	FindByID(userID, id uuid.UUID) (*model.ShippingAddress, error)
	FindDefault(userID uuid.UUID) (*model.ShippingAddress, error)
	SetDefault(userID, id uuid.UUID) error
}

type addressRepo struct {
	db *gorm.DB
}

func NewAddressRepo(db *gorm.DB) AddressRepository {
	return &addressRepo{db}
}

func (r *addressRepo) Create(address *model.ShippingAddress) error {
	return r.db.Create(address).Error
}

func (r *addressRepo) Update(address *model.ShippingAddress) error {
	return r.db.Save(address).Error
}

func (r *addressRepo) Delete(userID, id uuid.UUID) error {
	return r.db.Delete(&model.ShippingAddress{}, "id = ? AND user_id = ?", id, userID).Error
}

func (r *addressRepo) FindByUser(userID uuid.UUID) ([]model.ShippingAddress, error) {
	var addresses []model.ShippingAddress
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *addressRepo) FindByID(userID, id uuid.UUID) (*model.ShippingAddress, error) {
	var address model.ShippingAddress
	err := r.db.First(&address, "id = ? AND user_id = ?", id, userID).Error
	return &address, err
}

func (r *addressRepo) FindDefault(userID uuid.UUID) (*model.ShippingAddress, error) {
	var address model.ShippingAddress
	err := r.db.First(&address, "user_id = ? AND is_default = ?", userID, true).Error
	return &address, err
}

// SetDefault makes one address the default and clears the flag elsewhere.
func (r *addressRepo) SetDefault(userID, id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ShippingAddress{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.ShippingAddress{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_default", true).Error
	})
}
