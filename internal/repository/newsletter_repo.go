package repository

import (
	"go-store-api/internal/model"

	"gorm.io/gorm"
)

type NewsletterRepository interface {
	Subscribe(email string) error
	Unsubscribe(email string) error
}

type newsletterRepo struct {
	db *gorm.DB
}

func NewNewsletterRepo(db *gorm.DB) NewsletterRepository {
	return &newsletterRepo{db}
}

// Subscribe creates the row or reactivates a previous unsubscribe.
func (r *newsletterRepo) Subscribe(email string) error {
	var existing model.NewsletterSubscriber
	err := r.db.First(&existing, "email = ?", email).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(&model.NewsletterSubscriber{Email: email, IsActive: true}).Error
	}
	if err != nil {
		return err
	}
	if !existing.IsActive {
		return r.db.Model(&existing).Update("is_active", true).Error
	}
	return nil
}

func (r *newsletterRepo) Unsubscribe(email string) error {
	return r.db.Model(&model.NewsletterSubscriber{}).
		Where("email = ?", email).
		Update("is_active", false).Error
}
