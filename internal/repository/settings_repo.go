package repository

import (
	"go-store-api/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns the singleton settings row, creating a default one on
	// first access.
	Get() (*model.SiteSettings, error)
	Update(settings *model.SiteSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

func (r *settingsRepo) Get() (*model.SiteSettings, error) {
	var settings model.SiteSettings
	err := r.db.First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = model.SiteSettings{SiteName: "Storefront", Currency: "USD"}
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) Update(settings *model.SiteSettings) error {
	return r.db.Save(settings).Error
}
