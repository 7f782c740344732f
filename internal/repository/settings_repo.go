package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

// SettingsRepository persists the single company settings row.
type SettingsRepository interface {
	// Get returns the installation's settings row or gorm.ErrRecordNotFound.
	Get(ctx context.Context) (models.Settings, error)
	FindByID(ctx context.Context, id uint) (models.Settings, error)
	Create(ctx context.Context, settings *models.Settings) error
	Update(ctx context.Context, settings *models.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository constructs the settings repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).Order("id ASC").First(&settings).Error
	return settings, err
}

func (r *settingsRepository) FindByID(ctx context.Context, id uint) (models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).First(&settings, id).Error
	return settings, err
}

func (r *settingsRepository) Create(ctx context.Context, settings *models.Settings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *settingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
