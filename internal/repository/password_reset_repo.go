package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

// PasswordResetRepository stores forgot-password tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (models.PasswordResetToken, error)
	// Consume marks the token used and stores the new password hash atomically.
	// It returns gorm.ErrRecordNotFound when the token was consumed concurrently.
	Consume(ctx context.Context, tokenID, userID uint, passwordHash string) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository constructs the reset token repository.
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *passwordResetRepository) FindByToken(ctx context.Context, token string) (models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	return record, err
}

func (r *passwordResetRepository) Consume(ctx context.Context, tokenID, userID uint, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PasswordResetToken{}).
			Where("id = ? AND is_used = ?", tokenID, false).
			Update("is_used", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		result = tx.Model(&models.User{}).Where("id = ?", userID).Update("password", passwordHash)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
