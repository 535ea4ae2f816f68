package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"globetrotter/internal/models/db_models"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	// UpdateOtp replaces the pending code and its expiry.
	UpdateOtp(ctx context.Context, id uuid.UUID, otp string, expiresAt *time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	// UpdateProfile writes only the given columns.
	UpdateProfile(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error
	// HardDelete removes the row entirely so the email can be registered again.
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Omit(clause.Associations).Create(account).Error
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) UpdateOtp(ctx context.Context, id uuid.UUID, otp string, expiresAt *time.Time) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"otp": otp, "otp_expires_at": expiresAt}).Error
}

func (a *accountRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_verified": true, "otp": "", "otp_expires_at": nil}).Error
}

func (a *accountRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return a.db.WithContext(ctx).Unscoped().Delete(&db_models.Account{}, "id = ?", id).Error
}

func (a *accountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Updates(columns).Error
}
