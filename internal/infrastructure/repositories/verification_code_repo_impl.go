package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"techsavvy.backend/internal/domain/entities"
	domainerrors "techsavvy.backend/internal/domain/errors"
	"techsavvy.backend/internal/infrastructure/models"
)

// VerificationCodeRepository implements verification code persistence
type VerificationCodeRepository struct {
	db *gorm.DB
}

// NewVerificationCodeRepository creates a new verification code repository
func NewVerificationCodeRepository(db *gorm.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

// Issue supersedes any active code for (email, purpose) and inserts a new
// one. Both steps run in one transaction so the single-active-code
// invariant holds even when issuance requests race.
func (r *VerificationCodeRepository) Issue(ctx context.Context, email string, purpose entities.VerificationPurpose, code string, issuedAt time.Time) (*entities.VerificationCode, error) {
	m := &models.VerificationCode{
		ID:        uuid.New(),
		Email:     email,
		Purpose:   string(purpose),
		Code:      code,
		IssuedAt:  issuedAt,
		CreatedAt: issuedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.VerificationCode{}).
			Where("email = ? AND purpose = ? AND consumed_at IS NULL AND superseded_at IS NULL", email, string(purpose)).
			Update("superseded_at", issuedAt).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return codeToEntity(m), nil
}

// GetActive returns the current active code for (email, purpose). The row
// may still be past its TTL; expiry is the caller's policy, not the store's.
func (r *VerificationCodeRepository) GetActive(ctx context.Context, email string, purpose entities.VerificationPurpose) (*entities.VerificationCode, error) {
	var m models.VerificationCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ? AND consumed_at IS NULL AND superseded_at IS NULL", email, string(purpose)).
		Order("issued_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrCodeNotFound
		}
		return nil, err
	}
	return codeToEntity(&m), nil
}

// Consume marks the code consumed. The WHERE clause carries the full
// active-and-matching condition so concurrent submissions resolve to exactly
// one winner; the loser sees zero rows affected.
func (r *VerificationCodeRepository) Consume(ctx context.Context, id uuid.UUID, code string) error {
	result := r.db.WithContext(ctx).
		Model(&models.VerificationCode{}).
		Where("id = ? AND code = ? AND consumed_at IS NULL AND superseded_at IS NULL", id, code).
		Update("consumed_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCodeConsumed
	}
	return nil
}

// PurgeExpired soft-deletes terminal rows issued before the cutoff.
func (r *VerificationCodeRepository) PurgeExpired(ctx context.Context, before time.Time, limit int) (int64, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.VerificationCode{}).
		Where("issued_at < ?", before).
		Order("issued_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Delete(&models.VerificationCode{}, "id IN ?", ids)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func codeToEntity(m *models.VerificationCode) *entities.VerificationCode {
	return &entities.VerificationCode{
		ID:           m.ID,
		Email:        m.Email,
		Purpose:      entities.VerificationPurpose(m.Purpose),
		Code:         m.Code,
		IssuedAt:     m.IssuedAt,
		ConsumedAt:   null.TimeFromPtr(m.ConsumedAt),
		SupersededAt: null.TimeFromPtr(m.SupersededAt),
		CreatedAt:    m.CreatedAt,
	}
}
