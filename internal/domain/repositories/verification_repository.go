package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"techsavvy.backend/internal/domain/entities"
)

// VerificationCodeRepository persists issued verification codes.
//
// The store keeps at most one active code per (email, purpose): Issue
// supersedes any prior active row in the same transaction. Consume is a
// conditional update so two racing validations can never both succeed.
type VerificationCodeRepository interface {
	// Issue supersedes any active code for (email, purpose) and inserts a
	// new one. Returns the created record.
	Issue(ctx context.Context, email string, purpose entities.VerificationPurpose, code string, issuedAt time.Time) (*entities.VerificationCode, error)

	// GetActive returns the current non-consumed, non-superseded code for
	// (email, purpose), or ErrCodeNotFound. Expiry is not judged here; the
	// caller owns the TTL policy.
	GetActive(ctx context.Context, email string, purpose entities.VerificationPurpose) (*entities.VerificationCode, error)

	// Consume marks the code consumed iff it is still active and the stored
	// code matches. Returns ErrCodeConsumed when the row was already
	// consumed or superseded by the time the update ran.
	Consume(ctx context.Context, id uuid.UUID, code string) error

	// PurgeExpired soft-deletes terminal rows issued before the cutoff,
	// bounded by limit. Returns the number of rows affected.
	PurgeExpired(ctx context.Context, before time.Time, limit int) (int64, error)
}
