package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationCode is the persisted form of an issued code. Consumed and
// superseded rows are kept (soft-deleted later by the cleanup job) so the
// terminal state of every code stays auditable.
type VerificationCode struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email        string    `gorm:"type:varchar(255);not null;index:idx_verification_codes_email_purpose"`
	Purpose      string    `gorm:"type:varchar(20);not null;index:idx_verification_codes_email_purpose"`
	Code         string    `gorm:"type:varchar(10);not null"`
	IssuedAt     time.Time `gorm:"not null;index"`
	ConsumedAt   *time.Time
	SupersededAt *time.Time
	CreatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}
