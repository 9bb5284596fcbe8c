package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// VerificationPurpose identifies what an issued code unlocks.
type VerificationPurpose string

const (
	PurposeEmailVerify   VerificationPurpose = "EMAIL_VERIFY"
	PurposePasswordReset VerificationPurpose = "PASSWORD_RESET"
)

// Valid reports whether the purpose is one of the known values.
func (p VerificationPurpose) Valid() bool {
	return p == PurposeEmailVerify || p == PurposePasswordReset
}

// RateLimitPolicy bounds attempts for one action within a fixed window.
type RateLimitPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// VerificationPolicy carries the per-purpose knobs as data.
type VerificationPolicy struct {
	Purpose       VerificationPurpose
	CodeLength    int
	TTL           time.Duration
	IssueLimit    RateLimitPolicy
	ValidateLimit RateLimitPolicy
}

// VerificationCode represents one issued code for an identifier.
//
// A code is active while neither ConsumedAt nor SupersededAt is set and its
// TTL has not elapsed. Rows outlive their validity for audit.
type VerificationCode struct {
	ID           uuid.UUID           `json:"id"`
	Email        string              `json:"email"`
	Purpose      VerificationPurpose `json:"purpose"`
	Code         string              `json:"-"`
	IssuedAt     time.Time           `json:"issuedAt"`
	ConsumedAt   null.Time           `json:"consumedAt,omitempty"`
	SupersededAt null.Time           `json:"supersededAt,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// IsConsumed reports whether the code was already validated.
func (v *VerificationCode) IsConsumed() bool {
	return v.ConsumedAt.Valid
}

// IsSuperseded reports whether a newer code replaced this one.
func (v *VerificationCode) IsSuperseded() bool {
	return v.SupersededAt.Valid
}

// IsExpired reports whether the TTL elapsed at the given instant.
func (v *VerificationCode) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(v.IssuedAt) > ttl
}

// RequestCodeInput represents input for requesting a verification code.
type RequestCodeInput struct {
	Email string `json:"email" binding:"required,email"`
}

// SubmitCodeInput represents input for submitting a verification code.
type SubmitCodeInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ResetPasswordInput represents input for confirming a password reset.
type ResetPasswordInput struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
