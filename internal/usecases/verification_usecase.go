package usecases

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"go.uber.org/zap"
	"techsavvy.backend/internal/config"
	"techsavvy.backend/internal/domain/entities"
	domainerrors "techsavvy.backend/internal/domain/errors"
	"techsavvy.backend/internal/domain/repositories"
	"techsavvy.backend/pkg/crypto"
	"techsavvy.backend/pkg/logger"
	"techsavvy.backend/pkg/mailer"
)

// Rate limiter actions. Issuing and validating carry independent counters
// so code spam and brute-force guessing are throttled separately.
const (
	ActionIssue    = "issue"
	ActionValidate = "validate"
)

// RateLimiter throttles attempts per key within a fixed window. The
// increment must be atomic per key across processes.
type RateLimiter interface {
	Key(action, purpose, identifier string) string
	CheckAndIncrement(ctx context.Context, key string, max int, window time.Duration) (bool, error)
}

// IssueResult reports what happened to an issuance request. Delivery
// failure does not fail issuance; it is surfaced here so the caller can
// decide what to do with it.
type IssueResult struct {
	Record    *entities.VerificationCode
	Delivered bool
}

// VerificationUsecase owns the verification code lifecycle: issue,
// supersede, expire, validate, consume.
type VerificationUsecase struct {
	userRepo repositories.UserRepository
	codeRepo repositories.VerificationCodeRepository
	limiter  RateLimiter
	mail     mailer.Mailer
	cfg      config.VerificationConfig

	// now is swappable for expiry tests
	now func() time.Time

	generateCode func(length int) (string, error)
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	userRepo repositories.UserRepository,
	codeRepo repositories.VerificationCodeRepository,
	limiter RateLimiter,
	mail mailer.Mailer,
	cfg config.VerificationConfig,
) *VerificationUsecase {
	return &VerificationUsecase{
		userRepo:     userRepo,
		codeRepo:     codeRepo,
		limiter:      limiter,
		mail:         mail,
		cfg:          cfg,
		now:          time.Now,
		generateCode: crypto.GenerateNumericCode,
	}
}

// SetClock overrides the time source used for issuance and expiry checks.
func (u *VerificationUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// Policy returns the lifecycle policy for a purpose, built from config.
func (u *VerificationUsecase) Policy(purpose entities.VerificationPurpose) entities.VerificationPolicy {
	p := entities.VerificationPolicy{
		Purpose:    purpose,
		CodeLength: u.cfg.CodeLength,
		TTL:        u.cfg.CodeTTL,
		IssueLimit: entities.RateLimitPolicy{
			MaxAttempts: u.cfg.MaxAttempts,
			Window:      u.cfg.AttemptWindow,
		},
		ValidateLimit: entities.RateLimitPolicy{
			MaxAttempts: u.cfg.MaxAttempts,
			Window:      u.cfg.AttemptWindow,
		},
	}
	if purpose == entities.PurposePasswordReset {
		p.CodeLength = u.cfg.ResetCodeLength
		p.TTL = u.cfg.ResetCodeTTL
	}
	return p
}

// RequestCode issues a fresh code for the identifier and hands it to the
// mailer. Any prior active code for the same purpose is superseded.
//
// Unknown identifiers and already-verified accounts surface as typed errors
// here; the HTTP layer answers with the same generic acknowledgment either
// way so the endpoint cannot be used for account enumeration.
func (u *VerificationUsecase) RequestCode(ctx context.Context, email string, purpose entities.VerificationPurpose) (*IssueResult, error) {
	if !purpose.Valid() {
		return nil, domainerrors.ErrInvalidInput
	}
	email = normalizeEmail(email)
	policy := u.Policy(purpose)

	key := u.limiter.Key(ActionIssue, string(purpose), email)
	allowed, err := u.limiter.CheckAndIncrement(ctx, key, policy.IssueLimit.MaxAttempts, policy.IssueLimit.Window)
	if err != nil {
		return nil, err
	}
	if !allowed {
		verificationIssuance.WithLabelValues(string(purpose), outcomeRateLimited).Inc()
		return nil, domainerrors.ErrRateLimited
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			verificationIssuance.WithLabelValues(string(purpose), outcomeUnknownEmail).Inc()
		}
		return nil, err
	}
	if purpose == entities.PurposeEmailVerify && user.IsVerified {
		verificationIssuance.WithLabelValues(string(purpose), outcomeAlreadyVerified).Inc()
		return nil, domainerrors.ErrAlreadyVerified
	}

	// A still-active prior code is about to be superseded; worth a distinct
	// trace even though the Validator treats both the same.
	if prior, err := u.codeRepo.GetActive(ctx, email, purpose); err == nil {
		verificationIssuance.WithLabelValues(string(purpose), outcomeSuperseded).Inc()
		logger.Info(ctx, "superseding active verification code",
			zap.String("email", email),
			zap.String("purpose", string(purpose)),
			zap.Time("prior_issued_at", prior.IssuedAt),
		)
	}

	code, err := u.generateCode(policy.CodeLength)
	if err != nil {
		return nil, err
	}

	record, err := u.codeRepo.Issue(ctx, email, purpose, code, u.now())
	if err != nil {
		return nil, err
	}
	verificationIssuance.WithLabelValues(string(purpose), outcomeIssued).Inc()

	result := &IssueResult{Record: record, Delivered: true}
	if err := u.dispatch(user, purpose, code, policy.TTL); err != nil {
		// Issuance stands; delivery failure is logged distinctly so
		// operators can spot transport outages.
		result.Delivered = false
		verificationIssuance.WithLabelValues(string(purpose), outcomeDeliveryFailed).Inc()
		logger.Error(ctx, "verification code delivery failed",
			zap.String("email", email),
			zap.String("purpose", string(purpose)),
			zap.Error(err),
		)
	}
	return result, nil
}

// VerifyEmail validates a submitted email-verification code and marks the
// account verified on success.
func (u *VerificationUsecase) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := u.validateAndConsume(ctx, normalizeEmail(email), entities.PurposeEmailVerify, code)
	if err != nil {
		return err
	}

	if err := u.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return err
	}

	// Best-effort; the account is verified regardless.
	if err := u.mail.SendWelcome(user.Email, user.FullName()); err != nil {
		logger.Warn(ctx, "welcome email delivery failed",
			zap.String("email", user.Email),
			zap.Error(err),
		)
	}
	return nil
}

// ResetPassword validates a submitted reset code and, on success, sets the
// new password in the same operation. The code is consumed either way.
func (u *VerificationUsecase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := u.validateAndConsume(ctx, normalizeEmail(email), entities.PurposePasswordReset, code)
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, user.ID, hash)
}

// validateAndConsume runs the validation ladder: rate limit, lookup,
// expiry, constant-time comparison, atomic consumption. Every failure mode
// is a distinct typed error.
func (u *VerificationUsecase) validateAndConsume(ctx context.Context, email string, purpose entities.VerificationPurpose, code string) (*entities.User, error) {
	policy := u.Policy(purpose)

	key := u.limiter.Key(ActionValidate, string(purpose), email)
	allowed, err := u.limiter.CheckAndIncrement(ctx, key, policy.ValidateLimit.MaxAttempts, policy.ValidateLimit.Window)
	if err != nil {
		return nil, err
	}
	if !allowed {
		verificationValidation.WithLabelValues(string(purpose), outcomeRateLimited).Inc()
		return nil, domainerrors.ErrRateLimited
	}

	record, err := u.codeRepo.GetActive(ctx, email, purpose)
	if err != nil {
		if err == domainerrors.ErrCodeNotFound {
			verificationValidation.WithLabelValues(string(purpose), outcomeNotFound).Inc()
		}
		return nil, err
	}

	if record.IsExpired(u.now(), policy.TTL) {
		verificationValidation.WithLabelValues(string(purpose), outcomeExpired).Inc()
		return nil, domainerrors.ErrCodeExpired
	}
	if record.IsConsumed() {
		verificationValidation.WithLabelValues(string(purpose), outcomeConsumed).Inc()
		return nil, domainerrors.ErrCodeConsumed
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		verificationValidation.WithLabelValues(string(purpose), outcomeMismatch).Inc()
		return nil, domainerrors.ErrCodeMismatch
	}

	// Conditional update: under concurrent submissions exactly one caller
	// gets here first, the rest get ErrCodeConsumed.
	if err := u.codeRepo.Consume(ctx, record.ID, code); err != nil {
		if err == domainerrors.ErrCodeConsumed {
			verificationValidation.WithLabelValues(string(purpose), outcomeConsumed).Inc()
		}
		return nil, err
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	verificationValidation.WithLabelValues(string(purpose), outcomeSuccess).Inc()
	return user, nil
}

func (u *VerificationUsecase) dispatch(user *entities.User, purpose entities.VerificationPurpose, code string, ttl time.Duration) error {
	switch purpose {
	case entities.PurposePasswordReset:
		return u.mail.SendPasswordResetCode(user.Email, user.FullName(), code, ttl)
	default:
		return u.mail.SendVerificationCode(user.Email, user.FullName(), code, ttl)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
