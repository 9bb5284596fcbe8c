package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"techsavvy.backend/internal/domain/entities"
	domainerrors "techsavvy.backend/internal/domain/errors"
	"techsavvy.backend/internal/interfaces/http/response"
	"techsavvy.backend/internal/usecases"
	"techsavvy.backend/pkg/logger"
)

// VerificationHandler handles verification code endpoints
type VerificationHandler struct {
	verification *usecases.VerificationUsecase
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verification *usecases.VerificationUsecase) *VerificationHandler {
	return &VerificationHandler{
		verification: verification,
	}
}

// ResendVerification requests a fresh email-verification code.
// POST /api/v1/auth/resend-verification
func (h *VerificationHandler) ResendVerification(c *gin.Context) {
	h.requestCode(c, entities.PurposeEmailVerify,
		"If an account exists with this email, a verification code has been sent.")
}

// RequestPasswordReset requests a password-reset code.
// POST /api/v1/auth/password-reset/request
func (h *VerificationHandler) RequestPasswordReset(c *gin.Context) {
	h.requestCode(c, entities.PurposePasswordReset,
		"If an account exists with this email, a password reset code has been sent.")
}

// requestCode runs the issue flow. The acknowledgment is identical for
// unknown and known identifiers so the endpoint cannot confirm whether an
// account exists. Only rate limiting is allowed to differ, since it keys on
// the submitted identifier, not on account state.
func (h *VerificationHandler) requestCode(c *gin.Context, purpose entities.VerificationPurpose, ack string) {
	var input entities.RequestCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.verification.RequestCode(c.Request.Context(), input.Email, purpose)
	switch {
	case err == nil:
		if !result.Delivered {
			// Already logged with transport detail in the usecase; noted
			// here so the request trace carries the outcome too.
			logger.Warn(c.Request.Context(), "code issued but not delivered",
				zap.String("purpose", string(purpose)))
		}
	case errors.Is(err, domainerrors.ErrRateLimited):
		response.Error(c, domainerrors.FromVerification(err))
		return
	case errors.Is(err, domainerrors.ErrNotFound), errors.Is(err, domainerrors.ErrAlreadyVerified):
		// Fall through to the generic acknowledgment.
	default:
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"message": ack,
	})
}

// VerifyEmail validates a submitted email-verification code.
// POST /api/v1/auth/verify-email
func (h *VerificationHandler) VerifyEmail(c *gin.Context) {
	var input entities.SubmitCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.verification.VerifyEmail(c.Request.Context(), input.Email, input.Code); err != nil {
		response.Error(c, domainerrors.FromVerification(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Email verified successfully",
	})
}

// ConfirmPasswordReset validates a reset code and sets the new password.
// POST /api/v1/auth/password-reset/confirm
func (h *VerificationHandler) ConfirmPasswordReset(c *gin.Context) {
	var input entities.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.verification.ResetPassword(c.Request.Context(), input.Email, input.Code, input.NewPassword); err != nil {
		response.Error(c, domainerrors.FromVerification(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Password reset successful",
	})
}
