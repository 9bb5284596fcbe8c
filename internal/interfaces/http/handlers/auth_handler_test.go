package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesAccountAndSendsCode(t *testing.T) {
	s := newTestStack(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     "alice@example.com",
		"username":  "alice",
		"password":  "password-123",
		"firstName": "Alice",
		"lastName":  "Smith",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	code := s.mail.lastCode("verification", "alice@example.com")
	require.Len(t, code, 4)

	// The registration code works end to end.
	w = s.do(t, http.MethodPost, "/api/v1/auth/verify-email",
		map[string]string{"email": "alice@example.com", "code": code}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_MixedCaseEmailStillVerifiable(t *testing.T) {
	s := newTestStack(t)

	// The address is canonicalized once at registration, so the code
	// issued during signup reaches the same account the verify and
	// login endpoints resolve.
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     "Alice@Example.COM",
		"username":  "alice",
		"password":  "password-123",
		"firstName": "Alice",
		"lastName":  "Smith",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	code := s.mail.lastCode("verification", "alice@example.com")
	require.Len(t, code, 4)

	w = s.do(t, http.MethodPost, "/api/v1/auth/verify-email",
		map[string]string{"email": "ALICE@example.com", "code": code}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "Alice@Example.com",
		"password": "password-123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["accessToken"])
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	s := newTestStack(t)
	s.seedAccount(t, "alice@example.com", false)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "alice@example.com",
		"username": "alice2",
		"password": "password-123",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["code"])
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	s := newTestStack(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	s := newTestStack(t)
	s.seedAccount(t, "alice@example.com", true)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password-123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestStack(t)
	s.seedAccount(t, "alice@example.com", true)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, w)["code"])
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	s := newTestStack(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever-123",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, w)["code"])
}

func TestRefreshToken(t *testing.T) {
	s := newTestStack(t)
	user := s.seedAccount(t, "alice@example.com", true)

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/v1/auth/refresh",
		map[string]string{"refreshToken": pair.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["accessToken"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/refresh",
		map[string]string{"refreshToken": "garbage"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMe(t *testing.T) {
	s := newTestStack(t)
	user := s.seedAccount(t, "alice@example.com", true)

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/v1/auth/me", nil,
		map[string]string{"Authorization": "Bearer " + pair.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	userBody, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", userBody["email"])
	assert.Equal(t, true, userBody["isVerified"])
}

func TestGetMe_Unauthenticated(t *testing.T) {
	s := newTestStack(t)

	w := s.do(t, http.MethodGet, "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword_Endpoint(t *testing.T) {
	s := newTestStack(t)
	user := s.seedAccount(t, "alice@example.com", true)

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)
	auth := map[string]string{"Authorization": "Bearer " + pair.AccessToken}

	w := s.do(t, http.MethodPost, "/api/v1/auth/change-password", map[string]string{
		"currentPassword": "password-123",
		"newPassword":     "fresh-password-1",
	}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	// Old password no longer works.
	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password-123",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "fresh-password-1",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	s := newTestStack(t)
	user := s.seedAccount(t, "alice@example.com", true)

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/v1/auth/change-password", map[string]string{
		"currentPassword": "not-the-password",
		"newPassword":     "fresh-password-1",
	}, map[string]string{"Authorization": "Bearer " + pair.AccessToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, w)["code"])
}
