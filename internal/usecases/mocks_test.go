package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"techsavvy.backend/internal/domain/entities"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, search string) ([]*entities.User, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVerificationCodeRepository struct {
	mock.Mock
}

func (m *MockVerificationCodeRepository) Issue(ctx context.Context, email string, purpose entities.VerificationPurpose, code string, issuedAt time.Time) (*entities.VerificationCode, error) {
	args := m.Called(ctx, email, purpose, code, issuedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VerificationCode), args.Error(1)
}

func (m *MockVerificationCodeRepository) GetActive(ctx context.Context, email string, purpose entities.VerificationPurpose) (*entities.VerificationCode, error) {
	args := m.Called(ctx, email, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VerificationCode), args.Error(1)
}

func (m *MockVerificationCodeRepository) Consume(ctx context.Context, id uuid.UUID, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *MockVerificationCodeRepository) PurgeExpired(ctx context.Context, before time.Time, limit int) (int64, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).(int64), args.Error(1)
}

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Key(action, purpose, identifier string) string {
	args := m.Called(action, purpose, identifier)
	return args.String(0)
}

func (m *MockRateLimiter) CheckAndIncrement(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, max, window)
	return args.Bool(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationCode(email, name, code string, expiry time.Duration) error {
	args := m.Called(email, name, code, expiry)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetCode(email, name, code string, expiry time.Duration) error {
	args := m.Called(email, name, code, expiry)
	return args.Error(0)
}

func (m *MockMailer) SendWelcome(email, name string) error {
	args := m.Called(email, name)
	return args.Error(0)
}
