package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"techsavvy.backend/internal/domain/entities"
	domainerrors "techsavvy.backend/internal/domain/errors"
)

func seedUser(t *testing.T, repo *UserRepository, email, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:        email,
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "$2a$12$notarealhash",
		Role:         entities.UserRoleCustomer,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)

	created := seedUser(t, repo, "alice@example.com", "alice")
	assert.NotEqual(t, uuid.Nil, created.ID)

	byID, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.Equal(t, entities.UserRoleCustomer, byID.Role)
	assert.False(t, byID.IsVerified)

	byEmail, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestUserRepository_GetNotFound(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_MarkVerified(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)

	u := seedUser(t, repo, "bob@example.com", "bob")

	require.NoError(t, repo.MarkVerified(context.Background(), u.ID))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.True(t, got.VerifiedAt.Valid)

	// Second attempt hits zero rows.
	err = repo.MarkVerified(context.Background(), u.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVerified)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)

	u := seedUser(t, repo, "carol@example.com", "carol")

	require.NoError(t, repo.UpdatePassword(context.Background(), u.ID, "$2a$12$replacedhash"))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$12$replacedhash", got.PasswordHash)

	err = repo.UpdatePassword(context.Background(), uuid.New(), "whatever")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)

	u := seedUser(t, repo, "dave@example.com", "dave")
	u.Username = "dave2"
	u.FirstName = "David"

	require.NoError(t, repo.Update(context.Background(), u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dave2", got.Username)
	assert.Equal(t, "David", got.FirstName)
}

func TestUserRepository_ListAndSearch(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)

	seedUser(t, repo, "erin@example.com", "erin")
	seedUser(t, repo, "frank@example.com", "frank")

	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(context.Background(), "erin")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "erin", filtered[0].Username)
}

func TestUserRepository_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)

	u := seedUser(t, repo, "grace@example.com", "grace")

	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))

	_, err := repo.GetByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.SoftDelete(context.Background(), u.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
