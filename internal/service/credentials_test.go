package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zero-Base-1/DonationTracker/internal/config"
	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

func TestVerify(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("Alice", "alice@example.org", "password123", model.RoleUser)
	svc := NewCredentialService(repo, testLogger())

	user, err := svc.Verify(context.Background(), "alice@example.org", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, model.RoleUser, user.Role)

	_, err = svc.Verify(context.Background(), "alice@example.org", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Verify(context.Background(), "nobody@example.org", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCredentialService(repo, testLogger())

	user, err := svc.Create(context.Background(), "Alice", "alice@example.org", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	verified, err := svc.Verify(context.Background(), "alice@example.org", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestCreateEmailTaken(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("Alice", "alice@example.org", "password123", model.RoleUser)
	svc := NewCredentialService(repo, testLogger())

	_, err := svc.Create(context.Background(), "Other Alice", "alice@example.org", "different456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUniqueViolationRace(t *testing.T) {
	// Simulate losing the pre-check race: the conflicting row appears
	// between the lookup and the insert.
	repo := newFakeRepo()
	svc := NewCredentialService(&racingRepo{fakeRepo: repo}, testLogger())

	_, err := svc.Create(context.Background(), "Alice", "alice@example.org", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

type racingRepo struct {
	*fakeRepo
}

func (r *racingRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := r.fakeRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// Another signup lands before our insert.
		r.fakeRepo.addUser("Racer", email, "racerpass999", model.RoleUser)
	}
	return user, err
}

func TestCreateInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCredentialService(repo, testLogger())

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "alice@example.org", "password123"},
		{"bad email", "Alice", "not-an-email", "password123"},
		{"short password", "Alice", "alice@example.org", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.userName, tc.email, tc.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCredentialService(repo, testLogger())
	cfg := config.AuthConfig{
		AdminName:     "Admin User",
		AdminEmail:    "admin@donationtracker.local",
		AdminPassword: "changeme123",
	}

	require.NoError(t, svc.EnsureAdmin(context.Background(), cfg))

	admin, err := svc.Verify(context.Background(), "admin@donationtracker.local", "changeme123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	// A populated store is left alone.
	require.NoError(t, svc.EnsureAdmin(context.Background(), cfg))
	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
