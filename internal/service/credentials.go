package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zero-Base-1/DonationTracker/internal/config"
	"github.com/Zero-Base-1/DonationTracker/internal/db"
	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

const minPasswordLength = 8

// hashCost is lowered in tests; production always uses the bcrypt default.
var hashCost = bcrypt.DefaultCost

type userStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// CredentialService owns user records and password verification.
type CredentialService struct {
	repo   userStore
	logger *zap.Logger
}

func NewCredentialService(repo userStore, logger *zap.Logger) *CredentialService {
	return &CredentialService{repo: repo, logger: logger}
}

// Verify checks email and password. A missing account and a wrong password
// are indistinguishable to the caller.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Create registers a new account with role "user". The email pre-check and
// the unique constraint together guard against concurrent signups.
func (s *CredentialService) Create(ctx context.Context, name, email, password string) (*model.User, error) {
	if err := validateSignup(name, email, password); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, name, email, string(hash), model.RoleUser)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// EnsureAdmin seeds the default administrator when the user table is empty.
// The well-known credentials are a bootstrap convenience and must be changed
// immediately in production.
func (s *CredentialService) EnsureAdmin(ctx context.Context, cfg config.AuthConfig) error {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), hashCost)
	if err != nil {
		return err
	}

	if _, err := s.repo.CreateUser(ctx, cfg.AdminName, cfg.AdminEmail, string(hash), model.RoleAdmin); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}

	s.logger.Info("seeded default admin account", zap.String("email", cfg.AdminEmail))
	return nil
}

func validateSignup(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidInput
	}
	if len(password) < minPasswordLength || len(password) > 128 {
		return ErrInvalidInput
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
