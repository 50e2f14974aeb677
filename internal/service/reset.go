package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zero-Base-1/DonationTracker/internal/db"
	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

type resetStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ReplaceResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetResetRecord(ctx context.Context, tokenHash string) (*model.ResetRecord, error)
	DeleteResetTokenByHash(ctx context.Context, tokenHash string) error
	ResetPassword(ctx context.Context, userID int64, passwordHash string) error
}

// ResetService manages the single-use, time-boxed password reset tokens.
// Delivery of the raw secret is out of scope here; Request hands it back to
// the caller and the handler decides whether it may be exposed.
type ResetService struct {
	repo   resetStore
	ttl    time.Duration
	logger *zap.Logger
}

// ResetIssue is the outcome of a successful reset request for a known email.
type ResetIssue struct {
	Token     string
	ExpiresAt time.Time
}

func NewResetService(repo resetStore, ttl time.Duration, logger *zap.Logger) *ResetService {
	return &ResetService{repo: repo, ttl: ttl, logger: logger}
}

// Request issues a reset token for the account registered under email.
// An unknown email returns (nil, nil): callers must answer identically in
// both cases so the endpoint cannot be used to enumerate accounts.
func (s *ResetService) Request(ctx context.Context, email string) (*ResetIssue, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	secret, hash, err := newTokenSecret()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.ttl)
	if err := s.repo.ReplaceResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		s.logger.Error("failed to persist reset token", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	return &ResetIssue{Token: secret, ExpiresAt: expiresAt}, nil
}

// Validate resolves a raw token to its record. An expired token is deleted
// as a side effect, so a later lookup finds nothing.
func (s *ResetService) Validate(ctx context.Context, token string) (*model.ResetRecord, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}

	hash := hashTokenSecret(token)
	record, err := s.repo.GetResetRecord(ctx, hash)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	if time.Now().After(record.ExpiresAt) {
		_ = s.repo.DeleteResetTokenByHash(ctx, hash)
		return nil, ErrTokenExpired
	}

	return record, nil
}

// Consume changes the user's password and invalidates every outstanding
// reset and remember token for them in a single transaction. Nothing is
// mutated if any step fails.
func (s *ResetService) Consume(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength || len(newPassword) > 128 {
		return ErrInvalidInput
	}

	record, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), hashCost)
	if err != nil {
		return err
	}

	if err := s.repo.ResetPassword(ctx, record.UserID, string(hash)); err != nil {
		s.logger.Error("failed to reset password", zap.Int64("user_id", record.UserID), zap.Error(err))
		return err
	}

	return nil
}
