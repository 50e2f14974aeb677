package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Zero-Base-1/DonationTracker/internal/db"
	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

type rememberStore interface {
	ReplaceRememberToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetRememberToken(ctx context.Context, userID int64, tokenHash string) (*model.RememberToken, error)
	DeleteRememberTokens(ctx context.Context, userID int64) error
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
}

// RememberService manages the long-lived "remember me" bearer tokens. Only
// the sha256 of the secret is persisted; the browser holds "{userId}:{secret}".
// Tokens are single-use: every successful restoration deletes the consumed
// row and issues a fresh one, so a stolen cookie buys at most one use before
// the owner's next restoration invalidates it.
type RememberService struct {
	repo   rememberStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewRememberService(repo rememberStore, ttl time.Duration, logger *zap.Logger) *RememberService {
	return &RememberService{repo: repo, ttl: ttl, logger: logger}
}

func (s *RememberService) TTL() time.Duration {
	return s.ttl
}

// Issue replaces any live token for the user with a fresh one and returns
// the cookie value to hand to the browser.
func (s *RememberService) Issue(ctx context.Context, user *model.User) (string, error) {
	secret, hash, err := newTokenSecret()
	if err != nil {
		return "", err
	}

	if err := s.repo.ReplaceRememberToken(ctx, user.ID, hash, time.Now().Add(s.ttl)); err != nil {
		s.logger.Error("failed to persist remember token", zap.Int64("user_id", user.ID), zap.Error(err))
		return "", err
	}

	return fmt.Sprintf("%d:%s", user.ID, secret), nil
}

// Restore attempts silent re-authentication from a remember cookie value.
// On success it returns the user and a rotated cookie value. Every failure
// path cleans up after itself so dead tokens are not retried.
func (s *RememberService) Restore(ctx context.Context, cookieValue string) (*model.User, string, error) {
	userID, secret, err := parseRememberCookie(cookieValue)
	if err != nil {
		return nil, "", err
	}

	token, err := s.repo.GetRememberToken(ctx, userID, hashTokenSecret(secret))
	if err != nil {
		if db.IsNoRows(err) {
			// Unknown secret for this user: drop any stale rows so the
			// same dead cookie cannot keep probing.
			_ = s.repo.DeleteRememberTokens(ctx, userID)
			return nil, "", ErrTokenNotFound
		}
		return nil, "", err
	}

	if time.Now().After(token.ExpiresAt) {
		_ = s.repo.DeleteRememberTokens(ctx, userID)
		return nil, "", ErrTokenExpired
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			_ = s.repo.DeleteRememberTokens(ctx, userID)
			return nil, "", ErrTokenNotFound
		}
		return nil, "", err
	}

	// Single-use: rotate by replacing the consumed row with a fresh token,
	// sliding the expiry window forward.
	newCookie, err := s.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, newCookie, nil
}

func (s *RememberService) RevokeAll(ctx context.Context, userID int64) error {
	return s.repo.DeleteRememberTokens(ctx, userID)
}

func parseRememberCookie(value string) (int64, string, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, "", ErrMalformedToken
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", ErrMalformedToken
	}
	if parts[1] == "" {
		return 0, "", ErrMalformedToken
	}

	return userID, parts[1], nil
}

func newTokenSecret() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	secret := base64.RawURLEncoding.EncodeToString(raw)
	return secret, hashTokenSecret(secret), nil
}

func hashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
