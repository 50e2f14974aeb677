package db

import (
	"context"
	"time"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

// ReplaceRememberToken deletes any existing remember tokens for the user and
// inserts the new one, keeping at most one live token per user.
func (db *Postgres) ReplaceRememberToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, `
		DELETE FROM remember_tokens WHERE user_id = $1
	`, userID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO remember_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (db *Postgres) GetRememberToken(ctx context.Context, userID int64, tokenHash string) (*model.RememberToken, error) {
	query := `
		SELECT user_id, token_hash, expires_at
		FROM remember_tokens
		WHERE user_id = $1 AND token_hash = $2
	`
	var token model.RememberToken
	err := db.Pool.QueryRow(ctx, query, userID, tokenHash).Scan(
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (db *Postgres) DeleteRememberTokens(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM remember_tokens WHERE user_id = $1`, userID)
	return err
}

// ReplaceResetToken deletes any prior reset tokens for the user and inserts
// the new one, keeping at most one live reset token per user.
func (db *Postgres) ReplaceResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, `
		DELETE FROM password_reset_tokens WHERE user_id = $1
	`, userID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`, userID, tokenHash, expiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetResetRecord looks up a reset token by hash joined with the owning user,
// so the reset form can show who the reset is for.
func (db *Postgres) GetResetRecord(ctx context.Context, tokenHash string) (*model.ResetRecord, error) {
	query := `
		SELECT t.user_id, u.name, u.email, t.expires_at
		FROM password_reset_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token_hash = $1
	`
	var record model.ResetRecord
	err := db.Pool.QueryRow(ctx, query, tokenHash).Scan(
		&record.UserID,
		&record.UserName,
		&record.UserEmail,
		&record.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (db *Postgres) DeleteResetTokenByHash(ctx context.Context, tokenHash string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE token_hash = $1`, tokenHash)
	return err
}

func (db *Postgres) DeleteResetTokens(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID)
	return err
}
