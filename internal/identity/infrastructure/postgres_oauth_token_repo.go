// Package infrastructure persists OAuth tokens for the calendar
// provider identity (internal/identity/oauth).
package infrastructure

import (
	"context"
	"errors"

	"github.com/bja1701/life-os/internal/identity/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOAuthTokenRepository implements oauth.TokenRepository against
// Postgres.
type PostgresOAuthTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOAuthTokenRepository wraps pool.
func NewPostgresOAuthTokenRepository(pool *pgxpool.Pool) *PostgresOAuthTokenRepository {
	return &PostgresOAuthTokenRepository{pool: pool}
}

// Save upserts the encrypted token for a user/provider pair.
func (r *PostgresOAuthTokenRepository) Save(ctx context.Context, token oauth.StoredToken) error {
	query := `
		INSERT INTO oauth_tokens (
			user_id, provider, access_token, refresh_token, token_type, expiry, scopes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			scopes = EXCLUDED.scopes,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		token.UserID,
		token.Provider,
		token.AccessToken,
		token.RefreshToken,
		token.TokenType,
		token.Expiry,
		token.Scopes,
	)
	return err
}

// FindByUserAndProvider fetches the stored token for a user/provider
// pair.
func (r *PostgresOAuthTokenRepository) FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*oauth.StoredToken, error) {
	query := `
		SELECT user_id, provider, access_token, refresh_token, token_type, expiry, scopes
		FROM oauth_tokens
		WHERE user_id = $1 AND provider = $2
	`

	var token oauth.StoredToken
	err := r.pool.QueryRow(ctx, query, userID, provider).Scan(
		&token.UserID,
		&token.Provider,
		&token.AccessToken,
		&token.RefreshToken,
		&token.TokenType,
		&token.Expiry,
		&token.Scopes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, oauth.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}
