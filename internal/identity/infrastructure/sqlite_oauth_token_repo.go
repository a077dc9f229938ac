package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/bja1701/life-os/internal/identity/oauth"
	"github.com/google/uuid"
)

// SQLiteOAuthTokenRepository implements oauth.TokenRepository against a
// local SQLite file, the identity-side counterpart of
// internal/tasks/infrastructure's SQLite task repository.
type SQLiteOAuthTokenRepository struct {
	db *sql.DB
}

// OpenSQLiteOAuthTokenRepository ensures the oauth_tokens table exists in
// the already opened db and wraps it.
func OpenSQLiteOAuthTokenRepository(db *sql.DB) (*SQLiteOAuthTokenRepository, error) {
	if _, err := db.Exec(oauthTokenSchema); err != nil {
		return nil, err
	}
	return &SQLiteOAuthTokenRepository{db: db}, nil
}

const oauthTokenSchema = `
CREATE TABLE IF NOT EXISTS oauth_tokens (
	user_id TEXT NOT NULL,
	provider TEXT NOT NULL,
	access_token BLOB NOT NULL,
	refresh_token BLOB,
	token_type TEXT,
	expiry TEXT,
	scopes TEXT,
	PRIMARY KEY (user_id, provider)
)`

func (r *SQLiteOAuthTokenRepository) Save(ctx context.Context, token oauth.StoredToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO oauth_tokens (user_id, provider, access_token, refresh_token, token_type, expiry, scopes)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			access_token=excluded.access_token, refresh_token=excluded.refresh_token,
			token_type=excluded.token_type, expiry=excluded.expiry, scopes=excluded.scopes
	`,
		token.UserID.String(), token.Provider, token.AccessToken, token.RefreshToken,
		token.TokenType, token.Expiry.Format(time.RFC3339Nano), strings.Join(token.Scopes, ","),
	)
	return err
}

func (r *SQLiteOAuthTokenRepository) FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*oauth.StoredToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, provider, access_token, refresh_token, token_type, expiry, scopes
		FROM oauth_tokens WHERE user_id = ? AND provider = ?
	`, userID.String(), provider)

	var uid, expiry, scopes string
	var token oauth.StoredToken
	if err := row.Scan(&uid, &token.Provider, &token.AccessToken, &token.RefreshToken, &token.TokenType, &expiry, &scopes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauth.ErrTokenNotFound
		}
		return nil, err
	}

	token.UserID, _ = uuid.Parse(uid)
	if ts, err := time.Parse(time.RFC3339Nano, expiry); err == nil {
		token.Expiry = ts
	}
	if scopes != "" {
		token.Scopes = strings.Split(scopes, ",")
	}
	return &token, nil
}
