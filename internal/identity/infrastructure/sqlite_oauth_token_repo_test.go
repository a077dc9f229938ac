package infrastructure_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/bja1701/life-os/internal/identity/infrastructure"
	"github.com/bja1701/life-os/internal/identity/oauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestOAuthRepo(t *testing.T) *infrastructure.SQLiteOAuthTokenRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := infrastructure.OpenSQLiteOAuthTokenRepository(db)
	require.NoError(t, err)
	return repo
}

func TestSQLiteOAuthTokenRepository_SaveAndFind(t *testing.T) {
	repo := openTestOAuthRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	token := oauth.StoredToken{
		UserID:       userID,
		Provider:     "google",
		AccessToken:  []byte("encrypted-access"),
		RefreshToken: []byte("encrypted-refresh"),
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second).UTC(),
		Scopes:       []string{"calendar.readonly", "calendar.events"},
	}

	require.NoError(t, repo.Save(ctx, token))

	found, err := repo.FindByUserAndProvider(ctx, userID, "google")
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, found.AccessToken)
	assert.Equal(t, token.RefreshToken, found.RefreshToken)
	assert.Equal(t, token.TokenType, found.TokenType)
	assert.True(t, token.Expiry.Equal(found.Expiry))
	assert.Equal(t, token.Scopes, found.Scopes)
}

func TestSQLiteOAuthTokenRepository_SaveUpserts(t *testing.T) {
	repo := openTestOAuthRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	first := oauth.StoredToken{UserID: userID, Provider: "google", AccessToken: []byte("v1"), TokenType: "Bearer", Expiry: time.Now()}
	require.NoError(t, repo.Save(ctx, first))

	second := first
	second.AccessToken = []byte("v2")
	require.NoError(t, repo.Save(ctx, second))

	found, err := repo.FindByUserAndProvider(ctx, userID, "google")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), found.AccessToken)
}

func TestSQLiteOAuthTokenRepository_FindMissingReturnsErrTokenNotFound(t *testing.T) {
	repo := openTestOAuthRepo(t)

	_, err := repo.FindByUserAndProvider(context.Background(), uuid.New(), "google")
	assert.ErrorIs(t, err, oauth.ErrTokenNotFound)
}

func TestSQLiteOAuthTokenRepository_ScopesByProvider(t *testing.T) {
	repo := openTestOAuthRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Save(ctx, oauth.StoredToken{UserID: userID, Provider: "google", AccessToken: []byte("g"), TokenType: "Bearer", Expiry: time.Now()}))
	require.NoError(t, repo.Save(ctx, oauth.StoredToken{UserID: userID, Provider: "microsoft", AccessToken: []byte("m"), TokenType: "Bearer", Expiry: time.Now()}))

	found, err := repo.FindByUserAndProvider(ctx, userID, "microsoft")
	require.NoError(t, err)
	assert.Equal(t, []byte("m"), found.AccessToken)
}
