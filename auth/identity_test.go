package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("test-secret", "social_server", time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", "social_server", time.Hour)
	assert.Error(t, err)
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := newManager(t)

	token, err := m.Issue(CurrentUser{UserID: "u1", Email: "u1@example.com", Username: "one"})
	require.NoError(t, err)

	user, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, "u1@example.com", user.Email)
	assert.Equal(t, "one", user.Username)
}

func TestJWTManager_VerifyRejectsExpired(t *testing.T) {
	m := newManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Issue(CurrentUser{UserID: "u1"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_VerifyRejectsOtherSecret(t *testing.T) {
	other, err := NewJWTManager("another-secret", "social_server", time.Hour)
	require.NoError(t, err)
	token, err := other.Issue(CurrentUser{UserID: "u1"})
	require.NoError(t, err)

	_, err = newManager(t).Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_ResolveUser(t *testing.T) {
	m := newManager(t)
	token, err := m.Issue(CurrentUser{UserID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		user, ok := m.ResolveUser(r)
		require.True(t, ok)
		assert.Equal(t, "u1", user.UserID)
	})

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		user, ok := m.ResolveUser(r)
		require.True(t, ok)
		assert.Equal(t, "u1", user.UserID)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := m.ResolveUser(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "not-a-jwt"})
		_, ok := m.ResolveUser(r)
		assert.False(t, ok)
	})
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &CurrentUser{UserID: "u1"})
	user, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", user.UserID)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
