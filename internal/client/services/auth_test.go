package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/client/repositories/metadata"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"exp":    exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

type authFakeClient struct {
	fakeClient
	loginRes *models.AuthResult
}

func (a *authFakeClient) Login(ctx context.Context, email, password string) *models.AuthResult {
	return a.loginRes
}

func (a *authFakeClient) Register(ctx context.Context, name, email, password string) *models.AuthResult {
	return a.loginRes
}

func setupAuth(t *testing.T) (AuthService, metadata.Repository, *authFakeClient) {
	t.Helper()
	meta := metadata.NewSQLiteRepository(setupDB(t))
	api := &authFakeClient{}
	return NewAuthService(api, meta, testLogger()), meta, api
}

func TestLogin_PersistsToken(t *testing.T) {
	svc, meta, api := setupAuth(t)
	ctx := context.Background()

	api.loginRes = &models.AuthResult{
		Error:   false,
		Message: "success",
		Login:   &models.LoginPayload{UserID: "u1", Name: "alice", Token: "tok"},
	}

	res := svc.Login(ctx, "a@example.com", "secret")
	require.False(t, res.Error)

	raw, err := meta.Get(ctx, metaTokenKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok"), raw)
}

func TestLogin_SuccessWithoutPayloadIsMalformed(t *testing.T) {
	svc, meta, api := setupAuth(t)
	ctx := context.Background()

	// well-formed JSON, error=false, but no loginResult block
	api.loginRes = &models.AuthResult{Error: false, Message: "ok"}

	res := svc.Login(ctx, "a@example.com", "secret")
	assert.True(t, res.Error)
	assert.True(t, res.Unreachable)
	assert.Nil(t, res.Login)

	raw, err := meta.Get(ctx, metaTokenKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestLogin_SuccessWithEmptyTokenIsMalformed(t *testing.T) {
	svc, meta, api := setupAuth(t)
	ctx := context.Background()

	api.loginRes = &models.AuthResult{
		Error:   false,
		Message: "ok",
		Login:   &models.LoginPayload{UserID: "u1", Name: "alice"},
	}

	res := svc.Login(ctx, "a@example.com", "secret")
	assert.True(t, res.Error)

	raw, err := meta.Get(ctx, metaTokenKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestLogin_FailureStoresNothing(t *testing.T) {
	svc, meta, api := setupAuth(t)
	ctx := context.Background()

	api.loginRes = &models.AuthResult{Error: true, Message: "invalid password"}

	res := svc.Login(ctx, "a@example.com", "wrong")
	assert.True(t, res.Error)

	raw, err := meta.Get(ctx, metaTokenKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestToken_EmptyWithoutLogin(t *testing.T) {
	svc, _, _ := setupAuth(t)
	assert.Empty(t, svc.Token(context.Background()))
}

func TestToken_ValidJWTPassesThrough(t *testing.T) {
	svc, meta, _ := setupAuth(t)
	ctx := context.Background()

	tok := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, meta.Set(ctx, metaTokenKey, []byte(tok)))

	assert.Equal(t, tok, svc.Token(ctx))
}

func TestToken_ExpiredJWTMeansGuestMode(t *testing.T) {
	svc, meta, _ := setupAuth(t)
	ctx := context.Background()

	tok := signedToken(t, time.Now().Add(-time.Hour))
	require.NoError(t, meta.Set(ctx, metaTokenKey, []byte(tok)))

	assert.Empty(t, svc.Token(ctx))
}

func TestToken_OpaqueTokenPassesThrough(t *testing.T) {
	svc, meta, _ := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, meta.Set(ctx, metaTokenKey, []byte("not-a-jwt")))
	assert.Equal(t, "not-a-jwt", svc.Token(ctx))
}

func TestLogout(t *testing.T) {
	svc, meta, _ := setupAuth(t)
	ctx := context.Background()

	require.NoError(t, meta.Set(ctx, metaTokenKey, []byte("tok")))
	require.NoError(t, svc.Logout(ctx))

	assert.Empty(t, svc.Token(ctx))

	// logging out twice is harmless
	require.NoError(t, svc.Logout(ctx))
}
