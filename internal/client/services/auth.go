package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storyshare/client/internal/client/client"
	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/client/repositories/metadata"
	"github.com/storyshare/client/internal/logging"
)

const metaTokenKey = "token"

// AuthService manages the optional credential: login/register against the
// backend and durable token storage. The story app works fully anonymously;
// an absent or expired token simply means guest mode.
type AuthService interface {
	Login(ctx context.Context, email, password string) *models.AuthResult
	Register(ctx context.Context, name, email, password string) *models.AuthResult

	// Token is the credential provider consumed by the gateway. It returns ""
	// when no token is stored or the stored one has expired.
	Token(ctx context.Context) string

	Logout(ctx context.Context) error
}

type authService struct {
	api  client.Client
	meta metadata.Repository
	log  logging.Logger
}

// NewAuthService constructs an AuthService bound to the given gateway and
// metadata store.
func NewAuthService(api client.Client, meta metadata.Repository, log logging.Logger) AuthService {
	return &authService{api: api, meta: meta, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) *models.AuthResult {
	res := a.api.Login(ctx, email, password)
	if res.Error {
		return res
	}

	// A success envelope must carry the login payload; without it the caller
	// has nothing to act on, so it is treated like any other malformed
	// response.
	if res.Login == nil || res.Login.Token == "" {
		a.log.Warn(ctx, "login response missing payload")
		return &models.AuthResult{Error: true, Message: "malformed login response", Unreachable: true}
	}

	if err := a.meta.Set(ctx, metaTokenKey, []byte(res.Login.Token)); err != nil {
		a.log.Error(ctx, "failed to persist token", "err", err)
	}
	return res
}

func (a *authService) Register(ctx context.Context, name, email, password string) *models.AuthResult {
	return a.api.Register(ctx, name, email, password)
}

// Token returns the stored bearer token, screening out ones whose exp claim
// has passed. The signature is not verified here; only the server can do
// that, and it will reject a forged token anyway.
func (a *authService) Token(ctx context.Context) string {
	raw, err := a.meta.Get(ctx, metaTokenKey)
	if err != nil {
		a.log.Warn(ctx, "failed to read stored token", "err", err)
		return ""
	}
	if len(raw) == 0 {
		return ""
	}
	token := string(raw)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) tokens pass through untouched.
		return token
	}
	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil && exp.Before(time.Now()) {
		a.log.Info(ctx, "stored token expired, switching to guest mode")
		return ""
	}
	return token
}

func (a *authService) Logout(ctx context.Context) error {
	return a.meta.Delete(ctx, metaTokenKey)
}
