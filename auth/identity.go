// Package auth resolves the current user of a request and issues the
// tokens it is resolved from.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie the session token travels in.
const TokenCookie = "token"

// CurrentUser is the identity attached to an authenticated request
type CurrentUser struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// Resolver maps a request to its user, or reports that there is none.
type Resolver interface {
	ResolveUser(r *http.Request) (*CurrentUser, bool)
}

// Claims are the JWT claims carried by session tokens
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 session tokens
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a manager; the secret must not be empty.
func NewJWTManager(secret, issuer string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTManager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for user.
func (m *JWTManager) Issue(user CurrentUser) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:   user.UserID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify parses a token and returns the user it was issued for.
func (m *JWTManager) Verify(tokenString string) (*CurrentUser, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no userId")
	}
	return &CurrentUser{UserID: claims.UserID, Email: claims.Email, Username: claims.Username}, nil
}

// ResolveUser reads the token cookie, falling back to a Bearer header.
func (m *JWTManager) ResolveUser(r *http.Request) (*CurrentUser, bool) {
	token := ""
	if c, err := r.Cookie(TokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			token = h[7:]
		}
	}
	if token == "" {
		return nil, false
	}
	user, err := m.Verify(token)
	if err != nil {
		return nil, false
	}
	return user, true
}

type contextKey struct{}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user *CurrentUser) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the user stored by WithUser.
func UserFromContext(ctx context.Context) (*CurrentUser, bool) {
	user, ok := ctx.Value(contextKey{}).(*CurrentUser)
	return user, ok && user != nil
}
