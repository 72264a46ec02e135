// Package auth validates bearer tokens and exposes the calling user to
// handlers through the request context.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leaguehub/leaguehub/internal/app/system/apperr"
	"github.com/leaguehub/leaguehub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// TokenUser is what we decode from the token and inject into r.Context().
type TokenUser struct {
	UID   string
	Email string
}

// Claims is the JWT payload issued by the identity frontend.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// secret is initialised once via Init.
var secret []byte

// Init sets the HMAC key used to verify bearer tokens.
func Init(key string, logger *zap.Logger) error {
	if key == "" {
		return fmt.Errorf("auth secret is empty; provide >=32 random chars")
	}
	if len(key) < 32 {
		logger.Warn("auth secret is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}
	secret = []byte(key)
	return nil
}

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

// LoadBearerUser injects the user into context when the request carries a
// valid bearer token. Requests without one pass through anonymously; the
// RequireSignedIn middleware decides whether that is acceptable.
func LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret == nil {
			next.ServeHTTP(w, r)
			return
		}

		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := ParseToken(raw)
		if err != nil || claims.UID == "" {
			next.ServeHTTP(w, r)
			return
		}

		r = withUser(r, &TokenUser{UID: claims.UID, Email: claims.Email})
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadBearerUser)
// and answers anonymous requests with the same error envelope the handlers
// use.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		httpjson.WriteError(w, nil, apperr.New(apperr.Unauthenticated, "sign in required"))
	})
}

// ParseToken validates raw against the configured secret and returns its
// claims. Only HS256 is accepted.
func ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GenerateToken mints a signed token for uid. Used by the auth frontend
// glue and by tests.
func GenerateToken(uid, email string, ttl time.Duration) (string, error) {
	if secret == nil {
		return "", fmt.Errorf("auth secret not initialised")
	}
	now := time.Now()
	claims := Claims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// helpers

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
