package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leaguehub/leaguehub/internal/app/system/auth"
	"go.uber.org/zap"
)

// TestAuthSecret is the HMAC key used for tokens minted in tests.
const TestAuthSecret = "test-secret-0123456789abcdef0123456789"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AuthedRequest returns a copy of r carrying uid/email in context, as if
// it had passed through the bearer-token middleware.
func AuthedRequest(t *testing.T, r *http.Request, uid, email string) *http.Request {
	t.Helper()

	if err := auth.Init(TestAuthSecret, zap.NewNop()); err != nil {
		t.Fatalf("auth.Init: %v", err)
	}
	tok, err := auth.GenerateToken(uid, email, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	r.Header.Set("Authorization", "Bearer "+tok)

	var out *http.Request
	auth.LoadBearerUser(http.HandlerFunc(func(_ http.ResponseWriter, req *http.Request) {
		out = req
	})).ServeHTTP(httptest.NewRecorder(), r)
	return out
}
