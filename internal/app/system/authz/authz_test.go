package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leaguehub/leaguehub/internal/app/system/auth"
	"go.uber.org/zap"
)

func authedRequest(t *testing.T, uid, email string) *http.Request {
	t.Helper()
	if err := auth.Init("0123456789abcdef0123456789abcdef", zap.NewNop()); err != nil {
		t.Fatalf("auth.Init: %v", err)
	}
	raw, err := auth.GenerateToken(uid, email, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var out *http.Request
	h := auth.LoadBearerUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out = r
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	h.ServeHTTP(httptest.NewRecorder(), req)
	return out
}

func TestCallerUID(t *testing.T) {
	r := authedRequest(t, "uid-42", "Someone@Example.COM")

	uid, ok := CallerUID(r)
	if !ok || uid != "uid-42" {
		t.Fatalf("CallerUID = (%q, %v), want (uid-42, true)", uid, ok)
	}
	if got := CallerEmail(r); got != "someone@example.com" {
		t.Errorf("CallerEmail = %q, want lowercased address", got)
	}
}

func TestCallerUIDAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if uid, ok := CallerUID(r); ok || uid != "" {
		t.Fatalf("CallerUID on anonymous request = (%q, %v), want (\"\", false)", uid, ok)
	}
	if got := CallerEmail(r); got != "" {
		t.Errorf("CallerEmail on anonymous request = %q, want \"\"", got)
	}
}
