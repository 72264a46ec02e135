package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func initTestSecret(t *testing.T) {
	t.Helper()
	if err := Init("0123456789abcdef0123456789abcdef", zap.NewNop()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { secret = nil })
}

func TestInitRejectsEmptySecret(t *testing.T) {
	if err := Init("", zap.NewNop()); err == nil {
		t.Fatal("Init(\"\") = nil, want error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	initTestSecret(t)

	raw, err := GenerateToken("user-1", "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(raw)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UID != "user-1" {
		t.Errorf("UID = %q, want %q", claims.UID, "user-1")
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "user@example.com")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	initTestSecret(t)

	raw, err := GenerateToken("user-1", "", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(raw); err == nil {
		t.Fatal("ParseToken accepted an expired token")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	initTestSecret(t)

	if _, err := ParseToken("not.a.token"); err == nil {
		t.Fatal("ParseToken accepted garbage input")
	}
}

func TestLoadBearerUserAndRequireSignedIn(t *testing.T) {
	initTestSecret(t)

	var seen *TokenUser
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := LoadBearerUser(RequireSignedIn(inner))

	// No token: 401 with the shared JSON error envelope, inner never runs.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("no token: Content-Type = %q, want application/json", ct)
	}
	var envelope struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode 401 body: %v", err)
	}
	if envelope.Error.Kind != "unauthenticated" {
		t.Fatalf("error kind = %q, want unauthenticated", envelope.Error.Kind)
	}

	// Valid token: passes through with the user in context.
	raw, err := GenerateToken("user-7", "seven@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", rr.Code)
	}
	if seen == nil || seen.UID != "user-7" {
		t.Fatalf("CurrentUser = %+v, want UID user-7", seen)
	}

	// Malformed header: anonymous, so 401.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header: status = %d, want 401", rr.Code)
	}
}
