package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leaguehub/leaguehub/internal/app/store/nicknames"
	"github.com/leaguehub/leaguehub/internal/app/store/users"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"github.com/leaguehub/leaguehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := NewHandler(db.Client(), userstore.New(db), nicknamestore.New(db), nil, zap.NewNop())
	return h, fx
}

func TestSetNickname(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	fx.CreateUser(ctx, "u1", "u1@example.com", models.Profile{})

	req := httptest.NewRequest(http.MethodPost, "/profile/nickname",
		strings.NewReader(`{"nickname":"Road.Runner"}`))
	req = testutil.AuthedRequest(t, req, "u1", "u1@example.com")
	rec := httptest.NewRecorder()
	h.SetNickname(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	entry, err := h.Nicknames.Get(ctx, "road.runner")
	if err != nil {
		t.Fatalf("registry entry: %v", err)
	}
	if entry.UID != "u1" {
		t.Fatalf("registry owner = %q, want u1", entry.UID)
	}

	u, err := h.Users.GetByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Nickname != "Road.Runner" || u.NicknameLower != "road.runner" {
		t.Fatalf("user nickname = %q/%q", u.Nickname, u.NicknameLower)
	}
}

func TestSetNicknameTakenByOther(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	fx.CreateUser(ctx, "u1", "u1@example.com", models.Profile{})
	fx.CreateUser(ctx, "u2", "u2@example.com", models.Profile{})

	if err := h.Nicknames.Put(ctx, "champ", "u1", "Champ"); err != nil {
		t.Fatalf("seed registry: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/profile/nickname",
		strings.NewReader(`{"nickname":"CHAMP"}`))
	req = testutil.AuthedRequest(t, req, "u2", "u2@example.com")
	rec := httptest.NewRecorder()
	h.SetNickname(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
}

func TestSetNicknameReleasesOldEntry(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	fx.CreateUser(ctx, "u1", "u1@example.com", models.Profile{})

	for _, nick := range []string{"first_nick", "second_nick"} {
		req := httptest.NewRequest(http.MethodPost, "/profile/nickname",
			strings.NewReader(`{"nickname":"`+nick+`"}`))
		req = testutil.AuthedRequest(t, req, "u1", "u1@example.com")
		rec := httptest.NewRecorder()
		h.SetNickname(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("set %q: status %d, body %s", nick, rec.Code, rec.Body.String())
		}
	}

	if _, err := h.Nicknames.Get(ctx, "first_nick"); err == nil {
		t.Fatal("old registry entry should be gone")
	}
	entry, err := h.Nicknames.Get(ctx, "second_nick")
	if err != nil {
		t.Fatalf("new registry entry: %v", err)
	}
	if entry.UID != "u1" {
		t.Fatalf("owner = %q, want u1", entry.UID)
	}
}

func TestSetNicknameInvalid(t *testing.T) {
	h, fx := newTestHandler(t)
	fx.CreateUser(context.Background(), "u1", "u1@example.com", models.Profile{})

	for _, bad := range []string{"ab", "has spaces", "way_too_long_for_a_nickname", "bad!chars"} {
		req := httptest.NewRequest(http.MethodPost, "/profile/nickname",
			strings.NewReader(`{"nickname":"`+bad+`"}`))
		req = testutil.AuthedRequest(t, req, "u1", "u1@example.com")
		rec := httptest.NewRecorder()
		h.SetNickname(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("nickname %q: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestSetNicknameWithoutProfile(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/profile/nickname",
		strings.NewReader(`{"nickname":"ghost_user"}`))
	req = testutil.AuthedRequest(t, req, "nobody", "nobody@example.com")
	rec := httptest.NewRecorder()
	h.SetNickname(rec, req)

	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("status = %d, want 412; body %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateMergesFieldsAndPrivacy(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	fx.CreateUser(ctx, "u1", "u1@example.com", models.Profile{
		Custom: map[string]any{"first_name": "Ada", "thought": "keep me"},
	})

	body := `{
		"fields": {"last_name": "Lovelace"},
		"privacy": {"custom.phone": {"mode": "league"}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader(body))
	req = testutil.AuthedRequest(t, req, "u1", "u1@example.com")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	u, err := h.Users.GetByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Profile.Custom["last_name"] != "Lovelace" {
		t.Fatalf("last_name = %v", u.Profile.Custom["last_name"])
	}
	if u.Profile.Custom["thought"] != "keep me" {
		t.Fatal("merge clobbered an untouched key")
	}
	if got := u.Profile.Privacy["custom.phone"].Mode; got != "league" {
		t.Fatalf("privacy mode = %q", got)
	}
}

func TestUpdateSanitizesMarkup(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	fx.CreateUser(ctx, "u1", "u1@example.com", models.Profile{})

	body := `{"fields": {"thought": "<script>alert(1)</script>hello <b>world</b>"}}`
	req := httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader(body))
	req = testutil.AuthedRequest(t, req, "u1", "u1@example.com")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	u, err := h.Users.GetByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	got, _ := u.Profile.Custom["thought"].(string)
	if strings.Contains(got, "<") {
		t.Fatalf("markup survived sanitization: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Fatalf("text content lost: %q", got)
	}
}

func TestUpdateUnknownUser(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/profile",
		strings.NewReader(`{"fields": {"thought": "hi"}}`))
	req = testutil.AuthedRequest(t, req, "nobody", "nobody@example.com")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateField(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := context.Background()
	fx.CreateUser(ctx, "u1", "u1@example.com", models.Profile{})

	req := httptest.NewRequest(http.MethodPost, "/profile/field",
		strings.NewReader(`{"field_key": "phone", "value": "+1 555 0100"}`))
	req = testutil.AuthedRequest(t, req, "u1", "u1@example.com")
	rec := httptest.NewRecorder()
	h.UpdateField(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	u, err := h.Users.GetByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Profile.Custom["phone"] != "+1 555 0100" {
		t.Fatalf("phone = %v", u.Profile.Custom["phone"])
	}
}

func TestUpdateFieldMissingKey(t *testing.T) {
	h, fx := newTestHandler(t)
	fx.CreateUser(context.Background(), "u1", "u1@example.com", models.Profile{})

	req := httptest.NewRequest(http.MethodPost, "/profile/field",
		strings.NewReader(`{"value": "x"}`))
	req = testutil.AuthedRequest(t, req, "u1", "u1@example.com")
	rec := httptest.NewRecorder()
	h.UpdateField(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
