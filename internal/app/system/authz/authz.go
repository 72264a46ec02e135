// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/leaguehub/leaguehub/internal/app/system/auth"
	"github.com/leaguehub/leaguehub/internal/app/system/normalize"
)

// CallerUID returns the authenticated caller's uid and a found flag.
// ok=false means no valid token was presented; handlers behind
// RequireSignedIn can treat that as an internal inconsistency.
func CallerUID(r *http.Request) (string, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.UID == "" {
		return "", false
	}
	return u.UID, true
}

// CallerEmail returns the caller's login email, lowercased, or "" when the
// token carried none.
func CallerEmail(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return normalize.Email(u.Email)
}
