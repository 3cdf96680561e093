// internal/session/session.go
//
// Session cookie helpers.
//
// Context
//   The login flow (external) issues a cookie carrying the session id.  The
//   bootstrap middleware reads it with IDFromRequest and, when the guard
//   terminates the session, clears it with ClearCookie so the browser
//   stops presenting a dead id.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
)

// DefaultCookieName is used when configuration leaves session.cookie_name
// empty.
const DefaultCookieName = "reqboot_session"

// Cookies reads and clears the session cookie.
type Cookies struct {
	Name string
}

func (c Cookies) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

// IDFromRequest returns the session id presented by the client.
//
// ok == false when the cookie is missing or empty.
func (c Cookies) IDFromRequest(r *http.Request) (id string, ok bool) {
	ck, err := r.Cookie(c.name())
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// ClearCookie expires the session cookie.
func (c Cookies) ClearCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
