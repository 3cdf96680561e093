// internal/bootstrap/http.go
//
// HTTP adapter for the bootstrap pipeline.
//
/*
Context
--------
Middleware sits after requestinfo.Enrich.  For every request it:

  1. Derives the route from the path, stripping the base path and the
     script segment ("/crm/index.php/site/index" → "site/index").
  2. Picks the mode.  Routes whose first segment is a no-session prefix
     (default "api") run headless; everything else is interactive.
  3. Runs the Bootstrapper.  A *ResolutionError becomes a 500.
  4. Clears the session cookie when the guard ended the session.
  5. Stores the RequestContext and its locale.Format on the request
     context for handlers.

Notes
-----
  • RequireEdition gates a subtree on the effective tier and answers 404 so
    unentitled deployments do not advertise the feature.
  • RequireRole answers 403 unless an active session holds the role.
    Headless requests carry no session and always fail it.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package bootstrap

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/reqboot/internal/edition"
	"github.com/yanizio/reqboot/internal/requestinfo"
	"github.com/yanizio/reqboot/internal/session"
	"github.com/yanizio/reqboot/internal/urls"
)

// HTTP adapts a Bootstrapper to net/http.
type HTTP struct {
	Boot      *Bootstrapper
	Cookies   session.Cookies
	NoSession []string
	BasePath  string
}

// Route strips the base path and script segment from p.
func (h *HTTP) Route(p string) string {
	base := "/" + strings.Trim(h.BasePath, "/")
	if base != "/" {
		p = strings.TrimPrefix(p, base)
	}
	p = strings.Trim(p, "/")
	script := h.Boot.Script
	if script == "" {
		script = urls.DefaultScript
	}
	p = strings.TrimPrefix(p, strings.Trim(script, "/"))
	return strings.Trim(p, "/")
}

// Headless reports whether route runs without a session.
func (h *HTTP) Headless(route string) bool {
	first, _, _ := strings.Cut(route, "/")
	for _, pfx := range h.NoSession {
		if first == strings.Trim(pfx, "/") {
			return true
		}
	}
	return false
}

// Middleware runs the pipeline and forwards with the RequestContext
// attached.
func (h *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := h.Route(r.URL.Path)
		in := Input{
			Mode:    Interactive,
			Route:   route,
			Request: urls.FromHTTP(r, h.BasePath),
		}
		if h.Headless(route) {
			in.Mode = Headless
		} else if id, ok := h.Cookies.IDFromRequest(r); ok {
			in.SessionID = id
		}
		if info := requestinfo.FromContext(r.Context()); info != nil {
			in.Device = info.UA
		}

		rc, err := h.Boot.Run(r.Context(), in)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if rc.Logout {
			h.Cookies.ClearCookie(w, r)
		}

		zap.L().Debug("request bootstrapped",
			zap.String("route", route),
			zap.Stringer("mode", rc.Mode),
			zap.Int64("user_id", rc.EffectiveUserID()),
			zap.Bool("guest", rc.IsGuest),
			zap.Stringer("edition", rc.Edition))

		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), rc)))
	})
}

// RequireEdition answers 404 unless the effective edition covers t.
func RequireEdition(t edition.Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := FromContext(r.Context())
			if rc == nil || !rc.Entitled(t) {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 403 unless the request has an active session whose
// roles include role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := FromContext(r.Context())
			if rc == nil || !rc.HasActiveSession || !slices.Contains(rc.Roles, role) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DebugHandler writes the resolved context as JSON, plus the public URL
// bases.  It does no access check; mount it behind RequireRole.
func DebugHandler(w http.ResponseWriter, r *http.Request) {
	rc := FromContext(r.Context())
	if rc == nil {
		http.Error(w, "no request context", http.StatusInternalServerError)
		return
	}
	id := rc.Identity.EffectiveUser()
	out := map[string]any{
		"context":           rc,
		"effective_user_id": id.UserID,
		"identity_source":   id.Source.String(),
		"format":            rc.Format.String(),
		"urls": map[string]any{
			"absolute_base":          baseJSON(rc.URLs.AbsoluteBase()),
			"external_web_root":      baseJSON(rc.URLs.ExternalWebRoot()),
			"external_absolute_base": baseJSON(rc.URLs.ExternalAbsoluteBase()),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func baseJSON(b urls.Base) map[string]string {
	return map[string]string{"url": b.URL, "source": b.Source.String()}
}
