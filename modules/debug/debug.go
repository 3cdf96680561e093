// modules/debug/debug.go
//
// Diagnostic module that echoes the resolved request context, the client
// address, and the parsed user agent as JSON.  Only Admin sessions may read
// it; headless callers never qualify.
package debug

import (
	"encoding/json"
	"net/http"

	"github.com/yanizio/reqboot/internal/acl"
	"github.com/yanizio/reqboot/internal/bootstrap"
	"github.com/yanizio/reqboot/internal/module"
	"github.com/yanizio/reqboot/internal/requestinfo"
)

func init() {
	module.Register("debug", Handler())
}

// Handler returns the Admin-gated debug view.
func Handler() http.Handler {
	return bootstrap.RequireRole(acl.AdminRole)(http.HandlerFunc(handler))
}

// handler writes the bootstrap view, then appends request info.
func handler(w http.ResponseWriter, r *http.Request) {
	if info := requestinfo.FromContext(r.Context()); info != nil {
		w.Header().Set("X-Client-IP", info.IP.String())
	}
	bootstrap.DebugHandler(w, r)
}

// Describe is served at /debug/request for quick UA checks.
func Describe(w http.ResponseWriter, r *http.Request) {
	info := requestinfo.FromContext(r.Context())
	if info == nil {
		http.Error(w, "request info unavailable", http.StatusInternalServerError)
		return
	}
	out := map[string]any{
		"ip":        info.IP.String(),
		"lang":      info.PrimaryLang,
		"ua":        r.UserAgent(),
		"ua_parsed": info.UA,
		"path":      info.URL.Path,
		"query":     info.URL.RawQuery,
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
