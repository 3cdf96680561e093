// modules/admin/lock.go
//
// Application lock toggle.
//
// Context
// -------
// POST /index.php/admin?action=lock writes the current Unix time to the
// lock sentinel; action=unlock removes it.  Only sessions holding the
// Admin role may call it.  The next request sees the new state because
// every request reads the sentinel afresh.
package admin

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/yanizio/reqboot/internal/acl"
	"github.com/yanizio/reqboot/internal/bootstrap"
	"github.com/yanizio/reqboot/internal/lock"
	"github.com/yanizio/reqboot/internal/module"
)

// Role required to toggle the lock.
const Role = acl.AdminRole

// Register installs the admin module for the sentinel at path on fsys.
func Register(fsys afero.Fs, path string) {
	module.Register("admin", &Handler{FS: fsys, Path: path, Now: time.Now})
}

// Handler toggles the lock.
type Handler struct {
	FS   afero.Fs
	Path string
	Now  func() time.Time
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc := bootstrap.FromContext(r.Context())
	if rc == nil || !rc.HasActiveSession || !slices.Contains(rc.Roles, Role) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var ts int64
	switch r.FormValue("action") {
	case "lock":
		ts = h.Now().Unix()
	case "unlock":
	default:
		http.Error(w, "action must be lock or unlock", http.StatusBadRequest)
		return
	}

	if err := lock.New(h.FS, h.Path).Set(ts); err != nil {
		zap.L().Error("lock toggle failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	zap.L().Info("application lock changed",
		zap.Int64("user_id", rc.EffectiveUserID()),
		zap.Int64("locked_at", ts))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{"locked_at": ts})
}
