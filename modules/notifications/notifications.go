// Package notifications serves the lightweight poll the browser sends
// every few seconds.  The route is session-exempt: polling must not keep a
// session alive, and it must not log anyone out.
package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/yanizio/reqboot/internal/bootstrap"
	"github.com/yanizio/reqboot/internal/module"
)

func init() {
	module.Register("notifications", http.HandlerFunc(poll))
}

type reply struct {
	Locked    bool   `json:"locked"`
	LockedAt  *int64 `json:"locked_at,omitempty"`
	Edition   string `json:"edition"`
	ServerNow int64  `json:"server_now"`
}

func poll(w http.ResponseWriter, r *http.Request) {
	rc := bootstrap.FromContext(r.Context())
	if rc == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	out := reply{
		Locked:    rc.Locked(),
		LockedAt:  rc.LockTimestamp,
		Edition:   rc.Edition.String(),
		ServerNow: rc.Format.In(timeNow()).Unix(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(out)
}
