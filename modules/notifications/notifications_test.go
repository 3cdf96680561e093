package notifications

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yanizio/reqboot/internal/bootstrap"
	"github.com/yanizio/reqboot/internal/edition"
	"github.com/yanizio/reqboot/internal/module"
)

func TestPoll(t *testing.T) {
	timeNow = func() time.Time { return time.Unix(1714564800, 0) }
	defer func() { timeNow = time.Now }()

	ts := int64(1714560000)
	rc := &bootstrap.RequestContext{Edition: edition.Pro, LockTimestamp: &ts}
	req := httptest.NewRequest("GET", "/index.php/notifications/get", nil)
	req = req.WithContext(bootstrap.WithContext(req.Context(), rc))

	w := httptest.NewRecorder()
	module.Lookup("notifications").ServeHTTP(w, req)

	var got reply
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Locked || got.LockedAt == nil || *got.LockedAt != ts {
		t.Errorf("lock fields = %+v", got)
	}
	if got.Edition != "pro" || got.ServerNow != 1714564800 {
		t.Errorf("reply = %+v", got)
	}
}
