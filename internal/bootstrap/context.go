package bootstrap

import (
	"context"

	"github.com/yanizio/reqboot/internal/edition"
	"github.com/yanizio/reqboot/internal/identity"
	"github.com/yanizio/reqboot/internal/locale"
	"github.com/yanizio/reqboot/internal/module"
	"github.com/yanizio/reqboot/internal/settings"
	"github.com/yanizio/reqboot/internal/ua"
	"github.com/yanizio/reqboot/internal/urls"
)

// Mode selects the pipeline path.
type Mode int

const (
	// Interactive requests carry (or lack) a browser session.
	Interactive Mode = iota
	// Headless runs are API calls and console jobs.  They never touch the
	// session guard and act as a substitute identity.
	Headless
)

func (m Mode) String() string {
	if m == Headless {
		return "headless"
	}
	return "interactive"
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// RequestContext is everything a handler needs to know about who is asking
// and how to present the answer.  One per request; never shared.
type RequestContext struct {
	Mode              Mode              `json:"mode"`
	Route             string            `json:"route"`
	HasActiveSession  bool              `json:"has_active_session"`
	IsGuest           bool              `json:"is_guest"`
	Exempt            bool              `json:"exempt"`
	Logout            bool              `json:"logout"`
	SessionID         string            `json:"session_id,omitempty"`
	SessionStatus     string            `json:"session_status,omitempty"`
	LockTimestamp     *int64            `json:"lock_timestamp,omitempty"`
	Crypto            string            `json:"crypto"`
	Edition           edition.Tier      `json:"edition"`
	Roles             []string          `json:"roles"`
	Locale            string            `json:"locale"`
	TimeZone          string            `json:"time_zone"`
	Currency          string            `json:"currency"`
	CurrencySymbols   map[string]string `json:"currency_symbols"`
	Fullscreen        bool              `json:"fullscreen"`
	NotificationSound string            `json:"notification_sound,omitempty"`
	Device            ua.Info           `json:"device"`
	Modules           module.Set        `json:"modules"`

	Format   locale.Format      `json:"-"`
	Settings *settings.Settings `json:"-"`
	Identity *identity.Resolver `json:"-"`
	URLs     *urls.Resolver     `json:"-"`
}

// EffectiveUserID is the user the request acts as.
func (c *RequestContext) EffectiveUserID() int64 {
	return c.Identity.EffectiveUser().UserID
}

// Locked reports whether an administrator has locked the application.
func (c *RequestContext) Locked() bool { return c.LockTimestamp != nil }

// Entitled reports whether the effective edition covers t.
func (c *RequestContext) Entitled(t edition.Tier) bool { return c.Edition.Contains(t) }

type ctxKey struct{}

// WithContext stores rc on ctx, along with its locale.Format.
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, rc)
	return locale.WithFormat(ctx, rc.Format)
}

// FromContext returns the RequestContext stored by the middleware, or nil.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(ctxKey{}).(*RequestContext)
	return rc
}
