// internal/bootstrap/bootstrap.go
//
// Per-request bootstrap pipeline.
//
// Context
// -------
// Every request, and every headless run, resolves the same runtime facts
// in a fixed order:
//
//	crypto gate → lock → session guard → identity → settings/edition →
//	locale and timezone → public URLs (lazy)
//
// Later stages read what earlier ones produced: the guard decides whether
// a session user exists, identity needs that answer, the edition and the
// URL resolver need settings, and settings are only readable once the
// crypto gate has configured field encryption.
//
// Workflow
// --------
//  1. Interactive requests on an exempt route skip the guard and run as a
//     guest.  So do requests that carry no session id.
//  2. A guard outcome of Terminated marks the context for logout; the HTTP
//     middleware clears the cookie.  This is not an error.
//  3. Headless runs never evaluate a session.  They act as the substitute
//     identity (explicit, else user 1) and read presentation preferences
//     from the configured console profile.
//  4. Store failures stop the pipeline with *ResolutionError.
//
// Notes
// -----
//   - Nothing here is shared between requests except the crypto latch.
//   - Oxford commas, two spaces after periods, no m-dash.
package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/yanizio/reqboot/internal/acl"
	"github.com/yanizio/reqboot/internal/cryptogate"
	"github.com/yanizio/reqboot/internal/edition"
	"github.com/yanizio/reqboot/internal/env"
	"github.com/yanizio/reqboot/internal/identity"
	"github.com/yanizio/reqboot/internal/locale"
	"github.com/yanizio/reqboot/internal/lock"
	"github.com/yanizio/reqboot/internal/metrics"
	"github.com/yanizio/reqboot/internal/module"
	"github.com/yanizio/reqboot/internal/profile"
	"github.com/yanizio/reqboot/internal/session"
	"github.com/yanizio/reqboot/internal/settings"
	"github.com/yanizio/reqboot/internal/ua"
	"github.com/yanizio/reqboot/internal/urls"
)

// RoleSource lists role names for a user.  acl.Policy satisfies it.
type RoleSource interface {
	Roles(ctx context.Context, userID int64) ([]string, error)
}

// Bootstrapper holds the process-wide collaborators.  It is safe for
// concurrent use; all per-request state lives in the RequestContext.
type Bootstrapper struct {
	Env      env.Provider
	Gate     *cryptogate.Gate
	Guard    *session.Guard
	Exempt   session.ExemptRoutes
	Roles    RoleSource
	Settings settings.Store
	Profiles profile.Store
	Editions *edition.Resolver

	// FS backs the lock sentinel.  LockPath is relative to it.
	FS       afero.Fs
	LockPath string

	Currencies       []string
	HeadlessUsername string
	OfflineBaseURL   string
	Script           string
	Modules          module.Set
}

// Input describes one run.
type Input struct {
	Mode      Mode
	Route     string
	SessionID string
	// Request is nil for console runs, which selects offline URL mode.
	Request *urls.Request
	Device  ua.Info
	// Substitute is the explicit acting user for a headless run.
	Substitute *int64
}

// Run resolves a RequestContext for in.
func (b *Bootstrapper) Run(ctx context.Context, in Input) (*RequestContext, error) {
	start := time.Now()
	rc, err := b.run(ctx, in)
	metrics.BootstrapDuration.WithLabelValues(in.Mode.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		var re *ResolutionError
		if errors.As(err, &re) {
			metrics.BootstrapErrorsTotal.WithLabelValues(string(re.Stage)).Inc()
			zap.L().Error("bootstrap failed",
				zap.String("stage", string(re.Stage)),
				zap.String("route", in.Route),
				zap.Error(re.Err))
		}
		return nil, err
	}
	return rc, nil
}

func (b *Bootstrapper) run(ctx context.Context, in Input) (*RequestContext, error) {
	rc := &RequestContext{
		Mode:     in.Mode,
		Route:    in.Route,
		Device:   in.Device,
		Modules:  b.Modules,
		Identity: &identity.Resolver{},
	}

	// 1. Crypto.  Never fails; degrades to unsafe.
	rc.Crypto = b.Gate.EnsureReady(ctx).Mode.String()

	// 2. Lock.
	ts, err := lock.New(b.FS, b.LockPath).State()
	if err != nil {
		return nil, &ResolutionError{Stage: StageLock, Err: err}
	}
	if ts != 0 {
		rc.LockTimestamp = &ts
	}

	// 3. Session.
	if in.Mode == Interactive {
		if err := b.guard(ctx, in, rc); err != nil {
			return nil, err
		}
	}

	// 4. Identity.
	if in.Mode == Headless && in.Substitute != nil {
		rc.Identity.Assign(*in.Substitute)
	}
	uid := rc.Identity.EffectiveUser().UserID

	switch {
	case rc.HasActiveSession:
		roles, err := b.Roles.Roles(ctx, uid)
		if err != nil {
			return nil, &ResolutionError{Stage: StageRoles, Err: err}
		}
		rc.Roles = roles
	case rc.IsGuest:
		rc.Roles = []string{acl.GuestRole}
	}

	// 5. Settings and edition.
	s, err := b.Settings.ByID(ctx, settings.PrimaryID)
	if err != nil {
		return nil, &ResolutionError{Stage: StageSettings, Err: err}
	}
	rc.Settings = s
	rc.Currency = s.Currency
	rc.Edition = b.Editions.Effective(s.Edition)

	// 6. Locale and timezone.
	lr := locale.NewResolver(b.Profiles, b.actingProfile(in, rc, uid), b.Currencies)
	f, err := lr.Format(ctx)
	if err != nil {
		return nil, &ResolutionError{Stage: StageLocale, Err: err}
	}
	rc.Format = f
	rc.Locale, _ = lr.Locale(ctx)
	rc.TimeZone, _ = lr.TimeZone(ctx)
	if rc.CurrencySymbols, err = lr.CurrencySymbols(ctx); err != nil {
		return nil, &ResolutionError{Stage: StageLocale, Err: err}
	}
	if p, _ := lr.Profile(ctx); p != nil {
		rc.Fullscreen = p.Fullscreen
		rc.NotificationSound = p.NotificationSound
	}

	// 7. URLs, resolved on demand.
	rc.URLs = &urls.Resolver{
		Env:            b.Env,
		Request:        in.Request,
		Settings:       s,
		OfflineBaseURL: b.OfflineBaseURL,
		Script:         b.Script,
	}
	return rc, nil
}

// guard runs the interactive session stage.
func (b *Bootstrapper) guard(ctx context.Context, in Input, rc *RequestContext) error {
	if b.Exempt.Exempts(in.Route) {
		rc.Exempt = true
		rc.IsGuest = true
		return nil
	}
	if in.SessionID == "" {
		rc.IsGuest = true
		return nil
	}

	out, err := b.Guard.Check(ctx, in.SessionID, b.Env.Now())
	if err != nil {
		return &ResolutionError{Stage: StageSession, Err: err}
	}
	if out.Logout() {
		rc.Logout = true
		rc.IsGuest = true
		return nil
	}
	rc.HasActiveSession = true
	rc.SessionID = out.Record.ID
	rc.SessionStatus = out.Status
	rc.Identity.BindSession(out.Record.OwnerUserID)
	return nil
}

// actingProfile picks the first link of the locale chain.  Guests have
// none and go straight to the admin default.  Headless runs without an
// explicit substitute use the console profile.
func (b *Bootstrapper) actingProfile(in Input, rc *RequestContext, uid int64) locale.Lookup {
	switch {
	case rc.HasActiveSession, in.Mode == Headless && in.Substitute != nil:
		return locale.ByUser(b.Profiles, uid)
	case in.Mode == Headless:
		name := b.HeadlessUsername
		if name == "" {
			name = DefaultHeadlessUsername
		}
		return locale.ByUsername(b.Profiles, name)
	default:
		return nil
	}
}

// DefaultHeadlessUsername is the console profile when none is configured.
const DefaultHeadlessUsername = "admin"
