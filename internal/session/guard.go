// internal/session/guard.go
//
// Session guard: validates an existing session against the inactivity
// timeout, then refreshes or terminates it.
//
// State machine
// -------------
//
//	NoSession ──────────────────────────────▶ Terminated   record absent
//	Active ──▶ TimedOut ────────────────────▶ Terminated   lastUpdated+timeout < now
//	Active ─────────────────────────────────▶ Active       otherwise, refresh
//
// Exempt routes never reach the guard (see ExemptRoutes).  Guest and
// headless contexts skip it too; the bootstrap decides both.
package session

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/reqboot/internal/metrics"
)

// State is a node of the guard state machine.
type State int

const (
	NoSession State = iota
	Active
	TimedOut
	Terminated
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case TimedOut:
		return "timed_out"
	case Terminated:
		return "terminated"
	default:
		return "no_session"
	}
}

// Outcome is the guard's verdict for one request.
type Outcome struct {
	State State
	// From is the state the record was in before the final transition:
	// NoSession, TimedOut, or Active.
	From   State
	Record *Record
	Status string
}

// Logout reports whether the caller must end the user's login.
func (o Outcome) Logout() bool { return o.State == Terminated }

// Guard evaluates sessions.  Events may be nil.
type Guard struct {
	Store  Store
	Policy TimeoutPolicy
	Events EventLog
}

// Check runs the state machine for sessionID at now.  Errors are store
// failures only; every business outcome is returned as an Outcome.
func (g *Guard) Check(ctx context.Context, sessionID string, now time.Time) (Outcome, error) {
	rec, err := g.Store.FindByID(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}
	if rec == nil {
		metrics.SessionOutcomeTotal.WithLabelValues(Terminated.String()).Inc()
		return Outcome{State: Terminated, From: NoSession}, nil
	}

	timeout, err := g.Policy.Timeout(ctx, rec.OwnerUserID)
	if err != nil {
		return Outcome{}, err
	}

	if rec.LastUpdated.Add(timeout).Before(now) {
		zap.L().Info("session timed out",
			zap.String("session_id", rec.ID),
			zap.Int64("user_id", rec.OwnerUserID),
			zap.Duration("timeout", timeout))
		if g.Events != nil {
			if err := g.Events.LogEvent(ctx, rec, EventActiveTimeout, now); err != nil {
				zap.L().Warn("session log write failed", zap.Error(err))
			}
		}
		if err := g.Store.Delete(ctx, rec); err != nil {
			return Outcome{}, err
		}
		metrics.SessionOutcomeTotal.WithLabelValues(Terminated.String()).Inc()
		return Outcome{State: Terminated, From: TimedOut, Record: rec}, nil
	}

	rec.LastUpdated = now
	if err := g.Store.Save(ctx, rec); err != nil {
		return Outcome{}, err
	}
	metrics.SessionOutcomeTotal.WithLabelValues(Active.String()).Inc()
	return Outcome{State: Active, From: Active, Record: rec, Status: rec.Status}, nil
}

// ExemptRoutes names routes that bypass the guard entirely, such as the
// lightweight notification poll.  Routes are compared without surrounding
// slashes.
type ExemptRoutes map[string]struct{}

// NewExemptRoutes builds the policy from configuration.
func NewExemptRoutes(routes ...string) ExemptRoutes {
	e := make(ExemptRoutes, len(routes))
	for _, r := range routes {
		e[strings.Trim(r, "/")] = struct{}{}
	}
	return e
}

// Exempts reports whether route skips the guard.
func (e ExemptRoutes) Exempts(route string) bool {
	_, ok := e[strings.Trim(route, "/")]
	return ok
}
