// Package identity decides which user a request acts as.
//
// An interactive, authenticated session acts as its own user.  Headless
// contexts (API calls, console jobs, exempt polls) act as a substitute: the
// one explicitly assigned for the run, else FallbackUserID.  The fallback
// keeps offline jobs working against the administrative profile; it is not
// a security boundary and callers must not treat it as one.
package identity

import "github.com/yanizio/reqboot/internal/memo"

// FallbackUserID is the well-known administrative user.
const FallbackUserID int64 = 1

// Source records how the effective user was chosen.
type Source int

const (
	SourceSession Source = iota
	SourceExplicit
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceSession:
		return "session"
	case SourceExplicit:
		return "explicit"
	default:
		return "fallback"
	}
}

// Identity is the resolved acting user.
type Identity struct {
	UserID int64
	Source Source
}

// Resolver is owned by one request context.
type Resolver struct {
	sessionUser *int64
	substitute  *int64
	resolved    memo.Value[Identity]
}

// BindSession marks the context as an interactive, non-guest session acting
// as userID.
func (r *Resolver) BindSession(userID int64) { r.sessionUser = &userID }

// Assign sets an explicit substitute identity.  It returns false, and
// changes nothing, once the effective user has been resolved.
func (r *Resolver) Assign(userID int64) bool {
	if _, done := r.resolved.Peek(); done {
		return false
	}
	r.substitute = &userID
	return true
}

// InSession reports whether an authenticated session is bound.
func (r *Resolver) InSession() bool { return r.sessionUser != nil }

// EffectiveUser resolves the acting user once; later calls are pure reads.
func (r *Resolver) EffectiveUser() Identity {
	id, _ := r.resolved.Get(func() (Identity, error) {
		switch {
		case r.sessionUser != nil:
			return Identity{UserID: *r.sessionUser, Source: SourceSession}, nil
		case r.substitute != nil:
			return Identity{UserID: *r.substitute, Source: SourceExplicit}, nil
		default:
			return Identity{UserID: FallbackUserID, Source: SourceFallback}, nil
		}
	})
	return id
}
