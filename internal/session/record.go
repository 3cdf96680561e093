// internal/session/record.go
//
// Session record and store contracts.
//
// Context
// -------
// A Record is created at login by the authentication layer.  This package
// only reads it, refreshes its timestamp, or deletes it.  Stores return
// (nil, nil) for an absent record so the guard can treat "missing" as a
// state transition rather than an error.  Any non-nil error is a store
// failure and must propagate.
//
// Notes
// -----
//   - Concurrent requests from one user race on LastUpdated.  Last writer
//     wins; no locking is performed.
package session

import (
	"context"
	"time"
)

// Record mirrors one persisted session.
type Record struct {
	ID          string    `json:"id"`
	OwnerUserID int64     `json:"owner_user_id"`
	LastUpdated time.Time `json:"last_updated"`
	Status      string    `json:"status"`
}

// Store persists session records.
type Store interface {
	FindByID(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, rec *Record) error
}

// TimeoutPolicy resolves the inactivity window for one user.  The
// production policy is role based (see internal/acl).
type TimeoutPolicy interface {
	Timeout(ctx context.Context, userID int64) (time.Duration, error)
}

// FixedTimeout applies one window to every user.
type FixedTimeout time.Duration

func (f FixedTimeout) Timeout(context.Context, int64) (time.Duration, error) {
	return time.Duration(f), nil
}

// EventLog records session lifecycle events such as an inactivity timeout.
type EventLog interface {
	LogEvent(ctx context.Context, rec *Record, event string, at time.Time) error
}

// Event names written to the log.
const (
	EventActiveTimeout = "activeTimeout"
)
