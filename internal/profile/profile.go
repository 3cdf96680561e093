// internal/profile/profile.go
//
// `profile` table row model and lookups.
//
// Schema reference
//
//	CREATE TABLE profile (
//	    id                  BIGINT       PRIMARY KEY,
//	    username            VARCHAR(64)  NOT NULL UNIQUE,
//	    language            VARCHAR(16)  NOT NULL DEFAULT '',
//	    time_zone           VARCHAR(64)  NOT NULL DEFAULT '',
//	    notification_sound  VARCHAR(128) NOT NULL DEFAULT '',
//	    fullscreen          TINYINT(1)   NOT NULL DEFAULT 0
//	);
//
// Notes
// -----
//   - Lookups return (nil, nil) for a missing row.  Empty locale or timezone
//     columns are valid and simply fall through the locale chain.
//   - Profile id 1 is the administrative default profile.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// AdminProfileID is the default profile consulted when a user has no locale
// or timezone of their own.
const AdminProfileID int64 = 1

// Profile carries per-user presentation preferences.
type Profile struct {
	ID                int64  `db:"id"                 json:"id"`
	Username          string `db:"username"           json:"username"`
	Locale            string `db:"language"           json:"locale"`
	TimeZone          string `db:"time_zone"          json:"time_zone"`
	NotificationSound string `db:"notification_sound" json:"notification_sound"`
	Fullscreen        bool   `db:"fullscreen"         json:"fullscreen"`
}

// Store looks up profiles.
type Store interface {
	ByUsername(ctx context.Context, name string) (*Profile, error)
	ByID(ctx context.Context, id int64) (*Profile, error)
}

const columns = `id, username, language, time_zone, notification_sound, fullscreen`

// SQLStore reads the profile table.
type SQLStore struct {
	DB *sqlx.DB
}

func (s *SQLStore) ByUsername(ctx context.Context, name string) (*Profile, error) {
	return s.get(ctx, `SELECT `+columns+` FROM profile WHERE username = ? LIMIT 1`, name)
}

func (s *SQLStore) ByID(ctx context.Context, id int64) (*Profile, error) {
	return s.get(ctx, `SELECT `+columns+` FROM profile WHERE id = ? LIMIT 1`, id)
}

func (s *SQLStore) get(ctx context.Context, q string, arg any) (*Profile, error) {
	var p Profile
	if err := s.DB.GetContext(ctx, &p, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile lookup %v: %w", arg, err)
	}
	return &p, nil
}

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[int64]Profile
}

func NewMemoryStore(ps ...Profile) *MemoryStore {
	m := &MemoryStore{byID: make(map[int64]Profile, len(ps))}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return m
}

// Put inserts or replaces p.
func (m *MemoryStore) Put(p Profile) {
	m.mu.Lock()
	m.byID[p.ID] = p
	m.mu.Unlock()
}

func (m *MemoryStore) ByID(_ context.Context, id int64) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemoryStore) ByUsername(_ context.Context, name string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.byID {
		if p.Username == name {
			return &p, nil
		}
	}
	return nil, nil
}
