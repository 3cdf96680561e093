// internal/settings/settings.go
//
// Application settings row.
//
// Context
// -------
// One row of the `admin_settings` table (primary key 1) carries the
// deployment-wide values the bootstrap needs: stored edition, default
// currency, and the public URL overrides used when building links outside a
// web request.
//
// Workflow
// --------
//  1. The bootstrap asks for settings after the crypto gate has run, since
//     some columns on this row are encrypted at rest.
//  2. `SQLStore.ByID` runs one SELECT by primary key.
//  3. `Deduped` wraps any Store so concurrent requests that miss at the
//     same instant share a single query.  Nothing is cached after the
//     query returns; each context memoizes its own copy.  A cancelled
//     request abandons the wait without failing the others.
//
// Notes
// -----
//   - A missing row is an error: the application cannot run without it.
//   - Oxford commas, two spaces after periods, no m-dash.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"
)

// PrimaryID is the key of the single settings row.
const PrimaryID int64 = 1

// ErrNotFound is returned when the settings row is absent.
var ErrNotFound = errors.New("settings row not found")

// Settings mirrors the columns the bootstrap reads.
type Settings struct {
	ID              int64  `db:"id"`
	Edition         string `db:"edition"`
	Currency        string `db:"currency"`
	ExternalBaseURL string `db:"external_base_url"`
	ExternalBaseURI string `db:"external_base_uri"`
}

// Store reads settings by primary key.
type Store interface {
	ByID(ctx context.Context, id int64) (*Settings, error)
}

// SQLStore reads admin_settings.
type SQLStore struct {
	DB *sqlx.DB
}

func (s *SQLStore) ByID(ctx context.Context, id int64) (*Settings, error) {
	const q = `
	    SELECT  id, edition, currency, external_base_url, external_base_uri
	    FROM    admin_settings
	    WHERE   id = ?
	    LIMIT   1`
	var row Settings
	if err := s.DB.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("settings %d: %w", id, err)
	}
	return &row, nil
}

// Deduped collapses concurrent lookups of the same id into one call.  The
// shared query runs detached from any one caller's cancellation; each caller
// still stops waiting when its own ctx is done.
type Deduped struct {
	Store Store
	sfg   singleflight.Group
}

func (d *Deduped) ByID(ctx context.Context, id int64) (*Settings, error) {
	shared := context.WithoutCancel(ctx)
	ch := d.sfg.DoChan(strconv.FormatInt(id, 10), func() (any, error) {
		return d.Store.ByID(shared, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Hand each caller its own copy; contexts must not share state.
		s := *res.Val.(*Settings)
		return &s, nil
	}
}

// Static serves a fixed row.  Used by tests and headless tooling.
type Static Settings

func (s Static) ByID(context.Context, int64) (*Settings, error) {
	row := Settings(s)
	return &row, nil
}
