// internal/session/sqlstore.go
//
// MySQL-backed session store and event log.
//
// Schema reference
//
//	CREATE TABLE session (
//	    id             VARCHAR(64)  PRIMARY KEY,
//	    owner_user_id  BIGINT       NOT NULL,
//	    last_updated   BIGINT       NOT NULL,   -- Unix seconds
//	    status         VARCHAR(32)  NOT NULL DEFAULT ''
//	);
//
//	CREATE TABLE session_log (
//	    id          BIGINT AUTO_INCREMENT PRIMARY KEY,
//	    session_id  VARCHAR(64) NOT NULL,
//	    user_id     BIGINT      NOT NULL,
//	    event       VARCHAR(32) NOT NULL,
//	    created_at  BIGINT      NOT NULL
//	);
//
// Notes
// -----
//   - Save never inserts.  Records are created at login, elsewhere.
//   - Helpers never log; the guard decides what to log.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store on the tenant database.
type SQLStore struct {
	DB *sqlx.DB
}

type sessionRow struct {
	ID          string `db:"id"`
	OwnerUserID int64  `db:"owner_user_id"`
	LastUpdated int64  `db:"last_updated"`
	Status      string `db:"status"`
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*Record, error) {
	const q = `
	    SELECT id, owner_user_id, last_updated, status
	    FROM   session
	    WHERE  id = ?
	    LIMIT  1`
	var row sessionRow
	if err := s.DB.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("session find %s: %w", id, err)
	}
	return &Record{
		ID:          row.ID,
		OwnerUserID: row.OwnerUserID,
		LastUpdated: time.Unix(row.LastUpdated, 0),
		Status:      row.Status,
	}, nil
}

func (s *SQLStore) Save(ctx context.Context, rec *Record) error {
	const q = `UPDATE session SET last_updated = ?, status = ? WHERE id = ?`
	if _, err := s.DB.ExecContext(ctx, q, rec.LastUpdated.Unix(), rec.Status, rec.ID); err != nil {
		return fmt.Errorf("session save %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, rec *Record) error {
	const q = `DELETE FROM session WHERE id = ?`
	if _, err := s.DB.ExecContext(ctx, q, rec.ID); err != nil {
		return fmt.Errorf("session delete %s: %w", rec.ID, err)
	}
	return nil
}

// SQLEventLog appends rows to session_log.
type SQLEventLog struct {
	DB *sqlx.DB
}

func (l *SQLEventLog) LogEvent(ctx context.Context, rec *Record, event string, at time.Time) error {
	const q = `
	    INSERT INTO session_log (session_id, user_id, event, created_at)
	    VALUES (?, ?, ?, ?)`
	_, err := l.DB.ExecContext(ctx, q, rec.ID, rec.OwnerUserID, event, at.Unix())
	return err
}
