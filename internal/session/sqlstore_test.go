// internal/session/sqlstore_test.go
//
// Unit-tests for the SQL session store using sqlmock.
//
// Run: go test ./internal/session -v

package session

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &SQLStore{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestSQLStoreFindByID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, owner_user_id, last_updated, status FROM session WHERE id = ?`,
	)).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_user_id", "last_updated", "status"}).
			AddRow("abc", 42, 1_700_000_000, "online"))

	rec, err := s.FindByID(context.Background(), "abc")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if rec == nil || rec.OwnerUserID != 42 || rec.Status != "online" {
		t.Fatalf("unexpected record: %#v", rec)
	}
	if !rec.LastUpdated.Equal(time.Unix(1_700_000_000, 0)) {
		t.Fatalf("LastUpdated = %v", rec.LastUpdated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSQLStoreFindByIDAbsent(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM session WHERE id = ?`)).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_user_id", "last_updated", "status"}))

	rec, err := s.FindByID(context.Background(), "gone")
	if err != nil || rec != nil {
		t.Fatalf("FindByID = %#v, %v; want nil, nil", rec, err)
	}
}

func TestSQLStoreFindByIDFailure(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("bad connection")

	mock.ExpectQuery(regexp.QuoteMeta(`FROM session WHERE id = ?`)).
		WithArgs("abc").
		WillReturnError(boom)

	if _, err := s.FindByID(context.Background(), "abc"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestSQLStoreSaveAndDelete(t *testing.T) {
	s, mock := newMockStore(t)
	rec := &Record{ID: "abc", OwnerUserID: 42, LastUpdated: time.Unix(1_700_000_100, 0), Status: "online"}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE session SET last_updated = ?, status = ? WHERE id = ?`)).
		WithArgs(int64(1_700_000_100), "online", "abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM session WHERE id = ?`)).
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Delete(context.Background(), rec); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSQLEventLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO session_log (session_id, user_id, event, created_at)`)).
		WithArgs("abc", int64(42), EventActiveTimeout, int64(1_700_000_000)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	l := &SQLEventLog{DB: sqlx.NewDb(db, "sqlmock")}
	rec := &Record{ID: "abc", OwnerUserID: 42}
	if err := l.LogEvent(context.Background(), rec, EventActiveTimeout, time.Unix(1_700_000_000, 0)); err != nil {
		t.Fatalf("LogEvent error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
