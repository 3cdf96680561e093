// internal/acl/store_test.go
//
// Unit-tests for acl.store helpers using sqlmock.
//
// Run: go test ./internal/acl -v

package acl

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUserRoles(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT r.name FROM user_role ur JOIN role r ON r.id = ur.role_id WHERE ur.user_id = ? AND r.enabled = TRUE`,
	)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Sales").AddRow("Admin"))

	got, err := UserRoles(context.Background(), db, 42)
	if err != nil {
		t.Fatalf("UserRoles error: %v", err)
	}
	if len(got) != 2 || got[0] != "Sales" || got[1] != "Admin" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestPolicyTimeoutFromRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(r.timeout)`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(7200))

	p := Policy{DB: db, Default: 30 * time.Minute}
	got, err := p.Timeout(context.Background(), 42)
	if err != nil {
		t.Fatalf("Timeout error: %v", err)
	}
	if got != 2*time.Hour {
		t.Fatalf("Timeout = %v, want 2h", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestPolicyTimeoutDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(r.timeout)`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	p := Policy{DB: db, Default: 30 * time.Minute}
	got, err := p.Timeout(context.Background(), 5)
	if err != nil {
		t.Fatalf("Timeout error: %v", err)
	}
	if got != 30*time.Minute {
		t.Fatalf("Timeout = %v, want default", got)
	}
}

func TestPolicyTimeoutError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(r.timeout)`)).
		WithArgs(int64(5)).
		WillReturnError(context.DeadlineExceeded)

	if _, err := (Policy{DB: db}).Timeout(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}
}
