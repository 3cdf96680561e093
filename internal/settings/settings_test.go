package settings

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestSQLStoreByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, edition, currency, external_base_url, external_base_uri FROM admin_settings WHERE id = ?`,
	)).
		WithArgs(PrimaryID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "edition", "currency", "external_base_url", "external_base_uri"}).
			AddRow(1, "pro", "EUR", "https://crm.example.com", ""))

	s := &SQLStore{DB: sqlx.NewDb(db, "sqlmock")}
	got, err := s.ByID(context.Background(), PrimaryID)
	if err != nil {
		t.Fatalf("ByID error: %v", err)
	}
	if got.Edition != "pro" || got.Currency != "EUR" || got.ExternalBaseURL != "https://crm.example.com" {
		t.Fatalf("unexpected settings: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSQLStoreMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM admin_settings`)).
		WithArgs(PrimaryID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := &SQLStore{DB: sqlx.NewDb(db, "sqlmock")}
	if _, err := s.ByID(context.Background(), PrimaryID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

type slowStore struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *slowStore) ByID(context.Context, int64) (*Settings, error) {
	s.calls.Add(1)
	<-s.release
	return &Settings{ID: 1, Edition: "pla"}, nil
}

func TestDedupedSharesInflightQuery(t *testing.T) {
	inner := &slowStore{release: make(chan struct{})}
	d := &Deduped{Store: inner}

	const n = 8
	var wg sync.WaitGroup
	results := make([]*Settings, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := d.ByID(context.Background(), 1)
			if err != nil {
				t.Errorf("ByID: %v", err)
				return
			}
			results[i] = s
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	if c := inner.calls.Load(); c < 1 || c > n {
		t.Fatalf("calls = %d", c)
	}
	results[0].Edition = "mutated"
	for i := 1; i < n; i++ {
		if results[i].Edition != "pla" {
			t.Fatalf("result %d shares memory with result 0", i)
		}
	}
}

// gatedStore blocks until released or until the query ctx is done.
type gatedStore struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) ByID(ctx context.Context, _ int64) (*Settings, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
		return &Settings{ID: 1, Edition: "pro"}, nil
	}
}

func TestDedupedCancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := &gatedStore{started: make(chan struct{}), release: make(chan struct{})}
	d := &Deduped{Store: inner}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := d.ByID(leaderCtx, 1)
		leaderErr <- err
	}()
	<-inner.started

	type result struct {
		s   *Settings
		err error
	}
	follower := make(chan result, 1)
	go func() {
		s, err := d.ByID(context.Background(), 1)
		follower <- result{s, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("leader err = %v, want context.Canceled", err)
	}

	close(inner.release)
	got := <-follower
	if got.err != nil {
		t.Fatalf("follower err = %v, want nil", got.err)
	}
	if got.s == nil || got.s.Edition != "pro" {
		t.Fatalf("follower settings = %#v", got.s)
	}
}

func TestStatic(t *testing.T) {
	s, err := Static{Edition: "pro"}.ByID(context.Background(), 1)
	if err != nil || s.Edition != "pro" {
		t.Fatalf("Static.ByID = %#v, %v", s, err)
	}
}
