package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLog struct{ events []string }

func (l *recordingLog) LogEvent(_ context.Context, rec *Record, event string, _ time.Time) error {
	l.events = append(l.events, rec.ID+":"+event)
	return nil
}

type failingStore struct{ err error }

func (f failingStore) FindByID(context.Context, string) (*Record, error) { return nil, f.err }
func (f failingStore) Save(context.Context, *Record) error               { return f.err }
func (f failingStore) Delete(context.Context, *Record) error             { return f.err }

var now = time.Unix(1_800_000_000, 0)

func TestGuardAbsentRecordTerminates(t *testing.T) {
	g := &Guard{Store: NewMemoryStore(), Policy: FixedTimeout(time.Hour)}

	out, err := g.Check(context.Background(), "missing", now)
	require.NoError(t, err)
	assert.Equal(t, Terminated, out.State)
	assert.Equal(t, NoSession, out.From)
	assert.True(t, out.Logout())
}

func TestGuardTimeoutDeletesAndLogs(t *testing.T) {
	store := NewMemoryStore(Record{ID: "s1", OwnerUserID: 7, LastUpdated: now.Add(-1900 * time.Second)})
	events := &recordingLog{}
	g := &Guard{Store: store, Policy: FixedTimeout(1800 * time.Second), Events: events}

	out, err := g.Check(context.Background(), "s1", now)
	require.NoError(t, err)
	assert.Equal(t, Terminated, out.State)
	assert.Equal(t, TimedOut, out.From)
	assert.Equal(t, []string{"s1:activeTimeout"}, events.events)

	rec, _ := store.FindByID(context.Background(), "s1")
	assert.Nil(t, rec, "timed-out record must be deleted")
}

func TestGuardBoundaryRefreshes(t *testing.T) {
	// lastUpdated + timeout == now is still alive.
	store := NewMemoryStore(Record{ID: "s1", OwnerUserID: 7, LastUpdated: now.Add(-1800 * time.Second), Status: "away"})
	g := &Guard{Store: store, Policy: FixedTimeout(1800 * time.Second)}

	out, err := g.Check(context.Background(), "s1", now)
	require.NoError(t, err)
	assert.Equal(t, Active, out.State)
	assert.Equal(t, "away", out.Status)
	assert.False(t, out.Logout())

	rec, _ := store.FindByID(context.Background(), "s1")
	require.NotNil(t, rec, "live record must not be deleted")
	assert.True(t, rec.LastUpdated.Equal(now), "lastUpdated refreshed to now")
}

func TestGuardPropagatesStoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	g := &Guard{Store: failingStore{err: boom}, Policy: FixedTimeout(time.Hour)}

	_, err := g.Check(context.Background(), "s1", now)
	assert.ErrorIs(t, err, boom)
}

type errPolicy struct{ err error }

func (p errPolicy) Timeout(context.Context, int64) (time.Duration, error) { return 0, p.err }

func TestGuardPropagatesPolicyFailure(t *testing.T) {
	boom := errors.New("roles unavailable")
	store := NewMemoryStore(Record{ID: "s1", LastUpdated: now})
	g := &Guard{Store: store, Policy: errPolicy{err: boom}}

	_, err := g.Check(context.Background(), "s1", now)
	assert.ErrorIs(t, err, boom)
}

func TestExemptRoutes(t *testing.T) {
	e := NewExemptRoutes("notifications/get", "/site/getEvents/")

	assert.True(t, e.Exempts("notifications/get"))
	assert.True(t, e.Exempts("/notifications/get"))
	assert.True(t, e.Exempts("site/getEvents"))
	assert.False(t, e.Exempts("site/index"))
	assert.False(t, NewExemptRoutes().Exempts("notifications/get"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "timed_out", TimedOut.String())
	assert.Equal(t, "no_session", NoSession.String())
}
