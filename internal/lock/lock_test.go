package lock

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingSentinelIsUnlocked(t *testing.T) {
	l := New(afero.NewMemMapFs(), "")
	ts, err := l.State()
	require.NoError(t, err)
	assert.Zero(t, ts)
}

func TestStateReadsTimestamp(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, DefaultPath, []byte("1700000000\n"), 0o644))

	l := New(fsys, "")
	ts, err := l.State()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts)

	locked, _ := l.Locked()
	assert.True(t, locked)
}

func TestZeroAndGarbageAreUnlocked(t *testing.T) {
	for _, body := range []string{"0", "", "soon", "-5"} {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "app.lock", []byte(body), 0o644))
		ts, err := New(fsys, "app.lock").State()
		require.NoError(t, err)
		assert.Zero(t, ts, "body %q", body)
	}
}

func TestStateIsMemoized(t *testing.T) {
	fsys := afero.NewMemMapFs()
	l := New(fsys, "")
	_, _ = l.State()

	require.NoError(t, afero.WriteFile(fsys, DefaultPath, []byte("42"), 0o644))
	ts, _ := l.State()
	assert.Zero(t, ts)

	ts, _ = New(fsys, "").State()
	assert.Equal(t, int64(42), ts)
}

func TestSetWritesAndClears(t *testing.T) {
	fsys := afero.NewMemMapFs()
	l := New(fsys, "")

	require.NoError(t, l.Set(1234))
	ts, _ := l.State()
	assert.Equal(t, int64(1234), ts)
	b, err := afero.ReadFile(fsys, DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, "1234", string(b))

	require.NoError(t, l.Set(0))
	exists, _ := afero.Exists(fsys, DefaultPath)
	assert.False(t, exists)
	ts, _ = l.State()
	assert.Zero(t, ts)

	require.NoError(t, l.Set(0), "clearing twice is fine")
}
