package edition

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/reqboot/internal/env"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Opensource, Parse("opensource"))
	assert.Equal(t, Pro, Parse("pro"))
	assert.Equal(t, PLA, Parse("pla"))
	assert.Equal(t, Opensource, Parse("enterprise"))
	assert.Equal(t, Opensource, Parse(""))
	assert.Equal(t, Opensource, Parse("PRO"))
}

func TestContainsIsReflexive(t *testing.T) {
	for _, tier := range All() {
		assert.True(t, tier.Contains(tier), "%s must contain itself", tier)
	}
}

func TestContainsTotalOrder(t *testing.T) {
	for _, have := range All() {
		for _, want := range All() {
			assert.Equal(t, want <= have, have.Contains(want),
				"%s contains %s", have, want)
		}
	}
	assert.True(t, PLA.Contains(Opensource))
	assert.True(t, PLA.Contains(Pro))
	assert.False(t, Opensource.Contains(Pro))
	assert.False(t, Opensource.Contains(PLA))
	assert.False(t, Pro.Contains(PLA))
}

func TestContainsRejectsUnknown(t *testing.T) {
	assert.False(t, PLA.Contains(Tier(9)))
	assert.False(t, Tier(9).Contains(Opensource))
}

func TestString(t *testing.T) {
	assert.Equal(t, "pla", PLA.String())
	assert.Equal(t, "opensource", Tier(42).String())
}

func proFS(t *testing.T, content []byte) (afero.Fs, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, DefaultAssetPath, content, 0o644))
	sum := md5.Sum(content)
	return fs, hex.EncodeToString(sum[:])
}

func TestEffectiveStoredPro(t *testing.T) {
	fs, digest := proFS(t, []byte("genuine logo"))
	r := NewResolver(env.Static{}, fs)
	r.AssetDigest = digest

	assert.Equal(t, Pro, r.Effective("pro"))
	assert.Equal(t, PLA, r.Effective("pla"))
	assert.Equal(t, Opensource, r.Effective("bogus"))
}

func TestEffectiveProMismatchDowngrades(t *testing.T) {
	fs, _ := proFS(t, []byte("tampered logo"))
	r := NewResolver(env.Static{}, fs)

	assert.Equal(t, Opensource, r.Effective("pro"))
}

func TestEffectiveProMissingAssetDowngrades(t *testing.T) {
	r := NewResolver(env.Static{}, afero.NewMemMapFs())
	assert.Equal(t, Opensource, r.Effective("pro"))
}

func TestEffectiveDebugForced(t *testing.T) {
	fs, digest := proFS(t, []byte("genuine logo"))
	cases := []struct {
		flag int
		want Tier
	}{
		{0, Opensource},
		{1, Pro},
		{2, PLA},
	}
	for _, tc := range cases {
		r := NewResolver(env.Static{DebugMode: true, Forced: tc.flag}, fs)
		r.AssetDigest = digest
		// Stored settings are ignored in debug mode.
		assert.Equal(t, tc.want, r.Effective("pla"), "flag=%d", tc.flag)
	}
}

func TestEffectiveDebugForcedProStillChecked(t *testing.T) {
	r := NewResolver(env.Static{DebugMode: true, Forced: 1}, afero.NewMemMapFs())
	assert.Equal(t, Opensource, r.Effective(""))
}
