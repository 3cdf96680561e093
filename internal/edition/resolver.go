// internal/edition/resolver.go
//
// Effective-edition resolution.
//
// Workflow
// --------
//  1. Debug runtime: the tier comes from the forced-edition build flag
//     (0 → opensource, 1 → pro, 2 → pla).  Stored settings are ignored.
//  2. Normal runtime: the tier is parsed from the stored settings string.
//  3. When the result is Pro, the bundled pro asset is hashed and compared
//     to a fixed digest.  A missing or mismatched asset downgrades to
//     Opensource.  This is tamper detection, not a license check, so it
//     never returns an error.
package edition

import (
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/yanizio/reqboot/internal/env"
	"github.com/yanizio/reqboot/internal/metrics"
)

// Defaults match the asset shipped with pro builds.
const (
	DefaultAssetPath   = "images/x2engine_crm_pro.png"
	DefaultAssetDigest = "31a192054302bc68e1ed5a59c36ce731"
)

// Resolver computes the effective edition for one context.
type Resolver struct {
	Env         env.Provider
	FS          afero.Fs
	AssetPath   string
	AssetDigest string
}

// NewResolver returns a Resolver with the default asset path and digest.
func NewResolver(p env.Provider, fs afero.Fs) *Resolver {
	return &Resolver{
		Env:         p,
		FS:          fs,
		AssetPath:   DefaultAssetPath,
		AssetDigest: DefaultAssetDigest,
	}
}

// Effective returns the tier the deployment is entitled to.  stored is the
// raw edition column from settings.
func (r *Resolver) Effective(stored string) Tier {
	var t Tier
	if r.Env.Debug() {
		t = forced(r.Env.ForcedEdition())
	} else {
		t = Parse(stored)
	}

	if t == Pro && !r.assetIntact() {
		zap.L().Warn("pro asset missing or altered, downgrading edition",
			zap.String("asset", r.AssetPath))
		metrics.EditionDowngradeTotal.Inc()
		return Opensource
	}
	return t
}

func forced(flag int) Tier {
	switch flag {
	case 1:
		return Pro
	case 2:
		return PLA
	default:
		return Opensource
	}
}

// assetIntact hashes the pro asset.  Any read failure counts as a mismatch.
func (r *Resolver) assetIntact() bool {
	if r.FS == nil {
		return false
	}
	f, err := r.FS.Open(r.AssetPath)
	if err != nil {
		return false
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	return hex.EncodeToString(h.Sum(nil)) == r.AssetDigest
}
