// internal/cryptogate/gate.go
//
// One-time-per-process gate for field encryption.
//
// Context
// -------
// Field-level encryption collaborators need to know, before any model with
// encrypted columns is touched, whether key material exists.  The gate
// checks two resources (key and IV).  When both are present, and the
// environment declares the cipher capability, it publishes a keyed Config.
// Otherwise it publishes ModeUnsafe: the application keeps working without
// confidentiality.  Degrade, never fail.
//
// Concurrency
// -----------
// EnsureReady runs its body at most once per Gate.  Concurrent first callers
// block on the same sync.Once and all observe the published Config.  The
// Config is stored in a package-level atomic pointer so collaborators read it
// through Current without holding a *Gate.
package cryptogate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yanizio/reqboot/internal/env"
	"github.com/yanizio/reqboot/internal/metrics"
)

// Mode is the encryption subsystem configuration.
type Mode int

const (
	ModeUnset Mode = iota
	ModeUnsafe
	ModeKeyed
)

func (m Mode) String() string {
	switch m {
	case ModeUnsafe:
		return "unsafe"
	case ModeKeyed:
		return "keyed"
	default:
		return "unset"
	}
}

// Config is what field-encryption collaborators consume.
type Config struct {
	Mode Mode
	Key  []byte
	IV   []byte
}

// ErrMissing is returned by a Source when either resource is absent.
var ErrMissing = errors.New("cryptogate: key material missing")

// Source loads key material.
type Source interface {
	Load(ctx context.Context) (key, iv []byte, err error)
}

var current atomic.Pointer[Config]

// Current returns the published Config.  Mode is ModeUnset until some Gate
// has run.
func Current() Config {
	if c := current.Load(); c != nil {
		return *c
	}
	return Config{}
}

// Gate owns the latch.  Zero value is unusable; set Env and Source.
type Gate struct {
	Env    env.Provider
	Source Source

	once sync.Once
	cfg  Config
}

// New returns a Gate for the given environment and key source.
func New(p env.Provider, src Source) *Gate {
	return &Gate{Env: p, Source: src}
}

// EnsureReady configures the encryption subsystem on first call and returns
// the resulting Config.  Later calls return the same Config without I/O.
func (g *Gate) EnsureReady(ctx context.Context) Config {
	g.once.Do(func() {
		g.cfg = g.configure(ctx)
		cfg := g.cfg
		current.Store(&cfg)

		if cfg.Mode == ModeKeyed {
			metrics.CryptoKeyed.Set(1)
		} else {
			metrics.CryptoKeyed.Set(0)
		}
	})
	return g.cfg
}

// Ready reports whether keyed mode is active.
func (g *Gate) Ready() bool { return g.EnsureReady(context.Background()).Mode == ModeKeyed }

func (g *Gate) configure(ctx context.Context) Config {
	if !g.Env.CryptoCapable() {
		zap.L().Warn("crypto capability unavailable, field encryption in unsafe mode")
		return Config{Mode: ModeUnsafe}
	}
	if g.Source == nil {
		zap.L().Warn("no key source configured, field encryption in unsafe mode")
		return Config{Mode: ModeUnsafe}
	}

	key, iv, err := g.Source.Load(ctx)
	switch {
	case errors.Is(err, ErrMissing):
		zap.L().Warn("key material missing, field encryption in unsafe mode")
		return Config{Mode: ModeUnsafe}
	case err != nil:
		zap.L().Warn("key material unreadable, field encryption in unsafe mode", zap.Error(err))
		return Config{Mode: ModeUnsafe}
	}

	zap.L().Info("field encryption keyed")
	return Config{Mode: ModeKeyed, Key: key, IV: iv}
}
