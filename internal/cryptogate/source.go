// internal/cryptogate/source.go
//
// Key-material sources.
//
//   - FileSource  – two files at fixed paths (config/encryption.key, .iv).
//   - VaultSource – two keys of one KV-v2 secret, fetched in parallel.
package cryptogate

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Default file locations, relative to the application root.
const (
	DefaultKeyPath = "config/encryption.key"
	DefaultIVPath  = "config/encryption.iv"
)

// FileSource reads key material from the filesystem.
type FileSource struct {
	FS      afero.Fs
	KeyPath string
	IVPath  string
}

func (s FileSource) Load(_ context.Context) ([]byte, []byte, error) {
	for _, p := range []string{s.KeyPath, s.IVPath} {
		ok, err := afero.Exists(s.FS, p)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !ok {
			return nil, nil, ErrMissing
		}
	}
	key, err := afero.ReadFile(s.FS, s.KeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read key: %w", err)
	}
	iv, err := afero.ReadFile(s.FS, s.IVPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read iv: %w", err)
	}
	return key, iv, nil
}

// KVReader is the subset of *vault.Client used here.
type KVReader interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// VaultSource reads base64-encoded "key" and "iv" fields from one secret.
type VaultSource struct {
	KV   KVReader
	Path string
}

func (s VaultSource) Load(ctx context.Context) ([]byte, []byte, error) {
	if s.KV == nil || s.Path == "" {
		return nil, nil, ErrMissing
	}

	var key, iv []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		key, err = s.fetch(gctx, "key")
		return err
	})
	g.Go(func() (err error) {
		iv, err = s.fetch(gctx, "iv")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if len(key) == 0 || len(iv) == 0 {
		return nil, nil, ErrMissing
	}
	return key, iv, nil
}

func (s VaultSource) fetch(ctx context.Context, field string) ([]byte, error) {
	raw, err := s.KV.GetKV(ctx, s.Path, field, 0)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	return b, nil
}
