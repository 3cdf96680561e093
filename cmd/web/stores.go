package main

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/yanizio/reqboot/internal/config"
	"github.com/yanizio/reqboot/internal/cryptogate"
	"github.com/yanizio/reqboot/internal/session"
	"github.com/yanizio/reqboot/internal/vault"
)

// sessionStore picks the backend named by session.store.
func sessionStore(ctx context.Context, cfg *config.Config, db *sqlx.DB, log *zap.SugaredLogger) session.Store {
	switch cfg.Session.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Fatalw("connect redis", "addr", cfg.Redis.Addr, "err", err)
		}
		log.Infow("session store online", "backend", "redis", "addr", cfg.Redis.Addr)
		return session.NewRedisStore(client)
	case "memory":
		log.Warnw("session store is in-process memory; sessions will not survive a restart")
		return session.NewMemoryStore()
	default:
		log.Infow("session store online", "backend", "sql")
		return &session.SQLStore{DB: db}
	}
}

// keySource returns the Vault source when enabled, else key files under the
// application root.
func keySource(ctx context.Context, cfg *config.Config, fsys afero.Fs, log *zap.SugaredLogger) cryptogate.Source {
	if cfg.Vault.Enabled && cfg.Crypto.VaultPath != "" {
		cli, err := vault.New(ctx)
		if err != nil {
			log.Warnw("vault unavailable, falling back to key files", "err", err)
		} else {
			return cryptogate.VaultSource{KV: cli, Path: cfg.Crypto.VaultPath}
		}
	}
	return cryptogate.FileSource{FS: fsys, KeyPath: cfg.Crypto.KeyPath, IVPath: cfg.Crypto.IVPath}
}
