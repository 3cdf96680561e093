// Package database centralises sqlx connection helpers.  The default driver
// is go-sql-driver/mysql, which also works with MariaDB.
//
// Public entry points:
//
//	Open(cfg)                                  – pool sized from config.
//	OpenWithOptions(ctx, dsn, maxOpen, maxIdle, life) – fine-grained control.
//
// Both helpers Ping the database before returning so callers can fail fast
// during startup.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/reqboot/internal/config"
)

// Open returns a *sqlx.DB sized from the database config section.
func Open(ctx context.Context, cfg config.Database) (*sqlx.DB, error) {
	life := cfg.ConnMaxLife
	if life == 0 {
		life = 30 * time.Minute
	}
	return OpenWithOptions(ctx, cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, life)
}

// OpenWithOptions lets callers tune pool sizes directly.
func OpenWithOptions(ctx context.Context, dsn string, maxOpen, maxIdle int, life time.Duration) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(life)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}
