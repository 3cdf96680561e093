// cmd/web/main.go
//
// reqboot – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (.env → conf/global.yaml → REQBOOT_ env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the MySQL pool and, when configured, Redis and Vault.
//
//  4. Assemble the Bootstrapper: crypto gate, session guard, role policy,
//     settings, profiles, edition resolver, lock sentinel, and modules.
//
//  5. Build the chi router:
//
//     • /metrics                    – Prometheus scrape endpoint
//     • <base>/index.php/{module}/* – module dispatch behind bootstrap
//     • <base>/api/{module}/*       – the same modules, headless
//     • <base>/debug/request        – UA and client echo
//
//  6. Wrap with security headers and, when configured, HTTPS redirect.
//
//  7. Serve until SIGINT or SIGTERM, then drain for ten seconds.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	"github.com/yanizio/reqboot/internal/acl"
	"github.com/yanizio/reqboot/internal/bootstrap"
	"github.com/yanizio/reqboot/internal/config"
	"github.com/yanizio/reqboot/internal/cryptogate"
	"github.com/yanizio/reqboot/internal/database"
	"github.com/yanizio/reqboot/internal/edition"
	"github.com/yanizio/reqboot/internal/env"
	"github.com/yanizio/reqboot/internal/logger"
	"github.com/yanizio/reqboot/internal/middleware"
	"github.com/yanizio/reqboot/internal/module"
	"github.com/yanizio/reqboot/internal/profile"
	"github.com/yanizio/reqboot/internal/requestinfo"
	"github.com/yanizio/reqboot/internal/server"
	"github.com/yanizio/reqboot/internal/session"
	"github.com/yanizio/reqboot/internal/settings"
	"github.com/yanizio/reqboot/modules/admin"
	"github.com/yanizio/reqboot/modules/debug"

	_ "github.com/yanizio/reqboot/modules/notifications" // exempt poll
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logOut, err := logger.New(cfg.Paths.Root, runningInTTY(), cfg.App.Debug)
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Stores ──────────────────────────────────────────────────────
	//
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logOut.Fatalw("connect database", "err", err)
	}
	defer db.Close()
	logOut.Infow("database online")

	sessions := sessionStore(ctx, cfg, db, logOut)

	provider := env.System{DebugMode: cfg.App.Debug, CryptoReady: cfg.App.CryptoCapable}
	rootFS := afero.NewBasePathFs(afero.NewOsFs(), cfg.Paths.Root)

	//
	// ── 2.  Bootstrapper ────────────────────────────────────────────────
	//
	editions := edition.NewResolver(provider, rootFS)
	if cfg.Edition.AssetPath != "" {
		editions.AssetPath = cfg.Edition.AssetPath
	}
	if cfg.Edition.AssetDigest != "" {
		editions.AssetDigest = cfg.Edition.AssetDigest
	}

	policy := acl.Policy{DB: db.DB, Default: cfg.Session.DefaultTimeout}
	admin.Register(rootFS, cfg.Lock.Path)

	boot := &bootstrap.Bootstrapper{
		Env:  provider,
		Gate: cryptogate.New(provider, keySource(ctx, cfg, rootFS, logOut)),
		Guard: &session.Guard{
			Store:  sessions,
			Policy: policy,
			Events: &session.SQLEventLog{DB: db},
		},
		Exempt:           session.NewExemptRoutes(cfg.Session.ExemptRoutes...),
		Roles:            policy,
		Settings:         &settings.Deduped{Store: &settings.SQLStore{DB: db}},
		Profiles:         &profile.SQLStore{DB: db},
		Editions:         editions,
		FS:               rootFS,
		LockPath:         cfg.Lock.Path,
		Currencies:       cfg.Locale.Currencies,
		HeadlessUsername: cfg.Locale.HeadlessUsername,
		OfflineBaseURL:   cfg.URLs.OfflineBaseURL,
		Script:           cfg.HTTP.ScriptName,
		Modules:          module.Enabled(cfg.Modules.Enabled),
	}
	// Configure field encryption before the first request arrives.
	boot.Gate.EnsureReady(ctx)

	web := &bootstrap.HTTP{
		Boot:      boot,
		Cookies:   session.Cookies{Name: cfg.Session.CookieName},
		NoSession: cfg.Session.NoSessionPrefixes,
		BasePath:  cfg.HTTP.BasePath,
	}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer, middleware.Security)
	r.Handle("/metrics", promhttp.Handler())

	app := func(r chi.Router) {
		r.Use(requestinfo.Enrich)
		r.Get("/debug/request", debug.Describe)

		r.Group(func(r chi.Router) {
			r.Use(web.Middleware)
			script := "/" + scriptName(cfg)
			r.Handle(script+"/{module}", http.HandlerFunc(dispatch))
			r.Handle(script+"/{module}/*", http.HandlerFunc(dispatch))
			for _, pfx := range cfg.Session.NoSessionPrefixes {
				r.Handle("/"+pfx+"/{module}/*", http.HandlerFunc(dispatch))
			}
			r.With(bootstrap.RequireEdition(edition.Pro), bootstrap.RequireRole(acl.AdminRole)).
				Get(script+"/pro/status", bootstrap.DebugHandler)
		})
	}
	if base := cfg.HTTP.BasePath; base != "" && base != "/" {
		r.Route("/"+strings.Trim(base, "/"), app)
	} else {
		r.Group(app)
	}

	var root http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		root = middleware.ForceHTTPS(root)
	}

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, root)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr, "modules", boot.Modules)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Infow("shutdown complete")
}

// dispatch hands the request to the enabled module named in the path.
func dispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "module")
	rc := bootstrap.FromContext(r.Context())
	if rc == nil || !rc.Modules.Has(name) {
		http.NotFound(w, r)
		return
	}
	h := module.Lookup(name)
	if h == nil {
		http.NotFound(w, r)
		return
	}
	h.ServeHTTP(w, r)
}

func scriptName(cfg *config.Config) string {
	if cfg.HTTP.ScriptName == "" {
		return "index.php"
	}
	return cfg.HTTP.ScriptName
}
