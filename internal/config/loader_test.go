package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return root
}

func TestLoadFromAppliesDefaults(t *testing.T) {
	root := writeYAML(t, `
database:
  dsn: "app:secret@tcp(127.0.0.1:3306)/crm?parseTime=true"
`)
	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.HTTP.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q", cfg.HTTP.ListenAddr)
	}
	if cfg.Session.DefaultTimeout != time.Hour {
		t.Errorf("default_timeout = %v", cfg.Session.DefaultTimeout)
	}
	if len(cfg.Session.NoSessionPrefixes) != 1 || cfg.Session.NoSessionPrefixes[0] != "api" {
		t.Errorf("no_session_prefixes = %v", cfg.Session.NoSessionPrefixes)
	}
	if got := cfg.Session.ExemptRoutes; len(got) != 2 || got[0] != "notifications/get" || got[1] != "site/getEvents" {
		t.Errorf("exempt_routes = %v", got)
	}
	if cfg.Locale.HeadlessUsername != "admin" {
		t.Errorf("headless_username = %q", cfg.Locale.HeadlessUsername)
	}
	if cfg.Paths.Root != root {
		t.Errorf("root = %q, want %q", cfg.Paths.Root, root)
	}
	if Get() != cfg {
		t.Error("Get did not return the cached config")
	}
}

func TestLoadFromEnvOverride(t *testing.T) {
	root := writeYAML(t, `
http:
  listen_addr: "127.0.0.1:9000"
database:
  dsn: "dsn"
session:
  default_timeout: 30m
`)
	t.Setenv("REQBOOT_HTTP__LISTEN_ADDR", "127.0.0.1:9100")
	t.Setenv("REQBOOT_SESSION__STORE", "redis")

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.HTTP.ListenAddr != "127.0.0.1:9100" {
		t.Errorf("env override ignored: %q", cfg.HTTP.ListenAddr)
	}
	if cfg.Session.Store != "redis" {
		t.Errorf("session.store = %q", cfg.Session.Store)
	}
	if cfg.Session.DefaultTimeout != 30*time.Minute {
		t.Errorf("default_timeout = %v", cfg.Session.DefaultTimeout)
	}
}

func TestLoadFromValidation(t *testing.T) {
	cases := map[string]string{
		"missing dsn":  "http:\n  listen_addr: \":8080\"\n",
		"bad store":    "database:\n  dsn: x\nsession:\n  store: files\n",
		"bad currency": "database:\n  dsn: x\nlocale:\n  currencies: [\"USD\", \"XXY\"]\n",
		"bad digest":   "database:\n  dsn: x\nedition:\n  asset_digest: nothex\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(writeYAML(t, body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestAbs(t *testing.T) {
	c := &Config{Paths: Paths{Root: "/srv/crm"}}
	if got := c.Abs("runtime/app.lock"); got != "/srv/crm/runtime/app.lock" {
		t.Errorf("Abs = %q", got)
	}
	if got := c.Abs("/etc/key"); got != "/etc/key" {
		t.Errorf("Abs = %q", got)
	}
}
