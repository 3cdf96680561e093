// internal/config/model.go
//
// Typed configuration model for reqboot.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `.env`                           dotenv values,
//   - `conf/global.yaml`                        primary static file,
//   - `REQBOOT_`-prefixed environment overrides  highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml` tags
//     unless configured otherwise.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// App section
//

// App holds runtime-mode switches.
type App struct {
	Debug         bool `koanf:"debug"`
	CryptoCapable bool `koanf:"crypto_capable"`
}

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
	// BasePath is the mount point of the application, e.g. "/crm".
	BasePath string `koanf:"base_path"`
	// ScriptName is the entry segment of path-style URLs.
	ScriptName string `koanf:"script_name"`
}

//
// Database section
//

// Database holds the DSN and pool sizing.
type Database struct {
	DSN          string        `koanf:"dsn"            validate:"required"`
	MaxOpenConns int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLife  time.Duration `koanf:"conn_max_life"`
}

//
// Redis section
//

// Redis is only dialled when Session.Store is "redis".
type Redis struct {
	Addr     string `koanf:"addr"     validate:"omitempty,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"       validate:"gte=0"`
}

//
// Session section
//

// Session configures the session guard and routing.
type Session struct {
	Store             string        `koanf:"store"              validate:"oneof=sql redis memory"`
	DefaultTimeout    time.Duration `koanf:"default_timeout"    validate:"gt=0"`
	ExemptRoutes      []string      `koanf:"exempt_routes"`
	NoSessionPrefixes []string      `koanf:"no_session_prefixes"`
	CookieName        string        `koanf:"cookie_name"`
}

//
// Crypto section
//

// Crypto locates field-encryption key material.  VaultPath wins when
// Vault is enabled.
type Crypto struct {
	KeyPath   string `koanf:"key_path"`
	IVPath    string `koanf:"iv_path"`
	VaultPath string `koanf:"vault_path"`
}

//
// Edition section
//

// Edition locates the pro integrity asset.
type Edition struct {
	AssetPath   string `koanf:"asset_path"`
	AssetDigest string `koanf:"asset_digest" validate:"omitempty,len=32,hexadecimal"`
}

//
// Locale section
//

// Locale configures the locale chain and currency table.
type Locale struct {
	Currencies       []string `koanf:"currencies"`
	HeadlessUsername string   `koanf:"headless_username"`
}

//
// URLs, Lock, Modules, Vault
//

// URLs configures offline URL generation.
type URLs struct {
	OfflineBaseURL string `koanf:"offline_base_url" validate:"omitempty,url"`
}

// Lock locates the lock sentinel, relative to Paths.Root.
type Lock struct {
	Path string `koanf:"path"`
}

// Modules lists the enabled application modules in menu order.
type Modules struct {
	Enabled []string `koanf:"enabled"`
}

// Vault toggles the Vault client.  VAULT_ADDR and VAULT_TOKEN come from
// the environment.
type Vault struct {
	Enabled bool `koanf:"enabled"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or REQBOOT_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // REQBOOT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	App      App      `koanf:"app"`
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Redis    Redis    `koanf:"redis"`
	Session  Session  `koanf:"session"`
	Crypto   Crypto   `koanf:"crypto"`
	Edition  Edition  `koanf:"edition"`
	Locale   Locale   `koanf:"locale"`
	URLs     URLs     `koanf:"urls"`
	Lock     Lock     `koanf:"lock"`
	Modules  Modules  `koanf:"modules"`
	Vault    Vault    `koanf:"vault"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
