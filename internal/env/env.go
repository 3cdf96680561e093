// internal/env/env.go
//
// Clock and environment provider.
//
// Context
// -------
// Every resolver that needs "now", the debug switch, or a build stamp asks a
// Provider instead of reaching for time.Now or os.Getenv directly.  Tests
// swap in Static so timeout and edition decisions are deterministic.
//
// Build flags
// -----------
// Release builds stamp two variables through the linker:
//
//	go build -ldflags "-X github.com/yanizio/reqboot/internal/env.forcedEdition=1 \
//	                   -X github.com/yanizio/reqboot/internal/env.buildDate=20261019"
//
// forcedEdition is only honoured in debug mode (see internal/edition).
//
// Notes
// -----
//   - Oxford commas, two spaces after periods.
package env

import (
	"os"
	"strconv"
	"time"
)

// Set by -ldflags.
var (
	forcedEdition = ""
	buildDate     = ""
)

// Provider supplies process-wide facts consumed by the bootstrap pipeline.
type Provider interface {
	Now() time.Time
	Debug() bool
	// ForcedEdition returns the tri-state build flag: 0 unset, 1 pro, 2 pla.
	ForcedEdition() int
	BuildDate() string
	// CryptoCapable reports whether the deployment declares the cipher
	// capability required for keyed field encryption.
	CryptoCapable() bool
	LookupEnv(key string) (string, bool)
}

// System is the production Provider.  Debug and CryptoCapable come from
// configuration; the build flags come from the linker.
type System struct {
	DebugMode   bool
	CryptoReady bool
}

func (s System) Now() time.Time      { return time.Now() }
func (s System) Debug() bool         { return s.DebugMode }
func (s System) ForcedEdition() int  { return parseForced(forcedEdition) }
func (s System) BuildDate() string   { return buildDate }
func (s System) CryptoCapable() bool { return s.CryptoReady }

func (s System) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// parseForced maps the raw ldflags string onto 0, 1, or 2.  Anything else
// counts as unset.
func parseForced(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 2 {
		return 0
	}
	return n
}

// Static is a fixed Provider for tests and headless tooling.
type Static struct {
	Clock     time.Time
	DebugMode bool
	Forced    int
	Build     string
	Crypto    bool
	Vars      map[string]string
}

func (s Static) Now() time.Time      { return s.Clock }
func (s Static) Debug() bool         { return s.DebugMode }
func (s Static) ForcedEdition() int  { return s.Forced }
func (s Static) BuildDate() string   { return s.Build }
func (s Static) CryptoCapable() bool { return s.Crypto }

func (s Static) LookupEnv(key string) (string, bool) {
	v, ok := s.Vars[key]
	return v, ok
}
