// internal/module/registry.go
//
// A static module registry.  Modules call Register(name, handler) in an
// init() function; configuration (`modules.enabled`) decides which of them
// are switched on and in what order.  Nothing is discovered from the
// filesystem.
//
// The router mounts each enabled module under /index.php/<name>, and the
// bootstrap copies Enabled() into every request context so handlers can
// build menus.
package module

import (
	"net/http"
	"sort"
	"sync"

	"go.uber.org/zap"
)

var (
	mu       sync.RWMutex
	registry = map[string]http.Handler{}
)

// Register is called from module init() functions.
func Register(name string, h http.Handler) {
	mu.Lock()
	registry[name] = h
	mu.Unlock()
}

// Lookup returns the handler for name or nil.
func Lookup(name string) http.Handler {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Names lists every registered module, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Set is the ordered list of enabled modules.
type Set []string

// Enabled filters configured names down to registered modules, keeping
// configuration order and dropping duplicates.  Unknown names are logged
// once here and otherwise ignored.
func Enabled(configured []string) Set {
	mu.RLock()
	defer mu.RUnlock()
	seen := make(map[string]struct{}, len(configured))
	out := make(Set, 0, len(configured))
	for _, n := range configured {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if _, ok := registry[n]; !ok {
			zap.S().Warnw("configured module is not registered", "module", n)
			continue
		}
		out = append(out, n)
	}
	return out
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}
