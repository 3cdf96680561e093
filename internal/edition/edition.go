// internal/edition/edition.go
//
// Edition tiers and the containment table.
//
// Context
// -------
// A deployment exposes one of three feature tiers.  The set is closed and
// totally ordered:
//
//	opensource < pro < pla
//
// Feature gates elsewhere ask "is at least tier X enabled", which is
// answered by Tier.Contains against a table built once at init.  Any string
// outside the three names parses to Opensource.
//
// Notes
// -----
//   - Oxford commas, two spaces after periods.
package edition

// Tier is a feature-entitlement level.
type Tier uint8

const (
	Opensource Tier = iota
	Pro
	PLA
)

var names = [...]string{
	Opensource: "opensource",
	Pro:        "pro",
	PLA:        "pla",
}

// contains[t] is a bitmask of every tier t satisfies.
var contains = [...]uint8{
	Opensource: 1 << Opensource,
	Pro:        1<<Opensource | 1<<Pro,
	PLA:        1<<Opensource | 1<<Pro | 1<<PLA,
}

// String returns the stored form of t.
func (t Tier) String() string {
	if int(t) < len(names) {
		return names[t]
	}
	return names[Opensource]
}

// Parse maps a stored edition string onto a Tier.  Unknown values resolve
// to Opensource.
func Parse(s string) Tier {
	for i, n := range names {
		if n == s {
			return Tier(i)
		}
	}
	return Opensource
}

// Contains reports whether t carries the capabilities of requested.
func (t Tier) Contains(requested Tier) bool {
	if int(t) >= len(contains) || int(requested) >= len(names) {
		return false
	}
	return contains[t]&(1<<requested) != 0
}

// MarshalText lets Tier appear by name in JSON and logs.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// All lists the tiers in ascending order.
func All() []Tier { return []Tier{Opensource, Pro, PLA} }
