// internal/locale/resolver.go
//
// Locale and timezone resolution.
//
// Context
// -------
// Each field walks the same chain and stops at the first usable value:
//
//	acting user's profile  →  admin default profile (id 1)  →  "en" / "UTC"
//
// A timezone is usable only when time.LoadLocation accepts it.  Both
// profile lookups run at most once per Resolver, and every derived value is
// memoized, so a profile edited mid-request does not change the answer.
//
// Notes
// -----
//   - Store errors propagate.  A missing profile is not an error.
//   - Oxford commas, two spaces after periods, no m-dash.
package locale

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yanizio/reqboot/internal/memo"
	"github.com/yanizio/reqboot/internal/profile"
)

// Fallbacks used when no profile supplies a value.
const (
	FallbackLocale   = "en"
	FallbackTimeZone = "UTC"
)

// Lookup fetches the acting profile.  It may return (nil, nil).
type Lookup func(ctx context.Context) (*profile.Profile, error)

// ByUser looks the acting profile up by user id.
func ByUser(s profile.Store, userID int64) Lookup {
	return func(ctx context.Context) (*profile.Profile, error) {
		return s.ByID(ctx, userID)
	}
}

// ByUsername looks the acting profile up by username.  Headless runs use
// the configured console username.
func ByUsername(s profile.Store, name string) Lookup {
	return func(ctx context.Context) (*profile.Profile, error) {
		return s.ByUsername(ctx, name)
	}
}

// Resolver is owned by one request context.
type Resolver struct {
	Store      profile.Store
	Acting     Lookup
	Currencies []string

	acting  memo.Value[*profile.Profile]
	admin   memo.Value[*profile.Profile]
	locale  memo.Value[string]
	tz      memo.Value[string]
	format  memo.Value[Format]
	symbols memo.Value[map[string]string]
}

// NewResolver returns a Resolver reading from s with acting as the first
// link of the chain.
func NewResolver(s profile.Store, acting Lookup, currencies []string) *Resolver {
	return &Resolver{Store: s, Acting: acting, Currencies: currencies}
}

// Profile returns the acting profile, or nil.
func (r *Resolver) Profile(ctx context.Context) (*profile.Profile, error) {
	return r.acting.Get(func() (*profile.Profile, error) {
		if r.Acting == nil {
			return nil, nil
		}
		return r.Acting(ctx)
	})
}

func (r *Resolver) adminProfile(ctx context.Context) (*profile.Profile, error) {
	return r.admin.Get(func() (*profile.Profile, error) {
		return r.Store.ByID(ctx, profile.AdminProfileID)
	})
}

// chain yields the acting profile then the admin profile, skipping nils.
// The admin lookup only runs if the acting profile did not satisfy pick.
func (r *Resolver) chain(ctx context.Context, pick func(*profile.Profile) (string, bool)) (string, bool, error) {
	p, err := r.Profile(ctx)
	if err != nil {
		return "", false, err
	}
	if p != nil {
		if v, ok := pick(p); ok {
			return v, true, nil
		}
	}
	a, err := r.adminProfile(ctx)
	if err != nil {
		return "", false, err
	}
	if a != nil {
		if v, ok := pick(a); ok {
			return v, true, nil
		}
	}
	return "", false, nil
}

// Locale returns the resolved locale code.
func (r *Resolver) Locale(ctx context.Context) (string, error) {
	return r.locale.Get(func() (string, error) {
		v, ok, err := r.chain(ctx, func(p *profile.Profile) (string, bool) {
			l := strings.TrimSpace(p.Locale)
			return l, l != ""
		})
		if err != nil {
			return "", err
		}
		if !ok {
			return FallbackLocale, nil
		}
		return v, nil
	})
}

// TimeZone returns the resolved IANA zone name.
func (r *Resolver) TimeZone(ctx context.Context) (string, error) {
	return r.tz.Get(func() (string, error) {
		v, ok, err := r.chain(ctx, func(p *profile.Profile) (string, bool) {
			name := strings.TrimSpace(p.TimeZone)
			if name == "" {
				return "", false
			}
			if _, err := time.LoadLocation(name); err != nil {
				zap.L().Debug("ignoring unknown timezone",
					zap.Int64("profile_id", p.ID), zap.String("tz", name))
				return "", false
			}
			return name, true
		})
		if err != nil {
			return "", err
		}
		if !ok {
			return FallbackTimeZone, nil
		}
		return v, nil
	})
}

// Format returns the language tag and location for the request.
func (r *Resolver) Format(ctx context.Context) (Format, error) {
	return r.format.Get(func() (Format, error) {
		l, err := r.Locale(ctx)
		if err != nil {
			return Format{}, err
		}
		tz, err := r.TimeZone(ctx)
		if err != nil {
			return Format{}, err
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			loc = time.UTC
		}
		return Format{Tag: Tag(l), Location: loc}, nil
	})
}

// CurrencySymbols maps each configured ISO code to its symbol in the
// resolved locale.  Unknown codes are skipped.
func (r *Resolver) CurrencySymbols(ctx context.Context) (map[string]string, error) {
	return r.symbols.Get(func() (map[string]string, error) {
		f, err := r.Format(ctx)
		if err != nil {
			return nil, err
		}
		return Symbols(f.Tag, r.Currencies), nil
	})
}

// Tag parses a stored locale code such as "en_US" or "pt-BR".  Unparseable
// codes fall back to English.
func Tag(code string) language.Tag {
	t, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.English
	}
	return t
}

// Symbols renders the symbol of each currency code for tag.
func Symbols(tag language.Tag, codes []string) map[string]string {
	p := message.NewPrinter(tag)
	out := make(map[string]string, len(codes))
	for _, code := range codes {
		u, err := currency.ParseISO(code)
		if err != nil {
			zap.L().Debug("skipping unknown currency", zap.String("code", code))
			continue
		}
		out[u.String()] = p.Sprint(currency.Symbol(u))
	}
	return out
}
