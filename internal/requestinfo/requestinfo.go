//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, client IP, preferred language, URL, and
//  timestamp).  These structs are inert.  They contain no pointers to
//  database handles or large buffers, so they are safe to log or
//  JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer via internal/ua
//  • golang.org/x/text/language (Accept-Language)
//

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"time"

	"golang.org/x/text/language"

	"github.com/yanizio/reqboot/internal/ua"
)

// RequestInfo is read by the bootstrap for device flags and by handlers
// that want the client address.
type RequestInfo struct {
	UA          ua.Info
	IP          net.IP
	PrimaryLang string
	URL         *url.URL // Pointer copy, safe to dereference read-only
	Timestamp   time.Time
}

type ctxKey struct{} // unexported, collision-proof

// With stores info on ctx.
func With(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// primaryLang returns the base language of the highest-weighted
// Accept-Language entry, e.g. "en" for "en-US,en;q=0.9".
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(al)
	if err != nil || len(tags) == 0 {
		return ""
	}
	base, _ := tags[0].Base()
	return base.String()
}
