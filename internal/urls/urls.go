// internal/urls/urls.go
//
// Public URL resolution.
//
// Context
// -------
// Links in e-mails, webhooks, and API responses must point at the public
// host even when they are built by a console job with no request in sight.
// Resolver answers four questions and remembers each answer for its own
// lifetime:
//
//	HostInfo              scheme://host of the active request
//	AbsoluteBase          HostInfo + base path, or the offline equivalent
//	ExternalWebRoot       settings override, else HostInfo (offline: AbsoluteBase)
//	ExternalAbsoluteBase  ExternalWebRoot + (settings URI, else base path)
//
// Every answer carries a Source.  SourceNone means "could not be resolved",
// which is different from a base that resolved to the empty string on
// purpose.
//
// Offline reconstruction
// ----------------------
// Without a request the absolute base comes from configuration
// (`urls.offline_base_url`).  Failing that, SERVER_NAME or HTTP_HOST and
// HTTPS from the process environment are tried.  Nothing on this path
// returns an error.
//
// Notes
// -----
//   - Offline, the base path is empty: the configured absolute base already
//     includes it.
//   - Oxford commas, two spaces after periods, no m-dash.
package urls

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/yanizio/reqboot/internal/env"
	"github.com/yanizio/reqboot/internal/memo"
	"github.com/yanizio/reqboot/internal/settings"
)

// DefaultScript is the entry script segment in path-style URLs.
const DefaultScript = "index.php"

// Source says where a resolved base came from.
type Source int

const (
	SourceNone Source = iota
	SourceRequest
	SourceSettings
	SourceConfig
	SourceEnvironment
)

func (s Source) String() string {
	switch s {
	case SourceRequest:
		return "request"
	case SourceSettings:
		return "settings"
	case SourceConfig:
		return "config"
	case SourceEnvironment:
		return "environment"
	default:
		return "none"
	}
}

// Base is one resolved URL prefix.
type Base struct {
	URL    string
	Source Source
}

// Resolved reports whether the base came from anywhere at all.
func (b Base) Resolved() bool { return b.Source != SourceNone }

// Request is the slice of an HTTP request URL resolution needs.
type Request struct {
	Scheme   string
	Host     string
	BasePath string
}

// FromHTTP extracts a Request from r.  basePath is the configured mount
// point of the application, e.g. "/crm".
func FromHTTP(r *http.Request, basePath string) *Request {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return &Request{Scheme: scheme, Host: r.Host, BasePath: normPath(basePath)}
}

// Resolver is owned by one context.  A nil Request selects offline mode.
type Resolver struct {
	Env            env.Provider
	Request        *Request
	Settings       *settings.Settings
	OfflineBaseURL string
	Script         string

	hostInfo memo.Value[Base]
	absBase  memo.Value[Base]
	webRoot  memo.Value[Base]
	extBase  memo.Value[Base]
}

// Offline reports whether no request is bound.
func (r *Resolver) Offline() bool { return r.Request == nil }

func (r *Resolver) script() string {
	if r.Script == "" {
		return DefaultScript
	}
	return strings.Trim(r.Script, "/")
}

func (r *Resolver) basePath() string {
	if r.Request == nil {
		return ""
	}
	return r.Request.BasePath
}

// HostInfo returns scheme://host of the active request.  Offline it is
// unresolved.
func (r *Resolver) HostInfo() Base {
	b, _ := r.hostInfo.Get(func() (Base, error) {
		if r.Request == nil || r.Request.Host == "" {
			return Base{}, nil
		}
		return Base{URL: r.Request.Scheme + "://" + r.Request.Host, Source: SourceRequest}, nil
	})
	return b
}

// AbsoluteBase returns the absolute URL of the application root.
func (r *Resolver) AbsoluteBase() Base {
	b, _ := r.absBase.Get(func() (Base, error) {
		if r.Request != nil {
			h := r.HostInfo()
			if !h.Resolved() {
				return Base{}, nil
			}
			return Base{URL: h.URL + r.Request.BasePath, Source: SourceRequest}, nil
		}
		if u := strings.TrimRight(strings.TrimSpace(r.OfflineBaseURL), "/"); u != "" {
			return Base{URL: u, Source: SourceConfig}, nil
		}
		return r.fromEnvironment(), nil
	})
	return b
}

// fromEnvironment rebuilds a base from CGI-style variables, if any are set.
func (r *Resolver) fromEnvironment() Base {
	if r.Env == nil {
		return Base{}
	}
	host, ok := r.Env.LookupEnv("SERVER_NAME")
	if !ok || host == "" {
		host, ok = r.Env.LookupEnv("HTTP_HOST")
	}
	if !ok || host == "" {
		return Base{}
	}
	scheme := "http"
	if v, ok := r.Env.LookupEnv("HTTPS"); ok && v != "" && !strings.EqualFold(v, "off") {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: host}
	return Base{URL: u.String(), Source: SourceEnvironment}
}

// ExternalWebRoot returns the public scheme://host.
func (r *Resolver) ExternalWebRoot() Base {
	b, _ := r.webRoot.Get(func() (Base, error) {
		if r.Settings != nil {
			if u := strings.TrimRight(r.Settings.ExternalBaseURL, "/"); u != "" {
				return Base{URL: u, Source: SourceSettings}, nil
			}
		}
		if r.Request != nil {
			return r.HostInfo(), nil
		}
		return r.AbsoluteBase(), nil
	})
	return b
}

// ExternalAbsoluteBase returns the public absolute URL of the application
// root.
func (r *Resolver) ExternalAbsoluteBase() Base {
	b, _ := r.extBase.Get(func() (Base, error) {
		root := r.ExternalWebRoot()
		if !root.Resolved() {
			return Base{}, nil
		}
		path := r.basePath()
		if r.Settings != nil && r.Settings.ExternalBaseURI != "" {
			path = normPath(r.Settings.ExternalBaseURI)
		}
		return Base{URL: root.URL + path, Source: root.Source}, nil
	})
	return b
}

// CreateExternalURL builds a public link to route.
//
// In a request the link is ExternalWebRoot + base path + script + route,
// with a query string only when params is non-empty.  Offline it is always
// ExternalAbsoluteBase + "/index.php/" + route + "?" + query, the trailing
// "?" included.  An unresolved base yields a root-relative link.
func (r *Resolver) CreateExternalURL(route string, params url.Values) string {
	route = strings.Trim(route, "/")
	q := params.Encode()

	if r.Request != nil {
		u := r.ExternalWebRoot().URL + r.Request.BasePath + "/" + r.script() + "/" + route
		if q != "" {
			u += "?" + q
		}
		return u
	}
	return r.ExternalAbsoluteBase().URL + "/" + DefaultScript + "/" + route + "?" + q
}

// normPath turns "crm/", "/crm", or "crm" into "/crm", and "/" into "".
func normPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
