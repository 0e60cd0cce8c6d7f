package environment

import (
	"strings"
	"sync"

	"github.com/me/eduportal/pkg/model"
)

const apiPrefix = "api/"

// Resolver computes the descriptor for one location on first use and serves
// the cached value for the rest of the process lifetime.
type Resolver struct {
	loc      Location
	override string
	once     sync.Once
	desc     model.Descriptor
}

// NewResolver creates a Resolver for loc.
func NewResolver(loc Location) *Resolver {
	return &Resolver{loc: loc}
}

// NewResolverFromURL parses raw and creates a Resolver for it.
func NewResolverFromURL(raw string) (*Resolver, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}
	return NewResolver(loc), nil
}

// WithBaseURL returns a Resolver for the same location whose API base URL
// is fixed to base instead of being derived. The environment tier is still
// classified from the location.
func (r *Resolver) WithBaseURL(base string) *Resolver {
	return &Resolver{loc: r.loc, override: strings.TrimRight(base, "/")}
}

// Location returns the location the resolver was built for.
func (r *Resolver) Location() Location {
	return r.loc
}

// Descriptor returns the cached descriptor.
func (r *Resolver) Descriptor() model.Descriptor {
	r.once.Do(func() {
		r.desc = Resolve(r.loc)
		if r.override != "" {
			r.desc.APIBaseURL = r.override
		}
	})
	return r.desc
}

// BaseURL returns the cached API base URL ("" for same origin).
func (r *Resolver) BaseURL() string {
	return r.Descriptor().APIBaseURL
}

// Environment returns the cached deployment tier.
func (r *Resolver) Environment() model.Environment {
	return r.Descriptor().Environment
}

// APIURL builds the URL for a curriculum-style endpoint. Leading slashes are
// dropped and the "api/" prefix is added unless already present, so
// APIURL("x"), APIURL("/x") and APIURL("api/x") agree. A bare "api" names
// the prefix itself and yields ".../api/". Same-origin results are
// root-relative ("/api/x").
func (r *Resolver) APIURL(endpoint string) string {
	endpoint = strings.TrimLeft(endpoint, "/")
	if endpoint == strings.TrimSuffix(apiPrefix, "/") {
		endpoint = apiPrefix
	}
	if !strings.HasPrefix(endpoint, apiPrefix) {
		endpoint = apiPrefix + endpoint
	}
	return r.BaseURL() + "/" + endpoint
}

// URL joins path onto the base URL without adding the api prefix. Used for
// endpoints the backend serves at the root, such as /connection/verify.
func (r *Resolver) URL(path string) string {
	return r.BaseURL() + "/" + strings.TrimLeft(path, "/")
}

// Absolute turns a root-relative URL produced by APIURL or URL into an
// absolute one against the page origin, the way a browser would resolve it.
// Already absolute URLs are returned unchanged.
func (r *Resolver) Absolute(u string) string {
	if strings.HasPrefix(u, "/") {
		return r.loc.Origin() + u
	}
	return u
}
