package generator

import (
	"strings"

	"nfogen/internal/config"
	"nfogen/internal/nfoerr"
	"nfogen/internal/urlcheck"
)

// Constructor builds a Site strategy bound to its configured defaults.
type Constructor func(cfg config.Site) Site

type registration struct {
	key         string
	domain      string
	constructor Constructor
}

// Registry maps site keys to generator constructors and dispatches URLs to
// the matching site. Registration order is a contract: URL dispatch tries
// entries in the order they were registered, so more specific generators
// belong after the defaults they refine.
type Registry struct {
	entries []registration
	deps    Deps
}

// NewRegistry creates an empty registry bound to the shared collaborators.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps}
}

// Register inserts or overwrites the entry for key. A re-registration
// replaces the constructor in place, keeping the original position.
func (r *Registry) Register(key, domain string, ctor Constructor) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i := range r.entries {
		if r.entries[i].key == key {
			r.entries[i].domain = domain
			r.entries[i].constructor = ctor
			return
		}
	}
	r.entries = append(r.entries, registration{key: key, domain: domain, constructor: ctor})
}

// Create returns a new generator for key, bound to the shared
// configuration.
func (r *Registry) Create(key string) (*Generator, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, e := range r.entries {
		if e.key == key {
			return New(e.key, e.constructor(r.deps.Config.SiteOrDefault(e.key)), r.deps), nil
		}
	}
	return nil, &nfoerr.Error{
		Kind: nfoerr.KindUnknownSite,
		Site: key,
		Err:  nil,
	}
}

// CreateFromURL dispatches a URL to the first registered site whose domain
// token is a substring of the URL's host. ok=false means no site matched;
// the caller decides whether that is fatal.
func (r *Registry) CreateFromURL(rawURL string) (*Generator, bool, error) {
	host, valid := urlcheck.Domain(rawURL)
	if !valid {
		return nil, false, nil
	}
	for _, e := range r.entries {
		if strings.Contains(host, strings.ToLower(e.domain)) {
			gen, err := r.Create(e.key)
			if err != nil {
				return nil, false, err
			}
			return gen, true, nil
		}
	}
	return nil, false, nil
}

// Sites returns a snapshot of the registered site keys in registration
// order.
func (r *Registry) Sites() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.key
	}
	return keys
}
