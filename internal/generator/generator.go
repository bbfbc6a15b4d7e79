// Package generator holds the core of the pipeline: the Site contract, the
// shared Generator behavior, the run-mode state machine and the site
// registry. Site-specific extraction lives under internal/sites; everything
// here is common to all of them.
package generator

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"nfogen/internal/config"
	"nfogen/internal/correct"
	"nfogen/internal/movie"
	"nfogen/internal/urlcheck"
)

// Site is the per-site strategy a generator is bound to. Implementations
// supply URL recognition and page-to-record extraction; everything else is
// shared behavior on Generator.
type Site interface {
	// Name is the human-readable site name ("CK-Download").
	Name() string
	// Domain is the matching token looked for in URL hosts.
	Domain() string
	// ExtractProductID pulls the site-assigned identifier out of a URL,
	// returning "" when the URL carries none.
	ExtractProductID(rawURL string) string
	// Scrape populates rec from the fetched detail page.
	Scrape(ctx context.Context, f *Fetcher, rec *movie.Record, rawURL string) error
}

// Deps are the collaborators shared by all generators: the read-only
// configuration, the HTTP fetcher and the correction provider.
type Deps struct {
	Config   *config.Config
	Fetcher  *Fetcher
	Provider correct.Provider
	Logger   zerolog.Logger
}

// Generator owns one movie record and drives it through the run-mode state
// machine. One record per instance; a record never outlives its generator.
type Generator struct {
	key     string
	site    Site
	siteCfg config.Site
	cfg     *config.Config
	fetch   *Fetcher
	corr    correct.Provider
	log     zerolog.Logger

	mode   string
	record *movie.Record
	output string // explicit output filename, "" derives from the record
	sealed bool
}

// New binds a site strategy to the shared collaborators. The record starts
// empty and is populated during scraping.
func New(key string, site Site, deps Deps) *Generator {
	return &Generator{
		key:     key,
		site:    site,
		siteCfg: deps.Config.SiteOrDefault(key),
		cfg:     deps.Config,
		fetch:   deps.Fetcher,
		corr:    deps.Provider,
		log:     deps.Logger.With().Str("site", key).Logger(),
		mode:    deps.Config.General.RunMode,
		record:  movie.New(),
	}
}

func (g *Generator) Key() string      { return g.key }
func (g *Generator) SiteName() string { return g.site.Name() }
func (g *Generator) Domain() string   { return g.site.Domain() }

// Record exposes the owned record for inspection in tests and the CLI
// summary. Callers must not mutate it once Run has returned.
func (g *Generator) Record() *movie.Record { return g.record }

// SetOutput fixes the output filename instead of deriving it from the
// title.
func (g *Generator) SetOutput(filename string) { g.output = filename }

// ValidateURL reports whether the site's domain token appears in the URL
// host. Matching is deliberately substring-based: sites answer under
// variant hostnames (www, regional subdomains).
func (g *Generator) ValidateURL(rawURL string) bool {
	host, ok := urlcheck.Domain(rawURL)
	if !ok {
		return false
	}
	return strings.Contains(host, strings.ToLower(g.site.Domain()))
}

// applySiteDefaults fills what the page did not provide from the site's
// configured defaults.
func (g *Generator) applySiteDefaults() {
	if g.record.Studio == "" {
		g.record.Studio = g.siteCfg.DefaultStudio
	}
	if len(g.record.Genres) == 0 {
		for _, tag := range g.siteCfg.DefaultTags {
			g.record.AddGenre(tag)
		}
	}
}

// seedRecord initializes a minimal record after a failed scrape so the
// operator has something to correct: the product id from the URL and the
// site defaults.
func (g *Generator) seedRecord(rawURL string) {
	rec := movie.New()
	rec.ProductID = g.site.ExtractProductID(rawURL)
	rec.Studio = g.siteCfg.DefaultStudio
	if rec.ProductID != "" {
		rec.AddUniqueID(strings.ToLower(g.key), rec.ProductID, true)
	}
	for _, tag := range g.siteCfg.DefaultTags {
		rec.AddGenre(tag)
	}
	g.record = rec
}
