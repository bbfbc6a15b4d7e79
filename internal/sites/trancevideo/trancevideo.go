// Package trancevideo scrapes release pages on trance-video and related
// music-video mirrors. The markup varies between mirrors, so selectors are
// tried in order of specificity.
package trancevideo

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"nfogen/internal/config"
	"nfogen/internal/generator"
	"nfogen/internal/movie"
	"nfogen/internal/nfoerr"
)

const (
	siteName      = "Trance-Video"
	defaultDomain = "trance"
)

var (
	productIDRes = []*regexp.Regexp{
		regexp.MustCompile(`/track/(\d+)`),
		regexp.MustCompile(`/music/(\d+)`),
		regexp.MustCompile(`/video/(\d+)`),
		regexp.MustCompile(`/release/(\d+)`),
		regexp.MustCompile(`id=(\d+)`),
		regexp.MustCompile(`/(\d+)/?$`),
	}
	durationRe = regexp.MustCompile(`(\d+):(\d{2})`)
)

var (
	titleSelectors  = []string{"h1.track-title", "h1.song-title", ".title h1", ".track-name", "h1"}
	artistSelectors = []string{".artist-name", ".track-artist", ".by-artist"}
	descSelectors   = []string{".description", ".track-info", ".about"}
	dateSelectors   = []string{".release-date", ".date", ".published", "time"}
	labelSelectors  = []string{".label-name", ".record-label"}
)

type Site struct {
	cfg config.Site
}

func New(cfg config.Site) generator.Site {
	return &Site{cfg: cfg}
}

func (s *Site) Name() string { return siteName }

func (s *Site) Domain() string {
	if s.cfg.Domain != "" {
		return s.cfg.Domain
	}
	return defaultDomain
}

func (s *Site) ExtractProductID(rawURL string) string {
	for _, re := range productIDRes {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

func (s *Site) Scrape(ctx context.Context, f *generator.Fetcher, rec *movie.Record, rawURL string) error {
	doc, err := f.Document(ctx, rawURL)
	if err != nil {
		return err
	}

	title := firstText(doc, titleSelectors)
	if title == "" {
		return &nfoerr.Error{
			Kind: nfoerr.KindScraping,
			Site: defaultDomain,
			URL:  rawURL,
			Err:  errors.New("no title element matched"),
		}
	}
	if artist := firstText(doc, artistSelectors); artist != "" {
		title = artist + " - " + title
	}

	rec.Title = title
	rec.ProductID = s.ExtractProductID(rawURL)
	rec.Plot = firstText(doc, descSelectors)
	rec.Premiered = releaseDate(doc)
	rec.Runtime = runtimeMinutes(doc)
	rec.MPAA = "G"

	if label := firstText(doc, labelSelectors); label != "" {
		rec.Studio = label
	} else {
		rec.Studio = s.cfg.DefaultStudio
	}

	doc.Find(".genre, .tag, .style, .categories a").Each(func(_ int, sel *goquery.Selection) {
		rec.AddGenre(strings.TrimSpace(sel.Text()))
	})

	// Performing artists double as the cast: lead first, collaborators
	// after, in page order.
	doc.Find(".artist-name, .featured-artist").Each(func(i int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}
		role := "Lead Artist"
		if i > 0 {
			role = "Featured Artist"
		}
		rec.AddActor(name, role, "")
	})

	if rec.ProductID != "" {
		rec.AddUniqueID(defaultDomain, rec.ProductID, true)
	}
	rec.AddRating("default", 8.0, 500)

	return nil
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func releaseDate(doc *goquery.Document) string {
	for _, sel := range dateSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		if t, err := dateparse.ParseAny(text); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// runtimeMinutes converts an mm:ss duration to whole minutes. Sub-minute
// clips count as one minute so they never serialize as zero.
func runtimeMinutes(doc *goquery.Document) string {
	text := firstText(doc, []string{".duration", ".length", ".time"})
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return "0"
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	if seconds > 0 && minutes == 0 {
		minutes = 1
	}
	return strconv.Itoa(minutes)
}
