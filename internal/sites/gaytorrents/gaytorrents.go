// Package gaytorrents scrapes torrent detail pages on gay-torrents.net.
// Detail pages sit behind a login wall; an anonymous fetch degrades to a
// scraping failure so the run loop can hand the record to the operator.
package gaytorrents

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"nfogen/internal/config"
	"nfogen/internal/generator"
	"nfogen/internal/movie"
	"nfogen/internal/nfoerr"
)

const (
	siteName      = "Gay-Torrents"
	defaultDomain = "gay-torrents.net"
)

var (
	torrentIDRe = regexp.MustCompile(`torrentid=([a-f0-9]+)`)
	runtimeRe   = regexp.MustCompile(`(\d+)\s*min`)
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
	if m := torrentIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

func (s *Site) Scrape(ctx context.Context, f *generator.Fetcher, rec *movie.Record, rawURL string) error {
	doc, err := f.Document(ctx, rawURL)
	if err != nil {
		return err
	}

	body := doc.Text()
	if strings.Contains(body, "You are not logged in") || strings.Contains(strings.ToLower(body), "log in to continue") {
		return &nfoerr.Error{
			Kind: nfoerr.KindScraping,
			Site: defaultDomain,
			URL:  rawURL,
			Err:  errors.New("detail page requires login"),
		}
	}

	title := strings.TrimSpace(doc.Find("h1.torrent-title, h1").First().Text())
	if title == "" {
		return &nfoerr.Error{
			Kind: nfoerr.KindScraping,
			Site: defaultDomain,
			URL:  rawURL,
			Err:  errors.New("title element not found"),
		}
	}

	rec.Title = title
	rec.ProductID = s.ExtractProductID(rawURL)
	rec.Plot = strings.TrimSpace(doc.Find(".torrent-description, .description").First().Text())
	rec.Studio = s.cfg.DefaultStudio
	rec.MPAA = "XXX"

	if text := doc.Find(".torrent-details").Text(); text != "" {
		if m := runtimeRe.FindStringSubmatch(text); m != nil {
			rec.Runtime = m[1]
		}
		if t, err := dateparse.ParseAny(strings.TrimSpace(doc.Find(".upload-date").First().Text())); err == nil {
			rec.Premiered = t.Format("2006-01-02")
		}
	}

	doc.Find(".torrent-tags a, .tags a").Each(func(_ int, a *goquery.Selection) {
		rec.AddGenre(strings.TrimSpace(a.Text()))
	})
	doc.Find(".performer a, .cast a").Each(func(_ int, a *goquery.Selection) {
		if name := strings.TrimSpace(a.Text()); name != "" {
			rec.AddActor(name, "Actor", "")
		}
	})

	if rec.ProductID != "" {
		rec.AddUniqueID("gay-torrents", rec.ProductID, true)
	}

	return nil
}
