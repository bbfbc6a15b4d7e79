// Package ckdownload scrapes product detail pages on ck-download.com.
package ckdownload

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
	siteName      = "CK-Download"
	defaultDomain = "ck-download"
)

var (
	productIDRe = regexp.MustCompile(`product/detail/(\d+)`)
	dateRe      = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}`)
)

type Site struct {
	cfg config.Site
}

// New is the registry constructor.
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
	if m := productIDRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

func (s *Site) Scrape(ctx context.Context, f *generator.Fetcher, rec *movie.Record, rawURL string) error {
	doc, err := f.Document(ctx, rawURL)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(doc.Find("div#Contents h3").First().Text())
	if title == "" {
		return &nfoerr.Error{
			Kind: nfoerr.KindScraping,
			Site: defaultDomain,
			URL:  rawURL,
			Err:  errors.New("title element not found"),
		}
	}

	// The product number prefixes the title, the way the library shelves it.
	if num := productNumber(doc); num != "" {
		title = num + " " + title
	}

	rec.Title = title
	rec.ProductID = s.ExtractProductID(rawURL)
	rec.Plot = plot(doc)
	rec.Premiered = premiered(doc)
	rec.Studio = s.cfg.DefaultStudio

	doc.Find("div.prod_category a").Each(func(_ int, a *goquery.Selection) {
		rec.AddGenre(strings.TrimSpace(a.Text()))
	})

	if rec.ProductID != "" {
		rec.AddUniqueID(defaultDomain, rec.ProductID, true)
	}
	rec.AddRating("default", 7.5, 1000)

	return nil
}

func productNumber(doc *goquery.Document) string {
	var num string
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if strings.TrimSpace(th.Text()) == "プロダクトナンバー" {
			num = strings.TrimSpace(th.Next().Text())
			return false
		}
		return true
	})
	return num
}

func plot(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("div.intro_text p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

// premiered normalizes the site's "2024.01.02" date to YYYY-MM-DD, or ""
// when the page carries none.
func premiered(doc *goquery.Document) string {
	text := doc.Find("div.add_info div.date").First().Text()
	raw := dateRe.FindString(text)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
