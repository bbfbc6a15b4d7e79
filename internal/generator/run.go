package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"nfogen/internal/movie"
	"nfogen/internal/nfo"
	"nfogen/internal/nfoerr"
	"nfogen/internal/urlcheck"
)

// State is one step of the run-mode state machine.
type State int

const (
	StateInit State = iota
	StateValidating
	StateScraping
	StateScraped
	StateScrapeFailed
	StateCorrecting
	StateSerializing
	StateDone
	StateAborted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateValidating:
		return "validating"
	case StateScraping:
		return "scraping"
	case StateScraped:
		return "scraped"
	case StateScrapeFailed:
		return "scrape_failed"
	case StateCorrecting:
		return "correcting"
	case StateSerializing:
		return "serializing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Run drives one URL through the pipeline and returns the path of the
// written file. On Failed it returns the kinded error of the failing
// stage; on Aborted it returns nfoerr.ErrAborted. Either way no file is
// produced.
func (g *Generator) Run(ctx context.Context, rawURL string) (string, error) {
	st := StateValidating
	var scrapeErr error
	var runErr error
	var outPath string

	for {
		g.log.Debug().Stringer("state", st).Msg("run")

		switch st {
		case StateValidating:
			// Structural check first: no network is touched for a
			// non-http(s) URL.
			if err := urlcheck.Validate(rawURL); err != nil {
				runErr = err
				st = StateFailed
				continue
			}
			if !g.ValidateURL(rawURL) {
				runErr = &nfoerr.Error{
					Kind: nfoerr.KindInvalidURL,
					Site: g.key,
					URL:  rawURL,
					Err:  errors.New("URL host does not match site domain " + g.site.Domain()),
				}
				st = StateFailed
				continue
			}
			st = StateScraping

		case StateScraping:
			err := g.site.Scrape(ctx, g.fetch, g.record, rawURL)
			if err != nil {
				// A network failure already consumed its retry budget;
				// it never routes into correction.
				if nfoerr.Is(err, nfoerr.KindNetwork) || nfoerr.Fatal(err) {
					runErr = err
					st = StateFailed
					continue
				}
				scrapeErr = err
				st = StateScrapeFailed
				continue
			}

			g.record.ApplyDefaults()
			g.applySiteDefaults()
			if verr := movie.ValidationError(g.record, g.key, rawURL); verr != nil {
				scrapeErr = verr
				st = StateScrapeFailed
				continue
			}
			st = StateScraped

		case StateScrapeFailed:
			if g.mode == "auto" {
				// Auto favors throughput: no correction, no file.
				runErr = scrapeErr
				st = StateFailed
				continue
			}
			g.seedRecord(rawURL)
			g.corr.Show("Scrape failed: " + scrapeErr.Error())
			g.corr.Show("Enter the metadata manually to continue.")
			st = StateCorrecting

		case StateScraped:
			switch g.mode {
			case "auto":
				st = StateSerializing
			case "manual":
				// Manual always requires a human pass, valid scrape or not.
				st = StateCorrecting
			default: // interactive
				next, err := g.askCorrection()
				if err != nil {
					if errors.Is(err, nfoerr.ErrAborted) {
						st = StateAborted
					} else {
						runErr = err
						st = StateFailed
					}
					continue
				}
				st = next
			}

		case StateCorrecting:
			if err := g.correctionSession(); err != nil {
				if errors.Is(err, nfoerr.ErrAborted) {
					st = StateAborted
				} else {
					runErr = err
					st = StateFailed
				}
				continue
			}
			st = StateSerializing

		case StateSerializing:
			path, err := g.WriteNFO(g.output)
			if err != nil {
				runErr = err
				st = StateFailed
				continue
			}
			outPath = path
			st = StateDone

		case StateDone:
			return outPath, nil

		case StateAborted:
			return "", nfoerr.ErrAborted

		case StateFailed:
			return "", runErr
		}
	}
}

// askCorrection implements the interactive-mode question after a valid
// scrape. The third answer downgrades this run to auto.
func (g *Generator) askCorrection() (State, error) {
	if !g.cfg.General.ManualInput {
		return StateSerializing, nil
	}
	idx, err := g.corr.Choose("Correct the scraped metadata?", []string{"yes", "no", "auto"})
	if err != nil {
		return StateFailed, abortIfCancelled(err)
	}
	switch idx {
	case 0:
		return StateCorrecting, nil
	case 2:
		g.mode = "auto"
	}
	return StateSerializing, nil
}

// WriteNFO validates, seals and serializes the record, then writes the
// file atomically. A record that fails validation is never written.
func (g *Generator) WriteNFO(filename string) (string, error) {
	if verr := movie.ValidationError(g.record, g.key, ""); verr != nil {
		return "", verr
	}
	g.sealed = true

	if filename == "" {
		filename = nfo.Filename(g.record)
	} else if !strings.HasSuffix(filename, ".nfo") {
		filename += ".nfo"
	}

	data, err := nfo.Encode(g.record, time.Now())
	if err != nil {
		return "", err
	}
	if err := nfo.WriteFile(filename, data); err != nil {
		return "", err
	}
	g.log.Info().Str("path", filename).Msg("nfo written")
	return filename, nil
}
