package generator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"nfogen/internal/config"
	"nfogen/internal/correct"
	"nfogen/internal/movie"
	"nfogen/internal/nfoerr"
)

// fakeSite is a scriptable Site strategy for state-machine tests.
type fakeSite struct {
	name   string
	domain string
	scrape func(rec *movie.Record) error
}

func (s *fakeSite) Name() string   { return s.name }
func (s *fakeSite) Domain() string { return s.domain }

func (s *fakeSite) ExtractProductID(rawURL string) string {
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		return rawURL[i+1:]
	}
	return ""
}

func (s *fakeSite) Scrape(_ context.Context, _ *Fetcher, rec *movie.Record, _ string) error {
	return s.scrape(rec)
}

// scriptProvider plays back canned answers and counts every interaction.
// Edit echoes the current value unless editOverride claims the field;
// Choose and Confirm consume their answer queues and fall back to the
// first option / false.
type scriptProvider struct {
	chooseAnswers  []int
	confirmAnswers []bool
	editOverride   func(label, current string) (string, bool)
	cancelAll      bool

	edits    int
	chooses  int
	confirms int
	shown    []string
}

func (p *scriptProvider) Edit(label, current string) (string, error) {
	p.edits++
	if p.cancelAll {
		return "", correct.ErrCancelled
	}
	if p.editOverride != nil {
		if v, ok := p.editOverride(label, current); ok {
			return v, nil
		}
	}
	return current, nil
}

func (p *scriptProvider) Confirm(string) (bool, error) {
	p.confirms++
	if p.cancelAll {
		return false, correct.ErrCancelled
	}
	if len(p.confirmAnswers) > 0 {
		v := p.confirmAnswers[0]
		p.confirmAnswers = p.confirmAnswers[1:]
		return v, nil
	}
	return false, nil
}

func (p *scriptProvider) Choose(string, []string) (int, error) {
	p.chooses++
	if p.cancelAll {
		return 0, correct.ErrCancelled
	}
	if len(p.chooseAnswers) > 0 {
		v := p.chooseAnswers[0]
		p.chooseAnswers = p.chooseAnswers[1:]
		return v, nil
	}
	return 0, nil
}

func (p *scriptProvider) Show(text string) { p.shown = append(p.shown, text) }

func validScrape(rec *movie.Record) error {
	rec.Title = "Scraped Title"
	rec.ProductID = "77"
	rec.Premiered = "2024-03-15"
	rec.AddUniqueID("fake", "77", true)
	return nil
}

func newTestGenerator(mode string, site Site, prov correct.Provider) *Generator {
	cfg := config.Default()
	cfg.General.RunMode = mode
	cfg.Sites["fake"] = config.Site{
		Name:          "Fake",
		Domain:        site.Domain(),
		DefaultStudio: "Fake Studio",
		DefaultTags:   []string{"fake"},
	}
	return New("fake", site, Deps{Config: cfg, Provider: prov, Logger: zerolog.Nop()})
}

const fakeURL = "https://www.fake.example/detail/77"

func TestRunAutoWritesFileWithoutPrompts(t *testing.T) {
	prov := &scriptProvider{}
	gen := newTestGenerator("auto", &fakeSite{name: "Fake", domain: "fake.example", scrape: validScrape}, prov)
	gen.SetOutput(filepath.Join(t.TempDir(), "out"))

	path, err := gen.Run(context.Background(), fakeURL)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasSuffix(path, "out.nfo") {
		t.Errorf("path = %q, want .nfo suffix appended", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
	if prov.edits+prov.chooses+prov.confirms > 0 || len(prov.shown) > 0 {
		t.Error("auto mode touched the correction provider")
	}

	// The page set no studio or genres, so the site defaults fill them.
	rec := gen.Record()
	if rec.Studio != "Fake Studio" {
		t.Errorf("Studio = %q, want site default", rec.Studio)
	}
	if len(rec.Genres) != 1 || rec.Genres[0] != "fake" {
		t.Errorf("Genres = %v, want default tags", rec.Genres)
	}
}

func TestRunAutoScrapeFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	scrapeErr := nfoerr.Newf(nfoerr.KindScraping, "title element not found")
	prov := &scriptProvider{}
	gen := newTestGenerator("auto", &fakeSite{name: "Fake", domain: "fake.example", scrape: func(*movie.Record) error {
		return scrapeErr
	}}, prov)
	gen.SetOutput(filepath.Join(dir, "out"))

	_, err := gen.Run(context.Background(), fakeURL)
	if !nfoerr.Is(err, nfoerr.KindScraping) {
		t.Fatalf("err = %v, want scraping kind", err)
	}
	if prov.edits+prov.chooses+prov.confirms > 0 {
		t.Error("auto mode entered correction after a failed scrape")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("files written on failure: %v", entries)
	}
}

func TestRunNetworkErrorIsTerminal(t *testing.T) {
	prov := &scriptProvider{}
	gen := newTestGenerator("manual", &fakeSite{name: "Fake", domain: "fake.example", scrape: func(*movie.Record) error {
		return &nfoerr.Error{Kind: nfoerr.KindNetwork, URL: fakeURL, Err: errors.New("dial timeout")}
	}}, prov)

	_, err := gen.Run(context.Background(), fakeURL)
	if !nfoerr.Is(err, nfoerr.KindNetwork) {
		t.Fatalf("err = %v, want network kind", err)
	}
	if prov.edits+prov.chooses+prov.confirms > 0 || len(prov.shown) > 0 {
		t.Error("network failure routed into correction")
	}
}

func TestRunManualAlwaysCorrects(t *testing.T) {
	prov := &scriptProvider{}
	gen := newTestGenerator("manual", &fakeSite{name: "Fake", domain: "fake.example", scrape: validScrape}, prov)
	gen.SetOutput(filepath.Join(t.TempDir(), "out"))

	if _, err := gen.Run(context.Background(), fakeURL); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if prov.edits < 13 {
		t.Errorf("edits = %d, want a full scalar pass before serializing", prov.edits)
	}
}

func TestRunInteractiveAnswers(t *testing.T) {
	cases := []struct {
		name      string
		answers   []int
		wantEdits bool
	}{
		{"yes corrects", []int{0}, true},
		{"no serializes", []int{1}, false},
		{"auto downgrades", []int{2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prov := &scriptProvider{chooseAnswers: tc.answers}
			gen := newTestGenerator("interactive", &fakeSite{name: "Fake", domain: "fake.example", scrape: validScrape}, prov)
			out := filepath.Join(t.TempDir(), "out")
			gen.SetOutput(out)

			if _, err := gen.Run(context.Background(), fakeURL); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if _, err := os.Stat(out + ".nfo"); err != nil {
				t.Errorf("output file missing: %v", err)
			}
			if tc.wantEdits && prov.edits == 0 {
				t.Error("answer yes skipped correction")
			}
			if !tc.wantEdits && prov.edits > 0 {
				t.Errorf("edits = %d, want none", prov.edits)
			}
		})
	}
}

func TestRunInteractiveNoManualInputSkipsQuestion(t *testing.T) {
	prov := &scriptProvider{}
	gen := newTestGenerator("interactive", &fakeSite{name: "Fake", domain: "fake.example", scrape: validScrape}, prov)
	gen.cfg.General.ManualInput = false
	gen.SetOutput(filepath.Join(t.TempDir(), "out"))

	if _, err := gen.Run(context.Background(), fakeURL); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if prov.chooses != 0 {
		t.Errorf("chooses = %d, want no question with manual_input off", prov.chooses)
	}
}

func TestRunScrapeFailureSeedsRecordForCorrection(t *testing.T) {
	prov := &scriptProvider{
		editOverride: func(label, current string) (string, bool) {
			if label == "Title" && current == "" {
				return "Recovered Title", true
			}
			return "", false
		},
	}
	gen := newTestGenerator("manual", &fakeSite{name: "Fake", domain: "fake.example", scrape: func(*movie.Record) error {
		return nfoerr.Newf(nfoerr.KindScraping, "title element not found")
	}}, prov)
	gen.SetOutput(filepath.Join(t.TempDir(), "out"))

	if _, err := gen.Run(context.Background(), fakeURL); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec := gen.Record()
	if rec.Title != "Recovered Title" {
		t.Errorf("Title = %q, want operator value", rec.Title)
	}
	if rec.ProductID != "77" {
		t.Errorf("ProductID = %q, want seeded from URL", rec.ProductID)
	}
	id, ok := rec.DefaultUniqueID()
	if !ok || id.Type != "fake" || id.Value != "77" {
		t.Errorf("default uniqueid = %+v (ok=%v), want fake/77", id, ok)
	}
	if rec.Studio != "Fake Studio" {
		t.Errorf("Studio = %q, want site default", rec.Studio)
	}
	if len(prov.shown) == 0 || !strings.HasPrefix(prov.shown[0], "Scrape failed:") {
		t.Errorf("failure was not announced: %v", prov.shown)
	}
}

func TestRunCancelledCorrectionAborts(t *testing.T) {
	dir := t.TempDir()
	prov := &scriptProvider{cancelAll: true}
	gen := newTestGenerator("manual", &fakeSite{name: "Fake", domain: "fake.example", scrape: validScrape}, prov)
	gen.SetOutput(filepath.Join(dir, "out"))

	_, err := gen.Run(context.Background(), fakeURL)
	if !errors.Is(err, nfoerr.ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("files written after abort: %v", entries)
	}
}

func TestRunCorrectionStillInvalidDeclineAborts(t *testing.T) {
	prov := &scriptProvider{
		// Blank out the title so the pass leaves the record invalid;
		// Confirm("Correct again?") then defaults to no.
		editOverride: func(label, _ string) (string, bool) {
			if label == "Title" {
				return "", true
			}
			return "", false
		},
	}
	gen := newTestGenerator("manual", &fakeSite{name: "Fake", domain: "fake.example", scrape: validScrape}, prov)

	_, err := gen.Run(context.Background(), fakeURL)
	if !errors.Is(err, nfoerr.ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if prov.confirms == 0 {
		t.Error("operator was never asked to retry")
	}
}

func TestRunLogsTerminalState(t *testing.T) {
	cases := []struct {
		name   string
		mode   string
		prov   *scriptProvider
		scrape func(*movie.Record) error
		want   string
	}{
		{"done", "auto", &scriptProvider{}, validScrape, `"state":"done"`},
		{"failed", "auto", &scriptProvider{}, func(*movie.Record) error {
			return nfoerr.Newf(nfoerr.KindScraping, "title element not found")
		}, `"state":"failed"`},
		{"aborted", "manual", &scriptProvider{cancelAll: true}, validScrape, `"state":"aborted"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := config.Default()
			cfg.General.RunMode = tc.mode
			cfg.Sites["fake"] = config.Site{Name: "Fake", Domain: "fake.example", DefaultStudio: "Fake Studio"}
			gen := New("fake", &fakeSite{name: "Fake", domain: "fake.example", scrape: tc.scrape}, Deps{
				Config:   cfg,
				Provider: tc.prov,
				Logger:   zerolog.New(&buf).Level(zerolog.DebugLevel),
			})
			gen.SetOutput(filepath.Join(t.TempDir(), "out"))

			_, _ = gen.Run(context.Background(), fakeURL)
			if !strings.Contains(buf.String(), tc.want) {
				t.Errorf("log missing %s:\n%s", tc.want, buf.String())
			}
		})
	}
}

func TestRunRejectsBadURLs(t *testing.T) {
	gen := newTestGenerator("auto", &fakeSite{name: "Fake", domain: "fake.example", scrape: validScrape}, &scriptProvider{})

	for _, url := range []string{
		"ftp://fake.example/detail/77",
		"https://other.example/detail/77",
		"not a url",
	} {
		_, err := gen.Run(context.Background(), url)
		if !nfoerr.Is(err, nfoerr.KindInvalidURL) {
			t.Errorf("Run(%q) err = %v, want invalid URL kind", url, err)
		}
	}
}
