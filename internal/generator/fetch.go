package generator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"nfogen/internal/nfoerr"
)

// FetcherOptions configures the shared HTTP layer. Transport is a test
// seam; when set, the Cloudflare bypass wrap is skipped.
type FetcherOptions struct {
	UserAgent     string
	Timeout       time.Duration
	RetryAttempts int // retries after the first attempt
	Backoff       time.Duration
	Transport     http.RoundTripper
	Logger        zerolog.Logger
}

// Fetcher issues the single GET a run needs, with the configured retry
// budget. It is the only network-facing piece of the pipeline.
type Fetcher struct {
	client   *http.Client
	attempts int
	backoff  time.Duration
	log      zerolog.Logger
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	jar, _ := cookiejar.New(nil)

	var base http.RoundTripper
	if opts.Transport != nil {
		base = opts.Transport
	} else {
		base = cloudflarebp.AddCloudFlareByPass(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 100,
			ForceAttemptHTTP2:   true,
		})
	}

	backoff := opts.Backoff
	if backoff == 0 {
		backoff = 500 * time.Millisecond
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: roundTripper{
				base: base,
				ua:   opts.UserAgent,
				log:  opts.Logger,
			},
			Jar: jar,
		},
		attempts: opts.RetryAttempts + 1,
		backoff:  backoff,
		log:      opts.Logger,
	}
}

type roundTripper struct {
	base http.RoundTripper
	ua   string
	log  zerolog.Logger
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.ua != "" {
		req.Header.Set("User-Agent", rt.ua)
	}
	rt.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("http request")
	return rt.base.RoundTrip(req)
}

// Get issues one GET, retrying transport errors and 5xx responses with an
// increasing delay. After the budget is exhausted the failure surfaces as a
// network error.
func (f *Fetcher) Get(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response
	var err error

	for i := 1; i <= f.attempts; i++ {
		req, rerr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if rerr != nil {
			return nil, nfoerr.New(nfoerr.KindNetwork, rerr)
		}

		resp, err = f.client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			f.log.Debug().Int("attempt", i).Err(err).Msg("request failed")
		} else {
			f.log.Debug().Int("attempt", i).Int("status", resp.StatusCode).Msg("request failed")
		}

		if i == f.attempts {
			break
		}
		select {
		case <-time.After(f.backoff * time.Duration(i)):
		case <-ctx.Done():
			return nil, nfoerr.New(nfoerr.KindNetwork, ctx.Err())
		}
	}

	if err == nil {
		err = fmt.Errorf("HTTP %d after %d attempts", resp.StatusCode, f.attempts)
	}
	return nil, &nfoerr.Error{Kind: nfoerr.KindNetwork, URL: url, Err: err}
}

// Document fetches url and parses the body as HTML. Non-200 statuses below
// 500 mean the page exists but is not the expected detail page, which is a
// scraping failure rather than a network one.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &nfoerr.Error{
			Kind: nfoerr.KindScraping,
			URL:  url,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return goquery.NewDocumentFromReader(resp.Body)
}
