package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxDocumentBytes = 4 << 20
	scrapeUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// HTMLSource scrapes a public search-results page. It is used when no
// structured API is configured and is expected to break when the board
// changes its markup; breakage shows up as empty results, not errors.
type HTMLSource struct {
	SearchURL string

	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewHTMLSource builds a source for searchURL. keywords and location are
// appended as query parameters. limiter may be nil.
func NewHTMLSource(searchURL string, client *http.Client, limiter *rate.Limiter) *HTMLSource {
	if client == nil {
		client = &http.Client{}
	}
	return &HTMLSource{SearchURL: searchURL, client: client, limiter: limiter, now: time.Now}
}

func (s *HTMLSource) Name() string { return "scrape" }

// Search fetches the page for q. Transport failures and non-200 responses
// are errors; unparseable markup is not.
func (s *HTMLSource) Search(ctx context.Context, q Query) ([]Posting, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	u, err := url.Parse(s.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("search url: %w", err)
	}
	params := u.Query()
	params.Set("keywords", q.Role)
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return ExtractPostings(string(body), s.Name(), resp.Request.URL, s.now()), nil
}
