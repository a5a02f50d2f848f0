package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 20
)

// AdzunaSource queries the Adzuna search API.
type AdzunaSource struct {
	AppID   string
	AppKey  string
	Country string
	BaseURL string

	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewAdzunaSource builds a source. limiter may be nil.
func NewAdzunaSource(appID, appKey, country string, client *http.Client, limiter *rate.Limiter) *AdzunaSource {
	if client == nil {
		client = &http.Client{}
	}
	if country == "" {
		country = "us"
	}
	return &AdzunaSource{
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		BaseURL: adzunaBaseURL,
		client:  client,
		limiter: limiter,
		now:     time.Now,
	}
}

func (s *AdzunaSource) Name() string { return "adzuna" }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	RedirectURL string `json:"redirect_url"`
	Created     string `json:"created"`
}

// Search fetches the first result page for the role and location.
func (s *AdzunaSource) Search(ctx context.Context, q Query) ([]Posting, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("app_id", s.AppID)
	params.Set("app_key", s.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", q.Role)
	if q.Location != "" {
		params.Set("where", q.Location)
	}
	params.Set("sort_by", "date")
	params.Set("content-type", "application/json")

	endpoint := fmt.Sprintf("%s/%s/search/1?%s", s.BaseURL, s.Country, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d", resp.StatusCode)
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	records := make([]RawRecord, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		rec := RawRecord{
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			ApplyURL:    r.RedirectURL,
			Description: r.Description,
			Source:      s.Name(),
		}
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			rec.PostedAt = t
		}
		records = append(records, rec)
	}
	return NormalizeAll(records, s.now()), nil
}
