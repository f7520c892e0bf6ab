package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SPVWaterfall/internal/model"

	"github.com/shopspring/decimal"
)

// HTTPFetcher implements Fetcher against a JSON outcome feed.
type HTTPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPFetcher creates a new fetcher with optional proxy support.
func NewHTTPFetcher(baseURL, apiKey, proxyURL string) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// outcomePayload is the expected JSON shape from the feed. Amounts may be
// JSON numbers or strings.
type outcomePayload struct {
	Premiums *decimal.Decimal `json:"premiums"`
	Losses   *decimal.Decimal `json:"losses"`
}

func (f *HTTPFetcher) FetchOutcome(ctx context.Context) (model.MarketOutcome, error) {
	endpoint := f.BaseURL + "/api/v1/outcome"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.MarketOutcome{}, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.MarketOutcome{}, fmt.Errorf("fetch outcome: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.MarketOutcome{}, fmt.Errorf("fetch outcome: status %d, body: %s", resp.StatusCode, string(body))
	}

	var p outcomePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return model.MarketOutcome{}, fmt.Errorf("decode outcome: %w", err)
	}
	if p.Premiums == nil || p.Losses == nil {
		return model.MarketOutcome{}, fmt.Errorf("decode outcome: premiums and losses are required")
	}
	return model.MarketOutcome{Premiums: *p.Premiums, Losses: *p.Losses}, nil
}
