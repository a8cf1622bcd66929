package leneda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lenedash/lenedash/internal/core"
)

const defaultTimeout = 30 * time.Second

// Client talks to the lenedash backend over HTTP and implements
// core.DataSource. Credentials for the upstream metering API live on the
// backend; this client only ever sees aggregated results and the
// has-credentials booleans in /api/config.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Health(ctx context.Context) (core.Health, error) {
	var h core.Health
	if err := c.getJSON(ctx, "/api/health", nil, &h); err != nil {
		return core.Health{}, err
	}
	return h, nil
}

func (c *Client) FetchConfig(ctx context.Context) (core.Config, error) {
	var cfg core.Config
	if err := c.getJSON(ctx, "/api/config", nil, &cfg); err != nil {
		return core.Config{}, err
	}
	return cfg, nil
}

// RawSeries fetches native-resolution interval readings. The backend
// expects full instants for this endpoint, not calendar dates.
func (c *Client) RawSeries(ctx context.Context, meteringPoint, obisCode string, w core.Window) ([]core.SeriesPoint, error) {
	q := url.Values{}
	q.Set("metering_point", meteringPoint)
	q.Set("obis_code", obisCode)
	q.Set("start_date", w.Start.UTC().Format(time.RFC3339))
	q.Set("end_date", w.End.UTC().Format(time.RFC3339))

	var resp seriesResponse
	if err := c.getJSON(ctx, "/api/metering-data", q, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AggregatedSeries fetches one value per bucket at w.Level. The endpoint
// takes calendar dates; the window's instants are truncated to their days.
func (c *Client) AggregatedSeries(ctx context.Context, meteringPoint, obisCode string, w core.Window) ([]core.SeriesPoint, error) {
	q := url.Values{}
	q.Set("metering_point", meteringPoint)
	q.Set("obis_code", obisCode)
	q.Set("start_date", w.Start.Format("2006-01-02"))
	q.Set("end_date", w.End.Format("2006-01-02"))
	q.Set("aggregation_level", string(w.Level))

	var resp aggregatedResponse
	if err := c.getJSON(ctx, "/api/aggregated-data", q, &resp); err != nil {
		return nil, err
	}
	return resp.AggregatedTimeSeries, nil
}

func (c *Client) Invoice(ctx context.Context, meteringPoint string, start, end time.Time) (core.Invoice, error) {
	q := url.Values{}
	q.Set("metering_point", meteringPoint)
	q.Set("start_date", start.Format("2006-01-02"))
	q.Set("end_date", end.Format("2006-01-02"))

	var inv core.Invoice
	if err := c.getJSON(ctx, "/api/calculate-invoice", q, &inv); err != nil {
		return core.Invoice{}, err
	}
	return inv, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	u := c.baseURL + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("leneda: creating request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("leneda: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("leneda: reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Endpoint: endpoint, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("leneda: decoding %s response: %w", endpoint, err)
	}
	return nil
}
