package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrUnavailable is the uniform failure signal for every outbound lookup.
// Callers never see transport, status, or parse errors directly; they check
// for this sentinel with errors.Is and degrade accordingly.
var ErrUnavailable = errors.New("provider unavailable")

// Provider is the outbound-lookup surface the assistant depends on.
// All methods block on network I/O bounded by the client timeout.
type Provider interface {
	// CurrentWeather returns the current temperature in °C at the
	// configured coordinates.
	CurrentWeather(ctx context.Context) (float64, error)
	// CurrentTime returns the current time in the configured timezone.
	CurrentTime(ctx context.Context) (time.Time, error)
	// LatestHeadline returns the title of the newest feed item. An empty
	// string with a nil error means the feed was reachable but carried
	// no items.
	LatestHeadline(ctx context.Context) (string, error)
	// ExchangeRate returns the latest rate of the configured currency pair.
	ExchangeRate(ctx context.Context) (float64, error)
}

type Config struct {
	WeatherURL  string
	TimeURL     string
	NewsFeedURL string
	RatesURL    string
	Timeout     time.Duration
}

// HTTPClient implements Provider against the real provider endpoints.
// One shared http.Client with a hard timeout backs every call.
type HTTPClient struct {
	httpClient *http.Client
	feedParser *gofeed.Parser
	cfg        Config
}

func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	hc := &http.Client{Timeout: cfg.Timeout}
	fp := gofeed.NewParser()
	fp.Client = hc
	return &HTTPClient{httpClient: hc, feedParser: fp, cfg: cfg}
}

type weatherResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
	} `json:"current_weather"`
}

func (c *HTTPClient) CurrentWeather(ctx context.Context) (float64, error) {
	var resp weatherResponse
	if err := c.getJSON(ctx, c.cfg.WeatherURL, &resp); err != nil {
		log.Println("[lookup] weather:", err)
		return 0, fmt.Errorf("weather: %w", ErrUnavailable)
	}
	return resp.CurrentWeather.Temperature, nil
}

type timeResponse struct {
	Datetime string `json:"datetime"`
}

func (c *HTTPClient) CurrentTime(ctx context.Context) (time.Time, error) {
	var resp timeResponse
	if err := c.getJSON(ctx, c.cfg.TimeURL, &resp); err != nil {
		log.Println("[lookup] time:", err)
		return time.Time{}, fmt.Errorf("time: %w", ErrUnavailable)
	}
	t, err := time.Parse(time.RFC3339Nano, resp.Datetime)
	if err != nil {
		log.Println("[lookup] time parse:", err)
		return time.Time{}, fmt.Errorf("time: %w", ErrUnavailable)
	}
	return t, nil
}

func (c *HTTPClient) LatestHeadline(ctx context.Context) (string, error) {
	feed, err := c.feedParser.ParseURLWithContext(c.cfg.NewsFeedURL, ctx)
	if err != nil {
		log.Println("[lookup] news:", err)
		return "", fmt.Errorf("news: %w", ErrUnavailable)
	}
	// The configured provider serves RSS or Atom. gofeed's universal
	// parser auto-detects a body starting with '{' as an empty JSON
	// Feed, which would masquerade as a reachable-but-empty feed.
	if feed.FeedType != "rss" && feed.FeedType != "atom" {
		log.Printf("[lookup] news: unexpected feed type %q", feed.FeedType)
		return "", fmt.Errorf("news: %w", ErrUnavailable)
	}
	if len(feed.Items) == 0 {
		return "", nil
	}
	return feed.Items[0].Title, nil
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (c *HTTPClient) ExchangeRate(ctx context.Context) (float64, error) {
	var resp ratesResponse
	if err := c.getJSON(ctx, c.cfg.RatesURL, &resp); err != nil {
		log.Println("[lookup] rates:", err)
		return 0, fmt.Errorf("rates: %w", ErrUnavailable)
	}
	rate, ok := resp.Rates["USD"]
	if !ok {
		log.Println("[lookup] rates: USD missing from response")
		return 0, fmt.Errorf("rates: %w", ErrUnavailable)
	}
	return rate, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
