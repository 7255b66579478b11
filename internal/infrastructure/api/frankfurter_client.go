package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
)

// DefaultHistoryURL is the historical daily-rate source.
const DefaultHistoryURL = "https://api.frankfurter.app"

// FrankfurterClient fetches dated rate samples for one pair. It makes a
// single attempt per call: the trend path degrades to a synthesized series on
// failure, so retry backoff would only delay the chart.
type FrankfurterClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewFrankfurterClient creates a new historical rate client
func NewFrankfurterClient(baseURL string, httpClient *http.Client, log logger.Logger) *FrankfurterClient {
	if baseURL == "" {
		baseURL = DefaultHistoryURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &FrankfurterClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     log,
	}
}

type latestDateResponse struct {
	Date string `json:"date"`
}

type rangeResponse struct {
	Rates map[string]map[string]float64 `json:"rates"`
}

// LatestDate returns the most recent date the source has data for the pair.
func (c *FrankfurterClient) LatestDate(ctx context.Context, from, to string) (string, error) {
	reqURL := fmt.Sprintf("%s/latest?from=%s&to=%s",
		c.baseURL, url.QueryEscape(from), url.QueryEscape(to))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return "", err
	}

	var payload latestDateResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode latest-date response: %w", err)
	}
	if payload.Date == "" {
		return "", fmt.Errorf("latest-date response carries no date for %s/%s", from, to)
	}

	return payload.Date, nil
}

// FetchRange retrieves daily samples between start and end inclusive, in
// ascending date order. Dates missing a value for the target currency are
// skipped.
func (c *FrankfurterClient) FetchRange(ctx context.Context, from, to, start, end string) ([]entity.TrendPoint, error) {
	reqURL := fmt.Sprintf("%s/%s..%s?from=%s&to=%s",
		c.baseURL, start, end, url.QueryEscape(from), url.QueryEscape(to))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var payload rangeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode range response: %w", err)
	}

	dates := make([]string, 0, len(payload.Rates))
	for date := range payload.Rates {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]entity.TrendPoint, 0, len(dates))
	for _, date := range dates {
		value, ok := payload.Rates[date][to]
		if !ok {
			c.logger.Debug("Skipping date without target rate", map[string]interface{}{
				"date": date,
				"to":   to,
			})
			continue
		}
		points = append(points, entity.TrendPoint{Date: date, Value: value})
	}

	return points, nil
}

func (c *FrankfurterClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned error status: %d, body: %s", resp.StatusCode, body)
	}

	return body, nil
}
