package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
)

// DefaultRatesURL is the primary source of the latest rate snapshot.
const DefaultRatesURL = "https://cdn.moneyconvert.net/api/latest.json"

const maxFetchAttempts = 3

// RatesAPIClient fetches the latest full rate snapshot from the primary API.
type RatesAPIClient struct {
	url        string
	httpClient *http.Client
	logger     logger.Logger
}

// NewRatesAPIClient creates a new rates API client
func NewRatesAPIClient(url string, httpClient *http.Client, log logger.Logger) *RatesAPIClient {
	if url == "" {
		url = DefaultRatesURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RatesAPIClient{
		url:        url,
		httpClient: httpClient,
		logger:     log,
	}
}

// latestRatesResponse is the wire shape of the primary endpoint. A missing
// ts is normalized to the current time downstream; a missing self-rate is
// added by snapshot normalization.
type latestRatesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
	TS    int64              `json:"ts"`
}

// FetchLatest retrieves the current rate snapshot, retrying transport
// failures with exponential backoff.
func (c *RatesAPIClient) FetchLatest(ctx context.Context) (*entity.RateSnapshot, error) {
	body, err := c.get(ctx, c.url)
	if err != nil {
		return nil, err
	}

	var payload latestRatesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	if payload.Base == "" {
		return nil, fmt.Errorf("rates response carries no base currency")
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates response carries no rates")
	}

	snapshot := &entity.RateSnapshot{
		Base:   payload.Base,
		Rates:  payload.Rates,
		Source: entity.SourceLive,
	}
	if payload.TS > 0 {
		snapshot.FetchedAt = time.UnixMilli(payload.TS)
	}

	return snapshot, nil
}

// get executes a GET with retry logic shared by the rate clients.
func (c *RatesAPIClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	return getWithRetry(ctx, c.httpClient, c.logger, reqURL)
}

func getWithRetry(ctx context.Context, client *http.Client, log logger.Logger, reqURL string) ([]byte, error) {
	var resp *http.Response
	var err error

	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Add("Accept", "application/json")

		resp, err = client.Do(req)
		if err == nil {
			break
		}

		if attempt < maxFetchAttempts {
			backoff := time.Duration(attempt*attempt) * time.Second
			log.Warn("Request failed, retrying", map[string]interface{}{
				"url":     reqURL,
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   err.Error(),
			})

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to execute request after %d attempts: %w", maxFetchAttempts, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Error closing response body", map[string]interface{}{
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
