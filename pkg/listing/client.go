// Package listing provides the HTTP client for the marketplace listing API
// with retry, metrics, and error handling.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/talentmarket/shiftpulse/pkg/pagination"
)

// Prometheus metrics for listing API operations.
var (
	listingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_requests_total",
		Help: "Total listing API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	listingRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "listing_request_duration_seconds",
		Help:    "Listing API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	listingErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_errors_total",
		Help: "Total listing API errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of transport errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Workplace is a workplace record as served by the listing API.
type Workplace struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status int    `json:"status"`
}

// Shift is a shift record as served by the listing API.
type Shift struct {
	ID          int64      `json:"id"`
	WorkplaceID int64      `json:"workplaceId"`
	WorkerID    *int64     `json:"workerId"`
	CancelledAt *time.Time `json:"cancelledAt"`
}

// envelope is the wire shape shared by every listing response: records under
// "data", continuation signalled by the presence of "links.next".
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Links links           `json:"links"`
}

type links struct {
	Next *string `json:"next"`
}

// Config holds the listing client configuration.
type Config struct {
	// BaseURL is the listing API root, e.g. "http://localhost:3000"
	BaseURL string

	// PageSize is the fixed limit sent with every page request
	PageSize int

	// Timeout per HTTP request
	Timeout time.Duration

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration

	// UserAgent header sent with every request
	UserAgent string
}

// DefaultConfig returns a safe default configuration for the given API root.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		PageSize:       pagination.DefaultPageSize,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		UserAgent:      "shiftpulse/0.1.0",
	}
}

// Client is the listing API client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new listing client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive (got %d)", cfg.PageSize)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 1 * time.Second
	}

	logger := log.With().Str("component", "listing-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// PageSize returns the page size this client sends with every request.
func (c *Client) PageSize() int {
	return c.config.PageSize
}

// WorkplacePage fetches one page of the flat workplaces listing.
// Satisfies pagination.FetchFunc[Workplace].
func (c *Client) WorkplacePage(ctx context.Context, page, limit int) (pagination.Page[Workplace], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	env, err := c.getPage(ctx, "/workplaces", query)
	if err != nil {
		return pagination.Page[Workplace]{}, err
	}

	var items []Workplace
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return pagination.Page[Workplace]{}, fmt.Errorf("decode workplaces page %d: %w", page, err)
		}
	}

	return pagination.Page[Workplace]{Items: items, HasNext: env.Links.Next != nil}, nil
}

// ShiftPage fetches one page of one shard of the sharded shifts listing.
// Satisfies pagination.ShardFetchFunc[Shift].
func (c *Client) ShiftPage(ctx context.Context, shard, page, limit int) (pagination.Page[Shift], error) {
	query := url.Values{}
	query.Set("shard", strconv.Itoa(shard))
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	env, err := c.getPage(ctx, "/shifts", query)
	if err != nil {
		return pagination.Page[Shift]{}, err
	}

	var items []Shift
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return pagination.Page[Shift]{}, fmt.Errorf("decode shifts shard %d page %d: %w", shard, page, err)
		}
	}

	return pagination.Page[Shift]{Items: items, HasNext: env.Links.Next != nil}, nil
}

// getPage performs a GET against one listing endpoint and decodes the page
// envelope. Server and network class failures are retried with backoff;
// client class failures and malformed bodies are surfaced immediately.
func (c *Client) getPage(ctx context.Context, endpoint string, query url.Values) (envelope, error) {
	startTime := time.Now()
	defer func() {
		listingRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	reqURL := strings.TrimRight(c.config.BaseURL, "/") + endpoint + "?" + query.Encode()

	var env envelope
	err := c.withRetry(ctx, func() (ErrorClass, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.config.UserAgent)

		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("query", query.Encode()).
			Msg("Executing listing request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
			listingErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			listingRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return ErrorClassNetwork, &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}
		defer resp.Body.Close()

		listingRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			class := classifyStatus(resp.StatusCode)
			listingErrorsTotal.WithLabelValues(string(class)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("Listing request error")

			return class, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: class,
				Message:    resp.Status,
			}
		}

		env = envelope{}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			// Malformed body: retrying will not help.
			return "", fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		return "", nil
	})
	if err != nil {
		return envelope{}, err
	}

	return env, nil
}

// classifyStatus categorizes an HTTP status code for observability and retry.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
