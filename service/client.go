package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"concertcloud-cli/filter"
	"concertcloud-cli/model"
)

const (
	DefaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "concertcloud-cli"
	errorSnippetN    = 8 << 10
)

// ErrInvalidEventID is returned for event ids below 1.
var ErrInvalidEventID = errors.New("event id must be positive")

// Client wraps HTTP access to the ConcertCloud API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "concertcloud api error"
	}
	if e.Body == "" {
		return fmt.Sprintf("concertcloud api error: %s", e.Status)
	}
	return fmt.Sprintf("concertcloud api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a new API client. If httpClient is nil, a client without
// a timeout is used; an empty baseURL means DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
		logger:     zap.NewNop(),
	}
}

// WithLogger returns c logging through logger.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListingsURL builds the listings endpoint for an event and query.
func (c *Client) ListingsURL(eventID int, query filter.Query) string {
	endpoint := fmt.Sprintf("%s/events/%d/listings", c.baseURL, eventID)
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}

// MapURL builds the venue map endpoint for an event.
func (c *Client) MapURL(eventID int) string {
	return fmt.Sprintf("%s/events/%d/map", c.baseURL, eventID)
}

// GetListings fetches the listings of an event that match query.
func (c *Client) GetListings(ctx context.Context, eventID int, query filter.Query) ([]model.Listing, error) {
	if eventID < 1 {
		return nil, ErrInvalidEventID
	}
	var listings []model.Listing
	if err := c.getJSON(ctx, c.ListingsURL(eventID, query), &listings); err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []model.Listing{}
	}
	return listings, nil
}

// GetVenueMap fetches the venue layout and recommendations of an event.
func (c *Client) GetVenueMap(ctx context.Context, eventID int) (model.VenueMap, error) {
	if eventID < 1 {
		return model.VenueMap{}, ErrInvalidEventID
	}
	var venueMap model.VenueMap
	if err := c.getJSON(ctx, c.MapURL(eventID), &venueMap); err != nil {
		return model.VenueMap{}, err
	}
	return venueMap, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	requestID := uuid.NewString()
	log := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", endpoint))
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorSnippetN))
		log.Warn("non-2xx response",
			zap.Int("status", res.StatusCode),
			zap.Duration("elapsed", time.Since(started)),
		)
		return &APIError{
			StatusCode: res.StatusCode,
			Status:     statusLine(res),
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	err = json.NewDecoder(res.Body).Decode(out)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("decode failed", zap.Error(err))
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	log.Debug("request done", zap.Int("status", res.StatusCode), zap.Duration("elapsed", time.Since(started)))
	return nil
}

// statusLine returns "<code> <reason>", filling in the standard reason when
// the server sent none.
func statusLine(res *http.Response) string {
	status := strings.TrimSpace(res.Status)
	code := fmt.Sprintf("%d", res.StatusCode)
	if status == "" || status == code {
		return strings.TrimSpace(code + " " + http.StatusText(res.StatusCode))
	}
	return status
}
