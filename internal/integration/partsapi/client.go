package partsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrInvalidCredentials means the client credentials were rejected
	// even after a fresh token exchange.
	ErrInvalidCredentials = errors.New("partsapi: invalid credentials")
)

// APIError is a non-2xx response that is not retried.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("partsapi: api error: status=%d body=%s", e.StatusCode, e.Body)
}

const (
	// Tokens are refreshed this long before their reported expiry so a
	// request never goes out with a token about to lapse mid-flight.
	tokenExpiryBuffer = 60 * time.Second

	maxTries       = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 10 * time.Second

	defaultPageLimit = 100
)

// Config holds the connection settings for the distributor API.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// Client is a parts distributor API client with a cached bearer token.
// A 401 clears the cache and the request is retried once with a fresh
// token; a second 401 surfaces ErrInvalidCredentials.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	limiter      *rate.Limiter
	logger       *zap.Logger

	// Retry knobs live on the client so tests can shrink the delays.
	maxTries       uint
	initialBackoff time.Duration
	maxBackoff     time.Duration

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a distributor API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		clientID:       cfg.ClientID,
		clientSecret:   cfg.ClientSecret,
		limiter:        rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		logger:         logger.Named("partsapi"),
		maxTries:       maxTries,
		initialBackoff: initialBackoff,
		maxBackoff:     maxBackoff,
	}
}

// getToken returns the cached token or exchanges client credentials
// for a new one.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	payload, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/token", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("partsapi: token exchange: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("token exchange rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return "", ErrInvalidCredentials
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("partsapi: decode token: %w", err)
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpiryBuffer)
	c.logger.Debug("token refreshed", zap.Time("expires", c.tokenExpiry))
	return c.token, nil
}

// clearToken drops the cached token after a 401.
func (c *Client) clearToken() {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

// get runs one authorized GET with rate limiting, retry, and the
// single re-auth pass on 401.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reauthed := false

	operation := func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		token, err := c.getToken(ctx)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		endpoint := c.baseURL + path
		if len(query) > 0 {
			endpoint += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("request failed, will retry", zap.String("path", path), zap.Error(err))
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized:
			if reauthed {
				return nil, backoff.Permanent(ErrInvalidCredentials)
			}
			reauthed = true
			c.clearToken()
			c.logger.Warn("token rejected, re-authenticating once", zap.String("path", path))
			return nil, errors.New("partsapi: stale token")

		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := time.Second
			if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				retryAfter = time.Duration(s) * time.Second
			}
			return nil, &backoff.RetryAfterError{Duration: retryAfter}

		case resp.StatusCode >= 500:
			c.logger.Warn("server error, will retry", zap.String("path", path), zap.Int("status", resp.StatusCode))
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}

		default:
			return nil, backoff.Permanent(&APIError{StatusCode: resp.StatusCode, Body: string(body)})
		}
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.initialBackoff
	expo.MaxInterval = c.maxBackoff

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("partsapi: decode response: %w", err)
		}
	}
	return nil
}

// getPage fetches one page of a paginated listing and reports the next
// page, zero when the listing is exhausted.
func getPage[T any](ctx context.Context, c *Client, path string, page int, extra url.Values) ([]T, int, error) {
	query := url.Values{"page": []string{strconv.Itoa(page)}}
	for k, vs := range extra {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	var env listEnvelope[T]
	if err := c.get(ctx, path, query, &env); err != nil {
		return nil, 0, err
	}

	next := page + 1
	if page >= env.Meta.TotalPages {
		next = 0
	}
	return env.Data, next, nil
}

// GetItems fetches one page of items for a distributor brand id.
func (c *Client) GetItems(ctx context.Context, brandID string, page int) ([]Item, int, error) {
	return getPage[Item](ctx, c, "/v1/items/brand/"+brandID, page, nil)
}

// GetItemData fetches one page of media and description payloads for a
// distributor brand id.
func (c *Client) GetItemData(ctx context.Context, brandID string, page int) ([]ItemData, int, error) {
	return getPage[ItemData](ctx, c, "/v1/items/data/brand/"+brandID, page, nil)
}

// GetPricing fetches one page of pricelists for a distributor brand id.
func (c *Client) GetPricing(ctx context.Context, brandID string, page int) ([]Pricing, int, error) {
	return getPage[Pricing](ctx, c, "/v1/pricing/brand/"+brandID, page, nil)
}

// GetInventory fetches one page of stock levels for a distributor
// brand id.
func (c *Client) GetInventory(ctx context.Context, brandID string, page int) ([]Inventory, int, error) {
	return getPage[Inventory](ctx, c, "/v1/inventory/brand/"+brandID, page, nil)
}

// GetBrands fetches the distributor's brand directory.
func (c *Client) GetBrands(ctx context.Context) ([]Brand, error) {
	var env listEnvelope[Brand]
	if err := c.get(ctx, "/v1/brands", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetItemUpdates fetches one page of items changed in the trailing
// window.
func (c *Client) GetItemUpdates(ctx context.Context, minutes, page int) ([]Item, int, error) {
	extra := url.Values{"minutes": []string{strconv.Itoa(minutes)}}
	return getPage[Item](ctx, c, "/v1/items/updates", page, extra)
}

// GetInventoryUpdates fetches one page of inventory rows changed in
// the trailing window.
func (c *Client) GetInventoryUpdates(ctx context.Context, minutes, page int) ([]Inventory, int, error) {
	extra := url.Values{"minutes": []string{strconv.Itoa(minutes)}}
	return getPage[Inventory](ctx, c, "/v1/inventory/updates", page, extra)
}
