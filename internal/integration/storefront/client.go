package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.bigcommerce.com"

	// The storefront allows 150 requests per rolling 30 second window.
	rateWindow   = 30 * time.Second
	rateRequests = 150

	maxTries         = 3
	initialBackoff   = 1 * time.Second
	maxBackoff       = 10 * time.Second
	serverErrorDelay = 2 * time.Second

	// Extra wait added on top of the reset hint from a 429.
	rateLimitBuffer = 100 * time.Millisecond

	headerRateLimitReset = "X-Rate-Limit-Time-Reset-Ms"
)

// Config holds the connection settings for one storefront.
type Config struct {
	BaseURL     string
	StoreHash   string
	AccessToken string
}

// Client is a storefront catalog API client. One client per credential
// set; the rate limiter is shared by everything using the client so
// concurrent workers stay inside the request window together.
type Client struct {
	httpClient *http.Client
	baseURL    string
	storeHash  string
	token      string
	limiter    *rate.Limiter
	logger     *zap.Logger

	// Retry knobs live on the client so tests can shrink the delays.
	maxTries         uint
	initialBackoff   time.Duration
	maxBackoff       time.Duration
	serverErrorDelay time.Duration
}

// NewClient creates a storefront client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:       &http.Client{Timeout: 60 * time.Second},
		baseURL:          strings.TrimRight(baseURL, "/"),
		storeHash:        cfg.StoreHash,
		token:            cfg.AccessToken,
		limiter:          rate.NewLimiter(rate.Every(rateWindow/rateRequests), 1),
		logger:           logger.Named("storefront"),
		maxTries:         maxTries,
		initialBackoff:   initialBackoff,
		maxBackoff:       maxBackoff,
		serverErrorDelay: serverErrorDelay,
	}
}

// do runs one request with rate limiting and retry. 5xx responses and
// transport failures retry with exponential backoff, a 429 waits for
// the reset hint in the response, and any other 4xx fails immediately.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	operation := func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		var reqBody io.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, backoff.Permanent(fmt.Errorf("storefront: encode request: %w", err))
			}
			reqBody = bytes.NewReader(encoded)
		}

		endpoint := fmt.Sprintf("%s/stores/%s/v3%s", c.baseURL, c.storeHash, path)
		if len(query) > 0 {
			endpoint += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("X-Auth-Token", c.token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("request failed, will retry",
				zap.String("method", method),
				zap.String("path", path),
				zap.Error(err),
			)
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return respBody, nil

		case resp.StatusCode == http.StatusUnauthorized:
			return nil, backoff.Permanent(ErrInvalidCredentials)

		case resp.StatusCode == http.StatusNotFound:
			return nil, backoff.Permanent(ErrNotFound)

		case resp.StatusCode == http.StatusTooManyRequests:
			wait := rateLimitBuffer
			if ms, err := strconv.Atoi(resp.Header.Get(headerRateLimitReset)); err == nil {
				wait += time.Duration(ms) * time.Millisecond
			}
			c.logger.Warn("rate limited, honoring reset window",
				zap.String("path", path),
				zap.Duration("wait", wait),
			)
			return nil, &backoff.RetryAfterError{Duration: wait}

		case resp.StatusCode >= 500:
			c.logger.Warn("server error, will retry",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
			)
			// Give the remote side breathing room beyond the normal
			// backoff step.
			time.Sleep(c.serverErrorDelay)
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}

		default:
			return nil, backoff.Permanent(&APIError{StatusCode: resp.StatusCode, Body: string(respBody)})
		}
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.initialBackoff
	expo.MaxInterval = c.maxBackoff

	respBody, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		return err
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("storefront: decode response: %w", err)
		}
	}
	return nil
}

// CreateProduct creates a product with its full payload in one call.
func (c *Client) CreateProduct(ctx context.Context, product Product) (Product, error) {
	var env productEnvelope
	if err := c.do(ctx, http.MethodPost, "/catalog/products", nil, product, &env); err != nil {
		return Product{}, err
	}
	return env.Data, nil
}

// UpdateProduct updates the core fields of an existing product.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, product Product) (Product, error) {
	var env productEnvelope
	path := fmt.Sprintf("/catalog/products/%d", productID)
	if err := c.do(ctx, http.MethodPut, path, nil, product, &env); err != nil {
		return Product{}, err
	}
	return env.Data, nil
}

// GetProduct fetches one product including images and custom fields.
func (c *Client) GetProduct(ctx context.Context, productID int64) (Product, error) {
	var env productEnvelope
	path := fmt.Sprintf("/catalog/products/%d", productID)
	query := url.Values{"include": []string{"images,custom_fields"}}
	if err := c.do(ctx, http.MethodGet, path, query, nil, &env); err != nil {
		return Product{}, err
	}
	return env.Data, nil
}

// ListProducts fetches one page of products. The second return value
// carries pagination metadata.
func (c *Client) ListProducts(ctx context.Context, page, limit int) ([]Product, Meta, error) {
	var env productListEnvelope
	query := url.Values{
		"page":    []string{strconv.Itoa(page)},
		"limit":   []string{strconv.Itoa(limit)},
		"include": []string{"images,custom_fields"},
	}
	if err := c.do(ctx, http.MethodGet, "/catalog/products", query, nil, &env); err != nil {
		return nil, Meta{}, err
	}
	return env.Data, env.Meta, nil
}

// DeleteProducts removes products in bulk by id.
func (c *Client) DeleteProducts(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{"id:in": []string{strings.Join(ids, ",")}}
	return c.do(ctx, http.MethodDelete, "/catalog/products", query, nil, nil)
}

// CreateProductImage attaches an image to a product.
func (c *Client) CreateProductImage(ctx context.Context, productID int64, image ProductImage) (ProductImage, error) {
	var env imageEnvelope
	path := fmt.Sprintf("/catalog/products/%d/images", productID)
	if err := c.do(ctx, http.MethodPost, path, nil, image, &env); err != nil {
		return ProductImage{}, err
	}
	return env.Data, nil
}

// DeleteProductImage removes an image from a product.
func (c *Client) DeleteProductImage(ctx context.Context, productID, imageID int64) error {
	path := fmt.Sprintf("/catalog/products/%d/images/%d", productID, imageID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// CreateCustomField attaches a custom field to a product.
func (c *Client) CreateCustomField(ctx context.Context, productID int64, field CustomField) (CustomField, error) {
	var env customFieldEnvelope
	path := fmt.Sprintf("/catalog/products/%d/custom-fields", productID)
	if err := c.do(ctx, http.MethodPost, path, nil, field, &env); err != nil {
		return CustomField{}, err
	}
	return env.Data, nil
}

// UpdateCustomField rewrites an existing custom field in place.
func (c *Client) UpdateCustomField(ctx context.Context, productID int64, field CustomField) (CustomField, error) {
	var env customFieldEnvelope
	path := fmt.Sprintf("/catalog/products/%d/custom-fields/%d", productID, field.ID)
	if err := c.do(ctx, http.MethodPut, path, nil, field, &env); err != nil {
		return CustomField{}, err
	}
	return env.Data, nil
}

// DeleteCustomField removes a custom field from a product.
func (c *Client) DeleteCustomField(ctx context.Context, productID, fieldID int64) error {
	path := fmt.Sprintf("/catalog/products/%d/custom-fields/%d", productID, fieldID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// CreateCategory creates a category tree node.
func (c *Client) CreateCategory(ctx context.Context, category Category) (Category, error) {
	var env categoryEnvelope
	if err := c.do(ctx, http.MethodPost, "/catalog/categories", nil, category, &env); err != nil {
		return Category{}, err
	}
	return env.Data, nil
}

// ListCategories fetches one page of categories.
func (c *Client) ListCategories(ctx context.Context, page, limit int) ([]Category, Meta, error) {
	var env categoryListEnvelope
	query := url.Values{
		"page":  []string{strconv.Itoa(page)},
		"limit": []string{strconv.Itoa(limit)},
	}
	if err := c.do(ctx, http.MethodGet, "/catalog/categories", query, nil, &env); err != nil {
		return nil, Meta{}, err
	}
	return env.Data, env.Meta, nil
}

// CreateBrand creates a brand.
func (c *Client) CreateBrand(ctx context.Context, brand Brand) (Brand, error) {
	var env brandEnvelope
	if err := c.do(ctx, http.MethodPost, "/catalog/brands", nil, brand, &env); err != nil {
		return Brand{}, err
	}
	return env.Data, nil
}

// ListBrands fetches one page of brands.
func (c *Client) ListBrands(ctx context.Context, page, limit int) ([]Brand, Meta, error) {
	var env brandListEnvelope
	query := url.Values{
		"page":  []string{strconv.Itoa(page)},
		"limit": []string{strconv.Itoa(limit)},
	}
	if err := c.do(ctx, http.MethodGet, "/catalog/brands", query, nil, &env); err != nil {
		return nil, Meta{}, err
	}
	return env.Data, env.Meta, nil
}
