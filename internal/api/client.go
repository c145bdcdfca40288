package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/mirage/artesanato/internal/form"
	"github.com/mirage/artesanato/internal/logging"
	"github.com/mirage/artesanato/internal/version"
)

const (
	// DefaultBaseURL is where the marketplace backend listens in development
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a response body is read
	maxBodySize = 4 << 20
)

// Client talks to the marketplace REST backend. Every call returns the
// backend's {status, data} pair; only transport, parse and payload
// validation problems are reported as errors.
type Client struct {
	// BaseURL is the backend root, e.g. "http://localhost:3000"
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Limiter throttles outgoing requests when set
	Limiter *rate.Limiter

	validate *validator.Validate
}

// NewClient creates a client for baseURL. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		validate:   newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// Payload emails follow the same shape rule as the forms that build them.
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return form.IsEmail(fl.Field().String())
	})
	return v
}

// WithBaseURL returns a copy of the client aimed at baseURL. The copy shares
// the HTTP client, limiter and validator; c itself is left untouched, so
// requests already running against it are unaffected.
func (c *Client) WithBaseURL(baseURL string) *Client {
	clone := *c
	clone.BaseURL = strings.TrimRight(baseURL, "/")
	return &clone
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRateLimit limits the client to rps requests per second. A non-positive
// rps removes the limit.
func (c *Client) SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		c.Limiter = nil
		return
	}
	if burst <= 0 {
		burst = max(1, int(rps))
	}
	c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// Login posts credentials to /auth/login. Success is status 200 with a
// LoginResult body.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Response, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/auth/login", req)
}

// Register posts a new artisan account to /auth/register. Success is
// status 201 with a RegisterResult body.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Response, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/auth/register", req)
}

// CreateProduct posts a product for the artisan identified by req.ArtesaoID.
// Success is status 201.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*Response, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, "/produtos/"+url.PathEscape(req.ArtesaoID.String()), req)
}

// ListProducts fetches every product in the marketplace.
func (c *Client) ListProducts(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/produtos", nil)
}

// ListArtisanProducts fetches the products owned by one artisan.
func (c *Client) ListArtisanProducts(ctx context.Context, artesaoID ID) (*Response, error) {
	if artesaoID == "" {
		return nil, NewValidationError("artesaoId is required", nil)
	}
	return c.do(ctx, http.MethodGet, "/produtos/"+url.PathEscape(artesaoID.String()), nil)
}

// DecodeProducts decodes a listing response body.
func DecodeProducts(resp *Response) ([]Product, error) {
	var products []Product
	if err := resp.Decode(&products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) check(payload any) error {
	if err := c.validate.Struct(payload); err != nil {
		return NewValidationError(formatValidationErrors(err), err)
	}
	return nil
}

func formatValidationErrors(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", e.Field(), e.Tag()))
	}
	return strings.Join(parts, ", ")
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	endpoint := c.BaseURL + path

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, NewNetworkError("rate limiter wait failed", endpoint, err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, NewValidationError("failed to encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, NewNetworkError("failed to create request", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.LogRequest(method, endpoint)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("backend unreachable", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError("failed to read response", endpoint, err)
	}
	logging.LogResponse(method, endpoint, resp.StatusCode, time.Since(start))

	out := &Response{Status: resp.StatusCode}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
		if !json.Valid(trimmed) {
			return nil, NewParseError("response is not JSON", resp.StatusCode, nil)
		}
		out.Data = json.RawMessage(trimmed)
	}
	return out, nil
}
