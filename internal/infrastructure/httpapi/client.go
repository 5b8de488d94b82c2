package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"freightdesk/internal/bootstrap/config"
	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
)

const requestIDHeader = "X-Request-ID"

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  float64
	RateBurst  int
	UserAgent  string
}

func OptionsFromConfig(cfg config.APIConfig) Options {
	return Options{
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RateLimit:  cfg.RateLimit,
		RateBurst:  cfg.RateBurst,
		UserAgent:  cfg.UserAgent,
	}
}

// Client talks to the freight backend. It implements every gateway port.
type Client struct {
	baseURL    *url.URL
	public     *http.Client
	authed     *http.Client
	creds      ports.Credentials
	limiter    *rate.Limiter
	maxRetries int
	userAgent  string
	newBackOff func() backoff.BackOff
}

var (
	_ ports.ShipmentGateway     = (*Client)(nil)
	_ ports.ComplianceGateway   = (*Client)(nil)
	_ ports.NotificationGateway = (*Client)(nil)
	_ ports.UserGateway         = (*Client)(nil)
	_ ports.ReportGateway       = (*Client)(nil)
	_ ports.BillingGateway      = (*Client)(nil)
	_ ports.InventoryGateway    = (*Client)(nil)
	_ ports.AuthGateway         = (*Client)(nil)
)

func NewClient(opts Options, creds ports.Credentials) (*Client, error) {
	if creds == nil {
		return nil, errors.New("credentials are required")
	}
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}

	transport := http.DefaultTransport
	return &Client{
		baseURL: base,
		public:  &http.Client{Timeout: timeout, Transport: transport},
		authed: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: sessionTokenSource{creds: creds},
				Base:   transport,
			},
		},
		creds:      creds,
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: max(opts.MaxRetries, 0),
		userAgent:  opts.UserAgent,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}, nil
}

// sessionTokenSource hands the stored bearer token to oauth2.Transport.
type sessionTokenSource struct {
	creds ports.Credentials
}

func (s sessionTokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := s.creds.AccessToken(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	rawBody     []byte
	contentType string
	public      bool
}

func get(path string) request {
	return request{method: http.MethodGet, path: path}
}

func (r request) withQuery(params any) (request, error) {
	values, err := query.Values(params)
	if err != nil {
		return r, errs.Wrap(err, "encode query")
	}
	if r.query == nil {
		r.query = url.Values{}
	}
	for key, list := range values {
		r.query[key] = list
	}
	return r, nil
}

func (r request) withParam(key string, value string) request {
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Set(key, value)
	return r
}

// send executes r and returns the response body. GETs are retried with
// exponential backoff on transport and gateway failures; mutations are not.
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	payload := r.rawBody
	if r.body != nil {
		encoded, err := json.Marshal(r.body)
		if err != nil {
			return nil, errs.Wrap(err, "encode request body")
		}
		payload = encoded
		if r.contentType == "" {
			r.contentType = "application/json"
		}
	}

	tries := uint(1)
	if r.method == http.MethodGet {
		tries += uint(c.maxRetries)
	}

	attempt := func() ([]byte, error) {
		body, err := c.roundTrip(ctx, r, payload)
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}

	return backoff.Retry(ctx, attempt, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(tries))
}

func (c *Client) roundTrip(ctx context.Context, r request, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.Wrap(err, "wait for rate limiter")
	}

	endpoint := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		endpoint.RawQuery = r.query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, endpoint.String(), reader)
	if err != nil {
		return nil, errs.Wrap(err, "build request")
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	logCtx := logging.WithAttrs(
		logging.WithComponent(ctx, "httpapi"),
		slog.String("method", r.method),
		slog.String("path", r.path),
		slog.String("request_id", requestID),
	)

	httpClient := c.authed
	if r.public {
		httpClient = c.public
	}

	started := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, ports.ErrNotAuthenticated) {
			return nil, ports.ErrNotAuthenticated
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logging.Debug(logCtx, "request failed", slog.Any("err", errs.Loggable(err)))
		return nil, fmt.Errorf("%w: %s %s: %w", ports.ErrTransport, r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %w", ports.ErrTransport, r.method, r.path, err)
	}

	logging.Debug(
		logCtx,
		"request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		if echoed := resp.Header.Get(requestIDHeader); echoed != "" {
			requestID = echoed
		}
		apiErr := newAPIError(r.method, r.path, resp.StatusCode, requestID, body)
		if resp.StatusCode == http.StatusUnauthorized && !r.public {
			if err := c.creds.Invalidate(ctx); err != nil {
				logging.Warn(logCtx, "invalidate session after 401 failed", slog.Any("err", errs.Loggable(err)))
			}
		}
		return nil, apiErr
	}

	return body, nil
}

func retryable(err error) bool {
	if errors.Is(err, ports.ErrTransport) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatus() {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

func fetch[T any](ctx context.Context, c *Client, r request) (T, error) {
	var out T
	body, err := c.send(ctx, r)
	if err != nil {
		return out, err
	}
	if err := decode(r, body, &out); err != nil {
		return out, err
	}
	return out, nil
}

// fetchList accepts either a bare array or an {"items": [...], "total": n}
// envelope. total falls back to the number of items.
func fetchList[T any](ctx context.Context, c *Client, r request) ([]T, int, error) {
	body, err := c.send(ctx, r)
	if err != nil {
		return nil, 0, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, 0, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := decode(r, trimmed, &items); err != nil {
			return nil, 0, err
		}
		return items, len(items), nil
	}

	var envelope struct {
		Items []T  `json:"items"`
		Total *int `json:"total"`
	}
	if err := decode(r, trimmed, &envelope); err != nil {
		return nil, 0, err
	}
	if envelope.Items == nil {
		envelope.Items = []T{}
	}
	total := len(envelope.Items)
	if envelope.Total != nil {
		total = *envelope.Total
	}
	return envelope.Items, total, nil
}

func decode(r request, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: %s %s: empty body", ports.ErrMalformedResponse, r.method, r.path)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ports.ErrMalformedResponse, r.method, r.path, err)
	}
	return nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
