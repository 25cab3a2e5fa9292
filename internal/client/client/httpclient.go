package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

const (
	DefaultTimeout        = 30 * time.Second
	DefaultCSRFRetryDelay = time.Second
)

// Options tunes an HTTPClient. Zero values select the defaults.
type Options struct {
	Timeout        time.Duration
	CSRFRetryDelay time.Duration
	Logger         logging.Logger
	// Transport overrides the underlying round tripper (tests, proxies).
	Transport http.RoundTripper
}

// HTTPClient talks JSON to the notes backend over a cookie-backed session.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	timeout        time.Duration
	csrfRetryDelay time.Duration
	logger         logging.Logger
	retry          retryPolicy

	mu        sync.Mutex
	csrfToken string
}

// NewHTTPClient builds a client for the backend rooted at baseURL.
func NewHTTPClient(baseURL string, opts Options) (*HTTPClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &HTTPClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Jar: jar, Transport: opts.Transport},
		timeout:        opts.Timeout,
		csrfRetryDelay: opts.CSRFRetryDelay,
		logger:         opts.Logger,
		retry:          retryPolicy{max: 1},
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.csrfRetryDelay <= 0 {
		c.csrfRetryDelay = DefaultCSRFRetryDelay
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c, nil
}

// Init obtains the anti-forgery token. A failed fetch is retried once after
// the configured delay; if that also fails, the client keeps working without
// a token and the error is returned for the caller to log.
func (c *HTTPClient) Init(ctx context.Context) error {
	err := c.fetchCSRFToken(ctx)
	if err == nil {
		return nil
	}
	c.logger.Warn(ctx, "csrf token fetch failed, retrying", "error", err, "delay", c.csrfRetryDelay)

	select {
	case <-time.After(c.csrfRetryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return c.fetchCSRFToken(ctx)
}

// CSRFToken returns the token currently attached to mutating requests.
func (c *HTTPClient) CSRFToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrfToken
}

func (c *HTTPClient) fetchCSRFToken(ctx context.Context) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.send(ctx, http.MethodGet, "/api/csrf", nil, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("fetch csrf token: %w", common.ErrInvalidToken)
	}

	c.mu.Lock()
	c.csrfToken = resp.Token
	c.mu.Unlock()
	return nil
}

// retryPolicy bounds how often a request is replayed after the backend
// rejected its anti-forgery token.
type retryPolicy struct {
	max int
}

func (p retryPolicy) run(ctx context.Context, attempt func(context.Context) error, refresh func(context.Context) error, onRetry func(context.Context, int)) error {
	err := attempt(ctx)
	for n := 1; n <= p.max && isCSRFRejection(err); n++ {
		onRetry(ctx, n)
		if rerr := refresh(ctx); rerr != nil {
			return err
		}
		err = attempt(ctx)
	}
	return err
}

// isCSRFRejection reports a 403 whose body names the CSRF token.
func isCSRFRejection(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		return false
	}
	return strings.Contains(strings.ToLower(backendMessage(apiErr.Data)), "csrf token")
}

// request encodes body once so a replay sends identical bytes.
func (c *HTTPClient) request(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil && method != http.MethodGet {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = b
	}

	return c.retry.run(ctx,
		func(ctx context.Context) error { return c.send(ctx, method, path, payload, out) },
		c.fetchCSRFToken,
		func(ctx context.Context, n int) {
			c.logger.Warn(ctx, "csrf token rejected, refreshing", "method", method, "path", path, "attempt", n)
		},
	)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.CSRFToken(); token != "" && isMutating(method) {
		req.Header.Set(common.CSRFHeaderName, token)
	}

	c.logger.Debug(ctx, "api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(ctx, err)
	}

	c.logger.Debug(ctx, "api response", "method", method, "path", path, "status", resp.StatusCode)

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var data map[string]any
		if isJSON && len(bytes.TrimSpace(raw)) > 0 {
			_ = json.Unmarshal(raw, &data)
		}
		return classifyStatus(resp.StatusCode, data)
	}

	if out == nil || !isJSON || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return transportError(ErrConnection, msgConnection, fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// classifyTransport turns a failure without an HTTP response into a status-0
// APIError: timeout, offline, or a generic connection error.
func classifyTransport(ctx context.Context, err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return transportError(ErrTimeout, msgTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return transportError(ErrTimeout, msgTimeout, err)
	}
	if isOffline(err) {
		return transportError(ErrOffline, msgOffline, err)
	}
	return transportError(ErrConnection, msgConnection, err)
}

func isOffline(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
