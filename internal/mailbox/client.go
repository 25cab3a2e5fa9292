package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

const (
	DefaultWaitTimeout  = 30 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

var ErrTimeout = errors.New("timed out waiting for email")

type Options struct {
	WaitTimeout  time.Duration
	PollInterval time.Duration
	HTTPClient   *http.Client
	Logger       logging.Logger
}

// Client talks to the Mailpit REST API rooted at baseURL.
type Client struct {
	baseURL      string
	http         *http.Client
	waitTimeout  time.Duration
	pollInterval time.Duration
	logger       logging.Logger
}

func New(baseURL string, opts Options) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         opts.HTTPClient,
		waitTimeout:  opts.WaitTimeout,
		pollInterval: opts.PollInterval,
		logger:       opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	if c.waitTimeout <= 0 {
		c.waitTimeout = DefaultWaitTimeout
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// List returns the summaries of all stored messages.
func (c *Client) List(ctx context.Context) ([]Summary, error) {
	var l List
	if err := c.do(ctx, http.MethodGet, "/api/v1/messages", &l); err != nil {
		return nil, err
	}
	return l.Messages, nil
}

// Get returns a full message by id.
func (c *Client) Get(ctx context.Context, id string) (*Message, error) {
	var m Message
	if err := c.do(ctx, http.MethodGet, "/api/v1/message/"+url.PathEscape(id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Clear deletes every stored message.
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/messages", nil)
}

// WaitFor polls until a message matching f arrives and returns the latest
// such message. Listing failures are logged and retried until the wait
// timeout elapses.
func (c *Client) WaitFor(ctx context.Context, f Filter) (*Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.waitTimeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w (to=%q subject=%q)", ErrTimeout, f.To, f.Subject)
		}

		list, err := c.List(ctx)
		if err != nil {
			c.logger.Debug(ctx, "mailbox list failed", "error", err)
			continue
		}
		s, ok := Latest(list, f)
		if !ok {
			continue
		}

		m, err := c.Get(ctx, s.ID)
		if err != nil {
			c.logger.Debug(ctx, "mailbox get failed", "id", s.ID, "error", err)
			continue
		}
		return m, nil
	}
}
