// Package client is the typed HTTP client of the campaign site content API.
//
// A Client is built once with New, shared by every caller and released with
// Close. List and detail reads go through a tag-invalidated query cache:
// mutations invalidate exactly the cached queries they can affect, so the next
// read after a successful mutation always reaches the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/rs/zerolog"
)

// ErrClosed is returned by every call made after Close.
var ErrClosed = errors.New("client is closed")

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = time.Minute
	maxErrorBody    = 64 << 10
)

// Config is validated by New. BaseURL includes the API prefix,
// e.g. "https://example.org/api/v1".
type Config struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// Timeout bounds a single request; zero means 10s.
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
	// CacheTTL bounds how long an untouched query is served without a request; zero means 1m.
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"min=0"`
}

// TokenSource yields the session bearer token; "" means no session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, typically an admin credential from config.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithClock overrides time.Now for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client talks to the content API. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenSource
	timeout time.Duration
	now     func() time.Time
	cache   *queryCache
	log     zerolog.Logger
	closed  atomic.Bool

	photos  *Resource[model.Photo]
	videos  *Resource[model.Video]
	press   *Resource[model.PressArticle]
	visitor *VisitorAPI
	contact *ContactAPI
}

// New validates cfg and builds a ready client.
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("client config validation error: %w", err)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	c := &Client{
		base:    base,
		http:    &http.Client{},
		timeout: cfg.Timeout,
		now:     time.Now,
		log:     logger.With().Str("module", "client").Str("base_url", base.String()).Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = newQueryCache(cfg.CacheTTL, c.now)

	c.photos = newResource(c, model.KindPhotos, func(p model.Photo) string { return p.ID })
	c.videos = newResource(c, model.KindVideos, func(v model.Video) string { return v.ID })
	c.press = newResource(c, model.KindPress, func(a model.PressArticle) string { return a.ID })
	c.visitor = &VisitorAPI{c: c}
	c.contact = &ContactAPI{c: c}
	return c, nil
}

func (c *Client) Photos() *Resource[model.Photo]       { return c.photos }
func (c *Client) Videos() *Resource[model.Video]       { return c.videos }
func (c *Client) Press() *Resource[model.PressArticle] { return c.press }
func (c *Client) Visitor() *VisitorAPI                 { return c.visitor }
func (c *Client) Contact() *ContactAPI                 { return c.contact }

// Close drops the cache and idle connections. Later calls return ErrClosed.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.cache.clear()
	c.http.CloseIdleConnections()
	c.log.Debug().Msg("client closed")
	return nil
}

// envelope is the wire shape of every API response.
type envelope struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Error       string          `json:"error"`
	Message     string          `json:"message"`
	FieldErrors []FieldError    `json:"field_errors"`
}

// do performs one request. path is relative to the base URL and may carry a
// query string. Every failure comes back as *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		cerr := ClassifyError(Failure{Err: err})
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Str("kind", cerr.Kind.String()).Msg("request failed")
		return cerr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody(resp)))
	if err != nil {
		return ClassifyError(Failure{Err: err, Status: resp.StatusCode})
	}
	if ctx.Err() != nil {
		// caller gave up while the body was in flight
		return ClassifyError(Failure{Err: ctx.Err()})
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request completed")

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return ClassifyError(Failure{Err: fmt.Errorf("decode response: %w", err), Status: resp.StatusCode})
		}
	}
	if resp.StatusCode >= 300 {
		return ClassifyError(Failure{
			Status:        resp.StatusCode,
			ServerCode:    env.Error,
			ServerMessage: env.Message,
			FieldErrors:   env.FieldErrors,
		})
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return ClassifyError(Failure{Err: fmt.Errorf("decode data: %w", err), Status: resp.StatusCode})
	}
	return nil
}

func maxBody(resp *http.Response) int64 {
	if resp.StatusCode >= 300 {
		return maxErrorBody
	}
	return 32 << 20
}

// authorize adds the bearer header when a session token exists.
// Public endpoints work without one, so a missing token is not an error.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		c.log.Debug().Str("path", req.URL.Path).Msg("no token source; sending request without credentials")
		return
	}
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("token source failed; sending request without credentials")
		return
	}
	if tok == "" {
		c.log.Debug().Str("path", req.URL.Path).Msg("no session token; sending request without credentials")
		return
	}
	req.Header.Set("Authorization", "Bearer "+tok)
}
