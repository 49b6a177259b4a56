// Package meionovel is the client for the MeioNovel reader API. Every call
// goes through a response cache and resolves to an Envelope; failures are
// reported in the envelope, never as a returned error.
package meionovel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/novelreader/cache"
)

const DefaultBaseURL = "https://www.sankavollerei.com/novel/meionovel"

type Client struct {
	http    *http.Client
	baseURL string
	cache   cache.Cache[Envelope]
	log     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
			c.baseURL = strings.TrimRight(u.String(), "/")
		}
	}
}

// WithCache replaces the default 5 minute memory cache
func WithCache(cc cache.Cache[Envelope]) Option {
	return func(c *Client) {
		if cc != nil {
			c.cache = cc
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewCache returns the response cache the client uses by default, with a
// separate TTL for failed envelopes
func NewCache(ttl, failureTTL time.Duration) *cache.Memory[Envelope] {
	return cache.NewMemory[Envelope](ttl,
		cache.WithFailureTTL[Envelope](failureTTL, IsFailure),
	)
}

func New(opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		baseURL: DefaultBaseURL,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.cache == nil {
		c.cache = NewCache(cache.DefaultTTL, cache.DefaultTTL)
	}
	return c
}

// BaseURL returns the API root requests are built from
func (c *Client) BaseURL() string { return c.baseURL }

// ClearCache drops every cached response
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// get resolves one logical request through the cache. The load is detached
// from ctx cancellation: a result that arrives after the caller gave up is
// still cached.
func (c *Client) get(ctx context.Context, p string, q map[string]string) Envelope {
	key := cache.KeyFor(c.baseURL, p, q)
	loadCtx := context.WithoutCancel(ctx)
	return c.cache.Get(key, func() Envelope {
		env, err := c.doJSON(loadCtx, key)
		if err != nil {
			c.log.Warn().Err(err).Str("url", key).Msg("api request failed")
			return failure(err)
		}
		return env
	})
}

func (c *Client) doJSON(ctx context.Context, u string) (Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Envelope{}, &NetworkError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("url", u).Msg("fetching")
	resp, err := c.http.Do(req)
	if err != nil {
		return Envelope{}, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, &NetworkError{URL: u, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Envelope{}, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
	}
	return parseEnvelope(body)
}

// parseEnvelope validates the success flag. Bodies that carry their payload
// at the top level rather than under "data" use the whole body as data.
func parseEnvelope(body []byte) (Envelope, error) {
	var raw struct {
		Success    *bool           `json:"success"`
		Data       json.RawMessage `json:"data"`
		Pagination *Pagination     `json:"pagination"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Envelope{}, &ContentError{Reason: "malformed response body", Err: err}
	}
	if raw.Success == nil || !*raw.Success {
		return Envelope{}, &ContentError{Reason: "API returned unsuccessful response"}
	}

	data := bytes.TrimSpace(raw.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = body
	}
	return Envelope{Success: true, Data: data, Pagination: raw.Pagination}, nil
}

func failure(err error) Envelope {
	return Envelope{Success: false, Error: err.Error(), Cause: err}
}

// IsFailure reports whether env is a failure envelope
func IsFailure(env Envelope) bool {
	return !env.Success
}

func decode[T any](env Envelope) Result[T] {
	if !env.Success {
		return Result[T]{Error: env.Error}
	}
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return Result[T]{Error: (&ContentError{Reason: "unexpected payload shape", Err: err}).Error()}
	}
	return Result[T]{Success: true, Data: &v, Pagination: env.Pagination}
}
