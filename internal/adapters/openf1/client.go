// Package openf1 is a read-only client for the OpenF1 REST API.
//
// Responses are cached in memory per request URL and concurrent identical
// requests share one upstream call.
package openf1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/paddock/internal/domain/model"
	"github.com/okian/paddock/pkg/logger"
	"github.com/okian/paddock/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Default client configuration constants.
const (
	DefaultBaseURL   = "https://api.openf1.org/v1"
	defaultTimeout   = 10 * time.Second
	defaultCacheTTL  = time.Hour
	defaultUserAgent = "paddock/1.0 (+https://github.com/okian/paddock)"
	maxBodyBytes     = 32 << 20
)

// Endpoint names, also used as metric labels.
const (
	EndpointSessions  = "sessions"
	EndpointDrivers   = "drivers"
	EndpointPositions = "position"
	EndpointMeetings  = "meetings"
)

type cacheEntry struct {
	body    []byte
	expires time.Time
}

// Client fetches OpenF1 resources.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	ttl       time.Duration
	userAgent string
	now       func() time.Time
	log       logger.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
	group singleflight.Group
}

// New creates a Client rooted at baseURL, e.g. "https://api.openf1.org/v1".
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		timeout:   defaultTimeout,
		ttl:       defaultCacheTTL,
		userAgent: defaultUserAgent,
		now:       time.Now,
		log:       logger.Nop(),
		cache:     make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sessions lists sessions matching q.
func (c *Client) Sessions(ctx context.Context, q model.SessionQuery) ([]model.Session, error) {
	params := url.Values{}
	if q.Year > 0 {
		params.Set("year", strconv.Itoa(q.Year))
	}
	if q.Name != "" {
		params.Set("session_name", q.Name)
	}
	var out []model.Session
	if err := c.getJSON(ctx, EndpointSessions, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Drivers lists the drivers entered in a session.
func (c *Client) Drivers(ctx context.Context, sessionKey int) ([]model.Driver, error) {
	params := url.Values{"session_key": {strconv.Itoa(sessionKey)}}
	var out []model.Driver
	if err := c.getJSON(ctx, EndpointDrivers, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Positions returns the position reports of a session. The payload shape is
// reported on the batch rather than as an error.
func (c *Client) Positions(ctx context.Context, sessionKey int) (model.PositionBatch, error) {
	params := url.Values{"session_key": {strconv.Itoa(sessionKey)}}
	body, err := c.get(ctx, EndpointPositions, params)
	if err != nil {
		return model.PositionBatch{}, err
	}
	return model.DecodePositionBatch(body), nil
}

// Meetings lists the meetings of a year.
func (c *Client) Meetings(ctx context.Context, year int) ([]model.Meeting, error) {
	params := url.Values{"year": {strconv.Itoa(year)}}
	var out []model.Meeting
	if err := c.getJSON(ctx, EndpointMeetings, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CacheSize returns the number of fresh cached responses.
func (c *Client) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.now()
	n := 0
	for _, e := range c.cache {
		if now.Before(e.expires) {
			n++
		}
	}
	return n
}

// Purge drops every cached response.
func (c *Client) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.cache)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		metrics.RecordErrorByComponent("openf1", "decode")
		return fmt.Errorf("%w: %s: %w", ErrDecode, endpoint, err)
	}
	return nil
}

// get returns the body for endpoint?params, from cache when fresh.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	if body, ok := c.cached(u); ok {
		metrics.RecordUpstreamCache(endpoint, "hit")
		return body, nil
	}
	metrics.RecordUpstreamCache(endpoint, "miss")

	// The shared fetch is detached from any one caller; fetch still applies the timeout.
	ch := c.group.DoChan(u, func() (any, error) {
		body, err := c.fetch(context.WithoutCancel(ctx), endpoint, u)
		if err != nil {
			return nil, err
		}
		c.store(u, body)
		return body, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrRequest, endpoint, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) cached(u string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.cache[u]
	if !ok || !c.now().Before(e.expires) {
		return nil, false
	}
	return e.body, true
}

// store caches body and drops every expired entry.
func (c *Client) store(u string, body []byte) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.cache {
		if !now.Before(e.expires) {
			delete(c.cache, k)
		}
	}
	c.cache[u] = cacheEntry{body: body, expires: now.Add(c.ttl)}
}

func (c *Client) fetch(ctx context.Context, endpoint, u string) ([]byte, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRequest, endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", float64(time.Since(start).Milliseconds()))
		metrics.RecordErrorByComponent("openf1", "transport")
		return nil, fmt.Errorf("%w: %s: %w", ErrRequest, endpoint, err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode), float64(time.Since(start).Milliseconds()))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordErrorByComponent("openf1", "status")
		return nil, fmt.Errorf("%w: %s: %d", ErrUpstreamStatus, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", ErrRequest, endpoint, err)
	}
	c.log.Debug(ctx, "upstream fetched",
		logger.String("endpoint", endpoint),
		logger.Int("bytes", len(body)),
		logger.Duration("took", time.Since(start)))
	return body, nil
}
