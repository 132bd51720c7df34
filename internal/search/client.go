// Package search queries the Naver shopping search API and locates the rank
// of a marketplace product within a keyword's result list.
//
// The Client is safe for concurrent use; every FindRank call keeps its own
// pacing limiter so parallel lookups do not serialize on each other.
//
// Paging model:
//   - pages of PageSize items, requested with start = 1, 101, 201, ...
//   - the first page's total caps the walk at ceil(min(total, MaxRank)/PageSize)
//     pages, never more than MaxPages
//   - the walk stops at the first match, a short page, or the page cap
//
// Each page request is retried up to MaxRetries extra times on a retryable
// status or a per-request timeout, with a linear backoff.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100
	// MaxRank is the deepest rank ever reported.
	MaxRank = 1000
	// MaxPages bounds the upstream calls of one lookup.
	MaxPages = 10
	// MaxRetries is the number of extra attempts per page.
	MaxRetries = 2

	// DefaultBaseURL is the shopping search endpoint.
	DefaultBaseURL = "https://openapi.naver.com/v1/search/shop.json"
	// DefaultTimeout bounds one page request.
	DefaultTimeout = 5 * time.Second
	// MinTimeout is the lowest accepted per-request timeout.
	MinTimeout = time.Second

	defaultBackoffStep = 200 * time.Millisecond
	sortMode           = "sim"
	maxErrorBody       = 512
)

// Credentials authenticate calls to the shopping search API.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Item is one search hit. Only the identifier fields used for matching are
// decoded.
type Item struct {
	Title         string   `json:"title"`
	Link          string   `json:"link"`
	ProductID     flexible `json:"productId"`
	MallProductID flexible `json:"mallProductId"`
}

// Page is one decoded page of search results. Total is nil when the
// response omits it.
type Page struct {
	Total   *int   `json:"total,omitempty"`
	Start   int    `json:"start"`
	Display int    `json:"display"`
	Items   []Item `json:"items"`
}

// flexible accepts identifiers encoded either as JSON strings or numbers.
type flexible string

func (f *flexible) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexible(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexible(n.String())
	return nil
}

// Option customizes a Client.
type Option func(*Client)

// Client talks to the shopping search API.
type Client struct {
	http        *http.Client
	baseURL     string
	timeout     time.Duration
	pageDelay   time.Duration
	backoffStep time.Duration
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the per-request timeout, clamped to MinTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d < MinTimeout {
			d = MinTimeout
		}
		c.timeout = d
	}
}

// WithPageDelay sets the minimum spacing between page requests of a single
// lookup. Zero disables pacing.
func WithPageDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.pageDelay = d
		}
	}
}

// New returns a Client with default settings adjusted by opts.
func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{},
		baseURL:     DefaultBaseURL,
		timeout:     DefaultTimeout,
		backoffStep: defaultBackoffStep,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// attemptResult is the outcome of one page fetch including its retries.
type attemptResult struct {
	ok       bool
	page     *Page
	attempts int
	err      error
}

// fetchPage requests one page, retrying transient failures. It never returns
// ok with a nil page.
func (c *Client) fetchPage(ctx context.Context, creds Credentials, keyword string, start int) attemptResult {
	res := attemptResult{}
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		res.attempts = attempt + 1

		page, err := c.doRequest(ctx, creds, keyword, start)
		upstreamAttempts.WithLabelValues(outcomeLabel(err)).Inc()
		if err == nil {
			res.ok, res.page, res.err = true, page, nil
			return res
		}
		res.err = err

		if attempt == MaxRetries || !retryable(ctx, err) {
			return res
		}

		select {
		case <-ctx.Done():
			res.err = ctx.Err()
			return res
		case <-time.After(c.backoffStep * time.Duration(attempt+1)):
		}
	}
	return res
}

// doRequest performs a single GET bounded by the per-request timeout.
func (c *Client) doRequest(ctx context.Context, creds Credentials, keyword string, start int) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("query", keyword)
	q.Set("display", strconv.Itoa(PageSize))
	q.Set("start", strconv.Itoa(start))
	q.Set("sort", sortMode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Naver-Client-Id", creds.ClientID)
	req.Header.Set("X-Naver-Client-Secret", creds.ClientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("search: decode page: %w", err)
	}
	return &page, nil
}
