package mlc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reprise/internal/logging"
	"reprise/internal/services"
	"reprise/internal/works"
)

const (
	// DefaultBaseURL is the public api2v root of The MLC works search.
	DefaultBaseURL = "https://api.ptl.themlc.com/api2v/public"

	defaultTimeout  = 15 * time.Second
	defaultPageSize = 20

	// Publisher dumps page at the API maximum and retry harder than ad-hoc
	// searches: a dump is a long-running batch, not an interactive lookup.
	publisherPageSize    = 200
	publisherMaxAttempts = 5
	publisherBackoff     = time.Second
	publisherPageDelay   = 150 * time.Millisecond
)

// Client queries The MLC public works search API. Search endpoints are
// POSTs with an empty JSON body and query-string paging.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	logger     *slog.Logger
	parser     Parser

	backoff   time.Duration
	pageDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for search diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "mlc")
		}
	}
}

// WithPageSize overrides the search page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates an MLC client. An empty base URL selects the public API.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.NewNop(),
		backoff:    publisherBackoff,
		pageDelay:  publisherPageDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SearchByTitle returns the first page of works registered under titles
// resembling the query. The artist, when present, narrows the query text.
func (c *Client) SearchByTitle(ctx context.Context, title, artist string) ([]works.Work, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "mlc", "search title", "title required", nil)
	}
	query := title
	if artist = strings.TrimSpace(artist); artist != "" {
		query = title + " " + artist
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", "0")
	params.Set("size", strconv.Itoa(c.pageSize))
	params.Set("sort", "title.keyword,asc")
	payload, err := c.postJSON(ctx, c.baseURL+"/search/works?"+params.Encode())
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "mlc", "search title", query, err)
	}
	found := c.parseAll(payload)
	c.logger.Debug("title search complete",
		logging.String("query", query),
		logging.Int("works", len(found)))
	return found, nil
}

// SearchByCode returns the first page of works the database registers under
// a standard recording identifier.
func (c *Client) SearchByCode(ctx context.Context, code string) ([]works.Work, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, services.Wrap(services.ErrValidation, "mlc", "search code", "code required", nil)
	}
	params := url.Values{}
	params.Set("q", code)
	params.Set("page", "0")
	params.Set("size", strconv.Itoa(c.pageSize))
	payload, err := c.postJSON(ctx, c.baseURL+"/search/works?"+params.Encode())
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "mlc", "search code", code, err)
	}
	found := c.parseAll(payload)
	c.logger.Debug("code search complete",
		logging.String("code", code),
		logging.Int("works", len(found)))
	return found, nil
}

// PublisherWorks walks every page of one publisher's registrations and
// returns the deduplicated slice. Transient upstream trouble backs off and
// retries per page; pages keep a polite delay between them.
func (c *Client) PublisherWorks(ctx context.Context, publisherID string) ([]works.Work, error) {
	publisherID = strings.TrimSpace(publisherID)
	if publisherID == "" {
		return nil, services.Wrap(services.ErrValidation, "mlc", "publisher works", "publisher id required", nil)
	}
	var (
		all   []works.Work
		seen  = make(map[string]struct{})
		total = -1
	)
	for page := 0; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("size", strconv.Itoa(publisherPageSize))
		endpoint := c.baseURL + "/search/works/publisher/" + url.PathEscape(publisherID) + "?" + params.Encode()
		payload, err := c.postWithRetry(ctx, endpoint)
		if err != nil {
			return all, services.Wrap(services.ErrExternalService, "mlc", "publisher works", fmt.Sprintf("page %d", page), err)
		}
		list, announced := candidateList(payload)
		if announced >= 0 {
			total = announced
		}
		if len(list) == 0 {
			break
		}
		for _, raw := range list {
			work, ok := c.parser.Parse(raw)
			if !ok {
				continue
			}
			if work.ID != "" {
				if _, dup := seen[work.ID]; dup {
					continue
				}
				seen[work.ID] = struct{}{}
			}
			all = append(all, work)
		}
		c.logger.Info("publisher page fetched",
			logging.Int("page", page),
			logging.Int("works", len(all)),
			logging.Int("announced_total", total))
		if total >= 0 && len(all) >= total {
			break
		}
		if len(list) < publisherPageSize {
			break
		}
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}
	return all, nil
}

func (c *Client) parseAll(payload any) []works.Work {
	list, _ := candidateList(payload)
	parsed := make([]works.Work, 0, len(list))
	for _, raw := range list {
		if work, ok := c.parser.Parse(raw); ok {
			parsed = append(parsed, work)
		}
	}
	return parsed
}

func (c *Client) postWithRetry(ctx context.Context, endpoint string) (any, error) {
	backoff := c.backoff
	var lastErr error
	for attempt := 1; attempt <= publisherMaxAttempts; attempt++ {
		payload, err := c.postJSON(ctx, endpoint)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, err
		}
		var status *statusError
		if errors.As(err, &status) && !status.retryable() {
			return nil, err
		}
		if attempt == publisherMaxAttempts {
			break
		}
		c.logger.Debug("retrying page",
			logging.Int("attempt", attempt),
			logging.Duration("backoff", backoff),
			logging.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (c *Client) postJSON(ctx context.Context, endpoint string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader("{}"))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, latency: latency}
	}
	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode mlc response: %w", err)
	}
	return payload, nil
}

// statusError carries the HTTP status for retry classification.
type statusError struct {
	code    int
	latency time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("mlc returned %d (latency=%v)", e.code, e.latency)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}
