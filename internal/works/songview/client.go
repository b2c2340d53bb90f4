package songview

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reprise/internal/logging"
	"reprise/internal/services"
	"reprise/internal/works"
)

const (
	DefaultASCAPBaseURL = "https://www.ascap.com"
	DefaultBMIBaseURL   = "https://repertoire.bmi.com"

	defaultTimeout = 10 * time.Second
	bmiViewCount   = "20"

	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client queries the public ASCAP and BMI repertory searches that together
// expose Songview. Both endpoints are built for browsers and frequently
// answer with HTML or nothing usable, so every search is best-effort: an
// opaque or failed response contributes no works instead of an error.
type Client struct {
	ascapBaseURL string
	bmiBaseURL   string
	httpClient   *http.Client
	logger       *slog.Logger
	parser       Parser
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
			c.logger = logging.NewComponentLogger(logger, "songview")
		}
	}
}

// WithBaseURLs overrides the repertory endpoints.
func WithBaseURLs(ascapBaseURL, bmiBaseURL string) Option {
	return func(c *Client) {
		if ascapBaseURL = strings.TrimSpace(ascapBaseURL); ascapBaseURL != "" {
			c.ascapBaseURL = strings.TrimRight(ascapBaseURL, "/")
		}
		if bmiBaseURL = strings.TrimSpace(bmiBaseURL); bmiBaseURL != "" {
			c.bmiBaseURL = strings.TrimRight(bmiBaseURL, "/")
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

// New creates a Songview client.
func New(opts ...Option) *Client {
	client := &Client{
		ascapBaseURL: DefaultASCAPBaseURL,
		bmiBaseURL:   DefaultBMIBaseURL,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SearchByTitle queries both societies and concatenates whatever either one
// yields. Only an empty title is an error.
func (c *Client) SearchByTitle(ctx context.Context, title, artist string) ([]works.Work, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "songview", "search title", "title required", nil)
	}
	found := c.searchASCAP(ctx, title)
	found = append(found, c.searchBMI(ctx, title)...)
	c.logger.Debug("songview search complete",
		logging.String("title", title),
		logging.Int("works", len(found)))
	return found, nil
}

func (c *Client) searchASCAP(ctx context.Context, title string) []works.Work {
	params := url.Values{}
	params.Set("search", title)
	params.Set("type", "title")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ascapBaseURL+"/repertory?"+params.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", "https://www.ascap.com/repertory")
	return c.collect(req, works.SourceASCAP)
}

func (c *Client) searchBMI(ctx context.Context, title string) []works.Work {
	form := url.Values{}
	form.Set("Main_Search_Text", title)
	form.Set("Main_Search", "Title")
	form.Set("Search_Type", "all")
	form.Set("View_Count", bmiViewCount)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.bmiBaseURL+"/Search/Search", strings.NewReader(form.Encode()))
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "https://repertoire.bmi.com/")
	return c.collect(req, works.SourceBMI)
}

// collect runs one society request and keeps only usable JSON results.
func (c *Client) collect(req *http.Request, fallbackSource string) []works.Work {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("society unreachable",
			logging.String(logging.FieldSource, fallbackSource),
			logging.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("society declined",
			logging.String(logging.FieldSource, fallbackSource),
			logging.Int("status", resp.StatusCode))
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		// Browser HTML, not data.
		c.logger.Debug("opaque society response",
			logging.String(logging.FieldSource, fallbackSource),
			logging.Int("bytes", len(body)))
		return nil
	}
	list := resultList(payload)
	found := make([]works.Work, 0, len(list))
	for _, raw := range list {
		work, ok := c.parser.Parse(raw)
		if !ok {
			continue
		}
		if work.Source == works.SourceSongview {
			work.Source = fallbackSource
		}
		found = append(found, work)
	}
	return found
}
