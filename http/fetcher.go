// Package http provides an HTTP-based implementation of wikiscrape.Fetcher
// backed by the MediaWiki query API.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/wikiscrape"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultEndpoint is the English Wikipedia API endpoint.
const DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

// DefaultUserAgent identifies requests made by this client.
const DefaultUserAgent = "wikiscrape/1.0 (https://github.com/fwojciec/wikiscrape)"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Ensure Fetcher implements wikiscrape.Fetcher at compile time.
var _ wikiscrape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page introductions from a MediaWiki API using
// action=query with the TextExtracts prop.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	endpoint  string
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithEndpoint sets the API endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(f *Fetcher) {
		f.endpoint = endpoint
	}
}

// WithLanguage points the fetcher at the Wikipedia edition for lang,
// e.g. "de" for https://de.wikipedia.org/w/api.php.
func WithLanguage(lang string) Option {
	return func(f *Fetcher) {
		f.endpoint = LanguageEndpoint(lang)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// LanguageEndpoint returns the API endpoint of a Wikipedia language edition.
func LanguageEndpoint(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return DefaultEndpoint
	}
	return fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
}

// NewFetcher creates a new MediaWiki Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// FetchSummary looks up the introduction of the page titled title.
func (f *Fetcher) FetchSummary(ctx context.Context, title string) (*wikiscrape.Summary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "the title cannot be empty")
	}

	u, err := f.queryURL(title)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "cannot build request for %q: %w", title, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "an error occurred while fetching %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "HTTP %d for %q", resp.StatusCode, title)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "an error occurred while reading %q: %w", title, err)
	}

	return parseQueryResponse(title, body)
}

func (f *Fetcher) queryURL(title string) (string, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return "", wikiscrape.Errorf(wikiscrape.EINVALID, "invalid endpoint %q: %v", f.endpoint, err)
	}

	q := u.Query()
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("prop", "extracts")
	q.Set("exintro", "1")
	q.Set("redirects", "1")
	q.Set("titles", title)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// queryResponse is the subset of an action=query response we read.
type queryResponse struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
	Query struct {
		Pages map[string]queryPage `json:"pages"`
	} `json:"query"`
}

// queryPage is one entry of query.pages. Missing and Invalid are present
// (as empty strings) only when the page does not exist or the title is bad.
type queryPage struct {
	PageID        *int64  `json:"pageid"`
	Title         string  `json:"title"`
	Extract       string  `json:"extract"`
	Missing       *string `json:"missing"`
	Invalid       *string `json:"invalid"`
	InvalidReason string  `json:"invalidreason"`
}

func parseQueryResponse(title string, body []byte) (*wikiscrape.Summary, error) {
	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "invalid API response for %q: %w", title, err)
	}

	if resp.Error != nil {
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "API error for %q: %s: %s", title, resp.Error.Code, resp.Error.Info)
	}

	if len(resp.Query.Pages) == 0 {
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "no pages found for %q", title)
	}

	// A single title yields a single page; sort keys to stay deterministic.
	keys := make([]string, 0, len(resp.Query.Pages))
	for k := range resp.Query.Pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	page := resp.Query.Pages[keys[0]]

	switch {
	case page.Invalid != nil:
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "invalid title %q: %s", title, page.InvalidReason)
	case page.Missing != nil:
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "no page found for %q", title)
	case strings.TrimSpace(page.Extract) == "":
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "no summary available for %q", title)
	}

	return &wikiscrape.Summary{
		PageID: page.PageID,
		Title:  page.Title,
		Markup: page.Extract,
	}, nil
}
