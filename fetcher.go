package wikiscrape

import "context"

// Summary is the introductory extract of a page as returned by the wiki API.
type Summary struct {
	// PageID is the wiki's numeric page identifier, if reported.
	PageID *int64

	// Title is the canonical page title after redirects.
	Title string

	// Markup is the extract as an HTML fragment.
	Markup string
}

// Fetcher retrieves page summaries by title.
type Fetcher interface {
	// FetchSummary performs a single lookup for title.
	// Any transport, HTTP or empty-result failure is reported as EFETCH.
	// The context controls cancellation; implementations must also bound
	// the request with a timeout.
	FetchSummary(ctx context.Context, title string) (*Summary, error)
}
