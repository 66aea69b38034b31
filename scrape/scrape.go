// Package scrape sequences the fetch, extract, store, clean, truncate and
// export stages for a single page title.
package scrape

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/fs"
	"github.com/google/uuid"
)

// Pipeline scrapes one title at a time into a RecordStore and exports the
// processed collection. Stages run strictly in sequence.
type Pipeline struct {
	Fetcher   wikiscrape.Fetcher
	Extractor wikiscrape.Extractor
	Store     wikiscrape.RecordStore
	Exporter  wikiscrape.Exporter
	Logger    *slog.Logger

	// ProcessedPath and TruncatedPath receive the intermediate text files,
	// one summary per line. Either may be empty to skip that file.
	ProcessedPath string
	TruncatedPath string

	// CSVPath is where the final export is written.
	CSVPath string

	// MaxLength bounds each exported summary. Zero means
	// wikiscrape.DefaultMaxLength.
	MaxLength int
}

// Result summarizes a pipeline run.
type Result struct {
	// Record is the record produced by Scrape; nil after Process alone.
	Record *wikiscrape.Record

	// Records is the size of the stored collection.
	Records int

	// Rows is the number of rows exported; zero after Scrape alone.
	Rows int
}

// Scrape fetches the summary for title, extracts its text and appends the
// record to the store. Nothing is stored if any earlier stage fails.
func (p *Pipeline) Scrape(ctx context.Context, title string) (*Result, error) {
	return p.scrape(ctx, p.runLogger(), title)
}

// Process cleans and truncates every stored summary and exports the result.
func (p *Pipeline) Process(ctx context.Context) (*Result, error) {
	return p.process(ctx, p.runLogger())
}

// Run scrapes title and then processes the whole collection.
func (p *Pipeline) Run(ctx context.Context, title string) (*Result, error) {
	logger := p.runLogger()

	scraped, err := p.scrape(ctx, logger, title)
	if err != nil {
		return nil, err
	}

	processed, err := p.process(ctx, logger)
	if err != nil {
		return nil, err
	}

	processed.Record = scraped.Record
	return processed, nil
}

func (p *Pipeline) scrape(ctx context.Context, logger *slog.Logger, title string) (*Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "the title cannot be empty")
	}

	summary, err := p.Fetcher.FetchSummary(ctx, title)
	if err != nil {
		switch wikiscrape.ErrorCode(err) {
		case wikiscrape.EFETCH, wikiscrape.EINVALID:
			return nil, err
		}
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "an error occurred while fetching %q: %w", title, err)
	}

	text, err := p.Extractor.Text(summary.Markup)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, wikiscrape.Errorf(wikiscrape.EFETCH, "no summary available for the title %q", title)
	}

	rec := &wikiscrape.Record{
		Title:   title,
		PageID:  summary.PageID,
		Summary: text,
	}

	coll, err := p.Store.Append(ctx, rec)
	if err != nil {
		return nil, err
	}

	logger.Debug("scraped", "title", title, "records", len(coll))

	return &Result{Record: rec, Records: len(coll)}, nil
}

func (p *Pipeline) process(ctx context.Context, logger *slog.Logger) (*Result, error) {
	if p.CSVPath == "" {
		return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "CSV output path required")
	}

	recs, err := p.Store.Records(ctx)
	if err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, len(recs))
	for _, rec := range recs {
		text, err := wikiscrape.Clean(rec.Summary)
		if err != nil {
			return nil, wikiscrape.Errorf(wikiscrape.EINVALID, "invalid summary for %q: %s", rec.Title, wikiscrape.ErrorMessage(err))
		}
		cleaned = append(cleaned, text)
	}

	if p.ProcessedPath != "" {
		if err := fs.WriteLines(p.ProcessedPath, cleaned); err != nil {
			return nil, err
		}
	}

	truncated := wikiscrape.TruncateAll(cleaned, p.maxLength())

	if p.TruncatedPath != "" {
		if err := fs.WriteLines(p.TruncatedPath, truncated); err != nil {
			return nil, err
		}
	}

	rows := wikiscrape.RowsFromLines(truncated)
	if err := p.Exporter.Export(ctx, p.CSVPath, rows); err != nil {
		return nil, err
	}

	logger.Debug("processed", "records", len(recs), "rows", len(rows))

	return &Result{Records: len(recs), Rows: len(rows)}, nil
}

func (p *Pipeline) maxLength() int {
	if p.MaxLength <= 0 {
		return wikiscrape.DefaultMaxLength
	}
	return p.MaxLength
}

// runLogger returns the pipeline logger tagged with a fresh run ID.
func (p *Pipeline) runLogger() *slog.Logger {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger.With("run", uuid.NewString())
}
