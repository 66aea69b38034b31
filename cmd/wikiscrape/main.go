package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/wikiscrape"
	"github.com/fwojciec/wikiscrape/csv"
	"github.com/fwojciec/wikiscrape/fs"
	"github.com/fwojciec/wikiscrape/goquery"
	wshttp "github.com/fwojciec/wikiscrape/http"
	"github.com/fwojciec/wikiscrape/scrape"
	wsslog "github.com/fwojciec/wikiscrape/slog"
	"github.com/fwojciec/wikiscrape/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened only for the sqlite backend.
	DB *sqlite.DB

	// Services for end-to-end testing. Nil fields are wired from flags.
	Fetcher wikiscrape.Fetcher
	Store   wikiscrape.RecordStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("wikiscrape"),
		kong.Description("Scrape Wikipedia page summaries into a local dataset"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(kong.JSON),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'wikiscrape --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	store, err := m.openStore(cli, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = newFetcher(cli)
	}

	deps.Pipeline = &scrape.Pipeline{
		Fetcher:       wsslog.NewLoggingFetcher(fetcher, logger),
		Extractor:     goquery.NewExtractor(),
		Store:         wsslog.NewLoggingRecordStore(store, logger),
		Exporter:      wsslog.NewLoggingExporter(csv.NewExporter(), logger),
		Logger:        logger,
		ProcessedPath: cli.Processed,
		TruncatedPath: cli.Truncated,
		CSVPath:       cli.CSV,
		MaxLength:     cli.MaxLength,
	}

	return kongCtx.Run(deps)
}

// openStore returns the record store selected by --backend.
func (m *Main) openStore(cli *CLI, logger *slog.Logger) (wikiscrape.RecordStore, error) {
	if m.Store != nil {
		return m.Store, nil
	}

	switch cli.Backend {
	case backendSQLite:
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		return sqlite.NewRecordStore(m.DB), nil
	case backendJSON:
		return fs.NewRecordStore(cli.Raw, fs.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cli.Backend)
	}
}

func newFetcher(cli *CLI) *wshttp.Fetcher {
	opts := []wshttp.Option{
		wshttp.WithTimeout(cli.Timeout),
		wshttp.WithLanguage(cli.Lang),
	}
	if cli.Endpoint != "" {
		opts = append(opts, wshttp.WithEndpoint(cli.Endpoint))
	}
	return wshttp.NewFetcher(opts...)
}

// newLogger logs warnings to w, or everything from debug up when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
