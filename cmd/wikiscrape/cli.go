package main

import (
	"context"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/wikiscrape/scrape"
)

const (
	backendJSON   = "json"
	backendSQLite = "sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Pipeline *scrape.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"Load flag values from a JSON file. Keys are flag names with underscores, e.g. max_length" type:"existingfile"`

	Raw       string        `default:"data/raw_data/raw_data.json" env:"WIKISCRAPE_RAW" help:"JSON record store"`
	DB        string        `name:"db" default:"data/raw_data/raw_data.db" env:"WIKISCRAPE_DB" help:"SQLite record store (with --backend=sqlite)"`
	Backend   string        `enum:"json,sqlite" default:"json" env:"WIKISCRAPE_BACKEND" help:"Record store backend (json, sqlite)"`
	Processed string        `default:"data/processed_data/processed_data.txt" env:"WIKISCRAPE_PROCESSED" help:"Cleaned summaries, one per line"`
	Truncated string        `default:"data/processed_data/truncated_data.txt" env:"WIKISCRAPE_TRUNCATED" help:"Truncated summaries, one per line"`
	CSV       string        `name:"csv" default:"data/processed_data/processed_data.csv" env:"WIKISCRAPE_CSV" help:"CSV export"`
	MaxLength int           `default:"500" env:"WIKISCRAPE_MAX_LENGTH" help:"Maximum summary length in the export"`
	Timeout   time.Duration `default:"10s" env:"WIKISCRAPE_TIMEOUT" help:"HTTP request timeout"`
	Lang      string        `default:"en" env:"WIKISCRAPE_LANG" help:"Wikipedia language edition"`
	Endpoint  string        `env:"WIKISCRAPE_ENDPOINT" help:"MediaWiki API endpoint (overrides --lang)"`
	Verbose   bool          `short:"v" env:"WIKISCRAPE_VERBOSE" help:"Log every operation"`

	Scrape  ScrapeCmd  `cmd:"" help:"Fetch a page summary and add it to the record store"`
	Process ProcessCmd `cmd:"" help:"Clean, truncate and export every stored summary"`
	Run     RunCmd     `cmd:"" help:"Scrape a page and then process the record store"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Title []string `arg:"" help:"Page title"`
}

// ProcessCmd is the "process" subcommand.
type ProcessCmd struct{}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Title []string `arg:"" help:"Page title"`
}
