package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/wikiscrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	res, err := deps.Pipeline.Scrape(deps.Ctx, strings.Join(c.Title, " "))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Stored %q (%d records)\n", res.Record.Title, res.Records)
	return nil
}

// Run executes the process command.
func (c *ProcessCmd) Run(deps *Dependencies) error {
	res, err := deps.Pipeline.Process(deps.Ctx)
	if err != nil {
		if wikiscrape.ErrorCode(err) == wikiscrape.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "No records found. Use 'wikiscrape scrape' to add one.")
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d rows from %d records to %s\n", res.Rows, res.Records, deps.Pipeline.CSVPath)
	return nil
}

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	res, err := deps.Pipeline.Run(deps.Ctx, strings.Join(c.Title, " "))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikiscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Stored %q (%d records)\n", res.Record.Title, res.Records)
	fmt.Fprintf(deps.Stdout, "Exported %d rows to %s\n", res.Rows, deps.Pipeline.CSVPath)
	return nil
}
