package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/navigator"
)

// Run executes the review command. The report is a JSON list of
// {tag, src, alt?} objects.
func (c *ReviewCmd) Run(deps *Dependencies) error {
	fetcher, err := deps.NewFetcher(c.Render)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	defer fetcher.Close()

	html, err := fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		err = navigator.WrapError(navigator.EFETCH, err, "fetching %s", c.URL)
		printError(deps.Stderr, err)
		return err
	}

	details, err := deps.Analyzer.Analyze(deps.Ctx, html)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	if details == nil {
		details = []navigator.TagDetail{}
	}

	out := c.Out
	if out == "" {
		out = "-"
	}
	if err := writeFile(deps, out, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(details)
	}); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if out != "-" {
		fmt.Fprintf(deps.Stdout, "Wrote %d tags to %s\n", len(details), out)
	}
	return nil
}
