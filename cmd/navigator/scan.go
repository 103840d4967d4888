package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/crawl"
	"github.com/fwojciec/navigator/goquery"
	navslog "github.com/fwojciec/navigator/slog"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	seeds := c.Seeds
	if len(seeds) == 0 && deps.Stdin != nil {
		var err error
		if seeds, err = readLines(deps); err != nil {
			fmt.Fprintf(deps.Stderr, "error: reading seeds: %v\n", err)
			return err
		}
	}
	if len(seeds) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no seed URLs. Pass them as arguments or one per line on stdin.")
		return navigator.Errorf(navigator.EEMPTY, "no seed URLs")
	}

	filter, err := navigator.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	session, err := findOrCreateSession(deps, c.Session)
	if err != nil {
		return err
	}

	scanner := &crawl.Scanner{
		Sitemaps:    deps.Sitemaps,
		Concurrency: c.Concurrency,
	}

	var report *crawl.ScanReport
	if c.Sitemap {
		report, err = scanner.ScanSitemaps(deps.Ctx, &session.Registry, seeds, filter)
	} else {
		fetcher, ferr := deps.NewFetcher(c.Render)
		if ferr != nil {
			printError(deps.Stderr, ferr)
			return ferr
		}
		defer fetcher.Close()

		scanner.Discoverer = navslog.NewLoggingDiscoverer(goquery.NewDiscoverer(fetcher), deps.logger())
		report, err = scanner.Scan(deps.Ctx, &session.Registry, seeds)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scanning: %v\n", err)
		return err
	}

	for _, seed := range report.Seeds {
		if seed.Err != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", seed.URL, errorText(seed.Err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %s: %d internal, %d external (%s)\n",
			crawl.ShortURL(seed.URL, 60), seed.Internal, seed.External, seed.Title)
	}

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{Registry: &session.Registry}); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added %d URLs from %d of %d seeds (%d total)\n",
		report.Added, len(report.Seeds)-report.Failed(), len(report.Seeds), session.Registry.Len())
	return nil
}

// readLines reads non-blank lines from stdin.
func readLines(deps *Dependencies) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(deps.Stdin)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
