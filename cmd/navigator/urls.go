package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/navigator"
	navcsv "github.com/fwojciec/navigator/csv"
)

// Run executes the urls command.
func (c *URLsCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}
	records := session.Registry.Records

	if c.CSV != "" {
		if err := writeFile(deps, c.CSV, func(w io.Writer) error {
			return navcsv.Encode(w, records)
		}); err != nil {
			printError(deps.Stderr, err)
			return err
		}
		if c.CSV != "-" {
			fmt.Fprintf(deps.Stdout, "Wrote %d rows to %s\n", len(records), c.CSV)
		}
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintf(deps.Stdout, "No URLs in %s. Use 'navigator scan %s <url>' to discover some.\n", c.Session, c.Session)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "URLs for %s (%d total, %d fetchable):\n\n",
		c.Session, len(records), len(session.Registry.Fetchable()))
	for i, r := range records {
		mark := " "
		if r.Ignore {
			mark = "x"
		}
		fmt.Fprintf(deps.Stdout, "%4d. [%s] %-8s %s\n      %s, %s\n",
			i+1, mark, r.Type, r.URL, r.PageName, r.ScannedAt.Format(navigator.ScanTimeLayout))
	}
	return nil
}

// Run executes the edit command.
func (c *EditCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	f, err := os.Open(c.CSV)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	defer f.Close()

	records, err := navcsv.Decode(f)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if err := session.Registry.Replace(records); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{Registry: &session.Registry}); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Replaced registry with %d rows\n", session.Registry.Len())
	return nil
}

// Run executes the ignore command.
func (c *IgnoreCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	var changed int
	for _, u := range c.URLs {
		changed += session.Registry.SetIgnore(u, !c.Unset)
	}

	if changed == 0 {
		fmt.Fprintln(deps.Stdout, "No rows changed")
		return nil
	}

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{Registry: &session.Registry}); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Updated %d rows\n", changed)
	return nil
}

// Run executes the remove command.
func (c *RemoveCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	// Rows are numbered from 1 in 'navigator urls'.
	indexes := make([]int, len(c.Indexes))
	for i, n := range c.Indexes {
		indexes[i] = n - 1
	}

	if err := session.Registry.Remove(indexes...); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{Registry: &session.Registry}); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed rows, %d remain\n", session.Registry.Len())
	return nil
}

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	n := session.Registry.Len()
	session.Registry.Clear()

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{Registry: &session.Registry}); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleared %d rows\n", n)
	return nil
}

// writeFile writes through fn to path, or to stdout when path is "-".
func writeFile(deps *Dependencies, path string, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(deps.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
