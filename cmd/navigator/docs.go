package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/fs"
	"github.com/fwojciec/navigator/jsonl"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	if c.Import != "" {
		return c.runImport(deps, session)
	}

	docs := session.Documents
	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: session %q has no documents. Run 'navigator fetch %s' first.\n", c.Session, c.Session)
		return navigator.Errorf(navigator.EEMPTY, "session %q has no documents", c.Session)
	}

	switch {
	case c.Export != "":
		if err := writeFile(deps, c.Export, func(w io.Writer) error {
			return jsonl.Encode(w, docs)
		}); err != nil {
			printError(deps.Stderr, err)
			return err
		}
		if c.Export != "-" {
			fmt.Fprintf(deps.Stdout, "Wrote %d documents to %s\n", len(docs), c.Export)
		}
		return nil

	case c.Markdown != "":
		n, err := fs.Export(c.Markdown, docs)
		if err != nil {
			printError(deps.Stderr, err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d markdown files to %s\n", n, c.Markdown)
		return nil

	case c.Full:
		fmt.Fprintln(deps.Stdout, navigator.FormatDocuments(docs))
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Documents for %s (%d total):\n\n", c.Session, len(docs))
	for i, doc := range docs {
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", i+1, doc.Title(), doc.SourceURL)
		if c.Outline {
			for _, s := range doc.Outline() {
				fmt.Fprintf(deps.Stdout, "     %s- %s (#%s)\n", strings.Repeat("  ", s.Level-1), s.Title, s.Anchor)
			}
		}
	}
	return nil
}

func (c *DocsCmd) runImport(deps *Dependencies, session *navigator.Session) error {
	var r io.Reader = deps.Stdin
	if c.Import != "-" {
		f, err := os.Open(c.Import)
		if err != nil {
			printError(deps.Stderr, err)
			return err
		}
		defer f.Close()
		r = f
	}

	docs, err := jsonl.Decode(r)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{Documents: &docs}); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d documents\n", len(docs))
	return nil
}
