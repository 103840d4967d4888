package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/flat"
	navzip "github.com/fwojciec/navigator/zip"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	if len(session.Documents) == 0 {
		fmt.Fprintf(deps.Stderr, "error: session %q has no documents. Run 'navigator fetch %s' first.\n", c.Session, c.Session)
		return navigator.Errorf(navigator.EEMPTY, "session %q has no documents", c.Session)
	}

	splitter, err := navigator.NewSplitter(c.ChunkSize, c.Overlap)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	passages := splitter.Split(session.Documents)

	embedder, err := deps.NewEmbedder(session.Models.Embedding)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	rps := deps.config().Embedding.RequestsPerSecond
	if c.RPS != nil {
		rps = *c.RPS
	}
	if rps < 0 {
		err := navigator.Errorf(navigator.EINVALID, "requests per second must not be negative")
		printError(deps.Stderr, err)
		return err
	}

	if rps > 0 {
		fmt.Fprintf(deps.Stdout, "Embedding %d passages with %s at %g requests/s\n", len(passages), embedder.Model(), rps)
	} else {
		fmt.Fprintf(deps.Stdout, "Embedding %d passages with %s\n", len(passages), embedder.Model())
	}

	indexer := flat.NewIndexer(embedder, session.Models.Embedding.Normalize).WithRequestsPerSecond(rps)
	idx, err := indexer.Build(deps.Ctx, passages)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	dir := c.Out
	if dir == "" {
		dir = sessionIndexDir(deps, session)
	}
	if err := flat.Persist(idx, dir); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{IndexPath: &dir}); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d passages from %d documents into %s\n", idx.Len(), len(session.Documents), dir)
	return nil
}

// Run executes the export-index command.
func (c *ExportIndexCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	if session.IndexPath == "" {
		fmt.Fprintf(deps.Stderr, "error: session %q has no index. Run 'navigator index %s' first.\n", c.Session, c.Session)
		return navigator.Errorf(navigator.EEMPTY, "session %q has no index", c.Session)
	}

	if err := writeFile(deps, c.Zip, func(w io.Writer) error {
		return navzip.Pack(session.IndexPath, w)
	}); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if c.Zip != "-" {
		fmt.Fprintf(deps.Stdout, "Wrote index to %s\n", c.Zip)
	}
	return nil
}

// Run executes the import-index command. The archive is unpacked into a
// staging directory and restored once before its files replace the current
// snapshot, so a corrupt or mismatched archive leaves the session unchanged.
// Only the snapshot files in the target directory are replaced.
func (c *ImportIndexCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	dir := c.Out
	if dir == "" {
		dir = sessionIndexDir(deps, session)
	}
	if err := checkSnapshotTarget(dir); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		printError(deps.Stderr, err)
		return err
	}
	staging, err := os.MkdirTemp(filepath.Dir(dir), ".navigator-import-*")
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	defer os.RemoveAll(staging)

	if err := navzip.UnpackFile(c.Zip, staging); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	idx, err := flat.Restore(staging, session.Models.Embedding.Model)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if err := replaceSnapshot(staging, dir); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{IndexPath: &dir}); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported index with %d passages into %s\n", idx.Len(), dir)
	return nil
}

// checkSnapshotTarget returns EINVALID when dir holds files but no snapshot.
func checkSnapshotTarget(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	if _, err := os.Stat(filepath.Join(dir, flat.SidecarFile)); err == nil {
		return nil
	}
	return navigator.Errorf(navigator.EINVALID, "%s is not empty and holds no index snapshot", dir)
}

// replaceSnapshot moves the snapshot files from staging into dir.
func replaceSnapshot(staging, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range []string{flat.VectorsFile, flat.SidecarFile} {
		if err := os.Rename(filepath.Join(staging, name), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("replace %s: %w", name, err)
		}
	}
	return nil
}

func sessionIndexDir(deps *Dependencies, session *navigator.Session) string {
	return filepath.Join(deps.IndexDir, session.ID)
}
