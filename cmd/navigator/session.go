package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/navigator"
)

// Run executes the sessions command.
func (c *SessionsCmd) Run(deps *Dependencies) error {
	sessions, err := deps.Sessions.FindSessions(deps.Ctx, navigator.SessionFilter{})
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if len(sessions) == 0 {
		fmt.Fprintln(deps.Stdout, "No sessions. Use 'navigator scan <session> <url>' to start one.")
		return nil
	}

	for _, s := range sessions {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			s.ID, s.Name, s.Models.Embedding.Model, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return navigator.Errorf(navigator.EINVALID, "use --force to confirm deletion")
	}

	sessions, err := deps.Sessions.FindSessions(deps.Ctx, navigator.SessionFilter{Name: &c.Session})
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintf(deps.Stderr, "error: session %q not found. Use 'navigator sessions' to see available sessions.\n", c.Session)
		return navigator.Errorf(navigator.ENOTFOUND, "session %q not found", c.Session)
	}

	if err := deps.Sessions.DeleteSession(deps.Ctx, sessions[0].ID); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	// Snapshots outside the data directory were placed by the user and stay.
	if dir := sessions[0].IndexPath; dir != "" && deps.IndexDir != "" && isWithin(deps.IndexDir, dir) {
		if err := os.RemoveAll(dir); err != nil {
			deps.logger().Warn("could not remove index snapshot", "dir", dir, "err", err)
		}
	}

	fmt.Fprintf(deps.Stdout, "Deleted session %q\n", c.Session)
	return nil
}

// isWithin reports whether path lies strictly inside dir.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
