package main

import (
	"fmt"

	"github.com/fwojciec/navigator"
)

// Run executes the prompt command. Without a template it prints the
// current one.
func (c *PromptCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	if c.Template == "" {
		fmt.Fprintln(deps.Stdout, session.PromptTemplate)
		return nil
	}

	tmpl := navigator.PromptTemplate(c.Template)
	if err := tmpl.Validate(); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{PromptTemplate: &tmpl}); err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "Prompt template updated")
	return nil
}
