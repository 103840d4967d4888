package main

import (
	"fmt"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/flat"
	"github.com/fwojciec/navigator/qa"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	if session.IndexPath == "" {
		fmt.Fprintf(deps.Stderr, "error: session %q has no index. Run 'navigator index %s' first.\n", c.Session, c.Session)
		return navigator.Errorf(navigator.ENOTQUERYABLE, "session %q has no index", c.Session)
	}

	idx, err := flat.Restore(session.IndexPath, session.Models.Embedding.Model)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	embedder, err := deps.NewEmbedder(session.Models.Embedding)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	generator, err := deps.NewGenerator(session.Models.LLMModel)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	chain := qa.NewChain()
	chain.RetrieveK = c.K
	chain.Timeout = c.Timeout
	if err := chain.SetIndex(flat.NewStore(idx), embedder); err != nil {
		printError(deps.Stderr, err)
		return err
	}
	if err := chain.SetModel(generator, session.Models.Generation); err != nil {
		printError(deps.Stderr, err)
		return err
	}
	if err := chain.SetPrompt(session.PromptTemplate); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	answer, err := chain.Ask(deps.Ctx, c.Question)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
