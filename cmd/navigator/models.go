package main

import (
	"fmt"

	"github.com/fwojciec/navigator"
)

// Run executes the models command. Without flags it prints the current
// selection.
func (c *ModelsCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	m := session.Models
	if !c.apply(&m) {
		printModels(deps, session.Models)
		return nil
	}

	if err := m.Validate(); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	updated, err := updateSession(deps, session.ID, navigator.SessionUpdate{Models: &m})
	if err != nil {
		return err
	}

	printModels(deps, updated.Models)
	if updated.IndexPath != "" && m.Embedding.Model != session.Models.Embedding.Model {
		fmt.Fprintf(deps.Stderr, "warning: the index was built with %s. Run 'navigator index %s' to rebuild it.\n",
			session.Models.Embedding.Model, c.Session)
	}
	return nil
}

// apply copies the set flags onto m and reports whether any was set.
func (c *ModelsCmd) apply(m *navigator.ModelConfig) bool {
	var changed bool
	if c.Embedding != "" {
		m.Embedding.Model = c.Embedding
		changed = true
	}
	if c.Device != "" {
		m.Embedding.Device = c.Device
		changed = true
	}
	if c.LLM != "" {
		m.LLMModel = c.LLM
		changed = true
	}

	g := &m.Generation
	if c.MaxNewTokens != nil {
		g.MaxNewTokens = *c.MaxNewTokens
		changed = true
	}
	if c.TopK != nil {
		g.TopK = *c.TopK
		changed = true
	}
	if c.TopP != nil {
		g.TopP = *c.TopP
		changed = true
	}
	if c.TypicalP != nil {
		g.TypicalP = *c.TypicalP
		changed = true
	}
	if c.Temperature != nil {
		g.Temperature = *c.Temperature
		changed = true
	}
	if c.RepetitionPenalty != nil {
		g.RepetitionPenalty = *c.RepetitionPenalty
		changed = true
	}
	return changed
}

func printModels(deps *Dependencies, m navigator.ModelConfig) {
	g := m.Generation
	fmt.Fprintf(deps.Stdout, "embedding:          %s (device %s, normalize %t)\n", m.Embedding.Model, m.Embedding.Device, m.Embedding.Normalize)
	fmt.Fprintf(deps.Stdout, "llm:                %s\n", m.LLMModel)
	fmt.Fprintf(deps.Stdout, "max_new_tokens:     %d\n", g.MaxNewTokens)
	fmt.Fprintf(deps.Stdout, "top_k:              %d\n", g.TopK)
	fmt.Fprintf(deps.Stdout, "top_p:              %g\n", g.TopP)
	fmt.Fprintf(deps.Stdout, "typical_p:          %g\n", g.TypicalP)
	fmt.Fprintf(deps.Stdout, "temperature:        %g\n", g.Temperature)
	fmt.Fprintf(deps.Stdout, "repetition_penalty: %g\n", g.RepetitionPenalty)
}
