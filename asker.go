package navigator

import "context"

// Asker answers natural language questions over the indexed documents.
type Asker interface {
	// Ask answers a question using retrieved passages as context.
	// Returns ENOTQUERYABLE if no index or model is configured.
	Ask(ctx context.Context, question string) (string, error)
}
