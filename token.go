package navigator

import "context"

// TokenCounter estimates how many tokens a model sees for some text.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// CountDocumentTokens sums the estimates for the content of docs. Documents
// the counter fails on are left out of the sum, and counted reports whether
// any document was counted at all. Counting stops when ctx ends.
func CountDocumentTokens(ctx context.Context, tc TokenCounter, docs []*Document) (total int, counted bool) {
	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		n, err := tc.CountTokens(ctx, doc.Content)
		if err != nil {
			continue
		}
		total += n
		counted = true
	}
	return total, counted
}
