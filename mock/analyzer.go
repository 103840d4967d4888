package mock

import (
	"context"

	"github.com/fwojciec/navigator"
)

var _ navigator.TagAnalyzer = (*TagAnalyzer)(nil)

// TagAnalyzer is a mock implementation of navigator.TagAnalyzer.
type TagAnalyzer struct {
	AnalyzeFn func(ctx context.Context, html string) ([]navigator.TagDetail, error)
}

func (a *TagAnalyzer) Analyze(ctx context.Context, html string) ([]navigator.TagDetail, error) {
	return a.AnalyzeFn(ctx, html)
}
