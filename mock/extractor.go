package mock

import "github.com/fwojciec/navigator"

var _ navigator.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of navigator.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*navigator.ExtractResult, error)
}

func (e *Extractor) Extract(html, pageURL string) (*navigator.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}
