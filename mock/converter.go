package mock

import "github.com/fwojciec/navigator"

var _ navigator.Converter = (*Converter)(nil)

// Converter is a mock implementation of navigator.Converter.
type Converter struct {
	ConvertFn func(html, pageURL string) (string, error)
}

func (c *Converter) Convert(html, pageURL string) (string, error) {
	return c.ConvertFn(html, pageURL)
}
