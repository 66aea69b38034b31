package mock

import "github.com/fwojciec/wikiscrape"

var _ wikiscrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of wikiscrape.Extractor.
type Extractor struct {
	TextFn func(markup string) (string, error)
}

func (e *Extractor) Text(markup string) (string, error) {
	return e.TextFn(markup)
}
