package wikiscrape

// Extractor converts HTML markup into visible plain text.
type Extractor interface {
	// Text returns the visible text of markup with tags and boilerplate
	// removed. Returns EINVALID for empty markup.
	Text(markup string) (string, error)
}
