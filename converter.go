package navigator

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown. Relative links are
	// resolved against pageURL when it is set.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html, pageURL string) (string, error)
}
