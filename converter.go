package ohscrap

// Converter converts HTML to Markdown. It backs the MARKDOWN leaf directive.
type Converter interface {
	// Convert renders html as Markdown. Relative links are made absolute
	// against baseURL when it is not empty.
	Convert(html, baseURL string) (string, error)
}
