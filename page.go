package ohscrap

// PageContext identifies the page a selector is evaluated against. URL is
// the absolute address of the content and BaseURL is the origin used to
// resolve relative references. It is a value: derive a new one per branch
// instead of changing a shared one.
type PageContext struct {
	URL     string
	BaseURL string
}

// WithURL returns a copy of c pointing at url with the same base.
func (c PageContext) WithURL(url string) PageContext {
	c.URL = url
	return c
}

// At returns a context for url resolved against base.
func At(url, base string) PageContext {
	return PageContext{URL: url, BaseURL: base}
}
