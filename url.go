package ohscrap

// URLClassifier tells crawl locations apart from plain data.
type URLClassifier interface {
	// IsAbsolute reports whether s is an absolute http(s) URL.
	IsAbsolute(s string) bool

	// IsRelative reports whether s can be resolved as a reference against
	// a base URL.
	IsRelative(s string) bool

	// Origin returns scheme://host[:port] of an absolute URL.
	Origin(rawURL string) (string, error)

	// Resolve resolves ref against base.
	Resolve(base, ref string) (string, error)
}
