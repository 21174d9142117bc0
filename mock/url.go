package mock

import "github.com/fwojciec/ohscrap"

var _ ohscrap.URLClassifier = (*URLClassifier)(nil)

// URLClassifier is a mock implementation of ohscrap.URLClassifier.
type URLClassifier struct {
	IsAbsoluteFn func(s string) bool
	IsRelativeFn func(s string) bool
	OriginFn     func(rawURL string) (string, error)
	ResolveFn    func(base, ref string) (string, error)
}

func (c *URLClassifier) IsAbsolute(s string) bool {
	return c.IsAbsoluteFn(s)
}

func (c *URLClassifier) IsRelative(s string) bool {
	return c.IsRelativeFn(s)
}

func (c *URLClassifier) Origin(rawURL string) (string, error) {
	return c.OriginFn(rawURL)
}

func (c *URLClassifier) Resolve(base, ref string) (string, error) {
	return c.ResolveFn(base, ref)
}
