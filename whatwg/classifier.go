// Package whatwg implements ohscrap.URLClassifier with the WHATWG URL
// parser, the algorithm browsers use to resolve links.
package whatwg

import (
	"strings"
	"unicode"

	"github.com/fwojciec/ohscrap"
	"github.com/nlnwa/whatwg-url/url"
)

// Ensure Classifier implements ohscrap.URLClassifier at compile time.
var _ ohscrap.URLClassifier = (*Classifier)(nil)

// probeBase is only used to check that a reference resolves.
const probeBase = "http://probe.invalid/"

// Classifier tells absolute URLs and relative references apart from plain
// data.
type Classifier struct {
	parser url.Parser
}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{parser: url.NewParser()}
}

// IsAbsolute reports whether s is an http or https URL with a host.
func (c *Classifier) IsAbsolute(s string) bool {
	if !plausible(s) {
		return false
	}
	u, err := c.parser.Parse(s)
	if err != nil {
		return false
	}
	return isWeb(u) && u.Hostname() != ""
}

// IsRelative reports whether s is a reference without a scheme that
// resolves against a base URL.
func (c *Classifier) IsRelative(s string) bool {
	if !plausible(s) {
		return false
	}
	if _, err := c.parser.Parse(s); err == nil {
		// Parses on its own, so it carries a scheme.
		return false
	}
	_, err := c.parser.ParseRef(probeBase, s)
	return err == nil
}

// Origin returns scheme://host[:port] of rawURL. Default ports are omitted.
func (c *Classifier) Origin(rawURL string) (string, error) {
	u, err := c.parser.Parse(rawURL)
	if err != nil {
		return "", ohscrap.Errorf(ohscrap.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host() == "" {
		return "", ohscrap.Errorf(ohscrap.EINVALID, "URL %q has no host", rawURL)
	}
	return u.Protocol() + "//" + u.Host(), nil
}

// Resolve resolves ref against base.
func (c *Classifier) Resolve(base, ref string) (string, error) {
	u, err := c.parser.ParseRef(base, ref)
	if err != nil {
		return "", ohscrap.Errorf(ohscrap.EINVALID, "cannot resolve %q against %q: %v", ref, base, err)
	}
	return u.Href(false), nil
}

func isWeb(u *url.Url) bool {
	return u.Scheme() == "http" || u.Scheme() == "https"
}

// plausible rejects strings that cannot be a link: empty ones and anything
// containing whitespace or markup characters, such as inline content.
func plausible(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`<>"{}|\^`+"`", r)
	})
}
