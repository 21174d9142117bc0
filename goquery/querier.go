// Package goquery implements ohscrap.Querier for CSS selectors using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/ohscrap"
)

// Ensure Querier implements ohscrap.Querier at compile time.
var _ ohscrap.Querier = (*Querier)(nil)

// Querier parses markup into documents queried with CSS selectors.
type Querier struct{}

// NewQuerier creates a new Querier.
func NewQuerier() *Querier {
	return &Querier{}
}

// Parse parses content as HTML. Fragments are wrapped in a document the
// way a browser would.
func (q *Querier) Parse(content string) (ohscrap.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// Document is a parsed HTML document.
type Document struct {
	doc *goquery.Document
}

// Query returns the elements matching the CSS selector path. The selector
// is compiled first so a malformed one is reported instead of matching
// nothing.
func (d *Document) Query(path string) (ohscrap.NodeSet, error) {
	m, err := cascadia.Compile(path)
	if err != nil {
		return nil, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "invalid CSS selector %q: %v", path, err)
	}
	return &NodeSet{sel: d.doc.FindMatcher(m)}, nil
}

// NodeSet is the ordered result of a query.
type NodeSet struct {
	sel *goquery.Selection
}

// Len returns the number of matched nodes.
func (s *NodeSet) Len() int {
	return s.sel.Length()
}

// Text returns the combined text of node i and its descendants.
func (s *NodeSet) Text(i int) string {
	return s.sel.Eq(i).Text()
}

// Attr returns the named attribute of node i and whether it is set.
func (s *NodeSet) Attr(i int, name string) (string, bool) {
	return s.sel.Eq(i).Attr(name)
}

// ParentHTML returns the inner markup of the parent of node i.
func (s *NodeSet) ParentHTML(i int) (string, error) {
	return s.sel.Eq(i).Parent().Html()
}

// OuterHTML returns the markup of node i including its own tag.
func (s *NodeSet) OuterHTML(i int) (string, error) {
	return goquery.OuterHtml(s.sel.Eq(i))
}
