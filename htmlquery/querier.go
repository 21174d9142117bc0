// Package htmlquery implements ohscrap.Querier for XPath expressions using
// antchfx/htmlquery.
package htmlquery

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/fwojciec/ohscrap"
	"golang.org/x/net/html"
)

// Ensure Querier implements ohscrap.Querier at compile time.
var _ ohscrap.Querier = (*Querier)(nil)

// Querier parses markup into documents queried with XPath.
type Querier struct{}

// NewQuerier creates a new Querier.
func NewQuerier() *Querier {
	return &Querier{}
}

// Parse parses content as HTML.
func (q *Querier) Parse(content string) (ohscrap.Document, error) {
	root, err := htmlquery.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Document is a parsed HTML tree.
type Document struct {
	root *html.Node
}

// Query evaluates the XPath expression path. Attribute steps such as
// //a/@href select the attribute values themselves.
func (d *Document) Query(path string) (ohscrap.NodeSet, error) {
	expr, err := xpath.Compile(path)
	if err != nil {
		return nil, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "invalid XPath expression %q: %v", path, err)
	}
	return NodeSet(htmlquery.QuerySelectorAll(d.root, expr)), nil
}

// NodeSet is the ordered result of a query.
type NodeSet []*html.Node

// Len returns the number of matched nodes.
func (s NodeSet) Len() int {
	return len(s)
}

// Text returns the combined text of node i and its descendants.
func (s NodeSet) Text(i int) string {
	return htmlquery.InnerText(s[i])
}

// Attr returns the named attribute of node i and whether it is set.
func (s NodeSet) Attr(i int, name string) (string, bool) {
	if !htmlquery.ExistsAttr(s[i], name) {
		return "", false
	}
	return htmlquery.SelectAttr(s[i], name), true
}

// ParentHTML returns the inner markup of the parent of node i.
func (s NodeSet) ParentHTML(i int) (string, error) {
	parent := s[i].Parent
	if parent == nil {
		return "", nil
	}
	return htmlquery.OutputHTML(parent, false), nil
}

// OuterHTML returns the markup of node i including its own tag.
func (s NodeSet) OuterHTML(i int) (string, error) {
	return htmlquery.OutputHTML(s[i], true), nil
}
