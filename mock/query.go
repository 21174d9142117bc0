package mock

import "github.com/fwojciec/ohscrap"

var _ ohscrap.Querier = (*Querier)(nil)

// Querier is a mock implementation of ohscrap.Querier.
type Querier struct {
	ParseFn func(content string) (ohscrap.Document, error)
}

func (q *Querier) Parse(content string) (ohscrap.Document, error) {
	return q.ParseFn(content)
}

var _ ohscrap.Document = (*Document)(nil)

// Document is a mock implementation of ohscrap.Document.
type Document struct {
	QueryFn func(path string) (ohscrap.NodeSet, error)
}

func (d *Document) Query(path string) (ohscrap.NodeSet, error) {
	return d.QueryFn(path)
}
