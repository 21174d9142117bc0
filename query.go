package ohscrap

// Querier parses markup into a queryable document. The path dialect (CSS
// or XPath) is a property of the implementation.
type Querier interface {
	Parse(content string) (Document, error)
}

// Document is parsed markup. It is read-only and safe for concurrent queries.
type Document interface {
	// Query returns the nodes matching path in document order. An invalid
	// path is an error; a valid path with no match is an empty set.
	Query(path string) (NodeSet, error)
}

// NodeSet is an ordered set of matched nodes addressed by index.
type NodeSet interface {
	Len() int

	// Text returns the combined text content of node i.
	Text(i int) string

	// Attr returns the named attribute of node i and whether it exists.
	Attr(i int, name string) (string, bool)

	// ParentHTML returns the inner markup of the parent of node i.
	ParentHTML(i int) (string, error)

	// OuterHTML returns the markup of node i itself.
	OuterHTML(i int) (string, error)
}
