package ohscrap

import (
	"regexp"
	"strings"
)

// Reserved leaf directives. Any other directive names an attribute.
const (
	DirectiveText     = ""
	DirectiveHTML     = "HTML"
	DirectiveURL      = "URL"
	DirectiveMarkdown = "MARKDOWN"
)

// Selector describes what to extract from a page. It is one of Leaf,
// Mapping or Pair.
type Selector interface {
	selector()
}

// Leaf queries a path and extracts one scalar per matched node.
type Leaf struct {
	Path      string
	Directive string
}

// Field is a named entry of a Mapping.
type Field struct {
	Key   string
	Value Selector
}

// Mapping evaluates each field against the same page and returns an object
// with the same keys in the same order.
type Mapping struct {
	Fields []Field
}

// Pair extracts locations with Source and evaluates Target against each of
// the pages they point to.
type Pair struct {
	Source Leaf
	Target Selector
}

func (Leaf) selector()    {}
func (Mapping) selector() {}
func (Pair) selector()    {}

var directiveRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_:.-]*$`)

// ParseLeaf parses the textual leaf form "path" or "path@directive".
//
// The directive is taken from the last '@' only when it is a plain token
// and the '@' does not start an XPath attribute step, so "//a/@href" and
// "//a[@id='x']" stay whole paths.
func ParseLeaf(s string) (Leaf, error) {
	leaf := Leaf{Path: s}
	if i := strings.LastIndex(s, "@"); i > 0 {
		path, directive := s[:i], s[i+1:]
		if directiveRe.MatchString(directive) && !strings.ContainsRune("/[(,|= ", rune(path[len(path)-1])) {
			leaf = Leaf{Path: path, Directive: directive}
		}
	}
	if strings.TrimSpace(leaf.Path) == "" {
		return Leaf{}, Errorf(EINVALIDSELECTOR, "empty path in leaf selector %q", s)
	}
	return leaf, nil
}

// MustParseLeaf is like ParseLeaf but panics on error.
func MustParseLeaf(s string) Leaf {
	leaf, err := ParseLeaf(s)
	if err != nil {
		panic(err)
	}
	return leaf
}

// String returns the textual form of the leaf.
func (l Leaf) String() string {
	if l.Directive == "" {
		return l.Path
	}
	return l.Path + "@" + l.Directive
}

// Get returns the selector stored under key.
func (m Mapping) Get(key string) (Selector, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the mapping keys in declaration order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Validate checks that sel and everything below it is a well-formed
// selector tree.
func Validate(sel Selector) error {
	switch s := sel.(type) {
	case Leaf:
		if strings.TrimSpace(s.Path) == "" {
			return Errorf(EINVALIDSELECTOR, "empty path in leaf selector")
		}
		return nil
	case Mapping:
		seen := make(map[string]bool, len(s.Fields))
		for _, f := range s.Fields {
			if f.Key == "" {
				return Errorf(EINVALIDSELECTOR, "empty mapping key")
			}
			if seen[f.Key] {
				return Errorf(EINVALIDSELECTOR, "duplicate mapping key %q", f.Key)
			}
			seen[f.Key] = true
			if err := Validate(f.Value); err != nil {
				return err
			}
		}
		return nil
	case Pair:
		if err := Validate(s.Source); err != nil {
			return err
		}
		if s.Target == nil {
			return Errorf(EINVALIDSELECTOR, "pair %q has no target", s.Source)
		}
		return Validate(s.Target)
	case nil:
		return Errorf(EINVALIDSELECTOR, "selector is nil")
	default:
		return Errorf(EINVALIDSELECTOR, "selector type %T not valid", sel)
	}
}
