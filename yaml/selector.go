// Package yaml decodes selectors and crawl jobs written in YAML or JSON.
//
// A selector document is one of three shapes:
//
//	"h1"                          # leaf
//	["a@href", {"title": "h1"}]   # pair: follow the links, evaluate the target
//	{"title": "h1", "tags": ".t"} # mapping, key order preserved
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/fwojciec/ohscrap"
	"gopkg.in/yaml.v3"
)

// ParseSelector decodes a selector from YAML or JSON text and validates it.
func ParseSelector(data []byte) (ohscrap.Selector, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "empty selector")
		}
		return nil, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "parsing selector: %v", err)
	}

	sel, err := DecodeSelector(&node)
	if err != nil {
		return nil, err
	}
	if err := ohscrap.Validate(sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// DecodeSelector converts a YAML node into a selector. Scalars become
// leaves, two-element sequences pairs and mappings mappings.
func DecodeSelector(node *yaml.Node) (ohscrap.Selector, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return nil, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "empty selector")
		}
		return DecodeSelector(node.Content[0])
	case yaml.AliasNode:
		return DecodeSelector(node.Alias)
	case yaml.ScalarNode:
		return decodeLeaf(node)
	case yaml.SequenceNode:
		return decodePair(node)
	case yaml.MappingNode:
		return decodeMapping(node)
	default:
		return nil, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "line %d: unsupported selector node", node.Line)
	}
}

func decodeLeaf(node *yaml.Node) (ohscrap.Leaf, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return ohscrap.Leaf{}, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "line %d: expected a leaf selector", node.Line)
	}
	leaf, err := ohscrap.ParseLeaf(node.Value)
	if err != nil {
		return ohscrap.Leaf{}, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "line %d: %s", node.Line, ohscrap.ErrorMessage(err))
	}
	return leaf, nil
}

func decodePair(node *yaml.Node) (ohscrap.Pair, error) {
	if len(node.Content) != 2 {
		return ohscrap.Pair{}, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "line %d: a pair has exactly two elements, got %d", node.Line, len(node.Content))
	}
	source, err := decodeLeaf(node.Content[0])
	if err != nil {
		return ohscrap.Pair{}, err
	}
	target, err := DecodeSelector(node.Content[1])
	if err != nil {
		return ohscrap.Pair{}, err
	}
	return ohscrap.Pair{Source: source, Target: target}, nil
}

func decodeMapping(node *yaml.Node) (ohscrap.Mapping, error) {
	m := ohscrap.Mapping{Fields: make([]ohscrap.Field, 0, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return ohscrap.Mapping{}, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "line %d: mapping keys must be strings", key.Line)
		}
		sel, err := DecodeSelector(value)
		if err != nil {
			return ohscrap.Mapping{}, err
		}
		m.Fields = append(m.Fields, ohscrap.Field{Key: key.Value, Value: sel})
	}
	return m, nil
}

// EncodeSelector returns the YAML node form of sel, the inverse of
// DecodeSelector.
func EncodeSelector(sel ohscrap.Selector) (*yaml.Node, error) {
	switch s := sel.(type) {
	case ohscrap.Leaf:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.String()}, nil
	case ohscrap.Pair:
		target, err := EncodeSelector(s.Target)
		if err != nil {
			return nil, err
		}
		source, _ := EncodeSelector(s.Source)
		return &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle, Content: []*yaml.Node{source, target}}, nil
	case ohscrap.Mapping:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range s.Fields {
			value, err := EncodeSelector(f.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}, value)
		}
		return node, nil
	default:
		return nil, ohscrap.Errorf(ohscrap.EINVALIDSELECTOR, "selector type %T not valid", sel)
	}
}
