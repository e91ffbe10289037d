package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/syssam/icetype"
)

// FromYAML reads schema definitions from YAML or JSON. A document may hold
// a single definition mapping or a sequence of them, and multiple documents
// are allowed. Key order is preserved.
func FromYAML(data []byte) ([]*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var defs []*Definition
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return defs, nil
			}
			return nil, fmt.Errorf("icetype: decode definitions: %w", err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		root := doc.Content[0]
		switch root.Kind {
		case yaml.MappingNode:
			def, err := definitionOf(root)
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
		case yaml.SequenceNode:
			for _, item := range root.Content {
				if item.Kind != yaml.MappingNode {
					return nil, nodeError(icetype.CodeInvalidFieldDefinition, item, "schema definition must be a mapping")
				}
				def, err := definitionOf(item)
				if err != nil {
					return nil, err
				}
				defs = append(defs, def)
			}
		default:
			return nil, nodeError(icetype.CodeInvalidFieldDefinition, root, "document must be a mapping or a sequence of mappings")
		}
	}
}

func definitionOf(n *yaml.Node) (*Definition, error) {
	items, err := mapSliceOf(n)
	if err != nil {
		return nil, err
	}
	def, err := FromMapSlice(items)
	if err != nil {
		var perr *icetype.ParseError
		if errors.As(err, &perr) {
			if at := valueNode(n, perr.Path); at != nil {
				perr.Line, perr.Column = at.Line, at.Column
			}
		}
		return nil, err
	}
	return def, nil
}

// valueNode returns the value node stored under key in a mapping node.
func valueNode(n *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			found = n.Content[i+1]
		}
	}
	return found
}

func mapSliceOf(n *yaml.Node) (MapSlice, error) {
	items := make(MapSlice, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, nodeError(icetype.CodeInvalidFieldDefinition, k, "mapping keys must be strings")
		}
		value, err := valueOf(v)
		if err != nil {
			return nil, err
		}
		items = append(items, MapItem{Key: k.Value, Value: value})
	}
	return items, nil
}

func valueOf(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return valueOf(n.Alias)
	case yaml.MappingNode:
		return mapSliceOf(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := valueOf(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, nodeError(icetype.CodeInvalidFieldDefinition, n, err.Error())
		}
		return v, nil
	}
}

func nodeError(code icetype.Code, n *yaml.Node, msg string) *icetype.ParseError {
	return icetype.NewParseErrorAt(code, n.Line, n.Column, n.Value, msg)
}
