package flagbind

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileSource is the optional YAML value layer, consulted after environment
// variables and before defaults. Only top-level scalar and sequence entries
// are meaningful; nested mappings are rejected per field, since nested
// structured config is out of scope.
type fileSource struct {
	path  string
	nodes map[string]yaml.Node
}

// fileValue is one entry's raw form: a scalar string or sequence elements.
type fileValue struct {
	raw   string
	items []string
	isSeq bool
}

func (v *fileValue) String() string {
	if v.isSeq {
		return "[" + strings.Join(v.items, ", ") + "]"
	}
	return v.raw
}

func loadFileSource(path string) (*fileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	nodes := make(map[string]yaml.Node)
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fileSource{path: path, nodes: nodes}, nil
}

// lookup returns the entry for a field name, or nil when the file has none.
func (f *fileSource) lookup(name string) (*fileValue, error) {
	node, ok := f.nodes[name]
	if !ok {
		return nil, nil
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return &fileValue{raw: node.Value}, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("field %s: nested values are not supported", name)
			}
			items = append(items, item.Value)
		}
		return &fileValue{items: items, isSeq: true}, nil
	default:
		return nil, fmt.Errorf("field %s: nested values are not supported", name)
	}
}
