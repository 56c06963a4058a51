package serialize

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sketch/internal/tree"
)

// MarshalYAML renders v as block-style YAML with two-space indentation.
// Multi-line strings become literal blocks; strings that would read back as
// another type are quoted.
func MarshalYAML(v tree.Value) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{node}}); err != nil {
		return nil, fmt.Errorf("serialize: yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("serialize: yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(v tree.Value) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil, tree.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case tree.String:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(val)}
		if strings.Contains(string(val), "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n, nil
	case tree.Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(val), 10)}, nil
	case tree.Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(float64(val))}, nil
	case tree.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(val))}, nil
	case tree.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range val {
			child, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		if len(val) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n, nil
	case *tree.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		err := val.Each(func(key string, elem tree.Value) error {
			child, err := yamlNode(elem)
			if err != nil {
				return err
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				child)
			return nil
		})
		if err != nil {
			return nil, err
		}
		if val.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		return n, nil
	default:
		return nil, fmt.Errorf("serialize: unsupported value %T", v)
	}
}

func yamlFloat(f float64) string {
	switch s := tree.FormatFloat(f); s {
	case "inf":
		return ".inf"
	case "-inf":
		return "-.inf"
	case "nan":
		return ".nan"
	default:
		return s
	}
}
