package jsonschema

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/yaml"
)

// ResolveYAML parses data as a YAML schema document, converts it to the JSON
// value model and resolves it like Resolve.
func ResolveYAML(data []byte, opts ...Option) (*Root, error) {
	doc, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}
	return ResolveNode(doc, opts...)
}

// ValidateYAML checks a YAML instance document against the resolved schema in
// root.
func ValidateYAML(root *Root, data []byte) error {
	n, err := decodeYAML(data)
	if err != nil {
		return err
	}
	raw, err := n.MarshalJSON()
	if err != nil {
		return err
	}
	return Validate(root, raw)
}

func decodeYAML(data []byte) (*Node, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	return yamlNode(&n)
}

func yamlNode(n *yaml.Node) (*Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &Node{kind: KindScalar, scalar: jx.Raw("null")}, nil
		}
		return yamlNode(n.Content[0])
	case yaml.AliasNode:
		return yamlNode(n.Alias)
	case yaml.MappingNode:
		if len(n.Content)%2 != 0 {
			return nil, errors.New("malformed mapping node")
		}
		fields := make(map[string]*Node, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, errors.Wrap(err, "mapping key")
			}
			val, err := yamlNode(n.Content[i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "%q", key)
			}
			fields[key] = val
		}
		return &Node{kind: KindObject, fields: fields}, nil
	case yaml.SequenceNode:
		elems := make([]*Node, len(n.Content))
		for i, c := range n.Content {
			el, err := yamlNode(c)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			elems[i] = el
		}
		return &Node{kind: KindArray, elems: elems}, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, errors.Errorf("unexpected node kind %v", n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (*Node, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "scalar")
	}
	var e jx.Encoder
	switch v := v.(type) {
	case nil:
		e.Null()
	case bool:
		e.Bool(v)
	case string:
		e.Str(v)
	case int:
		e.Int(v)
	case int64:
		e.Int64(v)
	case uint64:
		e.UInt64(v)
	case float64:
		e.Float64(v)
	default:
		return nil, errors.Errorf("unsupported scalar %q (%s)", n.Value, n.Tag)
	}
	return &Node{kind: KindScalar, scalar: jx.Raw(e.Bytes())}, nil
}
