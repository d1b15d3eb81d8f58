package schematools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var jsonNumberPattern = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// Decode parses a JSON or YAML document. Input whose first significant
// character is '{' or '[' is read as JSON, anything else as YAML.
func Decode(data []byte) (Value, error) {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return DecodeJSON(trimmed)
	}
	return DecodeYAML(data)
}

// DecodeJSON parses a single JSON document into a Value tree, keeping object
// key order and number literals as written.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("invalid JSON: trailing data")
		}
		return nil, err
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid JSON: object key %v is not a string", keyTok)
				}
				if obj.Has(key) {
					return nil, fmt.Errorf("invalid JSON: duplicate object key %q", key)
				}
				child, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array{}
			for dec.More() {
				child, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("invalid JSON: unexpected delimiter %q", rune(t))
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("invalid JSON: unexpected token %v", tok)
	}
}

// DecodeYAML parses a single YAML document into a Value tree. Mapping order
// is kept and aliases are expanded.
func DecodeYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind == 0 {
		return nil, errors.New("invalid YAML: empty document")
	}
	return fromYAMLNode(&doc, 0)
}

const maxYAMLDepth = 1000

func fromYAMLNode(n *yaml.Node, depth int) (Value, error) {
	if depth > maxYAMLDepth {
		return nil, errors.New("invalid YAML: document nested too deeply")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, errors.New("invalid YAML: empty document")
		}
		return fromYAMLNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("invalid YAML: unresolved alias at line %d", n.Line)
		}
		return fromYAMLNode(n.Alias, depth+1)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("invalid YAML: non-scalar mapping key at line %d", keyNode.Line)
			}
			if obj.Has(keyNode.Value) {
				return nil, fmt.Errorf("invalid YAML: duplicate mapping key %q at line %d", keyNode.Value, keyNode.Line)
			}
			child, err := fromYAMLNode(valueNode, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, child)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make(Array, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := fromYAMLNode(item, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, child)
		}
		return arr, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return nil, fmt.Errorf("invalid YAML: unsupported node kind %d at line %d", n.Kind, n.Line)
	}
}

func fromYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("invalid YAML boolean at line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		if jsonNumberPattern.MatchString(n.Value) {
			return Number(n.Value), nil
		}
		// YAML-only spellings (0x1f, 1_000, .5) are normalized.
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("invalid YAML number at line %d: %w", n.Line, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("invalid YAML number at line %d: %s has no JSON representation", n.Line, n.Value)
		}
		return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return String(n.Value), nil
	}
}

// EncodeJSON writes v as JSON followed by a newline. Keys are written in
// insertion order; indent "" produces compact output.
func EncodeJSON(w io.Writer, v Value, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(jsonValue{v})
}

// EncodeYAML writes v as a YAML document.
func EncodeYAML(w io.Writer, v Value, indent int) error {
	enc := yaml.NewEncoder(w)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(toYAMLNode(v)); err != nil {
		return err
	}
	return enc.Close()
}

// jsonValue adapts any Value to json.Marshaler.
type jsonValue struct{ v Value }

func (j jsonValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, j.v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Object) MarshalJSON() ([]byte, error) { return jsonValue{o}.MarshalJSON() }
func (a Array) MarshalJSON() ([]byte, error)   { return jsonValue{a}.MarshalJSON() }

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case *Object:
		buf.WriteByte('{')
		i := 0
		for k, child := range x.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, child := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case String:
		return writeJSONString(buf, string(x))
	case Number:
		if !jsonNumberPattern.MatchString(string(x)) {
			return fmt.Errorf("invalid JSON number %q", string(x))
		}
		buf.WriteString(string(x))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case Null, nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func toYAMLNode(v Value) *yaml.Node {
	switch x := v.(type) {
	case *Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, child := range x.All() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				toYAMLNode(child),
			)
		}
		return n
	case Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, child := range x {
			n.Content = append(n.Content, toYAMLNode(child))
		}
		return n
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(x)}
	case Number:
		tag := "!!int"
		if bytes.ContainsAny([]byte(x), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(x)}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(x))}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
