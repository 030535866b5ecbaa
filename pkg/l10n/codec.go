package l10n

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxDecodeNodes bounds the number of nodes produced while expanding YAML
// aliases, so that a crafted file cannot blow up memory.
const maxDecodeNodes = 1 << 20

var errTooManyNodes = errors.New("document expands to too many nodes")

// DecodeFunc decodes a document body into a tree.
type DecodeFunc func(data []byte) (Value, error)

// decoders maps lowercase file extensions to decoders.
var decoders = map[string]DecodeFunc{
	".yml":  DecodeYAML,
	".yaml": DecodeYAML,
	".json": DecodeJSON,
}

// DecoderFor returns the decoder registered for a file extension
// (".yml", ".yaml" or ".json", case-insensitive).
func DecoderFor(ext string) (DecodeFunc, bool) {
	dec, ok := decoders[strings.ToLower(ext)]
	return dec, ok
}

// DecodeFile decodes a translation file and derives the document's tag from
// the file stem, so "l10n/de-DE.yml" becomes a document for de-DE.
func DecodeFile(name string, data []byte) (Document, error) {
	ext := path.Ext(name)
	dec, ok := DecoderFor(ext)
	if !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}

	stem := strings.TrimSuffix(path.Base(name), ext)
	tag, err := ParseTag(stem)
	if err != nil || tag.IsWildcard() {
		return Document{}, fmt.Errorf("%w: %q: file name is not a language tag", ErrInvalidFile, name)
	}

	tree, err := dec(data)
	if err != nil {
		return Document{}, fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, name, err)
	}

	return Document{Tag: tag, Tree: tree}, nil
}

// DecodeYAML decodes a YAML document. Mapping order is preserved, aliases
// and merge keys ("<<") are expanded, and an empty document yields an empty
// mapping.
func DecodeYAML(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return NewMapping(0), nil
	}
	d := &yamlDecoder{}
	return d.decode(&root)
}

type yamlDecoder struct {
	nodes int
}

func (d *yamlDecoder) decode(n *yaml.Node) (Value, error) {
	d.nodes++
	if d.nodes > maxDecodeNodes {
		return nil, errTooManyNodes
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewMapping(0), nil
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return Null{}, nil
		}
		return Scalar(n.Value), nil
	case yaml.SequenceNode:
		out := make(Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return d.decodeMapping(n)
	default:
		return nil, fmt.Errorf("unexpected yaml node kind %d at line %d", n.Kind, n.Line)
	}
}

func (d *yamlDecoder) decodeMapping(n *yaml.Node) (Value, error) {
	out := NewMapping(len(n.Content) / 2)
	explicit := make(map[string]bool, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			if err := d.mergeInto(out, explicit, valNode); err != nil {
				return nil, err
			}
			continue
		}

		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("non-scalar mapping key at line %d", keyNode.Line)
		}

		v, err := d.decode(valNode)
		if err != nil {
			return nil, err
		}
		out.Set(keyNode.Value, v)
		explicit[keyNode.Value] = true
	}

	return out, nil
}

// mergeInto applies a YAML merge key. Keys written explicitly in the
// mapping always win over merged ones.
func (d *yamlDecoder) mergeInto(out *Mapping, explicit map[string]bool, n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}

	for _, src := range sources {
		v, err := d.decode(src)
		if err != nil {
			return err
		}
		m, ok := v.(*Mapping)
		if !ok {
			return fmt.Errorf("merge key at line %d must reference a mapping", n.Line)
		}
		for k, item := range m.All() {
			if explicit[k] {
				continue
			}
			if _, exists := out.Get(k); !exists {
				out.Set(k, item)
			}
		}
	}

	return nil
}

// EncodeYAML encodes v as YAML, keeping mapping order.
func EncodeYAML(v Value) ([]byte, error) {
	return yaml.Marshal(toYAMLNode(v))
}

func toYAMLNode(v Value) *yaml.Node {
	switch tv := v.(type) {
	case nil, Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Scalar:
		n := &yaml.Node{Kind: yaml.ScalarNode, Value: string(tv)}
		// Plain scalars that read back as null must be quoted.
		switch tv {
		case "", "~", "null", "Null", "NULL":
			n.Tag = "!!str"
		}
		return n
	case Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range tv {
			n.Content = append(n.Content, toYAMLNode(item))
		}
		return n
	case *Mapping:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for k, item := range tv.All() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				toYAMLNode(item),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// DecodeJSON decodes a JSON document, preserving object key order.
// Numbers and booleans become scalars holding their literal text.
// Blank input yields an empty mapping.
func DecodeJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewMapping(0), nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec, 0)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	return v, nil
}

func decodeJSONValue(dec *json.Decoder, depth int) (Value, error) {
	if depth > 10000 {
		return nil, errTooManyNodes
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			out := NewMapping(0)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				out.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		case '[':
			out := Sequence{}
			for dec.More() {
				v, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return Scalar(t), nil
	case json.Number:
		return Scalar(t.String()), nil
	case bool:
		return Scalar(strconv.FormatBool(t)), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// EncodeJSON encodes v as compact JSON, keeping mapping order.
// HTML characters in strings are not escaped.
func EncodeJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch tv := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Scalar:
		return writeJSONString(buf, string(tv))
	case Sequence:
		buf.WriteByte('[')
		for i, item := range tv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Mapping:
		buf.WriteByte('{')
		i := 0
		for k, item := range tv.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// ValueMarshaler serializes trees for byte-oriented cache backends.
// It satisfies cache.Marshaler[Value].
type ValueMarshaler struct{}

// Marshal encodes v as JSON.
func (ValueMarshaler) Marshal(v Value) ([]byte, error) {
	return EncodeJSON(v)
}

// Unmarshal decodes JSON produced by Marshal.
func (ValueMarshaler) Unmarshal(data []byte) (Value, error) {
	return DecodeJSON(data)
}
