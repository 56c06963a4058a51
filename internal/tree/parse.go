package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Syntax is a source language a Document can be parsed from.
type Syntax string

const (
	SyntaxJSON Syntax = "json"
	SyntaxYAML Syntax = "yaml"
	SyntaxTOML Syntax = "toml"
	SyntaxCUE  Syntax = "cue"
)

// SyntaxForPath infers the syntax from a file extension.
func SyntaxForPath(path string) (Syntax, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc", ".json5":
		return SyntaxJSON, nil
	case ".yaml", ".yml":
		return SyntaxYAML, nil
	case ".toml":
		return SyntaxTOML, nil
	case ".cue":
		return SyntaxCUE, nil
	default:
		return "", fmt.Errorf("cannot infer syntax of %q: unsupported extension", path)
	}
}

// SyntaxError reports a source that is not well-formed in its syntax.
type SyntaxError struct {
	Syntax  Syntax
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Pos, e.Syntax, e.Message)
}

// Parse parses data in the given syntax. file is only used for positions.
func Parse(data []byte, syntax Syntax, file string) (*Document, error) {
	switch syntax {
	case SyntaxJSON:
		return parseJSON(data, file)
	case SyntaxYAML:
		return parseYAML(data, file)
	case SyntaxTOML:
		return parseTOML(data, file)
	case SyntaxCUE:
		return parseCUE(data, file)
	default:
		return nil, fmt.Errorf("unknown syntax %q", syntax)
	}
}

// ParseString parses an inline snippet. JSON is tried when the text starts
// with '{' or '['; YAML otherwise, which also accepts flow-style JSON.
func ParseString(text string) (*Document, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if doc, err := parseJSON([]byte(trimmed), "<inline>"); err == nil {
			return doc, nil
		}
	}
	return parseYAML([]byte(text), "<inline>")
}

// JSON

type jsonParser struct {
	data []byte
	dec  *json.Decoder
	doc  *Document
}

func parseJSON(data []byte, file string) (*Document, error) {
	// jsonc.ToJSON blanks out comments and trailing commas without shifting
	// offsets, so positions still refer to the original text.
	clean := jsonc.ToJSON(data)
	p := &jsonParser{
		data: clean,
		dec:  json.NewDecoder(bytes.NewReader(clean)),
		doc:  &Document{File: file, positions: map[string]Position{}},
	}
	p.dec.UseNumber()

	if len(bytes.TrimSpace(clean)) == 0 {
		p.doc.Root = Null{}
		return p.doc, nil
	}

	root, err := p.value(nil, true)
	if err != nil {
		return nil, p.wrap(err)
	}
	if _, err := p.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &SyntaxError{Syntax: SyntaxJSON, Pos: p.pos(p.dec.InputOffset()), Message: "unexpected data after top-level value"}
	}
	p.doc.Root = root
	return p.doc, nil
}

func (p *jsonParser) wrap(err error) error {
	var se *SyntaxError
	if errors.As(err, &se) {
		return err
	}
	var jse *json.SyntaxError
	if errors.As(err, &jse) {
		return &SyntaxError{Syntax: SyntaxJSON, Pos: p.pos(jse.Offset), Message: jse.Error()}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return &SyntaxError{Syntax: SyntaxJSON, Pos: p.pos(int64(len(p.data))), Message: "unexpected end of input"}
	}
	return &SyntaxError{Syntax: SyntaxJSON, Pos: Position{File: p.doc.File}, Message: err.Error()}
}

// pos converts a byte offset into a line/column, skipping separators so the
// position lands on the next token.
func (p *jsonParser) pos(off int64) Position {
	i := int(off)
	for i < len(p.data) {
		switch p.data[i] {
		case ' ', '\t', '\r', '\n', ',', ':':
			i++
			continue
		}
		break
	}
	line, col := 1, 1
	for _, c := range p.data[:min(i, len(p.data))] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{File: p.doc.File, Line: line, Column: col}
}

func (p *jsonParser) value(path Path, mark bool) (Value, error) {
	if mark {
		p.doc.positions[path.String()] = p.pos(p.dec.InputOffset())
	}
	tok, err := p.dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for p.dec.More() {
				keyPos := p.pos(p.dec.InputOffset())
				keyTok, err := p.dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, &SyntaxError{Syntax: SyntaxJSON, Pos: keyPos, Message: "object key must be a string"}
				}
				p.doc.positions[path.Key(key).String()] = keyPos
				elem, err := p.value(path.Key(key), false)
				if err != nil {
					return nil, err
				}
				obj.Set(key, elem)
			}
			if _, err := p.dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array{}
			for i := 0; p.dec.More(); i++ {
				elem, err := p.value(path.Index(i), true)
				if err != nil {
					return nil, err
				}
				arr = append(arr, elem)
			}
			if _, err := p.dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, &SyntaxError{Syntax: SyntaxJSON, Pos: p.pos(p.dec.InputOffset()), Message: fmt.Sprintf("unexpected %q", t)}
		}
	case nil:
		return Null{}, nil
	default:
		return FromAny(t)
	}
}

// YAML

const maxAliasDepth = 64

type yamlParser struct {
	doc   *Document
	depth int
}

func parseYAML(data []byte, file string) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &SyntaxError{Syntax: SyntaxYAML, Pos: Position{File: file}, Message: strings.TrimPrefix(err.Error(), "yaml: ")}
	}
	p := &yamlParser{doc: &Document{File: file, positions: map[string]Position{}}}
	if node.Kind == 0 {
		p.doc.Root = Null{}
		return p.doc, nil
	}
	root, err := p.convert(&node, nil)
	if err != nil {
		return nil, err
	}
	p.doc.Root = root
	return p.doc, nil
}

func (p *yamlParser) errorf(n *yaml.Node, format string, args ...any) error {
	return &SyntaxError{
		Syntax:  SyntaxYAML,
		Pos:     Position{File: p.doc.File, Line: n.Line, Column: n.Column},
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *yamlParser) convert(n *yaml.Node, path Path) (Value, error) {
	p.doc.record(path, Position{Line: n.Line, Column: n.Column})
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return p.convert(n.Content[0], path)
	case yaml.AliasNode:
		p.depth++
		defer func() { p.depth-- }()
		if p.depth > maxAliasDepth || n.Alias == nil {
			return nil, p.errorf(n, "alias %q nests too deeply", n.Value)
		}
		return p.convert(n.Alias, path)
	case yaml.ScalarNode:
		return p.scalar(n)
	case yaml.SequenceNode:
		arr := make(Array, 0, len(n.Content))
		for i, child := range n.Content {
			elem, err := p.convert(child, path.Index(i))
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case yaml.MappingNode:
		return p.mapping(n, path)
	default:
		return nil, p.errorf(n, "unsupported node kind %d", n.Kind)
	}
}

func (p *yamlParser) mapping(n *yaml.Node, path Path) (*Object, error) {
	obj := NewObject()
	// Merge keys (<<) supply defaults; explicit keys override them regardless
	// of where they appear in the mapping.
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.ShortTag() != "!!merge" {
			continue
		}
		sources := []*yaml.Node{val}
		if resolved := resolveAlias(val); resolved.Kind == yaml.SequenceNode {
			sources = resolved.Content
		}
		for _, src := range sources {
			merged, err := p.convert(src, path)
			if err != nil {
				return nil, err
			}
			mo, ok := merged.(*Object)
			if !ok {
				return nil, p.errorf(src, "merge key value must be a mapping")
			}
			_ = mo.Each(func(k string, v Value) error {
				if !obj.Has(k) {
					obj.Set(k, v)
				}
				return nil
			})
		}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.ShortTag() == "!!merge" {
			continue
		}
		k := resolveAlias(key)
		if k.Kind != yaml.ScalarNode {
			return nil, p.errorf(key, "mapping keys must be scalars")
		}
		child := path.Key(k.Value)
		elem, err := p.convert(val, child)
		if err != nil {
			return nil, err
		}
		p.doc.record(child, Position{Line: key.Line, Column: key.Column})
		obj.Set(k.Value, elem)
	}
	return obj, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for depth := 0; n.Kind == yaml.AliasNode && n.Alias != nil && depth < maxAliasDepth; depth++ {
		n = n.Alias
	}
	return n
}

func (p *yamlParser) scalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, p.errorf(n, "invalid boolean %q", n.Value)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return nil, p.errorf(n, "invalid integer %q", n.Value)
			}
			return Float(f), nil
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, p.errorf(n, "invalid float %q", n.Value)
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

// TOML

// parseTOML validates the document with the decoder, then rebuilds it from the
// parser's expression stream so tables and keys keep their document order.
func parseTOML(data []byte, file string) (*Document, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		pos := Position{File: file}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pos.Line, pos.Column = derr.Position()
		}
		return nil, &SyntaxError{Syntax: SyntaxTOML, Pos: pos, Message: err.Error()}
	}

	t := &tomlBuilder{data: data, doc: &Document{File: file, positions: map[string]Position{}}}
	root := NewObject()
	t.doc.Root = root
	t.parser.Reset(data)

	current, path := root, Path{}
	for t.parser.NextExpression() {
		expr := t.parser.Expression()
		var err error
		switch expr.Kind {
		case unstable.Table:
			current, path, err = t.table(root, expr.Key())
		case unstable.ArrayTable:
			current, path, err = t.arrayTable(root, expr.Key())
		case unstable.KeyValue:
			err = t.keyValue(current, path, expr)
		}
		if err != nil {
			return nil, &SyntaxError{Syntax: SyntaxTOML, Pos: Position{File: file}, Message: err.Error()}
		}
	}
	if err := t.parser.Error(); err != nil {
		return nil, &SyntaxError{Syntax: SyntaxTOML, Pos: Position{File: file}, Message: err.Error()}
	}
	return t.doc, nil
}

type tomlBuilder struct {
	data   []byte
	parser unstable.Parser
	doc    *Document
}

func (t *tomlBuilder) mark(path Path, key *unstable.Node) {
	if key.Raw.Length == 0 {
		return
	}
	off := min(int(key.Raw.Offset), len(t.data))
	line, col := 1, 1
	for _, c := range t.data[:off] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	t.doc.record(path, Position{Line: line, Column: col})
}

// descend returns the table stored under key, creating it when missing. A key
// holding an array of tables resolves to its last element.
func (t *tomlBuilder) descend(obj *Object, path Path, key *unstable.Node) (*Object, Path, error) {
	name := string(key.Data)
	child := path.Key(name)
	existing, ok := obj.Get(name)
	if !ok {
		next := NewObject()
		obj.Set(name, next)
		t.mark(child, key)
		return next, child, nil
	}
	switch v := existing.(type) {
	case *Object:
		return v, child, nil
	case Array:
		if len(v) > 0 {
			if last, ok := v[len(v)-1].(*Object); ok {
				return last, child.Index(len(v) - 1), nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%s is not a table", child)
}

func (t *tomlBuilder) table(root *Object, keys unstable.Iterator) (*Object, Path, error) {
	current, path := root, Path{}
	for keys.Next() {
		var err error
		current, path, err = t.descend(current, path, keys.Node())
		if err != nil {
			return nil, nil, err
		}
	}
	return current, path, nil
}

func (t *tomlBuilder) arrayTable(root *Object, keys unstable.Iterator) (*Object, Path, error) {
	current, path := root, Path{}
	for keys.Next() {
		key := keys.Node()
		if !keys.IsLast() {
			var err error
			current, path, err = t.descend(current, path, key)
			if err != nil {
				return nil, nil, err
			}
			continue
		}
		name := string(key.Data)
		child := path.Key(name)
		var arr Array
		if existing, ok := current.Get(name); ok {
			if arr, ok = existing.(Array); !ok {
				return nil, nil, fmt.Errorf("%s is not an array of tables", child)
			}
		} else {
			t.mark(child, key)
		}
		elem := NewObject()
		current.Set(name, append(arr, elem))
		current, path = elem, child.Index(len(arr))
	}
	return current, path, nil
}

func (t *tomlBuilder) keyValue(obj *Object, path Path, expr *unstable.Node) error {
	keys := expr.Key()
	for keys.Next() {
		key := keys.Node()
		if !keys.IsLast() {
			var err error
			obj, path, err = t.descend(obj, path, key)
			if err != nil {
				return err
			}
			continue
		}
		child := path.Key(string(key.Data))
		t.mark(child, key)
		v, err := t.value(expr.Value(), child)
		if err != nil {
			return err
		}
		obj.Set(string(key.Data), v)
	}
	return nil
}

func (t *tomlBuilder) value(n *unstable.Node, path Path) (Value, error) {
	text := string(n.Data)
	switch n.Kind {
	case unstable.String:
		return String(text), nil
	case unstable.Bool:
		return Bool(text == "true"), nil
	case unstable.Integer:
		i, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", path, text)
		}
		return Int(i), nil
	case unstable.Float:
		if strings.HasSuffix(text, "nan") {
			return Float(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid float %q", path, text)
		}
		return Float(f), nil
	case unstable.DateTime:
		if ts, err := time.Parse(time.RFC3339Nano, strings.Replace(strings.ToUpper(text), " ", "T", 1)); err == nil {
			return String(ts.Format(time.RFC3339Nano)), nil
		}
		return String(text), nil
	case unstable.LocalDate, unstable.LocalTime, unstable.LocalDateTime:
		return String(text), nil
	case unstable.Array:
		arr := Array{}
		for it := n.Children(); it.Next(); {
			elem, err := t.value(it.Node(), path.Index(len(arr)))
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case unstable.InlineTable:
		obj := NewObject()
		for it := n.Children(); it.Next(); {
			if err := t.keyValue(obj, path, it.Node()); err != nil {
				return nil, err
			}
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%s: unsupported %s value", path, n.Kind)
	}
}

// CUE

func parseCUE(data []byte, file string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(file))
	if err := v.Err(); err != nil {
		return nil, cueSyntaxError(err, file)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueSyntaxError(err, file)
	}
	js, err := v.MarshalJSON()
	if err != nil {
		return nil, cueSyntaxError(err, file)
	}
	doc, err := parseJSON(js, file)
	if err != nil {
		return nil, err
	}
	// Offsets point into the exported JSON, not the CUE source.
	doc.positions = map[string]Position{}
	return doc, nil
}

func cueSyntaxError(err error, file string) error {
	pos := Position{File: file}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		if p := errs[0].Position(); p.IsValid() {
			pos.Line, pos.Column = p.Line(), p.Column()
		}
	}
	return &SyntaxError{Syntax: SyntaxCUE, Pos: pos, Message: err.Error()}
}
