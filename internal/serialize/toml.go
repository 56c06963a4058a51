package serialize

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/sketch/internal/tree"
)

const (
	inlineMaxFields   = 3
	arrayMaxInline    = 4
	arrayMaxWidth     = 50
	tomlArrayIndent   = "    "
	dependencyVersion = "version"
)

// TOMLOptions tunes the TOML emitter.
type TOMLOptions struct {
	// DependencyTable reports whether the table at path holds dependency
	// entries. Dependency-shaped entries of such tables are always written
	// inline, whatever their size.
	DependencyTable func(path []string) bool
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// MarshalTOML renders an object as TOML. Top-level objects become table
// sections; nested objects are written inline when they are small or
// dependency-shaped, and as sub-tables otherwise. Long arrays are expanded one
// element per line.
func MarshalTOML(v tree.Value, opts TOMLOptions) ([]byte, error) {
	root, ok := v.(*tree.Object)
	if !ok {
		return nil, fmt.Errorf("serialize: toml document must be a table, got %s", kindOf(v))
	}
	e := &tomlEmitter{opts: opts}
	if err := e.table(nil, root); err != nil {
		return nil, err
	}
	return bytes.TrimLeft(e.buf.Bytes(), "\n"), nil
}

type tomlEmitter struct {
	buf  bytes.Buffer
	opts TOMLOptions
}

type tomlEntry struct {
	key   string
	value tree.Value
}

func (e *tomlEmitter) table(path []string, obj *tree.Object) error {
	var plain, tables, arrays []tomlEntry
	_ = obj.Each(func(key string, v tree.Value) error {
		switch val := v.(type) {
		case tree.Null:
		case *tree.Object:
			if path != nil && e.inline(path, val) {
				plain = append(plain, tomlEntry{key, v})
			} else {
				tables = append(tables, tomlEntry{key, v})
			}
		case tree.Array:
			if arrayOfTables(val) {
				arrays = append(arrays, tomlEntry{key, v})
			} else {
				plain = append(plain, tomlEntry{key, v})
			}
		default:
			plain = append(plain, tomlEntry{key, v})
		}
		return nil
	})

	if path != nil && (len(plain) > 0 || len(tables)+len(arrays) == 0) {
		fmt.Fprintf(&e.buf, "\n[%s]\n", headerKey(path))
	}
	for _, entry := range plain {
		e.buf.WriteString(formatKey(entry.key))
		e.buf.WriteString(" = ")
		if err := e.value(path, entry.value); err != nil {
			return fmt.Errorf("%s: %w", strings.Join(append(path, entry.key), "."), err)
		}
		e.buf.WriteByte('\n')
	}
	for _, entry := range tables {
		if err := e.table(appendPath(path, entry.key), entry.value.(*tree.Object)); err != nil {
			return err
		}
	}
	for _, entry := range arrays {
		sub := appendPath(path, entry.key)
		for _, elem := range entry.value.(tree.Array) {
			if err := e.arrayTable(sub, elem.(*tree.Object)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *tomlEmitter) arrayTable(path []string, obj *tree.Object) error {
	fmt.Fprintf(&e.buf, "\n[[%s]]\n", headerKey(path))
	// Sub-tables of an element follow its own entries and refer to it.
	elem := tree.NewObject()
	var nested []tomlEntry
	_ = obj.Each(func(key string, v tree.Value) error {
		if sub, ok := v.(*tree.Object); ok && !e.inline(path, sub) {
			nested = append(nested, tomlEntry{key, v})
			return nil
		}
		elem.Set(key, v)
		return nil
	})
	if err := e.entries(path, elem); err != nil {
		return err
	}
	for _, entry := range nested {
		if err := e.table(appendPath(path, entry.key), entry.value.(*tree.Object)); err != nil {
			return err
		}
	}
	return nil
}

// entries writes the key/value lines of obj without a header.
func (e *tomlEmitter) entries(path []string, obj *tree.Object) error {
	return obj.Each(func(key string, v tree.Value) error {
		if _, null := v.(tree.Null); null {
			return nil
		}
		e.buf.WriteString(formatKey(key))
		e.buf.WriteString(" = ")
		if err := e.value(path, v); err != nil {
			return err
		}
		e.buf.WriteByte('\n')
		return nil
	})
}

// inline reports whether an object nested in the table at path is written as
// an inline table.
func (e *tomlEmitter) inline(path []string, obj *tree.Object) bool {
	if e.opts.DependencyTable != nil && e.opts.DependencyTable(path) && dependencyShaped(obj) {
		return true
	}
	if obj.Len() > inlineMaxFields {
		return false
	}
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		if !tree.IsScalar(v) {
			return false
		}
	}
	return true
}

func dependencyShaped(obj *tree.Object) bool {
	return obj.Has(dependencyVersion) || obj.Has("git") || obj.Has("path") || obj.Has("workspace")
}

// arrayOfTables reports whether arr is written as a [[path.key]] array of
// tables: every element is a table.
func arrayOfTables(arr tree.Array) bool {
	if len(arr) == 0 {
		return false
	}
	for _, elem := range arr {
		if _, ok := elem.(*tree.Object); !ok {
			return false
		}
	}
	return true
}

// value writes a value on the right-hand side of a key at table level.
func (e *tomlEmitter) value(path []string, v tree.Value) error {
	arr, ok := v.(tree.Array)
	if !ok {
		return writeInline(&e.buf, v)
	}
	var flat bytes.Buffer
	if err := writeInline(&flat, arr); err != nil {
		return err
	}
	if !expandArray(arr, flat.Len()) {
		e.buf.Write(flat.Bytes())
		return nil
	}
	e.buf.WriteString("[\n")
	for _, elem := range arr {
		if _, null := elem.(tree.Null); null {
			continue
		}
		e.buf.WriteString(tomlArrayIndent)
		if err := writeInline(&e.buf, elem); err != nil {
			return err
		}
		e.buf.WriteString(",\n")
	}
	e.buf.WriteByte(']')
	return nil
}

func expandArray(arr tree.Array, width int) bool {
	if len(arr) > arrayMaxInline || width > arrayMaxWidth {
		return true
	}
	for _, elem := range arr {
		if _, ok := elem.(*tree.Object); ok {
			return true
		}
	}
	return false
}

// writeInline writes v on a single line; objects become inline tables.
func writeInline(buf *bytes.Buffer, v tree.Value) error {
	switch val := v.(type) {
	case tree.String:
		buf.WriteString(quoteTOML(string(val)))
	case tree.Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case tree.Float:
		buf.WriteString(tree.FormatFloat(float64(val)))
	case tree.Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case tree.Array:
		buf.WriteByte('[')
		first := true
		for _, elem := range val {
			if _, null := elem.(tree.Null); null {
				continue
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			if err := writeInline(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *tree.Object:
		if val.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{ ")
		first := true
		err := val.Each(func(key string, elem tree.Value) error {
			if _, null := elem.(tree.Null); null {
				return nil
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			buf.WriteString(formatKey(key))
			buf.WriteString(" = ")
			return writeInline(buf, elem)
		})
		if err != nil {
			return err
		}
		buf.WriteString(" }")
	case nil, tree.Null:
		return fmt.Errorf("toml has no null value")
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

func headerKey(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = formatKey(p)
	}
	return strings.Join(parts, ".")
}

func formatKey(key string) string {
	if bareKey.MatchString(key) {
		return key
	}
	return quoteTOML(key)
}

func quoteTOML(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
