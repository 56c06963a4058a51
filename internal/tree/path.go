package tree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Path addresses a node from the root of a document.
// Segments are either object keys or array indexes.
type Path []Segment

// Segment is one step of a Path.
type Segment struct {
	Key   string
	Index int
	IsKey bool
}

// Key returns a copy of p extended by an object key.
func (p Path) Key(k string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Key: k, IsKey: true})
}

// Index returns a copy of p extended by an array index.
func (p Path) Index(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Index: i})
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_$@/-]+$`)

// String renders the path as `a.b[0]["c.d"]`. The root renders as `$`.
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, seg := range p {
		if !seg.IsKey {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteString("]")
			continue
		}
		if !bareKey.MatchString(seg.Key) {
			b.WriteString("[")
			b.WriteString(strconv.Quote(seg.Key))
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Position is a location in a source file. Line and Column are 1-based;
// a zero Line means the position is unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position carries a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	switch {
	case !p.IsValid() && p.File == "":
		return "-"
	case !p.IsValid():
		return p.File
	case p.File == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}

// Document is a parsed source: its root value plus the source position of every
// node the parser could locate.
type Document struct {
	File      string
	Root      Value
	positions map[string]Position
}

// NewDocument wraps a root value without positions.
func NewDocument(file string, root Value) *Document {
	return &Document{File: file, Root: root, positions: map[string]Position{}}
}

func (d *Document) record(p Path, pos Position) {
	if d.positions == nil {
		d.positions = map[string]Position{}
	}
	pos.File = d.File
	d.positions[p.String()] = pos
}

// PositionOf returns the recorded position of p, falling back to its closest
// recorded ancestor.
func (d *Document) PositionOf(p Path) Position {
	if d == nil {
		return Position{}
	}
	for n := len(p); n >= 0; n-- {
		if pos, ok := d.positions[p[:n].String()]; ok {
			return pos
		}
	}
	return Position{File: d.File}
}

// Sub returns a view of d rooted at prefix, so positions can be looked up with
// paths relative to a nested value.
func (d *Document) Sub(prefix Path, root Value) *Document {
	sub := &Document{File: d.File, Root: root, positions: map[string]Position{}}
	base := prefix.String()
	for key, pos := range d.positions {
		switch {
		case key == base:
			sub.positions["$"] = pos
		case base == "$":
			sub.positions[key] = pos
		case strings.HasPrefix(key, base+".") || strings.HasPrefix(key, base+"["):
			rest := strings.TrimPrefix(key[len(base):], ".")
			sub.positions[rest] = pos
		}
	}
	return sub
}
