package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/roach88/sketch/internal/tree"
)

// Policy is a merge policy declared on a record field.
type Policy int

const (
	// PolicyAuto picks the policy from the field type: recurse for records,
	// raw trees and types implementing a merger; union for maps; overwrite
	// for everything else.
	PolicyAuto Policy = iota
	// PolicyOverwrite replaces left with right when right is present.
	PolicyOverwrite
	// PolicyNotDefault replaces left with right when right differs from the
	// field default.
	PolicyNotDefault
	// PolicyIfTrue replaces left with right only when right is true.
	PolicyIfTrue
	// PolicyUnion adds right's elements to left.
	PolicyUnion
	// PolicyRecurse merges records field by field.
	PolicyRecurse
	// PolicySkip keeps left when it is present.
	PolicySkip
)

var policyNames = map[string]Policy{
	"":                         PolicyAuto,
	"overwrite":                PolicyOverwrite,
	"overwrite-if-present":     PolicyOverwrite,
	"notdefault":               PolicyNotDefault,
	"overwrite-if-not-default": PolicyNotDefault,
	"iftrue":                   PolicyIfTrue,
	"overwrite-if-true":        PolicyIfTrue,
	"union":                    PolicyUnion,
	"recurse":                  PolicyRecurse,
	"skip":                     PolicySkip,
}

func (p Policy) String() string {
	switch p {
	case PolicyAuto:
		return "auto"
	case PolicyOverwrite:
		return "overwrite-if-present"
	case PolicyNotDefault:
		return "overwrite-if-not-default"
	case PolicyIfTrue:
		return "overwrite-if-true"
	case PolicyUnion:
		return "union"
	case PolicyRecurse:
		return "recurse"
	case PolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses the value of a merge tag.
func ParsePolicy(s string) (Policy, error) {
	p, ok := policyNames[strings.TrimSpace(s)]
	if !ok {
		return PolicyAuto, fmt.Errorf("unknown merge policy %q", s)
	}
	return p, nil
}

// Field describes one record field.
type Field struct {
	Name       string
	Aliases    []string
	Index      int
	Type       reflect.Type
	Policy     Policy
	Default    reflect.Value
	HasDefault bool
}

// Record describes the fields of a struct type.
type Record struct {
	Type   reflect.Type
	Fields []Field
	// Extra is the index of the catch-all field, or -1.
	Extra  int
	lookup map[string]int
}

// Lookup finds a field by canonical name or alias.
func (r *Record) Lookup(key string) (*Field, bool) {
	i, ok := r.lookup[key]
	if !ok {
		return nil, false
	}
	return &r.Fields[i], true
}

var records sync.Map // reflect.Type -> *Record

// Describe returns the field table of a struct type. Tables are computed once
// per type and never change afterwards.
func Describe(t reflect.Type) (*Record, error) {
	if cached, ok := records.Load(t); ok {
		return cached.(*Record), nil
	}
	rec, err := describe(t)
	if err != nil {
		return nil, err
	}
	actual, _ := records.LoadOrStore(t, rec)
	return actual.(*Record), nil
}

func describe(t reflect.Type) (*Record, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s is not a struct", t)
	}
	rec := &Record{Type: t, Extra: -1, lookup: map[string]int{}}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Tag.Get("schema") == "extra" {
			if sf.Type != objectPtrType {
				return nil, fmt.Errorf("schema: %s.%s: extra field must be *tree.Object", t, sf.Name)
			}
			rec.Extra = i
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		policy, err := ParsePolicy(sf.Tag.Get("merge"))
		if err != nil {
			return nil, fmt.Errorf("schema: %s.%s: %w", t, sf.Name, err)
		}
		f := Field{Name: name, Index: i, Type: sf.Type, Policy: policy}
		if alias := sf.Tag.Get("alias"); alias != "" {
			for _, a := range strings.Split(alias, ",") {
				f.Aliases = append(f.Aliases, strings.TrimSpace(a))
			}
		}
		if def, ok := sf.Tag.Lookup("default"); ok {
			dv := reflect.New(sf.Type).Elem()
			if err := decodeValue(tree.String(def), dv, nil); err != nil {
				return nil, fmt.Errorf("schema: %s.%s: default %q: %w", t, sf.Name, def, err)
			}
			f.Default = dv
			f.HasDefault = true
		}
		idx := len(rec.Fields)
		rec.Fields = append(rec.Fields, f)
		for _, key := range append([]string{name}, f.Aliases...) {
			if _, dup := rec.lookup[key]; dup {
				return nil, fmt.Errorf("schema: %s: key %q declared twice", t, key)
			}
			rec.lookup[key] = idx
		}
	}
	return rec, nil
}
