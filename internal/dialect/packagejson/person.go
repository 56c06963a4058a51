package packagejson

import (
	"strings"

	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// PersonRecord is the object form of a person.
type PersonRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	URL   string `json:"url"`
}

// Person is either a string (a registered person id, or npm's
// "Name <email> (url)" shorthand) or a PersonRecord.
type Person struct {
	ref    string
	record *PersonRecord
}

// PersonRef returns the string form.
func PersonRef(s string) Person { return Person{ref: s} }

// PersonOf returns the record form.
func PersonOf(r PersonRecord) Person { return Person{record: &r} }

func (p Person) IsZero() bool { return p.ref == "" && p.record == nil }

// Ref returns the string form.
func (p Person) Ref() (string, bool) { return p.ref, p.record == nil && p.ref != "" }

// Record returns the record form.
func (p Person) Record() (PersonRecord, bool) {
	if p.record == nil {
		return PersonRecord{}, false
	}
	return *p.record, true
}

func (p Person) Variant() string {
	if p.record != nil {
		return "record"
	}
	return "string"
}

// SetKey identifies a person by name, so the string and record forms of the
// same person collapse once ids are expanded.
func (p Person) SetKey() string {
	if p.record != nil {
		return p.record.Name
	}
	return p.ref
}

func (p *Person) DecodeTree(v tree.Value, path tree.Path) error {
	if _, ok := v.(*tree.Object); ok {
		var r PersonRecord
		if err := schema.Decode(v, &r, path); err != nil {
			return err
		}
		*p = PersonOf(r)
		return nil
	}
	s, ok := v.(tree.String)
	if !ok {
		return schema.TypeError(path, "person id or object", v)
	}
	*p = PersonRef(string(s))
	return nil
}

func (p Person) EncodeTree() (tree.Value, error) {
	if p.record != nil {
		return schema.Encode(*p.record)
	}
	return tree.String(p.ref), nil
}

func (p Person) Merge(right any, path tree.Path) (any, error) {
	r := right.(Person)
	if p.record == nil || r.record == nil {
		return r, nil
	}
	merged, err := merge.At(*p.record, *r.record, path)
	if err != nil {
		return nil, err
	}
	return PersonOf(merged), nil
}

// Expand replaces a registered id by its record. Unregistered strings are kept
// as written.
func (p Person) Expand(people map[string]dialect.Person) Person {
	if p.record != nil {
		return p
	}
	reg, ok := people[strings.TrimSpace(p.ref)]
	if !ok {
		return p
	}
	return PersonOf(PersonRecord{Name: reg.Name, Email: reg.Email, URL: reg.URL})
}
