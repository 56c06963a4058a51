// Package oxlint is the .oxlintrc.json dialect.
package oxlint

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

const Tag = "oxlint"

// Severity is a rule or category level.
type Severity string

func (Severity) EnumValues() []string {
	return []string{"off", "warn", "error", "allow", "deny"}
}

// Plugin is a built-in oxlint plugin.
type Plugin string

func (Plugin) EnumValues() []string {
	return []string{
		"eslint", "import", "jest", "jsdoc", "jsx-a11y", "nextjs", "node", "oxc",
		"promise", "react", "react-perf", "typescript", "unicorn", "vitest", "vue",
	}
}

// Category is a rule category.
type Category string

func (Category) EnumValues() []string {
	return []string{"correctness", "nursery", "pedantic", "perf", "restriction", "style", "suspicious"}
}

// Config is an oxlint configuration.
type Config struct {
	Schema         string                          `json:"$schema" alias:"schema"`
	Extends        collection.Set[string]          `json:"extends" alias:"extends_config"`
	Plugins        collection.Set[Plugin]          `json:"plugins"`
	JSPlugins      collection.Set[string]          `json:"jsPlugins" alias:"js_plugins"`
	Categories     collection.OrderedMap[Severity] `json:"categories"`
	Env            collection.OrderedMap[bool]     `json:"env"`
	Globals        collection.OrderedMap[string]   `json:"globals"`
	Settings       *tree.Object                    `json:"settings"`
	Rules          collection.SortedMap[Rule]      `json:"rules"`
	IgnorePatterns collection.Set[string]          `json:"ignorePatterns" alias:"ignore_patterns"`
	Overrides      []Override                      `json:"overrides" merge:"union"`
}

// Override applies rules to matching files. Overrides accumulate in order.
type Override struct {
	Files   collection.Set[string]        `json:"files"`
	Plugins collection.Set[Plugin]        `json:"plugins"`
	Env     collection.OrderedMap[bool]   `json:"env"`
	Globals collection.OrderedMap[string] `json:"globals"`
	Rules   collection.SortedMap[Rule]    `json:"rules"`
}

// Rule is a rule setting: a level, or `[level, ...options]`.
//
// A later level without options keeps the options configured earlier; later
// options replace earlier ones.
type Rule struct {
	level   union.Scalar
	options tree.Array
}

// RuleLevel returns a rule with a level only.
func RuleLevel(level string) Rule { return Rule{level: union.ScalarOf(level)} }

// RuleWith returns a rule with options.
func RuleWith(level string, options ...tree.Value) Rule {
	return Rule{level: union.ScalarOf(level), options: options}
}

func (r Rule) IsZero() bool { return r.level.IsZero() }

func (r Rule) Variant() string {
	if r.options != nil {
		return "configured"
	}
	return "level"
}

// Level returns the rule level as written.
func (r Rule) Level() string { return r.level.String() }

// Options returns the rule options.
func (r Rule) Options() tree.Array { return r.options }

func (r *Rule) DecodeTree(v tree.Value, path tree.Path) error {
	if arr, ok := v.(tree.Array); ok {
		if len(arr) == 0 {
			return schema.Errorf(path, "rule list must start with a level")
		}
		var level union.Scalar
		if err := level.DecodeTree(arr[0], path.Index(0)); err != nil {
			return err
		}
		*r = Rule{level: level, options: append(tree.Array{}, arr[1:]...)}
		return nil
	}
	var level union.Scalar
	if err := level.DecodeTree(v, path); err != nil {
		return schema.TypeError(path, "level or [level, options...]", v)
	}
	*r = Rule{level: level}
	return nil
}

func (r Rule) EncodeTree() (tree.Value, error) {
	if len(r.options) == 0 {
		return r.level.Value(), nil
	}
	return append(tree.Array{r.level.Value()}, r.options...), nil
}

func (r Rule) Merge(right any, _ tree.Path) (any, error) {
	o := right.(Rule)
	if len(o.options) == 0 {
		return Rule{level: o.level, options: r.options}, nil
	}
	return o, nil
}

// Spec is the oxlint dialect.
var Spec = &dialect.Spec[Config]{
	Tag:     Tag,
	Path:    ".oxlintrc.json",
	Accepts: []serialize.Format{serialize.JSON},
}
