// Package cargo is the Cargo.toml dialect.
package cargo

import (
	"errors"
	"slices"

	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

const Tag = "cargo"

// DefaultVersion is the version cargo gives a new package. A preset that
// leaves it unchanged does not override an inherited version.
const DefaultVersion = "0.1.0"

// Edition is a Rust edition.
type Edition string

func (Edition) EnumValues() []string { return []string{"2015", "2018", "2021", "2024"} }

// Resolver is the feature resolver version.
type Resolver string

func (Resolver) EnumValues() []string { return []string{"1", "2", "3"} }

// Dependencies maps crate names to dependencies, sorted on output.
type Dependencies = collection.SortedMap[Dependency]

// Manifest is a Cargo.toml document.
type Manifest struct {
	CargoFeatures     collection.Set[string]                        `json:"cargo-features" alias:"cargo_features"`
	Package           *Package                                      `json:"package" alias:"project"`
	Lib               *Product                                      `json:"lib"`
	Bin               collection.Set[Product]                       `json:"bin"`
	Example           collection.Set[Product]                       `json:"example"`
	Test              collection.Set[Product]                       `json:"test"`
	Bench             collection.Set[Product]                       `json:"bench"`
	Dependencies      Dependencies                                  `json:"dependencies"`
	DevDependencies   Dependencies                                  `json:"dev-dependencies" alias:"dev_dependencies"`
	BuildDependencies Dependencies                                  `json:"build-dependencies" alias:"build_dependencies"`
	Target            collection.OrderedMap[Platform]               `json:"target"`
	Features          collection.OrderedMap[collection.Set[string]] `json:"features"`
	Patch             collection.OrderedMap[Dependencies]           `json:"patch"`
	Replace           Dependencies                                  `json:"replace"`
	Profile           collection.OrderedMap[Profile]                `json:"profile"`
	Workspace         *Workspace                                    `json:"workspace"`
	Lints             union.Inheritable[Lints]                      `json:"lints"`
	Badges            *tree.Object                                  `json:"badges"`
	Extra             *tree.Object                                  `schema:"extra"`
}

// Package is the [package] table. Most fields may be inherited from the
// workspace with `field.workspace = true`.
type Package struct {
	Name          string                                          `json:"name"`
	Version       union.Inheritable[string]                       `json:"version" merge:"notdefault" default:"0.1.0"`
	Authors       union.Inheritable[collection.Set[string]]       `json:"authors"`
	Edition       union.Inheritable[Edition]                      `json:"edition"`
	RustVersion   union.Inheritable[string]                       `json:"rust-version" alias:"rust_version"`
	Description   union.Inheritable[string]                       `json:"description"`
	Documentation union.Inheritable[string]                       `json:"documentation"`
	Readme        union.Inheritable[union.Scalar]                 `json:"readme"`
	Homepage      union.Inheritable[string]                       `json:"homepage"`
	Repository    union.Inheritable[string]                       `json:"repository"`
	License       union.Inheritable[string]                       `json:"license"`
	LicenseFile   union.Inheritable[string]                       `json:"license-file" alias:"license_file"`
	Keywords      union.Inheritable[collection.SortedSet[string]] `json:"keywords"`
	Categories    union.Inheritable[collection.SortedSet[string]] `json:"categories"`
	Workspace     string                                          `json:"workspace"`
	Build         union.Scalar                                    `json:"build"`
	Links         string                                          `json:"links"`
	Exclude       union.Inheritable[collection.Set[string]]       `json:"exclude"`
	Include       union.Inheritable[collection.Set[string]]       `json:"include"`
	Publish       union.Inheritable[union.BoolOrList]             `json:"publish"`
	DefaultRun    string                                          `json:"default-run" alias:"default_run"`
	Autobins      *bool                                           `json:"autobins"`
	Autoexamples  *bool                                           `json:"autoexamples"`
	Autotests     *bool                                           `json:"autotests"`
	Autobenches   *bool                                           `json:"autobenches"`
	Resolver      Resolver                                        `json:"resolver"`
	Metadata      *tree.Object                                    `json:"metadata"`
	Extra         *tree.Object                                    `schema:"extra"`
}

// Product is a [lib] table or an entry of [[bin]], [[example]], [[test]] or
// [[bench]], identified by name.
type Product struct {
	Name             string                 `json:"name"`
	Path             string                 `json:"path"`
	Test             *bool                  `json:"test"`
	Doctest          *bool                  `json:"doctest"`
	Bench            *bool                  `json:"bench"`
	Doc              *bool                  `json:"doc"`
	Harness          *bool                  `json:"harness"`
	ProcMacro        *bool                  `json:"proc-macro" alias:"proc_macro"`
	Edition          Edition                `json:"edition"`
	CrateType        collection.Set[string] `json:"crate-type" alias:"crate_type"`
	RequiredFeatures collection.Set[string] `json:"required-features" alias:"required_features"`
}

func (p Product) SetKey() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Path
}

// Platform is a [target.<cfg>] table.
type Platform struct {
	Dependencies      Dependencies `json:"dependencies"`
	DevDependencies   Dependencies `json:"dev-dependencies" alias:"dev_dependencies"`
	BuildDependencies Dependencies `json:"build-dependencies" alias:"build_dependencies"`
}

// PanicStrategy is `profile.*.panic`.
type PanicStrategy string

func (PanicStrategy) EnumValues() []string { return []string{"unwind", "abort"} }

// Profile is a [profile.<name>] table.
type Profile struct {
	Inherits        string                         `json:"inherits"`
	OptLevel        union.Scalar                   `json:"opt-level" alias:"opt_level"`
	Debug           union.Scalar                   `json:"debug"`
	SplitDebuginfo  string                         `json:"split-debuginfo" alias:"split_debuginfo"`
	Strip           union.Scalar                   `json:"strip"`
	DebugAssertions *bool                          `json:"debug-assertions" alias:"debug_assertions"`
	OverflowChecks  *bool                          `json:"overflow-checks" alias:"overflow_checks"`
	LTO             union.Scalar                   `json:"lto"`
	Panic           PanicStrategy                  `json:"panic"`
	Incremental     *bool                          `json:"incremental"`
	CodegenUnits    int64                          `json:"codegen-units" alias:"codegen_units"`
	Rpath           *bool                          `json:"rpath"`
	BuildOverride   *Profile                       `json:"build-override" alias:"build_override"`
	Package         collection.OrderedMap[Profile] `json:"package"`
	Extra           *tree.Object                   `schema:"extra"`
}

// LintLevel is the level of a lint.
type LintLevel string

func (LintLevel) EnumValues() []string { return []string{"forbid", "deny", "warn", "allow"} }

// LintConfig is the table form of a lint.
type LintConfig struct {
	Level    LintLevel    `json:"level"`
	Priority int64        `json:"priority"`
	Extra    *tree.Object `schema:"extra"`
}

// Lint is `level` or `{ level, priority }`.
type Lint = union.StringOr[LintConfig]

// Lints maps a tool (rust, clippy, rustdoc) to its lints.
type Lints = collection.OrderedMap[collection.OrderedMap[Lint]]

// Workspace is the [workspace] table.
type Workspace struct {
	Members        collection.Set[string] `json:"members"`
	Exclude        collection.Set[string] `json:"exclude"`
	DefaultMembers collection.Set[string] `json:"default-members" alias:"default_members"`
	Resolver       Resolver               `json:"resolver"`
	Package        *WorkspacePackage      `json:"package"`
	Dependencies   Dependencies           `json:"dependencies"`
	Lints          Lints                  `json:"lints"`
	Metadata       *tree.Object           `json:"metadata"`
}

// WorkspacePackage is [workspace.package], the values members inherit.
type WorkspacePackage struct {
	Version       string                       `json:"version"`
	Authors       collection.Set[string]       `json:"authors"`
	Edition       Edition                      `json:"edition"`
	RustVersion   string                       `json:"rust-version" alias:"rust_version"`
	Description   string                       `json:"description"`
	Documentation string                       `json:"documentation"`
	Readme        union.Scalar                 `json:"readme"`
	Homepage      string                       `json:"homepage"`
	Repository    string                       `json:"repository"`
	License       string                       `json:"license"`
	LicenseFile   string                       `json:"license-file" alias:"license_file"`
	Keywords      collection.SortedSet[string] `json:"keywords"`
	Categories    collection.SortedSet[string] `json:"categories"`
	Exclude       collection.Set[string]       `json:"exclude"`
	Include       collection.Set[string]       `json:"include"`
	Publish       union.BoolOrList             `json:"publish"`
}

var dependencyTables = []string{"dependencies", "dev-dependencies", "build-dependencies"}

// DependencyTable reports whether the TOML table at path holds dependencies.
func DependencyTable(path []string) bool {
	switch {
	case len(path) == 0:
		return false
	case path[0] == "patch" && len(path) == 2:
		return true
	case len(path) == 1 && path[0] == "replace":
		return true
	default:
		return slices.Contains(dependencyTables, path[len(path)-1])
	}
}

// Spec is the Cargo manifest dialect.
var Spec = &dialect.Spec[Manifest]{
	Tag:     Tag,
	Path:    "Cargo.toml",
	Accepts: []serialize.Format{serialize.TOML},
	TOML:    serialize.TOMLOptions{DependencyTable: DependencyTable},
}

// WorkspaceSpec composes from the same presets as Spec but requires a
// [workspace] table, for workspace-root manifests.
var WorkspaceSpec = &dialect.Spec[Manifest]{
	Tag:      Tag,
	Path:     "Cargo.toml",
	Accepts:  []serialize.Format{serialize.TOML},
	TOML:     serialize.TOMLOptions{DependencyTable: DependencyTable},
	Finalize: requireWorkspace,
}

// ErrNoWorkspace is returned for workspace manifests without [workspace].
var ErrNoWorkspace = errors.New("manifest has no [workspace] table")

func requireWorkspace(m Manifest, _ dialect.Env) (Manifest, error) {
	if m.Workspace == nil {
		return m, ErrNoWorkspace
	}
	return m, nil
}
