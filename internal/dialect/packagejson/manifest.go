// Package packagejson is the package.json dialect.
package packagejson

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

// Tag names the dialect in configuration.
const Tag = "package_json"

// ModuleType is the `type` field.
type ModuleType string

func (ModuleType) EnumValues() []string { return []string{"module", "commonjs"} }

// Manifest is a package.json document. Dependency maps are sorted on output;
// scripts keep their declared order.
type Manifest struct {
	Name          string                         `json:"name"`
	Version       string                         `json:"version"`
	Private       bool                           `json:"private" merge:"iftrue"`
	Description   string                         `json:"description"`
	Keywords      collection.Set[string]         `json:"keywords"`
	Homepage      string                         `json:"homepage"`
	Bugs          union.StringOr[Bugs]           `json:"bugs"`
	License       string                         `json:"license"`
	Author        Person                         `json:"author"`
	Contributors  collection.Set[Person]         `json:"contributors"`
	Maintainers   collection.Set[Person]         `json:"maintainers"`
	Funding       tree.Value                     `json:"funding" merge:"overwrite"`
	Files         collection.Set[string]         `json:"files"`
	Type          ModuleType                     `json:"type"`
	Main          string                         `json:"main"`
	Module        string                         `json:"module"`
	Types         string                         `json:"types" alias:"typings"`
	Browser       tree.Value                     `json:"browser" merge:"overwrite"`
	Bin           Bin                            `json:"bin"`
	Man           union.StringOrList             `json:"man"`
	Directories   collection.OrderedMap[string]  `json:"directories"`
	Repository    union.StringOr[Repository]     `json:"repository"`
	Exports       Export                         `json:"exports"`
	Imports       collection.OrderedMap[Export]  `json:"imports"`
	Scripts       collection.OrderedMap[string]  `json:"scripts"`
	Config        *tree.Object                   `json:"config"`
	Workspaces    Workspaces                     `json:"workspaces"`
	Dependencies  collection.SortedMap[string]   `json:"dependencies"`
	DevDeps       collection.SortedMap[string]   `json:"devDependencies" alias:"dev_dependencies"`
	PeerDeps      collection.SortedMap[string]   `json:"peerDependencies" alias:"peer_dependencies"`
	PeerDepsMeta  collection.SortedMap[PeerMeta] `json:"peerDependenciesMeta" alias:"peer_dependencies_meta"`
	OptionalDeps  collection.SortedMap[string]   `json:"optionalDependencies" alias:"optional_dependencies"`
	BundleDeps    collection.SortedSet[string]   `json:"bundleDependencies" alias:"bundledDependencies,bundle_dependencies"`
	Overrides     *tree.Object                   `json:"overrides"`
	Engines       collection.SortedMap[string]   `json:"engines"`
	OS            collection.Set[string]         `json:"os"`
	CPU           collection.Set[string]         `json:"cpu"`
	PackageMgr    string                         `json:"packageManager" alias:"package_manager"`
	PublishConfig *tree.Object                   `json:"publishConfig" alias:"publish_config"`
	TypesVersions *tree.Object                   `json:"typesVersions" alias:"types_versions"`
	Pnpm          *tree.Object                   `json:"pnpm"`
	Extra         *tree.Object                   `schema:"extra"`
}

// Bugs is the object form of `bugs`.
type Bugs struct {
	URL   string `json:"url"`
	Email string `json:"email"`
}

// Repository is the object form of `repository`.
type Repository struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	Directory string `json:"directory"`
}

// PeerMeta is an entry of `peerDependenciesMeta`.
type PeerMeta struct {
	Optional bool `json:"optional" merge:"iftrue"`
}

// Spec is the package.json dialect.
var Spec = &dialect.Spec[Manifest]{
	Tag:      Tag,
	Path:     "package.json",
	Accepts:  []serialize.Format{serialize.JSON},
	Finalize: finalize,
}

func finalize(m Manifest, env dialect.Env) (Manifest, error) {
	m.Author = m.Author.Expand(env.People)
	m.Contributors = expandAll(m.Contributors, env.People)
	m.Maintainers = expandAll(m.Maintainers, env.People)
	return m, nil
}

func expandAll(people collection.Set[Person], registry map[string]dialect.Person) collection.Set[Person] {
	if people.IsZero() {
		return people
	}
	items := people.Items()
	for i, p := range items {
		items[i] = p.Expand(registry)
	}
	return collection.SetOf(items...)
}

func (m Manifest) dependencyMaps() []collection.SortedMap[string] {
	return []collection.SortedMap[string]{m.Dependencies, m.DevDeps, m.PeerDeps, m.OptionalDeps}
}

// LatestPackages lists dependencies pinned to "latest".
func (m Manifest) LatestPackages() []string {
	var names []string
	for _, deps := range m.dependencyMaps() {
		for name, version := range deps.All() {
			if version == dialect.LatestVersion {
				names = append(names, name)
			}
		}
	}
	return names
}

// PinVersions returns a copy of m with "latest" dependencies replaced by the
// given ranges.
func (m Manifest) PinVersions(ranges map[string]string) Manifest {
	m.Dependencies = Pin(m.Dependencies, ranges)
	m.DevDeps = Pin(m.DevDeps, ranges)
	m.PeerDeps = Pin(m.PeerDeps, ranges)
	m.OptionalDeps = Pin(m.OptionalDeps, ranges)
	return m
}

// Pin returns a copy of deps with every "latest" entry found in ranges
// replaced.
func Pin(deps collection.SortedMap[string], ranges map[string]string) collection.SortedMap[string] {
	if deps.IsZero() {
		return deps
	}
	pinned := make(map[string]string, deps.Len())
	for name, version := range deps.All() {
		if r, ok := ranges[name]; ok && version == dialect.LatestVersion {
			version = r
		}
		pinned[name] = version
	}
	return collection.SortedMapOf(pinned)
}
