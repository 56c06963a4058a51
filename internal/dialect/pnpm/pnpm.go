// Package pnpm is the pnpm-workspace.yaml dialect.
package pnpm

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/dialect/packagejson"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

const Tag = "pnpm_workspace"

// NodeLinker is `nodeLinker`.
type NodeLinker string

func (NodeLinker) EnumValues() []string { return []string{"isolated", "hoisted", "pnp"} }

// CatalogMode is `catalogMode`.
type CatalogMode string

func (CatalogMode) EnumValues() []string { return []string{"manual", "prefer", "strict"} }

// Workspace is a pnpm-workspace.yaml document. Catalogs are sorted on output
// and merge by key; named catalogs merge catalog by catalog.
type Workspace struct {
	Packages                 collection.Set[string]                             `json:"packages"`
	Catalog                  collection.SortedMap[string]                       `json:"catalog"`
	Catalogs                 collection.SortedMap[collection.SortedMap[string]] `json:"catalogs"`
	CatalogMode              CatalogMode                                        `json:"catalogMode" alias:"catalog_mode"`
	Overrides                collection.SortedMap[string]                       `json:"overrides"`
	PatchedDependencies      collection.SortedMap[string]                       `json:"patchedDependencies" alias:"patched_dependencies"`
	OnlyBuiltDependencies    collection.SortedSet[string]                       `json:"onlyBuiltDependencies" alias:"only_built_dependencies"`
	NeverBuiltDependencies   collection.SortedSet[string]                       `json:"neverBuiltDependencies" alias:"never_built_dependencies"`
	IgnoredBuiltDependencies collection.SortedSet[string]                       `json:"ignoredBuiltDependencies" alias:"ignored_built_dependencies"`
	PeerDependencyRules      *tree.Object                                       `json:"peerDependencyRules" alias:"peer_dependency_rules"`
	PackageExtensions        *tree.Object                                       `json:"packageExtensions" alias:"package_extensions"`
	LinkWorkspacePackages    union.Scalar                                       `json:"linkWorkspacePackages" alias:"link_workspace_packages"`
	NodeLinker               NodeLinker                                         `json:"nodeLinker" alias:"node_linker"`
	MinimumReleaseAge        int64                                              `json:"minimumReleaseAge" alias:"minimum_release_age"`
	Extra                    *tree.Object                                       `schema:"extra"`
}

// Spec is the pnpm workspace dialect.
var Spec = &dialect.Spec[Workspace]{
	Tag:     Tag,
	Path:    "pnpm-workspace.yaml",
	Accepts: []serialize.Format{serialize.YAML},
}

// LatestPackages lists catalog entries pinned to "latest".
func (w Workspace) LatestPackages() []string {
	var names []string
	collect := func(m collection.SortedMap[string]) {
		for name, version := range m.All() {
			if version == dialect.LatestVersion {
				names = append(names, name)
			}
		}
	}
	collect(w.Catalog)
	for _, cat := range w.Catalogs.All() {
		collect(cat)
	}
	return names
}

// PinVersions returns a copy of w with "latest" catalog entries replaced.
func (w Workspace) PinVersions(ranges map[string]string) Workspace {
	w.Catalog = packagejson.Pin(w.Catalog, ranges)
	if !w.Catalogs.IsZero() {
		catalogs := collection.NewSortedMap[collection.SortedMap[string]]()
		for name, cat := range w.Catalogs.All() {
			catalogs.Set(name, packagejson.Pin(cat, ranges))
		}
		w.Catalogs = catalogs
	}
	return w
}
