// Package precommit is the .pre-commit-config.yaml dialect.
package precommit

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
)

const Tag = "pre_commit"

// Stage is a git hook stage.
type Stage string

func (Stage) EnumValues() []string {
	return []string{
		"commit-msg", "post-checkout", "post-commit", "post-merge", "post-rewrite",
		"pre-commit", "pre-merge-commit", "pre-push", "pre-rebase", "prepare-commit-msg",
		"manual",
	}
}

// Config is a pre-commit configuration.
type Config struct {
	DefaultInstallHookTypes collection.Set[Stage]         `json:"default_install_hook_types"`
	DefaultLanguageVersion  collection.OrderedMap[string] `json:"default_language_version"`
	DefaultStages           collection.Set[Stage]         `json:"default_stages"`
	Files                   string                        `json:"files"`
	Exclude                 string                        `json:"exclude"`
	FailFast                *bool                         `json:"fail_fast" merge:"iftrue"`
	MinimumPreCommitVersion string                        `json:"minimum_pre_commit_version"`
	Repos                   collection.Set[Repo]          `json:"repos"`
	CI                      *tree.Object                  `json:"ci"`
}

// Repo is a hook repository, identified by its URL (or `local`/`meta`).
type Repo struct {
	Repo  string               `json:"repo"`
	Rev   string               `json:"rev"`
	Hooks collection.Set[Hook] `json:"hooks"`
}

func (r Repo) SetKey() string { return r.Repo }

// Hook is a hook entry, identified by id. Arguments are an ordered argv and
// are replaced as a whole.
type Hook struct {
	ID                      string                 `json:"id"`
	Alias                   string                 `json:"alias"`
	Name                    string                 `json:"name"`
	Description             string                 `json:"description"`
	Entry                   string                 `json:"entry"`
	Language                string                 `json:"language"`
	LanguageVersion         string                 `json:"language_version"`
	Files                   string                 `json:"files"`
	Exclude                 string                 `json:"exclude"`
	Types                   collection.Set[string] `json:"types"`
	TypesOr                 collection.Set[string] `json:"types_or"`
	ExcludeTypes            collection.Set[string] `json:"exclude_types"`
	Args                    []string               `json:"args" merge:"overwrite"`
	Stages                  collection.Set[Stage]  `json:"stages"`
	AdditionalDependencies  collection.Set[string] `json:"additional_dependencies"`
	AlwaysRun               *bool                  `json:"always_run"`
	PassFilenames           *bool                  `json:"pass_filenames"`
	RequireSerial           *bool                  `json:"require_serial"`
	Verbose                 *bool                  `json:"verbose"`
	LogFile                 string                 `json:"log_file"`
	MinimumPreCommitVersion string                 `json:"minimum_pre_commit_version"`
	Extra                   *tree.Object           `schema:"extra"`
}

func (h Hook) SetKey() string { return h.ID }

// Spec is the pre-commit dialect.
var Spec = &dialect.Spec[Config]{
	Tag:     Tag,
	Path:    ".pre-commit-config.yaml",
	Accepts: []serialize.Format{serialize.YAML},
}
