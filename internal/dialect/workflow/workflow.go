// Package workflow is the GitHub Actions workflow dialect.
package workflow

import (
	"path"

	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

const Tag = "github_workflow"

// Workflow is a workflow file. Jobs keep their declared order.
type Workflow struct {
	Name        string                              `json:"name"`
	RunName     string                              `json:"run-name" alias:"run_name"`
	On          On                                  `json:"on"`
	Permissions Permissions                         `json:"permissions"`
	Env         collection.OrderedMap[union.Scalar] `json:"env"`
	Defaults    *Defaults                           `json:"defaults"`
	Concurrency union.StringOr[Concurrency]         `json:"concurrency"`
	Jobs        collection.OrderedMap[Job]          `json:"jobs"`
	Extra       *tree.Object                        `schema:"extra"`
}

// Spec is the workflow dialect. Workflows are written under
// .github/workflows, named after their preset.
var Spec = &dialect.Spec[Workflow]{
	Tag:     Tag,
	Paths:   func(id string) string { return path.Join(".github", "workflows", id+".yaml") },
	Accepts: []serialize.Format{serialize.YAML},
}
