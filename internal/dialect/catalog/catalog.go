// Package catalog registers every artifact dialect.
package catalog

import (
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/dialect/cargo"
	"github.com/roach88/sketch/internal/dialect/compose"
	"github.com/roach88/sketch/internal/dialect/gitignore"
	"github.com/roach88/sketch/internal/dialect/license"
	"github.com/roach88/sketch/internal/dialect/oxlint"
	"github.com/roach88/sketch/internal/dialect/packagejson"
	"github.com/roach88/sketch/internal/dialect/pnpm"
	"github.com/roach88/sketch/internal/dialect/precommit"
	"github.com/roach88/sketch/internal/dialect/tsconfig"
	"github.com/roach88/sketch/internal/dialect/workflow"
)

// Default returns a registry of the built-in artifact dialects.
func Default() *dialect.Registry {
	return dialect.NewRegistry(
		packagejson.Spec,
		tsconfig.Spec,
		pnpm.Spec,
		cargo.Spec,
		workflow.Spec,
		compose.Spec,
		gitignore.Spec,
		precommit.Spec,
		license.Spec,
		oxlint.Spec,
	)
}
