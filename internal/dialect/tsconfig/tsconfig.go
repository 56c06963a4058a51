// Package tsconfig is the tsconfig.json dialect.
//
// Input accepts comments and trailing commas, as tsc itself does. The
// upstream `extends` field is spelled `extends_config` inside presets, since
// `extends` there names the presets being extended.
package tsconfig

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

const Tag = "tsconfig"

// Config is a tsconfig.json document.
type Config struct {
	Extends         union.StringOrList              `json:"extends" alias:"extends_config"`
	CompilerOptions CompilerOptions                 `json:"compilerOptions" alias:"compiler_options"`
	Files           collection.Set[string]          `json:"files"`
	Include         collection.Set[string]          `json:"include"`
	Exclude         collection.Set[string]          `json:"exclude"`
	References      collection.SortedSet[Reference] `json:"references"`
	CompileOnSave   bool                            `json:"compileOnSave" merge:"iftrue"`
	WatchOptions    *tree.Object                    `json:"watchOptions" alias:"watch_options"`
	TypeAcquisition *tree.Object                    `json:"typeAcquisition" alias:"type_acquisition"`
	Extra           *tree.Object                    `schema:"extra"`
}

// Reference is a project reference, identified by its path.
type Reference struct {
	Path    string `json:"path"`
	Prepend bool   `json:"prepend" merge:"iftrue"`
}

func (r Reference) SetKey() string { return r.Path }

// Plugin is a language service plugin, identified by name.
type Plugin struct {
	Name  string       `json:"name"`
	Extra *tree.Object `schema:"extra"`
}

func (p Plugin) SetKey() string { return p.Name }

// CompilerOptions holds `compilerOptions`. Booleans are pointers so an
// explicit false overrides an inherited true.
type CompilerOptions struct {
	Target           Target                                        `json:"target"`
	Module           Module                                        `json:"module"`
	ModuleResolution ModuleResolution                              `json:"moduleResolution" alias:"module_resolution"`
	ModuleDetection  ModuleDetection                               `json:"moduleDetection" alias:"module_detection"`
	Lib              collection.SortedSet[Lib]                     `json:"lib"`
	JSX              JSX                                           `json:"jsx"`
	JSXFactory       string                                        `json:"jsxFactory"`
	JSXFragment      string                                        `json:"jsxFragmentFactory"`
	JSXImportSource  string                                        `json:"jsxImportSource"`
	BaseURL          string                                        `json:"baseUrl" alias:"base_url"`
	Paths            collection.OrderedMap[collection.Set[string]] `json:"paths"`
	RootDir          string                                        `json:"rootDir" alias:"root_dir"`
	RootDirs         collection.Set[string]                        `json:"rootDirs"`
	OutDir           string                                        `json:"outDir" alias:"out_dir"`
	OutFile          string                                        `json:"outFile"`
	DeclarationDir   string                                        `json:"declarationDir"`
	TSBuildInfoFile  string                                        `json:"tsBuildInfoFile"`
	Types            collection.Set[string]                        `json:"types"`
	TypeRoots        collection.Set[string]                        `json:"typeRoots"`
	NewLine          NewLine                                       `json:"newLine"`
	Plugins          collection.Set[Plugin]                        `json:"plugins"`
	CustomConditions collection.Set[string]                        `json:"customConditions"`

	Strict                           *bool `json:"strict"`
	NoImplicitAny                    *bool `json:"noImplicitAny"`
	StrictNullChecks                 *bool `json:"strictNullChecks"`
	StrictFunctionTypes              *bool `json:"strictFunctionTypes"`
	StrictBindCallApply              *bool `json:"strictBindCallApply"`
	StrictPropertyInitialization     *bool `json:"strictPropertyInitialization"`
	NoImplicitThis                   *bool `json:"noImplicitThis"`
	UseUnknownInCatchVariables       *bool `json:"useUnknownInCatchVariables"`
	AlwaysStrict                     *bool `json:"alwaysStrict"`
	NoUnusedLocals                   *bool `json:"noUnusedLocals"`
	NoUnusedParameters               *bool `json:"noUnusedParameters"`
	ExactOptionalPropertyTypes       *bool `json:"exactOptionalPropertyTypes"`
	NoImplicitReturns                *bool `json:"noImplicitReturns"`
	NoFallthroughCasesInSwitch       *bool `json:"noFallthroughCasesInSwitch"`
	NoUncheckedIndexedAccess         *bool `json:"noUncheckedIndexedAccess"`
	NoImplicitOverride               *bool `json:"noImplicitOverride"`
	NoPropertyAccessFromIndexSig     *bool `json:"noPropertyAccessFromIndexSignature"`
	AllowUnusedLabels                *bool `json:"allowUnusedLabels"`
	AllowUnreachableCode             *bool `json:"allowUnreachableCode"`
	Declaration                      *bool `json:"declaration"`
	DeclarationMap                   *bool `json:"declarationMap"`
	EmitDeclarationOnly              *bool `json:"emitDeclarationOnly"`
	SourceMap                        *bool `json:"sourceMap"`
	InlineSourceMap                  *bool `json:"inlineSourceMap"`
	InlineSources                    *bool `json:"inlineSources"`
	NoEmit                           *bool `json:"noEmit"`
	NoEmitOnError                    *bool `json:"noEmitOnError"`
	RemoveComments                   *bool `json:"removeComments"`
	ImportHelpers                    *bool `json:"importHelpers"`
	DownlevelIteration               *bool `json:"downlevelIteration"`
	PreserveConstEnums               *bool `json:"preserveConstEnums"`
	Composite                        *bool `json:"composite"`
	Incremental                      *bool `json:"incremental"`
	AllowJS                          *bool `json:"allowJs"`
	CheckJS                          *bool `json:"checkJs"`
	ESModuleInterop                  *bool `json:"esModuleInterop"`
	AllowSyntheticDefaultImports     *bool `json:"allowSyntheticDefaultImports"`
	ForceConsistentCasingInFileNames *bool `json:"forceConsistentCasingInFileNames"`
	IsolatedModules                  *bool `json:"isolatedModules"`
	IsolatedDeclarations             *bool `json:"isolatedDeclarations"`
	VerbatimModuleSyntax             *bool `json:"verbatimModuleSyntax"`
	ResolveJSONModule                *bool `json:"resolveJsonModule"`
	ResolvePackageJSONExports        *bool `json:"resolvePackageJsonExports"`
	ResolvePackageJSONImports        *bool `json:"resolvePackageJsonImports"`
	AllowImportingTSExtensions       *bool `json:"allowImportingTsExtensions"`
	AllowArbitraryExtensions         *bool `json:"allowArbitraryExtensions"`
	RewriteRelativeImportExtensions  *bool `json:"rewriteRelativeImportExtensions"`
	NoResolve                        *bool `json:"noResolve"`
	SkipLibCheck                     *bool `json:"skipLibCheck"`
	SkipDefaultLibCheck              *bool `json:"skipDefaultLibCheck"`
	ExperimentalDecorators           *bool `json:"experimentalDecorators"`
	EmitDecoratorMetadata            *bool `json:"emitDecoratorMetadata"`
	UseDefineForClassFields          *bool `json:"useDefineForClassFields"`
	NoLib                            *bool `json:"noLib"`

	Extra *tree.Object `schema:"extra"`
}

// Spec is the tsconfig dialect.
var Spec = &dialect.Spec[Config]{
	Tag:     Tag,
	Path:    "tsconfig.json",
	Accepts: []serialize.Format{serialize.JSON},
}
