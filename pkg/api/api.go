// Package api lowers TypeScript syntax trees to JavaScript and suggests types
// for untyped bindings. Callers build trees with a Factory (or get them from
// a parser that uses one) and pass an oracle that answers semantic queries.
// When no oracle is given, a syntactic reference oracle built from the tree
// is used instead.
package api

import (
	"context"

	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
	"github.com/evanw/tslower/internal/ts_types"
)

// These are re-exported so that code outside this module can construct
// inputs and inspect results
type (
	Node         = ts_ast.Node
	Factory      = ts_ast.Factory
	EmitResolver = ts_checker.EmitResolver
	TypeChecker  = ts_checker.TypeChecker
	Type         = ts_types.Type
)

func NewFactory() *Factory {
	return ts_ast.NewFactory()
}

// File is a source file tree together with the factory that created its
// nodes. Node ids are only unique within one factory, so the transform must
// allocate new nodes from the same one.
type File struct {
	Factory *Factory
	Root    *Node

	// Used for message locations. Both are optional.
	Path     string
	Contents string
}

type Target uint8

const (
	DefaultTarget Target = iota
	ES3
	ES5
	ES2015
	ES2016
	ES2017
	ES2018
	ES2019
	ES2020
	ES2021
	ES2022
	ESNext
)

type ModuleKind uint8

const (
	ModuleDefault ModuleKind = iota
	ModuleNone
	ModuleCommonJS
	ModuleAMD
	ModuleUMD
	ModuleSystem
	ModuleES2015
	ModuleES2020
	ModuleESNext
)

type ImportsNotUsedAsValues uint8

const (
	ImportsNotUsedDefault ImportsNotUsedAsValues = iota
	ImportsNotUsedRemove
	ImportsNotUsedPreserve
	ImportsNotUsedError
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	// The name of the message kind that "LogOverride" accepts, or empty
	ID       string
	Text     string
	Location *Location
	Notes    []string
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// InternalError is the cause of the error returned when an invariant of the
// transform is violated. This indicates a bug, not a problem with the input.
type InternalError struct {
	Text  string
	Stack string
}

func (e *InternalError) Error() string {
	return "Internal error: " + e.Text
}

////////////////////////////////////////////////////////////////////////////////
// Transform API

type TransformOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	// Keys are message ids such as "const-enum-inlined"
	LogOverride map[string]LogLevel

	// The contents of a "tsconfig.json" file (JSON or YAML). Its
	// "compilerOptions" are applied first and the fields below override them.
	TsconfigRaw string

	Target                 Target
	Module                 ModuleKind
	ImportsNotUsedAsValues ImportsNotUsedAsValues

	EmitDecoratorMetadata   bool
	PreserveConstEnums      bool
	IsolatedModules         bool
	StrictNullChecks        bool
	AlwaysStrict            bool
	RemoveComments          bool
	NoEmitHelpers           bool
	UseDefineForClassFields bool

	// Logs how long each phase took
	Timing bool
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	Code []byte

	// Names of the runtime helpers the code calls
	Helpers []string

	// The number of classes that needed an alias for references to
	// themselves from inside their own body
	ClassAliasCount int
}

// Transform lowers "file" to JavaScript. The returned error is non-nil when
// the options are invalid or when the transform hit an internal error, in
// which case errors.Cause returns an *InternalError.
func Transform(file File, oracle EmitResolver, options TransformOptions) (TransformResult, error) {
	return transformImpl(file, oracle, options)
}

////////////////////////////////////////////////////////////////////////////////
// Inference API

type InferKind uint8

const (
	// Infers the type of the variable or parameter whose name is "Target"
	InferVariable InferKind = iota

	// Infers every parameter of the function "Target"
	InferParameters

	// Infers the type of "this" inside the function "Target"
	InferThis
)

type InferOptions struct {
	Color       StderrColor
	LogLevel    LogLevel
	LogOverride map[string]LogLevel

	Kind   InferKind
	Target *Node
}

type Inference struct {
	// The parameter declaration for "InferParameters", otherwise "Target"
	Declaration *Node

	Type     Type
	TypeText string

	// Only set for parameters that some call site omits
	IsOptional bool
}

type InferResult struct {
	Errors   []Message
	Warnings []Message

	Inferences []Inference
}

// InferFromUsage suggests types from the way bindings are used. When
// "checker" is nil, the reference oracle for "file" is used. A cancelled
// context stops the inference and its error is returned.
func InferFromUsage(ctx context.Context, file File, checker TypeChecker, options InferOptions) (InferResult, error) {
	return inferImpl(ctx, file, checker, options)
}
