package config

import (
	"github.com/evanw/tslower/internal/compat"
)

type ModuleKind uint8

const (
	ModuleNone ModuleKind = iota
	ModuleCommonJS
	ModuleAMD
	ModuleUMD
	ModuleSystem
	ModuleES2015
	ModuleES2020
	ModuleESNext
)

func (kind ModuleKind) IsES() bool {
	return kind >= ModuleES2015
}

type ImportsNotUsedAsValues uint8

const (
	// Import declarations whose bindings are all elided are removed
	ImportsNotUsedRemove ImportsNotUsedAsValues = iota

	// Import declarations whose bindings are all elided become "import 'x'"
	ImportsNotUsedPreserve

	// Same as preserve at emit time. The checker reports the error.
	ImportsNotUsedError
)

type Options struct {
	Target compat.LanguageTarget
	Module ModuleKind

	// Cached from "Target" by "Finish"
	UnsupportedJSFeatures compat.JSFeature

	ExperimentalDecorators bool
	EmitDecoratorMetadata  bool
	PreserveConstEnums     bool
	IsolatedModules        bool
	StrictNullChecks       bool
	AlwaysStrict           bool
	RemoveComments         bool
	NoEmitHelpers          bool

	// Class fields use define semantics and are left in the class body. When
	// this is false, property initializers are moved into the constructor.
	UseDefineForClassFields bool

	ImportsNotUsedAsValues ImportsNotUsedAsValues
}

// Returns the options used when none are specified
func DefaultOptions() Options {
	options := Options{
		Target:                 compat.ES5,
		Module:                 ModuleCommonJS,
		ExperimentalDecorators: true,
	}
	options.Finish()
	return options
}

// Fills in derived fields. This must be called after changing "Target".
func (options *Options) Finish() {
	options.UnsupportedJSFeatures = compat.UnsupportedJSFeatures(options.Target)
}

// Const enums are normally inlined and erased, except in these configurations
func (options *Options) ShouldEmitConstEnums() bool {
	return options.PreserveConstEnums || options.IsolatedModules
}
