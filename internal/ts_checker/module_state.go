package ts_checker

import "github.com/evanw/tslower/internal/ts_ast"

type ModuleInstanceState uint8

const (
	ModuleNonInstantiated ModuleInstanceState = iota
	ModuleInstantiated
	ModuleConstEnumOnly
)

// Returns whether a namespace declaration produces anything at runtime. A
// namespace containing only types, non-instantiated namespaces and imports
// is not instantiated. One whose only values are const enums is instantiated
// only when const enums are preserved.
func GetModuleInstanceState(n *ts_ast.Node) ModuleInstanceState {
	switch d := n.Data.(type) {
	case *ts_ast.SInterface, *ts_ast.STypeAlias:
		return ModuleNonInstantiated

	case *ts_ast.SEnum:
		if d.Modifiers.Has(ts_ast.ModifierConst) {
			return ModuleConstEnumOnly
		}

	case *ts_ast.SImport:
		return ModuleNonInstantiated

	case *ts_ast.SImportEquals:
		if !d.Modifiers.Has(ts_ast.ModifierExport) {
			return ModuleNonInstantiated
		}

	case *ts_ast.SExport:
		if d.IsTypeOnly {
			return ModuleNonInstantiated
		}

	case *ts_ast.SNamespace:
		if d.Body == nil {
			return ModuleNonInstantiated
		}
		return GetModuleInstanceState(d.Body)

	case *ts_ast.ModuleBlock:
		state := ModuleNonInstantiated
		for _, stmt := range d.Stmts {
			switch GetModuleInstanceState(stmt) {
			case ModuleConstEnumOnly:
				state = ModuleConstEnumOnly
			case ModuleInstantiated:
				return ModuleInstantiated
			}
		}
		return state
	}
	return ModuleInstantiated
}

func IsInstantiatedModule(n *ts_ast.Node, preserveConstEnums bool) bool {
	state := GetModuleInstanceState(n)
	return state == ModuleInstantiated || (preserveConstEnums && state == ModuleConstEnumOnly)
}
