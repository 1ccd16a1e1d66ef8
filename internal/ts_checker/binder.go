package ts_checker

import (
	"github.com/evanw/tslower/internal/ts_ast"
)

type SymbolFlags uint32

const (
	SymbolFunctionScopedVariable SymbolFlags = 1 << iota
	SymbolBlockScopedVariable
	SymbolFunction
	SymbolClass
	SymbolInterface
	SymbolTypeAlias
	SymbolRegularEnum
	SymbolConstEnum
	SymbolEnumMember
	SymbolValueModule
	SymbolNamespaceModule
	SymbolTypeParameter
	SymbolAlias
	SymbolGlobal
)

const (
	SymbolVariable  = SymbolFunctionScopedVariable | SymbolBlockScopedVariable
	SymbolEnum      = SymbolRegularEnum | SymbolConstEnum
	SymbolValue     = SymbolVariable | SymbolFunction | SymbolClass | SymbolEnum | SymbolEnumMember | SymbolValueModule
	SymbolType      = SymbolClass | SymbolInterface | SymbolEnum | SymbolEnumMember | SymbolTypeAlias | SymbolTypeParameter
	SymbolNamespace = SymbolValueModule | SymbolNamespaceModule | SymbolEnum

	// Exported declarations of these kinds also have a local binding inside
	// the namespace body, so references from the same body stay unqualified
	SymbolExportHasLocal = SymbolFunction | SymbolClass | SymbolEnum | SymbolValueModule
)

func (flags SymbolFlags) Has(flag SymbolFlags) bool {
	return (flags & flag) != 0
}

type Symbol struct {
	Name  string
	Flags SymbolFlags

	// Declaration nodes in source order. For variables this is the
	// "VariableDeclaration", "Parameter" or "BindingElement" node.
	Declarations     []*ts_ast.Node
	ValueDeclaration *ts_ast.Node

	// The namespace or enum that exports this symbol
	Parent  *Symbol
	Exports map[string]*Symbol

	// Aliases only
	IsTypeOnly   bool
	IsReferenced bool
}

func (s *Symbol) export(name string) *Symbol {
	if s.Exports == nil {
		return nil
	}
	return s.Exports[name]
}

// Returns the first declaration that is one of the given node payloads
func (s *Symbol) declarationOfKind(kinds ...ts_ast.Kind) *ts_ast.Node {
	for _, decl := range s.Declarations {
		for _, kind := range kinds {
			if decl.Kind() == kind {
				return decl
			}
		}
	}
	return nil
}

type ScopeKind uint8

const (
	ScopeBlock ScopeKind = iota
	ScopeClass
	ScopeDeclaration

	// The scopes below stop "var" declarations from hoisting further
	ScopeEntry // A source file, namespace body or enum body
	ScopeFunction
)

func (kind ScopeKind) StopsHoisting() bool {
	return kind >= ScopeEntry
}

type Scope struct {
	Kind    ScopeKind
	Parent  *Scope
	Node    *ts_ast.Node
	Members map[string]*Symbol

	// For namespace and enum bodies, the symbol whose exports are visible
	// from inside the body. Exports from every merged declaration show up.
	Container *Symbol
}

type binder struct {
	c *Checker
}

func (b *binder) newScope(kind ScopeKind, parent *Scope, node *ts_ast.Node) *Scope {
	s := &Scope{Kind: kind, Parent: parent, Node: node, Members: make(map[string]*Symbol)}
	b.c.scopes[node] = s
	return s
}

func hoistScope(s *Scope) *Scope {
	for !s.Kind.StopsHoisting() {
		s = s.Parent
	}
	return s
}

func entryScope(s *Scope) *Scope {
	for s.Kind != ScopeEntry && s.Kind != ScopeFunction {
		s = s.Parent
	}
	return s
}

func mergeInto(table map[string]*Symbol, name string, sym *Symbol) *Symbol {
	if existing := table[name]; existing != nil {
		return existing
	}
	table[name] = sym
	return sym
}

// Adds a declaration to a scope, merging it with an existing symbol of the
// same name. Exported declarations inside a namespace body become exports
// of the namespace.
func (b *binder) declare(s *Scope, nameNode *ts_ast.Node, flags SymbolFlags, decl *ts_ast.Node, isExported bool) *Symbol {
	name := ts_ast.IdentifierText(nameNode)
	if name == "" {
		return nil
	}

	var sym *Symbol
	if container := entryScope(s).Container; isExported && container != nil && container.Flags.Has(SymbolNamespace&^SymbolEnum) {
		if container.Exports == nil {
			container.Exports = make(map[string]*Symbol)
		}
		sym = mergeInto(container.Exports, name, &Symbol{Name: name, Parent: container})
		if flags.Has(SymbolExportHasLocal) {
			mergeInto(s.Members, name, sym)
		}
	} else {
		sym = mergeInto(s.Members, name, &Symbol{Name: name})
	}

	sym.Flags |= flags
	sym.Declarations = append(sym.Declarations, decl)
	if sym.ValueDeclaration == nil && flags.Has(SymbolValue) {
		sym.ValueDeclaration = decl
	}
	b.c.declSymbols[decl] = sym
	return sym
}

// Declares every identifier in a binding name
func (b *binder) declareBindingName(s *Scope, name *ts_ast.Node, flags SymbolFlags, decl *ts_ast.Node, isExported bool) {
	switch d := name.Data.(type) {
	case *ts_ast.EIdentifier:
		b.declare(s, name, flags, decl, isExported)
	case *ts_ast.ObjectBindingPattern:
		for _, elem := range d.Elements {
			b.declareBindingName(s, elem.Data.(*ts_ast.BindingElement).Name, flags, elem, isExported)
		}
	case *ts_ast.ArrayBindingPattern:
		for _, elem := range d.Elements {
			if e, ok := elem.Data.(*ts_ast.BindingElement); ok {
				b.declareBindingName(s, e.Name, flags, elem, isExported)
			}
		}
	}
}

func (b *binder) bindChildren(n *ts_ast.Node, s *Scope) {
	ts_ast.ForEachChild(n, func(child *ts_ast.Node) { b.bind(child, s) })
}

func (b *binder) bindAll(nodes []*ts_ast.Node, s *Scope) {
	for _, n := range nodes {
		if n != nil {
			b.bind(n, s)
		}
	}
}

func isExportedIn(modifiers ts_ast.ModifierFlags, n *ts_ast.Node) bool {
	if modifiers.Has(ts_ast.ModifierExport) {
		return true
	}

	// The inner declarations of "namespace A.B {}" are implicitly exported
	if _, ok := n.Data.(*ts_ast.SNamespace); ok && n.Parent != nil {
		_, ok := n.Parent.Data.(*ts_ast.SNamespace)
		return ok
	}
	return false
}

func (b *binder) bind(n *ts_ast.Node, s *Scope) {
	switch d := n.Data.(type) {
	case *ts_ast.EIdentifier:
		b.c.identScopes = append(b.c.identScopes, identScope{n, s})
		return

	case *ts_ast.SFunction:
		if d.Fn.Name != nil {
			b.declare(hoistScope(s), d.Fn.Name, SymbolFunction, n, isExportedIn(d.Fn.Modifiers, n))
		}
		b.bindFn(n, &d.Fn, s)
		return

	case *ts_ast.EFunction:
		fs := b.newScope(ScopeFunction, s, n)
		if d.Fn.Name != nil {
			b.declare(fs, d.Fn.Name, SymbolFunction, n, false)
		}
		b.bindFnBody(&d.Fn, fs)
		return

	case *ts_ast.EArrow:
		b.bindFn(n, &d.Fn, s)
		return

	case *ts_ast.CMethod:
		b.bindAll(d.Decorators, s)
		b.bind(d.Key, s)
		b.bindFn(n, &d.Fn, s)
		return

	case *ts_ast.CGetAccessor:
		b.bindAll(d.Decorators, s)
		b.bind(d.Key, s)
		b.bindFn(n, &d.Fn, s)
		return

	case *ts_ast.CSetAccessor:
		b.bindAll(d.Decorators, s)
		b.bind(d.Key, s)
		b.bindFn(n, &d.Fn, s)
		return

	case *ts_ast.CConstructor:
		b.bindFn(n, &d.Fn, s)
		return

	case *ts_ast.Block:
		if n.Parent != nil && ts_ast.FnOf(n.Parent) != nil {
			// Function bodies share the scope of the parameters
			break
		}
		b.bindChildren(n, b.newScope(ScopeBlock, s, n))
		return

	case *ts_ast.SFor, *ts_ast.SForIn, *ts_ast.SForOf, *ts_ast.CaseBlock:
		b.bindChildren(n, b.newScope(ScopeBlock, s, n))
		return

	case *ts_ast.CatchClause:
		cs := b.newScope(ScopeBlock, s, n)
		if d.VariableDeclaration != nil {
			decl := d.VariableDeclaration.Data.(*ts_ast.VariableDeclaration)
			b.declareBindingName(cs, decl.Name, SymbolBlockScopedVariable, d.VariableDeclaration, false)
		}
		b.bindChildren(n, cs)
		return

	case *ts_ast.SLocal:
		flags := SymbolBlockScopedVariable
		target := s
		if d.LocalKind == ts_ast.LocalVar {
			flags = SymbolFunctionScopedVariable
			target = hoistScope(s)
		}
		for _, decl := range d.Decls {
			b.declareBindingName(target, decl.Data.(*ts_ast.VariableDeclaration).Name, flags, decl, d.Modifiers.Has(ts_ast.ModifierExport))
		}

	case *ts_ast.SClass:
		if d.Class.Name != nil {
			b.declare(s, d.Class.Name, SymbolClass, n, isExportedIn(d.Class.Modifiers, n))
		}
		b.bindChildren(n, b.newScope(ScopeClass, s, n))
		return

	case *ts_ast.EClass:
		cs := b.newScope(ScopeClass, s, n)
		if d.Class.Name != nil {
			b.declare(cs, d.Class.Name, SymbolClass, n, false)
		}
		b.bindChildren(n, cs)
		return

	case *ts_ast.SInterface:
		b.declare(s, d.Name, SymbolInterface, n, isExportedIn(d.Modifiers, n))
		b.bindChildren(n, b.newScope(ScopeDeclaration, s, n))
		return

	case *ts_ast.STypeAlias:
		b.declare(s, d.Name, SymbolTypeAlias, n, isExportedIn(d.Modifiers, n))
		b.bindChildren(n, b.newScope(ScopeDeclaration, s, n))
		return

	case *ts_ast.TypeParameter:
		// Type parameters of function types and mapped types are not tracked
		if n.Parent == nil || !n.Parent.Kind().IsTypeNode() {
			b.declare(s, d.Name, SymbolTypeParameter, n, false)
		}

	case *ts_ast.SEnum:
		flags := SymbolRegularEnum
		if d.Modifiers.Has(ts_ast.ModifierConst) {
			flags = SymbolConstEnum
		}
		sym := b.declare(s, d.Name, flags, n, isExportedIn(d.Modifiers, n))
		es := b.newScope(ScopeEntry, s, n)
		es.Container = sym
		for _, member := range d.Members {
			name, ok := ts_ast.PropertyNameText(member.Data.(*ts_ast.EnumMember).Name)
			if !ok || sym == nil {
				continue
			}
			if sym.Exports == nil {
				sym.Exports = make(map[string]*Symbol)
			}
			memberSym := mergeInto(sym.Exports, name, &Symbol{Name: name, Parent: sym})
			memberSym.Flags |= SymbolEnumMember
			memberSym.Declarations = append(memberSym.Declarations, member)
			memberSym.ValueDeclaration = member
			b.c.declSymbols[member] = memberSym
		}
		b.bindChildren(n, es)
		return

	case *ts_ast.SNamespace:
		if d.IsGlobalAugmentation || d.IsStringName {
			b.bindChildren(n, b.newScope(ScopeEntry, s, n))
			return
		}
		flags := SymbolNamespaceModule
		if GetModuleInstanceState(n) != ModuleNonInstantiated {
			flags = SymbolValueModule
		}
		sym := b.declare(s, d.Name, flags, n, isExportedIn(d.Modifiers, n))
		es := b.newScope(ScopeEntry, s, n)
		es.Container = sym
		if d.Body != nil {
			if block, ok := d.Body.Data.(*ts_ast.ModuleBlock); ok {
				b.bindAll(block.Stmts, es)
			} else {
				b.bind(d.Body, es)
			}
		}
		return

	case *ts_ast.ImportClause:
		if d.Name != nil {
			sym := b.declare(s, d.Name, SymbolAlias, n, false)
			sym.IsTypeOnly = d.IsTypeOnly
		}
		if d.NamedBindings != nil {
			switch nb := d.NamedBindings.Data.(type) {
			case *ts_ast.NamespaceImport:
				sym := b.declare(s, nb.Name, SymbolAlias, d.NamedBindings, false)
				sym.IsTypeOnly = d.IsTypeOnly
			case *ts_ast.NamedImports:
				for _, elem := range nb.Elements {
					spec := elem.Data.(*ts_ast.ImportSpecifier)
					sym := b.declare(s, spec.Name, SymbolAlias, elem, false)
					sym.IsTypeOnly = d.IsTypeOnly || spec.IsTypeOnly
				}
			}
		}

	case *ts_ast.SImportEquals:
		sym := b.declare(s, d.Name, SymbolAlias, n, d.Modifiers.Has(ts_ast.ModifierExport))
		sym.IsTypeOnly = d.IsTypeOnly
	}

	b.bindChildren(n, s)
}

// Function-likes get a scope holding their type parameters and parameters
func (b *binder) bindFn(n *ts_ast.Node, fn *ts_ast.Fn, s *Scope) {
	b.bindFnBody(fn, b.newScope(ScopeFunction, s, n))
}

func (b *binder) bindFnBody(fn *ts_ast.Fn, fs *Scope) {
	if fn.Name != nil {
		b.bind(fn.Name, fs)
	}
	b.bindAll(fn.TypeParameters, fs)
	for _, param := range fn.Params {
		if p := param.Data.(*ts_ast.Parameter); p.Name != nil {
			b.declareBindingName(fs, p.Name, SymbolFunctionScopedVariable, param, false)
		}
	}
	b.bindAll(fn.Params, fs)
	if fn.ReturnType != nil {
		b.bind(fn.ReturnType, fs)
	}
	if fn.Body != nil {
		b.bind(fn.Body, fs)
	}
}
