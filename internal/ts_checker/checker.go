package ts_checker

import (
	"github.com/evanw/tslower/internal/config"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_types"
)

type identScope struct {
	id    *ts_ast.Node
	scope *Scope
}

type resolution struct {
	symbol *Symbol

	// True if the name was found among the exports of an enclosing
	// namespace or enum instead of in a local scope
	viaExports bool
}

// Checker is a syntactic reference implementation of both oracles. It binds
// the declarations of one source file into scopes and resolves every
// identifier. Types come from annotations and simple expression typing.
// Imported bindings are assumed to be values unless they are type-only.
//
// A Checker is safe for concurrent reads once NewChecker returns, except
// for the lazily computed enum values and types, so use one per goroutine.
type Checker struct {
	file    *ts_ast.Node
	options config.Options

	scopes      map[*ts_ast.Node]*Scope
	declSymbols map[*ts_ast.Node]*Symbol
	identScopes []identScope
	resolved    map[*ts_ast.Node]resolution
	references  map[*Symbol][]*ts_ast.Node
	checkFlags  map[*ts_ast.Node]NodeCheckFlags
	globals     map[string]*Symbol

	enumValues    map[*ts_ast.Node]enumValue
	types         map[*ts_ast.Node]ts_types.Type
	classTypes    map[*ts_ast.Node]*classType
	declaredTypes map[*Symbol]ts_types.Type
}

// Binds and resolves a source file. Parent pointers are set on the tree.
func NewChecker(file *ts_ast.Node, options config.Options) *Checker {
	c := &Checker{
		file:        file,
		options:     options,
		scopes:      make(map[*ts_ast.Node]*Scope),
		declSymbols: make(map[*ts_ast.Node]*Symbol),
		resolved:    make(map[*ts_ast.Node]resolution),
		references:  make(map[*Symbol][]*ts_ast.Node),
		checkFlags:  make(map[*ts_ast.Node]NodeCheckFlags),
		globals:     makeGlobals(),
		enumValues:  make(map[*ts_ast.Node]enumValue),
		types:       make(map[*ts_ast.Node]ts_types.Type),
		classTypes:  make(map[*ts_ast.Node]*classType),

		declaredTypes: make(map[*Symbol]ts_types.Type),
	}
	ts_ast.SetParentPointers(file)

	b := binder{c: c}
	fileScope := b.newScope(ScopeEntry, nil, file)
	b.bindAll(file.Data.(*ts_ast.SourceFile).Stmts, fileScope)

	for _, item := range c.identScopes {
		c.resolveIdentifier(item.id, item.scope)
	}
	c.markImportEqualsTargets()
	return c
}

type identRole uint8

const (
	// Declaration names, property names and labels
	roleNone identRole = iota

	roleValue
	roleType

	// "typeof x" inside a type
	roleTypeQuery

	// The entity name on the right of "import x = A.B"
	roleEntityName

	// The local name in "export { x }"
	roleExportSpecifier
)

func classifyIdentifier(id *ts_ast.Node) identRole {
	p := id.Parent
	if p == nil {
		return roleValue
	}

	switch d := p.Data.(type) {
	case *ts_ast.EDot:
		if d.Name == id {
			return roleNone
		}

	case *ts_ast.QualifiedName:
		if d.Right == id {
			return roleNone
		}
		top := p
		for top.Parent != nil {
			if _, ok := top.Parent.Data.(*ts_ast.QualifiedName); !ok {
				break
			}
			top = top.Parent
		}
		return classifyEntityNameContext(top)

	case *ts_ast.PropertyAssignment:
		if d.Name == id {
			return roleNone
		}
	case *ts_ast.CProperty:
		if d.Key == id {
			return roleNone
		}
	case *ts_ast.CMethod:
		if d.Key == id {
			return roleNone
		}
	case *ts_ast.CGetAccessor:
		if d.Key == id {
			return roleNone
		}
	case *ts_ast.CSetAccessor:
		if d.Key == id {
			return roleNone
		}
	case *ts_ast.TPropertySignature:
		if d.Name == id {
			return roleNone
		}
	case *ts_ast.TMethodSignature:
		if d.Name == id {
			return roleNone
		}
	case *ts_ast.TPredicate:
		if d.ParameterName == id {
			return roleNone
		}
	case *ts_ast.TImport:
		return roleNone

	case *ts_ast.SImportEquals:
		if d.ModuleReference == id {
			return roleEntityName
		}
		return roleNone

	case *ts_ast.ExportSpecifier:
		if export, ok := p.Parent.Parent.Data.(*ts_ast.SExport); ok && export.ModuleSpecifier != nil {
			return roleNone
		}
		local := d.PropertyName
		if local == nil {
			local = d.Name
		}
		if local == id {
			return roleExportSpecifier
		}
		return roleNone

	case *ts_ast.TReference, *ts_ast.TQuery, *ts_ast.ExpressionWithTypeArguments:
		return classifyEntityNameContext(id)

	case *ts_ast.EnumMember, *ts_ast.VariableDeclaration, *ts_ast.Parameter, *ts_ast.BindingElement,
		*ts_ast.SFunction, *ts_ast.EFunction, *ts_ast.SClass, *ts_ast.EClass, *ts_ast.SInterface,
		*ts_ast.STypeAlias, *ts_ast.SEnum, *ts_ast.SNamespace, *ts_ast.TypeParameter,
		*ts_ast.ImportClause, *ts_ast.NamespaceImport, *ts_ast.ImportSpecifier, *ts_ast.NamespaceExport,
		*ts_ast.SLabel, *ts_ast.SBreak, *ts_ast.SContinue:
		// Initializers and default values of these nodes are never bare
		// identifiers sitting directly under them, except for these
		switch d := p.Data.(type) {
		case *ts_ast.VariableDeclaration:
			if d.Initializer == id {
				return roleValue
			}
		case *ts_ast.Parameter:
			if d.Initializer == id {
				return roleValue
			}
		case *ts_ast.BindingElement:
			if d.Initializer == id {
				return roleValue
			}
		case *ts_ast.EnumMember:
			if d.Initializer == id {
				return roleValue
			}
		}
		return roleNone
	}

	if isInTypeContext(id) {
		return roleType
	}
	return roleValue
}

// Classifies the entity name "n" based on the node that contains it
func classifyEntityNameContext(n *ts_ast.Node) identRole {
	switch d := n.Parent.Data.(type) {
	case *ts_ast.TQuery:
		return roleTypeQuery
	case *ts_ast.SImportEquals:
		return roleEntityName
	case *ts_ast.ExpressionWithTypeArguments:
		if clause, ok := n.Parent.Parent.Data.(*ts_ast.HeritageClause); ok {
			if clause.IsImplements {
				return roleType
			}
			if _, ok := n.Parent.Parent.Parent.Data.(*ts_ast.SInterface); ok {
				return roleType
			}
		}
		if d.Value == n {
			return roleValue
		}
	}
	return roleType
}

func isInTypeContext(n *ts_ast.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		kind := p.Kind()
		switch {
		case kind.IsTypeNode():
			return true
		case kind == ts_ast.KindHeritageClause:
			return p.Data.(*ts_ast.HeritageClause).IsImplements || p.Parent.Kind() == ts_ast.KindInterfaceDeclaration
		case kind.IsStatement(), kind.IsClassElement(), kind == ts_ast.KindSourceFile,
			ts_ast.FnOf(p) != nil:
			return false
		}
	}
	return false
}

func meaningForRole(role identRole) SymbolFlags {
	switch role {
	case roleValue:
		return SymbolValue
	case roleType:
		return SymbolType | SymbolNamespace
	case roleTypeQuery, roleEntityName:
		return SymbolValue | SymbolNamespace
	}
	return SymbolValue | SymbolType | SymbolNamespace
}

func (c *Checker) lookup(name string, s *Scope, meaning SymbolFlags) (resolution, bool) {
	meaning |= SymbolAlias
	for ; s != nil; s = s.Parent {
		if sym := s.Members[name]; sym != nil && sym.Flags.Has(meaning) {
			return resolution{symbol: sym}, true
		}
		if s.Container != nil {
			if sym := s.Container.export(name); sym != nil && sym.Flags.Has(meaning) {
				return resolution{symbol: sym, viaExports: true}, true
			}
		}
	}
	if sym := c.globals[name]; sym != nil {
		return resolution{symbol: sym}, true
	}
	return resolution{}, false
}

func (c *Checker) resolveIdentifier(id *ts_ast.Node, s *Scope) {
	role := classifyIdentifier(id)
	if role == roleNone {
		return
	}
	res, ok := c.lookup(ts_ast.IdentifierText(id), s, meaningForRole(role))
	if !ok {
		return
	}
	c.resolved[id] = res
	c.references[res.symbol] = append(c.references[res.symbol], id)

	switch role {
	case roleValue, roleExportSpecifier:
		c.markAliasReferenced(res.symbol)
		c.checkClassSelfReference(id, res.symbol)

	case roleType:
		if c.options.EmitDecoratorMetadata && isInDecoratorMetadataPosition(id) {
			c.markAliasReferenced(res.symbol)
		}
	}
}

func (c *Checker) markAliasReferenced(sym *Symbol) {
	if sym.Flags.Has(SymbolAlias) && !sym.IsTypeOnly {
		sym.IsReferenced = true
	}
}

// "import x = A.B" marks "A" as referenced once "x" is referenced
func (c *Checker) markImportEqualsTargets() {
	for changed := true; changed; {
		changed = false
		for decl, sym := range c.declSymbols {
			d, ok := decl.Data.(*ts_ast.SImportEquals)
			if !ok || !sym.IsReferenced {
				continue
			}
			left := leftmostIdentifier(d.ModuleReference)
			if left == nil {
				continue
			}
			if res, ok := c.resolved[left]; ok && res.symbol.Flags.Has(SymbolAlias) && !res.symbol.IsReferenced && !res.symbol.IsTypeOnly {
				res.symbol.IsReferenced = true
				changed = true
			}
		}
	}
}

func leftmostIdentifier(n *ts_ast.Node) *ts_ast.Node {
	for {
		switch d := n.Data.(type) {
		case *ts_ast.EIdentifier:
			return n
		case *ts_ast.QualifiedName:
			n = d.Left
		case *ts_ast.EDot:
			n = d.Target
		default:
			return nil
		}
	}
}

// Type annotations that feed decorator metadata are emitted as values
func isInDecoratorMetadataPosition(id *ts_ast.Node) bool {
	owner := id.Parent
	for owner != nil && (owner.Kind().IsTypeNode() || owner.Kind() == ts_ast.KindQualifiedName) {
		owner = owner.Parent
	}
	if owner == nil {
		return false
	}
	if owner.Kind() == ts_ast.KindParameter {
		owner = owner.Parent
	}
	if owner == nil || owner.Parent == nil || ts_ast.ClassOf(owner.Parent) == nil {
		return false
	}
	switch d := owner.Data.(type) {
	case *ts_ast.CProperty:
		return len(d.Decorators) > 0
	case *ts_ast.CMethod:
		return len(d.Decorators) > 0 || hasDecoratedParameter(&d.Fn)
	case *ts_ast.CGetAccessor:
		return len(d.Decorators) > 0 || hasDecoratedParameter(&d.Fn)
	case *ts_ast.CSetAccessor:
		return len(d.Decorators) > 0 || hasDecoratedParameter(&d.Fn)
	case *ts_ast.CConstructor:
		return len(ts_ast.ClassOf(owner.Parent).Decorators) > 0 || hasDecoratedParameter(&d.Fn)
	}
	return false
}

func hasDecoratedParameter(fn *ts_ast.Fn) bool {
	for _, param := range fn.Params {
		if len(param.Data.(*ts_ast.Parameter).Decorators) > 0 {
			return true
		}
	}
	return false
}

// A decorated class that refers to itself from inside its body needs an
// alias, since the class decorators may replace the class binding
func (c *Checker) checkClassSelfReference(id *ts_ast.Node, sym *Symbol) {
	if !sym.Flags.Has(SymbolClass) {
		return
	}
	decl := sym.declarationOfKind(ts_ast.KindClassDeclaration)
	if decl == nil || len(decl.Data.(*ts_ast.SClass).Class.Decorators) == 0 {
		return
	}
	for p := id.Parent; p != nil; p = p.Parent {
		if p == decl {
			c.checkFlags[decl] |= CheckClassWithConstructorReference
			c.checkFlags[id] |= CheckConstructorReferenceInClass
			return
		}
	}
}

// Returns the symbol an entity name or property access chain refers to
func (c *Checker) resolveEntity(n *ts_ast.Node) *Symbol {
	for depth := 0; depth < 32; depth++ {
		sym := c.resolveEntityOnce(n)
		if sym == nil || !sym.Flags.Has(SymbolAlias) {
			return sym
		}

		// Follow "import x = A.B" to its target
		decl := sym.declarationOfKind(ts_ast.KindImportEqualsDeclaration)
		if decl == nil {
			return sym
		}
		ref := decl.Data.(*ts_ast.SImportEquals).ModuleReference
		if ref.Kind() == ts_ast.KindExternalModuleReference {
			return sym
		}
		n = ref
	}
	return nil
}

func (c *Checker) resolveEntityOnce(n *ts_ast.Node) *Symbol {
	switch d := n.Data.(type) {
	case *ts_ast.EIdentifier:
		if res, ok := c.resolved[n]; ok {
			return res.symbol
		}
	case *ts_ast.QualifiedName:
		if left := c.resolveEntity(d.Left); left != nil {
			return left.export(ts_ast.IdentifierText(d.Right))
		}
	case *ts_ast.EDot:
		if left := c.resolveEntity(d.Target); left != nil {
			return left.export(ts_ast.IdentifierText(d.Name))
		}
	case *ts_ast.EIndex:
		if name, ok := d.Index.Data.(*ts_ast.EString); ok {
			if left := c.resolveEntity(d.Target); left != nil {
				return left.export(name.Value)
			}
		}
	case *ts_ast.EParen:
		return c.resolveEntity(d.Value)
	}
	return nil
}

// Returns the symbol declared by a declaration node or declaration name
func (c *Checker) SymbolOfDeclaration(n *ts_ast.Node) *Symbol {
	if sym := c.declSymbols[n]; sym != nil {
		return sym
	}
	if n.Parent != nil && ts_ast.NameOf(n.Parent) == n {
		return c.declSymbols[n.Parent]
	}
	return nil
}

// Returns the symbol an identifier refers to, or nil
func (c *Checker) SymbolAtLocation(id *ts_ast.Node) *Symbol {
	if res, ok := c.resolved[id]; ok {
		return res.symbol
	}
	return c.SymbolOfDeclaration(id)
}

////////////////////////////////////////////////////////////////////////////////
// EmitResolver

func (c *Checker) IsReferencedAliasDeclaration(node *ts_ast.Node) bool {
	switch node.Data.(type) {
	case *ts_ast.ImportClause, *ts_ast.NamespaceImport, *ts_ast.ImportSpecifier, *ts_ast.SImportEquals:
		if sym := c.declSymbols[node]; sym != nil {
			return sym.IsReferenced
		}
	}
	return false
}

func (c *Checker) IsValueAliasDeclaration(node *ts_ast.Node) bool {
	switch d := node.Data.(type) {
	case *ts_ast.ImportClause, *ts_ast.NamespaceImport, *ts_ast.ImportSpecifier:
		if sym := c.declSymbols[node]; sym != nil {
			return !sym.IsTypeOnly
		}

	case *ts_ast.SImportEquals:
		if d.IsTypeOnly {
			return false
		}
		if d.ModuleReference.Kind() == ts_ast.KindExternalModuleReference {
			return true
		}
		return c.isValueSymbol(c.resolveEntity(d.ModuleReference))

	case *ts_ast.ExportSpecifier:
		if d.IsTypeOnly || node.Parent.Parent.Data.(*ts_ast.SExport).IsTypeOnly {
			return false
		}
		local := d.PropertyName
		if local == nil {
			local = d.Name
		}
		if _, ok := c.resolved[local]; !ok {
			return true
		}
		return c.isValueSymbol(c.resolveEntity(local))

	case *ts_ast.SExportAssignment:
		if _, ok := d.Value.Data.(*ts_ast.EIdentifier); !ok {
			return true
		}
		if _, ok := c.resolved[d.Value]; !ok {
			return true
		}
		return c.isValueSymbol(c.resolveEntity(d.Value))
	}
	return true
}

// Unresolvable symbols are assumed to be values. Const enums and
// namespaces containing only const enums are values only when they are
// emitted.
func (c *Checker) isValueSymbol(sym *Symbol) bool {
	if sym == nil {
		return true
	}
	if sym.Flags.Has(SymbolAlias) {
		return !sym.IsTypeOnly
	}
	if !sym.Flags.Has(SymbolValue) {
		return false
	}
	if c.options.ShouldEmitConstEnums() {
		return true
	}
	if sym.Flags&SymbolValue == SymbolConstEnum {
		return false
	}
	if sym.Flags&SymbolValue == SymbolValueModule {
		for _, decl := range sym.Declarations {
			if GetModuleInstanceState(decl) == ModuleInstantiated {
				return true
			}
		}
		return false
	}
	return true
}

func (c *Checker) IsTopLevelValueImportEqualsWithEntityName(node *ts_ast.Node) bool {
	d, ok := node.Data.(*ts_ast.SImportEquals)
	if !ok || node.Parent == nil || node.Parent.Kind() != ts_ast.KindSourceFile {
		return false
	}
	if d.ModuleReference.Kind() == ts_ast.KindExternalModuleReference {
		return false
	}
	return c.IsValueAliasDeclaration(node)
}

func (c *Checker) GetReferencedExportContainer(id *ts_ast.Node) *ts_ast.Node {
	res, ok := c.resolved[id]
	if !ok || !res.viaExports || res.symbol.Parent == nil {
		return nil
	}
	for p := id.Parent; p != nil; p = p.Parent {
		switch p.Data.(type) {
		case *ts_ast.SNamespace, *ts_ast.SEnum:
			if c.declSymbols[p] == res.symbol.Parent {
				return p
			}
		}
	}
	return nil
}

func (c *Checker) GetReferencedValueDeclaration(id *ts_ast.Node) *ts_ast.Node {
	if res, ok := c.resolved[id]; ok {
		return res.symbol.ValueDeclaration
	}
	return nil
}

func (c *Checker) GetConstantValue(node *ts_ast.Node) (interface{}, bool) {
	switch node.Data.(type) {
	case *ts_ast.EnumMember:
		return c.enumMemberValue(node)

	case *ts_ast.EDot, *ts_ast.EIndex:
		sym := c.resolveEntity(node)
		if sym == nil || !sym.Flags.Has(SymbolEnumMember) || sym.Parent == nil || !sym.Parent.Flags.Has(SymbolConstEnum) {
			return nil, false
		}
		return c.enumMemberValue(sym.ValueDeclaration)
	}
	return nil, false
}

func (c *Checker) NodeCheckFlags(node *ts_ast.Node) NodeCheckFlags {
	return c.checkFlags[node]
}

////////////////////////////////////////////////////////////////////////////////
// TypeChecker (see type_of.go for the rest)

func (c *Checker) References(name *ts_ast.Node) []*ts_ast.Node {
	sym := c.SymbolAtLocation(name)
	if sym == nil {
		return nil
	}
	var result []*ts_ast.Node
	for _, ref := range c.references[sym] {
		if ref != name {
			result = append(result, ref)
		}
	}
	return result
}
