package ts_transform

// This package lowers a checked TypeScript tree into a JavaScript tree. Type
// syntax is erased, and the TypeScript-only runtime constructs (enums,
// namespaces, parameter properties, experimental decorators) are rewritten
// into plain JavaScript. The result still contains some identifiers that must
// be rewritten while printing (references to namespace exports and to
// decorated classes), which is what the returned substitution hooks are for.

import (
	"fmt"

	"github.com/evanw/tslower/internal/compat"
	"github.com/evanw/tslower/internal/config"
	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/runtime"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
)

type TransformResult struct {
	File *ts_ast.Node

	// The runtime helpers the output calls, or nil under "NoEmitHelpers"
	Helpers []*runtime.Helper

	// These must be installed as the printer hooks when printing "File"
	Substitution *Substitution

	// Maps the id of an original class declaration to the identifier that
	// references to the class from inside its own body are rewritten to
	ClassAliases map[ts_ast.NodeID]*ts_ast.Node
}

// This is everything that changes as the visitor walks into nested nodes.
// It's saved before visiting any node and restored afterward.
type scopeState struct {
	// The innermost source file, block, case block or namespace body
	lexicalScope *ts_ast.Node

	// The innermost class
	nameScope *ts_ast.Node

	// The first declaration of each name in "lexicalScope". This decides
	// which of several merged namespace or enum declarations gets the "var".
	firstDeclarationsOfName map[string]*ts_ast.Node

	classHasParameterProperties bool

	// The namespace or enum being lowered and the name of its closure
	// parameter
	namespace              *ts_ast.Node
	namespaceContainerName *ts_ast.Node
}

type transformer struct {
	log      logger.Log
	source   *logger.Source
	f        *ts_ast.Factory
	resolver ts_checker.EmitResolver
	options  config.Options

	sourceFile *ts_ast.Node
	scope      scopeState

	// Each entry is one function body, namespace body, class wrapper or the
	// source file. Temporaries hoisted into it become one "var" statement.
	hoisted [][]*ts_ast.Node

	// Expressions from computed keys of removed class members. These are
	// evaluated right after the class.
	pendingExpressions []*ts_ast.Node

	// The temporary that caches a computed property name, by name node
	computedNameTemps map[*ts_ast.Node]*ts_ast.Node

	helpers      []*runtime.Helper
	substitution *Substitution
}

func Transform(
	log logger.Log,
	source *logger.Source,
	f *ts_ast.Factory,
	file *ts_ast.Node,
	resolver ts_checker.EmitResolver,
	options config.Options,
) TransformResult {
	if _, ok := file.Data.(*ts_ast.SourceFile); !ok {
		panic(fmt.Sprintf("Internal error: expected a source file but got %T", file.Data))
	}

	// Generated names must not shadow anything that's already in the file
	f.ReserveNames(file)

	t := &transformer{
		log:               log,
		source:            source,
		f:                 f,
		resolver:          resolver,
		options:           options,
		sourceFile:        file,
		computedNameTemps: make(map[*ts_ast.Node]*ts_ast.Node),
		substitution:      newSubstitution(f, resolver, options),
	}
	result := t.saveStateAndInvoke(file, t.visitSourceFile)

	var helpers []*runtime.Helper
	if !options.NoEmitHelpers {
		helpers = runtime.SortHelpers(t.helpers)
	}
	return TransformResult{
		File:         result,
		Helpers:      helpers,
		Substitution: t.substitution,
		ClassAliases: t.substitution.classAliases,
	}
}

func (t *transformer) debug(id logger.MsgID, node *ts_ast.Node, text string) {
	if t.log.AddMsg != nil {
		t.log.AddID(id, logger.Debug, t.source, node.Range, text)
	}
}

func (t *transformer) requestHelper(helper *runtime.Helper) {
	t.helpers = append(t.helpers, helper)
}

func (t *transformer) isUnsupported(feature compat.JSFeature) bool {
	return t.options.UnsupportedJSFeatures.Has(feature)
}

////////////////////////////////////////////////////////////////////////////////
// Scope state

func (t *transformer) saveStateAndInvoke(node *ts_ast.Node, visit ts_ast.Visitor) *ts_ast.Node {
	saved := t.scope
	t.onBeforeVisitNode(node)
	result := visit(node)

	// The first-declaration table belongs to the lexical scope. When the
	// scope didn't change, declarations recorded by this node must stay
	// visible to its following siblings.
	firstDeclarations := t.scope.firstDeclarationsOfName
	lexicalScopeChanged := t.scope.lexicalScope != saved.lexicalScope
	t.scope = saved
	if !lexicalScopeChanged {
		t.scope.firstDeclarationsOfName = firstDeclarations
	}
	return result
}

func (t *transformer) onBeforeVisitNode(node *ts_ast.Node) {
	switch d := node.Data.(type) {
	case *ts_ast.SourceFile, *ts_ast.CaseBlock, *ts_ast.ModuleBlock, *ts_ast.Block:
		t.scope.lexicalScope = node
		t.scope.nameScope = nil
		t.scope.firstDeclarationsOfName = nil

	case *ts_ast.SClass:
		if !d.Class.Modifiers.Has(ts_ast.ModifierDeclare) && d.Class.Name != nil {
			t.recordEmittedDeclarationInScope(node)
		}

	case *ts_ast.SFunction:
		if !d.Fn.Modifiers.Has(ts_ast.ModifierDeclare) && d.Fn.Name != nil {
			t.recordEmittedDeclarationInScope(node)
		}
	}
}

func (t *transformer) recordEmittedDeclarationInScope(node *ts_ast.Node) {
	name := ts_ast.IdentifierText(ts_ast.NameOf(node))
	if name == "" {
		return
	}
	if t.scope.firstDeclarationsOfName == nil {
		t.scope.firstDeclarationsOfName = make(map[string]*ts_ast.Node)
	}
	if _, ok := t.scope.firstDeclarationsOfName[name]; !ok {
		t.scope.firstDeclarationsOfName[name] = node
	}
}

func (t *transformer) isFirstEmittedDeclarationInScope(node *ts_ast.Node) bool {
	name := ts_ast.IdentifierText(ts_ast.NameOf(node))
	return t.scope.firstDeclarationsOfName != nil && t.scope.firstDeclarationsOfName[name] == node
}

func hasExportModifier(node *ts_ast.Node) bool {
	if ts_ast.ModifiersOf(node).Has(ts_ast.ModifierExport) {
		return true
	}

	// The inner declarations of "namespace A.B.C" are implicitly exported
	if _, ok := node.Data.(*ts_ast.SNamespace); ok && node.Parent != nil {
		if parent, ok := node.Parent.Data.(*ts_ast.SNamespace); ok && parent.Body == node {
			return true
		}
	}
	return false
}

func (t *transformer) isExportOfNamespace(node *ts_ast.Node) bool {
	return t.scope.namespace != nil && hasExportModifier(node)
}

func (t *transformer) isExternalModuleExport(node *ts_ast.Node) bool {
	return t.scope.namespace == nil && hasExportModifier(node)
}

func (t *transformer) isNamedExternalModuleExport(node *ts_ast.Node) bool {
	return t.isExternalModuleExport(node) && !ts_ast.ModifiersOf(node).Has(ts_ast.ModifierDefault)
}

func (t *transformer) isDefaultExternalModuleExport(node *ts_ast.Node) bool {
	return t.isExternalModuleExport(node) && ts_ast.ModifiersOf(node).Has(ts_ast.ModifierDefault)
}

// Removes the modifiers that don't exist in JavaScript. "export" is also
// removed inside namespaces since the namespace body becomes a function.
func (t *transformer) visitModifiers(modifiers ts_ast.ModifierFlags) ts_ast.ModifierFlags {
	modifiers &^= ts_ast.ModifierTypeScriptOnly | ts_ast.ModifierConst
	if t.scope.namespace != nil {
		modifiers &^= ts_ast.ModifierExport | ts_ast.ModifierDefault
	}
	return modifiers
}

////////////////////////////////////////////////////////////////////////////////
// Lexical environment

func (t *transformer) startLexicalEnvironment() {
	t.hoisted = append(t.hoisted, nil)
}

func (t *transformer) hoistVariableDeclaration(name *ts_ast.Node) {
	if len(t.hoisted) == 0 {
		panic("Internal error: no lexical environment to hoist into")
	}
	top := len(t.hoisted) - 1
	t.hoisted[top] = append(t.hoisted[top], name)
}

// Returns "var _a, _b;" for the hoisted names of the innermost environment,
// or nil if nothing was hoisted
func (t *transformer) endLexicalEnvironment() *ts_ast.Node {
	top := len(t.hoisted) - 1
	names := t.hoisted[top]
	t.hoisted = t.hoisted[:top]
	if len(names) == 0 {
		return nil
	}
	decls := make([]*ts_ast.Node, len(names))
	for i, name := range names {
		decls[i] = t.f.VarDecl(name, nil)
	}
	return t.f.Local(ts_ast.LocalVar, decls...)
}

// Inserts a statement after the leading prologue directives
func insertAfterPrologue(stmts []*ts_ast.Node, stmt *ts_ast.Node) []*ts_ast.Node {
	if stmt == nil {
		return stmts
	}
	i := 0
	for i < len(stmts) && ts_ast.IsPrologueDirective(stmts[i]) {
		i++
	}
	result := make([]*ts_ast.Node, 0, len(stmts)+1)
	result = append(result, stmts[:i]...)
	result = append(result, stmt)
	return append(result, stmts[i:]...)
}

func sameNodes(a []*ts_ast.Node, b []*ts_ast.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

////////////////////////////////////////////////////////////////////////////////
// Visitors

// The general-purpose visitor. Subtrees without TypeScript syntax are
// returned as-is without recursing into them.
func (t *transformer) visitor(node *ts_ast.Node) *ts_ast.Node {
	return t.saveStateAndInvoke(node, t.visitorWorker)
}

func (t *transformer) visitorWorker(node *ts_ast.Node) *ts_ast.Node {
	if node.TransformFlags.Has(ts_ast.ContainsTypeScript) {
		return t.visitTypeScript(node)
	}
	return node
}

// Top-level statements of the source file. Import and export declarations
// are always visited since whether they are kept depends on how the rest of
// the file uses them.
func (t *transformer) sourceElementVisitor(node *ts_ast.Node) *ts_ast.Node {
	return t.saveStateAndInvoke(node, t.sourceElementVisitorWorker)
}

func (t *transformer) sourceElementVisitorWorker(node *ts_ast.Node) *ts_ast.Node {
	switch node.Data.(type) {
	case *ts_ast.SImport:
		return t.visitImportDeclaration(node)
	case *ts_ast.SImportEquals:
		return t.visitImportEqualsDeclaration(node)
	case *ts_ast.SExportAssignment:
		return t.visitExportAssignment(node)
	case *ts_ast.SExport:
		return t.visitExportDeclaration(node)
	}
	return t.visitorWorker(node)
}

// Statements directly inside a namespace body. Exported declarations must
// be rewritten into assignments to the namespace object even when they
// contain no TypeScript syntax.
func (t *transformer) namespaceElementVisitor(node *ts_ast.Node) *ts_ast.Node {
	return t.saveStateAndInvoke(node, t.namespaceElementVisitorWorker)
}

func (t *transformer) namespaceElementVisitorWorker(node *ts_ast.Node) *ts_ast.Node {
	switch d := node.Data.(type) {
	case *ts_ast.SImport, *ts_ast.SExport, *ts_ast.SExportAssignment:
		return nil

	case *ts_ast.SImportEquals:
		if d.ModuleReference.Kind() == ts_ast.KindExternalModuleReference {
			return nil
		}
	}
	if node.TransformFlags.Has(ts_ast.ContainsTypeScript) || hasExportModifier(node) {
		return t.visitTypeScript(node)
	}
	return node
}

func (t *transformer) classElementVisitor(node *ts_ast.Node) *ts_ast.Node {
	return t.saveStateAndInvoke(node, t.classElementVisitorWorker)
}

func (t *transformer) classElementVisitorWorker(node *ts_ast.Node) *ts_ast.Node {
	switch d := node.Data.(type) {
	case *ts_ast.CConstructor:
		// Classes with TypeScript syntax synthesize their constructor in
		// "transformConstructor" and never get here
		if d.Fn.Body == nil {
			return nil
		}
		return t.f.Update(node, &ts_ast.CConstructor{Fn: t.visitFn(&d.Fn)})

	case *ts_ast.CProperty:
		return t.visitPropertyDeclaration(node)

	case *ts_ast.CIndexSignature:
		return nil

	case *ts_ast.CMethod:
		if d.Fn.Body == nil {
			return nil
		}
		fn := t.visitFn(&d.Fn)
		return t.f.Update(node, &ts_ast.CMethod{Key: t.visitPropertyNameOfClassElement(node), Fn: fn})

	case *ts_ast.CGetAccessor:
		if d.Fn.Body == nil {
			return nil
		}
		fn := t.visitFn(&d.Fn)
		return t.f.Update(node, &ts_ast.CGetAccessor{Key: t.visitPropertyNameOfClassElement(node), Fn: fn})

	case *ts_ast.CSetAccessor:
		if d.Fn.Body == nil {
			return nil
		}
		fn := t.visitFn(&d.Fn)
		return t.f.Update(node, &ts_ast.CSetAccessor{Key: t.visitPropertyNameOfClassElement(node), Fn: fn})

	case *ts_ast.CStaticBlock, *ts_ast.CSemicolon:
		return t.visitorWorker(node)
	}
	panic(fmt.Sprintf("Internal error: unexpected class element %T", node.Data))
}

// Every node that contains TypeScript syntax goes through here
func (t *transformer) visitTypeScript(node *ts_ast.Node) *ts_ast.Node {
	if node.Kind().IsStatement() && ts_ast.ModifiersOf(node).Has(ts_ast.ModifierDeclare) {
		t.debug(logger.MsgID_TS_ElidedDeclaration, node, "Removed ambient declaration")
		return t.f.NotEmitted(node)
	}

	if node.Kind().IsTypeNode() {
		return nil
	}

	switch d := node.Data.(type) {
	case *ts_ast.TypeParameter, *ts_ast.Decorator, *ts_ast.CIndexSignature:
		// Decorators are collected by class lowering before members are
		// visited, so any that are left here are removed
		return nil

	case *ts_ast.SInterface, *ts_ast.STypeAlias:
		t.debug(logger.MsgID_TS_ElidedDeclaration, node, fmt.Sprintf("Removed type declaration %q", ts_ast.IdentifierText(ts_ast.NameOf(node))))
		return t.f.NotEmitted(node)

	case *ts_ast.HeritageClause:
		if d.IsImplements {
			return nil
		}
		return t.f.VisitEachChild(node, t.visitor)

	case *ts_ast.ExpressionWithTypeArguments:
		return t.f.Update(node, &ts_ast.ExpressionWithTypeArguments{Value: ts_ast.VisitNode(d.Value, t.visitor)})

	case *ts_ast.SClass:
		return t.visitClassDeclaration(node)

	case *ts_ast.EClass:
		return t.visitClassExpression(node)

	case *ts_ast.SFunction:
		return t.visitFunctionDeclaration(node)

	case *ts_ast.EFunction:
		return t.f.Update(node, &ts_ast.EFunction{Fn: t.visitFn(&d.Fn)})

	case *ts_ast.EArrow:
		return t.f.Update(node, &ts_ast.EArrow{Fn: t.visitFn(&d.Fn)})

	case *ts_ast.Parameter:
		return t.visitParameter(node)

	case *ts_ast.EParen:
		return t.visitParenthesizedExpression(node)

	case *ts_ast.EAs:
		return t.f.PartiallyEmitted(ts_ast.VisitNode(d.Value, t.visitor), node)

	case *ts_ast.ESatisfies:
		return t.f.PartiallyEmitted(ts_ast.VisitNode(d.Value, t.visitor), node)

	case *ts_ast.ETypeAssertion:
		return t.f.PartiallyEmitted(ts_ast.VisitNode(d.Value, t.visitor), node)

	case *ts_ast.ENonNull:
		return t.f.PartiallyEmitted(ts_ast.VisitNode(d.Value, t.visitor), node)

	case *ts_ast.SEnum:
		return t.visitEnumDeclaration(node)

	case *ts_ast.SNamespace:
		return t.visitModuleDeclaration(node)

	case *ts_ast.SLocal:
		return t.visitVariableStatement(node)

	case *ts_ast.VariableDeclaration:
		return t.f.Update(node, &ts_ast.VariableDeclaration{
			Name:        ts_ast.VisitNode(d.Name, t.visitor),
			Initializer: ts_ast.VisitNode(d.Initializer, t.visitor),
		})

	case *ts_ast.SImportEquals:
		return t.visitImportEqualsDeclaration(node)

	case *ts_ast.SExportAssignment:
		return t.visitExportAssignment(node)

	case *ts_ast.SExport:
		return t.visitExportDeclaration(node)

	case *ts_ast.SImport:
		return t.visitImportDeclaration(node)

	case *ts_ast.CProperty, *ts_ast.CMethod, *ts_ast.CGetAccessor, *ts_ast.CSetAccessor, *ts_ast.CConstructor:
		panic(fmt.Sprintf("Internal error: class element %T visited outside of its class", node.Data))
	}

	// Everything else (type arguments on calls included) is handled by
	// visiting the children, since the visitor removes type nodes
	return t.f.VisitEachChild(node, t.visitor)
}

func (t *transformer) visitSourceFile(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.SourceFile)
	t.startLexicalEnvironment()
	stmts := ts_ast.VisitNodes(d.Stmts, t.sourceElementVisitor)
	stmts = insertAfterPrologue(stmts, t.endLexicalEnvironment())

	// Scripts and CommonJS output get a "use strict" prologue. ES modules
	// are always strict.
	if t.options.AlwaysStrict && !(d.IsExternalModule && t.options.Module.IsES()) {
		stmts = t.ensureUseStrict(stmts)
	}

	if sameNodes(stmts, d.Stmts) {
		return node
	}
	return t.f.Update(node, &ts_ast.SourceFile{
		FileName:          d.FileName,
		Stmts:             stmts,
		IsDeclarationFile: d.IsDeclarationFile,
		IsExternalModule:  d.IsExternalModule,
	})
}

func (t *transformer) ensureUseStrict(stmts []*ts_ast.Node) []*ts_ast.Node {
	for _, stmt := range stmts {
		directive, ok := stmt.Data.(*ts_ast.SDirective)
		if !ok {
			break
		}
		if directive.Value == "use strict" {
			return stmts
		}
	}
	return append([]*ts_ast.Node{t.f.Make(&ts_ast.SDirective{Value: "use strict"})}, stmts...)
}

////////////////////////////////////////////////////////////////////////////////
// Expressions

func (t *transformer) visitParenthesizedExpression(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.EParen)
	if !isAssertionExpression(skipParentheses(d.Value)) {
		return t.f.VisitEachChild(node, t.visitor)
	}

	// "(<T>x)" only needs the parentheses if the printer decides it does,
	// unless a comment in between would otherwise end up in the wrong place
	expr := ts_ast.VisitNode(d.Value, t.visitor)
	if expr.Comments != nil && len(expr.Comments.Leading) > 0 {
		return t.f.Update(node, &ts_ast.EParen{Value: expr})
	}
	return t.f.PartiallyEmitted(expr, node)
}

func skipParentheses(n *ts_ast.Node) *ts_ast.Node {
	for {
		switch d := n.Data.(type) {
		case *ts_ast.EParen:
			n = d.Value
		case *ts_ast.EPartiallyEmitted:
			n = d.Value
		default:
			return n
		}
	}
}

func isAssertionExpression(n *ts_ast.Node) bool {
	switch n.Data.(type) {
	case *ts_ast.EAs, *ts_ast.ESatisfies, *ts_ast.ETypeAssertion, *ts_ast.ENonNull:
		return true
	}
	return false
}

////////////////////////////////////////////////////////////////////////////////
// Functions

// Strips the type annotations of a function-like node and visits its body.
// The caller decides whether a function without a body is kept.
func (t *transformer) visitFn(fn *ts_ast.Fn) ts_ast.Fn {
	return ts_ast.Fn{
		Modifiers:   t.visitModifiers(fn.Modifiers),
		Name:        fn.Name,
		Params:      t.visitParameterList(fn.Params),
		Body:        t.visitFunctionBody(fn.Body),
		IsGenerator: fn.IsGenerator,
	}
}

func (t *transformer) visitParameterList(params []*ts_ast.Node) []*ts_ast.Node {
	return ts_ast.VisitNodes(params, t.visitor)
}

func (t *transformer) visitParameter(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.Parameter)

	// "this" parameters only exist in the type system
	if ts_ast.IsIdentifierNamed(d.Name, "this") {
		return nil
	}

	return t.f.Update(node, &ts_ast.Parameter{
		IsRest:      d.IsRest,
		Name:        ts_ast.VisitNode(d.Name, t.visitor),
		Initializer: ts_ast.VisitNode(d.Initializer, t.visitor),
	})
}

func (t *transformer) visitFunctionBody(body *ts_ast.Node) *ts_ast.Node {
	if body == nil {
		return nil
	}
	block, ok := body.Data.(*ts_ast.Block)
	if !ok {
		// A concise arrow function body
		return ts_ast.VisitNode(body, t.visitor)
	}
	t.startLexicalEnvironment()
	var stmts []*ts_ast.Node
	t.saveStateAndInvoke(body, func(*ts_ast.Node) *ts_ast.Node {
		stmts = ts_ast.VisitNodes(block.Stmts, t.visitor)
		return nil
	})
	stmts = insertAfterPrologue(stmts, t.endLexicalEnvironment())
	if sameNodes(stmts, block.Stmts) {
		return body
	}
	return t.f.Update(body, &ts_ast.Block{Stmts: stmts, IsMultiLine: block.IsMultiLine})
}

func (t *transformer) visitFunctionDeclaration(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.SFunction)
	if d.Fn.Body == nil {
		// Overloads have no body
		return t.f.NotEmitted(node)
	}
	updated := t.f.Update(node, &ts_ast.SFunction{Fn: t.visitFn(&d.Fn)})
	if t.isExportOfNamespace(node) {
		return t.f.List(updated, t.exportMemberAssignment(node))
	}
	return updated
}

// "N.f = f;" for a function or class exported from a namespace
func (t *transformer) exportMemberAssignment(node *ts_ast.Node) *ts_ast.Node {
	name := ts_ast.NameOf(node)
	return t.f.ExprStmt(t.f.Assign(
		t.f.QualifiedAccess(t.containerRef(), name),
		t.localName(name),
	))
}

// The name of a declaration as seen from the scope that contains it. This
// is never rewritten by namespace or class alias substitution.
func (t *transformer) localName(name *ts_ast.Node) *ts_ast.Node {
	return t.f.CloneIdent(name, ts_ast.EmitLocalName|ts_ast.EmitNoSubstitution|ts_ast.EmitNoComments)
}

////////////////////////////////////////////////////////////////////////////////
// Variables

func (t *transformer) visitVariableStatement(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.SLocal)
	if t.isExportOfNamespace(node) {
		var exprs []*ts_ast.Node
		for _, decl := range d.Decls {
			v := decl.Data.(*ts_ast.VariableDeclaration)
			if v.Initializer == nil {
				continue
			}
			exprs = append(exprs, t.transformInitializedVariable(v.Name, ts_ast.VisitNode(v.Initializer, t.visitor))...)
		}
		if len(exprs) == 0 {
			return nil
		}
		stmt := t.f.NewNodeFrom(node, &ts_ast.SExpr{Value: t.f.JoinWithComma(exprs)})
		stmt.Range = node.Range
		stmt.Comments = node.Comments
		return stmt
	}

	return t.f.Update(node, &ts_ast.SLocal{
		Modifiers: t.visitModifiers(d.Modifiers),
		LocalKind: d.LocalKind,
		Decls:     ts_ast.VisitNodes(d.Decls, t.visitor),
	})
}

// Turns "export const a = 1" inside a namespace into "N.a = 1". Binding
// patterns are flattened into one assignment per bound name.
func (t *transformer) transformInitializedVariable(name *ts_ast.Node, value *ts_ast.Node) []*ts_ast.Node {
	switch d := name.Data.(type) {
	case *ts_ast.EIdentifier:
		return []*ts_ast.Node{t.f.Assign(t.f.QualifiedAccess(t.containerRef(), name), value)}

	case *ts_ast.ObjectBindingPattern:
		var exprs []*ts_ast.Node
		value, exprs = t.cacheBindingValue(value, exprs)
		for _, element := range d.Elements {
			e := element.Data.(*ts_ast.BindingElement)
			if e.IsRest {
				panic("Internal error: object rest patterns in exported namespace variables are not supported")
			}
			key := e.PropertyName
			if key == nil {
				key = e.Name
			}
			access := t.memberAccessForPropertyName(value, key)
			exprs = append(exprs, t.transformBindingElement(e, access)...)
		}
		return exprs

	case *ts_ast.ArrayBindingPattern:
		var exprs []*ts_ast.Node
		value, exprs = t.cacheBindingValue(value, exprs)
		for i, element := range d.Elements {
			e, ok := element.Data.(*ts_ast.BindingElement)
			if !ok {
				// An omitted element
				continue
			}
			var access *ts_ast.Node
			if e.IsRest {
				access = t.f.Call(t.f.Dot(value, "slice"), t.f.Num(float64(i)))
			} else {
				access = t.f.Index(value, t.f.Num(float64(i)))
			}
			exprs = append(exprs, t.transformBindingElement(e, access)...)
		}
		return exprs
	}
	panic(fmt.Sprintf("Internal error: unexpected binding name %T", name.Data))
}

func (t *transformer) transformBindingElement(e *ts_ast.BindingElement, access *ts_ast.Node) []*ts_ast.Node {
	if e.Initializer == nil {
		return t.transformInitializedVariable(e.Name, access)
	}

	// "_b = _a.x, N.x = _b === void 0 ? 1 : _b"
	temp := t.f.NewTempIdent()
	t.hoistVariableDeclaration(temp)
	value := t.f.Cond(
		t.f.Binary(ts_ast.BinOpStrictEq, temp, t.f.VoidZero()),
		ts_ast.VisitNode(e.Initializer, t.visitor),
		temp,
	)
	return append([]*ts_ast.Node{t.f.Assign(temp, access)}, t.transformInitializedVariable(e.Name, value)...)
}

// Destructuring reads the value several times, so anything that isn't a
// plain name is evaluated once into a temporary first
func (t *transformer) cacheBindingValue(value *ts_ast.Node, exprs []*ts_ast.Node) (*ts_ast.Node, []*ts_ast.Node) {
	if ts_ast.IsSimpleInlineableExpression(value) {
		return value, exprs
	}
	temp := t.f.NewTempIdent()
	t.hoistVariableDeclaration(temp)
	return temp, append(exprs, t.f.Assign(temp, value))
}

// Returns "target.name", "target["name"]" or "target[expr]" for a property
// name or computed key
func (t *transformer) memberAccessForPropertyName(target *ts_ast.Node, key *ts_ast.Node) *ts_ast.Node {
	switch d := key.Data.(type) {
	case *ts_ast.EIdentifier:
		return t.f.Dot(target, d.Name)
	case *ts_ast.ComputedPropertyName:
		return t.f.Index(target, d.Value)
	case *ts_ast.EString:
		return t.f.Index(target, t.f.Str(d.Value))
	case *ts_ast.ENumber:
		return t.f.Index(target, t.f.Num(d.Value))
	}
	panic(fmt.Sprintf("Internal error: unexpected property name %T", key.Data))
}

////////////////////////////////////////////////////////////////////////////////
// Imports and exports

// Whether an import alias must be kept because something uses it as a value
func (t *transformer) shouldEmitAliasDeclaration(node *ts_ast.Node) bool {
	return t.resolver.IsReferencedAliasDeclaration(node)
}

func (t *transformer) visitImportDeclaration(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.SImport)
	if d.ImportClause == nil {
		// "import 'x'" is always kept for its side effects
		return node
	}
	clause := d.ImportClause.Data.(*ts_ast.ImportClause)
	if clause.IsTypeOnly {
		return nil
	}

	importClause := t.visitImportClause(d.ImportClause)
	if importClause == nil {
		t.debug(logger.MsgID_TS_UnusedImportElided, node, fmt.Sprintf("Removed unused import of %q", d.ModuleSpecifier))
		if t.options.ImportsNotUsedAsValues != config.ImportsNotUsedRemove {
			return t.f.Update(node, &ts_ast.SImport{ModuleSpecifier: d.ModuleSpecifier})
		}
		return nil
	}
	if importClause == d.ImportClause {
		return node
	}
	return t.f.Update(node, &ts_ast.SImport{ImportClause: importClause, ModuleSpecifier: d.ModuleSpecifier})
}

func (t *transformer) visitImportClause(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.ImportClause)
	var name *ts_ast.Node
	if d.Name != nil && t.shouldEmitAliasDeclaration(node) {
		name = d.Name
	}

	var namedBindings *ts_ast.Node
	if d.NamedBindings != nil {
		switch b := d.NamedBindings.Data.(type) {
		case *ts_ast.NamespaceImport:
			if t.shouldEmitAliasDeclaration(d.NamedBindings) {
				namedBindings = d.NamedBindings
			}

		case *ts_ast.NamedImports:
			elements := ts_ast.VisitNodes(b.Elements, func(specifier *ts_ast.Node) *ts_ast.Node {
				if s := specifier.Data.(*ts_ast.ImportSpecifier); !s.IsTypeOnly && t.shouldEmitAliasDeclaration(specifier) {
					return specifier
				}
				return nil
			})
			if sameNodes(elements, b.Elements) {
				namedBindings = d.NamedBindings
			} else if len(elements) > 0 {
				namedBindings = t.f.Update(d.NamedBindings, &ts_ast.NamedImports{Elements: elements})
			}
		}
	}

	switch {
	case name == nil && namedBindings == nil:
		return nil
	case name == d.Name && namedBindings == d.NamedBindings:
		return node
	}
	return t.f.Update(node, &ts_ast.ImportClause{Name: name, NamedBindings: namedBindings})
}

func (t *transformer) visitImportEqualsDeclaration(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.SImportEquals)
	if d.IsTypeOnly {
		return nil
	}

	if ref, ok := d.ModuleReference.Data.(*ts_ast.ExternalModuleReference); ok {
		if t.shouldEmitAliasDeclaration(node) {
			return t.f.Update(node, &ts_ast.SImportEquals{
				Modifiers:       t.visitModifiers(d.Modifiers),
				Name:            d.Name,
				ModuleReference: d.ModuleReference,
			})
		}
		if t.options.ImportsNotUsedAsValues == config.ImportsNotUsedPreserve {
			return t.f.Update(node, &ts_ast.SImport{ModuleSpecifier: ref.Path})
		}
		t.debug(logger.MsgID_TS_UnusedImportElided, node, fmt.Sprintf("Removed unused import of %q", ref.Path))
		return nil
	}

	// Scripts keep top-level aliases to values even when unused since other
	// scripts may refer to them
	if !t.shouldEmitAliasDeclaration(node) &&
		(t.sourceFile.Data.(*ts_ast.SourceFile).IsExternalModule || !t.resolver.IsTopLevelValueImportEqualsWithEntityName(node)) {
		return nil
	}

	value := t.expressionFromEntityName(d.ModuleReference)
	value.EmitFlags |= ts_ast.EmitNoComments
	if t.isExportOfNamespace(node) {
		return t.f.NewNodeFrom(node, &ts_ast.SExpr{Value: t.f.Assign(
			t.f.QualifiedAccess(t.containerRef(), d.Name),
			value,
		)})
	}

	// "export var x = A.B;" or "var x = A.B;"
	stmt := t.f.Update(node, &ts_ast.SLocal{
		Modifiers: t.visitModifiers(d.Modifiers),
		LocalKind: ts_ast.LocalVar,
		Decls:     []*ts_ast.Node{t.f.NewNodeFrom(node, &ts_ast.VariableDeclaration{Name: d.Name, Initializer: value})},
	})
	return stmt
}

// Converts an entity name "A.B.C" into the property access "A.B.C". The
// leftmost identifier is the original node so that it's still resolved
// while printing.
func (t *transformer) expressionFromEntityName(name *ts_ast.Node) *ts_ast.Node {
	switch d := name.Data.(type) {
	case *ts_ast.EIdentifier:
		return name
	case *ts_ast.QualifiedName:
		return t.f.Make(&ts_ast.EDot{
			Target: t.expressionFromEntityName(d.Left),
			Name:   t.f.CloneIdent(d.Right, ts_ast.EmitNoSubstitution),
		})
	}
	panic(fmt.Sprintf("Internal error: unexpected entity name %T", name.Data))
}

func (t *transformer) visitExportAssignment(node *ts_ast.Node) *ts_ast.Node {
	if !t.resolver.IsValueAliasDeclaration(node) {
		t.debug(logger.MsgID_TS_ElidedDeclaration, node, "Removed export of a type")
		return nil
	}
	return t.f.VisitEachChild(node, t.visitor)
}

func (t *transformer) visitExportDeclaration(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.SExport)
	if d.IsTypeOnly {
		return nil
	}
	if d.ExportClause == nil {
		return node
	}
	named, ok := d.ExportClause.Data.(*ts_ast.NamedExports)
	if !ok {
		// "export * as ns from 'x'"
		return node
	}

	// Re-exports keep an empty clause when imports are preserved, so that the
	// module is still loaded
	allowEmpty := d.ModuleSpecifier != nil && t.options.ImportsNotUsedAsValues != config.ImportsNotUsedRemove

	elements := ts_ast.VisitNodes(named.Elements, func(specifier *ts_ast.Node) *ts_ast.Node {
		if s := specifier.Data.(*ts_ast.ExportSpecifier); !s.IsTypeOnly && t.resolver.IsValueAliasDeclaration(specifier) {
			return specifier
		}
		return nil
	})
	if sameNodes(elements, named.Elements) {
		return node
	}
	if len(elements) == 0 && !allowEmpty {
		t.debug(logger.MsgID_TS_ElidedDeclaration, node, "Removed export of types")
		return nil
	}
	return t.f.Update(node, &ts_ast.SExport{
		ExportClause:    t.f.Update(d.ExportClause, &ts_ast.NamedExports{Elements: elements}),
		ModuleSpecifier: d.ModuleSpecifier,
	})
}
