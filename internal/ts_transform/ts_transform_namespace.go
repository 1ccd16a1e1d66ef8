package ts_transform

import (
	"fmt"

	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
)

// Enums and namespaces become a closure that adds properties to a shared
// object:
//
//	var N;
//	(function (N) {
//	    N.a = 1;
//	})(N || (N = {}));
//
// Several declarations with the same name in the same scope are merged at
// run time by passing the same object to each closure. Only the first one
// declares the variable.

func (t *transformer) shouldEmitEnumDeclaration(node *ts_ast.Node) bool {
	return !ts_ast.ModifiersOf(node).Has(ts_ast.ModifierConst) || t.options.ShouldEmitConstEnums()
}

func (t *transformer) shouldEmitModuleDeclaration(node *ts_ast.Node) bool {
	d := node.Data.(*ts_ast.SNamespace)
	if d.IsGlobalAugmentation || d.IsStringName {
		return false
	}
	return ts_checker.IsInstantiatedModule(node, t.options.ShouldEmitConstEnums())
}

func (t *transformer) visitEnumDeclaration(node *ts_ast.Node) *ts_ast.Node {
	if !t.shouldEmitEnumDeclaration(node) {
		t.debug(logger.MsgID_TS_ConstEnumInlined, node, fmt.Sprintf("Removed const enum %q", ts_ast.IdentifierText(ts_ast.NameOf(node))))
		return t.f.NotEmitted(node)
	}

	var stmts []*ts_ast.Node
	varAdded := t.addVarForEnumOrModuleDeclaration(&stmts, node)

	// Enums have no locals, so the closure parameter can always reuse the name
	name := ts_ast.NameOf(node)
	containerName := t.f.Make(&ts_ast.EIdentifier{Name: ts_ast.IdentifierText(name), IsGenerated: true})
	t.substitution.containerNames[node] = containerName

	body := t.transformEnumBody(node, containerName)
	stmts = append(stmts, t.closureStatement(node, containerName, body, varAdded), t.f.EndOfDeclaration(node))
	return t.f.List(stmts...)
}

func (t *transformer) transformEnumBody(node *ts_ast.Node, containerName *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.SEnum)
	saved := t.scope.namespaceContainerName
	t.scope.namespaceContainerName = containerName

	t.startLexicalEnvironment()
	members := make([]*ts_ast.Node, 0, len(d.Members))
	for _, member := range d.Members {
		members = append(members, t.transformEnumMember(member))
	}
	stmts := insertAfterPrologue(members, t.endLexicalEnvironment())

	t.scope.namespaceContainerName = saved
	return t.f.Block(stmts...)
}

// "E[E["A"] = 0] = "A";" or, for string values, "E["A"] = "a";"
func (t *transformer) transformEnumMember(member *ts_ast.Node) *ts_ast.Node {
	d := member.Data.(*ts_ast.EnumMember)
	value := t.transformEnumMemberValue(member)
	inner := t.f.Assign(t.f.Index(t.containerRef(), t.enumMemberName(d.Name)), value)

	outer := inner
	if _, ok := value.Data.(*ts_ast.EString); !ok {
		outer = t.f.Assign(t.f.Index(t.containerRef(), inner), t.enumMemberName(d.Name))
	}
	outer.Range = member.Range

	stmt := t.f.ExprStmt(outer)
	stmt.Range = member.Range
	stmt.Comments = member.Comments
	return stmt
}

func (t *transformer) enumMemberName(name *ts_ast.Node) *ts_ast.Node {
	switch d := name.Data.(type) {
	case *ts_ast.EIdentifier:
		return t.f.Str(d.Name)
	case *ts_ast.EString:
		return t.f.Str(d.Value)
	case *ts_ast.ENumber:
		return t.f.Num(d.Value)
	case *ts_ast.ComputedPropertyName:
		return ts_ast.VisitNode(d.Value, t.visitor)
	}
	panic(fmt.Sprintf("Internal error: unexpected enum member name %T", name.Data))
}

func (t *transformer) transformEnumMemberValue(member *ts_ast.Node) *ts_ast.Node {
	if value, ok := t.resolver.GetConstantValue(member); ok {
		switch v := value.(type) {
		case float64:
			return t.f.Num(v)
		case string:
			return t.f.Str(v)
		}
	}

	// References to other members from a computed initializer are rewritten
	// to "E.x" while printing
	t.substitution.enableNonQualifiedEnumMembers()
	if init := member.Data.(*ts_ast.EnumMember).Initializer; init != nil {
		return ts_ast.VisitNode(init, t.visitor)
	}
	return t.f.VoidZero()
}

func (t *transformer) visitModuleDeclaration(node *ts_ast.Node) *ts_ast.Node {
	if !t.shouldEmitModuleDeclaration(node) {
		t.debug(logger.MsgID_TS_ElidedDeclaration, node, fmt.Sprintf("Removed non-instantiated namespace %q", ts_ast.IdentifierText(ts_ast.NameOf(node))))
		return t.f.NotEmitted(node)
	}

	t.substitution.enableNamespaceExports()

	var stmts []*ts_ast.Node
	varAdded := t.addVarForEnumOrModuleDeclaration(&stmts, node)

	containerName := t.namespaceContainerName(node)
	t.substitution.containerNames[node] = containerName

	body := t.transformModuleBody(node, containerName)
	stmts = append(stmts, t.closureStatement(node, containerName, body, varAdded), t.f.EndOfDeclaration(node))
	return t.f.List(stmts...)
}

// The closure parameter reuses the namespace name unless something inside
// the namespace declares the same name, which would shadow it
func (t *transformer) namespaceContainerName(node *ts_ast.Node) *ts_ast.Node {
	name := ts_ast.IdentifierText(ts_ast.NameOf(node))
	if declaresLocalNamed(node.Data.(*ts_ast.SNamespace).Body, name) {
		name = t.f.UniqueName(name)
	}
	return t.f.Make(&ts_ast.EIdentifier{Name: name, IsGenerated: true})
}

func declaresLocalNamed(body *ts_ast.Node, name string) bool {
	if body == nil {
		return false
	}
	return ts_ast.SomeDescendant(body, func(n *ts_ast.Node) bool {
		switch n.Data.(type) {
		case *ts_ast.VariableDeclaration, *ts_ast.BindingElement, *ts_ast.Parameter,
			*ts_ast.SFunction, *ts_ast.SClass, *ts_ast.SEnum, *ts_ast.SImportEquals,
			*ts_ast.ImportSpecifier, *ts_ast.NamespaceImport, *ts_ast.ImportClause:
			return ts_ast.IsIdentifierNamed(ts_ast.NameOf(n), name)

		case *ts_ast.SNamespace:
			// The outer name of a nested namespace is what's declared here.
			// The inner declarations of "A.B" are checked when recursing.
			return ts_ast.IsIdentifierNamed(ts_ast.NameOf(n), name)
		}
		return false
	})
}

func (t *transformer) transformModuleBody(node *ts_ast.Node, containerName *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.SNamespace)
	saved := t.scope
	t.scope.namespace = node
	t.scope.namespaceContainerName = containerName
	t.scope.firstDeclarationsOfName = nil

	t.startLexicalEnvironment()
	var stmts []*ts_ast.Node
	if block, ok := d.Body.Data.(*ts_ast.ModuleBlock); ok {
		t.saveStateAndInvoke(d.Body, func(*ts_ast.Node) *ts_ast.Node {
			stmts = ts_ast.VisitNodes(block.Stmts, t.namespaceElementVisitor)
			return nil
		})
	} else {
		// "namespace A.B {}" nests the declaration of "B" directly
		t.scope.lexicalScope = d.Body
		if result := t.visitModuleDeclaration(d.Body); result != nil {
			if list, ok := result.Data.(*ts_ast.SyntaxList); ok {
				stmts = append(stmts, list.Nodes...)
			} else {
				stmts = append(stmts, result)
			}
		}
	}
	stmts = insertAfterPrologue(stmts, t.endLexicalEnvironment())

	t.scope = saved
	body := t.f.Block(stmts...)
	if _, ok := d.Body.Data.(*ts_ast.ModuleBlock); ok {
		body.Range = d.Body.Range
	} else {
		body.EmitFlags |= ts_ast.EmitNoComments
	}
	return body
}

// Adds "var N;" for the first declaration of a name in the current scope,
// or a merge marker for the ones that follow. Returns true if the variable
// was added.
func (t *transformer) addVarForEnumOrModuleDeclaration(stmts *[]*ts_ast.Node, node *ts_ast.Node) bool {
	kind := ts_ast.LocalLet
	if _, ok := t.scope.lexicalScope.Data.(*ts_ast.SourceFile); ok {
		kind = ts_ast.LocalVar
	}
	decl := t.f.VarDecl(t.localName(ts_ast.NameOf(node)), nil)
	local := t.f.NewNodeFrom(node, &ts_ast.SLocal{
		Modifiers: t.visitModifiers(ts_ast.ModifiersOf(node)) & ts_ast.ModifierExport,
		LocalKind: kind,
		Decls:     []*ts_ast.Node{decl},
	})

	t.recordEmittedDeclarationInScope(node)
	if t.isFirstEmittedDeclarationInScope(node) {
		local.Range = node.Range
		local.Comments = node.Comments
		local.EmitFlags |= ts_ast.EmitNoTrailingComments | ts_ast.EmitHasEndOfDeclarationMarker
		*stmts = append(*stmts, local)
		return true
	}

	marker := t.f.MergeMarker(local)
	marker.EmitFlags |= ts_ast.EmitNoComments | ts_ast.EmitHasEndOfDeclarationMarker
	*stmts = append(*stmts, marker)
	return false
}

// "(function (N) {...})(N || (N = {}));"
func (t *transformer) closureStatement(node *ts_ast.Node, containerName *ts_ast.Node, body *ts_ast.Node, varAdded bool) *ts_ast.Node {
	name := ts_ast.NameOf(node)
	exportName := func() *ts_ast.Node {
		if t.isExportOfNamespace(node) {
			return t.f.QualifiedAccess(t.containerRef(), name)
		}
		return t.localName(name)
	}
	moduleArg := t.f.Binary(ts_ast.BinOpLogicalOr, exportName(), t.f.Assign(exportName(), t.f.Object()))

	// "N = M.N || (M.N = {})" keeps the local variable in sync with the
	// exported property
	if t.isExportOfNamespace(node) {
		moduleArg = t.f.Assign(t.localName(name), moduleArg)
	}

	param := t.f.Param(t.f.CloneIdent(containerName, ts_ast.EmitNoSubstitution))
	closure := t.f.Make(&ts_ast.EFunction{Fn: ts_ast.Fn{Params: []*ts_ast.Node{param}, Body: body}})
	stmt := t.f.NewNodeFrom(node, &ts_ast.SExpr{Value: t.f.Call(closure, moduleArg)})
	stmt.Range = node.Range
	stmt.Comments = node.Comments
	stmt.EmitFlags |= ts_ast.EmitAdviseOnEmitNode
	if varAdded {
		// The comments were already printed before "var N;"
		stmt.EmitFlags |= ts_ast.EmitNoLeadingComments
	}
	return stmt
}

// A reference to the closure parameter of the namespace or enum being
// lowered. Each use gets its own node.
func (t *transformer) containerRef() *ts_ast.Node {
	return t.f.CloneIdent(t.scope.namespaceContainerName, ts_ast.EmitNoSubstitution)
}
