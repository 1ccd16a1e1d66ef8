package ts_transform

import (
	"github.com/evanw/tslower/internal/compat"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
)

type classFacts uint16

const (
	classHasStaticInitializedProperties classFacts = 1 << iota
	classHasConstructorDecorators
	classHasMemberDecorators
	classIsExportOfNamespace
	classIsDefaultExternalExport
	classIsNamedExternalExport
	classIsDerivedClass
	classUseImmediatelyInvokedFunctionExpression

	classHasAnyDecorators = classHasConstructorDecorators | classHasMemberDecorators
	classNeedsName        = classHasStaticInitializedProperties | classHasMemberDecorators | classHasConstructorDecorators
)

func (facts classFacts) has(flag classFacts) bool {
	return (facts & flag) != 0
}

// Classes without decorators, type parameters or class members that only
// exist in TypeScript keep their shape. Only the types inside are removed.
func isClassWithTypeScriptSyntax(class *ts_ast.Class) bool {
	if len(class.Decorators) > 0 || len(class.TypeParameters) > 0 {
		return true
	}
	for _, clause := range class.Heritage {
		if clause.TransformFlags.Has(ts_ast.ContainsTypeScriptClassSyntax) {
			return true
		}
	}
	for _, member := range class.Members {
		if member.TransformFlags.Has(ts_ast.ContainsTypeScriptClassSyntax) {
			return true
		}
	}
	return false
}

func (t *transformer) getClassFacts(node *ts_ast.Node, staticProperties []*ts_ast.Node) (facts classFacts) {
	class := ts_ast.ClassOf(node)
	if len(staticProperties) > 0 {
		facts |= classHasStaticInitializedProperties
	}
	if extends := ts_ast.ExtendsOf(class); extends != nil && ts_ast.SkipOuterExpressions(extends).Kind() != ts_ast.KindNullKeyword {
		facts |= classIsDerivedClass
	}
	if shouldEmitDecorateCallForClass(class) {
		facts |= classHasConstructorDecorators
	}
	if childIsDecorated(class) {
		facts |= classHasMemberDecorators
	}

	switch {
	case t.isExportOfNamespace(node):
		facts |= classIsExportOfNamespace
	case t.isDefaultExternalModuleExport(node):
		facts |= classIsDefaultExternalExport
	case t.isNamedExternalModuleExport(node):
		facts |= classIsNamedExternalExport
	}

	// Decorators may replace the class, which ES5 class lowering can only
	// express if the class and its decorators are wrapped together
	if t.options.Target <= compat.ES5 && facts.has(classHasAnyDecorators) {
		facts |= classUseImmediatelyInvokedFunctionExpression
	}
	return
}

func shouldEmitDecorateCallForClass(class *ts_ast.Class) bool {
	if len(class.Decorators) > 0 {
		return true
	}
	if ctor := ts_ast.ConstructorOf(class); ctor != nil {
		return hasDecoratedParameter(&ctor.Data.(*ts_ast.CConstructor).Fn)
	}
	return false
}

func childIsDecorated(class *ts_ast.Class) bool {
	for _, member := range class.Members {
		if isDecoratedClassElement(member) {
			return true
		}
	}
	return false
}

// Decorators are only valid on class elements with a body, and parameter
// decorators only on methods, set accessors and constructors
func isDecoratedClassElement(member *ts_ast.Node) bool {
	switch d := member.Data.(type) {
	case *ts_ast.CProperty:
		return len(d.Decorators) > 0
	case *ts_ast.CMethod:
		return d.Fn.Body != nil && (len(d.Decorators) > 0 || hasDecoratedParameter(&d.Fn))
	case *ts_ast.CGetAccessor:
		return d.Fn.Body != nil && len(d.Decorators) > 0
	case *ts_ast.CSetAccessor:
		return d.Fn.Body != nil && (len(d.Decorators) > 0 || hasDecoratedParameter(&d.Fn))
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

////////////////////////////////////////////////////////////////////////////////
// Class declarations

func (t *transformer) visitClassDeclaration(node *ts_ast.Node) *ts_ast.Node {
	class := &node.Data.(*ts_ast.SClass).Class
	t.scope.nameScope = node

	if !isClassWithTypeScriptSyntax(class) && !t.isExportOfNamespace(node) {
		visited, changed := t.visitClassFastPath(class)
		if !changed {
			return node
		}
		return t.f.Update(node, &ts_ast.SClass{Class: visited})
	}

	staticProperties := t.initializedProperties(class, true)
	facts := t.getClassFacts(node, staticProperties)
	if facts.has(classUseImmediatelyInvokedFunctionExpression) {
		t.startLexicalEnvironment()
	}

	savedPendingExpressions := t.pendingExpressions
	t.pendingExpressions = nil

	name := class.Name
	if name == nil && facts.has(classNeedsName) {
		name = t.f.NewUniqueIdent("default")
	}

	var head *ts_ast.Node
	if facts.has(classHasConstructorDecorators) {
		head = t.classDeclarationHeadWithDecorators(node, name, facts)
	} else {
		head = t.classDeclarationHeadWithoutDecorators(node, name, facts)
	}
	stmts := []*ts_ast.Node{head}

	// Computed keys of removed members are still evaluated, in order, right
	// after the class
	if len(t.pendingExpressions) > 0 {
		stmts = append(stmts, t.f.ExprStmt(t.f.JoinWithComma(t.pendingExpressions)))
	}
	t.pendingExpressions = savedPendingExpressions

	if facts.has(classHasStaticInitializedProperties) {
		stmts = append(stmts, t.initializedPropertyStatements(staticProperties, func() *ts_ast.Node { return t.localName(name) })...)
	}

	stmts = append(stmts, t.classElementDecorationStatements(node, name, false)...)
	stmts = append(stmts, t.classElementDecorationStatements(node, name, true)...)
	if stmt := t.constructorDecorationStatement(node, name); stmt != nil {
		stmts = append(stmts, stmt)
	}

	if facts.has(classUseImmediatelyInvokedFunctionExpression) {
		// let C = (() => {
		//     let C = class C {};
		//     C = __decorate([dec], C);
		//     return C;
		// })();
		head.EmitFlags |= ts_ast.EmitNoComments
		ret := t.f.Return(t.localName(name))
		ret.EmitFlags |= ts_ast.EmitNoComments
		stmts = append(stmts, ret)
		stmts = insertAfterPrologue(stmts, t.endLexicalEnvironment())

		var wrapper *ts_ast.Node
		if t.isUnsupported(compat.Arrow) {
			wrapper = t.f.Paren(t.f.FunctionExpr(nil, stmts...))
		} else {
			wrapper = t.f.Arrow(nil, stmts...)
		}
		iife := t.f.Call(wrapper)
		iife.EmitFlags |= ts_ast.EmitTypeScriptClassWrapper

		varStmt := t.f.NewNodeFrom(node, &ts_ast.SLocal{
			LocalKind: ts_ast.LocalLet,
			Decls:     []*ts_ast.Node{t.f.VarDecl(t.localName(name), iife)},
		})
		varStmt.Range = node.Range
		varStmt.Comments = node.Comments
		stmts = []*ts_ast.Node{varStmt}
	}

	if facts.has(classIsExportOfNamespace) {
		stmts = append(stmts, t.exportMemberAssignment(node))
	} else if facts.has(classUseImmediatelyInvokedFunctionExpression | classHasConstructorDecorators) {
		// The class is now a variable, which can't carry "export"
		if facts.has(classIsDefaultExternalExport) {
			stmts = append(stmts, t.f.Make(&ts_ast.SExportAssignment{Value: t.localName(name)}))
		} else if facts.has(classIsNamedExternalExport) {
			specifier := t.f.Make(&ts_ast.ExportSpecifier{Name: t.localName(name)})
			clause := t.f.Make(&ts_ast.NamedExports{Elements: []*ts_ast.Node{specifier}})
			stmts = append(stmts, t.f.Make(&ts_ast.SExport{ExportClause: clause}))
		}
	}

	if len(stmts) == 1 {
		return stmts[0]
	}
	stmts[0].EmitFlags |= ts_ast.EmitHasEndOfDeclarationMarker
	stmts = append(stmts, t.f.EndOfDeclaration(node))
	return t.f.List(stmts...)
}

// Removes the types from a class that otherwise stays as written. Returns
// false if nothing changed.
func (t *transformer) visitClassFastPath(class *ts_ast.Class) (ts_ast.Class, bool) {
	modifiers := t.visitModifiers(class.Modifiers)
	heritage := ts_ast.VisitNodes(class.Heritage, t.visitor)
	members := ts_ast.VisitNodes(class.Members, t.classElementVisitor)
	changed := modifiers != class.Modifiers || !sameNodes(heritage, class.Heritage) || !sameNodes(members, class.Members)
	return ts_ast.Class{
		Modifiers: modifiers,
		Name:      class.Name,
		Heritage:  heritage,
		Members:   members,
	}, changed
}

// class C {}
func (t *transformer) classDeclarationHeadWithoutDecorators(node *ts_ast.Node, name *ts_ast.Node, facts classFacts) *ts_ast.Node {
	class := ts_ast.ClassOf(node)
	var modifiers ts_ast.ModifierFlags
	if !facts.has(classUseImmediatelyInvokedFunctionExpression) {
		modifiers = t.visitModifiers(class.Modifiers)
	}
	return t.f.Update(node, &ts_ast.SClass{Class: ts_ast.Class{
		Modifiers: modifiers,
		Name:      name,
		Heritage:  ts_ast.VisitNodes(class.Heritage, t.visitor),
		Members:   t.transformClassMembers(node, facts.has(classIsDerivedClass)),
	}})
}

// let C = class C {};
// let C = C_1 = class C {};
func (t *transformer) classDeclarationHeadWithDecorators(node *ts_ast.Node, name *ts_ast.Node, facts classFacts) *ts_ast.Node {
	class := ts_ast.ClassOf(node)
	alias := t.classAliasIfNeeded(node)

	classExpr := t.f.NewNodeFrom(node, &ts_ast.EClass{Class: ts_ast.Class{
		Name:     name,
		Heritage: ts_ast.VisitNodes(class.Heritage, t.visitor),
		Members:  t.transformClassMembers(node, facts.has(classIsDerivedClass)),
	}})
	classExpr.Range = node.Range

	value := classExpr
	if alias != nil {
		value = t.f.Assign(t.f.CloneIdent(alias, ts_ast.EmitNoSubstitution), classExpr)
	}
	stmt := t.f.NewNodeFrom(node, &ts_ast.SLocal{
		LocalKind: ts_ast.LocalLet,
		Decls:     []*ts_ast.Node{t.f.VarDecl(t.localName(name), value)},
	})
	stmt.Range = node.Range
	stmt.Comments = node.Comments
	return stmt
}

// A decorated class that refers to itself from inside its body gets an
// alias, since the class decorators may replace the outer binding before
// the body runs
func (t *transformer) classAliasIfNeeded(node *ts_ast.Node) *ts_ast.Node {
	original := ts_ast.GetOriginal(node)
	if !t.resolver.NodeCheckFlags(original).Has(ts_checker.CheckClassWithConstructorReference) {
		return nil
	}
	t.substitution.enableClassAliases()
	base := "default"
	if name := ts_ast.ClassOf(node).Name; name != nil && !ts_ast.IsGeneratedIdentifier(name) {
		base = ts_ast.IdentifierText(name)
	}
	alias := t.f.NewUniqueIdent(base)
	t.substitution.classAliases[original.ID] = alias
	t.hoistVariableDeclaration(alias)
	return alias
}

////////////////////////////////////////////////////////////////////////////////
// Class expressions

func (t *transformer) visitClassExpression(node *ts_ast.Node) *ts_ast.Node {
	class := &node.Data.(*ts_ast.EClass).Class
	t.scope.nameScope = node

	if !isClassWithTypeScriptSyntax(class) {
		visited, changed := t.visitClassFastPath(class)
		if !changed {
			return node
		}
		return t.f.Update(node, &ts_ast.EClass{Class: visited})
	}

	savedPendingExpressions := t.pendingExpressions
	t.pendingExpressions = nil
	staticProperties := t.initializedProperties(class, true)

	// Decorators aren't allowed on class expressions, so they are dropped
	classExpr := t.f.Update(node, &ts_ast.EClass{Class: ts_ast.Class{
		Name:     class.Name,
		Heritage: ts_ast.VisitNodes(class.Heritage, t.visitor),
		Members:  t.transformClassMembers(node, ts_ast.ExtendsOf(class) != nil),
	}})

	if len(staticProperties) == 0 && len(t.pendingExpressions) == 0 {
		t.pendingExpressions = savedPendingExpressions
		return classExpr
	}

	// (_a = class {}, _a.x = 1, _a)
	temp := t.f.NewTempIdent()
	t.hoistVariableDeclaration(temp)
	tempRef := func() *ts_ast.Node { return t.f.CloneIdent(temp, ts_ast.EmitNoSubstitution) }
	exprs := []*ts_ast.Node{t.f.Assign(tempRef(), classExpr)}
	exprs = append(exprs, t.pendingExpressions...)
	t.pendingExpressions = savedPendingExpressions
	for _, property := range staticProperties {
		exprs = append(exprs, t.transformInitializedProperty(property, tempRef()))
	}
	exprs = append(exprs, tempRef())
	return t.f.Paren(t.f.JoinWithComma(exprs))
}

////////////////////////////////////////////////////////////////////////////////
// Class members

// Returns the property declarations whose initializers are moved out of the
// class body. Under define semantics they stay where they are.
func (t *transformer) initializedProperties(class *ts_ast.Class, isStatic bool) (result []*ts_ast.Node) {
	if t.options.UseDefineForClassFields {
		return nil
	}
	for _, member := range class.Members {
		if p, ok := member.Data.(*ts_ast.CProperty); ok && p.Initializer != nil && ts_ast.IsStatic(member) == isStatic && !isPrivateName(p.Key) {
			result = append(result, member)
		}
	}
	return
}

// Private fields can't be assigned from outside the class body, so they are
// never moved
func isPrivateName(key *ts_ast.Node) bool {
	_, ok := key.Data.(*ts_ast.EPrivateIdentifier)
	return ok
}

func (t *transformer) transformClassMembers(node *ts_ast.Node, isDerivedClass bool) []*ts_ast.Node {
	class := ts_ast.ClassOf(node)
	t.scope.classHasParameterProperties = false
	if ctor := ts_ast.ConstructorOf(class); ctor != nil {
		for _, param := range ctor.Data.(*ts_ast.CConstructor).Fn.Params {
			if ts_ast.IsParameterProperty(param) {
				t.scope.classHasParameterProperties = true
				break
			}
		}
	}
	t.reserveComputedNameTemps(class)

	var members []*ts_ast.Node
	if ctor := t.transformConstructor(class, isDerivedClass); ctor != nil {
		members = append(members, ctor)
	}
	for _, member := range class.Members {
		if member.Kind() == ts_ast.KindConstructor {
			continue
		}
		if visited := t.classElementVisitor(member); visited != nil {
			members = append(members, visited)
		}
	}
	return members
}

// A computed key with side effects is cached in a temporary when the key is
// needed again after the class: to assign a moved initializer or to name the
// member in a decorator call.
func (t *transformer) reserveComputedNameTemps(class *ts_ast.Class) {
	for _, member := range class.Members {
		key := ts_ast.NameOf(member)
		if key == nil {
			continue
		}
		computed, ok := key.Data.(*ts_ast.ComputedPropertyName)
		if !ok || ts_ast.IsSimpleInlineableExpression(ts_ast.SkipOuterExpressions(computed.Value)) {
			continue
		}
		needsTemp := isDecoratedClassElement(member)
		if p, ok := member.Data.(*ts_ast.CProperty); ok && p.Initializer != nil && !t.options.UseDefineForClassFields {
			needsTemp = true
		}
		if needsTemp {
			temp := t.f.NewTempIdent()
			t.hoistVariableDeclaration(temp)
			t.computedNameTemps[key] = temp
		}
	}
}

func (t *transformer) computedNameTemp(key *ts_ast.Node) *ts_ast.Node {
	if temp, ok := t.computedNameTemps[key]; ok {
		return t.f.CloneIdent(temp, ts_ast.EmitNoSubstitution)
	}
	return nil
}

// Visits the key of a class element that stays in the class. Expressions
// from earlier removed members are evaluated first to keep the order.
func (t *transformer) visitPropertyNameOfClassElement(member *ts_ast.Node) *ts_ast.Node {
	key := ts_ast.NameOf(member)
	computed, ok := key.Data.(*ts_ast.ComputedPropertyName)
	if !ok {
		return key
	}
	expr := ts_ast.VisitNode(computed.Value, t.visitor)
	if temp := t.computedNameTemp(key); temp != nil {
		expr = t.f.Assign(temp, expr)
	}
	if len(t.pendingExpressions) > 0 {
		expr = t.f.JoinWithComma(append(t.pendingExpressions, expr))
		t.pendingExpressions = nil
	}
	if expr == computed.Value {
		return key
	}
	return t.f.Update(key, &ts_ast.ComputedPropertyName{Value: expr})
}

func (t *transformer) visitPropertyDeclaration(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.CProperty)
	if d.Modifiers.Has(ts_ast.ModifierDeclare | ts_ast.ModifierAbstract) {
		return nil
	}

	if t.options.UseDefineForClassFields || isPrivateName(d.Key) {
		return t.f.Update(node, &ts_ast.CProperty{
			Modifiers:   t.visitModifiers(d.Modifiers),
			Key:         t.visitPropertyNameOfClassElement(node),
			Initializer: ts_ast.VisitNode(d.Initializer, t.visitor),
		})
	}

	// The declaration is removed. A computed key with side effects is still
	// evaluated after the class.
	if computed, ok := d.Key.Data.(*ts_ast.ComputedPropertyName); ok {
		expr := ts_ast.VisitNode(computed.Value, t.visitor)
		if temp := t.computedNameTemp(d.Key); temp != nil {
			t.pendingExpressions = append(t.pendingExpressions, t.f.Assign(temp, expr))
		} else if inner := ts_ast.SkipOuterExpressions(expr); !ts_ast.IsSimpleInlineableExpression(inner) && inner.Kind() != ts_ast.KindIdentifier {
			t.pendingExpressions = append(t.pendingExpressions, expr)
		}
	}
	return nil
}

// "this.x = 1;" for each instance property, "C.x = 1;" for each static one
func (t *transformer) initializedPropertyStatements(properties []*ts_ast.Node, receiver func() *ts_ast.Node) []*ts_ast.Node {
	stmts := make([]*ts_ast.Node, 0, len(properties))
	for _, property := range properties {
		stmt := t.f.NewNodeFrom(property, &ts_ast.SExpr{Value: t.transformInitializedProperty(property, receiver())})
		stmt.Range = property.Range
		stmt.Comments = property.Comments
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (t *transformer) transformInitializedProperty(property *ts_ast.Node, receiver *ts_ast.Node) *ts_ast.Node {
	d := property.Data.(*ts_ast.CProperty)
	key := d.Key
	if temp := t.computedNameTemp(key); temp != nil {
		key = t.f.Make(&ts_ast.ComputedPropertyName{Value: temp})
	} else if computed, ok := key.Data.(*ts_ast.ComputedPropertyName); ok {
		key = t.f.Make(&ts_ast.ComputedPropertyName{Value: ts_ast.VisitNode(computed.Value, t.visitor)})
	}
	access := t.memberAccessForPropertyName(receiver, key)
	access.Range = d.Key.Range
	return t.f.Assign(access, ts_ast.VisitNode(d.Initializer, t.visitor))
}

////////////////////////////////////////////////////////////////////////////////
// Constructors

// Returns the constructor of the lowered class, or nil if it has none.
// Parameter properties and moved initializers go at the start of the body,
// right after any "super()" call.
func (t *transformer) transformConstructor(class *ts_ast.Class, isDerivedClass bool) *ts_ast.Node {
	ctor := ts_ast.ConstructorOf(class)
	instanceProperties := t.initializedProperties(class, false)
	if len(instanceProperties) == 0 && !t.scope.classHasParameterProperties {
		if ctor == nil {
			return nil
		}
		return t.f.Update(ctor, &ts_ast.CConstructor{Fn: t.visitFn(&ctor.Data.(*ts_ast.CConstructor).Fn)})
	}

	var params []*ts_ast.Node
	var stmts []*ts_ast.Node
	t.startLexicalEnvironment()

	if ctor != nil {
		fn := &ctor.Data.(*ts_ast.CConstructor).Fn
		params = t.visitParameterList(fn.Params)
		body := fn.Body.Data.(*ts_ast.Block)
		t.saveStateAndInvoke(fn.Body, func(*ts_ast.Node) *ts_ast.Node {
			i := 0
			for i < len(body.Stmts) && ts_ast.IsPrologueDirective(body.Stmts[i]) {
				stmts = append(stmts, body.Stmts[i])
				i++
			}
			if i < len(body.Stmts) && ts_ast.IsSuperCall(body.Stmts[i]) {
				stmts = append(stmts, ts_ast.VisitNodes(body.Stmts[i:i+1], t.visitor)...)
				i++
			}
			for _, param := range fn.Params {
				if stmt := t.parameterPropertyAssignment(param); stmt != nil {
					stmts = append(stmts, stmt)
				}
			}
			stmts = append(stmts, t.initializedPropertyStatements(instanceProperties, t.f.This)...)
			stmts = append(stmts, ts_ast.VisitNodes(body.Stmts[i:], t.visitor)...)
			return nil
		})
	} else {
		if isDerivedClass {
			// super(...arguments);
			spread := t.f.Make(&ts_ast.ESpread{Value: t.f.Ident("arguments")})
			stmts = append(stmts, t.f.ExprStmt(t.f.Call(t.f.Super(), spread)))
		}
		stmts = append(stmts, t.initializedPropertyStatements(instanceProperties, t.f.This)...)
	}

	stmts = insertAfterPrologue(stmts, t.endLexicalEnvironment())
	body := t.f.Block(stmts...)
	if ctor == nil {
		return t.f.Make(&ts_ast.CConstructor{Fn: ts_ast.Fn{Body: body}})
	}
	body.Range = ctor.Data.(*ts_ast.CConstructor).Fn.Body.Range
	return t.f.Update(ctor, &ts_ast.CConstructor{Fn: ts_ast.Fn{Params: params, Body: body}})
}

// "constructor(private x) {}" assigns "this.x = x;"
func (t *transformer) parameterPropertyAssignment(param *ts_ast.Node) *ts_ast.Node {
	d := param.Data.(*ts_ast.Parameter)
	if !ts_ast.IsParameterProperty(param) || d.Name.Kind() != ts_ast.KindIdentifier {
		return nil
	}
	access := t.f.Make(&ts_ast.EDot{Target: t.f.This(), Name: t.f.CloneIdent(d.Name, ts_ast.EmitNoComments)})
	access.Range = d.Name.Range
	stmt := t.f.NewNodeFrom(param, &ts_ast.SExpr{Value: t.f.Assign(access, t.f.CloneIdent(d.Name, ts_ast.EmitNoComments))})
	stmt.EmitFlags |= ts_ast.EmitNoComments
	return stmt
}
