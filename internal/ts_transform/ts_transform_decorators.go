package ts_transform

import (
	"fmt"

	"github.com/evanw/tslower/internal/compat"
	"github.com/evanw/tslower/internal/runtime"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
)

// Experimental decorators run after the class is defined:
//
//	__decorate([dec, __metadata("design:type", Number)], C.prototype, "x", void 0);
//	C = __decorate([dec], C);
//
// Member decorators come first (instance, then static) and class decorators
// last, since class decorators may replace the class.

type allDecorators struct {
	decorators []*ts_ast.Node

	// Indexed by parameter position, not counting a "this" parameter. Entries
	// for parameters without decorators are nil.
	parameters [][]*ts_ast.Node
}

func decoratorsOfParameters(fn *ts_ast.Fn) (result [][]*ts_ast.Node) {
	if fn == nil {
		return nil
	}
	params := fn.Params
	offset := 0
	if len(params) > 0 && ts_ast.IsIdentifierNamed(params[0].Data.(*ts_ast.Parameter).Name, "this") {
		offset = 1
	}
	for i := offset; i < len(params); i++ {
		decorators := params[i].Data.(*ts_ast.Parameter).Decorators
		if len(decorators) > 0 {
			if result == nil {
				result = make([][]*ts_ast.Node, len(params)-offset)
			}
			result[i-offset] = decorators
		}
	}
	return
}

func allDecoratorsOfConstructor(class *ts_ast.Class) *allDecorators {
	var parameters [][]*ts_ast.Node
	if ctor := ts_ast.ConstructorOf(class); ctor != nil {
		parameters = decoratorsOfParameters(&ctor.Data.(*ts_ast.CConstructor).Fn)
	}
	if len(class.Decorators) == 0 && parameters == nil {
		return nil
	}
	return &allDecorators{decorators: class.Decorators, parameters: parameters}
}

func allDecoratorsOfClassElement(class *ts_ast.Class, member *ts_ast.Node) *allDecorators {
	switch d := member.Data.(type) {
	case *ts_ast.CGetAccessor, *ts_ast.CSetAccessor:
		return allDecoratorsOfAccessors(class, member)

	case *ts_ast.CMethod:
		if d.Fn.Body == nil {
			return nil
		}
		parameters := decoratorsOfParameters(&d.Fn)
		if len(d.Decorators) == 0 && parameters == nil {
			return nil
		}
		return &allDecorators{decorators: d.Decorators, parameters: parameters}

	case *ts_ast.CProperty:
		if len(d.Decorators) == 0 {
			return nil
		}
		return &allDecorators{decorators: d.Decorators}
	}
	return nil
}

// The decorators of a get/set pair are applied once, through whichever
// accessor of the pair has them first. Parameter decorators come from the
// set accessor.
func allDecoratorsOfAccessors(class *ts_ast.Class, accessor *ts_ast.Node) *allDecorators {
	if ts_ast.FnOf(accessor).Body == nil {
		return nil
	}
	first, get, set := accessorPair(class, accessor)
	second := get
	if first == get {
		second = set
	}

	var withDecorators *ts_ast.Node
	if first != nil && len(ts_ast.DecoratorsOf(first)) > 0 {
		withDecorators = first
	} else if second != nil && len(ts_ast.DecoratorsOf(second)) > 0 {
		withDecorators = second
	}
	if withDecorators == nil || withDecorators != accessor {
		return nil
	}

	var parameters [][]*ts_ast.Node
	if set != nil {
		parameters = decoratorsOfParameters(ts_ast.FnOf(set))
	}
	return &allDecorators{decorators: ts_ast.DecoratorsOf(withDecorators), parameters: parameters}
}

// Returns the first accessor of the pair in source order, along with the get
// and set accessors. Accessors with a computed key that isn't a literal are
// never paired.
func accessorPair(class *ts_ast.Class, accessor *ts_ast.Node) (first *ts_ast.Node, get *ts_ast.Node, set *ts_ast.Node) {
	name, ok := ts_ast.PropertyNameText(ts_ast.NameOf(accessor))
	if !ok {
		switch accessor.Data.(type) {
		case *ts_ast.CGetAccessor:
			return accessor, accessor, nil
		default:
			return accessor, nil, accessor
		}
	}
	isStatic := ts_ast.IsStatic(accessor)
	for _, member := range class.Members {
		switch member.Data.(type) {
		case *ts_ast.CGetAccessor, *ts_ast.CSetAccessor:
		default:
			continue
		}
		if ts_ast.IsStatic(member) != isStatic {
			continue
		}
		if text, ok := ts_ast.PropertyNameText(ts_ast.NameOf(member)); !ok || text != name {
			continue
		}
		if first == nil {
			first = member
		}
		if _, ok := member.Data.(*ts_ast.CGetAccessor); ok && get == nil {
			get = member
		} else if _, ok := member.Data.(*ts_ast.CSetAccessor); ok && set == nil {
			set = member
		}
	}
	return
}

func (t *transformer) helperName(helper *runtime.Helper) *ts_ast.Node {
	t.requestHelper(helper)
	name := t.f.Ident(helper.Name)
	name.EmitFlags |= ts_ast.EmitHelperName | ts_ast.EmitNoSubstitution
	return name
}

// The decorator expressions of a declaration, followed by its parameter
// decorators and its type metadata
func (t *transformer) transformAllDecoratorsOfDeclaration(node *ts_ast.Node, container *ts_ast.Node, all *allDecorators) []*ts_ast.Node {
	if all == nil {
		return nil
	}
	var exprs []*ts_ast.Node
	for _, decorator := range all.decorators {
		exprs = append(exprs, ts_ast.VisitNode(decorator.Data.(*ts_ast.Decorator).Value, t.visitor))
	}
	for i, decorators := range all.parameters {
		for _, decorator := range decorators {
			// __param(0, dec)
			helper := t.f.Call(t.helperName(runtime.Param), t.f.Num(float64(i)), ts_ast.VisitNode(decorator.Data.(*ts_ast.Decorator).Value, t.visitor))
			helper.Range = decorator.Range
			helper.EmitFlags |= ts_ast.EmitNoComments
			exprs = append(exprs, helper)
		}
	}
	return t.addTypeMetadata(node, container, exprs)
}

func (t *transformer) decorateHelper(decorators []*ts_ast.Node, target *ts_ast.Node, memberName *ts_ast.Node, descriptor *ts_ast.Node) *ts_ast.Node {
	args := []*ts_ast.Node{t.f.Make(&ts_ast.EArray{Items: decorators, IsMultiLine: true}), target}
	if memberName != nil {
		args = append(args, memberName)
		if descriptor != nil {
			args = append(args, descriptor)
		}
	}
	return t.f.Call(t.helperName(runtime.Decorate), args...)
}

func (t *transformer) classElementDecorationStatements(node *ts_ast.Node, name *ts_ast.Node, isStatic bool) (stmts []*ts_ast.Node) {
	class := ts_ast.ClassOf(node)
	for _, member := range class.Members {
		if ts_ast.IsStatic(member) != isStatic || !isDecoratedClassElement(member) {
			continue
		}
		if expr := t.classElementDecorationExpression(node, name, member); expr != nil {
			stmt := t.f.NewNodeFrom(member, &ts_ast.SExpr{Value: expr})
			stmt.Range = member.Range
			stmts = append(stmts, stmt)
		}
	}
	return
}

// __decorate([dec], C.prototype, "m", null)
func (t *transformer) classElementDecorationExpression(node *ts_ast.Node, name *ts_ast.Node, member *ts_ast.Node) *ts_ast.Node {
	class := ts_ast.ClassOf(node)
	exprs := t.transformAllDecoratorsOfDeclaration(member, node, allDecoratorsOfClassElement(class, member))
	if exprs == nil {
		return nil
	}

	target := t.localName(name)
	if !ts_ast.IsStatic(member) {
		target = t.f.Dot(target, "prototype")
	}

	// ES3 has no property descriptors
	var descriptor *ts_ast.Node
	if t.options.Target > compat.ES3 {
		if _, ok := member.Data.(*ts_ast.CProperty); ok {
			descriptor = t.f.VoidZero()
		} else {
			descriptor = t.f.Null()
		}
	}

	helper := t.decorateHelper(exprs, target, t.expressionForPropertyName(member), descriptor)
	helper.EmitFlags |= ts_ast.EmitNoComments
	return helper
}

// The member name passed to "__decorate"
func (t *transformer) expressionForPropertyName(member *ts_ast.Node) *ts_ast.Node {
	key := ts_ast.NameOf(member)
	switch d := key.Data.(type) {
	case *ts_ast.EIdentifier:
		return t.f.Str(d.Name)
	case *ts_ast.EPrivateIdentifier:
		return t.f.Str(d.Name)
	case *ts_ast.EString:
		return t.f.Str(d.Value)
	case *ts_ast.ENumber:
		return t.f.Num(d.Value)
	case *ts_ast.ComputedPropertyName:
		if temp := t.computedNameTemp(key); temp != nil {
			return temp
		}
		return ts_ast.VisitNode(d.Value, t.visitor)
	}
	panic(fmt.Sprintf("Internal error: unexpected property name %T", key.Data))
}

// "C = __decorate([dec], C);" or, when the class refers to itself,
// "C = C_1 = __decorate([dec], C);"
func (t *transformer) constructorDecorationStatement(node *ts_ast.Node, name *ts_ast.Node) *ts_ast.Node {
	exprs := t.transformAllDecoratorsOfDeclaration(node, node, allDecoratorsOfConstructor(ts_ast.ClassOf(node)))
	if exprs == nil {
		return nil
	}
	value := t.decorateHelper(exprs, t.localName(name), nil, nil)
	if alias, ok := t.substitution.classAliases[ts_ast.GetOriginal(node).ID]; ok {
		value = t.f.Assign(t.f.CloneIdent(alias, ts_ast.EmitNoSubstitution), value)
	}
	expr := t.f.Assign(t.localName(name), value)
	expr.EmitFlags |= ts_ast.EmitNoComments
	stmt := t.f.NewNodeFrom(node, &ts_ast.SExpr{Value: expr})
	stmt.Range = node.Range
	return stmt
}

////////////////////////////////////////////////////////////////////////////////
// Type metadata

func (t *transformer) addTypeMetadata(node *ts_ast.Node, container *ts_ast.Node, exprs []*ts_ast.Node) []*ts_ast.Node {
	if !t.options.EmitDecoratorMetadata {
		return exprs
	}
	if shouldAddTypeMetadata(node) {
		exprs = append(exprs, t.metadataHelper("design:type", t.serializeTypeOfNode(node, container)))
	}
	if shouldAddParamTypesMetadata(node) {
		exprs = append(exprs, t.metadataHelper("design:paramtypes", t.serializeParameterTypesOfNode(node, container)))
	}
	if shouldAddReturnTypeMetadata(node) {
		exprs = append(exprs, t.metadataHelper("design:returntype", t.serializeReturnTypeOfNode(node)))
	}
	return exprs
}

func (t *transformer) metadataHelper(key string, value *ts_ast.Node) *ts_ast.Node {
	return t.f.Call(t.helperName(runtime.Metadata), t.f.Str(key), value)
}

func shouldAddTypeMetadata(node *ts_ast.Node) bool {
	switch node.Data.(type) {
	case *ts_ast.CMethod, *ts_ast.CGetAccessor, *ts_ast.CSetAccessor, *ts_ast.CProperty:
		return true
	}
	return false
}

func shouldAddReturnTypeMetadata(node *ts_ast.Node) bool {
	_, ok := node.Data.(*ts_ast.CMethod)
	return ok
}

func shouldAddParamTypesMetadata(node *ts_ast.Node) bool {
	switch d := node.Data.(type) {
	case *ts_ast.SClass:
		return ts_ast.ConstructorOf(&d.Class) != nil
	case *ts_ast.EClass:
		return ts_ast.ConstructorOf(&d.Class) != nil
	case *ts_ast.CMethod, *ts_ast.CGetAccessor, *ts_ast.CSetAccessor:
		return true
	}
	return false
}

func (t *transformer) serializeTypeOfNode(node *ts_ast.Node, container *ts_ast.Node) *ts_ast.Node {
	switch d := node.Data.(type) {
	case *ts_ast.CProperty:
		return t.serializeTypeNode(d.Type)
	case *ts_ast.Parameter:
		return t.serializeTypeNode(d.Type)
	case *ts_ast.CGetAccessor, *ts_ast.CSetAccessor:
		return t.serializeTypeNode(accessorTypeNode(ts_ast.ClassOf(container), node))
	case *ts_ast.SClass, *ts_ast.EClass, *ts_ast.CMethod:
		return t.f.Ident("Function")
	}
	return t.f.VoidZero()
}

// The type of an accessor pair is the parameter type of the set accessor,
// or the return type of the get accessor
func accessorTypeNode(class *ts_ast.Class, accessor *ts_ast.Node) *ts_ast.Node {
	_, get, set := accessorPair(class, accessor)
	if set != nil {
		if param := firstNonThisParameter(ts_ast.FnOf(set)); param != nil {
			if typ := param.Data.(*ts_ast.Parameter).Type; typ != nil {
				return typ
			}
		}
	}
	if get != nil {
		return ts_ast.FnOf(get).ReturnType
	}
	return nil
}

func firstNonThisParameter(fn *ts_ast.Fn) *ts_ast.Node {
	for i, param := range fn.Params {
		if i == 0 && ts_ast.IsIdentifierNamed(param.Data.(*ts_ast.Parameter).Name, "this") {
			continue
		}
		return param
	}
	return nil
}

func (t *transformer) serializeParameterTypesOfNode(node *ts_ast.Node, container *ts_ast.Node) *ts_ast.Node {
	var fn *ts_ast.Fn
	switch d := node.Data.(type) {
	case *ts_ast.SClass, *ts_ast.EClass:
		if ctor := ts_ast.ConstructorOf(ts_ast.ClassOf(node)); ctor != nil {
			fn = ts_ast.FnOf(ctor)
		}
	case *ts_ast.CGetAccessor:
		// A get accessor has the parameters of its set accessor
		if _, _, set := accessorPair(ts_ast.ClassOf(container), node); set != nil {
			fn = ts_ast.FnOf(set)
		} else {
			fn = &d.Fn
		}
	default:
		fn = ts_ast.FnOf(node)
	}

	var exprs []*ts_ast.Node
	if fn != nil {
		for i, param := range fn.Params {
			p := param.Data.(*ts_ast.Parameter)
			if i == 0 && ts_ast.IsIdentifierNamed(p.Name, "this") {
				continue
			}
			if p.IsRest {
				exprs = append(exprs, t.serializeTypeNode(restElementType(p.Type)))
			} else {
				exprs = append(exprs, t.serializeTypeNode(p.Type))
			}
		}
	}
	return t.f.Array(exprs...)
}

// "...args: T[]" and "...args: Array<T>" both serialize as "T"
func restElementType(typ *ts_ast.Node) *ts_ast.Node {
	if typ == nil {
		return nil
	}
	switch d := typ.Data.(type) {
	case *ts_ast.TArray:
		return d.Elem
	case *ts_ast.TReference:
		if len(d.TypeArguments) == 1 {
			return d.TypeArguments[0]
		}
	}
	return nil
}

func (t *transformer) serializeReturnTypeOfNode(node *ts_ast.Node) *ts_ast.Node {
	fn := ts_ast.FnOf(node)
	switch {
	case fn != nil && fn.ReturnType != nil:
		return t.serializeTypeNode(fn.ReturnType)
	case fn != nil && fn.Modifiers.Has(ts_ast.ModifierAsync):
		return t.f.Ident("Promise")
	}
	return t.f.VoidZero()
}

// Serializes a type annotation into the runtime value that best describes
// it. Anything without a runtime counterpart becomes "Object".
func (t *transformer) serializeTypeNode(node *ts_ast.Node) *ts_ast.Node {
	if node == nil {
		return t.f.Ident("Object")
	}

	switch d := node.Data.(type) {
	case *ts_ast.TKeyword:
		switch d.Keyword {
		case ts_ast.TypeVoid, ts_ast.TypeUndefined, ts_ast.TypeNull, ts_ast.TypeNever:
			return t.f.VoidZero()
		case ts_ast.TypeBoolean:
			return t.f.Ident("Boolean")
		case ts_ast.TypeString:
			return t.f.Ident("String")
		case ts_ast.TypeNumber:
			return t.f.Ident("Number")
		case ts_ast.TypeBigInt:
			return t.globalBigIntName()
		case ts_ast.TypeSymbol:
			return t.globalSymbolName()
		}

	case *ts_ast.TParenthesized:
		return t.serializeTypeNode(d.Type)

	case *ts_ast.TFunction, *ts_ast.TConstructor:
		return t.f.Ident("Function")

	case *ts_ast.TArray, *ts_ast.TTuple:
		return t.f.Ident("Array")

	case *ts_ast.TPredicate:
		return t.f.Ident("Boolean")

	case *ts_ast.TTemplateLiteral:
		return t.f.Ident("String")

	case *ts_ast.TLiteral:
		switch lit := d.Literal.Data.(type) {
		case *ts_ast.EString:
			return t.f.Ident("String")
		case *ts_ast.ENumber:
			return t.f.Ident("Number")
		case *ts_ast.EUnary:
			// "-1"
			if _, ok := lit.Value.Data.(*ts_ast.EBigInt); ok {
				return t.globalBigIntName()
			}
			return t.f.Ident("Number")
		case *ts_ast.EBigInt:
			return t.globalBigIntName()
		case *ts_ast.EBoolean:
			return t.f.Ident("Boolean")
		case *ts_ast.ENull:
			return t.f.VoidZero()
		}

	case *ts_ast.TReference:
		return t.serializeTypeReferenceNode(node)

	case *ts_ast.TUnion:
		return t.serializeTypeList(d.Types)

	case *ts_ast.TIntersection:
		return t.serializeTypeList(d.Types)

	case *ts_ast.TConditional:
		return t.serializeTypeList([]*ts_ast.Node{d.True, d.False})

	case *ts_ast.TOperator:
		if d.Op == ts_ast.TypeOperatorReadonly {
			return t.serializeTypeNode(d.Type)
		}
	}

	return t.f.Ident("Object")
}

// A union serializes as the shared serialization of its constituents, or
// "Object" if they differ
func (t *transformer) serializeTypeList(types []*ts_ast.Node) *ts_ast.Node {
	var serializedUnion *ts_ast.Node
	for _, typeNode := range types {
		typeNode = ts_ast.SkipParenthesizedTypes(typeNode)
		if isTypeKeyword(typeNode, ts_ast.TypeNever) {
			continue
		}
		if !t.options.StrictNullChecks && (isTypeKeyword(typeNode, ts_ast.TypeNull) || isTypeKeyword(typeNode, ts_ast.TypeUndefined) || isNullLiteralType(typeNode)) {
			continue
		}

		serialized := t.serializeTypeNode(typeNode)
		if ts_ast.IsIdentifierNamed(serialized, "Object") {
			return serialized
		}
		if serializedUnion == nil {
			serializedUnion = serialized
			continue
		}
		if !isIdentifier(serialized) || !isIdentifier(serializedUnion) || ts_ast.IdentifierText(serialized) != ts_ast.IdentifierText(serializedUnion) {
			return t.f.Ident("Object")
		}
	}

	// Only "never", "null" or "undefined" constituents
	if serializedUnion == nil {
		return t.f.VoidZero()
	}
	return serializedUnion
}

func isIdentifier(n *ts_ast.Node) bool {
	_, ok := n.Data.(*ts_ast.EIdentifier)
	return ok
}

func isTypeKeyword(n *ts_ast.Node, keyword ts_ast.TypeKeyword) bool {
	d, ok := n.Data.(*ts_ast.TKeyword)
	return ok && d.Keyword == keyword
}

func isNullLiteralType(n *ts_ast.Node) bool {
	if d, ok := n.Data.(*ts_ast.TLiteral); ok {
		_, ok := d.Literal.Data.(*ts_ast.ENull)
		return ok
	}
	return false
}

func (t *transformer) serializeTypeReferenceNode(node *ts_ast.Node) *ts_ast.Node {
	d := node.Data.(*ts_ast.TReference)
	location := t.scope.nameScope
	if location == nil {
		location = t.scope.lexicalScope
	}

	switch kind := t.resolver.GetTypeReferenceSerializationKind(d.TypeName, location); kind {
	case ts_checker.SerializationUnknown:
		// A type parameter of a conditional type has no value
		if isInConditionalTypeBranch(node) {
			return t.f.Ident("Object")
		}

		// typeof (_a = typeof A !== "undefined" && A) === "function" ? _a : Object
		serialized := t.serializeEntityNameAsExpressionFallback(d.TypeName)
		temp := t.f.NewTempIdent()
		t.hoistVariableDeclaration(temp)
		return t.f.Cond(
			t.typeofCheck(t.f.Assign(temp, serialized), "function"),
			t.f.CloneIdent(temp, ts_ast.EmitNoSubstitution),
			t.f.Ident("Object"),
		)

	case ts_checker.SerializationTypeWithConstructSignatureAndValue:
		return t.serializeEntityNameAsExpression(d.TypeName)

	case ts_checker.SerializationVoidNullableOrNever:
		return t.f.VoidZero()

	case ts_checker.SerializationBigIntLike:
		return t.globalBigIntName()

	case ts_checker.SerializationBooleanLike:
		return t.f.Ident("Boolean")

	case ts_checker.SerializationNumberLike:
		return t.f.Ident("Number")

	case ts_checker.SerializationStringLike:
		return t.f.Ident("String")

	case ts_checker.SerializationArrayLike:
		return t.f.Ident("Array")

	case ts_checker.SerializationESSymbolLike:
		return t.globalSymbolName()

	case ts_checker.SerializationTypeWithCallSignature:
		return t.f.Ident("Function")

	case ts_checker.SerializationPromise:
		return t.f.Ident("Promise")

	case ts_checker.SerializationObject:
		return t.f.Ident("Object")

	default:
		panic(fmt.Sprintf("Internal error: unexpected serialization kind %d", kind))
	}
}

func isInConditionalTypeBranch(node *ts_ast.Node) bool {
	for n := node; n != nil && n.Parent != nil && n.Kind().IsTypeNode(); n = n.Parent {
		if cond, ok := n.Parent.Data.(*ts_ast.TConditional); ok && (cond.True == n || cond.False == n) {
			return true
		}
	}
	return false
}

// Converts a type name that refers to a value into a reference to that
// value. Identifiers keep a link to the type name so that they can still be
// rewritten while printing.
func (t *transformer) serializeEntityNameAsExpression(name *ts_ast.Node) *ts_ast.Node {
	switch d := name.Data.(type) {
	case *ts_ast.EIdentifier:
		id := t.f.CloneIdent(name, 0)
		id.Range = name.Range
		return id
	case *ts_ast.QualifiedName:
		return t.f.Make(&ts_ast.EDot{
			Target: t.serializeEntityNameAsExpression(d.Left),
			Name:   t.f.CloneIdent(d.Right, ts_ast.EmitNoSubstitution),
		})
	}
	panic(fmt.Sprintf("Internal error: unexpected entity name %T", name.Data))
}

// Like "serializeEntityNameAsExpression" but guarded against names that
// don't exist at run time:
//
//	typeof A !== "undefined" && A
//	typeof A !== "undefined" && A.B
//	typeof A !== "undefined" && (_a = A.B) !== void 0 && _a.C
func (t *transformer) serializeEntityNameAsExpressionFallback(name *ts_ast.Node) *ts_ast.Node {
	switch d := name.Data.(type) {
	case *ts_ast.EIdentifier:
		return t.checkedValue(t.serializeEntityNameAsExpression(name), t.serializeEntityNameAsExpression(name))

	case *ts_ast.QualifiedName:
		if _, ok := d.Left.Data.(*ts_ast.EIdentifier); ok {
			return t.checkedValue(t.serializeEntityNameAsExpression(d.Left), t.serializeEntityNameAsExpression(name))
		}
		left := t.serializeEntityNameAsExpressionFallback(d.Left).Data.(*ts_ast.EBinary)
		temp := t.f.NewTempIdent()
		t.hoistVariableDeclaration(temp)
		return t.f.Binary(ts_ast.BinOpLogicalAnd,
			t.f.Binary(ts_ast.BinOpLogicalAnd,
				left.Left,
				t.f.Binary(ts_ast.BinOpStrictNe, t.f.Assign(temp, left.Right), t.f.VoidZero()),
			),
			t.f.Make(&ts_ast.EDot{
				Target: t.f.CloneIdent(temp, ts_ast.EmitNoSubstitution),
				Name:   t.f.CloneIdent(d.Right, ts_ast.EmitNoSubstitution),
			}),
		)
	}
	panic(fmt.Sprintf("Internal error: unexpected entity name %T", name.Data))
}

// typeof left !== "undefined" && right
func (t *transformer) checkedValue(left *ts_ast.Node, right *ts_ast.Node) *ts_ast.Node {
	return t.f.Binary(ts_ast.BinOpLogicalAnd,
		t.f.Binary(ts_ast.BinOpStrictNe, t.f.Unary(ts_ast.UnOpTypeof, left), t.f.Str("undefined")),
		right,
	)
}

// typeof value === "tag"
func (t *transformer) typeofCheck(value *ts_ast.Node, tag string) *ts_ast.Node {
	return t.f.Binary(ts_ast.BinOpStrictEq, t.f.Unary(ts_ast.UnOpTypeof, value), t.f.Str(tag))
}

func (t *transformer) globalBigIntName() *ts_ast.Node {
	return t.guardedGlobal("BigInt", compat.BigInt)
}

func (t *transformer) globalSymbolName() *ts_ast.Node {
	return t.guardedGlobal("Symbol", compat.Symbol)
}

// Globals that the target may not have are checked before use:
// typeof BigInt === "function" ? BigInt : Object
func (t *transformer) guardedGlobal(name string, feature compat.JSFeature) *ts_ast.Node {
	if !t.isUnsupported(feature) {
		return t.f.Ident(name)
	}
	return t.f.Cond(t.typeofCheck(t.f.Ident(name), "function"), t.f.Ident(name), t.f.Ident("Object"))
}
