package ts_checker

import (
	"strconv"

	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_types"
)

// The two sides of a class declaration
type classType struct {
	instance *ts_types.ObjectType
	static   *ts_types.ObjectType
}

func method(name string, ret ts_types.Type, params ...*ts_types.Param) *ts_types.Property {
	return &ts_types.Property{Name: name, Type: ts_types.NewFunctionType(&ts_types.Signature{Params: params, Return: ret})}
}

func anyRest(name string) *ts_types.Param {
	return &ts_types.Param{Name: name, Type: ts_types.CreateArrayType(ts_types.Any), IsRest: true}
}

var (
	namedBuiltins = map[string]*ts_types.ObjectType{}

	functionType = &ts_types.ObjectType{
		Name:           "Function",
		CallSignatures: []*ts_types.Signature{{Params: []*ts_types.Param{anyRest("args")}, Return: ts_types.Any}},
	}

	globalTypes = map[string]ts_types.Type{
		"undefined": ts_types.Undefined,
		"NaN":       ts_types.Number,
		"Infinity":  ts_types.Number,

		// Conversion functions accept anything
		"String":  conversionFunction(ts_types.String),
		"Number":  conversionFunction(ts_types.Number),
		"Boolean": conversionFunction(ts_types.Boolean),

		"parseInt": ts_types.NewFunctionType(&ts_types.Signature{Params: []*ts_types.Param{
			{Name: "string", Type: ts_types.String},
			{Name: "radix", Type: ts_types.Number, IsOptional: true},
		}, Return: ts_types.Number}),
		"parseFloat": ts_types.NewFunctionType(&ts_types.Signature{Params: []*ts_types.Param{
			{Name: "string", Type: ts_types.String},
		}, Return: ts_types.Number}),
		"isNaN": ts_types.NewFunctionType(&ts_types.Signature{Params: []*ts_types.Param{
			{Name: "number", Type: ts_types.Number},
		}, Return: ts_types.Boolean}),

		"console": ts_types.NewObjectType(
			method("error", ts_types.Void, anyRest("data")),
			method("log", ts_types.Void, anyRest("data")),
			method("warn", ts_types.Void, anyRest("data")),
		),
		"JSON": ts_types.NewObjectType(
			method("parse", ts_types.Any, &ts_types.Param{Name: "text", Type: ts_types.String}),
			method("stringify", ts_types.String, &ts_types.Param{Name: "value", Type: ts_types.Any}),
		),
		"Math": ts_types.NewObjectType(
			&ts_types.Property{Name: "PI", Type: ts_types.Number},
			method("abs", ts_types.Number, &ts_types.Param{Name: "x", Type: ts_types.Number}),
			method("ceil", ts_types.Number, &ts_types.Param{Name: "x", Type: ts_types.Number}),
			method("floor", ts_types.Number, &ts_types.Param{Name: "x", Type: ts_types.Number}),
			method("max", ts_types.Number, &ts_types.Param{Name: "values", Type: ts_types.CreateArrayType(ts_types.Number), IsRest: true}),
			method("min", ts_types.Number, &ts_types.Param{Name: "values", Type: ts_types.CreateArrayType(ts_types.Number), IsRest: true}),
			method("round", ts_types.Number, &ts_types.Param{Name: "x", Type: ts_types.Number}),
			method("sqrt", ts_types.Number, &ts_types.Param{Name: "x", Type: ts_types.Number}),
		),
	}
)

func conversionFunction(ret ts_types.Type) *ts_types.ObjectType {
	return ts_types.NewFunctionType(&ts_types.Signature{
		Params: []*ts_types.Param{{Name: "value", Type: ts_types.Any, IsOptional: true}},
		Return: ret,
	})
}

func makeGlobals() map[string]*Symbol {
	globals := make(map[string]*Symbol)
	add := func(name string) {
		globals[name] = &Symbol{Name: name, Flags: SymbolGlobal | SymbolFunctionScopedVariable}
	}
	for name := range globalTypes {
		add(name)
	}
	for name := range globalSerializationKinds {
		add(name)
	}
	return globals
}

// Returns the instance type of a global constructor like "Date"
func namedBuiltin(name string) *ts_types.ObjectType {
	if o, ok := namedBuiltins[name]; ok {
		return o
	}
	o := &ts_types.ObjectType{Name: name}
	namedBuiltins[name] = o
	return o
}

func init() {
	for _, name := range []string{"Date", "Error", "Map", "RegExp", "Set", "WeakMap", "WeakSet"} {
		namedBuiltin(name)
	}
}

////////////////////////////////////////////////////////////////////////////////
// Types of expressions

// Returns the type of an expression or of a declaration. Locations the
// checker knows nothing about have type "any".
func (c *Checker) TypeAtLocation(node *ts_ast.Node) ts_types.Type {
	if node == nil {
		return ts_types.Any
	}
	if t, ok := c.types[node]; ok {
		return t
	}

	// Guards against cycles like "let x = x + 1"
	c.types[node] = ts_types.Any
	t := c.computeTypeAtLocation(node)
	c.types[node] = t
	return t
}

func (c *Checker) computeTypeAtLocation(node *ts_ast.Node) ts_types.Type {
	switch d := node.Data.(type) {
	case *ts_ast.EIdentifier:
		if node.Parent != nil && ts_ast.NameOf(node.Parent) == node {
			return c.typeOfDeclaration(node.Parent)
		}
		if res, ok := c.resolved[node]; ok {
			return c.typeOfSymbol(res.symbol)
		}
		if d.Name == "undefined" {
			return ts_types.Undefined
		}
		return ts_types.Any

	case *ts_ast.ENumber:
		return ts_types.NewNumberLiteral(d.Value)

	case *ts_ast.EString:
		return ts_types.NewStringLiteral(d.Value)

	case *ts_ast.EBigInt:
		return &ts_types.LiteralType{Value: ts_types.BigIntValue(d.Value)}

	case *ts_ast.EBoolean:
		if d.Value {
			return ts_types.True
		}
		return ts_types.False

	case *ts_ast.ENull:
		return ts_types.Null

	case *ts_ast.ERegExp:
		return namedBuiltin("RegExp")

	case *ts_ast.ETemplate:
		if d.Tag != nil {
			return c.returnTypeOfCall(c.TypeAtLocation(d.Tag), false)
		}
		return ts_types.String

	case *ts_ast.EArray:
		var elems []ts_types.Type
		for _, item := range d.Items {
			switch i := item.Data.(type) {
			case *ts_ast.EOmitted:
				elems = append(elems, ts_types.Undefined)
			case *ts_ast.ESpread:
				if elem := ts_types.ElementTypeOfArray(c.TypeAtLocation(i.Value)); elem != nil {
					elems = append(elems, elem)
				} else {
					elems = append(elems, ts_types.Any)
				}
			default:
				elems = append(elems, c.TypeAtLocation(item))
			}
		}
		if len(elems) == 0 {
			return ts_types.CreateArrayType(ts_types.Any)
		}
		return ts_types.CreateArrayType(ts_types.GetWidenedType(ts_types.NewUnionTypeWithSubtypeReduction(elems...)))

	case *ts_ast.EObject:
		return c.objectLiteralType(d)

	case *ts_ast.EParen:
		return c.TypeAtLocation(d.Value)
	case *ts_ast.EPartiallyEmitted:
		return c.TypeAtLocation(d.Value)
	case *ts_ast.ESatisfies:
		return c.TypeAtLocation(d.Value)
	case *ts_ast.EAs:
		return c.typeFromTypeNode(d.Type)
	case *ts_ast.ETypeAssertion:
		return c.typeFromTypeNode(d.Type)

	case *ts_ast.ENonNull:
		return removeNullable(c.TypeAtLocation(d.Value))

	case *ts_ast.EFunction:
		return c.functionTypeOf(&d.Fn)
	case *ts_ast.EArrow:
		return c.functionTypeOf(&d.Fn)
	case *ts_ast.EClass:
		return c.classTypeOf(node).static

	case *ts_ast.EThis:
		return c.thisType(node)

	case *ts_ast.ECall:
		if _, ok := d.Target.Data.(*ts_ast.ESuper); ok {
			return ts_types.Void
		}
		return c.returnTypeOfCall(c.TypeAtLocation(d.Target), false)

	case *ts_ast.ENew:
		return c.returnTypeOfCall(c.TypeAtLocation(d.Target), true)

	case *ts_ast.EDot:
		if sym := c.resolveEntity(node); sym != nil {
			return c.typeOfSymbol(sym)
		}
		if t := ts_types.PropertyOfType(c.TypeAtLocation(d.Target), ts_ast.IdentifierText(d.Name)); t != nil {
			return t
		}
		return ts_types.Any

	case *ts_ast.EIndex:
		if sym := c.resolveEntity(node); sym != nil {
			return c.typeOfSymbol(sym)
		}
		return c.elementAccessType(c.TypeAtLocation(d.Target), d.Index)

	case *ts_ast.EUnary:
		switch d.Op {
		case ts_ast.UnOpNot, ts_ast.UnOpDelete:
			return ts_types.Boolean
		case ts_ast.UnOpTypeof:
			return ts_types.String
		case ts_ast.UnOpVoid:
			return ts_types.Undefined
		}
		if operand := c.TypeAtLocation(d.Value); isBigIntLike(operand) && d.Op != ts_ast.UnOpPos {
			return ts_types.BigInt
		}
		return ts_types.Number

	case *ts_ast.EBinary:
		return c.binaryType(d)

	case *ts_ast.EIf:
		return ts_types.NewUnionTypeWithSubtypeReduction(c.TypeAtLocation(d.Yes), c.TypeAtLocation(d.No))

	case *ts_ast.EAwait:
		return awaitedType(c.TypeAtLocation(d.Value))

	case *ts_ast.Parameter, *ts_ast.VariableDeclaration, *ts_ast.BindingElement, *ts_ast.SFunction,
		*ts_ast.SClass, *ts_ast.SEnum, *ts_ast.SNamespace, *ts_ast.EnumMember, *ts_ast.CProperty,
		*ts_ast.CMethod, *ts_ast.CGetAccessor, *ts_ast.CSetAccessor, *ts_ast.SImportEquals:
		return c.computeTypeOfDeclaration(node)
	}

	if node.Kind().IsTypeNode() {
		return c.typeFromTypeNode(node)
	}
	return ts_types.Any
}

func (c *Checker) objectLiteralType(d *ts_ast.EObject) ts_types.Type {
	o := &ts_types.ObjectType{}
	set := func(name string, t ts_types.Type) {
		if p := o.Property(name); p != nil {
			p.Type = t
			return
		}
		o.Properties = append(o.Properties, &ts_types.Property{Name: name, Type: t})
	}
	for _, prop := range d.Properties {
		switch p := prop.Data.(type) {
		case *ts_ast.PropertyAssignment:
			if name, ok := ts_ast.PropertyNameText(p.Name); ok {
				set(name, ts_types.GetWidenedType(c.TypeAtLocation(p.Initializer)))
			}
		case *ts_ast.ShorthandPropertyAssignment:
			set(ts_ast.IdentifierText(p.Name), ts_types.GetWidenedType(c.TypeAtLocation(p.Name)))
		case *ts_ast.SpreadAssignment:
			if spread := ts_types.ApparentType(c.TypeAtLocation(p.Value)); spread != nil {
				for _, sp := range spread.Properties {
					set(sp.Name, sp.Type)
				}
			}
		default:
			if fn := ts_ast.FnOf(prop); fn != nil {
				if name, ok := ts_ast.PropertyNameText(ts_ast.NameOf(prop)); ok {
					set(name, c.typeOfDeclaration(prop))
				}
			}
		}
	}
	o.SortProperties()
	return o
}

func (c *Checker) binaryType(d *ts_ast.EBinary) ts_types.Type {
	switch d.Op {
	case ts_ast.BinOpAdd, ts_ast.BinOpAddAssign:
		left, right := c.TypeAtLocation(d.Left), c.TypeAtLocation(d.Right)
		switch {
		case ts_types.IsStringLike(left) || ts_types.IsStringLike(right):
			return ts_types.String
		case ts_types.IsNumberLike(left) && ts_types.IsNumberLike(right):
			return ts_types.Number
		case isBigIntLike(left) && isBigIntLike(right):
			return ts_types.BigInt
		}
		return ts_types.Any

	case ts_ast.BinOpSub, ts_ast.BinOpMul, ts_ast.BinOpDiv, ts_ast.BinOpRem, ts_ast.BinOpPow,
		ts_ast.BinOpShl, ts_ast.BinOpShr, ts_ast.BinOpUShr,
		ts_ast.BinOpBitwiseOr, ts_ast.BinOpBitwiseAnd, ts_ast.BinOpBitwiseXor,
		ts_ast.BinOpSubAssign, ts_ast.BinOpMulAssign, ts_ast.BinOpDivAssign, ts_ast.BinOpRemAssign,
		ts_ast.BinOpPowAssign, ts_ast.BinOpShlAssign, ts_ast.BinOpShrAssign, ts_ast.BinOpUShrAssign,
		ts_ast.BinOpBitwiseOrAssign, ts_ast.BinOpBitwiseAndAssign, ts_ast.BinOpBitwiseXorAssign:
		if isBigIntLike(c.TypeAtLocation(d.Left)) && isBigIntLike(c.TypeAtLocation(d.Right)) {
			return ts_types.BigInt
		}
		return ts_types.Number

	case ts_ast.BinOpLt, ts_ast.BinOpLe, ts_ast.BinOpGt, ts_ast.BinOpGe,
		ts_ast.BinOpLooseEq, ts_ast.BinOpLooseNe, ts_ast.BinOpStrictEq, ts_ast.BinOpStrictNe,
		ts_ast.BinOpIn, ts_ast.BinOpInstanceof:
		return ts_types.Boolean

	case ts_ast.BinOpLogicalOr, ts_ast.BinOpNullishCoalescing,
		ts_ast.BinOpLogicalOrAssign, ts_ast.BinOpNullishCoalescingAssign:
		return ts_types.NewUnionTypeWithSubtypeReduction(removeNullable(c.TypeAtLocation(d.Left)), c.TypeAtLocation(d.Right))

	case ts_ast.BinOpLogicalAnd, ts_ast.BinOpLogicalAndAssign, ts_ast.BinOpComma, ts_ast.BinOpAssign:
		return c.TypeAtLocation(d.Right)
	}
	return ts_types.Any
}

func (c *Checker) elementAccessType(object ts_types.Type, index *ts_ast.Node) ts_types.Type {
	if name, ok := ts_ast.PropertyNameText(index); ok {
		if _, isIdent := index.Data.(*ts_ast.EIdentifier); !isIdent {
			if t := ts_types.PropertyOfType(object, name); t != nil {
				return t
			}
		}
	}
	if o := ts_types.ApparentType(object); o != nil {
		if o.NumberIndex != nil && ts_types.IsNumberLike(c.TypeAtLocation(index)) {
			return o.NumberIndex
		}
		if o.StringIndex != nil {
			return o.StringIndex
		}
	}
	return ts_types.Any
}

// Uses the first signature. Type parameters that are not inferred are "any".
func (c *Checker) returnTypeOfCall(callee ts_types.Type, isNew bool) ts_types.Type {
	var sigs []*ts_types.Signature
	if isNew {
		sigs = ts_types.ConstructSignaturesOfType(callee)
	} else {
		sigs = ts_types.CallSignaturesOfType(callee)
	}
	if len(sigs) == 0 {
		return ts_types.Any
	}
	return eraseSignature(sigs[0]).Return
}

func eraseSignature(sig *ts_types.Signature) *ts_types.Signature {
	if len(sig.TypeParameters) == 0 {
		return sig
	}
	mapping := make(map[*ts_types.TypeParameter]ts_types.Type)
	for _, tp := range sig.TypeParameters {
		mapping[tp] = ts_types.Any
	}
	erased := ts_types.InstantiateSignature(sig, mapping)
	erased.TypeParameters = nil
	return erased
}

func (c *Checker) thisType(node *ts_ast.Node) ts_types.Type {
	for p := node.Parent; p != nil; p = p.Parent {
		if _, ok := p.Data.(*ts_ast.EArrow); ok {
			continue
		}
		if p.Parent != nil && p.Kind().IsClassElement() && ts_ast.ClassOf(p.Parent) != nil {
			ct := c.classTypeOf(p.Parent)
			if ts_ast.IsStatic(p) {
				return ct.static
			}
			return ct.instance
		}
		if ts_ast.FnOf(p) != nil || p.Kind() == ts_ast.KindSourceFile {
			break
		}
	}
	return ts_types.Any
}

////////////////////////////////////////////////////////////////////////////////
// Types of symbols and declarations

func (c *Checker) typeOfSymbol(sym *Symbol) ts_types.Type {
	switch {
	case sym.Flags.Has(SymbolGlobal):
		if t, ok := globalTypes[sym.Name]; ok {
			return t
		}
		if kind := globalSerializationKinds[sym.Name]; kind == SerializationTypeWithConstructSignatureAndValue {
			return &ts_types.ObjectType{
				Name:                "typeof " + sym.Name,
				ConstructSignatures: []*ts_types.Signature{{Params: []*ts_types.Param{anyRest("args")}, Return: c.builtinReference(sym.Name, nil)}},
			}
		}
		return ts_types.Any

	case sym.Flags.Has(SymbolEnumMember):
		if sym.Parent != nil {
			return c.enumTypeOf(sym.Parent)
		}

	case sym.Flags.Has(SymbolAlias):
		if decl := sym.declarationOfKind(ts_ast.KindImportEqualsDeclaration); decl != nil {
			return c.TypeAtLocation(decl)
		}
		return ts_types.Any

	case sym.ValueDeclaration != nil:
		if sym.Flags.Has(SymbolFunction) {
			return c.functionSymbolType(sym)
		}
		return c.TypeAtLocation(sym.ValueDeclaration)
	}
	return ts_types.Any
}

// Overloads contribute one signature each and hide the implementation
func (c *Checker) functionSymbolType(sym *Symbol) ts_types.Type {
	var overloads, implementations []*ts_types.Signature
	for _, decl := range sym.Declarations {
		if fn := ts_ast.FnOf(decl); fn != nil {
			if fn.Body == nil {
				overloads = append(overloads, c.signatureOf(fn))
			} else {
				implementations = append(implementations, c.signatureOf(fn))
			}
		}
	}
	if len(overloads) == 0 {
		overloads = implementations
	}
	return &ts_types.ObjectType{CallSignatures: overloads}
}

func (c *Checker) typeOfDeclaration(decl *ts_ast.Node) ts_types.Type {
	if t, ok := c.types[decl]; ok {
		return t
	}
	c.types[decl] = ts_types.Any
	t := c.computeTypeOfDeclaration(decl)
	c.types[decl] = t
	return t
}

func (c *Checker) computeTypeOfDeclaration(decl *ts_ast.Node) ts_types.Type {
	switch d := decl.Data.(type) {
	case *ts_ast.VariableDeclaration:
		if d.Type != nil {
			return c.typeFromTypeNode(d.Type)
		}
		if d.Initializer != nil {
			init := c.TypeAtLocation(d.Initializer)
			if local, ok := decl.Parent.Data.(*ts_ast.SLocal); ok && local.LocalKind == ts_ast.LocalConst {
				return init
			}
			return ts_types.GetWidenedType(init)
		}

	case *ts_ast.Parameter:
		if d.Type != nil {
			t := c.typeFromTypeNode(d.Type)
			if d.IsOptional && c.options.StrictNullChecks {
				t = ts_types.NewUnionType(t, ts_types.Undefined)
			}
			return t
		}
		if d.Initializer != nil {
			return ts_types.GetWidenedType(c.TypeAtLocation(d.Initializer))
		}
		if d.IsRest {
			return ts_types.CreateArrayType(ts_types.Any)
		}

	case *ts_ast.SFunction:
		if sym := c.declSymbols[decl]; sym != nil {
			return c.functionSymbolType(sym)
		}
		return c.functionTypeOf(&d.Fn)

	case *ts_ast.SClass, *ts_ast.EClass:
		return c.classTypeOf(decl).static

	case *ts_ast.SEnum:
		if sym := c.declSymbols[decl]; sym != nil {
			return c.enumObjectType(sym)
		}

	case *ts_ast.EnumMember:
		if sym := c.declSymbols[decl]; sym != nil && sym.Parent != nil {
			return c.enumTypeOf(sym.Parent)
		}

	case *ts_ast.SNamespace:
		if sym := c.declSymbols[decl]; sym != nil {
			return c.namespaceObjectType(sym, decl)
		}

	case *ts_ast.CProperty:
		if d.Type != nil {
			return c.typeFromTypeNode(d.Type)
		}
		if d.Initializer != nil {
			return ts_types.GetWidenedType(c.TypeAtLocation(d.Initializer))
		}

	case *ts_ast.CMethod:
		return c.functionTypeOf(&d.Fn)

	case *ts_ast.CGetAccessor:
		return c.signatureOf(&d.Fn).Return

	case *ts_ast.CSetAccessor:
		if len(d.Fn.Params) > 0 {
			return c.TypeAtLocation(d.Fn.Params[0])
		}

	case *ts_ast.SImportEquals:
		if d.ModuleReference.Kind() != ts_ast.KindExternalModuleReference {
			if sym := c.resolveEntity(d.ModuleReference); sym != nil {
				return c.typeOfSymbol(sym)
			}
		}
	}
	return ts_types.Any
}

func (c *Checker) functionTypeOf(fn *ts_ast.Fn) ts_types.Type {
	return ts_types.NewFunctionType(c.signatureOf(fn))
}

func (c *Checker) signatureOf(fn *ts_ast.Fn) *ts_types.Signature {
	sig := &ts_types.Signature{}
	for i, param := range fn.Params {
		p := param.Data.(*ts_ast.Parameter)
		name := ts_ast.IdentifierText(p.Name)
		if name == "this" {
			continue
		}
		if name == "" {
			name = "__" + strconv.Itoa(i)
		}
		t := ts_types.Type(ts_types.Any)
		if p.Type != nil {
			t = c.typeFromTypeNode(p.Type)
		} else if p.Initializer != nil {
			t = ts_types.GetWidenedType(c.TypeAtLocation(p.Initializer))
		} else if p.IsRest {
			t = ts_types.CreateArrayType(ts_types.Any)
		}
		sig.Params = append(sig.Params, &ts_types.Param{
			Name:       name,
			Type:       t,
			IsOptional: p.IsOptional || p.Initializer != nil,
			IsRest:     p.IsRest,
		})
	}

	switch {
	case fn.ReturnType != nil:
		sig.Return = c.typeFromTypeNode(fn.ReturnType)
	case fn.IsGenerator:
		sig.Return = ts_types.Any
	default:
		sig.Return = c.inferredReturnType(fn)
		if fn.Modifiers.Has(ts_ast.ModifierAsync) {
			sig.Return = ts_types.CreatePromiseType(awaitedType(sig.Return))
		}
	}
	return sig
}

func (c *Checker) inferredReturnType(fn *ts_ast.Fn) ts_types.Type {
	if fn.Body == nil {
		return ts_types.Any
	}
	if _, ok := fn.Body.Data.(*ts_ast.Block); !ok {
		return ts_types.GetWidenedType(c.TypeAtLocation(fn.Body))
	}
	var returns []ts_types.Type
	var visit func(n *ts_ast.Node)
	visit = func(n *ts_ast.Node) {
		if ts_ast.FnOf(n) != nil || ts_ast.ClassOf(n) != nil {
			return
		}
		if r, ok := n.Data.(*ts_ast.SReturn); ok {
			if r.Value != nil {
				returns = append(returns, c.TypeAtLocation(r.Value))
			} else {
				returns = append(returns, ts_types.Undefined)
			}
			return
		}
		ts_ast.ForEachChild(n, visit)
	}
	ts_ast.ForEachChild(fn.Body, visit)
	if len(returns) == 0 {
		return ts_types.Void
	}
	return ts_types.GetWidenedType(ts_types.NewUnionTypeWithSubtypeReduction(returns...))
}

func (c *Checker) classTypeOf(decl *ts_ast.Node) *classType {
	if ct := c.classTypes[decl]; ct != nil {
		return ct
	}
	class := ts_ast.ClassOf(decl)
	name := ts_ast.IdentifierText(class.Name)
	if name == "" {
		name = "(Anonymous class)"
	}
	ct := &classType{
		instance: &ts_types.ObjectType{Name: name},
		static:   &ts_types.ObjectType{Name: "typeof " + name},
	}
	c.classTypes[decl] = ct

	add := func(o *ts_types.ObjectType, prop *ts_types.Property) {
		if o.Property(prop.Name) == nil {
			o.Properties = append(o.Properties, prop)
		}
	}
	var ctorParams []*ts_types.Param
	for _, member := range class.Members {
		if ctor, ok := member.Data.(*ts_ast.CConstructor); ok {
			if ctorParams == nil || ctor.Fn.Body == nil {
				ctorParams = c.signatureOf(&ctor.Fn).Params
			}
			for _, param := range ctor.Fn.Params {
				if p := param.Data.(*ts_ast.Parameter); ts_ast.IsParameterProperty(param) {
					add(ct.instance, &ts_types.Property{Name: ts_ast.IdentifierText(p.Name), Type: c.TypeAtLocation(param), IsOptional: p.IsOptional})
				}
			}
			continue
		}
		key := ts_ast.NameOf(member)
		if key == nil {
			continue
		}
		propName, ok := ts_ast.PropertyNameText(key)
		if !ok {
			continue
		}
		target := ct.instance
		if ts_ast.IsStatic(member) {
			target = ct.static
		}
		isOptional := false
		switch m := member.Data.(type) {
		case *ts_ast.CProperty:
			isOptional = m.IsOptional
		case *ts_ast.CMethod:
			isOptional = m.IsOptional
		}
		add(target, &ts_types.Property{Name: propName, Type: c.typeOfDeclaration(member), IsOptional: isOptional})
	}

	// Inherit the members of a base class declared in this file
	if base := ts_ast.ExtendsOf(class); base != nil {
		if sym := c.resolveEntity(base); sym != nil && sym.Flags.Has(SymbolClass) && sym.ValueDeclaration != nil {
			baseType := c.classTypeOf(sym.ValueDeclaration)
			for _, prop := range baseType.instance.Properties {
				add(ct.instance, prop)
			}
			for _, prop := range baseType.static.Properties {
				add(ct.static, prop)
			}
			if ctorParams == nil && len(baseType.static.ConstructSignatures) > 0 {
				ctorParams = baseType.static.ConstructSignatures[0].Params
			}
		}
	}

	ct.instance.SortProperties()
	ct.static.SortProperties()
	ct.static.ConstructSignatures = []*ts_types.Signature{{Params: ctorParams, Return: ct.instance}}
	return ct
}

func (c *Checker) enumTypeOf(sym *Symbol) *ts_types.EnumType {
	if t, ok := c.declaredTypes[sym].(*ts_types.EnumType); ok {
		return t
	}
	t := &ts_types.EnumType{Name: sym.Name}
	c.declaredTypes[sym] = t
	t.IsStringEnum = c.serializationKindOfEnumMembers(sym.Declarations) == SerializationStringLike
	return t
}

// The type of the enum object itself
func (c *Checker) enumObjectType(sym *Symbol) ts_types.Type {
	o := &ts_types.ObjectType{Name: "typeof " + sym.Name}
	memberType := c.enumTypeOf(sym)
	for name := range sym.Exports {
		o.Properties = append(o.Properties, &ts_types.Property{Name: name, Type: memberType})
	}
	o.SortProperties()
	return o
}

func (c *Checker) namespaceObjectType(sym *Symbol, decl *ts_ast.Node) ts_types.Type {
	o := &ts_types.ObjectType{Name: "typeof " + sym.Name}
	c.types[decl] = o
	for name, export := range sym.Exports {
		if export.Flags.Has(SymbolValue) {
			o.Properties = append(o.Properties, &ts_types.Property{Name: name, Type: c.typeOfSymbol(export)})
		}
	}
	o.SortProperties()
	return o
}

////////////////////////////////////////////////////////////////////////////////
// Types written in annotations

func (c *Checker) typeFromTypeNode(n *ts_ast.Node) ts_types.Type {
	switch d := n.Data.(type) {
	case *ts_ast.TKeyword:
		return ts_types.KeywordType(d.Keyword)

	case *ts_ast.TLiteral:
		switch lit := d.Literal.Data.(type) {
		case *ts_ast.ENumber:
			return ts_types.NewNumberLiteral(lit.Value)
		case *ts_ast.EString:
			return ts_types.NewStringLiteral(lit.Value)
		case *ts_ast.EBoolean:
			if lit.Value {
				return ts_types.True
			}
			return ts_types.False
		case *ts_ast.ENull:
			return ts_types.Null
		case *ts_ast.EBigInt:
			return &ts_types.LiteralType{Value: ts_types.BigIntValue(lit.Value)}
		case *ts_ast.EUnary:
			if num, ok := lit.Value.Data.(*ts_ast.ENumber); ok && lit.Op == ts_ast.UnOpNeg {
				return ts_types.NewNumberLiteral(-num.Value)
			}
		}
		return ts_types.Any

	case *ts_ast.TTemplateLiteral:
		return ts_types.String

	case *ts_ast.TArray:
		return ts_types.CreateArrayType(c.typeFromTypeNode(d.Elem))

	case *ts_ast.TTuple:
		var elems []ts_types.Type
		for _, elem := range d.Elements {
			switch e := elem.Data.(type) {
			case *ts_ast.TOptional:
				elems = append(elems, c.typeFromTypeNode(e.Type))
			case *ts_ast.TRest:
				rest := c.typeFromTypeNode(e.Type)
				if inner := ts_types.ElementTypeOfArray(rest); inner != nil {
					rest = inner
				}
				elems = append(elems, rest)
			default:
				elems = append(elems, c.typeFromTypeNode(elem))
			}
		}
		if len(elems) == 0 {
			return ts_types.CreateArrayType(ts_types.Never)
		}
		return ts_types.CreateArrayType(ts_types.NewUnionType(elems...))

	case *ts_ast.TUnion:
		types := make([]ts_types.Type, 0, len(d.Types))
		for _, t := range d.Types {
			types = append(types, c.typeFromTypeNode(t))
		}
		return ts_types.NewUnionType(types...)

	case *ts_ast.TIntersection:
		merged := &ts_types.ObjectType{}
		for _, t := range d.Types {
			o, ok := c.typeFromTypeNode(t).(*ts_types.ObjectType)
			if !ok {
				return ts_types.Any
			}
			for _, prop := range o.Properties {
				if merged.Property(prop.Name) == nil {
					merged.Properties = append(merged.Properties, prop)
				}
			}
			merged.CallSignatures = append(merged.CallSignatures, o.CallSignatures...)
			merged.ConstructSignatures = append(merged.ConstructSignatures, o.ConstructSignatures...)
		}
		merged.SortProperties()
		return merged

	case *ts_ast.TParenthesized:
		return c.typeFromTypeNode(d.Type)

	case *ts_ast.TFunction:
		return ts_types.NewFunctionType(c.signatureFromTypeNode(d.Params, d.Return))

	case *ts_ast.TConstructor:
		return &ts_types.ObjectType{ConstructSignatures: []*ts_types.Signature{c.signatureFromTypeNode(d.Params, d.Return)}}

	case *ts_ast.TTypeLiteral:
		return c.objectTypeFromMembers(&ts_types.ObjectType{}, d.Members)

	case *ts_ast.TReference:
		return c.typeFromReference(d)

	case *ts_ast.TQuery:
		if sym := c.resolveEntity(d.ExprName); sym != nil {
			return c.typeOfSymbol(sym)
		}
		return ts_types.Any

	case *ts_ast.TThis:
		return c.thisType(n)

	case *ts_ast.TPredicate:
		return ts_types.Boolean

	case *ts_ast.TOperator:
		switch d.Op {
		case ts_ast.TypeOperatorKeyof:
			return ts_types.NewUnionType(ts_types.String, ts_types.Number, ts_types.Symbol)
		case ts_ast.TypeOperatorUnique:
			return ts_types.Symbol
		}
		return c.typeFromTypeNode(d.Type)

	case *ts_ast.TIndexedAccess:
		object := c.typeFromTypeNode(d.Object)
		if lit, ok := c.typeFromTypeNode(d.Index).(*ts_types.LiteralType); ok {
			if name, ok := lit.Value.(string); ok {
				if t := ts_types.PropertyOfType(object, name); t != nil {
					return t
				}
			}
		}
		if elem := ts_types.ElementTypeOfArray(object); elem != nil {
			return elem
		}
	}
	return ts_types.Any
}

func (c *Checker) signatureFromTypeNode(params []*ts_ast.Node, ret *ts_ast.Node) *ts_types.Signature {
	sig := &ts_types.Signature{Return: ts_types.Any}
	for _, param := range params {
		p := param.Data.(*ts_ast.Parameter)
		if ts_ast.IsIdentifierNamed(p.Name, "this") {
			continue
		}
		t := ts_types.Type(ts_types.Any)
		if p.Type != nil {
			t = c.typeFromTypeNode(p.Type)
		}
		sig.Params = append(sig.Params, &ts_types.Param{
			Name:       ts_ast.IdentifierText(p.Name),
			Type:       t,
			IsOptional: p.IsOptional,
			IsRest:     p.IsRest,
		})
	}
	if ret != nil {
		sig.Return = c.typeFromTypeNode(ret)
	}
	return sig
}

func (c *Checker) objectTypeFromMembers(o *ts_types.ObjectType, members []*ts_ast.Node) *ts_types.ObjectType {
	for _, member := range members {
		switch m := member.Data.(type) {
		case *ts_ast.TPropertySignature:
			if name, ok := ts_ast.PropertyNameText(m.Name); ok && o.Property(name) == nil {
				t := ts_types.Type(ts_types.Any)
				if m.Type != nil {
					t = c.typeFromTypeNode(m.Type)
				}
				o.Properties = append(o.Properties, &ts_types.Property{Name: name, Type: t, IsOptional: m.IsOptional})
			}

		case *ts_ast.TMethodSignature:
			if name, ok := ts_ast.PropertyNameText(m.Name); ok {
				sig := c.signatureFromTypeNode(m.Params, m.Return)
				if existing := o.Property(name); existing != nil {
					if fn, ok := existing.Type.(*ts_types.ObjectType); ok {
						fn.CallSignatures = append(fn.CallSignatures, sig)
					}
					continue
				}
				o.Properties = append(o.Properties, &ts_types.Property{Name: name, Type: ts_types.NewFunctionType(sig), IsOptional: m.IsOptional})
			}

		case *ts_ast.TCallSignature:
			o.CallSignatures = append(o.CallSignatures, c.signatureFromTypeNode(m.Params, m.Return))

		case *ts_ast.TConstructSignature:
			o.ConstructSignatures = append(o.ConstructSignatures, c.signatureFromTypeNode(m.Params, m.Return))

		case *ts_ast.CIndexSignature:
			if len(m.Params) != 1 || m.Type == nil {
				continue
			}
			keyType := ts_types.Type(ts_types.String)
			if p := m.Params[0].Data.(*ts_ast.Parameter); p.Type != nil {
				keyType = c.typeFromTypeNode(p.Type)
			}
			if keyType == ts_types.Number {
				o.NumberIndex = c.typeFromTypeNode(m.Type)
			} else {
				o.StringIndex = c.typeFromTypeNode(m.Type)
			}
		}
	}
	o.SortProperties()
	return o
}

func (c *Checker) typeFromReference(d *ts_ast.TReference) ts_types.Type {
	sym := c.resolveEntity(d.TypeName)
	if sym == nil || sym.Flags.Has(SymbolGlobal) {
		return c.builtinReference(ts_ast.IdentifierText(d.TypeName), d.TypeArguments)
	}

	switch {
	case sym.Flags.Has(SymbolClass):
		if decl := sym.declarationOfKind(ts_ast.KindClassDeclaration); decl != nil {
			return c.classTypeOf(decl).instance
		}

	case sym.Flags.Has(SymbolInterface):
		if t, ok := c.declaredTypes[sym]; ok {
			return t
		}
		o := &ts_types.ObjectType{Name: sym.Name}
		c.declaredTypes[sym] = o
		for _, decl := range sym.Declarations {
			if iface, ok := decl.Data.(*ts_ast.SInterface); ok {
				c.objectTypeFromMembers(o, iface.Members)
			}
		}
		return o

	case sym.Flags.Has(SymbolTypeAlias):
		if t, ok := c.declaredTypes[sym]; ok {
			return t
		}
		c.declaredTypes[sym] = ts_types.Any
		decl := sym.declarationOfKind(ts_ast.KindTypeAliasDeclaration)
		t := c.typeFromTypeNode(decl.Data.(*ts_ast.STypeAlias).Type)
		c.declaredTypes[sym] = t
		return t

	case sym.Flags.Has(SymbolEnum):
		return c.enumTypeOf(sym)

	case sym.Flags.Has(SymbolEnumMember):
		if sym.Parent != nil {
			return c.enumTypeOf(sym.Parent)
		}

	case sym.Flags.Has(SymbolTypeParameter):
		// Generic declarations are checked as if instantiated with the
		// constraint, which is "any" when there is none
		if decl := sym.declarationOfKind(ts_ast.KindTypeParameter); decl != nil {
			if constraint := decl.Data.(*ts_ast.TypeParameter).Constraint; constraint != nil {
				return c.typeFromTypeNode(constraint)
			}
		}
	}
	return ts_types.Any
}

func (c *Checker) builtinReference(name string, args []*ts_ast.Node) ts_types.Type {
	arg := func() ts_types.Type {
		if len(args) > 0 {
			return c.typeFromTypeNode(args[0])
		}
		return ts_types.Any
	}
	switch name {
	case "Array", "ReadonlyArray":
		return ts_types.CreateArrayType(arg())
	case "Promise", "PromiseLike":
		return ts_types.CreatePromiseType(arg())
	case "String":
		return ts_types.StringApparent
	case "Number":
		return ts_types.NumberApparent
	case "Boolean":
		return ts_types.BooleanApparent
	case "Object":
		return ts_types.NewObjectType()
	case "Function":
		return functionType
	}
	if o, ok := namedBuiltins[name]; ok {
		return o
	}
	return ts_types.Any
}

////////////////////////////////////////////////////////////////////////////////
// Contextual types

// Returns the type an expression is expected to have from the position it
// appears in, or nil when nothing constrains it
func (c *Checker) ContextualType(node *ts_ast.Node) ts_types.Type {
	p := node.Parent
	if p == nil {
		return nil
	}

	switch d := p.Data.(type) {
	case *ts_ast.ECall:
		if d.Target != node {
			return c.contextualArgumentType(c.TypeAtLocation(d.Target), d.Args, node, false)
		}
	case *ts_ast.ENew:
		if d.Target != node {
			return c.contextualArgumentType(c.TypeAtLocation(d.Target), d.Args, node, true)
		}

	case *ts_ast.VariableDeclaration:
		if d.Initializer == node && d.Type != nil {
			return c.typeFromTypeNode(d.Type)
		}
	case *ts_ast.Parameter:
		if d.Initializer == node && d.Type != nil {
			return c.typeFromTypeNode(d.Type)
		}
	case *ts_ast.CProperty:
		if d.Initializer == node && d.Type != nil {
			return c.typeFromTypeNode(d.Type)
		}
	case *ts_ast.BindingElement:
		if d.Initializer == node {
			return c.TypeAtLocation(d.Name)
		}

	case *ts_ast.EBinary:
		switch {
		case d.Op == ts_ast.BinOpAssign && d.Right == node:
			return c.TypeAtLocation(d.Left)
		case d.Op == ts_ast.BinOpLogicalOr || d.Op == ts_ast.BinOpNullishCoalescing:
			return c.ContextualType(p)
		case (d.Op == ts_ast.BinOpLogicalAnd || d.Op == ts_ast.BinOpComma) && d.Right == node:
			return c.ContextualType(p)
		}

	case *ts_ast.SReturn:
		return c.contextualReturnType(p)

	case *ts_ast.EArrow:
		if d.Fn.Body == node && d.Fn.ReturnType != nil {
			return c.typeFromTypeNode(d.Fn.ReturnType)
		}

	case *ts_ast.PropertyAssignment:
		if d.Initializer == node {
			return c.contextualPropertyType(p.Parent, d.Name)
		}
	case *ts_ast.ShorthandPropertyAssignment:
		if d.Name == node {
			return c.contextualPropertyType(p.Parent, d.Name)
		}

	case *ts_ast.EArray:
		if arrayType := c.ContextualType(p); arrayType != nil {
			return ts_types.ElementTypeOfArray(arrayType)
		}

	case *ts_ast.EParen:
		return c.ContextualType(p)

	case *ts_ast.EIf:
		if d.Test != node {
			return c.ContextualType(p)
		}

	case *ts_ast.EAs:
		return c.typeFromTypeNode(d.Type)
	case *ts_ast.ETypeAssertion:
		return c.typeFromTypeNode(d.Type)
	case *ts_ast.ESatisfies:
		return c.typeFromTypeNode(d.Type)

	case *ts_ast.ETemplate:
		if d.Tag == node {
			return nil
		}
	}
	return nil
}

func (c *Checker) contextualArgumentType(callee ts_types.Type, args []*ts_ast.Node, arg *ts_ast.Node, isNew bool) ts_types.Type {
	var sigs []*ts_types.Signature
	if isNew {
		sigs = ts_types.ConstructSignaturesOfType(callee)
	} else {
		sigs = ts_types.CallSignaturesOfType(callee)
	}
	if len(sigs) == 0 {
		return nil
	}
	for i, a := range args {
		if a == arg {
			if t := eraseSignature(sigs[0]).ParamTypeAt(i); t != nil {
				return t
			}
			return nil
		}
	}
	return nil
}

func (c *Checker) contextualReturnType(n *ts_ast.Node) ts_types.Type {
	for p := n.Parent; p != nil; p = p.Parent {
		if fn := ts_ast.FnOf(p); fn != nil {
			if fn.ReturnType == nil {
				return nil
			}
			t := c.typeFromTypeNode(fn.ReturnType)
			if fn.Modifiers.Has(ts_ast.ModifierAsync) {
				t = awaitedType(t)
			}
			return t
		}
	}
	return nil
}

func (c *Checker) contextualPropertyType(object *ts_ast.Node, name *ts_ast.Node) ts_types.Type {
	text, ok := ts_ast.PropertyNameText(name)
	if !ok {
		return nil
	}
	if objectType := c.ContextualType(object); objectType != nil {
		return ts_types.PropertyOfType(objectType, text)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// Helpers

func removeNullable(t ts_types.Type) ts_types.Type {
	members := ts_types.UnionMembers(t)
	kept := make([]ts_types.Type, 0, len(members))
	for _, member := range members {
		if !ts_types.IsNullable(member) {
			kept = append(kept, member)
		}
	}
	return ts_types.NewUnionType(kept...)
}

func isBigIntLike(t ts_types.Type) bool {
	if t == ts_types.BigInt {
		return true
	}
	if lit, ok := t.(*ts_types.LiteralType); ok {
		_, ok := lit.Value.(ts_types.BigIntValue)
		return ok
	}
	return false
}

func awaitedType(t ts_types.Type) ts_types.Type {
	if r, ok := t.(*ts_types.TypeReference); ok && r.Target == ts_types.PromiseGeneric && len(r.TypeArguments) == 1 {
		return awaitedType(r.TypeArguments[0])
	}
	return t
}
