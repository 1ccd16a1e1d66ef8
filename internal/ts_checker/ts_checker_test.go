package ts_checker

import (
	"testing"

	"github.com/evanw/tslower/internal/config"
	"github.com/evanw/tslower/internal/test"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/stretchr/testify/require"
)

type builder struct {
	*ts_ast.Factory
}

func newBuilder() builder {
	return builder{ts_ast.NewFactory()}
}

func (b builder) file(stmts ...*ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.SourceFile{Stmts: stmts})
}

func (b builder) keyword(keyword ts_ast.TypeKeyword) *ts_ast.Node {
	return b.Make(&ts_ast.TKeyword{Keyword: keyword})
}

func (b builder) ref(name string) *ts_ast.Node {
	return b.Make(&ts_ast.TReference{TypeName: b.Ident(name)})
}

func (b builder) local(kind ts_ast.LocalKind, name string, typ *ts_ast.Node, init *ts_ast.Node) *ts_ast.Node {
	decl := b.Make(&ts_ast.VariableDeclaration{Name: b.Ident(name), Type: typ, Initializer: init})
	return b.Local(kind, decl)
}

func (b builder) enum(name string, isConst bool, members ...*ts_ast.Node) *ts_ast.Node {
	var modifiers ts_ast.ModifierFlags
	if isConst {
		modifiers = ts_ast.ModifierConst
	}
	return b.Make(&ts_ast.SEnum{Modifiers: modifiers, Name: b.Ident(name), Members: members})
}

func (b builder) member(name string, init *ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.EnumMember{Name: b.Ident(name), Initializer: init})
}

func (b builder) param(name string, typ *ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.Parameter{Name: b.Ident(name), Type: typ})
}

func declOf(local *ts_ast.Node) *ts_ast.Node {
	return local.Data.(*ts_ast.SLocal).Decls[0]
}

func TestEnumConstantValues(t *testing.T) {
	b := newBuilder()
	template := b.Make(&ts_ast.ETemplate{Head: "t", Spans: []*ts_ast.Node{
		b.Make(&ts_ast.TemplateSpan{Value: b.Num(1), Tail: "!"}),
	}})
	members := []*ts_ast.Node{
		b.member("A", nil),
		b.member("B", b.Num(5)),
		b.member("C", nil),
		b.member("D", b.Str("x")),
		b.member("E", nil),
		b.member("F", b.Binary(ts_ast.BinOpMul, b.Ident("B"), b.Num(2))),
		b.member("G", b.Binary(ts_ast.BinOpBitwiseOr, b.Dot(b.Ident("Color"), "A"), b.Num(4))),
		b.member("H", template),
		b.member("I", b.Unary(ts_ast.UnOpCpl, b.Num(0))),
		b.member("J", b.Binary(ts_ast.BinOpAdd, b.Ident("D"), b.Str("y"))),
		b.member("K", b.Call(b.Ident("f"))),
		b.member("L", b.Binary(ts_ast.BinOpShl, b.Num(1), b.Num(33))),
	}
	c := NewChecker(b.file(b.enum("Color", false, members...)), config.Options{})

	expect := func(index int, value interface{}) {
		t.Helper()
		actual, ok := c.GetConstantValue(members[index])
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, actual, value)
	}
	expectNotConstant := func(index int) {
		t.Helper()
		_, ok := c.GetConstantValue(members[index])
		test.AssertEqual(t, ok, false)
	}

	expect(0, 0.0)
	expect(1, 5.0)
	expect(2, 6.0)
	expect(3, "x")
	expectNotConstant(4)
	expect(5, 10.0)
	expect(6, 4.0)
	expect(7, "t1!")
	expect(8, -1.0)
	expect(9, "xy")
	expectNotConstant(10)
	expect(11, 2.0)
}

func TestEnumSelfReferenceIsNotConstant(t *testing.T) {
	b := newBuilder()
	a := b.member("A", b.Binary(ts_ast.BinOpAdd, b.Ident("B"), b.Num(1)))
	bm := b.member("B", b.Binary(ts_ast.BinOpAdd, b.Ident("A"), b.Num(1)))
	c := NewChecker(b.file(b.enum("E", false, a, bm)), config.Options{})

	_, ok := c.GetConstantValue(a)
	test.AssertEqual(t, ok, false)
	_, ok = c.GetConstantValue(bm)
	test.AssertEqual(t, ok, false)
}

func TestConstEnumAccess(t *testing.T) {
	b := newBuilder()
	dot := b.Dot(b.Ident("K"), "X")
	index := b.Index(b.Ident("K"), b.Str("X"))
	regular := b.Dot(b.Ident("R"), "Y")
	c := NewChecker(b.file(
		b.enum("K", true, b.member("X", b.Num(3))),
		b.enum("R", false, b.member("Y", b.Num(4))),
		b.ExprStmt(dot),
		b.ExprStmt(index),
		b.ExprStmt(regular),
	), config.Options{})

	value, ok := c.GetConstantValue(dot)
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, value, 3.0)

	value, ok = c.GetConstantValue(index)
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, value, 3.0)

	// Only const enum accesses are inlined
	_, ok = c.GetConstantValue(regular)
	test.AssertEqual(t, ok, false)
}

func TestReferencedAliases(t *testing.T) {
	b := newBuilder()
	specA := b.Make(&ts_ast.ImportSpecifier{Name: b.Ident("a")})
	specB := b.Make(&ts_ast.ImportSpecifier{Name: b.Ident("b")})
	specC := b.Make(&ts_ast.ImportSpecifier{Name: b.Ident("c")})
	clause := b.Make(&ts_ast.ImportClause{NamedBindings: b.Make(&ts_ast.NamedImports{Elements: []*ts_ast.Node{specA, specB, specC}})})
	c := NewChecker(b.file(
		b.Make(&ts_ast.SImport{ImportClause: clause, ModuleSpecifier: "m"}),
		b.ExprStmt(b.Call(b.Ident("a"))),
		b.local(ts_ast.LocalLet, "v", b.ref("b"), nil),
	), config.Options{})

	test.AssertEqual(t, c.IsReferencedAliasDeclaration(specA), true)
	test.AssertEqual(t, c.IsReferencedAliasDeclaration(specB), false)
	test.AssertEqual(t, c.IsReferencedAliasDeclaration(specC), false)
	test.AssertEqual(t, c.IsValueAliasDeclaration(specB), true)
}

func TestMetadataTypeMarksAliasReferenced(t *testing.T) {
	b := newBuilder()
	spec := b.Make(&ts_ast.ImportSpecifier{Name: b.Ident("Service")})
	clause := b.Make(&ts_ast.ImportClause{NamedBindings: b.Make(&ts_ast.NamedImports{Elements: []*ts_ast.Node{spec}})})
	prop := b.Make(&ts_ast.CProperty{
		Decorators: []*ts_ast.Node{b.Make(&ts_ast.Decorator{Value: b.Ident("inject")})},
		Key:        b.Ident("service"),
		Type:       b.ref("Service"),
	})
	file := func() *ts_ast.Node {
		return b.file(
			b.Make(&ts_ast.SImport{ImportClause: clause, ModuleSpecifier: "m"}),
			b.Make(&ts_ast.SClass{Class: ts_ast.Class{Name: b.Ident("C"), Members: []*ts_ast.Node{prop}}}),
		)
	}

	c := NewChecker(file(), config.Options{})
	test.AssertEqual(t, c.IsReferencedAliasDeclaration(spec), false)

	c = NewChecker(file(), config.Options{EmitDecoratorMetadata: true})
	test.AssertEqual(t, c.IsReferencedAliasDeclaration(spec), true)
}

func TestReferencedExportContainer(t *testing.T) {
	b := newBuilder()
	exportedVar := b.local(ts_ast.LocalVar, "x", nil, b.Num(1))
	exportedVar.Data.(*ts_ast.SLocal).Modifiers = ts_ast.ModifierExport
	exportedFn := b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{Modifiers: ts_ast.ModifierExport, Name: b.Ident("f"), Body: b.Block()}})
	xRef, fRef, yRef := b.Ident("x"), b.Ident("f"), b.Ident("y")
	ns := b.Make(&ts_ast.SNamespace{Name: b.Ident("N"), Body: b.Make(&ts_ast.ModuleBlock{Stmts: []*ts_ast.Node{
		exportedVar,
		exportedFn,
		b.local(ts_ast.LocalLet, "y", nil, b.Num(2)),
		b.ExprStmt(xRef),
		b.ExprStmt(fRef),
		b.ExprStmt(yRef),
	}})})
	c := NewChecker(b.file(ns), config.Options{})

	test.AssertEqual(t, c.GetReferencedExportContainer(xRef), ns)
	test.AssertEqual(t, c.GetReferencedExportContainer(fRef) == nil, true)
	test.AssertEqual(t, c.GetReferencedExportContainer(yRef) == nil, true)
	test.AssertEqual(t, c.GetReferencedValueDeclaration(xRef), declOf(exportedVar))
}

func TestValueAliases(t *testing.T) {
	b := newBuilder()
	exportIface := b.Make(&ts_ast.ExportSpecifier{Name: b.Ident("I")})
	exportVar := b.Make(&ts_ast.ExportSpecifier{Name: b.Ident("v")})
	exportTypes := b.Make(&ts_ast.ExportSpecifier{Name: b.Ident("T")})
	typesOnly := b.Make(&ts_ast.SNamespace{Name: b.Ident("T"), Body: b.Make(&ts_ast.ModuleBlock{Stmts: []*ts_ast.Node{
		b.Make(&ts_ast.SInterface{Modifiers: ts_ast.ModifierExport, Name: b.Ident("J")}),
	}})})
	c := NewChecker(b.file(
		b.Make(&ts_ast.SInterface{Name: b.Ident("I")}),
		b.local(ts_ast.LocalLet, "v", nil, b.Num(1)),
		typesOnly,
		b.Make(&ts_ast.SExport{ExportClause: b.Make(&ts_ast.NamedExports{Elements: []*ts_ast.Node{exportIface, exportVar, exportTypes}})}),
	), config.Options{})

	test.AssertEqual(t, c.IsValueAliasDeclaration(exportIface), false)
	test.AssertEqual(t, c.IsValueAliasDeclaration(exportVar), true)
	test.AssertEqual(t, c.IsValueAliasDeclaration(exportTypes), false)
}

func TestSerializationKinds(t *testing.T) {
	b := newBuilder()
	names := map[string]*ts_ast.Node{}
	var stmts []*ts_ast.Node
	stmts = append(stmts,
		b.Make(&ts_ast.SClass{Class: ts_ast.Class{Name: b.Ident("Foo")}}),
		b.Make(&ts_ast.SInterface{Name: b.Ident("Bar")}),
		b.enum("Numeric", false, b.member("A", nil)),
		b.enum("Text", false, b.member("A", b.Str("a"))),
		b.enum("Mixed", false, b.member("A", b.Str("a")), b.member("B", b.Num(1))),
		b.Make(&ts_ast.STypeAlias{Name: b.Ident("Alias"), Type: b.keyword(ts_ast.TypeString)}),
		b.Make(&ts_ast.STypeAlias{Name: b.Ident("List"), Type: b.Make(&ts_ast.TArray{Elem: b.keyword(ts_ast.TypeNumber)})}),
		b.Make(&ts_ast.STypeAlias{Name: b.Ident("Callback"), Type: b.Make(&ts_ast.TFunction{Return: b.keyword(ts_ast.TypeVoid)})}),
	)
	for _, name := range []string{"Foo", "Bar", "Numeric", "Text", "Mixed", "Alias", "List", "Callback", "Date", "Promise", "Symbol", "Missing"} {
		typ := b.ref(name)
		names[name] = typ.Data.(*ts_ast.TReference).TypeName
		stmts = append(stmts, b.local(ts_ast.LocalLet, "v"+name, typ, nil))
	}
	c := NewChecker(b.file(stmts...), config.Options{})

	expect := func(name string, kind SerializationKind) {
		t.Helper()
		test.AssertEqual(t, c.GetTypeReferenceSerializationKind(names[name], names[name]), kind)
	}
	expect("Foo", SerializationTypeWithConstructSignatureAndValue)
	expect("Bar", SerializationObject)
	expect("Numeric", SerializationNumberLike)
	expect("Text", SerializationStringLike)
	expect("Mixed", SerializationObject)
	expect("Alias", SerializationStringLike)
	expect("List", SerializationArrayLike)
	expect("Callback", SerializationTypeWithCallSignature)
	expect("Date", SerializationTypeWithConstructSignatureAndValue)
	expect("Promise", SerializationPromise)
	expect("Symbol", SerializationESSymbolLike)
	expect("Missing", SerializationUnknown)
}

func TestClassSelfReference(t *testing.T) {
	b := newBuilder()
	selfRef := b.Ident("C")
	method := b.Make(&ts_ast.CMethod{Key: b.Ident("m"), Fn: ts_ast.Fn{Modifiers: ts_ast.ModifierStatic, Body: b.Block(b.Return(selfRef))}})
	outsideRef := b.Ident("C")
	decorated := b.Make(&ts_ast.SClass{Class: ts_ast.Class{
		Decorators: []*ts_ast.Node{b.Make(&ts_ast.Decorator{Value: b.Ident("dec")})},
		Name:       b.Ident("C"),
		Members:    []*ts_ast.Node{method},
	}})
	c := NewChecker(b.file(decorated, b.ExprStmt(outsideRef)), config.Options{})

	test.AssertEqual(t, c.NodeCheckFlags(decorated).Has(CheckClassWithConstructorReference), true)
	test.AssertEqual(t, c.NodeCheckFlags(selfRef).Has(CheckConstructorReferenceInClass), true)
	test.AssertEqual(t, c.NodeCheckFlags(outsideRef).Has(CheckConstructorReferenceInClass), false)
	test.AssertEqual(t, c.GetReferencedValueDeclaration(outsideRef), decorated)
}

func TestTypeAtLocation(t *testing.T) {
	b := newBuilder()
	x := b.local(ts_ast.LocalLet, "x", nil, b.Num(1))
	y := b.local(ts_ast.LocalConst, "y", nil, b.Str("a"))
	o := b.local(ts_ast.LocalLet, "o", nil, b.Object(
		b.PropertyAssignment(b.Ident("b"), b.Str("s")),
		b.PropertyAssignment(b.Ident("a"), b.Num(1)),
	))
	list := b.local(ts_ast.LocalLet, "list", nil, b.Array(b.Num(1), b.Num(2)))
	length := b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{
		Name:       b.Ident("length"),
		Params:     []*ts_ast.Node{b.param("s", b.keyword(ts_ast.TypeString))},
		ReturnType: b.keyword(ts_ast.TypeNumber),
		Body:       b.Block(b.Return(b.Num(0))),
	}})
	call := b.Call(b.Ident("length"), b.Ident("x"))
	sum := b.Binary(ts_ast.BinOpAdd, b.Ident("x"), b.Ident("y"))
	c := NewChecker(b.file(x, y, o, list, length, b.ExprStmt(call), b.ExprStmt(sum)), config.Options{StrictNullChecks: true})

	expect := func(n *ts_ast.Node, expected string) {
		t.Helper()
		actual := c.TypeAtLocation(n)
		require.NotNil(t, actual)
		test.AssertEqual(t, actual.String(), expected)
	}
	expect(declOf(x), "number")
	expect(declOf(y), "\"a\"")
	expect(declOf(o), "{ a: number; b: string; }")
	expect(declOf(list), "number[]")
	expect(length, "(s: string) => number")
	expect(call, "number")
	expect(sum, "string")
}

func TestClassTypes(t *testing.T) {
	b := newBuilder()
	ctor := b.Make(&ts_ast.CConstructor{Fn: ts_ast.Fn{
		Params: []*ts_ast.Node{b.Make(&ts_ast.Parameter{Modifiers: ts_ast.ModifierPrivate, Name: b.Ident("id"), Type: b.keyword(ts_ast.TypeNumber)})},
		Body:   b.Block(),
	}})
	name := b.Make(&ts_ast.CProperty{Key: b.Ident("name"), Initializer: b.Str("n")})
	count := b.Make(&ts_ast.CProperty{Modifiers: ts_ast.ModifierStatic, Key: b.Ident("count"), Type: b.keyword(ts_ast.TypeNumber)})
	this := b.This()
	getName := b.Make(&ts_ast.CMethod{Key: b.Ident("getName"), Fn: ts_ast.Fn{Body: b.Block(b.Return(b.Dot(this, "name")))}})
	class := b.Make(&ts_ast.SClass{Class: ts_ast.Class{Name: b.Ident("Person"), Members: []*ts_ast.Node{ctor, name, count, getName}}})
	created := b.New(b.Ident("Person"), b.Num(1))
	c := NewChecker(b.file(class, b.ExprStmt(created)), config.Options{})

	instance := c.TypeAtLocation(created)
	test.AssertEqual(t, instance.String(), "Person")
	test.AssertEqual(t, c.TypeAtLocation(this), instance)
	test.AssertEqual(t, c.TypeAtLocation(class).String(), "typeof Person")

	ct := c.classTypeOf(class)
	require.Len(t, ct.instance.Properties, 3)
	test.AssertEqual(t, ct.instance.Properties[0].Name, "getName")
	test.AssertEqual(t, ct.instance.Properties[0].Type.String(), "() => string")
	test.AssertEqual(t, ct.instance.Properties[1].Name, "id")
	test.AssertEqual(t, ct.instance.Properties[2].Name, "name")
	require.NotNil(t, ct.static.Property("count"))
}

func TestContextualType(t *testing.T) {
	b := newBuilder()
	length := b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{
		Name:   b.Ident("length"),
		Params: []*ts_ast.Node{b.param("s", b.keyword(ts_ast.TypeString))},
		Body:   b.Block(),
	}})
	arg := b.Ident("a")
	stringArg := b.Ident("a")
	init := b.Ident("a")
	returned := b.Ident("a")
	fn := b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{
		Name:       b.Ident("g"),
		ReturnType: b.Make(&ts_ast.TArray{Elem: b.keyword(ts_ast.TypeBoolean)}),
		Body:       b.Block(b.Return(returned)),
	}})
	unconstrained := b.Ident("a")
	c := NewChecker(b.file(
		b.local(ts_ast.LocalLet, "a", nil, nil),
		length,
		fn,
		b.ExprStmt(b.Call(b.Ident("length"), arg)),
		b.ExprStmt(b.Call(b.Ident("String"), stringArg)),
		b.local(ts_ast.LocalLet, "z", b.keyword(ts_ast.TypeNumber), init),
		b.ExprStmt(unconstrained),
	), config.Options{})

	test.AssertEqual(t, c.ContextualType(arg).String(), "string")
	test.AssertEqual(t, c.ContextualType(stringArg).String(), "any")
	test.AssertEqual(t, c.ContextualType(init).String(), "number")
	test.AssertEqual(t, c.ContextualType(returned).String(), "boolean[]")
	test.AssertEqual(t, c.ContextualType(unconstrained) == nil, true)
}

func TestReferences(t *testing.T) {
	b := newBuilder()
	decl := b.local(ts_ast.LocalLet, "a", nil, nil)
	first, second := b.Ident("a"), b.Ident("a")
	shadow := b.Ident("a")
	inner := b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{
		Name:   b.Ident("f"),
		Params: []*ts_ast.Node{b.param("a", nil)},
		Body:   b.Block(b.ExprStmt(shadow)),
	}})
	c := NewChecker(b.file(decl, b.ExprStmt(first), inner, b.ExprStmt(second)), config.Options{})

	refs := c.References(declOf(decl).Data.(*ts_ast.VariableDeclaration).Name)
	require.Len(t, refs, 2)
	test.AssertEqual(t, refs[0], first)
	test.AssertEqual(t, refs[1], second)
}
