package ts_transform

import (
	"testing"

	"github.com/evanw/tslower/internal/compat"
	"github.com/evanw/tslower/internal/config"
	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/runtime"
	"github.com/evanw/tslower/internal/test"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
	"github.com/evanw/tslower/internal/ts_printer"
	"github.com/stretchr/testify/require"
)

type builder struct {
	*ts_ast.Factory
}

func newBuilder() builder {
	return builder{ts_ast.NewFactory()}
}

func (b builder) file(stmts ...*ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.SourceFile{FileName: "test.ts", Stmts: stmts})
}

func (b builder) module(stmts ...*ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.SourceFile{FileName: "test.ts", Stmts: stmts, IsExternalModule: true})
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

func (b builder) param(name string, typ *ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.Parameter{Name: b.Ident(name), Type: typ})
}

func (b builder) decorator(name string) *ts_ast.Node {
	return b.Make(&ts_ast.Decorator{Value: b.Ident(name)})
}

func (b builder) class(class ts_ast.Class) *ts_ast.Node {
	return b.Make(&ts_ast.SClass{Class: class})
}

func (b builder) property(modifiers ts_ast.ModifierFlags, name string, typ *ts_ast.Node, init *ts_ast.Node, decorators ...*ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.CProperty{Decorators: decorators, Modifiers: modifiers, Key: b.Ident(name), Type: typ, Initializer: init})
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

func (b builder) namespace(name string, stmts ...*ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.SNamespace{Name: b.Ident(name), Body: b.Make(&ts_ast.ModuleBlock{Stmts: stmts})})
}

func optionsFor(target compat.LanguageTarget) config.Options {
	options := config.DefaultOptions()
	options.Target = target
	options.Finish()
	return options
}

func transformFile(f *ts_ast.Factory, file *ts_ast.Node, options config.Options) TransformResult {
	checker := ts_checker.NewChecker(file, options)
	return Transform(logger.NewDeferLog(), &logger.Source{PrettyPath: "test.ts"}, f, file, checker, options)
}

func printResult(result TransformResult) string {
	return string(ts_printer.Print(result.File, ts_printer.Options{Hooks: result.Substitution}).JS)
}

func expectTransformed(t *testing.T, b builder, file *ts_ast.Node, options config.Options, expected string) TransformResult {
	t.Helper()
	result := transformFile(b.Factory, file, options)
	test.AssertEqualWithDiff(t, printResult(result), expected)
	return result
}

func helperNames(helpers []*runtime.Helper) (names []string) {
	for _, helper := range helpers {
		names = append(names, helper.Name)
	}
	return
}

func TestTypeErasure(t *testing.T) {
	b := newBuilder()
	typeParam := b.Make(&ts_ast.TypeParameter{Name: b.Ident("T")})
	optional := b.Make(&ts_ast.Parameter{Name: b.Ident("b"), IsOptional: true, Type: b.keyword(ts_ast.TypeString)})
	file := b.file(
		b.Make(&ts_ast.SInterface{Name: b.Ident("I")}),
		b.Make(&ts_ast.STypeAlias{Name: b.Ident("Alias"), Type: b.keyword(ts_ast.TypeString)}),
		b.local(ts_ast.LocalLet, "x", b.keyword(ts_ast.TypeNumber),
			b.Paren(b.Make(&ts_ast.EAs{Value: b.Ident("y"), Type: b.keyword(ts_ast.TypeAny)}))),
		b.Make(&ts_ast.SLocal{Modifiers: ts_ast.ModifierDeclare, LocalKind: ts_ast.LocalLet, Decls: []*ts_ast.Node{
			b.Make(&ts_ast.VariableDeclaration{Name: b.Ident("z"), Type: b.keyword(ts_ast.TypeNumber)}),
		}}),

		// An overload signature followed by the implementation
		b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{Name: b.Ident("f"), Params: []*ts_ast.Node{b.param("a", b.keyword(ts_ast.TypeNumber))}}}),
		b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{
			Name:           b.Ident("f"),
			TypeParameters: []*ts_ast.Node{typeParam},
			Params:         []*ts_ast.Node{b.param("a", b.ref("T")), optional},
			ReturnType:     b.keyword(ts_ast.TypeVoid),
			Body:           b.Block(b.Return(b.Make(&ts_ast.ENonNull{Value: b.Ident("a")}))),
		}}),
	)

	options := config.DefaultOptions()
	expected := "let x = y;\nfunction f(a, b) {\n    return a;\n}\n"
	result := expectTransformed(t, b, file, options, expected)
	require.Empty(t, result.Helpers)

	// Lowering is idempotent
	again := transformFile(b.Factory, result.File, options)
	test.AssertEqualWithDiff(t, printResult(again), expected)
}

func TestEnum(t *testing.T) {
	b := newBuilder()
	file := b.file(b.enum("Color", false,
		b.member("Red", nil),
		b.member("Green", b.Num(5)),
		b.member("Blue", nil),
		b.member("Name", b.Str("color")),
	))
	expectTransformed(t, b, file, config.DefaultOptions(), `var Color;
(function (Color) {
    Color[Color["Red"] = 0] = "Red";
    Color[Color["Green"] = 5] = "Green";
    Color[Color["Blue"] = 6] = "Blue";
    Color["Name"] = "color";
})(Color || (Color = {}));
`)
}

func TestConstEnumInlining(t *testing.T) {
	b := newBuilder()
	file := b.file(
		b.enum("K", true, b.member("A", b.Num(1))),
		b.local(ts_ast.LocalLet, "v", nil, b.Dot(b.Ident("K"), "A")),
	)
	expectTransformed(t, b, file, config.DefaultOptions(), "let v = 1 /* A */;\n")

	// Preserved const enums are still inlined
	b = newBuilder()
	file = b.file(
		b.enum("K", true, b.member("A", b.Num(1))),
		b.local(ts_ast.LocalLet, "v", nil, b.Dot(b.Ident("K"), "A")),
	)
	options := config.DefaultOptions()
	options.PreserveConstEnums = true
	expectTransformed(t, b, file, options, `var K;
(function (K) {
    K[K["A"] = 1] = "A";
})(K || (K = {}));
let v = 1 /* A */;
`)
}

func TestNamespaceMerging(t *testing.T) {
	b := newBuilder()
	exported := b.Make(&ts_ast.SLocal{Modifiers: ts_ast.ModifierExport, LocalKind: ts_ast.LocalConst, Decls: []*ts_ast.Node{
		b.VarDecl(b.Ident("a"), b.Num(1)),
	}})
	fn := b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{
		Modifiers: ts_ast.ModifierExport,
		Name:      b.Ident("f"),
		Body:      b.Block(b.Return(b.Ident("a"))),
	}})
	file := b.file(b.namespace("N", exported), b.namespace("N", fn))
	expectTransformed(t, b, file, config.DefaultOptions(), `var N;
(function (N) {
    N.a = 1;
})(N || (N = {}));
(function (N) {
    function f() {
        return N.a;
    }
    N.f = f;
})(N || (N = {}));
`)
}

func TestNamespaceExportedClass(t *testing.T) {
	b := newBuilder()
	class := b.class(ts_ast.Class{Modifiers: ts_ast.ModifierExport, Name: b.Ident("C")})
	file := b.file(b.namespace("N", class))
	expectTransformed(t, b, file, config.DefaultOptions(), `var N;
(function (N) {
    class C {
    }
    N.C = C;
})(N || (N = {}));
`)
}

func TestNonInstantiatedNamespace(t *testing.T) {
	b := newBuilder()
	file := b.file(b.namespace("Types", b.Make(&ts_ast.SInterface{Name: b.Ident("I")})))
	expectTransformed(t, b, file, config.DefaultOptions(), "")
}

func TestDecoratedClassES5(t *testing.T) {
	b := newBuilder()
	file := b.file(b.class(ts_ast.Class{
		Decorators: []*ts_ast.Node{b.decorator("dec")},
		Name:       b.Ident("C"),
		Members:    []*ts_ast.Node{b.property(ts_ast.ModifierStatic, "x", nil, b.Num(1))},
	}))
	result := expectTransformed(t, b, file, config.DefaultOptions(), `let C = (function () {
    let C = class C {
    };
    C.x = 1;
    C = __decorate([dec], C);
    return C;
})();
`)
	test.AssertDeepEqual(t, helperNames(result.Helpers), []string{"__decorate"})
}

func TestStaticPropertiesWithoutDecorators(t *testing.T) {
	b := newBuilder()
	file := b.file(b.class(ts_ast.Class{
		Name:    b.Ident("C"),
		Members: []*ts_ast.Node{b.property(ts_ast.ModifierStatic, "x", nil, b.Num(1))},
	}))
	result := expectTransformed(t, b, file, config.DefaultOptions(), "class C {\n}\nC.x = 1;\n")
	require.Empty(t, result.Helpers)
}

func TestClassFacts(t *testing.T) {
	b := newBuilder()
	staticProperty := b.property(ts_ast.ModifierStatic, "x", nil, b.Num(1))
	method := b.Make(&ts_ast.CMethod{
		Decorators: []*ts_ast.Node{b.decorator("dec")},
		Key:        b.Ident("m"),
		Fn:         ts_ast.Fn{Body: b.Block()},
	})
	extends := b.Make(&ts_ast.HeritageClause{Types: []*ts_ast.Node{
		b.Make(&ts_ast.ExpressionWithTypeArguments{Value: b.Ident("Base")}),
	}})
	extendsNull := b.Make(&ts_ast.HeritageClause{Types: []*ts_ast.Node{
		b.Make(&ts_ast.ExpressionWithTypeArguments{Value: b.Null()}),
	}})

	staticOnly := b.class(ts_ast.Class{Name: b.Ident("A"), Members: []*ts_ast.Node{staticProperty}})
	decorated := b.class(ts_ast.Class{Name: b.Ident("B"), Decorators: []*ts_ast.Node{b.decorator("dec")}})
	memberDecorated := b.class(ts_ast.Class{Name: b.Ident("C"), Members: []*ts_ast.Node{method}})
	derived := b.class(ts_ast.Class{Name: b.Ident("D"), Heritage: []*ts_ast.Node{extends}})
	derivedFromNull := b.class(ts_ast.Class{Name: b.Ident("E"), Heritage: []*ts_ast.Node{extendsNull}})
	exported := b.class(ts_ast.Class{Modifiers: ts_ast.ModifierExport | ts_ast.ModifierDefault, Name: b.Ident("F")})

	facts := func(target compat.LanguageTarget, node *ts_ast.Node, statics ...*ts_ast.Node) classFacts {
		return (&transformer{options: optionsFor(target)}).getClassFacts(node, statics)
	}

	test.AssertEqual(t, facts(compat.ES5, staticOnly, staticProperty), classHasStaticInitializedProperties)
	test.AssertEqual(t, facts(compat.ES5, decorated), classHasConstructorDecorators|classUseImmediatelyInvokedFunctionExpression)
	test.AssertEqual(t, facts(compat.ES2015, decorated), classHasConstructorDecorators)
	test.AssertEqual(t, facts(compat.ES5, memberDecorated), classHasMemberDecorators|classUseImmediatelyInvokedFunctionExpression)
	test.AssertEqual(t, facts(compat.ES2015, memberDecorated), classHasMemberDecorators)
	test.AssertEqual(t, facts(compat.ES2015, derived), classIsDerivedClass)
	test.AssertEqual(t, facts(compat.ES2015, derivedFromNull), classFacts(0))
	test.AssertEqual(t, facts(compat.ES2015, exported), classIsDefaultExternalExport)
}

func TestParameterProperties(t *testing.T) {
	b := newBuilder()
	ctor := b.Make(&ts_ast.CConstructor{Fn: ts_ast.Fn{
		Params: []*ts_ast.Node{b.Make(&ts_ast.Parameter{
			Modifiers: ts_ast.ModifierPrivate,
			Name:      b.Ident("x"),
			Type:      b.keyword(ts_ast.TypeNumber),
		})},
		Body: b.Block(b.ExprStmt(b.Assign(b.Dot(b.This(), "y"), b.Num(2)))),
	}})
	file := b.file(b.class(ts_ast.Class{
		Name:    b.Ident("P"),
		Members: []*ts_ast.Node{ctor, b.property(0, "z", nil, b.Num(3))},
	}))
	expectTransformed(t, b, file, optionsFor(compat.ES2015), `class P {
    constructor(x) {
        this.x = x;
        this.z = 3;
        this.y = 2;
    }
}
`)
}

func TestDerivedClassSynthesizedConstructor(t *testing.T) {
	b := newBuilder()
	extends := b.Make(&ts_ast.HeritageClause{Types: []*ts_ast.Node{
		b.Make(&ts_ast.ExpressionWithTypeArguments{Value: b.Ident("Base")}),
	}})
	file := b.file(b.class(ts_ast.Class{
		Name:     b.Ident("D"),
		Heritage: []*ts_ast.Node{extends},
		Members:  []*ts_ast.Node{b.property(0, "x", b.keyword(ts_ast.TypeNumber), b.Num(1))},
	}))
	expectTransformed(t, b, file, optionsFor(compat.ES2015), `class D extends Base {
    constructor() {
        super(...arguments);
        this.x = 1;
    }
}
`)
}

func TestUseDefineForClassFields(t *testing.T) {
	b := newBuilder()
	file := b.file(b.class(ts_ast.Class{
		Name:    b.Ident("C"),
		Members: []*ts_ast.Node{b.property(0, "x", b.keyword(ts_ast.TypeNumber), b.Num(1))},
	}))
	options := optionsFor(compat.ES2022)
	options.UseDefineForClassFields = true
	expectTransformed(t, b, file, options, "class C {\n    x = 1;\n}\n")
}

func TestClassAlias(t *testing.T) {
	b := newBuilder()
	factory := b.Make(&ts_ast.CMethod{
		Key: b.Ident("make"),
		Fn: ts_ast.Fn{
			Modifiers: ts_ast.ModifierStatic,
			Body:      b.Block(b.Return(b.Ident("C"))),
		},
	})
	file := b.file(b.class(ts_ast.Class{
		Decorators: []*ts_ast.Node{b.decorator("dec")},
		Name:       b.Ident("C"),
		Members:    []*ts_ast.Node{factory},
	}))
	result := expectTransformed(t, b, file, optionsFor(compat.ES2015), `var C_1;
let C = C_1 = class C {
    static make() {
        return C_1;
    }
};
C = C_1 = __decorate([dec], C);
`)
	require.Len(t, result.ClassAliases, 1)
}

func TestExportedDecoratedClass(t *testing.T) {
	b := newBuilder()
	file := b.module(b.class(ts_ast.Class{
		Decorators: []*ts_ast.Node{b.decorator("dec")},
		Modifiers:  ts_ast.ModifierExport,
		Name:       b.Ident("C"),
	}))
	expectTransformed(t, b, file, optionsFor(compat.ES2015), `let C = class C {
};
C = __decorate([dec], C);
export { C };
`)
}

func TestDecoratorMetadata(t *testing.T) {
	b := newBuilder()
	rest := b.Make(&ts_ast.Parameter{
		IsRest: true,
		Name:   b.Ident("rest"),
		Type:   b.Make(&ts_ast.TArray{Elem: b.keyword(ts_ast.TypeString)}),
	})
	greet := b.Make(&ts_ast.CMethod{
		Decorators: []*ts_ast.Node{b.decorator("method")},
		Key:        b.Ident("greet"),
		Fn: ts_ast.Fn{
			Params:     []*ts_ast.Node{b.param("a", b.keyword(ts_ast.TypeNumber)), rest},
			ReturnType: b.keyword(ts_ast.TypeBoolean),
			Body:       b.Block(b.Return(b.Boolean(true))),
		},
	})
	file := b.file(b.class(ts_ast.Class{
		Name: b.Ident("M"),
		Members: []*ts_ast.Node{
			b.property(0, "name", b.keyword(ts_ast.TypeString), nil, b.decorator("prop")),
			greet,
		},
	}))

	options := optionsFor(compat.ES2015)
	options.EmitDecoratorMetadata = true
	result := expectTransformed(t, b, file, options, `class M {
    greet(a, ...rest) {
        return true;
    }
}
__decorate([prop, __metadata("design:type", String)], M.prototype, "name", void 0);
__decorate([method, __metadata("design:type", Function), __metadata("design:paramtypes", [Number, String]), __metadata("design:returntype", Boolean)], M.prototype, "greet", null);
`)
	test.AssertDeepEqual(t, helperNames(result.Helpers), []string{"__decorate", "__metadata"})
}

func TestDecoratorMetadataUnknownType(t *testing.T) {
	b := newBuilder()
	file := b.file(b.class(ts_ast.Class{
		Name:    b.Ident("S"),
		Members: []*ts_ast.Node{b.property(0, "x", b.ref("Foo"), nil, b.decorator("d"))},
	}))
	options := optionsFor(compat.ES2015)
	options.EmitDecoratorMetadata = true
	expectTransformed(t, b, file, options, `var _a;
class S {
}
__decorate([d, __metadata("design:type", typeof (_a = typeof Foo !== "undefined" && Foo) === "function" ? _a : Object)], S.prototype, "x", void 0);
`)
}

func TestParameterDecorators(t *testing.T) {
	b := newBuilder()
	ctor := b.Make(&ts_ast.CConstructor{Fn: ts_ast.Fn{
		Params: []*ts_ast.Node{b.Make(&ts_ast.Parameter{
			Decorators: []*ts_ast.Node{b.decorator("inject")},
			Name:       b.Ident("dep"),
		})},
		Body: b.Block(),
	}})
	file := b.file(b.class(ts_ast.Class{Name: b.Ident("C"), Members: []*ts_ast.Node{ctor}}))
	result := expectTransformed(t, b, file, optionsFor(compat.ES2015), `let C = class C {
    constructor(dep) { }
};
C = __decorate([__param(0, inject)], C);
`)
	test.AssertDeepEqual(t, helperNames(result.Helpers), []string{"__decorate", "__param"})
}

func TestNoEmitHelpers(t *testing.T) {
	b := newBuilder()
	file := b.file(b.class(ts_ast.Class{Decorators: []*ts_ast.Node{b.decorator("dec")}, Name: b.Ident("C")}))
	options := optionsFor(compat.ES2015)
	options.NoEmitHelpers = true
	result := transformFile(b.Factory, file, options)
	require.Nil(t, result.Helpers)
}

func TestImportElision(t *testing.T) {
	b := newBuilder()
	specifier := func(name string) *ts_ast.Node {
		return b.Make(&ts_ast.ImportSpecifier{Name: b.Ident(name)})
	}
	clause := b.Make(&ts_ast.ImportClause{NamedBindings: b.Make(&ts_ast.NamedImports{
		Elements: []*ts_ast.Node{specifier("A"), specifier("B")},
	})})
	typesOnly := b.Make(&ts_ast.ImportClause{NamedBindings: b.Make(&ts_ast.NamedImports{
		Elements: []*ts_ast.Node{specifier("T")},
	})})
	file := b.module(
		b.Make(&ts_ast.SImport{ImportClause: clause, ModuleSpecifier: "./mod"}),
		b.Make(&ts_ast.SImport{ImportClause: typesOnly, ModuleSpecifier: "./types"}),
		b.Make(&ts_ast.SImport{ModuleSpecifier: "./side-effect"}),
		b.local(ts_ast.LocalLet, "x", b.ref("A"), b.New(b.Ident("B"))),
		b.local(ts_ast.LocalLet, "y", b.ref("T"), nil),
	)

	log := logger.NewDeferLog()
	options := optionsFor(compat.ES2015)
	result := Transform(log, &logger.Source{PrettyPath: "test.ts"}, b.Factory, file, ts_checker.NewChecker(file, options), options)
	test.AssertEqualWithDiff(t, printResult(result), `import { B } from "./mod";
import "./side-effect";
let x = new B();
let y;
`)

	var removed []string
	for _, msg := range log.Done() {
		if msg.ID == logger.MsgID_TS_UnusedImportElided {
			removed = append(removed, msg.Text)
		}
	}
	test.AssertDeepEqual(t, removed, []string{`Removed unused import of "./types"`})
}

func TestSerializeTypeNode(t *testing.T) {
	expect := func(options config.Options, build func(b builder) *ts_ast.Node, expected string) {
		t.Helper()
		b := newBuilder()
		tr := &transformer{
			f:          b.Factory,
			options:    options,
			resolver:   ts_checker.NewChecker(b.file(), options),
			sourceFile: b.file(),
		}
		tr.startLexicalEnvironment()
		serialized := tr.serializeTypeNode(build(b))
		test.AssertEqualWithDiff(t, ts_printer.PrintExpr(serialized, ts_printer.Options{}), expected)
	}
	es5 := config.DefaultOptions()
	es2020 := optionsFor(compat.ES2020)
	strict := optionsFor(compat.ES2020)
	strict.StrictNullChecks = true

	keyword := func(keyword ts_ast.TypeKeyword) func(b builder) *ts_ast.Node {
		return func(b builder) *ts_ast.Node { return b.keyword(keyword) }
	}
	stringOrNull := func(b builder) *ts_ast.Node {
		return b.Make(&ts_ast.TUnion{Types: []*ts_ast.Node{b.keyword(ts_ast.TypeString), b.keyword(ts_ast.TypeNull)}})
	}

	expect(es5, func(b builder) *ts_ast.Node { return nil }, "Object")
	expect(es5, keyword(ts_ast.TypeVoid), "void 0")
	expect(es5, keyword(ts_ast.TypeString), "String")
	expect(es5, keyword(ts_ast.TypeNumber), "Number")
	expect(es5, keyword(ts_ast.TypeBoolean), "Boolean")
	expect(es5, keyword(ts_ast.TypeAny), "Object")
	expect(es5, keyword(ts_ast.TypeBigInt), `typeof BigInt === "function" ? BigInt : Object`)
	expect(es2020, keyword(ts_ast.TypeBigInt), "BigInt")
	expect(es5, keyword(ts_ast.TypeSymbol), `typeof Symbol === "function" ? Symbol : Object`)
	expect(es2020, keyword(ts_ast.TypeSymbol), "Symbol")
	expect(es5, func(b builder) *ts_ast.Node { return b.Make(&ts_ast.TArray{Elem: b.keyword(ts_ast.TypeNumber)}) }, "Array")
	expect(es5, func(b builder) *ts_ast.Node { return b.Make(&ts_ast.TFunction{Return: b.keyword(ts_ast.TypeVoid)}) }, "Function")
	expect(es5, func(b builder) *ts_ast.Node { return b.Make(&ts_ast.TLiteral{Literal: b.Str("a")}) }, "String")
	expect(es5, func(b builder) *ts_ast.Node { return b.Make(&ts_ast.TLiteral{Literal: b.Null()}) }, "void 0")
	expect(es5, stringOrNull, "String")
	expect(strict, stringOrNull, "Object")
	expect(es5, func(b builder) *ts_ast.Node {
		return b.Make(&ts_ast.TUnion{Types: []*ts_ast.Node{b.keyword(ts_ast.TypeString), b.keyword(ts_ast.TypeNumber)}})
	}, "Object")
	expect(es5, func(b builder) *ts_ast.Node {
		return b.Make(&ts_ast.TParenthesized{Type: b.keyword(ts_ast.TypeNumber)})
	}, "Number")
	expect(es5, func(b builder) *ts_ast.Node { return b.ref("Date") }, "Date")
	expect(es5, func(b builder) *ts_ast.Node { return b.ref("Promise") }, "Promise")
	expect(es5, func(b builder) *ts_ast.Node { return b.ref("Missing") },
		`typeof (_a = typeof Missing !== "undefined" && Missing) === "function" ? _a : Object`)
	expect(es5, func(b builder) *ts_ast.Node {
		name := b.Make(&ts_ast.QualifiedName{
			Left:  b.Make(&ts_ast.QualifiedName{Left: b.Ident("A"), Right: b.Ident("B")}),
			Right: b.Ident("C"),
		})
		return b.Make(&ts_ast.TReference{TypeName: name})
	}, `typeof (_b = typeof A !== "undefined" && (_a = A.B) !== void 0 && _a.C) === "function" ? _b : Object`)
	expect(es5, func(b builder) *ts_ast.Node {
		cond := b.Make(&ts_ast.TConditional{
			Check:   b.ref("T"),
			Extends: b.keyword(ts_ast.TypeString),
			True:    b.ref("T"),
			False:   b.keyword(ts_ast.TypeNumber),
		})
		ts_ast.SetParentPointers(cond)
		return cond
	}, "Object")
}
