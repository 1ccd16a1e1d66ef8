package ts_printer

import (
	"testing"

	"github.com/evanw/tslower/internal/runtime"
	"github.com/evanw/tslower/internal/test"
	"github.com/evanw/tslower/internal/ts_ast"
)

func expectPrintedExpr(t *testing.T, expr *ts_ast.Node, expected string) {
	t.Helper()
	test.AssertEqualWithDiff(t, PrintExpr(expr, Options{}), expected)
}

func expectPrintedStmts(t *testing.T, options Options, stmts []*ts_ast.Node, expected string) {
	t.Helper()
	f := ts_ast.NewFactory()
	file := f.Make(&ts_ast.SourceFile{Stmts: stmts})
	test.AssertEqualWithDiff(t, string(Print(file, options).JS), expected)
}

func TestPrecedence(t *testing.T) {
	f := ts_ast.NewFactory()
	a, b, c := f.Ident("a"), f.Ident("b"), f.Ident("c")

	expectPrintedExpr(t, f.Binary(ts_ast.BinOpMul, f.Binary(ts_ast.BinOpAdd, a, b), c), "(a + b) * c")
	expectPrintedExpr(t, f.Binary(ts_ast.BinOpAdd, f.Binary(ts_ast.BinOpAdd, a, b), c), "a + b + c")
	expectPrintedExpr(t, f.Binary(ts_ast.BinOpAdd, a, f.Binary(ts_ast.BinOpAdd, b, c)), "a + (b + c)")
	expectPrintedExpr(t, f.Assign(a, f.Assign(b, c)), "a = b = c")
	expectPrintedExpr(t, f.Call(f.Ident("fn"), f.Comma(a, b)), "fn((a, b))")
	expectPrintedExpr(t, f.Binary(ts_ast.BinOpLogicalOr, f.Cond(a, b, c), f.Ident("d")), "(a ? b : c) || d")
	expectPrintedExpr(t, f.Binary(ts_ast.BinOpNullishCoalescing, f.Binary(ts_ast.BinOpLogicalOr, a, b), c), "(a || b) ?? c")
	expectPrintedExpr(t, f.Binary(ts_ast.BinOpLogicalOr, a, f.Paren(f.Assign(b, f.Object()))), "a || (b = {})")
	expectPrintedExpr(t, f.New(f.Call(a)), "new (a())()")
	expectPrintedExpr(t, f.Dot(f.Call(a), "b"), "a().b")
}

func TestUnaryAndNumbers(t *testing.T) {
	f := ts_ast.NewFactory()
	x := f.Ident("x")

	expectPrintedExpr(t, f.Unary(ts_ast.UnOpNeg, f.Unary(ts_ast.UnOpNeg, x)), "- -x")
	expectPrintedExpr(t, f.Unary(ts_ast.UnOpTypeof, x), "typeof x")
	expectPrintedExpr(t, f.Unary(ts_ast.UnOpPostInc, x), "x++")
	expectPrintedExpr(t, f.VoidZero(), "void 0")
	expectPrintedExpr(t, f.Binary(ts_ast.BinOpSub, x, f.Num(-1)), "x - -1")
	expectPrintedExpr(t, f.Dot(f.Num(1), "toString"), "1..toString")
	expectPrintedExpr(t, f.Dot(f.Num(1.5), "toFixed"), "1.5.toFixed")
	expectPrintedExpr(t, f.Dot(f.Num(-1), "x"), "(-1).x")
	expectPrintedExpr(t, f.Binary(ts_ast.BinOpPow, f.Unary(ts_ast.UnOpNeg, x), f.Num(2)), "(-x) ** 2")
	expectPrintedExpr(t, f.Str("a\"b"), "\"a\\\"b\"")
}

func TestFunctionsAndObjects(t *testing.T) {
	f := ts_ast.NewFactory()

	expectPrintedExpr(t, f.Make(&ts_ast.EArrow{Fn: ts_ast.Fn{Body: f.Object()}}), "() => ({})")
	expectPrintedExpr(t, f.Arrow([]*ts_ast.Node{f.Param(f.Ident("x"))}, f.Return(f.Ident("x"))), "(x) => {\n    return x;\n}")
	expectPrintedExpr(t, f.Object(f.PropertyAssignment(f.Ident("a"), f.Num(1)), f.PropertyAssignment(f.Str("b-c"), f.Num(2))), "{ a: 1, \"b-c\": 2 }")
	expectPrintedExpr(t, f.Array(f.Num(1), f.Make(&ts_ast.EOmitted{})), "[1, ,]")

	iife := f.ExprStmt(f.Call(f.FunctionExpr([]*ts_ast.Node{f.Param(f.Ident("N"))}, f.ExprStmt(f.Ident("N")))))
	expectPrintedStmts(t, Options{}, []*ts_ast.Node{iife}, "(function (N) {\n    N;\n})();\n")
	expectPrintedStmts(t, Options{}, []*ts_ast.Node{f.ExprStmt(f.Object())}, "({});\n")
}

func TestStatements(t *testing.T) {
	f := ts_ast.NewFactory()
	block := func(stmts ...*ts_ast.Node) *ts_ast.Node { return f.Block(stmts...) }
	expr := func(name string) *ts_ast.Node { return f.ExprStmt(f.Ident(name)) }

	ifStmt := f.Make(&ts_ast.SIf{
		Test: f.Ident("a"),
		Yes:  block(expr("b")),
		No: f.Make(&ts_ast.SIf{
			Test: f.Ident("c"),
			Yes:  block(expr("d")),
			No:   block(expr("e")),
		}),
	})
	expectPrintedStmts(t, Options{}, []*ts_ast.Node{ifStmt}, `if (a) {
    b;
}
else if (c) {
    d;
}
else {
    e;
}
`)

	i := f.Ident("i")
	forStmt := f.Make(&ts_ast.SFor{
		Init:   f.Local(ts_ast.LocalLet, f.VarDecl(i, f.Num(0))),
		Test:   f.Binary(ts_ast.BinOpLt, i, f.Ident("n")),
		Update: f.Unary(ts_ast.UnOpPostInc, i),
		Body:   block(f.ExprStmt(f.Call(f.Ident("f"), i))),
	})
	local := f.Local(ts_ast.LocalLet, f.VarDecl(f.Ident("x"), f.Num(1)), f.VarDecl(f.Ident("y"), nil))
	expectPrintedStmts(t, Options{}, []*ts_ast.Node{forStmt, local}, `for (let i = 0; i < n; i++) {
    f(i);
}
let x = 1, y;
`)

	switchStmt := f.Make(&ts_ast.SSwitch{
		Test: f.Ident("x"),
		CaseBlock: f.Make(&ts_ast.CaseBlock{Clauses: []*ts_ast.Node{
			f.Make(&ts_ast.CaseClause{Test: f.Num(1), Body: []*ts_ast.Node{f.Make(&ts_ast.SBreak{})}}),
			f.Make(&ts_ast.CaseClause{Body: []*ts_ast.Node{f.Return(nil)}}),
		}}),
	})
	expectPrintedStmts(t, Options{}, []*ts_ast.Node{switchStmt}, `switch (x) {
    case 1:
        break;
    default:
        return;
}
`)

	tryStmt := f.Make(&ts_ast.STry{
		Block:   block(expr("a")),
		Catch:   f.Make(&ts_ast.CatchClause{VariableDeclaration: f.VarDecl(f.Ident("e"), nil), Block: block()}),
		Finally: block(expr("b")),
	})
	expectPrintedStmts(t, Options{}, []*ts_ast.Node{tryStmt}, `try {
    a;
}
catch (e) { }
finally {
    b;
}
`)
}

func TestClasses(t *testing.T) {
	f := ts_ast.NewFactory()
	x := f.Ident("x")
	class := f.Make(&ts_ast.SClass{Class: ts_ast.Class{
		Name: f.Ident("A"),
		Heritage: []*ts_ast.Node{f.Make(&ts_ast.HeritageClause{Types: []*ts_ast.Node{
			f.Make(&ts_ast.ExpressionWithTypeArguments{Value: f.Ident("B")}),
		}})},
		Members: []*ts_ast.Node{
			f.Make(&ts_ast.CConstructor{Fn: ts_ast.Fn{
				Params: []*ts_ast.Node{f.Param(x)},
				Body:   f.Block(f.ExprStmt(f.Call(f.Super(), x))),
			}}),
			f.Make(&ts_ast.CMethod{Key: f.Ident("m"), Fn: ts_ast.Fn{Modifiers: ts_ast.ModifierStatic, Body: f.Block()}}),
			f.Make(&ts_ast.CGetAccessor{Key: f.Str("v"), Fn: ts_ast.Fn{Body: f.Block(f.Return(f.Num(1)))}}),
			f.Make(&ts_ast.CProperty{Key: f.Ident("p"), Initializer: f.Num(2)}),
		},
	}})
	expectPrintedStmts(t, Options{}, []*ts_ast.Node{class}, `class A extends B {
    constructor(x) {
        super(x);
    }
    static m() { }
    get "v"() {
        return 1;
    }
    p = 2;
}
`)

	fn := f.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{
		Modifiers:   ts_ast.ModifierExport | ts_ast.ModifierAsync,
		Name:        f.Ident("go"),
		IsGenerator: true,
		Body:        f.Block(),
	}})
	expectPrintedStmts(t, Options{}, []*ts_ast.Node{fn}, "export async function* go() { }\n")
}

func TestModules(t *testing.T) {
	f := ts_ast.NewFactory()
	from := "m"
	stmts := []*ts_ast.Node{
		f.Make(&ts_ast.SImport{
			ImportClause: f.Make(&ts_ast.ImportClause{
				Name: f.Ident("d"),
				NamedBindings: f.Make(&ts_ast.NamedImports{Elements: []*ts_ast.Node{
					f.Make(&ts_ast.ImportSpecifier{Name: f.Ident("a")}),
					f.Make(&ts_ast.ImportSpecifier{PropertyName: f.Ident("b"), Name: f.Ident("c")}),
				}}),
			}),
			ModuleSpecifier: "m",
		}),
		f.Make(&ts_ast.SImport{ModuleSpecifier: "side"}),
		f.Make(&ts_ast.SImportEquals{Name: f.Ident("fs"), ModuleReference: f.Make(&ts_ast.ExternalModuleReference{Path: "fs"})}),
		f.Make(&ts_ast.SExport{ExportClause: f.Make(&ts_ast.NamedExports{Elements: []*ts_ast.Node{
			f.Make(&ts_ast.ExportSpecifier{Name: f.Ident("a")}),
		}}), ModuleSpecifier: &from}),
		f.Make(&ts_ast.SExportAssignment{Value: f.FunctionExpr(nil)}),
	}
	expectPrintedStmts(t, Options{}, stmts, `import d, { a, b as c } from "m";
import "side";
import fs = require("fs");
export { a } from "m";
export default (function () { });
`)
}

func TestComments(t *testing.T) {
	f := ts_ast.NewFactory()
	value := f.Num(0)
	value.Comments = &ts_ast.Comments{Trailing: []ts_ast.Comment{{Text: " A ", IsMultiLine: true}}}
	expectPrintedExpr(t, f.Call(f.Dot(value, "toString")), "0 /* A */.toString()")

	stmt := f.ExprStmt(f.Ident("x"))
	stmt.Comments = &ts_ast.Comments{Leading: []ts_ast.Comment{{Text: " hello"}}}
	notEmitted := f.NotEmitted(f.ExprStmt(f.Ident("gone")))
	notEmitted.Comments = &ts_ast.Comments{Leading: []ts_ast.Comment{{Text: " kept"}}}
	stmts := []*ts_ast.Node{stmt, notEmitted, f.MergeMarker(nil), f.EndOfDeclaration(nil)}

	expectPrintedStmts(t, Options{}, stmts, "// hello\nx;\n// kept\n")
	expectPrintedStmts(t, Options{RemoveComments: true}, stmts, "x;\n")
}

func TestHelpersFollowDirectives(t *testing.T) {
	f := ts_ast.NewFactory()
	stmts := []*ts_ast.Node{
		f.Make(&ts_ast.SDirective{Value: "use strict"}),
		f.ExprStmt(f.Ident("x")),
	}
	options := Options{Helpers: []*runtime.Helper{runtime.Param, runtime.Decorate, runtime.Param}}
	expectPrintedStmts(t, options, stmts, "\"use strict\";\n"+
		runtime.Decorate.Text+"\n"+
		runtime.Param.Text+"\n"+
		"x;\n")
}

type fakeHooks struct {
	f           *ts_ast.Factory
	inContainer int
	substituted int
}

func (h *fakeHooks) IsSubstitutionEnabled(kind ts_ast.Kind) bool {
	return kind == ts_ast.KindIdentifier || kind == ts_ast.KindShorthandPropertyAssignment
}

func (h *fakeHooks) OnSubstituteNode(node *ts_ast.Node) *ts_ast.Node {
	if h.inContainer == 0 {
		return node
	}
	switch d := node.Data.(type) {
	case *ts_ast.EIdentifier:
		if d.Name == "a" {
			h.substituted++
			return h.f.Dot(h.f.Ident("N"), "a")
		}
	case *ts_ast.ShorthandPropertyAssignment:
		if ts_ast.IsIdentifierNamed(d.Name, "a") {
			return h.f.PropertyAssignment(h.f.Ident("a"), h.f.Dot(h.f.Ident("N"), "a"))
		}
	}
	return node
}

func (h *fakeHooks) IsEmitNotificationEnabled(kind ts_ast.Kind) bool {
	return kind == ts_ast.KindModuleDeclaration
}

func (h *fakeHooks) OnEmitNode(node *ts_ast.Node, emit func(*ts_ast.Node)) {
	h.inContainer++
	emit(node)
	h.inContainer--
}

func TestSubstitutionHooks(t *testing.T) {
	f := ts_ast.NewFactory()
	hooks := &fakeHooks{f: f}
	namespace := f.Make(&ts_ast.SNamespace{Name: f.Ident("N"), Body: f.Make(&ts_ast.ModuleBlock{})})

	inside := f.ExprStmt(f.Comma(
		f.Dot(f.Ident("a"), "a"),
		f.Object(f.Make(&ts_ast.ShorthandPropertyAssignment{Name: f.Ident("a")})),
	))
	inside.EmitFlags |= ts_ast.EmitAdviseOnEmitNode
	inside.Original = namespace

	protected := f.ExprStmt(f.CloneIdent(f.Ident("a"), ts_ast.EmitNoSubstitution))
	protected.EmitFlags |= ts_ast.EmitAdviseOnEmitNode
	protected.Original = namespace

	outside := f.ExprStmt(f.Ident("a"))

	expectPrintedStmts(t, Options{Hooks: hooks}, []*ts_ast.Node{inside, protected, outside}, `N.a.a, { a: N.a };
a;
a;
`)
	test.AssertEqual(t, hooks.substituted, 1)
	test.AssertEqual(t, hooks.inContainer, 0)
}

func TestTypeNodesPanic(t *testing.T) {
	f := ts_ast.NewFactory()
	defer func() {
		if recover() == nil {
			t.Fatal("Expected a panic")
		}
	}()
	PrintStmt(f.Make(&ts_ast.STypeAlias{Name: f.Ident("T"), Type: f.Make(&ts_ast.TKeyword{Keyword: ts_ast.TypeNumber})}), Options{})
}
