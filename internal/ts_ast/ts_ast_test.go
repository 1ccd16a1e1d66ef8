package ts_ast

import (
	"testing"

	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/test"
)

func TestTransformFlagsPropagate(t *testing.T) {
	f := NewFactory()
	plain := f.ExprStmt(f.Binary(BinOpAdd, f.Ident("a"), f.Num(1)))
	test.AssertEqual(t, plain.TransformFlags.Has(ContainsTypeScript), false)

	asserted := f.NewNode(&EAs{Value: f.Ident("a"), Type: f.NewNode(&TKeyword{Keyword: TypeNumber}, logger.NoRange)}, logger.NoRange)
	stmt := f.ExprStmt(f.Binary(BinOpAdd, asserted, f.Num(1)))
	test.AssertEqual(t, stmt.TransformFlags.Has(ContainsTypeScript), true)

	param := f.NewNode(&Parameter{Modifiers: ModifierPrivate, Name: f.Ident("x")}, logger.NoRange)
	test.AssertEqual(t, param.TransformFlags.Has(ContainsParameterPropertyAssignments), true)
	test.AssertEqual(t, param.TransformFlags.Has(ContainsTypeScript), true)
}

func TestTransformFlagsStopAtNestedClass(t *testing.T) {
	f := NewFactory()
	prop := f.NewNode(&CProperty{Key: f.Ident("x"), Initializer: f.Num(1)}, logger.NoRange)
	inner := f.NewNode(&EClass{Class: Class{Members: []*Node{prop}}}, logger.NoRange)
	test.AssertEqual(t, inner.TransformFlags.Has(ContainsTypeScriptClassSyntax), true)

	method := f.NewNode(&CMethod{Key: f.Ident("m"), Fn: Fn{Body: f.Block(f.Return(inner))}}, logger.NoRange)
	test.AssertEqual(t, method.TransformFlags.Has(ContainsTypeScriptClassSyntax), false)
	test.AssertEqual(t, method.TransformFlags.Has(ContainsTypeScript), true)
}

func TestLocalKindIsNotNodeKind(t *testing.T) {
	f := NewFactory()
	local := f.Local(LocalConst, f.VarDecl(f.Ident("x"), f.Num(1)))
	test.AssertEqual(t, local.Kind(), KindVariableStatement)
	test.AssertEqual(t, local.Data.(*SLocal).LocalKind, LocalConst)

	declared := f.NewNode(&SLocal{Modifiers: ModifierDeclare, LocalKind: LocalLet}, logger.NoRange)
	test.AssertEqual(t, declared.TransformFlags.Has(ContainsTypeScript), true)
}

func TestVisitEachChildKeepsIdentity(t *testing.T) {
	f := NewFactory()
	call := f.Call(f.Ident("f"), f.Ident("a"), f.Ident("b"))
	same := f.VisitEachChild(call, func(n *Node) *Node { return n })
	if same != call {
		t.Fatal("Expected the same node when nothing changed")
	}

	renamed := f.VisitEachChild(call, func(n *Node) *Node {
		if IsIdentifierNamed(n, "a") {
			return f.Ident("x")
		}
		return n
	})
	if renamed == call {
		t.Fatal("Expected a new node")
	}
	test.AssertEqual(t, renamed.Original, call)
	test.AssertEqual(t, IdentifierText(renamed.Data.(*ECall).Args[0]), "x")
	test.AssertEqual(t, IdentifierText(call.Data.(*ECall).Args[0]), "a")
}

func TestVisitNodesSplicesLists(t *testing.T) {
	f := NewFactory()
	a, b, c := f.ExprStmt(f.Ident("a")), f.ExprStmt(f.Ident("b")), f.ExprStmt(f.Ident("c"))
	result := VisitNodes([]*Node{a, b, c}, func(n *Node) *Node {
		switch n {
		case a:
			return nil
		case b:
			return f.List(b, f.ExprStmt(f.Ident("b2")))
		}
		return n
	})
	test.AssertEqual(t, len(result), 3)
	test.AssertEqual(t, result[0], b)
	test.AssertEqual(t, IdentifierText(result[1].Data.(*SExpr).Value), "b2")
	test.AssertEqual(t, result[2], c)
}

func TestVisitNodePanicsOnList(t *testing.T) {
	f := NewFactory()
	defer func() {
		if recover() == nil {
			t.Fatal("Expected a panic")
		}
	}()
	VisitNode(f.Ident("a"), func(n *Node) *Node { return f.List(n, n) })
}

func TestSetParentPointers(t *testing.T) {
	f := NewFactory()
	id := f.Ident("a")
	stmt := f.ExprStmt(id)
	file := f.NewNode(&SourceFile{Stmts: []*Node{stmt}}, logger.NoRange)
	SetParentPointers(file)
	test.AssertEqual(t, id.Parent, stmt)
	test.AssertEqual(t, stmt.Parent, file)
}

func TestGeneratedNames(t *testing.T) {
	f := NewFactory()
	f.ReserveNames(f.ExprStmt(f.Comma(f.Ident("_a"), f.Ident("C_1"))))
	test.AssertEqual(t, f.TempName(), "_b")
	test.AssertEqual(t, f.TempName(), "_c")
	test.AssertEqual(t, f.UniqueName("C"), "C_2")
	test.AssertEqual(t, f.UniqueName("C"), "C_3")

	for i := 0; i < 5; i++ {
		f.TempName()
	}
	test.AssertEqual(t, f.TempName(), "_j")
}

func TestNumberToString(t *testing.T) {
	expect := func(value float64, expected string) {
		t.Helper()
		test.AssertEqual(t, NumberToString(value), expected)
	}
	expect(0, "0")
	expect(1, "1")
	expect(-1.5, "-1.5")
	expect(0.1, "0.1")
	expect(0.000001, "0.000001")
	expect(0.0000001, "1e-7")
	expect(123456789012, "123456789012")
	expect(1e21, "1e+21")
	expect(1.5e300, "1.5e+300")
}

func TestToInt32(t *testing.T) {
	test.AssertEqual(t, ToInt32(4294967296+5), int32(5))
	test.AssertEqual(t, ToInt32(-1), int32(-1))
	test.AssertEqual(t, ToUint32(-1), uint32(4294967295))
	test.AssertEqual(t, ToInt32(2147483648), int32(-2147483648))
}
