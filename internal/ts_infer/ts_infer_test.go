package ts_infer

import (
	"context"
	"testing"
	"time"

	"github.com/evanw/tslower/internal/config"
	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/test"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
	"github.com/evanw/tslower/internal/ts_types"
	"github.com/stretchr/testify/assert"
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

func (b builder) param(name string) *ts_ast.Node {
	return b.Make(&ts_ast.Parameter{Name: b.Ident(name)})
}

func (b builder) function(name string, params []*ts_ast.Node, stmts ...*ts_ast.Node) *ts_ast.Node {
	return b.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{Name: b.Ident(name), Params: params, Body: b.Block(stmts...)}})
}

func (b builder) call(target string, args ...*ts_ast.Node) *ts_ast.Node {
	return b.ExprStmt(b.Call(b.Ident(target), args...))
}

func newTestInferrer(file *ts_ast.Node) (*Inferrer, logger.Log) {
	log := logger.NewDeferLog()
	checker := ts_checker.NewChecker(file, config.DefaultOptions())
	return NewInferrer(log, &logger.Source{PrettyPath: "test.ts"}, checker), log
}

// Infers the type of "x" in "function f(x) { <body> }"
func expectParameterType(t *testing.T, body func(b builder) []*ts_ast.Node, expected string) {
	t.Helper()
	b := newBuilder()
	fn := b.function("f", []*ts_ast.Node{b.param("x")}, body(b)...)
	in, _ := newTestInferrer(b.file(fn))
	params, err := in.Parameters(context.Background(), fn)
	require.NoError(t, err)
	require.Len(t, params, 1)
	test.AssertEqual(t, TypeToString(params[0].Type), expected)
}

func TestArithmeticEvidence(t *testing.T) {
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpAdd, b.Ident("x"), b.Num(1)))}
	}, "number")
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpMul, b.Ident("x"), b.Num(2)))}
	}, "number")
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpAdd, b.Ident("x"), b.Str("s")))}
	}, "string")
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Unary(ts_ast.UnOpPos, b.Ident("x")))}
	}, "string | number")
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.ExprStmt(b.Unary(ts_ast.UnOpPostInc, b.Ident("x")))}
	}, "number")
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpLt, b.Num(0), b.Ident("x")))}
	}, "number")

	// An operand of unknown type says nothing
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpAdd, b.Ident("x"), b.Ident("y")))}
	}, "any")

	// "string" and "number" each beat "string | number"
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{
			b.ExprStmt(b.Unary(ts_ast.UnOpPos, b.Ident("x"))),
			b.Return(b.Binary(ts_ast.BinOpAdd, b.Ident("x"), b.Num(1))),
		}
	}, "number")
}

func TestComparisonEvidence(t *testing.T) {
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpStrictEq, b.Ident("x"), b.Boolean(true)))}
	}, "boolean")
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpIn, b.Ident("x"), b.Ident("o")))}
	}, "string")
}

func TestStructuralEvidence(t *testing.T) {
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{
			b.ExprStmt(b.Call(b.Dot(b.Ident("x"), "foo"))),
			b.ExprStmt(b.Assign(b.Dot(b.Ident("x"), "bar"), b.Num(1))),
		}
	}, "{ bar: number; foo: () => void; }")

	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.ExprStmt(b.Assign(b.Index(b.Ident("x"), b.Str("k")), b.Num(1)))}
	}, "{ [x: string]: number; }")

	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpAdd, b.Index(b.Ident("x"), b.Num(0)), b.Num(1)))}
	}, "number[]")

	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.ExprStmt(b.Call(b.Ident("x"), b.Num(1), b.Str("a")))}
	}, "(arg0: number, arg1: string) => void")
}

func TestBuiltinEvidence(t *testing.T) {
	// Both "string" and "any[]" have a numeric "length"
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Binary(ts_ast.BinOpAdd, b.Dot(b.Ident("x"), "length"), b.Num(1)))}
	}, "string | any[]")

	// The element type comes from the arguments of "push"
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.ExprStmt(b.Call(b.Dot(b.Ident("x"), "push"), b.Num(1)))}
	}, "number[]")
}

func TestBuiltinEvidenceFinishes(t *testing.T) {
	b := newBuilder()
	length := b.Binary(ts_ast.BinOpAdd, b.Dot(b.Ident("x"), "length"), b.Num(1))
	fn := b.function("f", []*ts_ast.Node{b.param("x")}, b.Return(length))
	in, _ := newTestInferrer(b.file(fn))

	var params []ParameterInference
	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		params, err = in.Parameters(context.Background(), fn)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Matching against the builtin types did not finish")
	}

	require.NoError(t, err)
	require.Len(t, params, 1)
	test.AssertEqual(t, TypeToString(params[0].Type), "string | any[]")
}

// "toString" is a member of "string", "number" and "any[]"
func TestAmbiguousBuiltinEvidence(t *testing.T) {
	b := newBuilder()
	fn := b.function("f", []*ts_ast.Node{b.param("x")}, b.ExprStmt(b.Call(b.Dot(b.Ident("x"), "toString"))))
	in, log := newTestInferrer(b.file(fn))
	params, err := in.Parameters(context.Background(), fn)
	require.NoError(t, err)
	require.Len(t, params, 1)
	test.AssertEqual(t, TypeToString(params[0].Type), "{ toString: () => void; }")

	var ids []logger.MsgID
	for _, msg := range log.Done() {
		ids = append(ids, msg.ID)
	}
	assert.Contains(t, ids, logger.MsgID_Infer_AmbiguousBuiltin)
}

func TestInferTypeParametersFromSignatures(t *testing.T) {
	tp := &ts_types.TypeParameter{Name: "T"}
	generic := ts_types.NewFunctionType(&ts_types.Signature{
		Params: []*ts_types.Param{{Name: "items", Type: ts_types.CreateArrayType(tp), IsRest: true}},
		Return: ts_types.Number,
	})
	usage := ts_types.NewFunctionType(&ts_types.Signature{
		Params: []*ts_types.Param{{Name: "arg0", Type: ts_types.String}},
		Return: ts_types.Void,
	})
	test.AssertDeepEqual(t, inferTypeParameters(generic, usage, tp), []ts_types.Type{ts_types.String})

	// Overloads on either side say nothing about "T"
	overloaded := &ts_types.ObjectType{CallSignatures: []*ts_types.Signature{
		{Params: []*ts_types.Param{{Name: "value", Type: tp}}, Return: ts_types.Void},
		{Params: []*ts_types.Param{{Name: "value", Type: tp}, {Name: "index", Type: ts_types.Number}}, Return: ts_types.Void},
	}}
	assert.Empty(t, inferTypeParameters(overloaded, usage, tp))
	assert.Empty(t, inferTypeParameters(generic, overloaded, tp))
}

func TestContextualAnyIsNoEvidence(t *testing.T) {
	expectParameterType(t, func(b builder) []*ts_ast.Node {
		return []*ts_ast.Node{b.Return(b.Call(b.Ident("String"), b.Ident("x")))}
	}, "any")
}

func TestParametersFromCallSites(t *testing.T) {
	b := newBuilder()
	rest := b.Make(&ts_ast.Parameter{IsRest: true, Name: b.Ident("rest")})
	fn := b.function("k", []*ts_ast.Node{b.param("a"), b.param("b"), rest})
	file := b.file(
		fn,
		b.call("k", b.Num(1), b.Str("s"), b.Boolean(true), b.Num(2)),
		b.call("k", b.Num(2)),
	)
	in, _ := newTestInferrer(file)
	params, err := in.Parameters(context.Background(), fn)
	require.NoError(t, err)
	require.Len(t, params, 3)

	test.AssertEqual(t, TypeToString(params[0].Type), "number")
	test.AssertEqual(t, params[0].IsOptional, false)
	test.AssertEqual(t, TypeToString(params[1].Type), "string | undefined")
	test.AssertEqual(t, params[1].IsOptional, true)
	test.AssertEqual(t, TypeToString(params[2].Type), "(number | boolean | undefined)[]")
	test.AssertEqual(t, params[2].IsOptional, false)
	test.AssertEqual(t, params[2].Declaration, rest)
}

func TestThisParameter(t *testing.T) {
	b := newBuilder()
	fn := b.function("run", nil)
	object := b.Object(b.PropertyAssignment(b.Ident("run"), b.Ident("run")))
	file := b.file(fn, b.Local(ts_ast.LocalConst, b.VarDecl(b.Ident("o"), object)))
	in, _ := newTestInferrer(file)
	this, err := in.ThisParameter(context.Background(), fn)
	require.NoError(t, err)
	require.NotNil(t, ts_types.PropertyOfType(this, "run"))
}

func TestVariableWithoutReferences(t *testing.T) {
	b := newBuilder()
	decl := b.VarDecl(b.Ident("unused"), nil)
	in, log := newTestInferrer(b.file(b.Local(ts_ast.LocalLet, decl)))
	result, err := in.Variable(context.Background(), ts_ast.NameOf(decl))
	require.NoError(t, err)
	test.AssertEqual(t, result, ts_types.Type(ts_types.Any))

	msgs := log.Done()
	require.Len(t, msgs, 1)
	test.AssertEqual(t, msgs[0].ID, logger.MsgID_Infer_FallbackToAny)
}

func TestVariableAssignments(t *testing.T) {
	b := newBuilder()
	decl := b.VarDecl(b.Ident("v"), nil)
	file := b.file(
		b.Local(ts_ast.LocalLet, decl),
		b.ExprStmt(b.Assign(b.Ident("v"), b.Str("a"))),
		b.ExprStmt(b.Assign(b.Ident("v"), b.Binary(ts_ast.BinOpLogicalOr, b.Ident("v"), b.Str("b")))),
	)
	in, _ := newTestInferrer(file)
	result, err := in.Variable(context.Background(), ts_ast.NameOf(decl))
	require.NoError(t, err)
	test.AssertEqual(t, TypeToString(result), "string")
}

func TestCancellation(t *testing.T) {
	b := newBuilder()
	fn := b.function("f", []*ts_ast.Node{b.param("x")},
		b.Return(b.Binary(ts_ast.BinOpMul, b.Ident("x"), b.Num(2))))
	in, log := newTestInferrer(b.file(fn))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := in.Parameters(ctx, fn)
	require.ErrorIs(t, err, context.Canceled)

	var ids []logger.MsgID
	for _, msg := range log.Done() {
		ids = append(ids, msg.ID)
	}
	assert.Contains(t, ids, logger.MsgID_Infer_Cancelled)
}

func TestMergeIsCommutative(t *testing.T) {
	b := newBuilder()
	x := func() *ts_ast.Node { return b.Ident("x") }
	fn := b.function("f", []*ts_ast.Node{b.param("x")},
		b.ExprStmt(b.Call(b.Dot(x(), "foo"), b.Num(1))),
		b.ExprStmt(b.Call(b.Dot(x(), "foo"), b.Str("a"), b.Num(2))),
		b.ExprStmt(b.Assign(b.Dot(x(), "bar"), b.Boolean(true))),
		b.ExprStmt(b.Binary(ts_ast.BinOpMul, x(), b.Num(2))),
		b.ExprStmt(b.Index(x(), b.Num(0))),
		b.ExprStmt(b.Index(x(), b.Str("k"))),
		b.ExprStmt(b.Unary(ts_ast.UnOpPos, x())),
		b.ExprStmt(b.New(x())),
	)
	file := b.file(fn)
	in, _ := newTestInferrer(file)
	refs := in.checker.References(fn.Data.(*ts_ast.SFunction).Fn.Params[0].Data.(*ts_ast.Parameter).Name)
	require.Len(t, refs, 8)

	usages := make([]*Usage, len(refs))
	for i, ref := range refs {
		usages[i] = &Usage{}
		in.collectUsage(ref, usages[i])
	}

	for i := range usages {
		for j := range usages {
			ab := in.Resolve(MergeUsages(usages[i], usages[j]))
			ba := in.Resolve(MergeUsages(usages[j], usages[i]))
			assert.True(t, ab.Equals(ba), "%d and %d: %s != %s", i, j, ab, ba)
		}
	}

	reversed := make([]*Usage, len(usages))
	for i, u := range usages {
		reversed[len(usages)-1-i] = u
	}
	forward := in.Resolve(MergeUsages(usages...))
	backward := in.Resolve(MergeUsages(reversed...))
	test.AssertEqual(t, forward.String(), backward.String())
}

func TestCombineTypesIsTotal(t *testing.T) {
	anon := ts_types.NewObjectType(&ts_types.Property{Name: "a", Type: ts_types.Number})
	pool := []ts_types.Type{
		ts_types.Any,
		ts_types.Void,
		ts_types.String,
		ts_types.Number,
		ts_types.Boolean,
		ts_types.Null,
		ts_types.Undefined,
		ts_types.NewUnionType(ts_types.String, ts_types.Number),
		ts_types.NewNumberLiteral(1),
		ts_types.CreateArrayType(ts_types.Number),
		&ts_types.EnumType{Name: "E"},
		anon,
		ts_types.NewObjectType(&ts_types.Property{Name: "b", Type: ts_types.String}),
	}

	check := func(candidates []ts_types.Type) {
		result := CombineTypes(candidates)
		require.NotNil(t, result)
		require.NotEqual(t, ts_types.Type(ts_types.Never), result, "%v", candidates)
		if ts_types.IsAny(result) {
			for _, c := range candidates {
				assert.True(t, ts_types.IsAnyOrVoid(c), "%v combined to any", candidates)
			}
		}
	}
	for i := range pool {
		check([]ts_types.Type{pool[i]})
		for j := range pool {
			check([]ts_types.Type{pool[i], pool[j]})
			for k := range pool {
				check([]ts_types.Type{pool[i], pool[j], pool[k]})
			}
		}
	}

	test.AssertEqual(t, CombineTypes(nil), ts_types.Type(ts_types.Any))
}

func TestCombineTypesPriorities(t *testing.T) {
	stringOrNumber := ts_types.NewUnionType(ts_types.String, ts_types.Number)
	anonA := ts_types.NewObjectType(&ts_types.Property{Name: "a", Type: ts_types.Number})
	anonB := ts_types.NewObjectType(&ts_types.Property{Name: "b", Type: ts_types.String})

	expect := func(expected string, candidates ...ts_types.Type) {
		t.Helper()
		test.AssertEqual(t, TypeToString(CombineTypes(candidates)), expected)
	}
	expect("number", ts_types.Number, stringOrNumber)
	expect("string | number", stringOrNumber, ts_types.Void)
	expect("void", ts_types.Void)
	expect("number", ts_types.Any, ts_types.NewNumberLiteral(3))
	expect("number", anonA, ts_types.Number)
	expect("{ a?: number; b?: string; }", anonA, anonB)
	expect("{ a: number; } | null", anonA, ts_types.Null)
}

func TestTypeToString(t *testing.T) {
	test.AssertEqual(t, TypeToString(nil), "any")
	test.AssertEqual(t, TypeToString(ts_types.CreateArrayType(ts_types.NewUnionType(ts_types.String, ts_types.Number))), "(string | number)[]")
}
