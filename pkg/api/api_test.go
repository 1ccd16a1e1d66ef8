package api_test

import (
	"context"
	"strings"
	"testing"

	"github.com/evanw/tslower/internal/test"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/pkg/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enumFile() api.File {
	f := api.NewFactory()
	member := func(name string, init *ts_ast.Node) *ts_ast.Node {
		return f.Make(&ts_ast.EnumMember{Name: f.Ident(name), Initializer: init})
	}
	enum := f.Make(&ts_ast.SEnum{Name: f.Ident("E"), Members: []*ts_ast.Node{
		member("A", nil),
		member("B", f.Num(4)),
	}})
	return api.File{Factory: f, Root: f.Make(&ts_ast.SourceFile{FileName: "enum.ts", Stmts: []*ts_ast.Node{enum}}), Path: "enum.ts"}
}

func classFile(decorated bool) api.File {
	f := api.NewFactory()
	var decorators []*ts_ast.Node
	if decorated {
		decorators = []*ts_ast.Node{f.Make(&ts_ast.Decorator{Value: f.Ident("dec")})}
	}
	property := f.Make(&ts_ast.CProperty{Key: f.Ident("x"), Initializer: f.Num(1)})
	class := f.Make(&ts_ast.SClass{Class: ts_ast.Class{Decorators: decorators, Name: f.Ident("C"), Members: []*ts_ast.Node{property}}})
	return api.File{Factory: f, Root: f.Make(&ts_ast.SourceFile{FileName: "class.ts", Stmts: []*ts_ast.Node{class}})}
}

func importFile() api.File {
	f := api.NewFactory()
	clause := f.Make(&ts_ast.ImportClause{NamedBindings: f.Make(&ts_ast.NamedImports{
		Elements: []*ts_ast.Node{f.Make(&ts_ast.ImportSpecifier{Name: f.Ident("A")})},
	})})
	stmts := []*ts_ast.Node{
		f.Make(&ts_ast.SImport{ImportClause: clause, ModuleSpecifier: "./a"}),
		f.ExprStmt(f.Call(f.Ident("A"))),
	}
	return api.File{Factory: f, Root: f.Make(&ts_ast.SourceFile{FileName: "import.ts", Stmts: stmts, IsExternalModule: true})}
}

func TestTransformEnum(t *testing.T) {
	result, err := api.Transform(enumFile(), nil, api.TransformOptions{})
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	test.AssertEqualWithDiff(t, string(result.Code), `var E;
(function (E) {
    E[E["A"] = 0] = "A";
    E[E["B"] = 4] = "B";
})(E || (E = {}));
`)
	require.Empty(t, result.Helpers)
}

func TestTransformDecoratedClass(t *testing.T) {
	result, err := api.Transform(classFile(true), nil, api.TransformOptions{})
	require.NoError(t, err)
	test.AssertDeepEqual(t, result.Helpers, []string{"__decorate"})

	code := string(result.Code)
	helper := strings.Index(code, "var __decorate = ")
	class := strings.Index(code, "let C = ")
	require.NotEqual(t, -1, helper)
	require.NotEqual(t, -1, class)
	assert.Less(t, helper, class)
	assert.Contains(t, code, "C = __decorate([dec], C);\n")

	result, err = api.Transform(classFile(true), nil, api.TransformOptions{NoEmitHelpers: true})
	require.NoError(t, err)
	assert.Empty(t, result.Helpers)
	assert.NotContains(t, string(result.Code), "var __decorate")
}

func TestTransformTsconfig(t *testing.T) {
	result, err := api.Transform(classFile(false), nil, api.TransformOptions{
		TsconfigRaw: `{"compilerOptions": {"target": "ES2022"}}`,
	})
	require.NoError(t, err)
	test.AssertEqualWithDiff(t, string(result.Code), "class C {\n    x = 1;\n}\n")

	// Fields override the file
	result, err = api.Transform(classFile(false), nil, api.TransformOptions{
		TsconfigRaw: "compilerOptions:\n  target: es2015\n",
		Target:      api.ES2022,
	})
	require.NoError(t, err)
	test.AssertEqualWithDiff(t, string(result.Code), "class C {\n    constructor() {\n        this.x = 1;\n    }\n}\n")

	result, err = api.Transform(classFile(false), nil, api.TransformOptions{
		Target: api.ES2022,
	})
	require.NoError(t, err)
	test.AssertEqualWithDiff(t, string(result.Code), "class C {\n    x = 1;\n}\n")
}

func TestTransformTsconfigTypo(t *testing.T) {
	result, err := api.Transform(enumFile(), nil, api.TransformOptions{
		TsconfigRaw: `{"compilerOptions": {"taget": "es2015"}}`,
	})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	test.AssertEqual(t, result.Warnings[0].ID, "unknown-option")
	test.AssertEqual(t, result.Warnings[0].Text, `Unknown compiler option "taget" (did you mean "target"?)`)
}

func TestTransformInvalidTsconfig(t *testing.T) {
	result, err := api.Transform(enumFile(), nil, api.TransformOptions{
		TsconfigRaw: `{"compilerOptions": {"target": "es7"}}`,
	})
	require.Error(t, err)
	assert.Nil(t, result.Code)
	require.Len(t, result.Errors, 1)
	test.AssertEqual(t, result.Errors[0].ID, "invalid-target")
	require.NotNil(t, result.Errors[0].Location)
	test.AssertEqual(t, result.Errors[0].Location.File, "<tsconfig.json>")
}

func TestTransformInvalidInput(t *testing.T) {
	file := enumFile()
	file.Factory = nil
	result, err := api.Transform(file, nil, api.TransformOptions{})
	require.Error(t, err)
	test.AssertEqual(t, err.Error(), "Must provide the factory that created the tree")
	require.Len(t, result.Errors, 1)

	file = enumFile()
	file.Root = file.Factory.Ident("x")
	_, err = api.Transform(file, nil, api.TransformOptions{})
	require.Error(t, err)
	test.AssertEqual(t, err.Error(), "Expected a source file but got *ts_ast.EIdentifier")
}

func TestTransformUnknownLogOverride(t *testing.T) {
	result, err := api.Transform(enumFile(), nil, api.TransformOptions{
		LogOverride: map[string]api.LogLevel{"no-such-message": api.LogLevelError},
	})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.True(t, strings.HasPrefix(result.Warnings[0].Text, `Unknown log override "no-such-message"`))
}

func TestTransformTiming(t *testing.T) {
	result, err := api.Transform(enumFile(), nil, api.TransformOptions{Timing: true})
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.NotEmpty(t, result.Code)
}

// Every query panics because the embedded interface is nil
type brokenOracle struct {
	api.EmitResolver
}

func TestTransformInternalError(t *testing.T) {
	result, err := api.Transform(importFile(), brokenOracle{}, api.TransformOptions{})
	require.Error(t, err)
	assert.Nil(t, result.Code)

	internal, ok := errors.Cause(err).(*api.InternalError)
	require.True(t, ok, "unexpected error %v", err)
	assert.NotEmpty(t, internal.Stack)
	assert.True(t, strings.HasPrefix(err.Error(), `failed to transform "<stdin>": Internal error: `))

	require.Len(t, result.Errors, 1)
	require.Len(t, result.Errors[0].Notes, 1)
	test.AssertEqual(t, result.Errors[0].Notes[0], internal.Stack)
}

func parameterFile() (api.File, *ts_ast.Node) {
	f := api.NewFactory()
	fn := f.Make(&ts_ast.SFunction{Fn: ts_ast.Fn{
		Name:   f.Ident("f"),
		Params: []*ts_ast.Node{f.Param(f.Ident("x"))},
		Body:   f.Block(f.Return(f.Binary(ts_ast.BinOpAdd, f.Ident("x"), f.Num(1)))),
	}})
	root := f.Make(&ts_ast.SourceFile{FileName: "infer.ts", Stmts: []*ts_ast.Node{fn}})
	return api.File{Factory: f, Root: root}, fn
}

func TestInferParameters(t *testing.T) {
	file, fn := parameterFile()
	result, err := api.InferFromUsage(context.Background(), file, nil, api.InferOptions{
		Kind:   api.InferParameters,
		Target: fn,
	})
	require.NoError(t, err)
	require.Len(t, result.Inferences, 1)
	test.AssertEqual(t, result.Inferences[0].TypeText, "number")
	test.AssertEqual(t, result.Inferences[0].IsOptional, false)
	test.AssertEqual(t, result.Inferences[0].Declaration, fn.Data.(*ts_ast.SFunction).Fn.Params[0])
}

func TestInferVariable(t *testing.T) {
	file, fn := parameterFile()
	name := fn.Data.(*ts_ast.SFunction).Fn.Params[0].Data.(*ts_ast.Parameter).Name
	result, err := api.InferFromUsage(context.Background(), file, nil, api.InferOptions{
		Kind:   api.InferVariable,
		Target: name,
	})
	require.NoError(t, err)
	require.Len(t, result.Inferences, 1)
	test.AssertEqual(t, result.Inferences[0].TypeText, "number")
}

func TestInferCancelled(t *testing.T) {
	file, fn := parameterFile()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := api.InferFromUsage(ctx, file, nil, api.InferOptions{
		Kind:   api.InferParameters,
		Target: fn,
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Inferences)
	assert.Empty(t, result.Errors)
}

func TestInferInvalidTarget(t *testing.T) {
	file, fn := parameterFile()
	_, err := api.InferFromUsage(context.Background(), file, nil, api.InferOptions{
		Kind:   api.InferVariable,
		Target: fn,
	})
	require.Error(t, err)
	test.AssertEqual(t, err.Error(), "Expected a binding name but got *ts_ast.SFunction")

	_, err = api.InferFromUsage(context.Background(), file, nil, api.InferOptions{Kind: api.InferThis})
	require.Error(t, err)
}

type brokenChecker struct {
	api.TypeChecker
}

func TestInferInternalError(t *testing.T) {
	file, fn := parameterFile()
	result, err := api.InferFromUsage(context.Background(), file, brokenChecker{}, api.InferOptions{
		Kind:   api.InferParameters,
		Target: fn,
	})
	require.Error(t, err)
	_, ok := errors.Cause(err).(*api.InternalError)
	assert.True(t, ok)
	require.Len(t, result.Errors, 1)
}
