// Package ts_infer suggests types for bindings that have none by looking at
// how they are used. The result is a best guess: evidence that is missing,
// contradictory or too complex to reason about degrades to "any" instead of
// producing an error.
package ts_infer

import (
	"context"
	"fmt"

	"github.com/evanw/tslower/internal/logger"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
	"github.com/evanw/tslower/internal/ts_types"
)

type Inferrer struct {
	log     logger.Log
	source  *logger.Source
	checker ts_checker.TypeChecker

	// The reference currently being examined, for log locations
	site *ts_ast.Node
}

func NewInferrer(log logger.Log, source *logger.Source, checker ts_checker.TypeChecker) *Inferrer {
	return &Inferrer{log: log, source: source, checker: checker}
}

type ParameterInference struct {
	Declaration *ts_ast.Node
	Type        ts_types.Type

	// Some call passed fewer arguments than this parameter's position
	IsOptional bool
}

func (in *Inferrer) debug(id logger.MsgID, text string) {
	if in.log.AddMsg == nil {
		return
	}
	r := logger.Range{Loc: logger.Loc{Start: -1}}
	if in.site != nil {
		r = in.site.Range
	}
	in.log.AddID(id, logger.Debug, in.source, r, text)
}

// Gathers the evidence from every reference. The context is checked once
// per reference.
func (in *Inferrer) collectReferences(ctx context.Context, refs []*ts_ast.Node) (*Usage, error) {
	usage := &Usage{}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			in.debug(logger.MsgID_Infer_Cancelled, "Stopped inferring a type because the request was cancelled")
			return nil, err
		}
		in.site = ref
		in.collectUsage(ref, usage)
	}
	in.site = nil
	return usage, nil
}

// Variable infers the type of the variable or parameter declared by "name"
// from all of its references
func (in *Inferrer) Variable(ctx context.Context, name *ts_ast.Node) (ts_types.Type, error) {
	return in.Single(ctx, name, in.checker.References(name))
}

// Single infers a type from an explicit list of references
func (in *Inferrer) Single(ctx context.Context, decl *ts_ast.Node, refs []*ts_ast.Node) (ts_types.Type, error) {
	usage, err := in.collectReferences(ctx, refs)
	if err != nil {
		return nil, err
	}
	result := in.Resolve(usage)
	if result == ts_types.Any && decl != nil {
		in.site = decl
		in.debug(logger.MsgID_Infer_FallbackToAny, fmt.Sprintf("Found no evidence about the type of %q", ts_ast.IdentifierText(decl)))
		in.site = nil
	}
	return result, nil
}

// Parameters infers the type of each parameter of a function from the
// arguments at its call sites and from how the parameter is used in the
// body. The result has one entry per parameter.
func (in *Inferrer) Parameters(ctx context.Context, fn *ts_ast.Node) ([]ParameterInference, error) {
	f := ts_ast.FnOf(fn)
	if f == nil {
		panic(fmt.Sprintf("Internal error: expected a function but got %T", fn.Data))
	}

	usage, err := in.collectReferences(ctx, in.functionReferences(fn))
	if err != nil {
		return nil, err
	}
	calls := append(append([]CallUsage{}, usage.Constructs...), usage.Calls...)

	result := make([]ParameterInference, 0, len(f.Params))
	for i, param := range f.Params {
		d := param.Data.(*ts_ast.Parameter)
		var types []ts_types.Type
		isOptional := false

		for _, call := range calls {
			switch {
			case len(call.ArgumentTypes) <= i:
				isOptional = true
				types = append(types, ts_types.Undefined)
			case d.IsRest:
				for _, arg := range call.ArgumentTypes[i:] {
					types = append(types, ts_types.GetBaseTypeOfLiteral(arg))
				}
			default:
				types = append(types, ts_types.GetBaseTypeOfLiteral(call.ArgumentTypes[i]))
			}
		}

		if _, ok := d.Name.Data.(*ts_ast.EIdentifier); ok {
			paramUsage, err := in.collectReferences(ctx, in.checker.References(d.Name))
			if err != nil {
				return nil, err
			}
			for _, t := range in.inferTypes(paramUsage) {
				if d.IsRest {
					// Uses of a rest parameter describe the array
					if elem := ts_types.ElementTypeOfArray(t); elem != nil {
						types = append(types, elem)
					}
					continue
				}
				types = append(types, t)
			}
		}

		t := CombineTypes(types)
		if d.IsRest {
			t = ts_types.CreateArrayType(t)
		}
		result = append(result, ParameterInference{
			Declaration: param,
			Type:        t,
			IsOptional:  isOptional && !d.IsRest,
		})
	}

	if len(result) != len(f.Params) {
		panic("Internal error: inferred a different number of parameters than were declared")
	}
	return result, nil
}

// ThisParameter infers the type of "this" inside a function from the
// objects the function is stored into
func (in *Inferrer) ThisParameter(ctx context.Context, fn *ts_ast.Node) (ts_types.Type, error) {
	usage, err := in.collectReferences(ctx, in.functionReferences(fn))
	if err != nil {
		return nil, err
	}
	return CombineTypes(usage.CandidateThisTypes), nil
}

// The references that can call a function: its own name, or the name of
// the variable it initializes
func (in *Inferrer) functionReferences(fn *ts_ast.Node) []*ts_ast.Node {
	switch fn.Data.(type) {
	case *ts_ast.SFunction:
		if name := ts_ast.NameOf(fn); name != nil {
			return in.checker.References(name)
		}

	case *ts_ast.EFunction, *ts_ast.EArrow:
		node := fn
		for node.Parent != nil {
			if _, ok := node.Parent.Data.(*ts_ast.EParen); !ok {
				break
			}
			node = node.Parent
		}
		if node.Parent != nil {
			if decl, ok := node.Parent.Data.(*ts_ast.VariableDeclaration); ok && decl.Initializer == node {
				if _, ok := decl.Name.Data.(*ts_ast.EIdentifier); ok {
					return in.checker.References(decl.Name)
				}
			}
		}
	}
	return nil
}

// TypeToString formats an inferred type the way it would be written in a
// type annotation
func TypeToString(t ts_types.Type) string {
	if t == nil {
		return ts_types.Any.String()
	}
	return t.String()
}
