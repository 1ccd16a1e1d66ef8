package ts_infer

import (
	"sort"

	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_types"
)

// Usage is the evidence gathered about a binding from the places it is
// used. A zero Usage means nothing is known.
type Usage struct {
	IsNumber         bool
	IsString         bool
	IsNumberOrString bool

	CandidateTypes []ts_types.Type

	// Evidence about "x.name", by name
	Properties map[string]*Usage

	Calls      []CallUsage
	Constructs []CallUsage

	// Evidence about "x[i]" where "i" is number-like or not
	NumberIndex *Usage
	StringIndex *Usage

	// Types of the objects a function is stored into, which become the type
	// of its "this" parameter
	CandidateThisTypes []ts_types.Type
}

type CallUsage struct {
	ArgumentTypes []ts_types.Type

	// Evidence about how the result of the call is used
	Return *Usage
}

func (u *Usage) property(name string) *Usage {
	if u.Properties == nil {
		u.Properties = make(map[string]*Usage)
	}
	result, ok := u.Properties[name]
	if !ok {
		result = &Usage{}
		u.Properties[name] = result
	}
	return result
}

func (u *Usage) addCandidateType(t ts_types.Type) {
	if t != nil && t != ts_types.Any && t != ts_types.Never {
		u.CandidateTypes = append(u.CandidateTypes, t)
	}
}

func (u *Usage) addCandidateThisType(t ts_types.Type) {
	if t != nil && t != ts_types.Any && t != ts_types.Never {
		u.CandidateThisTypes = append(u.CandidateThisTypes, t)
	}
}

func (u *Usage) hasStructure() bool {
	return len(u.Properties) > 0 || len(u.Constructs) > 0 || u.StringIndex != nil
}

// MergeUsages combines the evidence from several sets of use sites. The
// result does not depend on the order of the arguments once resolved.
func MergeUsages(usages ...*Usage) *Usage {
	result := &Usage{}
	var numberIndices, stringIndices []*Usage
	propertyUsages := make(map[string][]*Usage)

	for _, u := range usages {
		if u == nil {
			continue
		}
		result.IsNumber = result.IsNumber || u.IsNumber
		result.IsString = result.IsString || u.IsString
		result.IsNumberOrString = result.IsNumberOrString || u.IsNumberOrString
		result.CandidateTypes = append(result.CandidateTypes, u.CandidateTypes...)
		result.CandidateThisTypes = append(result.CandidateThisTypes, u.CandidateThisTypes...)
		result.Calls = append(result.Calls, u.Calls...)
		result.Constructs = append(result.Constructs, u.Constructs...)
		for name, p := range u.Properties {
			propertyUsages[name] = append(propertyUsages[name], p)
		}
		if u.NumberIndex != nil {
			numberIndices = append(numberIndices, u.NumberIndex)
		}
		if u.StringIndex != nil {
			stringIndices = append(stringIndices, u.StringIndex)
		}
	}

	if len(propertyUsages) > 0 {
		result.Properties = make(map[string]*Usage, len(propertyUsages))
		for name, ps := range propertyUsages {
			result.Properties[name] = MergeUsages(ps...)
		}
	}
	if len(numberIndices) > 0 {
		result.NumberIndex = MergeUsages(numberIndices...)
	}
	if len(stringIndices) > 0 {
		result.StringIndex = MergeUsages(stringIndices...)
	}
	return result
}

func sortedPropertyNames(u *Usage) []string {
	names := make([]string, 0, len(u.Properties))
	for name := range u.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

////////////////////////////////////////////////////////////////////////////////
// Evidence collection

// Records what the position of one reference says about its type. Only the
// immediate parent is considered, after stepping out of "a.b" when the
// reference is "b".
func (in *Inferrer) collectUsage(node *ts_ast.Node, usage *Usage) {
	for isRightSideOfAccess(node) {
		node = node.Parent
	}
	parent := node.Parent
	if parent == nil {
		return
	}

	switch p := parent.Data.(type) {
	case *ts_ast.SExpr:
		usage.addCandidateType(ts_types.Void)

	case *ts_ast.EUnary:
		switch p.Op {
		case ts_ast.UnOpPostInc, ts_ast.UnOpPostDec, ts_ast.UnOpPreInc, ts_ast.UnOpPreDec, ts_ast.UnOpNeg, ts_ast.UnOpCpl:
			usage.IsNumber = true
		case ts_ast.UnOpPos:
			usage.IsNumberOrString = true
		}

	case *ts_ast.EBinary:
		in.collectBinaryUsage(node, parent, p, usage)

	case *ts_ast.CaseClause:
		if p.Test == node {
			if s, ok := switchOfClause(parent); ok {
				usage.addCandidateType(in.checker.TypeAtLocation(s.Test))
			}
		} else {
			in.collectContextualUsage(node, usage)
		}

	case *ts_ast.ECall:
		if p.Target == node {
			usage.Calls = append(usage.Calls, in.callUsage(parent, p.Args))
		} else {
			in.collectContextualUsage(node, usage)
		}

	case *ts_ast.ENew:
		if p.Target == node {
			usage.Constructs = append(usage.Constructs, in.callUsage(parent, p.Args))
		} else {
			in.collectContextualUsage(node, usage)
		}

	case *ts_ast.EDot:
		if name := ts_ast.IdentifierText(p.Name); name != "" {
			in.collectUsage(parent, usage.property(name))
		}

	case *ts_ast.EIndex:
		if p.Index == node {
			usage.IsNumberOrString = true
			break
		}
		indexUsage := &Usage{}
		in.collectUsage(parent, indexUsage)
		if ts_types.IsNumberLike(in.checker.TypeAtLocation(p.Index)) {
			usage.NumberIndex = MergeUsages(usage.NumberIndex, indexUsage)
		} else {
			usage.StringIndex = MergeUsages(usage.StringIndex, indexUsage)
		}

	case *ts_ast.PropertyAssignment, *ts_ast.ShorthandPropertyAssignment:
		// The object literal, or the variable it initializes
		object := parent.Parent
		if object != nil && object.Parent != nil {
			if _, ok := object.Parent.Data.(*ts_ast.VariableDeclaration); ok {
				object = object.Parent
			}
		}
		if object != nil {
			usage.addCandidateThisType(in.checker.TypeAtLocation(object))
		}

	case *ts_ast.CProperty:
		if parent.Parent != nil {
			usage.addCandidateThisType(in.checker.TypeAtLocation(parent.Parent))
		}

	case *ts_ast.VariableDeclaration:
		if p.Name == node {
			if p.Initializer != nil {
				usage.addCandidateType(in.checker.TypeAtLocation(p.Initializer))
			}
			break
		}
		in.collectContextualUsage(node, usage)

	default:
		in.collectContextualUsage(node, usage)
	}
}

func isRightSideOfAccess(node *ts_ast.Node) bool {
	if node.Parent == nil {
		return false
	}
	switch p := node.Parent.Data.(type) {
	case *ts_ast.EDot:
		return p.Name == node
	case *ts_ast.QualifiedName:
		return p.Right == node
	}
	return false
}

func switchOfClause(clause *ts_ast.Node) (*ts_ast.SSwitch, bool) {
	if block := clause.Parent; block != nil && block.Parent != nil {
		s, ok := block.Parent.Data.(*ts_ast.SSwitch)
		return s, ok
	}
	return nil, false
}

func (in *Inferrer) collectContextualUsage(node *ts_ast.Node, usage *Usage) {
	if node.Kind().IsExpression() {
		usage.addCandidateType(in.checker.ContextualType(node))
	}
}

// The result of the call is itself a new reference site
func (in *Inferrer) callUsage(call *ts_ast.Node, args []*ts_ast.Node) CallUsage {
	result := CallUsage{Return: &Usage{}}
	for _, arg := range args {
		result.ArgumentTypes = append(result.ArgumentTypes, in.checker.TypeAtLocation(arg))
	}
	in.collectUsage(call, result.Return)
	return result
}

func (in *Inferrer) collectBinaryUsage(node *ts_ast.Node, parent *ts_ast.Node, p *ts_ast.EBinary, usage *Usage) {
	other := p.Left
	if p.Left == node {
		other = p.Right
	}

	switch p.Op {
	case ts_ast.BinOpPow, ts_ast.BinOpMul, ts_ast.BinOpDiv, ts_ast.BinOpRem,
		ts_ast.BinOpShl, ts_ast.BinOpShr, ts_ast.BinOpUShr,
		ts_ast.BinOpBitwiseAnd, ts_ast.BinOpBitwiseOr, ts_ast.BinOpBitwiseXor,
		ts_ast.BinOpSubAssign, ts_ast.BinOpPowAssign, ts_ast.BinOpMulAssign, ts_ast.BinOpDivAssign,
		ts_ast.BinOpRemAssign, ts_ast.BinOpBitwiseAndAssign, ts_ast.BinOpBitwiseOrAssign,
		ts_ast.BinOpBitwiseXorAssign, ts_ast.BinOpShlAssign, ts_ast.BinOpUShrAssign, ts_ast.BinOpShrAssign,
		ts_ast.BinOpSub, ts_ast.BinOpLt, ts_ast.BinOpLe, ts_ast.BinOpGt, ts_ast.BinOpGe:
		if otherType := in.checker.TypeAtLocation(other); ts_types.IsEnumLike(otherType) {
			usage.addCandidateType(otherType)
		} else {
			usage.IsNumber = true
		}

	case ts_ast.BinOpAdd, ts_ast.BinOpAddAssign:
		otherType := in.checker.TypeAtLocation(other)
		switch {
		case ts_types.IsEnumLike(otherType):
			usage.addCandidateType(otherType)
		case ts_types.IsNumberLike(otherType):
			usage.IsNumber = true
		case ts_types.IsStringLike(otherType):
			usage.IsString = true
		case ts_types.IsAny(otherType):
		default:
			usage.IsNumberOrString = true
		}

	case ts_ast.BinOpAssign, ts_ast.BinOpLooseEq, ts_ast.BinOpStrictEq, ts_ast.BinOpLooseNe, ts_ast.BinOpStrictNe:
		usage.addCandidateType(in.checker.TypeAtLocation(other))

	case ts_ast.BinOpIn:
		if p.Left == node {
			usage.IsString = true
		}

	case ts_ast.BinOpLogicalOr, ts_ast.BinOpNullishCoalescing:
		// "x = x || {}"
		if p.Left == node && isInitializerOrAssignedValue(parent) {
			usage.addCandidateType(in.checker.TypeAtLocation(p.Right))
		}
	}
}

func isInitializerOrAssignedValue(node *ts_ast.Node) bool {
	if node.Parent == nil {
		return false
	}
	switch p := node.Parent.Data.(type) {
	case *ts_ast.VariableDeclaration:
		return true
	case *ts_ast.EBinary:
		return p.Op == ts_ast.BinOpAssign
	}
	return false
}
