package ts_checker

import (
	"math"

	"github.com/evanw/tslower/internal/ts_ast"
)

type enumValue struct {
	value      interface{}
	ok         bool
	inProgress bool
}

// Returns the value of an enum member. Members without an initializer
// continue counting from the previous numeric member. The value is a
// float64 or a string.
func (c *Checker) enumMemberValue(member *ts_ast.Node) (interface{}, bool) {
	if member == nil {
		return nil, false
	}
	if v, ok := c.enumValues[member]; ok {
		return v.value, v.ok && !v.inProgress
	}
	c.enumValues[member] = enumValue{inProgress: true}

	var value interface{}
	ok := false
	if init := member.Data.(*ts_ast.EnumMember).Initializer; init != nil {
		value, ok = c.evaluate(init)
	} else if prev := previousEnumMember(member); prev == nil {
		value, ok = 0.0, true
	} else if v, isConst := c.enumMemberValue(prev); isConst {
		if number, isNumber := v.(float64); isNumber {
			value, ok = number+1, true
		}
	}

	c.enumValues[member] = enumValue{value: value, ok: ok}
	return value, ok
}

func previousEnumMember(member *ts_ast.Node) *ts_ast.Node {
	if member.Parent == nil {
		return nil
	}
	members := member.Parent.Data.(*ts_ast.SEnum).Members
	for i, m := range members {
		if m == member && i > 0 {
			return members[i-1]
		}
	}
	return nil
}

// Constant folding for enum initializers
func (c *Checker) evaluate(n *ts_ast.Node) (interface{}, bool) {
	switch d := n.Data.(type) {
	case *ts_ast.ENumber:
		return d.Value, true

	case *ts_ast.EString:
		return d.Value, true

	case *ts_ast.ETemplate:
		if d.Tag != nil {
			return nil, false
		}
		text := d.Head
		for _, span := range d.Spans {
			s := span.Data.(*ts_ast.TemplateSpan)
			v, ok := c.evaluate(s.Value)
			if !ok {
				return nil, false
			}
			text += constantToString(v) + s.Tail
		}
		return text, true

	case *ts_ast.EParen:
		return c.evaluate(d.Value)

	case *ts_ast.EUnary:
		v, ok := c.evaluate(d.Value)
		number, isNumber := v.(float64)
		if !ok || !isNumber {
			return nil, false
		}
		switch d.Op {
		case ts_ast.UnOpPos:
			return number, true
		case ts_ast.UnOpNeg:
			return -number, true
		case ts_ast.UnOpCpl:
			return float64(^ts_ast.ToInt32(number)), true
		}

	case *ts_ast.EBinary:
		left, ok := c.evaluate(d.Left)
		if !ok {
			return nil, false
		}
		right, ok := c.evaluate(d.Right)
		if !ok {
			return nil, false
		}
		return foldBinary(d.Op, left, right)

	case *ts_ast.EIdentifier, *ts_ast.EDot, *ts_ast.EIndex:
		if sym := c.resolveEntity(n); sym != nil && sym.Flags.Has(SymbolEnumMember) {
			return c.enumMemberValue(sym.ValueDeclaration)
		}
		switch ts_ast.IdentifierText(n) {
		case "Infinity":
			return math.Inf(1), true
		case "NaN":
			return math.NaN(), true
		}
	}
	return nil, false
}

func foldBinary(op ts_ast.OpCode, left interface{}, right interface{}) (interface{}, bool) {
	l, leftIsNumber := left.(float64)
	r, rightIsNumber := right.(float64)
	if !leftIsNumber || !rightIsNumber {
		if op == ts_ast.BinOpAdd {
			return constantToString(left) + constantToString(right), true
		}
		return nil, false
	}

	switch op {
	case ts_ast.BinOpAdd:
		return l + r, true
	case ts_ast.BinOpSub:
		return l - r, true
	case ts_ast.BinOpMul:
		return l * r, true
	case ts_ast.BinOpDiv:
		return l / r, true
	case ts_ast.BinOpRem:
		return math.Mod(l, r), true
	case ts_ast.BinOpPow:
		return math.Pow(l, r), true
	case ts_ast.BinOpBitwiseOr:
		return float64(ts_ast.ToInt32(l) | ts_ast.ToInt32(r)), true
	case ts_ast.BinOpBitwiseAnd:
		return float64(ts_ast.ToInt32(l) & ts_ast.ToInt32(r)), true
	case ts_ast.BinOpBitwiseXor:
		return float64(ts_ast.ToInt32(l) ^ ts_ast.ToInt32(r)), true
	case ts_ast.BinOpShl:
		return float64(ts_ast.ToInt32(l) << (ts_ast.ToUint32(r) & 31)), true
	case ts_ast.BinOpShr:
		return float64(ts_ast.ToInt32(l) >> (ts_ast.ToUint32(r) & 31)), true
	case ts_ast.BinOpUShr:
		return float64(ts_ast.ToUint32(l) >> (ts_ast.ToUint32(r) & 31)), true
	}
	return nil, false
}

func constantToString(v interface{}) string {
	if number, ok := v.(float64); ok {
		return ts_ast.NumberToString(number)
	}
	return v.(string)
}
