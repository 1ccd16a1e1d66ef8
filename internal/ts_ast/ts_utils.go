package ts_ast

import (
	"math"
	"strconv"
	"strings"
)

func IsIdentifierNamed(n *Node, name string) bool {
	if id, ok := n.Data.(*EIdentifier); ok {
		return id.Name == name
	}
	return false
}

// Returns the text of an identifier or "" for anything else
func IdentifierText(n *Node) string {
	if n != nil {
		if id, ok := n.Data.(*EIdentifier); ok {
			return id.Name
		}
	}
	return ""
}

func IsGeneratedIdentifier(n *Node) bool {
	id, ok := n.Data.(*EIdentifier)
	return ok && id.IsGenerated
}

// Returns the declaration modifiers of any node that can carry them
func ModifiersOf(n *Node) ModifierFlags {
	switch d := n.Data.(type) {
	case *SFunction:
		return d.Fn.Modifiers
	case *EFunction:
		return d.Fn.Modifiers
	case *EArrow:
		return d.Fn.Modifiers
	case *SClass:
		return d.Class.Modifiers
	case *EClass:
		return d.Class.Modifiers
	case *SLocal:
		return d.Modifiers
	case *SInterface:
		return d.Modifiers
	case *STypeAlias:
		return d.Modifiers
	case *SEnum:
		return d.Modifiers
	case *SNamespace:
		return d.Modifiers
	case *SImportEquals:
		return d.Modifiers
	case *Parameter:
		return d.Modifiers
	case *CProperty:
		return d.Modifiers
	case *CMethod:
		return d.Fn.Modifiers
	case *CGetAccessor:
		return d.Fn.Modifiers
	case *CSetAccessor:
		return d.Fn.Modifiers
	case *CConstructor:
		return d.Fn.Modifiers
	case *CIndexSignature:
		return d.Modifiers
	case *TypeParameter:
		return d.Modifiers
	}
	return 0
}

// Returns the name of a named declaration, or nil
func NameOf(n *Node) *Node {
	switch d := n.Data.(type) {
	case *SFunction:
		return d.Fn.Name
	case *EFunction:
		return d.Fn.Name
	case *SClass:
		return d.Class.Name
	case *EClass:
		return d.Class.Name
	case *SInterface:
		return d.Name
	case *STypeAlias:
		return d.Name
	case *SEnum:
		return d.Name
	case *SNamespace:
		return d.Name
	case *SImportEquals:
		return d.Name
	case *VariableDeclaration:
		return d.Name
	case *Parameter:
		return d.Name
	case *BindingElement:
		return d.Name
	case *EnumMember:
		return d.Name
	case *TypeParameter:
		return d.Name
	case *CProperty:
		return d.Key
	case *CMethod:
		return d.Key
	case *CGetAccessor:
		return d.Key
	case *CSetAccessor:
		return d.Key
	case *ImportSpecifier:
		return d.Name
	case *ExportSpecifier:
		return d.Name
	case *NamespaceImport:
		return d.Name
	case *ImportClause:
		return d.Name
	}
	return nil
}

// Returns the function shape of any function-like node
func FnOf(n *Node) *Fn {
	switch d := n.Data.(type) {
	case *SFunction:
		return &d.Fn
	case *EFunction:
		return &d.Fn
	case *EArrow:
		return &d.Fn
	case *CMethod:
		return &d.Fn
	case *CGetAccessor:
		return &d.Fn
	case *CSetAccessor:
		return &d.Fn
	case *CConstructor:
		return &d.Fn
	}
	return nil
}

func ClassOf(n *Node) *Class {
	switch d := n.Data.(type) {
	case *SClass:
		return &d.Class
	case *EClass:
		return &d.Class
	}
	return nil
}

// Returns the decorators attached directly to a node
func DecoratorsOf(n *Node) []*Node {
	switch d := n.Data.(type) {
	case *SClass:
		return d.Class.Decorators
	case *EClass:
		return d.Class.Decorators
	case *Parameter:
		return d.Decorators
	case *CProperty:
		return d.Decorators
	case *CMethod:
		return d.Decorators
	case *CGetAccessor:
		return d.Decorators
	case *CSetAccessor:
		return d.Decorators
	}
	return nil
}

func IsStatic(member *Node) bool {
	return ModifiersOf(member).Has(ModifierStatic)
}

func IsParameterProperty(param *Node) bool {
	p, ok := param.Data.(*Parameter)
	return ok && p.Modifiers.Has(ModifierParameterProperty)
}

// Returns the constructor of a class that has a body, ignoring overloads
func ConstructorOf(class *Class) *Node {
	for _, member := range class.Members {
		if ctor, ok := member.Data.(*CConstructor); ok && ctor.Fn.Body != nil {
			return member
		}
	}
	return nil
}

// Returns the expression of the "extends" clause, or nil
func ExtendsOf(class *Class) *Node {
	for _, clause := range class.Heritage {
		if h := clause.Data.(*HeritageClause); !h.IsImplements && len(h.Types) > 0 {
			return h.Types[0].Data.(*ExpressionWithTypeArguments).Value
		}
	}
	return nil
}

// Skips parentheses, type assertions and partially-emitted wrappers
func SkipOuterExpressions(n *Node) *Node {
	for {
		switch d := n.Data.(type) {
		case *EParen:
			n = d.Value
		case *EAs:
			n = d.Value
		case *ESatisfies:
			n = d.Value
		case *ETypeAssertion:
			n = d.Value
		case *ENonNull:
			n = d.Value
		case *EPartiallyEmitted:
			n = d.Value
		default:
			return n
		}
	}
}

func SkipParenthesizedTypes(n *Node) *Node {
	for {
		if p, ok := n.Data.(*TParenthesized); ok {
			n = p.Type
			continue
		}
		return n
	}
}

// Returns the text of a property name that is known at compile time. This
// covers identifiers, string and numeric literals, and computed names that
// wrap a string or numeric literal.
func PropertyNameText(key *Node) (string, bool) {
	switch d := key.Data.(type) {
	case *EIdentifier:
		return d.Name, true
	case *EPrivateIdentifier:
		return d.Name, true
	case *EString:
		return d.Value, true
	case *ENumber:
		return NumberToString(d.Value), true
	case *ComputedPropertyName:
		switch v := d.Value.Data.(type) {
		case *EString:
			return v.Value, true
		case *ENumber:
			return NumberToString(v.Value), true
		}
	}
	return "", false
}

// Expressions that can be duplicated without changing behavior
func IsSimpleInlineableExpression(n *Node) bool {
	switch n.Data.(type) {
	case *EIdentifier, *ENumber, *EString, *EBigInt, *EBoolean, *ENull, *EThis, *ERegExp:
		return !IsIdentifierNamed(n, "arguments")
	}
	return false
}

func IsPrologueDirective(stmt *Node) bool {
	_, ok := stmt.Data.(*SDirective)
	return ok
}

// Returns true if the statement is a "super(...)" call statement
func IsSuperCall(stmt *Node) bool {
	if s, ok := stmt.Data.(*SExpr); ok {
		if call, ok := SkipOuterExpressions(s.Value).Data.(*ECall); ok {
			_, ok := call.Target.Data.(*ESuper)
			return ok
		}
	}
	return false
}

// This is the JavaScript "Number::toString" operation
func NumberToString(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value == 0:
		return "0"
	case value < 0:
		return "-" + NumberToString(-value)
	}

	// Get the shortest round-tripping digits and the decimal exponent
	text := strconv.FormatFloat(value, 'e', -1, 64)
	mantissa, exponent := text, 0
	if i := strings.IndexByte(text, 'e'); i != -1 {
		mantissa = text[:i]
		exponent, _ = strconv.Atoi(text[i+1:])
	}
	digits := strings.Replace(mantissa, ".", "", 1)
	k := len(digits)
	n := exponent + 1

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	sign := "+"
	if n-1 < 0 {
		sign = "-"
	}
	e := n - 1
	if e < 0 {
		e = -e
	}
	if k == 1 {
		return digits + "e" + sign + strconv.Itoa(e)
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + strconv.Itoa(e)
}

// This is the JavaScript "ToInt32" operation
func ToInt32(f float64) int32 {
	// Special-case non-finite numbers
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	// Casting to int64 is undefined for values outside its range, so reduce
	// the value modulo 2^32 first
	return int32(uint32(int64(math.Mod(f, 4294967296))))
}

// This is the JavaScript "ToUint32" operation
func ToUint32(f float64) uint32 {
	return uint32(ToInt32(f))
}
