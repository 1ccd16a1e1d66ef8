package ts_types

import (
	"fmt"
	"strconv"

	"github.com/evanw/tslower/internal/ts_ast"
)

// Type is the interface implemented by all type representations. The set of
// implementations is closed.
type Type interface {
	String() string
	Equals(other Type) bool
	typeNode()
}

////////////////////////////////////////////////////////////////////////////////
// Primitives

type Primitive struct {
	Name string
	rank int
}

func (p *Primitive) String() string { return p.Name }
func (p *Primitive) typeNode()      {}

// Primitives are singletons so pointer equality is sufficient
func (p *Primitive) Equals(other Type) bool { return p == other }

var (
	Any          = &Primitive{Name: "any", rank: 0}
	Unknown      = &Primitive{Name: "unknown", rank: 0}
	String       = &Primitive{Name: "string", rank: 1}
	Number       = &Primitive{Name: "number", rank: 2}
	BigInt       = &Primitive{Name: "bigint", rank: 3}
	Boolean      = &Primitive{Name: "boolean", rank: 4}
	Symbol       = &Primitive{Name: "symbol", rank: 5}
	NonPrimitive = &Primitive{Name: "object", rank: 6}
	Void         = &Primitive{Name: "void", rank: 40}
	Undefined    = &Primitive{Name: "undefined", rank: 41}
	Null         = &Primitive{Name: "null", rank: 42}
	Never        = &Primitive{Name: "never", rank: 50}
)

// Returns the primitive type for a type keyword
func KeywordType(keyword ts_ast.TypeKeyword) Type {
	switch keyword {
	case ts_ast.TypeAny:
		return Any
	case ts_ast.TypeUnknown:
		return Unknown
	case ts_ast.TypeNumber:
		return Number
	case ts_ast.TypeBigInt:
		return BigInt
	case ts_ast.TypeBoolean:
		return Boolean
	case ts_ast.TypeString:
		return String
	case ts_ast.TypeSymbol:
		return Symbol
	case ts_ast.TypeObject:
		return NonPrimitive
	case ts_ast.TypeVoid:
		return Void
	case ts_ast.TypeUndefined:
		return Undefined
	case ts_ast.TypeNull:
		return Null
	case ts_ast.TypeNever:
		return Never
	}
	return Any
}

////////////////////////////////////////////////////////////////////////////////
// Literals

type BigIntValue string

// The value is a string, a float64, a bool or a BigIntValue
type LiteralType struct {
	Value interface{}
}

func (l *LiteralType) typeNode() {}

func (l *LiteralType) String() string {
	switch v := l.Value.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		return ts_ast.NumberToString(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case BigIntValue:
		return string(v) + "n"
	}
	panic(fmt.Sprintf("Internal error: unexpected literal value %T", l.Value))
}

func (l *LiteralType) Equals(other Type) bool {
	if o, ok := other.(*LiteralType); ok {
		return l.Value == o.Value
	}
	return false
}

func NewStringLiteral(value string) *LiteralType  { return &LiteralType{Value: value} }
func NewNumberLiteral(value float64) *LiteralType { return &LiteralType{Value: value} }

var (
	True  = &LiteralType{Value: true}
	False = &LiteralType{Value: false}
)

////////////////////////////////////////////////////////////////////////////////
// Enums

// The type of an enum declaration's members. Enum types are nominal.
type EnumType struct {
	Name string

	// True if every member has a string value
	IsStringEnum bool
}

func (e *EnumType) String() string         { return e.Name }
func (e *EnumType) typeNode()              {}
func (e *EnumType) Equals(other Type) bool { return e == other }

////////////////////////////////////////////////////////////////////////////////
// Type parameters

type TypeParameter struct {
	Name       string
	Constraint Type
}

func (tp *TypeParameter) String() string         { return tp.Name }
func (tp *TypeParameter) typeNode()              {}
func (tp *TypeParameter) Equals(other Type) bool { return tp == other }

////////////////////////////////////////////////////////////////////////////////
// Predicates

func IsAny(t Type) bool {
	return t == Any
}

func IsAnyOrVoid(t Type) bool {
	return t == Any || t == Void
}

func IsNullable(t Type) bool {
	return t == Null || t == Undefined
}

func IsNumberLike(t Type) bool {
	switch v := t.(type) {
	case *Primitive:
		return v == Number
	case *LiteralType:
		_, ok := v.Value.(float64)
		return ok
	case *EnumType:
		return !v.IsStringEnum
	case *UnionType:
		for _, member := range v.Types {
			if !IsNumberLike(member) {
				return false
			}
		}
		return true
	}
	return false
}

func IsStringLike(t Type) bool {
	switch v := t.(type) {
	case *Primitive:
		return v == String
	case *LiteralType:
		_, ok := v.Value.(string)
		return ok
	case *EnumType:
		return v.IsStringEnum
	case *UnionType:
		for _, member := range v.Types {
			if !IsStringLike(member) {
				return false
			}
		}
		return true
	}
	return false
}

func IsEnumLike(t Type) bool {
	_, ok := t.(*EnumType)
	return ok
}

// Anonymous types are object types synthesized from usage or written as
// type literals. They have no name.
func IsAnonymous(t Type) bool {
	o, ok := t.(*ObjectType)
	return ok && o.Name == ""
}
