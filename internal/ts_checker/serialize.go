package ts_checker

import (
	"github.com/evanw/tslower/internal/ts_ast"
)

// Global constructors that exist at runtime in every supported environment
var globalSerializationKinds = map[string]SerializationKind{
	"Array":    SerializationTypeWithConstructSignatureAndValue,
	"Boolean":  SerializationTypeWithConstructSignatureAndValue,
	"Date":     SerializationTypeWithConstructSignatureAndValue,
	"Error":    SerializationTypeWithConstructSignatureAndValue,
	"Function": SerializationTypeWithConstructSignatureAndValue,
	"Map":      SerializationTypeWithConstructSignatureAndValue,
	"Number":   SerializationTypeWithConstructSignatureAndValue,
	"Object":   SerializationTypeWithConstructSignatureAndValue,
	"RegExp":   SerializationTypeWithConstructSignatureAndValue,
	"Set":      SerializationTypeWithConstructSignatureAndValue,
	"String":   SerializationTypeWithConstructSignatureAndValue,
	"WeakMap":  SerializationTypeWithConstructSignatureAndValue,
	"WeakSet":  SerializationTypeWithConstructSignatureAndValue,

	"BigInt":  SerializationBigIntLike,
	"Promise": SerializationPromise,
	"Symbol":  SerializationESSymbolLike,
}

func (c *Checker) GetTypeReferenceSerializationKind(typeName *ts_ast.Node, location *ts_ast.Node) SerializationKind {
	return c.serializationKindOfEntity(typeName, 0)
}

func (c *Checker) serializationKindOfEntity(typeName *ts_ast.Node, depth int) SerializationKind {
	sym := c.resolveEntity(typeName)
	if sym == nil || sym.Flags.Has(SymbolGlobal) {
		if kind, ok := globalSerializationKinds[ts_ast.IdentifierText(typeName)]; ok {
			return kind
		}
		return SerializationUnknown
	}
	return c.serializationKindOfSymbol(sym, depth)
}

func (c *Checker) serializationKindOfSymbol(sym *Symbol, depth int) SerializationKind {
	switch {
	case sym.Flags.Has(SymbolAlias):
		// Imported bindings are assumed to be classes
		if sym.IsTypeOnly {
			return SerializationObject
		}
		return SerializationTypeWithConstructSignatureAndValue

	case sym.Flags.Has(SymbolClass):
		return SerializationTypeWithConstructSignatureAndValue

	case sym.Flags.Has(SymbolEnum):
		return c.serializationKindOfEnumMembers(sym.Declarations)

	case sym.Flags.Has(SymbolEnumMember):
		return c.serializationKindOfEnumMembers(sym.Declarations)

	case sym.Flags.Has(SymbolTypeAlias):
		if decl := sym.declarationOfKind(ts_ast.KindTypeAliasDeclaration); decl != nil && depth < 16 {
			return c.serializationKindOfTypeNode(decl.Data.(*ts_ast.STypeAlias).Type, depth+1)
		}
		return SerializationObject

	case sym.Flags.Has(SymbolInterface | SymbolTypeParameter):
		return SerializationObject
	}
	return SerializationUnknown
}

// Enums whose members are all numbers are number-like and enums whose
// members are all strings are string-like. Mixed enums are objects.
func (c *Checker) serializationKindOfEnumMembers(decls []*ts_ast.Node) SerializationKind {
	hasNumber, hasString := false, false
	visit := func(member *ts_ast.Node) {
		if value, ok := c.enumMemberValue(member); ok {
			if _, isString := value.(string); isString {
				hasString = true
				return
			}
		}
		hasNumber = true
	}
	for _, decl := range decls {
		switch d := decl.Data.(type) {
		case *ts_ast.SEnum:
			for _, member := range d.Members {
				visit(member)
			}
		case *ts_ast.EnumMember:
			visit(decl)
		}
	}
	switch {
	case hasString && hasNumber:
		return SerializationObject
	case hasString:
		return SerializationStringLike
	}
	return SerializationNumberLike
}

// Classifies the type a type alias refers to
func (c *Checker) serializationKindOfTypeNode(n *ts_ast.Node, depth int) SerializationKind {
	switch d := n.Data.(type) {
	case *ts_ast.TKeyword:
		switch d.Keyword {
		case ts_ast.TypeVoid, ts_ast.TypeUndefined, ts_ast.TypeNull, ts_ast.TypeNever:
			return SerializationVoidNullableOrNever
		case ts_ast.TypeNumber:
			return SerializationNumberLike
		case ts_ast.TypeBigInt:
			return SerializationBigIntLike
		case ts_ast.TypeString:
			return SerializationStringLike
		case ts_ast.TypeBoolean:
			return SerializationBooleanLike
		case ts_ast.TypeSymbol:
			return SerializationESSymbolLike
		}
		return SerializationObject

	case *ts_ast.TLiteral:
		switch d.Literal.Data.(type) {
		case *ts_ast.EString:
			return SerializationStringLike
		case *ts_ast.ENumber, *ts_ast.EUnary:
			return SerializationNumberLike
		case *ts_ast.EBigInt:
			return SerializationBigIntLike
		case *ts_ast.EBoolean:
			return SerializationBooleanLike
		case *ts_ast.ENull:
			return SerializationVoidNullableOrNever
		}

	case *ts_ast.TTemplateLiteral:
		return SerializationStringLike

	case *ts_ast.TArray, *ts_ast.TTuple:
		return SerializationArrayLike

	case *ts_ast.TFunction:
		return SerializationTypeWithCallSignature

	case *ts_ast.TPredicate:
		return SerializationBooleanLike

	case *ts_ast.TParenthesized:
		return c.serializationKindOfTypeNode(d.Type, depth)

	case *ts_ast.TReference:
		if depth < 16 {
			kind := c.serializationKindOfEntity(d.TypeName, depth+1)
			if sym := c.resolveEntity(d.TypeName); (sym == nil || sym.Flags.Has(SymbolGlobal)) && ts_ast.IdentifierText(d.TypeName) == "Array" {
				return SerializationArrayLike
			}
			if kind == SerializationTypeWithConstructSignatureAndValue {
				// The alias itself has no value, so only its shape matters
				return SerializationObject
			}
			return kind
		}

	case *ts_ast.TUnion:
		var result SerializationKind
		for i, t := range d.Types {
			kind := c.serializationKindOfTypeNode(t, depth)
			if i > 0 && kind != result {
				return SerializationObject
			}
			result = kind
		}
		return result

	case *ts_ast.TTypeLiteral:
		hasCall := false
		for _, member := range d.Members {
			if _, ok := member.Data.(*ts_ast.TCallSignature); !ok {
				return SerializationObject
			}
			hasCall = true
		}
		if hasCall {
			return SerializationTypeWithCallSignature
		}
	}
	return SerializationObject
}
