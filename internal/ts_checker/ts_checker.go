package ts_checker

import (
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_types"
)

// The runtime category a type reference serializes to for design-time
// metadata
type SerializationKind uint8

const (
	// The type could not be resolved
	SerializationUnknown SerializationKind = iota

	// A class or any other value with a construct signature whose name can
	// be referenced at runtime
	SerializationTypeWithConstructSignatureAndValue

	SerializationVoidNullableOrNever
	SerializationNumberLike
	SerializationBigIntLike
	SerializationStringLike
	SerializationBooleanLike
	SerializationArrayLike
	SerializationESSymbolLike
	SerializationPromise
	SerializationTypeWithCallSignature
	SerializationObject
)

type NodeCheckFlags uint8

const (
	// A decorated class that refers to itself from inside its body. Such a
	// class needs an alias because decorators may replace the class binding.
	CheckClassWithConstructorReference NodeCheckFlags = 1 << iota

	// An identifier inside a class body that refers to the class itself
	CheckConstructorReferenceInClass
)

func (flags NodeCheckFlags) Has(flag NodeCheckFlags) bool {
	return (flags & flag) != 0
}

// EmitResolver answers the questions the lowering pass asks about the
// original tree. Every node passed in must belong to the original tree, so
// callers pass "ts_ast.GetOriginal(node)" for synthesized nodes.
type EmitResolver interface {
	// Is this import or export alias used as a value anywhere?
	IsReferencedAliasDeclaration(node *ts_ast.Node) bool

	// Does this alias (an export specifier, "export =", "export default" or
	// "import x = y") refer to something that exists at runtime?
	IsValueAliasDeclaration(node *ts_ast.Node) bool

	IsTopLevelValueImportEqualsWithEntityName(node *ts_ast.Node) bool

	// Returns the namespace or enum declaration that lexically encloses the
	// reference and owns the export that the identifier refers to, or nil
	GetReferencedExportContainer(id *ts_ast.Node) *ts_ast.Node

	// Returns the value declaration an identifier refers to, or nil
	GetReferencedValueDeclaration(id *ts_ast.Node) *ts_ast.Node

	// Returns the constant value (a float64 or a string) of an enum member,
	// or of a property access or element access that refers to a member of
	// a const enum
	GetConstantValue(node *ts_ast.Node) (interface{}, bool)

	GetTypeReferenceSerializationKind(typeName *ts_ast.Node, location *ts_ast.Node) SerializationKind

	NodeCheckFlags(node *ts_ast.Node) NodeCheckFlags
}

// TypeChecker answers the typing questions asked by usage inference
type TypeChecker interface {
	TypeAtLocation(node *ts_ast.Node) ts_types.Type

	// Returns nil when the location has no contextual type
	ContextualType(node *ts_ast.Node) ts_types.Type

	// Returns every identifier that refers to the binding declared by "name"
	// in the checked file, excluding the declaration itself
	References(name *ts_ast.Node) []*ts_ast.Node
}
