package ts_ast

import (
	"github.com/evanw/tslower/internal/logger"
)

// Every AST node has a stable integer id assigned once by the factory that
// created it. Ids are dense and never reused within a Factory, so they can be
// used as map keys for side tables (class aliases, generated names) without
// relying on pointer identity.
type NodeID uint32

const InvalidNodeID NodeID = 0

// This is the closed set of node payloads. Each payload reports its own Kind
// so dispatch can switch either on the payload type or on the Kind.
type N interface{ Kind() Kind }

type Node struct {
	Data  N
	ID    NodeID
	Range logger.Range

	// Non-owning links. "Parent" is only set on trees that went through
	// SetParentPointers (the original source tree). "Original" points from a
	// node synthesized during a transform to the source node it replaces.
	Parent   *Node
	Original *Node

	// This is the OR of the flags of this node and its subtree, minus whatever
	// the node kind excludes from propagation. It's computed by the factory.
	TransformFlags TransformFlags

	EmitFlags EmitFlags
	Comments  *Comments
}

func (n *Node) Kind() Kind {
	return n.Data.Kind()
}

type Comment struct {
	Text        string
	IsMultiLine bool
}

type Comments struct {
	Leading  []Comment
	Trailing []Comment
}

type TransformFlags uint16

const (
	// The node or one of its descendants is TypeScript-only syntax
	ContainsTypeScript TransformFlags = 1 << iota

	// Syntax that forces the class to be rewritten (property declarations,
	// decorators, parameter properties)
	ContainsTypeScriptClassSyntax

	ContainsDecorators
	ContainsParameterPropertyAssignments
	ContainsComputedPropertyName
	ContainsLexicalThis
)

func (flags TransformFlags) Has(flag TransformFlags) bool {
	return (flags & flag) != 0
}

type EmitFlags uint32

const (
	EmitNoComments EmitFlags = 1 << iota
	EmitNoLeadingComments
	EmitNoTrailingComments

	// Identifiers with these flags are never rewritten by substitution
	EmitLocalName
	EmitExportName
	EmitInternalName
	EmitNoSubstitution

	// The printer must call the emit notification hook for this node
	EmitAdviseOnEmitNode

	EmitHasEndOfDeclarationMarker
	EmitTypeScriptClassWrapper
	EmitHelperName
	EmitSingleLine
)

func (flags EmitFlags) Has(flag EmitFlags) bool {
	return (flags & flag) != 0
}

type ModifierFlags uint32

const (
	ModifierExport ModifierFlags = 1 << iota
	ModifierDefault
	ModifierDeclare
	ModifierAbstract
	ModifierPublic
	ModifierPrivate
	ModifierProtected
	ModifierReadonly
	ModifierStatic
	ModifierConst
	ModifierAsync
	ModifierOverride
	ModifierAccessor
	ModifierIn
	ModifierOut
)

const (
	ModifierAccessibility       = ModifierPublic | ModifierPrivate | ModifierProtected
	ModifierParameterProperty   = ModifierAccessibility | ModifierReadonly | ModifierOverride
	ModifierTypeScriptOnly      = ModifierDeclare | ModifierAbstract | ModifierAccessibility | ModifierReadonly | ModifierOverride | ModifierIn | ModifierOut
	ModifierJavaScriptClassOnly = ModifierStatic | ModifierAsync | ModifierAccessor
)

func (flags ModifierFlags) Has(flag ModifierFlags) bool {
	return (flags & flag) != 0
}

var modifierText = []struct {
	flag ModifierFlags
	text string
}{
	{ModifierExport, "export"},
	{ModifierDefault, "default"},
	{ModifierDeclare, "declare"},
	{ModifierPublic, "public"},
	{ModifierPrivate, "private"},
	{ModifierProtected, "protected"},
	{ModifierStatic, "static"},
	{ModifierOverride, "override"},
	{ModifierReadonly, "readonly"},
	{ModifierAbstract, "abstract"},
	{ModifierAccessor, "accessor"},
	{ModifierAsync, "async"},
	{ModifierConst, "const"},
	{ModifierIn, "in"},
	{ModifierOut, "out"},
}

// Returns the modifiers in source order, used for debugging and printing
func (flags ModifierFlags) Keywords() []string {
	var result []string
	for _, m := range modifierText {
		if flags.Has(m.flag) {
			result = append(result, m.text)
		}
	}
	return result
}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

func (kind LocalKind) String() string {
	switch kind {
	case LocalLet:
		return "let"
	case LocalConst:
		return "const"
	default:
		return "var"
	}
}

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
type L int

const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

// Returns true for "=" but not for "+=" and friends
func (op OpCode) IsPlainAssign() bool {
	return op == BinOpAssign
}

func (op OpCode) IsAssign() bool {
	return op >= BinOpAssign
}

// If you add a new token, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false}, // Right-associative
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

type TypeKeyword uint8

const (
	TypeAny TypeKeyword = iota
	TypeUnknown
	TypeNumber
	TypeBigInt
	TypeBoolean
	TypeString
	TypeSymbol
	TypeObject
	TypeVoid
	TypeUndefined
	TypeNull
	TypeNever
	TypeIntrinsic
)

var typeKeywordText = []string{
	TypeAny:       "any",
	TypeUnknown:   "unknown",
	TypeNumber:    "number",
	TypeBigInt:    "bigint",
	TypeBoolean:   "boolean",
	TypeString:    "string",
	TypeSymbol:    "symbol",
	TypeObject:    "object",
	TypeVoid:      "void",
	TypeUndefined: "undefined",
	TypeNull:      "null",
	TypeNever:     "never",
	TypeIntrinsic: "intrinsic",
}

func (k TypeKeyword) String() string {
	return typeKeywordText[k]
}

type TypeOperator uint8

const (
	TypeOperatorKeyof TypeOperator = iota
	TypeOperatorUnique
	TypeOperatorReadonly
)
