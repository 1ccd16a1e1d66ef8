package ts_ast

import (
	"fmt"
	"strconv"

	"github.com/evanw/tslower/internal/logger"
)

// All nodes are created through a factory so that every node gets a unique
// id and a transform-flags summary computed from its children. A factory is
// not safe for concurrent use. Use one factory per source file.
type Factory struct {
	nextID NodeID

	// Names that generated identifiers must not collide with
	usedNames map[string]bool

	tempIndex int
}

func NewFactory() *Factory {
	return &Factory{usedNames: make(map[string]bool)}
}

func (f *Factory) NewNode(data N, r logger.Range) *Node {
	f.nextID++
	n := &Node{Data: data, ID: f.nextID, Range: r}
	n.TransformFlags = computeTransformFlags(n)
	return n
}

// Creates a node without a source range
func (f *Factory) Make(data N) *Node {
	return f.NewNode(data, logger.NoRange)
}

// Creates a replacement for "original" with a new payload. The replacement
// keeps the source range, emit flags and comments of the original.
func (f *Factory) Update(original *Node, data N) *Node {
	n := f.NewNode(data, original.Range)
	n.Original = original
	n.EmitFlags = original.EmitFlags
	n.Comments = original.Comments
	return n
}

// Creates a node that is synthesized on behalf of "original"
func (f *Factory) NewNodeFrom(original *Node, data N) *Node {
	n := f.NewNode(data, logger.NoRange)
	n.Original = original
	return n
}

// Returns the node in the source tree that this node was created from
func GetOriginal(n *Node) *Node {
	for n != nil && n.Original != nil {
		n = n.Original
	}
	return n
}

////////////////////////////////////////////////////////////////////////////////
// Generated names

// Records every identifier in the tree as taken so that generated names
// cannot shadow them
func (f *Factory) ReserveNames(root *Node) {
	var visit func(*Node)
	visit = func(n *Node) {
		if id, ok := n.Data.(*EIdentifier); ok {
			f.usedNames[id.Name] = true
		}
		ForEachChild(n, visit)
	}
	visit(root)
}

func (f *Factory) ReserveName(name string) {
	f.usedNames[name] = true
}

func (f *Factory) IsNameUsed(name string) bool {
	return f.usedNames[name]
}

// Returns "base_1", "base_2", ... whichever is not taken yet
func (f *Factory) UniqueName(base string) string {
	for i := 1; ; i++ {
		name := base + "_" + strconv.Itoa(i)
		if !f.usedNames[name] {
			f.usedNames[name] = true
			return name
		}
	}
}

// Returns "_a", "_b", ... skipping "_i" and "_n" which are conventionally
// used for loop variables, then "_0", "_1", ...
func (f *Factory) TempName() string {
	for {
		i := f.tempIndex
		f.tempIndex++
		var name string
		if i < 26 {
			c := byte('a' + i)
			if c == 'i' || c == 'n' {
				continue
			}
			name = "_" + string(c)
		} else {
			name = "_" + strconv.Itoa(i-26)
		}
		if !f.usedNames[name] {
			f.usedNames[name] = true
			return name
		}
	}
}

func (f *Factory) NewUniqueIdent(base string) *Node {
	return f.NewNode(&EIdentifier{Name: f.UniqueName(base), IsGenerated: true}, logger.NoRange)
}

func (f *Factory) NewTempIdent() *Node {
	return f.NewNode(&EIdentifier{Name: f.TempName(), IsGenerated: true}, logger.NoRange)
}

////////////////////////////////////////////////////////////////////////////////
// Transform flags

func (n *Node) propagatedFlags() TransformFlags {
	switch n.Data.(type) {
	case *SClass, *EClass:
		// Class syntax inside a nested class never changes how an outer class
		// is lowered
		return n.TransformFlags & ContainsTypeScript
	}
	return n.TransformFlags
}

func computeTransformFlags(n *Node) TransformFlags {
	flags := ownTransformFlags(n.Data)
	ForEachChild(n, func(child *Node) {
		flags |= child.propagatedFlags()
	})
	if flags.Has(ContainsTypeScriptClassSyntax | ContainsDecorators | ContainsParameterPropertyAssignments) {
		flags |= ContainsTypeScript
	}
	return flags
}

func fnTransformFlags(fn *Fn) (flags TransformFlags) {
	if fn.Modifiers.Has(ModifierTypeScriptOnly) || fn.Body == nil {
		flags |= ContainsTypeScript
	}
	return
}

func ownTransformFlags(data N) (flags TransformFlags) {
	if data.Kind().IsTypeNode() {
		return ContainsTypeScript
	}

	switch d := data.(type) {
	case *SInterface, *STypeAlias, *TypeParameter, *ENonNull, *EAs, *ESatisfies,
		*ETypeAssertion, *CIndexSignature, *SEnum, *SNamespace, *SImportEquals:
		return ContainsTypeScript

	case *Decorator:
		return ContainsTypeScript | ContainsDecorators | ContainsTypeScriptClassSyntax

	case *ComputedPropertyName:
		return ContainsComputedPropertyName

	case *EThis:
		return ContainsLexicalThis

	case *SExportAssignment:
		if d.IsExportEquals {
			return ContainsTypeScript
		}

	case *HeritageClause:
		if d.IsImplements {
			return ContainsTypeScript
		}

	case *ExpressionWithTypeArguments:
		if len(d.TypeArguments) > 0 {
			return ContainsTypeScript
		}

	case *ECall:
		if len(d.TypeArguments) > 0 {
			return ContainsTypeScript
		}

	case *ENew:
		if len(d.TypeArguments) > 0 {
			return ContainsTypeScript
		}

	case *ETemplate:
		if len(d.TypeArguments) > 0 {
			return ContainsTypeScript
		}

	case *Parameter:
		if d.Modifiers.Has(ModifierParameterProperty) {
			flags |= ContainsTypeScript | ContainsParameterPropertyAssignments | ContainsTypeScriptClassSyntax
		}
		if d.IsOptional || d.Modifiers.Has(ModifierTypeScriptOnly) {
			flags |= ContainsTypeScript
		}
		if d.Name != nil && IsIdentifierNamed(d.Name, "this") {
			flags |= ContainsTypeScript
		}

	case *VariableDeclaration:
		if d.IsDefinite {
			return ContainsTypeScript
		}

	case *SLocal:
		if d.Modifiers.Has(ModifierDeclare) {
			return ContainsTypeScript
		}

	case *ImportClause:
		if d.IsTypeOnly {
			return ContainsTypeScript
		}

	case *ImportSpecifier:
		if d.IsTypeOnly {
			return ContainsTypeScript
		}

	case *ExportSpecifier:
		if d.IsTypeOnly {
			return ContainsTypeScript
		}

	case *SExport:
		if d.IsTypeOnly {
			return ContainsTypeScript
		}

	case *SFunction:
		return fnTransformFlags(&d.Fn)

	case *EFunction:
		return fnTransformFlags(&d.Fn)

	case *EArrow:
		return fnTransformFlags(&d.Fn)

	case *CConstructor:
		return fnTransformFlags(&d.Fn)

	case *CMethod:
		flags = fnTransformFlags(&d.Fn)
		if d.IsOptional {
			flags |= ContainsTypeScript
		}

	case *CGetAccessor:
		return fnTransformFlags(&d.Fn)

	case *CSetAccessor:
		return fnTransformFlags(&d.Fn)

	case *CProperty:
		// Property declarations may need to move into the constructor, so the
		// class is always rewritten
		flags = ContainsTypeScript | ContainsTypeScriptClassSyntax

	case *SClass:
		if d.Class.Modifiers.Has(ModifierTypeScriptOnly) {
			return ContainsTypeScript
		}

	case *EClass:
		if d.Class.Modifiers.Has(ModifierTypeScriptOnly) {
			return ContainsTypeScript
		}
	}
	return
}

////////////////////////////////////////////////////////////////////////////////
// Constructors for commonly synthesized nodes

func (f *Factory) Ident(name string) *Node {
	return f.NewNode(&EIdentifier{Name: name}, logger.NoRange)
}

func (f *Factory) Num(value float64) *Node {
	return f.NewNode(&ENumber{Value: value}, logger.NoRange)
}

func (f *Factory) Str(value string) *Node {
	return f.NewNode(&EString{Value: value}, logger.NoRange)
}

func (f *Factory) Boolean(value bool) *Node {
	return f.NewNode(&EBoolean{Value: value}, logger.NoRange)
}

func (f *Factory) Null() *Node {
	return f.NewNode(&ENull{}, logger.NoRange)
}

func (f *Factory) This() *Node {
	return f.NewNode(&EThis{}, logger.NoRange)
}

func (f *Factory) Super() *Node {
	return f.NewNode(&ESuper{}, logger.NoRange)
}

// "void 0"
func (f *Factory) VoidZero() *Node {
	return f.NewNode(&EUnary{Op: UnOpVoid, Value: f.Num(0)}, logger.NoRange)
}

func (f *Factory) Dot(target *Node, name string) *Node {
	return f.NewNode(&EDot{Target: target, Name: f.Ident(name)}, logger.NoRange)
}

func (f *Factory) Index(target *Node, index *Node) *Node {
	return f.NewNode(&EIndex{Target: target, Index: index}, logger.NoRange)
}

func (f *Factory) Call(target *Node, args ...*Node) *Node {
	return f.NewNode(&ECall{Target: target, Args: args}, logger.NoRange)
}

func (f *Factory) New(target *Node, args ...*Node) *Node {
	return f.NewNode(&ENew{Target: target, Args: args}, logger.NoRange)
}

func (f *Factory) Paren(value *Node) *Node {
	return f.NewNode(&EParen{Value: value}, logger.NoRange)
}

func (f *Factory) Unary(op OpCode, value *Node) *Node {
	return f.NewNode(&EUnary{Op: op, Value: value}, logger.NoRange)
}

func (f *Factory) Binary(op OpCode, left *Node, right *Node) *Node {
	return f.NewNode(&EBinary{Op: op, Left: left, Right: right}, logger.NoRange)
}

func (f *Factory) Assign(left *Node, right *Node) *Node {
	return f.Binary(BinOpAssign, left, right)
}

func (f *Factory) Comma(left *Node, right *Node) *Node {
	return f.Binary(BinOpComma, left, right)
}

// Joins expressions with the comma operator, ignoring nils. Returns nil if
// there are no expressions.
func (f *Factory) JoinWithComma(values []*Node) (result *Node) {
	for _, value := range values {
		if value == nil {
			continue
		}
		if result == nil {
			result = value
		} else {
			result = f.Comma(result, value)
		}
	}
	return
}

func (f *Factory) Cond(test *Node, yes *Node, no *Node) *Node {
	return f.NewNode(&EIf{Test: test, Yes: yes, No: no}, logger.NoRange)
}

func (f *Factory) Array(items ...*Node) *Node {
	return f.NewNode(&EArray{Items: items}, logger.NoRange)
}

func (f *Factory) Object(properties ...*Node) *Node {
	return f.NewNode(&EObject{Properties: properties}, logger.NoRange)
}

func (f *Factory) PropertyAssignment(name *Node, value *Node) *Node {
	return f.NewNode(&PropertyAssignment{Name: name, Initializer: value}, logger.NoRange)
}

func (f *Factory) PartiallyEmitted(value *Node, original *Node) *Node {
	n := f.NewNode(&EPartiallyEmitted{Value: value}, logger.NoRange)
	n.Original = original
	if original != nil {
		n.Range = original.Range
	}
	return n
}

func (f *Factory) ExprStmt(value *Node) *Node {
	return f.NewNode(&SExpr{Value: value}, logger.NoRange)
}

func (f *Factory) Return(value *Node) *Node {
	return f.NewNode(&SReturn{Value: value}, logger.NoRange)
}

func (f *Factory) Block(stmts ...*Node) *Node {
	return f.NewNode(&Block{Stmts: stmts, IsMultiLine: true}, logger.NoRange)
}

func (f *Factory) VarDecl(name *Node, value *Node) *Node {
	return f.NewNode(&VariableDeclaration{Name: name, Initializer: value}, logger.NoRange)
}

func (f *Factory) Local(kind LocalKind, decls ...*Node) *Node {
	return f.NewNode(&SLocal{LocalKind: kind, Decls: decls}, logger.NoRange)
}

// A placeholder that prints nothing but keeps the comments of "original"
func (f *Factory) NotEmitted(original *Node) *Node {
	n := f.NewNodeFrom(original, &SNotEmitted{})
	if original != nil {
		n.Range = original.Range
		n.Comments = original.Comments
	}
	return n
}

func (f *Factory) MergeMarker(original *Node) *Node {
	return f.NewNodeFrom(original, &SMergeMarker{})
}

func (f *Factory) EndOfDeclaration(original *Node) *Node {
	return f.NewNodeFrom(original, &SEndOfDeclaration{})
}

func (f *Factory) List(nodes ...*Node) *Node {
	return f.NewNode(&SyntaxList{Nodes: nodes}, logger.NoRange)
}

func (f *Factory) Param(name *Node) *Node {
	return f.NewNode(&Parameter{Name: name}, logger.NoRange)
}

func (f *Factory) Arrow(params []*Node, stmts ...*Node) *Node {
	return f.NewNode(&EArrow{Fn: Fn{Params: params, Body: f.Block(stmts...)}}, logger.NoRange)
}

func (f *Factory) FunctionExpr(params []*Node, stmts ...*Node) *Node {
	return f.NewNode(&EFunction{Fn: Fn{Params: params, Body: f.Block(stmts...)}}, logger.NoRange)
}

// Copies an identifier with new emit flags. The clone shares the original so
// the printer can still resolve it through the oracle.
func (f *Factory) CloneIdent(id *Node, flags EmitFlags) *Node {
	data, ok := id.Data.(*EIdentifier)
	if !ok {
		panic(fmt.Sprintf("Internal error: expected an identifier but got %T", id.Data))
	}
	clone := f.NewNode(&EIdentifier{Name: data.Name, IsGenerated: data.IsGenerated}, id.Range)
	clone.Original = id
	clone.EmitFlags = flags
	return clone
}

// Creates the property access "target.name" for an identifier "name" taken
// from the source tree. The name is cloned so that it is never substituted.
func (f *Factory) QualifiedAccess(target *Node, name *Node) *Node {
	return f.NewNode(&EDot{Target: target, Name: f.CloneIdent(name, EmitNoSubstitution|EmitNoComments)}, logger.NoRange)
}
