package ts_ast

import (
	"fmt"
	"reflect"
)

// A slot is the location of one child field of a payload. Exactly one of
// the two pointers is set.
type slot struct {
	one  **Node
	many *[]*Node
}

func one(n **Node) slot { return slot{one: n} }

func many(n *[]*Node) slot { return slot{many: n} }

func fnSlots(fn *Fn) []slot {
	return []slot{one(&fn.Name), many(&fn.TypeParameters), many(&fn.Params), one(&fn.ReturnType), one(&fn.Body)}
}

func classSlots(c *Class) []slot {
	return []slot{many(&c.Decorators), one(&c.Name), many(&c.TypeParameters), many(&c.Heritage), many(&c.Members)}
}

// Returns the child fields of a payload in source order. The returned slots
// point into "data" itself, so callers that want to rewrite children must
// pass a copy.
func slotsOf(data N) []slot {
	switch d := data.(type) {
	case *SourceFile:
		return []slot{many(&d.Stmts)}
	case *QualifiedName:
		return []slot{one(&d.Left), one(&d.Right)}
	case *ComputedPropertyName:
		return []slot{one(&d.Value)}
	case *Decorator:
		return []slot{one(&d.Value)}
	case *TypeParameter:
		return []slot{one(&d.Name), one(&d.Constraint), one(&d.Default)}
	case *Parameter:
		return []slot{many(&d.Decorators), one(&d.Name), one(&d.Type), one(&d.Initializer)}
	case *HeritageClause:
		return []slot{many(&d.Types)}
	case *ExpressionWithTypeArguments:
		return []slot{one(&d.Value), many(&d.TypeArguments)}
	case *VariableDeclaration:
		return []slot{one(&d.Name), one(&d.Type), one(&d.Initializer)}
	case *ObjectBindingPattern:
		return []slot{many(&d.Elements)}
	case *ArrayBindingPattern:
		return []slot{many(&d.Elements)}
	case *BindingElement:
		return []slot{one(&d.PropertyName), one(&d.Name), one(&d.Initializer)}
	case *EnumMember:
		return []slot{one(&d.Name), one(&d.Initializer)}
	case *CatchClause:
		return []slot{one(&d.VariableDeclaration), one(&d.Block)}
	case *CaseBlock:
		return []slot{many(&d.Clauses)}
	case *CaseClause:
		return []slot{one(&d.Test), many(&d.Body)}
	case *ImportClause:
		return []slot{one(&d.Name), one(&d.NamedBindings)}
	case *NamespaceImport:
		return []slot{one(&d.Name)}
	case *NamedImports:
		return []slot{many(&d.Elements)}
	case *ImportSpecifier:
		return []slot{one(&d.PropertyName), one(&d.Name)}
	case *NamedExports:
		return []slot{many(&d.Elements)}
	case *NamespaceExport:
		return []slot{one(&d.Name)}
	case *ExportSpecifier:
		return []slot{one(&d.PropertyName), one(&d.Name)}
	case *PropertyAssignment:
		return []slot{one(&d.Name), one(&d.Initializer)}
	case *ShorthandPropertyAssignment:
		return []slot{one(&d.Name), one(&d.ObjectAssignmentInitializer)}
	case *SpreadAssignment:
		return []slot{one(&d.Value)}
	case *TemplateSpan:
		return []slot{one(&d.Value)}
	case *ModuleBlock:
		return []slot{many(&d.Stmts)}
	case *Block:
		return []slot{many(&d.Stmts)}
	case *SyntaxList:
		return []slot{many(&d.Nodes)}

	case *ETemplate:
		return []slot{one(&d.Tag), many(&d.TypeArguments), many(&d.Spans)}
	case *EArray:
		return []slot{many(&d.Items)}
	case *EObject:
		return []slot{many(&d.Properties)}
	case *EDot:
		return []slot{one(&d.Target), one(&d.Name)}
	case *EIndex:
		return []slot{one(&d.Target), one(&d.Index)}
	case *ECall:
		return []slot{one(&d.Target), many(&d.TypeArguments), many(&d.Args)}
	case *ENew:
		return []slot{one(&d.Target), many(&d.TypeArguments), many(&d.Args)}
	case *EParen:
		return []slot{one(&d.Value)}
	case *ETypeAssertion:
		return []slot{one(&d.Type), one(&d.Value)}
	case *EAs:
		return []slot{one(&d.Value), one(&d.Type)}
	case *ESatisfies:
		return []slot{one(&d.Value), one(&d.Type)}
	case *ENonNull:
		return []slot{one(&d.Value)}
	case *EPartiallyEmitted:
		return []slot{one(&d.Value)}
	case *EUnary:
		return []slot{one(&d.Value)}
	case *EBinary:
		return []slot{one(&d.Left), one(&d.Right)}
	case *EIf:
		return []slot{one(&d.Test), one(&d.Yes), one(&d.No)}
	case *EFunction:
		return fnSlots(&d.Fn)
	case *EArrow:
		return fnSlots(&d.Fn)
	case *EClass:
		return classSlots(&d.Class)
	case *ESpread:
		return []slot{one(&d.Value)}
	case *EYield:
		return []slot{one(&d.Value)}
	case *EAwait:
		return []slot{one(&d.Value)}

	case *SExpr:
		return []slot{one(&d.Value)}
	case *SLocal:
		return []slot{many(&d.Decls)}
	case *SIf:
		return []slot{one(&d.Test), one(&d.Yes), one(&d.No)}
	case *SFor:
		return []slot{one(&d.Init), one(&d.Test), one(&d.Update), one(&d.Body)}
	case *SForIn:
		return []slot{one(&d.Init), one(&d.Value), one(&d.Body)}
	case *SForOf:
		return []slot{one(&d.Init), one(&d.Value), one(&d.Body)}
	case *SWhile:
		return []slot{one(&d.Test), one(&d.Body)}
	case *SDoWhile:
		return []slot{one(&d.Body), one(&d.Test)}
	case *SReturn:
		return []slot{one(&d.Value)}
	case *SThrow:
		return []slot{one(&d.Value)}
	case *SBreak:
		return []slot{one(&d.Label)}
	case *SContinue:
		return []slot{one(&d.Label)}
	case *SLabel:
		return []slot{one(&d.Name), one(&d.Stmt)}
	case *SSwitch:
		return []slot{one(&d.Test), one(&d.CaseBlock)}
	case *STry:
		return []slot{one(&d.Block), one(&d.Catch), one(&d.Finally)}
	case *SFunction:
		return fnSlots(&d.Fn)
	case *SClass:
		return classSlots(&d.Class)
	case *SInterface:
		return []slot{one(&d.Name), many(&d.TypeParameters), many(&d.Heritage), many(&d.Members)}
	case *STypeAlias:
		return []slot{one(&d.Name), many(&d.TypeParameters), one(&d.Type)}
	case *SEnum:
		return []slot{one(&d.Name), many(&d.Members)}
	case *SNamespace:
		return []slot{one(&d.Name), one(&d.Body)}
	case *SImport:
		return []slot{one(&d.ImportClause)}
	case *SImportEquals:
		return []slot{one(&d.Name), one(&d.ModuleReference)}
	case *SExport:
		return []slot{one(&d.ExportClause)}
	case *SExportAssignment:
		return []slot{one(&d.Value)}

	case *CProperty:
		return []slot{many(&d.Decorators), one(&d.Key), one(&d.Type), one(&d.Initializer)}
	case *CMethod:
		return append([]slot{many(&d.Decorators), one(&d.Key)}, fnSlots(&d.Fn)...)
	case *CGetAccessor:
		return append([]slot{many(&d.Decorators), one(&d.Key)}, fnSlots(&d.Fn)...)
	case *CSetAccessor:
		return append([]slot{many(&d.Decorators), one(&d.Key)}, fnSlots(&d.Fn)...)
	case *CConstructor:
		return fnSlots(&d.Fn)
	case *CIndexSignature:
		return []slot{many(&d.Params), one(&d.Type)}
	case *CStaticBlock:
		return []slot{one(&d.Body)}

	case *TReference:
		return []slot{one(&d.TypeName), many(&d.TypeArguments)}
	case *TArray:
		return []slot{one(&d.Elem)}
	case *TTuple:
		return []slot{many(&d.Elements)}
	case *TOptional:
		return []slot{one(&d.Type)}
	case *TRest:
		return []slot{one(&d.Type)}
	case *TUnion:
		return []slot{many(&d.Types)}
	case *TIntersection:
		return []slot{many(&d.Types)}
	case *TConditional:
		return []slot{one(&d.Check), one(&d.Extends), one(&d.True), one(&d.False)}
	case *TInfer:
		return []slot{one(&d.TypeParameter)}
	case *TFunction:
		return []slot{many(&d.TypeParameters), many(&d.Params), one(&d.Return)}
	case *TConstructor:
		return []slot{many(&d.TypeParameters), many(&d.Params), one(&d.Return)}
	case *TParenthesized:
		return []slot{one(&d.Type)}
	case *TPredicate:
		return []slot{one(&d.ParameterName), one(&d.Type)}
	case *TLiteral:
		return []slot{one(&d.Literal)}
	case *TTemplateLiteral:
		return []slot{many(&d.Spans)}
	case *TTypeLiteral:
		return []slot{many(&d.Members)}
	case *TPropertySignature:
		return []slot{one(&d.Name), one(&d.Type)}
	case *TMethodSignature:
		return []slot{one(&d.Name), many(&d.TypeParameters), many(&d.Params), one(&d.Return)}
	case *TCallSignature:
		return []slot{many(&d.TypeParameters), many(&d.Params), one(&d.Return)}
	case *TConstructSignature:
		return []slot{many(&d.TypeParameters), many(&d.Params), one(&d.Return)}
	case *TQuery:
		return []slot{one(&d.ExprName), many(&d.TypeArguments)}
	case *TOperator:
		return []slot{one(&d.Type)}
	case *TIndexedAccess:
		return []slot{one(&d.Object), one(&d.Index)}
	case *TMapped:
		return []slot{one(&d.TypeParameter), one(&d.NameType), one(&d.Type)}
	case *TImport:
		return []slot{one(&d.Qualifier), many(&d.TypeArguments)}

	case *EIdentifier, *EPrivateIdentifier, *ENumber, *EString, *EBigInt, *ERegExp,
		*EBoolean, *ENull, *EThis, *ESuper, *EOmitted, *SEmpty, *SDirective, *SDebugger,
		*SNotEmitted, *SMergeMarker, *SEndOfDeclaration, *CSemicolon, *TKeyword, *TThis,
		*ExternalModuleReference:
		return nil
	}

	panic(fmt.Sprintf("Internal error: unexpected node payload %T", data))
}

// Calls "fn" on every non-nil child of "n" in source order
func ForEachChild(n *Node, fn func(child *Node)) {
	for _, s := range slotsOf(n.Data) {
		if s.one != nil {
			if *s.one != nil {
				fn(*s.one)
			}
			continue
		}
		for _, child := range *s.many {
			if child != nil {
				fn(child)
			}
		}
	}
}

// Returns true if "fn" returned true for any node in the subtree rooted at
// "n", not including "n" itself. The walk stops early when that happens.
func SomeDescendant(n *Node, fn func(*Node) bool) bool {
	found := false
	var visit func(*Node)
	visit = func(child *Node) {
		if found {
			return
		}
		if fn(child) {
			found = true
			return
		}
		ForEachChild(child, visit)
	}
	ForEachChild(n, visit)
	return found
}

// The result of a visitor callback replaces the visited node. Returning nil
// removes the node from its parent (only valid for optional children and list
// elements) and returning a "SyntaxList" splices several nodes into a list.
type Visitor func(*Node) *Node

func VisitNode(n *Node, v Visitor) *Node {
	if n == nil {
		return nil
	}
	result := v(n)
	if result != nil {
		if _, ok := result.Data.(*SyntaxList); ok {
			panic("Internal error: a list of nodes cannot replace a single node")
		}
	}
	return result
}

// Visits each element of a list. The original slice is returned when
// nothing changed so that callers can detect updates with a length and
// pointer comparison.
func VisitNodes(nodes []*Node, v Visitor) []*Node {
	var result []*Node
	changed := false
	for i, n := range nodes {
		visited := v(n)
		if !changed && visited == n {
			continue
		}
		if !changed {
			changed = true
			result = make([]*Node, 0, len(nodes))
			result = append(result, nodes[:i]...)
		}
		if visited == nil {
			continue
		}
		if list, ok := visited.Data.(*SyntaxList); ok {
			for _, item := range list.Nodes {
				if item != nil {
					result = append(result, item)
				}
			}
			continue
		}
		result = append(result, visited)
	}
	if !changed {
		return nodes
	}
	return result
}

// Visits every child of "n" and returns "n" itself if no child changed.
// Otherwise a shallow copy with the new children is created through the
// factory, linked back to "n" as its original node.
func (f *Factory) VisitEachChild(n *Node, v Visitor) *Node {
	if n == nil {
		return nil
	}
	copied := cloneData(n.Data)
	changed := false
	for _, s := range slotsOf(copied) {
		if s.one != nil {
			if old := *s.one; old != nil {
				if visited := VisitNode(old, v); visited != old {
					*s.one = visited
					changed = true
				}
			}
			continue
		}
		old := *s.many
		if visited := VisitNodes(old, v); !sameNodes(old, visited) {
			*s.many = visited
			changed = true
		}
	}
	if !changed {
		return n
	}
	return f.Update(n, copied)
}

func sameNodes(a []*Node, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Shallow copy of a payload. Payloads are always pointers to structs.
func cloneData(data N) N {
	v := reflect.ValueOf(data).Elem()
	clone := reflect.New(v.Type())
	clone.Elem().Set(v)
	return clone.Interface().(N)
}

// Sets "Parent" on every node below "root". Trees built by hand (or by a
// parser outside this module) need this before they are given to the
// resolution oracle.
func SetParentPointers(root *Node) {
	var visit func(parent *Node)
	visit = func(parent *Node) {
		ForEachChild(parent, func(child *Node) {
			child.Parent = parent
			visit(child)
		})
	}
	visit(root)
}

// Recomputes the transform flags of every node in the subtree. This is only
// needed when a payload was mutated after the node was created.
func AggregateTransformFlags(root *Node) TransformFlags {
	ForEachChild(root, func(child *Node) {
		AggregateTransformFlags(child)
	})
	root.TransformFlags = computeTransformFlags(root)
	return root.TransformFlags
}
