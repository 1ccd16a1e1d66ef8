package ts_transform

import (
	"strings"

	"github.com/evanw/tslower/internal/config"
	"github.com/evanw/tslower/internal/helpers"
	"github.com/evanw/tslower/internal/ts_ast"
	"github.com/evanw/tslower/internal/ts_checker"
)

type substitutionFlags uint8

const (
	// References to a decorated class from inside its body use the alias
	substituteClassAliases substitutionFlags = 1 << iota

	// References to namespace exports from inside a namespace become "N.x"
	substituteNamespaceExports

	// References to members of a non-constant enum from inside the enum
	// become "E.x"
	substituteNonQualifiedEnumMembers
)

// Substitution rewrites identifiers and property accesses while the
// lowered tree is printed. It implements the printer's hooks. Substitutions
// are enabled by the transform as it discovers it needs them, and the ones
// that depend on the enclosing namespace only apply while the lowered form
// of that namespace is being printed.
type Substitution struct {
	f               *ts_ast.Factory
	resolver        ts_checker.EmitResolver
	isolatedModules bool
	removeComments  bool

	enabled           substitutionFlags
	substitutionKinds map[ts_ast.Kind]bool
	notificationKinds map[ts_ast.Kind]bool

	classAliases map[ts_ast.NodeID]*ts_ast.Node

	// The closure parameter of each lowered namespace or enum, by original
	// declaration
	containerNames map[*ts_ast.Node]*ts_ast.Node

	// Print-time state
	applicable substitutionFlags
	containers []*ts_ast.Node
}

func newSubstitution(f *ts_ast.Factory, resolver ts_checker.EmitResolver, options config.Options) *Substitution {
	s := &Substitution{
		f:                 f,
		resolver:          resolver,
		isolatedModules:   options.IsolatedModules,
		removeComments:    options.RemoveComments,
		substitutionKinds: make(map[ts_ast.Kind]bool),
		notificationKinds: make(map[ts_ast.Kind]bool),
		classAliases:      make(map[ts_ast.NodeID]*ts_ast.Node),
		containerNames:    make(map[*ts_ast.Node]*ts_ast.Node),
	}

	// Const enum values are inlined wherever they are accessed
	s.substitutionKinds[ts_ast.KindPropertyAccessExpression] = true
	s.substitutionKinds[ts_ast.KindElementAccessExpression] = true
	return s
}

func (s *Substitution) enableClassAliases() {
	if s.enabled&substituteClassAliases == 0 {
		s.enabled |= substituteClassAliases
		s.substitutionKinds[ts_ast.KindIdentifier] = true
	}
}

func (s *Substitution) enableNamespaceExports() {
	if s.enabled&substituteNamespaceExports == 0 {
		s.enabled |= substituteNamespaceExports
		s.substitutionKinds[ts_ast.KindIdentifier] = true
		s.substitutionKinds[ts_ast.KindShorthandPropertyAssignment] = true
		s.notificationKinds[ts_ast.KindModuleDeclaration] = true
	}
}

func (s *Substitution) enableNonQualifiedEnumMembers() {
	if s.enabled&substituteNonQualifiedEnumMembers == 0 {
		s.enabled |= substituteNonQualifiedEnumMembers
		s.substitutionKinds[ts_ast.KindIdentifier] = true
		s.notificationKinds[ts_ast.KindEnumDeclaration] = true
	}
}

func (s *Substitution) IsSubstitutionEnabled(kind ts_ast.Kind) bool {
	return s.substitutionKinds[kind]
}

func (s *Substitution) IsEmitNotificationEnabled(kind ts_ast.Kind) bool {
	return s.notificationKinds[kind]
}

func (s *Substitution) OnEmitNode(node *ts_ast.Node, emit func(*ts_ast.Node)) {
	savedApplicable := s.applicable
	savedDepth := len(s.containers)

	original := ts_ast.GetOriginal(node)
	switch original.Data.(type) {
	case *ts_ast.SNamespace:
		if s.enabled&substituteNamespaceExports != 0 {
			s.applicable |= substituteNamespaceExports
			s.containers = append(s.containers, original)
		}

	case *ts_ast.SEnum:
		if s.enabled&substituteNonQualifiedEnumMembers != 0 {
			s.applicable |= substituteNonQualifiedEnumMembers
			s.containers = append(s.containers, original)
		}
	}

	emit(node)

	s.applicable = savedApplicable
	s.containers = s.containers[:savedDepth]
}

func (s *Substitution) OnSubstituteNode(node *ts_ast.Node) *ts_ast.Node {
	switch d := node.Data.(type) {
	case *ts_ast.EIdentifier:
		if result := s.trySubstituteClassAlias(node); result != nil {
			return result
		}
		if result := s.trySubstituteNamespaceExportedName(node); result != nil {
			return result
		}

	case *ts_ast.EDot, *ts_ast.EIndex:
		return s.substituteConstantValue(node)

	case *ts_ast.ShorthandPropertyAssignment:
		if s.enabled&substituteNamespaceExports != 0 {
			if exportedName := s.trySubstituteNamespaceExportedName(d.Name); exportedName != nil {
				// A shorthand property with an initializer is part of a
				// destructuring assignment
				value := exportedName
				if d.ObjectAssignmentInitializer != nil {
					value = s.f.Assign(exportedName, d.ObjectAssignmentInitializer)
				}
				result := s.f.PropertyAssignment(d.Name, value)
				result.Range = node.Range
				return result
			}
		}
	}
	return node
}

func (s *Substitution) trySubstituteClassAlias(node *ts_ast.Node) *ts_ast.Node {
	if s.enabled&substituteClassAliases == 0 {
		return nil
	}
	original := ts_ast.GetOriginal(node)
	if !s.resolver.NodeCheckFlags(original).Has(ts_checker.CheckConstructorReferenceInClass) {
		return nil
	}
	decl := s.resolver.GetReferencedValueDeclaration(original)
	if decl == nil {
		return nil
	}
	alias, ok := s.classAliases[decl.ID]
	if !ok {
		return nil
	}
	clone := s.f.CloneIdent(alias, ts_ast.EmitNoSubstitution)
	clone.Range = node.Range
	clone.Comments = node.Comments
	return clone
}

func (s *Substitution) trySubstituteNamespaceExportedName(node *ts_ast.Node) *ts_ast.Node {
	if s.applicable&(substituteNamespaceExports|substituteNonQualifiedEnumMembers) == 0 {
		return nil
	}

	// Generated names and explicit local names are never qualified
	if ts_ast.IsGeneratedIdentifier(node) || node.EmitFlags.Has(ts_ast.EmitLocalName) {
		return nil
	}

	container := s.resolver.GetReferencedExportContainer(ts_ast.GetOriginal(node))
	if container == nil {
		return nil
	}
	switch container.Data.(type) {
	case *ts_ast.SNamespace:
		if s.applicable&substituteNamespaceExports == 0 {
			return nil
		}
	case *ts_ast.SEnum:
		if s.applicable&substituteNonQualifiedEnumMembers == 0 {
			return nil
		}
	default:
		return nil
	}
	if !s.isBeingEmitted(container) {
		return nil
	}
	name, ok := s.containerNames[container]
	if !ok {
		return nil
	}
	result := s.f.QualifiedAccess(s.f.CloneIdent(name, ts_ast.EmitNoSubstitution), node)
	result.Range = node.Range
	result.Comments = node.Comments
	return result
}

func (s *Substitution) isBeingEmitted(container *ts_ast.Node) bool {
	for _, c := range s.containers {
		if c == container {
			return true
		}
	}
	return false
}

func (s *Substitution) substituteConstantValue(node *ts_ast.Node) *ts_ast.Node {
	if s.isolatedModules {
		return node
	}
	original := ts_ast.GetOriginal(node)
	value, ok := s.resolver.GetConstantValue(original)
	if !ok {
		return node
	}

	var result *ts_ast.Node
	switch v := value.(type) {
	case string:
		result = s.f.Str(v)
	case float64:
		result = s.f.Num(v)
	default:
		return node
	}
	result.Range = node.Range

	// "E.A" becomes "0 /* A */"
	if !s.removeComments {
		result.Comments = &ts_ast.Comments{Trailing: []ts_ast.Comment{{
			Text:        " " + safeMultiLineComment(accessText(original)) + " ",
			IsMultiLine: true,
		}}}
	}
	return result
}

func accessText(node *ts_ast.Node) string {
	switch d := node.Data.(type) {
	case *ts_ast.EDot:
		return ts_ast.IdentifierText(d.Name)
	case *ts_ast.EIndex:
		if str, ok := d.Index.Data.(*ts_ast.EString); ok {
			return string(helpers.QuoteForJS(str.Value, '"'))
		}
	}
	return ""
}

func safeMultiLineComment(text string) string {
	return strings.ReplaceAll(text, "*/", "*_/")
}
