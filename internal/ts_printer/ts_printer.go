package ts_printer

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/evanw/tslower/internal/helpers"
	"github.com/evanw/tslower/internal/runtime"
	"github.com/evanw/tslower/internal/ts_ast"
)

// The transform installs these to rewrite identifiers while the tree is being
// printed. Substitution is consulted once for every expression node whose
// kind is enabled. Emit notification wraps the printing of any statement that
// carries "EmitAdviseOnEmitNode" and whose original node kind is enabled, so
// the hook can track which lowered container is currently being printed.
type Hooks interface {
	IsSubstitutionEnabled(kind ts_ast.Kind) bool
	OnSubstituteNode(node *ts_ast.Node) *ts_ast.Node
	IsEmitNotificationEnabled(kind ts_ast.Kind) bool
	OnEmitNode(node *ts_ast.Node, emit func(*ts_ast.Node))
}

type Options struct {
	Hooks   Hooks
	Helpers []*runtime.Helper

	// The initial indentation level
	Indent int

	RemoveComments bool
}

type PrintResult struct {
	JS []byte
}

type printer struct {
	options        Options
	js             []byte
	indent         int
	stmtStart      int
	exportDefault  int
	arrowExprStart int
	prevOp         ts_ast.OpCode
	prevOpEnd      int
	prevNumStart   int
	prevNumEnd     int
	prevRegExpEnd  int
}

type printExprFlags uint8

const (
	forbidCall printExprFlags = 1 << iota
	forbidIn
	skipSubstitution
)

func (flags printExprFlags) has(flag printExprFlags) bool {
	return (flags & flag) != 0
}

func Print(file *ts_ast.Node, options Options) PrintResult {
	source, ok := file.Data.(*ts_ast.SourceFile)
	if !ok {
		panic(fmt.Sprintf("Internal error: expected a source file but got %T", file.Data))
	}
	p := newPrinter(options)

	// Prologue directives must stay in front of the runtime helpers
	stmts := source.Stmts
	for len(stmts) > 0 && ts_ast.IsPrologueDirective(stmts[0]) {
		p.printStmt(stmts[0])
		stmts = stmts[1:]
	}
	prologue := p.js
	p.js = nil

	p.emit(file, func(*ts_ast.Node) {
		for _, stmt := range stmts {
			p.printStmt(stmt)
		}
	})

	j := helpers.Joiner{}
	j.AddBytes(prologue)
	for _, helper := range runtime.SortHelpers(options.Helpers) {
		j.AddString(helper.Text)
		j.AddString("\n")
	}
	j.AddBytes(p.js)
	return PrintResult{JS: j.Done()}
}

// Prints a single statement. This is mostly useful for tests and debugging.
func PrintStmt(stmt *ts_ast.Node, options Options) string {
	p := newPrinter(options)
	p.printStmt(stmt)
	return string(p.js)
}

// Prints a single expression without a trailing newline
func PrintExpr(expr *ts_ast.Node, options Options) string {
	p := newPrinter(options)
	p.printExpr(expr, ts_ast.LLowest, 0)
	return string(p.js)
}

func newPrinter(options Options) *printer {
	return &printer{
		options:        options,
		indent:         options.Indent,
		stmtStart:      -1,
		exportDefault:  -1,
		arrowExprStart: -1,
		prevOpEnd:      -1,
		prevNumEnd:     -1,
		prevRegExpEnd:  -1,
	}
}

////////////////////////////////////////////////////////////////////////////////
// Low-level output

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

func (p *printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		p.print("    ")
	}
}

func (p *printer) printNewline() {
	p.print("\n")
}

func (p *printer) printSpaceBeforeIdentifier() {
	if c, _ := utf8.DecodeLastRune(p.js); isIdentifierContinue(c) || p.prevRegExpEnd == len(p.js) {
		p.print(" ")
	}
}

func (p *printer) printSpaceBeforeOperator(next ts_ast.OpCode) {
	if p.prevOpEnd == len(p.js) {
		prev := p.prevOp

		// "+ + y" => "+ +y"
		// "- - y" => "- -y"
		// "x-- > y" must not become "x-->y"
		if ((prev == ts_ast.BinOpAdd || prev == ts_ast.UnOpPos) && (next == ts_ast.BinOpAdd || next == ts_ast.UnOpPos || next == ts_ast.UnOpPreInc)) ||
			((prev == ts_ast.BinOpSub || prev == ts_ast.UnOpNeg) && (next == ts_ast.BinOpSub || next == ts_ast.UnOpNeg || next == ts_ast.UnOpPreDec)) ||
			(prev == ts_ast.UnOpPostDec && next == ts_ast.BinOpGt) {
			p.print(" ")
		}
	}
}

func (p *printer) printQuotedUTF8(text string) {
	p.js = append(p.js, helpers.QuoteForJS(text, '"')...)
}

func isIdentifierStart(c rune) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c > 0x7F && unicode.IsLetter(c))
}

func isIdentifierContinue(c rune) bool {
	return isIdentifierStart(c) || (c >= '0' && c <= '9') ||
		(c > 0x7F && (unicode.IsDigit(c) || unicode.Is(unicode.Mn, c) || unicode.Is(unicode.Mc, c)))
}

////////////////////////////////////////////////////////////////////////////////
// Hooks

func (p *printer) emit(node *ts_ast.Node, callback func(*ts_ast.Node)) {
	hooks := p.options.Hooks
	if hooks != nil && (node.EmitFlags.Has(ts_ast.EmitAdviseOnEmitNode) || node.Kind() == ts_ast.KindSourceFile) &&
		hooks.IsEmitNotificationEnabled(ts_ast.GetOriginal(node).Kind()) {
		hooks.OnEmitNode(node, callback)
		return
	}
	callback(node)
}

func (p *printer) substitute(node *ts_ast.Node) *ts_ast.Node {
	hooks := p.options.Hooks
	if hooks != nil && !node.EmitFlags.Has(ts_ast.EmitNoSubstitution) && hooks.IsSubstitutionEnabled(node.Kind()) {
		if result := hooks.OnSubstituteNode(node); result != nil {
			return result
		}
	}
	return node
}

////////////////////////////////////////////////////////////////////////////////
// Comments

func (p *printer) printComment(comment ts_ast.Comment) {
	if comment.IsMultiLine {
		p.print("/*")
		p.print(comment.Text)
		p.print("*/")
	} else {
		p.print("//")
		p.print(comment.Text)
	}
}

func (p *printer) leadingComments(node *ts_ast.Node) []ts_ast.Comment {
	if p.options.RemoveComments || node.Comments == nil ||
		node.EmitFlags.Has(ts_ast.EmitNoComments) || node.EmitFlags.Has(ts_ast.EmitNoLeadingComments) {
		return nil
	}
	return node.Comments.Leading
}

func (p *printer) trailingComments(node *ts_ast.Node) []ts_ast.Comment {
	if p.options.RemoveComments || node.Comments == nil ||
		node.EmitFlags.Has(ts_ast.EmitNoComments) || node.EmitFlags.Has(ts_ast.EmitNoTrailingComments) {
		return nil
	}
	return node.Comments.Trailing
}

func (p *printer) printLeadingCommentsOfStmt(stmt *ts_ast.Node) {
	for _, comment := range p.leadingComments(stmt) {
		p.printIndent()
		p.printComment(comment)
		p.printNewline()
	}
}

func (p *printer) printTrailingCommentsOfStmt(stmt *ts_ast.Node) {
	comments := p.trailingComments(stmt)
	if len(comments) == 0 {
		return
	}
	hadNewline := len(p.js) > 0 && p.js[len(p.js)-1] == '\n'
	if hadNewline {
		p.js = p.js[:len(p.js)-1]
	}
	for _, comment := range comments {
		p.print(" ")
		p.printComment(comment)
	}
	if hadNewline {
		p.printNewline()
	}
}

func (p *printer) printLeadingCommentsOfExpr(expr *ts_ast.Node) {
	for _, comment := range p.leadingComments(expr) {
		p.printComment(comment)
		p.print(" ")
	}
}

func (p *printer) printTrailingCommentsOfExpr(expr *ts_ast.Node) {
	for _, comment := range p.trailingComments(expr) {
		p.print(" ")
		if comment.IsMultiLine {
			p.printComment(comment)
		} else {
			// A line comment would swallow the rest of the expression
			p.print("/*")
			p.print(comment.Text)
			p.print("*/")
		}
	}
}

////////////////////////////////////////////////////////////////////////////////
// Expressions

func (p *printer) printNumber(value float64, level ts_ast.L) {
	switch {
	case value != value:
		p.printSpaceBeforeIdentifier()
		p.print("NaN")

	case math.IsInf(value, 0):
		wrap := value < 0 && level >= ts_ast.LPrefix
		if wrap {
			p.print("(")
		}
		if value < 0 {
			p.printSpaceBeforeOperator(ts_ast.UnOpNeg)
			p.print("-")
		} else {
			p.printSpaceBeforeIdentifier()
		}
		p.print("Infinity")
		if wrap {
			p.print(")")
		}

	default:
		text := ts_ast.NumberToString(math.Abs(value))
		negative := value < 0 || (value == 0 && math.Signbit(value))
		wrap := negative && level >= ts_ast.LPrefix
		if wrap {
			p.print("(")
		}
		if negative {
			p.printSpaceBeforeOperator(ts_ast.UnOpNeg)
			p.print("-")

			// Remember that a "-" was printed so "- -1" keeps its space
			p.prevOp = ts_ast.UnOpNeg
			p.prevOpEnd = len(p.js)
		} else {
			p.printSpaceBeforeIdentifier()
		}
		p.prevNumStart = len(p.js)
		p.print(text)
		p.prevNumEnd = len(p.js)
		if wrap {
			p.print(")")
		}
	}
}

func (p *printer) printExpr(expr *ts_ast.Node, level ts_ast.L, flags printExprFlags) {
	if !flags.has(skipSubstitution) {
		if result := p.substitute(expr); result != expr {
			p.printExpr(result, level, flags|skipSubstitution)
			return
		}
	}
	flags &= ^skipSubstitution

	p.printLeadingCommentsOfExpr(expr)

	switch e := expr.Data.(type) {
	case *ts_ast.EIdentifier:
		p.printSpaceBeforeIdentifier()
		p.print(e.Name)

	case *ts_ast.EPrivateIdentifier:
		p.printSpaceBeforeIdentifier()
		if !strings.HasPrefix(e.Name, "#") {
			p.print("#")
		}
		p.print(e.Name)

	case *ts_ast.ENumber:
		p.printNumber(e.Value, level)

	case *ts_ast.EString:
		p.printQuotedUTF8(e.Value)

	case *ts_ast.EBigInt:
		p.printSpaceBeforeIdentifier()
		p.print(e.Value)
		p.print("n")

	case *ts_ast.ERegExp:
		p.printSpaceBeforeIdentifier()
		p.print(e.Value)
		p.prevRegExpEnd = len(p.js)

	case *ts_ast.EBoolean:
		p.printSpaceBeforeIdentifier()
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *ts_ast.ENull:
		p.printSpaceBeforeIdentifier()
		p.print("null")

	case *ts_ast.EThis:
		p.printSpaceBeforeIdentifier()
		p.print("this")

	case *ts_ast.ESuper:
		p.printSpaceBeforeIdentifier()
		p.print("super")

	case *ts_ast.EOmitted:

	case *ts_ast.ETemplate:
		if e.Tag != nil {
			p.printExpr(e.Tag, ts_ast.LPostfix, 0)
		}
		p.print("`")
		p.print(e.Head)
		for _, span := range e.Spans {
			s := span.Data.(*ts_ast.TemplateSpan)
			p.print("${")
			p.printExpr(s.Value, ts_ast.LLowest, 0)
			p.print("}")
			p.print(s.Tail)
		}
		p.print("`")

	case *ts_ast.EArray:
		p.print("[")
		for i, item := range e.Items {
			if i != 0 {
				p.print(", ")
			}
			p.printExpr(item, ts_ast.LComma, 0)

			// "[,]" has one element but "[a,]" also has one
			if _, ok := item.Data.(*ts_ast.EOmitted); ok && i == len(e.Items)-1 {
				p.print(",")
			}
		}
		p.print("]")

	case *ts_ast.EObject:
		wrap := p.stmtStart == len(p.js) || p.arrowExprStart == len(p.js)
		if wrap {
			p.print("(")
		}
		p.printObject(e)
		if wrap {
			p.print(")")
		}

	case *ts_ast.EDot:
		wrap := false
		if e.OptionalChain && flags.has(forbidCall) {
			wrap = true
			p.print("(")
		}
		p.printExpr(e.Target, ts_ast.LPostfix, flags&forbidCall)
		if e.OptionalChain {
			p.print("?.")
		} else {
			if p.prevNumEnd == len(p.js) && !bytes.ContainsAny(p.js[p.prevNumStart:], ".eExX") {
				// "1.toString" is a syntax error
				p.print(".")
			}
			p.print(".")
		}
		p.printPropertyName(e.Name)
		if wrap {
			p.print(")")
		}

	case *ts_ast.EIndex:
		p.printExpr(e.Target, ts_ast.LPostfix, flags&forbidCall)
		if e.OptionalChain {
			p.print("?.")
		}
		p.print("[")
		p.printExpr(e.Index, ts_ast.LLowest, 0)
		p.print("]")

	case *ts_ast.ECall:
		wrap := level >= ts_ast.LNew || flags.has(forbidCall)
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Target, ts_ast.LPostfix, 0)
		if e.OptionalChain {
			p.print("?.")
		}
		p.printArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *ts_ast.ENew:
		wrap := level >= ts_ast.LCall
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("new ")
		p.printExpr(e.Target, ts_ast.LNew, forbidCall)
		p.printArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *ts_ast.EParen:
		p.print("(")
		p.printExpr(e.Value, ts_ast.LLowest, 0)
		p.print(")")

	// Type-only wrappers print the wrapped expression. The transform normally
	// removes them but they are harmless here.
	case *ts_ast.EAs:
		p.printExpr(e.Value, level, flags)
	case *ts_ast.ESatisfies:
		p.printExpr(e.Value, level, flags)
	case *ts_ast.ETypeAssertion:
		p.printExpr(e.Value, level, flags)
	case *ts_ast.ENonNull:
		p.printExpr(e.Value, level, flags)

	case *ts_ast.EPartiallyEmitted:
		p.printExpr(e.Value, level, flags)

	case *ts_ast.EUnary:
		entry := ts_ast.OpTable[e.Op]
		wrap := level >= entry.Level
		if wrap {
			p.print("(")
		}
		if e.Op.IsPrefix() {
			if entry.IsKeyword {
				p.printSpaceBeforeIdentifier()
				p.print(entry.Text)
				p.print(" ")
			} else {
				p.printSpaceBeforeOperator(e.Op)
				p.print(entry.Text)
				p.prevOp = e.Op
				p.prevOpEnd = len(p.js)
			}
			p.printExpr(e.Value, ts_ast.LPrefix-1, 0)
		} else {
			p.printExpr(e.Value, ts_ast.LPostfix-1, 0)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}
		if wrap {
			p.print(")")
		}

	case *ts_ast.EBinary:
		p.printBinary(e, level, flags)

	case *ts_ast.EIf:
		wrap := level >= ts_ast.LConditional
		if wrap {
			p.print("(")
			flags &= ^forbidIn
		}
		p.printExpr(e.Test, ts_ast.LConditional, flags&forbidIn)
		p.print(" ? ")
		p.printExpr(e.Yes, ts_ast.LYield, 0)
		p.print(" : ")
		p.printExpr(e.No, ts_ast.LYield, flags&forbidIn)
		if wrap {
			p.print(")")
		}

	case *ts_ast.EArrow:
		wrap := level >= ts_ast.LAssign
		if wrap {
			p.print("(")
		}
		if e.Fn.Modifiers.Has(ts_ast.ModifierAsync) {
			p.printSpaceBeforeIdentifier()
			p.print("async ")
		}
		p.printFnArgs(e.Fn.Params)
		p.print(" => ")
		if _, ok := e.Fn.Body.Data.(*ts_ast.Block); ok {
			p.printBlock(e.Fn.Body)
		} else {
			p.arrowExprStart = len(p.js)
			p.printExpr(e.Fn.Body, ts_ast.LComma, flags&forbidIn)
		}
		if wrap {
			p.print(")")
		}

	case *ts_ast.EFunction:
		wrap := p.stmtStart == len(p.js) || p.exportDefault == len(p.js)
		if wrap {
			p.print("(")
		}
		p.printFn(&e.Fn, "function")
		if wrap {
			p.print(")")
		}

	case *ts_ast.EClass:
		wrap := p.stmtStart == len(p.js) || p.exportDefault == len(p.js)
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("class")
		p.printClass(&e.Class)
		if wrap {
			p.print(")")
		}

	case *ts_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, ts_ast.LComma, 0)

	case *ts_ast.EYield:
		wrap := level >= ts_ast.LAssign
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("yield")
		if e.IsDelegate {
			p.print("*")
		}
		if e.Value != nil {
			p.print(" ")
			p.printExpr(e.Value, ts_ast.LYield, 0)
		}
		if wrap {
			p.print(")")
		}

	case *ts_ast.EAwait:
		wrap := level >= ts_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("await ")
		p.printExpr(e.Value, ts_ast.LPrefix-1, 0)
		if wrap {
			p.print(")")
		}

	case *ts_ast.SyntaxList:
		// Lists are flattened by the visitor, so one left in an expression slot
		// is a sequence
		for i, n := range e.Nodes {
			if i != 0 {
				p.print(", ")
			}
			p.printExpr(n, ts_ast.LComma, 0)
		}

	default:
		panic(fmt.Sprintf("Internal error: unexpected expression of type %T", expr.Data))
	}

	p.printTrailingCommentsOfExpr(expr)
}

func (p *printer) printBinary(e *ts_ast.EBinary, level ts_ast.L, flags printExprFlags) {
	entry := ts_ast.OpTable[e.Op]
	wrap := level >= entry.Level || (e.Op == ts_ast.BinOpIn && flags.has(forbidIn))
	if wrap {
		p.print("(")
		flags &= ^forbidIn
	}

	leftLevel := entry.Level - 1
	rightLevel := entry.Level - 1
	if e.Op.IsRightAssociative() {
		leftLevel = entry.Level
	}
	if e.Op.IsLeftAssociative() {
		rightLevel = entry.Level
	}

	switch e.Op {
	case ts_ast.BinOpNullishCoalescing:
		// "??" can't directly contain "||" or "&&" without being wrapped in parentheses
		if left, ok := e.Left.Data.(*ts_ast.EBinary); ok && (left.Op == ts_ast.BinOpLogicalOr || left.Op == ts_ast.BinOpLogicalAnd) {
			leftLevel = ts_ast.LPrefix
		}
		if right, ok := e.Right.Data.(*ts_ast.EBinary); ok && (right.Op == ts_ast.BinOpLogicalOr || right.Op == ts_ast.BinOpLogicalAnd) {
			rightLevel = ts_ast.LPrefix
		}

	case ts_ast.BinOpPow:
		// "**" can't contain certain unary expressions
		switch left := e.Left.Data.(type) {
		case *ts_ast.EUnary:
			if left.Op.IsPrefix() {
				leftLevel = ts_ast.LCall
			}
		case *ts_ast.EAwait:
			leftLevel = ts_ast.LCall
		case *ts_ast.ENumber:
			if left.Value < 0 {
				leftLevel = ts_ast.LCall
			}
		}
	}

	p.printExpr(e.Left, leftLevel, flags&forbidIn)

	if e.Op == ts_ast.BinOpComma {
		p.print(", ")
	} else {
		p.print(" ")
		if entry.IsKeyword {
			p.printSpaceBeforeIdentifier()
			p.print(entry.Text)
		} else {
			p.printSpaceBeforeOperator(e.Op)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}
		p.print(" ")
	}

	p.printExpr(e.Right, rightLevel, flags&forbidIn)

	if wrap {
		p.print(")")
	}
}

func (p *printer) printArgs(args []*ts_ast.Node) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(", ")
		}
		p.printExpr(arg, ts_ast.LComma, 0)
	}
	p.print(")")
}

func (p *printer) printObject(e *ts_ast.EObject) {
	if len(e.Properties) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	if e.IsMultiLine {
		p.printNewline()
		p.indent++
		for i, property := range e.Properties {
			p.printIndent()
			p.printProperty(property)
			if i+1 < len(e.Properties) {
				p.print(",")
			}
			p.printNewline()
		}
		p.indent--
		p.printIndent()
	} else {
		p.print(" ")
		for i, property := range e.Properties {
			if i != 0 {
				p.print(", ")
			}
			p.printProperty(property)
		}
		p.print(" ")
	}
	p.print("}")
}

func (p *printer) printProperty(property *ts_ast.Node) {
	property = p.substitute(property)
	p.printLeadingCommentsOfExpr(property)

	switch d := property.Data.(type) {
	case *ts_ast.PropertyAssignment:
		p.printPropertyKey(d.Name)
		p.print(": ")
		p.printExpr(d.Initializer, ts_ast.LComma, 0)

	case *ts_ast.ShorthandPropertyAssignment:
		p.printPropertyName(d.Name)
		if d.ObjectAssignmentInitializer != nil {
			p.print(" = ")
			p.printExpr(d.ObjectAssignmentInitializer, ts_ast.LComma, 0)
		}

	case *ts_ast.SpreadAssignment:
		p.print("...")
		p.printExpr(d.Value, ts_ast.LComma, 0)

	case *ts_ast.CMethod, *ts_ast.CGetAccessor, *ts_ast.CSetAccessor:
		p.printMethod(property)

	default:
		panic(fmt.Sprintf("Internal error: unexpected object property of type %T", property.Data))
	}

	p.printTrailingCommentsOfExpr(property)
}

// Property names after "." and in shorthand properties are never substituted
func (p *printer) printPropertyName(name *ts_ast.Node) {
	switch d := name.Data.(type) {
	case *ts_ast.EIdentifier:
		p.printSpaceBeforeIdentifier()
		p.print(d.Name)
	case *ts_ast.EPrivateIdentifier:
		if !strings.HasPrefix(d.Name, "#") {
			p.print("#")
		}
		p.print(d.Name)
	default:
		panic(fmt.Sprintf("Internal error: unexpected property name of type %T", name.Data))
	}
}

func (p *printer) printPropertyKey(key *ts_ast.Node) {
	switch d := key.Data.(type) {
	case *ts_ast.EIdentifier, *ts_ast.EPrivateIdentifier:
		p.printPropertyName(key)

	case *ts_ast.EString:
		p.printQuotedUTF8(d.Value)

	case *ts_ast.ENumber:
		p.printNumber(d.Value, ts_ast.LLowest)

	case *ts_ast.ComputedPropertyName:
		p.print("[")
		p.printExpr(d.Value, ts_ast.LComma, 0)
		p.print("]")

	default:
		// Synthesized keys may be arbitrary expressions
		p.print("[")
		p.printExpr(key, ts_ast.LComma, 0)
		p.print("]")
	}
}

////////////////////////////////////////////////////////////////////////////////
// Bindings, functions, and classes

func (p *printer) printBinding(binding *ts_ast.Node) {
	switch b := binding.Data.(type) {
	case *ts_ast.EIdentifier:
		p.printSpaceBeforeIdentifier()
		p.print(b.Name)

	case *ts_ast.ObjectBindingPattern:
		if len(b.Elements) == 0 {
			p.print("{}")
			return
		}
		p.print("{ ")
		for i, element := range b.Elements {
			if i != 0 {
				p.print(", ")
			}
			e := element.Data.(*ts_ast.BindingElement)
			if e.IsRest {
				p.print("...")
			}
			if e.PropertyName != nil {
				p.printPropertyKey(e.PropertyName)
				p.print(": ")
			}
			p.printBinding(e.Name)
			p.printBindingInitializer(e.Initializer)
		}
		p.print(" }")

	case *ts_ast.ArrayBindingPattern:
		p.print("[")
		for i, element := range b.Elements {
			if i != 0 {
				p.print(", ")
			}
			switch e := element.Data.(type) {
			case *ts_ast.EOmitted:
				if i == len(b.Elements)-1 {
					p.print(",")
				}
			case *ts_ast.BindingElement:
				if e.IsRest {
					p.print("...")
				}
				p.printBinding(e.Name)
				p.printBindingInitializer(e.Initializer)
			}
		}
		p.print("]")

	default:
		panic(fmt.Sprintf("Internal error: unexpected binding of type %T", binding.Data))
	}
}

func (p *printer) printBindingInitializer(value *ts_ast.Node) {
	if value != nil {
		p.print(" = ")
		p.printExpr(value, ts_ast.LComma, 0)
	}
}

func (p *printer) printFnArgs(params []*ts_ast.Node) {
	p.print("(")
	for i, param := range params {
		if i != 0 {
			p.print(", ")
		}
		d := param.Data.(*ts_ast.Parameter)
		if d.IsRest {
			p.print("...")
		}
		p.printBinding(d.Name)
		p.printBindingInitializer(d.Initializer)
	}
	p.print(")")
}

// Prints "function", "async function*", and friends followed by the name,
// arguments, and body
func (p *printer) printFn(fn *ts_ast.Fn, keyword string) {
	p.printSpaceBeforeIdentifier()
	if fn.Modifiers.Has(ts_ast.ModifierAsync) {
		p.print("async ")
	}
	p.print(keyword)
	if fn.IsGenerator {
		p.print("*")
	}
	p.print(" ")
	if fn.Name != nil {
		p.printBinding(fn.Name)
	}
	p.printFnArgs(fn.Params)
	p.printFnBody(fn)
}

func (p *printer) printFnBody(fn *ts_ast.Fn) {
	if fn.Body == nil {
		p.print(";")
		return
	}
	p.print(" ")
	p.printBlock(fn.Body)
}

func (p *printer) printClass(class *ts_ast.Class) {
	if class.Name != nil {
		p.print(" ")
		p.printBinding(class.Name)
	}
	if extends := ts_ast.ExtendsOf(class); extends != nil {
		p.print(" extends ")
		p.printExpr(extends, ts_ast.LNew-1, 0)
	}
	p.print(" {")
	if len(class.Members) == 0 {
		p.print("\n")
		p.printIndent()
		p.print("}")
		return
	}
	p.printNewline()
	p.indent++
	for _, member := range class.Members {
		p.printLeadingCommentsOfStmt(member)
		p.printIndent()
		p.printClassMember(member)
		p.printTrailingCommentsOfStmt(member)
		p.printNewline()
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printClassMember(member *ts_ast.Node) {
	switch m := member.Data.(type) {
	case *ts_ast.CProperty:
		p.printClassModifiers(m.Modifiers)
		p.printPropertyKey(m.Key)
		if m.Initializer != nil {
			p.print(" = ")
			p.printExpr(m.Initializer, ts_ast.LComma, 0)
		}
		p.print(";")

	case *ts_ast.CMethod, *ts_ast.CGetAccessor, *ts_ast.CSetAccessor:
		p.printMethod(member)

	case *ts_ast.CConstructor:
		p.print("constructor")
		p.printFnArgs(m.Fn.Params)
		p.printFnBody(&m.Fn)

	case *ts_ast.CStaticBlock:
		p.print("static ")
		p.printBlock(m.Body)

	case *ts_ast.CSemicolon:
		p.print(";")

	default:
		panic(fmt.Sprintf("Internal error: unexpected class member of type %T", member.Data))
	}
}

func (p *printer) printClassModifiers(modifiers ts_ast.ModifierFlags) {
	if modifiers.Has(ts_ast.ModifierStatic) {
		p.print("static ")
	}
	if modifiers.Has(ts_ast.ModifierAccessor) {
		p.print("accessor ")
	}
}

func (p *printer) printMethod(member *ts_ast.Node) {
	fn := ts_ast.FnOf(member)
	p.printClassModifiers(fn.Modifiers)
	switch member.Data.(type) {
	case *ts_ast.CGetAccessor:
		p.print("get ")
	case *ts_ast.CSetAccessor:
		p.print("set ")
	default:
		if fn.Modifiers.Has(ts_ast.ModifierAsync) {
			p.print("async ")
		}
		if fn.IsGenerator {
			p.print("*")
		}
	}
	p.printPropertyKey(ts_ast.NameOf(member))
	p.printFnArgs(fn.Params)
	p.printFnBody(fn)
}

////////////////////////////////////////////////////////////////////////////////
// Statements

func (p *printer) printBlock(block *ts_ast.Node) {
	b, ok := block.Data.(*ts_ast.Block)
	if !ok {
		panic(fmt.Sprintf("Internal error: expected a block but got %T", block.Data))
	}
	p.printBlockStmts(b.Stmts)
}

func (p *printer) printBlockStmts(stmts []*ts_ast.Node) {
	if len(stmts) == 0 {
		p.print("{ }")
		return
	}
	p.print("{")
	p.printNewline()
	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.indent--
	p.printIndent()
	p.print("}")
}

// Prints the body of "if", "for", and friends. Blocks stay on the same line
// and other statements go on their own indented line.
func (p *printer) printBody(body *ts_ast.Node) {
	if block, ok := body.Data.(*ts_ast.Block); ok {
		p.print(" ")
		p.printBlockStmts(block.Stmts)
		p.printNewline()
	} else {
		p.printNewline()
		p.indent++
		p.printStmt(body)
		p.indent--
	}
}

func (p *printer) printDecls(kind ts_ast.LocalKind, decls []*ts_ast.Node, flags printExprFlags) {
	p.print(kind.String())
	p.print(" ")
	for i, decl := range decls {
		if i != 0 {
			p.print(", ")
		}
		d := decl.Data.(*ts_ast.VariableDeclaration)
		p.printBinding(d.Name)
		if d.Initializer != nil {
			p.print(" = ")
			p.printExpr(d.Initializer, ts_ast.LComma, flags)
		}
	}
}

// The initializer of a "for" loop is either a variable list or an expression
func (p *printer) printForLoopInit(init *ts_ast.Node, flags printExprFlags) {
	if local, ok := init.Data.(*ts_ast.SLocal); ok {
		p.printDecls(local.LocalKind, local.Decls, flags)
	} else {
		p.printExpr(init, ts_ast.LLowest, flags)
	}
}

func (p *printer) printExportModifiers(modifiers ts_ast.ModifierFlags) {
	if modifiers.Has(ts_ast.ModifierExport) {
		p.print("export ")
		if modifiers.Has(ts_ast.ModifierDefault) {
			p.print("default ")
		}
	}
}

func (p *printer) printSemicolonAfterStatement() {
	p.print(";")
	p.printNewline()
}

func (p *printer) printStmt(stmt *ts_ast.Node) {
	p.emit(stmt, p.printStmtWithComments)
}

func (p *printer) printStmtWithComments(stmt *ts_ast.Node) {
	p.printLeadingCommentsOfStmt(stmt)
	p.printStmtBody(stmt)
	p.printTrailingCommentsOfStmt(stmt)
}

func (p *printer) printStmtBody(stmt *ts_ast.Node) {
	switch s := stmt.Data.(type) {
	case *ts_ast.SNotEmitted, *ts_ast.SMergeMarker, *ts_ast.SEndOfDeclaration:

	case *ts_ast.SyntaxList:
		for _, n := range s.Nodes {
			p.printStmt(n)
		}

	case *ts_ast.SEmpty:
		p.printIndent()
		p.printSemicolonAfterStatement()

	case *ts_ast.Block:
		p.printIndent()
		p.printBlockStmts(s.Stmts)
		p.printNewline()

	case *ts_ast.SDirective:
		p.printIndent()
		p.printQuotedUTF8(s.Value)
		p.printSemicolonAfterStatement()

	case *ts_ast.SExpr:
		p.printIndent()
		p.stmtStart = len(p.js)
		p.printExpr(s.Value, ts_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	case *ts_ast.SLocal:
		p.printIndent()
		p.printExportModifiers(s.Modifiers)
		p.printDecls(s.LocalKind, s.Decls, 0)
		p.printSemicolonAfterStatement()

	case *ts_ast.SIf:
		p.printIndent()
		p.printIf(s)

	case *ts_ast.SFor:
		p.printIndent()
		p.print("for (")
		if s.Init != nil {
			p.printForLoopInit(s.Init, forbidIn)
		}
		p.print(";")
		if s.Test != nil {
			p.print(" ")
			p.printExpr(s.Test, ts_ast.LLowest, 0)
		}
		p.print(";")
		if s.Update != nil {
			p.print(" ")
			p.printExpr(s.Update, ts_ast.LLowest, 0)
		}
		p.print(")")
		p.printBody(s.Body)

	case *ts_ast.SForIn:
		p.printIndent()
		p.print("for (")
		p.printForLoopInit(s.Init, forbidIn)
		p.print(" in ")
		p.printExpr(s.Value, ts_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *ts_ast.SForOf:
		p.printIndent()
		p.print("for ")
		if s.IsAwait {
			p.print("await ")
		}
		p.print("(")
		p.printForLoopInit(s.Init, forbidIn)
		p.print(" of ")
		p.printExpr(s.Value, ts_ast.LComma, 0)
		p.print(")")
		p.printBody(s.Body)

	case *ts_ast.SWhile:
		p.printIndent()
		p.print("while (")
		p.printExpr(s.Test, ts_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *ts_ast.SDoWhile:
		p.printIndent()
		p.print("do")
		if block, ok := s.Body.Data.(*ts_ast.Block); ok {
			p.print(" ")
			p.printBlockStmts(block.Stmts)
			p.print(" ")
		} else {
			p.printNewline()
			p.indent++
			p.printStmt(s.Body)
			p.indent--
			p.printIndent()
		}
		p.print("while (")
		p.printExpr(s.Test, ts_ast.LLowest, 0)
		p.print(")")
		p.printSemicolonAfterStatement()

	case *ts_ast.SReturn:
		p.printIndent()
		p.print("return")
		if s.Value != nil {
			p.print(" ")
			p.printExpr(s.Value, ts_ast.LLowest, 0)
		}
		p.printSemicolonAfterStatement()

	case *ts_ast.SThrow:
		p.printIndent()
		p.print("throw ")
		p.printExpr(s.Value, ts_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	case *ts_ast.SBreak:
		p.printIndent()
		p.print("break")
		if s.Label != nil {
			p.print(" ")
			p.printPropertyName(s.Label)
		}
		p.printSemicolonAfterStatement()

	case *ts_ast.SContinue:
		p.printIndent()
		p.print("continue")
		if s.Label != nil {
			p.print(" ")
			p.printPropertyName(s.Label)
		}
		p.printSemicolonAfterStatement()

	case *ts_ast.SLabel:
		p.printIndent()
		p.printPropertyName(s.Name)
		p.print(":")
		p.printNewline()
		p.printStmt(s.Stmt)

	case *ts_ast.SSwitch:
		p.printIndent()
		p.print("switch (")
		p.printExpr(s.Test, ts_ast.LLowest, 0)
		p.print(") {")
		p.printNewline()
		p.indent++
		for _, clause := range s.CaseBlock.Data.(*ts_ast.CaseBlock).Clauses {
			c := clause.Data.(*ts_ast.CaseClause)
			p.printIndent()
			if c.Test != nil {
				p.print("case ")
				p.printExpr(c.Test, ts_ast.LLowest, 0)
				p.print(":")
			} else {
				p.print("default:")
			}
			p.printNewline()
			p.indent++
			for _, body := range c.Body {
				p.printStmt(body)
			}
			p.indent--
		}
		p.indent--
		p.printIndent()
		p.print("}")
		p.printNewline()

	case *ts_ast.STry:
		p.printIndent()
		p.print("try ")
		p.printBlock(s.Block)
		p.printNewline()
		if s.Catch != nil {
			c := s.Catch.Data.(*ts_ast.CatchClause)
			p.printIndent()
			p.print("catch ")
			if c.VariableDeclaration != nil {
				p.print("(")
				p.printBinding(c.VariableDeclaration.Data.(*ts_ast.VariableDeclaration).Name)
				p.print(") ")
			}
			p.printBlock(c.Block)
			p.printNewline()
		}
		if s.Finally != nil {
			p.printIndent()
			p.print("finally ")
			p.printBlock(s.Finally)
			p.printNewline()
		}

	case *ts_ast.SDebugger:
		p.printIndent()
		p.print("debugger")
		p.printSemicolonAfterStatement()

	case *ts_ast.SFunction:
		p.printIndent()
		p.printExportModifiers(s.Fn.Modifiers)
		p.printFn(&s.Fn, "function")
		p.printNewline()

	case *ts_ast.SClass:
		p.printIndent()
		p.printExportModifiers(s.Class.Modifiers)
		p.print("class")
		p.printClass(&s.Class)
		p.printNewline()

	case *ts_ast.SImport:
		p.printIndent()
		p.print("import ")
		if s.ImportClause != nil {
			p.printImportClause(s.ImportClause)
			p.print(" from ")
		}
		p.printQuotedUTF8(s.ModuleSpecifier)
		p.printSemicolonAfterStatement()

	case *ts_ast.SImportEquals:
		p.printIndent()
		if s.Modifiers.Has(ts_ast.ModifierExport) {
			p.print("export ")
		}
		p.print("import ")
		p.printBinding(s.Name)
		p.print(" = ")
		if ref, ok := s.ModuleReference.Data.(*ts_ast.ExternalModuleReference); ok {
			p.print("require(")
			p.printQuotedUTF8(ref.Path)
			p.print(")")
		} else {
			p.printEntityName(s.ModuleReference)
		}
		p.printSemicolonAfterStatement()

	case *ts_ast.SExport:
		p.printIndent()
		p.print("export ")
		switch clause := s.ExportClause; {
		case clause == nil:
			p.print("*")
		default:
			switch c := clause.Data.(type) {
			case *ts_ast.NamespaceExport:
				p.print("* as ")
				p.printPropertyName(c.Name)
			case *ts_ast.NamedExports:
				p.printSpecifiers(c.Elements)
			}
		}
		if s.ModuleSpecifier != nil {
			p.print(" from ")
			p.printQuotedUTF8(*s.ModuleSpecifier)
		}
		p.printSemicolonAfterStatement()

	case *ts_ast.SExportAssignment:
		p.printIndent()
		if s.IsExportEquals {
			p.print("export = ")
			p.printExpr(s.Value, ts_ast.LComma, 0)
		} else {
			p.print("export default ")
			p.exportDefault = len(p.js)
			p.printExpr(s.Value, ts_ast.LComma, 0)
		}
		p.printSemicolonAfterStatement()

	case *ts_ast.SInterface, *ts_ast.STypeAlias, *ts_ast.SEnum, *ts_ast.SNamespace:
		panic(fmt.Sprintf("Internal error: TypeScript-only statement %T reached the printer", stmt.Data))

	default:
		if stmt.Kind().IsTypeNode() {
			panic(fmt.Sprintf("Internal error: type node %T reached the printer", stmt.Data))
		}
		panic(fmt.Sprintf("Internal error: unexpected statement of type %T", stmt.Data))
	}
}

func (p *printer) printIf(s *ts_ast.SIf) {
	p.print("if (")
	p.printExpr(s.Test, ts_ast.LLowest, 0)
	p.print(")")

	if s.No == nil {
		p.printBody(s.Yes)
		return
	}

	if block, ok := s.Yes.Data.(*ts_ast.Block); ok {
		p.print(" ")
		p.printBlockStmts(block.Stmts)
		p.printNewline()
	} else {
		// Wrap the body so a nested "if" without an "else" can't capture ours
		p.print(" ")
		p.printBlockStmts([]*ts_ast.Node{s.Yes})
		p.printNewline()
	}

	p.printIndent()
	p.print("else")
	if no, ok := s.No.Data.(*ts_ast.SIf); ok {
		p.print(" ")
		p.printIf(no)
	} else {
		p.printBody(s.No)
	}
}

func (p *printer) printImportClause(clause *ts_ast.Node) {
	c := clause.Data.(*ts_ast.ImportClause)
	if c.Name != nil {
		p.printBinding(c.Name)
		if c.NamedBindings != nil {
			p.print(", ")
		}
	}
	if c.NamedBindings != nil {
		switch b := c.NamedBindings.Data.(type) {
		case *ts_ast.NamespaceImport:
			p.print("* as ")
			p.printBinding(b.Name)
		case *ts_ast.NamedImports:
			p.printSpecifiers(b.Elements)
		}
	}
}

func (p *printer) printSpecifiers(specifiers []*ts_ast.Node) {
	if len(specifiers) == 0 {
		p.print("{}")
		return
	}
	p.print("{ ")
	for i, specifier := range specifiers {
		if i != 0 {
			p.print(", ")
		}
		var propertyName, name *ts_ast.Node
		switch s := specifier.Data.(type) {
		case *ts_ast.ImportSpecifier:
			propertyName, name = s.PropertyName, s.Name
		case *ts_ast.ExportSpecifier:
			propertyName, name = s.PropertyName, s.Name
		}
		if propertyName != nil {
			p.printModuleExportName(propertyName)
			p.print(" as ")
		}
		p.printModuleExportName(name)
	}
	p.print(" }")
}

func (p *printer) printModuleExportName(name *ts_ast.Node) {
	if s, ok := name.Data.(*ts_ast.EString); ok {
		p.printQuotedUTF8(s.Value)
		return
	}
	p.printPropertyName(name)
}

// Entity names in "import x = A.B.C" are never substituted
func (p *printer) printEntityName(name *ts_ast.Node) {
	switch d := name.Data.(type) {
	case *ts_ast.EIdentifier:
		p.print(d.Name)
	case *ts_ast.QualifiedName:
		p.printEntityName(d.Left)
		p.print(".")
		p.printEntityName(d.Right)
	case *ts_ast.EDot:
		p.printEntityName(d.Target)
		p.print(".")
		p.printPropertyName(d.Name)
	default:
		panic(fmt.Sprintf("Internal error: unexpected entity name of type %T", name.Data))
	}
}
