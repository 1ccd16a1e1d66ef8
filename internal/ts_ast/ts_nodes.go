package ts_ast

type Kind uint8

const (
	KindUnknown Kind = iota

	// Names and other non-expression, non-statement nodes
	KindSourceFile
	KindQualifiedName
	KindComputedPropertyName
	KindDecorator
	KindTypeParameter
	KindParameter
	KindHeritageClause
	KindExpressionWithTypeArguments
	KindVariableDeclaration
	KindObjectBindingPattern
	KindArrayBindingPattern
	KindBindingElement
	KindEnumMember
	KindCatchClause
	KindCaseBlock
	KindCaseClause
	KindImportClause
	KindNamespaceImport
	KindNamedImports
	KindImportSpecifier
	KindNamedExports
	KindNamespaceExport
	KindExportSpecifier
	KindExternalModuleReference
	KindPropertyAssignment
	KindShorthandPropertyAssignment
	KindSpreadAssignment
	KindTemplateSpan
	KindModuleBlock
	KindBlock
	KindSyntaxList

	// Expressions
	KindIdentifier
	KindPrivateIdentifier
	KindNumericLiteral
	KindStringLiteral
	KindBigIntLiteral
	KindRegularExpressionLiteral
	KindTemplateExpression
	KindTrueKeyword
	KindFalseKeyword
	KindNullKeyword
	KindThisKeyword
	KindSuperKeyword
	KindArrayLiteralExpression
	KindObjectLiteralExpression
	KindOmittedExpression
	KindPropertyAccessExpression
	KindElementAccessExpression
	KindCallExpression
	KindNewExpression
	KindParenthesizedExpression
	KindTypeAssertionExpression
	KindAsExpression
	KindSatisfiesExpression
	KindNonNullExpression
	KindPartiallyEmittedExpression
	KindPrefixUnaryExpression
	KindPostfixUnaryExpression
	KindBinaryExpression
	KindConditionalExpression
	KindFunctionExpression
	KindArrowFunction
	KindClassExpression
	KindSpreadElement
	KindYieldExpression
	KindAwaitExpression

	// Statements and declarations
	KindEmptyStatement
	KindExpressionStatement
	KindDirective
	KindVariableStatement
	KindIfStatement
	KindForStatement
	KindForInStatement
	KindForOfStatement
	KindWhileStatement
	KindDoStatement
	KindReturnStatement
	KindThrowStatement
	KindBreakStatement
	KindContinueStatement
	KindLabeledStatement
	KindSwitchStatement
	KindTryStatement
	KindDebuggerStatement
	KindFunctionDeclaration
	KindClassDeclaration
	KindInterfaceDeclaration
	KindTypeAliasDeclaration
	KindEnumDeclaration
	KindModuleDeclaration
	KindImportDeclaration
	KindImportEqualsDeclaration
	KindExportDeclaration
	KindExportAssignment
	KindNotEmittedStatement
	KindMergeDeclarationMarker
	KindEndOfDeclarationMarker

	// Class elements
	KindPropertyDeclaration
	KindMethodDeclaration
	KindGetAccessor
	KindSetAccessor
	KindConstructor
	KindIndexSignature
	KindClassStaticBlockDeclaration
	KindSemicolonClassElement

	// Types
	KindKeywordType
	KindTypeReference
	KindArrayType
	KindTupleType
	KindOptionalType
	KindRestType
	KindUnionType
	KindIntersectionType
	KindConditionalType
	KindInferType
	KindFunctionType
	KindConstructorType
	KindParenthesizedType
	KindTypePredicate
	KindLiteralType
	KindTemplateLiteralType
	KindTypeLiteral
	KindPropertySignature
	KindMethodSignature
	KindCallSignature
	KindConstructSignature
	KindTypeQuery
	KindThisType
	KindTypeOperator
	KindIndexedAccessType
	KindMappedType
	KindImportType

	KindCount
)

func (k Kind) IsTypeNode() bool {
	return k >= KindKeywordType && k < KindCount
}

func (k Kind) IsExpression() bool {
	return k >= KindIdentifier && k <= KindAwaitExpression
}

func (k Kind) IsStatement() bool {
	return k >= KindEmptyStatement && k <= KindEndOfDeclarationMarker
}

func (k Kind) IsClassElement() bool {
	return k >= KindPropertyDeclaration && k <= KindSemicolonClassElement
}

////////////////////////////////////////////////////////////////////////////////
// Shared shapes

type Fn struct {
	Modifiers      ModifierFlags
	Name           *Node
	TypeParameters []*Node
	Params         []*Node
	ReturnType     *Node

	// A block for everything except concise arrow functions, where this is an
	// expression. This is nil for overloads and ambient declarations.
	Body *Node

	IsGenerator bool
}

type Class struct {
	Decorators     []*Node
	Modifiers      ModifierFlags
	Name           *Node
	TypeParameters []*Node
	Heritage       []*Node
	Members        []*Node
}

////////////////////////////////////////////////////////////////////////////////
// Names and other nodes

type SourceFile struct {
	FileName          string
	Stmts             []*Node
	IsDeclarationFile bool

	// Set when the file contains any import or export syntax
	IsExternalModule bool
}

type QualifiedName struct {
	Left  *Node
	Right *Node
}

type ComputedPropertyName struct{ Value *Node }

type Decorator struct{ Value *Node }

type TypeParameter struct {
	Modifiers  ModifierFlags
	Name       *Node
	Constraint *Node
	Default    *Node
}

type Parameter struct {
	Decorators  []*Node
	Modifiers   ModifierFlags
	IsRest      bool
	Name        *Node
	IsOptional  bool
	Type        *Node
	Initializer *Node
}

type HeritageClause struct {
	IsImplements bool
	Types        []*Node
}

type ExpressionWithTypeArguments struct {
	Value         *Node
	TypeArguments []*Node
}

type VariableDeclaration struct {
	Name        *Node
	IsDefinite  bool
	Type        *Node
	Initializer *Node
}

type ObjectBindingPattern struct{ Elements []*Node }

type ArrayBindingPattern struct{ Elements []*Node }

type BindingElement struct {
	IsRest       bool
	PropertyName *Node
	Name         *Node
	Initializer  *Node
}

type EnumMember struct {
	Name        *Node
	Initializer *Node
}

type CatchClause struct {
	VariableDeclaration *Node
	Block               *Node
}

type CaseBlock struct{ Clauses []*Node }

// A nil test is a "default" clause
type CaseClause struct {
	Test *Node
	Body []*Node
}

type ImportClause struct {
	IsTypeOnly    bool
	Name          *Node
	NamedBindings *Node
}

type NamespaceImport struct{ Name *Node }

type NamedImports struct{ Elements []*Node }

type ImportSpecifier struct {
	IsTypeOnly   bool
	PropertyName *Node
	Name         *Node
}

type NamedExports struct{ Elements []*Node }

type NamespaceExport struct{ Name *Node }

type ExportSpecifier struct {
	IsTypeOnly   bool
	PropertyName *Node
	Name         *Node
}

type ExternalModuleReference struct{ Path string }

type PropertyAssignment struct {
	Name        *Node
	Initializer *Node
}

type ShorthandPropertyAssignment struct {
	Name                        *Node
	ObjectAssignmentInitializer *Node
}

type SpreadAssignment struct{ Value *Node }

// The literal text following the expression in a template
type TemplateSpan struct {
	Value *Node
	Tail  string
}

type ModuleBlock struct{ Stmts []*Node }

// A visitor may return one of these to replace a single node with several.
// It only ever appears transiently inside a list being visited.
type SyntaxList struct{ Nodes []*Node }

type Block struct {
	Stmts       []*Node
	IsMultiLine bool
}

////////////////////////////////////////////////////////////////////////////////
// Expressions

type EIdentifier struct {
	Name string

	// Generated names are produced by the transform and are never rewritten
	// by namespace substitution
	IsGenerated bool
}

type EPrivateIdentifier struct{ Name string }

type ENumber struct{ Value float64 }

type EString struct{ Value string }

type EBigInt struct{ Value string }

type ERegExp struct{ Value string }

type ETemplate struct {
	Tag           *Node
	TypeArguments []*Node
	Head          string
	Spans         []*Node
}

type EBoolean struct{ Value bool }

type ENull struct{}

type EThis struct{}

type ESuper struct{}

type EArray struct {
	Items       []*Node
	IsMultiLine bool
}

type EObject struct {
	Properties  []*Node
	IsMultiLine bool
}

type EOmitted struct{}

type EDot struct {
	Target        *Node
	Name          *Node
	OptionalChain bool
}

type EIndex struct {
	Target        *Node
	Index         *Node
	OptionalChain bool
}

type ECall struct {
	Target        *Node
	TypeArguments []*Node
	Args          []*Node
	OptionalChain bool
}

type ENew struct {
	Target        *Node
	TypeArguments []*Node
	Args          []*Node
}

type EParen struct{ Value *Node }

type ETypeAssertion struct {
	Type  *Node
	Value *Node
}

type EAs struct {
	Value *Node
	Type  *Node
}

type ESatisfies struct {
	Value *Node
	Type  *Node
}

type ENonNull struct{ Value *Node }

// This wraps an expression whose surrounding syntax was removed (type
// assertions, non-null assertions). It prints as the inner expression.
type EPartiallyEmitted struct{ Value *Node }

type EUnary struct {
	Op    OpCode
	Value *Node
}

type EBinary struct {
	Op    OpCode
	Left  *Node
	Right *Node
}

type EIf struct {
	Test *Node
	Yes  *Node
	No   *Node
}

type EFunction struct{ Fn Fn }

type EArrow struct{ Fn Fn }

type EClass struct{ Class Class }

type ESpread struct{ Value *Node }

type EYield struct {
	Value      *Node
	IsDelegate bool
}

type EAwait struct{ Value *Node }

////////////////////////////////////////////////////////////////////////////////
// Statements

type SEmpty struct{}

type SExpr struct{ Value *Node }

type SDirective struct{ Value string }

type SLocal struct {
	Modifiers ModifierFlags
	LocalKind LocalKind
	Decls     []*Node
}

type SIf struct {
	Test *Node
	Yes  *Node
	No   *Node
}

type SFor struct {
	Init   *Node
	Test   *Node
	Update *Node
	Body   *Node
}

type SForIn struct {
	Init  *Node
	Value *Node
	Body  *Node
}

type SForOf struct {
	IsAwait bool
	Init    *Node
	Value   *Node
	Body    *Node
}

type SWhile struct {
	Test *Node
	Body *Node
}

type SDoWhile struct {
	Body *Node
	Test *Node
}

type SReturn struct{ Value *Node }

type SThrow struct{ Value *Node }

type SBreak struct{ Label *Node }

type SContinue struct{ Label *Node }

type SLabel struct {
	Name *Node
	Stmt *Node
}

type SSwitch struct {
	Test      *Node
	CaseBlock *Node
}

type STry struct {
	Block   *Node
	Catch   *Node
	Finally *Node
}

type SDebugger struct{}

type SFunction struct{ Fn Fn }

type SClass struct{ Class Class }

type SInterface struct {
	Modifiers      ModifierFlags
	Name           *Node
	TypeParameters []*Node
	Heritage       []*Node
	Members        []*Node
}

type STypeAlias struct {
	Modifiers      ModifierFlags
	Name           *Node
	TypeParameters []*Node
	Type           *Node
}

type SEnum struct {
	Modifiers ModifierFlags
	Name      *Node
	Members   []*Node
}

// "namespace A.B.C {}" is represented as three nested declarations where the
// body of the outer two is the next declaration
type SNamespace struct {
	Modifiers ModifierFlags
	Name      *Node
	Body      *Node

	// "declare global {}" and "declare module 'x' {}"
	IsGlobalAugmentation bool
	IsStringName         bool
}

type SImport struct {
	ImportClause    *Node
	ModuleSpecifier string
}

type SImportEquals struct {
	Modifiers       ModifierFlags
	IsTypeOnly      bool
	Name            *Node
	ModuleReference *Node
}

type SExport struct {
	IsTypeOnly   bool
	ExportClause *Node

	// Nil when there is no "from" clause
	ModuleSpecifier *string
}

type SExportAssignment struct {
	IsExportEquals bool
	Value          *Node
}

// A placeholder for a removed declaration. It keeps the comments of the
// original declaration and prints nothing else.
type SNotEmitted struct{}

// Stands in for the leading "var" of a merged namespace or enum declaration
type SMergeMarker struct{}

// Marks the end of a multi-statement lowering of one declaration
type SEndOfDeclaration struct{}

////////////////////////////////////////////////////////////////////////////////
// Class elements

type CProperty struct {
	Decorators  []*Node
	Modifiers   ModifierFlags
	Key         *Node
	IsOptional  bool
	IsDefinite  bool
	Type        *Node
	Initializer *Node
}

type CMethod struct {
	Decorators []*Node
	Key        *Node
	IsOptional bool
	Fn         Fn
}

type CGetAccessor struct {
	Decorators []*Node
	Key        *Node
	Fn         Fn
}

type CSetAccessor struct {
	Decorators []*Node
	Key        *Node
	Fn         Fn
}

type CConstructor struct{ Fn Fn }

type CIndexSignature struct {
	Modifiers ModifierFlags
	Params    []*Node
	Type      *Node
}

type CStaticBlock struct{ Body *Node }

type CSemicolon struct{}

////////////////////////////////////////////////////////////////////////////////
// Types

type TKeyword struct{ Keyword TypeKeyword }

type TReference struct {
	TypeName      *Node
	TypeArguments []*Node
}

type TArray struct{ Elem *Node }

type TTuple struct{ Elements []*Node }

type TOptional struct{ Type *Node }

type TRest struct{ Type *Node }

type TUnion struct{ Types []*Node }

type TIntersection struct{ Types []*Node }

type TConditional struct {
	Check   *Node
	Extends *Node
	True    *Node
	False   *Node
}

type TInfer struct{ TypeParameter *Node }

type TFunction struct {
	TypeParameters []*Node
	Params         []*Node
	Return         *Node
}

type TConstructor struct {
	IsAbstract     bool
	TypeParameters []*Node
	Params         []*Node
	Return         *Node
}

type TParenthesized struct{ Type *Node }

type TPredicate struct {
	IsAsserts     bool
	ParameterName *Node
	Type          *Node
}

type TLiteral struct{ Literal *Node }

type TTemplateLiteral struct {
	Head  string
	Spans []*Node
}

type TTypeLiteral struct{ Members []*Node }

type TPropertySignature struct {
	Modifiers  ModifierFlags
	Name       *Node
	IsOptional bool
	Type       *Node
}

type TMethodSignature struct {
	Name           *Node
	IsOptional     bool
	TypeParameters []*Node
	Params         []*Node
	Return         *Node
}

type TCallSignature struct {
	TypeParameters []*Node
	Params         []*Node
	Return         *Node
}

type TConstructSignature struct {
	TypeParameters []*Node
	Params         []*Node
	Return         *Node
}

type TQuery struct {
	ExprName      *Node
	TypeArguments []*Node
}

type TThis struct{}

type TOperator struct {
	Op   TypeOperator
	Type *Node
}

type TIndexedAccess struct {
	Object *Node
	Index  *Node
}

type TMapped struct {
	TypeParameter *Node
	NameType      *Node
	Type          *Node
}

type TImport struct {
	Argument      string
	Qualifier     *Node
	TypeArguments []*Node
}

////////////////////////////////////////////////////////////////////////////////

func (*SourceFile) Kind() Kind                  { return KindSourceFile }
func (*QualifiedName) Kind() Kind               { return KindQualifiedName }
func (*ComputedPropertyName) Kind() Kind        { return KindComputedPropertyName }
func (*Decorator) Kind() Kind                   { return KindDecorator }
func (*TypeParameter) Kind() Kind               { return KindTypeParameter }
func (*Parameter) Kind() Kind                   { return KindParameter }
func (*HeritageClause) Kind() Kind              { return KindHeritageClause }
func (*ExpressionWithTypeArguments) Kind() Kind { return KindExpressionWithTypeArguments }
func (*VariableDeclaration) Kind() Kind         { return KindVariableDeclaration }
func (*ObjectBindingPattern) Kind() Kind        { return KindObjectBindingPattern }
func (*ArrayBindingPattern) Kind() Kind         { return KindArrayBindingPattern }
func (*BindingElement) Kind() Kind              { return KindBindingElement }
func (*EnumMember) Kind() Kind                  { return KindEnumMember }
func (*CatchClause) Kind() Kind                 { return KindCatchClause }
func (*CaseBlock) Kind() Kind                   { return KindCaseBlock }
func (*CaseClause) Kind() Kind                  { return KindCaseClause }
func (*ImportClause) Kind() Kind                { return KindImportClause }
func (*NamespaceImport) Kind() Kind             { return KindNamespaceImport }
func (*NamedImports) Kind() Kind                { return KindNamedImports }
func (*ImportSpecifier) Kind() Kind             { return KindImportSpecifier }
func (*NamedExports) Kind() Kind                { return KindNamedExports }
func (*NamespaceExport) Kind() Kind             { return KindNamespaceExport }
func (*ExportSpecifier) Kind() Kind             { return KindExportSpecifier }
func (*ExternalModuleReference) Kind() Kind     { return KindExternalModuleReference }
func (*PropertyAssignment) Kind() Kind          { return KindPropertyAssignment }
func (*ShorthandPropertyAssignment) Kind() Kind { return KindShorthandPropertyAssignment }
func (*SpreadAssignment) Kind() Kind            { return KindSpreadAssignment }
func (*TemplateSpan) Kind() Kind                { return KindTemplateSpan }
func (*ModuleBlock) Kind() Kind                 { return KindModuleBlock }
func (*Block) Kind() Kind                       { return KindBlock }
func (*SyntaxList) Kind() Kind                  { return KindSyntaxList }

func (*EIdentifier) Kind() Kind        { return KindIdentifier }
func (*EPrivateIdentifier) Kind() Kind { return KindPrivateIdentifier }
func (*ENumber) Kind() Kind            { return KindNumericLiteral }
func (*EString) Kind() Kind            { return KindStringLiteral }
func (*EBigInt) Kind() Kind            { return KindBigIntLiteral }
func (*ERegExp) Kind() Kind            { return KindRegularExpressionLiteral }
func (*ETemplate) Kind() Kind          { return KindTemplateExpression }
func (*ENull) Kind() Kind              { return KindNullKeyword }
func (*EThis) Kind() Kind              { return KindThisKeyword }
func (*ESuper) Kind() Kind             { return KindSuperKeyword }
func (*EArray) Kind() Kind             { return KindArrayLiteralExpression }
func (*EObject) Kind() Kind            { return KindObjectLiteralExpression }
func (*EOmitted) Kind() Kind           { return KindOmittedExpression }
func (*EDot) Kind() Kind               { return KindPropertyAccessExpression }
func (*EIndex) Kind() Kind             { return KindElementAccessExpression }
func (*ECall) Kind() Kind              { return KindCallExpression }
func (*ENew) Kind() Kind               { return KindNewExpression }
func (*EParen) Kind() Kind             { return KindParenthesizedExpression }
func (*ETypeAssertion) Kind() Kind     { return KindTypeAssertionExpression }
func (*EAs) Kind() Kind                { return KindAsExpression }
func (*ESatisfies) Kind() Kind         { return KindSatisfiesExpression }
func (*ENonNull) Kind() Kind           { return KindNonNullExpression }
func (*EPartiallyEmitted) Kind() Kind  { return KindPartiallyEmittedExpression }
func (*EBinary) Kind() Kind            { return KindBinaryExpression }
func (*EIf) Kind() Kind                { return KindConditionalExpression }
func (*EFunction) Kind() Kind          { return KindFunctionExpression }
func (*EArrow) Kind() Kind             { return KindArrowFunction }
func (*EClass) Kind() Kind             { return KindClassExpression }
func (*ESpread) Kind() Kind            { return KindSpreadElement }
func (*EYield) Kind() Kind             { return KindYieldExpression }
func (*EAwait) Kind() Kind             { return KindAwaitExpression }

func (e *EBoolean) Kind() Kind {
	if e.Value {
		return KindTrueKeyword
	}
	return KindFalseKeyword
}

func (e *EUnary) Kind() Kind {
	if e.Op.IsPrefix() {
		return KindPrefixUnaryExpression
	}
	return KindPostfixUnaryExpression
}

func (*SEmpty) Kind() Kind            { return KindEmptyStatement }
func (*SExpr) Kind() Kind             { return KindExpressionStatement }
func (*SDirective) Kind() Kind        { return KindDirective }
func (*SLocal) Kind() Kind            { return KindVariableStatement }
func (*SIf) Kind() Kind               { return KindIfStatement }
func (*SFor) Kind() Kind              { return KindForStatement }
func (*SForIn) Kind() Kind            { return KindForInStatement }
func (*SForOf) Kind() Kind            { return KindForOfStatement }
func (*SWhile) Kind() Kind            { return KindWhileStatement }
func (*SDoWhile) Kind() Kind          { return KindDoStatement }
func (*SReturn) Kind() Kind           { return KindReturnStatement }
func (*SThrow) Kind() Kind            { return KindThrowStatement }
func (*SBreak) Kind() Kind            { return KindBreakStatement }
func (*SContinue) Kind() Kind         { return KindContinueStatement }
func (*SLabel) Kind() Kind            { return KindLabeledStatement }
func (*SSwitch) Kind() Kind           { return KindSwitchStatement }
func (*STry) Kind() Kind              { return KindTryStatement }
func (*SDebugger) Kind() Kind         { return KindDebuggerStatement }
func (*SFunction) Kind() Kind         { return KindFunctionDeclaration }
func (*SClass) Kind() Kind            { return KindClassDeclaration }
func (*SInterface) Kind() Kind        { return KindInterfaceDeclaration }
func (*STypeAlias) Kind() Kind        { return KindTypeAliasDeclaration }
func (*SEnum) Kind() Kind             { return KindEnumDeclaration }
func (*SNamespace) Kind() Kind        { return KindModuleDeclaration }
func (*SImport) Kind() Kind           { return KindImportDeclaration }
func (*SImportEquals) Kind() Kind     { return KindImportEqualsDeclaration }
func (*SExport) Kind() Kind           { return KindExportDeclaration }
func (*SExportAssignment) Kind() Kind { return KindExportAssignment }
func (*SNotEmitted) Kind() Kind       { return KindNotEmittedStatement }
func (*SMergeMarker) Kind() Kind      { return KindMergeDeclarationMarker }
func (*SEndOfDeclaration) Kind() Kind { return KindEndOfDeclarationMarker }

func (*CProperty) Kind() Kind       { return KindPropertyDeclaration }
func (*CMethod) Kind() Kind         { return KindMethodDeclaration }
func (*CGetAccessor) Kind() Kind    { return KindGetAccessor }
func (*CSetAccessor) Kind() Kind    { return KindSetAccessor }
func (*CConstructor) Kind() Kind    { return KindConstructor }
func (*CIndexSignature) Kind() Kind { return KindIndexSignature }
func (*CStaticBlock) Kind() Kind    { return KindClassStaticBlockDeclaration }
func (*CSemicolon) Kind() Kind      { return KindSemicolonClassElement }

func (*TKeyword) Kind() Kind            { return KindKeywordType }
func (*TReference) Kind() Kind          { return KindTypeReference }
func (*TArray) Kind() Kind              { return KindArrayType }
func (*TTuple) Kind() Kind              { return KindTupleType }
func (*TOptional) Kind() Kind           { return KindOptionalType }
func (*TRest) Kind() Kind               { return KindRestType }
func (*TUnion) Kind() Kind              { return KindUnionType }
func (*TIntersection) Kind() Kind       { return KindIntersectionType }
func (*TConditional) Kind() Kind        { return KindConditionalType }
func (*TInfer) Kind() Kind              { return KindInferType }
func (*TFunction) Kind() Kind           { return KindFunctionType }
func (*TConstructor) Kind() Kind        { return KindConstructorType }
func (*TParenthesized) Kind() Kind      { return KindParenthesizedType }
func (*TPredicate) Kind() Kind          { return KindTypePredicate }
func (*TLiteral) Kind() Kind            { return KindLiteralType }
func (*TTemplateLiteral) Kind() Kind    { return KindTemplateLiteralType }
func (*TTypeLiteral) Kind() Kind        { return KindTypeLiteral }
func (*TPropertySignature) Kind() Kind  { return KindPropertySignature }
func (*TMethodSignature) Kind() Kind    { return KindMethodSignature }
func (*TCallSignature) Kind() Kind      { return KindCallSignature }
func (*TConstructSignature) Kind() Kind { return KindConstructSignature }
func (*TQuery) Kind() Kind              { return KindTypeQuery }
func (*TThis) Kind() Kind               { return KindThisType }
func (*TOperator) Kind() Kind           { return KindTypeOperator }
func (*TIndexedAccess) Kind() Kind      { return KindIndexedAccessType }
func (*TMapped) Kind() Kind             { return KindMappedType }
func (*TImport) Kind() Kind             { return KindImportType }
