// Package ast defines the Vif abstract syntax tree: statements, expressions
// and the Function node shared by function declarations and the implicit
// top-level program.
package ast

import (
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/token"
)

// Stmt is implemented by every statement node: Expression, Var, Function,
// Block, Condition, While, Return, Assert.
type Stmt interface {
	Span() objects.Span
	stmtNode()
}

// ExprBody is implemented by every expression body variant: Binary, Unary,
// Grouping, Value, LoopKeyword, Assign, Logical, Call.
type ExprBody interface {
	exprBodyNode()
}

// Expr wraps an ExprBody with the static Typing the parser seeds and the
// static pass later refines, plus its source Span.
type Expr struct {
	Body   ExprBody
	Typing objects.Typing
	Span   objects.Span
}

// Param is one parameter of a function declaration: its name and Typing
// (Typing.Mutable is set by a leading `mut` in the declaration).
type Param struct {
	Name   string
	Typing objects.Typing
}

// Function is both a `def` statement and the implicit top-level program
// (Name == "" for the latter). It owns its parameter list and body, and
// carries its own Typing once the static pass has computed its Callable
// signature.
type Function struct {
	Name    string
	Params  []Param
	Body    []Stmt
	Typing  objects.Typing
	FnSpan  objects.Span
}

func (f *Function) Span() objects.Span { return f.FnSpan }
func (*Function) stmtNode()            {}

// BadStmt stands in for a statement that failed to parse, letting the
// parser resynchronize and continue reporting further errors.
type BadStmt struct {
	Start, End objects.Span
}

func (b *BadStmt) Span() objects.Span { return b.Start }
func (*BadStmt) stmtNode()            {}

// ExpressionStmt is an expression used as a statement: a call, an
// assignment, or a bare break/continue LoopKeyword expression.
type ExpressionStmt struct {
	Expr *Expr
}

func (s *ExpressionStmt) Span() objects.Span { return s.Expr.Span }
func (*ExpressionStmt) stmtNode()            {}

// VarStmt is `var [mut]? NAME = EXPR`.
type VarStmt struct {
	Name     string
	Mutable  bool
	Value    *Expr
	VarSpan  objects.Span
}

func (s *VarStmt) Span() objects.Span { return s.VarSpan }
func (*VarStmt) stmtNode()            {}

// BlockStmt is a sequence of statements introduced by INDENT and closed by
// DEDENT.
type BlockStmt struct {
	Stmts     []Stmt
	BlockSpan objects.Span
}

func (s *BlockStmt) Span() objects.Span { return s.BlockSpan }
func (*BlockStmt) stmtNode()            {}

// ConditionStmt is `if COND: THEN [else: ELSE]`. An `elif` chain is
// represented by a single-statement Else holding a nested ConditionStmt.
type ConditionStmt struct {
	Cond      *Expr
	Then      []Stmt
	Else      []Stmt
	CondSpan  objects.Span
}

func (s *ConditionStmt) Span() objects.Span { return s.CondSpan }
func (*ConditionStmt) stmtNode()            {}

// WhileStmt is `while COND: BODY`.
type WhileStmt struct {
	Cond       *Expr
	Body       []Stmt
	WhileSpan  objects.Span
}

func (s *WhileStmt) Span() objects.Span { return s.WhileSpan }
func (*WhileStmt) stmtNode()            {}

// ReturnStmt is `return [EXPR]`. Value is nil for a bare `return`.
type ReturnStmt struct {
	Value      *Expr
	ReturnSpan objects.Span
}

func (s *ReturnStmt) Span() objects.Span { return s.ReturnSpan }
func (*ReturnStmt) stmtNode()            {}

// AssertStmt is `assert EXPR`.
type AssertStmt struct {
	Value      *Expr
	AssertSpan objects.Span
}

func (s *AssertStmt) Span() objects.Span { return s.AssertSpan }
func (*AssertStmt) stmtNode()            {}

// LoopKind distinguishes break from continue in a LoopKeywordExpr.
type LoopKind uint8

const (
	LoopBreak LoopKind = iota
	LoopContinue
)

func LoopKindFor(tok token.Token) LoopKind {
	if tok == token.CONTINUE {
		return LoopContinue
	}
	return LoopBreak
}
