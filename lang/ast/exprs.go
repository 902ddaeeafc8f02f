package ast

import "github.com/vif-lang/vif/lang/token"

// BinaryExpr is a binary arithmetic or comparison expression, e.g. `a + b`.
type BinaryExpr struct {
	Left  *Expr
	Op    token.Token
	Right *Expr
}

func (*BinaryExpr) exprBodyNode() {}

// UnaryExpr is `-x` or `not x`.
type UnaryExpr struct {
	Op    token.Token
	Right *Expr
}

func (*UnaryExpr) exprBodyNode() {}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Inner *Expr
}

func (*GroupingExpr) exprBodyNode() {}

// ValueKind is the tag of a literal/reference Value expression.
type ValueKind uint8

const (
	ValString ValueKind = iota
	ValInteger
	ValFloat
	ValVariable
	ValTrue
	ValFalse
	ValNone
)

// ValueExpr is a literal or a bare variable reference.
type ValueExpr struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Name  string // ValVariable only
}

func (*ValueExpr) exprBodyNode() {}

// LoopKeywordExpr is a bare `break` or `continue`.
type LoopKeywordExpr struct {
	Kind LoopKind
}

func (*LoopKeywordExpr) exprBodyNode() {}

// AssignExpr is `target = value`. The parser guarantees Target.Body is a
// ValueExpr of Kind ValVariable; any other left-hand side is rejected with
// a ParsingError at parse time.
type AssignExpr struct {
	Target *Expr
	Value  *Expr
}

func (*AssignExpr) exprBodyNode() {}

// LogicalKind distinguishes `and` from `or`.
type LogicalKind uint8

const (
	LogicalAnd LogicalKind = iota
	LogicalOr
)

// LogicalExpr is a short-circuiting `and`/`or` expression.
type LogicalExpr struct {
	Left  *Expr
	Kind  LogicalKind
	Right *Expr
}

func (*LogicalExpr) exprBodyNode() {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee *Expr
	Args   []*Expr
}

func (*CallExpr) exprBodyNode() {}
