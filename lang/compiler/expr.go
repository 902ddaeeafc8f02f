package compiler

import (
	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/token"
	"github.com/vif-lang/vif/lang/viferr"
)

func (c *Compiler) compileExpr(e *ast.Expr) error {
	switch b := e.Body.(type) {
	case *ast.BinaryExpr:
		return c.compileBinary(b, e.Span)
	case *ast.UnaryExpr:
		return c.compileUnary(b, e.Span)
	case *ast.GroupingExpr:
		return c.compileExpr(b.Inner)
	case *ast.ValueExpr:
		return c.compileValue(b, e.Span)
	case *ast.LogicalExpr:
		return c.compileLogical(b, e.Span)
	case *ast.AssignExpr:
		return c.compileAssign(b, e.Span)
	case *ast.CallExpr:
		return c.compileCall(b, e.Span)
	case *ast.LoopKeywordExpr:
		// only valid as a bare statement; compileExpressionStmt intercepts it
		// before reaching here.
		return viferr.New(viferr.KindSyntaxError, e.Span, "break/continue is not a value")
	}
	return nil
}

var binaryOps = map[token.Token]objects.OpKind{
	token.PLUS:   objects.OpAdd,
	token.MINUS:  objects.OpSubstract,
	token.STAR:   objects.OpMultiply,
	token.SLASH:  objects.OpDivide,
	token.PERCENT: objects.OpModulo,
	token.EQEQ:   objects.OpEqual,
	token.NEQ:    objects.OpNotEqual,
	token.LT:     objects.OpLess,
	token.LE:     objects.OpLessOrEqual,
	token.GT:     objects.OpGreater,
	token.GE:     objects.OpGreaterOrEqual,
}

// compileBinary emits the left operand, then the right, then the operator:
// the VM pops right before left, so this evaluation order is what makes
// `a - b` compute `a` minus `b` rather than the reverse.
func (c *Compiler) compileBinary(b *ast.BinaryExpr, span objects.Span) error {
	if err := c.compileExpr(b.Left); err != nil {
		return err
	}
	if err := c.compileExpr(b.Right); err != nil {
		return err
	}
	op, ok := binaryOps[b.Op]
	if !ok {
		return viferr.New(viferr.KindSyntaxError, span, "unsupported binary operator %s", b.Op)
	}
	c.fc.emit(op, 0, span)
	return nil
}

func (c *Compiler) compileUnary(u *ast.UnaryExpr, span objects.Span) error {
	if err := c.compileExpr(u.Right); err != nil {
		return err
	}
	switch u.Op {
	case token.MINUS:
		c.fc.emit(objects.OpNegate, 0, span)
	case token.NOT:
		c.fc.emit(objects.OpNot, 0, span)
	default:
		return viferr.New(viferr.KindSyntaxError, span, "unsupported unary operator %s", u.Op)
	}
	return nil
}

func (c *Compiler) compileValue(v *ast.ValueExpr, span objects.Span) error {
	switch v.Kind {
	case ast.ValInteger:
		idx, err := c.globals.Add(objects.NewIntegerGlobal(v.Int))
		if err != nil {
			return viferr.New(viferr.KindConstantNotFound, span, "%v", err)
		}
		c.fc.emit(objects.OpGlobal, idx, span)
	case ast.ValFloat:
		idx, err := c.globals.Add(objects.NewFloatGlobal(v.Float))
		if err != nil {
			return viferr.New(viferr.KindConstantNotFound, span, "%v", err)
		}
		c.fc.emit(objects.OpGlobal, idx, span)
	case ast.ValString:
		idx, err := c.globals.Add(objects.NewStringGlobal(v.Str))
		if err != nil {
			return viferr.New(viferr.KindConstantNotFound, span, "%v", err)
		}
		c.fc.emit(objects.OpGlobal, idx, span)
	case ast.ValTrue:
		c.fc.emit(objects.OpTrue, 0, span)
	case ast.ValFalse:
		c.fc.emit(objects.OpFalse, 0, span)
	case ast.ValNone:
		c.fc.emit(objects.OpNone, 0, span)
	case ast.ValVariable:
		return c.compileVariableRead(v.Name, span)
	}
	return nil
}

// compileVariableRead resolves name in lookup order local, inherited,
// global, synthesizing a fresh global slot for an otherwise-unresolved
// name so the VM can raise UndeclaredVariable at the point it is actually
// read.
func (c *Compiler) compileVariableRead(name string, span objects.Span) error {
	if !c.fc.isTop() {
		if lv, ok := c.fc.resolveLocal(name); ok {
			c.fc.emit(objects.OpGetLocal, lv.slot, span)
			return nil
		}
		if il, ok := c.fc.resolveInherited(name); ok {
			c.fc.recordInherited(il)
			c.fc.emit2(objects.OpGetInheritedLocal, il.Pos, il.Depth, span)
			return nil
		}
	}
	if gv, ok := c.globalVars[name]; ok {
		c.fc.emit(objects.OpGetGlobal, gv.index, span)
		return nil
	}
	idx, err := c.globals.Add(objects.NewIdentifierGlobal(name))
	if err != nil {
		return viferr.New(viferr.KindConstantNotFound, span, "%v", err)
	}
	c.fc.emit(objects.OpGetGlobal, idx, span)
	return nil
}

func (c *Compiler) compileLogical(l *ast.LogicalExpr, span objects.Span) error {
	if err := c.compileExpr(l.Left); err != nil {
		return err
	}
	if l.Kind == ast.LogicalAnd {
		endJump := c.fc.emit(objects.OpJumpIfFalse, 0, span)
		c.fc.emit(objects.OpPop, 0, span)
		if err := c.compileExpr(l.Right); err != nil {
			return err
		}
		c.fc.patchRelative(endJump)
		return nil
	}

	elseJump := c.fc.emit(objects.OpJumpIfFalse, 0, span)
	endJump := c.fc.emit(objects.OpJump, 0, span)
	c.fc.patchRelative(elseJump)
	c.fc.emit(objects.OpPop, 0, span)
	if err := c.compileExpr(l.Right); err != nil {
		return err
	}
	c.fc.patchRelative(endJump)
	return nil
}

// compileAssign leaves the assigned value on the stack (Set* opcodes copy
// top without popping), so assignment chains `a = b = c` work naturally.
func (c *Compiler) compileAssign(a *ast.AssignExpr, span objects.Span) error {
	if err := c.compileExpr(a.Value); err != nil {
		return err
	}
	name := a.Target.Body.(*ast.ValueExpr).Name

	if !c.fc.isTop() {
		if lv, ok := c.fc.resolveLocal(name); ok {
			if !lv.mutable {
				return viferr.New(viferr.KindSyntaxError, a.Target.Span, "cannot assign to non-mutable variable %q", name)
			}
			c.fc.emit(objects.OpSetLocal, lv.slot, span)
			return nil
		}
		if il, ok := c.fc.resolveInherited(name); ok {
			if !il.Mutable {
				return viferr.New(viferr.KindSyntaxError, a.Target.Span, "cannot assign to non-mutable variable %q", name)
			}
			c.fc.recordInherited(il)
			c.fc.emit2(objects.OpSetInheritedLocal, il.Pos, il.Depth, span)
			return nil
		}
	}

	if gv, ok := c.globalVars[name]; ok {
		if !gv.mutable {
			return viferr.New(viferr.KindSyntaxError, a.Target.Span, "cannot assign to non-mutable variable %q", name)
		}
		c.fc.emit(objects.OpSetGlobal, gv.index, span)
		return nil
	}

	idx, err := c.globals.Add(objects.NewIdentifierGlobal(name))
	if err != nil {
		return viferr.New(viferr.KindConstantNotFound, span, "%v", err)
	}
	c.fc.emit(objects.OpSetGlobal, idx, span)
	return nil
}

func (c *Compiler) compileCall(call *ast.CallExpr, span objects.Span) error {
	if err := c.compileExpr(call.Callee); err != nil {
		return err
	}
	for _, a := range call.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.fc.emit(objects.OpCall, len(call.Args), span)
	return nil
}
