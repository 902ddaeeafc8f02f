package compiler

import (
	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/viferr"
)

func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		return c.compileVarStmt(s)
	case *ast.Function:
		return c.compileFunctionDecl(s)
	case *ast.BlockStmt:
		c.fc.beginBlock()
		defer c.fc.endBlock()
		return c.compileBody(s.Stmts)
	case *ast.ConditionStmt:
		return c.compileCondition(s)
	case *ast.WhileStmt:
		return c.compileWhile(s)
	case *ast.ReturnStmt:
		return c.compileReturn(s)
	case *ast.AssertStmt:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.fc.emit(objects.OpAssertTrue, 0, s.AssertSpan)
		c.fc.emit(objects.OpPop, 0, s.AssertSpan)
		return nil
	case *ast.ExpressionStmt:
		return c.compileExpressionStmt(s)
	case *ast.BadStmt:
		return nil
	}
	return nil
}

func (c *Compiler) compileVarStmt(s *ast.VarStmt) error {
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	if s.Mutable && !s.Value.Typing.Mutable {
		return viferr.New(viferr.KindSyntaxError, s.VarSpan,
			"cannot declare mutable variable %q from a non-mutable value", s.Name)
	}

	if c.fc.isTop() {
		idx, err := c.globals.Add(objects.NewIdentifierGlobal(s.Name))
		if err != nil {
			return viferr.New(viferr.KindConstantNotFound, s.VarSpan, "%v", err)
		}
		c.globalVars[s.Name] = globalVarInfo{index: idx, mutable: s.Mutable}
		c.fc.emit(objects.OpGlobalVariable, idx, s.VarSpan)
		return nil
	}

	slot := c.fc.declareLocal(s.Name, s.Mutable)
	c.fc.emit(objects.OpCreateLocal, slot, s.VarSpan)
	return nil
}

// compileFunctionDecl compiles a nested `def`. The binding name is
// reserved before the body is compiled so a recursive self-call inside the
// body resolves (see GlobalStore.SetEntry and DESIGN.md).
func (c *Compiler) compileFunctionDecl(fnAst *ast.Function) error {
	if c.fc.isTop() {
		idx, err := c.globals.Add(objects.NewIdentifierGlobal(fnAst.Name))
		if err != nil {
			return viferr.New(viferr.KindConstantNotFound, fnAst.FnSpan, "%v", err)
		}
		c.globalVars[fnAst.Name] = globalVarInfo{index: idx, mutable: false}

		compiled, err := c.compileFunctionBody(fnAst)
		if err != nil {
			return err
		}
		c.globals.SetEntry(idx, objects.NewFunctionGlobal(fnAst.Name, compiled))
		c.fc.emit(objects.OpGlobal, idx, fnAst.FnSpan)
		c.fc.emit(objects.OpGlobalVariable, idx, fnAst.FnSpan)
		return nil
	}

	slot := c.fc.declareLocal(fnAst.Name, false)
	compiled, err := c.compileFunctionBody(fnAst)
	if err != nil {
		return err
	}
	idx, err := c.globals.Add(objects.NewFunctionGlobal(fnAst.Name, compiled))
	if err != nil {
		return viferr.New(viferr.KindConstantNotFound, fnAst.FnSpan, "%v", err)
	}
	c.fc.emit(objects.OpGlobal, idx, fnAst.FnSpan)
	c.fc.emit(objects.OpCreateLocal, slot, fnAst.FnSpan)
	return nil
}

// compileFunctionBody compiles fnAst's parameters and statements into a
// fresh *objects.Function, nested under the current funcCompiler.
// objects.CallFrame.StackPosition addresses the callee value itself (slot
// 0, never targeted by GetLocal); parameters and locals start at slot 1.
func (c *Compiler) compileFunctionBody(fnAst *ast.Function) (*objects.Function, error) {
	child := &objects.Function{Arity: objects.FixedArity(len(fnAst.Params)), Name: fnAst.Name}
	fc := &funcCompiler{enclosing: c.fc, fn: child, nextSlot: 1}

	saved := c.fc
	c.fc = fc
	for _, p := range fnAst.Params {
		fc.declareLocal(p.Name, p.Typing.Mutable)
	}
	err := c.compileBody(fnAst.Body)
	c.finishChunk(fc)
	c.fc = saved

	if err != nil {
		return nil, err
	}
	return child, nil
}

func (c *Compiler) compileCondition(s *ast.ConditionStmt) error {
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	thenJump := c.fc.emit(objects.OpJumpIfFalse, 0, s.CondSpan)
	c.fc.emit(objects.OpPop, 0, s.CondSpan)

	c.fc.beginBlock()
	if err := c.compileBody(s.Then); err != nil {
		return err
	}
	c.fc.endBlock()

	elseJump := c.fc.emit(objects.OpJump, 0, s.CondSpan)
	c.fc.patchRelative(thenJump)
	c.fc.emit(objects.OpPop, 0, s.CondSpan)

	if len(s.Else) > 0 {
		c.fc.beginBlock()
		if err := c.compileBody(s.Else); err != nil {
			return err
		}
		c.fc.endBlock()
	}
	c.fc.patchRelative(elseJump)
	return nil
}

func (c *Compiler) compileWhile(s *ast.WhileStmt) error {
	start := c.fc.here()
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	condJump := c.fc.emit(objects.OpJumpIfFalse, 0, s.WhileSpan)
	c.fc.loops = append(c.fc.loops, loopCtx{start: start, condJumpPos: condJump})
	c.fc.emit(objects.OpPop, 0, s.WhileSpan)

	c.fc.beginBlock()
	err := c.compileBody(s.Body)
	c.fc.endBlock()

	loop := c.fc.loops[len(c.fc.loops)-1]
	c.fc.loops = c.fc.loops[:len(c.fc.loops)-1]
	if err != nil {
		return err
	}

	c.fc.emit(objects.OpGoto, start, s.WhileSpan)
	exit := c.fc.here()
	c.fc.patchRelative(loop.condJumpPos)
	for _, bp := range loop.breakGotos {
		c.fc.fn.Chunk[bp].A = exit
	}
	c.fc.emit(objects.OpPop, 0, s.WhileSpan)
	return nil
}

func (c *Compiler) compileReturn(s *ast.ReturnStmt) error {
	if s.Value != nil {
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
	} else {
		c.fc.emit(objects.OpNone, 0, s.ReturnSpan)
	}
	c.fc.emit(objects.OpReturn, 0, s.ReturnSpan)
	return nil
}

func (c *Compiler) compileExpressionStmt(s *ast.ExpressionStmt) error {
	if lk, ok := s.Expr.Body.(*ast.LoopKeywordExpr); ok {
		return c.compileLoopKeyword(lk, s.Expr.Span)
	}
	if err := c.compileExpr(s.Expr); err != nil {
		return err
	}
	c.fc.emit(objects.OpPop, 0, s.Expr.Span)
	return nil
}

// compileLoopKeyword compiles a bare break or continue. break deliberately
// leaves a False value on the stack for the loop's trailing Pop to
// discard, matching the natural falsy-condition exit path.
func (c *Compiler) compileLoopKeyword(lk *ast.LoopKeywordExpr, span objects.Span) error {
	if len(c.fc.loops) == 0 {
		return viferr.New(viferr.KindSyntaxError, span, "break/continue used outside of a loop")
	}
	loop := &c.fc.loops[len(c.fc.loops)-1]
	switch lk.Kind {
	case ast.LoopBreak:
		c.fc.emit(objects.OpFalse, 0, span)
		pos := c.fc.emit(objects.OpGoto, 0, span)
		loop.breakGotos = append(loop.breakGotos, pos)
	case ast.LoopContinue:
		c.fc.emit(objects.OpGoto, loop.start, span)
	}
	return nil
}
