// Package static implements Vif's mutability and call-signature inference
// pass: a single in-place rewrite over the AST that fills every expression's
// Typing hole before the compiler runs. It tracks visible bindings with a
// flat stack of name/Typing pairs, pushed on scope entry and truncated on
// exit.
package static

import (
	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/viferr"
)

// Check runs the static pass over the top-level program, mutating every
// Expr's Typing and every Function's Typing in place. It returns the first
// static error encountered, per spec's short-circuit propagation rule.
func Check(top *ast.Function) error {
	c := &checker{}
	return c.checkFunction(top)
}

type ref struct {
	name   string
	typing objects.Typing
}

type checker struct {
	refs []ref
}

func (c *checker) push(name string, t objects.Typing) { c.refs = append(c.refs, ref{name, t}) }
func (c *checker) mark() int                          { return len(c.refs) }
func (c *checker) truncate(n int)                     { c.refs = c.refs[:n] }

func (c *checker) lookup(name string) (objects.Typing, bool) {
	for i := len(c.refs) - 1; i >= 0; i-- {
		if c.refs[i].name == name {
			return c.refs[i].typing, true
		}
	}
	return objects.Typing{}, false
}

func (c *checker) update(name string, t objects.Typing) {
	for i := len(c.refs) - 1; i >= 0; i-- {
		if c.refs[i].name == name {
			c.refs[i].typing = t
			return
		}
	}
}

func nativeTyping(name string) (objects.Typing, bool) {
	switch name {
	case "print":
		return objects.NewCallableTyping(objects.Signature{Infinite: true}, objects.None, true), true
	case "get_time":
		out := objects.Typing{Kind: objects.KindInt, Mutable: true}
		return objects.NewCallableTyping(objects.Signature{}, out, true), true
	case "sleep":
		sig := objects.Signature{Params: []objects.Typing{{Kind: objects.KindInt, Mutable: true}}}
		return objects.NewCallableTyping(sig, objects.None, true), true
	}
	return objects.Typing{}, false
}

// checkFunction visits fn's body, then runs the function post-pass to
// compute fn.Typing from its collected return statements.
func (c *checker) checkFunction(fn *ast.Function) error {
	entry := c.mark()
	c.push(fn.Name, objects.Unknown) // visible for recursive calls during the body walk
	for i := range fn.Params {
		c.push(fn.Params[i].Name, fn.Params[i].Typing)
	}

	for _, stmt := range fn.Body {
		if err := c.checkStmt(stmt, fn); err != nil {
			return err
		}
	}

	output, mutable, err := c.computeReturnTyping(fn)
	if err != nil {
		return err
	}

	sig := objects.Signature{Params: paramTypings(fn.Params)}
	fn.Typing = objects.NewCallableTyping(sig, output, mutable)

	c.truncate(entry)
	c.push(fn.Name, fn.Typing)
	return nil
}

func paramTypings(params []ast.Param) []objects.Typing {
	out := make([]objects.Typing, len(params))
	for i, p := range params {
		out[i] = p.Typing
	}
	return out
}

// computeReturnTyping collects every top-level Return in fn's body (not
// descending into nested function declarations), checks they all share the
// same value Typing.Kind, and derives fn's output typing and mutability.
func (c *checker) computeReturnTyping(fn *ast.Function) (objects.Typing, bool, error) {
	returns := collectTopReturns(fn.Body)
	if len(returns) == 0 {
		return objects.None, true, nil
	}

	returnTyping := func(r *ast.ReturnStmt) objects.Typing {
		if r.Value == nil {
			return objects.None
		}
		return r.Value.Typing
	}

	first := returnTyping(returns[0])
	mutable := first.Mutable
	for _, r := range returns[1:] {
		t := returnTyping(r)
		if !t.Equal(first) {
			return objects.Typing{}, false, viferr.New(viferr.KindDifferentSignatureBetweenReturns, r.ReturnSpan,
				"function %q returns both %s and %s", fn.Name, first.Kind, t.Kind)
		}
		mutable = mutable && t.Mutable
	}
	return first, mutable, nil
}

func collectTopReturns(body []ast.Stmt) []*ast.ReturnStmt {
	var out []*ast.ReturnStmt
	var walk func([]ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch st := s.(type) {
			case *ast.ReturnStmt:
				out = append(out, st)
			case *ast.BlockStmt:
				walk(st.Stmts)
			case *ast.ConditionStmt:
				walk(st.Then)
				walk(st.Else)
			case *ast.WhileStmt:
				walk(st.Body)
			}
		}
	}
	walk(body)
	return out
}

func (c *checker) checkStmt(stmt ast.Stmt, fn *ast.Function) error {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		if err := c.checkExpr(s.Value, fn); err != nil {
			return err
		}
		if s.Mutable && !s.Value.Typing.Mutable {
			return viferr.New(viferr.KindNonMutableArgumentToMutableVariable, s.VarSpan,
				"cannot bind a non-mutable value to mutable variable %q", s.Name)
		}
		c.push(s.Name, objects.Typing{Kind: s.Value.Typing.Kind, Mutable: s.Mutable, Callable: s.Value.Typing.Callable})
		return nil

	case *ast.Function:
		return c.checkFunction(s)

	case *ast.BlockStmt:
		entry := c.mark()
		defer c.truncate(entry)
		for _, st := range s.Stmts {
			if err := c.checkStmt(st, fn); err != nil {
				return err
			}
		}
		return nil

	case *ast.ConditionStmt:
		if err := c.checkExpr(s.Cond, fn); err != nil {
			return err
		}
		if err := c.checkBranch(s.Then, fn); err != nil {
			return err
		}
		return c.checkBranch(s.Else, fn)

	case *ast.WhileStmt:
		if err := c.checkExpr(s.Cond, fn); err != nil {
			return err
		}
		return c.checkBranch(s.Body, fn)

	case *ast.ReturnStmt:
		if s.Value != nil {
			return c.checkExpr(s.Value, fn)
		}
		return nil

	case *ast.AssertStmt:
		return c.checkExpr(s.Value, fn)

	case *ast.ExpressionStmt:
		return c.checkExpr(s.Expr, fn)

	case *ast.BadStmt:
		return nil
	}
	return nil
}

func (c *checker) checkBranch(stmts []ast.Stmt, fn *ast.Function) error {
	entry := c.mark()
	defer c.truncate(entry)
	for _, st := range stmts {
		if err := c.checkStmt(st, fn); err != nil {
			return err
		}
	}
	return nil
}

func isNumeric(k objects.Kind) bool { return k == objects.KindInt || k == objects.KindFloat }

func (c *checker) checkExpr(e *ast.Expr, fn *ast.Function) error {
	switch b := e.Body.(type) {
	case *ast.BinaryExpr:
		if err := c.checkExpr(b.Left, fn); err != nil {
			return err
		}
		if err := c.checkExpr(b.Right, fn); err != nil {
			return err
		}
		kind, err := binaryResultKind(b, e)
		if err != nil {
			return err
		}
		e.Typing = objects.Typing{Kind: kind, Mutable: true}
		return nil

	case *ast.UnaryExpr:
		if err := c.checkExpr(b.Right, fn); err != nil {
			return err
		}
		e.Typing = b.Right.Typing
		return nil

	case *ast.GroupingExpr:
		if err := c.checkExpr(b.Inner, fn); err != nil {
			return err
		}
		e.Typing = b.Inner.Typing
		return nil

	case *ast.LogicalExpr:
		if err := c.checkExpr(b.Left, fn); err != nil {
			return err
		}
		if err := c.checkExpr(b.Right, fn); err != nil {
			return err
		}
		mutable := true
		if b.Kind == ast.LogicalOr {
			mutable = b.Left.Typing.Mutable && b.Right.Typing.Mutable
		}
		e.Typing = objects.Typing{Kind: b.Left.Typing.Kind, Mutable: mutable}
		return nil

	case *ast.AssignExpr:
		if err := c.checkExpr(b.Value, fn); err != nil {
			return err
		}
		name := b.Target.Body.(*ast.ValueExpr).Name
		target, ok := c.lookup(name)
		if !ok {
			// unresolved target: not checked here; the compiler binds the
			// name as a new global and emits SetGlobal for it.
			e.Typing = objects.Unknown
			return nil
		}
		if !target.Mutable {
			return viferr.New(viferr.KindNonMutableArgumentToMutableVariable, b.Target.Span,
				"cannot assign to non-mutable variable %q", name)
		}
		e.Typing = target
		return nil

	case *ast.ValueExpr:
		if b.Kind == ast.ValVariable {
			if t, ok := c.lookup(b.Name); ok {
				e.Typing = t
			} else if t, ok := nativeTyping(b.Name); ok {
				e.Typing = t
			} else {
				e.Typing = objects.Unknown
			}
		}
		return nil

	case *ast.LoopKeywordExpr:
		e.Typing = objects.None
		return nil

	case *ast.CallExpr:
		return c.checkCall(e, b, fn)
	}
	return nil
}

func binaryResultKind(b *ast.BinaryExpr, e *ast.Expr) (objects.Kind, error) {
	l, r := b.Left.Typing.Kind, b.Right.Typing.Kind
	switch b.Op.String() {
	case "==", "!=", "<", "<=", ">", ">=":
		if l != r && !(isNumeric(l) && isNumeric(r)) && l != objects.KindUnknown && r != objects.KindUnknown {
			return 0, viferr.New(viferr.KindIncompatibleTypes, e.Span, "cannot compare %s with %s", l, r)
		}
		return objects.KindBool, nil
	case "+":
		if l == objects.KindString || r == objects.KindString {
			if l != r {
				return 0, viferr.New(viferr.KindIncompatibleTypes, e.Span, "cannot add %s and %s", l, r)
			}
			return objects.KindString, nil
		}
		fallthrough
	default: // -, *, /, %
		if !isNumeric(l) && l != objects.KindUnknown || !isNumeric(r) && r != objects.KindUnknown {
			return 0, viferr.New(viferr.KindIncompatibleTypes, e.Span, "arithmetic on non-numeric types %s and %s", l, r)
		}
		if l == objects.KindFloat || r == objects.KindFloat {
			return objects.KindFloat, nil
		}
		return objects.KindInt, nil
	}
}

func (c *checker) checkCall(e *ast.Expr, call *ast.CallExpr, fn *ast.Function) error {
	if err := c.checkExpr(call.Callee, fn); err != nil {
		return err
	}
	for _, a := range call.Args {
		if err := c.checkExpr(a, fn); err != nil {
			return err
		}
	}

	e.Typing = objects.Typing{Kind: objects.KindUnknown, Mutable: call.Callee.Typing.Mutable}

	callee := call.Callee.Typing
	if callee.Kind != objects.KindCallable || callee.Callable == nil {
		return nil
	}
	sig := callee.Callable.Signature

	if !sig.Infinite {
		if len(sig.Params) != len(call.Args) {
			return viferr.New(viferr.KindWrongArgumentNumberFunction, e.Span,
				"%s expects %d argument(s), got %d", calleeName(call.Callee), len(sig.Params), len(call.Args))
		}
		for i, p := range sig.Params {
			if p.Mutable && !call.Args[i].Typing.Mutable {
				return viferr.New(viferr.KindNonMutableArgumentToMutableParameter, call.Args[i].Span,
					"argument %d to %s must be mutable", i+1, calleeName(call.Callee))
			}
		}
	}

	e.Typing = objects.Typing{Kind: callee.Callable.Output.Kind, Mutable: callee.Mutable, Callable: callee.Callable.Output.Callable}

	return c.inferParamSignature(call.Callee, fn)
}

// inferParamSignature implements the mono-morphic inference rule: when the
// callee is a reference to one of the enclosing function's own parameters,
// record the Callable inferred from this call site on that parameter so
// later references (and the compiler) see a concrete signature. A second
// call through the same parameter with an incompatible signature is a
// DifferentSignatureBetweenFunction error.
func (c *checker) inferParamSignature(callee *ast.Expr, fn *ast.Function) error {
	v, ok := callee.Body.(*ast.ValueExpr)
	if !ok || v.Kind != ast.ValVariable {
		return nil
	}
	for i := range fn.Params {
		if fn.Params[i].Name != v.Name {
			continue
		}
		newCallable := callee.Typing.Callable
		if newCallable == nil {
			return nil
		}
		if fn.Params[i].Typing.Callable == nil {
			fn.Params[i].Typing.Kind = objects.KindCallable
			fn.Params[i].Typing.Callable = newCallable
			c.update(v.Name, fn.Params[i].Typing)
		} else if !callableEqual(fn.Params[i].Typing.Callable, newCallable) {
			return viferr.New(viferr.KindDifferentSignatureBetweenFunction, callee.Span,
				"parameter %q called with incompatible signatures", v.Name)
		}
	}
	return nil
}

func callableEqual(a, b *objects.Callable) bool {
	if a.Signature.Infinite != b.Signature.Infinite {
		return false
	}
	if !a.Output.Equal(b.Output) {
		return false
	}
	if len(a.Signature.Params) != len(b.Signature.Params) {
		return false
	}
	for i := range a.Signature.Params {
		if !a.Signature.Params[i].Equal(b.Signature.Params[i]) {
			return false
		}
	}
	return true
}

func calleeName(callee *ast.Expr) string {
	if v, ok := callee.Body.(*ast.ValueExpr); ok && v.Kind == ast.ValVariable {
		return "function " + v.Name
	}
	return "callee expression"
}
