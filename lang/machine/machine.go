package machine

import (
	"fmt"

	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/viferr"
)

// loop is the VM's dispatch loop: it pulls the next opcode from the
// current call frame until the frame stack empties, executing each
// opcode's stack effect. Returns the final value
// left on the stack, if any (used by embedding callers; ordinary `vif run`
// programs ignore it, since a top-level program's return value is never
// surfaced -- only native print output and any error matter).
func (th *Thread) loop() (objects.StackValue, error) {
	for len(th.frames) > 0 {
		frame := th.currentFrame()
		op, ok := frame.NextOp()
		if !ok {
			// every compiled chunk ends with Return (compiler.finishChunk); a
			// frame running off the end of its chunk is an internal error.
			return objects.StackValue{}, vmErr(viferr.KindUnknown, objects.Span{}, "function %q fell off the end of its chunk", frame.Function.Name)
		}

		th.steps++
		if th.cancelled() {
			return objects.StackValue{}, vmErr(viferr.KindFunctionCall, op.Span, "execution aborted: step budget exceeded")
		}

		if err := th.dispatch(frame, op); err != nil {
			return objects.StackValue{}, err
		}
	}
	if th.stack.Top() > 0 {
		return th.stack.PeekLast(), nil
	}
	return objects.NoneValue(), nil
}

func (th *Thread) dispatch(frame *objects.CallFrame, op objects.OpCode) error {
	switch op.Kind {
	case objects.OpGlobal:
		th.stack.Push(objects.GlobalValue(th.globals.GetPtr(op.A)))

	case objects.OpGlobalVariable:
		name := th.globals.Get(op.A).Name()
		th.variables.Put(name, th.stack.Pop())

	case objects.OpGetGlobal:
		return th.opGetGlobal(op)

	case objects.OpSetGlobal:
		g := th.globals.Get(op.A)
		th.variables.Put(g.Name(), th.stack.PeekLast())

	case objects.OpGetLocal:
		th.stack.Push(th.stack.Peek(frame.StackPosition + op.A))

	case objects.OpCreateLocal:
		th.stack.Set(frame.StackPosition+op.A, th.stack.Pop())

	case objects.OpSetLocal:
		th.stack.Set(frame.StackPosition+op.A, th.stack.PeekLast())

	case objects.OpGetInheritedLocal:
		base, err := th.enclosingBase(op.B, op.Span)
		if err != nil {
			return err
		}
		th.stack.Push(objects.StackRefValue(int64(base + op.A)))

	case objects.OpSetInheritedLocal:
		base, err := th.enclosingBase(op.B, op.Span)
		if err != nil {
			return err
		}
		th.stack.Set(base+op.A, th.stack.PeekLast())

	case objects.OpNegate:
		return th.opNegate(op.Span)

	case objects.OpNot:
		v := th.materialize(th.stack.Pop())
		th.stack.Push(objects.BoolValue(!v.Truthy()))

	case objects.OpAdd, objects.OpSubstract, objects.OpMultiply, objects.OpDivide, objects.OpModulo:
		return th.arith(op.Kind, op.Span)

	case objects.OpTrue:
		th.stack.Push(objects.BoolValue(true))
	case objects.OpFalse:
		th.stack.Push(objects.BoolValue(false))
	case objects.OpNone:
		th.stack.Push(objects.NoneValue())

	case objects.OpEqual, objects.OpNotEqual, objects.OpLess, objects.OpLessOrEqual,
		objects.OpGreater, objects.OpGreaterOrEqual:
		return th.compare(op.Kind, op.Span)

	case objects.OpPop:
		th.stack.Pop()

	case objects.OpAssertTrue:
		v := th.materialize(th.stack.PeekLast())
		if !v.Truthy() {
			return vmErr(viferr.KindAssertFail, op.Span, "assertion failed")
		}

	case objects.OpJumpIfFalse:
		v := th.materialize(th.stack.PeekLast())
		if !v.Truthy() {
			frame.IP += op.A
		}

	case objects.OpJump:
		frame.IP += op.A

	case objects.OpGoto:
		frame.IP = op.A

	case objects.OpCall:
		return th.call(op)

	case objects.OpReturn:
		return th.doReturn(frame)

	case objects.OpNotImplemented:
		return vmErr(viferr.KindUnknown, op.Span, "NotImplemented opcode reached")

	default:
		return vmErr(viferr.KindUnknown, op.Span, "unrecognized opcode %s", op.Kind)
	}
	return nil
}

func (th *Thread) opGetGlobal(op objects.OpCode) error {
	g := th.globals.Get(op.A)
	if v, ok := th.variables.Get(g.Name()); ok {
		th.stack.Push(v)
		return nil
	}
	if g.Kind == objects.GlobalNative {
		th.stack.Push(objects.NativeValue(g.Native))
		return nil
	}
	return vmErr(viferr.KindUndeclaredVariable, op.Span, "undeclared variable %q", g.Name())
}

func (th *Thread) opNegate(span objects.Span) error {
	v := th.materialize(th.stack.Pop())
	switch v.Kind {
	case objects.SVInteger, objects.SVIndex:
		th.stack.Push(objects.IntValue(-v.Int))
	case objects.SVFloat:
		th.stack.Push(objects.FloatValue(-v.Float))
	default:
		return vmErr(viferr.KindValueError, span, "cannot negate a %s", v.TypeName())
	}
	return nil
}

// enclosingBase walks depth frames up the call stack from the current one
// to find the stack position of the frame an inherited-local reference was
// resolved against at compile time. This relies on Vif's restricted
// closure model: a nested def's enclosing lexical frame is always its
// dynamic caller at the depth the compiler recorded -- an acknowledged
// limitation that breaks for a closure called outside of its original call
// chain, mitigated by the soft-trunc mechanism.
func (th *Thread) enclosingBase(depth int, span objects.Span) (int, error) {
	idx := len(th.frames) - 1 - depth
	if idx < 0 {
		return 0, vmErr(viferr.KindUnknown, span, "inherited local references a frame %d levels up but only %d are active", depth, len(th.frames))
	}
	return th.frames[idx].StackPosition, nil
}

func (th *Thread) call(op objects.OpCode) error {
	n := op.A
	top := th.stack.Top()
	calleeIdx := top - n - 1
	if calleeIdx < 0 {
		return vmErr(viferr.KindFunctionCall, op.Span, "call stack underflow")
	}
	callee := th.materialize(th.stack.Peek(calleeIdx))

	switch callee.Kind {
	case objects.SVNative:
		if !callee.Native.Arity.Accepts(n) {
			return vmErr(viferr.KindWrongArgumentNumberFunction, op.Span,
				"native %q called with %d arguments", callee.Native.Name, n)
		}
		args := make([]objects.StackValue, n)
		for i := 0; i < n; i++ {
			args[i] = th.materialize(th.stack.Peek(calleeIdx + 1 + i))
		}
		result, err := th.callNative(callee.Native, args)
		if err != nil {
			return vmErr(viferr.KindFunctionFailed, op.Span, "%v", err)
		}
		th.stack.Truncate(calleeIdx)
		th.stack.Push(result)
		return nil

	case objects.SVFunction:
		if !callee.Function.Arity.Accepts(n) {
			return vmErr(viferr.KindWrongArgumentNumberFunction, op.Span,
				"function %q called with %d arguments", callee.Function.Name, n)
		}
		if th.soft != nil && th.soft.name == callee.Function.Name {
			th.soft = nil
		}
		if len(th.frames) >= MaxCallStackDepth {
			return vmErr(viferr.KindFunctionCall, op.Span, "call stack depth exceeded")
		}
		th.frames = append(th.frames, &objects.CallFrame{Function: callee.Function, StackPosition: calleeIdx})
		return nil

	default:
		return vmErr(viferr.KindFunctionCall, op.Span, "%s is not callable", callee.TypeName())
	}
}

func (th *Thread) callNative(nf *objects.NativeFunction, args []objects.StackValue) (result objects.StackValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native %q panicked: %v", nf.Name, r)
		}
	}()
	return nf.Fn(th.out(), args)
}

// doReturn implements return with closure preservation: a returned
// Function value defers reclaiming its defining frame (the closure's
// inherited locals still point into it) instead of truncating immediately.
func (th *Thread) doReturn(frame *objects.CallFrame) error {
	retVal := th.materialize(th.stack.Pop())
	base := frame.StackPosition

	if retVal.Kind == objects.SVFunction {
		th.soft = &softTrunc{pos: base, name: retVal.Function.Name}
		th.stack.Push(retVal)
	} else {
		th.stack.Truncate(base)
		th.stack.Push(retVal)
	}

	th.frames = th.frames[:len(th.frames)-1]
	return nil
}
