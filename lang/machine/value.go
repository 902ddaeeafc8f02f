package machine

import (
	"math"

	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/viferr"
)

// materialize resolves a StackValue that may be an indirection -- a
// GlobalValue wrapping a constant/function/native, or a StackReference
// produced by GetInheritedLocal -- into the concrete value it denotes.
// Every opcode that consumes an operand (arithmetic, comparison,
// truthiness, call dispatch, native argument passing) must materialize it
// first; Get/SetLocal and the stack itself may still hold the indirection.
func (th *Thread) materialize(v objects.StackValue) objects.StackValue {
	switch v.Kind {
	case objects.SVStackReference:
		return th.materialize(th.stack.Peek(int(v.Int)))
	case objects.SVGlobal:
		return materializeGlobal(v.Global)
	default:
		return v
	}
}

func materializeGlobal(g *objects.Global) objects.StackValue {
	switch g.Kind {
	case objects.GlobalInteger:
		return objects.IntValue(g.Int)
	case objects.GlobalFloat:
		return objects.FloatValue(g.Float)
	case objects.GlobalString:
		return objects.StringValue(g.Str)
	case objects.GlobalFunction:
		return objects.FunctionValue(g.Function)
	case objects.GlobalNative:
		return objects.NativeValue(g.Native)
	default:
		return objects.NoneValue()
	}
}

// numeric reduces a materialized value to a float64 plus a flag recording
// whether this value is a Float; the caller combines the flags of both
// operands to decide Integer vs Float promotion: any Float operand yields
// Float, Boolean coerces to 0/1.
func numeric(v objects.StackValue) (value float64, isFloat, ok bool) {
	switch v.Kind {
	case objects.SVInteger, objects.SVIndex:
		return float64(v.Int), false, true
	case objects.SVFloat:
		return v.Float, true, true
	case objects.SVBoolean:
		if v.Bool {
			return 1, false, true
		}
		return 0, false, true
	default:
		return 0, false, false
	}
}

func (th *Thread) arith(op objects.OpKind, span objects.Span) error {
	right := th.materialize(th.stack.Pop())
	left := th.materialize(th.stack.Pop())

	if op == objects.OpAdd && left.Kind == objects.SVString && right.Kind == objects.SVString {
		th.stack.Push(objects.StringValue(left.Str + right.Str))
		return nil
	}

	lf, lIsFloat, lok := numeric(left)
	rf, rIsFloat, rok := numeric(right)
	if !lok || !rok {
		return vmErr(viferr.KindValueError, span, "cannot apply %s to %s and %s", op, left.TypeName(), right.TypeName())
	}

	var result float64
	switch op {
	case objects.OpAdd:
		result = lf + rf
	case objects.OpSubstract:
		result = lf - rf
	case objects.OpMultiply:
		result = lf * rf
	case objects.OpDivide:
		if rf == 0 {
			return vmErr(viferr.KindDivideByZero, span, "division by zero")
		}
		result = lf / rf
	case objects.OpModulo:
		if rf == 0 {
			return vmErr(viferr.KindDivideByZero, span, "modulo by zero")
		}
		result = math.Mod(lf, rf)
	default:
		return vmErr(viferr.KindUnknown, span, "not an arithmetic opcode: %s", op)
	}

	if lIsFloat || rIsFloat {
		th.stack.Push(objects.FloatValue(result))
	} else {
		th.stack.Push(objects.IntValue(int64(result)))
	}
	return nil
}

// compare implements the comparison opcodes: pop right, then left; push
// Boolean. Equality has its own cross-type rules (None only equals
// None; booleans compare as 0/1); ordering comparisons require both
// operands to reduce to a number, or both to be strings.
func (th *Thread) compare(op objects.OpKind, span objects.Span) error {
	right := th.materialize(th.stack.Pop())
	left := th.materialize(th.stack.Pop())

	switch op {
	case objects.OpEqual:
		th.stack.Push(objects.BoolValue(valuesEqual(left, right)))
		return nil
	case objects.OpNotEqual:
		th.stack.Push(objects.BoolValue(!valuesEqual(left, right)))
		return nil
	}

	if left.Kind == objects.SVString && right.Kind == objects.SVString {
		var b bool
		switch op {
		case objects.OpLess:
			b = left.Str < right.Str
		case objects.OpLessOrEqual:
			b = left.Str <= right.Str
		case objects.OpGreater:
			b = left.Str > right.Str
		case objects.OpGreaterOrEqual:
			b = left.Str >= right.Str
		}
		th.stack.Push(objects.BoolValue(b))
		return nil
	}

	lf, _, lok := numeric(left)
	rf, _, rok := numeric(right)
	if !lok || !rok {
		return vmErr(viferr.KindValueError, span, "cannot compare %s and %s", left.TypeName(), right.TypeName())
	}
	var b bool
	switch op {
	case objects.OpLess:
		b = lf < rf
	case objects.OpLessOrEqual:
		b = lf <= rf
	case objects.OpGreater:
		b = lf > rf
	case objects.OpGreaterOrEqual:
		b = lf >= rf
	}
	th.stack.Push(objects.BoolValue(b))
	return nil
}

func valuesEqual(left, right objects.StackValue) bool {
	if left.Kind == objects.SVNone || right.Kind == objects.SVNone {
		return left.Kind == objects.SVNone && right.Kind == objects.SVNone
	}
	if left.Kind == objects.SVString || right.Kind == objects.SVString {
		return left.Kind == objects.SVString && right.Kind == objects.SVString && left.Str == right.Str
	}
	lf, _, lok := numeric(left)
	rf, _, rok := numeric(right)
	if lok && rok {
		return lf == rf
	}
	if left.Kind == objects.SVFunction && right.Kind == objects.SVFunction {
		return left.Function == right.Function
	}
	if left.Kind == objects.SVNative && right.Kind == objects.SVNative {
		return left.Native == right.Native
	}
	return false
}
