package objects

import (
	"fmt"
	"strconv"
)

// SVKind is the tag of a StackValue variant.
type SVKind uint8

const (
	SVNone SVKind = iota
	SVInteger
	SVIndex
	SVFloat
	SVString
	SVBoolean
	SVGlobal
	SVNative
	SVFunction
	SVStackReference
	SVBinaryOp
)

// BinaryOp is the payload of an SVBinaryOp stack value: a binary arithmetic
// operator captured as a first-class value (neither the compiler nor the
// VM produces one; never produced by user code).
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
)

func (b BinaryOp) String() string {
	switch b {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinMod:
		return "%"
	default:
		return "?"
	}
}

// StackValue is the VM's runtime value: a tagged union over every shape the
// operand stack may hold.
type StackValue struct {
	Kind     SVKind
	Int      int64 // SVInteger, SVIndex, SVStackReference (slot index)
	Float    float64
	Str      string
	Bool     bool
	Global   *Global
	Native   *NativeFunction
	Function *Function
	BinOp    BinaryOp
}

func IntValue(v int64) StackValue          { return StackValue{Kind: SVInteger, Int: v} }
func IndexValue(v int64) StackValue        { return StackValue{Kind: SVIndex, Int: v} }
func FloatValue(v float64) StackValue      { return StackValue{Kind: SVFloat, Float: v} }
func StringValue(v string) StackValue      { return StackValue{Kind: SVString, Str: v} }
func BoolValue(v bool) StackValue          { return StackValue{Kind: SVBoolean, Bool: v} }
func NoneValue() StackValue                { return StackValue{Kind: SVNone} }
func GlobalValue(g *Global) StackValue     { return StackValue{Kind: SVGlobal, Global: g} }
func NativeValue(n *NativeFunction) StackValue { return StackValue{Kind: SVNative, Native: n} }
func FunctionValue(fn *Function) StackValue    { return StackValue{Kind: SVFunction, Function: fn} }
func StackRefValue(pos int64) StackValue   { return StackValue{Kind: SVStackReference, Int: pos} }
func BinaryOpValue(op BinaryOp) StackValue { return StackValue{Kind: SVBinaryOp, BinOp: op} }

// TypeName returns a short name for the value's dynamic type, used in error
// messages.
func (v StackValue) TypeName() string {
	switch v.Kind {
	case SVInteger, SVIndex:
		return "int"
	case SVFloat:
		return "float"
	case SVString:
		return "str"
	case SVBoolean:
		return "bool"
	case SVGlobal:
		return "global"
	case SVNative:
		return "native function"
	case SVFunction:
		return "function"
	case SVStackReference:
		return "stack reference"
	case SVBinaryOp:
		return "binary operator"
	default:
		return "None"
	}
}

// Truthy implements the language's truthiness rule: False, 0, 0.0, "" and
// None are falsy; everything else is truthy.
func (v StackValue) Truthy() bool {
	switch v.Kind {
	case SVBoolean:
		return v.Bool
	case SVInteger, SVIndex:
		return v.Int != 0
	case SVFloat:
		return v.Float != 0
	case SVString:
		return v.Str != ""
	case SVNone:
		return false
	case SVGlobal:
		return GlobalValue(v.Global).resolveTruthy()
	default:
		return true
	}
}

func (v StackValue) resolveTruthy() bool {
	switch v.Global.Kind {
	case GlobalInteger:
		return v.Global.Int != 0
	case GlobalFloat:
		return v.Global.Float != 0
	case GlobalString:
		return v.Global.Str != ""
	default:
		return true
	}
}

func (v StackValue) String() string {
	switch v.Kind {
	case SVInteger, SVIndex:
		return strconv.FormatInt(v.Int, 10)
	case SVFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case SVString:
		return v.Str
	case SVBoolean:
		if v.Bool {
			return "True"
		}
		return "False"
	case SVGlobal:
		return v.Global.String()
	case SVNative:
		return fmt.Sprintf("<native %s>", v.Native.Name)
	case SVFunction:
		return fmt.Sprintf("<function %s>", v.Function.Name)
	case SVStackReference:
		return fmt.Sprintf("<ref %d>", v.Int)
	case SVBinaryOp:
		return v.BinOp.String()
	default:
		return "None"
	}
}
