package objects

import "fmt"

// OpKind is the tag of an OpCode variant.
type OpKind uint8

//nolint:revive
const (
	OpReturn OpKind = iota
	OpGlobal
	OpGlobalVariable
	OpGetGlobal
	OpSetGlobal
	OpGetLocal
	OpCreateLocal
	OpSetLocal
	OpGetInheritedLocal
	OpSetInheritedLocal
	OpNegate
	OpAdd
	OpSubstract
	OpMultiply
	OpDivide
	OpModulo
	OpTrue
	OpFalse
	OpNone
	OpNot
	OpEqual
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterOrEqual
	OpLessOrEqual
	OpPop
	OpAssertTrue
	OpJumpIfFalse
	OpJump
	OpGoto
	OpCall
	OpNotImplemented
)

var opKindNames = [...]string{
	OpReturn:            "OP_RETURN",
	OpGlobal:            "OP_GLOBAL",
	OpGlobalVariable:    "OP_GLOBAL_VARIABLE",
	OpGetGlobal:         "OP_GET_GLOBAL",
	OpSetGlobal:         "OP_SET_GLOBAL",
	OpGetLocal:          "OP_GET_LOCAL",
	OpCreateLocal:       "OP_CREATE_LOCAL",
	OpSetLocal:          "OP_SET_LOCAL",
	OpGetInheritedLocal: "OP_GET_INH_LOCAL",
	OpSetInheritedLocal: "OP_SET_INH_LOCAL",
	OpNegate:            "OP_NEGATE",
	OpAdd:               "OP_ADD",
	OpSubstract:         "OP_SUBSTRACT",
	OpMultiply:          "OP_MULTIPLY",
	OpDivide:            "OP_DIVIDE",
	OpModulo:            "OP_MODULO",
	OpTrue:              "OP_TRUE",
	OpFalse:             "OP_FALSE",
	OpNone:              "OP_NONE",
	OpNot:               "OP_NOT",
	OpEqual:             "OP_EQUAL",
	OpNotEqual:          "OP_NOT_EQUAL",
	OpGreater:           "OP_GREATER",
	OpLess:              "OP_LESS",
	OpGreaterOrEqual:    "OP_GREATER_OR_EQUAL",
	OpLessOrEqual:       "OP_LESS_OR_EQUAL",
	OpPop:               "OP_POP",
	OpAssertTrue:        "OP_ASSERT_TRUE",
	OpJumpIfFalse:       "OP_JUMP_IF_FALSE",
	OpJump:              "OP_JUMP",
	OpGoto:              "OP_GOTO",
	OpCall:              "OP_CALL",
	OpNotImplemented:    "OP_NOT_IMPLEMENTED",
}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) && opKindNames[k] != "" {
		return opKindNames[k]
	}
	return fmt.Sprintf("illegal opcode (%d)", k)
}

// OpCode is one instruction in a Function's chunk. Most opcodes are nullary;
// payload-carrying opcodes use A (and, for the two inherited-local
// variants, B) to store their operand(s). Every opcode carries its own
// Span, not just a subset, so VM errors can always be located precisely.
type OpCode struct {
	Kind OpKind
	A    int // index / slot / arg_count / jump offset or target, depending on Kind
	B    int // depth, for GetInheritedLocal / SetInheritedLocal only
	Span Span
}

// String renders the opcode the way a disassembler would print its mnemonic
// and operand, without the offset/line prefix.
func (op OpCode) String() string {
	switch op.Kind {
	case OpGetInheritedLocal, OpSetInheritedLocal:
		return fmt.Sprintf("%s pos=%d depth=%d", op.Kind, op.A, op.B)
	case OpGlobal, OpGlobalVariable, OpGetGlobal, OpSetGlobal,
		OpGetLocal, OpCreateLocal, OpSetLocal,
		OpJumpIfFalse, OpJump, OpGoto, OpCall:
		return fmt.Sprintf("%s %d", op.Kind, op.A)
	default:
		return op.Kind.String()
	}
}

// HasArg reports whether this opcode kind carries at least one operand.
func (k OpKind) HasArg() bool {
	switch k {
	case OpGlobal, OpGlobalVariable, OpGetGlobal, OpSetGlobal,
		OpGetLocal, OpCreateLocal, OpSetLocal,
		OpGetInheritedLocal, OpSetInheritedLocal,
		OpJumpIfFalse, OpJump, OpGoto, OpCall:
		return true
	default:
		return false
	}
}
