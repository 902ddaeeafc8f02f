package compiler

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/vif-lang/vif/lang/objects"
)

// This file implements a human-readable textual form of a compiled program,
// and an assembler that reads it back into (*objects.Function,
// *objects.GlobalStore), letting the VM's own tests exercise bytecode
// directly, bypassing the scanner/parser/static pass. It uses a
// line-oriented, section-keyword scanning idiom matched to Vif's
// struct-tagged OpCode (no varint byte stream to encode/decode).
//
// Format:
//
//	globals:
//	  int 10
//	  float 1.5
//	  string "hello"
//
//	function <name>:
//	  GET_LOCAL 1
//	  ADD
//	  RETURN
//
// Jump/branch operands (JUMP, JUMP_IF_FALSE, GOTO) are written as the
// target instruction's index within the same function's code section; the
// assembler computes the relative-or-absolute encoding each opcode
// requires. The first function block is the returned top-level Function; any
// additional function blocks become GlobalFunction entries, referenced from
// earlier code by `GLOBAL <index>`.

var mnemonics = map[string]objects.OpKind{
	"RETURN":           objects.OpReturn,
	"GLOBAL":           objects.OpGlobal,
	"GLOBAL_VARIABLE":  objects.OpGlobalVariable,
	"GET_GLOBAL":       objects.OpGetGlobal,
	"SET_GLOBAL":       objects.OpSetGlobal,
	"GET_LOCAL":        objects.OpGetLocal,
	"CREATE_LOCAL":     objects.OpCreateLocal,
	"SET_LOCAL":        objects.OpSetLocal,
	"GET_INH_LOCAL":    objects.OpGetInheritedLocal,
	"SET_INH_LOCAL":    objects.OpSetInheritedLocal,
	"NEGATE":           objects.OpNegate,
	"ADD":              objects.OpAdd,
	"SUBSTRACT":        objects.OpSubstract,
	"MULTIPLY":         objects.OpMultiply,
	"DIVIDE":           objects.OpDivide,
	"MODULO":           objects.OpModulo,
	"TRUE":             objects.OpTrue,
	"FALSE":            objects.OpFalse,
	"NONE":             objects.OpNone,
	"NOT":              objects.OpNot,
	"EQUAL":            objects.OpEqual,
	"NOT_EQUAL":        objects.OpNotEqual,
	"GREATER":          objects.OpGreater,
	"LESS":             objects.OpLess,
	"GREATER_OR_EQUAL": objects.OpGreaterOrEqual,
	"LESS_OR_EQUAL":    objects.OpLessOrEqual,
	"POP":              objects.OpPop,
	"ASSERT_TRUE":      objects.OpAssertTrue,
	"JUMP_IF_FALSE":    objects.OpJumpIfFalse,
	"JUMP":             objects.OpJump,
	"GOTO":             objects.OpGoto,
	"CALL":             objects.OpCall,
	"NOT_IMPLEMENTED":  objects.OpNotImplemented,
}

type asmError struct{ msg string }

func (e *asmError) Error() string { return e.msg }

// Assemble parses the textual assembly format described above into a
// top-level Function plus the GlobalStore it and any nested function
// reference.
func Assemble(src []byte) (*objects.Function, *objects.GlobalStore, error) {
	globals := objects.NewGlobalStore()
	sc := bufio.NewScanner(strings.NewReader(string(src)))

	var (
		top       *objects.Function
		inGlobals bool
		cur       *objects.Function
		curLines  []string
	)
	flushFunction := func() error {
		if cur == nil {
			return nil
		}
		if err := assembleCode(cur, curLines); err != nil {
			return err
		}
		if top == nil {
			top = cur
		} else {
			if _, err := globals.Add(objects.NewFunctionGlobal(cur.Name, cur)); err != nil {
				return err
			}
		}
		cur, curLines = nil, nil
		return nil
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case line == "globals:":
			if err := flushFunction(); err != nil {
				return nil, nil, err
			}
			inGlobals = true
		case strings.HasPrefix(line, "function "):
			if err := flushFunction(); err != nil {
				return nil, nil, err
			}
			inGlobals = false
			name := strings.TrimSuffix(strings.TrimPrefix(line, "function "), ":")
			cur = &objects.Function{Name: name, Arity: objects.FixedArity(0)}
		case inGlobals:
			if err := assembleGlobal(globals, line); err != nil {
				return nil, nil, err
			}
		case cur != nil:
			curLines = append(curLines, line)
		default:
			return nil, nil, &asmError{fmt.Sprintf("unexpected line outside any section: %q", line)}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if err := flushFunction(); err != nil {
		return nil, nil, err
	}
	if top == nil {
		return nil, nil, &asmError{"no function block found"}
	}
	return top, globals, nil
}

func assembleGlobal(globals *objects.GlobalStore, line string) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return &asmError{fmt.Sprintf("malformed global line: %q", line)}
	}
	switch fields[0] {
	case "int":
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return err
		}
		_, err = globals.Add(objects.NewIntegerGlobal(v))
		return err
	case "float":
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return err
		}
		_, err = globals.Add(objects.NewFloatGlobal(v))
		return err
	case "string":
		v := strings.Trim(strings.TrimPrefix(line, "string "), `"`)
		_, err := globals.Add(objects.NewStringGlobal(v))
		return err
	case "identifier":
		_, err := globals.Add(objects.NewIdentifierGlobal(fields[1]))
		return err
	default:
		return &asmError{fmt.Sprintf("unknown global kind %q", fields[0])}
	}
}

func assembleCode(fn *objects.Function, lines []string) error {
	maxSlot := -1
	for _, raw := range lines {
		fields := strings.Fields(raw)
		kind, ok := mnemonics[fields[0]]
		if !ok {
			return &asmError{fmt.Sprintf("unknown mnemonic %q", fields[0])}
		}
		op := objects.OpCode{Kind: kind}
		switch kind {
		case objects.OpGetInheritedLocal, objects.OpSetInheritedLocal:
			if len(fields) != 3 {
				return &asmError{fmt.Sprintf("%s requires pos and depth operands", fields[0])}
			}
			pos, err := strconv.Atoi(fields[1])
			if err != nil {
				return err
			}
			depth, err := strconv.Atoi(fields[2])
			if err != nil {
				return err
			}
			op.A, op.B = pos, depth
		case objects.OpGlobal, objects.OpGlobalVariable, objects.OpGetGlobal, objects.OpSetGlobal,
			objects.OpGetLocal, objects.OpCreateLocal, objects.OpSetLocal,
			objects.OpJumpIfFalse, objects.OpJump, objects.OpGoto, objects.OpCall:
			if len(fields) != 2 {
				return &asmError{fmt.Sprintf("%s requires one operand", fields[0])}
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return err
			}
			op.A = n
			if kind == objects.OpGetLocal || kind == objects.OpCreateLocal || kind == objects.OpSetLocal {
				if n > maxSlot {
					maxSlot = n
				}
			}
		}
		fn.Chunk = append(fn.Chunk, op)
	}

	for i, op := range fn.Chunk {
		switch op.Kind {
		case objects.OpJump, objects.OpJumpIfFalse:
			fn.Chunk[i].A = op.A - i - 1
		case objects.OpGoto:
			// already an absolute instruction index; no translation needed.
		}
	}
	fn.MaxLocalSlots = maxSlot + 1
	return nil
}
