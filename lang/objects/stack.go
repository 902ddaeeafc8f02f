package objects

import "fmt"

// MinStackCapacity is the minimum fixed capacity of a VM operand stack.
const MinStackCapacity = 1000

// Stack is the VM's sole operand store: a fixed-capacity array of
// StackValue with an integer Top marking the first free slot. There is no
// register file; every opcode that needs scratch space uses the stack.
type Stack struct {
	values []StackValue
	top    int
}

// NewStack returns a Stack with at least MinStackCapacity slots.
func NewStack(capacity int) *Stack {
	if capacity < MinStackCapacity {
		capacity = MinStackCapacity
	}
	return &Stack{values: make([]StackValue, capacity)}
}

// Top returns the index of the first free slot (equivalently, the current
// stack size).
func (s *Stack) Top() int { return s.top }

// Push appends v to the top of the stack.
func (s *Stack) Push(v StackValue) {
	if s.top == len(s.values) {
		panic(fmt.Sprintf("stack overflow: capacity %d exceeded", len(s.values)))
	}
	s.values[s.top] = v
	s.top++
}

// Pop removes and returns the value at the top of the stack.
func (s *Stack) Pop() StackValue {
	s.top--
	return s.values[s.top]
}

// Peek returns the value at absolute index i without removing it.
func (s *Stack) Peek(i int) StackValue { return s.values[i] }

// PeekLast returns the value at the top of the stack without removing it.
func (s *Stack) PeekLast() StackValue { return s.values[s.top-1] }

// Truncate resets Top to n, discarding every value at or above index n.
func (s *Stack) Truncate(n int) { s.top = n }

// Set overwrites the value at absolute index i, growing Top if i was the
// first free slot (used by CreateLocal, which writes into the slot that a
// local's declaration reserves without a prior Push).
func (s *Stack) Set(i int, v StackValue) {
	s.values[i] = v
	if i == s.top {
		s.top++
	}
}

// GetSlice returns the live stack values from index from to Top, without
// copying. Callers must not retain the slice beyond the next mutation.
func (s *Stack) GetSlice(from int) []StackValue { return s.values[from:s.top] }
