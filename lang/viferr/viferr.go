// Package viferr defines the error kinds raised by every phase of the Vif
// pipeline and their uniform source-span-based formatting.
package viferr

import (
	"fmt"
	"sort"

	"github.com/vif-lang/vif/lang/objects"
)

// Kind identifies which phase raised an error and what went wrong.
type Kind uint8

//nolint:revive
const (
	// scanner
	KindUnclosedString Kind = iota
	KindIndentationError
	KindUnidentifiedError

	// parser
	KindParsingError

	// static pass
	KindWrongArgumentNumberFunction
	KindNonMutableArgumentToMutableParameter
	KindNonMutableArgumentToMutableVariable
	KindDifferentSignatureBetweenFunction
	KindDifferentSignatureBetweenReturns
	KindFunctionReturnsDifferentTypes
	KindIncompatibleTypes

	// compiler
	KindSyntaxError
	KindConstantNotFound
	KindUnknown

	// VM
	KindValueError
	KindWrongValue
	KindKeyError
	KindDivideByZero
	KindUndeclaredVariable
	KindFunctionCall
	KindFunctionFailed
	KindAssertFail
)

var kindNames = map[Kind]string{
	KindUnclosedString:                       "UnclosedString",
	KindIndentationError:                     "IndentationError",
	KindUnidentifiedError:                    "UnidentifiedError",
	KindParsingError:                          "ParsingError",
	KindWrongArgumentNumberFunction:           "WrongArgumentNumberFunction",
	KindNonMutableArgumentToMutableParameter:  "NonMutableArgumentToMutableParameter",
	KindNonMutableArgumentToMutableVariable:   "NonMutableArgumentToMutableVariable",
	KindDifferentSignatureBetweenFunction:     "DifferentSignatureBetweenFunction",
	KindDifferentSignatureBetweenReturns:      "DifferentSignatureBetweenReturns",
	KindFunctionReturnsDifferentTypes:         "FunctionReturnsDifferentTypes",
	KindIncompatibleTypes:                     "IncompatibleTypes",
	KindSyntaxError:                           "SyntaxError",
	KindConstantNotFound:                      "ConstantNotFound",
	KindUnknown:                               "Unknown",
	KindValueError:                            "ValueError",
	KindWrongValue:                            "WrongValue",
	KindKeyError:                              "KeyError",
	KindDivideByZero:                          "DivideByZero",
	KindUndeclaredVariable:                    "UndeclaredVariable",
	KindFunctionCall:                          "FunctionCall",
	KindFunctionFailed:                        "FunctionFailed",
	KindAssertFail:                            "AssertFail",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Error"
}

// Error is a single diagnostic: a Kind, the Span it occurred at, and a
// human-readable message.
type Error struct {
	Kind Kind
	Span objects.Span
	Msg  string
}

func New(kind Kind, span objects.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Msg, e.Span.Line)
}

// Format renders the error against src as a two-line diagnostic:
//
//	Line N - <row>
//	<message>
func (e *Error) Format(src string) string {
	row := e.Span.SourceLine(src)
	return fmt.Sprintf("Line %d - %s\n%s", e.Span.Line, row, e.Msg)
}

// List accumulates multiple Errors, in the same spirit as go/scanner.ErrorList:
// the parser keeps scanning and parsing after an error so it can surface
// every problem in one pass, rather than stopping at the first one.
type List struct {
	Errs []*Error
}

func (l *List) Add(kind Kind, span objects.Span, format string, args ...any) {
	l.Errs = append(l.Errs, New(kind, span, format, args...))
}

func (l *List) AddErr(e *Error) { l.Errs = append(l.Errs, e) }

func (l *List) Len() int { return len(l.Errs) }

// Sort orders the accumulated errors by line number, then index, for
// deterministic, readable output.
func (l *List) Sort() {
	sort.SliceStable(l.Errs, func(i, j int) bool {
		a, b := l.Errs[i].Span, l.Errs[j].Span
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Index < b.Index
	})
}

// Err returns nil if the list is empty, or the list itself as an error
// otherwise.
func (l *List) Err() error {
	if len(l.Errs) == 0 {
		return nil
	}
	return l
}

func (l *List) Error() string {
	if len(l.Errs) == 1 {
		return l.Errs[0].Error()
	}
	return fmt.Sprintf("%d errors, first: %s", len(l.Errs), l.Errs[0].Error())
}

// Format renders every accumulated error against src, separated by blank
// lines.
func (l *List) Format(src string) string {
	out := ""
	for i, e := range l.Errs {
		if i > 0 {
			out += "\n\n"
		}
		out += e.Format(src)
	}
	return out
}
