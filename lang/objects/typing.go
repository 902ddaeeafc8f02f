package objects

// Kind is the concrete shape of a Typing value.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindNone
	KindKeyWord
	KindCallable
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindNone:
		return "None"
	case KindKeyWord:
		return "KeyWord"
	case KindCallable:
		return "Callable"
	default:
		return "Unknown"
	}
}

// Signature is a callable's accepted argument shape: either a fixed list of
// parameter Typings, or Infinite (the native "print" built-in accepts any
// number of arguments).
type Signature struct {
	Infinite bool
	Params   []Typing
}

// Callable describes the signature and return typing of a function value.
type Callable struct {
	Signature Signature
	Output    Typing
}

// Typing is the static type information attached to every expression: its
// Kind, and whether it is "mutable" in the sense defined by the static pass
// (§4.3): acceptable as the right-hand side of a mut binding or assignment.
//
// Equality on Typing compares Kind only; Mutable is an orthogonal property
// that callers must check separately when the rules require it.
type Typing struct {
	Mutable  bool
	Kind     Kind
	Callable *Callable // non-nil iff Kind == KindCallable
}

// Equal reports whether two Typings have the same Kind. Mutability is
// intentionally ignored, per the spec's data model.
func (t Typing) Equal(o Typing) bool { return t.Kind == o.Kind }

// NewCallableTyping builds a Typing of Kind Callable wrapping the given
// signature and output typing. The result's mutability is the mutable
// argument, which the caller computes (the static pass passes true only
// when every return of the function is mutable).
func NewCallableTyping(sig Signature, output Typing, mutable bool) Typing {
	return Typing{
		Mutable:  mutable,
		Kind:     KindCallable,
		Callable: &Callable{Signature: sig, Output: output},
	}
}

// Unknown is the placeholder Typing used by the parser before the static
// pass resolves a concrete Kind. It must never survive into the compiler.
var Unknown = Typing{Kind: KindUnknown}

// None is the Typing of the `None` literal and of functions with no return
// value.
var None = Typing{Kind: KindNone, Mutable: true}
