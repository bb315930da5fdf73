package symbols

import "fmt"

// ReturnClass classifies a return slot.
type ReturnClass int

const (
	_ ReturnClass = iota

	// ReturnNoValue is void or a non-generic task wrapper.
	ReturnNoValue

	// ReturnValue is an ordinary value-bearing result.
	ReturnValue

	// ReturnAsync is a task wrapper with a payload type.
	ReturnAsync
)

func (c ReturnClass) String() string {
	switch c {
	case ReturnNoValue:
		return "no-value"
	case ReturnValue:
		return "value"
	case ReturnAsync:
		return "async"
	default:
		return fmt.Sprintf("return-class-invalid(%d)", c)
	}
}

// ReturnSlot describes declared result of a method-like declaration.
type ReturnSlot struct {
	Class ReturnClass
	Type  *Type

	// Payload is the task wrapper argument for ReturnAsync.
	Payload *Type
}

// Documented returns the type whose name a returns section must not merely repeat.
func (r ReturnSlot) Documented() *Type {
	if r.Class == ReturnAsync {
		return r.Payload
	}

	return r.Type
}

// ClassifyReturn builds a return slot for the given declared result type.
func ClassifyReturn(t *Type) ReturnSlot {
	u := t.Underlying()
	if u == nil || u.Kind == TypeKindVoid {
		return ReturnSlot{Class: ReturnNoValue, Type: t}
	}

	switch u.FullName() {
	case TaskName, ValueTaskName:
		switch len(u.TypeArgs) {
		case 0:
			return ReturnSlot{Class: ReturnNoValue, Type: t}
		case 1:
			return ReturnSlot{Class: ReturnAsync, Type: t, Payload: u.TypeArgs[0]}
		}
	}

	return ReturnSlot{Class: ReturnValue, Type: t}
}
