package core

import (
	"reflect"
	"sync/atomic"
)

// Stub is a type-erased stub entry. The only way to run one is through Dispatch or
// MustDispatch, which recover the typed callable and check its result type first.
type Stub interface {
	// ResultType is the type the stub produces.
	ResultType() reflect.Type
	// Fallible reports whether the stub was declared able to fail.
	Fallible() bool
	// Signature describes the callable for diagnostics, e.g. "func([]any) (int, error)".
	Signature() string
}

// ErrorStub returns a stub that fails with err on every call. It stands in for a
// method that throws.
func ErrorStub[T any](err error) Stub {
	return FallibleStub(func([]any) (T, error) {
		var zero T

		return zero, err
	})
}

// FallibleStub wraps a callable that may fail. Its error reaches the caller through
// Dispatch; through MustDispatch it is fatal.
func FallibleStub[T any](fn func(args []any) (T, error)) Stub {
	return &typedStub[T]{fn: fn, fallible: true}
}

// FuncStub wraps a callable that cannot fail.
func FuncStub[T any](fn func(args []any) T) Stub {
	return &typedStub[T]{
		fn: func(args []any) (T, error) {
			return fn(args), nil
		},
	}
}

// SequenceStub returns first for the first times calls and then afterwards forever.
// times <= 0 means every call returns then. Only calls that actually reach this
// stub are counted.
func SequenceStub[T any](first T, times int, then T) Stub {
	var count atomic.Int64

	return FuncStub(func([]any) T {
		if count.Add(1) <= int64(times) {
			return first
		}

		return then
	})
}

// ValueStub returns a stub that ignores its arguments and returns value.
func ValueStub[T any](value T) Stub {
	return FuncStub(func([]any) T { return value })
}

type typedStub[T any] struct {
	fn       func(args []any) (T, error)
	fallible bool
}

func (s *typedStub[T]) Fallible() bool {
	return s.fallible
}

func (s *typedStub[T]) ResultType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (s *typedStub[T]) Signature() string {
	return signature(s.ResultType(), s.fallible)
}

func (s *typedStub[T]) call(args []any) (T, error) {
	return s.fn(args)
}

// signature renders a stub callable type for diagnostics.
func signature(result reflect.Type, fallible bool) string {
	name := result.String()
	if result == voidType {
		name = "()"
	}

	if fallible {
		return "func([]any) (" + name + ", error)"
	}

	return "func([]any) " + name
}

// Void is the result type of methods that return nothing.
type Void = struct{}

//nolint:gochecknoglobals // cached reflect type
var voidType = reflect.TypeFor[Void]()
