package impstub

import "github.com/toejough/impstub/internal/core"

// StubError makes method fail with err on every call. T must be the method's
// result type; only InvokeE can report the failure.
func StubError[T any, M Method](mk Mocker[M], method M, err error) {
	install(mk, method, core.ErrorStub[T](err))
}

// StubFallible replaces method with fn, which may fail.
func StubFallible[T any, M Method](mk Mocker[M], method M, fn func(args []any) (T, error)) {
	install(mk, method, core.FallibleStub(fn))
}

// StubFunc replaces method with fn.
func StubFunc[T any, M Method](mk Mocker[M], method M, fn func(args []any) T) {
	install(mk, method, core.FuncStub(fn))
}

// StubOptional makes method return value, which may be nil. Use it for methods
// whose result is a pointer standing for "maybe a T":
//
//	impstub.StubOptional[int](mock, GetCount, nil)
func StubOptional[T any, M Method](mk Mocker[M], method M, value *T) {
	install(mk, method, core.ValueStub(value))
}

// StubSequence makes method return first for the next times calls, and then
// afterwards from then on. times <= 0 returns then right away.
func StubSequence[T any, M Method](mk Mocker[M], method M, first T, times int, then T) {
	install(mk, method, core.SequenceStub(first, times, then))
}

// StubValue makes method return value.
func StubValue[T any, M Method](mk Mocker[M], method M, value T) {
	install(mk, method, core.ValueStub(value))
}

// StubVoid replaces a method without results with fn.
func StubVoid[M Method](mk Mocker[M], method M, fn func(args []any)) {
	install(mk, method, core.FuncStub(func(args []any) core.Void {
		fn(args)

		return core.Void{}
	}))
}

// StubVoidFallible replaces a method that only returns an error with fn.
func StubVoidFallible[M Method](mk Mocker[M], method M, fn func(args []any) error) {
	install(mk, method, core.FallibleStub(func(args []any) (core.Void, error) {
		return core.Void{}, fn(args)
	}))
}

func install[M Method](mk Mocker[M], method M, stub core.Stub) {
	m := mk.binding()
	m.reg().SetStub(m.key, int64(method), stub)
}
