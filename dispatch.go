package impstub

import "github.com/toejough/impstub/internal/core"

// Invoke records a call to method and returns the stubbed result, or def(args) when
// no stub is installed. A nil def returns the zero value. Use it for methods that
// cannot fail. An empty function name is replaced with the caller's name.
func Invoke[T any, M Method](mk Mocker[M], method M, function string, args []any, def func(args []any) T) T {
	m := mk.binding()

	return core.MustDispatch(m.reg(), newCall(m, method, function, args), def)
}

// InvokeE is Invoke for methods that may fail. Errors from the stub or from def
// are returned unchanged.
func InvokeE[T any, M Method](
	mk Mocker[M], method M, function string, args []any, def func(args []any) (T, error),
) (T, error) {
	m := mk.binding()

	return core.Dispatch(m.reg(), newCall(m, method, function, args), def)
}

// InvokeValue is Invoke with a fixed default value.
func InvokeValue[T any, M Method](mk Mocker[M], method M, function string, args []any, value T) T {
	m := mk.binding()

	return core.MustDispatch(m.reg(), newCall(m, method, function, args), func([]any) T { return value })
}

// InvokeVoid records a call to a method without results and runs the stub, or def
// when no stub is installed. def may be nil.
func InvokeVoid[M Method](mk Mocker[M], method M, function string, args []any, def func(args []any)) {
	m := mk.binding()

	core.MustDispatch(m.reg(), newCall(m, method, function, args), voidDefault(def))
}

// InvokeVoidE is InvokeVoid for methods that only return an error.
func InvokeVoidE[M Method](mk Mocker[M], method M, function string, args []any, def func(args []any) error) error {
	m := mk.binding()

	var wrapped func([]any) (core.Void, error)
	if def != nil {
		wrapped = func(args []any) (core.Void, error) {
			return core.Void{}, def(args)
		}
	}

	_, err := core.Dispatch(m.reg(), newCall(m, method, function, args), wrapped)

	return err
}

// newCall builds the dispatch description, locating the mocked method two frames up.
func newCall[M Method](m Mock[M], method M, function string, args []any) core.Call {
	name, file, line := core.CallSite(2)
	if function == "" {
		function = name
	}

	return core.Call{
		Key:      m.key,
		MethodID: int64(method),
		Function: function,
		Args:     args,
		File:     file,
		Line:     line,
	}
}

func voidDefault(def func([]any)) func([]any) core.Void {
	if def == nil {
		return nil
	}

	return func(args []any) core.Void {
		def(args)

		return core.Void{}
	}
}
