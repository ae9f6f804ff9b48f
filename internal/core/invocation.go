package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrArgsMismatch is returned when recorded arguments do not match expectations.
var ErrArgsMismatch = errors.New("arguments do not match")

// Invocation is one recorded call to a mocked method. Records are never mutated
// after they are appended to a log.
type Invocation struct {
	MethodID int64
	Function string
	Args     []any
}

// ArgsMatch compares the recorded arguments positionally against expected.
// Each expected value may be a Matcher; an untyped nil matches any absent value;
// anything else is compared with reflect.DeepEqual.
func (inv Invocation) ArgsMatch(expected ...any) error {
	if len(inv.Args) != len(expected) {
		return fmt.Errorf("%w: %s: expected %d args, got %d",
			ErrArgsMismatch, inv.Function, len(expected), len(inv.Args))
	}

	for i, exp := range expected {
		ok, msg := MatchValue(inv.Args[i], exp)
		if !ok {
			return fmt.Errorf("%w: %s: arg %d: %s", ErrArgsMismatch, inv.Function, i, msg)
		}
	}

	return nil
}

// IsNil reports whether argument i carries no value: an untyped nil, or a nil
// pointer, map, slice, chan, func or interface. Out of range indexes report false.
func (inv Invocation) IsNil(i int) bool {
	if i < 0 || i >= len(inv.Args) {
		return false
	}

	return isNil(inv.Args[i])
}

func isNil(arg any) bool {
	if arg == nil {
		return true
	}

	val := reflect.ValueOf(arg)

	switch val.Kind() { //nolint:exhaustive // only nillable kinds matter
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func,
		reflect.Interface, reflect.UnsafePointer:
		return val.IsNil()
	default:
		return false
	}
}

// String renders the invocation as Function(arg, arg, ...).
func (inv Invocation) String() string {
	parts := make([]string, len(inv.Args))
	for i, arg := range inv.Args {
		parts[i] = fmt.Sprintf("%#v", arg)
	}

	return inv.Function + "(" + strings.Join(parts, ", ") + ")"
}
