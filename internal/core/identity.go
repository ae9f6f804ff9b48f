package core

import (
	"errors"
	"fmt"
	"reflect"
)

// Key identifies one live mock instance inside a Registry.
type Key string

// Identity resolution errors.
var (
	ErrNilInstance  = errors.New("nil instance has no identity")
	ErrNotReference = errors.New("instance is not a reference type")
)

// AddressKey derives a Key from the dynamic type and memory address of a
// reference-typed instance. The key is stable while the instance is alive and
// distinct from every other live instance: the type separates a struct from its
// first field, which shares its address. Pointers to zero-size values and funcs
// are rejected, as distinct instances of either can share one address. Value types
// have no address identity; give them a Registry.Token instead.
func AddressKey(instance any) (Key, error) {
	if instance == nil {
		return "", ErrNilInstance
	}

	val := reflect.ValueOf(instance)

	switch val.Kind() { //nolint:exhaustive // every other kind is rejected below
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if val.IsNil() {
			return "", fmt.Errorf("%w: %T", ErrNilInstance, instance)
		}

		if val.Kind() == reflect.Pointer && val.Type().Elem().Size() == 0 {
			return "", fmt.Errorf("%w: %T points to a zero-size value", ErrNotReference, instance)
		}

		return Key(fmt.Sprintf("%T@%016x", instance, val.Pointer())), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrNotReference, instance)
	}
}
