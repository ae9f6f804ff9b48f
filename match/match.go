// Package match provides argument matchers for Invocation.ArgsMatch. They mix
// freely with gomega matchers:
//
//	err := mock.InvocationsOf(Put)[0].ArgsMatch(match.BeAny, match.OfType[int](), BeNumerically(">", 0))
package match

import (
	"errors"
	"fmt"
	"reflect"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Any gomega.GomegaMatcher satisfies it.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny matches any value, including nil.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// OfType matches values whose dynamic type is exactly T. For interface types,
// any value implementing T matches.
func OfType[T any]() Matcher {
	return typeMatcher{want: reflect.TypeFor[T]()}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	inv.ArgsMatch(match.Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return satisfyMatcher[T]{predicate: predicate}
}

type anyMatcher struct{}

func (anyMatcher) FailureMessage(any) string {
	return ""
}

func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
}

func (m satisfyMatcher[T]) FailureMessage(actual any) string {
	if val, ok := actual.(T); ok {
		if err := m.predicate(val); err != nil {
			return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, err)
		}
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("%w: expected %s, got %T", errTypeMismatch, reflect.TypeFor[T](), actual)
	}

	return m.predicate(val) == nil, nil
}

type typeMatcher struct {
	want reflect.Type
}

func (m typeMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value of type %s, got %T", m.want, actual)
}

func (m typeMatcher) Match(actual any) (bool, error) {
	if actual == nil {
		return false, nil
	}

	got := reflect.TypeOf(actual)
	if m.want.Kind() == reflect.Interface {
		return got.Implements(m.want), nil
	}

	return got == m.want, nil
}
