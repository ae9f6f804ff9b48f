package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impstub/internal/core"
)

// TestInvocation_ArgsMatch covers exact values, gomega matchers and mismatches.
func TestInvocation_ArgsMatch(t *testing.T) {
	t.Parallel()

	inv := core.Invocation{Function: "Put", Args: []any{"aaa", 42, nil, 3.14}}

	t.Run("exact values", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		g.Expect(inv.ArgsMatch("aaa", 42, nil, 3.14)).To(Succeed())
	})

	t.Run("gomega matchers", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		g.Expect(inv.ArgsMatch(HavePrefix("a"), BeNumerically(">", 40), BeNil(), BeNumerically("~", 3.1, 0.1))).
			To(Succeed())
	})

	t.Run("untyped nil accepts typed nil", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var tag *string

		typed := core.Invocation{Function: "Tag", Args: []any{tag, []int(nil)}}
		g.Expect(typed.ArgsMatch(nil, nil)).To(Succeed())

		present := core.Invocation{Function: "Tag", Args: []any{0}}
		g.Expect(present.ArgsMatch(nil)).To(MatchError(ContainSubstring("expected <nil>, got 0")))
	})

	t.Run("wrong count", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		err := inv.ArgsMatch("aaa")
		g.Expect(err).To(MatchError(core.ErrArgsMismatch))
		g.Expect(err.Error()).To(ContainSubstring("expected 1 args, got 4"))
	})

	t.Run("wrong value", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		err := inv.ArgsMatch("aaa", 41, nil, 3.14)
		g.Expect(errors.Is(err, core.ErrArgsMismatch)).To(BeTrue())
		g.Expect(err.Error()).To(ContainSubstring("arg 1: expected 41, got 42"))
	})
}

// TestInvocation_IsNil distinguishes absent values from present ones.
func TestInvocation_IsNil(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var (
		nilPtr   *int
		nilMap   map[string]int
		nilSlice []int
		nilErr   error
	)

	inv := core.Invocation{Args: []any{nil, nilPtr, nilMap, nilSlice, nilErr, 0, "", struct{}{}}}

	for i := range 5 {
		g.Expect(inv.IsNil(i)).To(BeTrue(), "arg %d", i)
	}

	for i := 5; i < 8; i++ {
		g.Expect(inv.IsNil(i)).To(BeFalse(), "arg %d", i)
	}

	g.Expect(inv.IsNil(-1)).To(BeFalse())
	g.Expect(inv.IsNil(8)).To(BeFalse())
}

// TestInvocation_String renders a readable call.
func TestInvocation_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	inv := core.Invocation{Function: "Put", Args: []any{"k", 7, nil}}

	g.Expect(inv.String()).To(Equal(`Put("k", 7, <nil>)`))
}

// TestMatchValue_MatcherError surfaces matcher errors as failure messages.
func TestMatchValue_MatcherError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue("text", BeNumerically(">", 1))

	g.Expect(ok).To(BeFalse())
	g.Expect(msg).NotTo(BeEmpty())
}
