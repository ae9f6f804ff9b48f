package core_test

import (
	"errors"
	"reflect"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impstub/internal/core"
	"pgregory.net/rapid"
)

// TestSequenceStub_Property proves the first n consulted calls return first and
// every later call returns then, for all n >= 0.
func TestSequenceStub_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		times := rapid.IntRange(0, 20).Draw(rt, "times")
		calls := rapid.IntRange(0, 40).Draw(rt, "calls")

		reg := core.NewRegistry()
		reg.SetStub("k", 0, core.SequenceStub("first", times, "then"))

		for i := range calls {
			got := core.MustDispatch[string](reg, core.Call{Key: "k"}, nil)

			want := "then"
			if i < times {
				want = "first"
			}

			if got != want {
				rt.Fatalf("call %d with times=%d: got %q, want %q", i, times, got, want)
			}
		}
	})
}

// TestSequenceStub_NegativeTimes_AlwaysThen treats negative counts like zero.
func TestSequenceStub_NegativeTimes_AlwaysThen(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	reg.SetStub("k", 0, core.SequenceStub(1, -3, 2))

	g.Expect(core.MustDispatch[int](reg, core.Call{Key: "k"}, nil)).To(Equal(2))
}

// TestSequenceStub_OnlyCountsConsultedCalls verifies dispatches that hit the
// default (after Unstub) do not advance a stub installed later.
func TestSequenceStub_OnlyCountsConsultedCalls(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	seq := core.SequenceStub(10, 2, 20)

	for range 5 {
		core.MustDispatch[int](reg, core.Call{Key: "k"}, nil)
	}

	reg.SetStub("k", 0, seq)

	g.Expect(core.MustDispatch[int](reg, core.Call{Key: "k"}, nil)).To(Equal(10))
	g.Expect(core.MustDispatch[int](reg, core.Call{Key: "k"}, nil)).To(Equal(10))
	g.Expect(core.MustDispatch[int](reg, core.Call{Key: "k"}, nil)).To(Equal(20))
}

// TestStub_Describe verifies the reported types and signatures of each constructor.
func TestStub_Describe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		stub      core.Stub
		result    reflect.Type
		fallible  bool
		signature string
	}{
		{
			name:      "value",
			stub:      core.ValueStub(42),
			result:    reflect.TypeFor[int](),
			signature: "func([]any) int",
		},
		{
			name:      "optional value",
			stub:      core.ValueStub[*string](nil),
			result:    reflect.TypeFor[*string](),
			signature: "func([]any) *string",
		},
		{
			name:      "func",
			stub:      core.FuncStub(func([]any) []byte { return nil }),
			result:    reflect.TypeFor[[]byte](),
			signature: "func([]any) []uint8",
		},
		{
			name:      "fallible",
			stub:      core.FallibleStub(func([]any) (string, error) { return "", nil }),
			result:    reflect.TypeFor[string](),
			fallible:  true,
			signature: "func([]any) (string, error)",
		},
		{
			name:      "error",
			stub:      core.ErrorStub[int](errors.New("boom")),
			result:    reflect.TypeFor[int](),
			fallible:  true,
			signature: "func([]any) (int, error)",
		},
		{
			name:      "void",
			stub:      core.FuncStub(func([]any) core.Void { return core.Void{} }),
			result:    reflect.TypeFor[core.Void](),
			signature: "func([]any) ()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			g.Expect(tt.stub.ResultType()).To(Equal(tt.result))
			g.Expect(tt.stub.Fallible()).To(Equal(tt.fallible))
			g.Expect(tt.stub.Signature()).To(Equal(tt.signature))
		})
	}
}

// TestFuncStub_ReceivesArgs verifies stub closures see the dispatched arguments.
func TestFuncStub_ReceivesArgs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := core.NewRegistry()
	reg.SetStub("k", 0, core.FuncStub(func(args []any) int {
		return args[0].(int) * args[1].(int)
	}))

	got := core.MustDispatch[int](reg, core.Call{Key: "k", Args: []any{6, 7}}, nil)

	g.Expect(got).To(Equal(42))
}
