package core_test

// This file contains regression tests for data races and ordering under
// concurrent dispatch. Run with -race.

import (
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impstub/internal/core"
)

// TestConcurrentDispatch_SameIdentity_LogsEveryCall verifies that no call is lost
// when many goroutines dispatch on one identity, and that each goroutine's own
// calls keep their relative order.
func TestConcurrentDispatch_SameIdentity_LogsEveryCall(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	const (
		workers = 16
		perWork = 50
	)

	reg := core.NewRegistry()
	reg.SetStub("k", 0, core.SequenceStub("early", workers*perWork/2, "late"))

	var (
		wg    sync.WaitGroup
		early atomic.Int64
	)

	for w := range workers {
		wg.Go(func() {
			for i := range perWork {
				got := core.MustDispatch[string](reg, core.Call{Key: "k", Args: []any{w, i}}, nil)
				if got == "early" {
					early.Add(1)
				}
			}
		})
	}

	wg.Wait()

	invs := reg.Invocations("k")
	g.Expect(invs).To(HaveLen(workers * perWork))
	g.Expect(early.Load()).To(Equal(int64(workers * perWork / 2)))

	next := make(map[int]int, workers)
	for _, inv := range invs {
		w, i := inv.Args[0].(int), inv.Args[1].(int)
		g.Expect(i).To(Equal(next[w]), "worker %d out of order", w)
		next[w]++
	}
}

// TestConcurrentDispatch_DistinctIdentities_Isolated verifies concurrent mocks never
// see each other's stubs or log entries.
func TestConcurrentDispatch_DistinctIdentities_Isolated(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	const mocks = 32

	reg := core.NewRegistry()

	var wg sync.WaitGroup

	for m := range mocks {
		wg.Go(func() {
			key := reg.Token("race")
			reg.SetStub(key, 0, core.ValueStub(m))

			for range 20 {
				if got := core.MustDispatch[int](reg, core.Call{Key: key}, nil); got != m {
					t.Errorf("mock %d observed %d", m, got)
				}
			}

			if n := len(reg.Invocations(key)); n != 20 {
				t.Errorf("mock %d logged %d calls", m, n)
			}
		})
	}

	wg.Wait()
	g.Expect(t.Failed()).To(BeFalse())
}

// TestConcurrentStubSwap_NoTornReads verifies replacing a stub while it is being
// dispatched always yields one of the installed values.
func TestConcurrentStubSwap_NoTornReads(t *testing.T) {
	t.Parallel()

	reg := core.NewRegistry()
	reg.SetStub("k", 0, core.ValueStub(1))

	var wg sync.WaitGroup

	wg.Go(func() {
		for i := range 200 {
			if i%3 == 0 {
				reg.RemoveStub("k", 0)
			} else {
				reg.SetStub("k", 0, core.ValueStub(i%2+1))
			}
		}
	})

	wg.Go(func() {
		for range 200 {
			got := core.MustDispatch(reg, core.Call{Key: "k"}, func([]any) int { return 0 })
			if got < 0 || got > 2 {
				t.Errorf("unexpected value %d", got)
			}
		}
	})

	wg.Go(func() {
		for range 50 {
			reg.ResetMock("k")
		}
	})

	wg.Wait()
}
