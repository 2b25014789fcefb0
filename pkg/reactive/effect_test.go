package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectRunsOnCreate(t *testing.T) {
	ran := false
	e := CreateEffect(func() Cleanup {
		ran = true
		return nil
	})
	defer e.Dispose()

	assert.True(t, ran)
	assert.Equal(t, 1, e.Runs())
}

func TestEffectCleanupOrdering(t *testing.T) {
	count := NewSignal(0)
	var log []string

	e := CreateEffect(func() Cleanup {
		v := count.Get()
		log = append(log, "run", string(rune('0'+v)))
		return func() { log = append(log, "cleanup", string(rune('0'+v))) }
	}, count)

	count.Set(1)
	e.Dispose()
	e.Dispose()

	assert.Equal(t, []string{"run", "0", "cleanup", "0", "run", "1", "cleanup", "1"}, log)

	count.Set(2)
	assert.Equal(t, 2, e.Runs(), "disposed effects never run again")
}

func TestEffectWriteDuringRunIsQueued(t *testing.T) {
	count := NewSignal(0)
	depth, maxDepth := 0, 0

	e := CreateEffect(func() Cleanup {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		if count.Get() < 3 {
			count.Update(func(n int) int { return n + 1 })
		}
		depth--
		return nil
	}, count)
	defer e.Dispose()

	assert.Equal(t, 3, count.Get())
	assert.Equal(t, 1, maxDepth, "effect body must not re-enter")
	assert.Equal(t, 4, e.Runs())
}

func TestEffectDisposedFromInsideBody(t *testing.T) {
	count := NewSignal(0)
	cleaned := 0
	var e *Effect

	e = CreateEffect(func() Cleanup {
		if count.Get() == 1 {
			e.Dispose()
		}
		return func() { cleaned++ }
	}, count)

	count.Set(1)
	assert.True(t, e.IsDisposed())
	assert.Equal(t, 2, cleaned)
}

func TestMemoNotifiesOnlyWhenResultChanges(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(2)
	sum := NewMemo(func() int { return a.Get() + b.Get() }, a, b)
	defer sum.Dispose()
	require.Equal(t, 3, sum.Get())

	even := NewMemo(func() bool { return a.Get()%2 == 0 }, a)
	defer even.Dispose()

	var sums []int
	sum.Subscribe(func(v int) { sums = append(sums, v) })
	evens := 0
	even.Observe(func() { evens++ })

	a.Set(3)
	a.Set(4)
	a.Set(6)
	assert.Equal(t, []int{5, 6, 8}, sums)
	assert.Equal(t, 1, evens, "odd -> odd -> even -> even flips once")
}

func TestMemoDispose(t *testing.T) {
	a := NewSignal(1)
	double := NewMemo(func() int { return a.Get() * 2 }, a)
	require.Equal(t, 2, double.Get())

	double.Dispose()
	a.Set(5)
	assert.Equal(t, 2, double.Get())
	assert.Equal(t, 0, a.Subscribers())
}

func TestOwnerDisposesInReverseOrder(t *testing.T) {
	o := NewOwner()
	var log []string
	o.OnCleanup(func() { log = append(log, "first") })
	o.OnCleanup(func() { log = append(log, "second") })

	s := NewSignal(0)
	runs := 0
	o.Effect(func() Cleanup {
		_ = s.Get()
		runs++
		return func() { log = append(log, "effect") }
	}, s)

	o.Dispose()
	o.Dispose()
	assert.Equal(t, []string{"effect", "second", "first"}, log)

	s.Set(1)
	assert.Equal(t, 1, runs)

	late := false
	o.OnCleanup(func() { late = true })
	assert.True(t, late, "cleanups registered after dispose run immediately")
}

func TestOnceAndChain(t *testing.T) {
	calls := 0
	d := Once(func() { calls++ })
	d()
	d()
	assert.Equal(t, 1, calls)

	Once(nil)()

	var order []int
	c := Chain(func() { order = append(order, 1) }, nil, func() { order = append(order, 2) })
	c()
	c()
	assert.Equal(t, []int{1, 2}, order)
}
