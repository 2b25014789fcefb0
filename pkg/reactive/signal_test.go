package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)
	assert.Equal(t, 0, count.Get())

	count.Set(5)
	assert.Equal(t, 5, count.Get())

	count.Update(func(n int) int { return n * 2 })
	assert.Equal(t, 10, count.Get())
}

func TestSignalNotifiesOnlyOnChange(t *testing.T) {
	count := NewSignal(0)
	var seen []int
	unsub := count.Subscribe(func(v int) { seen = append(seen, v) })

	count.Set(1)
	count.Set(1)
	count.Set(2)
	assert.Equal(t, []int{1, 2}, seen)

	unsub()
	unsub()
	count.Set(3)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 0, count.Subscribers())
}

type node struct{ name string }

func TestSignalComparesPointersByIdentity(t *testing.T) {
	a, b := &node{name: "x"}, &node{name: "x"}
	ref := NewSignal[*node](nil)

	notified := 0
	ref.Observe(func() { notified++ })

	ref.Set(a)
	ref.Set(a)
	require.Equal(t, 1, notified)

	ref.Set(b)
	assert.Equal(t, 2, notified, "distinct pointers with equal contents must notify")

	ref.Set(nil)
	assert.Equal(t, 3, notified)
}

func TestSignalInterfaceValues(t *testing.T) {
	s := NewSignal[any](nil)
	calls := 0
	s.Observe(func() { calls++ })

	s.Set([]int{1})
	s.Set([]int{1})
	assert.Equal(t, 1, calls, "non-comparable values fall back to deep equality")

	s.Set("x")
	assert.Equal(t, 2, calls)
}

func TestSignalWithEquals(t *testing.T) {
	s := NewSignal(1).WithEquals(func(a, b int) bool { return a%2 == b%2 })
	calls := 0
	s.Observe(func() { calls++ })

	s.Set(3)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, s.Get())

	s.Set(4)
	assert.Equal(t, 1, calls)
}

func TestBatchDeduplicates(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)

	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = a.Get() + b.Get()
		runs++
		return nil
	}, a, b)
	defer e.Dispose()
	require.Equal(t, 1, runs)

	Batch(func() {
		a.Set(1)
		b.Set(2)
		Batch(func() { a.Set(3) })
		assert.Equal(t, 1, runs, "no notification inside a batch")
	})
	assert.Equal(t, 2, runs)
}

func TestSubscribeSeesLatestValueAfterBatch(t *testing.T) {
	s := NewSignal("a")
	var got []string
	s.Subscribe(func(v string) { got = append(got, v) })

	Batch(func() {
		s.Set("b")
		s.Set("c")
	})
	assert.Equal(t, []string{"c"}, got)
}
