package reactive

import "sync"

// batchState is the process-wide batch bookkeeping. floatkit is driven from
// a single goroutine; the mutex only keeps misuse from corrupting state.
var batchState struct {
	mu      sync.Mutex
	depth   int
	pending []subscriber
}

// queuePending appends subs to the pending queue if a batch is open.
// Returns false when no batch is open and the caller must notify directly.
func queuePending(subs []subscriber) bool {
	batchState.mu.Lock()
	defer batchState.mu.Unlock()

	if batchState.depth == 0 {
		return false
	}
	batchState.pending = append(batchState.pending, subs...)
	return true
}

// Batch groups multiple updates into a single notification phase.
// Subscribers are deduplicated and notified once, in first-queued order,
// when the outermost batch completes.
//
// Example:
//
//	Batch(func() {
//	    trigger.Set(node)
//	    open.Set(true)
//	})
func Batch(fn func()) {
	batchState.mu.Lock()
	batchState.depth++
	batchState.mu.Unlock()

	defer func() {
		batchState.mu.Lock()
		batchState.depth--
		var pending []subscriber
		if batchState.depth == 0 {
			pending = batchState.pending
			batchState.pending = nil
		}
		batchState.mu.Unlock()

		flushPending(pending)
	}()

	fn()
}

// flushPending notifies each unique subscriber once.
func flushPending(pending []subscriber) {
	if len(pending) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(pending))
	for _, sub := range pending {
		if seen[sub.id] {
			continue
		}
		seen[sub.id] = true
		sub.fn()
	}
}
