// Package schedule defers work until after the current render pass.
//
// Builders never block. When they need the DOM to settle (before mounting a
// positioning engine or moving focus) they post a continuation with
// Scheduler.Tick. The host drains the queue with Queue.Flush once it has
// committed its render, the same way a browser runs microtasks after the
// current task.
//
// Delayed work (tooltip open/close delays) goes through a Clock. RealClock
// posts expired timers back into a Queue so every state mutation still
// happens on the goroutine that flushes; FakeClock fires timers
// synchronously when advanced and is what tests use.
package schedule
