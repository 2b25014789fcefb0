// Package scenario runs scripted interaction scenarios against floatkit
// widgets on the in-memory DOM.
//
// A scenario declares widgets, the page elements they bind to and a list of
// steps. Steps simulate user input (click, key, enter, leave, focus), drive
// time (flush runs the render tick queue, advance moves the fake clock),
// call controller operations (open, close), mutate the page (remove, set)
// and check the observable state (expect).
//
// Runner.Run executes a whole scenario and returns a Report. A Session runs
// one step at a time and backs the dev server's live inspector.
package scenario
