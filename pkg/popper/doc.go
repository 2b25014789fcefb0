// Package popper defines the Popper Controller: the service that, given an
// anchor element and a floating content node, positions the content, traps
// focus inside it, dismisses it on outside clicks or Escape, and relocates
// it into a portal.
//
// Disclosure controllers only depend on the Factory interface. Engine is
// the default implementation; it is deliberately small (one-shot placement
// with flip and shift, a Tab-cycling focus trap) and hosts with a richer
// positioning library can supply their own Factory.
package popper
