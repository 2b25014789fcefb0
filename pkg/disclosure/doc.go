// Package disclosure implements the Floating Disclosure Controller shared by
// the floatkit builders.
//
// A Controller reconciles:
//
//   - an open flag that is either owned internally or supplied by the caller,
//     with an optional change interceptor (controlled usage);
//   - the active trigger, the element the content is anchored to;
//   - a visibility memo derived from both plus a force-visible override;
//   - a popper instance, disposed before every recomputation and rebuilt on
//     the next tick once the content node is connected;
//   - a scroll lock held while the widget is open;
//   - the close routine, which commits open=false and then hands focus back
//     to the trigger after the next render.
//
// Builders add element attributes and event wiring on top; see
// pkg/builders/popover and pkg/builders/tooltip.
package disclosure
