// Package builder turns typed attribute records into DOM bindings.
//
// An Element pairs a reactive attribute record with an action. Use applies
// the record to a node, keeps it applied as the record changes, runs the
// action and returns a single disposer undoing all of it:
//
//	trigger := builder.New("popover-trigger", attrs, action)
//	release := trigger.Use(node)
//	defer release()
//
// Every element also carries a data-melt-<name> marker attribute.
package builder
