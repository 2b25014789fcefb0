// Package dom describes the slice of a host document that floatkit builders
// touch, and ships an in-memory implementation of it.
//
// Builders never render markup. They read element identity, attach event
// listeners, move focus, relocate nodes for portals and toggle a few style
// properties. Element and Document capture exactly that surface so the same
// builders can run against a browser bridge, a server-driven session, or the
// in-memory Tree used by tests and the floatkit CLI.
//
// # In-memory tree
//
//	tree := dom.NewTree()
//	btn := tree.Create("button")
//	btn.SetAttr("id", "trigger")
//	tree.Body().AppendChild(btn)
//
//	tree.Click(btn)                // dispatches click, bubbling to document
//	tree.KeyDown(btn, dom.KeyEnter)
package dom
