package dom

import (
	"slices"
	"sort"
	"strings"
)

// DefaultViewport is the viewport of a new Tree.
var DefaultViewport = Rect{Width: 1024, Height: 768}

type listener struct {
	id uint64
	fn Handler
}

// listenerSet holds listeners by event type.
type listenerSet struct {
	byType map[string][]listener
	nextID uint64
}

func (s *listenerSet) add(typ string, fn Handler) func() {
	if s.byType == nil {
		s.byType = make(map[string][]listener)
	}
	s.nextID++
	id := s.nextID
	s.byType[typ] = append(s.byType[typ], listener{id: id, fn: fn})

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		list := s.byType[typ]
		for i, l := range list {
			if l.id == id {
				s.byType[typ] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (s *listenerSet) count(typ string) int {
	return len(s.byType[typ])
}

// fire calls a snapshot of the listeners for ev.Type.
func (s *listenerSet) fire(ev *Event) {
	list := append([]listener(nil), s.byType[ev.Type]...)
	for _, l := range list {
		l.fn(ev)
	}
}

type styleProp struct {
	name, value string
}

// Node is an element of an in-memory Tree. It implements Element.
// A Tree and its nodes are not safe for concurrent use.
type Node struct {
	tree      *Tree
	tag       string
	attrs     map[string]string
	style     []styleProp
	parent    *Node
	children  []*Node
	rect      Rect
	listeners listenerSet
}

// Tree is an in-memory Document.
type Tree struct {
	body      *Node
	active    *Node
	viewport  Rect
	listeners listenerSet
}

var _ Document = (*Tree)(nil)
var _ Element = (*Node)(nil)

// NewTree creates a document with an empty body.
func NewTree() *Tree {
	t := &Tree{viewport: DefaultViewport}
	t.body = t.Create("body")
	t.body.rect = t.viewport
	return t
}

// Create returns a detached element owned by the tree.
func (t *Tree) Create(tag string) *Node {
	return &Node{
		tree:  t,
		tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
	}
}

// CreateWithID is Create followed by setting the id attribute.
func (t *Tree) CreateWithID(tag, id string) *Node {
	n := t.Create(tag)
	n.SetAttr("id", id)
	return n
}

// Body implements Document.
func (t *Tree) Body() Element { return t.body }

// BodyNode returns the body as a *Node.
func (t *Tree) BodyNode() *Node { return t.body }

// Viewport implements Document.
func (t *Tree) Viewport() Rect { return t.viewport }

// SetViewport changes the viewport size used for positioning.
func (t *Tree) SetViewport(r Rect) { t.viewport = r }

// ActiveElement implements Document.
func (t *Tree) ActiveElement() Element {
	if t.active == nil || !t.active.IsConnected() {
		return nil
	}
	return t.active
}

// AddEventListener implements EventTarget for document-level listeners.
func (t *Tree) AddEventListener(typ string, fn Handler) func() {
	return t.listeners.add(typ, fn)
}

// Listeners returns how many document-level listeners exist for typ.
func (t *Tree) Listeners(typ string) int {
	return t.listeners.count(typ)
}

// ElementByID implements Document. Only connected elements are found.
func (t *Tree) ElementByID(id string) Element {
	if id == "" {
		return nil
	}
	if n := t.body.find(id); n != nil {
		return n
	}
	return nil
}

func (n *Node) find(id string) *Node {
	if n.attrs["id"] == id {
		return n
	}
	for _, c := range n.children {
		if found := c.find(id); found != nil {
			return found
		}
	}
	return nil
}

// Dispatch sends ev to target, bubbling through its ancestors and then to
// document listeners if the target is connected.
func (t *Tree) Dispatch(target *Node, ev *Event) *Event {
	ev.Target = target
	for cur := target; cur != nil && !ev.stopped; cur = cur.parent {
		ev.CurrentTarget = cur
		cur.listeners.fire(ev)
	}
	if !ev.stopped && target.IsConnected() {
		ev.CurrentTarget = nil
		t.listeners.fire(ev)
	}
	return ev
}

// Click simulates a pointer press followed by a click on n. Focusable
// elements receive focus on press, as in browsers.
func (t *Tree) Click(n *Node) *Event {
	t.Dispatch(n, &Event{Type: EventPointerDown})
	if IsFocusable(n) {
		n.Focus()
	}
	return t.Dispatch(n, &Event{Type: EventClick})
}

// KeyDown dispatches a keydown to n, or to the focused element when n is nil.
func (t *Tree) KeyDown(n *Node, key string) *Event {
	if n == nil {
		n = t.active
	}
	if n == nil || !n.IsConnected() {
		n = t.body
	}
	return t.Dispatch(n, &Event{Type: EventKeyDown, Key: key})
}

// PointerEnter dispatches a pointerenter to n.
func (t *Tree) PointerEnter(n *Node) *Event {
	return t.Dispatch(n, &Event{Type: EventPointerEnter})
}

// PointerLeave dispatches a pointerleave to n.
func (t *Tree) PointerLeave(n *Node) *Event {
	return t.Dispatch(n, &Event{Type: EventPointerLeave})
}

// ID implements Element.
func (n *Node) ID() string { return n.attrs["id"] }

// Tag implements Element.
func (n *Node) Tag() string { return n.tag }

// Attr implements Element. The style attribute is serialized from the
// inline style properties.
func (n *Node) Attr(name string) (string, bool) {
	if name == "style" {
		if len(n.style) == 0 {
			return "", false
		}
		return n.styleString(), true
	}
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttr implements Element. Setting style replaces all inline properties.
func (n *Node) SetAttr(name, value string) {
	if name == "style" {
		n.style = nil
		for _, decl := range strings.Split(value, ";") {
			prop, val, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			n.SetStyle(strings.TrimSpace(prop), strings.TrimSpace(val))
		}
		return
	}
	n.attrs[name] = value
}

// RemoveAttr implements Element.
func (n *Node) RemoveAttr(name string) {
	if name == "style" {
		n.style = nil
		return
	}
	delete(n.attrs, name)
}

// AttrNames returns the present attribute names, sorted.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs)+1)
	for k := range n.attrs {
		names = append(names, k)
	}
	if len(n.style) > 0 {
		names = append(names, "style")
	}
	sort.Strings(names)
	return names
}

// Style implements Element.
func (n *Node) Style(prop string) string {
	for _, p := range n.style {
		if p.name == prop {
			return p.value
		}
	}
	return ""
}

// SetStyle implements Element.
func (n *Node) SetStyle(prop, value string) {
	for i, p := range n.style {
		if p.name != prop {
			continue
		}
		if value == "" {
			n.style = append(n.style[:i], n.style[i+1:]...)
		} else {
			n.style[i].value = value
		}
		return
	}
	if value != "" {
		n.style = append(n.style, styleProp{name: prop, value: value})
	}
}

func (n *Node) styleString() string {
	var b strings.Builder
	for _, p := range n.style {
		b.WriteString(p.name)
		b.WriteString(": ")
		b.WriteString(p.value)
		b.WriteString(";")
	}
	return b.String()
}

// Parent implements Element.
func (n *Node) Parent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Children implements Element.
func (n *Node) Children() []Element {
	out := make([]Element, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// AppendChild implements Element. Nodes from another tree are ignored.
func (n *Node) AppendChild(child Element) {
	c, ok := child.(*Node)
	if !ok || c == nil || c.tree != n.tree || c.Contains(n) {
		return
	}
	c.Remove()
	c.parent = n
	n.children = append(n.children, c)
}

// InsertBefore implements Element.
func (n *Node) InsertBefore(child, ref Element) {
	c, ok := child.(*Node)
	if !ok || c == nil || c.tree != n.tree || c.Contains(n) {
		return
	}
	r, _ := ref.(*Node)
	if r == nil || r == c || r.parent != n {
		n.AppendChild(c)
		return
	}
	c.Remove()
	i := slices.Index(n.children, r)
	n.children = slices.Insert(n.children, i, c)
	c.parent = n
}

// Append is AppendChild for chaining while building fixtures.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Contains implements Element.
func (n *Node) Contains(other Element) bool {
	o, ok := other.(*Node)
	if !ok || o == nil {
		return false
	}
	for cur := o; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// IsConnected implements Element.
func (n *Node) IsConnected() bool {
	return n.tree.body.Contains(n)
}

// Focus implements Element. Detached elements cannot take focus.
func (n *Node) Focus() {
	t := n.tree
	if !n.IsConnected() || t.active == n {
		return
	}
	prev := t.active
	t.active = n
	if prev != nil {
		prev.listeners.fire(&Event{Type: EventBlur, Target: prev, CurrentTarget: prev})
	}
	n.listeners.fire(&Event{Type: EventFocus, Target: n, CurrentTarget: n})
}

// Rect implements Element.
func (n *Node) Rect() Rect { return n.rect }

// SetRect sets the layout box reported by Rect.
func (n *Node) SetRect(r Rect) { n.rect = r }

// AddEventListener implements EventTarget.
func (n *Node) AddEventListener(typ string, fn Handler) func() {
	return n.listeners.add(typ, fn)
}

// Listeners returns how many listeners n has for typ.
func (n *Node) Listeners(typ string) int {
	return n.listeners.count(typ)
}

// IsFocusable reports whether el takes focus by default or through tabindex.
func IsFocusable(el Element) bool {
	if IsNil(el) {
		return false
	}
	if v, ok := el.Attr("tabindex"); ok {
		return v != "-1"
	}
	if _, disabled := el.Attr("disabled"); disabled {
		return false
	}
	switch el.Tag() {
	case "button", "input", "select", "textarea":
		return true
	case "a":
		_, ok := el.Attr("href")
		return ok
	}
	return false
}
