package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeConnectivity(t *testing.T) {
	tree := NewTree()
	outer := tree.CreateWithID("div", "outer")
	inner := tree.CreateWithID("span", "inner")
	outer.Append(inner)

	assert.False(t, inner.IsConnected())
	assert.Nil(t, tree.ElementByID("inner"))

	tree.BodyNode().Append(outer)
	assert.True(t, inner.IsConnected())
	assert.Equal(t, Element(inner), tree.ElementByID("inner"))
	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))

	outer.Remove()
	assert.False(t, inner.IsConnected())
	assert.Nil(t, tree.ElementByID("outer"))
}

func TestAppendChildRejectsCycles(t *testing.T) {
	tree := NewTree()
	a := tree.Create("div")
	b := tree.Create("div")
	a.Append(b)

	b.AppendChild(a)
	assert.Nil(t, a.Parent())
	assert.Equal(t, Element(a), b.Parent())
}

func TestAppendChildMovesNode(t *testing.T) {
	tree := NewTree()
	a := tree.Create("div")
	b := tree.Create("div")
	c := tree.Create("p")
	a.Append(c)

	b.Append(c)
	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Equal(t, Element(c), b.Children()[0])
}

func TestInsertBefore(t *testing.T) {
	tree := NewTree()
	parent := tree.Create("div")
	a := tree.Create("p")
	b := tree.Create("p")
	c := tree.Create("p")
	parent.Append(a, b)

	parent.InsertBefore(c, b)
	assert.Equal(t, []Element{a, c, b}, parent.Children())

	parent.InsertBefore(b, a)
	assert.Equal(t, []Element{b, a, c}, parent.Children())

	stranger := tree.Create("p")
	parent.InsertBefore(a, stranger)
	assert.Equal(t, []Element{b, c, a}, parent.Children())

	parent.InsertBefore(c, nil)
	assert.Equal(t, []Element{b, a, c}, parent.Children())
}

func TestStyleAttribute(t *testing.T) {
	tree := NewTree()
	n := tree.Create("div")

	n.SetAttr("style", "display: none; width:10px")
	assert.Equal(t, "none", n.Style("display"))
	assert.Equal(t, "10px", n.Style("width"))

	n.SetStyle("display", "")
	v, ok := n.Attr("style")
	assert.True(t, ok)
	assert.Equal(t, "width: 10px;", v)

	n.RemoveAttr("style")
	_, ok = n.Attr("style")
	assert.False(t, ok)
	assert.Equal(t, []string{}, n.AttrNames())
}

func TestDispatchBubblesToDocument(t *testing.T) {
	tree := NewTree()
	parent := tree.Create("div")
	child := tree.Create("button")
	parent.Append(child)
	tree.BodyNode().Append(parent)

	var order []string
	child.AddEventListener(EventClick, func(e *Event) {
		order = append(order, "child")
		assert.Equal(t, Element(child), e.CurrentTarget)
	})
	parent.AddEventListener(EventClick, func(e *Event) {
		order = append(order, "parent")
		assert.Equal(t, Element(child), e.Target)
	})
	remove := tree.AddEventListener(EventClick, func(e *Event) {
		order = append(order, "document")
		assert.Nil(t, e.CurrentTarget)
	})

	tree.Dispatch(child, &Event{Type: EventClick})
	assert.Equal(t, []string{"child", "parent", "document"}, order)

	remove()
	remove()
	assert.Equal(t, 0, tree.Listeners(EventClick))
}

func TestStopPropagation(t *testing.T) {
	tree := NewTree()
	child := tree.Create("button")
	tree.BodyNode().Append(child)

	reached := false
	child.AddEventListener(EventKeyDown, func(e *Event) { e.StopPropagation() })
	tree.AddEventListener(EventKeyDown, func(*Event) { reached = true })

	ev := tree.KeyDown(child, KeyEscape)
	assert.True(t, ev.PropagationStopped())
	assert.False(t, reached)
}

func TestDetachedTargetSkipsDocument(t *testing.T) {
	tree := NewTree()
	n := tree.Create("button")

	reached := false
	tree.AddEventListener(EventClick, func(*Event) { reached = true })
	tree.Dispatch(n, &Event{Type: EventClick})
	assert.False(t, reached)
}

func TestClickFocusesFocusableElements(t *testing.T) {
	tree := NewTree()
	btn := tree.Create("button")
	div := tree.Create("div")
	tree.BodyNode().Append(btn, div)

	var seen []string
	btn.AddEventListener(EventPointerDown, func(*Event) { seen = append(seen, "pointerdown") })
	btn.AddEventListener(EventFocus, func(*Event) { seen = append(seen, "focus") })
	btn.AddEventListener(EventClick, func(*Event) { seen = append(seen, "click") })
	btn.AddEventListener(EventBlur, func(*Event) { seen = append(seen, "blur") })

	tree.Click(btn)
	assert.Equal(t, []string{"pointerdown", "focus", "click"}, seen)
	assert.Equal(t, Element(btn), tree.ActiveElement())

	tree.Click(div)
	assert.Equal(t, Element(btn), tree.ActiveElement(), "plain divs do not take focus on click")

	div.Focus()
	assert.Equal(t, "blur", seen[len(seen)-1])
	div.Remove()
	assert.Nil(t, tree.ActiveElement())
}

func TestKeyDownTargetsFocusedElement(t *testing.T) {
	tree := NewTree()
	btn := tree.Create("button")
	tree.BodyNode().Append(btn)
	btn.Focus()

	var target Element
	tree.AddEventListener(EventKeyDown, func(e *Event) { target = e.Target })
	tree.KeyDown(nil, KeyTab)
	assert.Equal(t, Element(btn), target)
}

func TestIsFocusable(t *testing.T) {
	tree := NewTree()
	cases := []struct {
		tag   string
		attrs map[string]string
		want  bool
	}{
		{"button", nil, true},
		{"button", map[string]string{"disabled": ""}, false},
		{"div", nil, false},
		{"div", map[string]string{"tabindex": "0"}, true},
		{"button", map[string]string{"tabindex": "-1"}, false},
		{"a", nil, false},
		{"a", map[string]string{"href": "#"}, true},
	}
	for _, tc := range cases {
		n := tree.Create(tc.tag)
		for k, v := range tc.attrs {
			n.SetAttr(k, v)
		}
		assert.Equal(t, tc.want, IsFocusable(n), "%s %v", tc.tag, tc.attrs)
	}
	var nilNode *Node
	assert.False(t, IsFocusable(nilNode))
}

func TestClosest(t *testing.T) {
	tree := NewTree()
	portal := tree.Create("div")
	portal.SetAttr("data-portal", "")
	leaf := tree.Create("span")
	portal.Append(tree.Create("div").Append(leaf))

	assert.Equal(t, Element(portal), Closest(leaf, HasAttr("data-portal")))
	assert.Nil(t, Closest(leaf, HasAttr("data-missing")))
	assert.Equal(t, Element(leaf), Closest(leaf, func(Element) bool { return true }))
}
