package popover

import (
	"fmt"

	"github.com/vango-dev/floatkit/pkg/builder"
)

// TriggerAttrs are the attributes of the trigger element.
type TriggerAttrs struct {
	Role         string
	AriaHasPopup string
	AriaExpanded bool
	DataState    string
	AriaControls string
	ID           string
}

// Attributes implements builder.Attrs.
func (a TriggerAttrs) Attributes() builder.Set {
	var s builder.Set
	s.Add("role", a.Role).
		Add("aria-haspopup", a.AriaHasPopup).
		AddBool("aria-expanded", a.AriaExpanded).
		Add("data-state", a.DataState).
		Add("aria-controls", a.AriaControls).
		Add("id", a.ID)
	return s
}

// ContentAttrs are the attributes of the content element.
type ContentAttrs struct {
	Hidden     bool
	TabIndex   int
	Display    string
	ID         string
	DataState  string
	DataPortal bool
}

// Attributes implements builder.Attrs.
func (a ContentAttrs) Attributes() builder.Set {
	var s builder.Set
	s.AddIf(a.Hidden, "hidden", "true").
		AddInt("tabindex", a.TabIndex).
		Add("id", a.ID).
		Add("data-state", a.DataState).
		AddIf(a.DataPortal, "data-portal", "")
	s.Style = builder.Style{{Prop: "display", Value: a.Display}}
	return s
}

// ArrowAttrs are the attributes of the arrow element.
type ArrowAttrs struct {
	DataArrow bool
	Size      int
}

// Attributes implements builder.Attrs.
func (a ArrowAttrs) Attributes() builder.Set {
	size := fmt.Sprintf("var(--arrow-size, %dpx)", a.Size)
	var s builder.Set
	s.AddBool("data-arrow", a.DataArrow)
	s.Style = builder.Style{
		{Prop: "position", Value: "absolute"},
		{Prop: "width", Value: size},
		{Prop: "height", Value: size},
	}
	return s
}

// CloseAttrs are the attributes of the close element.
type CloseAttrs struct {
	Type string
}

// Attributes implements builder.Attrs.
func (a CloseAttrs) Attributes() builder.Set {
	var s builder.Set
	s.Add("type", a.Type)
	return s
}
