package tooltip

import "github.com/vango-dev/floatkit/pkg/builder"

// TriggerAttrs are the attributes of the trigger element.
type TriggerAttrs struct {
	AriaDescribedBy string
	ID              string
	DataState       string
}

// Attributes implements builder.Attrs.
func (a TriggerAttrs) Attributes() builder.Set {
	var s builder.Set
	s.Add("aria-describedby", a.AriaDescribedBy).
		Add("id", a.ID).
		Add("data-state", a.DataState)
	return s
}

// ContentAttrs are the attributes of the content element.
type ContentAttrs struct {
	Role       string
	Hidden     bool
	Display    string
	ID         string
	DataState  string
	DataPortal bool
}

// Attributes implements builder.Attrs.
func (a ContentAttrs) Attributes() builder.Set {
	var s builder.Set
	s.Add("role", a.Role).
		AddIf(a.Hidden, "hidden", "true").
		Add("id", a.ID).
		Add("data-state", a.DataState).
		AddIf(a.DataPortal, "data-portal", "")
	s.Style = builder.Style{{Prop: "display", Value: a.Display}}
	return s
}
