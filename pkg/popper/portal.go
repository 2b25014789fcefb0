package popper

import "github.com/vango-dev/floatkit/pkg/dom"

// PortalAttr marks an element as a portal destination for nested content.
const PortalAttr = "data-portal"

type portalMode uint8

const (
	portalAuto portalMode = iota
	portalDisabled
	portalElement
	portalID
)

// Portal selects where floating content is relocated to. The zero value is
// PortalAuto. Portal is comparable.
type Portal struct {
	mode   portalMode
	target dom.Element
	id     string
}

// PortalAuto relocates into the nearest ancestor marked with data-portal,
// or the document body.
func PortalAuto() Portal { return Portal{mode: portalAuto} }

// PortalDisabled leaves content where it was rendered.
func PortalDisabled() Portal { return Portal{mode: portalDisabled} }

// PortalTo relocates into target.
func PortalTo(target dom.Element) Portal {
	if dom.IsNil(target) {
		return PortalDisabled()
	}
	return Portal{mode: portalElement, target: target}
}

// PortalID relocates into the element with the given id.
func PortalID(id string) Portal {
	if id == "" {
		return PortalAuto()
	}
	return Portal{mode: portalID, id: id}
}

// Explicit reports whether the portal names a specific destination.
func (p Portal) Explicit() bool {
	return p.mode == portalElement || p.mode == portalID
}

// Disabled reports whether relocation is turned off.
func (p Portal) Disabled() bool {
	return p.mode == portalDisabled
}

// String describes the portal for logs.
func (p Portal) String() string {
	switch p.mode {
	case portalDisabled:
		return "none"
	case portalElement:
		return "element:" + p.target.ID()
	case portalID:
		return "#" + p.id
	default:
		return "auto"
	}
}

// Destination resolves where node should be relocated to. It must be
// called while node is still at its rendered position: once relocated, the
// node's original ancestors are gone. A nil result means no relocation.
func Destination(doc dom.Document, node dom.Element, p Portal) dom.Element {
	switch p.mode {
	case portalDisabled:
		return nil
	case portalElement:
		return p.target
	case portalID:
		if doc == nil {
			return nil
		}
		return doc.ElementByID(p.id)
	}

	if !dom.IsNil(node) {
		if parent := node.Parent(); !dom.IsNil(parent) {
			if found := dom.Closest(parent, dom.HasAttr(PortalAttr)); found != nil {
				return found
			}
		}
	}
	if doc == nil {
		return nil
	}
	return doc.Body()
}
