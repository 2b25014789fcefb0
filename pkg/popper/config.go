package popper

import (
	"fmt"
	"strings"

	"github.com/vango-dev/floatkit/pkg/dom"
)

// Side is the main-axis side of a placement.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// Align is the cross-axis alignment of a placement.
type Align string

const (
	AlignCenter Align = ""
	AlignStart  Align = "start"
	AlignEnd    Align = "end"
)

// Placement is a side with an optional alignment, e.g. "bottom-start".
type Placement string

// Placements lists every valid placement.
var Placements = []Placement{
	"top", "top-start", "top-end",
	"right", "right-start", "right-end",
	"bottom", "bottom-start", "bottom-end",
	"left", "left-start", "left-end",
}

// Side returns the placement's side. Unknown sides read as bottom.
func (p Placement) Side() Side {
	side, _, _ := strings.Cut(string(p), "-")
	switch Side(side) {
	case SideTop, SideRight, SideLeft:
		return Side(side)
	default:
		return SideBottom
	}
}

// Align returns the placement's alignment.
func (p Placement) Align() Align {
	_, align, _ := strings.Cut(string(p), "-")
	switch Align(align) {
	case AlignStart, AlignEnd:
		return Align(align)
	default:
		return AlignCenter
	}
}

// Valid reports whether p is one of Placements.
func (p Placement) Valid() bool {
	for _, v := range Placements {
		if v == p {
			return true
		}
	}
	return false
}

func placementOf(side Side, align Align) Placement {
	if align == AlignCenter {
		return Placement(side)
	}
	return Placement(fmt.Sprintf("%s-%s", side, align))
}

// Strategy is the CSS position used for the floating element.
type Strategy string

const (
	StrategyAbsolute Strategy = "absolute"
	StrategyFixed    Strategy = "fixed"
)

// FloatingConfig describes how content is placed relative to its anchor.
// It is a comparable value so a change can be detected with ==.
type FloatingConfig struct {
	// Placement is the preferred placement (default "bottom").
	Placement Placement `yaml:"placement" json:"placement"`

	// Strategy is the CSS position strategy (default "absolute").
	Strategy Strategy `yaml:"strategy" json:"strategy"`

	// Gutter is the main-axis distance from the anchor in pixels (default 5).
	Gutter float64 `yaml:"gutter" json:"gutter"`

	// Offset shifts the content along the cross axis in pixels.
	Offset float64 `yaml:"offset" json:"offset"`

	// NoFlip disables flipping to the opposite side on overflow.
	NoFlip bool `yaml:"noFlip" json:"noFlip"`

	// OverflowPadding is the minimum distance kept from viewport edges
	// (default 8).
	OverflowPadding float64 `yaml:"overflowPadding" json:"overflowPadding"`

	// SameWidth sizes the content to the anchor's width.
	SameWidth bool `yaml:"sameWidth" json:"sameWidth"`
}

// Defaults returns c with zero fields replaced by their defaults.
func (c FloatingConfig) Defaults() FloatingConfig {
	if c.Placement == "" {
		c.Placement = "bottom"
	}
	if c.Strategy == "" {
		c.Strategy = StrategyAbsolute
	}
	if c.Gutter == 0 {
		c.Gutter = 5
	}
	if c.OverflowPadding == 0 {
		c.OverflowPadding = 8
	}
	return c
}

// Validate reports the first invalid field.
func (c FloatingConfig) Validate() error {
	if c.Placement != "" && !c.Placement.Valid() {
		return fmt.Errorf("unknown placement %q", c.Placement)
	}
	if c.Strategy != "" && c.Strategy != StrategyAbsolute && c.Strategy != StrategyFixed {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.Gutter < 0 || c.OverflowPadding < 0 {
		return fmt.Errorf("gutter and overflow padding must not be negative")
	}
	return nil
}

// Handler reacts to a dismissal event.
type Handler func(ev *dom.Event)

// FocusTrapConfig enables the focus trap.
type FocusTrapConfig struct {
	// InitialFocus is focused on activation. Nil focuses the first
	// focusable descendant, or the content itself.
	InitialFocus dom.Element
}

// ClickOutsideConfig enables outside-click dismissal.
type ClickOutsideConfig struct {
	// Handler runs for presses outside both the content and the anchor.
	Handler Handler

	// Ignore, if set, exempts further press targets, e.g. other triggers
	// of the same widget.
	Ignore func(target dom.Element) bool
}

// EscapeKeydownConfig enables Escape dismissal.
type EscapeKeydownConfig struct {
	Handler Handler
}
