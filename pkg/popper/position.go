package popper

import "github.com/vango-dev/floatkit/pkg/dom"

// Position is the computed placement of floating content.
type Position struct {
	X, Y      float64
	Placement Placement
	// Width is set when SameWidth is requested, otherwise 0.
	Width float64
}

var oppositeSide = map[Side]Side{
	SideTop:    SideBottom,
	SideBottom: SideTop,
	SideLeft:   SideRight,
	SideRight:  SideLeft,
}

// Compute places floating next to anchor inside viewport.
//
// The preferred side is used unless the content overflows the viewport on
// that side and fits better on the opposite one (flip). The cross axis is
// then clamped into the viewport minus the overflow padding (shift).
func Compute(anchor, floating, viewport dom.Rect, cfg FloatingConfig) Position {
	cfg = cfg.Defaults()
	if cfg.SameWidth {
		floating.Width = anchor.Width
	}

	side, align := cfg.Placement.Side(), cfg.Placement.Align()
	x, y := coords(anchor, floating, side, align, cfg)

	if !cfg.NoFlip {
		over := overflow(x, y, floating, viewport, side, cfg.OverflowPadding)
		if over > 0 {
			flipped := oppositeSide[side]
			fx, fy := coords(anchor, floating, flipped, align, cfg)
			if overflow(fx, fy, floating, viewport, flipped, cfg.OverflowPadding) < over {
				side, x, y = flipped, fx, fy
			}
		}
	}

	x, y = shift(x, y, floating, viewport, side, cfg.OverflowPadding)

	pos := Position{X: x, Y: y, Placement: placementOf(side, align)}
	if cfg.SameWidth {
		pos.Width = anchor.Width
	}
	return pos
}

func coords(anchor, floating dom.Rect, side Side, align Align, cfg FloatingConfig) (float64, float64) {
	var x, y float64
	switch side {
	case SideTop:
		y = anchor.Y - floating.Height - cfg.Gutter
	case SideBottom:
		y = anchor.Bottom() + cfg.Gutter
	case SideLeft:
		x = anchor.X - floating.Width - cfg.Gutter
	case SideRight:
		x = anchor.Right() + cfg.Gutter
	}

	if side == SideTop || side == SideBottom {
		switch align {
		case AlignStart:
			x = anchor.X
		case AlignEnd:
			x = anchor.Right() - floating.Width
		default:
			x = anchor.X + (anchor.Width-floating.Width)/2
		}
		x += cfg.Offset
	} else {
		switch align {
		case AlignStart:
			y = anchor.Y
		case AlignEnd:
			y = anchor.Bottom() - floating.Height
		default:
			y = anchor.Y + (anchor.Height-floating.Height)/2
		}
		y += cfg.Offset
	}
	return x, y
}

// overflow returns how far content at (x, y) crosses the viewport edge on
// the given side.
func overflow(x, y float64, floating, viewport dom.Rect, side Side, padding float64) float64 {
	switch side {
	case SideTop:
		return viewport.Y + padding - y
	case SideBottom:
		return y + floating.Height - (viewport.Bottom() - padding)
	case SideLeft:
		return viewport.X + padding - x
	default:
		return x + floating.Width - (viewport.Right() - padding)
	}
}

func shift(x, y float64, floating, viewport dom.Rect, side Side, padding float64) (float64, float64) {
	if side == SideTop || side == SideBottom {
		return clamp(x, viewport.X+padding, viewport.Right()-padding-floating.Width), y
	}
	return x, clamp(y, viewport.Y+padding, viewport.Bottom()-padding-floating.Height)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
