package popper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vango-dev/floatkit/pkg/dom"
)

func TestPlacementParts(t *testing.T) {
	tests := []struct {
		in    Placement
		side  Side
		align Align
		valid bool
	}{
		{"bottom", SideBottom, AlignCenter, true},
		{"top-start", SideTop, AlignStart, true},
		{"left-end", SideLeft, AlignEnd, true},
		{"middle", SideBottom, AlignCenter, false},
		{"", SideBottom, AlignCenter, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.side, tt.in.Side())
			assert.Equal(t, tt.align, tt.in.Align())
			assert.Equal(t, tt.valid, tt.in.Valid())
		})
	}
}

func TestComputeBasicPlacements(t *testing.T) {
	viewport := dom.Rect{Width: 1000, Height: 1000}
	anchor := dom.Rect{X: 400, Y: 400, Width: 100, Height: 40}
	floating := dom.Rect{Width: 200, Height: 100}

	tests := []struct {
		placement Placement
		x, y      float64
	}{
		{"bottom", 350, 445},
		{"bottom-start", 400, 445},
		{"bottom-end", 300, 445},
		{"top", 350, 295},
		{"right", 505, 370},
		{"left-start", 195, 400},
	}
	for _, tt := range tests {
		t.Run(string(tt.placement), func(t *testing.T) {
			pos := Compute(anchor, floating, viewport, FloatingConfig{Placement: tt.placement})
			assert.Equal(t, tt.x, pos.X)
			assert.Equal(t, tt.y, pos.Y)
			assert.Equal(t, tt.placement, pos.Placement)
		})
	}
}

func TestComputeFlipsWhenOverflowing(t *testing.T) {
	viewport := dom.Rect{Width: 1000, Height: 600}
	anchor := dom.Rect{X: 400, Y: 540, Width: 100, Height: 40}
	floating := dom.Rect{Width: 200, Height: 100}

	pos := Compute(anchor, floating, viewport, FloatingConfig{Placement: "bottom"})
	assert.Equal(t, Placement("top"), pos.Placement)
	assert.Equal(t, 435.0, pos.Y)

	pinned := Compute(anchor, floating, viewport, FloatingConfig{Placement: "bottom", NoFlip: true})
	assert.Equal(t, Placement("bottom"), pinned.Placement)
}

func TestComputeShiftsIntoViewport(t *testing.T) {
	viewport := dom.Rect{Width: 500, Height: 500}
	anchor := dom.Rect{X: 0, Y: 100, Width: 40, Height: 20}
	floating := dom.Rect{Width: 200, Height: 50}

	pos := Compute(anchor, floating, viewport, FloatingConfig{Placement: "bottom"})
	assert.Equal(t, 8.0, pos.X, "clamped to overflow padding")
}

func TestComputeSameWidth(t *testing.T) {
	viewport := dom.Rect{Width: 1000, Height: 1000}
	anchor := dom.Rect{X: 100, Y: 100, Width: 300, Height: 40}
	pos := Compute(anchor, dom.Rect{Width: 50, Height: 50}, viewport, FloatingConfig{SameWidth: true})
	assert.Equal(t, 300.0, pos.Width)
	assert.Equal(t, 100.0, pos.X)
}

func TestFloatingConfigValidate(t *testing.T) {
	assert.NoError(t, FloatingConfig{}.Validate())
	assert.NoError(t, FloatingConfig{Placement: "top-end", Strategy: StrategyFixed}.Validate())
	assert.Error(t, FloatingConfig{Placement: "nowhere"}.Validate())
	assert.Error(t, FloatingConfig{Strategy: "sticky"}.Validate())
	assert.Error(t, FloatingConfig{Gutter: -1}.Validate())
}
