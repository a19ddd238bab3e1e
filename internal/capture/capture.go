// Package capture turns a resolved anchor box into a region bounding box.
// Each mode builds a geometric window around the anchor; tokens whose
// centers fall inside the window define the result, with the window itself
// as the fallback extent when the window catches no tokens.
package capture

import (
	"math"

	"github.com/docslice/carve/internal/doc"
	"github.com/docslice/carve/internal/geom"
)

// Mode names a capture-window expansion strategy.
type Mode string

const (
	ModeRightOnly     Mode = "right_only"
	ModeLeftOnly      Mode = "left_only"
	ModeRightThenDown Mode = "right_then_down"
	ModeLeftThenDown  Mode = "left_then_down"
	ModeRightThenUp   Mode = "right_then_up"
	ModeLeftThenUp    Mode = "left_then_up"
	ModeBelowOnly     Mode = "below_only"
	ModeRightThenRows Mode = "right_then_rows"
	ModeLeftThenRows  Mode = "left_then_rows"
	ModeBelowRows     Mode = "below_rows"
	ModeAboveRows     Mode = "above_rows"
	ModeAround        Mode = "around"
)

// Modes lists every supported capture mode.
var Modes = []Mode{
	ModeRightOnly, ModeLeftOnly,
	ModeRightThenDown, ModeLeftThenDown, ModeRightThenUp, ModeLeftThenUp,
	ModeBelowOnly,
	ModeRightThenRows, ModeLeftThenRows, ModeBelowRows, ModeAboveRows,
	ModeAround,
}

// Known reports whether m is a supported capture mode.
func Known(m Mode) bool {
	for _, k := range Modes {
		if k == m {
			return true
		}
	}
	return false
}

// Width selects the horizontal extent of vertical-band modes.
type Width string

const (
	WidthAnchor Width = "anchor"
	WidthPage   Width = "page"
)

// Spec holds a capture mode with its numeric parameters. All distances are
// non-negative and expressed in normalized page units.
type Spec struct {
	Mode      Mode    `yaml:"mode" json:"mode"`
	DxMax     float64 `yaml:"dx_max,omitempty" json:"dx_max,omitempty"`
	DyMax     float64 `yaml:"dy_max,omitempty" json:"dy_max,omitempty"`
	DyTol     float64 `yaml:"dy_tol,omitempty" json:"dy_tol,omitempty"`
	Rows      int     `yaml:"rows,omitempty" json:"rows,omitempty"`
	RowTol    float64 `yaml:"row_tol,omitempty" json:"row_tol,omitempty"`
	Width     Width   `yaml:"width,omitempty" json:"width,omitempty"`
	PadLeft   float64 `yaml:"pad_left,omitempty" json:"pad_left,omitempty"`
	PadRight  float64 `yaml:"pad_right,omitempty" json:"pad_right,omitempty"`
	StartEdge string  `yaml:"start_edge,omitempty" json:"start_edge,omitempty"`
	GapX      float64 `yaml:"gap_x,omitempty" json:"gap_x,omitempty"`
	Dx        float64 `yaml:"dx,omitempty" json:"dx,omitempty"`
	Dy        float64 `yaml:"dy,omitempty" json:"dy,omitempty"`
}

// Context carries the page and region-level limits into window resolution.
type Context struct {
	Page *doc.Page

	// MinHeight pads the fallback window rectangle when no token lands
	// inside the window. Token unions keep their natural height.
	MinHeight float64

	// LimitY, when set, truncates the window's bottom edge. Used when an
	// end anchor bounds the region from below.
	LimitY *float64
}

// Resolve computes the region box for an anchor under spec s. It returns
// false when the window collapses to zero area and catches no tokens.
func Resolve(s Spec, anchor geom.BBox, ctx Context) (geom.BBox, bool) {
	window, ok := buildWindow(s, anchor, ctx.Page)
	if !ok {
		return geom.BBox{}, false
	}
	if ctx.LimitY != nil && *ctx.LimitY < window.Y1 {
		window.Y1 = math.Max(*ctx.LimitY, window.Y0)
	}
	window = window.ClampUnit()

	if hit, ok := doc.UnionOf(ctx.Page.TokensIn(window)); ok {
		return hit, true
	}
	if window.IsEmpty() {
		return geom.BBox{}, false
	}
	if window.Height() < ctx.MinHeight {
		window.Y1 = window.Y0 + ctx.MinHeight
		window = window.ClampUnit()
	}
	return window, true
}

// buildWindow computes the raw window rectangle for a mode. The returned
// box may exceed the unit square; Resolve clamps it.
func buildWindow(s Spec, a geom.BBox, pg *doc.Page) (geom.BBox, bool) {
	switch s.Mode {
	case ModeRightOnly:
		return rightWindow(s, a, a.Y0-s.DyTol, a.Y1+s.DyTol), true
	case ModeLeftOnly:
		return leftWindow(s, a, a.Y0-s.DyTol, a.Y1+s.DyTol), true
	case ModeRightThenDown:
		return rightWindow(s, a, a.Y0-s.DyTol, a.Y1+s.DyMax), true
	case ModeLeftThenDown:
		return leftWindow(s, a, a.Y0-s.DyTol, a.Y1+s.DyMax), true
	case ModeRightThenUp:
		return rightWindow(s, a, a.Y0-s.DyMax, a.Y1+s.DyTol), true
	case ModeLeftThenUp:
		return leftWindow(s, a, a.Y0-s.DyMax, a.Y1+s.DyTol), true
	case ModeBelowOnly:
		return bandWindow(s, a, a.Y1, a.Y1+s.DyMax), true
	case ModeBelowRows:
		y1, ok := rowEdgeBelow(s, a, pg)
		if !ok {
			return geom.BBox{}, false
		}
		return bandWindow(s, a, a.Y1, y1), true
	case ModeAboveRows:
		y0, ok := rowEdgeAbove(s, a, pg)
		if !ok {
			return geom.BBox{}, false
		}
		return bandWindow(s, a, y0, a.Y0), true
	case ModeRightThenRows:
		y1, ok := rowEdgeBelow(s, a, pg)
		if !ok {
			y1 = a.Y1 + s.DyTol
		}
		return rightWindow(s, a, a.Y0-s.DyTol, y1), true
	case ModeLeftThenRows:
		y1, ok := rowEdgeBelow(s, a, pg)
		if !ok {
			y1 = a.Y1 + s.DyTol
		}
		return leftWindow(s, a, a.Y0-s.DyTol, y1), true
	case ModeAround:
		return a.ExpandXY(s.Dx, s.Dy), true
	default:
		return geom.BBox{}, false
	}
}

// rightWindow extends from the anchor's start edge in the +x direction.
// The start edge defaults to the anchor's right side.
func rightWindow(s Spec, a geom.BBox, y0, y1 float64) geom.BBox {
	start := a.X1
	if s.StartEdge == "left" {
		start = a.X0
	}
	start += s.GapX
	return geom.BBox{X0: start, Y0: y0, X1: start + s.DxMax, Y1: y1}
}

// leftWindow extends from the anchor's start edge in the -x direction.
// The start edge defaults to the anchor's left side.
func leftWindow(s Spec, a geom.BBox, y0, y1 float64) geom.BBox {
	start := a.X0
	if s.StartEdge == "right" {
		start = a.X1
	}
	start -= s.GapX
	return geom.BBox{X0: start - s.DxMax, Y0: y0, X1: start, Y1: y1}
}

// bandWindow builds a vertical band between y0 and y1 whose horizontal
// extent is either the padded anchor width or the full page width.
func bandWindow(s Spec, a geom.BBox, y0, y1 float64) geom.BBox {
	if s.Width == WidthPage {
		return geom.BBox{X0: 0, Y0: y0, X1: 1, Y1: y1}
	}
	return geom.BBox{X0: a.X0 - s.PadLeft, Y0: y0, X1: a.X1 + s.PadRight, Y1: y1}
}
