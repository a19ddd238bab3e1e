package profile

import (
	"fmt"

	"github.com/docslice/carve/internal/anchor"
	"github.com/docslice/carve/internal/capture"
)

// validate rejects malformed canonical profiles. Everything it reports is
// fatal: the engine refuses to start page processing on a profile that
// fails validation.
func validate(p *Profile) error {
	if p.Defaults.MinHeight < 0 || p.Defaults.Margin < 0 {
		return fmt.Errorf("defaults: min_height and margin must be non-negative")
	}

	ids := make(map[string]bool, len(p.Regions))
	for _, r := range p.Regions {
		if ids[r.ID] {
			return fmt.Errorf("duplicate region id %q", r.ID)
		}
		ids[r.ID] = true
	}

	for _, r := range p.Regions {
		if err := validateRegion(r, ids); err != nil {
			return fmt.Errorf("region %q: %w", r.ID, err)
		}
	}
	return nil
}

func validateRegion(r RegionSpec, ids map[string]bool) error {
	if r.Inside != "" && !ids[r.Inside] {
		return fmt.Errorf("inside references unknown region %q", r.Inside)
	}
	if r.MinHeight < 0 || r.Margin < 0 {
		return fmt.Errorf("min_height and margin must be non-negative")
	}
	if len(r.OnlyIfContains) > 0 {
		if _, err := anchor.Compile(r.OnlyIfContains, true, false); err != nil {
			return fmt.Errorf("only_if_contains: %w", err)
		}
	}
	return validateDetect(r.Detect)
}

func validateDetect(d DetectSpec) error {
	switch d.Mode {
	case ModeAnchors:
		if err := validateAnchors(d.Anchors); err != nil {
			return err
		}
	case ModeByTable:
		bt := d.ByTable
		if bt.Position != TableAbove && bt.Position != TableBelow {
			return fmt.Errorf("by_table: unknown position %q", bt.Position)
		}
		if bt.Which != TableFirst && bt.Which != TableLast {
			return fmt.Errorf("by_table: unknown which %q", bt.Which)
		}
		if bt.Margin < 0 {
			return fmt.Errorf("by_table: margin must be non-negative")
		}
	case ModeYCutoff:
		yc := d.YCutoff
		if yc.Edge != EdgeTop && yc.Edge != EdgeBottom {
			return fmt.Errorf("y_cutoff: unknown edge %q", yc.Edge)
		}
		if yc.Y < 0 || yc.Y > 1 {
			return fmt.Errorf("y_cutoff: y %v outside [0,1]", yc.Y)
		}
	case ModeFixedBox:
		// The box is clipped to the unit square at resolve time; the
		// x0<=x1, y0<=y1 invariant is enforced during decoding.
	default:
		return fmt.Errorf("unknown detection mode %q", d.Mode)
	}

	for i, fb := range d.Fallbacks {
		if err := validateDetect(fb); err != nil {
			return fmt.Errorf("fallbacks[%d]: %w", i, err)
		}
	}
	return nil
}

func validateAnchors(a *AnchorsSpec) error {
	if _, err := anchor.Compile(a.Anchor.Patterns, a.Anchor.IgnoreCase, a.Anchor.NormalizeSpace); err != nil {
		return fmt.Errorf("anchor: %w", err)
	}
	if !anchor.KnownSelect(a.Anchor.Select) {
		return fmt.Errorf("anchor: unknown select policy %q", a.Anchor.Select)
	}
	if a.Anchor.Select == anchor.SelectNextBelow {
		return fmt.Errorf("anchor: select next_below is only valid for end_anchor")
	}
	if a.EndAnchor != nil {
		if _, err := anchor.Compile(a.EndAnchor.Patterns, a.EndAnchor.IgnoreCase, a.EndAnchor.NormalizeSpace); err != nil {
			return fmt.Errorf("end_anchor: %w", err)
		}
		if !anchor.KnownSelect(a.EndAnchor.Select) {
			return fmt.Errorf("end_anchor: unknown select policy %q", a.EndAnchor.Select)
		}
	}
	return validateCapture(a.Capture)
}

func validateCapture(c capture.Spec) error {
	if !capture.Known(c.Mode) {
		return fmt.Errorf("capture: unknown mode %q", c.Mode)
	}
	distances := map[string]float64{
		"dx_max":    c.DxMax,
		"dy_max":    c.DyMax,
		"dy_tol":    c.DyTol,
		"row_tol":   c.RowTol,
		"pad_left":  c.PadLeft,
		"pad_right": c.PadRight,
		"gap_x":     c.GapX,
		"dx":        c.Dx,
		"dy":        c.Dy,
	}
	for name, v := range distances {
		if v < 0 {
			return fmt.Errorf("capture: %s must be non-negative, got %v", name, v)
		}
	}
	if c.Rows < 0 {
		return fmt.Errorf("capture: rows must be non-negative, got %d", c.Rows)
	}
	if c.Width != capture.WidthAnchor && c.Width != capture.WidthPage {
		return fmt.Errorf("capture: unknown width %q", c.Width)
	}
	if c.StartEdge != "" && c.StartEdge != "left" && c.StartEdge != "right" {
		return fmt.Errorf("capture: unknown start_edge %q", c.StartEdge)
	}
	return nil
}
