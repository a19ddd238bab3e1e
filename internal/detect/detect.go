// Package detect routes a region's detection spec to its mode
// implementation and composes fallback chains. Absence is a first-class
// outcome: every detector returns (result, false) instead of an error
// when nothing matches, and the chain short-circuits on the first hit.
package detect

import (
	"fmt"

	"github.com/docslice/carve/internal/anchor"
	"github.com/docslice/carve/internal/capture"
	"github.com/docslice/carve/internal/doc"
	"github.com/docslice/carve/internal/geom"
	"github.com/docslice/carve/internal/profile"
)

// Result is a successful detection on one page.
type Result struct {
	BBox geom.BBox
	// Via names the winning chain entry, e.g. "anchors" for the primary
	// spec or "fallback[1]:y_cutoff" for the second fallback.
	Via string
}

// Func attempts detection on a page. A false return means "no match on
// this page" and defers to the rest of the chain.
type Func func(pg *doc.Page) (Result, bool)

// First composes detectors into a short-circuiting chain: the first
// non-null result wins and later entries are never evaluated.
func First(fns ...Func) Func {
	return func(pg *doc.Page) (Result, bool) {
		for _, fn := range fns {
			if res, ok := fn(pg); ok {
				return res, true
			}
		}
		return Result{}, false
	}
}

// Options carry region-level settings into compiled detectors.
type Options struct {
	MinHeight float64
}

// Compile builds the full detection chain for a spec: the primary mode
// followed by its fallbacks in declared order. Pattern compilation
// failures surface here, before any page is processed.
func Compile(spec profile.DetectSpec, opts Options) (Func, error) {
	primary, err := compileOne(spec, opts, string(spec.Mode))
	if err != nil {
		return nil, err
	}

	chain := []Func{primary}
	for i, fb := range spec.Fallbacks {
		via := fmt.Sprintf("fallback[%d]:%s", i, fb.Mode)
		fn, err := compileOne(fb, opts, via)
		if err != nil {
			return nil, fmt.Errorf("fallbacks[%d]: %w", i, err)
		}
		chain = append(chain, fn)
	}
	return First(chain...), nil
}

func compileOne(spec profile.DetectSpec, opts Options, via string) (Func, error) {
	switch spec.Mode {
	case profile.ModeAnchors:
		return compileAnchors(spec.Anchors, opts, via)
	case profile.ModeByTable:
		return byTable(*spec.ByTable, via), nil
	case profile.ModeYCutoff:
		return yCutoff(*spec.YCutoff, via), nil
	case profile.ModeFixedBox:
		return fixedBox(*spec.FixedBox, via), nil
	}
	return nil, fmt.Errorf("unknown detection mode %q", spec.Mode)
}

// compileAnchors resolves the anchor match, optionally bounds it with an
// end anchor, and expands it through the capture window.
func compileAnchors(a *profile.AnchorsSpec, opts Options, via string) (Func, error) {
	m, err := anchor.Compile(a.Anchor.Patterns, a.Anchor.IgnoreCase, a.Anchor.NormalizeSpace)
	if err != nil {
		return nil, fmt.Errorf("anchor: %w", err)
	}
	var endMatcher *anchor.Matcher
	if a.EndAnchor != nil {
		endMatcher, err = anchor.Compile(a.EndAnchor.Patterns, a.EndAnchor.IgnoreCase, a.EndAnchor.NormalizeSpace)
		if err != nil {
			return nil, fmt.Errorf("end_anchor: %w", err)
		}
	}
	spec := *a

	return func(pg *doc.Page) (Result, bool) {
		start, ok := anchor.Select(m.Matches(pg.Tokens), spec.Anchor.Select)
		if !ok {
			return Result{}, false
		}

		ctx := capture.Context{Page: pg, MinHeight: opts.MinHeight}
		if endMatcher != nil {
			if end, ok := selectEnd(endMatcher.Matches(pg.Tokens), spec.EndAnchor.Select, start.BBox); ok {
				limit := end.BBox.Y0
				ctx.LimitY = &limit
			}
		}

		box, ok := capture.Resolve(spec.Capture, start.BBox, ctx)
		if !ok {
			return Result{}, false
		}
		return Result{BBox: box, Via: via}, true
	}, nil
}

func selectEnd(matches []doc.Token, policy anchor.SelectPolicy, start geom.BBox) (doc.Token, bool) {
	if policy == anchor.SelectNextBelow {
		return anchor.SelectBelow(matches, start)
	}
	return anchor.Select(matches, policy)
}

// byTable returns the band adjacent to a detected table, expanded by the
// configured margin. Pages without tables yield no result, deferring to
// the fallback chain.
func byTable(spec profile.ByTableSpec, via string) Func {
	return func(pg *doc.Page) (Result, bool) {
		var tbl doc.TableHint
		var ok bool
		if spec.Which == profile.TableFirst {
			tbl, ok = pg.FirstTable()
		} else {
			tbl, ok = pg.LastTable()
		}
		if !ok {
			return Result{}, false
		}

		var band geom.BBox
		if spec.Position == profile.TableAbove {
			band = geom.BBox{X0: tbl.BBox.X0, Y0: 0, X1: tbl.BBox.X1, Y1: tbl.BBox.Y0}
		} else {
			band = geom.BBox{X0: tbl.BBox.X0, Y0: tbl.BBox.Y1, X1: tbl.BBox.X1, Y1: 1}
		}
		band = band.Expand(spec.Margin).ClampUnit()

		if hit, ok := doc.UnionOf(pg.TokensIn(band)); ok {
			return Result{BBox: hit, Via: via}, true
		}
		if band.IsEmpty() {
			return Result{}, false
		}
		return Result{BBox: band, Via: via}, true
	}
}

// yCutoff is deterministic: a page-width band attached to the top or
// bottom edge, independent of token content.
func yCutoff(spec profile.YCutoffSpec, via string) Func {
	return func(pg *doc.Page) (Result, bool) {
		var band geom.BBox
		if spec.Edge == profile.EdgeTop {
			band = geom.BBox{X0: 0, Y0: 0, X1: 1, Y1: spec.Y}
		} else {
			band = geom.BBox{X0: 0, Y0: spec.Y, X1: 1, Y1: 1}
		}
		if band.IsEmpty() {
			return Result{}, false
		}
		return Result{BBox: band, Via: via}, true
	}
}

// fixedBox returns the configured box clipped to the unit square.
func fixedBox(spec profile.FixedBoxSpec, via string) Func {
	return func(pg *doc.Page) (Result, bool) {
		box := spec.BBox.ClampUnit()
		if box.IsEmpty() {
			return Result{}, false
		}
		return Result{BBox: box, Via: via}, true
	}
}
