package profile

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docslice/carve/internal/anchor"
	"github.com/docslice/carve/internal/capture"
)

// rawProfile mirrors the on-disk document before normalization. The
// detect value is left untyped because three shapes are accepted.
type rawProfile struct {
	Name       string      `yaml:"name"`
	Coords     Coords      `yaml:"coords"`
	Tolerances Tolerances  `yaml:"tolerances"`
	Defaults   Defaults    `yaml:"defaults"`
	Regions    []rawRegion `yaml:"regions"`
}

type rawRegion struct {
	ID             string   `yaml:"id"`
	Label          string   `yaml:"label"`
	OnPages        string   `yaml:"on_pages"`
	Pages          string   `yaml:"pages"` // compat alias for on_pages
	Keep           string   `yaml:"keep"`
	Inside         string   `yaml:"inside"`
	Parent         string   `yaml:"parent"` // compat alias for inside
	OnlyIfContains []string `yaml:"only_if_contains"`
	Detect         any      `yaml:"detect"`
	MinHeight      *float64 `yaml:"min_height"`
	Margin         *float64 `yaml:"margin"`
}

func defaultRaw() rawProfile {
	return rawProfile{
		Coords:     Coords{Normalized: true, YOrigin: "top", Precision: 4},
		Tolerances: Tolerances{YLineTol: 0.008},
	}
}

// normalize converts a raw document into the canonical Profile. Lenient
// fix-ups (unknown on_pages) are logged and collected as warnings; every
// other irregularity is a fatal configuration error.
func normalize(raw rawProfile, logger *slog.Logger) (*Profile, []Warning, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !raw.Coords.Normalized {
		return nil, nil, fmt.Errorf("coords.normalized must be true; raw page coordinates are not supported")
	}
	if raw.Coords.YOrigin != "top" {
		return nil, nil, fmt.Errorf("coords.y_origin %q not supported, want %q", raw.Coords.YOrigin, "top")
	}

	p := &Profile{
		Name:       raw.Name,
		Coords:     raw.Coords,
		Tolerances: raw.Tolerances,
		Defaults:   raw.Defaults,
	}

	var warnings []Warning
	for _, rr := range raw.Regions {
		if rr.ID == "" {
			return nil, nil, fmt.Errorf("region missing required id")
		}

		spec := RegionSpec{
			ID:             rr.ID,
			Label:          rr.Label,
			OnlyIfContains: rr.OnlyIfContains,
			MinHeight:      raw.Defaults.MinHeight,
			Margin:         raw.Defaults.Margin,
		}
		if rr.MinHeight != nil {
			spec.MinHeight = *rr.MinHeight
		}
		if rr.Margin != nil {
			spec.Margin = *rr.Margin
		}

		onPages, w := normalizeOnPages(rr, logger)
		spec.OnPages = onPages
		if w != nil {
			warnings = append(warnings, *w)
		}

		keep, err := normalizeKeep(rr.Keep)
		if err != nil {
			return nil, nil, fmt.Errorf("region %q: %w", rr.ID, err)
		}
		spec.Keep = keep

		inside, err := normalizeInside(rr)
		if err != nil {
			return nil, nil, fmt.Errorf("region %q: %w", rr.ID, err)
		}
		spec.Inside = inside

		detect, err := normalizeDetect(rr.Detect, raw.Tolerances)
		if err != nil {
			return nil, nil, fmt.Errorf("region %q: %w", rr.ID, err)
		}
		spec.Detect = detect

		p.Regions = append(p.Regions, spec)
	}
	return p, warnings, nil
}

func normalizeOnPages(rr rawRegion, logger *slog.Logger) (PagePolicy, *Warning) {
	v := rr.OnPages
	if v == "" {
		v = rr.Pages
	}
	switch PagePolicy(v) {
	case "":
		return PagesAll, nil
	case PagesAll, PagesFirst, PagesLast, PagesOdd, PagesEven:
		return PagePolicy(v), nil
	}
	logger.Warn("unknown on_pages value, defaulting to all", "region", rr.ID, "value", v)
	return PagesAll, &Warning{
		Region:  rr.ID,
		Message: fmt.Sprintf("unknown on_pages value %q, defaulting to %q", v, PagesAll),
	}
}

func normalizeKeep(v string) (KeepPolicy, error) {
	switch KeepPolicy(v) {
	case "":
		return KeepAll, nil
	case KeepAll, KeepFirst, KeepLast:
		return KeepPolicy(v), nil
	}
	return "", fmt.Errorf("unknown keep policy %q", v)
}

func normalizeInside(rr rawRegion) (string, error) {
	if rr.Inside != "" && rr.Parent != "" && rr.Inside != rr.Parent {
		return "", fmt.Errorf("both inside (%q) and parent (%q) set", rr.Inside, rr.Parent)
	}
	ref := rr.Inside
	if ref == "" {
		ref = rr.Parent
	}
	return strings.TrimPrefix(ref, "@"), nil
}

// normalizeDetect accepts the three detect shorthands:
//
//	detect: y_cutoff                      # bare string
//	detect: {y_cutoff: {edge: top, y: 0.2}}  # single-key object
//	detect: {by: y_cutoff, edge: top, y: 0.2}  # canonical
//
// and produces one canonical DetectSpec for all of them.
func normalizeDetect(v any, tol Tolerances) (DetectSpec, error) {
	switch val := v.(type) {
	case nil:
		return DetectSpec{}, fmt.Errorf("missing detect")
	case string:
		return modeSpec(Mode(val), nil, tol)
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, pv := range val {
			m[k] = pv
		}

		fallbacksRaw, hasFallbacks := m["fallbacks"]
		delete(m, "fallbacks")

		var mode Mode
		var params map[string]any
		if by, ok := m["by"]; ok {
			s, ok := by.(string)
			if !ok {
				return DetectSpec{}, fmt.Errorf("detect.by must be a string, got %T", by)
			}
			delete(m, "by")
			mode, params = Mode(s), m
		} else if len(m) == 1 {
			for k, pv := range m {
				mode = Mode(k)
				if pv != nil {
					pm, ok := pv.(map[string]any)
					if !ok {
						return DetectSpec{}, fmt.Errorf("detect.%s parameters must be a mapping, got %T", k, pv)
					}
					params = pm
				}
			}
		} else {
			return DetectSpec{}, fmt.Errorf("unrecognized detect shape: want a mode name, a single-key object, or {by: mode, ...}")
		}

		spec, err := modeSpec(mode, params, tol)
		if err != nil {
			return DetectSpec{}, err
		}

		if hasFallbacks {
			list, ok := fallbacksRaw.([]any)
			if !ok {
				return DetectSpec{}, fmt.Errorf("fallbacks must be a list, got %T", fallbacksRaw)
			}
			for i, fb := range list {
				fspec, err := normalizeDetect(fb, tol)
				if err != nil {
					return DetectSpec{}, fmt.Errorf("fallbacks[%d]: %w", i, err)
				}
				spec.Fallbacks = append(spec.Fallbacks, fspec)
			}
		}
		return spec, nil
	default:
		return DetectSpec{}, fmt.Errorf("detect must be a string or mapping, got %T", v)
	}
}

// modeSpec decodes mode parameters and applies per-mode defaults. The
// defaults live here, in one place, so every input shorthand yields an
// identical canonical spec.
func modeSpec(mode Mode, params map[string]any, tol Tolerances) (DetectSpec, error) {
	if !KnownMode(mode) {
		return DetectSpec{}, fmt.Errorf("unknown detection mode %q", mode)
	}

	spec := DetectSpec{Mode: mode}
	switch mode {
	case ModeAnchors:
		var a AnchorsSpec
		if err := reencode(params, &a); err != nil {
			return DetectSpec{}, fmt.Errorf("anchors: %w", err)
		}
		a.Anchor.Select = canonicalSelect(a.Anchor.Select, anchor.SelectFirst)
		if a.EndAnchor != nil {
			a.EndAnchor.Select = canonicalSelect(a.EndAnchor.Select, anchor.SelectNextBelow)
		}
		if a.Capture.Mode == "" {
			a.Capture.Mode = capture.ModeAround
		}
		if a.Capture.RowTol == 0 {
			a.Capture.RowTol = tol.YLineTol
		}
		if a.Capture.DyTol == 0 {
			a.Capture.DyTol = tol.YLineTol
		}
		if a.Capture.Width == "" {
			a.Capture.Width = capture.WidthAnchor
		}
		spec.Anchors = &a
	case ModeByTable:
		// The by_table margin widens the band before token lookup and is
		// set only by its own key. The region-level margin is applied once,
		// by the engine, after detection.
		var bt ByTableSpec
		if err := reencode(params, &bt); err != nil {
			return DetectSpec{}, fmt.Errorf("by_table: %w", err)
		}
		if bt.Position == "" {
			bt.Position = TableBelow
		}
		if bt.Which == "" {
			// Reading toward the table: the band above extends from the
			// first table up, the band below from the last table down.
			if bt.Position == TableAbove {
				bt.Which = TableFirst
			} else {
				bt.Which = TableLast
			}
		}
		spec.ByTable = &bt
	case ModeYCutoff:
		var yc YCutoffSpec
		if err := reencode(params, &yc); err != nil {
			return DetectSpec{}, fmt.Errorf("y_cutoff: %w", err)
		}
		if yc.Edge == "" {
			yc.Edge = EdgeTop
		}
		spec.YCutoff = &yc
	case ModeFixedBox:
		var fb FixedBoxSpec
		if err := reencode(params, &fb); err != nil {
			return DetectSpec{}, fmt.Errorf("fixed_box: %w", err)
		}
		spec.FixedBox = &fb
	}
	return spec, nil
}

// canonicalSelect resolves the documented aliases and the empty default.
func canonicalSelect(s, def anchor.SelectPolicy) anchor.SelectPolicy {
	switch s {
	case "":
		return def
	case "first_in_reading_order":
		return anchor.SelectFirst
	}
	return s
}

// reencode round-trips an untyped YAML value into a typed struct.
func reencode(v any, out any) error {
	if v == nil {
		return nil
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}
