package profile

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/docslice/carve/internal/anchor"
	"github.com/docslice/carve/internal/capture"
)

func detectFromYAML(t *testing.T, src string) DetectSpec {
	t.Helper()
	var v any
	if err := yaml.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("bad test yaml: %v", err)
	}
	spec, err := normalizeDetect(v, Tolerances{YLineTol: 0.008})
	if err != nil {
		t.Fatalf("normalizeDetect: %v", err)
	}
	return spec
}

// Every detect mode must normalize identically from all three accepted
// shorthand shapes.
func TestDetectShorthandEquivalence(t *testing.T) {
	cases := []struct {
		name      string
		bare      string
		singleKey string
		canonical string
	}{
		{
			name:      "y_cutoff with defaults",
			bare:      `y_cutoff`,
			singleKey: `{y_cutoff: {}}`,
			canonical: `{by: y_cutoff}`,
		},
		{
			name:      "y_cutoff with parameters",
			singleKey: `{y_cutoff: {edge: bottom, y: 0.85}}`,
			canonical: `{by: y_cutoff, edge: bottom, y: 0.85}`,
		},
		{
			name:      "by_table",
			bare:      `by_table`,
			singleKey: `{by_table: {}}`,
			canonical: `{by: by_table}`,
		},
		{
			name:      "by_table with parameters",
			singleKey: `{by_table: {position: above, which: last, margin: 0.02}}`,
			canonical: `{by: by_table, position: above, which: last, margin: 0.02}`,
		},
		{
			name:      "fixed_box",
			singleKey: `{fixed_box: {bbox: [0.1, 0.2, 0.9, 0.4]}}`,
			canonical: `{by: fixed_box, bbox: [0.1, 0.2, 0.9, 0.4]}`,
		},
		{
			name:      "anchors",
			singleKey: `{anchors: {anchor: {patterns: ["INVOICE"], ignore_case: true}, capture: {mode: right_then_down, dx_max: 0.4, dy_max: 0.1}}}`,
			canonical: `{by: anchors, anchor: {patterns: ["INVOICE"], ignore_case: true}, capture: {mode: right_then_down, dx_max: 0.4, dy_max: 0.1}}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := detectFromYAML(t, tc.canonical)
			if tc.bare != "" {
				if got := detectFromYAML(t, tc.bare); !reflect.DeepEqual(got, ref) {
					t.Errorf("bare form differs from canonical:\n%+v\n%+v", got, ref)
				}
			}
			if got := detectFromYAML(t, tc.singleKey); !reflect.DeepEqual(got, ref) {
				t.Errorf("single-key form differs from canonical:\n%+v\n%+v", got, ref)
			}
		})
	}
}

func TestDetectDefaults(t *testing.T) {
	t.Run("y_cutoff edge defaults to top", func(t *testing.T) {
		spec := detectFromYAML(t, `{y_cutoff: {y: 0.14}}`)
		if spec.YCutoff.Edge != EdgeTop {
			t.Errorf("edge = %q, want top", spec.YCutoff.Edge)
		}
	})

	t.Run("by_table which follows position", func(t *testing.T) {
		above := detectFromYAML(t, `{by_table: {position: above}}`)
		if above.ByTable.Which != TableFirst {
			t.Errorf("above defaults to which=%q, want first", above.ByTable.Which)
		}
		below := detectFromYAML(t, `{by_table: {position: below}}`)
		if below.ByTable.Which != TableLast {
			t.Errorf("below defaults to which=%q, want last", below.ByTable.Which)
		}
	})

	t.Run("by_table margin comes only from its own key", func(t *testing.T) {
		// The region-level margin is applied once, after detection; it
		// must not leak into the band width as well.
		m := 0.05
		raw := defaultRaw()
		raw.Regions = []rawRegion{{
			ID:     "totals",
			Margin: &m,
			Detect: map[string]any{"by_table": map[string]any{"position": "below"}},
		}}
		p, _, err := normalize(raw, nil)
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		if got := p.Regions[0].Detect.ByTable.Margin; got != 0 {
			t.Errorf("band margin = %v, want 0", got)
		}
		if p.Regions[0].Margin != 0.05 {
			t.Errorf("region margin = %v, want 0.05", p.Regions[0].Margin)
		}

		spec := detectFromYAML(t, `{by_table: {position: below, margin: 0.02}}`)
		if spec.ByTable.Margin != 0.02 {
			t.Errorf("explicit band margin = %v, want 0.02", spec.ByTable.Margin)
		}
	})

	t.Run("anchor select defaults and alias", func(t *testing.T) {
		def := detectFromYAML(t, `{anchors: {anchor: {patterns: ["x"]}, capture: {mode: around}}}`)
		if def.Anchors.Anchor.Select != anchor.SelectFirst {
			t.Errorf("select = %q, want first", def.Anchors.Anchor.Select)
		}
		alias := detectFromYAML(t, `{anchors: {anchor: {patterns: ["x"], select: first_in_reading_order}, capture: {mode: around}}}`)
		if !reflect.DeepEqual(alias, def) {
			t.Error("first_in_reading_order must normalize identically to first")
		}
	})

	t.Run("end_anchor select defaults to next_below", func(t *testing.T) {
		spec := detectFromYAML(t, `{anchors: {anchor: {patterns: ["from"]}, end_anchor: {patterns: ["to"]}, capture: {mode: below_only, dy_max: 0.5}}}`)
		if spec.Anchors.EndAnchor.Select != anchor.SelectNextBelow {
			t.Errorf("end select = %q, want next_below", spec.Anchors.EndAnchor.Select)
		}
	})

	t.Run("capture tolerances seeded from y_line_tol", func(t *testing.T) {
		spec := detectFromYAML(t, `{anchors: {anchor: {patterns: ["x"]}, capture: {mode: right_only, dx_max: 0.2}}}`)
		if spec.Anchors.Capture.DyTol != 0.008 || spec.Anchors.Capture.RowTol != 0.008 {
			t.Errorf("tolerances not seeded: %+v", spec.Anchors.Capture)
		}
		if spec.Anchors.Capture.Width != capture.WidthAnchor {
			t.Errorf("width = %q, want anchor", spec.Anchors.Capture.Width)
		}
	})
}

func TestDetectFallbacks(t *testing.T) {
	spec := detectFromYAML(t, `
by: anchors
anchor: {patterns: ["TOTAL"]}
capture: {mode: left_only, dx_max: 0.3}
fallbacks:
  - {by_table: {position: below}}
  - y_cutoff
`)
	if len(spec.Fallbacks) != 2 {
		t.Fatalf("expected 2 fallbacks, got %d", len(spec.Fallbacks))
	}
	if spec.Fallbacks[0].Mode != ModeByTable || spec.Fallbacks[1].Mode != ModeYCutoff {
		t.Errorf("fallback order not preserved: %+v", spec.Fallbacks)
	}
}

func TestDetectUnknownModeIsFatal(t *testing.T) {
	var v any
	_ = yaml.Unmarshal([]byte(`{by: levitate}`), &v)
	if _, err := normalizeDetect(v, Tolerances{}); err == nil {
		t.Error("expected error for unknown detection mode")
	}

	_ = yaml.Unmarshal([]byte(`levitate`), &v)
	if _, err := normalizeDetect(v, Tolerances{}); err == nil {
		t.Error("expected error for unknown bare mode")
	}
}

func TestNormalizeRegionShims(t *testing.T) {
	raw := defaultRaw()
	raw.Regions = []rawRegion{
		{ID: "header", Detect: "y_cutoff"},
		{ID: "buyer", Pages: "first", Parent: "@header", Detect: "y_cutoff"},
	}

	p, warnings, err := normalize(raw, nil)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", warnings)
	}

	buyer := p.Regions[1]
	if buyer.OnPages != PagesFirst {
		t.Errorf("pages shim not applied: %q", buyer.OnPages)
	}
	if buyer.Inside != "header" {
		t.Errorf("parent shim or @ stripping failed: %q", buyer.Inside)
	}
}

func TestNormalizeUnknownOnPagesWarnsOnce(t *testing.T) {
	raw := defaultRaw()
	raw.Regions = []rawRegion{
		{ID: "notes", OnPages: "weekdays", Detect: "y_cutoff"},
	}

	p, warnings, err := normalize(raw, nil)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if p.Regions[0].OnPages != PagesAll {
		t.Errorf("on_pages = %q, want all", p.Regions[0].OnPages)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(warnings))
	}
	if warnings[0].Region != "notes" {
		t.Errorf("warning not attributed to region: %+v", warnings[0])
	}
}

func TestNormalizeDefaultsMerge(t *testing.T) {
	mh := 0.05
	raw := defaultRaw()
	raw.Defaults = Defaults{MinHeight: 0.02, Margin: 0.005}
	raw.Regions = []rawRegion{
		{ID: "a", Detect: "y_cutoff"},
		{ID: "b", Detect: "y_cutoff", MinHeight: &mh},
	}

	p, _, err := normalize(raw, nil)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if p.Regions[0].MinHeight != 0.02 || p.Regions[0].Margin != 0.005 {
		t.Errorf("defaults not merged: %+v", p.Regions[0])
	}
	if p.Regions[1].MinHeight != 0.05 {
		t.Errorf("region value must win over default: %+v", p.Regions[1])
	}
	if p.Regions[1].Margin != 0.005 {
		t.Errorf("unset field must still inherit default: %+v", p.Regions[1])
	}
}

func TestNormalizeConflictingParentAliases(t *testing.T) {
	raw := defaultRaw()
	raw.Regions = []rawRegion{
		{ID: "x", Inside: "@a", Parent: "@b", Detect: "y_cutoff"},
	}
	if _, _, err := normalize(raw, nil); err == nil {
		t.Error("expected error when inside and parent disagree")
	}
}

func TestNormalizeUnsupportedCoords(t *testing.T) {
	raw := defaultRaw()
	raw.Coords.YOrigin = "bottom"
	if _, _, err := normalize(raw, nil); err == nil {
		t.Error("expected error for bottom y_origin")
	}
}
