package profile

import (
	"github.com/docslice/carve/internal/anchor"
	"github.com/docslice/carve/internal/capture"
	"github.com/docslice/carve/internal/geom"
)

// Mode names a detection strategy.
type Mode string

const (
	ModeAnchors  Mode = "anchors"
	ModeByTable  Mode = "by_table"
	ModeYCutoff  Mode = "y_cutoff"
	ModeFixedBox Mode = "fixed_box"
)

// KnownMode reports whether m is a supported detection mode.
func KnownMode(m Mode) bool {
	switch m {
	case ModeAnchors, ModeByTable, ModeYCutoff, ModeFixedBox:
		return true
	}
	return false
}

// DetectSpec is the canonical tagged union over the detection modes.
// Exactly the field matching Mode is non-nil. The three accepted input
// shorthands (bare string, single-key object, canonical {by: ...}) all
// normalize to an identical DetectSpec.
type DetectSpec struct {
	Mode Mode `yaml:"by" json:"by"`

	Anchors  *AnchorsSpec  `yaml:"anchors,omitempty" json:"anchors,omitempty"`
	ByTable  *ByTableSpec  `yaml:"by_table,omitempty" json:"by_table,omitempty"`
	YCutoff  *YCutoffSpec  `yaml:"y_cutoff,omitempty" json:"y_cutoff,omitempty"`
	FixedBox *FixedBoxSpec `yaml:"fixed_box,omitempty" json:"fixed_box,omitempty"`

	// Fallbacks are tried in declared order when this spec yields no
	// result; the first non-null result wins.
	Fallbacks []DetectSpec `yaml:"fallbacks,omitempty" json:"fallbacks,omitempty"`
}

// AnchorsSpec locates a region from a text anchor plus a capture window.
type AnchorsSpec struct {
	Anchor AnchorSpec `yaml:"anchor" json:"anchor"`

	// EndAnchor, when present, bounds the region from below: the capture
	// window's bottom edge is truncated at the end anchor's top edge.
	EndAnchor *AnchorSpec `yaml:"end_anchor,omitempty" json:"end_anchor,omitempty"`

	Capture capture.Spec `yaml:"capture" json:"capture"`
}

// AnchorSpec is a pattern search with match-selection policy.
type AnchorSpec struct {
	Patterns       []string            `yaml:"patterns" json:"patterns"`
	IgnoreCase     bool                `yaml:"ignore_case" json:"ignore_case"`
	NormalizeSpace bool                `yaml:"normalize_space" json:"normalize_space"`
	Select         anchor.SelectPolicy `yaml:"select" json:"select"`
}

// TablePosition places a by_table region relative to the table.
type TablePosition string

const (
	TableAbove TablePosition = "above"
	TableBelow TablePosition = "below"
)

// TableWhich selects which detected table on a page to anchor to.
type TableWhich string

const (
	TableFirst TableWhich = "first"
	TableLast  TableWhich = "last"
)

// ByTableSpec locates a region adjacent to a detected table.
type ByTableSpec struct {
	Position TablePosition `yaml:"position" json:"position"`
	Which    TableWhich    `yaml:"which" json:"which"`
	Margin   float64       `yaml:"margin" json:"margin"`
}

// CutoffEdge selects which page edge a y_cutoff band is attached to.
type CutoffEdge string

const (
	EdgeTop    CutoffEdge = "top"
	EdgeBottom CutoffEdge = "bottom"
)

// YCutoffSpec is a fixed page-width band from a page edge to y.
type YCutoffSpec struct {
	Edge CutoffEdge `yaml:"edge" json:"edge"`
	Y    float64    `yaml:"y" json:"y"`
}

// FixedBoxSpec is a literal box, clipped to the unit square at resolve
// time.
type FixedBoxSpec struct {
	BBox geom.BBox `yaml:"bbox" json:"bbox"`
}
