// Package profile defines the segmentation profile: the declarative
// configuration document that names regions and the rules for locating
// them. It normalizes the accepted shorthand forms into one canonical
// representation and rejects malformed profiles before any page work.
package profile

import "github.com/docslice/carve/internal/capture"

// Profile is the canonical, fully normalized configuration document.
type Profile struct {
	Name       string       `yaml:"name" json:"name"`
	Coords     Coords       `yaml:"coords" json:"coords"`
	Tolerances Tolerances   `yaml:"tolerances" json:"tolerances"`
	Defaults   Defaults     `yaml:"defaults" json:"defaults"`
	Regions    []RegionSpec `yaml:"regions" json:"regions"`
}

// Coords declares the coordinate convention of the profile. Only
// normalized top-origin coordinates are supported.
type Coords struct {
	Normalized bool   `yaml:"normalized" json:"normalized"`
	YOrigin    string `yaml:"y_origin" json:"y_origin"`
	Precision  int    `yaml:"precision,omitempty" json:"precision,omitempty"`
}

// Tolerances holds document-wide geometric tolerances.
type Tolerances struct {
	// YLineTol is the vertical distance within which tokens belong to
	// the same text line. It seeds dy_tol and row_tol where a capture
	// spec leaves them unset.
	YLineTol float64 `yaml:"y_line_tol" json:"y_line_tol"`
}

// Defaults are merged into every region lacking its own value.
type Defaults struct {
	MinHeight float64 `yaml:"min_height" json:"min_height"`
	Margin    float64 `yaml:"margin" json:"margin"`
}

// PagePolicy enumerates which pages a region is attempted on.
type PagePolicy string

const (
	PagesAll   PagePolicy = "all"
	PagesFirst PagePolicy = "first"
	PagesLast  PagePolicy = "last"
	PagesOdd   PagePolicy = "odd"
	PagesEven  PagePolicy = "even"
)

// KeepPolicy selects which per-page matches survive for a region.
type KeepPolicy string

const (
	KeepAll   KeepPolicy = "all"
	KeepFirst KeepPolicy = "first"
	KeepLast  KeepPolicy = "last"
)

// RegionSpec is a single named region with its detection rules.
type RegionSpec struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`

	OnPages PagePolicy `yaml:"on_pages" json:"on_pages"`
	Keep    KeepPolicy `yaml:"keep" json:"keep"`

	// Inside names the parent region this one is clipped into.
	// The "@" reference prefix is stripped during normalization.
	Inside string `yaml:"inside,omitempty" json:"inside,omitempty"`

	// OnlyIfContains gates the region: it is attempted on a page only
	// if at least one pattern matches somewhere in the page's tokens.
	OnlyIfContains []string `yaml:"only_if_contains,omitempty" json:"only_if_contains,omitempty"`

	Detect DetectSpec `yaml:"detect" json:"detect"`

	// MinHeight and Margin carry the merged defaults (region value wins
	// over the profile-level default).
	MinHeight float64 `yaml:"min_height" json:"min_height"`
	Margin    float64 `yaml:"margin" json:"margin"`
}

// Warning records a lenient configuration fix-up. Warnings never block
// processing; they ride along with the run result.
type Warning struct {
	Region  string `yaml:"region,omitempty" json:"region,omitempty"`
	Message string `yaml:"message" json:"message"`
}

// CaptureSpec re-exports the capture window spec for profile consumers.
type CaptureSpec = capture.Spec
