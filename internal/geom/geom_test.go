package geom

import (
	"encoding/json"
	"math"
	"testing"
)

// approxEqual compares boxes built by floating-point arithmetic, where
// exact equality against literals does not hold.
func approxEqual(a, b BBox) bool {
	const eps = 1e-9
	return math.Abs(a.X0-b.X0) < eps && math.Abs(a.Y0-b.Y0) < eps &&
		math.Abs(a.X1-b.X1) < eps && math.Abs(a.Y1-b.Y1) < eps
}

func TestIntersect(t *testing.T) {
	a := BBox{X0: 0.1, Y0: 0.1, X1: 0.5, Y1: 0.5}
	b := BBox{X0: 0.3, Y0: 0.3, X1: 0.7, Y1: 0.7}

	got := a.Intersect(b)
	want := BBox{X0: 0.3, Y0: 0.3, X1: 0.5, Y1: 0.5}
	if got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}

	t.Run("disjoint boxes yield zero box", func(t *testing.T) {
		c := BBox{X0: 0.8, Y0: 0.8, X1: 0.9, Y1: 0.9}
		if got := a.Intersect(c); !got.IsEmpty() {
			t.Errorf("expected empty intersection, got %v", got)
		}
	})
}

func TestUnion(t *testing.T) {
	a := BBox{X0: 0.1, Y0: 0.2, X1: 0.3, Y1: 0.4}
	b := BBox{X0: 0.25, Y0: 0.1, X1: 0.6, Y1: 0.3}

	got := a.Union(b)
	want := BBox{X0: 0.1, Y0: 0.1, X1: 0.6, Y1: 0.4}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
}

func TestContains(t *testing.T) {
	outer := BBox{X0: 0, Y0: 0, X1: 1, Y1: 1}
	inner := BBox{X0: 0.2, Y0: 0.2, X1: 0.8, Y1: 0.8}

	if !outer.Contains(inner) {
		t.Error("outer should contain inner")
	}
	if inner.Contains(outer) {
		t.Error("inner should not contain outer")
	}
	if !outer.Contains(outer) {
		t.Error("a box should contain itself")
	}
}

func TestContainsPoint(t *testing.T) {
	b := BBox{X0: 0.1, Y0: 0.1, X1: 0.5, Y1: 0.5}

	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 0.3, 0.3, true},
		{"on edge", 0.1, 0.3, true},
		{"corner", 0.5, 0.5, true},
		{"outside left", 0.05, 0.3, false},
		{"outside below", 0.3, 0.6, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.ContainsPoint(tc.x, tc.y); got != tc.want {
				t.Errorf("ContainsPoint(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	if (BBox{X0: 0.1, Y0: 0.1, X1: 0.5, Y1: 0.5}).IsEmpty() {
		t.Error("positive-area box reported empty")
	}
	if !(BBox{X0: 0.5, Y0: 0.1, X1: 0.5, Y1: 0.5}).IsEmpty() {
		t.Error("zero-width box should be empty")
	}
	if !(BBox{}).IsEmpty() {
		t.Error("zero box should be empty")
	}
}

func TestClampUnit(t *testing.T) {
	b := BBox{X0: -0.2, Y0: 0.5, X1: 1.3, Y1: 0.9}
	got := b.ClampUnit()
	want := BBox{X0: 0, Y0: 0.5, X1: 1, Y1: 0.9}
	if got != want {
		t.Errorf("ClampUnit = %v, want %v", got, want)
	}
}

func TestExpand(t *testing.T) {
	b := BBox{X0: 0.4, Y0: 0.4, X1: 0.6, Y1: 0.6}
	got := b.Expand(0.1)
	want := BBox{X0: 0.3, Y0: 0.3, X1: 0.7, Y1: 0.7}
	if !approxEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	b := BBox{X0: 0.1, Y0: 0.2, X1: 0.3, Y1: 0.4}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[0.1,0.2,0.3,0.4]" {
		t.Errorf("unexpected encoding: %s", data)
	}

	var back BBox
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != b {
		t.Errorf("round trip: got %v, want %v", back, b)
	}
}

func TestUnmarshalRejectsInvertedBox(t *testing.T) {
	var b BBox
	if err := json.Unmarshal([]byte("[0.5,0.1,0.2,0.4]"), &b); err == nil {
		t.Error("expected error for x0 > x1")
	}
}
