package capture

import (
	"math"
	"sort"

	"github.com/docslice/carve/internal/doc"
	"github.com/docslice/carve/internal/geom"
)

// row is a horizontal band of tokens grouped by vertical proximity.
type row struct {
	bbox   geom.BBox
	tokens []doc.Token
}

// groupRows clusters page tokens into rows. Tokens whose top edges are
// within tol of the row's first token belong to the same row. Rows come
// back sorted top to bottom.
func groupRows(tokens []doc.Token, tol float64) []row {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]doc.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
	})

	var rows []row
	cur := row{bbox: sorted[0].BBox, tokens: []doc.Token{sorted[0]}}
	anchorY := sorted[0].BBox.Y0
	for _, tok := range sorted[1:] {
		if tok.BBox.Y0-anchorY <= tol {
			cur.tokens = append(cur.tokens, tok)
			cur.bbox = cur.bbox.Union(tok.BBox)
			continue
		}
		rows = append(rows, cur)
		cur = row{bbox: tok.BBox, tokens: []doc.Token{tok}}
		anchorY = tok.BBox.Y0
	}
	rows = append(rows, cur)
	return rows
}

// anchorRowIndex returns the index of the row containing the anchor's
// vertical center, falling back to the nearest row.
func anchorRowIndex(rows []row, a geom.BBox) int {
	cy := a.CenterY()
	best, bestDist := -1, math.MaxFloat64
	for i, r := range rows {
		if cy >= r.bbox.Y0 && cy <= r.bbox.Y1 {
			return i
		}
		d := math.Abs(r.bbox.CenterY() - cy)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// rowEdgeBelow returns the bottom edge of the Nth row below the anchor's
// row, where N is s.Rows. Fewer available rows extend to the last one.
// It returns false when the page has no tokens or no row lies below.
func rowEdgeBelow(s Spec, a geom.BBox, pg *doc.Page) (float64, bool) {
	rows := groupRows(pg.Tokens, s.RowTol)
	idx := anchorRowIndex(rows, a)
	if idx < 0 {
		return 0, false
	}
	last := idx + s.Rows
	if last == idx {
		return rows[idx].bbox.Y1, true
	}
	if last >= len(rows) {
		last = len(rows) - 1
	}
	if last <= idx {
		return 0, false
	}
	return rows[last].bbox.Y1, true
}

// rowEdgeAbove returns the top edge of the Nth row above the anchor's row.
func rowEdgeAbove(s Spec, a geom.BBox, pg *doc.Page) (float64, bool) {
	rows := groupRows(pg.Tokens, s.RowTol)
	idx := anchorRowIndex(rows, a)
	if idx < 0 {
		return 0, false
	}
	first := idx - s.Rows
	if first == idx {
		return rows[idx].bbox.Y0, true
	}
	if first < 0 {
		first = 0
	}
	if first >= idx {
		return 0, false
	}
	return rows[first].bbox.Y0, true
}
