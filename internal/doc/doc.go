// Package doc provides the read-only document context consumed by the
// segmentation engine: word-level tokens and table hints per page, already
// normalized to [0,1] coordinates by the upstream extraction stage.
package doc

import (
	"sort"

	"github.com/docslice/carve/internal/geom"
)

// Token is a single word with its position on a page. Tokens are produced
// externally; reading order of the input sequence is not guaranteed.
type Token struct {
	Text string    `json:"text"`
	BBox geom.BBox `json:"bbox"`
}

// TableHint is an externally detected table candidate on a page.
type TableHint struct {
	BBox geom.BBox `json:"bbox"`
}

// Page is the per-page view exposed to all detection modes.
type Page struct {
	Index  int         `json:"-"`
	Tokens []Token     `json:"tokens"`
	Tables []TableHint `json:"tables,omitempty"`
}

// Document is an ordered sequence of pages.
type Document struct {
	Pages []Page `json:"pages"`
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// TokensIn returns the tokens whose center point lies inside w.
func (p *Page) TokensIn(w geom.BBox) []Token {
	var out []Token
	for _, tok := range p.Tokens {
		if w.ContainsPoint(tok.BBox.CenterX(), tok.BBox.CenterY()) {
			out = append(out, tok)
		}
	}
	return out
}

// UnionOf returns the smallest box covering all given tokens and false
// when the slice is empty.
func UnionOf(tokens []Token) (geom.BBox, bool) {
	if len(tokens) == 0 {
		return geom.BBox{}, false
	}
	u := tokens[0].BBox
	for _, tok := range tokens[1:] {
		u = u.Union(tok.BBox)
	}
	return u, true
}

// InReadingOrder returns a copy of tokens sorted top-to-bottom, then
// left-to-right. Ties on both axes keep the input order stable.
func InReadingOrder(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BBox.Y0 != out[j].BBox.Y0 {
			return out[i].BBox.Y0 < out[j].BBox.Y0
		}
		return out[i].BBox.X0 < out[j].BBox.X0
	})
	return out
}

// FirstTable returns the table with the smallest top edge on the page.
func (p *Page) FirstTable() (TableHint, bool) {
	return p.extremalTable(func(a, b TableHint) bool { return a.BBox.Y0 < b.BBox.Y0 })
}

// LastTable returns the table with the largest bottom edge on the page.
func (p *Page) LastTable() (TableHint, bool) {
	return p.extremalTable(func(a, b TableHint) bool { return a.BBox.Y1 > b.BBox.Y1 })
}

func (p *Page) extremalTable(better func(a, b TableHint) bool) (TableHint, bool) {
	if len(p.Tables) == 0 {
		return TableHint{}, false
	}
	best := p.Tables[0]
	for _, t := range p.Tables[1:] {
		if better(t, best) {
			best = t
		}
	}
	return best, true
}
