// Package anchor locates reference tokens on a page by pattern and picks
// a single match under a selection policy.
package anchor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docslice/carve/internal/doc"
	"github.com/docslice/carve/internal/geom"
)

// SelectPolicy picks one match when a pattern hits several tokens.
type SelectPolicy string

const (
	SelectFirst      SelectPolicy = "first"
	SelectLeftmost   SelectPolicy = "leftmost"
	SelectRightmost  SelectPolicy = "rightmost"
	SelectTopmost    SelectPolicy = "topmost"
	SelectBottommost SelectPolicy = "bottommost"

	// SelectNextBelow picks the nearest match strictly below a reference
	// box. Only meaningful for end anchors resolved relative to a start
	// anchor.
	SelectNextBelow SelectPolicy = "next_below"
)

// KnownSelect reports whether p is a supported selection policy.
func KnownSelect(p SelectPolicy) bool {
	switch p {
	case SelectFirst, SelectLeftmost, SelectRightmost, SelectTopmost, SelectBottommost, SelectNextBelow:
		return true
	}
	return false
}

// Matcher scans page tokens for any of a set of alternative patterns.
type Matcher struct {
	patterns       []*regexp.Regexp
	normalizeSpace bool
}

// Compile builds a matcher. Patterns are regular expressions matched as
// substrings of token text; any pattern hitting counts as a match.
// Malformed pattern syntax is a configuration error.
func Compile(patterns []string, ignoreCase, normalizeSpace bool) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("anchor requires at least one pattern")
	}
	m := &Matcher{normalizeSpace: normalizeSpace}
	for _, p := range patterns {
		expr := p
		if ignoreCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid anchor pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// Matches returns every token on the page hit by any pattern. The result
// preserves the page's token order; selection policies impose their own.
func (m *Matcher) Matches(tokens []doc.Token) []doc.Token {
	var out []doc.Token
	for _, tok := range tokens {
		text := tok.Text
		if m.normalizeSpace {
			text = strings.Join(strings.Fields(text), " ")
		}
		for _, re := range m.patterns {
			if re.MatchString(text) {
				out = append(out, tok)
				break
			}
		}
	}
	return out
}

// Select applies a policy to a set of matches. It returns false on an
// empty set; zero matches is an expected outcome, never an error.
// SelectNextBelow must go through SelectBelow instead.
func Select(matches []doc.Token, policy SelectPolicy) (doc.Token, bool) {
	if len(matches) == 0 {
		return doc.Token{}, false
	}
	switch policy {
	case SelectFirst, "":
		return doc.InReadingOrder(matches)[0], true
	case SelectLeftmost:
		return extremal(matches, func(a, b geom.BBox) bool { return a.X0 < b.X0 }), true
	case SelectRightmost:
		return extremal(matches, func(a, b geom.BBox) bool { return a.X1 > b.X1 }), true
	case SelectTopmost:
		return extremal(matches, func(a, b geom.BBox) bool { return a.Y0 < b.Y0 }), true
	case SelectBottommost:
		return extremal(matches, func(a, b geom.BBox) bool { return a.Y1 > b.Y1 }), true
	}
	return doc.Token{}, false
}

// SelectBelow picks the match nearest below ref: smallest vertical gap
// first, leftmost on ties. Matches at or above ref's top are ignored.
func SelectBelow(matches []doc.Token, ref geom.BBox) (doc.Token, bool) {
	var best doc.Token
	found := false
	for _, tok := range matches {
		if tok.BBox.Y0 <= ref.Y0 {
			continue
		}
		if !found {
			best, found = tok, true
			continue
		}
		if tok.BBox.Y0 < best.BBox.Y0 ||
			(tok.BBox.Y0 == best.BBox.Y0 && tok.BBox.X0 < best.BBox.X0) {
			best = tok
		}
	}
	return best, found
}

func extremal(matches []doc.Token, better func(a, b geom.BBox) bool) doc.Token {
	best := matches[0]
	for _, tok := range matches[1:] {
		if better(tok.BBox, best.BBox) {
			best = tok
		}
	}
	return best
}
