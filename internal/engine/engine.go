// Package engine resolves a segmentation profile against a document: it
// orders regions so parents resolve before children, runs the detection
// chain per page, clips children into parents, and reduces per-page
// matches under each region's keep policy. The engine is a pure function
// of (profile, document); it owns no state across runs.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/docslice/carve/internal/anchor"
	"github.com/docslice/carve/internal/detect"
	"github.com/docslice/carve/internal/doc"
	"github.com/docslice/carve/internal/geom"
	"github.com/docslice/carve/internal/profile"
)

// ResolvedRegion is one region match on one page.
type ResolvedRegion struct {
	Page       int       `yaml:"page" json:"page"`
	BBox       geom.BBox `yaml:"bbox" json:"bbox"`
	MatchedVia string    `yaml:"matched_via" json:"matched_via"`
}

// RegionResult pairs a region id with its surviving per-page matches,
// in page order. A region that never matched carries an empty list;
// callers must treat that as an expected outcome, not a failure.
type RegionResult struct {
	ID      string           `yaml:"id" json:"id"`
	Label   string           `yaml:"label,omitempty" json:"label,omitempty"`
	Matches []ResolvedRegion `yaml:"matches" json:"matches"`
}

// Result is the outcome of one engine run. Regions follow the profile's
// declaration order so output serialization is deterministic. RunID is
// diagnostic only and differs between runs; everything else is a pure
// function of the inputs.
type Result struct {
	RunID    string            `yaml:"run_id" json:"run_id"`
	Name     string            `yaml:"name,omitempty" json:"name,omitempty"`
	Regions  []RegionResult    `yaml:"regions" json:"regions"`
	Warnings []profile.Warning `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// Lookup returns the matches for a region id, nil when it never matched.
func (r *Result) Lookup(id string) []ResolvedRegion {
	for _, rr := range r.Regions {
		if rr.ID == id {
			return rr.Matches
		}
	}
	return nil
}

// AsMap exposes the downstream contract: region id to ordered
// (page, bbox) matches.
func (r *Result) AsMap() map[string][]ResolvedRegion {
	m := make(map[string][]ResolvedRegion, len(r.Regions))
	for _, rr := range r.Regions {
		m[rr.ID] = rr.Matches
	}
	return m
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger; defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWorkers caps concurrent (region, page) resolutions within a
// topological level. Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithWarnings attaches profile-load warnings so they ride along with
// every run result.
func WithWarnings(ws []profile.Warning) Option {
	return func(e *Engine) { e.warnings = ws }
}

// Engine holds the compiled form of a profile: detection chains, guard
// matchers, and the parent-before-child evaluation order.
type Engine struct {
	profile   *profile.Profile
	logger    *slog.Logger
	workers   int
	warnings  []profile.Warning
	detectors map[string]detect.Func
	guards    map[string]*anchor.Matcher
	levels    [][]int
}

// New compiles a profile. All fatal configuration errors (unknown modes,
// malformed patterns, cyclic inside references) surface here, before any
// page is processed.
func New(p *profile.Profile, opts ...Option) (*Engine, error) {
	e := &Engine{
		profile:   p,
		logger:    slog.Default(),
		workers:   runtime.GOMAXPROCS(0),
		detectors: make(map[string]detect.Func, len(p.Regions)),
		guards:    make(map[string]*anchor.Matcher),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}

	levels, err := topoLevels(p.Regions)
	if err != nil {
		return nil, err
	}
	e.levels = levels

	for _, r := range p.Regions {
		fn, err := detect.Compile(r.Detect, detect.Options{MinHeight: r.MinHeight})
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", r.ID, err)
		}
		e.detectors[r.ID] = fn

		if len(r.OnlyIfContains) > 0 {
			guard, err := anchor.Compile(r.OnlyIfContains, true, false)
			if err != nil {
				return nil, fmt.Errorf("region %q: only_if_contains: %w", r.ID, err)
			}
			e.guards[r.ID] = guard
		}
	}
	return e, nil
}

// pageTask is one (region, page) resolution unit.
type pageTask struct {
	region profile.RegionSpec
	page   *doc.Page
}

type pageHit struct {
	regionID string
	page     int
	bbox     geom.BBox
	via      string
	ok       bool
}

// Resolve runs the engine over a document. Per-page "no match" outcomes
// never abort other regions or pages; the only errors are context
// cancellation from the caller.
func (e *Engine) Resolve(ctx context.Context, d *doc.Document) (*Result, error) {
	// region id -> page index -> clipped bbox, filled level by level so
	// children always see their parents' final geometry.
	resolved := make(map[string]map[int]geom.BBox, len(e.profile.Regions))
	via := make(map[string]map[int]string, len(e.profile.Regions))

	for _, level := range e.levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var tasks []pageTask
		for _, idx := range level {
			r := e.profile.Regions[idx]
			for _, pi := range pagesFor(r.OnPages, d.PageCount()) {
				tasks = append(tasks, pageTask{region: r, page: &d.Pages[pi]})
			}
		}

		hits := e.runLevel(tasks, resolved)
		for _, h := range hits {
			if !h.ok {
				continue
			}
			if resolved[h.regionID] == nil {
				resolved[h.regionID] = make(map[int]geom.BBox)
				via[h.regionID] = make(map[int]string)
			}
			resolved[h.regionID][h.page] = h.bbox
			via[h.regionID][h.page] = h.via
		}
	}

	res := &Result{
		RunID:    uuid.NewString(),
		Name:     e.profile.Name,
		Warnings: e.warnings,
	}
	for _, r := range e.profile.Regions {
		matches := collectMatches(r, resolved[r.ID], via[r.ID], d.PageCount())
		res.Regions = append(res.Regions, RegionResult{
			ID:      r.ID,
			Label:   r.Label,
			Matches: matches,
		})
	}
	return res, nil
}

// runLevel resolves a level's tasks with bounded parallelism. Results
// land in a positional slice so merge order is deterministic.
func (e *Engine) runLevel(tasks []pageTask, resolved map[string]map[int]geom.BBox) []pageHit {
	hits := make([]pageHit, len(tasks))
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, t pageTask) {
			defer wg.Done()
			defer func() { <-sem }()
			hits[i] = e.resolveOne(t, resolved)
		}(i, t)
	}
	wg.Wait()
	return hits
}

// resolveOne runs guard, parent lookup, detection, margin expansion, and
// parent clipping for one (region, page) pair.
func (e *Engine) resolveOne(t pageTask, resolved map[string]map[int]geom.BBox) pageHit {
	r, pg := t.region, t.page
	miss := pageHit{regionID: r.ID, page: pg.Index}

	if guard := e.guards[r.ID]; guard != nil {
		if len(guard.Matches(pg.Tokens)) == 0 {
			return miss
		}
	}

	var parentBox *geom.BBox
	if r.Inside != "" {
		box, ok := resolved[r.Inside][pg.Index]
		if !ok {
			// Parent absent on this page only; the child may still
			// resolve on other pages.
			return miss
		}
		parentBox = &box
	}

	res, ok := e.detectors[r.ID](pg)
	if !ok {
		return miss
	}

	box := res.BBox
	if r.Margin > 0 {
		box = box.Expand(r.Margin)
	}
	if parentBox != nil {
		box = box.Intersect(*parentBox)
	}
	box = box.ClampUnit()
	if box.IsEmpty() {
		return miss
	}

	e.logger.Debug("region resolved",
		"region", r.ID, "page", pg.Index, "bbox", box.String(), "via", res.Via)
	return pageHit{regionID: r.ID, page: pg.Index, bbox: box, via: res.Via, ok: true}
}

// collectMatches orders a region's per-page results and applies its keep
// policy. Keep applies uniformly to all regions, children included.
func collectMatches(r profile.RegionSpec, boxes map[int]geom.BBox, via map[int]string, pageCount int) []ResolvedRegion {
	matches := []ResolvedRegion{}
	for _, pi := range pagesFor(r.OnPages, pageCount) {
		if box, ok := boxes[pi]; ok {
			matches = append(matches, ResolvedRegion{Page: pi, BBox: box, MatchedVia: via[pi]})
		}
	}
	if len(matches) == 0 {
		return matches
	}
	switch r.Keep {
	case profile.KeepFirst:
		return matches[:1]
	case profile.KeepLast:
		return matches[len(matches)-1:]
	}
	return matches
}

// pagesFor expands a page policy into concrete 0-based page indexes.
// Odd and even follow 1-based page numbering.
func pagesFor(policy profile.PagePolicy, pageCount int) []int {
	if pageCount == 0 {
		return nil
	}
	switch policy {
	case profile.PagesFirst:
		return []int{0}
	case profile.PagesLast:
		return []int{pageCount - 1}
	case profile.PagesOdd, profile.PagesEven:
		start := 0
		if policy == profile.PagesEven {
			start = 1
		}
		var pages []int
		for i := start; i < pageCount; i += 2 {
			pages = append(pages, i)
		}
		return pages
	}
	pages := make([]int, pageCount)
	for i := range pages {
		pages[i] = i
	}
	return pages
}
