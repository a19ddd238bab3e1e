package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/docslice/carve/internal/profile"
)

// ErrCycle is returned when inside references form a cycle. Cycles are
// fatal and detected once, before any page processing begins.
var ErrCycle = errors.New("cycle in region inside references")

// topoLevels orders regions so that parents resolve strictly before
// children. Each level holds indexes into the region list; regions in
// the same level are independent and may resolve concurrently.
func topoLevels(regions []profile.RegionSpec) ([][]int, error) {
	byID := make(map[string]int, len(regions))
	for i, r := range regions {
		byID[r.ID] = i
	}

	depth := make([]int, len(regions))
	for i := range depth {
		depth[i] = -1
	}

	var walk func(i int, trail []string) (int, error)
	walk = func(i int, trail []string) (int, error) {
		if depth[i] >= 0 {
			return depth[i], nil
		}
		r := regions[i]
		for _, seen := range trail {
			if seen == r.ID {
				return 0, fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(trail, r.ID), " -> "))
			}
		}
		if r.Inside == "" {
			depth[i] = 0
			return 0, nil
		}
		parent, ok := byID[r.Inside]
		if !ok {
			// Validation catches this earlier; guard against
			// programmatically built profiles anyway.
			return 0, fmt.Errorf("region %q: inside references unknown region %q", r.ID, r.Inside)
		}
		d, err := walk(parent, append(trail, r.ID))
		if err != nil {
			return 0, err
		}
		depth[i] = d + 1
		return depth[i], nil
	}

	maxDepth := 0
	for i := range regions {
		d, err := walk(i, nil)
		if err != nil {
			return nil, err
		}
		if d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]int, maxDepth+1)
	for i := range regions {
		levels[depth[i]] = append(levels[depth[i]], i)
	}
	for _, level := range levels {
		sort.Ints(level)
	}
	return levels, nil
}
