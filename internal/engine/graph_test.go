package engine

import (
	"errors"
	"testing"

	"github.com/docslice/carve/internal/profile"
)

func region(id, inside string) profile.RegionSpec {
	return profile.RegionSpec{
		ID:     id,
		Inside: inside,
		Detect: profile.DetectSpec{Mode: profile.ModeYCutoff, YCutoff: &profile.YCutoffSpec{Edge: profile.EdgeTop, Y: 0.5}},
	}
}

func TestTopoLevels(t *testing.T) {
	regions := []profile.RegionSpec{
		region("grandchild", "child"),
		region("root_a", ""),
		region("child", "root_a"),
		region("root_b", ""),
	}

	levels, err := topoLevels(regions)
	if err != nil {
		t.Fatalf("topoLevels: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(levels))
	}

	at := func(level int) []string {
		var ids []string
		for _, idx := range levels[level] {
			ids = append(ids, regions[idx].ID)
		}
		return ids
	}
	if got := at(0); len(got) != 2 || got[0] != "root_a" || got[1] != "root_b" {
		t.Errorf("level 0 = %v", got)
	}
	if got := at(1); len(got) != 1 || got[0] != "child" {
		t.Errorf("level 1 = %v", got)
	}
	if got := at(2); len(got) != 1 || got[0] != "grandchild" {
		t.Errorf("level 2 = %v", got)
	}
}

func TestTopoLevelsCycleIsFatal(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		_, err := topoLevels([]profile.RegionSpec{region("a", "a")})
		if !errors.Is(err, ErrCycle) {
			t.Errorf("expected ErrCycle, got %v", err)
		}
	})

	t.Run("mutual reference", func(t *testing.T) {
		_, err := topoLevels([]profile.RegionSpec{
			region("a", "b"),
			region("b", "a"),
		})
		if !errors.Is(err, ErrCycle) {
			t.Errorf("expected ErrCycle, got %v", err)
		}
	})

	t.Run("longer cycle", func(t *testing.T) {
		_, err := topoLevels([]profile.RegionSpec{
			region("a", "c"),
			region("b", "a"),
			region("c", "b"),
		})
		if !errors.Is(err, ErrCycle) {
			t.Errorf("expected ErrCycle, got %v", err)
		}
	})
}

func TestTopoLevelsUnknownParent(t *testing.T) {
	if _, err := topoLevels([]profile.RegionSpec{region("a", "ghost")}); err == nil {
		t.Error("expected error for unknown parent")
	}
}

func TestPagesFor(t *testing.T) {
	cases := []struct {
		policy profile.PagePolicy
		count  int
		want   []int
	}{
		{profile.PagesAll, 3, []int{0, 1, 2}},
		{profile.PagesFirst, 3, []int{0}},
		{profile.PagesLast, 3, []int{2}},
		{profile.PagesOdd, 5, []int{0, 2, 4}},
		{profile.PagesEven, 5, []int{1, 3}},
		{profile.PagesAll, 0, nil},
	}
	for _, tc := range cases {
		got := pagesFor(tc.policy, tc.count)
		if len(got) != len(tc.want) {
			t.Errorf("pagesFor(%s, %d) = %v, want %v", tc.policy, tc.count, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("pagesFor(%s, %d) = %v, want %v", tc.policy, tc.count, got, tc.want)
				break
			}
		}
	}
}
