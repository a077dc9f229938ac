package engine

import (
	"sort"
	"time"

	"github.com/bja1701/life-os/internal/scheduling/domain"
)

// taskScore computes the ordering score from spec §4.5. Higher sorts
// first.
func taskScore(item domain.Item, now time.Time) int {
	s := 0

	switch item.EffectiveTier() {
	case domain.TierCritical:
		s += 3000
	case domain.TierCore:
		s += 1000
	}

	if item.Deadline == nil {
		s -= 100
	} else {
		d := domain.DaysUntil(*item.Deadline, now)
		if d <= 0 {
			s += 500
		}
		if d <= 3 {
			s += 300
		}
		if d <= 7 {
			s += 100
		}
		s -= d
	}

	s -= item.DurationMinutes / 10

	return s
}

// prioritize returns items ordered by descending taskScore, with item ID
// as the tiebreaker so the order is stable and deterministic across runs
// and languages (spec §4.5, §9).
func prioritize(items []domain.Item, now time.Time) []domain.Item {
	sorted := make([]domain.Item, len(items))
	copy(sorted, items)

	scores := make(map[string]int, len(sorted))
	for _, it := range sorted {
		scores[it.ID] = taskScore(it, now)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := scores[sorted[i].ID], scores[sorted[j].ID]
		if si != sj {
			return si > sj
		}
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}
