package engine

import (
	"github.com/bja1701/life-os/internal/scheduling/domain"
)

// deepWorkCategories are the item categories whose score benefits from
// landing in a deep-work hour (spec §4.4).
var deepWorkCategories = map[string]bool{
	"Business": true,
	"Work":     true,
	"Career":   true,
}

// score rates how well a free interval fits a chunk of an item, per spec
// §4.4. Higher is better; the scorer never penalizes, it only selects
// among already-eligible intervals.
func score(interval domain.FreeInterval, item domain.Item, chunkDurationMinutes int, cfg domain.Config) int {
	total := 100

	if deepWorkCategories[item.Category] && inRange(interval.StartHour(), cfg.DeepWorkHours) {
		total += 50
	}

	switch item.EffectiveTier() {
	case domain.TierCritical:
		total += 40
	case domain.TierCore:
		total += 15
	}

	if interval.DurationMinutes() >= chunkDurationMinutes {
		total += 25
	}

	return total
}

func inRange(hour float64, r [2]float64) bool {
	return hour >= r[0] && hour < r[1]
}
