package engine

import (
	"testing"
	"time"

	"github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(now time.Time, occupations []domain.Occupation, cfg domain.Config) *run {
	cfg = cfg.WithDefaults()
	planningStart := domain.StartOfLocalDay(now)
	return &run{
		now:            now,
		planningStart:  planningStart,
		horizonLastDay: domain.AddDays(planningStart, cfg.PlanningHorizonDays),
		occupations:    occupations,
		cfg:            cfg,
		placed:         nil,
		placedSet:      make(map[string]bool),
		velocity:       make(map[string]map[string]int),
	}
}

func TestPlaceItem_SimpleItemLandsInFirstAvailableGap(t *testing.T) {
	now := mustDate(2026, 8, 3, 6, 0) // Monday
	r := newRun(now, nil, domain.DefaultConfig())

	item := domain.Item{ID: "task-1", Title: "Write report", DurationMinutes: 60, Tier: domain.TierCore}
	blocks, ok, warn := r.placeItem(item)

	require.True(t, ok)
	require.Len(t, blocks, 1)
	assert.Nil(t, warn)
	assert.Equal(t, 60, blocks[0].DurationMinutes)
	assert.True(t, domain.SameLocalDay(blocks[0].Start, now))
}

func TestPlaceItem_DependencyGateBlocksUnplacedPrerequisite(t *testing.T) {
	now := mustDate(2026, 8, 3, 6, 0)
	r := newRun(now, nil, domain.DefaultConfig())

	dependent := domain.Item{ID: "task-2", DurationMinutes: 30, DependsOn: []string{"task-1"}}
	assert.False(t, r.dependenciesSatisfied(dependent))

	r.placedSet["task-1"] = true
	assert.True(t, r.dependenciesSatisfied(dependent))
}

func TestPlaceItem_SkipsSunday(t *testing.T) {
	// Occupy every working minute of Saturday, the planning start; the
	// floating item must then skip clean over Sunday rather than land there.
	saturday := mustDate(2026, 8, 8, 0, 0)
	require.Equal(t, time.Saturday, saturday.Weekday())

	now := mustDate(2026, 8, 8, 6, 0)
	var occs []domain.Occupation
	for i := 0; i < 1; i++ {
		day := domain.AddDays(domain.StartOfLocalDay(now), i)
		occs = append(occs, domain.Occupation{
			ID:    "all-day",
			Start: domain.AtHour(day, 8),
			End:   domain.AtHour(day, 22),
		})
	}

	r := newRun(now, occs, domain.DefaultConfig())
	item := domain.Item{ID: "task-3", DurationMinutes: 30}
	blocks, ok, _ := r.placeItem(item)

	require.True(t, ok)
	require.Len(t, blocks, 1)
	assert.False(t, domain.IsSunday(blocks[0].Start))
}

func TestPlaceItem_VelocityCapSpillsToNextDay(t *testing.T) {
	now := mustDate(2026, 8, 3, 6, 0) // Monday
	cfg := domain.DefaultConfig()
	cfg.MaxItemsPerGoalPerDay = 1
	r := newRun(now, nil, cfg)

	first := domain.Item{ID: "task-1", GoalID: "goal-x", DurationMinutes: 30}
	blocks1, ok1, _ := r.placeItem(first)
	require.True(t, ok1)
	r.placed = append(r.placed, blocks1...)
	r.incrementVelocity(blocks1[0].Start, "goal-x")

	second := domain.Item{ID: "task-2", GoalID: "goal-x", DurationMinutes: 30}
	blocks2, ok2, _ := r.placeItem(second)
	require.True(t, ok2)
	assert.False(t, domain.SameLocalDay(blocks2[0].Start, blocks1[0].Start),
		"second item for the same goal should spill to the next day once the daily cap is hit")
}

func TestPlaceItem_FamilyTimeOverrideRequiresAssignmentAndImminentDeadline(t *testing.T) {
	now := mustDate(2026, 8, 3, 6, 0)
	cfg := domain.DefaultConfig()

	// Fill every regular-hours gap for the day so only family time remains.
	day := domain.StartOfLocalDay(now)
	occs := []domain.Occupation{
		{ID: "busy", Start: domain.AtHour(day, 8), End: domain.AtHour(day, 17.5)},
	}

	deadline := now.Add(2 * time.Hour)
	assignment := domain.Item{
		ID: "hw-1", DurationMinutes: 60, IsAssignment: true, Deadline: &deadline,
	}
	r := newRun(now, occs, cfg)
	blocks, ok, warn := r.placeItem(assignment)

	require.True(t, ok)
	require.Len(t, blocks, 1)
	require.NotNil(t, warn)
	assert.Equal(t, domain.WarningFamilyTimeCompromised, warn.Kind)
	assert.GreaterOrEqual(t, blocks[0].Start.Hour(), int(cfg.FamilyTimeStartHour))
}

func TestPlaceItem_FamilyTimeOverrideDeniedForNonAssignment(t *testing.T) {
	now := mustDate(2026, 8, 3, 6, 0)
	cfg := domain.DefaultConfig()
	day := domain.StartOfLocalDay(now)
	occs := []domain.Occupation{
		{ID: "busy", Start: domain.AtHour(day, 8), End: domain.AtHour(day, 22)},
	}

	deadline := now.Add(2 * time.Hour)
	chore := domain.Item{ID: "chore-1", DurationMinutes: 30, IsAssignment: false, Deadline: &deadline}
	r := newRun(now, occs, cfg)

	_, ok, _ := r.placeItem(chore)
	assert.False(t, ok, "a non-assignment must not use the family-time override even under deadline pressure")
}

func TestPlaceItem_AllOrNothingDiscardsPartialChunks(t *testing.T) {
	// The first chunk of a 3-chunk item fits today; the remaining chunks
	// never find room before the deadline. Nothing — including the
	// chunk that did fit — should be returned.
	now := mustDate(2026, 8, 3, 6, 0)
	cfg := domain.DefaultConfig()
	day := domain.StartOfLocalDay(now)
	tomorrow := domain.AddDays(day, 1)
	occs := []domain.Occupation{
		{ID: "busy-today", Start: domain.AtHour(day, 8), End: domain.AtHour(day, 16)},
		{ID: "busy-tomorrow", Start: domain.AtHour(tomorrow, 8), End: domain.AtHour(tomorrow, 22)},
	}
	deadline := domain.AtHour(tomorrow, 22)
	item := domain.Item{ID: "big-task", DurationMinutes: 240, CanSplit: true, Deadline: &deadline}

	r := newRun(now, occs, cfg)
	blocks, ok, _ := r.placeItem(item)

	assert.False(t, ok)
	assert.Empty(t, blocks)
}
