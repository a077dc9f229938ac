package engine

import (
	"testing"

	"github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
)

func TestTaskScore_TierDominates(t *testing.T) {
	now := mustDate(2026, 8, 3, 0, 0)
	critical := domain.Item{ID: "a", Tier: domain.TierCritical, DurationMinutes: 600}
	core := domain.Item{ID: "b", Tier: domain.TierCore, DurationMinutes: 30}

	assert.Greater(t, taskScore(critical, now), taskScore(core, now))
}

func TestTaskScore_CloserDeadlineScoresHigher(t *testing.T) {
	now := mustDate(2026, 8, 3, 0, 0)
	soon := mustDate(2026, 8, 4, 0, 0)
	later := mustDate(2026, 8, 20, 0, 0)

	a := domain.Item{ID: "a", Tier: domain.TierCore, DurationMinutes: 60, Deadline: &soon}
	b := domain.Item{ID: "b", Tier: domain.TierCore, DurationMinutes: 60, Deadline: &later}

	assert.Greater(t, taskScore(a, now), taskScore(b, now))
}

func TestTaskScore_NoDeadlinePenalized(t *testing.T) {
	now := mustDate(2026, 8, 3, 0, 0)
	farOff := mustDate(2026, 10, 1, 0, 0)

	withDeadline := domain.Item{ID: "a", Tier: domain.TierCore, DurationMinutes: 60, Deadline: &farOff}
	withoutDeadline := domain.Item{ID: "b", Tier: domain.TierCore, DurationMinutes: 60}

	assert.Greater(t, taskScore(withDeadline, now), taskScore(withoutDeadline, now))
}

func TestPrioritize_StableTiebreakByID(t *testing.T) {
	now := mustDate(2026, 8, 3, 0, 0)
	items := []domain.Item{
		{ID: "zzz", Tier: domain.TierCore, DurationMinutes: 60},
		{ID: "aaa", Tier: domain.TierCore, DurationMinutes: 60},
		{ID: "mmm", Tier: domain.TierCore, DurationMinutes: 60},
	}

	ordered := prioritize(items, now)
	assert.Equal(t, []string{"aaa", "mmm", "zzz"}, []string{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}

func TestPrioritize_DeterministicAcrossRuns(t *testing.T) {
	now := mustDate(2026, 8, 3, 0, 0)
	deadline1 := mustDate(2026, 8, 5, 0, 0)
	items := []domain.Item{
		{ID: "task-1", Tier: domain.TierBacklog, DurationMinutes: 90},
		{ID: "task-2", Tier: domain.TierCritical, DurationMinutes: 30, Deadline: &deadline1},
		{ID: "task-3", Tier: domain.TierCore, DurationMinutes: 120},
	}

	first := prioritize(items, now)
	second := prioritize(items, now)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.Equal(t, "task-2", first[0].ID, "critical item with a near deadline should sort first")
}

func TestPrioritize_DoesNotMutateInput(t *testing.T) {
	now := mustDate(2026, 8, 3, 0, 0)
	items := []domain.Item{
		{ID: "b", Tier: domain.TierCore, DurationMinutes: 60},
		{ID: "a", Tier: domain.TierCritical, DurationMinutes: 60},
	}
	original := append([]domain.Item(nil), items...)

	_ = prioritize(items, now)

	assert.Equal(t, original, items)
}
