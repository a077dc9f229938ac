package engine

import (
	"testing"
	"time"

	"github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func TestGapsInDay_Sunday(t *testing.T) {
	sunday := mustDate(2026, 8, 2, 0, 0) // 2026-08-02 is a Sunday
	require.True(t, domain.IsSunday(sunday))

	gaps := gapsInDay(sunday, nil, nil, domain.DefaultConfig())
	assert.Empty(t, gaps)
}

func TestGapsInDay_FridayEarlyClose(t *testing.T) {
	friday := mustDate(2026, 7, 31, 0, 0)
	require.True(t, domain.IsFriday(friday))

	gaps := gapsInDay(friday, nil, nil, domain.DefaultConfig())
	require.Len(t, gaps, 1)
	assert.Equal(t, mustDate(2026, 7, 31, 8, 0), gaps[0].Start)
	assert.Equal(t, mustDate(2026, 7, 31, 17, 0), gaps[0].End)
}

func TestGapsInDay_NoBusyIntervals(t *testing.T) {
	day := mustDate(2026, 8, 3, 0, 0) // Monday
	gaps := gapsInDay(day, nil, nil, domain.DefaultConfig())
	require.Len(t, gaps, 1)
	assert.Equal(t, mustDate(2026, 8, 3, 8, 0), gaps[0].Start)
	assert.Equal(t, mustDate(2026, 8, 3, 22, 0), gaps[0].End)
}

func TestGapsInDay_SweepsAroundOccupations(t *testing.T) {
	day := mustDate(2026, 8, 3, 0, 0)
	occs := []domain.Occupation{
		{ID: "class", Start: mustDate(2026, 8, 3, 10, 0), End: mustDate(2026, 8, 3, 12, 0)},
		{ID: "family", Start: mustDate(2026, 8, 3, 17, 30), End: mustDate(2026, 8, 3, 19, 30)},
	}
	gaps := gapsInDay(day, occs, nil, domain.DefaultConfig())
	require.Len(t, gaps, 3)
	assert.Equal(t, mustDate(2026, 8, 3, 8, 0), gaps[0].Start)
	assert.Equal(t, mustDate(2026, 8, 3, 10, 0), gaps[0].End)
	assert.Equal(t, mustDate(2026, 8, 3, 12, 0), gaps[1].Start)
	assert.Equal(t, mustDate(2026, 8, 3, 17, 30), gaps[1].End)
	assert.Equal(t, mustDate(2026, 8, 3, 19, 30), gaps[2].Start)
	assert.Equal(t, mustDate(2026, 8, 3, 22, 0), gaps[2].End)
}

func TestGapsInDay_OverlappingBusyCollapses(t *testing.T) {
	day := mustDate(2026, 8, 3, 0, 0)
	occs := []domain.Occupation{
		{ID: "a", Start: mustDate(2026, 8, 3, 10, 0), End: mustDate(2026, 8, 3, 13, 0)},
		{ID: "b", Start: mustDate(2026, 8, 3, 12, 0), End: mustDate(2026, 8, 3, 14, 0)},
	}
	gaps := gapsInDay(day, occs, nil, domain.DefaultConfig())
	require.Len(t, gaps, 2)
	assert.Equal(t, mustDate(2026, 8, 3, 8, 0), gaps[0].Start)
	assert.Equal(t, mustDate(2026, 8, 3, 10, 0), gaps[0].End)
	assert.Equal(t, mustDate(2026, 8, 3, 14, 0), gaps[1].Start)
}

func TestGapsInDay_AlreadyPlacedBlocksCountAsBusy(t *testing.T) {
	day := mustDate(2026, 8, 3, 0, 0)
	placed := []domain.PlacedBlock{
		{ItemID: "x", Start: mustDate(2026, 8, 3, 9, 0), End: mustDate(2026, 8, 3, 10, 0)},
	}
	gaps := gapsInDay(day, nil, placed, domain.DefaultConfig())
	require.Len(t, gaps, 2)
	assert.Equal(t, mustDate(2026, 8, 3, 8, 0), gaps[0].Start)
	assert.Equal(t, mustDate(2026, 8, 3, 9, 0), gaps[0].End)
}
