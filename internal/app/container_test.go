package app

import (
	"testing"

	schedulingDomain "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/bja1701/life-os/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulingConfig_ProjectsConfiguredFields(t *testing.T) {
	c := &Container{Config: &config.Config{
		DayStartHour:          6,
		DayEndHour:            20,
		FamilyTimeStartHour:   18,
		PlanningHorizonDays:   14,
		MaxItemsPerGoalPerDay: 5,
	}}

	cfg := c.SchedulingConfig()

	assert.Equal(t, 6, cfg.DayStartHour)
	assert.Equal(t, 20, cfg.DayEndHour)
	assert.Equal(t, 18.0, cfg.FamilyTimeStartHour)
	assert.Equal(t, 14, cfg.PlanningHorizonDays)
	assert.Equal(t, 5, cfg.MaxItemsPerGoalPerDay)
}

func TestSchedulingConfig_FillsDefaultsForUnsetFields(t *testing.T) {
	c := &Container{Config: &config.Config{}}

	cfg := c.SchedulingConfig()

	assert.Equal(t, schedulingDomain.DefaultConfig().DayStartHour, cfg.DayStartHour)
	assert.Equal(t, schedulingDomain.DefaultConfig().PlanningHorizonDays, cfg.PlanningHorizonDays)
	assert.Equal(t, schedulingDomain.DefaultConfig().MaxItemsPerGoalPerDay, cfg.MaxItemsPerGoalPerDay)
}

func TestParseUserID_ValidAndInvalid(t *testing.T) {
	id := uuid.New()
	parsed, err := parseUserID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = parseUserID("not-a-uuid")
	assert.Error(t, err)
}

func TestCacheOrNil_NoRedisReturnsNil(t *testing.T) {
	c := &Container{Config: &config.Config{UserID: uuid.New().String()}}
	assert.Nil(t, c.cacheOrNil(c.Config))
}
