package calendarsync

import (
	"strings"
	"testing"
	"time"

	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewSyncer_Defaults(t *testing.T) {
	s := NewSyncer("https://caldav.example.com", "user", "pass", nil, DefaultBreakerSettings())

	assert.Equal(t, "https://caldav.example.com", s.baseURL)
	assert.Equal(t, "user", s.username)
	assert.False(t, s.deleteMissing)
	assert.Empty(t, s.calendarPath)
}

func TestWithDeleteMissing_ChainsAndSets(t *testing.T) {
	s := NewSyncer("https://caldav.example.com", "user", "pass", nil, DefaultBreakerSettings())

	result := s.WithDeleteMissing(true)

	assert.Same(t, s, result)
	assert.True(t, s.deleteMissing)
}

func TestWithCalendarPath_ChainsAndSets(t *testing.T) {
	s := NewSyncer("https://caldav.example.com", "user", "pass", nil, DefaultBreakerSettings())

	result := s.WithCalendarPath("/calendars/user/personal/")

	assert.Same(t, s, result)
	assert.Equal(t, "/calendars/user/personal/", s.calendarPath)
}

func TestWithOAuthTokenSource_ChainsAndSets(t *testing.T) {
	s := NewSyncer("https://caldav.example.com", "", "", nil, DefaultBreakerSettings())
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "token-123"})

	result := s.WithOAuthTokenSource(source)

	assert.Same(t, s, result)
	assert.NotNil(t, s.tokenSource)
}

func TestToICalendar_SetsCoreProperties(t *testing.T) {
	blockID := uuid.New().String()
	start := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	block := scheduling.PlacedBlock{
		ID:    blockID,
		Title: "Deep Work",
		Start: start,
		End:   end,
		Tier:  scheduling.TierCore,
	}

	cal := toICalendar(block)

	require.NotNil(t, cal)
	assert.Equal(t, "2.0", cal.Props.Get(ical.PropVersion).Value)
	require.Len(t, cal.Children, 1)

	vevent := cal.Children[0]
	assert.Equal(t, ical.CompEvent, vevent.Name)
	assert.Equal(t, blockID, vevent.Props.Get(ical.PropUID).Value)
	assert.Equal(t, "Deep Work", vevent.Props.Get(ical.PropSummary).Value)

	marker := vevent.Props[PropLifeOS]
	require.Len(t, marker, 1)
	assert.Equal(t, "1", marker[0].Value)
}

func TestToICalendar_VirtualBlockNotesItInDescription(t *testing.T) {
	block := scheduling.PlacedBlock{
		ID:        uuid.New().String(),
		Title:     "Tentative slot",
		Start:     time.Now().UTC(),
		End:       time.Now().UTC().Add(time.Hour),
		Tier:      scheduling.TierBacklog,
		IsVirtual: true,
	}

	cal := toICalendar(block)
	vevent := cal.Children[0]

	desc := vevent.Props.Get(ical.PropDescription)
	require.NotNil(t, desc)
	assert.True(t, strings.Contains(desc.Value, "Virtual"))
}

func TestIsLifeOSEvent(t *testing.T) {
	t.Run("nil object", func(t *testing.T) {
		assert.False(t, isLifeOSEvent(nil))
	})

	t.Run("nil data", func(t *testing.T) {
		obj := &caldav.CalendarObject{Data: nil}
		assert.False(t, isLifeOSEvent(obj))
	})

	t.Run("event without marker", func(t *testing.T) {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, "test")
		cal := ical.NewCalendar()
		cal.Children = append(cal.Children, event.Component)

		assert.False(t, isLifeOSEvent(&caldav.CalendarObject{Data: cal}))
	})

	t.Run("marker set to 0", func(t *testing.T) {
		event := ical.NewEvent()
		marker := ical.NewProp(PropLifeOS)
		marker.Value = "0"
		event.Props[PropLifeOS] = []ical.Prop{*marker}
		cal := ical.NewCalendar()
		cal.Children = append(cal.Children, event.Component)

		assert.False(t, isLifeOSEvent(&caldav.CalendarObject{Data: cal}))
	})

	t.Run("marker set to 1", func(t *testing.T) {
		event := ical.NewEvent()
		marker := ical.NewProp(PropLifeOS)
		marker.Value = "1"
		event.Props[PropLifeOS] = []ical.Prop{*marker}
		cal := ical.NewCalendar()
		cal.Children = append(cal.Children, event.Component)

		assert.True(t, isLifeOSEvent(&caldav.CalendarObject{Data: cal}))
	})
}

func TestToOccupation_ParsesEventFields(t *testing.T) {
	start := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropSummary, "Team standup")
	event.Props.SetText(ical.PropLocation, "Zoom")
	event.Props.SetDateTime(ical.PropDateTimeStart, start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, end)

	cal := ical.NewCalendar()
	cal.Children = append(cal.Children, event.Component)

	obj := &caldav.CalendarObject{Path: "/calendars/user/personal/abc.ics", Data: cal}

	occ, ok := toOccupation(obj)

	require.True(t, ok)
	assert.Equal(t, obj.Path, occ.ID)
	assert.Equal(t, "Team standup", occ.Title)
	assert.Equal(t, "Zoom", occ.Location)
	assert.True(t, occ.Start.Equal(start))
	assert.True(t, occ.End.Equal(end))
}

func TestToOccupation_NilObjectOrData(t *testing.T) {
	_, ok := toOccupation(nil)
	assert.False(t, ok)

	_, ok = toOccupation(&caldav.CalendarObject{Data: nil})
	assert.False(t, ok)
}

func TestToOccupation_MissingTimesIsInvalid(t *testing.T) {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropSummary, "No times")
	cal := ical.NewCalendar()
	cal.Children = append(cal.Children, event.Component)

	_, ok := toOccupation(&caldav.CalendarObject{Data: cal})
	assert.False(t, ok)
}
