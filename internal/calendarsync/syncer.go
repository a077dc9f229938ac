// Package calendarsync reads and writes the scheduling core's placed
// blocks against a CalDAV calendar, so a generated plan becomes visible
// on the device the user actually looks at (spec §6: calendar
// read/write is explicitly outside the core).
package calendarsync

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
)

// PropLifeOS marks events this syncer wrote, so a later sync can tell a
// life-os block apart from an event the user made by hand.
const PropLifeOS = "X-LIFE-OS"

// SyncResult tallies the outcome of a Push call.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Failed  int
}

// Syncer pushes PlacedBlocks to a CalDAV calendar and reads back
// existing events so the scheduler can treat them as Occupations.
type Syncer struct {
	baseURL       string
	username      string
	password      string
	tokenSource   oauth2.TokenSource
	calendarPath  string
	deleteMissing bool
	logger        *slog.Logger
	breaker       *gobreaker.CircuitBreaker[any]
}

// BreakerSettings configures the circuit breaker guarding outbound
// CalDAV calls, so a flaky provider degrades into fast failures instead
// of hanging every scheduling run behind it.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerSettings trips after 5 consecutive failures and allows a
// single probe request after a minute in the open state.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         0,
		Timeout:          time.Minute,
		FailureThreshold: 5,
	}
}

// NewSyncer creates a CalDAV calendar syncer for baseURL, authenticating
// with username/password (an app-specific password for providers like
// Apple Calendar).
func NewSyncer(baseURL, username, password string, logger *slog.Logger, bs BreakerSettings) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "caldav-sync",
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("calendar circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	}

	return &Syncer{
		baseURL: baseURL,
		username: username,
		password: password,
		logger:   logger,
		breaker:  gobreaker.NewCircuitBreaker[any](settings),
	}
}

// WithDeleteMissing enables deleting calendar events that life-os
// previously wrote but no longer appear in the current set of blocks.
func (s *Syncer) WithDeleteMissing(enabled bool) *Syncer {
	s.deleteMissing = enabled
	return s
}

// WithCalendarPath pins the syncer to a specific calendar rather than
// discovering the user's default one.
func (s *Syncer) WithCalendarPath(path string) *Syncer {
	s.calendarPath = path
	return s
}

// WithOAuthTokenSource switches the syncer from Basic Auth to bearer
// tokens drawn from source, so a provider that requires OAuth2 (rather
// than an app-specific password) can be reached. When set, it takes
// priority over any username/password passed to NewSyncer.
func (s *Syncer) WithOAuthTokenSource(source oauth2.TokenSource) *Syncer {
	s.tokenSource = source
	return s
}

// Push writes blocks to the calendar, creating or updating an event per
// block and optionally deleting events life-os previously wrote but
// which no longer appear in blocks.
func (s *Syncer) Push(ctx context.Context, blocks []scheduling.PlacedBlock) (*SyncResult, error) {
	raw, err := s.breakerExec(func() (any, error) {
		return s.push(ctx, blocks)
	})
	if err != nil {
		return nil, err
	}
	return raw.(*SyncResult), nil
}

func (s *Syncer) push(ctx context.Context, blocks []scheduling.PlacedBlock) (*SyncResult, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := s.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("find calendar: %w", err)
	}

	result := &SyncResult{}
	keepPaths := make(map[string]struct{}, len(blocks))

	for _, block := range blocks {
		eventPath := fmt.Sprintf("%s%s.ics", calPath, block.ID)
		keepPaths[eventPath] = struct{}{}

		cal := toICalendar(block)
		updated, err := s.upsertEvent(ctx, client, eventPath, cal)
		if err != nil {
			s.logger.Warn("caldav push failed", "event_path", eventPath, "error", err)
			result.Failed++
			continue
		}
		if updated {
			result.Updated++
		} else {
			result.Created++
		}
	}

	if s.deleteMissing {
		deleted, err := s.deleteMissingEvents(ctx, client, calPath, keepPaths)
		if err != nil {
			s.logger.Warn("caldav delete missing failed", "error", err)
		} else {
			result.Deleted = deleted
		}
	}

	return result, nil
}

// PullOccupations reads every event in [start, end) from the calendar
// and returns them as Occupations the scheduler must avoid, so a
// user-entered meeting blocks time the same way a life-os block does.
func (s *Syncer) PullOccupations(ctx context.Context, start, end time.Time) ([]scheduling.Occupation, error) {
	raw, err := s.breakerExec(func() (any, error) {
		return s.pullOccupations(ctx, start, end)
	})
	if err != nil {
		return nil, err
	}
	return raw.([]scheduling.Occupation), nil
}

func (s *Syncer) pullOccupations(ctx context.Context, start, end time.Time) ([]scheduling.Occupation, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := s.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("find calendar: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"SUMMARY", "DTSTART", "DTEND", "UID", "LOCATION", PropLifeOS},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name:  "VCALENDAR",
			Comps: []caldav.CompFilter{{Name: "VEVENT", Start: start, End: end}},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	occupations := make([]scheduling.Occupation, 0, len(objects))
	for _, obj := range objects {
		if isLifeOSEvent(&obj) {
			// life-os never treats its own blocks as a foreign occupation.
			continue
		}
		occ, ok := toOccupation(&obj)
		if ok {
			occupations = append(occupations, occ)
		}
	}
	return occupations, nil
}

func (s *Syncer) breakerExec(fn func() (any, error)) (any, error) {
	return s.breaker.Execute(fn)
}

func (s *Syncer) getClient() (*caldav.Client, error) {
	var httpClient webdav.HTTPClient
	if s.tokenSource != nil {
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: &oauthTransport{source: s.tokenSource, base: http.DefaultTransport},
		}
	} else {
		basic := &http.Client{
			Timeout:   30 * time.Second,
			Transport: &basicAuthTransport{username: s.username, password: s.password, base: http.DefaultTransport},
		}
		httpClient = webdav.HTTPClientWithBasicAuth(basic, s.username, s.password)
	}

	client, err := caldav.NewClient(httpClient, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}
	return client, nil
}

func (s *Syncer) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if s.calendarPath != "" {
		return s.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("find calendar home set: %w", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}
	return cals[0].Path, nil
}

func (s *Syncer) upsertEvent(ctx context.Context, client *caldav.Client, eventPath string, cal *ical.Calendar) (bool, error) {
	_, err := client.GetCalendarObject(ctx, eventPath)
	exists := err == nil

	if _, err := client.PutCalendarObject(ctx, eventPath, cal); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Syncer) deleteMissingEvents(ctx context.Context, client *caldav.Client, calPath string, keepPaths map[string]struct{}) (int, error) {
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Comps: []caldav.CalendarCompRequest{{Name: "VEVENT", Props: []string{"UID", PropLifeOS}}},
		},
		CompFilter: caldav.CompFilter{
			Name:  "VCALENDAR",
			Comps: []caldav.CompFilter{{Name: "VEVENT"}},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		if !isLifeOSEvent(&obj) {
			continue
		}
		if _, ok := keepPaths[obj.Path]; ok {
			continue
		}
		if err := client.RemoveAll(ctx, obj.Path); err != nil {
			s.logger.Warn("failed to delete caldav event", "path", obj.Path, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

func isLifeOSEvent(obj *caldav.CalendarObject) bool {
	if obj == nil || obj.Data == nil {
		return false
	}
	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		if props := child.Props[PropLifeOS]; len(props) > 0 && props[0].Value == "1" {
			return true
		}
	}
	return false
}

func toICalendar(block scheduling.PlacedBlock) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//life-os//Calendar Sync//EN")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, block.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, block.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, block.End.UTC())
	event.Props.SetText(ical.PropSummary, block.Title)

	description := fmt.Sprintf("Tier: %s", block.Tier)
	if block.IsVirtual {
		description += "\nVirtual: not yet committed"
	}
	event.Props.SetText(ical.PropDescription, description)

	marker := ical.NewProp(PropLifeOS)
	marker.Value = "1"
	event.Props[PropLifeOS] = []ical.Prop{*marker}

	cal.Children = append(cal.Children, event.Component)
	return cal
}

func toOccupation(obj *caldav.CalendarObject) (scheduling.Occupation, bool) {
	if obj == nil || obj.Data == nil {
		return scheduling.Occupation{}, false
	}

	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}

		occ := scheduling.Occupation{ID: obj.Path}
		if props := child.Props[ical.PropSummary]; len(props) > 0 {
			occ.Title = props[0].Value
		}
		if props := child.Props[ical.PropLocation]; len(props) > 0 {
			occ.Location = props[0].Value
		}
		if dtstart, err := child.Props.DateTime(ical.PropDateTimeStart, time.Local); err == nil {
			occ.Start = dtstart
		}
		if dtend, err := child.Props.DateTime(ical.PropDateTimeEnd, time.Local); err == nil {
			occ.End = dtend
		}
		return occ, occ.Valid()
	}
	return scheduling.Occupation{}, false
}

type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}

type oauthTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

func (t *oauthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.base.RoundTrip(req)
}
