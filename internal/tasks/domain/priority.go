package domain

import (
	"errors"
	"strings"

	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
)

// Priority is the legacy free-text urgency label carried by tasks and
// goals persisted before the scheduler canonicalized on Tier. It is kept
// at this boundary rather than inside the scheduling core (spec §3's
// "Open Question" on priority vs. tier is resolved here: the core only
// ever sees a Tier, and every legacy Priority is mapped to one the moment
// a task crosses into the core).
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

var ErrInvalidPriority = errors.New("invalid priority value")

var priorityNames = map[Priority]string{
	PriorityNone:   "none",
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
	PriorityUrgent: "urgent",
}

var priorityValues = map[string]Priority{
	"none":   PriorityNone,
	"low":    PriorityLow,
	"medium": PriorityMedium,
	"high":   PriorityHigh,
	"urgent": PriorityUrgent,
}

// ParsePriority creates a Priority from a string.
func ParsePriority(s string) (Priority, error) {
	p, ok := priorityValues[strings.ToLower(s)]
	if !ok {
		return PriorityNone, ErrInvalidPriority
	}
	return p, nil
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Priority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

// Tier maps the legacy priority onto the scheduler's canonical three-tier
// classification. Urgent and High both collapse to Critical: the core
// distinguishes urgency in three buckets, not five.
func (p Priority) Tier() scheduling.Tier {
	switch p {
	case PriorityUrgent, PriorityHigh:
		return scheduling.TierCritical
	case PriorityLow:
		return scheduling.TierBacklog
	default:
		return scheduling.TierCore
	}
}
