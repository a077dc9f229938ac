package domain

import (
	"errors"
	"strings"
	"time"

	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/google/uuid"
)

var (
	ErrTaskEmptyTitle      = errors.New("task title cannot be empty")
	ErrTaskInvalidDuration = errors.New("task duration must be positive")
)

// Task is the persistence-facing record for a unit of schedulable work.
// It carries everything the scheduling core's Item needs plus the
// bookkeeping fields (ownership, timestamps, legacy priority) that never
// reach the core.
type Task struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	GoalID    uuid.UUID // zero value means unassigned
	Category  string
	Title     string
	Duration  time.Duration
	Deadline  *time.Time
	Priority  Priority
	Tier      scheduling.Tier // explicit tier, if the caller set one directly
	HasTier   bool            // true once Tier has been explicitly assigned
	Assignment bool
	CanSplit   bool
	DependsOn  []uuid.UUID
	PinnedAt   *time.Time
	Completed  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewTask constructs a task, defaulting its tier from the legacy priority
// until SetTier is called explicitly.
func NewTask(userID uuid.UUID, title string, duration time.Duration) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTaskEmptyTitle
	}
	if duration <= 0 {
		return nil, ErrTaskInvalidDuration
	}

	now := time.Now()
	return &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Duration:  duration,
		Priority:  PriorityNone,
		CanSplit:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetTier explicitly overrides the tier derived from Priority.
func (t *Task) SetTier(tier scheduling.Tier) {
	t.Tier = tier
	t.HasTier = true
	t.UpdatedAt = time.Now()
}

// EffectiveTier returns the explicit tier if one was set, otherwise maps
// the legacy Priority (spec §3: "default Core" applies transitively via
// Priority.Tier for PriorityNone).
func (t *Task) EffectiveTier() scheduling.Tier {
	if t.HasTier {
		return t.Tier
	}
	return t.Priority.Tier()
}

// ToItem projects the task into the scheduling core's closed value type.
// This is the one boundary where every legacy/optional field collapses
// into Item's explicit shape (spec §3).
func (t *Task) ToItem() scheduling.Item {
	item := scheduling.Item{
		ID:              t.ID.String(),
		Category:        t.Category,
		Title:           t.Title,
		DurationMinutes: int(t.Duration.Minutes()),
		Deadline:        t.Deadline,
		Tier:            t.EffectiveTier(),
		IsAssignment:    t.Assignment,
		CanSplit:        t.CanSplit,
		PinnedStart:     t.PinnedAt,
	}
	if t.GoalID != uuid.Nil {
		item.GoalID = t.GoalID.String()
	}
	if t.Completed {
		item.Status = scheduling.StatusCompleted
	}
	for _, dep := range t.DependsOn {
		item.DependsOn = append(item.DependsOn, dep.String())
	}
	return item
}
