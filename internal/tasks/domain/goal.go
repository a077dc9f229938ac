package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrGoalEmptyName = errors.New("goal name cannot be empty")

// Goal groups related tasks and bounds how much of them the scheduler
// will place on a single day (spec §4.6, per-goal daily velocity cap).
type Goal struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Category  string
	Archived  bool
	CreatedAt time.Time
}

// NewGoal constructs a goal owned by userID.
func NewGoal(userID uuid.UUID, name string) (*Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGoalEmptyName
	}
	return &Goal{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}
