package tasks

import (
	"context"
	"errors"

	"github.com/bja1701/life-os/internal/tasks/domain"
	"github.com/google/uuid"
)

var (
	// ErrTaskNotFound is returned when a task ID has no matching row.
	ErrTaskNotFound = errors.New("task not found")
	// ErrOptimisticLocking names a concurrent update that raced ahead of
	// the caller's read. Neither the PostgreSQL nor the SQLite repository
	// returns it: both Save methods are plain upserts.
	ErrOptimisticLocking = errors.New("optimistic locking conflict")
)

// Repository is the storage boundary for tasks, implemented once for
// PostgreSQL and once for SQLite so the caller can run the scheduler
// against a shared server or entirely offline (spec §3: items arrive
// from an external source; this is that source).
type Repository interface {
	Save(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GoalRepository is the storage boundary for goals.
type GoalRepository interface {
	Save(ctx context.Context, g *domain.Goal) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error)
}
