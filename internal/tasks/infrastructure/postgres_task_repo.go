package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/bja1701/life-os/internal/tasks"
	"github.com/bja1701/life-os/internal/tasks/domain"
	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTaskRepository implements tasks.Repository against a shared
// Postgres server, used whenever the scheduler runs against a synced,
// multi-device account rather than a single offline machine.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository opens a repository backed by pool.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Save upserts a task, changing nothing beyond the row's columns and
// updated_at. There is no optimistic-locking check: a concurrent edit
// made after the caller's FindByID is overwritten (last write wins).
func (r *PostgresTaskRepository) Save(ctx context.Context, t *domain.Task) error {
	var goalID *uuid.UUID
	if t.GoalID != uuid.Nil {
		goalID = &t.GoalID
	}

	var deps []string
	for _, d := range t.DependsOn {
		deps = append(deps, d.String())
	}

	query := `
		INSERT INTO tasks (
			id, user_id, goal_id, category, title, duration_minutes, deadline,
			priority, tier, has_tier, is_assignment, can_split, depends_on,
			pinned_at, completed, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO UPDATE SET
			goal_id = EXCLUDED.goal_id,
			category = EXCLUDED.category,
			title = EXCLUDED.title,
			duration_minutes = EXCLUDED.duration_minutes,
			deadline = EXCLUDED.deadline,
			priority = EXCLUDED.priority,
			tier = EXCLUDED.tier,
			has_tier = EXCLUDED.has_tier,
			is_assignment = EXCLUDED.is_assignment,
			can_split = EXCLUDED.can_split,
			depends_on = EXCLUDED.depends_on,
			pinned_at = EXCLUDED.pinned_at,
			completed = EXCLUDED.completed,
			updated_at = NOW()
	`

	t.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		t.ID, t.UserID, goalID, t.Category, t.Title,
		int(t.Duration.Minutes()), t.Deadline,
		int(t.Priority), int(t.Tier), t.HasTier, t.Assignment, t.CanSplit,
		deps, t.PinnedAt, t.Completed, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// FindByID retrieves a task by its ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, user_id, goal_id, category, title, duration_minutes, deadline,
		       priority, tier, has_tier, is_assignment, can_split, depends_on,
		       pinned_at, completed, created_at, updated_at
		FROM tasks WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tasks.ErrTaskNotFound
	}
	return t, err
}

// FindByUserID retrieves every task owned by userID.
func (r *PostgresTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, user_id, goal_id, category, title, duration_minutes, deadline,
		       priority, tier, has_tier, is_assignment, can_split, depends_on,
		       pinned_at, completed, created_at, updated_at
		FROM tasks WHERE user_id = $1
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes a task by ID.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (*domain.Task, error) {
	var t domain.Task
	var goalID *uuid.UUID
	var priority, tier int
	var deps []string

	if err := row.Scan(
		&t.ID, &t.UserID, &goalID, &t.Category, &t.Title,
		&durationMinutesScanner{&t.Duration}, &t.Deadline,
		&priority, &tier, &t.HasTier, &t.Assignment, &t.CanSplit,
		&deps, &t.PinnedAt, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if goalID != nil {
		t.GoalID = *goalID
	}
	t.Priority = domain.Priority(priority)
	t.Tier = scheduling.Tier(tier)
	for _, d := range deps {
		if parsed, err := uuid.Parse(d); err == nil {
			t.DependsOn = append(t.DependsOn, parsed)
		}
	}
	return &t, nil
}

// durationMinutesScanner adapts an integer minutes column to a
// time.Duration field without a second intermediate variable at every
// call site.
type durationMinutesScanner struct {
	dst *time.Duration
}

func (s *durationMinutesScanner) Scan(src any) error {
	minutes, ok := src.(int64)
	if !ok {
		if m, ok := src.(int32); ok {
			minutes = int64(m)
		}
	}
	*s.dst = time.Duration(minutes) * time.Minute
	return nil
}
