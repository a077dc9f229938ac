package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/bja1701/life-os/internal/tasks"
	"github.com/bja1701/life-os/internal/tasks/domain"
	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteTaskRepository implements tasks.Repository against a local
// SQLite file, used in local mode where the scheduler runs entirely
// offline on a single machine (spec §3: the core itself has no storage
// opinion; this is one of its two interchangeable collaborators).
type SQLiteTaskRepository struct {
	db *sql.DB
}

// OpenSQLiteTaskRepository opens (creating if necessary) the database
// file at path and ensures its schema exists.
func OpenSQLiteTaskRepository(path string) (*SQLiteTaskRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(taskSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteTaskRepository{db: db}, nil
}

const taskSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	goal_id TEXT,
	category TEXT,
	title TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL,
	deadline TEXT,
	priority INTEGER NOT NULL,
	tier INTEGER NOT NULL,
	has_tier INTEGER NOT NULL,
	is_assignment INTEGER NOT NULL,
	can_split INTEGER NOT NULL,
	depends_on TEXT,
	pinned_at TEXT,
	completed INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

func (r *SQLiteTaskRepository) Save(ctx context.Context, t *domain.Task) error {
	var goalID *string
	if t.GoalID != uuid.Nil {
		id := t.GoalID.String()
		goalID = &id
	}

	deps := make([]string, 0, len(t.DependsOn))
	for _, d := range t.DependsOn {
		deps = append(deps, d.String())
	}

	t.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, user_id, goal_id, category, title, duration_minutes, deadline,
			priority, tier, has_tier, is_assignment, can_split, depends_on,
			pinned_at, completed, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			goal_id=excluded.goal_id, category=excluded.category, title=excluded.title,
			duration_minutes=excluded.duration_minutes, deadline=excluded.deadline,
			priority=excluded.priority, tier=excluded.tier, has_tier=excluded.has_tier,
			is_assignment=excluded.is_assignment, can_split=excluded.can_split,
			depends_on=excluded.depends_on, pinned_at=excluded.pinned_at,
			completed=excluded.completed, updated_at=excluded.updated_at
	`,
		t.ID.String(), t.UserID.String(), goalID, t.Category, t.Title,
		int(t.Duration.Minutes()), nullableTime(t.Deadline),
		int(t.Priority), int(t.Tier), boolToInt(t.HasTier), boolToInt(t.Assignment), boolToInt(t.CanSplit),
		strings.Join(deps, ","), nullableTime(t.PinnedAt), boolToInt(t.Completed),
		t.CreatedAt.Format(time.RFC3339Nano), t.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, selectTaskColumns+` FROM tasks WHERE id = ?`, id.String())
	t, err := scanSQLiteTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tasks.ErrTaskNotFound
	}
	return t, err
}

func (r *SQLiteTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTaskColumns+` FROM tasks WHERE user_id = ?`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	return err
}

const selectTaskColumns = `
	SELECT id, user_id, goal_id, category, title, duration_minutes, deadline,
	       priority, tier, has_tier, is_assignment, can_split, depends_on,
	       pinned_at, completed, created_at, updated_at`

func scanSQLiteTask(row scannable) (*domain.Task, error) {
	var (
		id, userID, title, category                      string
		goalID, deadline, pinnedAt, dependsOn             sql.NullString
		durationMinutes, priority, tier                   int
		hasTier, isAssignment, canSplit, completed        int
		createdAt, updatedAt                              string
	)

	if err := row.Scan(
		&id, &userID, &goalID, &category, &title, &durationMinutes, &deadline,
		&priority, &tier, &hasTier, &isAssignment, &canSplit, &dependsOn,
		&pinnedAt, &completed, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	t := &domain.Task{
		Title:      title,
		Category:   category,
		Duration:   time.Duration(durationMinutes) * time.Minute,
		Priority:   domain.Priority(priority),
		Tier:       scheduling.Tier(tier),
		HasTier:    hasTier != 0,
		Assignment: isAssignment != 0,
		CanSplit:   canSplit != 0,
		Completed:  completed != 0,
	}
	t.ID, _ = uuid.Parse(id)
	t.UserID, _ = uuid.Parse(userID)
	if goalID.Valid {
		t.GoalID, _ = uuid.Parse(goalID.String)
	}
	if deadline.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, deadline.String); err == nil {
			t.Deadline = &ts
		}
	}
	if pinnedAt.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, pinnedAt.String); err == nil {
			t.PinnedAt = &ts
		}
	}
	if dependsOn.Valid && dependsOn.String != "" {
		for _, raw := range strings.Split(dependsOn.String, ",") {
			if parsed, err := uuid.Parse(raw); err == nil {
				t.DependsOn = append(t.DependsOn, parsed)
			}
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		t.UpdatedAt = ts
	}

	return t, nil
}

func nullableTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
