// Package goaldraft decomposes a goal into a draft list of tasks using an
// external LLM. It sits outside the scheduling core entirely (spec.md §1
// Non-goals): a Drafter only ever produces tasks.Task values for a human
// to review and save through the ordinary task repository, never items
// handed directly to the engine.
package goaldraft

import (
	"context"
	"errors"

	"github.com/bja1701/life-os/internal/tasks/domain"
	"github.com/google/uuid"
)

// ErrDraftingUnavailable is returned by a Drafter implementation that has
// no reachable LLM backend configured.
var ErrDraftingUnavailable = errors.New("goal drafting backend is not configured")

// Drafter turns a goal description into a list of candidate tasks. None
// of its output is scheduled automatically; callers save drafts through
// the ordinary tasks.Repository and they enter the planning horizon the
// same way any other hand-entered task does.
type Drafter interface {
	Draft(ctx context.Context, userID, goalID uuid.UUID, goalDescription string) ([]*domain.Task, error)
}

// NoopDrafter always reports that drafting is unavailable. It exists so
// callers can wire a Drafter unconditionally and only see the error path
// exercised when no real backend is configured, rather than branching on
// a nil interface at every call site.
//
// No in-pack dependency exercises an actual LLM API client, so this is
// the only Drafter implementation shipped — a documented stub, not a
// placeholder for unfinished work.
type NoopDrafter struct{}

func (NoopDrafter) Draft(context.Context, uuid.UUID, uuid.UUID, string) ([]*domain.Task, error) {
	return nil, ErrDraftingUnavailable
}
