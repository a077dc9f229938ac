package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/bja1701/life-os/internal/scheduling/domain"
)

// Result is the output of GenerateSchedule: a concrete placement for
// every item that fit, the IDs of items that did not, and the
// diagnostics collected along the way (spec §3, §6).
type Result struct {
	ScheduledBlocks []domain.PlacedBlock
	Overloaded      []string
	Warnings        []domain.Warning
}

// GenerateSchedule is the core's single entry point (spec §2, §6): a
// pure, synchronous, total function of (now, occupations, items, config).
// Identical arguments always produce identical output (spec invariant 6).
func GenerateSchedule(now time.Time, occupations []domain.Occupation, items []domain.Item, cfg domain.Config) Result {
	cfg = cfg.WithDefaults()
	planningStart := domain.StartOfLocalDay(now)
	horizonLastDay := domain.AddDays(planningStart, cfg.PlanningHorizonDays)

	validOccupations := make([]domain.Occupation, 0, len(occupations))
	for _, o := range occupations {
		if o.Valid() {
			validOccupations = append(validOccupations, o)
		}
	}

	r := &run{
		now:            now,
		planningStart:  planningStart,
		horizonLastDay: horizonLastDay,
		occupations:    validOccupations,
		cfg:            cfg,
		placed:         make([]domain.PlacedBlock, 0, len(items)),
		placedSet:      make(map[string]bool, len(items)),
		velocity:       make(map[string]map[string]int),
	}

	var pinned, floating []domain.Item
	var validItems []domain.Item
	for _, it := range items {
		if !it.Valid() {
			continue
		}
		validItems = append(validItems, it)
		if it.IsPinned() {
			pinned = append(pinned, it)
		} else {
			floating = append(floating, it)
		}
	}

	// Pass 1 — pinned placements, in a stable deterministic order so two
	// runs with the same input never differ in which pinned block is
	// emitted first (spec §4.6, invariant 7).
	sort.SliceStable(pinned, func(i, j int) bool { return pinned[i].ID < pinned[j].ID })
	for _, it := range pinned {
		start := *it.PinnedStart
		block := domain.PlacedBlock{
			ID:              blockID(it.ID, 0),
			ItemID:          it.ID,
			Title:           it.Title,
			Start:           start,
			End:             start.Add(it.Duration()),
			DurationMinutes: it.DurationMinutes,
			Tier:            it.EffectiveTier(),
			ChunkIndex:      0,
			TotalChunks:     1,
			IsCompleted:     it.Status == domain.StatusCompleted,
		}
		r.placed = append(r.placed, block)
		r.placedSet[it.ID] = true
	}

	// Pass 2 — floating placements, prioritized.
	ordered := prioritize(floating, now)
	var warnings []domain.Warning
	for _, it := range ordered {
		if !r.dependenciesSatisfied(it) {
			continue
		}

		blocks, ok, famWarning := r.placeItem(it)
		if !ok {
			r.overloaded = append(r.overloaded, it.ID)
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarningOverloaded,
				Message: fmt.Sprintf("item %s could not be fully placed within its deadline or the planning horizon", it.ID),
				ItemID:  it.ID,
			})
			continue
		}

		r.placed = append(r.placed, blocks...)
		r.placedSet[it.ID] = true
		if famWarning != nil {
			warnings = append(warnings, *famWarning)
		}
	}

	warnings = append(warnings, antiCrammingAudit(validItems, r.placed)...)

	for i := range r.placed {
		r.placed[i].IsVirtual = domain.DaysUntil(r.placed[i].Start, now) > cfg.PlanningHorizonDays
	}

	sort.SliceStable(r.placed, func(i, j int) bool {
		if !r.placed[i].Start.Equal(r.placed[j].Start) {
			return r.placed[i].Start.Before(r.placed[j].Start)
		}
		return r.placed[i].ID < r.placed[j].ID
	})

	return Result{
		ScheduledBlocks: r.placed,
		Overloaded:      r.overloaded,
		Warnings:        warnings,
	}
}
