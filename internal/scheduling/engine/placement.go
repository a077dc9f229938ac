package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/bja1701/life-os/internal/scheduling/domain"
)

const minGapMinutes = 30

// run holds the mutable state of a single generate-schedule invocation.
// It is never shared across calls and never touches anything outside
// itself, which is what keeps GenerateSchedule a pure function despite
// its internal state machine (spec §5, §9: "no globals").
type run struct {
	now            time.Time
	planningStart  time.Time
	horizonLastDay time.Time
	occupations    []domain.Occupation
	cfg            domain.Config

	placed     []domain.PlacedBlock
	placedSet  map[string]bool
	velocity   map[string]map[string]int // dateKey -> goalID -> count
	overloaded []string
}

func dateKey(t time.Time) string {
	return domain.StartOfLocalDay(t).Format("2006-01-02")
}

// blockID is a deterministic function of (item-id, chunk-index), never a
// counter seeded from wall-clock or randomness (spec §5, §9).
func blockID(itemID string, chunkIndex int) string {
	return fmt.Sprintf("%s#%d", itemID, chunkIndex)
}

func (r *run) dependenciesSatisfied(it domain.Item) bool {
	for _, dep := range it.DependsOn {
		if !r.placedSet[dep] {
			return false
		}
	}
	return true
}

func (r *run) deadlineOrHorizon(it domain.Item) time.Time {
	if it.Deadline == nil {
		return r.horizonLastDay
	}
	dl := domain.StartOfLocalDay(*it.Deadline)
	if dl.After(r.horizonLastDay) {
		return r.horizonLastDay
	}
	return dl
}

func (r *run) velocityCount(day time.Time, goalID string) int {
	byGoal := r.velocity[dateKey(day)]
	if byGoal == nil {
		return 0
	}
	return byGoal[goalID]
}

func (r *run) incrementVelocity(day time.Time, goalID string) {
	key := dateKey(day)
	if r.velocity[key] == nil {
		r.velocity[key] = make(map[string]int)
	}
	r.velocity[key][goalID]++
}

// placeItem runs the per-chunk state machine of spec §4.6 for a single
// floating item. It stages every chunk's block in a local buffer and
// returns the buffer only if every chunk placed, incrementing the velocity
// counters at that point; the caller appends the returned blocks to
// r.placed. An unplaced chunk discards the whole buffer rather than
// leaving stray partial placements (spec §9, "Partial chunk emission").
func (r *run) placeItem(it domain.Item) ([]domain.PlacedBlock, bool, *domain.Warning) {
	deadlineOrHorizon := r.deadlineOrHorizon(it)
	chunks := chunksFor(it, r.planningStart, deadlineOrHorizon)

	staged := make([]domain.PlacedBlock, 0, len(chunks))
	stagedPlaced := make([]domain.PlacedBlock, 0, len(chunks)) // for gap visibility while staging
	var famWarning *domain.Warning
	stagedVelocity := make(map[string]int) // dateKey -> staged blocks for it.GoalID

	for _, chunk := range chunks {
		day := chunk.PreferredDay
		placedThisChunk := false

		for !day.After(deadlineOrHorizon) {
			if domain.IsSunday(day) {
				day = domain.AddDays(day, 1)
				continue
			}

			if it.GoalID != "" && r.velocityCount(day, it.GoalID)+stagedVelocity[dateKey(day)] >= r.cfg.MaxItemsPerGoalPerDay {
				day = domain.AddDays(day, 1)
				continue
			}

			allPlaced := append(append([]domain.PlacedBlock{}, r.placed...), stagedPlaced...)
			gaps := gapsInDay(day, r.occupations, allPlaced, r.cfg)

			var regular, family []domain.FreeInterval
			for _, g := range gaps {
				if g.DurationMinutes() < minGapMinutes {
					continue
				}
				if g.StartHour() < r.cfg.FamilyTimeStartHour {
					regular = append(regular, g)
				} else {
					family = append(family, g)
				}
			}

			sort.SliceStable(regular, func(i, j int) bool {
				si := score(regular[i], it, chunk.DurationMinutes, r.cfg)
				sj := score(regular[j], it, chunk.DurationMinutes, r.cfg)
				if si != sj {
					return si > sj
				}
				return regular[i].Start.Before(regular[j].Start)
			})

			var chosen *domain.FreeInterval
			for i := range regular {
				if regular[i].DurationMinutes() >= chunk.DurationMinutes {
					chosen = &regular[i]
					break
				}
			}

			usedFamilyOverride := false
			if chosen == nil && it.IsAssignment && it.Deadline != nil && len(regular) == 0 {
				if it.Deadline.Sub(day) <= 24*time.Hour {
					for i := range family {
						if family[i].DurationMinutes() >= chunk.DurationMinutes {
							chosen = &family[i]
							usedFamilyOverride = true
							break
						}
					}
				}
			}

			if chosen != nil {
				start := chosen.Start
				end := start.Add(time.Duration(chunk.DurationMinutes) * time.Minute)
				block := domain.PlacedBlock{
					ID:              blockID(it.ID, chunk.ChunkIndex),
					ItemID:          it.ID,
					Title:           it.Title,
					Start:           start,
					End:             end,
					DurationMinutes: chunk.DurationMinutes,
					Tier:            it.EffectiveTier(),
					ChunkIndex:      chunk.ChunkIndex,
					TotalChunks:     chunk.TotalChunks,
					IsCompleted:     it.Status == domain.StatusCompleted,
				}
				staged = append(staged, block)
				stagedPlaced = append(stagedPlaced, block)
				if it.GoalID != "" {
					stagedVelocity[dateKey(day)]++
				}
				if usedFamilyOverride {
					famWarning = &domain.Warning{
						Kind:    domain.WarningFamilyTimeCompromised,
						Message: fmt.Sprintf("item %s placed into family time on %s", it.ID, dateKey(day)),
						ItemID:  it.ID,
					}
				}
				placedThisChunk = true
				break
			}

			day = domain.AddDays(day, 1)
		}

		if !placedThisChunk {
			return nil, false, nil
		}
	}

	if it.GoalID != "" {
		for _, b := range staged {
			r.incrementVelocity(b.Start, it.GoalID)
		}
	}
	return staged, true, famWarning
}

// antiCrammingAudit implements the post-pass described in spec §4.6: for
// every split item with a deadline, if more than half its total placed
// duration landed on the deadline day, emit AntiCrammingViolated.
func antiCrammingAudit(items []domain.Item, placed []domain.PlacedBlock) []domain.Warning {
	byItem := make(map[string][]domain.PlacedBlock)
	for _, b := range placed {
		byItem[b.ItemID] = append(byItem[b.ItemID], b)
	}

	var warnings []domain.Warning
	for _, it := range items {
		if !it.CanSplit || it.Deadline == nil {
			continue
		}
		blocks := byItem[it.ID]
		if len(blocks) <= 1 {
			continue
		}
		deadlineDay := domain.StartOfLocalDay(*it.Deadline)
		var total, onDeadlineDay int
		for _, b := range blocks {
			total += b.DurationMinutes
			if domain.SameLocalDay(b.Start, deadlineDay) {
				onDeadlineDay += b.DurationMinutes
			}
		}
		if total == 0 {
			continue
		}
		if float64(onDeadlineDay)/float64(total) > 0.5 {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarningAntiCrammingViolated,
				Message: fmt.Sprintf("item %s scheduled more than half its duration on its deadline day", it.ID),
				ItemID:  it.ID,
			})
		}
	}
	return warnings
}
