package engine

import (
	"time"

	"github.com/bja1701/life-os/internal/scheduling/domain"
)

// BlocksForDay returns the blocks in result whose start falls on date,
// already ordered by start (spec §6).
func BlocksForDay(result Result, date time.Time) []domain.PlacedBlock {
	var out []domain.PlacedBlock
	for _, b := range result.ScheduledBlocks {
		if domain.SameLocalDay(b.Start, date) {
			out = append(out, b)
		}
	}
	return out
}

// TotalScheduledMinutes sums the duration of blocks on date (spec §6).
func TotalScheduledMinutes(result Result, date time.Time) int {
	total := 0
	for _, b := range BlocksForDay(result, date) {
		total += b.DurationMinutes
	}
	return total
}

// IsItemScheduled reports whether any block in result belongs to itemID
// (spec §6).
func IsItemScheduled(result Result, itemID string) bool {
	for _, b := range result.ScheduledBlocks {
		if b.ItemID == itemID {
			return true
		}
	}
	return false
}

// RemainingDuration returns item's duration minus the sum of its placed
// blocks' durations, floored at zero (spec §6).
func RemainingDuration(result Result, item domain.Item) int {
	placed := 0
	for _, b := range result.ScheduledBlocks {
		if b.ItemID == item.ID {
			placed += b.DurationMinutes
		}
	}
	remaining := item.DurationMinutes - placed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ConvertToHardBookings returns a copy of result with IsVirtual cleared on
// every block whose start lies within withinDays of now — the operation
// used at the boundary when a soft plan is promoted to real calendar
// events (spec §6). The input result is never mutated.
func ConvertToHardBookings(result Result, now time.Time, withinDays int) Result {
	out := Result{
		ScheduledBlocks: make([]domain.PlacedBlock, len(result.ScheduledBlocks)),
		Overloaded:      append([]string(nil), result.Overloaded...),
		Warnings:        append([]domain.Warning(nil), result.Warnings...),
	}
	for i, b := range result.ScheduledBlocks {
		if domain.DaysUntil(b.Start, now) <= withinDays {
			b.IsVirtual = false
		}
		out.ScheduledBlocks[i] = b
	}
	return out
}

// Summarize returns the number of placed blocks per local date, keyed
// "2006-01-02"; warnings are not included. The CLI `schedule generate`
// command prints it (not part of spec.md's contract; see SPEC_FULL.md §4).
func Summarize(result Result) map[string]int {
	counts := make(map[string]int)
	for _, b := range result.ScheduledBlocks {
		counts[domain.StartOfLocalDay(b.Start).Format("2006-01-02")]++
	}
	return counts
}
