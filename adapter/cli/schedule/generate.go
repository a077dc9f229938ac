package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/bja1701/life-os/adapter/cli"
	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/bja1701/life-os/internal/scheduling/engine"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Short:   "Generate the schedule from current tasks and calendar occupations",
	Aliases: []string{"plan", "run"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Schedule generation requires a connected task store.")
			return nil
		}

		ctx := cmd.Context()
		tasksList, err := app.Container.TaskRepo.FindByUserID(ctx, app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}

		items := make([]scheduling.Item, 0, len(tasksList))
		for _, t := range tasksList {
			items = append(items, t.ToItem())
		}

		var occupations []scheduling.Occupation
		if app.Container.Syncer != nil {
			now := time.Now()
			horizonEnd := now.AddDate(0, 0, app.Container.Config.CalendarSyncLookAheadDays)
			occupations, err = app.Container.Syncer.PullOccupations(ctx, now, horizonEnd)
			if err != nil {
				fmt.Printf("warning: failed to pull calendar occupations: %v\n", err)
			}
		}

		result, err := app.Container.Scheduler.Generate(ctx, time.Now(), occupations, items, app.Container.SchedulingConfig())
		if err != nil {
			return fmt.Errorf("failed to generate schedule: %w", err)
		}

		printSummary(result)
		return nil
	},
}

func printSummary(result engine.Result) {
	counts := engine.Summarize(result)
	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	fmt.Printf("Scheduled %d block(s) across %d day(s)\n", len(result.ScheduledBlocks), len(days))
	for _, day := range days {
		fmt.Printf("  %s: %d block(s)\n", day, counts[day])
	}

	if len(result.Overloaded) > 0 {
		fmt.Printf("\nOverloaded (could not be placed): %d\n", len(result.Overloaded))
		for _, id := range result.Overloaded {
			fmt.Printf("  - %s\n", id)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings: %d\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  [%s] %s\n", w.Kind, w.Message)
		}
	}
}
