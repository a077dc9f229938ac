package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/bja1701/life-os/adapter/cli"
	scheduling "github.com/bja1701/life-os/internal/scheduling/domain"
	"github.com/bja1701/life-os/internal/scheduling/engine"
	"github.com/spf13/cobra"
)

var showDate string

var showCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the schedule for a day",
	Aliases: []string{"today", "view"},
	Long: `Display the schedule for today or a specific date.

Examples:
  life-os schedule show
  life-os schedule show --date 2026-03-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Schedule viewing requires a connected task store.")
			return nil
		}

		date := time.Now()
		if showDate != "" {
			parsed, err := time.Parse("2006-01-02", showDate)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
			date = parsed
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

		result, err := app.Container.Scheduler.Generate(ctx, time.Now(), nil, items, app.Container.SchedulingConfig())
		if err != nil {
			return fmt.Errorf("failed to generate schedule: %w", err)
		}

		blocks := engine.BlocksForDay(result, date)

		fmt.Printf("Schedule for %s\n", date.Format("Monday, January 2, 2006"))
		fmt.Println(strings.Repeat("=", 60))

		if len(blocks) == 0 {
			fmt.Println("\n  No scheduled blocks.")
			return nil
		}

		for _, b := range blocks {
			status := "[ ]"
			if b.IsCompleted {
				status = "[x]"
			}
			fmt.Printf("\n%s %s - %s  %s (%dm)\n",
				status, b.Start.Format("15:04"), b.End.Format("15:04"), b.Title, b.DurationMinutes)
			fmt.Printf("    Tier: %s | ID: %s\n", b.Tier, b.ID)
		}

		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("Total: %d block(s), %dm scheduled\n", len(blocks), engine.TotalScheduledMinutes(result, date))
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "date to show, YYYY-MM-DD (default today)")
}
