package task

import (
	"fmt"

	"github.com/bja1701/life-os/adapter/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Listing tasks requires a connected task store.")
			return nil
		}

		tasks, err := app.Container.TaskRepo.FindByUserID(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks yet. Use 'life-os task add <title>' to create one.")
			return nil
		}

		for _, t := range tasks {
			status := "[ ]"
			if t.Completed {
				status = "[x]"
			}
			fmt.Printf("%s %s  %s (%dm, %s)\n", status, t.ID.String()[:8], t.Title, int(t.Duration.Minutes()), t.EffectiveTier())
			if t.Deadline != nil {
				fmt.Printf("    due %s\n", t.Deadline.Format("Mon, Jan 2 2006"))
			}
		}
		return nil
	},
}
