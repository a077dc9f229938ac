package task

import (
	"fmt"
	"time"

	"github.com/bja1701/life-os/adapter/cli"
	taskDomain "github.com/bja1701/life-os/internal/tasks/domain"
	"github.com/spf13/cobra"
)

var (
	addDuration time.Duration
	addDeadline string
	addPriority string
	addCategory string
	addSplit    bool
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Adding a task requires a connected task store.")
			return nil
		}

		title := args[0]
		for _, extra := range args[1:] {
			title += " " + extra
		}

		t, err := taskDomain.NewTask(app.CurrentUserID, title, addDuration)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		t.Category = addCategory
		t.CanSplit = addSplit

		if addPriority != "" {
			p, err := taskDomain.ParsePriority(addPriority)
			if err != nil {
				return fmt.Errorf("invalid priority: %w", err)
			}
			t.Priority = p
		}

		if addDeadline != "" {
			deadline, err := time.Parse("2006-01-02", addDeadline)
			if err != nil {
				return fmt.Errorf("invalid deadline format, use YYYY-MM-DD: %w", err)
			}
			t.Deadline = &deadline
		}

		if err := app.Container.TaskRepo.Save(cmd.Context(), t); err != nil {
			return fmt.Errorf("failed to save task: %w", err)
		}

		fmt.Println("Task created!")
		fmt.Printf("  ID: %s\n", t.ID.String())
		fmt.Printf("  Title: %s\n", t.Title)
		fmt.Printf("  Duration: %dm\n", int(t.Duration.Minutes()))
		if t.Deadline != nil {
			fmt.Printf("  Deadline: %s\n", t.Deadline.Format("Mon, Jan 2 2006"))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().DurationVar(&addDuration, "duration", 30*time.Minute, "task duration")
	addCmd.Flags().StringVar(&addDeadline, "deadline", "", "deadline, YYYY-MM-DD")
	addCmd.Flags().StringVar(&addPriority, "priority", "", "none|low|medium|high|urgent")
	addCmd.Flags().StringVar(&addCategory, "category", "", "freeform category tag")
	addCmd.Flags().BoolVar(&addSplit, "can-split", true, "allow the task to be split across multiple blocks")
}
