// Package schedule implements the `life-os schedule` command group.
package schedule

import (
	"github.com/bja1701/life-os/adapter/cli"
	"github.com/spf13/cobra"
)

// Cmd is the `schedule` command group, grounded on the teacher's
// `adapter/cli/schedule` package of the same shape (add/show/week/...).
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Generate and inspect the schedule",
}

func init() {
	Cmd.AddCommand(generateCmd, showCmd)
	cli.RootCmd().AddCommand(Cmd)
}
