// Package task implements the `life-os task` command group.
package task

import (
	"github.com/bja1701/life-os/adapter/cli"
	"github.com/spf13/cobra"
)

// Cmd is the `task` command group.
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage schedulable tasks",
}

func init() {
	Cmd.AddCommand(addCmd, listCmd)
	cli.RootCmd().AddCommand(Cmd)
}
