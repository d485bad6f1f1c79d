package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/todo/internal/todo"
)

// newDoneCmd creates the done command
func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <uuid>",
		Short: "Mark a todo as done",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return a.setDone(cmd, args[0], true)
		}),
	}
}

// newUndoneCmd creates the undone command
func newUndoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undone <uuid>",
		Short: "Mark a todo as not done",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return a.setDone(cmd, args[0], false)
		}),
	}
}

func (a *app) setDone(cmd *cobra.Command, rawID string, done bool) error {
	id, err := todo.ParseUUID(rawID)
	if err != nil {
		return err
	}
	if err := a.todos.SetTodoDone(cmd.Context(), id, done); err != nil {
		return err
	}

	if done {
		fmt.Fprintln(cmd.OutOrStdout(), "Todo marked as done.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Todo marked as undone.")
	}
	return nil
}
