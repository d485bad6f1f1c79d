package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/randalmurphal/todo/internal/todo"
)

// newEditCmd creates the edit command
func newEditCmd(a *app) *cobra.Command {
	var title, date, clock, description, url string
	var clearDate, clearTime, clearDescription, clearURL bool

	cmd := &cobra.Command{
		Use:   "edit <uuid>",
		Short: "Edit a todo",
		Long: `Edit the fields of an existing todo. Only the given flags change;
everything else keeps its current value. Use the --clear-* flags to remove
an optional field.

When only --date or only --time is given, the other half of the start is
taken from the current start.

Example:
  todo edit <uuid> --title "Buy oat milk"
  todo edit <uuid> --time 18:00
  todo edit <uuid> --clear-url`,
		Args: cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			id, err := todo.ParseUUID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			patch := todo.Patch{
				Title:       fieldUpdate(flags, "title", title, ""),
				Date:        fieldUpdate(flags, "date", date, "clear-date"),
				Time:        fieldUpdate(flags, "time", clock, "clear-time"),
				Description: fieldUpdate(flags, "description", description, "clear-description"),
				URL:         fieldUpdate(flags, "url", url, "clear-url"),
			}

			if _, err := a.todos.EditTodo(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Todo updated successfully.")
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&title, "title", "t", "", "new title")
	f.StringVar(&date, "date", "", "new start date (YYYY-MM-DD)")
	f.StringVar(&clock, "time", "", "new start time (HH:MM:SS or HH:MM)")
	f.StringVarP(&description, "description", "d", "", "new description")
	f.StringVarP(&url, "url", "u", "", "new link")
	f.BoolVar(&clearDate, "clear-date", false, "remove the start date")
	f.BoolVar(&clearTime, "clear-time", false, "remove the start time")
	f.BoolVar(&clearDescription, "clear-description", false, "remove the description")
	f.BoolVar(&clearURL, "clear-url", false, "remove the link")

	cmd.MarkFlagsMutuallyExclusive("date", "clear-date")
	cmd.MarkFlagsMutuallyExclusive("time", "clear-time")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	cmd.MarkFlagsMutuallyExclusive("url", "clear-url")

	return cmd
}

// fieldUpdate maps a value flag and its optional --clear-* companion to an
// Update. Neither flag given keeps the field.
func fieldUpdate(flags *pflag.FlagSet, name, value, clearName string) todo.Update[string] {
	if clearName != "" {
		if on, _ := flags.GetBool(clearName); on {
			return todo.Clear[string]()
		}
	}
	if flags.Changed(name) {
		return todo.Set(value)
	}
	return todo.Keep[string]()
}
