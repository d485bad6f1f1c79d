package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/todo/internal/todo"
)

// newAddCmd creates the add command
func newAddCmd(a *app) *cobra.Command {
	var date, clock, description, url string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new todo",
		Long: `Add a new pending todo.

The start defaults to now when neither --date nor --time is given. With only
--date the start is midnight UTC of that day; with only --time it is that
time today (UTC).

Example:
  todo add "Buy milk"
  todo add "Dentist" --date 2024-03-01 --time 09:30
  todo add "Read paper" -u https://example.com/paper.pdf -d "section 3"`,
		Args: cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			in := todo.NewTodo{
				Title:       args[0],
				Date:        changedString(flags.Changed("date"), date),
				Time:        changedString(flags.Changed("time"), clock),
				Description: changedString(flags.Changed("description"), description),
				URL:         changedString(flags.Changed("url"), url),
			}

			created, err := a.todos.AddTodo(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Todo created successfully.")
			if !a.quiet {
				fmt.Fprintf(out, "uuid: %s\n", created.UUID)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "start time (HH:MM:SS or HH:MM)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-form description")
	cmd.Flags().StringVarP(&url, "url", "u", "", "related link")

	return cmd
}

// changedString returns &v when the flag was given, nil otherwise.
func changedString(changed bool, v string) *string {
	if !changed {
		return nil
	}
	return &v
}
