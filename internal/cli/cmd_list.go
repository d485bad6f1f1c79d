package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/todo/internal/todo"
)

// newListCmd creates the list command
func newListCmd(a *app) *cobra.Command {
	var (
		status  string
		limit   int
		reverse bool
		output  string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List todos",
		Long: `List todos with the given status, oldest first.

Status 0 (or "pending") lists open todos, 1 (or "done") finished ones.

Example:
  todo list
  todo l --status 1
  todo list -n 5 --reverse
  todo list -o json`,
		Args: cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			st, err := todo.ParseStatus(status)
			if err != nil {
				return err
			}
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			todos, err := a.todos.ListTodos(cmd.Context(), todo.ListOptions{
				Status:  st,
				Limit:   limit,
				Reverse: reverse,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON, formatYAML:
				views := make([]todoView, 0, len(todos))
				for _, t := range todos {
					views = append(views, newTodoView(t))
				}
				if format == formatJSON {
					return writeJSON(out, views)
				}
				return writeYAML(out, views)
			}

			if len(todos) == 0 {
				fmt.Fprintln(out, "No todos found.")
				return nil
			}
			return writeTable(out, todos, newMarkers(out, colorEnabled(out, a.cfg.Color)))
		}),
	}

	cmd.Flags().StringVarP(&status, "status", "s", "0", "status to list: 0 (pending) or 1 (done)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of todos (0 for all)")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "newest first")
	cmd.Flags().StringVarP(&output, "output", "o", string(formatTable), "output format: table, json, yaml")

	return cmd
}
