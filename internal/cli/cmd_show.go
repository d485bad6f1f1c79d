package cli

import (
	"github.com/spf13/cobra"

	"github.com/randalmurphal/todo/internal/todo"
)

// newShowCmd creates the show command
func newShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <uuid>",
		Short: "Show every field of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			id, err := todo.ParseUUID(args[0])
			if err != nil {
				return err
			}
			t, err := a.todos.GetTodoByUUID(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return writeJSON(out, newTodoView(t))
			case formatYAML:
				return writeYAML(out, newTodoView(t))
			default:
				return writeDetail(out, t, newMarkers(out, colorEnabled(out, a.cfg.Color)))
			}
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(formatTable), "output format: table, json, yaml")
	return cmd
}
