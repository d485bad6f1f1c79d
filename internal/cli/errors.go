package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	todoerrors "github.com/randalmurphal/todo/internal/errors"
)

// commandError marks a failure raised by a command body, as opposed to one
// raised while parsing arguments or preparing the environment.
type commandError struct {
	err error
}

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

// runE adapts a command body so its errors are reported as command errors.
func runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &commandError{err: err}
		}
		return nil
	}
}

// failsProcess reports whether err should end the process with a failing
// status. Failures inside a command keep a zero status unless their
// category is fatal; errors raised outside a command body always fail.
func failsProcess(err error) bool {
	if todoErr := todoerrors.AsTodoError(err); todoErr != nil && todoErr.Category().Fatal() {
		return true
	}
	var cmdErr *commandError
	return !errors.As(err, &cmdErr)
}

// PrintError writes err to w. A TodoError is shown in its user-friendly
// form; verbose adds its code and cause.
func PrintError(w io.Writer, err error, verbose bool) {
	if todoErr := todoerrors.AsTodoError(err); todoErr != nil {
		fmt.Fprintln(w, todoErr.UserMessage())
		if verbose {
			fmt.Fprintf(w, "\nCode: %s\n", todoErr.Code)
			if todoErr.Cause != nil {
				fmt.Fprintf(w, "Cause: %v\n", todoErr.Cause)
			}
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
