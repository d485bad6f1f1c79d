// Package cli implements the todo command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/todo/internal/config"
	"github.com/randalmurphal/todo/internal/db"
	todoerrors "github.com/randalmurphal/todo/internal/errors"
)

// Command annotations that let a command opt out of setup work.
const (
	annotationNoConfig       = "todo/no-config"
	annotationNoStore        = "todo/no-store"
	annotationConfigOptional = "todo/config-optional"
)

// app is the per-invocation state shared by all commands.
type app struct {
	cfgFile string
	verbose bool
	quiet   bool

	cfg   *config.Config
	store *db.DB
	todos *db.TodoDB

	logFile io.Closer
	prevLog *slog.Logger
}

// newRootCmd builds the command tree. Each call returns a fresh tree so
// flag state never leaks between invocations.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A small todo list for the terminal",
		Long: `todo keeps a list of tasks in a local SQLite database (~/.todo/todo.db).

Quick start:
  todo add "Buy milk" --date 2024-01-01
  todo list
  todo done <uuid>
  todo edit <uuid> --title "Buy oat milk"`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return a.teardown() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.todo/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-essential output")
	pf.String("db", "", "database file (default is ~/.todo/todo.db)")
	pf.String("color", config.ColorAuto, "colorize output: auto, always, never")

	root.AddCommand(newAddCmd(a))
	root.AddCommand(newDoneCmd(a))
	root.AddCommand(newUndoneCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())

	// cobra's own help and completion commands only print text.
	root.InitDefaultHelpCmd()
	root.InitDefaultCompletionCmd()
	for _, c := range root.Commands() {
		switch c.Name() {
		case "help", "completion":
			c.Annotations = map[string]string{annotationNoConfig: ""}
		}
	}

	return root, a
}

// Execute runs the CLI against the process arguments and standard streams.
// A non-nil error means the process should exit with a failing status.
func Execute() error {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer func() { _ = a.teardown() }()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	PrintError(stderr, err, a.verbose)
	if failsProcess(err) {
		return err
	}
	return nil
}

// setup loads configuration, installs logging and opens the store.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if hasAnnotation(cmd, annotationNoConfig) || isCompletionRequest(cmd) {
		return nil
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile:   a.cfgFile,
		AllowMissing: hasAnnotation(cmd, annotationConfigOptional),
		Flags:        cmd.Flags(),
	})
	if err != nil {
		return err
	}
	if err := config.EnsureAppDir(cfg.Home); err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.setupLogging(cmd.ErrOrStderr()); err != nil {
		return err
	}
	slog.Debug("config loaded", "home", cfg.Home, "file", cfg.ConfigFile, "driver", cfg.Database.Driver)

	if hasAnnotation(cmd, annotationNoStore) {
		return nil
	}

	store, err := db.OpenWithDialect(cfg.DSN(), cfg.Dialect())
	if err != nil {
		return todoerrors.ErrStorage("open database", err)
	}
	a.store = store
	a.todos = db.NewTodoDB(store)
	return nil
}

// teardown releases everything setup acquired. Safe to call repeatedly.
func (a *app) teardown() error {
	var errs []error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
		a.store = nil
		a.todos = nil
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
		a.logFile = nil
	}
	if a.prevLog != nil {
		slog.SetDefault(a.prevLog)
		a.prevLog = nil
	}
	return errors.Join(errs...)
}

// isCompletionRequest reports whether cmd is the hidden command cobra adds
// while a shell asks for completions.
func isCompletionRequest(cmd *cobra.Command) bool {
	return cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == cobra.ShellCompNoDescRequestCmd
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[key]; ok {
			return true
		}
	}
	return false
}
