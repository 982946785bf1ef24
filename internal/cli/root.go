package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ent0n29/taskctl/internal/app"
	"github.com/ent0n29/taskctl/internal/config"
)

// runner holds per-invocation state shared by every subcommand.
type runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	stdout io.Writer
	stderr io.Writer

	storePath string
	logPath   string
	driver    string

	app *app.BuildResult
}

func newRootCommand(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskctl",
		Short: "Minimal task manager",
		Long: `taskctl keeps a list of tasks in a local file (or a SQL database) and
records one line per operation in a log.

Negative priorities must follow "--", e.g. taskctl add "Defer" -- -1.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("a command is required")
			}
			return usageErrorf("unknown command %q", args[0])
		},
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&r.storePath, "store", "", "task store file (overrides TASKS_STORE_PATH)")
	pf.StringVar(&r.logPath, "log", "", "operation log file, - for stderr (overrides TASKS_LOG_PATH)")
	pf.StringVar(&r.driver, "driver", "", "store driver file|postgres|mysql (overrides TASKS_STORE_DRIVER)")

	root.AddCommand(
		newAddCommand(r),
		newListCommand(r),
		newDeleteCommand(r),
		newExportCommand(r),
	)
	return root
}

// open loads configuration, applies flag overrides and builds the store. Commands
// that touch the store run it as their PreRunE.
func (r *runner) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return &CommandError{Code: ExitConfigError, Err: err}
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.StorePath = r.storePath
	}
	if flags.Changed("log") {
		cfg.LogPath = r.logPath
		cfg.LogDisabled = false
	}
	if flags.Changed("driver") {
		cfg.StoreDriver = strings.ToLower(strings.TrimSpace(r.driver))
	}
	if err := cfg.Validate(); err != nil {
		return &CommandError{Code: ExitConfigError, Err: err}
	}

	r.ctx, r.cancel = context.WithTimeout(cmd.Context(), cfg.DBTimeout)
	built, err := app.Build(r.ctx, cfg)
	if err != nil {
		return ioError(err)
	}
	r.app = built
	return nil
}

func (r *runner) close() error {
	if r.cancel != nil {
		defer r.cancel()
	}
	if r.app == nil {
		return nil
	}
	return r.app.Cleanup()
}

// finish records the operation in the log and metrics and passes err through.
func (r *runner) finish(op string, started time.Time, err error, kv ...any) error {
	outcome := outcomeFor(err)
	r.app.Metrics.Observe(op, outcome, time.Since(started))
	fields := append([]any{"outcome", outcome}, kv...)
	if err != nil {
		fields = append(fields, "error", err)
	}
	r.app.Logger.Record(op, fields...)
	return err
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErrorf("%s expects %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// intArg checks that args[i] parses as a base-10 integer of the given bit size.
func intArg(i int, name string, bitSize int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if i >= len(args) {
			return nil
		}
		if _, err := strconv.ParseInt(args[i], 10, bitSize); err != nil {
			return usageErrorf("%s must be an integer (got %q)", name, args[i])
		}
		return nil
	}
}

func printUsage(w io.Writer, cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	fmt.Fprint(w, cmd.UsageString())
}
