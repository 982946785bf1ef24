package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ent0n29/taskctl/internal/export"
	"github.com/ent0n29/taskctl/internal/tasks"
)

func newAddCommand(r *runner) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "add <description> <priority>",
		Short:   "Add a task",
		Example: `  taskctl add "Buy milk" 2`,
		Args:    cobra.MatchAll(exactArgs(2), intArg(1, "priority", strconv.IntSize)),
		PreRunE: r.open,
		RunE: func(_ *cobra.Command, args []string) error {
			started := time.Now()
			priority, _ := strconv.Atoi(args[1])

			task, err := r.app.Store.AddTask(r.ctx, args[0], priority)
			if err != nil {
				if errors.Is(err, tasks.ErrInvalidTask) {
					err = usageErrorf("%v", err)
				} else {
					err = ioError(fmt.Errorf("add task: %w", err))
				}
				return r.finish("add", started, err, "priority", priority, "description", args[0])
			}
			if asJSON {
				err = writeJSON(r.stdout, task)
			} else {
				_, err = fmt.Fprintf(r.stdout, "Added task %d: %s (priority %d)\n", task.ID, task.Description, task.Priority)
			}
			return r.finish("add", started, writeErr(err),
				"id", task.ID, "priority", task.Priority, "description", task.Description)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the created task as JSON")
	return cmd
}

func newListCommand(r *runner) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List all tasks in insertion order",
		Args:    exactArgs(0),
		PreRunE: r.open,
		RunE: func(_ *cobra.Command, _ []string) error {
			started := time.Now()
			list, err := r.app.Store.ListTasks(r.ctx)
			if err != nil {
				return r.finish("list", started, ioError(fmt.Errorf("list tasks: %w", err)))
			}
			r.app.Metrics.SetStoredTasks(len(list))
			if asJSON {
				err = writeJSON(r.stdout, list)
			} else {
				err = printTable(r.stdout, list)
			}
			return r.finish("list", started, writeErr(err), "count", len(list))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tasks as a JSON array")
	return cmd
}

func newDeleteCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a task by id",
		Example: "  taskctl delete 1",
		Args:    cobra.MatchAll(exactArgs(1), intArg(0, "id", 64)),
		PreRunE: r.open,
		RunE: func(_ *cobra.Command, args []string) error {
			started := time.Now()
			id, _ := strconv.ParseInt(args[0], 10, 64)

			found, err := r.app.Store.DeleteTask(r.ctx, id)
			if err != nil {
				return r.finish("delete", started, ioError(fmt.Errorf("delete task: %w", err)), "id", id)
			}
			if !found {
				err = &CommandError{Code: ExitNotFound, Err: fmt.Errorf("task %d not found", id)}
				return r.finish("delete", started, err, "id", id, "found", false)
			}
			_, err = fmt.Fprintf(r.stdout, "Deleted task %d\n", id)
			return r.finish("delete", started, writeErr(err), "id", id, "found", true)
		},
	}
}

func newExportCommand(r *runner) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export all tasks as " + strings.Join(export.Formats, ", "),
		Example: "  taskctl export --format csv --out tasks.csv",
		Args:    exactArgs(0),
		PreRunE: r.open,
		RunE: func(_ *cobra.Command, _ []string) error {
			started := time.Now()
			list, err := r.app.Store.ListTasks(r.ctx)
			if err != nil {
				return r.finish("export", started, ioError(fmt.Errorf("list tasks: %w", err)), "format", format)
			}
			data, err := export.Export(list, format)
			if err != nil {
				return r.finish("export", started, usageErrorf("%v", err), "format", format)
			}
			if out == "" || out == "-" {
				_, err = r.stdout.Write(data)
				err = writeErr(err)
			} else if werr := os.WriteFile(out, data, 0o644); werr != nil {
				err = ioError(fmt.Errorf("write export: %w", werr))
			}
			return r.finish("export", started, err, "format", format, "count", len(list), "out", out)
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "output format: "+strings.Join(export.Formats, "|"))
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty or -")
	return cmd
}

func printTable(w io.Writer, list []tasks.Task) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRIORITY\tDESCRIPTION")
	for _, t := range list {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", t.ID, t.Priority, t.Description)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeErr(err error) error {
	if err == nil {
		return nil
	}
	return ioError(fmt.Errorf("write output: %w", err))
}
