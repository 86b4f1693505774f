package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskcal/internal/schedule"
)

// whenLayouts are the accepted forms for --at and --day values, tried
// in order, interpreted in the local timezone.
var whenLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.RFC3339,
}

func parseWhen(s string) (time.Time, error) {
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected e.g. 2006-01-02T15:04", s)
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskEditCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskRmCmd())

	return cmd
}

func newTaskListCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  `List all tasks, or the tasks of a single day with --day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			st, err := app.taskStore(context.Background())
			if err != nil {
				return err
			}

			var tasks []schedule.Task
			if day != "" {
				d, err := parseDay(day)
				if err != nil {
					return err
				}
				tasks = st.TasksOn(d)
			} else {
				tasks = schedule.SortByTime(st.Tasks())
			}

			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only tasks of this day (YYYY-MM-DD)")
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Long: `Add a task scheduled at the given time. The name must be unique on
its day (case-insensitive) and the time must not be in the past.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseWhen(at)
			if err != nil {
				return err
			}

			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, err := app.taskStore(ctx)
			if err != nil {
				return err
			}

			if err := st.Add(ctx, args[0], when); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q at %s\n", args[0], when.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Scheduled time (e.g. 2026-09-01T15:04)")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newTaskEditCmd() *cobra.Command {
	var (
		name string
		at   string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's name or time",
		Long: `Edit a task. Omitted fields keep their current value. The edited task
is re-validated, but its own name never collides with itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, err := app.taskStore(ctx)
			if err != nil {
				return err
			}

			current, ok := st.Get(id)
			if !ok {
				return fmt.Errorf("task %d not found", id)
			}

			newName := current.Name
			if name != "" {
				newName = name
			}
			newWhen := current.ScheduledFor
			if at != "" {
				newWhen, err = parseWhen(at)
				if err != nil {
					return err
				}
			}

			if err := st.Edit(ctx, id, newName, newWhen); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New task name")
	cmd.Flags().StringVar(&at, "at", "", "New scheduled time (e.g. 2026-09-01T15:04)")
	return cmd
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, err := app.taskStore(ctx)
			if err != nil {
				return err
			}

			if err := st.Toggle(ctx, id); err != nil {
				return err
			}
			task, _ := st.Get(id)
			if task.Completed {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked done\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked pending\n", id)
			}
			return nil
		},
	}
}

func newTaskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a pending task",
		Long: `Delete a task. Completed tasks are kept as a record of done work and
cannot be deleted; toggle them back to pending first if you really
want them gone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, err := app.taskStore(ctx)
			if err != nil {
				return err
			}

			if err := st.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

func printTasks(out io.Writer, tasks []schedule.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks")
		return
	}

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSTATE\tNAME")
	for _, t := range tasks {
		state := "pending"
		if t.Completed {
			state = "done"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.ScheduledFor.Local().Format("2006-01-02 15:04"), state, t.Name)
	}
	_ = w.Flush()
}
