package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAgendaCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show the tasks of one day",
		Long:  `Show the tasks of a single day (today by default), sorted by time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDay(day)
			if err != nil {
				return err
			}

			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			st, err := app.taskStore(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", d.Format("Monday, 2 January 2006"), st.Classify(d))
			printTasks(out, st.TasksOn(d))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to show (YYYY-MM-DD, default: today)")
	return cmd
}
