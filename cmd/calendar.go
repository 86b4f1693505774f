package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskcal/internal/schedule"
	"taskcal/internal/store"
)

// dayMarks maps a day status to the calendar cell suffix.
var dayMarks = map[schedule.DayStatus]string{
	schedule.DayEmpty:     " ",
	schedule.DayCompleted: "*",
	schedule.DayMixed:     "~",
	schedule.DayPending:   "!",
}

func newCalendarCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month overview",
		Long: `Show a month as a calendar grid. Each day is marked with its task
state: '*' all done, '~' partly done, '!' nothing done yet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := parseMonth(month)
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

			printMonth(cmd.OutOrStdout(), st, first)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to show (YYYY-MM, default: current)")
	return cmd
}

func parseMonth(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return t, nil
}

// printMonth renders a calendar grid for the month starting at first.
func printMonth(out io.Writer, st *store.Store, first time.Time) {
	fmt.Fprintf(out, "%s\n", first.Format("January 2006"))
	fmt.Fprintln(out, "Mon  Tue  Wed  Thu  Fri  Sat  Sun")

	// Weekday offset of the first day, Monday-based.
	offset := (int(first.Weekday()) + 6) % 7
	var line strings.Builder
	line.WriteString(strings.Repeat("     ", offset))

	col := offset
	daysInMonth := first.AddDate(0, 1, -1).Day()
	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		line.WriteString(fmt.Sprintf("%2d%s  ", day, dayMarks[st.Classify(date)]))
		col++
		if col == 7 {
			fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
			line.Reset()
			col = 0
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	}
}
