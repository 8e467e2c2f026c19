package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/generic"
)

var (
	weekDate string
	weekDir  string
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the canonical week window of a date",
	Long: `Weeks run Sunday to Saturday and are clipped to the month, so a week
that crosses a month boundary is two windows.`,
	Args: cobra.NoArgs,
	RunE: runWeek,
}

func init() {
	weekCmd.Flags().StringVar(&weekDate, "date", "", "Date (YYYY-MM-DD, default today)")
	weekCmd.Flags().StringVar(&weekDir, "dir", "", "Page to the prev or next window")
}

func runWeek(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	day := generic.TodayIn(cfg.Location())
	if weekDate != "" {
		if day, err = generic.ParseDate("date", weekDate); err != nil {
			return err
		}
	}
	window := generic.WeekRange(day)
	if weekDir != "" {
		dir, err := generic.ParseDirection(weekDir)
		if err != nil {
			return err
		}
		window = generic.ShiftWeek(window, dir)
		day = window.Start
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Date:      %s (%s)\n", day, day.DayAbbrev())
	fmt.Fprintf(out, "Window:    %s (%d days)\n", window.Label(), window.Length())
	fmt.Fprintf(out, "Full week: %s\n", generic.FullWeek(day).Label())
	fmt.Fprintf(out, "Previous:  %s\n", generic.ShiftWeek(window, generic.DirectionPrev).Label())
	fmt.Fprintf(out, "Next:      %s\n", generic.ShiftWeek(window, generic.DirectionNext).Label())
	return nil
}
