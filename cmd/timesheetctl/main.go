/*
timesheetctl - Command-line companion of the timesheet server

PURPOSE:
  Works directly on the server's SQLite database for tasks that do not need
  the HTTP API: exporting reports, checking week windows and seeding demo
  data.

COMMANDS:
  report   Project/employee report as a table, JSON or PDF
  week     Canonical week window of a date
  seed     Load a demo scenario (resets the database)

CONFIGURATION:
  Settings come from config.Load (.env file and environment). --db, --tz
  and --approved override them.

EXAMPLES:
  timesheetctl week --date 2025-03-01 --dir next
  timesheetctl report --kind project_summary --year 2025 --month 3
  timesheetctl report --kind employee_detail --start 2025-03-01 --end 2025-03-31 --format pdf --out march.pdf
  timesheetctl seed small-team --db ./timesheets.db
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/config"
	"github.com/warp/timesheet-engine/store/sqlite"
	"github.com/warp/timesheet-engine/timesheet"
)

var (
	dbPath       string
	timezone     string
	approvedRule string
)

var rootCmd = &cobra.Command{
	Use:   "timesheetctl",
	Short: "Timesheet engine CLI - reports, week windows and demo data",
	Long: `timesheetctl works directly on the timesheet engine's SQLite database.
Run it next to the server or against a copy of its database file.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", "", "Timezone used for \"today\" (default from config)")
	rootCmd.PersistentFlags().StringVar(&approvedRule, "approved", "", "Approved-hours rule: accepted or not_rejected")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(seedCmd)
}

// loadConfig reads the shared configuration and applies the persistent flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return cfg, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if timezone != "" {
		cfg.DefaultTimezone = timezone
	}
	if approvedRule != "" {
		cfg.ApprovalPredicate = approvedRule
	}
	return cfg, cfg.Validate()
}

// openService opens the store and wires a service on top of it.
func openService(cfg config.Config) (*sqlite.Store, *timesheet.Service, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	return store, api.NewService(store, cfg.Policy()), nil
}

// operator is the acting user of CLI commands. Admins see every user's hours.
func operator(cfg config.Config) timesheet.ActingUser {
	return timesheet.ActingUser{ID: "timesheetctl", Role: timesheet.RoleAdmin, Timezone: cfg.Location()}
}
