/*
Package config loads the server configuration.

LOAD ORDER (later wins):
  1. Defaults
  2. Optional .env file in the working directory (godotenv)
  3. Environment variables
  4. Command-line flags

ENVIRONMENT:
  PORT                HTTP server port (default: 8080)
  DB_PATH             SQLite database path (default: timesheets.db)
  DEFAULT_TIMEZONE    Timezone used when a request has no X-Timezone (default: UTC)
  APPROVAL_PREDICATE  "accepted" or "not_rejected" (default: accepted)
  REJECTED_EDITABLE   Whether rejected entries may be edited (default: true)
  REMINDER_ENABLED    Run the due-hours reminder scheduler (default: true)
  REMINDER_INTERVAL   Scheduler interval, Go duration syntax (default: 24h)
  ALLOWED_ORIGINS     Comma-separated CORS origins (default: *)

FLAGS:
  -port, -db, -tz, -env
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/timesheet-engine/timesheet"
)

type Config struct {
	Port              int
	DBPath            string
	DefaultTimezone   string
	ApprovalPredicate string
	RejectedEditable  bool
	ReminderEnabled   bool
	ReminderInterval  time.Duration
	AllowedOrigins    []string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:              8080,
		DBPath:            "timesheets.db",
		DefaultTimezone:   "UTC",
		ApprovalPredicate: string(timesheet.ApprovedStrict),
		RejectedEditable:  true,
		ReminderEnabled:   true,
		ReminderInterval:  24 * time.Hour,
		AllowedOrigins:    []string{"*"},
	}
}

// Load reads .env (if present), the environment, then args.
func Load(args []string) (Config, error) {
	envFile := ".env"
	for i, a := range args {
		if a == "-env" || a == "--env" {
			if i+1 < len(args) {
				envFile = args[i+1]
			}
		} else if v, ok := strings.CutPrefix(strings.TrimLeft(a, "-"), "env="); ok {
			envFile = v
		}
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (\":memory:\" for in-memory)")
	fs.StringVar(&cfg.DefaultTimezone, "tz", cfg.DefaultTimezone, "Default timezone for requests without X-Timezone")
	fs.String("env", envFile, "Path to an optional .env file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	if v, ok := lookup("DB_PATH"); ok && v != "" {
		c.DBPath = v
	}
	if v, ok := lookup("DEFAULT_TIMEZONE"); ok && v != "" {
		c.DefaultTimezone = v
	}
	if v, ok := lookup("APPROVAL_PREDICATE"); ok && v != "" {
		c.ApprovalPredicate = v
	}
	if v, ok := lookup("REJECTED_EDITABLE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REJECTED_EDITABLE: %w", err)
		}
		c.RejectedEditable = b
	}
	if v, ok := lookup("REMINDER_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REMINDER_ENABLED: %w", err)
		}
		c.ReminderEnabled = b
	}
	if v, ok := lookup("REMINDER_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REMINDER_INTERVAL: %w", err)
		}
		c.ReminderInterval = d
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowedOrigins = origins
	}
	return nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	var problems []string
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "db path is empty")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		problems = append(problems, fmt.Sprintf("unknown timezone %q", c.DefaultTimezone))
	}
	if _, err := timesheet.ParseApprovalPredicate(c.ApprovalPredicate); err != nil {
		problems = append(problems, err.Error())
	}
	if c.ReminderEnabled && c.ReminderInterval <= 0 {
		problems = append(problems, "reminder interval must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Policy builds the timesheet policy. Call after Validate.
func (c Config) Policy() timesheet.Policy {
	pred, _ := timesheet.ParseApprovalPredicate(c.ApprovalPredicate)
	return timesheet.Policy{RejectedEditable: c.RejectedEditable, Approved: pred}
}

// Location returns the default timezone, UTC if it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
