package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/generic"
)

var seedCmd = &cobra.Command{
	Use:   "seed <scenario>",
	Short: "Load a demo scenario (clears the database first)",
	Long:  "Available scenarios: " + scenarioIDs(),
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func scenarioIDs() string {
	ids := make([]string, 0, len(api.Scenarios))
	for _, s := range api.Scenarios {
		ids = append(ids, s.ID)
	}
	return strings.Join(ids, ", ")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, svc, err := openService(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := api.LoadScenario(cmd.Context(), store, svc, args[0], generic.TodayIn(cfg.Location())); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded scenario %s into %s\n", args[0], cfg.DBPath)
	return nil
}
