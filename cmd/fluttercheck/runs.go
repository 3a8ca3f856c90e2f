package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/presenter"
	"github.com/flutterkit/fluttercheck/pkg/runlog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the dispatch run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent dispatch runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := runlog.Open(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := store.List(ctx, limit)
		if err != nil {
			return err
		}

		presenter.Section(fmt.Sprintf("Runs (%d)", len(records)))
		for _, record := range records {
			argv, err := record.ArgvSlice()
			if err != nil {
				argv = []string{record.Argv}
			}
			status := "ok"
			if record.ExitCode != 0 {
				status = fmt.Sprintf("exit %d", record.ExitCode)
			}
			fmt.Printf("  %s  %-24s %-8s %6dms  %s\n",
				record.StartedAt.Local().Format("2006-01-02 15:04:05"),
				record.Command+" "+record.Subcommand,
				status,
				record.DurationMS,
				strings.Join(argv, " "))
		}
		return nil
	},
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := runlog.Open(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		olderThan, _ := cmd.Flags().GetDuration("older-than")
		deleted, err := store.Prune(ctx, time.Now().Add(-olderThan))
		if err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("Pruned %d runs older than %s", deleted, olderThan))
		return nil
	},
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 for all)")
	runsPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete runs older than this duration")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsPruneCmd)
	rootCmd.AddCommand(runsCmd)
}
