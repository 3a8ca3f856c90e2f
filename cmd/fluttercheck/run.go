package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/dispatch"
	"github.com/flutterkit/fluttercheck/pkg/hooks"
	"github.com/flutterkit/fluttercheck/pkg/logger"
	"github.com/flutterkit/fluttercheck/pkg/plugin"
	"github.com/flutterkit/fluttercheck/pkg/presenter"
	"github.com/flutterkit/fluttercheck/pkg/runlog"
)

var runCmd = &cobra.Command{
	Use:   `run "<invocation>"`,
	Short: "Dispatch a skill slash command to its toolchain",
	Long: `Run parses an invocation like "/flutter-pub add dio --dev" against the
matching skill document, resolves the toolchain command line, and
executes it with hook and run-history integration.`,
	Example: `  fluttercheck run "/flutter-pub get"
  fluttercheck run "/flutter-pub add dio --dev"
  fluttercheck run "/flutter-test unit" --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		raw := args[0]

		name, _, err := dispatch.Split(raw)
		if err != nil {
			return err
		}

		discovery, err := skillDiscovery(cmd)
		if err != nil {
			return err
		}
		doc, err := discovery.Get(name)
		if err != nil {
			return err
		}

		inv, err := dispatch.Parse(raw, doc)
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		noLog, _ := cmd.Flags().GetBool("no-log")

		opts := []dispatch.RunnerOption{
			dispatch.WithDryRun(dryRun),
			dispatch.WithTimeout(timeout),
			dispatch.WithStdout(os.Stdout),
		}

		// Hooks only apply when dispatching inside a plugin
		if root, err := resolvePluginRoot(cmd); err == nil {
			p, err := plugin.Load(root)
			if err != nil {
				return err
			}
			hookConfig, err := hooks.Load(p.HooksPath())
			if err != nil {
				return err
			}
			opts = append(opts, dispatch.WithHooks(hookConfig))
		}

		if !dryRun && !noLog {
			store, err := runlog.Open(ctx)
			if err != nil {
				logger.G(ctx).WithError(err).Warn("run history unavailable")
			} else {
				defer store.Close()
				opts = append(opts, dispatch.WithRunLog(store))
			}
		}

		runner := dispatch.NewRunner(dispatch.NewRegistry(), opts...)
		result, err := runner.Dispatch(ctx, inv)

		if result != nil && result.DryRun {
			fmt.Println(strings.Join(result.Argv, " "))
			return nil
		}
		if err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("%s completed in %s (run %s)",
			doc.Slash(), result.Duration.Round(time.Millisecond), result.ID))
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "Print the resolved command line without executing")
	runCmd.Flags().Duration("timeout", dispatch.DefaultTimeout, "Execution timeout")
	runCmd.Flags().Bool("no-log", false, "Skip recording the run in the history database")
	rootCmd.AddCommand(runCmd)
}
