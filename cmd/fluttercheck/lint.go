package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/lint"
	"github.com/flutterkit/fluttercheck/pkg/logger"
	"github.com/flutterkit/fluttercheck/pkg/presenter"
)

// debounceDelay coalesces rapid editor save events in watch mode.
const debounceDelay = 500 * time.Millisecond

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Lint the plugin's documents against schema and style rules",
	Long: `Lint validates every skill document, the manifest, and cross references
between documents and agents. Structural problems are errors; style
problems are warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := lintRoot(cmd, args)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if !cmd.Flags().Changed("format") && config.Lint.Format != "" {
			format = config.Lint.Format
		}
		if format != "text" && format != "json" {
			return errors.Errorf("unknown format %q, expected text or json", format)
		}

		rules, _ := cmd.Flags().GetString("rules")
		if !cmd.Flags().Changed("rules") && config.Lint.Rules != "" {
			rules = config.Lint.Rules
		}
		var opts []lint.Option
		if rules != "" {
			opts = append(opts, lint.WithRuleFilter(rules))
		}

		linter, err := lint.New(opts...)
		if err != nil {
			return err
		}

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			return watchLint(cmd.Context(), linter, root, format)
		}

		report, err := runLint(linter, root, format)
		if err != nil {
			return err
		}
		if report.HasErrors() {
			return errors.Errorf("%d lint errors", report.Errors())
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().String("format", "text", "Output format (text, json)")
	lintCmd.Flags().String("rules", "", "Only run rules matching this glob (e.g. 'usage-*')")
	lintCmd.Flags().Bool("watch", false, "Re-lint whenever plugin documents change")
	rootCmd.AddCommand(lintCmd)
}

func lintRoot(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return resolvePluginRoot(cmd)
}

func runLint(linter *lint.Linter, root, format string) (*lint.Report, error) {
	lintCtx, err := lint.LoadContext(root)
	if err != nil {
		return nil, err
	}

	report := linter.Run(lintCtx)

	if format == "json" {
		out, err := report.JSON()
		if err != nil {
			return nil, err
		}
		fmt.Println(out)
		return report, nil
	}

	for _, finding := range report.Findings {
		fmt.Println(finding.String())
	}

	summary := fmt.Sprintf("%d documents checked, %d errors, %d warnings",
		report.DocumentsChecked, report.Errors(), report.Warnings())
	if report.HasErrors() {
		presenter.Warning(summary)
	} else {
		presenter.Success(summary)
	}
	return report, nil
}

// watchLint re-runs the linter whenever a document under the plugin root
// changes, until the context is cancelled.
func watchLint(ctx context.Context, linter *lint.Linter, root, format string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	watched := []string{
		root,
		filepath.Join(root, ".claude-plugin"),
		filepath.Join(root, "agents"),
		filepath.Join(root, "commands"),
		filepath.Join(root, "hooks"),
	}
	skillDirs, _ := filepath.Glob(filepath.Join(root, "skills", "*"))
	watched = append(watched, filepath.Join(root, "skills"))
	watched = append(watched, skillDirs...)

	for _, dir := range watched {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	if _, err := runLint(linter, root, format); err != nil {
		presenter.Error(err, "lint failed")
	}
	presenter.Info("Watching for document changes... Press Ctrl+C to stop")

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !relevantDocument(event.Name) {
				continue
			}
			logger.G(ctx).WithField("file", event.Name).Debug("document change detected")
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case <-rerun:
			presenter.Separator()
			if _, err := runLint(linter, root, format); err != nil {
				presenter.Error(err, "lint failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Error("file watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}

func relevantDocument(path string) bool {
	switch {
	case strings.HasSuffix(path, ".md"), strings.HasSuffix(path, ".json"):
		return true
	default:
		return false
	}
}
