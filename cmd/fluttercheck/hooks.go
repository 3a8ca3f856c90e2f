package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/hooks"
	"github.com/flutterkit/fluttercheck/pkg/plugin"
	"github.com/flutterkit/fluttercheck/pkg/presenter"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Inspect the plugin's hook configuration",
}

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured hooks by event",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolvePluginRoot(cmd)
		if err != nil {
			return err
		}

		p, err := plugin.Load(root)
		if err != nil {
			return err
		}

		config, err := hooks.Load(p.HooksPath())
		if err != nil {
			return err
		}

		for _, event := range []hooks.Event{hooks.EventPreToolUse, hooks.EventPostToolUse} {
			matchers := config.Hooks[event]
			if len(matchers) == 0 {
				continue
			}
			presenter.Section(string(event))
			for _, m := range matchers {
				pattern := m.Matcher
				if pattern == "" {
					pattern = "*"
				}
				for _, h := range m.Hooks {
					fmt.Printf("  %-24s %s\n", pattern, h.Command)
				}
			}
		}

		if !config.HasHooks(hooks.EventPreToolUse) && !config.HasHooks(hooks.EventPostToolUse) {
			presenter.Info("No hooks configured")
		}
		return nil
	},
}

func init() {
	hooksCmd.AddCommand(hooksListCmd)
	rootCmd.AddCommand(hooksCmd)
}
