package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/commands"
	"github.com/flutterkit/fluttercheck/pkg/plugin"
	"github.com/flutterkit/fluttercheck/pkg/presenter"
)

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Inspect command documents",
}

var commandListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the plugin's command documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolvePluginRoot(cmd)
		if err != nil {
			return err
		}

		p, err := plugin.Load(root)
		if err != nil {
			return err
		}

		list, err := commands.List(p.CommandsDir())
		if err != nil {
			return err
		}

		presenter.Section(fmt.Sprintf("Commands (%d)", len(list)))
		for _, c := range list {
			hint := ""
			if c.Metadata.ArgumentHint != "" {
				hint = " " + c.Metadata.ArgumentHint
			}
			fmt.Printf("  /%-20s %s%s\n", c.Name, c.Metadata.Description, hint)
		}
		return nil
	},
}

func init() {
	commandCmd.AddCommand(commandListCmd)
	rootCmd.AddCommand(commandCmd)
}
