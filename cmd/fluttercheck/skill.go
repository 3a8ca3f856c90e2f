package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/presenter"
	"github.com/flutterkit/fluttercheck/pkg/skilldoc"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect skill documents",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skill documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		discovery, err := skillDiscovery(cmd)
		if err != nil {
			return err
		}

		docs, err := discovery.Discover()
		if err != nil {
			return err
		}

		names, err := discovery.ListNames()
		if err != nil {
			return err
		}

		presenter.Section(fmt.Sprintf("Skills (%d)", len(names)))
		for _, name := range names {
			doc := docs[name]
			fmt.Printf("  %-24s %s\n", doc.Slash(), doc.Description)
		}
		return nil
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the parsed structure of one skill document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		discovery, err := skillDiscovery(cmd)
		if err != nil {
			return err
		}

		doc, err := discovery.Get(args[0])
		if err != nil {
			return err
		}

		presenter.Section(doc.Slash())
		fmt.Printf("Description: %s\n", doc.Description)
		fmt.Printf("Source:      %s\n", doc.Path)
		if doc.Usage != "" {
			fmt.Printf("Usage:       %s\n", doc.Usage)
		}

		if len(doc.Subcommands) > 0 {
			fmt.Println("\nCommands:")
			for _, sc := range doc.Subcommands {
				fmt.Printf("  %-16s %s (default: %s)\n", sc.Name, sc.Description, sc.Default)
			}
		}
		if len(doc.Options) > 0 {
			fmt.Println("\nOptions:")
			for _, opt := range doc.Options {
				fmt.Printf("  %-16s %s (default: %s)\n", opt.Name, opt.Description, opt.Default)
			}
		}
		if len(doc.Examples) > 0 {
			fmt.Println("\nExamples:")
			for _, example := range doc.Examples {
				fmt.Printf("  %s\n", example)
			}
		}
		if doc.AgentReference != "" {
			fmt.Printf("\nAgent: %s\n", doc.AgentReference)
		}
		return nil
	},
}

func skillDiscovery(cmd *cobra.Command) (*skilldoc.Discovery, error) {
	root, err := resolvePluginRoot(cmd)
	if err != nil {
		// No plugin in sight, fall back to the default search dirs
		return skilldoc.NewDiscovery(skilldoc.WithDefaultDirs())
	}
	return skilldoc.NewDiscovery(skilldoc.WithPluginRoot(root))
}

func init() {
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
	rootCmd.AddCommand(skillCmd)
}
