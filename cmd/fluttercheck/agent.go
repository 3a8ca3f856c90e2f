package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/agents"
	"github.com/flutterkit/fluttercheck/pkg/presenter"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Inspect agent files",
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		processor, err := agentProcessor(cmd)
		if err != nil {
			return err
		}

		list, err := processor.List()
		if err != nil {
			return err
		}

		presenter.Section(fmt.Sprintf("Agents (%d)", len(list)))
		for _, agent := range list {
			fmt.Printf("  %-28s %s\n", agent.Metadata.Name, agent.Metadata.Description)
		}
		return nil
	},
}

var agentShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one agent's metadata and system prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		processor, err := agentProcessor(cmd)
		if err != nil {
			return err
		}

		agent, err := processor.Load(args[0])
		if err != nil {
			return err
		}

		presenter.Section(agent.Metadata.Name)
		fmt.Printf("Description: %s\n", agent.Metadata.Description)
		if agent.Metadata.Model != "" {
			fmt.Printf("Model:       %s\n", agent.Metadata.Model)
		}
		if len(agent.Metadata.Tools) > 0 {
			fmt.Printf("Tools:       %s\n", strings.Join(agent.Metadata.Tools, ", "))
		}
		fmt.Printf("Source:      %s\n", agent.Path)
		presenter.Separator()
		fmt.Println(strings.TrimSpace(agent.SystemPrompt))
		return nil
	},
}

func agentProcessor(cmd *cobra.Command) (*agents.Processor, error) {
	root, err := resolvePluginRoot(cmd)
	if err != nil {
		return agents.NewProcessor(agents.WithDefaultDirs())
	}
	return agents.NewProcessor(agents.WithPluginRoot(root))
}

func init() {
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentShowCmd)
	rootCmd.AddCommand(agentCmd)
}
