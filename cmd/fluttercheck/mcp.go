package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/mcpconfig"
	"github.com/flutterkit/fluttercheck/pkg/plugin"
	"github.com/flutterkit/fluttercheck/pkg/presenter"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Inspect the plugin's MCP server descriptors",
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured MCP servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadMCPConfig(cmd)
		if err != nil {
			return err
		}

		presenter.Section(fmt.Sprintf("MCP servers (%d)", len(config.MCPServers)))
		for name, server := range config.MCPServers {
			serverType, err := server.Type()
			if err != nil {
				fmt.Printf("  %-20s invalid: %s\n", name, err)
				continue
			}
			switch serverType {
			case mcpconfig.ServerTypeStdio:
				fmt.Printf("  %-20s stdio  %s\n", name, server.Command)
			case mcpconfig.ServerTypeSSE:
				fmt.Printf("  %-20s sse    %s\n", name, server.URL)
			}
		}
		return nil
	},
}

var mcpCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Connect to each MCP server and report its tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadMCPConfig(cmd)
		if err != nil {
			return err
		}
		if len(config.MCPServers) == 0 {
			presenter.Info("No MCP servers configured")
			return nil
		}

		failures := 0
		for _, status := range config.Check(cmd.Context()) {
			if !status.OK() {
				failures++
				presenter.Error(status.Err, fmt.Sprintf("%s unreachable", status.Name))
				continue
			}
			presenter.Success(fmt.Sprintf("%s: %d tools", status.Name, len(status.Tools)))
			for _, tool := range status.Tools {
				fmt.Printf("    %s\n", tool)
			}
		}

		if failures > 0 {
			return errors.Errorf("%d MCP servers unreachable", failures)
		}
		return nil
	},
}

func loadMCPConfig(cmd *cobra.Command) (*mcpconfig.Config, error) {
	root, err := resolvePluginRoot(cmd)
	if err != nil {
		return nil, err
	}

	p, err := plugin.Load(root)
	if err != nil {
		return nil, err
	}
	return mcpconfig.Load(p.MCPPath())
}

func init() {
	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpCheckCmd)
	rootCmd.AddCommand(mcpCmd)
}
