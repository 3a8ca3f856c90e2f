package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/presenter"
	"github.com/flutterkit/fluttercheck/pkg/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold a new plugin document",
}

var newSkillCmd = &cobra.Command{
	Use:   "skill <name>",
	Short: "Scaffold a new skill document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return scaffoldDocument(cmd, args[0], scaffold.WriteSkill)
	},
}

var newAgentCmd = &cobra.Command{
	Use:   "agent <name>",
	Short: "Scaffold a new agent file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return scaffoldDocument(cmd, args[0], scaffold.WriteAgent)
	},
}

var newCommandCmd = &cobra.Command{
	Use:   "command <name>",
	Short: "Scaffold a new command document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return scaffoldDocument(cmd, args[0], scaffold.WriteCommand)
	},
}

func scaffoldDocument(cmd *cobra.Command, name string, write func(string, scaffold.Params) (string, error)) error {
	root, err := resolvePluginRoot(cmd)
	if err != nil {
		return err
	}

	description, _ := cmd.Flags().GetString("description")
	agent, _ := cmd.Flags().GetString("agent")

	path, err := write(root, scaffold.Params{
		Name:        name,
		Description: description,
		Agent:       agent,
	})
	if err != nil {
		return err
	}

	presenter.Success(fmt.Sprintf("Created %s", path))
	presenter.Info("Remember to bump the component counts in .claude-plugin/plugin.json")
	return nil
}

func init() {
	for _, c := range []*cobra.Command{newSkillCmd, newAgentCmd, newCommandCmd} {
		c.Flags().String("description", "", "One-line description of the new document")
		c.MarkFlagRequired("description")
		newCmd.AddCommand(c)
	}
	newSkillCmd.Flags().String("agent", "", "Agent referenced by the skill document")
	rootCmd.AddCommand(newCmd)
}
