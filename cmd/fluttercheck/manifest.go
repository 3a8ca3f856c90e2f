package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/flutterkit/fluttercheck/pkg/plugin"
	"github.com/flutterkit/fluttercheck/pkg/presenter"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect and verify the plugin manifest",
}

var manifestVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify declared component counts against the plugin tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolvePluginRoot(cmd)
		if err != nil {
			return err
		}

		p, err := plugin.Load(root)
		if err != nil {
			return err
		}

		if err := p.Verify(); err != nil {
			return err
		}

		inv, err := p.TakeInventory()
		if err != nil {
			return err
		}
		counts := inv.Counts()
		presenter.Success(fmt.Sprintf("%s %s: %d skills, %d agents, %d commands",
			p.Manifest.Name, p.Manifest.Version, counts.Skills, counts.Agents, counts.Commands))
		return nil
	},
}

var manifestSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of plugin.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		reflector := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		schema := reflector.Reflect(&plugin.Manifest{})

		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal schema")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	manifestCmd.AddCommand(manifestVerifyCmd)
	manifestCmd.AddCommand(manifestSchemaCmd)
	rootCmd.AddCommand(manifestCmd)
}
