package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/flutterkit/fluttercheck/pkg/logger"
	"github.com/flutterkit/fluttercheck/pkg/plugin"
)

// config holds the loaded configuration, with the active profile applied.
var config appConfig

func init() {
	// Environment variables
	viper.SetEnvPrefix("FLUTTERCHECK")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.fluttercheck")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "fluttercheck",
	Short: "Validate and dispatch Flutter plugin skill documents",
	Long: `fluttercheck lints the documents of a Claude Flutter plugin (skills,
agents, commands, manifest, hooks, MCP servers) against their schema and
style rules, and dispatches skill slash commands to the underlying
Flutter toolchains.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = loadConfig()
		if err != nil {
			return err
		}

		logger.SetLogLevel(config.LogLevel)
		logger.SetLogFormat(config.LogFormat)

		log := logger.G(cmd.Context())
		cmd.Flags().Visit(func(flag *pflag.Flag) {
			log.WithField("flag."+flag.Name, flag.Value.String()).Debug("flag set")
		})
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// resolvePluginRoot returns the plugin root from the --plugin-root flag or
// config file, or walks up from the working directory looking for
// .claude-plugin/plugin.json.
func resolvePluginRoot(cmd *cobra.Command) (string, error) {
	if root, _ := cmd.Flags().GetString("plugin-root"); root != "" {
		return root, nil
	}
	if config.PluginRoot != "" {
		return config.PluginRoot, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return plugin.FindRoot(cwd)
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (json, fmt)")
	rootCmd.PersistentFlags().String("plugin-root", "", "Plugin root directory (default: walk up from cwd)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
