package main

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// appConfig mirrors ~/.fluttercheck/config.yaml. Profiles let one config file
// carry alternative defaults (e.g. a "ci" profile forcing JSON output).
type appConfig struct {
	LogLevel   string                   `mapstructure:"log_level"`
	LogFormat  string                   `mapstructure:"log_format"`
	PluginRoot string                   `mapstructure:"plugin_root"`
	Lint       lintConfig               `mapstructure:"lint"`
	Profile    string                   `mapstructure:"profile"`
	Profiles   map[string]profileConfig `mapstructure:"profiles"`
}

type lintConfig struct {
	Format string `mapstructure:"format"`
	Rules  string `mapstructure:"rules"`
}

type profileConfig struct {
	LogLevel  string     `mapstructure:"log_level"`
	LogFormat string     `mapstructure:"log_format"`
	Lint      lintConfig `mapstructure:"lint"`
}

// loadConfig unmarshals the viper configuration and applies the active
// profile on top of the base values.
func loadConfig() (appConfig, error) {
	var config appConfig
	if err := viper.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal configuration")
	}

	profileName := config.Profile
	if profileName == "" || profileName == "default" {
		return config, nil
	}

	profile, ok := config.Profiles[profileName]
	if !ok {
		return config, errors.Errorf("profile %q not found in configuration", profileName)
	}
	if err := applyProfile(&config, profile); err != nil {
		return config, err
	}
	return config, nil
}

// applyProfile merges non-zero profile values into the base configuration.
func applyProfile(config *appConfig, profile profileConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           config,
		ZeroFields:       false,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	values := map[string]any{}
	if profile.LogLevel != "" {
		values["log_level"] = profile.LogLevel
	}
	if profile.LogFormat != "" {
		values["log_format"] = profile.LogFormat
	}
	lintValues := map[string]any{}
	if profile.Lint.Format != "" {
		lintValues["format"] = profile.Lint.Format
	}
	if profile.Lint.Rules != "" {
		lintValues["rules"] = profile.Lint.Rules
	}
	if len(lintValues) > 0 {
		values["lint"] = lintValues
	}

	return errors.Wrapf(decoder.Decode(values), "failed to apply profile")
}
