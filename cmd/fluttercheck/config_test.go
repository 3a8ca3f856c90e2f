package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyProfile(t *testing.T) {
	base := appConfig{
		LogLevel: "info",
		Lint:     lintConfig{Format: "text"},
	}

	t.Run("profile values override base", func(t *testing.T) {
		config := base
		err := applyProfile(&config, profileConfig{
			LogLevel: "debug",
			Lint:     lintConfig{Format: "json"},
		})
		require.NoError(t, err)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, "json", config.Lint.Format)
	})

	t.Run("empty profile values keep base", func(t *testing.T) {
		config := base
		err := applyProfile(&config, profileConfig{Lint: lintConfig{Rules: "usage-*"}})
		require.NoError(t, err)
		assert.Equal(t, "info", config.LogLevel)
		assert.Equal(t, "text", config.Lint.Format)
		assert.Equal(t, "usage-*", config.Lint.Rules)
	})
}
