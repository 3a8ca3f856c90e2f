// Package mcpconfig parses and checks the plugin's MCP server descriptors
// (.mcp.json). The host runtime owns the lifecycle of these servers;
// fluttercheck only validates the descriptors and can probe each server to
// confirm it starts and answers an initialize handshake.
package mcpconfig

import (
	"encoding/json"
	"os"
	"regexp"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ServerType distinguishes stdio from SSE transports.
type ServerType string

// Supported server transports
const (
	ServerTypeStdio ServerType = "stdio"
	ServerTypeSSE   ServerType = "sse"
)

// ServerConfig describes one entry of the mcpServers map.
type ServerConfig struct {
	Command string            `json:"command,omitempty"` // stdio: executable to start
	Args    []string          `json:"args,omitempty"`    // stdio: arguments
	Env     map[string]string `json:"env,omitempty"`     // stdio: environment variables
	URL     string            `json:"url,omitempty"`     // sse: server URL
	Headers map[string]string `json:"headers,omitempty"` // sse: request headers
}

// Type infers the transport from the populated fields.
func (s ServerConfig) Type() (ServerType, error) {
	switch {
	case s.Command != "" && s.URL != "":
		return "", errors.New("both command and url set; pick one transport")
	case s.Command != "":
		return ServerTypeStdio, nil
	case s.URL != "":
		return ServerTypeSSE, nil
	default:
		return "", errors.New("neither command nor url set")
	}
}

// Config is the parsed .mcp.json.
type Config struct {
	MCPServers map[string]ServerConfig `json:"mcpServers"`
}

// Load reads and validates an .mcp.json file. A missing file yields an empty
// config, since MCP descriptors are optional plugin content.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read MCP configuration %s", path)
	}

	var config Config
	if err := json.Unmarshal(content, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse MCP configuration %s", path)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid MCP configuration %s", path)
	}

	return &config, nil
}

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Validate checks every server descriptor. Environment references of the
// form ${VAR} inside env values must be resolvable in the current
// environment. All problems are reported, not just the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	for name, server := range c.MCPServers {
		if _, err := server.Type(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "server %q", name))
		}

		for key, value := range server.Env {
			for _, match := range envRefPattern.FindAllStringSubmatch(value, -1) {
				if _, ok := os.LookupEnv(match[1]); !ok {
					result = multierror.Append(result,
						errors.Errorf("server %q: env %s references undefined variable %s", name, key, match[1]))
				}
			}
		}
	}

	return result.ErrorOrNil()
}

// ExpandedEnv returns the server's env with ${VAR} references resolved.
func (s ServerConfig) ExpandedEnv() map[string]string {
	if len(s.Env) == 0 {
		return nil
	}

	expanded := make(map[string]string, len(s.Env))
	for key, value := range s.Env {
		expanded[key] = envRefPattern.ReplaceAllStringFunc(value, func(ref string) string {
			name := envRefPattern.FindStringSubmatch(ref)[1]
			return os.Getenv(name)
		})
	}
	return expanded
}
