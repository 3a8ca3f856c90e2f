// Package hooks parses and executes the plugin's hook configuration
// (hooks/hooks.json). Hooks let external commands observe or block
// slash-command dispatches: PreToolUse hooks run before the toolchain is
// invoked and may block it, PostToolUse hooks observe the result.
package hooks

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Event is a hook lifecycle event.
type Event string

// Supported hook events
const (
	EventPreToolUse  Event = "PreToolUse"
	EventPostToolUse Event = "PostToolUse"
)

// DefaultTimeout is the execution timeout applied when a hook command does
// not set one.
const DefaultTimeout = 30 * time.Second

// Config is the parsed hooks/hooks.json.
type Config struct {
	Hooks map[Event][]Matcher `json:"hooks"`
}

// Matcher binds a glob pattern over invocation names to a list of hook
// commands. An empty pattern matches everything.
type Matcher struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

// HookCommand is a single hook entry. Type is always "command".
type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"` // seconds
}

// Load reads and validates a hooks.json file. A missing file yields an empty
// config, since hooks are optional plugin content.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read hook configuration %s", path)
	}

	var config Config
	if err := json.Unmarshal(content, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse hook configuration %s", path)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid hook configuration %s", path)
	}

	return &config, nil
}

// Validate checks event names, matcher patterns and hook entries. All
// problems are reported, not just the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	for event, matchers := range c.Hooks {
		if event != EventPreToolUse && event != EventPostToolUse {
			result = multierror.Append(result, errors.Errorf("unknown hook event %q", event))
		}

		for _, m := range matchers {
			if m.Matcher != "" {
				if _, err := glob.Compile(m.Matcher); err != nil {
					result = multierror.Append(result, errors.Wrapf(err, "invalid matcher %q for %s", m.Matcher, event))
				}
			}
			if len(m.Hooks) == 0 {
				result = multierror.Append(result, errors.Errorf("matcher %q for %s has no hooks", m.Matcher, event))
			}
			for _, h := range m.Hooks {
				if h.Type != "command" {
					result = multierror.Append(result, errors.Errorf("unsupported hook type %q for %s", h.Type, event))
				}
				if h.Command == "" {
					result = multierror.Append(result, errors.Errorf("empty hook command for %s", event))
				}
				if h.Timeout < 0 {
					result = multierror.Append(result, errors.Errorf("negative hook timeout for %s", event))
				}
			}
		}
	}

	return result.ErrorOrNil()
}

// Match returns the hook commands registered for the event whose matcher
// covers name. Matchers are evaluated in declaration order.
func (c *Config) Match(event Event, name string) []HookCommand {
	var matched []HookCommand
	for _, m := range c.Hooks[event] {
		if m.Matcher == "" {
			matched = append(matched, m.Hooks...)
			continue
		}
		g, err := glob.Compile(m.Matcher)
		if err != nil {
			continue // Validate reports this; skip at match time
		}
		if g.Match(name) {
			matched = append(matched, m.Hooks...)
		}
	}
	return matched
}

// HasHooks reports whether any hook is registered for the given event.
func (c *Config) HasHooks(event Event) bool {
	return len(c.Hooks[event]) > 0
}

func (h HookCommand) timeout() time.Duration {
	if h.Timeout > 0 {
		return time.Duration(h.Timeout) * time.Second
	}
	return DefaultTimeout
}
