package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/flutterkit/fluttercheck/pkg/logger"
)

// Payload is the JSON document written to a hook's stdin.
type Payload struct {
	Event      Event    `json:"event"`
	Invocation string   `json:"invocation"` // e.g. "flutter-pub add"
	Argv       []string `json:"argv"`       // resolved toolchain command line
	ExitCode   *int     `json:"exit_code,omitempty"`
	Output     string   `json:"output,omitempty"`
}

// Result is the outcome of running the hooks for one event.
type Result struct {
	Blocked bool   // a PreToolUse hook exited non-zero
	Reason  string // stderr of the blocking hook, if any
}

// Execute runs every hook matching the payload's event and invocation name.
// A PreToolUse hook that exits non-zero blocks the dispatch; failures of
// PostToolUse hooks are logged and otherwise ignored.
func (c *Config) Execute(ctx context.Context, payload Payload) (*Result, error) {
	matched := c.Match(payload.Event, payload.Invocation)
	if len(matched) == 0 {
		return &Result{}, nil
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal hook payload")
	}

	for _, hook := range matched {
		stderr, err := runHook(ctx, hook, payloadBytes)
		if err == nil {
			continue
		}

		if payload.Event == EventPreToolUse {
			return &Result{Blocked: true, Reason: stderr}, nil
		}

		logger.G(ctx).WithError(err).WithField("command", hook.Command).Warn("hook execution failed")
	}

	return &Result{}, nil
}

// runHook executes a single hook command through the shell with timeout
// enforcement, returning its stderr and any execution error.
func runHook(ctx context.Context, hook HookCommand, payload []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, hook.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", hook.Command)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return stderr.String(), errors.Errorf("hook %q timed out after %s", hook.Command, hook.timeout())
		}
		return stderr.String(), errors.Wrapf(err, "hook %q failed", hook.Command)
	}

	return stderr.String(), nil
}
