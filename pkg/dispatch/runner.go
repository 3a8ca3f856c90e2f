package dispatch

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/flutterkit/fluttercheck/pkg/hooks"
	"github.com/flutterkit/fluttercheck/pkg/logger"
	"github.com/flutterkit/fluttercheck/pkg/runlog"
)

// DefaultTimeout bounds a single toolchain execution.
const DefaultTimeout = 10 * time.Minute

// networkRetryAttempts is how often a networked invocation is retried.
const networkRetryAttempts = 3

// RunResult is the outcome of one dispatched invocation.
type RunResult struct {
	ID       string
	Argv     []string
	ExitCode int
	Output   string
	Duration time.Duration
	DryRun   bool
	Blocked  bool
	Reason   string // hook stderr when blocked
}

// Runner executes validated invocations through their registered toolchains.
type Runner struct {
	registry *Registry
	hooks    *hooks.Config
	store    *runlog.Store
	timeout  time.Duration
	dryRun   bool
	workDir  string
	stdout   io.Writer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHooks attaches a hook configuration consulted before and after each run.
func WithHooks(config *hooks.Config) RunnerOption {
	return func(r *Runner) { r.hooks = config }
}

// WithRunLog records every executed run in the given store.
func WithRunLog(store *runlog.Store) RunnerOption {
	return func(r *Runner) { r.store = store }
}

// WithTimeout overrides the per-execution timeout.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithDryRun resolves the command line without executing it.
func WithDryRun(dryRun bool) RunnerOption {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithWorkDir sets the working directory for toolchain executions.
func WithWorkDir(dir string) RunnerOption {
	return func(r *Runner) { r.workDir = dir }
}

// WithStdout streams toolchain output to the given writer in addition to
// capturing it.
func WithStdout(w io.Writer) RunnerOption {
	return func(r *Runner) { r.stdout = w }
}

// NewRunner creates a runner over the given registry.
func NewRunner(registry *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch resolves and executes a validated invocation. PreToolUse hooks may
// block the execution; the run is recorded in the run log when one is
// configured.
func (r *Runner) Dispatch(ctx context.Context, inv *Invocation) (*RunResult, error) {
	argv, err := r.registry.Resolve(inv)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		ID:   uuid.NewString(),
		Argv: argv,
	}

	if r.dryRun {
		result.DryRun = true
		return result, nil
	}

	invocationName := inv.Command
	if inv.Subcommand != "" {
		invocationName += " " + inv.Subcommand
	}

	if r.hooks != nil {
		hookResult, err := r.hooks.Execute(ctx, hooks.Payload{
			Event:      hooks.EventPreToolUse,
			Invocation: invocationName,
			Argv:       argv,
		})
		if err != nil {
			return nil, err
		}
		if hookResult.Blocked {
			result.Blocked = true
			result.Reason = hookResult.Reason
			return result, errors.Errorf("dispatch of %s blocked by hook: %s",
				inv.Doc.Slash(), strings.TrimSpace(hookResult.Reason))
		}
	}

	started := time.Now()
	exitCode, output, runErr := r.execute(ctx, inv, argv)
	result.ExitCode = exitCode
	result.Output = output
	result.Duration = time.Since(started)

	if r.hooks != nil {
		_, hookErr := r.hooks.Execute(ctx, hooks.Payload{
			Event:      hooks.EventPostToolUse,
			Invocation: invocationName,
			Argv:       argv,
			ExitCode:   &exitCode,
			Output:     output,
		})
		if hookErr != nil {
			logger.G(ctx).WithError(hookErr).Warn("post-invocation hooks failed")
		}
	}

	if r.store != nil {
		if err := r.record(ctx, inv, result, started); err != nil {
			logger.G(ctx).WithError(err).Warn("failed to record run")
		}
	}

	return result, runErr
}

// execute runs the resolved command line, retrying networked invocations.
func (r *Runner) execute(ctx context.Context, inv *Invocation, argv []string) (int, string, error) {
	toolchain, _ := r.registry.Lookup(inv.Command)

	var exitCode int
	var output string
	operation := func() error {
		var err error
		exitCode, output, err = r.runOnce(ctx, argv)
		return err
	}

	if !toolchain.IsNetworked(inv.Subcommand) {
		return exitCode, output, operation()
	}

	err := retry.Do(
		operation,
		retry.Attempts(networkRetryAttempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("attempt", n+1).
				WithField("command", strings.Join(argv, " ")).
				Warn("retrying networked invocation")
		}),
	)
	return exitCode, output, err
}

func (r *Runner) runOnce(ctx context.Context, argv []string) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.workDir
	cmd.Env = os.Environ()

	var buf bytes.Buffer
	out := io.Writer(&buf)
	if r.stdout != nil {
		out = io.MultiWriter(&buf, r.stdout)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	output := buf.String()

	if ctx.Err() == context.DeadlineExceeded {
		return -1, output, errors.Errorf("%s timed out after %s", argv[0], r.timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), output, errors.Errorf("%s exited with code %d", argv[0], exitErr.ExitCode())
	}
	if err != nil {
		return -1, output, errors.Wrapf(err, "failed to run %s", argv[0])
	}

	return 0, output, nil
}

func (r *Runner) record(ctx context.Context, inv *Invocation, result *RunResult, started time.Time) error {
	argv, err := runlog.EncodeArgv(result.Argv)
	if err != nil {
		return err
	}

	return r.store.Save(ctx, runlog.Record{
		ID:         result.ID,
		Command:    inv.Command,
		Subcommand: inv.Subcommand,
		Argv:       argv,
		ExitCode:   result.ExitCode,
		DurationMS: result.Duration.Milliseconds(),
		StartedAt:  started.UTC(),
	})
}
