// Package doctor reports on the local development environment: which of the
// toolchains the skill documents shell out to are installed, and which build
// daemons are currently running.
package doctor

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"
)

// versionTimeout bounds a single "--version" probe.
const versionTimeout = 15 * time.Second

// DefaultTools are the executables the standard skill set depends on.
var DefaultTools = []string{"flutter", "dart", "pod", "gradle", "firebase", "supabase"}

// ToolStatus is the probe result for one executable.
type ToolStatus struct {
	Name    string
	Path    string // resolved location, empty when not installed
	Version string // first line of the version output
	Err     error
}

// Installed reports whether the tool was found on PATH.
func (s ToolStatus) Installed() bool {
	return s.Path != ""
}

// Daemon is a running background build process.
type Daemon struct {
	PID     int32
	Kind    string // "gradle" or "dart"
	Cmdline string
}

// Doctor probes toolchains and daemons.
type Doctor struct {
	tools []string
}

// Option configures a Doctor.
type Option func(*Doctor)

// WithTools overrides the set of probed executables.
func WithTools(tools ...string) Option {
	return func(d *Doctor) { d.tools = tools }
}

// NewDoctor creates a Doctor probing the default toolchains.
func NewDoctor(opts ...Option) *Doctor {
	d := &Doctor{tools: DefaultTools}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CheckTools resolves every probed executable on PATH and asks it for its
// version. Results come back in the configured tool order.
func (d *Doctor) CheckTools(ctx context.Context) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(d.tools))
	for _, tool := range d.tools {
		statuses = append(statuses, checkTool(ctx, tool))
	}
	return statuses
}

func checkTool(ctx context.Context, tool string) ToolStatus {
	status := ToolStatus{Name: tool}

	path, err := exec.LookPath(tool)
	if err != nil {
		status.Err = errors.Errorf("%s not found on PATH", tool)
		return status
	}
	status.Path = path

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out // dart and pod print version info to stderr

	if err := cmd.Run(); err != nil {
		status.Err = errors.Wrapf(err, "failed to run %s --version", tool)
		return status
	}

	status.Version = firstLine(out.String())
	return status
}

// Daemons lists running Gradle and Dart daemons.
func (d *Doctor) Daemons(ctx context.Context) ([]Daemon, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list processes")
	}

	var daemons []Daemon
	for _, p := range procs {
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			continue
		}

		kind := classifyDaemon(cmdline)
		if kind == "" {
			continue
		}
		daemons = append(daemons, Daemon{PID: p.Pid, Kind: kind, Cmdline: cmdline})
	}
	return daemons, nil
}

func classifyDaemon(cmdline string) string {
	switch {
	case strings.Contains(cmdline, "GradleDaemon"):
		return "gradle"
	case strings.Contains(cmdline, "frontend_server") || strings.Contains(cmdline, "dart_analyzer"),
		strings.Contains(cmdline, "dart") && strings.Contains(cmdline, "vm-service"):
		return "dart"
	default:
		return ""
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
