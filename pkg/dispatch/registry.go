package dispatch

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Toolchain describes how one skill command maps onto an external tool.
type Toolchain struct {
	// Argv is the base command line the subcommand and arguments are
	// appended to, e.g. {"flutter", "pub"}.
	Argv []string
	// Network lists the subcommands that reach the network and should be
	// retried on failure. "*" marks every subcommand as networked.
	Network []string
}

// IsNetworked reports whether the given subcommand hits the network.
func (t Toolchain) IsNetworked(subcommand string) bool {
	for _, s := range t.Network {
		if s == "*" || s == subcommand {
			return true
		}
	}
	return false
}

// Registry maps skill command names to toolchains.
type Registry struct {
	toolchains map[string]Toolchain
}

// NewRegistry returns a registry preloaded with the toolchains the standard
// skill set shells out to.
func NewRegistry() *Registry {
	r := &Registry{toolchains: make(map[string]Toolchain)}

	r.Register("flutter-pub", Toolchain{
		Argv:    []string{"flutter", "pub"},
		Network: []string{"get", "add", "upgrade", "outdated"},
	})
	r.Register("flutter-test", Toolchain{Argv: []string{"flutter", "test"}})
	r.Register("flutter-build", Toolchain{Argv: []string{"flutter", "build"}})
	r.Register("flutter-clean", Toolchain{Argv: []string{"flutter", "clean"}})
	r.Register("flutter-analyze", Toolchain{Argv: []string{"dart", "analyze"}})
	r.Register("flutter-format", Toolchain{Argv: []string{"dart", "format"}})
	r.Register("flutter-pods", Toolchain{
		Argv:    []string{"pod"},
		Network: []string{"install", "update"},
	})
	r.Register("flutter-gradle", Toolchain{Argv: []string{"./gradlew"}})
	r.Register("flutter-firebase", Toolchain{
		Argv:    []string{"firebase"},
		Network: []string{"*"},
	})
	r.Register("flutter-supabase", Toolchain{
		Argv:    []string{"supabase"},
		Network: []string{"*"},
	})

	return r
}

// Register binds a skill command name to a toolchain, replacing any previous
// binding.
func (r *Registry) Register(command string, toolchain Toolchain) {
	r.toolchains[command] = toolchain
}

// Lookup returns the toolchain for a skill command name.
func (r *Registry) Lookup(command string) (Toolchain, bool) {
	t, ok := r.toolchains[command]
	return t, ok
}

// Commands returns the registered skill command names, sorted.
func (r *Registry) Commands() []string {
	names := make([]string, 0, len(r.toolchains))
	for name := range r.toolchains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the full toolchain command line for a validated invocation:
// base argv, subcommand, positionals, then flags in the order the document
// declares them.
func (r *Registry) Resolve(inv *Invocation) ([]string, error) {
	toolchain, ok := r.Lookup(inv.Command)
	if !ok {
		return nil, errors.Errorf("no toolchain registered for %s", inv.Doc.Slash())
	}

	argv := append([]string{}, toolchain.Argv...)
	if inv.Subcommand != "" {
		argv = append(argv, inv.Subcommand)
	}
	argv = append(argv, inv.Positionals...)

	for _, option := range inv.Doc.Options {
		value, ok := inv.Flags[trimDashes(option.Name)]
		if !ok {
			continue
		}
		switch strings.ToLower(value) {
		case "true":
			argv = append(argv, option.Name)
		case "false":
		default:
			argv = append(argv, option.Name, value)
		}
	}

	return argv, nil
}
