// Package dispatch turns skill-document slash commands into toolchain
// invocations. An input like "/flutter-pub add dio --dev" is parsed and
// validated against the skill document's declared subcommands and options,
// resolved through a registry to a concrete command line, and executed with
// hook and run-history integration.
package dispatch

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/flutterkit/fluttercheck/pkg/skilldoc"
)

// Invocation is a parsed and validated slash-command invocation.
type Invocation struct {
	Command     string            // skill command name, e.g. "flutter-pub"
	Subcommand  string            // declared subcommand, empty if the document has none
	Flags       map[string]string // option name without dashes -> value
	Positionals []string
	Raw         string
	Doc         *skilldoc.Document
}

// Split breaks a raw invocation string into its command name and arguments.
// The first token must be a slash command.
func Split(raw string) (string, []string, error) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return "", nil, errors.New("empty invocation")
	}
	if !strings.HasPrefix(tokens[0], "/") {
		return "", nil, errors.Errorf("invocation %q must start with a slash command", raw)
	}

	name := strings.TrimPrefix(tokens[0], "/")
	if name == "" {
		return "", nil, errors.New("empty command name")
	}
	return name, tokens[1:], nil
}

// Parse validates the raw invocation against the skill document and returns
// the bound invocation. Unknown subcommands and flags are errors; options the
// caller did not pass are filled from the document's declared defaults.
func Parse(raw string, doc *skilldoc.Document) (*Invocation, error) {
	name, args, err := Split(raw)
	if err != nil {
		return nil, err
	}
	if name != doc.CommandName {
		return nil, errors.Errorf("invocation %s does not match document %s", "/"+name, doc.Slash())
	}

	inv := &Invocation{
		Command: name,
		Flags:   make(map[string]string),
		Raw:     raw,
		Doc:     doc,
	}

	rest, err := inv.bindSubcommand(args)
	if err != nil {
		return nil, err
	}
	if err := inv.bindArgs(rest); err != nil {
		return nil, err
	}
	if err := inv.fillDefaults(); err != nil {
		return nil, err
	}
	return inv, nil
}

// bindSubcommand consumes the leading subcommand when the document declares
// any, returning the remaining arguments.
func (inv *Invocation) bindSubcommand(args []string) ([]string, error) {
	if len(inv.Doc.Subcommands) == 0 {
		return args, nil
	}

	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return nil, errors.Errorf("%s requires a subcommand", inv.Doc.Slash())
	}

	if _, ok := inv.Doc.FindSubcommand(args[0]); !ok {
		return nil, errors.Errorf("unknown subcommand %q for %s", args[0], inv.Doc.Slash())
	}
	inv.Subcommand = args[0]
	return args[1:], nil
}

func (inv *Invocation) bindArgs(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			inv.Positionals = append(inv.Positionals, arg)
			continue
		}

		name, value := arg, ""
		hasValue := false
		if eq := strings.Index(arg, "="); eq >= 0 {
			name, value = arg[:eq], arg[eq+1:]
			hasValue = true
		}

		option, ok := inv.Doc.FindOption(name)
		if !ok {
			return errors.Errorf("unknown flag %q for %s", name, inv.Doc.Slash())
		}

		if !hasValue {
			if optionTakesValue(option) && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				value = args[i+1]
				i++
			} else {
				value = "true"
			}
		}
		inv.Flags[trimDashes(option.Name)] = value
	}
	return nil
}

// fillDefaults applies declared option defaults for flags the caller did not
// pass. Placeholder defaults ("-", "none") stay unset; an option documented
// as "required" must have been supplied.
func (inv *Invocation) fillDefaults() error {
	for _, option := range inv.Doc.Options {
		key := trimDashes(option.Name)
		if _, ok := inv.Flags[key]; ok {
			continue
		}

		switch strings.ToLower(option.Default) {
		case "", "-", "none":
		case "required":
			return errors.Errorf("missing required flag %s for %s", option.Name, inv.Doc.Slash())
		default:
			inv.Flags[key] = option.Default
		}
	}
	return nil
}

// optionTakesValue guesses from the declared default whether the option is a
// boolean switch or carries a value.
func optionTakesValue(option skilldoc.Option) bool {
	switch strings.ToLower(option.Default) {
	case "true", "false":
		return false
	default:
		return true
	}
}

func trimDashes(name string) string {
	return strings.TrimLeft(name, "-")
}
