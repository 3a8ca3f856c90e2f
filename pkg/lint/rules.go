package lint

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/flutterkit/fluttercheck/pkg/skilldoc"
)

// parseFailureRule surfaces skill documents that could not be parsed at all.
type parseFailureRule struct{}

func (r *parseFailureRule) ID() string { return "document-parse" }

func (r *parseFailureRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for path, err := range ctx.ParseFailures {
		findings = append(findings, Finding{
			Rule:     r.ID(),
			Severity: SeverityError,
			File:     path,
			Message:  err.Error(),
		})
	}
	return findings
}

// usageSectionRule: every skill document has a non-empty "## Usage" section.
type usageSectionRule struct{}

func (r *usageSectionRule) ID() string { return "usage-section" }

func (r *usageSectionRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, doc := range ctx.Documents {
		if !doc.HasSection(skilldoc.SectionUsage) {
			findings = append(findings, Finding{
				Rule:     r.ID(),
				Severity: SeverityError,
				File:     doc.Path,
				Message:  "missing \"## Usage\" section",
			})
			continue
		}
		if strings.TrimSpace(doc.Usage) == "" {
			findings = append(findings, Finding{
				Rule:     r.ID(),
				Severity: SeverityError,
				File:     doc.Path,
				Message:  "\"## Usage\" section is empty",
			})
		}
	}
	return findings
}

// optionDefaultsRule: every commands/options table row states a default or
// "required".
type optionDefaultsRule struct{}

func (r *optionDefaultsRule) ID() string { return "option-defaults" }

func (r *optionDefaultsRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, doc := range ctx.Documents {
		for _, sc := range doc.Subcommands {
			if strings.TrimSpace(sc.Default) == "" {
				findings = append(findings, Finding{
					Rule:     r.ID(),
					Severity: SeverityError,
					File:     doc.Path,
					Message:  fmt.Sprintf("command %q has no default column value (use a literal, \"-\", or \"required\")", sc.Name),
				})
			}
		}
		for _, opt := range doc.Options {
			if strings.TrimSpace(opt.Default) == "" {
				findings = append(findings, Finding{
					Rule:     r.ID(),
					Severity: SeverityError,
					File:     doc.Path,
					Message:  fmt.Sprintf("option %q has no default column value (use a literal, \"-\", or \"required\")", opt.Name),
				})
			}
		}
	}
	return findings
}

// agentReferenceRule: a document's Agent Reference must name an existing
// agent file. The check is skipped when the plugin ships no agents directory,
// since references are soft by convention.
type agentReferenceRule struct{}

func (r *agentReferenceRule) ID() string { return "agent-reference" }

func (r *agentReferenceRule) Check(ctx *Context) []Finding {
	if ctx.Agents == nil || ctx.Plugin == nil {
		return nil
	}
	if _, err := os.Stat(ctx.Plugin.AgentsDir()); err != nil {
		return nil
	}

	var findings []Finding
	for _, doc := range ctx.Documents {
		if doc.AgentReference == "" {
			continue
		}
		if !ctx.Agents.Exists(doc.AgentReference) {
			findings = append(findings, Finding{
				Rule:     r.ID(),
				Severity: SeverityError,
				File:     doc.Path,
				Message:  fmt.Sprintf("agent reference %q does not match any agent file", doc.AgentReference),
			})
		}
	}
	return findings
}

// codeFenceLanguageRule: every fenced code block carries a language tag.
type codeFenceLanguageRule struct{}

func (r *codeFenceLanguageRule) ID() string { return "code-fence-language" }

func (r *codeFenceLanguageRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, doc := range ctx.Documents {
		for _, block := range doc.CodeBlocks {
			if block.Language == "" {
				findings = append(findings, Finding{
					Rule:     r.ID(),
					Severity: SeverityWarning,
					File:     doc.Path,
					Line:     block.Line,
					Message:  "fenced code block has no language tag",
				})
			}
		}
	}
	return findings
}

// examplePrefixRule: every example invocation begins with the document's own
// slash command.
type examplePrefixRule struct{}

func (r *examplePrefixRule) ID() string { return "example-prefix" }

func (r *examplePrefixRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, doc := range ctx.Documents {
		slash := doc.Slash()
		for _, example := range doc.Examples {
			if example == slash || strings.HasPrefix(example, slash+" ") {
				continue
			}
			findings = append(findings, Finding{
				Rule:     r.ID(),
				Severity: SeverityError,
				File:     doc.Path,
				Message:  fmt.Sprintf("example %q does not begin with %s", example, slash),
			})
		}
	}
	return findings
}

var namingPattern = regexp.MustCompile(`^flutter-[a-z0-9]+(-[a-z0-9]+)*$`)

// namingPatternRule: command names follow the flutter-{domain} convention.
type namingPatternRule struct{}

func (r *namingPatternRule) ID() string { return "naming-pattern" }

func (r *namingPatternRule) Check(ctx *Context) []Finding {
	var findings []Finding
	for _, doc := range ctx.Documents {
		if !namingPattern.MatchString(doc.CommandName) {
			findings = append(findings, Finding{
				Rule:     r.ID(),
				Severity: SeverityWarning,
				File:     doc.Path,
				Message:  fmt.Sprintf("command name %q does not follow the flutter-{domain} pattern", doc.CommandName),
			})
		}
	}
	return findings
}

// manifestParityRule: the manifest's declared component counts match the
// files on disk.
type manifestParityRule struct{}

func (r *manifestParityRule) ID() string { return "manifest-parity" }

func (r *manifestParityRule) Check(ctx *Context) []Finding {
	if ctx.Plugin == nil {
		return nil
	}

	inv, err := ctx.Plugin.TakeInventory()
	if err != nil {
		return []Finding{{
			Rule:     r.ID(),
			Severity: SeverityError,
			File:     ctx.Plugin.ManifestPath(),
			Message:  err.Error(),
		}}
	}

	actual := inv.Counts()
	declared := ctx.Plugin.Manifest.Components

	var findings []Finding
	mismatch := func(component string, want, got int) {
		findings = append(findings, Finding{
			Rule:     r.ID(),
			Severity: SeverityError,
			File:     ctx.Plugin.ManifestPath(),
			Message:  fmt.Sprintf("manifest declares %d %s, found %d on disk", want, component, got),
		})
	}

	if declared.Skills != actual.Skills {
		mismatch("skills", declared.Skills, actual.Skills)
	}
	if declared.Agents != actual.Agents {
		mismatch("agents", declared.Agents, actual.Agents)
	}
	if declared.Commands != actual.Commands {
		mismatch("commands", declared.Commands, actual.Commands)
	}
	return findings
}
