// Package lint checks plugin content against the style guide: skill
// documents must carry the conventional sections, option tables must declare
// defaults, agent references must resolve, fenced code blocks must be tagged
// with a language, and the manifest's declared counts must match the files on
// disk.
package lint

import (
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/flutterkit/fluttercheck/pkg/agents"
	"github.com/flutterkit/fluttercheck/pkg/plugin"
	"github.com/flutterkit/fluttercheck/pkg/skilldoc"
)

// Context is everything a rule may inspect: the plugin, its parsed skill
// documents, any documents that failed to parse, and the agent processor for
// resolving references.
type Context struct {
	Plugin        *plugin.Plugin
	Documents     []*skilldoc.Document
	ParseFailures map[string]error // SKILL.md path -> parse error
	Agents        *agents.Processor
}

// Rule checks one aspect of the style guide.
type Rule interface {
	ID() string
	Check(ctx *Context) []Finding
}

// Linter runs a set of rules over a lint context.
type Linter struct {
	rules []Rule
}

// Option configures a Linter
type Option func(*Linter) error

// WithRules replaces the default rule set
func WithRules(rules ...Rule) Option {
	return func(l *Linter) error {
		l.rules = rules
		return nil
	}
}

// WithRuleFilter keeps only the rules whose ID matches the given glob
// pattern, e.g. "option-*".
func WithRuleFilter(pattern string) Option {
	return func(l *Linter) error {
		g, err := glob.Compile(pattern)
		if err != nil {
			return errors.Wrapf(err, "invalid rule filter %q", pattern)
		}

		var kept []Rule
		for _, rule := range l.rules {
			if g.Match(rule.ID()) {
				kept = append(kept, rule)
			}
		}
		if len(kept) == 0 {
			return errors.Errorf("rule filter %q matches no rules", pattern)
		}
		l.rules = kept
		return nil
	}
}

// New creates a Linter with the default rule set, then applies options.
func New(opts ...Option) (*Linter, error) {
	l := &Linter{rules: DefaultRules()}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// DefaultRules returns the full style-guide rule set.
func DefaultRules() []Rule {
	return []Rule{
		&parseFailureRule{},
		&usageSectionRule{},
		&optionDefaultsRule{},
		&agentReferenceRule{},
		&codeFenceLanguageRule{},
		&examplePrefixRule{},
		&namingPatternRule{},
		&manifestParityRule{},
	}
}

// RuleIDs returns the IDs of the linter's active rules, in run order.
func (l *Linter) RuleIDs() []string {
	ids := make([]string, 0, len(l.rules))
	for _, rule := range l.rules {
		ids = append(ids, rule.ID())
	}
	return ids
}

// Run executes every rule and returns the aggregated report.
func (l *Linter) Run(ctx *Context) *Report {
	report := &Report{DocumentsChecked: len(ctx.Documents)}

	for _, rule := range l.rules {
		report.Findings = append(report.Findings, rule.Check(ctx)...)
	}

	report.Sort()
	return report
}

// LoadContext builds a lint context for the plugin rooted at root: manifest,
// every skill document (parse failures kept, not dropped), and the plugin's
// agents directory.
func LoadContext(root string) (*Context, error) {
	p, err := plugin.Load(root)
	if err != nil {
		return nil, err
	}

	inv, err := p.TakeInventory()
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		Plugin:        p,
		ParseFailures: make(map[string]error),
	}

	for _, rel := range inv.SkillFiles {
		path := filepath.Join(root, filepath.FromSlash(rel))
		doc, err := skilldoc.ParseFile(path)
		if err != nil {
			ctx.ParseFailures[path] = err
			continue
		}
		doc.Directory = filepath.Dir(path)
		ctx.Documents = append(ctx.Documents, doc)
	}

	processor, err := agents.NewProcessor(agents.WithPluginRoot(root))
	if err != nil {
		return nil, err
	}
	ctx.Agents = processor

	return ctx, nil
}
