package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodSkill = `---
name: flutter-pub
description: Manage Flutter package dependencies
---

# /flutter-pub

## Usage

` + "```" + `text
/flutter-pub <command> [options] [packages...]
` + "```" + `

## Commands

| Command | Description | Default |
|---------|-------------|---------|
| get | Fetch dependencies | - |
| add | Add packages | - |

## Options

| Option | Description | Default |
|--------|-------------|---------|
| --dev | Add as dev dependency | false |

## Examples

` + "```" + `bash
/flutter-pub get
/flutter-pub add dio --dev
` + "```" + `

## Agent Reference

See the flutter-mobile-developer agent.
`

const badSkill = `---
name: FlutterPods
description: CocoaPods management
---

# /FlutterPods

## Options

| Option | Description | Default |
|--------|-------------|---------|
| --repo-update | Update the spec repo | |

## Examples

` + "```" + `bash
/flutter-cocoapods install
` + "```" + `

## Instructions

` + "```" + `
pod install
` + "```" + `

## Agent Reference

See the flutter-ios-specialist agent.
`

func writeFixturePlugin(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".claude-plugin"), 0o755))
	manifest := `{
		"name": "flutter-toolkit",
		"version": "1.0.0",
		"description": "Flutter workflows",
		"components": {"skills": 2, "agents": 1, "commands": 0}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".claude-plugin", "plugin.json"), []byte(manifest), 0o644))

	for name, content := range map[string]string{
		"flutter-pub":  goodSkill,
		"flutter-pods": badSkill,
	} {
		dir := filepath.Join(root, "skills", name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
	}

	require.NoError(t, os.MkdirAll(filepath.Join(root, "agents"), 0o755))
	agent := "---\nname: flutter-mobile-developer\ndescription: Flutter domain expert\n---\n\nPrompt.\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "agents", "flutter-mobile-developer.md"), []byte(agent), 0o644))

	return root
}

func ruleFindings(report *Report, rule string) []Finding {
	var out []Finding
	for _, f := range report.Findings {
		if f.Rule == rule {
			out = append(out, f)
		}
	}
	return out
}

func TestLintFixturePlugin(t *testing.T) {
	root := writeFixturePlugin(t)

	ctx, err := LoadContext(root)
	require.NoError(t, err)
	require.Len(t, ctx.Documents, 2)
	assert.Empty(t, ctx.ParseFailures)

	linter, err := New()
	require.NoError(t, err)

	report := linter.Run(ctx)
	assert.Equal(t, 2, report.DocumentsChecked)
	assert.True(t, report.HasErrors())

	t.Run("usage-section flags the bad document only", func(t *testing.T) {
		findings := ruleFindings(report, "usage-section")
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].File, "flutter-pods")
		assert.Equal(t, SeverityError, findings[0].Severity)
	})

	t.Run("option-defaults flags the empty default", func(t *testing.T) {
		findings := ruleFindings(report, "option-defaults")
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "--repo-update")
	})

	t.Run("agent-reference resolves good, flags bad", func(t *testing.T) {
		findings := ruleFindings(report, "agent-reference")
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "flutter-ios-specialist")
	})

	t.Run("code-fence-language flags the untagged fence", func(t *testing.T) {
		findings := ruleFindings(report, "code-fence-language")
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].File, "flutter-pods")
		assert.Equal(t, SeverityWarning, findings[0].Severity)
		assert.Positive(t, findings[0].Line)
	})

	t.Run("example-prefix flags the mismatched invocation", func(t *testing.T) {
		findings := ruleFindings(report, "example-prefix")
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "/flutter-cocoapods install")
	})

	t.Run("naming-pattern flags the camel-case name", func(t *testing.T) {
		findings := ruleFindings(report, "naming-pattern")
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "FlutterPods")
	})

	t.Run("manifest parity is satisfied", func(t *testing.T) {
		assert.Empty(t, ruleFindings(report, "manifest-parity"))
	})
}

func TestManifestParityMismatch(t *testing.T) {
	root := writeFixturePlugin(t)

	// Remove one skill so the declared count no longer matches
	require.NoError(t, os.RemoveAll(filepath.Join(root, "skills", "flutter-pods")))

	ctx, err := LoadContext(root)
	require.NoError(t, err)

	linter, err := New(WithRules(&manifestParityRule{}))
	require.NoError(t, err)

	report := linter.Run(ctx)
	findings := ruleFindings(report, "manifest-parity")
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "declares 2 skills, found 1")
}

func TestParseFailureReported(t *testing.T) {
	root := writeFixturePlugin(t)

	dir := filepath.Join(root, "skills", "flutter-broken")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("no frontmatter\n"), 0o644))

	ctx, err := LoadContext(root)
	require.NoError(t, err)
	assert.Len(t, ctx.ParseFailures, 1)

	linter, err := New(WithRules(&parseFailureRule{}))
	require.NoError(t, err)

	report := linter.Run(ctx)
	findings := ruleFindings(report, "document-parse")
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].File, "flutter-broken")
}

func TestAgentReferenceSkippedWithoutAgentsDir(t *testing.T) {
	root := writeFixturePlugin(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "agents")))

	ctx, err := LoadContext(root)
	require.NoError(t, err)

	linter, err := New(WithRules(&agentReferenceRule{}))
	require.NoError(t, err)

	report := linter.Run(ctx)
	assert.Empty(t, report.Findings)
}

func TestWithRuleFilter(t *testing.T) {
	t.Run("keeps matching rules", func(t *testing.T) {
		linter, err := New(WithRuleFilter("*-section"))
		require.NoError(t, err)
		assert.Equal(t, []string{"usage-section"}, linter.RuleIDs())
	})

	t.Run("rejects a filter matching nothing", func(t *testing.T) {
		_, err := New(WithRuleFilter("nope-*"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matches no rules")
	})
}

func TestReport(t *testing.T) {
	report := &Report{
		Findings: []Finding{
			{Rule: "b-rule", Severity: SeverityWarning, File: "b.md", Line: 3, Message: "warn"},
			{Rule: "a-rule", Severity: SeverityError, File: "a.md", Line: 9, Message: "boom"},
			{Rule: "a-rule", Severity: SeverityError, File: "a.md", Line: 2, Message: "boom"},
		},
	}
	report.Sort()

	assert.Equal(t, 2, report.Findings[0].Line)
	assert.Equal(t, 2, report.Errors())
	assert.Equal(t, 1, report.Warnings())
	assert.True(t, report.HasErrors())

	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.md:2")

	out, jerr := report.JSON()
	require.NoError(t, jerr)
	assert.Contains(t, out, `"rule": "a-rule"`)

	clean := &Report{}
	assert.NoError(t, clean.Err())
	assert.False(t, clean.HasErrors())
}
