package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flutterkit/fluttercheck/pkg/agents"
	"github.com/flutterkit/fluttercheck/pkg/commands"
	"github.com/flutterkit/fluttercheck/pkg/skilldoc"
)

func TestSkillRendersConformantDocument(t *testing.T) {
	content, err := Skill(Params{
		Name:        "flutter-melos",
		Description: "Manage melos workspaces",
		Agent:       "flutter-monorepo-expert",
	})
	require.NoError(t, err)

	doc, err := skilldoc.Parse([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "flutter-melos", doc.CommandName)
	assert.True(t, doc.HasSection(skilldoc.SectionUsage))
	assert.True(t, doc.HasSection(skilldoc.SectionOutputSummary))
	assert.Equal(t, "flutter-monorepo-expert", doc.AgentReference)
	require.NotEmpty(t, doc.Examples)
	assert.Equal(t, "/flutter-melos status", doc.Examples[0])
}

func TestSkillDefaultAgent(t *testing.T) {
	content, err := Skill(Params{Name: "flutter-melos", Description: "Manage melos workspaces"})
	require.NoError(t, err)
	assert.Contains(t, content, "flutter-mobile-developer")
}

func TestAgentRendersLoadableFile(t *testing.T) {
	content, err := Agent(Params{
		Name:        "flutter-performance-tuner",
		Description: "Profile and optimize Flutter apps",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "flutter-performance-tuner.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	agent, err := agents.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "flutter-performance-tuner", agent.Metadata.Name)
	assert.NotEmpty(t, agent.SystemPrompt)
}

func TestCommandRendersLoadableFile(t *testing.T) {
	content, err := Command(Params{
		Name:        "fix-lints",
		Description: "Fix analyzer warnings",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fix-lints.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cmd, err := commands.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fix-lints", cmd.Name)
	assert.Equal(t, "Fix analyzer warnings", cmd.Metadata.Description)
}

func TestParamsValidation(t *testing.T) {
	_, err := Skill(Params{Name: "FlutterMelos", Description: "desc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lowercase words")

	_, err = Agent(Params{Name: "flutter-melos"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}

func TestWriteRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	params := Params{Name: "flutter-melos", Description: "Manage melos workspaces"}

	path, err := WriteSkill(root, params)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "skills", "flutter-melos", "SKILL.md"), path)

	_, err = WriteSkill(root, params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWriteAgentAndCommandPaths(t *testing.T) {
	root := t.TempDir()

	path, err := WriteAgent(root, Params{Name: "flutter-tester", Description: "Testing expert"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "agents", "flutter-tester.md"), path)

	path, err = WriteCommand(root, Params{Name: "fix-lints", Description: "Fix analyzer warnings"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "commands", "fix-lints.md"), path)
}
