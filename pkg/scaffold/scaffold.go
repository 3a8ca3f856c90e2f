// Package scaffold renders starter plugin documents (skill, agent, command)
// from embedded templates so new content starts out schema-conformant.
package scaffold

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/pkg/errors"
)

//go:embed templates/*
var templateFS embed.FS

const (
	skillTemplate   = "templates/skill.md.tmpl"
	agentTemplate   = "templates/agent.md.tmpl"
	commandTemplate = "templates/command.md.tmpl"
)

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Params carries the user-provided values rendered into a template.
type Params struct {
	Name        string
	Description string
	Agent       string // referenced agent for skill documents
}

func (p Params) validate() error {
	if !namePattern.MatchString(p.Name) {
		return errors.Errorf("name %q must be lowercase words separated by hyphens", p.Name)
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	return nil
}

// Skill renders a new skill document.
func Skill(params Params) (string, error) {
	if params.Agent == "" {
		params.Agent = "flutter-mobile-developer"
	}
	return render(skillTemplate, params)
}

// Agent renders a new agent file.
func Agent(params Params) (string, error) {
	return render(agentTemplate, params)
}

// Command renders a new command document.
func Command(params Params) (string, error) {
	return render(commandTemplate, params)
}

func render(name string, params Params) (string, error) {
	if err := params.validate(); err != nil {
		return "", err
	}

	tmpl, err := template.ParseFS(templateFS, name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", errors.Wrapf(err, "failed to render template %s", name)
	}
	return buf.String(), nil
}

// WriteSkill writes a rendered skill document to skills/<name>/SKILL.md under
// the plugin root, refusing to overwrite existing content.
func WriteSkill(root string, params Params) (string, error) {
	content, err := Skill(params)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, "skills", params.Name, "SKILL.md")
	return path, write(path, content)
}

// WriteAgent writes a rendered agent file to agents/<name>.md.
func WriteAgent(root string, params Params) (string, error) {
	content, err := Agent(params)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, "agents", params.Name+".md")
	return path, write(path, content)
}

// WriteCommand writes a rendered command document to commands/<name>.md.
func WriteCommand(root string, params Params) (string, error) {
	content, err := Command(params)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, "commands", params.Name+".md")
	return path, write(path, content)
}

func write(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create document directory")
	}
	return errors.Wrapf(os.WriteFile(path, []byte(content), 0o644), "failed to write %s", path)
}
