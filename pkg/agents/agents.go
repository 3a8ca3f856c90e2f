// Package agents loads agent files: the agents/*.md documents that define a
// domain-expert persona (frontmatter with name, description, model, tools)
// followed by the agent's system prompt as Markdown.
package agents

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Metadata is the YAML frontmatter of an agent file.
type Metadata struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Model       string   `yaml:"model,omitempty"`
	Tools       []string `yaml:"tools,omitempty"`
	Color       string   `yaml:"color,omitempty"`
}

// Agent is a loaded agent file: its metadata, system prompt body and path.
type Agent struct {
	Metadata     Metadata
	SystemPrompt string
	Path         string
}

// Processor handles loading of agent definitions from disk.
type Processor struct {
	agentDirs []string
}

// ProcessorOption configures a Processor
type ProcessorOption func(*Processor) error

// WithAgentDirs sets custom agent directories
func WithAgentDirs(dirs ...string) ProcessorOption {
	return func(p *Processor) error {
		if len(dirs) == 0 {
			return errors.New("at least one agent directory must be specified")
		}
		p.agentDirs = dirs
		return nil
	}
}

// WithPluginRoot loads agents from a plugin root's agents/ directory
func WithPluginRoot(root string) ProcessorOption {
	return func(p *Processor) error {
		p.agentDirs = []string{filepath.Join(root, "agents")}
		return nil
	}
}

// WithDefaultDirs sets the default agent directories (./agents, ~/.fluttercheck/agents)
func WithDefaultDirs() ProcessorOption {
	return func(p *Processor) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		p.agentDirs = []string{
			"./agents", // Plugin-local (higher precedence)
			filepath.Join(homeDir, ".fluttercheck", "agents"),
		}
		return nil
	}
}

// NewProcessor creates a new agent processor with optional configuration
func NewProcessor(opts ...ProcessorOption) (*Processor, error) {
	p := &Processor{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(p); err != nil {
			return nil, err
		}
		return p, nil
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if len(p.agentDirs) == 0 {
		if err := WithDefaultDirs()(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Load loads an agent by name, searching the configured directories in order.
func (p *Processor) Load(name string) (*Agent, error) {
	for _, dir := range p.agentDirs {
		path := filepath.Join(dir, name+".md")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	return nil, errors.Errorf("agent '%s' not found in directories: %v", name, p.agentDirs)
}

// List loads all agents from the configured directories. Earlier directories
// take precedence for duplicate names. Files that fail to parse are skipped.
func (p *Processor) List() ([]*Agent, error) {
	byName := make(map[string]*Agent)

	for _, dir := range p.agentDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}

			agent, err := LoadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}

			if _, exists := byName[agent.Metadata.Name]; !exists {
				byName[agent.Metadata.Name] = agent
			}
		}
	}

	agents := make([]*Agent, 0, len(byName))
	for _, agent := range byName {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].Metadata.Name < agents[j].Metadata.Name
	})

	return agents, nil
}

// Exists reports whether an agent with the given name can be loaded.
func (p *Processor) Exists(name string) bool {
	_, err := p.Load(name)
	return err == nil
}

// LoadFile loads and parses a single agent file.
func LoadFile(path string) (*Agent, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read agent file")
	}

	metadata, body, err := parseFrontmatter(string(content))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	if metadata.Name == "" {
		// Fall back to the file name, matching host runtime behavior
		metadata.Name = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	return &Agent{
		Metadata:     metadata,
		SystemPrompt: body,
		Path:         path,
	}, nil
}

// parseFrontmatter splits the YAML frontmatter from the Markdown body and
// decodes it into Metadata.
func parseFrontmatter(content string) (Metadata, string, error) {
	var metadata Metadata

	if !strings.HasPrefix(content, "---") {
		return metadata, "", errors.New("missing frontmatter")
	}

	lines := strings.Split(content, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return metadata, "", errors.New("unterminated frontmatter")
	}

	frontmatter := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(frontmatter), &metadata); err != nil {
		return metadata, "", errors.Wrap(err, "failed to decode frontmatter")
	}

	body := strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
	return metadata, body, nil
}
