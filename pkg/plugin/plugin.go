// Package plugin locates and parses Claude-compatible plugin packages: the
// .claude-plugin/plugin.json manifest plus the content directories (skills,
// agents, commands, hooks) the manifest describes.
package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ManifestDir is the directory holding the plugin manifest.
const ManifestDir = ".claude-plugin"

// ManifestFile is the manifest filename inside ManifestDir.
const ManifestFile = "plugin.json"

// Author identifies the plugin maintainer.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Components holds the component counts the manifest declares. The counts
// are checked against the files actually present on disk by Verify.
type Components struct {
	Skills   int `json:"skills"`
	Agents   int `json:"agents"`
	Commands int `json:"commands"`
}

// Manifest represents .claude-plugin/plugin.json.
type Manifest struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Author      *Author    `json:"author,omitempty"`
	Categories  []string   `json:"categories,omitempty"`
	Components  Components `json:"components"`
}

// Plugin is a located plugin package: its root directory and parsed manifest.
type Plugin struct {
	Root     string
	Manifest Manifest
}

// ManifestPath returns the path to the plugin's manifest file.
func (p *Plugin) ManifestPath() string {
	return filepath.Join(p.Root, ManifestDir, ManifestFile)
}

// SkillsDir returns the plugin's skills directory.
func (p *Plugin) SkillsDir() string { return filepath.Join(p.Root, "skills") }

// AgentsDir returns the plugin's agents directory.
func (p *Plugin) AgentsDir() string { return filepath.Join(p.Root, "agents") }

// CommandsDir returns the plugin's commands directory.
func (p *Plugin) CommandsDir() string { return filepath.Join(p.Root, "commands") }

// HooksPath returns the path to the plugin's hook configuration.
func (p *Plugin) HooksPath() string { return filepath.Join(p.Root, "hooks", "hooks.json") }

// MCPPath returns the path to the plugin's MCP server descriptors.
func (p *Plugin) MCPPath() string { return filepath.Join(p.Root, ".mcp.json") }

// Load reads and validates the manifest at root and returns the plugin.
func Load(root string) (*Plugin, error) {
	manifestPath := filepath.Join(root, ManifestDir, ManifestFile)

	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", manifestPath)
	}

	var manifest Manifest
	if err := json.Unmarshal(content, &manifest); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", manifestPath)
	}

	if manifest.Name == "" {
		return nil, errors.Errorf("manifest %s: name is required", manifestPath)
	}
	if manifest.Version == "" {
		return nil, errors.Errorf("manifest %s: version is required", manifestPath)
	}

	return &Plugin{Root: root, Manifest: manifest}, nil
}

// FindRoot walks up from start looking for a directory containing
// .claude-plugin/plugin.json.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve start directory")
	}

	for {
		manifestPath := filepath.Join(dir, ManifestDir, ManifestFile)
		if _, err := os.Stat(manifestPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Errorf("no %s/%s found in %s or any parent directory", ManifestDir, ManifestFile, start)
		}
		dir = parent
	}
}

// Find locates the plugin root starting at start and loads its manifest.
func Find(start string) (*Plugin, error) {
	root, err := FindRoot(start)
	if err != nil {
		return nil, err
	}
	return Load(root)
}
