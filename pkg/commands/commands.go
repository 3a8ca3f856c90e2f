// Package commands loads command documents: the commands/*.md files a plugin
// ships as user-invoked prompt templates, with frontmatter describing the
// command and its argument hint.
package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Metadata is the YAML frontmatter of a command document.
type Metadata struct {
	Description  string   `yaml:"description"`
	ArgumentHint string   `yaml:"argument-hint,omitempty"`
	AllowedTools []string `yaml:"allowed-tools,omitempty"`
}

// Command is a loaded command document. Name is derived from the file name.
type Command struct {
	Name     string
	Metadata Metadata
	Body     string
	Path     string
}

// LoadFile loads and parses a single command document.
func LoadFile(path string) (*Command, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read command file")
	}

	name := strings.TrimSuffix(filepath.Base(path), ".md")
	cmd := &Command{Name: name, Path: path}

	body := string(content)
	if strings.HasPrefix(body, "---") {
		lines := strings.Split(body, "\n")
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				end = i
				break
			}
		}
		if end == -1 {
			return nil, errors.Errorf("unterminated frontmatter in %s", path)
		}

		if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &cmd.Metadata); err != nil {
			return nil, errors.Wrapf(err, "failed to decode frontmatter in %s", path)
		}
		body = strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
	}

	cmd.Body = body
	return cmd, nil
}

// List loads all command documents from dir, sorted by name. A missing
// directory yields an empty list.
func List(dir string) ([]*Command, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read command directory %s", dir)
	}

	var cmds []*Command
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		cmd, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		cmds = append(cmds, cmd)
	}

	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds, nil
}
