package plugin

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Inventory lists the plugin content files actually present on disk.
type Inventory struct {
	SkillFiles   []string // skills/*/SKILL.md
	AgentFiles   []string // agents/*.md
	CommandFiles []string // commands/*.md
}

// Counts returns the inventory as component counts.
func (inv *Inventory) Counts() Components {
	return Components{
		Skills:   len(inv.SkillFiles),
		Agents:   len(inv.AgentFiles),
		Commands: len(inv.CommandFiles),
	}
}

// TakeInventory globs the plugin content directories and returns the files
// found, with paths relative to the plugin root.
func (p *Plugin) TakeInventory() (*Inventory, error) {
	inv := &Inventory{}

	patterns := []struct {
		pattern string
		dest    *[]string
	}{
		{"skills/*/SKILL.md", &inv.SkillFiles},
		{"agents/*.md", &inv.AgentFiles},
		{"commands/*.md", &inv.CommandFiles},
	}

	fsys := os.DirFS(p.Root)
	for _, pg := range patterns {
		matches, err := doublestar.Glob(fsys, pg.pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to glob %s", pg.pattern)
		}
		sort.Strings(matches)
		*pg.dest = matches
	}

	return inv, nil
}

// Verify checks that the manifest's declared component counts match the files
// on disk. All mismatches are reported, not just the first.
func (p *Plugin) Verify() error {
	inv, err := p.TakeInventory()
	if err != nil {
		return err
	}

	actual := inv.Counts()
	declared := p.Manifest.Components

	var result *multierror.Error
	if declared.Skills != actual.Skills {
		result = multierror.Append(result,
			errors.Errorf("manifest declares %d skills, found %d on disk", declared.Skills, actual.Skills))
	}
	if declared.Agents != actual.Agents {
		result = multierror.Append(result,
			errors.Errorf("manifest declares %d agents, found %d on disk", declared.Agents, actual.Agents))
	}
	if declared.Commands != actual.Commands {
		result = multierror.Append(result,
			errors.Errorf("manifest declares %d commands, found %d on disk", declared.Commands, actual.Commands))
	}

	return result.ErrorOrNil()
}

// AbsSkillFiles returns the inventory's skill files as absolute paths.
func (p *Plugin) AbsSkillFiles(inv *Inventory) []string {
	return absAll(p.Root, inv.SkillFiles)
}

func absAll(root string, rels []string) []string {
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		out = append(out, filepath.Join(root, rel))
	}
	return out
}
