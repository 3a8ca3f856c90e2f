package skilldoc

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const skillFileName = "SKILL.md"

// Discovery handles skill document discovery from configured directories.
type Discovery struct {
	skillDirs []string
}

// DiscoveryOption is a function that configures a Discovery
type DiscoveryOption func(*Discovery) error

// WithSkillDirs sets custom skill directories
func WithSkillDirs(dirs ...string) DiscoveryOption {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithPluginRoot discovers documents from a plugin root's skills/ directory
func WithPluginRoot(root string) DiscoveryOption {
	return func(d *Discovery) error {
		d.skillDirs = []string{filepath.Join(root, "skills")}
		return nil
	}
}

// WithDefaultDirs initializes with default skill directories: the working
// directory's skills/ plus the user-global ~/.fluttercheck/skills.
func WithDefaultDirs() DiscoveryOption {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./skills", // Plugin-local (highest precedence)
			filepath.Join(homeDir, ".fluttercheck", "skills"),
		}
		return nil
	}
}

// NewDiscovery creates a new skill document discovery instance
func NewDiscovery(opts ...DiscoveryOption) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(d); err != nil {
			return nil, err
		}
	} else {
		for _, opt := range opts {
			if err := opt(d); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// Discover finds all parseable skill documents from configured directories.
// Earlier directories take precedence for duplicate command names. Documents
// that fail to parse are skipped; the linter reports them separately.
func (d *Discovery) Discover() (map[string]*Document, error) {
	docs := make(map[string]*Document)

	for _, dir := range d.skillDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			entryPath := filepath.Join(dir, entry.Name())

			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}

			doc, err := ParseFile(filepath.Join(entryPath, skillFileName))
			if err != nil {
				continue
			}

			if _, exists := docs[doc.CommandName]; !exists {
				doc.Directory = entryPath
				docs[doc.CommandName] = doc
			}
		}
	}

	return docs, nil
}

// Get returns a specific skill document by command name.
func (d *Discovery) Get(name string) (*Document, error) {
	docs, err := d.Discover()
	if err != nil {
		return nil, err
	}

	doc, exists := docs[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return doc, nil
}

// ListNames returns the command names of all discoverable skill documents.
func (d *Discovery) ListNames() ([]string, error) {
	docs, err := d.Discover()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}

	return names, nil
}
