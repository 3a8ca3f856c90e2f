// Package skilldoc parses skill documents: the skills/*/SKILL.md files that
// describe a slash command's usage, subcommands, options, examples and
// step-by-step instructions. Documents carry YAML frontmatter (name,
// description) followed by a conventional set of H2 sections.
package skilldoc

// Document is a parsed skill document.
type Document struct {
	CommandName    string            // Unique name from frontmatter, e.g. "flutter-pub"
	Description    string            // Brief description from frontmatter
	Usage          string            // Pseudo-BNF grammar line from "## Usage"
	Subcommands    []Subcommand      // Rows of the "## Commands" table
	Options        []Option          // Rows of the "## Options" table
	Examples       []string          // Literal invocation strings from "## Examples"
	Instructions   []InstructionStep // Ordered steps from "## Instructions"
	OutputSummary  string            // Report template from "## Output Summary"
	AgentReference string            // Agent name from "## Agent Reference" (soft reference)
	CodeBlocks     []CodeBlock       // Every fenced code block in the document
	Sections       []string          // H2 section titles in document order
	Path           string            // Source file path
	Directory      string            // Skill directory containing SKILL.md
}

// Subcommand is one row of the commands table.
type Subcommand struct {
	Name        string
	Description string
	Default     string
}

// Option is one row of the options table. Default is either a literal value
// or the marker "required".
type Option struct {
	Name        string
	Description string
	Default     string
}

// InstructionStep pairs a rationale with the shell or code snippet that
// carries it out. Snippet may be nil for prose-only steps.
type InstructionStep struct {
	Rationale string
	Snippet   *CodeBlock
}

// CodeBlock is a fenced code block with its language tag and the 1-based line
// of the opening fence. Language is empty when the fence has no info string.
type CodeBlock struct {
	Language string
	Code     string
	Line     int
}

// Metadata represents the YAML frontmatter in SKILL.md files.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// HasSection reports whether the document contains the given H2 section.
func (d *Document) HasSection(title string) bool {
	for _, s := range d.Sections {
		if s == title {
			return true
		}
	}
	return false
}

// Slash returns the document's slash-command form, e.g. "/flutter-pub".
func (d *Document) Slash() string {
	return "/" + d.CommandName
}

// FindSubcommand returns the subcommand with the given name, if declared.
func (d *Document) FindSubcommand(name string) (Subcommand, bool) {
	for _, sc := range d.Subcommands {
		if sc.Name == name {
			return sc, true
		}
	}
	return Subcommand{}, false
}

// FindOption returns the option with the given flag name, if declared.
// Lookup accepts both "--flag" and "flag".
func (d *Document) FindOption(name string) (Option, bool) {
	for _, opt := range d.Options {
		if opt.Name == name || trimDashes(opt.Name) == trimDashes(name) {
			return opt, true
		}
	}
	return Option{}, false
}

func trimDashes(s string) string {
	for len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	return s
}
