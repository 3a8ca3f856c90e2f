package skilldoc

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Section titles recognized by the parser. Anything else is carried in
// Document.Sections but otherwise ignored.
const (
	SectionUsage          = "Usage"
	SectionCommands       = "Commands"
	SectionOptions        = "Options"
	SectionExamples       = "Examples"
	SectionInstructions   = "Instructions"
	SectionOutputSummary  = "Output Summary"
	SectionAgentReference = "Agent Reference"
)

// ParseFile reads and parses a skill document from disk.
func ParseFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	doc, err := Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	doc.Path = path
	return doc, nil
}

// Parse parses skill document content. The frontmatter must declare a name
// and a description; everything else is optional and reported by the linter
// rather than rejected here.
func Parse(content []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta, extension.Table),
	)

	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(content), parser.WithContext(pctx))

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	doc := &Document{
		CommandName: name,
		Description: description,
	}

	p := &docParser{doc: doc, source: content}
	p.walkSections(root)
	p.collectCodeBlocks(root)

	return doc, nil
}

// docParser accumulates Document fields while walking the top level of the
// markdown AST, tracking the current H2 section.
type docParser struct {
	doc     *Document
	source  []byte
	section string
	pending *InstructionStep // instruction step awaiting its snippet
}

func (p *docParser) walkSections(root ast.Node) {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 2 {
			p.flushPending()
			p.section = nodeText(h, p.source)
			p.doc.Sections = append(p.doc.Sections, p.section)
			continue
		}

		switch p.section {
		case SectionUsage:
			p.handleUsage(n)
		case SectionCommands:
			if table, ok := n.(*east.Table); ok {
				p.doc.Subcommands = append(p.doc.Subcommands, parseSubcommandTable(table, p.source)...)
			}
		case SectionOptions:
			if table, ok := n.(*east.Table); ok {
				p.doc.Options = append(p.doc.Options, parseOptionTable(table, p.source)...)
			}
		case SectionExamples:
			p.handleExamples(n)
		case SectionInstructions:
			p.handleInstructions(n)
		case SectionOutputSummary:
			p.handleOutputSummary(n)
		case SectionAgentReference:
			p.handleAgentReference(n)
		}
	}
	p.flushPending()
}

func (p *docParser) handleUsage(n ast.Node) {
	if p.doc.Usage != "" {
		return
	}
	switch t := n.(type) {
	case *ast.FencedCodeBlock:
		p.doc.Usage = strings.TrimSpace(codeContent(t, p.source))
	case *ast.Paragraph:
		p.doc.Usage = strings.TrimSpace(nodeText(t, p.source))
	}
}

func (p *docParser) handleExamples(n ast.Node) {
	switch t := n.(type) {
	case *ast.FencedCodeBlock:
		for _, line := range strings.Split(codeContent(t, p.source), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			p.doc.Examples = append(p.doc.Examples, line)
		}
	case *ast.List:
		for item := t.FirstChild(); item != nil; item = item.NextSibling() {
			if example := strings.TrimSpace(nodeText(item, p.source)); example != "" {
				p.doc.Examples = append(p.doc.Examples, example)
			}
		}
	}
}

// handleInstructions accepts the two shapes skill documents use for numbered
// steps: an ordered list whose items may nest a fenced snippet, or a run of
// H3 headings each followed by prose and a fenced snippet.
func (p *docParser) handleInstructions(n ast.Node) {
	switch t := n.(type) {
	case *ast.List:
		p.flushPending()
		for item := t.FirstChild(); item != nil; item = item.NextSibling() {
			step := InstructionStep{Rationale: itemRationale(item, p.source)}
			if fcb := firstFencedBlock(item); fcb != nil {
				step.Snippet = newCodeBlock(fcb, p.source)
			}
			p.doc.Instructions = append(p.doc.Instructions, step)
		}
	case *ast.Heading:
		if t.Level == 3 {
			p.flushPending()
			p.pending = &InstructionStep{Rationale: nodeText(t, p.source)}
		}
	case *ast.Paragraph:
		if p.pending != nil {
			rationale := strings.TrimSpace(nodeText(t, p.source))
			if rationale != "" {
				p.pending.Rationale = strings.TrimSpace(p.pending.Rationale + "\n" + rationale)
			}
		}
	case *ast.FencedCodeBlock:
		if p.pending != nil && p.pending.Snippet == nil {
			p.pending.Snippet = newCodeBlock(t, p.source)
			p.flushPending()
		}
	}
}

func (p *docParser) flushPending() {
	if p.pending != nil {
		p.doc.Instructions = append(p.doc.Instructions, *p.pending)
		p.pending = nil
	}
}

func (p *docParser) handleOutputSummary(n ast.Node) {
	var chunk string
	switch t := n.(type) {
	case *ast.FencedCodeBlock:
		chunk = codeContent(t, p.source)
	case *ast.Paragraph:
		chunk = nodeText(t, p.source)
	default:
		return
	}

	chunk = strings.TrimRight(chunk, "\n")
	if chunk == "" {
		return
	}
	if p.doc.OutputSummary != "" {
		p.doc.OutputSummary += "\n"
	}
	p.doc.OutputSummary += chunk
}

func (p *docParser) handleAgentReference(n ast.Node) {
	if p.doc.AgentReference != "" {
		return
	}
	para, ok := n.(*ast.Paragraph)
	if !ok {
		return
	}
	p.doc.AgentReference = extractAgentName(nodeText(para, p.source))
}

// extractAgentName pulls the referenced agent name out of prose like
// "See the flutter-mobile-developer agent for platform guidance." The first
// flutter-prefixed token wins; otherwise the whole trimmed text is returned.
func extractAgentName(s string) string {
	for _, token := range strings.Fields(s) {
		token = strings.Trim(token, "`*_.,:;()[]")
		if strings.HasPrefix(token, "flutter-") {
			return token
		}
	}
	return strings.TrimSpace(s)
}

func (p *docParser) collectCodeBlocks(root ast.Node) {
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fcb, ok := n.(*ast.FencedCodeBlock); ok {
			p.doc.CodeBlocks = append(p.doc.CodeBlocks, *newCodeBlock(fcb, p.source))
		}
		return ast.WalkContinue, nil
	})
}

func parseSubcommandTable(table *east.Table, source []byte) []Subcommand {
	var subcommands []Subcommand
	for _, cells := range tableRows(table, source) {
		sc := Subcommand{Name: cleanCell(cells[0])}
		if len(cells) > 1 {
			sc.Description = cells[1]
		}
		if len(cells) > 2 {
			sc.Default = cells[2]
		}
		subcommands = append(subcommands, sc)
	}
	return subcommands
}

func parseOptionTable(table *east.Table, source []byte) []Option {
	var options []Option
	for _, cells := range tableRows(table, source) {
		opt := Option{Name: cleanCell(cells[0])}
		if len(cells) > 1 {
			opt.Description = cells[1]
		}
		if len(cells) > 2 {
			opt.Default = cells[2]
		}
		options = append(options, opt)
	}
	return options
}

// tableRows returns the body rows of a table as trimmed cell texts, skipping
// the header row.
func tableRows(table *east.Table, source []byte) [][]string {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		if _, isHeader := row.(*east.TableHeader); isHeader {
			continue
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(nodeText(cell, source)))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// cleanCell strips the backticks documents commonly use around subcommand and
// flag names in tables.
func cleanCell(s string) string {
	return strings.Trim(s, "` ")
}

func itemRationale(item ast.Node, source []byte) string {
	var parts []string
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if s := strings.TrimSpace(nodeText(child, source)); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func firstFencedBlock(n ast.Node) *ast.FencedCodeBlock {
	var found *ast.FencedCodeBlock
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found != nil {
			return ast.WalkContinue, nil
		}
		if fcb, ok := child.(*ast.FencedCodeBlock); ok {
			found = fcb
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

func newCodeBlock(fcb *ast.FencedCodeBlock, source []byte) *CodeBlock {
	block := &CodeBlock{
		Code: codeContent(fcb, source),
		Line: fenceLine(fcb, source),
	}
	if lang := fcb.Language(source); lang != nil {
		block.Language = string(lang)
	}
	return block
}

func codeContent(fcb *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// fenceLine returns the 1-based line number of the opening fence.
func fenceLine(fcb *ast.FencedCodeBlock, source []byte) int {
	if fcb.Info != nil {
		return lineAt(source, fcb.Info.Segment.Start)
	}
	if lines := fcb.Lines(); lines.Len() > 0 {
		return lineAt(source, lines.At(0).Start) - 1
	}
	return 0
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return 1 + bytes.Count(source[:offset], []byte{'\n'})
}

func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	appendNodeText(&buf, n, source)
	return buf.String()
}

func appendNodeText(buf *bytes.Buffer, n ast.Node, source []byte) {
	switch t := n.(type) {
	case *ast.Text:
		buf.Write(t.Segment.Value(source))
	case *ast.String:
		buf.Write(t.Value)
	default:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			appendNodeText(buf, child, source)
		}
	}
}
