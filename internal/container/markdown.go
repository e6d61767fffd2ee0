package container

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// MarkdownReader parses Markdown documents that carry an optional YAML
// frontmatter block followed by a free-form body. Named sections are
// extracted from the body by matching heading text against a fixed set of
// synonyms; headings outside that set are ignored.
type MarkdownReader struct {
	markdown goldmark.Markdown
}

// NewMarkdownReader creates a MarkdownReader.
func NewMarkdownReader() *MarkdownReader {
	return &MarkdownReader{
		markdown: goldmark.New(),
	}
}

// mdSections holds the named sections recognized in a markdown body.
type mdSections struct {
	title        string
	description  string
	instructions string
	tools        string
	skills       string
	hasTools     bool
	hasSkills    bool
}

// descriptionFallbackLen bounds the body prefix used as a description when
// no description section exists.
const descriptionFallbackLen = 500

// Read parses markdown content. The frontmatter mapping (when present)
// seeds the tree; the remaining body is stored under "body" and mined for
// name, description, instructions, tools, and skills.
func (r *MarkdownReader) Read(content []byte) (map[string]any, error) {
	body, frontmatter := extractFrontmatter(content)

	tree := map[string]any{}
	if frontmatter != nil {
		var fm any
		if err := yaml.Unmarshal(frontmatter, &fm); err != nil {
			return nil, &ParseError{Format: FormatMarkdown, Msg: "malformed YAML frontmatter", Err: err}
		}
		switch m := fm.(type) {
		case nil:
			// Empty frontmatter block is fine.
		case map[string]any:
			tree = m
		default:
			return nil, &ParseError{Format: FormatMarkdown, Msg: "frontmatter must be a mapping"}
		}
	}

	bodyText := strings.TrimSpace(string(body))
	tree["body"] = bodyText

	sections := r.extractSections([]byte(bodyText))

	if _, ok := tree["name"]; !ok {
		if sections.title != "" {
			tree["name"] = sections.title
		} else if heading := firstHeadingLine(bodyText); heading != "" {
			tree["name"] = heading
		}
	}

	if _, ok := tree["description"]; !ok {
		if sections.description != "" {
			tree["description"] = sections.description
		} else if len(bodyText) > descriptionFallbackLen {
			tree["description"] = bodyText[:descriptionFallbackLen]
		} else {
			tree["description"] = bodyText
		}
	}

	if _, ok := tree["instructions"]; !ok && sections.instructions != "" {
		tree["instructions"] = sections.instructions
	}

	// tools and skills default to empty sequences, never stay absent:
	// dialect validators distinguish "present but empty" from "missing".
	if _, ok := tree["tools"]; !ok {
		if sections.hasTools {
			tree["tools"] = parseListSection(sections.tools)
		} else {
			tree["tools"] = []string{}
		}
	}
	if _, ok := tree["skills"]; !ok {
		if sections.hasSkills {
			tree["skills"] = parseListSection(sections.skills)
		} else {
			tree["skills"] = []string{}
		}
	}

	return tree, nil
}

// extractSections walks the markdown AST and classifies level 1-3 headings
// by case-insensitive synonym matching. The first level 1 heading that does
// not match a known section becomes the title. When the same section appears
// twice, the later occurrence wins.
func (r *MarkdownReader) extractSections(source []byte) mdSections {
	var sections mdSections

	doc := r.markdown.Parser().Parse(text.NewReader(source))

	type headingSpan struct {
		level     int
		text      string
		lineStart int // offset of the heading line itself
		bodyStart int // offset just past the heading line
	}
	var headings []headingSpan

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level > 3 || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}

		seg := heading.Lines().At(0)
		headings = append(headings, headingSpan{
			level:     heading.Level,
			text:      strings.TrimSpace(extractText(heading, source)),
			lineStart: lineStartOffset(source, seg.Start),
			bodyStart: nextLineOffset(source, seg.Stop),
		})
		return ast.WalkContinue, nil
	})

	for i, h := range headings {
		end := len(source)
		if i+1 < len(headings) {
			end = headings[i+1].lineStart
		}
		body := ""
		if h.bodyStart < end {
			body = strings.TrimSpace(string(source[h.bodyStart:end]))
		}

		switch strings.ToLower(h.text) {
		case "description", "about", "overview":
			sections.description = body
		case "instructions", "instruction", "system prompt", "prompt":
			sections.instructions = body
		case "tools", "tool":
			sections.tools = body
			sections.hasTools = true
		case "skills", "skill", "capabilities":
			sections.skills = body
			sections.hasSkills = true
		default:
			if sections.title == "" && h.level == 1 {
				sections.title = h.text
			}
		}
	}

	return sections
}

var (
	bulletItemRegex   = regexp.MustCompile(`^[-*]\s+(.+)$`)
	numberedItemRegex = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// parseListSection parses a bullet or numbered markdown list into a string
// sequence. Lines that are not list items are skipped.
func parseListSection(content string) []string {
	items := []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if m := bulletItemRegex.FindStringSubmatch(line); len(m) == 2 {
			items = append(items, strings.TrimSpace(m[1]))
			continue
		}
		if m := numberedItemRegex.FindStringSubmatch(line); len(m) == 2 {
			items = append(items, strings.TrimSpace(m[1]))
		}
	}
	return items
}

// firstHeadingLine returns the text of the first markdown heading in body,
// or "" when there is none.
func firstHeadingLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}

// extractText extracts plain text from an AST node
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.String()
}

// lineStartOffset returns the offset of the start of the line containing pos.
func lineStartOffset(source []byte, pos int) int {
	if pos > len(source) {
		pos = len(source)
	}
	if i := bytes.LastIndexByte(source[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// nextLineOffset returns the offset just past the end of the line containing
// pos, or len(source) when pos is on the final line.
func nextLineOffset(source []byte, pos int) int {
	if pos >= len(source) {
		return len(source)
	}
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}

// extractFrontmatter extracts YAML frontmatter from markdown content.
// Returns the content without frontmatter and the frontmatter bytes, or
// (content, nil) when no complete frontmatter block exists.
func extractFrontmatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))

	// Check if starts with ---
	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil
	}

	// Find closing ---
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			frontmatter := bytes.Join(lines[1:i], []byte("\n"))
			body := bytes.Join(lines[i+1:], []byte("\n"))
			return body, frontmatter
		}
	}

	// No closing delimiter found
	return content, nil
}
