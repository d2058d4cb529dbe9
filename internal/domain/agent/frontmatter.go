package agent

import (
	"regexp"
	"strings"
)

var (
	// topLevelKeyRe matches an unindented `key:` declaration.
	topLevelKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+:`)
	// fieldRe captures key and raw value of an unindented `key: value` line.
	fieldRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*):[ \t]*(.*)$`)
)

// Frontmatter is the `---` fenced block at the top of an agent file.
type Frontmatter struct {
	// StartLine is the 1-based file line of the opening fence.
	StartLine int
	// Lines holds the body between the fences, without line terminators.
	Lines []string
}

// ExtractFrontmatter locates the leading frontmatter block. Blank lines
// may precede the opening fence. ok is false when no fenced block opens
// the file.
func ExtractFrontmatter(content string) (fm Frontmatter, ok bool) {
	lines := splitLines(content)

	open := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == "---" {
			open = i
		}
		break
	}
	if open < 0 {
		return Frontmatter{}, false
	}

	for i := open + 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == "---" {
			return Frontmatter{
				StartLine: open + 1,
				Lines:     lines[open+1 : i],
			}, true
		}
	}
	return Frontmatter{}, false
}

// Field returns the value of the first top-level `key: value` line for
// key, trimmed, with one leading and one trailing quote character removed
// independently.
func (fm Frontmatter) Field(key string) (string, bool) {
	for _, line := range fm.Lines {
		m := fieldRe.FindStringSubmatch(line)
		if m == nil || m[1] != key {
			continue
		}
		return unquote(strings.TrimSpace(m[2])), true
	}
	return "", false
}

// LineOf maps a 0-based body index to the line findings are reported on.
// The first body line maps to StartLine, so rows read one line above
// their position in the file.
func (fm Frontmatter) LineOf(index int) int {
	return fm.StartLine + index
}

// PermissionRow is one member line of the permission block.
type PermissionRow struct {
	Index int
	Text  string
}

// PermissionBlock returns the rows following the first `permission:` line,
// up to the next top-level key. ok is false when no block exists.
func (fm Frontmatter) PermissionBlock() (rows []PermissionRow, ok bool) {
	start := -1
	for i, line := range fm.Lines {
		if strings.HasPrefix(line, "permission:") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}
	for i := start + 1; i < len(fm.Lines); i++ {
		if topLevelKeyRe.MatchString(fm.Lines[i]) {
			break
		}
		rows = append(rows, PermissionRow{Index: i, Text: fm.Lines[i]})
	}
	return rows, true
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

func unquote(v string) string {
	if v != "" && isQuote(v[0]) {
		v = v[1:]
	}
	if v != "" && isQuote(v[len(v)-1]) {
		v = v[:len(v)-1]
	}
	return v
}

func isQuote(c byte) bool { return c == '"' || c == '\'' }
