// Package loc counts effective lines of code: non-blank lines that are
// not comments, using a per-language single-flag block comment model.
// Nested block comments are not tracked.
package loc

import (
	"encoding/json"
	"path"
	"strings"
)

// style holds the comment tokens for one language family. Empty tokens
// disable the corresponding check.
type style struct {
	line       string
	blockStart string
	blockEnd   string
}

var (
	pythonStyle = style{line: "#", blockStart: `"""`, blockEnd: `"""`}
	cStyle      = style{line: "//", blockStart: "/*", blockEnd: "*/"}
	markupStyle = style{blockStart: "<!--", blockEnd: "-->"}
	sqlStyle    = style{line: "--", blockStart: "/*", blockEnd: "*/"}
	cssStyle    = style{blockStart: "/*", blockEnd: "*/"}
	hashStyle   = style{line: "#"}
	plainStyle  = style{}
	defStyle    = style{line: "#", blockStart: "/*", blockEnd: "*/"}
)

var styleByExtension = map[string]style{
	".py": pythonStyle, ".pyx": pythonStyle, ".pyi": pythonStyle,

	".c": cStyle, ".h": cStyle, ".cpp": cStyle, ".cc": cStyle, ".cxx": cStyle,
	".hpp": cStyle, ".hh": cStyle, ".hxx": cStyle,
	".cs": cStyle, ".java": cStyle, ".kt": cStyle, ".kts": cStyle,
	".scala": cStyle, ".groovy": cStyle,
	".js": cStyle, ".mjs": cStyle, ".cjs": cStyle, ".jsx": cStyle,
	".ts": cStyle, ".tsx": cStyle,
	".go": cStyle, ".rs": cStyle, ".swift": cStyle, ".dart": cStyle,
	".php": cStyle, ".m": cStyle, ".mm": cStyle, ".proto": cStyle,
	".scss": cStyle, ".less": cStyle,

	".html": markupStyle, ".htm": markupStyle, ".xml": markupStyle,
	".vue": markupStyle,

	".sql": sqlStyle,

	".css": cssStyle,

	".sh": hashStyle, ".bash": hashStyle, ".zsh": hashStyle, ".fish": hashStyle,
	".yml": hashStyle, ".yaml": hashStyle, ".toml": hashStyle, ".ini": hashStyle,
	".rb": hashStyle, ".pl": hashStyle, ".pm": hashStyle, ".r": hashStyle,
	".ex": hashStyle, ".exs": hashStyle, ".tf": hashStyle, ".tfvars": hashStyle,
	".dockerfile": hashStyle,

	".md": plainStyle, ".mdx": plainStyle, ".rst": plainStyle,
	".txt": plainStyle, ".csv": plainStyle, ".tsv": plainStyle,
	".json": plainStyle,
}

func styleFor(filePath string) style {
	ext := strings.ToLower(path.Ext(filePath))
	if s, ok := styleByExtension[ext]; ok {
		return s
	}
	return defStyle
}

// Count returns the number of effective lines in content for the
// language implied by the file path. Blank lines and comment lines are
// skipped; a line that merely contains a comment marker after code still
// counts. Empty content yields 0.
func Count(content, filePath string) int {
	if content == "" {
		return 0
	}
	if strings.ToLower(path.Ext(filePath)) == ".ipynb" {
		return countNotebook(content)
	}
	return countLines(content, styleFor(filePath))
}

func countLines(content string, s style) int {
	count := 0
	inBlock := false
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if inBlock {
			if s.blockEnd != "" && strings.Contains(line, s.blockEnd) {
				inBlock = false
			}
			continue
		}
		if s.line != "" && strings.HasPrefix(line, s.line) {
			continue
		}
		if s.blockStart != "" && strings.HasPrefix(line, s.blockStart) {
			rest := line[len(s.blockStart):]
			if s.blockEnd == "" || !strings.Contains(rest, s.blockEnd) {
				inBlock = true
			}
			continue
		}
		count++
	}
	return count
}

// countNotebook parses a Jupyter notebook and counts the non-blank,
// non-comment lines of its code cells. Markdown and raw cells never
// contribute. Notebooks that fail to parse are counted as Python text
// instead of raw JSON.
func countNotebook(content string) int {
	var nb struct {
		Cells []struct {
			CellType string          `json:"cell_type"`
			Source   json.RawMessage `json:"source"`
		} `json:"cells"`
	}
	if err := json.Unmarshal([]byte(content), &nb); err != nil {
		return countLines(content, pythonStyle)
	}

	count := 0
	for _, cell := range nb.Cells {
		if cell.CellType != "code" {
			continue
		}
		for _, raw := range cellSource(cell.Source) {
			line := strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			count++
		}
	}
	return count
}

// cellSource normalizes a cell's source field, which the notebook
// format allows to be either a list of lines or a single string.
func cellSource(raw json.RawMessage) []string {
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return strings.Split(joined, "\n")
	}
	return nil
}
