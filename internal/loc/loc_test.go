// internal/loc/loc_test.go
package loc

import (
	"strings"
	"testing"
)

func TestCountEmptyAndBlank(t *testing.T) {
	if got := Count("", "main.py"); got != 0 {
		t.Errorf("empty content: expected 0, got %d", got)
	}
	if got := Count("\n\n   \n\t\n", "main.go"); got != 0 {
		t.Errorf("blank-only content: expected 0, got %d", got)
	}
}

func TestCountNoComments(t *testing.T) {
	content := "line one\n\nline two\nline three\n"
	if got := Count(content, "notes.md"); got != 3 {
		t.Errorf("expected 3 non-blank lines, got %d", got)
	}
}

func TestCountPythonStyle(t *testing.T) {
	content := strings.Join([]string{
		"# header comment",
		"import os",
		"",
		`"""`,
		"module docstring",
		`"""`,
		"def main():",
		`    """single-line docstring"""`,
		"    return 0  # trailing comments still count the line",
	}, "\n")
	if got := Count(content, "src/main.py"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestCountCStyle(t *testing.T) {
	content := strings.Join([]string{
		"// license",
		"package main",
		"/*",
		" block",
		"*/",
		"/* one-liner */",
		"func main() {}",
	}, "\n")
	if got := Count(content, "main.go"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestCountSingleLineBlockDoesNotToggle(t *testing.T) {
	content := strings.Join([]string{
		"/* closed on same line */",
		"int x = 1;",
		"int y = 2;",
	}, "\n")
	if got := Count(content, "main.c"); got != 2 {
		t.Errorf("single-line block comment must not open the flag, got %d", got)
	}
}

func TestCountMarkup(t *testing.T) {
	content := strings.Join([]string{
		"<!-- header -->",
		"<html>",
		"<!--",
		"  multi-line",
		"-->",
		"<body></body>",
		"</html>",
	}, "\n")
	if got := Count(content, "index.html"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestCountSQL(t *testing.T) {
	content := strings.Join([]string{
		"-- schema",
		"CREATE TABLE t (id INT);",
		"/*",
		"seed data",
		"*/",
		"INSERT INTO t VALUES (1);",
	}, "\n")
	if got := Count(content, "schema.sql"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestCountJupyterNotebook(t *testing.T) {
	content := `{
  "cells": [
    {"cell_type": "markdown", "source": ["# Heading\n", "prose that is not code\n"]},
    {"cell_type": "code", "source": ["# setup\n", "import numpy as np\n", "\n", "x = np.zeros(3)\n"]},
    {"cell_type": "code", "source": "y = 1\n# inline note\nz = y + 1"},
    {"cell_type": "raw", "source": ["raw text\n"]}
  ],
  "nbformat": 4
}`
	if got := Count(content, "notebooks/demo.ipynb"); got != 4 {
		t.Errorf("expected 4 code lines across code cells, got %d", got)
	}
}

func TestCountJupyterNotebookUnparseable(t *testing.T) {
	content := strings.Join([]string{
		"# not json at all",
		"x = 1",
		"y = 2",
	}, "\n")
	if got := Count(content, "broken.ipynb"); got != 2 {
		t.Errorf("expected python-style fallback count 2, got %d", got)
	}
}

func TestCountUnknownExtensionUsesDefault(t *testing.T) {
	content := strings.Join([]string{
		"# comment",
		"value",
	}, "\n")
	if got := Count(content, "config.unknownext"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}
