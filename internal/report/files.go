// internal/report/files.go
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/repolens/repolens/internal/model"
)

// WriteFiles writes the markdown and JSON renditions of the report into
// dir, creating it if needed, and returns the two file paths.
func WriteFiles(dir string, rep model.Report) (mdPath, jsonPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create reports directory: %w", err)
	}

	mdPath = filepath.Join(dir, fmt.Sprintf("%s_report.md", rep.Username))
	md, err := os.Create(mdPath)
	if err != nil {
		return "", "", fmt.Errorf("create markdown report: %w", err)
	}
	defer md.Close()
	if err := WriteMarkdown(md, rep); err != nil {
		return "", "", fmt.Errorf("write markdown report: %w", err)
	}

	jsonPath = filepath.Join(dir, fmt.Sprintf("%s_report.json", rep.Username))
	js, err := os.Create(jsonPath)
	if err != nil {
		return "", "", fmt.Errorf("create JSON report: %w", err)
	}
	defer js.Close()
	if err := WriteJSON(js, rep); err != nil {
		return "", "", fmt.Errorf("write JSON report: %w", err)
	}

	return mdPath, jsonPath, nil
}
