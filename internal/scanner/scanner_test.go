// internal/scanner/scanner_test.go
package scanner

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/model"
)

type fakeAPI struct {
	dirs     map[string][]github.Entry
	contents map[string]string
	empty    bool
	failDirs map[string]bool
}

func (f *fakeAPI) ListDir(_ context.Context, _, _, dirPath string) ([]github.Entry, error) {
	if f.empty {
		return nil, github.ErrEmptyRepository
	}
	if f.failDirs[dirPath] {
		return nil, fmt.Errorf("listing %q: boom", dirPath)
	}
	return f.dirs[dirPath], nil
}

func (f *fakeAPI) FileContent(_ context.Context, _, _, filePath string) (string, error) {
	content, ok := f.contents[filePath]
	if !ok {
		return "", github.ErrNotFound
	}
	return content, nil
}

func lines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

func pythonLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "x%d = %d\n", i, i)
	}
	return b.String()
}

func TestScanAggregates(t *testing.T) {
	api := &fakeAPI{
		dirs: map[string][]github.Entry{
			"": {
				{Name: "README.md", Path: "README.md", Type: "file", Size: 100},
				{Name: "src", Path: "src", Type: "dir"},
				{Name: "tests", Path: "tests", Type: "dir"},
			},
			"src":   {{Name: "main.py", Path: "src/main.py", Type: "file", Size: 1000}},
			"tests": {{Name: "test_main.py", Path: "tests/test_main.py", Type: "file", Size: 300}},
		},
		contents: map[string]string{
			"README.md":          lines(10),
			"src/main.py":        pythonLines(100),
			"tests/test_main.py": pythonLines(20),
		},
	}

	stats := &model.RepoStats{Name: "demo"}
	if err := New(api, nil).Scan(context.Background(), "u", "demo", stats); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if stats.TotalFiles != 3 {
		t.Errorf("expected 3 files, got %d", stats.TotalFiles)
	}
	if stats.TotalLOC != 130 {
		t.Errorf("expected 130 LOC, got %d", stats.TotalLOC)
	}
	if stats.Languages["Markdown"] != 10 || stats.Languages["Python"] != 120 {
		t.Errorf("unexpected languages: %v", stats.Languages)
	}
	if !stats.HasDocs || !stats.HasReadme {
		t.Errorf("doc flags not set: %+v", stats)
	}
	if !stats.HasTests || stats.TestFilesCount != 1 {
		t.Errorf("test flags wrong: has=%v count=%d", stats.HasTests, stats.TestFilesCount)
	}
	if stats.ProjectStructure["src"] != 1 || stats.ProjectStructure["tests"] != 1 {
		t.Errorf("unexpected project structure: %v", stats.ProjectStructure)
	}

	stats.CalculatePrimaryLanguage()
	if stats.PrimaryLanguage != "Python" {
		t.Errorf("expected Python, got %s", stats.PrimaryLanguage)
	}
}

func TestScanExclusionConsistency(t *testing.T) {
	api := &fakeAPI{
		dirs: map[string][]github.Entry{
			"": {
				{Name: "main.go", Path: "main.go", Type: "file", Size: 50},
				{Name: "logo.png", Path: "logo.png", Type: "file", Size: 5000},
				{Name: "node_modules", Path: "node_modules", Type: "dir"},
			},
			// Never listed; descent must be pruned first.
			"node_modules": {{Name: "x.js", Path: "node_modules/x.js", Type: "file", Size: 10}},
		},
		contents: map[string]string{"main.go": "package main\n"},
	}

	stats := &model.RepoStats{}
	if err := New(api, nil).Scan(context.Background(), "u", "r", stats); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if stats.ExcludedFileCount != 1 {
		t.Errorf("expected 1 excluded file, got %d", stats.ExcludedFileCount)
	}
	if stats.TotalFiles != 1 {
		t.Errorf("excluded files must not count toward total, got %d", stats.TotalFiles)
	}
	if _, ok := stats.Languages["Other"]; ok {
		t.Errorf("excluded binary leaked into languages: %v", stats.Languages)
	}
	if stats.TotalLOC != 1 {
		t.Errorf("expected 1 LOC, got %d", stats.TotalLOC)
	}
}

func TestScanEmptyRepository(t *testing.T) {
	stats := &model.RepoStats{}
	if err := New(&fakeAPI{empty: true}, nil).Scan(context.Background(), "u", "r", stats); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !stats.Empty {
		t.Error("expected Empty flag")
	}
	if stats.TotalFiles != 0 || stats.TotalLOC != 0 {
		t.Errorf("empty repo must have zero aggregates: %+v", stats)
	}
	if len(stats.Anomalies) != 0 {
		t.Errorf("scanner must not add anomalies itself: %v", stats.Anomalies)
	}
}

func TestScanPartialOnSubdirFailure(t *testing.T) {
	api := &fakeAPI{
		dirs: map[string][]github.Entry{
			"": {
				{Name: "main.py", Path: "main.py", Type: "file", Size: 10},
				{Name: "broken", Path: "broken", Type: "dir"},
			},
		},
		failDirs: map[string]bool{"broken": true},
		contents: map[string]string{"main.py": pythonLines(3)},
	}

	stats := &model.RepoStats{}
	if err := New(api, nil).Scan(context.Background(), "u", "r", stats); err != nil {
		t.Fatalf("expected partial results, got error: %v", err)
	}
	if stats.TotalFiles != 1 || stats.TotalLOC != 3 {
		t.Errorf("partial aggregates wrong: files=%d loc=%d", stats.TotalFiles, stats.TotalLOC)
	}
}

func TestScanDependencyAndCICDFiles(t *testing.T) {
	api := &fakeAPI{
		dirs: map[string][]github.Entry{
			"": {
				{Name: "requirements.txt", Path: "requirements.txt", Type: "file", Size: 20},
				{Name: ".github", Path: ".github", Type: "dir"},
			},
			".github":           {{Name: "workflows", Path: ".github/workflows", Type: "dir"}},
			".github/workflows": {{Name: "ci.yml", Path: ".github/workflows/ci.yml", Type: "file", Size: 30}},
		},
		contents: map[string]string{
			"requirements.txt":         "requests\n",
			".github/workflows/ci.yml": "name: ci\n",
		},
	}

	stats := &model.RepoStats{}
	if err := New(api, nil).Scan(context.Background(), "u", "r", stats); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !stats.HasCICD || len(stats.CICDFiles) != 1 {
		t.Errorf("CI/CD not detected: %+v", stats)
	}
	if len(stats.DependencyFiles) != 1 || stats.DependencyFiles[0] != "requirements.txt" {
		t.Errorf("dependency file not detected: %v", stats.DependencyFiles)
	}
}

func TestScanSkipsOversizedFileContent(t *testing.T) {
	api := &fakeAPI{
		dirs: map[string][]github.Entry{
			"": {{Name: "huge.sql", Path: "huge.sql", Type: "file", Size: 2 << 20}},
		},
	}

	stats := &model.RepoStats{}
	if err := New(api, nil).Scan(context.Background(), "u", "r", stats); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if stats.TotalFiles != 1 {
		t.Errorf("oversized file still counts, got %d", stats.TotalFiles)
	}
	if stats.TotalLOC != 0 {
		t.Errorf("oversized file must contribute 0 LOC, got %d", stats.TotalLOC)
	}
}
