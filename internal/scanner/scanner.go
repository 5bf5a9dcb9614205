// Package scanner walks a repository's remote file tree breadth-first
// and accumulates per-repo aggregates: file counts, LOC per language,
// docs/tests/CI flags, dependency files and project structure.
package scanner

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"

	"github.com/repolens/repolens/internal/classify"
	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/loc"
	"github.com/repolens/repolens/internal/model"
)

// maxFileSize is the content-fetch ceiling. Files at or over it are
// classified and counted but contribute 0 LOC.
const maxFileSize = 1 << 20

// ContentAPI is the slice of the GitHub client the scanner needs.
type ContentAPI interface {
	ListDir(ctx context.Context, owner, repo, dirPath string) ([]github.Entry, error)
	FileContent(ctx context.Context, owner, repo, filePath string) (string, error)
}

// Scanner aggregates file statistics for one repository at a time.
type Scanner struct {
	api ContentAPI
	log *slog.Logger
}

func New(api ContentAPI, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{api: api, log: logger}
}

// Scan traverses the repository tree and fills the code aggregate
// fields of stats. An empty repository sets stats.Empty and returns
// without touching the aggregates; the caller decides how to flag it.
// Listing failures below the root are logged and skipped so partial
// results survive.
func (s *Scanner) Scan(ctx context.Context, owner, repo string, stats *model.RepoStats) error {
	if stats.Languages == nil {
		stats.Languages = map[string]int{}
	}
	if stats.FileTypes == nil {
		stats.FileTypes = map[string]int{}
	}
	if stats.ProjectStructure == nil {
		stats.ProjectStructure = map[string]int{}
	}

	queue := []string{""}
	for first := true; len(queue) > 0; first = false {
		dir := queue[0]
		queue = queue[1:]

		entries, err := s.api.ListDir(ctx, owner, repo, dir)
		if err != nil {
			if first && errors.Is(err, github.ErrEmptyRepository) {
				stats.Empty = true
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("directory listing failed, keeping partial results",
				"repo", repo, "dir", dir, "error", err)
			continue
		}

		for _, entry := range entries {
			switch entry.Type {
			case "dir":
				// Pruned before descent so nothing below an excluded
				// directory is listed or counted.
				if classify.IsExcluded(entry.Path) || classify.IsExcludedDir(entry.Name) {
					continue
				}
				queue = append(queue, entry.Path)
			case "file":
				s.scanFile(ctx, owner, repo, entry, stats)
			}
		}
	}
	return nil
}

func (s *Scanner) scanFile(ctx context.Context, owner, repo string, entry github.Entry, stats *model.RepoStats) {
	if classify.IsExcluded(entry.Path) {
		stats.ExcludedFileCount++
		return
	}

	stats.TotalFiles++
	if idx := strings.Index(entry.Path, "/"); idx > 0 {
		stats.ProjectStructure[entry.Path[:idx]]++
	}

	lower := strings.ToLower(entry.Path)
	if strings.Contains(lower, "readme") {
		stats.HasReadme = true
	}
	if strings.Contains(lower, "readme") ||
		strings.HasPrefix(lower, "docs/") || strings.Contains(lower, "/docs/") ||
		strings.HasSuffix(lower, ".md") {
		stats.HasDocs = true
	}
	if classify.IsTestFile(entry.Path) {
		stats.HasTests = true
		stats.TestFilesCount++
	}
	if classify.IsCICDFile(entry.Path) {
		stats.HasCICD = true
		stats.CICDFiles = append(stats.CICDFiles, entry.Path)
	}
	if classify.IsDependencyFile(entry.Path) {
		stats.DependencyFiles = append(stats.DependencyFiles, entry.Path)
	}

	if classify.IsBinary(entry.Path) {
		stats.FileTypes["Binary"]++
		return
	}
	ext := strings.ToLower(path.Ext(entry.Path))
	if ext == "" {
		ext = "no_extension"
	}
	stats.FileTypes[ext]++

	if entry.Size >= maxFileSize {
		return
	}
	content, err := s.api.FileContent(ctx, owner, repo, entry.Path)
	if err != nil {
		// Decode and fetch failures cost 0 LOC; the file stays counted.
		s.log.Debug("file content unavailable", "repo", repo, "path", entry.Path, "error", err)
		return
	}
	n := loc.Count(content, entry.Path)
	stats.TotalLOC += n
	stats.Languages[classify.LanguageOf(entry.Path)] += n
}
