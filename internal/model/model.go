// internal/model/model.go
package model

import "time"

// Repo holds repository metadata as returned by the GitHub API.
type Repo struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Owner         string    `json:"owner"`
	Private       bool      `json:"private"`
	DefaultBranch string    `json:"default_branch"`
	Fork          bool      `json:"fork"`
	Archived      bool      `json:"archived"`
	Template      bool      `json:"is_template"`
	CreatedAt     time.Time `json:"created_at"`
	PushedAt      time.Time `json:"pushed_at"`
	Description   string    `json:"description,omitempty"`
	Homepage      string    `json:"homepage,omitempty"`
	LicenseName   string    `json:"license_name,omitempty"`
	LicenseSPDX   string    `json:"license_spdx_id,omitempty"`
	Topics        []string  `json:"topics,omitempty"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Watchers      int       `json:"watchers"`
	OpenIssues    int       `json:"open_issues"`
	HasWiki       bool      `json:"has_wiki"`
	SizeKB        int       `json:"size_kb"`
}

// RepoStats holds the full analysis results for a single repository.
// It is populated incrementally (scanner, then activity fetcher, then
// scores) and treated as read-only once appended to a run's result list.
type RepoStats struct {
	// Identity and metadata
	Name          string    `json:"name"`
	Private       bool      `json:"private"`
	DefaultBranch string    `json:"default_branch"`
	Fork          bool      `json:"fork"`
	Archived      bool      `json:"archived"`
	Template      bool      `json:"is_template"`
	CreatedAt     time.Time `json:"created_at"`
	LastPushed    time.Time `json:"last_pushed"`
	Description   string    `json:"description,omitempty"`
	Homepage      string    `json:"homepage,omitempty"`
	LicenseName   string    `json:"license_name,omitempty"`
	LicenseSPDX   string    `json:"license_spdx_id,omitempty"`
	Topics        []string  `json:"topics,omitempty"`

	// Code aggregates
	TotalFiles        int            `json:"total_files"`
	TotalLOC          int            `json:"total_loc"`
	Languages         map[string]int `json:"languages,omitempty"`
	FileTypes         map[string]int `json:"file_types,omitempty"`
	PrimaryLanguage   string         `json:"primary_language,omitempty"`
	Monorepo          bool           `json:"monorepo"`
	ProjectStructure  map[string]int `json:"project_structure,omitempty"`
	ExcludedFileCount int            `json:"excluded_file_count"`
	SizeKB            int            `json:"size_kb"`
	Empty             bool           `json:"empty,omitempty"`

	// Quality flags
	HasDocs         bool     `json:"has_docs"`
	HasReadme       bool     `json:"has_readme"`
	HasTests        bool     `json:"has_tests"`
	TestFilesCount  int      `json:"test_files_count"`
	HasCICD         bool     `json:"has_cicd"`
	CICDFiles       []string `json:"cicd_files,omitempty"`
	DependencyFiles []string `json:"dependency_files,omitempty"`

	// Activity
	LastCommitDate   *time.Time `json:"last_commit_date,omitempty"`
	Active           bool       `json:"active"`
	CommitsLastMonth int        `json:"commits_last_month"`
	CommitsLastYear  int        `json:"commits_last_year"`
	CommitFrequency  float64    `json:"commit_frequency"`

	// Community
	ContributorsCount int  `json:"contributors_count"`
	OpenIssues        int  `json:"open_issues"`
	ClosedIssues      int  `json:"closed_issues"`
	OpenPRs           int  `json:"open_prs"`
	Stars             int  `json:"stars"`
	Forks             int  `json:"forks"`
	Watchers          int  `json:"watchers"`
	HasWiki           bool `json:"has_wiki"`

	// Derived scores, each clamped to [0, 100]
	MaintenanceScore   float64 `json:"maintenance_score"`
	PopularityScore    float64 `json:"popularity_score"`
	CodeQualityScore   float64 `json:"code_quality_score"`
	DocumentationScore float64 `json:"documentation_score"`

	// Anomalies is append-only and ordered by detection.
	Anomalies []string `json:"anomalies,omitempty"`
}

// NewRepoStats creates a stats record seeded with repository metadata.
// This is also the minimal stub used when analysis fails early.
func NewRepoStats(repo Repo) *RepoStats {
	return &RepoStats{
		Name:          repo.Name,
		Private:       repo.Private,
		DefaultBranch: repo.DefaultBranch,
		Fork:          repo.Fork,
		Archived:      repo.Archived,
		Template:      repo.Template,
		CreatedAt:     repo.CreatedAt.UTC(),
		LastPushed:    repo.PushedAt.UTC(),
		Description:   repo.Description,
		Homepage:      repo.Homepage,
		LicenseName:   repo.LicenseName,
		LicenseSPDX:   repo.LicenseSPDX,
		Topics:        repo.Topics,
		SizeKB:        repo.SizeKB,
		OpenIssues:    repo.OpenIssues,
		Stars:         repo.Stars,
		Forks:         repo.Forks,
		Watchers:      repo.Watchers,
		HasWiki:       repo.HasWiki,
	}
}

// AvgLOCPerFile returns total LOC divided by total files, or 0 for an
// empty repository. Always derived, never stored.
func (s *RepoStats) AvgLOCPerFile() float64 {
	if s.TotalFiles == 0 {
		return 0
	}
	return float64(s.TotalLOC) / float64(s.TotalFiles)
}

// AddAnomaly appends a detected anomaly description.
func (s *RepoStats) AddAnomaly(anomaly string) {
	s.Anomalies = append(s.Anomalies, anomaly)
}

// CalculatePrimaryLanguage sets PrimaryLanguage to the language with the
// most lines of code, or "Unknown" when no language data exists.
// Ties break alphabetically so the result is deterministic.
func (s *RepoStats) CalculatePrimaryLanguage() {
	if len(s.Languages) == 0 {
		s.PrimaryLanguage = "Unknown"
		return
	}
	var best string
	bestLOC := -1
	for lang, loc := range s.Languages {
		if loc > bestLOC || (loc == bestLOC && lang < best) {
			best = lang
			bestLOC = loc
		}
	}
	s.PrimaryLanguage = best
}

// ReconcileLanguages merges remote per-language byte counts into the
// file-scan tallies, taking the max of the two signals per language, then
// recomputes TotalLOC as the sum so the aggregate stays consistent.
func (s *RepoStats) ReconcileLanguages(remote map[string]int) {
	if len(remote) > 0 {
		if s.Languages == nil {
			s.Languages = make(map[string]int, len(remote))
		}
		for lang, n := range remote {
			if n > s.Languages[lang] {
				s.Languages[lang] = n
			}
		}
	}
	total := 0
	for _, n := range s.Languages {
		total += n
	}
	s.TotalLOC = total
}

// DetectMonorepo flags the repository as a monorepo when at least three
// languages each hold more than 10% of the total LOC, and records the
// corresponding anomaly.
func (s *RepoStats) DetectMonorepo() {
	if len(s.Languages) < 3 {
		return
	}
	total := 0
	for _, loc := range s.Languages {
		total += loc
	}
	if total == 0 {
		return
	}
	significant := 0
	for _, loc := range s.Languages {
		if float64(loc)/float64(total) > 0.1 {
			significant++
		}
	}
	if significant >= 3 {
		s.Monorepo = true
		s.AddAnomaly("Possible monorepo detected with multiple major languages")
	}
}

// Totals aggregates statistics across all analyzed repositories.
type Totals struct {
	Repos         int `json:"repos"`
	Files         int `json:"files"`
	LOC           int `json:"loc"`
	ExcludedFiles int `json:"excluded_files"`
	Active        int `json:"active"`
	Anomalies     int `json:"anomalies"`
}

// Report is the top-level output structure handed to the report writers.
type Report struct {
	GeneratedAt  string         `json:"generated_at"`
	Username     string         `json:"username"`
	Repositories []RepoStats    `json:"repositories"`
	Totals       Totals         `json:"totals"`
	ByLanguage   map[string]int `json:"by_language,omitempty"`
}

// BuildReport assembles a Report from a finished run's stats list.
func BuildReport(username string, stats []RepoStats, now time.Time) Report {
	report := Report{
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		Username:     username,
		Repositories: stats,
		ByLanguage:   map[string]int{},
	}
	for _, s := range stats {
		report.Totals.Repos++
		report.Totals.Files += s.TotalFiles
		report.Totals.LOC += s.TotalLOC
		report.Totals.ExcludedFiles += s.ExcludedFileCount
		report.Totals.Anomalies += len(s.Anomalies)
		if s.Active {
			report.Totals.Active++
		}
		for lang, loc := range s.Languages {
			report.ByLanguage[lang] += loc
		}
	}
	return report
}
