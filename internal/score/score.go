// Package score derives the four quality scores and heuristic anomaly
// flags from a repository's aggregated statistics. All calculations are
// pure and operate on the final RepoStats record.
package score

import (
	"time"

	"github.com/repolens/repolens/internal/model"
)

// Thresholds tunes the anomaly heuristics.
type Thresholds struct {
	// LargeRepoLOC marks a repository as "large" for the documentation
	// and test anomalies.
	LargeRepoLOC int
}

// DefaultThresholds returns the standard anomaly thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{LargeRepoLOC: 1000}
}

func clamp(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

// Maintenance scores upkeep signals: documentation, tests, CI, recent
// activity, license, issue load, and dependency hygiene.
func Maintenance(s *model.RepoStats) float64 {
	v := 0.0
	if s.HasDocs {
		v += 15
	}
	if s.HasReadme {
		v += 5
	}
	switch {
	case s.TestFilesCount > 10:
		v += 20
	case s.TestFilesCount > 5:
		v += 15
	case s.TestFilesCount > 0:
		v += 10
	}
	if s.HasCICD {
		v += 10
	}
	if s.Active {
		v += 10
		recent := float64(s.CommitsLastMonth)
		if recent > 10 {
			recent = 10
		}
		v += recent
	}
	if s.LicenseName != "" {
		v += 10
	}
	switch {
	case s.OpenIssues < 10:
		v += 10
	case s.OpenIssues < 50:
		v += 5
	}
	if s.TotalFiles > 5 {
		v += 5
	}
	if len(s.DependencyFiles) > 0 {
		v += 5
	}
	return clamp(v)
}

// Popularity scores community reach from stars, forks, contributors and
// watchers.
func Popularity(s *model.RepoStats) float64 {
	v := 0.0
	switch {
	case s.Stars > 1000:
		v += 50
	case s.Stars > 100:
		v += 30
	case s.Stars > 10:
		v += 15
	case s.Stars > 0:
		v += 5
	}
	switch {
	case s.Forks > 100:
		v += 30
	case s.Forks > 10:
		v += 20
	case s.Forks > 0:
		v += 10
	}
	switch {
	case s.ContributorsCount > 10:
		v += 10
	case s.ContributorsCount > 1:
		v += 5
	}
	switch {
	case s.Watchers > 10:
		v += 10
	case s.Watchers > 0:
		v += 5
	}
	return clamp(v)
}

// CodeQuality scores structural health: tests, CI, file-size balance and
// documentation.
func CodeQuality(s *model.RepoStats) float64 {
	v := 0.0
	if s.HasTests {
		v += 30
	}
	if s.HasCICD {
		v += 30
	}
	if s.TotalLOC > 0 {
		avg := s.AvgLOCPerFile()
		if avg > 0 && avg < 300 {
			v += 20
		} else if avg > 0 {
			v += 10
		}
	}
	if s.HasDocs {
		v += 20
	}
	return clamp(v)
}

// Documentation scores readme, docs and wiki presence.
func Documentation(s *model.RepoStats) float64 {
	v := 0.0
	if s.HasReadme {
		v += 40
	}
	if s.HasDocs {
		v += 40
	}
	if s.HasWiki {
		v += 20
	}
	return clamp(v)
}

// Apply recomputes all four scores on the stats record.
func Apply(s *model.RepoStats) {
	s.MaintenanceScore = Maintenance(s)
	s.PopularityScore = Popularity(s)
	s.CodeQualityScore = CodeQuality(s)
	s.DocumentationScore = Documentation(s)
}

// DetectAnomalies evaluates each heuristic independently against the
// final stats record and appends every condition that matches. The
// conditions are not mutually exclusive.
func DetectAnomalies(s *model.RepoStats, th Thresholds, now time.Time) {
	large := s.TotalLOC > th.LargeRepoLOC
	popular := s.Stars > 10

	if large && !s.HasDocs {
		s.AddAnomaly("Large repository without documentation")
	}
	if large && !s.HasTests {
		s.AddAnomaly("Large repository without tests")
	}
	if popular && !s.HasDocs {
		s.AddAnomaly("Popular repository without documentation")
	}
	if s.OpenIssues > 20 && !s.Active {
		s.AddAnomaly("Many open issues but repository is inactive")
	}
	if popular && !s.Active {
		s.AddAnomaly("Popular repository appears to be abandoned")
	}
	if s.TotalLOC > 1000 && s.LicenseName == "" {
		s.AddAnomaly("Substantial code without license")
	}
	if s.HasTests && s.TotalFiles > 0 &&
		float64(s.TestFilesCount) < 0.05*float64(s.TotalFiles) {
		s.AddAnomaly("Low test coverage ratio")
	}
	if s.Active && large && !s.HasCICD {
		s.AddAnomaly("Active project without CI/CD configuration")
	}

	lastChange := s.LastPushed
	if s.LastCommitDate != nil {
		lastChange = *s.LastCommitDate
	}
	old := !s.CreatedAt.IsZero() && now.Sub(s.CreatedAt) > 3*365*24*time.Hour
	stale := !lastChange.IsZero() && now.Sub(lastChange) > 365*24*time.Hour
	if old && stale {
		s.AddAnomaly("Old repository without updates in over a year")
	}
}
