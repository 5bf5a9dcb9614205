// Package activity derives commit, contributor and issue statistics for
// a single repository. Every sub-fetch is best-effort: a failed endpoint
// logs a warning, defaults its fields and never blocks the others.
package activity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/model"
)

// API is the slice of the GitHub client the fetcher needs.
type API interface {
	RecentCommits(ctx context.Context, owner, repo string) ([]github.Commit, error)
	CommitsSince(ctx context.Context, owner, repo string, since time.Time) ([]github.Commit, error)
	CountContributors(ctx context.Context, owner, repo string) (int, error)
	CountOpenPRs(ctx context.Context, owner, repo string) (int, error)
	CountClosedIssues(ctx context.Context, owner, repo string) (int, error)
	Languages(ctx context.Context, owner, repo string) (map[string]int, error)
}

// Fetcher fills the activity and community fields of a RepoStats.
type Fetcher struct {
	api           API
	log           *slog.Logger
	inactiveAfter time.Duration
	now           func() time.Time
}

func New(api API, logger *slog.Logger, inactiveAfter time.Duration) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		api:           api,
		log:           logger,
		inactiveAfter: inactiveAfter,
		now:           time.Now,
	}
}

// Fetch populates the activity and community fields of stats and
// returns the API's per-language byte counts for reconciliation, or nil
// when that endpoint failed.
func (f *Fetcher) Fetch(ctx context.Context, owner string, stats *model.RepoStats) map[string]int {
	now := f.now().UTC()
	repo := stats.Name

	commits, err := f.api.RecentCommits(ctx, owner, repo)
	switch {
	case errors.Is(err, github.ErrNoCommits):
		// No history at all. The push timestamp is the best available
		// signal for recency.
		if !stats.LastPushed.IsZero() {
			pushed := stats.LastPushed
			stats.LastCommitDate = &pushed
			stats.Active = now.Sub(pushed) < f.inactiveAfter
		}
	case err != nil:
		f.log.Warn("commit history unavailable", "repo", repo, "error", err)
	case len(commits) > 0:
		last := commits[0].AuthorDate.UTC()
		stats.LastCommitDate = &last
		stats.Active = now.Sub(last) < f.inactiveAfter
	}

	f.fetchCommitCounts(ctx, owner, stats, now)

	if n, err := f.api.CountContributors(ctx, owner, repo); err != nil {
		f.log.Warn("contributor count unavailable", "repo", repo, "error", err)
	} else {
		stats.ContributorsCount = n
	}
	if n, err := f.api.CountOpenPRs(ctx, owner, repo); err != nil {
		f.log.Warn("open PR count unavailable", "repo", repo, "error", err)
	} else {
		stats.OpenPRs = n
	}
	if n, err := f.api.CountClosedIssues(ctx, owner, repo); err != nil {
		f.log.Warn("closed issue count unavailable", "repo", repo, "error", err)
	} else {
		stats.ClosedIssues = n
	}

	remote, err := f.api.Languages(ctx, owner, repo)
	if err != nil {
		f.log.Warn("language breakdown unavailable", "repo", repo, "error", err)
		return nil
	}
	return remote
}

func (f *Fetcher) fetchCommitCounts(ctx context.Context, owner string, stats *model.RepoStats, now time.Time) {
	yearAgo := now.AddDate(-1, 0, 0)
	commits, err := f.api.CommitsSince(ctx, owner, stats.Name, yearAgo)
	if err != nil {
		if !errors.Is(err, github.ErrNoCommits) {
			f.log.Warn("year commit window unavailable", "repo", stats.Name, "error", err)
		}
		return
	}

	monthAgo := now.Add(-30 * 24 * time.Hour)
	for _, c := range commits {
		if c.AuthorDate.After(monthAgo) {
			stats.CommitsLastMonth++
		}
	}
	stats.CommitsLastYear = len(commits)

	months := int(now.Sub(stats.CreatedAt).Hours() / (24 * 30))
	if months > 12 {
		months = 12
	}
	if months > 0 {
		stats.CommitFrequency = float64(stats.CommitsLastYear) / float64(months)
	}
}
