// internal/activity/activity_test.go
package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/model"
)

type fakeAPI struct {
	recent       []github.Commit
	recentErr    error
	yearWindow   []github.Commit
	yearErr      error
	contributors int
	openPRs      int
	closedIssues int
	countErr     error
	languages    map[string]int
	languagesErr error
}

func (f *fakeAPI) RecentCommits(context.Context, string, string) ([]github.Commit, error) {
	return f.recent, f.recentErr
}
func (f *fakeAPI) CommitsSince(context.Context, string, string, time.Time) ([]github.Commit, error) {
	return f.yearWindow, f.yearErr
}
func (f *fakeAPI) CountContributors(context.Context, string, string) (int, error) {
	return f.contributors, f.countErr
}
func (f *fakeAPI) CountOpenPRs(context.Context, string, string) (int, error) {
	return f.openPRs, f.countErr
}
func (f *fakeAPI) CountClosedIssues(context.Context, string, string) (int, error) {
	return f.closedIssues, f.countErr
}
func (f *fakeAPI) Languages(context.Context, string, string) (map[string]int, error) {
	return f.languages, f.languagesErr
}

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestFetcher(api *fakeAPI) *Fetcher {
	f := New(api, nil, 180*24*time.Hour)
	f.now = func() time.Time { return testNow }
	return f
}

func TestFetchActiveRepository(t *testing.T) {
	last := testNow.Add(-10 * 24 * time.Hour)
	api := &fakeAPI{
		recent: []github.Commit{{SHA: "a", AuthorDate: last}},
		yearWindow: []github.Commit{
			{SHA: "a", AuthorDate: last},
			{SHA: "b", AuthorDate: testNow.Add(-40 * 24 * time.Hour)},
			{SHA: "c", AuthorDate: testNow.Add(-200 * 24 * time.Hour)},
		},
		contributors: 4, openPRs: 2, closedIssues: 7,
		languages: map[string]int{"Go": 1200},
	}

	stats := &model.RepoStats{Name: "r", CreatedAt: testNow.AddDate(-3, 0, 0)}
	remote := newTestFetcher(api).Fetch(context.Background(), "u", stats)

	if !stats.Active {
		t.Error("expected active repository")
	}
	if stats.LastCommitDate == nil || !stats.LastCommitDate.Equal(last) {
		t.Errorf("unexpected last commit date: %v", stats.LastCommitDate)
	}
	if stats.CommitsLastMonth != 1 || stats.CommitsLastYear != 3 {
		t.Errorf("commit counts wrong: month=%d year=%d", stats.CommitsLastMonth, stats.CommitsLastYear)
	}
	if stats.CommitFrequency != 3.0/12.0 {
		t.Errorf("unexpected commit frequency: %f", stats.CommitFrequency)
	}
	if stats.ContributorsCount != 4 || stats.OpenPRs != 2 || stats.ClosedIssues != 7 {
		t.Errorf("community counts wrong: %+v", stats)
	}
	if remote["Go"] != 1200 {
		t.Errorf("expected remote languages, got %v", remote)
	}
}

func TestFetchInactiveRepository(t *testing.T) {
	api := &fakeAPI{
		recent: []github.Commit{{SHA: "a", AuthorDate: testNow.AddDate(-1, 0, 0)}},
	}
	stats := &model.RepoStats{Name: "r", CreatedAt: testNow.AddDate(-2, 0, 0)}
	newTestFetcher(api).Fetch(context.Background(), "u", stats)
	if stats.Active {
		t.Error("commit older than the threshold must be inactive")
	}
}

func TestFetchNoCommitsFallsBackToPush(t *testing.T) {
	pushed := testNow.Add(-5 * 24 * time.Hour)
	api := &fakeAPI{recentErr: github.ErrNoCommits, yearErr: github.ErrNoCommits}
	stats := &model.RepoStats{Name: "r", LastPushed: pushed}

	newTestFetcher(api).Fetch(context.Background(), "u", stats)

	if stats.LastCommitDate == nil || !stats.LastCommitDate.Equal(pushed) {
		t.Errorf("expected pushed-at fallback, got %v", stats.LastCommitDate)
	}
	if !stats.Active {
		t.Error("recent push should mark the repo active")
	}
	if stats.CommitsLastYear != 0 || stats.CommitFrequency != 0 {
		t.Errorf("counts must default to zero: %+v", stats)
	}
}

func TestFetchBestEffortFailuresAreIndependent(t *testing.T) {
	last := testNow.Add(-1 * 24 * time.Hour)
	api := &fakeAPI{
		recent:       []github.Commit{{SHA: "a", AuthorDate: last}},
		yearErr:      fmt.Errorf("window fetch: boom"),
		countErr:     fmt.Errorf("count: boom"),
		languagesErr: fmt.Errorf("languages: boom"),
	}
	stats := &model.RepoStats{Name: "r", CreatedAt: testNow.AddDate(-1, 0, 0)}

	remote := newTestFetcher(api).Fetch(context.Background(), "u", stats)

	if !stats.Active {
		t.Error("commit date handling must survive other failures")
	}
	if stats.CommitsLastYear != 0 || stats.ContributorsCount != 0 || stats.OpenPRs != 0 {
		t.Errorf("failed endpoints must default to zero: %+v", stats)
	}
	if remote != nil {
		t.Errorf("expected nil languages on failure, got %v", remote)
	}
}

func TestFetchYoungRepoFrequencyDenominator(t *testing.T) {
	api := &fakeAPI{
		recent:     []github.Commit{{SHA: "a", AuthorDate: testNow.Add(-24 * time.Hour)}},
		yearWindow: []github.Commit{{SHA: "a"}, {SHA: "b"}, {SHA: "c"}, {SHA: "d"}},
	}
	stats := &model.RepoStats{Name: "r", CreatedAt: testNow.AddDate(0, -2, -5)}

	newTestFetcher(api).Fetch(context.Background(), "u", stats)

	// About two months old: frequency uses the real age, not 12.
	if stats.CommitFrequency != 2.0 {
		t.Errorf("expected 4 commits / 2 months = 2.0, got %f", stats.CommitFrequency)
	}
}
