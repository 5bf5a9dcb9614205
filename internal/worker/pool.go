// internal/worker/pool.go
package worker

import (
	"context"
	"sync"

	"github.com/repolens/repolens/internal/model"
)

// Result holds the outcome of analyzing a single repository.
type Result struct {
	Repo  model.Repo
	Stats *model.RepoStats
	Err   error
}

// ProgressFunc is called after each repository finishes.
type ProgressFunc func(completed, total int, repo model.Repo)

// AnalyzeFunc analyzes a single repository and returns its stats.
type AnalyzeFunc func(ctx context.Context, repo model.Repo) (*model.RepoStats, error)

// Run analyzes repos concurrently using a bounded worker pool. With
// concurrency 1 it degrades to strictly sequential processing. Result
// order follows completion, not input order.
func Run(ctx context.Context, repos []model.Repo, concurrency int, analyze AnalyzeFunc) []Result {
	return RunWithProgress(ctx, repos, concurrency, analyze, nil)
}

// RunWithProgress analyzes repos with an optional progress callback.
func RunWithProgress(ctx context.Context, repos []model.Repo, concurrency int, analyze AnalyzeFunc, onProgress ProgressFunc) []Result {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu        sync.Mutex
		results   []Result
		completed int
	)

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, repo := range repos {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{} // acquire
		wg.Add(1)

		go func(r model.Repo) {
			defer wg.Done()
			defer func() { <-sem }() // release

			stats, err := analyze(ctx, r)

			mu.Lock()
			results = append(results, Result{Repo: r, Stats: stats, Err: err})
			completed++
			c := completed
			mu.Unlock()

			if onProgress != nil {
				onProgress(c, len(repos), r)
			}
		}(repo)
	}

	wg.Wait()
	return results
}
