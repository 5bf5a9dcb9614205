// Package analyze coordinates a full account analysis: enumeration,
// per-repo scanning and activity fetching, scoring, batching with
// checkpoint boundaries, and the rate-limit stop protocol.
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/repolens/repolens/internal/activity"
	"github.com/repolens/repolens/internal/checkpoint"
	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/model"
	"github.com/repolens/repolens/internal/quota"
	"github.com/repolens/repolens/internal/scanner"
	"github.com/repolens/repolens/internal/score"
	"github.com/repolens/repolens/internal/worker"
)

// batchSize bounds how many repositories are dispatched between two
// quota checks. Checkpoints happen only at these boundaries, never
// mid-repo.
const batchSize = 20

// API is everything the orchestrator needs from the GitHub client.
type API interface {
	scanner.ContentAPI
	activity.API
	quota.RateAPI
	ListRepos(ctx context.Context, username string, opts github.ListOpts) ([]model.Repo, error)
	Requests() int64
}

// Options configures one analysis run.
type Options struct {
	Username            string
	Workers             int // 1 = strictly sequential
	InactiveAfter       time.Duration
	Thresholds          score.Thresholds
	SkipForks           bool
	SkipArchived        bool
	Visibility          string
	CheckpointThreshold int
	Progress            worker.ProgressFunc
}

// RunResult is the outcome of a run. Stopped means the run ended early
// at a checkpoint boundary because quota ran low; Remaining lists the
// repositories a resumed run still has to process.
type RunResult struct {
	Stats     []model.RepoStats
	Analyzed  []string
	Remaining []string
	Stopped   bool
}

// Orchestrator drives the analysis of all of one account's repos.
type Orchestrator struct {
	api     API
	tracker *quota.Tracker
	ckpt    *checkpoint.Manager
	log     *slog.Logger
	opts    Options
	now     func() time.Time
}

func New(api API, tracker *quota.Tracker, ckpt *checkpoint.Manager, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Thresholds.LargeRepoLOC == 0 {
		opts.Thresholds = score.DefaultThresholds()
	}
	return &Orchestrator{
		api:     api,
		tracker: tracker,
		ckpt:    ckpt,
		log:     logger,
		opts:    opts,
		now:     time.Now,
	}
}

// Run analyzes every repository of the configured user, resuming from a
// checkpoint when one is usable. The final checkpoint is persisted even
// on a clean finish so interrupted report writing can be retried.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}
	analyzed := map[string]bool{}

	if rec, err := o.ckpt.Load(o.opts.Username); err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	} else if rec != nil {
		o.log.Info("resuming from checkpoint",
			"analyzed", len(rec.Analyzed), "remaining", len(rec.Remaining))
		result.Stats = append(result.Stats, rec.Stats...)
		result.Analyzed = append(result.Analyzed, rec.Analyzed...)
		for _, name := range rec.Analyzed {
			analyzed[name] = true
		}
	}

	repos, err := o.api.ListRepos(ctx, o.opts.Username, github.ListOpts{
		IncludeForks:    !o.opts.SkipForks,
		IncludeArchived: !o.opts.SkipArchived,
		Visibility:      o.opts.Visibility,
	})
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	var pending []model.Repo
	for _, r := range repos {
		if !analyzed[r.Name] {
			pending = append(pending, r)
		}
	}
	o.log.Info("starting analysis",
		"user", o.opts.Username, "repos", len(repos), "pending", len(pending))

	// Progress reports positions within the whole run, not within the
	// current batch.
	totalPending := len(pending)
	done := 0

	if err := o.tracker.Refresh(ctx, o.api); err != nil {
		o.log.Warn("rate limit query failed", "error", err)
	}

	for len(pending) > 0 {
		if ctx.Err() != nil {
			break
		}
		if o.tracker.WaitIfCritical() {
			// The reset window has passed; the snapshot is stale until
			// the quota endpoint is queried again.
			if err := o.tracker.Refresh(ctx, o.api); err != nil {
				o.log.Warn("rate limit query failed", "error", err)
			}
		}
		if o.tracker.ShouldCheckpoint(o.opts.CheckpointThreshold) {
			o.log.Warn("quota at checkpoint threshold, stopping run",
				"remaining_quota", o.tracker.Snapshot().Remaining)
			result.Stopped = true
			break
		}

		// Sequential runs checkpoint between individual repos; pooled
		// runs only between batches.
		n := batchSize
		if o.opts.Workers == 1 {
			n = 1
		}
		if n > len(pending) {
			n = len(pending)
		}
		batch := pending[:n]
		pending = pending[n:]

		var onProgress worker.ProgressFunc
		if o.opts.Progress != nil {
			base := done
			onProgress = func(completed, _ int, repo model.Repo) {
				o.opts.Progress(base+completed, totalPending, repo)
			}
		}

		for _, r := range worker.RunWithProgress(ctx, batch, o.opts.Workers, o.analyzeOne, onProgress) {
			if r.Err != nil {
				o.log.Warn("repository analysis failed, skipping",
					"repo", r.Repo.Name, "error", r.Err)
				continue
			}
			result.Stats = append(result.Stats, *r.Stats)
			result.Analyzed = append(result.Analyzed, r.Repo.Name)
		}
		done += len(batch)
	}

	for _, r := range pending {
		result.Remaining = append(result.Remaining, r.Name)
	}

	if err := o.ckpt.Save(checkpoint.Record{
		Timestamp:   o.now().UTC(),
		Username:    o.opts.Username,
		Analyzed:    result.Analyzed,
		Remaining:   result.Remaining,
		Stats:       result.Stats,
		APIRequests: o.api.Requests(),
	}); err != nil {
		o.log.Error("checkpoint save failed", "error", err)
	}

	return result, nil
}

// analyzeOne runs the full per-repo pipeline. Steps within one repo are
// strictly sequential; the scanner finishes before the activity fetch
// starts.
func (o *Orchestrator) analyzeOne(ctx context.Context, repo model.Repo) (*model.RepoStats, error) {
	owner := repo.Owner
	if owner == "" {
		owner = o.opts.Username
	}

	stats := model.NewRepoStats(repo)

	scan := scanner.New(o.api, o.log)
	if err := scan.Scan(ctx, owner, repo.Name, stats); err != nil {
		return nil, fmt.Errorf("scan %s: %w", repo.Name, err)
	}

	if stats.Empty {
		stats.AddAnomaly("Empty repository with no files")
		score.Apply(stats)
		return stats, nil
	}

	fetcher := activity.New(o.api, o.log, o.opts.InactiveAfter)
	remote := fetcher.Fetch(ctx, owner, stats)

	stats.ReconcileLanguages(remote)
	stats.CalculatePrimaryLanguage()
	stats.DetectMonorepo()
	score.Apply(stats)
	score.DetectAnomalies(stats, o.opts.Thresholds, o.now().UTC())

	return stats, nil
}
