package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/analyze"
	"github.com/repolens/repolens/internal/checkpoint"
	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/github"
	"github.com/repolens/repolens/internal/logging"
	"github.com/repolens/repolens/internal/model"
	"github.com/repolens/repolens/internal/quota"
	"github.com/repolens/repolens/internal/report"
	"github.com/repolens/repolens/internal/score"
	"github.com/repolens/repolens/internal/ui"
	"github.com/repolens/repolens/internal/worker"
)

func main() {
	root := &cobra.Command{
		Use:   "repolens",
		Short: "Analyze a GitHub account's repositories",
	}

	root.AddCommand(newAnalyzeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze repositories and generate quality reports",
		RunE:  runAnalyze,
	}
	cmd.Flags().String("user", "", "GitHub username to analyze (overrides REPOLENS_USERNAME)")
	cmd.Flags().Int("workers", 0, "Concurrent workers; 1 analyzes strictly sequentially")
	cmd.Flags().Bool("skip-forks", false, "Skip forked repositories")
	cmd.Flags().Bool("skip-archived", false, "Skip archived repositories")
	cmd.Flags().String("visibility", "", "Repository visibility filter: all, public or private")
	cmd.Flags().String("reports-dir", "", "Directory for the markdown and JSON reports")
	cmd.Flags().Bool("no-checkpoint", false, "Disable checkpoint saving")
	cmd.Flags().Bool("no-resume", false, "Ignore an existing checkpoint")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	logging.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	log := logging.WithComponent("cli")

	if cfg.Username == "" {
		return fmt.Errorf("no username: pass --user or set REPOLENS_USERNAME")
	}
	if cfg.Token == "" {
		log.Warn("no GITHUB_TOKEN set, using the unauthenticated quota of 60 requests per hour")
	}

	httpClient := &http.Client{Transport: &github.RateLimitTransport{}}
	client := github.NewClient(cfg.Token, "", httpClient)

	tracker := quota.NewTracker(logging.WithComponent("quota"))
	client.OnRate(tracker.Update)

	ckpt := checkpoint.NewManager(cfg.CheckpointFile,
		cfg.EnableCheckpointing, cfg.ResumeFromCheckpoint, logging.WithComponent("checkpoint"))

	progressFn, finish := setupProgress(tracker)

	orchestrator := analyze.New(client, tracker, ckpt, logging.WithComponent("analyze"), analyze.Options{
		Username:            cfg.Username,
		Workers:             cfg.Workers,
		InactiveAfter:       cfg.InactiveAfter,
		Thresholds:          score.Thresholds{LargeRepoLOC: cfg.LargeRepoLOCThreshold},
		SkipForks:           cfg.SkipForks,
		SkipArchived:        cfg.SkipArchived,
		Visibility:          cfg.Visibility,
		CheckpointThreshold: cfg.CheckpointThreshold,
		Progress:            progressFn,
	})

	result, err := orchestrator.Run(cmd.Context())
	if err != nil {
		finish(0)
		return err
	}
	finish(len(result.Stats))

	rep := model.BuildReport(cfg.Username, result.Stats, time.Now())
	mdPath, jsonPath, err := report.WriteFiles(cfg.ReportsDir, rep)
	if err != nil {
		return err
	}
	log.Info("reports written", "markdown", mdPath, "json", jsonPath)

	if result.Stopped {
		fmt.Fprintf(os.Stderr,
			"Rate limit reached: %d analyzed, %d remaining. Run again later to resume from the checkpoint.\n",
			len(result.Analyzed), len(result.Remaining))
	}
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.Username = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	if v, _ := cmd.Flags().GetBool("skip-forks"); v {
		cfg.SkipForks = true
	}
	if v, _ := cmd.Flags().GetBool("skip-archived"); v {
		cfg.SkipArchived = true
	}
	if v, _ := cmd.Flags().GetString("visibility"); v != "" {
		cfg.Visibility = v
	}
	if v, _ := cmd.Flags().GetString("reports-dir"); v != "" {
		cfg.ReportsDir = v
	}
	if v, _ := cmd.Flags().GetBool("no-checkpoint"); v {
		cfg.EnableCheckpointing = false
	}
	if v, _ := cmd.Flags().GetBool("no-resume"); v {
		cfg.ResumeFromCheckpoint = false
	}
}

// setupProgress wires the progress display: a bubbletea TUI on a
// terminal, plain stderr lines otherwise. The returned finish func
// closes the display once the run is over.
func setupProgress(tracker *quota.Tracker) (worker.ProgressFunc, func(total int)) {
	if !ui.IsTTY() {
		plain := ui.NewPlainProgress(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})
		tracker.OnWait = plain.Wait
		progressFn := func(completed, total int, repo model.Repo) {
			plain.Update(completed, total, repo.Name)
		}
		return progressFn, func(total int) { plain.Done(total) }
	}

	program := ui.RunTUI(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		program.Run()
	}()

	tracker.OnWait = func(d time.Duration) {
		program.Send(ui.WaitMsg{Wait: d})
	}
	progressFn := func(completed, total int, repo model.Repo) {
		program.Send(ui.ProgressMsg{Completed: completed, Total: total, RepoName: repo.Name})
	}
	finish := func(total int) {
		program.Send(ui.DoneMsg{})
		<-done
	}
	return progressFn, finish
}
