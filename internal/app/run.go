package app

import (
	"context"
	"time"

	"github.com/vk/aprxrelink/internal/ctxlog"
	"github.com/vk/aprxrelink/internal/discovery"
	"github.com/vk/aprxrelink/internal/report"
)

// Run discovers connection and project files and repairs every project in
// discovery order. A run with no connection files or no project files ends
// without error. The returned summary is always non-nil; an error is only
// returned when the report cannot be written.
func (a *App) Run(ctx context.Context) (*report.Summary, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	summary := &report.Summary{RunID: a.runID, StartedAt: time.Now()}

	candidates := discovery.Connections(ctx, a.config.ConnectionFolders, a.config.ConnectionExtension)
	summary.Candidates = candidates
	if len(candidates) == 0 {
		a.logger.Error("No connection files found in the provided folders.", "extension", a.config.ConnectionExtension)
		return summary, a.finish(summary)
	}
	a.logger.Info("Connection files found.", "count", len(candidates))

	projects := discovery.Projects(ctx, a.config.ProjectFolders, a.config.ProjectExtension)
	if len(projects) == 0 {
		a.logger.Info("No project files found in the provided folders.", "extension", a.config.ProjectExtension)
		return summary, a.finish(summary)
	}
	a.logger.Info("Project files found.", "count", len(projects))

	for _, path := range projects {
		summary.Add(a.processor.ProcessFile(path, candidates))
	}

	return summary, a.finish(summary)
}

func (a *App) finish(summary *report.Summary) error {
	summary.FinishedAt = time.Now()
	totals := summary.Totals()
	a.logger.Info("Run finished.",
		"projects", len(summary.Projects),
		"saved", summary.SavedCount(),
		"fixed", totals.Fixed,
		"unmatched", totals.Unmatched,
		"failed", totals.Failed,
	)

	if a.config.ReportPath == "" {
		return nil
	}
	if err := summary.WriteFile(a.config.ReportPath); err != nil {
		a.logger.Error("Failed to write report.", "path", a.config.ReportPath, "error", err)
		return err
	}
	a.logger.Info("Report written.", "path", a.config.ReportPath)
	return nil
}
