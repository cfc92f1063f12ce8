package processor

import (
	"fmt"
	"log/slog"

	"github.com/vk/aprxrelink/internal/host"
	"github.com/vk/aprxrelink/internal/repair"
)

// LayerRepairer repairs a layer tree in place.
type LayerRepairer interface {
	Repair(layer host.Layer, candidates []string) repair.Tally
}

// Outcome is the result of processing one project file.
type Outcome struct {
	Path  string
	State State
	Tally repair.Tally
	// Err is set when State is Failed.
	Err error
}

// Processor opens, repairs and saves project files.
type Processor struct {
	logger   *slog.Logger
	opener   host.Opener
	repairer LayerRepairer
}

// New creates a Processor.
func New(logger *slog.Logger, opener host.Opener, repairer LayerRepairer) *Processor {
	return &Processor{logger: logger, opener: opener, repairer: repairer}
}

// Process repairs the project at projectPath and reports whether it was saved
// without a project-level failure.
func (p *Processor) Process(projectPath string, candidates []string) bool {
	return p.ProcessFile(projectPath, candidates).State == Saved
}

// ProcessFile repairs the project at projectPath and returns the full outcome.
// The project handle is closed on every path once opened.
func (p *Processor) ProcessFile(projectPath string, candidates []string) (out Outcome) {
	out = Outcome{Path: projectPath, State: Unopened}

	defer func() {
		if rec := recover(); rec != nil {
			out.State = Failed
			out.Err = fmt.Errorf("panic: %v", rec)
		}
		if out.State == Failed {
			p.logger.Error("Error processing project.", "project", projectPath, "error", out.Err)
		}
	}()

	project, err := p.opener.Open(projectPath)
	if err != nil {
		out.State = Failed
		out.Err = fmt.Errorf("opening project: %w", err)
		return out
	}
	defer func() {
		if err := project.Close(); err != nil {
			p.logger.Warn("Failed to release project.", "project", projectPath, "error", err)
		}
	}()
	out.State = Opened
	p.logger.Info("Processing project.", "project", projectPath)

	for _, m := range project.Maps() {
		p.logger.Debug("Repairing map.", "project", projectPath, "map", m.Name())
		for _, layer := range m.Layers() {
			out.Tally.Add(p.repairer.Repair(layer, candidates))
		}
	}
	out.State = Traversed

	if err := project.Save(); err != nil {
		out.State = Failed
		out.Err = fmt.Errorf("saving project: %w", err)
		return out
	}
	out.State = Saved
	p.logger.Info("Saved project.", "project", projectPath, "fixed", out.Tally.Fixed, "unmatched", out.Tally.Unmatched, "failed", out.Tally.Failed)
	return out
}
