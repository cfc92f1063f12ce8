package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/aprxrelink/internal/host"
	"github.com/vk/aprxrelink/internal/locator"
	"github.com/vk/aprxrelink/internal/processor"
	"github.com/vk/aprxrelink/internal/repair"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger    *slog.Logger
	config    *Config
	runID     string
	processor *processor.Processor
}

// NewApp is the constructor for the main application. It builds an isolated
// logger tagged with a fresh run id and wires the locator, repairer and
// processor around opener.
func NewApp(outW io.Writer, cfg *Config, opener host.Opener) *App {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	loc, err := locator.New(cfg.Rules)
	if err != nil {
		// NewConfig validates the rules, so this is a wiring bug.
		panic(fmt.Errorf("failed to build connection locator: %w", err))
	}

	return &App{
		logger:    logger,
		config:    cfg,
		runID:     runID,
		processor: processor.New(logger, opener, repair.New(logger, loc)),
	}
}

// RunID returns the identifier attached to every log record of this app.
func (a *App) RunID() string {
	return a.runID
}
