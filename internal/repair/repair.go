// Package repair walks a project's layer trees and rebinds broken layers to a
// matching database connection file.
package repair

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vk/aprxrelink/internal/host"
)

// Locator selects a connection file for a dataset name.
type Locator interface {
	Locate(datasetName string, candidates []string) (string, bool)
}

// Tally counts what happened to the broken layers visited by a repair.
type Tally struct {
	Fixed     int `yaml:"fixed"`
	Unmatched int `yaml:"unmatched"`
	Failed    int `yaml:"failed"`
}

// Add accumulates other into t.
func (t *Tally) Add(other Tally) {
	t.Fixed += other.Fixed
	t.Unmatched += other.Unmatched
	t.Failed += other.Failed
}

// Repairer rebinds broken layers.
type Repairer struct {
	logger  *slog.Logger
	locator Locator
}

// New creates a Repairer that logs to logger and asks locator for
// replacement connections.
func New(logger *slog.Logger, locator Locator) *Repairer {
	return &Repairer{logger: logger, locator: locator}
}

// Repair visits layer and, for groups, all of its descendants. Every broken
// layer that supports a data source is rebound to the candidate chosen by the
// locator. A failure on one layer is logged and counted; it never stops the
// walk.
func (r *Repairer) Repair(layer host.Layer, candidates []string) Tally {
	var tally Tally
	r.walk(layer, candidates, &tally)
	return tally
}

func (r *Repairer) walk(layer host.Layer, candidates []string, tally *Tally) {
	if layer.IsGroup() {
		for _, child := range layer.Children() {
			r.walk(child, candidates, tally)
		}
		return
	}
	if !layer.SupportsDataSource() || !layer.IsBroken() {
		return
	}

	fixed, err := r.fix(layer, candidates)
	switch {
	case err != nil:
		tally.Failed++
		r.logger.Error("Failed fixing layer.", "layer", layer.Name(), "error", err)
	case fixed:
		tally.Fixed++
	default:
		tally.Unmatched++
	}
}

// fix rebinds a single broken layer. Broken layers expose no usable
// connection properties, so the display name is the dataset name.
func (r *Repairer) fix(layer host.Layer, candidates []string) (fixed bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fixed, err = false, fmt.Errorf("panic: %v", rec)
		}
	}()

	datasetName := strings.TrimSpace(layer.Name())
	match, ok := r.locator.Locate(datasetName, candidates)
	if !ok {
		r.logger.Warn("No matching connection found for dataset.", "dataset", datasetName)
		return false, nil
	}

	r.logger.Info("Fixing layer.", "layer", layer.Name(), "dataset", datasetName, "connection", match)
	if err := layer.UpdateConnection("", match); err != nil {
		return false, fmt.Errorf("rebinding to %s: %w", match, err)
	}
	return true, nil
}
