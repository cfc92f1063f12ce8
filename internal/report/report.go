// Package report summarizes a run and writes it as YAML.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/vk/aprxrelink/internal/processor"
	"github.com/vk/aprxrelink/internal/repair"
	"gopkg.in/yaml.v3"
)

// Project is the result line for one project file.
type Project struct {
	Path  string       `yaml:"path"`
	State string       `yaml:"state"`
	Saved bool         `yaml:"saved"`
	Tally repair.Tally `yaml:",inline"`
	Error string       `yaml:"error,omitempty"`
}

// Summary describes a whole run.
type Summary struct {
	RunID      string    `yaml:"run_id"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	Candidates []string  `yaml:"candidates"`
	Projects   []Project `yaml:"projects"`
}

// Add records the outcome of one project.
func (s *Summary) Add(out processor.Outcome) {
	p := Project{
		Path:  out.Path,
		State: out.State.String(),
		Saved: out.State == processor.Saved,
		Tally: out.Tally,
	}
	if out.Err != nil {
		p.Error = out.Err.Error()
	}
	s.Projects = append(s.Projects, p)
}

// Totals adds up the layer counts of every project.
func (s *Summary) Totals() repair.Tally {
	var total repair.Tally
	for _, p := range s.Projects {
		total.Add(p.Tally)
	}
	return total
}

// SavedCount returns how many projects were saved.
func (s *Summary) SavedCount() int {
	n := 0
	for _, p := range s.Projects {
		if p.Saved {
			n++
		}
	}
	return n
}

// WriteFile writes the summary to path as YAML.
func (s *Summary) WriteFile(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
