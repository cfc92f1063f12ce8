package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/aprxrelink/internal/processor"
	"github.com/vk/aprxrelink/internal/repair"
	"gopkg.in/yaml.v3"
)

func sampleSummary() *Summary {
	s := &Summary{
		RunID:      "run-1",
		StartedAt:  time.Date(2025, 8, 22, 9, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 8, 22, 9, 1, 0, 0, time.UTC),
		Candidates: []string{"/conn/giscapdb_ReadOnly_PRD.sde"},
	}
	s.Add(processor.Outcome{Path: "a.aprx", State: processor.Saved, Tally: repair.Tally{Fixed: 2, Unmatched: 1}})
	s.Add(processor.Outcome{Path: "b.aprx", State: processor.Failed, Err: errors.New("opening project: bad zip")})
	return s
}

func TestSummaryCounts(t *testing.T) {
	s := sampleSummary()
	assert.Equal(t, 1, s.SavedCount())
	assert.Equal(t, repair.Tally{Fixed: 2, Unmatched: 1}, s.Totals())
	assert.Equal(t, "failed", s.Projects[1].State)
	assert.Equal(t, "opening project: bad zip", s.Projects[1].Error)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, sampleSummary().WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "run-1", doc["run_id"])

	projects := doc["projects"].([]any)
	require.Len(t, projects, 2)
	first := projects[0].(map[string]any)
	assert.Equal(t, "a.aprx", first["path"])
	assert.Equal(t, true, first["saved"])
	assert.Equal(t, 2, first["fixed"])
	assert.NotContains(t, first, "error")
	second := projects[1].(map[string]any)
	assert.Equal(t, "opening project: bad zip", second["error"])
}

func TestWriteFileBadPath(t *testing.T) {
	err := sampleSummary().WriteFile(filepath.Join(t.TempDir(), "missing", "report.yaml"))
	require.Error(t, err)
}
