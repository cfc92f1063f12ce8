package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/aprxrelink/internal/aprx"
	"github.com/vk/aprxrelink/internal/host"
	"github.com/vk/aprxrelink/internal/processor"
	"github.com/vk/aprxrelink/internal/repair"
	"github.com/vk/aprxrelink/internal/testutil"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	root        string
	publication string
	capture     string
	projects    string
	cityProject string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		root:        root,
		publication: testutil.Touch(t, filepath.Join(root, "conn", "PublicationDB", "gispubdb_extdata_PROD.sde")),
		capture:     testutil.Touch(t, filepath.Join(root, "conn", "CaptureDB", "ReadOnly", "giscapdb_ReadOnly_PRD.sde")),
		projects:    filepath.Join(root, "projects"),
	}
	testutil.Touch(t, filepath.Join(root, "conn", "CaptureDB", "ReadOnly", "notes.txt"))

	f.cityProject = testutil.WriteArchive(t, filepath.Join(f.projects, "city.aprx"),
		testutil.ArchiveMap{Name: "Map", Layers: []testutil.ArchiveLayer{
			{Name: "A045_CadastreLots", Workspace: `\\oldserver\giscapdb_ReadOnly_PRD.sde`},
			{Name: "Healthy", Workspace: f.publication},
			{Name: "Transport", Group: true, Children: []testutil.ArchiveLayer{
				{Name: "StreetCenterlines", Workspace: `\\oldserver\gispubdb_extdata_PROD.sde`},
			}},
			{Name: "Basemap", NoConnection: true},
		}},
	)
	corrupt := testutil.Touch(t, filepath.Join(f.projects, "archive", "corrupt.aprx"))
	require.NoError(t, os.WriteFile(corrupt, []byte("nope"), 0o644))
	return f
}

func (f *fixture) config(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ProjectFolders = []string{f.projects}
	cfg.ConnectionFolders = []string{
		filepath.Join(f.root, "conn", "PublicationDB"),
		filepath.Join(f.root, "conn", "CaptureDB", "ReadOnly"),
	}
	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	return validated
}

func layerWorkspaces(t *testing.T, path string) map[string]string {
	t.Helper()
	project, err := aprx.Open(path)
	require.NoError(t, err)
	defer project.Close()

	out := make(map[string]string)
	var walk func(layers []host.Layer)
	walk = func(layers []host.Layer) {
		for _, l := range layers {
			if l.IsGroup() {
				walk(l.Children())
				continue
			}
			out[l.Name()] = l.(*aprx.Layer).Workspace()
		}
	}
	for _, m := range project.Maps() {
		walk(m.Layers())
	}
	return out
}

func TestRunRepairsProjects(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(t)
	cfg.ReportPath = filepath.Join(f.root, "report.yaml")
	logs := &testutil.SafeBuffer{}

	a := NewApp(logs, cfg, aprx.NewOpener())
	summary, err := a.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Projects, 2)
	assert.Equal(t, []string{f.publication, f.capture}, summary.Candidates)

	corrupt := summary.Projects[0]
	assert.Equal(t, filepath.Join(f.projects, "archive", "corrupt.aprx"), corrupt.Path)
	assert.Equal(t, processor.Failed.String(), corrupt.State)
	assert.NotEmpty(t, corrupt.Error)

	city := summary.Projects[1]
	assert.Equal(t, f.cityProject, city.Path)
	assert.True(t, city.Saved)
	assert.Equal(t, repair.Tally{Fixed: 2}, city.Tally)

	ws := layerWorkspaces(t, f.cityProject)
	assert.Equal(t, f.capture, ws["A045_CadastreLots"])
	assert.Equal(t, f.publication, ws["StreetCenterlines"])
	assert.Equal(t, f.publication, ws["Healthy"])

	assert.Len(t, logs.Records("INFO", "Fixing layer."), 2)
	assert.Len(t, logs.Records("ERROR", "corrupt.aprx"), 1)
	assert.NotEmpty(t, logs.Records("INFO", "run_id="+a.RunID()))

	data, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, a.RunID(), doc["run_id"])
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(t)

	first, err := NewApp(&testutil.SafeBuffer{}, cfg, aprx.NewOpener()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Totals().Fixed)

	logs := &testutil.SafeBuffer{}
	second, err := NewApp(logs, cfg, aprx.NewOpener()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, repair.Tally{}, second.Totals())
	assert.Equal(t, 1, second.SavedCount())
	assert.Empty(t, logs.Records("INFO", "Fixing layer."))
}

func TestRunWithoutCandidatesEndsCleanly(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(t)
	cfg.ConnectionFolders = []string{filepath.Join(f.root, "absent")}
	logs := &testutil.SafeBuffer{}
	opener := &testutil.FakeOpener{}

	summary, err := NewApp(logs, cfg, opener).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, summary.Projects)
	assert.Empty(t, opener.Opened)
	assert.Len(t, logs.Records("WARN", "Invalid connection folder path."), 1)
	assert.Len(t, logs.Records("ERROR", "No connection files found"), 1)
}

func TestRunWithoutProjectsEndsCleanly(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(t)
	cfg.ProjectFolders = []string{filepath.Join(f.root, "conn")}
	logs := &testutil.SafeBuffer{}
	opener := &testutil.FakeOpener{}

	summary, err := NewApp(logs, cfg, opener).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, summary.Projects)
	assert.Empty(t, opener.Opened)
	assert.Len(t, logs.Records("INFO", "No project files found"), 1)
}

func TestRunReportsWriteFailure(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(t)
	cfg.ReportPath = filepath.Join(f.root, "missing-dir", "report.yaml")

	summary, err := NewApp(&testutil.SafeBuffer{}, cfg, aprx.NewOpener()).Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.Len(t, summary.Projects, 2)
}
