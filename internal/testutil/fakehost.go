package testutil

import (
	"errors"
	"fmt"

	"github.com/vk/aprxrelink/internal/host"
)

// FakeLayer is an in-memory host.Layer.
type FakeLayer struct {
	LayerName  string
	Group      bool
	Sublayers  []*FakeLayer
	DataSource bool
	Broken     bool
	Workspace  string

	// UpdateErr, when set, is returned by UpdateConnection.
	UpdateErr error
	// PanicOnUpdate makes UpdateConnection panic.
	PanicOnUpdate bool

	Updates int
}

// NewDataLayer returns a data-source capable layer.
func NewDataLayer(name string, broken bool) *FakeLayer {
	return &FakeLayer{LayerName: name, DataSource: true, Broken: broken}
}

// NewGroupLayer returns a group layer nesting children.
func NewGroupLayer(name string, children ...*FakeLayer) *FakeLayer {
	return &FakeLayer{LayerName: name, Group: true, Sublayers: children}
}

func (l *FakeLayer) Name() string             { return l.LayerName }
func (l *FakeLayer) IsGroup() bool            { return l.Group }
func (l *FakeLayer) SupportsDataSource() bool { return l.DataSource }
func (l *FakeLayer) IsBroken() bool           { return l.Broken }

func (l *FakeLayer) Children() []host.Layer {
	out := make([]host.Layer, 0, len(l.Sublayers))
	for _, c := range l.Sublayers {
		out = append(out, c)
	}
	return out
}

// UpdateConnection rebinds the layer and clears its broken flag.
func (l *FakeLayer) UpdateConnection(oldWorkspace, newWorkspace string) error {
	if l.PanicOnUpdate {
		panic("fake layer exploded")
	}
	if l.UpdateErr != nil {
		return l.UpdateErr
	}
	if oldWorkspace != "" && oldWorkspace != l.Workspace {
		return fmt.Errorf("workspace %q does not match %q", l.Workspace, oldWorkspace)
	}
	l.Workspace = newWorkspace
	l.Broken = false
	l.Updates++
	return nil
}

// FakeMap is an in-memory host.Map.
type FakeMap struct {
	MapName string
	Top     []*FakeLayer
}

func (m *FakeMap) Name() string { return m.MapName }

func (m *FakeMap) Layers() []host.Layer {
	out := make([]host.Layer, 0, len(m.Top))
	for _, l := range m.Top {
		out = append(out, l)
	}
	return out
}

// FakeProject is an in-memory host.Project that records Save and Close calls.
type FakeProject struct {
	ProjectPath string
	MapList     []*FakeMap
	SaveErr     error

	Saves  int
	Closes int
}

func (p *FakeProject) Path() string { return p.ProjectPath }

func (p *FakeProject) Maps() []host.Map {
	out := make([]host.Map, 0, len(p.MapList))
	for _, m := range p.MapList {
		out = append(out, m)
	}
	return out
}

func (p *FakeProject) Save() error {
	p.Saves++
	return p.SaveErr
}

func (p *FakeProject) Close() error {
	p.Closes++
	return nil
}

// ErrFakeNotFound is returned by FakeOpener for unknown paths.
var ErrFakeNotFound = errors.New("fake project not found")

// FakeOpener serves FakeProjects by path.
type FakeOpener struct {
	Projects map[string]*FakeProject
	OpenErr  map[string]error
	Opened   []string
}

func (o *FakeOpener) Open(path string) (host.Project, error) {
	o.Opened = append(o.Opened, path)
	if err := o.OpenErr[path]; err != nil {
		return nil, err
	}
	p, ok := o.Projects[path]
	if !ok {
		return nil, ErrFakeNotFound
	}
	return p, nil
}
