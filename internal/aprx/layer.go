package aprx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/aprxrelink/internal/host"
)

const groupLayerType = "CIMGroupLayer"

// Map is a map document of an open project.
type Map struct {
	name   string
	layers []host.Layer
}

// Name returns the map's display name.
func (m *Map) Name() string { return m.name }

// Layers returns the map's top-level layers in drawing order.
func (m *Map) Layers() []host.Layer { return m.layers }

// Layer is a layer document of an open project.
type Layer struct {
	project  *Project
	doc      *document
	children []host.Layer
}

// Name returns the layer's display name.
func (l *Layer) Name() string {
	name, _ := l.doc.fields["name"].(string)
	return name
}

// IsGroup reports whether the layer is a CIMGroupLayer.
func (l *Layer) IsGroup() bool {
	t, _ := l.doc.fields["type"].(string)
	return t == groupLayerType
}

// Children returns the nested layers of a group layer.
func (l *Layer) Children() []host.Layer { return l.children }

// SupportsDataSource reports whether the layer carries a data connection.
func (l *Layer) SupportsDataSource() bool {
	return l.connection() != nil
}

// Workspace returns the DATABASE value of the layer's connection string.
func (l *Layer) Workspace() string {
	return workspaceFromConnectionString(l.connectionString())
}

// IsBroken reports whether the layer's file workspace is missing or does not
// exist on disk. Server connections are never reported broken.
func (l *Layer) IsBroken() bool {
	if l.connection() == nil {
		return false
	}
	if !isFileWorkspace(l.connectionString()) {
		return false
	}
	ws := l.Workspace()
	if ws == "" {
		return true
	}
	if !filepath.IsAbs(ws) {
		ws = filepath.Join(l.project.dir, ws)
	}
	_, err := os.Stat(ws)
	return err != nil
}

// UpdateConnection overwrites the layer's connection string so that it points
// at newWorkspace. A non-empty oldWorkspace must equal the current workspace.
func (l *Layer) UpdateConnection(oldWorkspace, newWorkspace string) error {
	conn := l.connection()
	if conn == nil {
		return fmt.Errorf("%w: %s", ErrNotDataLayer, l.Name())
	}
	if oldWorkspace != "" {
		if current := l.Workspace(); !strings.EqualFold(current, oldWorkspace) {
			return fmt.Errorf("%w: have %q, want %q", ErrWorkspaceMismatch, current, oldWorkspace)
		}
	}
	conn[connStringKey] = connectionStringFor(newWorkspace)
	conn[factoryKey] = sdeFactory
	l.doc.dirty = true
	return nil
}

func (l *Layer) connectionString() string {
	conn := l.connection()
	if conn == nil {
		return ""
	}
	s, _ := conn[connStringKey].(string)
	return s
}

// connection returns the layer's data connection object, or nil.
func (l *Layer) connection() map[string]any {
	if table, ok := l.doc.fields[featureTableKey].(map[string]any); ok {
		if conn, ok := table[dataConnKey].(map[string]any); ok {
			return conn
		}
	}
	if conn, ok := l.doc.fields[dataConnKey].(map[string]any); ok {
		return conn
	}
	return nil
}
