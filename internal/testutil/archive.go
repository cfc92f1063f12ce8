package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// ArchiveLayer describes a layer document written by WriteArchive.
type ArchiveLayer struct {
	Name string
	// Group makes the layer a CIMGroupLayer holding Children.
	Group    bool
	Children []ArchiveLayer
	// Workspace is written as the DATABASE of the connection string.
	Workspace string
	// ConnectionString replaces the generated connection string when set.
	ConnectionString string
	// NoConnection omits the data connection entirely.
	NoConnection bool
	// Raster places the data connection at the top level instead of under
	// featureTable.
	Raster bool
}

// ArchiveMap describes a map document written by WriteArchive.
type ArchiveMap struct {
	Name   string
	Layers []ArchiveLayer
}

type archiveBuilder struct {
	entries map[string]any
	order   []string
	next    int
}

func (b *archiveBuilder) add(name string, doc any) {
	b.entries[name] = doc
	b.order = append(b.order, name)
}

func (b *archiveBuilder) layer(l ArchiveLayer) string {
	b.next++
	entry := fmt.Sprintf("layers/layer%d.json", b.next)

	doc := map[string]any{"name": l.Name}
	switch {
	case l.Group:
		doc["type"] = "CIMGroupLayer"
		refs := make([]string, 0, len(l.Children))
		for _, child := range l.Children {
			refs = append(refs, "CIMPATH="+b.layer(child))
		}
		doc["layers"] = refs
	case l.NoConnection:
		doc["type"] = "CIMTiledServiceLayer"
		doc["serviceConnection"] = map[string]any{"url": "https://example.invalid/basemap"}
	default:
		connString := l.ConnectionString
		if connString == "" {
			connString = "DATABASE=" + l.Workspace
		}
		conn := map[string]any{
			"type":                      "CIMStandardDataConnection",
			"workspaceConnectionString": connString,
			"workspaceFactory":          "SDE",
			"dataset":                   "gis." + l.Name,
			"datasetType":               "esriDTFeatureClass",
		}
		if l.Raster {
			doc["type"] = "CIMRasterLayer"
			doc["dataConnection"] = conn
		} else {
			doc["type"] = "CIMFeatureLayer"
			doc["minScale"] = 0
			doc["featureTable"] = map[string]any{"type": "CIMFeatureTable", "dataConnection": conn}
		}
	}
	b.add(entry, doc)
	return entry
}

// WriteArchive writes a minimal .aprx archive containing the given maps and
// an unreferenced Index.json entry. It returns path.
func WriteArchive(t *testing.T, path string, maps ...ArchiveMap) string {
	t.Helper()

	b := &archiveBuilder{entries: make(map[string]any)}
	var items []map[string]any
	for i, m := range maps {
		refs := make([]string, 0, len(m.Layers))
		for _, l := range m.Layers {
			refs = append(refs, "CIMPATH="+b.layer(l))
		}
		entry := fmt.Sprintf("map/map%d.json", i)
		b.add(entry, map[string]any{"type": "CIMMap", "name": m.Name, "layers": refs})
		items = append(items, map[string]any{
			"type":        "CIMProjectItem",
			"name":        m.Name,
			"itemType":    "Map",
			"catalogPath": "CIMPATH=" + entry,
		})
	}
	items = append(items, map[string]any{"type": "CIMProjectItem", "name": "Layout", "itemType": "Layout", "catalogPath": "CIMPATH=layout/layout.json"})
	b.add("GISProject.json", map[string]any{"type": "CIMGISProject", "projectItems": items})
	b.add("Index.json", map[string]any{"version": "3.1.0"})

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range b.order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		require.NoError(t, json.NewEncoder(w).Encode(b.entries[name]))
	}
	require.NoError(t, zw.Close())
	return path
}

// Touch creates an empty file at path, including parent folders.
func Touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}
