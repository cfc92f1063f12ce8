package aprx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zip"
	"github.com/vk/aprxrelink/internal/host"
)

const (
	// ProjectEntry is the root document of every project archive.
	ProjectEntry = "GISProject.json"

	cimPathPrefix = "CIMPATH="
	mapItemType   = "Map"
	lockSuffix    = ".lock"
)

var (
	// ErrProjectLocked is returned when another process holds the project lock.
	ErrProjectLocked = errors.New("project is locked by another process")
	// ErrMissingEntry is returned when a CIMPATH reference has no archive entry.
	ErrMissingEntry = errors.New("archive entry not found")
	// ErrNotDataLayer is returned when rebinding a layer without a data connection.
	ErrNotDataLayer = errors.New("layer has no data connection")
	// ErrWorkspaceMismatch is returned when the old workspace filter does not
	// match the layer's current workspace.
	ErrWorkspaceMismatch = errors.New("layer workspace does not match")
	// ErrCyclicReference is returned when a layer tree references itself.
	ErrCyclicReference = errors.New("cyclic layer reference")
)

type projectDoc struct {
	ProjectItems []struct {
		Name        string `json:"name"`
		ItemType    string `json:"itemType"`
		CatalogPath string `json:"catalogPath"`
	} `json:"projectItems"`
}

type mapDoc struct {
	Name   string   `json:"name"`
	Layers []string `json:"layers"`
}

// document is a layer document kept as generic JSON so fields the adapter
// does not know about survive a save.
type document struct {
	entry  string
	fields map[string]any
	dirty  bool
}

// Opener opens .aprx archives.
type Opener struct{}

// NewOpener creates an .aprx opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open locks and loads the project at path.
func (o *Opener) Open(path string) (host.Project, error) {
	p, err := Open(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Project is an open .aprx archive.
type Project struct {
	path    string
	dir     string
	lock    *flock.Flock
	archive *zip.Reader
	entries map[string]*zip.File
	docs    map[string]*document
	maps    []host.Map
	closed  bool
}

// Open locks the project at path and loads its map and layer documents.
func Open(path string) (*Project, error) {
	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return nil, ErrProjectLocked
	}

	p := &Project{
		path: path,
		dir:  filepath.Dir(path),
		lock: lock,
		docs: make(map[string]*document),
	}
	if err := p.load(); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Project) load() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("reading project: %w", err)
	}
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	p.archive = archive
	p.entries = make(map[string]*zip.File, len(archive.File))
	for _, f := range archive.File {
		p.entries[strings.ToLower(f.Name)] = f
	}

	var root projectDoc
	if err := p.decodeEntry(ProjectEntry, &root); err != nil {
		return err
	}

	for _, item := range root.ProjectItems {
		if item.ItemType != mapItemType {
			continue
		}
		var md mapDoc
		if err := p.decodeEntry(entryName(item.CatalogPath), &md); err != nil {
			return fmt.Errorf("map %q: %w", item.Name, err)
		}
		layers, err := p.loadLayers(md.Layers, map[string]bool{})
		if err != nil {
			return fmt.Errorf("map %q: %w", md.Name, err)
		}
		p.maps = append(p.maps, &Map{name: md.Name, layers: layers})
	}
	return nil
}

func (p *Project) loadLayers(refs []string, visiting map[string]bool) ([]host.Layer, error) {
	layers := make([]host.Layer, 0, len(refs))
	for _, ref := range refs {
		doc, err := p.layerDoc(entryName(ref))
		if err != nil {
			return nil, err
		}
		layer := &Layer{project: p, doc: doc}

		if layer.IsGroup() {
			if visiting[doc.entry] {
				return nil, fmt.Errorf("%w: %s", ErrCyclicReference, doc.entry)
			}
			visiting[doc.entry] = true
			children, err := p.loadLayers(stringList(doc.fields["layers"]), visiting)
			if err != nil {
				return nil, err
			}
			delete(visiting, doc.entry)
			layer.children = children
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func (p *Project) layerDoc(entry string) (*document, error) {
	key := strings.ToLower(entry)
	if doc, ok := p.docs[key]; ok {
		return doc, nil
	}
	raw, err := p.readEntry(entry)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	fields := make(map[string]any)
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", entry, err)
	}
	doc := &document{entry: p.entries[key].Name, fields: fields}
	p.docs[key] = doc
	return doc, nil
}

func (p *Project) decodeEntry(entry string, v any) error {
	raw, err := p.readEntry(entry)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %s: %w", entry, err)
	}
	return nil
}

func (p *Project) readEntry(entry string) ([]byte, error) {
	f, ok := p.entries[strings.ToLower(entry)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, entry)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", entry, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Path returns the location of the project file.
func (p *Project) Path() string { return p.path }

// Maps returns the project's maps in project item order.
func (p *Project) Maps() []host.Map { return p.maps }

// Save writes the archive back to its path, replacing rebound layer documents.
func (p *Project) Save() error {
	if p.closed {
		return errors.New("project is closed")
	}
	info, err := os.Stat(p.path)
	if err != nil {
		return fmt.Errorf("stat project: %w", err)
	}

	tmp, err := os.CreateTemp(p.dir, "."+filepath.Base(p.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := p.writeArchive(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, p.path); err != nil {
		return fmt.Errorf("replacing project: %w", err)
	}
	committed = true
	return nil
}

func (p *Project) writeArchive(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, f := range p.archive.File {
		doc, ok := p.docs[strings.ToLower(f.Name)]
		if !ok || !doc.dirty {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}

		out, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("creating %s: %w", f.Name, err)
		}
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc.fields); err != nil {
			return fmt.Errorf("encoding %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

// Close releases the project lock. The lock file is left in place so that
// every process contends on the same file. It is safe to call more than once.
func (p *Project) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.lock.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

// entryName strips the CIMPATH= prefix from a catalog path.
func entryName(ref string) string {
	if len(ref) >= len(cimPathPrefix) && strings.EqualFold(ref[:len(cimPathPrefix)], cimPathPrefix) {
		return ref[len(cimPathPrefix):]
	}
	return ref
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
