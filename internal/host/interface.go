package host

// Layer is a single node of a map's layer tree.
type Layer interface {
	// Name is the display name of the layer.
	Name() string
	// IsGroup reports whether the layer is a container of other layers.
	IsGroup() bool
	// Children lists nested layers of a group in the host's order. It is
	// empty for non-group layers.
	Children() []Layer
	// SupportsDataSource reports whether the layer reads from a workspace.
	SupportsDataSource() bool
	// IsBroken reports whether the layer's workspace cannot be resolved.
	IsBroken() bool
	// UpdateConnection points the layer at newWorkspace. An empty
	// oldWorkspace matches whatever workspace the layer currently uses.
	UpdateConnection(oldWorkspace, newWorkspace string) error
}

// Map is a named collection of top-level layers.
type Map interface {
	Name() string
	Layers() []Layer
}

// Project is an open read/write handle on a project file.
type Project interface {
	// Path is the location the project was opened from and is saved to.
	Path() string
	Maps() []Map
	// Save persists all in-memory changes back to Path.
	Save() error
	// Close releases the handle. It is safe to call more than once.
	Close() error
}

// Opener opens project files.
type Opener interface {
	Open(path string) (Project, error)
}
