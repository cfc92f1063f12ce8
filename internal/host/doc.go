// Package host defines the contract between the repair core and the GIS
// project SDK that owns the project files.
//
// # Why Host Exists
//
// The repair logic only needs a handful of capabilities from a project: list
// its maps, walk each map's layer tree, inspect a layer's flags, rebind a
// broken layer and save. Keeping those behind interfaces lets the repairer and
// the processor run against any SDK adapter, and lets tests drive them with
// in-memory fakes.
//
// # Layer Capabilities
//
// Layers are not classified into a closed set of types. The core branches on
// capability checks instead:
//   - IsGroup: the layer only nests other layers
//   - SupportsDataSource: the layer reads from a workspace and can be rebound
//   - IsBroken: the layer's workspace cannot be resolved
//
// Layer trees are owned by the host and are acyclic; the core walks them
// without cycle detection.
//
// # Handle Lifetime
//
// A Project returned by an Opener is a read/write handle. Callers must Close it
// on every path, whether or not Save was attempted or succeeded.
package host
