// Package aprx implements the host project contract on top of ArcGIS Pro
// project files.
//
// An .aprx file is a ZIP archive of CIM JSON documents. GISProject.json lists
// the project items; map items point at a map document through a
// "CIMPATH=<entry>" catalog path. Map and group layer documents list their
// layers the same way, in drawing order. Data layers keep their workspace in a
// data connection object, either under "featureTable" (feature layers) or at
// the top level (raster and other layers).
//
// The workspace of a layer is the DATABASE key of its workspace connection
// string. A layer with a file workspace is broken when that workspace is
// empty or does not name an existing file; relative workspaces resolve
// against the project's folder. Connections to a database server (SERVER or
// INSTANCE keys with a plain database name) are never broken.
//
// Opening a project takes an exclusive lock next to the file and reads the
// archive into memory. Saving rewrites only the layer documents that were
// rebound, copies every other entry verbatim, and replaces the original file
// through a rename so a failed save leaves it untouched.
package aprx
