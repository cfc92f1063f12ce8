// Package locator picks the database connection file a broken layer should be
// rebound to, based on the naming convention of the layer's dataset.
//
// Dataset names are split into two groups. Names carrying the capture prefix
// (an "A", three digits and an underscore, e.g. "A123_Parcels") belong to the
// read-only capture database; everything else is served by the publication
// database. Each group is identified among the candidate files by a marker
// token contained in the file's path.
//
// Candidates are scanned in the order they are supplied and the first one that
// carries the required marker wins. Discovery order therefore decides between
// several files that carry the same marker.
package locator
