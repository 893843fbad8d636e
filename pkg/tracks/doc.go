// Package tracks implements the data model behind a Tracks layer: a table of
// space-time observations grouped into track identities, a temporal index for
// slicing by time, a lineage graph between tracks, per-observation connectivity
// for line rendering and colour-by-property resolution.
//
// Observations are rows of the form
//
//	track_id, t, [z,] y, x
//
// stored in a gonum *mat.Dense sorted by track_id and then by time. Derived
// structures (temporal index, connectivity, colours) are rebuilt lazily the
// next time they are read after any mutation.
//
// A Layer is not safe for concurrent use. It is meant to be owned by a single
// caller such as a UI event loop.
package tracks
