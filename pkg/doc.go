// Package pkg provides the core libraries for intertext influence mapping.
//
// The typical data flow:
//
//	edges.csv
//	     ↓
//	[corpus] package (parse and validate influence rows)
//	     ↓
//	[graph] package (directed network + degree centrality)
//	     ↓
//	[layout] package (timeline positions, sized by centrality)
//	     ↓
//	[render/html], [render/dot] (interactive page, static diagrams)
//
// [pipeline] orchestrates the three stages with content-addressed caching
// ([cache]), [config] loads the optional intertext.toml, [archive] persists
// graph snapshots to MongoDB, and [errors] carries coded errors across the
// CLI surface.
package pkg
