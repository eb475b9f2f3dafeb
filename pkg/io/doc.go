// Package io provides JSON import and export for reverse-dependency graphs.
//
// # JSON Format
//
// The format has two top-level arrays. Edges read "from requires to", the
// direction a user thinks in, even though the in-memory graph stores the
// reverse:
//
//	{
//	  "nodes": [
//	    {"id": "flask", "meta": {"version": "3.0.0", "dead": true}},
//	    {"id": "jinja2", "meta": {"version": "3.1.2"}}
//	  ],
//	  "edges": [
//	    {"from": "flask", "to": "jinja2"}
//	  ]
//	}
//
// Node meta is free-form. The graph builder sets version, location and
// label; the command line marks removable packages with dead.
//
// # Import and Export
//
// Use [ExportJSON] and [ImportJSON] for files, [WriteJSON] and [ReadJSON]
// for any writer or reader. Output is sorted, so exporting an imported graph
// reproduces the input byte for byte if it was sorted too.
package io
