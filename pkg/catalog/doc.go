// Package catalog describes the installed environment: which packages are
// present, what they require, and which optional extras they declare.
//
// The graph engine never touches the filesystem or a Python interpreter
// directly. It reads a [Catalog], usually a [Session] wrapping one of the
// [Source] backends:
//
//   - sitepackages: reads *.dist-info and *.egg-info metadata from disk
//   - python: asks an interpreter through importlib.metadata
//   - snapshot: loads a TOML or JSON file captured earlier
//
// # Names
//
// Package names are compared after [NormalizeName]: lowercase with
// underscores replaced by hyphens. Extras are compared exactly as declared.
//
// # Requirements
//
// [ParseRequirement] understands the subset of requirement syntax the graph
// needs: a name, an optional bracketed list of extras to enable on the
// target, and an optional marker of the form extra == "name". Version
// specifiers and every other marker are ignored.
package catalog
