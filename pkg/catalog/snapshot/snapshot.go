// Package snapshot stores an installed environment in a file so it can be
// analyzed later, elsewhere, or in tests.
//
// The TOML layout mirrors a lock file, one table per package:
//
//	[[package]]
//	name = "jsonschema"
//	version = "4.17.3"
//	location = "/usr/lib/python3/site-packages"
//	extras = ["format"]
//	requires = ["attrs>=17.4.0", "webcolors>=1.11; extra == \"format\""]
//
// Files ending in .json use the same field names.
package snapshot

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/errors"
)

// File is the on-disk snapshot document.
type File struct {
	Packages []Entry `toml:"package" json:"packages"`
}

// Entry is one package in a snapshot.
type Entry struct {
	Name     string   `toml:"name" json:"name"`
	Version  string   `toml:"version" json:"version"`
	Location string   `toml:"location,omitempty" json:"location,omitempty"`
	Extras   []string `toml:"extras,omitempty" json:"extras,omitempty"`
	Requires []string `toml:"requires,omitempty" json:"requires,omitempty"`
}

// Source reads packages from a snapshot file. It implements
// [catalog.Source].
type Source struct {
	Path   string
	Logger func(string, ...any)
}

// New creates a Source for the snapshot at path.
func New(path string) *Source {
	return &Source{Path: path}
}

// Scan loads the snapshot. Malformed requirements are logged and dropped.
func (s *Source) Scan(context.Context) ([]catalog.Package, error) {
	f, err := Load(s.Path)
	if err != nil {
		return nil, err
	}
	logf := s.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return f.Catalog(logf), nil
}

// Load reads a snapshot file, choosing the format by extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", path)
		}
		return nil, err
	}

	var f File
	if isJSON(path) {
		err = json.Unmarshal(data, &f)
	} else {
		err = toml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse snapshot %s", path)
	}
	return &f, nil
}

// Catalog converts the snapshot into packages.
func (f *File) Catalog(logf func(string, ...any)) []catalog.Package {
	pkgs := make([]catalog.Package, 0, len(f.Packages))
	for _, e := range f.Packages {
		skip := func(err error) { logf("%s: %v", e.Name, err) }
		pkgs = append(pkgs, catalog.Package{
			Name:         e.Name,
			DisplayName:  e.Name,
			Version:      e.Version,
			Location:     e.Location,
			Extras:       catalog.ParseExtras(e.Extras, skip),
			Requirements: catalog.ParseRequirements(e.Requires, skip),
		})
	}
	return pkgs
}

// FromPackages builds a snapshot of pkgs, keeping declared names and the
// original requirement strings.
func FromPackages(pkgs []catalog.Package) *File {
	f := &File{Packages: make([]Entry, 0, len(pkgs))}
	for _, p := range pkgs {
		e := Entry{
			Name:     p.Label(),
			Version:  p.Version,
			Location: p.Location,
			Extras:   p.Extras,
		}
		for _, r := range p.Requirements {
			e.Requires = append(e.Requires, r.Raw)
		}
		f.Packages = append(f.Packages, e)
	}
	return f
}

// Encode writes the snapshot as TOML, or as indented JSON if asJSON is set.
func (f *File) Encode(w io.Writer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}
	return toml.NewEncoder(w).Encode(f)
}

// Save writes the snapshot to path, choosing the format by extension.
func (f *File) Save(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Encode(out, isJSON(path)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
