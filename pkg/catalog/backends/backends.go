// Package backends selects and constructs a [catalog.Source] by name.
package backends

import (
	"context"
	"slices"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/catalog/python"
	"github.com/matzehuels/autoremove/pkg/catalog/sitepackages"
	"github.com/matzehuels/autoremove/pkg/catalog/snapshot"
	"github.com/matzehuels/autoremove/pkg/errors"
)

// Backend names.
const (
	Python       = "python"
	SitePackages = "site-packages"
	Snapshot     = "snapshot"
)

// Names lists the supported backends.
var Names = []string{Python, SitePackages, Snapshot}

// Options selects and configures a backend.
type Options struct {
	Backend      string   // One of Names (Python if empty, Snapshot if SnapshotPath is set)
	Python       string   // Interpreter for the python backend and for locating site-packages
	SitePackages []string // Directories for the site-packages backend (asked from Python if empty)
	SnapshotPath string   // File for the snapshot backend
	Logger       func(string, ...any)
}

// Open returns the Source described by opts.
func Open(ctx context.Context, opts Options) (catalog.Source, error) {
	backend := opts.Backend
	if backend == "" {
		backend = Python
		if opts.SnapshotPath != "" {
			backend = Snapshot
		}
	}

	switch backend {
	case Python:
		src := python.New(opts.Python)
		src.Logger = opts.Logger
		return src, nil

	case SitePackages:
		dirs := opts.SitePackages
		if len(dirs) == 0 {
			var err error
			dirs, err = python.New(opts.Python).SitePackages(ctx)
			if err != nil {
				return nil, err
			}
		}
		src := sitepackages.New(dirs...)
		src.Logger = opts.Logger
		return src, nil

	case Snapshot:
		if opts.SnapshotPath == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "snapshot backend requires a snapshot path")
		}
		src := snapshot.New(opts.SnapshotPath)
		src.Logger = opts.Logger
		return src, nil
	}

	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown backend %q (want one of %v)", backend, Names)
}

// Valid reports whether name is a supported backend. The empty name selects
// the default and is valid.
func Valid(name string) bool {
	return name == "" || slices.Contains(Names, name)
}
