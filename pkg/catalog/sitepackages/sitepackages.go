// Package sitepackages reads installed distributions straight from
// site-packages directories, without running Python.
//
// Both metadata layouts pip leaves behind are understood:
//
//   - name-version.dist-info/METADATA (wheels, modern installs)
//   - name.egg-info/PKG-INFO plus requires.txt (setuptools, develop installs)
//
// A bare name.egg-info file is treated like PKG-INFO.
package sitepackages

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/errors"
)

// DefaultConcurrency bounds the number of metadata files read at once.
const DefaultConcurrency = 8

// Source scans one or more site-packages directories. It implements
// [catalog.Source].
type Source struct {
	Dirs        []string             // Directories to scan, in priority order
	Concurrency int                  // Parallel metadata reads (DefaultConcurrency if zero)
	Logger      func(string, ...any) // Receives per-file parse failures (optional)
}

// New creates a Source for the given directories.
func New(dirs ...string) *Source {
	return &Source{Dirs: dirs}
}

// Scan reads every distribution found in the configured directories.
// Records keep the directory order, so when a package is installed twice the
// one in the earlier directory shadows the other, as on sys.path. Metadata
// that cannot be read is logged and skipped; a missing directory is an error.
func (s *Source) Scan(ctx context.Context) ([]catalog.Package, error) {
	var entries []entry
	for _, dir := range s.Dirs {
		found, err := listDistributions(dir)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	logf := s.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}

	results := make([]*catalog.Package, len(entries))
	gr, ctx := errgroup.WithContext(ctx)
	gr.SetLimit(limit)
	for i, e := range entries {
		gr.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := e.read(logf)
			if err != nil {
				logf("skipping %s: %v", e.path, err)
				return nil
			}
			results[i] = &p
			return nil
		})
	}
	if err := gr.Wait(); err != nil {
		return nil, err
	}

	pkgs := make([]catalog.Package, 0, len(results))
	for _, p := range results {
		if p != nil {
			pkgs = append(pkgs, *p)
		}
	}
	return pkgs, nil
}

type layout int

const (
	distInfo layout = iota
	eggInfoDir
	eggInfoFile
)

type entry struct {
	dir    string // site-packages directory, used as the package location
	path   string // metadata directory or file
	layout layout
}

func listDistributions(dir string) ([]entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "site-packages directory %s", dir)
		}
		return nil, err
	}

	var out []entry
	for _, it := range items {
		name := it.Name()
		path := filepath.Join(dir, name)
		switch {
		case strings.HasSuffix(name, ".dist-info") && it.IsDir():
			out = append(out, entry{dir: dir, path: path, layout: distInfo})
		case strings.HasSuffix(name, ".egg-info") && it.IsDir():
			out = append(out, entry{dir: dir, path: path, layout: eggInfoDir})
		case strings.HasSuffix(name, ".egg-info"):
			out = append(out, entry{dir: dir, path: path, layout: eggInfoFile})
		}
	}
	return out, nil
}

func (e entry) read(logf func(string, ...any)) (catalog.Package, error) {
	var metaPath string
	switch e.layout {
	case distInfo:
		metaPath = filepath.Join(e.path, "METADATA")
	case eggInfoDir:
		metaPath = filepath.Join(e.path, "PKG-INFO")
	default:
		metaPath = e.path
	}

	f, err := os.Open(metaPath)
	if err != nil {
		return catalog.Package{}, err
	}
	defer f.Close()

	hdr, err := readHeaders(f)
	name := hdr.Get("Name")
	if err != nil {
		if name == "" {
			return catalog.Package{}, fmt.Errorf("parse %s: %w", metaPath, err)
		}
		logf("%s: %v", metaPath, err)
	}
	if name == "" {
		return catalog.Package{}, fmt.Errorf("%s: missing Name", metaPath)
	}

	p := catalog.Package{
		Name:        name,
		DisplayName: name,
		Version:     hdr.Get("Version"),
		Location:    e.dir,
		Extras:      hdr.Values("Provides-Extra"),
	}

	raw := hdr.Values("Requires-Dist")
	if e.layout == eggInfoDir {
		extra, err := readRequiresTxt(filepath.Join(e.path, "requires.txt"))
		if err != nil && !os.IsNotExist(err) {
			return catalog.Package{}, err
		}
		raw = append(raw, extra.requirements...)
		for _, x := range extra.extras {
			if !p.HasExtra(x) {
				p.Extras = append(p.Extras, x)
			}
		}
	}

	skip := func(err error) { logf("%s: %v", name, err) }
	p.Extras = catalog.ParseExtras(p.Extras, skip)
	p.Requirements = catalog.ParseRequirements(raw, skip)
	return p, nil
}

// readHeaders reads the RFC 822 style header block of a core metadata file.
// The description body after the first blank line is ignored. On a malformed
// line the headers read before it are returned together with the error.
func readHeaders(r io.Reader) (textproto.MIMEHeader, error) {
	hdr, err := textproto.NewReader(bufio.NewReader(r)).ReadMIMEHeader()
	if err == io.EOF {
		err = nil
	}
	return hdr, err
}

type requiresTxt struct {
	requirements []string
	extras       []string
}

// readRequiresTxt converts a setuptools requires.txt into requirement
// strings. Lines under a "[name]" or "[name:marker]" section become
// conditional on that extra; "[:marker]" sections stay unconditional.
func readRequiresTxt(path string) (requiresTxt, error) {
	var out requiresTxt
	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()

	var extra string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			extra, _, _ = strings.Cut(section, ":")
			extra = strings.TrimSpace(extra)
			if extra != "" {
				out.extras = append(out.extras, extra)
			}
			continue
		}
		if extra != "" {
			line = fmt.Sprintf("%s; extra == %q", line, extra)
		}
		out.requirements = append(out.requirements, line)
	}
	return out, scanner.Err()
}
