package catalog

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/autoremove/pkg/errors"
)

// Options configures a [Session].
type Options struct {
	// Logger receives warnings about skipped or duplicate packages. If nil,
	// messages are discarded.
	Logger func(string, ...any)
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	return o
}

// Session is a cached [Catalog] over a [Source]. The first lookup scans the
// source; later lookups are served from memory until [Session.Invalidate] is
// called, typically after packages have been uninstalled.
//
// Session is safe for concurrent use.
type Session struct {
	source Source
	opts   Options

	mu     sync.Mutex
	loaded bool
	sorted []Package
	byName map[string]Package
}

// NewSession creates a session reading from source.
func NewSession(source Source, opts Options) *Session {
	return &Session{source: source, opts: opts.WithDefaults()}
}

// ListInstalled returns every installed package sorted by normalized name.
// Vendored copies are left out; when two records normalize to the same name
// the first one scanned wins.
func (s *Session) ListInstalled(ctx context.Context) ([]Package, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sorted), nil
}

// Resolve looks up the installed package that ref names. ref may be a bare
// name or a full requirement string; any version specifier is ignored.
func (s *Session) Resolve(ctx context.Context, ref string) (Package, error) {
	req, err := ParseRequirement(ref)
	if err != nil {
		return Package{}, err
	}
	if err := s.load(ctx); err != nil {
		return Package{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byName[req.Name]
	if !ok {
		return Package{}, errors.NotInstalled(req.Name)
	}
	return p, nil
}

// Invalidate drops the cached listing so the next lookup rescans the source.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.sorted = nil
	s.byName = nil
}

func (s *Session) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	raw, err := s.source.Scan(ctx)
	if err != nil {
		return err
	}

	byName := make(map[string]Package, len(raw))
	sorted := make([]Package, 0, len(raw))
	for _, p := range raw {
		if isVendored(p) {
			continue
		}
		if p.DisplayName == "" {
			p.DisplayName = p.Name
		}
		p.Name = NormalizeName(p.Name)
		if p.Name == "" {
			s.opts.Logger("skipping package without a name in %s", p.Location)
			continue
		}
		if prev, dup := byName[p.Name]; dup {
			s.opts.Logger("duplicate installation of %s: keeping %s, ignoring %s", p.Name, prev.Location, p.Location)
			continue
		}
		byName[p.Name] = p
		sorted = append(sorted, p)
	}
	slices.SortFunc(sorted, func(a, b Package) int { return cmp.Compare(a.Name, b.Name) })

	s.byName = byName
	s.sorted = sorted
	s.loaded = true
	return nil
}
