// Package python lists installed distributions by asking a Python
// interpreter, through importlib.metadata, to describe its environment.
//
// This is the most faithful backend: it sees exactly what the interpreter
// that pip runs under sees, including .pth-based and user-site installs.
// It requires the interpreter to be available on PATH (or configured).
package python

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/errors"
)

// DefaultInterpreter is used when no interpreter is configured.
const DefaultInterpreter = "python3"

// markerFilter defines active(req), which reports whether a requirement's
// environment marker holds for this interpreter. The marker is evaluated with
// extra set to the extra the requirement is guarded by, if any. Without
// packaging (or pip's vendored copy) every requirement counts as active.
const markerFilter = `import re
try:
    from packaging.requirements import Requirement
except ImportError:
    try:
        from pip._vendor.packaging.requirements import Requirement
    except ImportError:
        Requirement = None

extra_re = re.compile(r"\bextra\s*==\s*[\"']([\w\-.]+)[\"']")

def active(req):
    if Requirement is None:
        return True
    try:
        marker = Requirement(req).marker
    except Exception:
        return True
    if marker is None:
        return True
    m = extra_re.search(req)
    try:
        return marker.evaluate({"extra": m.group(1) if m else ""})
    except Exception:
        return True
`

// listScript prints every distribution as one JSON array. Requirements whose
// marker fails are left out.
const listScript = markerFilter + `
import json, sys
try:
    from importlib import metadata
except ImportError:
    import importlib_metadata as metadata
out = []
for d in metadata.distributions():
    m = d.metadata
    out.append({
        "name": m["Name"] or "",
        "version": m["Version"] or "",
        "location": str(d.locate_file("")),
        "extras": m.get_all("Provides-Extra") or [],
        "requires": [r for r in (d.requires or []) if active(r)],
    })
json.dump(out, sys.stdout)
`

// sitePackagesScript prints the interpreter's site-packages directories.
const sitePackagesScript = `import json, site, sys
dirs = list(site.getsitepackages()) if hasattr(site, "getsitepackages") else []
if site.ENABLE_USER_SITE:
    dirs.append(site.getusersitepackages())
json.dump(dirs, sys.stdout)
`

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Source lists packages through a Python interpreter. It implements
// [catalog.Source].
type Source struct {
	Interpreter string // Interpreter to run (DefaultInterpreter if empty)
	Logger      func(string, ...any)

	run Runner
}

// New creates a Source running the given interpreter.
func New(interpreter string) *Source {
	return &Source{Interpreter: interpreter}
}

// WithRunner replaces the command runner, mainly for tests.
func (s *Source) WithRunner(r Runner) *Source {
	s.run = r
	return s
}

type record struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Location string   `json:"location"`
	Extras   []string `json:"extras"`
	Requires []string `json:"requires"`
}

// Scan runs the interpreter and converts its report into packages.
// Requirements whose environment marker fails never leave the interpreter.
// Requirements and extras that cannot be parsed are logged and dropped.
func (s *Source) Scan(ctx context.Context) ([]catalog.Package, error) {
	out, err := s.runScript(ctx, listScript)
	if err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode %s output", s.interpreter())
	}

	logf := s.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}

	pkgs := make([]catalog.Package, 0, len(records))
	for _, r := range records {
		if r.Name == "" {
			continue
		}
		skip := func(err error) { logf("%s: %v", r.Name, err) }
		pkgs = append(pkgs, catalog.Package{
			Name:         r.Name,
			DisplayName:  r.Name,
			Version:      r.Version,
			Location:     r.Location,
			Extras:       catalog.ParseExtras(r.Extras, skip),
			Requirements: catalog.ParseRequirements(r.Requires, skip),
		})
	}
	return pkgs, nil
}

// SitePackages returns the interpreter's site-packages directories.
func (s *Source) SitePackages(ctx context.Context) ([]string, error) {
	out, err := s.runScript(ctx, sitePackagesScript)
	if err != nil {
		return nil, err
	}
	var dirs []string
	if err := json.Unmarshal(out, &dirs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode %s output", s.interpreter())
	}
	return dirs, nil
}

func (s *Source) interpreter() string {
	if s.Interpreter == "" {
		return DefaultInterpreter
	}
	return s.Interpreter
}

func (s *Source) runScript(ctx context.Context, script string) ([]byte, error) {
	run := s.run
	if run == nil {
		run = execRunner
	}
	out, err := run(ctx, s.interpreter(), "-c", script)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "python interpreter %q not found", name)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %v: %s", name, err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
