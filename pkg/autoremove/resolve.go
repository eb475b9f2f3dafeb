package autoremove

import (
	"context"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/errors"
)

// Required returns the installed packages p requires when the given extras
// are enabled, each at most once. Requirements on p itself are dropped.
// Requirements that cannot be resolved (not installed, malformed) are
// reported to logf and skipped; any other catalog failure is returned.
func Required(ctx context.Context, cat catalog.Catalog, p catalog.Package, enabled []string, logf func(string, ...any)) ([]catalog.Package, error) {
	var out []catalog.Package
	seen := make(map[string]bool)
	for _, req := range p.Requires(enabled...) {
		if req.Name == p.Name || seen[req.Name] {
			continue
		}
		seen[req.Name] = true

		dep, err := cat.Resolve(ctx, req.Name)
		if err != nil {
			if errors.IsSkippable(err) {
				if logf != nil {
					logf("%s requires %s: %s", p.Name, req.Name, errors.UserMessage(err))
				}
				continue
			}
			return nil, err
		}
		out = append(out, dep)
	}
	return out, nil
}

// OptionalRequired returns the packages p requires only because extras are
// enabled: those required with extras minus those required without.
func OptionalRequired(ctx context.Context, cat catalog.Catalog, p catalog.Package, extras []string, logf func(string, ...any)) ([]catalog.Package, error) {
	if len(extras) == 0 {
		return nil, nil
	}
	base, err := Required(ctx, cat, p, nil, nil)
	if err != nil {
		return nil, err
	}
	withExtras, err := Required(ctx, cat, p, extras, logf)
	if err != nil {
		return nil, err
	}

	inBase := make(map[string]bool, len(base))
	for _, b := range base {
		inBase[b.Name] = true
	}
	var out []catalog.Package
	for _, d := range withExtras {
		if !inBase[d.Name] {
			out = append(out, d)
		}
	}
	return out, nil
}
