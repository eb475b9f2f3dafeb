package autoremove

import (
	"slices"

	"github.com/matzehuels/autoremove/pkg/catalog"
)

// DefaultWhitelist names the packages that are never removed: the package
// manager itself and its own prerequisites.
var DefaultWhitelist = []string{"pip", "setuptools"}

// Options configures graph construction and dead-set planning.
type Options struct {
	IncludeExtras    bool                 // Follow requirements of non-restricted extras
	Whitelist        []string             // Extra names never removed, on top of DefaultWhitelist
	RestrictedExtras []string             // Extras ignored during expansion (default: catalog.DefaultRestrictedExtras)
	Logger           func(string, ...any) // Receives skipped-item diagnostics (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.RestrictedExtras == nil {
		opts.RestrictedExtras = catalog.DefaultRestrictedExtras
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

func (o Options) whitelist() Whitelist {
	return NewWhitelist(slices.Concat(DefaultWhitelist, o.Whitelist)...)
}
