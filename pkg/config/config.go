// Package config loads the optional autoremove configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/autoremove/config.toml
// (~/.config/autoremove/config.toml by default):
//
//	python = "/usr/bin/python3.12"
//	backend = "site-packages"
//	site_packages = ["/usr/lib/python3.12/site-packages"]
//	whitelist = ["wheel"]
//	restricted_extras = ["dev", "test", "doc"]
//	include_extras = true
//
// Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/autoremove/pkg/autoremove"
	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/catalog/backends"
	"github.com/matzehuels/autoremove/pkg/errors"
)

// AppName names the configuration directory.
const AppName = "autoremove"

// Config holds every setting the file can carry.
type Config struct {
	Python           string   `toml:"python"`
	Backend          string   `toml:"backend"`
	SitePackages     []string `toml:"site_packages"`
	Snapshot         string   `toml:"snapshot"`
	Whitelist        []string `toml:"whitelist"`
	RestrictedExtras []string `toml:"restricted_extras"`
	IncludeExtras    bool     `toml:"include_extras"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Python:           "python3",
		RestrictedExtras: slices.Clone(catalog.DefaultRestrictedExtras),
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads path on top of [Default]. A missing file is not an error when
// optional is true; it yields the defaults.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && optional {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, err
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if !backends.Valid(c.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown backend %q (want one of %v)", c.Backend, backends.Names)
	}
	for _, name := range c.Whitelist {
		if err := errors.ValidatePythonPackageName(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "whitelist")
		}
	}
	return nil
}

// BackendOptions returns the catalog backend options described by c.
func (c Config) BackendOptions(logger func(string, ...any)) backends.Options {
	return backends.Options{
		Backend:      c.Backend,
		Python:       c.Python,
		SitePackages: c.SitePackages,
		SnapshotPath: c.Snapshot,
		Logger:       logger,
	}
}

// PlanOptions returns the planner options described by c.
func (c Config) PlanOptions(logger func(string, ...any)) autoremove.Options {
	return autoremove.Options{
		IncludeExtras:    c.IncludeExtras,
		Whitelist:        c.Whitelist,
		RestrictedExtras: c.RestrictedExtras,
		Logger:           logger,
	}
}
