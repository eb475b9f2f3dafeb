// Package cli implements the autoremove command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/autoremove/pkg/autoremove"
	"github.com/matzehuels/autoremove/pkg/buildinfo"
	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/catalog/backends"
	"github.com/matzehuels/autoremove/pkg/config"
	"github.com/matzehuels/autoremove/pkg/uninstall"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// confirmPrompt is shown before anything is uninstalled.
	confirmPrompt = "Uninstall (y/N)? "
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In is read for the uninstall confirmation. A terminal gets the
	// interactive prompt; anything else is read as a single line.
	In io.Reader

	// Uninstaller removes packages. Nil uses pip with the configured interpreter.
	Uninstaller uninstall.Executor
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var flags rootFlags
	var env envFlags

	root := &cobra.Command{
		Use:   "autoremove [flags] [NAME]...",
		Short: "Remove a package and the dependencies nothing else uses",
		Long: `autoremove uninstalls Python packages together with every dependency that
would be left unused, while never touching packages that something else
still requires.`,
		Args:         cobra.ArbitraryArgs,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoot(cmd, env, flags, args)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.Flags().BoolVarP(&flags.list, "list", "l", false, "list unused dependencies, but don't uninstall them")
	root.Flags().BoolVarP(&flags.leaves, "leaves", "L", false, "list leaves (packages which are not used by any others)")
	root.Flags().BoolVarP(&flags.freeze, "freeze", "f", false, "list leaves in requirements file format")
	root.Flags().BoolVarP(&flags.yes, "yes", "y", false, "don't ask for confirmation of uninstall deletions")
	root.Flags().BoolVarP(&flags.includeExtras, "include-extras", "e", false, "include in search all extras (like jsonschema[format])")
	root.Flags().BoolVarP(&flags.readFile, "read-file", "r", false, "read package names from the file given as first argument")
	env.register(root)

	root.AddCommand(c.graphCommand(&env))
	root.AddCommand(c.snapshotCommand(&env))
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Environment
// =============================================================================

// envFlags select the config file and the package catalog. They are shared by
// every command that reads installed packages.
type envFlags struct {
	configPath   string
	python       string
	backend      string
	sitePackages []string
	snapshot     string
}

func (e *envFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&e.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/autoremove/config.toml)")
	pf.StringVar(&e.python, "python", "", "Python interpreter whose environment is inspected")
	pf.StringVar(&e.backend, "backend", "", "package catalog: python, site-packages or snapshot")
	pf.StringSliceVar(&e.sitePackages, "site-packages", nil, "site-packages directories to scan (site-packages backend)")
	pf.StringVar(&e.snapshot, "snapshot", "", "read installed packages from a snapshot file")
}

// loadConfig reads the config file and applies flag overrides on top.
// Only flags that were set on the command line override file values.
func (e *envFlags) loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, optional := e.configPath, false
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Default(), nil
		}
		path, optional = p, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("python") {
		cfg.Python = e.python
	}
	if changed("backend") {
		cfg.Backend = e.backend
	}
	if changed("site-packages") {
		cfg.SitePackages = e.sitePackages
		if !changed("backend") {
			cfg.Backend = backends.SitePackages
		}
	}
	if changed("snapshot") {
		cfg.Snapshot = e.snapshot
		if !changed("backend") {
			cfg.Backend = backends.Snapshot
		}
	}
	return cfg, cfg.Validate()
}

// openSession opens the configured catalog backend and wraps it in a session.
// The first scan runs behind a spinner when stderr is a terminal.
func (c *CLI) openSession(ctx context.Context, cmd *cobra.Command, cfg config.Config) (*catalog.Session, error) {
	logger := loggerFromContext(ctx)
	src, err := backends.Open(ctx, cfg.BackendOptions(logger.Warnf))
	if err != nil {
		return nil, err
	}
	session := catalog.NewSession(src, catalog.Options{Logger: logger.Warnf})

	spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Reading installed packages...")
	if isTerminal(cmd.ErrOrStderr()) {
		spinner.Start()
	}
	prog := newProgress(logger)
	pkgs, err := session.ListInstalled(ctx)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	prog.debug("Read %d installed packages", len(pkgs))
	return session, nil
}

// newPlanner creates a planner over session with the configured options.
// Planner diagnostics are debug output; skipped seeds are reported by the caller.
func newPlanner(ctx context.Context, session *catalog.Session, cfg config.Config) *autoremove.Planner {
	return autoremove.NewPlanner(session, cfg.PlanOptions(loggerFromContext(ctx).Debugf))
}

func (c *CLI) uninstaller(cfg config.Config, cmd *cobra.Command) uninstall.Executor {
	if c.Uninstaller != nil {
		return c.Uninstaller
	}
	return &uninstall.Pip{Python: cfg.Python, Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
}
