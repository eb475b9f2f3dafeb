package cli

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/autoremove/pkg/autoremove"
	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/config"
	"github.com/matzehuels/autoremove/pkg/errors"
)

// rootFlags are the flags of the bare autoremove command.
type rootFlags struct {
	list          bool
	leaves        bool
	freeze        bool
	yes           bool
	includeExtras bool
	readFile      bool
}

func (c *CLI) runRoot(cmd *cobra.Command, env envFlags, flags rootFlags, args []string) error {
	listing := flags.leaves || flags.freeze
	if !listing && !flags.list && len(args) == 0 {
		return cmd.Help()
	}

	names := args
	if flags.readFile && !listing {
		if len(args) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "--read-file needs a file argument")
		}
		fromFile, err := readNames(args[0])
		if err != nil {
			return err
		}
		names = append(args[1:len(args):len(args)], fromFile...)
	}

	ctx := cmd.Context()
	cfg, err := env.loadConfig(cmd)
	if err != nil {
		return err
	}
	if flags.includeExtras {
		cfg.IncludeExtras = true
	}

	session, err := c.openSession(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	planner := newPlanner(ctx, session, cfg)

	if listing {
		return listLeaves(ctx, cmd, planner, flags.freeze)
	}
	return c.remove(ctx, cmd, session, planner, cfg, names, flags)
}

// listLeaves prints the packages nothing requires. Terminals get a table;
// pipes get one package per line.
func listLeaves(ctx context.Context, cmd *cobra.Command, planner *autoremove.Planner, freeze bool) error {
	leaves, err := planner.Leaves(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch {
	case freeze:
		printFreeze(out, leaves)
	case isTerminal(out):
		printPackageTable(out, leaves)
	default:
		printPackages(out, leaves)
	}
	return nil
}

// remove prints the dead tree of every requested package and, unless only
// listing, uninstalls the dead set after confirmation.
func (c *CLI) remove(ctx context.Context, cmd *cobra.Command, session *catalog.Session, planner *autoremove.Planner, cfg config.Config, names []string, flags rootFlags) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	plan, err := planner.Plan(ctx, names)
	if err != nil {
		return err
	}
	for _, name := range plan.Skipped {
		printWarning(errOut, "%s is not an installed package, skipping", name)
	}
	prog := newProgress(loggerFromContext(ctx))
	for _, tree := range plan.Trees {
		prog.debug("%s brings down %d packages", tree.Package.Label(), tree.Len())
		if err := tree.Fprint(out); err != nil {
			return err
		}
	}

	if flags.list {
		return nil
	}
	if plan.Empty() {
		printInfo(errOut, "Nothing to uninstall")
		return nil
	}

	if !flags.yes {
		ok, err := confirm(ctx, c.In, out, confirmPrompt)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if err := c.uninstaller(cfg, cmd).Uninstall(ctx, plan.Names()); err != nil {
		return err
	}
	session.Invalidate()
	printSuccess(out, "Uninstalled %d packages", len(plan.Dead))
	return nil
}

// readNames reads package names from path, one per line. Blank lines and
// lines starting with # are skipped.
func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file '%s' not found", path)
		}
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}
