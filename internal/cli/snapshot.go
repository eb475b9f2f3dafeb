package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/autoremove/pkg/catalog/snapshot"
	"github.com/matzehuels/autoremove/pkg/errors"
)

type snapshotOptions struct {
	output string
	json   bool
}

func (c *CLI) snapshotCommand(env *envFlags) *cobra.Command {
	var opts snapshotOptions

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save the installed packages to a snapshot file",
		Long: `Save the installed packages and their requirements to a TOML or JSON file.

A snapshot can later be analysed offline with --snapshot, without access to
the original environment.`,
		Example: `  autoremove snapshot -o env.toml
  autoremove --snapshot env.toml -l Flask`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := env.loadConfig(cmd)
			if err != nil {
				return err
			}
			session, err := c.openSession(ctx, cmd, cfg)
			if err != nil {
				return err
			}
			pkgs, err := session.ListInstalled(ctx)
			if err != nil {
				return err
			}

			f := snapshot.FromPackages(pkgs)
			if opts.output == "" {
				return f.Encode(cmd.OutOrStdout(), opts.json)
			}
			if opts.json {
				return errors.New(errors.ErrCodeInvalidInput, "--json only applies to stdout; use a .json output file instead")
			}
			if err := f.Save(opts.output); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Saved %d packages", len(pkgs))
			printFile(cmd.OutOrStdout(), opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, .json for JSON (stdout if empty)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write JSON to stdout instead of TOML")

	return cmd
}
