package cli

import (
	"github.com/spf13/cobra"

	"github.com/drupalprojects/composer/pkg/packages"
)

// updateCommand creates the "update" command.
func (c *CLI) updateCommand() *cobra.Command {
	var installedFrom string

	cmd := &cobra.Command{
		Use:   "update <package> <from> <to>",
		Short: "Move an installed package from one version to another",
		Long: `Update moves the installation of a package from the version currently
installed to another published version. A checkout is updated in place when
possible; otherwise the package is removed and installed again.`,
		Example: `  composer update monolog/monolog 3.4.0 3.5.0
  composer update acme/lib 1.0.0 dev-main --installed-from dist`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := parseInstallationSource(installedFrom)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := c.newEnv(ctx)
			if err != nil {
				return err
			}

			name := args[0]
			initial, err := lookup(ctx, e, name, args[1])
			if err != nil {
				return err
			}
			target, err := lookup(ctx, e, name, args[2])
			if err != nil {
				return err
			}
			if packages.Equals(initial, target) {
				target = target.Clone()
			}
			initial.SetInstallationSource(source)

			dir, err := c.packageDir(initial.Name())
			if err != nil {
				return err
			}

			prog := newProgress(e.logger)
			err = e.manager.Update(ctx, e.session, initial, target, dir)
			e.saveAuths(ctx)
			if err != nil {
				return err
			}
			prog.done("Updated " + target.PrettyString())

			out := cmd.OutOrStdout()
			printSuccess(out, "Updated %s to %s from %s", initial.PrettyName(),
				StyleHighlight.Render(target.PrettyVersion()), target.InstallationSource())
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&installedFrom, "installed-from", string(packages.InstalledFromSource), "how the current version was installed: source or dist")
	return cmd
}
