package cli

import (
	"github.com/spf13/cobra"

	"github.com/drupalprojects/composer/pkg/packages"
)

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	var installedFrom string

	cmd := &cobra.Command{
		Use:     "remove <package> <version>",
		Short:   "Delete an installed package",
		Long:    `Remove deletes a package's directory from the vendor directory. Checkouts with uncommitted changes are left alone.`,
		Example: `  composer remove monolog/monolog 3.5.0`,
		Args:    cobra.ExactArgs(2),
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
			pkg, err := lookup(ctx, e, args[0], args[1])
			if err != nil {
				return err
			}
			pkg.SetInstallationSource(source)

			dir, err := c.packageDir(pkg.Name())
			if err != nil {
				return err
			}
			if err := e.manager.Remove(ctx, e.session, pkg, dir); err != nil {
				return err
			}

			printSuccess(cmd.OutOrStdout(), "Removed %s", StyleHighlight.Render(pkg.PrettyString()))
			return nil
		},
	}

	cmd.Flags().StringVar(&installedFrom, "installed-from", string(packages.InstalledFromSource), "how the package was installed: source or dist")
	return cmd
}
