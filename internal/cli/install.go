package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/version"
)

// installCommand creates the "install" command.
func (c *CLI) installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package> [constraint]",
		Short: "Install the best matching version of a package",
		Long: `Install resolves the highest version of a package that satisfies the
constraint (default "*", releases before branches) and installs it into the
vendor directory.`,
		Example: `  composer install monolog/monolog
  composer install monolog/monolog "^3.0" --prefer-source
  composer install acme/private dev-main`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.newEnv(ctx)
			if err != nil {
				return err
			}

			expr := "*"
			if len(args) == 2 {
				expr = args[1]
			}
			pkg, err := resolve(ctx, e, args[0], expr)
			if err != nil {
				return err
			}
			dir, err := c.packageDir(pkg.Name())
			if err != nil {
				return err
			}

			prog := newProgress(e.logger)
			err = e.manager.Download(ctx, e.session, pkg, dir)
			e.saveAuths(ctx)
			if err != nil {
				return err
			}
			prog.done("Installed " + pkg.PrettyString())

			out := cmd.OutOrStdout()
			printSuccess(out, "Installed %s from %s", StyleHighlight.Render(pkg.PrettyString()), pkg.InstallationSource())
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

// resolve finds the best version of name matching expr in the registry.
func resolve(ctx context.Context, e *env, name, expr string) (packages.Package, error) {
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	constraint, err := version.ParseConstraints(expr)
	if err != nil {
		return nil, err
	}

	spin := newSpinnerWithContext(ctx, spinnerOutput(e), "Resolving "+name)
	spin.Start()
	pkg, err := e.registry.Find(ctx, name, constraint)
	spin.Stop()
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, errors.New(errors.ErrCodePackageNotFound, "could not find a version of %s matching %s", name, expr)
	}
	e.logger.Debug("resolved package", "package", pkg.PrettyString(), "constraint", expr)
	return pkg, nil
}

// lookup finds an exact published version of name.
func lookup(ctx context.Context, e *env, name, v string) (packages.Package, error) {
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	pkg, err := e.registry.FindVersion(ctx, name, v)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, errors.New(errors.ErrCodePackageNotFound, "%s %s is not published", name, v)
	}
	return pkg, nil
}

// parseInstallationSource reads an --installed-from value.
func parseInstallationSource(s string) (packages.InstallationSource, error) {
	switch src := packages.InstallationSource(strings.ToLower(strings.TrimSpace(s))); src {
	case packages.InstalledFromSource, packages.InstalledFromDist:
		return src, nil
	}
	return packages.NotInstalled, errors.New(errors.ErrCodeInvalidInput, "installation source must be %q or %q, got %q",
		packages.InstalledFromSource, packages.InstalledFromDist, s)
}
