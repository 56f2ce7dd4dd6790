package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drupalprojects/composer/pkg/integrations"
	"github.com/drupalprojects/composer/pkg/packages"
)

// showCommand creates the "show" command.
func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <package> [constraint]",
		Short: "Show registry metadata for a package",
		Long: `Show resolves the best version of a package matching the constraint
(default "*") and prints its metadata, or the registry array form with --json.`,
		Example: `  composer show monolog/monolog
  composer show monolog/monolog "~2.9" --json`,
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

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "    ")
				return enc.Encode(packages.Dump(pkg))
			}
			printPackage(out, pkg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the registry array form as JSON")
	return cmd
}

func printPackage(w io.Writer, pkg packages.Package) {
	fmt.Fprintln(w, StyleTitle.Render(pkg.PrettyName()))
	printKeyValue(w, "version", pkg.PrettyVersion())
	printKeyValue(w, "stability", pkg.Stability().String())
	if d := pkg.Description(); d != "" {
		printKeyValue(w, "description", d)
	}
	if l := pkg.License(); len(l) > 0 {
		printKeyValue(w, "license", strings.Join(l, ", "))
	}
	if h := pkg.Homepage(); h != "" {
		printKeyValue(w, "homepage", StyleLink.Render(h))
	}
	if repo := integrations.NormalizeRepoURL(pkg.SourceURL()); repo != "" {
		printKeyValue(w, "repository", StyleLink.Render(repo))
	}
	if pkg.SourceType() != "" {
		printKeyValue(w, "source", fmt.Sprintf("[%s] %s %s", pkg.SourceType(), pkg.SourceURL(), pkg.SourceReference()))
	}
	if pkg.DistType() != "" {
		printKeyValue(w, "dist", fmt.Sprintf("[%s] %s %s", pkg.DistType(), pkg.DistURL(), pkg.DistReference()))
	}
	if t := pkg.ReleaseDate(); !t.IsZero() {
		printKeyValue(w, "released", t.Format("2006-01-02"))
	}
	for _, group := range []struct {
		title string
		links []*packages.Link
	}{
		{"requires", pkg.Requires()},
		{"provides", pkg.Provides()},
		{"replaces", pkg.Replaces()},
	} {
		if len(group.links) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleDim.Render(group.title))
		for _, l := range group.links {
			fmt.Fprintln(w, "  "+StyleValue.Render(l.Target())+" "+StyleNumber.Render(l.PrettyConstraint()))
		}
	}
}
