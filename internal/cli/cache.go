package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drupalprojects/composer/internal/config"
	"github.com/drupalprojects/composer/pkg/filesystem"
	"github.com/drupalprojects/composer/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached registry responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.CacheDir(c.Getenv)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !filesystem.NewOS().Exists(dir) {
				printInfo(out, "Cache is empty")
				return nil
			}

			cache, err := httputil.NewCache(dir, 0)
			if err != nil {
				return err
			}
			if err := cache.Clear(); err != nil {
				printWarning(out, "Could not clear every entry: %v", err)
				return err
			}
			printSuccess(out, "Cache cleared")
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.CacheDir(c.Getenv)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
