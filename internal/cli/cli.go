// Package cli implements the composer command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/drupalprojects/composer/internal/config"
	"github.com/drupalprojects/composer/pkg/buildinfo"
	"github.com/drupalprojects/composer/pkg/console"
	"github.com/drupalprojects/composer/pkg/downloader"
	"github.com/drupalprojects/composer/pkg/downloader/git"
	"github.com/drupalprojects/composer/pkg/downloader/vcs"
	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/filesystem"
	"github.com/drupalprojects/composer/pkg/httputil"
	"github.com/drupalprojects/composer/pkg/integrations/packagist"
	"github.com/drupalprojects/composer/pkg/process"
	"github.com/drupalprojects/composer/pkg/repository"
	"github.com/drupalprojects/composer/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// gitEnv keeps git from prompting on its own terminal; credentials are asked
// for through the console instead.
var gitEnv = []string{"GIT_TERMINAL_PROMPT=0"}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before every command runs.
	Config config.Config

	// Executor runs git. Nil means an OS executor.
	Executor process.Executor
	// IO overrides the terminal console, for tests.
	IO console.IO
	// Getenv reads the environment. Nil means os.Getenv.
	Getenv func(string) string

	flags globalFlags
}

type globalFlags struct {
	verbose       bool
	configPath    string
	preferSource  bool
	preferDist    bool
	vendorDir     string
	noInteraction bool
	refresh       bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "composer",
		Short:        "Composer installs PHP packages from their sources",
		Long:         `Composer resolves PHP packages against a Packagist registry and installs, updates or removes them in the vendor directory, cloning from version control with protocol fallback and credential recovery.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.flags.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	f := root.PersistentFlags()
	f.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging and show git output")
	f.StringVar(&c.flags.configPath, "config", "", "configuration file (default $XDG_CONFIG_HOME/composer/config.toml)")
	f.BoolVar(&c.flags.preferSource, "prefer-source", false, "install packages from version control")
	f.BoolVar(&c.flags.preferDist, "prefer-dist", false, "install packages from distribution archives")
	f.StringVar(&c.flags.vendorDir, "vendor-dir", "", "directory packages are installed into")
	f.BoolVarP(&c.flags.noInteraction, "no-interaction", "n", false, "never ask for credentials")
	f.BoolVar(&c.flags.refresh, "refresh", false, "bypass the registry response cache")

	root.AddCommand(c.installCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration and applies command-line overrides.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{Path: c.flags.configPath, Getenv: c.Getenv})
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("prefer-source") && flags.Changed("prefer-dist") {
		return errors.New(errors.ErrCodeConfiguration, "--prefer-source and --prefer-dist cannot be combined")
	}
	if flags.Changed("prefer-source") {
		cfg.PreferSource, cfg.PreferDist = c.flags.preferSource, false
	}
	if flags.Changed("prefer-dist") {
		cfg.PreferDist, cfg.PreferSource = c.flags.preferDist, false
	}
	if flags.Changed("vendor-dir") {
		cfg.VendorDir = c.flags.vendorDir
	}
	c.Config = cfg
	return cfg.Validate()
}

// =============================================================================
// Acquisition Environment
// =============================================================================

// env is everything one command needs to acquire packages.
type env struct {
	io       console.IO
	session  *session.Session
	store    *session.FileStore
	registry *repository.Packagist
	manager  *downloader.Manager
	logger   *log.Logger
}

// newEnv wires the registry client, the credential session and the download
// manager from the loaded configuration.
func (c *CLI) newEnv(ctx context.Context) (*env, error) {
	logger := loggerFromContext(ctx)

	out := c.IO
	if out == nil {
		out = console.New(os.Stdin, os.Stdout, console.Options{
			Verbose:       c.flags.verbose,
			NoInteraction: c.flags.noInteraction,
		})
	}

	cache, err := newCache(c.Config, c.Getenv)
	if err != nil {
		return nil, err
	}
	client, err := packagist.NewClientWithCache(c.Config.PackagistURL, cache)
	if err != nil {
		return nil, err
	}

	executor := c.Executor
	if executor == nil {
		executor = process.NewOSExecutor(logger, gitEnv...)
	}
	fs := filesystem.NewOS()

	// No archive downloader ships with the tool, so dist is only chosen on
	// request.
	manager := downloader.NewManager(
		downloader.WithPreferSource(c.Config.PreferSource || !c.Config.PreferDist),
		downloader.WithPreferDist(c.Config.PreferDist),
		downloader.WithFilesystem(fs),
		downloader.WithLogger(logger),
	)
	gitDownloader := git.NewDownloader(executor, fs, out, logger, vcs.Providers(c.Config.GithubDomains...)...)
	if err := manager.SetDownloader(downloader.Git, gitDownloader); err != nil {
		return nil, err
	}

	e := &env{
		io:       out,
		session:  session.New(),
		registry: repository.NewPackagist(client, repository.NewLoader(logger), c.flags.refresh),
		manager:  manager,
		logger:   logger,
	}
	if c.Config.StoreAuths {
		dir, err := config.Dir(c.Getenv)
		if err != nil {
			return nil, err
		}
		if e.store, err = session.NewFileStore(dir); err != nil {
			return nil, err
		}
		if err := e.store.Load(ctx, e.session); err != nil {
			return nil, err
		}
	}
	logger.Debug("session started", "id", e.session.ID)
	return e, nil
}

// saveAuths persists the session's credentials when store-auths is enabled.
func (e *env) saveAuths(ctx context.Context) {
	if e.store == nil || len(e.session.Authorizations()) == 0 {
		return
	}
	if err := e.store.Save(ctx, e.session); err != nil {
		e.logger.Warn("could not store credentials", "path", e.store.Path(), "err", err)
	}
}

// packageDir is where name is installed. name must stay inside the vendor
// directory.
func (c *CLI) packageDir(name string) (string, error) {
	if err := errors.ValidatePath(name); err != nil {
		return "", err
	}
	dir := filepath.Join(c.Config.VendorDir, filepath.FromSlash(name))
	if filesystem.NewOS().IsAbsolutePath(dir) {
		return dir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot resolve %s", dir)
	}
	return abs, nil
}

func newCache(cfg config.Config, getenv func(string) string) (*httputil.Cache, error) {
	dir, err := config.CacheDir(getenv)
	if err != nil {
		return nil, err
	}
	cache, err := httputil.NewCache(dir, cfg.CacheTTL.Duration)
	if err != nil {
		return nil, err
	}
	return cache.Namespace("packagist:"), nil
}
