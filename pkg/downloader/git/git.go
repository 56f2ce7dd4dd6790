// Package git installs and updates package sources with the git client.
package git

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/drupalprojects/composer/pkg/console"
	"github.com/drupalprojects/composer/pkg/downloader/vcs"
	"github.com/drupalprojects/composer/pkg/errors"
	"github.com/drupalprojects/composer/pkg/filesystem"
	"github.com/drupalprojects/composer/pkg/packages"
	"github.com/drupalprojects/composer/pkg/process"
	"github.com/drupalprojects/composer/pkg/session"
)

// Tool is the git client binary.
const Tool = "git"

// Remote is the name of the remote that tracks the package's source URL.
const Remote = "composer"

// Driver runs git commands for a vcs.Downloader.
type Driver struct {
	runner *vcs.Runner
	logger *log.Logger
}

var _ vcs.Driver = (*Driver)(nil)

// NewDriver creates a git driver on top of runner. A nil logger uses
// log.Default().
func NewDriver(runner *vcs.Runner, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{runner: runner, logger: logger}
}

// NewDownloader wires a git source downloader: a runner over executor for
// the given hosting providers, the git driver and the shared vcs.Downloader.
func NewDownloader(executor process.Executor, fs *filesystem.Filesystem, io console.IO, logger *log.Logger, providers ...*vcs.Provider) *vcs.Downloader {
	runner := vcs.NewRunner(Tool, executor, fs, io, logger, providers...)
	return vcs.NewDownloader(NewDriver(runner, logger), io, fs, logger)
}

func (d *Driver) DoDownload(ctx context.Context, sess *session.Session, pkg packages.Package, path string) error {
	ref, rawURL := pkg.SourceReference(), pkg.SourceURL()
	if err := validate(ref, rawURL); err != nil {
		return err
	}

	d.runner.IO().Write("    Cloning " + ref)
	build := func(u string) process.Script {
		return process.NewScript(
			process.Cmd(Tool, "clone", u, path),
			process.Cmd(Tool, "checkout", ref).In(path),
			process.Cmd(Tool, "reset", "--hard", ref).In(path),
			process.Cmd(Tool, "remote", "add", Remote, u).In(path),
		)
	}
	if err := d.runner.Run(ctx, sess, build, rawURL, path); err != nil {
		return err
	}

	d.setPushURL(ctx, pkg, path)
	return nil
}

func (d *Driver) DoUpdate(ctx context.Context, sess *session.Session, initial, target packages.Package, path string) error {
	ref, rawURL := target.SourceReference(), target.SourceURL()
	if err := validate(ref, rawURL); err != nil {
		return err
	}

	d.runner.IO().Write("    Checking out " + ref)

	remotes := d.runner.Execute(ctx, process.NewScript(process.Cmd(Tool, "remote", "-v").In(path)))
	if remotes.Success() {
		d.harvestCredentials(sess, remotes.Output)
	}

	// The remote may predate this tool; adding it again fails harmlessly.
	if initialURL := initial.SourceURL(); errors.ValidateSourceURL(initialURL) == nil {
		d.runner.Execute(ctx, process.NewScript(process.Cmd(Tool, "remote", "add", Remote, initialURL).In(path)))
	}

	build := func(u string) process.Script {
		return process.NewScript(
			process.Cmd(Tool, "remote", "set-url", Remote, u).In(path),
			process.Cmd(Tool, "fetch", Remote).In(path),
			process.Cmd(Tool, "fetch", "--tags", Remote).In(path),
			process.Cmd(Tool, "checkout", ref).In(path),
			process.Cmd(Tool, "reset", "--hard", ref).In(path),
		)
	}
	return d.runner.Run(ctx, sess, build, rawURL, "")
}

func (d *Driver) EnforceCleanDirectory(ctx context.Context, path string) error {
	script := process.NewScript(process.Cmd(Tool, "status", "--porcelain", "--untracked-files=no").In(path))
	res := d.runner.Execute(ctx, script)
	if !res.Success() {
		return errors.New(errors.ErrCodeProcessFailure, "failed to execute %s\n\n%s", script, res.ErrorOutput)
	}

	for _, line := range res.Lines() {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "??") {
			return errors.New(errors.ErrCodeDirtyWorkingTree, "source directory %s has uncommitted changes", path)
		}
	}
	return nil
}

// harvestCredentials copies credentials embedded in the composer remote's
// HTTPS URL into the session, so later attempts against the same host can
// reuse them.
func (d *Driver) harvestCredentials(sess *session.Session, remotes string) {
	for _, p := range d.runner.Providers {
		re := regexp.MustCompile(`(?im)^` + Remote + `\s+https://(.+):(.+)@` + regexp.QuoteMeta(p.Host()) + `/`)
		m := re.FindStringSubmatch(remotes)
		if m == nil {
			continue
		}
		sess.SetAuthorization(p.Host(), unescape(m[1]), unescape(m[2]))
		d.logger.Debug("reusing credentials from remote", "host", p.Host())
	}
}

// setPushURL points origin's push URL at the SSH form of a public provider
// URL. Failures are ignored.
func (d *Driver) setPushURL(ctx context.Context, pkg packages.Package, path string) {
	for _, p := range d.runner.Providers {
		push, ok := p.PushURL(pkg.SourceURL())
		if !ok {
			continue
		}
		res := d.runner.Execute(ctx, process.NewScript(process.Cmd(Tool, "remote", "set-url", "--push", "origin", push).In(path)))
		if !res.Success() {
			d.logger.Debug("could not set push URL", "url", push, "exit", res.ExitCode)
		}
		return
	}
}

func validate(ref, rawURL string) error {
	if err := errors.ValidateReference(ref); err != nil {
		return err
	}
	return errors.ValidateSourceURL(rawURL)
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
